package main

import "sort"

const (
	DefaultCandidateRadius = 2
	DefaultCandidateLimit  = 30
)

// CandidateLimits bounds candidate generation: the Moore radius used in free
// mode and the number of ordered moves kept.
type CandidateLimits struct {
	Radius int `json:"radius"`
	Limit  int `json:"limit"`
}

func DefaultCandidateLimits() CandidateLimits {
	return CandidateLimits{Radius: DefaultCandidateRadius, Limit: DefaultCandidateLimit}
}

// GetValidMoves scans every empty cell in index order. Unless includeForbidden
// is set, double-three moves of a restricted mover are dropped.
func GetValidMoves(state GameState, rules Rules, includeForbidden bool) []Move {
	board := state.Board
	moves := []Move{}
	for i := 0; i < board.Volume(); i++ {
		move := board.MoveAt(i)
		if board.At(move) != CellEmpty {
			continue
		}
		if !includeForbidden && rules.IsProhibitedMove(state, move) {
			continue
		}
		moves = append(moves, move)
	}
	return moves
}

// playableMoves is GetValidMoves narrowed by the sticky rule, so every move
// it returns passes CheckPlacement.
func playableMoves(state GameState, rules Rules) []Move {
	moves := GetValidMoves(state, rules, false)
	if state.Adjacency != AdjacencySticky || state.MoveCount == 0 {
		return moves
	}
	playable := moves[:0]
	for _, move := range moves {
		if rules.HasAdjacentStone(state.Board, move) {
			playable = append(playable, move)
		}
	}
	return playable
}

// GetCandidateMoves returns empty cells near existing stones, best first.
func GetCandidateMoves(state GameState, rules Rules, limits CandidateLimits) []Move {
	board := state.Board
	sticky := state.Adjacency == AdjacencySticky && state.MoveCount > 0
	seen := newCellSet(board.Volume())
	moves := []Move{}
	var offsets []Move
	if !sticky {
		offsets = mooreOffsets(limits.Radius)
	}
	for i := 0; i < board.Volume(); i++ {
		if board.cells[i] == CellEmpty {
			continue
		}
		origin := board.MoveAt(i)
		if sticky {
			for _, dir := range neumannDirections {
				moves = appendCandidate(moves, seen, board, origin.Step(dir, 1))
			}
			continue
		}
		for _, off := range offsets {
			moves = appendCandidate(moves, seen, board, origin.offset(off))
		}
	}

	filtered := moves[:0]
	for _, move := range moves {
		if sticky && !rules.HasAdjacentStone(board, move) {
			continue
		}
		if rules.IsProhibitedMove(state, move) {
			continue
		}
		filtered = append(filtered, move)
	}
	return orderMoves(board, filtered, state.ToMove, limits.Limit)
}

func appendCandidate(moves []Move, seen cellSet, board Board, move Move) []Move {
	if !board.IsEmpty(move) {
		return moves
	}
	if !seen.add(board.Index(move)) {
		return moves
	}
	return append(moves, move)
}

type scoredMove struct {
	move  Move
	score float64
}

// orderMoves sorts by MoveScore, highest first; ties keep generation order.
func orderMoves(board Board, moves []Move, player PlayerColor, limit int) []Move {
	scored := make([]scoredMove, len(moves))
	for i, move := range moves {
		scored[i] = scoredMove{move: move, score: MoveScore(board, move, player)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	ordered := make([]Move, len(scored))
	for i, s := range scored {
		ordered[i] = s.move
	}
	return ordered
}

// mooreOffsets lists every offset of the Chebyshev ball of radius r,
// the origin included, with w varying fastest.
func mooreOffsets(r int) []Move {
	if r < 0 {
		r = 0
	}
	side := 2*r + 1
	offsets := make([]Move, 0, side*side*side*side)
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			for dz := -r; dz <= r; dz++ {
				for dw := -r; dw <= r; dw++ {
					offsets = append(offsets, Move{X: dx, Y: dy, Z: dz, W: dw})
				}
			}
		}
	}
	return offsets
}

func (m Move) offset(o Move) Move {
	return Move{X: m.X + o.X, Y: m.Y + o.Y, Z: m.Z + o.Z, W: m.W + o.W}
}
