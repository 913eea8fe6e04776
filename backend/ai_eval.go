package main

import "math"

const (
	ScoreWin       = 1_000_000.0
	ScoreFourOpen  = 10_000.0
	ScoreFourHalf  = 1_000.0
	ScoreThreeOpen = 100.0
	ScoreThreeHalf = 10.0
	ScoreTwoOpen   = 5.0
	ScoreTwoHalf   = 1.0

	opponentWeight  = 0.9
	centralityBase  = 16.0
	centralityScale = 0.1
)

// LineInfo is a run through one cell along one direction.
type LineInfo struct {
	Count    int
	OpenEnds int
}

// ScoreLine maps a run to its heuristic value.
func ScoreLine(info LineInfo) float64 {
	if info.Count >= WinLength {
		return ScoreWin
	}
	if info.OpenEnds == 0 {
		return 0
	}
	open := info.OpenEnds == 2
	switch info.Count {
	case 4:
		if open {
			return ScoreFourOpen
		}
		return ScoreFourHalf
	case 3:
		if open {
			return ScoreThreeOpen
		}
		return ScoreThreeHalf
	case 2:
		if open {
			return ScoreTwoOpen
		}
		return ScoreTwoHalf
	default:
		return 0
	}
}

// lineInfo treats origin as holding cell and looks at most four steps each way.
func lineInfo(board Board, origin Move, dir Direction, cell Cell) LineInfo {
	info := LineInfo{Count: 1}
	for _, d := range [2]Direction{dir, dir.Negate()} {
		stones, open := sideRun(board, origin, d, cell)
		info.Count += stones
		if open {
			info.OpenEnds++
		}
	}
	return info
}

// sideRun walks away from origin. The side is open unless the run stops at
// the edge or an opponent stone.
func sideRun(board Board, origin Move, dir Direction, cell Cell) (int, bool) {
	stones := 0
	for i := 1; i < WinLength; i++ {
		next := origin.Step(dir, i)
		if !board.InBounds(next) {
			return stones, false
		}
		c := board.At(next)
		if c == cell {
			stones++
			continue
		}
		return stones, c == CellEmpty
	}
	return stones, true
}

// MoveScore rates an empty cell for ordering: own lines plus the opponent's
// lines it would block, and a pull toward the centre.
func MoveScore(board Board, move Move, player PlayerColor) float64 {
	own := CellFromPlayer(player)
	opp := CellFromPlayer(otherPlayer(player))
	score := 0.0
	for _, dir := range lineDirections {
		score += ScoreLine(lineInfo(board, move, dir, own))
		score += ScoreLine(lineInfo(board, move, dir, opp)) * opponentWeight
	}
	return score + centralityBonus(board.Size(), move)
}

func centralityBonus(size BoardSize, move Move) float64 {
	dist := math.Abs(float64(move.X)-float64(size.X-1)/2) +
		math.Abs(float64(move.Y)-float64(size.Y-1)/2) +
		math.Abs(float64(move.Z)-float64(size.Z-1)/2) +
		math.Abs(float64(move.W)-float64(size.W-1)/2)
	return (centralityBase - dist) * centralityScale
}

// EvaluatePosition scores every (stone, direction) pair once and returns the
// AI total minus the opponent total.
func EvaluatePosition(board Board, aiPlayer PlayerColor) float64 {
	aiCell := CellFromPlayer(aiPlayer)
	aiScore, oppScore := 0.0, 0.0
	for i, cell := range board.cells {
		if cell == CellEmpty {
			continue
		}
		origin := board.MoveAt(i)
		for _, dir := range lineDirections {
			value := ScoreLine(lineInfo(board, origin, dir, cell))
			if cell == aiCell {
				aiScore += value
			} else {
				oppScore += value
			}
		}
	}
	return aiScore - oppScore
}
