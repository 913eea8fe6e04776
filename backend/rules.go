package main

import "fmt"

const WinLength = 5

type Rules struct {
	settings GameSettings
}

func NewRules(settings GameSettings) Rules {
	return Rules{settings: settings}
}

func (r Rules) Settings() GameSettings {
	return r.settings
}

// ForbidsDoubleThree reports whether the double-three restriction binds player.
func (r Rules) ForbidsDoubleThree(player PlayerColor) bool {
	return player == PlayerBlack && r.settings.ForbidDoubleThreeBlack
}

// PlaceStone applies move for the side to move. A rejected placement returns
// false and leaves state untouched.
func (r Rules) PlaceStone(state *GameState, move Move) bool {
	return r.placeStone(state, move, false)
}

// PlaceStoneUnchecked is PlaceStone without the double-three test.
func (r Rules) PlaceStoneUnchecked(state *GameState, move Move) bool {
	return r.placeStone(state, move, true)
}

func (r Rules) placeStone(state *GameState, move Move, skipForbiddenCheck bool) bool {
	if state.IsDecided() {
		return false
	}
	if !state.Board.IsEmpty(move) {
		return false
	}
	if !skipForbiddenCheck && r.IsProhibitedMove(*state, move) {
		return false
	}
	r.apply(state, move)
	return true
}

// CheckPlacement is the interactive legality check. On top of the rule engine
// it enforces sticky adjacency for every stone after the first.
func (r Rules) CheckPlacement(state GameState, move Move) (bool, string) {
	if state.IsDecided() {
		return false, "game over"
	}
	if !state.Board.InBounds(move) {
		return false, "out of bounds"
	}
	if state.Board.At(move) != CellEmpty {
		return false, "occupied"
	}
	if state.Adjacency == AdjacencySticky && state.MoveCount > 0 && !r.HasAdjacentStone(state.Board, move) {
		return false, "not adjacent"
	}
	if r.IsProhibitedMove(state, move) {
		return false, "forbidden double three"
	}
	return true, ""
}

// undoRecord holds what apply overwrote, enough to step back one ply.
type undoRecord struct {
	move        Move
	toMove      PlayerColor
	status      GameStatus
	hasLastMove bool
	lastMove    Move
	winningLine []Move
}

func (r Rules) apply(state *GameState, move Move) undoRecord {
	undo := undoRecord{
		move:        move,
		toMove:      state.ToMove,
		status:      state.Status,
		hasLastMove: state.HasLastMove,
		lastMove:    state.LastMove,
		winningLine: state.WinningLine,
	}
	player := state.ToMove
	state.Board.Set(move, CellFromPlayer(player))
	state.History.Push(HistoryEntry{Move: move, Player: player})
	state.LastMove = move
	state.HasLastMove = true
	state.MoveCount++
	if dir, ok := r.winningDirection(state.Board, move); ok {
		state.Status = wonStatus(player)
		state.WinningLine = r.collectLine(state.Board, move, dir)
		return undo
	}
	if state.MoveCount >= state.Board.Volume() {
		state.Status = StatusDraw
		return undo
	}
	state.ToMove = otherPlayer(player)
	return undo
}

func (r Rules) unapply(state *GameState, undo undoRecord) {
	state.Board.Remove(undo.move)
	state.History.pop()
	state.MoveCount--
	state.ToMove = undo.toMove
	state.Status = undo.status
	state.HasLastMove = undo.hasLastMove
	state.LastMove = undo.lastMove
	state.WinningLine = undo.winningLine
}

func (r Rules) IsWin(board Board, lastMove Move) bool {
	_, ok := r.winningDirection(board, lastMove)
	return ok
}

// FindWinningLine returns the full run through lastMove along the first
// direction, in table order, that holds five or more.
func (r Rules) FindWinningLine(board Board, lastMove Move) ([]Move, bool) {
	dir, ok := r.winningDirection(board, lastMove)
	if !ok {
		return []Move{}, false
	}
	return r.collectLine(board, lastMove, dir), true
}

func (r Rules) IsDraw(board Board) bool {
	return board.CountEmpty() == 0
}

// WouldWin tests move for the side to move without changing state.
func (r Rules) WouldWin(state GameState, move Move) bool {
	return r.wouldWinFor(state.Board, move, state.ToMove)
}

func (r Rules) wouldWinFor(board Board, move Move, player PlayerColor) bool {
	if !board.IsEmpty(move) {
		return false
	}
	board.Set(move, CellFromPlayer(player))
	win := r.IsWin(board, move)
	board.Remove(move)
	return win
}

// IsProhibitedMove reports a double-three for black that does not also win.
func (r Rules) IsProhibitedMove(state GameState, move Move) bool {
	if !r.ForbidsDoubleThree(state.ToMove) {
		return false
	}
	if !state.Board.IsEmpty(move) {
		return false
	}
	// Both probes set and remove the stone on the shared cells.
	if !r.IsForbiddenDoubleThree(state.Board, move, state.ToMove) {
		return false
	}
	return !r.wouldWinFor(state.Board, move, state.ToMove)
}

func (r Rules) IsForbiddenDoubleThree(board Board, move Move, player PlayerColor) bool {
	cell := CellFromPlayer(player)
	board.Set(move, cell)
	openThrees := 0
	for _, dir := range lineDirections {
		if r.isOpenThree(board, move, dir, cell) {
			openThrees++
			if openThrees >= 2 {
				break
			}
		}
	}
	board.Remove(move)
	return openThrees >= 2
}

// HasAdjacentStone is the von Neumann neighbour test.
func (r Rules) HasAdjacentStone(board Board, move Move) bool {
	for _, dir := range neumannDirections {
		n := move.Step(dir, 1)
		if board.InBounds(n) && board.At(n) != CellEmpty {
			return true
		}
	}
	return false
}

func (r Rules) String() string {
	return fmt.Sprintf("Rules{size=%s, adjacency=%s, forbid_black=%t}",
		r.settings.Size, r.settings.Adjacency, r.settings.ForbidDoubleThreeBlack)
}

func (r Rules) winningDirection(board Board, lastMove Move) (Direction, bool) {
	if !board.InBounds(lastMove) {
		return Direction{}, false
	}
	target := board.At(lastMove)
	if target == CellEmpty {
		return Direction{}, false
	}
	for _, dir := range lineDirections {
		count := 1
		count += r.countDirection(board, lastMove, dir, target)
		count += r.countDirection(board, lastMove, dir.Negate(), target)
		if count >= WinLength {
			return dir, true
		}
	}
	return Direction{}, false
}

func (r Rules) countDirection(board Board, start Move, dir Direction, target Cell) int {
	count := 0
	for next := start.Step(dir, 1); board.Owns(next, target); next = next.Step(dir, 1) {
		count++
	}
	return count
}

// collectLine returns the run through start ordered from the negative end.
func (r Rules) collectLine(board Board, start Move, dir Direction) []Move {
	target := board.At(start)
	back := dir.Negate()
	first := start
	for board.Owns(first.Step(back, 1), target) {
		first = first.Step(back, 1)
	}
	line := []Move{}
	for m := first; board.Owns(m, target); m = m.Step(dir, 1) {
		line = append(line, m)
	}
	return line
}

// isOpenThree: exactly three in a row through move with an empty cell right
// past both ends. Two stones plus two gaps always leave room for five.
func (r Rules) isOpenThree(board Board, move Move, dir Direction, cell Cell) bool {
	forward, forwardOpen := r.runEnd(board, move, dir, cell)
	backward, backwardOpen := r.runEnd(board, move, dir.Negate(), cell)
	return 1+forward+backward == 3 && forwardOpen && backwardOpen
}

func (r Rules) runEnd(board Board, start Move, dir Direction, cell Cell) (int, bool) {
	stones := 0
	next := start.Step(dir, 1)
	for board.Owns(next, cell) {
		stones++
		next = next.Step(dir, 1)
	}
	return stones, board.IsEmpty(next)
}
