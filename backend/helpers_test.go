package main

import (
	"testing"
	"time"
)

const (
	waitFor   = 5 * time.Second
	pollEvery = 5 * time.Millisecond
)

func testSettings(n int) GameSettings {
	settings := DefaultGameSettings()
	settings.Size = UniformSize(n)
	return settings
}

// seedStones writes stones straight onto the board, keeping MoveCount in
// step, without touching the side to move.
func seedStones(t *testing.T, state *GameState, cell Cell, moves ...Move) {
	t.Helper()
	for _, m := range moves {
		if !state.Board.IsEmpty(m) {
			t.Fatalf("seed %s: cell not empty or out of bounds", m)
		}
		state.Board.Set(m, cell)
		state.MoveCount++
	}
}

func line(from Move, dir Direction, n int) []Move {
	moves := make([]Move, 0, n)
	for i := 0; i < n; i++ {
		moves = append(moves, from.Step(dir, i))
	}
	return moves
}

var (
	axisX = Direction{1, 0, 0, 0}
	axisY = Direction{0, 1, 0, 0}
	axisZ = Direction{0, 0, 1, 0}
	axisW = Direction{0, 0, 0, 1}
)
