package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardIndexRoundTrip(t *testing.T) {
	board := NewBoard(BoardSize{X: 2, Y: 3, Z: 4, W: 5})
	require.Equal(t, 120, board.Volume())
	seen := map[int]bool{}
	for i := 0; i < board.Volume(); i++ {
		m := board.MoveAt(i)
		require.True(t, board.InBounds(m))
		require.Equal(t, i, board.Index(m))
		seen[i] = true
	}
	assert.Len(t, seen, 120)
}

func TestBoardCenterFloorsEachAxis(t *testing.T) {
	assert.Equal(t, NewMove(4, 4, 4, 4), NewBoard(UniformSize(9)).Center())
	assert.Equal(t, NewMove(2, 2, 3, 3), NewBoard(BoardSize{X: 4, Y: 5, Z: 6, W: 7}).Center())
	assert.Equal(t, NewMove(0, 0, 0, 0), NewBoard(UniformSize(1)).Center())
}

func TestBoardCloneIsIndependent(t *testing.T) {
	board := NewBoard(UniformSize(3))
	board.Set(NewMove(1, 1, 1, 1), CellBlack)
	clone := board.Clone()
	clone.Set(NewMove(0, 0, 0, 0), CellWhite)
	clone.Remove(NewMove(1, 1, 1, 1))

	assert.Equal(t, CellBlack, board.At(NewMove(1, 1, 1, 1)))
	assert.Equal(t, CellEmpty, board.At(NewMove(0, 0, 0, 0)))
	assert.Equal(t, 1, board.CountStones())
}

func TestBoardBounds(t *testing.T) {
	board := NewBoard(BoardSize{X: 2, Y: 2, Z: 2, W: 3})
	assert.True(t, board.InBounds(NewMove(1, 1, 1, 2)))
	assert.False(t, board.InBounds(NewMove(1, 1, 1, 3)))
	assert.False(t, board.InBounds(NewMove(-1, 0, 0, 0)))
	assert.False(t, board.IsEmpty(NewMove(2, 0, 0, 0)))
}

func TestBoardSizeValidate(t *testing.T) {
	require.NoError(t, UniformSize(1).Validate())
	require.NoError(t, UniformSize(15).Validate())
	for _, bad := range []BoardSize{UniformSize(0), UniformSize(16), {X: 9, Y: 9, Z: 9, W: 0}} {
		err := bad.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidBoardSize))
	}
}

func TestCellSetDeduplicates(t *testing.T) {
	set := newCellSet(130)
	assert.True(t, set.add(0))
	assert.True(t, set.add(64))
	assert.True(t, set.add(129))
	assert.False(t, set.add(64))
	assert.True(t, set.has(129))
	assert.False(t, set.has(128))
}
