package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreLineTable(t *testing.T) {
	cases := []struct {
		info LineInfo
		want float64
	}{
		{LineInfo{Count: 5, OpenEnds: 0}, ScoreWin},
		{LineInfo{Count: 7, OpenEnds: 2}, ScoreWin},
		{LineInfo{Count: 4, OpenEnds: 2}, 10_000},
		{LineInfo{Count: 4, OpenEnds: 1}, 1_000},
		{LineInfo{Count: 4, OpenEnds: 0}, 0},
		{LineInfo{Count: 3, OpenEnds: 2}, 100},
		{LineInfo{Count: 3, OpenEnds: 1}, 10},
		{LineInfo{Count: 2, OpenEnds: 2}, 5},
		{LineInfo{Count: 2, OpenEnds: 1}, 1},
		{LineInfo{Count: 1, OpenEnds: 2}, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ScoreLine(tc.info), "%+v", tc.info)
	}
}

func TestLineInfoOpenEnds(t *testing.T) {
	board := NewBoard(UniformSize(9))
	board.Set(NewMove(3, 4, 4, 4), CellBlack)
	board.Set(NewMove(5, 4, 4, 4), CellBlack)
	assert.Equal(t, LineInfo{Count: 3, OpenEnds: 2}, lineInfo(board, NewMove(4, 4, 4, 4), axisX, CellBlack))

	board.Set(NewMove(6, 4, 4, 4), CellWhite)
	assert.Equal(t, LineInfo{Count: 3, OpenEnds: 1}, lineInfo(board, NewMove(4, 4, 4, 4), axisX, CellBlack))

	edge := NewBoard(UniformSize(9))
	edge.Set(NewMove(0, 0, 0, 0), CellWhite)
	edge.Set(NewMove(0, 0, 0, 1), CellWhite)
	assert.Equal(t, LineInfo{Count: 3, OpenEnds: 1}, lineInfo(edge, NewMove(0, 0, 0, 2), axisW, CellWhite))
	assert.Equal(t, LineInfo{Count: 1, OpenEnds: 1}, lineInfo(edge, NewMove(0, 0, 0, 2), axisX, CellBlack))
}

func TestLineInfoLooksFourStepsEachWay(t *testing.T) {
	board := NewBoard(UniformSize(12))
	for x := 0; x < 12; x++ {
		if x != 6 {
			board.Set(NewMove(x, 0, 0, 0), CellBlack)
		}
	}
	info := lineInfo(board, NewMove(6, 0, 0, 0), axisX, CellBlack)
	assert.Equal(t, 9, info.Count)
	assert.Equal(t, ScoreWin, ScoreLine(info))
}

func TestMoveScoreCentrality(t *testing.T) {
	board := NewBoard(UniformSize(9))
	assert.InDelta(t, 1.6, MoveScore(board, NewMove(4, 4, 4, 4), PlayerBlack), 1e-9)
	assert.InDelta(t, 0.0, MoveScore(board, NewMove(0, 0, 0, 0), PlayerBlack), 1e-9)

	even := NewBoard(UniformSize(4))
	assert.InDelta(t, 1.4, MoveScore(even, NewMove(1, 1, 2, 2), PlayerWhite), 1e-9)
}

func TestMoveScoreWeighsBlocksBelowOwnLines(t *testing.T) {
	board := NewBoard(UniformSize(9))
	board.Set(NewMove(3, 4, 4, 4), CellBlack)
	board.Set(NewMove(5, 4, 4, 4), CellBlack)
	move := NewMove(4, 4, 4, 4)

	own := MoveScore(board, move, PlayerBlack)
	block := MoveScore(board, move, PlayerWhite)
	assert.InDelta(t, 100+1.6, own, 1e-9)
	assert.InDelta(t, 90+1.6, block, 1e-9)
}

func TestEvaluatePositionIsZeroSum(t *testing.T) {
	board := NewBoard(UniformSize(9))
	assert.Equal(t, 0.0, EvaluatePosition(board, PlayerBlack))

	board.Set(NewMove(4, 4, 4, 4), CellBlack)
	assert.Equal(t, 0.0, EvaluatePosition(board, PlayerBlack))

	board.Set(NewMove(5, 4, 4, 4), CellBlack)
	// Each stone sees an open two along x.
	assert.Equal(t, 10.0, EvaluatePosition(board, PlayerBlack))
	assert.Equal(t, -10.0, EvaluatePosition(board, PlayerWhite))
}

func TestEvaluatePositionFavoursStrongerSide(t *testing.T) {
	board := NewBoard(UniformSize(9))
	for _, m := range line(NewMove(2, 2, 2, 2), axisY, 3) {
		board.Set(m, CellWhite)
	}
	board.Set(NewMove(6, 6, 6, 6), CellBlack)
	board.Set(NewMove(6, 6, 6, 7), CellBlack)

	assert.Greater(t, EvaluatePosition(board, PlayerWhite), 0.0)
	assert.Less(t, EvaluatePosition(board, PlayerBlack), 0.0)
}
