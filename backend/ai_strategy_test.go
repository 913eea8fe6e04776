package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryListsStrategiesInOrder(t *testing.T) {
	registry := DefaultStrategyRegistry()
	infos := registry.List()
	require.Len(t, infos, 4)

	ids := make([]string, len(infos))
	for i, info := range infos {
		ids[i] = info.ID
		assert.NotEmpty(t, info.Name)
		assert.NotEmpty(t, info.Description)
	}
	assert.Equal(t, []string{StrategyRandom, StrategyMinimaxEasy, StrategyMinimaxMedium, StrategyMinimaxHard}, ids)
	assert.Equal(t, []string{StrategyMinimaxEasy, StrategyMinimaxHard, StrategyMinimaxMedium, StrategyRandom}, registry.IDs())
}

func TestRegistryGetUnknown(t *testing.T) {
	_, err := DefaultStrategyRegistry().Get("alphazero")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownStrategy))
}

func TestRegistryRejectsNilStrategy(t *testing.T) {
	registry := NewStrategyRegistry()
	err := registry.Register("ghost", nil)
	assert.True(t, errors.Is(err, ErrStrategyUnavailable))
	assert.Empty(t, registry.List())
}

func TestRegistryForDepth(t *testing.T) {
	registry := DefaultStrategyRegistry()
	for depth := MinSearchDepth; depth <= MaxSearchDepth; depth++ {
		strategy, err := registry.ForDepth(depth)
		require.NoError(t, err)
		mm, ok := strategy.(MinimaxStrategy)
		require.True(t, ok)
		assert.Equal(t, depth, mm.Depth)
	}
	for _, bad := range []int{0, 4, -1} {
		_, err := registry.ForDepth(bad)
		assert.True(t, errors.Is(err, ErrInvalidDepth), "depth %d", bad)
	}
}

func TestRandomStrategyPlaysValidMove(t *testing.T) {
	settings := testSettings(3)
	rules := NewRules(settings)
	state := NewGameState(settings)
	seedStones(t, &state, CellBlack, NewMove(1, 1, 1, 1))
	state.ToMove = PlayerWhite

	for i := 0; i < 20; i++ {
		move, ok := RandomStrategy{}.BestMove(state, rules)
		require.True(t, ok)
		assert.True(t, state.Board.IsEmpty(move))
	}

	full := NewGameState(testSettings(1))
	seedStones(t, &full, CellBlack, NewMove(0, 0, 0, 0))
	_, ok := RandomStrategy{}.BestMove(full, NewRules(testSettings(1)))
	assert.False(t, ok)
}

func TestMinimaxStrategyMatchesGetBestMove(t *testing.T) {
	settings := testSettings(5)
	rules := NewRules(settings)
	state := NewGameState(settings)
	seedStones(t, &state, CellBlack, NewMove(2, 2, 2, 2))
	state.ToMove = PlayerWhite

	strategy := NewMinimaxStrategy(1)
	move, ok := strategy.BestMove(state, rules)
	require.True(t, ok)

	plain, _ := GetBestMove(state, rules, 1, GetConfig().CandidateLimits())
	assert.Equal(t, plain, move)
}

func TestMinimaxStrategyLimits(t *testing.T) {
	assert.Equal(t, GetConfig().CandidateLimits(), NewMinimaxStrategy(2).limits())
	pinned := NewMinimaxStrategy(2).WithLimits(CandidateLimits{Radius: 1, Limit: 8})
	assert.Equal(t, CandidateLimits{Radius: 1, Limit: 8}, pinned.limits())
	assert.Contains(t, pinned.Description(), "top 8")
}

func TestRandomStrategyHonoursStickyAdjacency(t *testing.T) {
	settings := testSettings(5)
	settings.Adjacency = AdjacencySticky
	rules := NewRules(settings)
	state := NewGameState(settings)
	require.True(t, rules.PlaceStone(&state, NewMove(0, 0, 0, 0)))

	assert.Len(t, playableMoves(state, rules), 4)
	for i := 0; i < 20; i++ {
		move, ok := RandomStrategy{}.BestMove(state, rules)
		require.True(t, ok)
		placed, reason := rules.CheckPlacement(state, move)
		assert.True(t, placed, reason)
	}
}
