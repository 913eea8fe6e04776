package main

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panicStrategy struct {
	remaining *atomic.Int32
}

func (panicStrategy) Name() string        { return "panic" }
func (panicStrategy) Description() string { return "panics while budget lasts" }

func (p panicStrategy) BestMove(state GameState, rules Rules) (Move, bool) {
	if p.remaining.Add(-1) >= 0 {
		panic("search blew up")
	}
	return RandomStrategy{}.BestMove(state, rules)
}

func workerTestRegistry(panics int32) *StrategyRegistry {
	registry := DefaultStrategyRegistry()
	remaining := &atomic.Int32{}
	remaining.Store(panics)
	_ = registry.Register("panic", panicStrategy{remaining: remaining})
	return registry
}

func openingSnapshot(t *testing.T) StateSnapshot {
	t.Helper()
	settings := testSettings(5)
	rules := NewRules(settings)
	state := NewGameState(settings)
	require.True(t, rules.PlaceStone(&state, NewMove(2, 2, 2, 2)))
	return SnapshotFromState(state, rules)
}

func TestSnapshotRoundTrip(t *testing.T) {
	settings := testSettings(5)
	settings.Adjacency = AdjacencySticky
	rules := NewRules(settings)
	state := NewGameState(settings)
	require.True(t, rules.PlaceStone(&state, NewMove(2, 2, 2, 2)))
	require.True(t, rules.PlaceStone(&state, NewMove(2, 2, 2, 3)))

	restored, restoredRules, err := SnapshotFromState(state, rules).Restore()
	require.NoError(t, err)
	assert.Equal(t, state.Board.Cells(), restored.Board.Cells())
	assert.Equal(t, state.ToMove, restored.ToMove)
	assert.Equal(t, state.MoveCount, restored.MoveCount)
	assert.Equal(t, AdjacencySticky, restored.Adjacency)
	assert.Equal(t, StatusRunning, restored.Status)
	assert.True(t, restoredRules.Settings().ForbidDoubleThreeBlack)
}

func TestSnapshotRestoreRejectsBadInput(t *testing.T) {
	good := openingSnapshot(t)
	cases := map[string]func(s *StateSnapshot){
		"size":       func(s *StateSnapshot) { s.Size = UniformSize(0) },
		"cells":      func(s *StateSnapshot) { s.Cells = s.Cells[:10] },
		"to move":    func(s *StateSnapshot) { s.ToMove = 3 },
		"cell value": func(s *StateSnapshot) { s.Cells[0] = 7 },
		"move count": func(s *StateSnapshot) { s.MoveCount = 4 },
		"adjacency":  func(s *StateSnapshot) { s.Adjacency = AdjacencyMode(9) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			snap := good
			snap.Cells = append([]int(nil), good.Cells...)
			mutate(&snap)
			_, _, err := snap.Restore()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSnapshot))
		})
	}
}

func TestWorkerSubmit(t *testing.T) {
	registry := DefaultStrategyRegistry()
	worker := NewSearchWorker(registry)
	defer worker.Close()

	req := SearchRequest{ID: uuid.New(), StrategyID: StrategyMinimaxEasy, Snapshot: openingSnapshot(t)}
	resp, err := worker.Submit(req)
	require.NoError(t, err)
	assert.Equal(t, req.ID, resp.ID)
	require.True(t, resp.HasMove)
	assert.Equal(t, 1, resp.Depth)

	direct := ComputeBestMove(registry, req)
	require.NoError(t, direct.Err)
	assert.Equal(t, direct.Move, resp.Move)

	random := ComputeBestMove(registry, SearchRequest{StrategyID: StrategyRandom, Snapshot: openingSnapshot(t)})
	require.True(t, random.HasMove)
	assert.Zero(t, random.Depth)
}

func TestWorkerSubmitByDepth(t *testing.T) {
	worker := NewSearchWorker(DefaultStrategyRegistry())
	defer worker.Close()

	resp, err := worker.Submit(SearchRequest{Depth: 2, Snapshot: openingSnapshot(t)})
	require.NoError(t, err)
	assert.True(t, resp.HasMove)
	assert.Equal(t, 2, resp.Depth)

	_, err = worker.Submit(SearchRequest{Depth: 5, Snapshot: openingSnapshot(t)})
	assert.True(t, errors.Is(err, ErrInvalidDepth))
}

func TestWorkerRecoversFromPanic(t *testing.T) {
	worker := NewSearchWorker(workerTestRegistry(1))
	defer worker.Close()

	_, err := worker.Submit(SearchRequest{StrategyID: "panic", Snapshot: openingSnapshot(t)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWorkerFailed))

	resp, err := worker.Submit(SearchRequest{StrategyID: StrategyRandom, Snapshot: openingSnapshot(t)})
	require.NoError(t, err)
	assert.True(t, resp.HasMove)
}

func TestRequestBestMoveDoesNotRetryPanickingSearch(t *testing.T) {
	registry := workerTestRegistry(2)
	worker := NewSearchWorker(registry)
	defer worker.Close()

	for i := 0; i < 2; i++ {
		var (
			resp SearchResponse
			err  error
		)
		require.NotPanics(t, func() {
			resp, err = RequestBestMove(worker, registry, SearchRequest{StrategyID: "panic", Snapshot: openingSnapshot(t)})
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrWorkerFailed))
		assert.False(t, resp.HasMove)
		assert.NotEqual(t, uuid.Nil, resp.ID)
	}

	resp, err := RequestBestMove(worker, registry, SearchRequest{StrategyID: "panic", Snapshot: openingSnapshot(t)})
	require.NoError(t, err)
	assert.True(t, resp.HasMove)
}

func TestAIPlayerReportsNoMoveWhenSearchPanics(t *testing.T) {
	settings := testSettings(5)
	rules := NewRules(settings)
	state := NewGameState(settings)
	require.True(t, rules.PlaceStone(&state, NewMove(2, 2, 2, 2)))

	registry := workerTestRegistry(2)
	worker := NewSearchWorker(registry)
	defer worker.Close()
	player := NewAIPlayer("panic", registry, worker)

	player.StartThinking(state.Clone(), rules)
	require.Eventually(t, player.HasMoveReady, waitFor, pollEvery)
	_, ok := player.TakeMove()
	assert.False(t, ok)

	_, ok = player.ChooseMove(state, rules)
	assert.False(t, ok)
}

func TestSnapshotRestoreMarksExistingFive(t *testing.T) {
	settings := testSettings(5)
	rules := NewRules(settings)
	state := NewGameState(settings)
	for i := 0; i < 4; i++ {
		require.True(t, rules.PlaceStone(&state, NewMove(i, 0, 0, 0)))
		require.True(t, rules.PlaceStone(&state, NewMove(i, 4, 4, 4)))
	}
	snap := SnapshotFromState(state, rules)
	snap.Cells[state.Board.Index(NewMove(4, 0, 0, 0))] = 1
	snap.MoveCount++

	restored, _, err := snap.Restore()
	require.NoError(t, err)
	assert.Equal(t, StatusBlackWon, restored.Status)
	assert.Len(t, restored.WinningLine, 5)

	resp := ComputeBestMove(DefaultStrategyRegistry(), SearchRequest{StrategyID: StrategyMinimaxEasy, Snapshot: snap})
	require.NoError(t, resp.Err)
	assert.False(t, resp.HasMove)

	open, _, err := SnapshotFromState(state, rules).Restore()
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, open.Status)
}

func TestRequestBestMoveFallsBackWhenWorkerClosed(t *testing.T) {
	registry := DefaultStrategyRegistry()
	worker := NewSearchWorker(registry)
	worker.Close()
	worker.Close()

	_, err := worker.Submit(SearchRequest{StrategyID: StrategyRandom, Snapshot: openingSnapshot(t)})
	assert.True(t, errors.Is(err, ErrWorkerClosed))

	resp, err := RequestBestMove(worker, registry, SearchRequest{StrategyID: StrategyMinimaxEasy, Snapshot: openingSnapshot(t)})
	require.NoError(t, err)
	assert.True(t, resp.HasMove)
}

func TestRequestBestMoveWithoutWorker(t *testing.T) {
	registry := DefaultStrategyRegistry()
	resp, err := RequestBestMove(nil, registry, SearchRequest{StrategyID: StrategyRandom, Snapshot: openingSnapshot(t)})
	require.NoError(t, err)
	assert.True(t, resp.HasMove)
}

func TestRequestBestMoveUnknownStrategyIsNotRetried(t *testing.T) {
	registry := DefaultStrategyRegistry()
	worker := NewSearchWorker(registry)
	defer worker.Close()

	_, err := RequestBestMove(worker, registry, SearchRequest{StrategyID: "nope", Snapshot: openingSnapshot(t)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownStrategy))
}

func TestAIPlayerThinksInBackground(t *testing.T) {
	settings := testSettings(5)
	rules := NewRules(settings)
	state := NewGameState(settings)
	require.True(t, rules.PlaceStone(&state, NewMove(2, 2, 2, 2)))

	registry := DefaultStrategyRegistry()
	worker := NewSearchWorker(registry)
	defer worker.Close()
	player := NewAIPlayer(StrategyMinimaxEasy, registry, worker)
	assert.False(t, player.IsHuman())

	player.StartThinking(state.Clone(), rules)
	require.Eventually(t, player.HasMoveReady, waitFor, pollEvery)
	move, ok := player.TakeMove()
	require.True(t, ok)
	assert.True(t, state.Board.IsEmpty(move))
	assert.False(t, player.HasMoveReady())

	direct, ok := player.ChooseMove(state, rules)
	require.True(t, ok)
	assert.True(t, direct.Equals(move))
}
