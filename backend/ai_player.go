package main

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type AIPlayer struct {
	strategyID   string
	registry     *StrategyRegistry
	worker       *SearchWorker
	moveMutex    sync.Mutex
	workerDone   chan struct{}
	thinking     atomic.Bool
	moveReady    atomic.Bool
	stopSignal   atomic.Bool
	readyMove    Move
	readyHasMove bool
}

// NewAIPlayer seats strategyID. worker may be nil, in which case searches run
// on the thinking goroutine directly.
func NewAIPlayer(strategyID string, registry *StrategyRegistry, worker *SearchWorker) *AIPlayer {
	return &AIPlayer{strategyID: strategyID, registry: registry, worker: worker}
}

func (a *AIPlayer) IsHuman() bool {
	return false
}

func (a *AIPlayer) StrategyID() string {
	return a.strategyID
}

func (a *AIPlayer) ChooseMove(state GameState, rules Rules) (Move, bool) {
	resp, err := RequestBestMove(a.worker, a.registry, a.request(state, rules))
	if err != nil {
		log.Error().Err(err).Str("strategy", a.strategyID).Msg("ai move failed")
		return Move{}, false
	}
	return resp.Move, resp.HasMove
}

// StartThinking searches a copy of state in the background. Poll
// HasMoveReady and collect the result with TakeMove.
func (a *AIPlayer) StartThinking(state GameState, rules Rules) {
	if a.thinking.Load() {
		return
	}
	if a.workerDone != nil {
		<-a.workerDone
	}
	a.thinking.Store(true)
	a.moveReady.Store(false)
	a.stopSignal.Store(false)

	req := a.request(state, rules)
	done := make(chan struct{})
	a.workerDone = done
	go func() {
		defer close(done)
		resp, err := RequestBestMove(a.worker, a.registry, req)
		if err != nil {
			log.Error().Err(err).Str("strategy", a.strategyID).Str("request", req.ID.String()).Msg("ai move failed")
		}
		if a.stopSignal.Load() {
			a.moveReady.Store(false)
			a.thinking.Store(false)
			return
		}
		a.moveMutex.Lock()
		a.readyMove = resp.Move
		a.readyHasMove = err == nil && resp.HasMove
			a.moveMutex.Unlock()
		a.moveReady.Store(true)
		a.thinking.Store(false)
	}()
}

func (a *AIPlayer) request(state GameState, rules Rules) SearchRequest {
	return SearchRequest{
		ID:         uuid.New(),
		StrategyID: a.strategyID,
		Snapshot:   SnapshotFromState(state, rules),
	}
}

func (a *AIPlayer) IsThinking() bool {
	return a.thinking.Load()
}

func (a *AIPlayer) HasMoveReady() bool {
	return a.moveReady.Load()
}

// TakeMove returns the finished search result; false means no move exists.
func (a *AIPlayer) TakeMove() (Move, bool) {
	a.moveMutex.Lock()
	defer a.moveMutex.Unlock()
	a.moveReady.Store(false)
	return a.readyMove, a.readyHasMove
}

// StopThinking drops the result of the running search, if any. The search
// itself runs to completion.
func (a *AIPlayer) StopThinking() {
	a.stopSignal.Store(true)
	a.moveReady.Store(false)
}
