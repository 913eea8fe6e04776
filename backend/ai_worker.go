package main

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// StateSnapshot is the data a search needs, and nothing else.
type StateSnapshot struct {
	Size                   BoardSize     `json:"size"`
	Cells                  []int         `json:"cells"`
	ToMove                 int           `json:"to_move"`
	MoveCount              int           `json:"move_count"`
	Adjacency              AdjacencyMode `json:"adjacency"`
	ForbidDoubleThreeBlack bool          `json:"forbid_double_three_black"`
}

type SearchRequest struct {
	ID         uuid.UUID     `json:"id"`
	StrategyID string        `json:"strategy_id,omitempty"`
	Depth      int           `json:"depth,omitempty"`
	Snapshot   StateSnapshot `json:"snapshot"`
}

type SearchResponse struct {
	ID      uuid.UUID     `json:"id"`
	Move    Move          `json:"move"`
	HasMove bool          `json:"has_move"`
	Depth   int           `json:"depth,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
	Err     error         `json:"-"`
}

func SnapshotFromState(state GameState, rules Rules) StateSnapshot {
	cells := make([]int, state.Board.Volume())
	for i, cell := range state.Board.cells {
		cells[i] = cellToInt(cell)
	}
	return StateSnapshot{
		Size:                   state.Board.Size(),
		Cells:                  cells,
		ToMove:                 playerToInt(state.ToMove),
		MoveCount:              state.MoveCount,
		Adjacency:              state.Adjacency,
		ForbidDoubleThreeBlack: rules.Settings().ForbidDoubleThreeBlack,
	}
}

// Restore rebuilds the position from the snapshot. A board that already
// holds five in a row comes back won.
func (s StateSnapshot) Restore() (GameState, Rules, error) {
	settings := DefaultGameSettings()
	settings.Size = s.Size
	settings.Adjacency = s.Adjacency
	settings.ForbidDoubleThreeBlack = s.ForbidDoubleThreeBlack
	if err := settings.Validate(); err != nil {
		return GameState{}, Rules{}, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if len(s.Cells) != s.Size.Volume() {
		return GameState{}, Rules{}, fmt.Errorf("%w: %d cells for %s", ErrInvalidSnapshot, len(s.Cells), s.Size)
	}
	if s.ToMove != 1 && s.ToMove != 2 {
		return GameState{}, Rules{}, fmt.Errorf("%w: to_move %d", ErrInvalidSnapshot, s.ToMove)
	}
	state := NewGameState(settings)
	stones := 0
	for i, value := range s.Cells {
		if value < 0 || value > 2 {
			return GameState{}, Rules{}, fmt.Errorf("%w: cell %d holds %d", ErrInvalidSnapshot, i, value)
		}
		state.Board.cells[i] = intToCell(value)
		if value != 0 {
			stones++
		}
	}
	if stones != s.MoveCount {
		return GameState{}, Rules{}, fmt.Errorf("%w: move_count %d but %d stones", ErrInvalidSnapshot, s.MoveCount, stones)
	}
	state.MoveCount = stones
	state.ToMove = intToPlayer(s.ToMove)
	rules := NewRules(settings)
	if winner, line, ok := existingFive(state.Board, rules); ok {
		state.Status = wonStatus(winner)
		state.WinningLine = line
	} else if stones == state.Board.Volume() {
		state.Status = StatusDraw
	}
	return state, rules, nil
}

// existingFive finds the first stone, in index order, that sits on a run of
// five or more.
func existingFive(board Board, rules Rules) (PlayerColor, []Move, bool) {
	for i, cell := range board.cells {
		if cell == CellEmpty {
			continue
		}
		move := board.MoveAt(i)
		line, ok := rules.FindWinningLine(board, move)
		if !ok {
			continue
		}
		player, err := PlayerFromCell(cell)
		if err != nil {
			continue
		}
		return player, line, true
	}
	return PlayerBlack, nil, false
}

// ComputeBestMove runs a request in the calling goroutine.
func ComputeBestMove(registry *StrategyRegistry, req SearchRequest) SearchResponse {
	start := time.Now()
	resp := SearchResponse{ID: req.ID}
	strategy, err := resolveStrategy(registry, req)
	if err != nil {
		resp.Err = err
		return resp
	}
	state, rules, err := req.Snapshot.Restore()
	if err != nil {
		resp.Err = err
		return resp
	}
	resp.Move, resp.HasMove = strategy.BestMove(state, rules)
	if mm, ok := strategy.(MinimaxStrategy); ok && resp.HasMove {
		resp.Depth = mm.Depth
	}
	resp.Elapsed = time.Since(start)
	return resp
}

func resolveStrategy(registry *StrategyRegistry, req SearchRequest) (Strategy, error) {
	if req.StrategyID != "" {
		return registry.Get(req.StrategyID)
	}
	return registry.ForDepth(req.Depth)
}

type searchJob struct {
	req   SearchRequest
	reply chan SearchResponse
}

// SearchWorker runs searches on one goroutine, so at most one is in flight.
// Extra submitters wait their turn on the unbuffered job channel.
type SearchWorker struct {
	registry  *StrategyRegistry
	jobs      chan searchJob
	done      chan struct{}
	closeOnce sync.Once
}

func NewSearchWorker(registry *StrategyRegistry) *SearchWorker {
	w := &SearchWorker{
		registry: registry,
		jobs:     make(chan searchJob),
		done:     make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *SearchWorker) run() {
	for {
		select {
		case <-w.done:
			return
		case job := <-w.jobs:
			job.reply <- w.handle(job.req)
		}
	}
}

func (w *SearchWorker) handle(req SearchRequest) (resp SearchResponse) {
	defer func() {
		if recovered := recover(); recovered != nil {
			resp = SearchResponse{ID: req.ID, Err: fmt.Errorf("%w: %v", ErrWorkerFailed, recovered)}
		}
	}()
	return ComputeBestMove(w.registry, req)
}

// Submit hands req to the worker and waits for the answer. There is no
// timeout.
func (w *SearchWorker) Submit(req SearchRequest) (SearchResponse, error) {
	select {
	case <-w.done:
		return SearchResponse{ID: req.ID}, ErrWorkerClosed
	default:
	}
	job := searchJob{req: req, reply: make(chan SearchResponse, 1)}
	select {
	case <-w.done:
		return SearchResponse{ID: req.ID}, ErrWorkerClosed
	case w.jobs <- job:
	}
	resp := <-job.reply
	return resp, resp.Err
}

func (w *SearchWorker) Close() {
	w.closeOnce.Do(func() {
		close(w.done)
	})
}

// RequestBestMove goes through the worker and, if the worker is gone, runs
// the search in-process. A search that panicked is reported as
// ErrWorkerFailed and not repeated.
func RequestBestMove(worker *SearchWorker, registry *StrategyRegistry, req SearchRequest) (SearchResponse, error) {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if worker == nil {
		resp := ComputeBestMove(registry, req)
		return resp, resp.Err
	}
	resp, err := worker.Submit(req)
	if err == nil {
		return resp, nil
	}
	if !errors.Is(err, ErrWorkerClosed) {
		return resp, err
	}
	log.Warn().Err(err).Str("request", req.ID.String()).Msg("search worker closed, searching in-process")
	resp = ComputeBestMove(registry, req)
	return resp, resp.Err
}
