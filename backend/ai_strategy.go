package main

import (
	"fmt"
	"sort"

	"lukechampine.com/frand"
)

const (
	StrategyRandom        = "random"
	StrategyMinimaxEasy   = "minimax-easy"
	StrategyMinimaxMedium = "minimax-medium"
	StrategyMinimaxHard   = "minimax-hard"
)

// Strategy chooses a move for the side to move. BestMove returns false when
// no move exists; callers treat that as a draw.
type Strategy interface {
	Name() string
	Description() string
	BestMove(state GameState, rules Rules) (Move, bool)
}

type RandomStrategy struct{}

func (RandomStrategy) Name() string {
	return "random"
}

func (RandomStrategy) Description() string {
	return "uniform pick among playable moves"
}

func (RandomStrategy) BestMove(state GameState, rules Rules) (Move, bool) {
	if state.IsDecided() {
		return Move{}, false
	}
	moves := playableMoves(state, rules)
	if len(moves) == 0 {
		return Move{}, false
	}
	return moves[frand.Intn(len(moves))], true
}

// MinimaxStrategy searches Depth plies. A zero Limits follows the live
// config.
type MinimaxStrategy struct {
	Depth  int
	Limits CandidateLimits
}

func NewMinimaxStrategy(depth int) MinimaxStrategy {
	return MinimaxStrategy{Depth: depth}
}

func (m MinimaxStrategy) Name() string {
	return fmt.Sprintf("minimax %d", m.Depth)
}

func (m MinimaxStrategy) Description() string {
	return fmt.Sprintf("alpha-beta minimax over the top %d candidates, depth %d", m.limits().Limit, m.Depth)
}

func (m MinimaxStrategy) BestMove(state GameState, rules Rules) (Move, bool) {
	return GetBestMove(state, rules, m.Depth, m.limits())
}

// WithLimits returns a copy pinned to limits.
func (m MinimaxStrategy) WithLimits(limits CandidateLimits) MinimaxStrategy {
	m.Limits = limits
	return m
}

func (m MinimaxStrategy) limits() CandidateLimits {
	if m.Limits.Limit > 0 {
		return m.Limits
	}
	return GetConfig().CandidateLimits()
}

type StrategyInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// StrategyRegistry resolves strategy ids. It is filled once at startup and
// read-only afterwards.
type StrategyRegistry struct {
	strategies map[string]Strategy
	order      []string
}

func NewStrategyRegistry() *StrategyRegistry {
	return &StrategyRegistry{strategies: make(map[string]Strategy)}
}

// DefaultStrategyRegistry holds random plus one minimax per depth preset.
func DefaultStrategyRegistry() *StrategyRegistry {
	registry := NewStrategyRegistry()
	_ = registry.Register(StrategyRandom, RandomStrategy{})
	_ = registry.Register(StrategyMinimaxEasy, NewMinimaxStrategy(1))
	_ = registry.Register(StrategyMinimaxMedium, NewMinimaxStrategy(2))
	_ = registry.Register(StrategyMinimaxHard, NewMinimaxStrategy(3))
	return registry
}

func (r *StrategyRegistry) Register(id string, strategy Strategy) error {
	if strategy == nil {
		return fmt.Errorf("%w: %s", ErrStrategyUnavailable, id)
	}
	if _, ok := r.strategies[id]; !ok {
		r.order = append(r.order, id)
	}
	r.strategies[id] = strategy
	return nil
}

func (r *StrategyRegistry) Get(id string) (Strategy, error) {
	strategy, ok := r.strategies[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, id)
	}
	return strategy, nil
}

// List returns registered strategies in registration order.
func (r *StrategyRegistry) List() []StrategyInfo {
	infos := make([]StrategyInfo, 0, len(r.order))
	for _, id := range r.order {
		strategy := r.strategies[id]
		infos = append(infos, StrategyInfo{ID: id, Name: strategy.Name(), Description: strategy.Description()})
	}
	return infos
}

func (r *StrategyRegistry) IDs() []string {
	ids := append([]string(nil), r.order...)
	sort.Strings(ids)
	return ids
}

// ForDepth returns the minimax strategy searching depth plies, the
// registered preset when one matches.
func (r *StrategyRegistry) ForDepth(depth int) (Strategy, error) {
	if err := ValidateDepth(depth); err != nil {
		return nil, err
	}
	for _, id := range r.order {
		if mm, ok := r.strategies[id].(MinimaxStrategy); ok && mm.Depth == depth {
			return mm, nil
		}
	}
	return NewMinimaxStrategy(depth), nil
}
