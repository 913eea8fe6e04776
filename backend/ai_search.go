package main

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"
)

type SearchStats struct {
	Start     time.Time
	Elapsed   time.Duration
	Nodes     int
	Cutoffs   int
	BestScore float64
	Shortcut  string
}

type searcher struct {
	rules    Rules
	limits   CandidateLimits
	aiPlayer PlayerColor
	state    *GameState
	stats    *SearchStats
}

// GetBestMove picks a move for the side to move, searching depth plies.
// It returns false when there is nothing to play.
func GetBestMove(state GameState, rules Rules, depth int, limits CandidateLimits) (Move, bool) {
	move, ok, _ := GetBestMoveWithStats(state, rules, depth, limits)
	return move, ok
}

func GetBestMoveWithStats(state GameState, rules Rules, depth int, limits CandidateLimits) (Move, bool, SearchStats) {
	stats := SearchStats{Start: time.Now()}
	move, ok := bestMove(state, rules, depth, limits, &stats)
	stats.Elapsed = time.Since(stats.Start)
	log.Debug().
		Int("depth", depth).
		Int("nodes", stats.Nodes).
		Int("cutoffs", stats.Cutoffs).
		Str("shortcut", stats.Shortcut).
		Float64("score", stats.BestScore).
		Bool("found", ok).
		Stringer("move", move).
		Dur("elapsed", stats.Elapsed).
		Msg("search-done")
	return move, ok, stats
}

func bestMove(state GameState, rules Rules, depth int, limits CandidateLimits, stats *SearchStats) (Move, bool) {
	if state.IsDecided() {
		return Move{}, false
	}
	if depth < MinSearchDepth {
		depth = MinSearchDepth
	}
	if state.MoveCount == 0 {
		stats.Shortcut = "center"
		return state.Board.Center(), true
	}

	candidates := GetCandidateMoves(state, rules, limits)
	if move, reason, ok := findImmediateMove(state, rules, candidates); ok {
		stats.Shortcut = reason
		return move, true
	}
	if len(candidates) == 0 {
		stats.Shortcut = "fallback"
		return fallbackMove(state, rules)
	}

	work := state.Clone()
	s := &searcher{
		rules:    rules,
		limits:   limits,
		aiPlayer: state.ToMove,
		state:    &work,
		stats:    stats,
	}
	best := candidates[0]
	bestScore := math.Inf(-1)
	alpha := math.Inf(-1)
	beta := math.Inf(1)
	for _, move := range candidates {
		undo := rules.apply(s.state, move)
		score := s.minimax(depth-1, alpha, beta, false)
		rules.unapply(s.state, undo)
		if score > bestScore {
			bestScore = score
			best = move
		}
		alpha = math.Max(alpha, bestScore)
	}
	stats.BestScore = bestScore
	return best, true
}

func (s *searcher) minimax(depth int, alpha, beta float64, maximizing bool) float64 {
	s.stats.Nodes++
	if _, won := s.state.Winner(); won {
		if maximizing {
			return -ScoreWin
		}
		return ScoreWin
	}
	if depth == 0 {
		return EvaluatePosition(s.state.Board, s.aiPlayer)
	}
	candidates := GetCandidateMoves(*s.state, s.rules, s.limits)
	if len(candidates) == 0 {
		return 0
	}
	if maximizing {
		best := math.Inf(-1)
		for _, move := range candidates {
			undo := s.rules.apply(s.state, move)
			score := s.minimax(depth-1, alpha, beta, false)
			s.rules.unapply(s.state, undo)
			best = math.Max(best, score)
			alpha = math.Max(alpha, score)
			if beta <= alpha {
				s.stats.Cutoffs++
				break
			}
		}
		return best
	}
	best := math.Inf(1)
	for _, move := range candidates {
		undo := s.rules.apply(s.state, move)
		score := s.minimax(depth-1, alpha, beta, true)
		s.rules.unapply(s.state, undo)
		best = math.Min(best, score)
		beta = math.Min(beta, score)
		if beta <= alpha {
			s.stats.Cutoffs++
			break
		}
	}
	return best
}

// findImmediateMove returns a winning candidate, else one that stops the
// opponent winning next turn.
func findImmediateMove(state GameState, rules Rules, candidates []Move) (Move, string, bool) {
	for _, move := range candidates {
		if rules.WouldWin(state, move) {
			return move, "win", true
		}
	}
	opponent := otherPlayer(state.ToMove)
	for _, move := range candidates {
		if rules.wouldWinFor(state.Board, move, opponent) {
			return move, "block", true
		}
	}
	return Move{}, "", false
}

// fallbackMove is the first playable move in scan order.
func fallbackMove(state GameState, rules Rules) (Move, bool) {
	moves := playableMoves(state, rules)
	if len(moves) == 0 {
		return Move{}, false
	}
	return moves[0], true
}
