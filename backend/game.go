package main

import (
	"time"

	"github.com/rs/zerolog/log"
)

type Game struct {
	settings    GameSettings
	rules       Rules
	state       GameState
	registry    *StrategyRegistry
	worker      *SearchWorker
	blackPlayer IPlayer
	whitePlayer IPlayer
	turnStart   time.Time
	lastMessage string
}

func NewGame(settings GameSettings, registry *StrategyRegistry, worker *SearchWorker) Game {
	g := Game{registry: registry, worker: worker}
	g.Reset(settings)
	return g
}

func (g *Game) Reset(settings GameSettings) {
	g.stopAIPlayers()
	g.settings = settings
	g.rules = NewRules(settings)
	g.state.Reset(settings)
	g.state.Status = StatusNotStarted
	g.lastMessage = ""
	g.createPlayers()
	g.turnStart = time.Now()
	g.logMatchup()
}

func (g *Game) Start() {
	if g.state.Status == StatusNotStarted {
		g.state.Status = StatusRunning
		g.turnStart = time.Now()
	}
}

func (g *Game) State() GameState {
	return g.state.Clone()
}

func (g *Game) Rules() Rules {
	return g.rules
}

func (g *Game) History() MoveHistory {
	return g.state.History.Clone()
}

func (g *Game) LastMessage() string {
	return g.lastMessage
}

func (g *Game) TurnStartedAtMs() int64 {
	if g.turnStart.IsZero() {
		return 0
	}
	return g.turnStart.UnixMilli()
}

func (g *Game) TryApplyMove(move Move) (bool, string) {
	if g.state.Status != StatusRunning {
		return false, "game not running"
	}
	ok, reason := g.rules.CheckPlacement(g.state, move)
	if !ok {
		g.lastMessage = "Illegal move: " + reason
		return false, g.lastMessage
	}
	player := g.currentPlayer()
	isAiMove := player != nil && !player.IsHuman()
	strategy := ""
	if ai, ok := player.(*AIPlayer); ok {
		strategy = ai.StrategyID()
	}
	mover := g.state.ToMove
	elapsedMs := float64(time.Since(g.turnStart).Milliseconds())
	if !g.rules.PlaceStone(&g.state, move) {
		g.lastMessage = "Illegal move: rejected"
		return false, g.lastMessage
	}
	g.lastMessage = ""
	g.state.History.Annotate(elapsedMs, isAiMove, strategy)
	g.logMovePlayed(move, mover, elapsedMs, isAiMove)
	switch g.state.Status {
	case StatusBlackWon, StatusWhiteWon:
		g.logWin(mover, len(g.state.WinningLine))
	case StatusDraw:
		log.Info().Int("moves", g.state.MoveCount).Msg("game drawn, board full")
	}
	g.turnStart = time.Now()
	return true, ""
}

// Tick advances the seat to move. It reports whether the state changed.
func (g *Game) Tick() bool {
	if g.state.Status != StatusRunning {
		return false
	}
	player := g.currentPlayer()
	if player == nil {
		return false
	}
	if human, ok := player.(*HumanPlayer); ok {
		if human.HasPendingMove() {
			applied, _ := g.TryApplyMove(human.TakePendingMove())
			return applied
		}
		return false
	}
	ai, ok := player.(*AIPlayer)
	if !ok {
		move, found := player.ChooseMove(g.state.Clone(), g.rules)
		return g.applyAIMove(move, found)
	}
	if ai.HasMoveReady() {
		move, found := ai.TakeMove()
		return g.applyAIMove(move, found)
	}
	if !ai.IsThinking() {
		ai.StartThinking(g.state.Clone(), g.rules)
	}
	return false
}

// applyAIMove plays an engine answer. No answer, or no legal substitute for a
// rejected one, ends the game drawn.
func (g *Game) applyAIMove(move Move, found bool) bool {
	if !found {
		g.declareDraw("ai has no move")
		return true
	}
	applied, reason := g.TryApplyMove(move)
	if applied {
		return true
	}
	log.Warn().Stringer("move", move).Str("reason", reason).Msg("ai move rejected, using first legal move")
	if moves := playableMoves(g.state, g.rules); len(moves) > 0 {
		if applied, _ := g.TryApplyMove(moves[0]); applied {
			return true
		}
	}
	g.declareDraw("no legal move")
	return true
}

func (g *Game) declareDraw(reason string) {
	g.state.Status = StatusDraw
	g.state.WinningLine = nil
	log.Info().Str("reason", reason).Int("moves", g.state.MoveCount).Msg("game drawn")
}

func (g *Game) SubmitHumanMove(move Move) bool {
	human, ok := g.currentPlayer().(*HumanPlayer)
	if !ok {
		return false
	}
	human.SetPendingMove(move)
	return true
}

func (g *Game) CurrentPlayerIsHuman() bool {
	player := g.currentPlayer()
	return player != nil && player.IsHuman()
}

func (g *Game) AiThinking() bool {
	if ai, ok := g.currentPlayer().(*AIPlayer); ok {
		return ai.IsThinking()
	}
	return false
}

func (g *Game) currentPlayer() IPlayer {
	return g.playerForColor(g.state.ToMove)
}

func (g *Game) playerForColor(color PlayerColor) IPlayer {
	if color == PlayerBlack {
		return g.blackPlayer
	}
	return g.whitePlayer
}

func (g *Game) createPlayers() {
	g.blackPlayer = g.newPlayer(g.settings.BlackType, g.settings.BlackStrategy)
	g.whitePlayer = g.newPlayer(g.settings.WhiteType, g.settings.WhiteStrategy)
}

func (g *Game) newPlayer(kind PlayerType, strategyID string) IPlayer {
	if kind == PlayerHuman {
		return NewHumanPlayer()
	}
	return NewAIPlayer(strategyID, g.registry, g.worker)
}

func (g *Game) stopAIPlayers() {
	for _, player := range []IPlayer{g.blackPlayer, g.whitePlayer} {
		if ai, ok := player.(*AIPlayer); ok {
			ai.StopThinking()
		}
	}
}

func (g *Game) logMatchup() {
	label := func(t PlayerType, strategy string) string {
		if t == PlayerAI {
			return "ai:" + strategy
		}
		return "human"
	}
	log.Info().
		Str("black", label(g.settings.BlackType, g.settings.BlackStrategy)).
		Str("white", label(g.settings.WhiteType, g.settings.WhiteStrategy)).
		Stringer("size", g.settings.Size).
		Stringer("adjacency", g.settings.Adjacency).
		Msg("new game")
}

func (g *Game) logMovePlayed(move Move, player PlayerColor, elapsedMs float64, isAiMove bool) {
	log.Debug().
		Stringer("player", player).
		Stringer("move", move).
		Float64("elapsed_ms", elapsedMs).
		Bool("ai", isAiMove).
		Int("move_count", g.state.MoveCount).
		Msg("move played")
}

func (g *Game) logWin(player PlayerColor, lineLength int) {
	log.Info().Stringer("winner", player).Int("line", lineLength).Int("moves", g.state.MoveCount).Msg("game won")
}
