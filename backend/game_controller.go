package main

import "sync"

// GameController serializes access to the single canonical game.
type GameController struct {
	mu       sync.Mutex
	game     Game
	registry *StrategyRegistry
	worker   *SearchWorker
}

func NewGameController(settings GameSettings, registry *StrategyRegistry, worker *SearchWorker) *GameController {
	return &GameController{
		game:     NewGame(settings, registry, worker),
		registry: registry,
		worker:   worker,
	}
}

func (gc *GameController) Registry() *StrategyRegistry {
	return gc.registry
}

func (gc *GameController) Worker() *SearchWorker {
	return gc.worker
}

func (gc *GameController) OnCellClicked(move Move) bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.SubmitHumanMove(move)
}

func (gc *GameController) ApplyHumanMove(move Move) (bool, string) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if !gc.game.CurrentPlayerIsHuman() {
		return false, "not human turn"
	}
	return gc.game.TryApplyMove(move)
}

func (gc *GameController) Tick() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Tick()
}

func (gc *GameController) State() GameState {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.State()
}

func (gc *GameController) Rules() Rules {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Rules()
}

func (gc *GameController) Settings() GameSettings {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.settings
}

func (gc *GameController) History() MoveHistory {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.History()
}

func (gc *GameController) CurrentTurnStartedAtMs() int64 {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.TurnStartedAtMs()
}

func (gc *GameController) LastMessage() string {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.LastMessage()
}

func (gc *GameController) LatestHistoryEntry() (HistoryEntry, bool) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.state.History.Last()
}

func (gc *GameController) AiThinking() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.AiThinking()
}

func (gc *GameController) Reset(settings GameSettings) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.Reset(settings)
}

func (gc *GameController) StartGame(settings GameSettings) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.Reset(settings)
	gc.game.Start()
}

// UpdateSettings swaps seats and strategies. Board geometry and rule changes
// need reset, otherwise they are ignored until the next game.
func (gc *GameController) UpdateSettings(update GameSettings, reset bool) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if reset {
		gc.game.Reset(update)
		return
	}
	current := gc.game.settings
	update.Size = current.Size
	update.Adjacency = current.Adjacency
	update.ForbidDoubleThreeBlack = current.ForbidDoubleThreeBlack
	gc.game.stopAIPlayers()
	gc.game.settings = update
	gc.game.createPlayers()
}
