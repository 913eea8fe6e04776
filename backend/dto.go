package main

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type StatusResponse struct {
	Settings        GameSettingsDTO   `json:"settings"`
	Config          Config            `json:"config"`
	NextPlayer      int               `json:"next_player"`
	Winner          int               `json:"winner"`
	Size            BoardSize         `json:"size"`
	Status          string            `json:"status"`
	MoveCount       int               `json:"move_count"`
	Stones          []stoneDTO        `json:"stones"`
	History         []historyEntryDTO `json:"history"`
	WinningLine     []Move            `json:"winning_line"`
	AiThinking      bool              `json:"ai_thinking"`
	LastMessage     string            `json:"last_message,omitempty"`
	TurnStartedAtMs int64             `json:"turn_started_at_ms"`
}

type GameSettingsDTO struct {
	Mode              string     `json:"mode"`
	HumanPlayer       int        `json:"human_player"`
	Size              *BoardSize `json:"size,omitempty"`
	Adjacency         string     `json:"adjacency,omitempty"`
	ForbidDoubleThree *bool      `json:"forbid_double_three,omitempty"`
	BlackStrategy     string     `json:"black_strategy,omitempty"`
	WhiteStrategy     string     `json:"white_strategy,omitempty"`
}

type apiMove struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
	W int `json:"w"`
}

type stoneDTO struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Z      int `json:"z"`
	W      int `json:"w"`
	Player int `json:"player"`
}

type historyEntryDTO struct {
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Z         int     `json:"z"`
	W         int     `json:"w"`
	Player    int     `json:"player"`
	ElapsedMs float64 `json:"elapsed_ms"`
	IsAi      bool    `json:"is_ai"`
	Strategy  string  `json:"strategy,omitempty"`
}

type historyPayload struct {
	History []historyEntryDTO `json:"history"`
}

type resetPayload struct {
	NextPlayer      int       `json:"next_player"`
	Status          string    `json:"status"`
	Size            BoardSize `json:"size"`
	TurnStartedAtMs int64     `json:"turn_started_at_ms"`
}

type settingsPayload struct {
	Settings GameSettingsDTO `json:"settings"`
	Config   Config          `json:"config"`
}

type bestMoveResponse struct {
	ID        string  `json:"id"`
	Move      *Move   `json:"move"`
	Depth     int     `json:"depth,omitempty"`
	ElapsedMs float64 `json:"elapsed_ms"`
}

func controllerStatus(controller *GameController) StatusResponse {
	state := controller.State()
	return StatusResponse{
		Settings:        controllerSettingsDTO(controller.Settings()),
		Config:          GetConfig(),
		NextPlayer:      playerToInt(state.ToMove),
		Winner:          winnerFromStatus(state.Status),
		Size:            state.Board.Size(),
		Status:          statusToString(state.Status),
		MoveCount:       state.MoveCount,
		Stones:          stonesFromBoard(state.Board),
		History:         historyToDTO(state.History),
		WinningLine:     append([]Move{}, state.WinningLine...),
		AiThinking:      controller.AiThinking(),
		LastMessage:     controller.LastMessage(),
		TurnStartedAtMs: controller.CurrentTurnStartedAtMs(),
	}
}

func resetFromController(controller *GameController) resetPayload {
	state := controller.State()
	return resetPayload{
		NextPlayer:      playerToInt(state.ToMove),
		Status:          statusToString(state.Status),
		Size:            state.Board.Size(),
		TurnStartedAtMs: controller.CurrentTurnStartedAtMs(),
	}
}

// settingsFromDTO overlays dto on base. Strategy ids are checked against
// registry.
func settingsFromDTO(dto GameSettingsDTO, base GameSettings, registry *StrategyRegistry) (GameSettings, error) {
	settings := base
	switch dto.Mode {
	case "ai_vs_ai":
		settings.BlackType = PlayerAI
		settings.WhiteType = PlayerAI
	case "human_vs_human":
		settings.BlackType = PlayerHuman
		settings.WhiteType = PlayerHuman
	case "ai_vs_human":
		if dto.HumanPlayer == 2 {
			settings.BlackType = PlayerAI
			settings.WhiteType = PlayerHuman
		} else {
			settings.BlackType = PlayerHuman
			settings.WhiteType = PlayerAI
		}
	case "":
	default:
		return base, fmt.Errorf("unknown mode %q", dto.Mode)
	}
	if dto.Size != nil {
		settings.Size = *dto.Size
	}
	if dto.Adjacency != "" {
		mode, err := ParseAdjacencyMode(dto.Adjacency)
		if err != nil {
			return base, err
		}
		settings.Adjacency = mode
	}
	if dto.ForbidDoubleThree != nil {
		settings.ForbidDoubleThreeBlack = *dto.ForbidDoubleThree
	}
	if dto.BlackStrategy != "" {
		settings.BlackStrategy = dto.BlackStrategy
	}
	if dto.WhiteStrategy != "" {
		settings.WhiteStrategy = dto.WhiteStrategy
	}
	for _, id := range []string{settings.BlackStrategy, settings.WhiteStrategy} {
		if _, err := registry.Get(id); err != nil {
			return base, err
		}
	}
	if err := settings.Validate(); err != nil {
		return base, err
	}
	return settings, nil
}

func controllerSettingsDTO(settings GameSettings) GameSettingsDTO {
	mode := "ai_vs_human"
	if settings.BlackType == PlayerAI && settings.WhiteType == PlayerAI {
		mode = "ai_vs_ai"
	} else if settings.BlackType == PlayerHuman && settings.WhiteType == PlayerHuman {
		mode = "human_vs_human"
	}
	humanPlayer := 0
	if settings.BlackType == PlayerHuman {
		humanPlayer = 1
	} else if settings.WhiteType == PlayerHuman {
		humanPlayer = 2
	}
	size := settings.Size
	forbid := settings.ForbidDoubleThreeBlack
	return GameSettingsDTO{
		Mode:              mode,
		HumanPlayer:       humanPlayer,
		Size:              &size,
		Adjacency:         settings.Adjacency.String(),
		ForbidDoubleThree: &forbid,
		BlackStrategy:     settings.BlackStrategy,
		WhiteStrategy:     settings.WhiteStrategy,
	}
}

func stonesFromBoard(board Board) []stoneDTO {
	stones := []stoneDTO{}
	for i, cell := range board.cells {
		if cell == CellEmpty {
			continue
		}
		m := board.MoveAt(i)
		stones = append(stones, stoneDTO{X: m.X, Y: m.Y, Z: m.Z, W: m.W, Player: cellToInt(cell)})
	}
	return stones
}

func cellToInt(cell Cell) int {
	switch cell {
	case CellBlack:
		return 1
	case CellWhite:
		return 2
	default:
		return 0
	}
}

func intToCell(value int) Cell {
	switch value {
	case 1:
		return CellBlack
	case 2:
		return CellWhite
	default:
		return CellEmpty
	}
}

func playerToInt(player PlayerColor) int {
	if player == PlayerBlack {
		return 1
	}
	return 2
}

func intToPlayer(value int) PlayerColor {
	if value == 2 {
		return PlayerWhite
	}
	return PlayerBlack
}

func winnerFromStatus(status GameStatus) int {
	switch status {
	case StatusBlackWon:
		return 1
	case StatusWhiteWon:
		return 2
	default:
		return 0
	}
}

func statusToString(status GameStatus) string {
	switch status {
	case StatusNotStarted:
		return "not_started"
	case StatusBlackWon:
		return "black_won"
	case StatusWhiteWon:
		return "white_won"
	case StatusDraw:
		return "draw"
	default:
		return "running"
	}
}

func historyToDTO(history MoveHistory) []historyEntryDTO {
	entries := history.All()
	result := make([]historyEntryDTO, 0, len(entries))
	for _, entry := range entries {
		result = append(result, historyEntryToDTO(entry))
	}
	return result
}

func historyEntryToDTO(entry HistoryEntry) historyEntryDTO {
	return historyEntryDTO{
		X:         entry.Move.X,
		Y:         entry.Move.Y,
		Z:         entry.Move.Z,
		W:         entry.Move.W,
		Player:    playerToInt(entry.Player),
		ElapsedMs: entry.ElapsedMs,
		IsAi:      entry.IsAi,
		Strategy:  entry.Strategy,
	}
}

func (m apiMove) toMove() Move {
	return Move{X: m.X, Y: m.Y, Z: m.Z, W: m.W}
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
