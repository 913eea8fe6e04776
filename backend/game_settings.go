package main

import (
	"encoding/json"
	"fmt"
)

type PlayerType int

const (
	PlayerHuman PlayerType = iota
	PlayerAI
)

type AdjacencyMode int

const (
	AdjacencyFree AdjacencyMode = iota
	AdjacencySticky
)

const (
	MinSearchDepth = 1
	MaxSearchDepth = 3
)

type GameSettings struct {
	Size                   BoardSize     `json:"size"`
	Adjacency              AdjacencyMode `json:"adjacency"`
	BlackType              PlayerType    `json:"-"`
	WhiteType              PlayerType    `json:"-"`
	BlackStrategy          string        `json:"black_strategy"`
	WhiteStrategy          string        `json:"white_strategy"`
	ForbidDoubleThreeBlack bool          `json:"forbid_double_three_black"`
}

func DefaultGameSettings() GameSettings {
	return GameSettings{
		Size:                   UniformSize(9),
		Adjacency:              AdjacencyFree,
		BlackType:              PlayerHuman,
		WhiteType:              PlayerAI,
		BlackStrategy:          StrategyMinimaxHard,
		WhiteStrategy:          StrategyMinimaxHard,
		ForbidDoubleThreeBlack: true,
	}
}

func (s GameSettings) Validate() error {
	if err := s.Size.Validate(); err != nil {
		return err
	}
	if s.Adjacency != AdjacencyFree && s.Adjacency != AdjacencySticky {
		return fmt.Errorf("%w: %d", ErrInvalidAdjacency, s.Adjacency)
	}
	return nil
}

// StrategyFor returns the strategy id seated at color.
func (s GameSettings) StrategyFor(color PlayerColor) string {
	if color == PlayerBlack {
		return s.BlackStrategy
	}
	return s.WhiteStrategy
}

func (m AdjacencyMode) String() string {
	if m == AdjacencySticky {
		return "sticky"
	}
	return "free"
}

func ParseAdjacencyMode(raw string) (AdjacencyMode, error) {
	switch raw {
	case "", "free":
		return AdjacencyFree, nil
	case "sticky":
		return AdjacencySticky, nil
	default:
		return AdjacencyFree, fmt.Errorf("%w: %q", ErrInvalidAdjacency, raw)
	}
}

func (m AdjacencyMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *AdjacencyMode) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	mode, err := ParseAdjacencyMode(raw)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

func ValidateDepth(depth int) error {
	if depth < MinSearchDepth || depth > MaxSearchDepth {
		return fmt.Errorf("%w: %d not in %d..%d", ErrInvalidDepth, depth, MinSearchDepth, MaxSearchDepth)
	}
	return nil
}
