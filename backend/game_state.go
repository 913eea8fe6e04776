package main

type PlayerColor int

type GameStatus int

const (
	PlayerBlack PlayerColor = iota
	PlayerWhite
)

const (
	StatusNotStarted GameStatus = iota
	StatusRunning
	StatusBlackWon
	StatusWhiteWon
	StatusDraw
)

type GameState struct {
	Board       Board
	ToMove      PlayerColor
	Status      GameStatus
	HasLastMove bool
	LastMove    Move
	MoveCount   int
	WinningLine []Move
	History     MoveHistory
	Adjacency   AdjacencyMode
}

// NewGameState returns an empty running position: black to move, no winner.
func NewGameState(settings GameSettings) GameState {
	state := GameState{}
	state.Reset(settings)
	return state
}

func (s *GameState) Reset(settings GameSettings) {
	s.Board = NewBoard(settings.Size)
	s.ToMove = PlayerBlack
	s.Status = StatusRunning
	s.HasLastMove = false
	s.LastMove = Move{X: -1, Y: -1, Z: -1, W: -1}
	s.MoveCount = 0
	s.WinningLine = nil
	s.History.Clear()
	s.Adjacency = settings.Adjacency
}

// Clone is a deep copy; mutating the result never touches s.
func (s GameState) Clone() GameState {
	clone := s
	clone.Board = s.Board.Clone()
	clone.WinningLine = append([]Move(nil), s.WinningLine...)
	clone.History = s.History.Clone()
	return clone
}

// Winner returns the winning color, if any.
func (s GameState) Winner() (PlayerColor, bool) {
	switch s.Status {
	case StatusBlackWon:
		return PlayerBlack, true
	case StatusWhiteWon:
		return PlayerWhite, true
	default:
		return PlayerBlack, false
	}
}

// IsDecided reports a won or drawn game.
func (s GameState) IsDecided() bool {
	return s.Status == StatusBlackWon || s.Status == StatusWhiteWon || s.Status == StatusDraw
}

func wonStatus(player PlayerColor) GameStatus {
	if player == PlayerBlack {
		return StatusBlackWon
	}
	return StatusWhiteWon
}

func otherPlayer(player PlayerColor) PlayerColor {
	if player == PlayerBlack {
		return PlayerWhite
	}
	return PlayerBlack
}

func (p PlayerColor) String() string {
	if p == PlayerBlack {
		return "black"
	}
	return "white"
}
