package main

type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidBoardSize    Error = "invalid board size"
	ErrInvalidAdjacency    Error = "invalid adjacency mode"
	ErrInvalidDepth        Error = "invalid search depth"
	ErrUnknownStrategy     Error = "unknown strategy"
	ErrInvalidSnapshot     Error = "invalid state snapshot"
	ErrWorkerClosed        Error = "search worker closed"
	ErrWorkerFailed        Error = "search worker failed"
	ErrStrategyUnavailable Error = "strategy has no move implementation"
)
