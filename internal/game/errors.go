package game

import "errors"

var (
	ErrGameOver        = errors.New("game is over")
	ErrUnknownMove     = errors.New("unknown move")
	ErrGameStarted     = errors.New("moves already played")
	ErrHistoryMismatch = errors.New("replayed history does not match record")
)
