package storage

import "errors"

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrInvalidID      = errors.New("invalid game id")
	ErrGameInProgress = errors.New("game still in progress")
)
