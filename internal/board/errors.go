package board

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPlacement  = errors.New("invalid placement")
	ErrNoKing            = errors.New("no king on board")
	ErrInvalidPiece      = errors.New("invalid piece")
	ErrInvalidColor      = errors.New("invalid color")
	ErrIllegalMove       = errors.New("illegal move")
	ErrInconsistentBoard = errors.New("board and bitboards out of sync")
)

// PlacementError describes where a placement string failed to parse.
type PlacementError struct {
	Rank   int // 1-8, as written in the string
	Column int // character offset within the rank field
	Char   rune
	Reason string
}

func (e *PlacementError) Error() string {
	if e.Char != 0 {
		return fmt.Sprintf("invalid placement: rank %d col %d (%q): %s", e.Rank, e.Column, e.Char, e.Reason)
	}
	return fmt.Sprintf("invalid placement: rank %d: %s", e.Rank, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidPlacement.
func (e *PlacementError) Unwrap() error {
	return ErrInvalidPlacement
}
