package minesweeper

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is wrapped by every OutOfRangeError.
	ErrOutOfRange = errors.New("position out of range")

	// ErrInvalidLayout is returned when a board layout cannot be parsed.
	ErrInvalidLayout = errors.New("invalid board layout")
)

// OutOfRangeError is returned when a position lies outside the board.
// The board is never modified when this error is returned.
type OutOfRangeError struct {
	Position Position
	Width    int
	Height   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: (%d, %d) on a board of width %d and height %d",
		ErrOutOfRange, e.Position.Row, e.Position.Col, e.Width, e.Height)
}

func (e *OutOfRangeError) Unwrap() error {
	return ErrOutOfRange
}
