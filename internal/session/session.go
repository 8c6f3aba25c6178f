package session

import (
	"context"
	"errors"

	"github.com/lk16/mines/internal/minesweeper"
)

// ErrNotFound is returned for unknown or expired session IDs.
var ErrNotFound = errors.New("session not found")

// Session is one player's board together with the bookkeeping the server keeps about it.
type Session struct {
	ID    string             `json:"id"`
	Board *minesweeper.Board `json:"board"`

	// Moves counts opens and flag toggles since the last restart.
	Moves int `json:"moves"`

	// Recorded is set once the outcome of the current board has been stored.
	Recorded bool `json:"recorded"`
}

// Store owns the sessions. A Board is only ever touched inside Update or View,
// and Update holds exclusive access to its session for the duration of fn.
type Store interface {
	// Create stores a new session for board and returns its ID.
	Create(ctx context.Context, board *minesweeper.Board) (string, error)

	// Update runs fn with exclusive access to the session. Changes made by fn are kept
	// even if fn returns an error.
	Update(ctx context.Context, id string, fn func(*Session) error) error

	// View runs fn with read access to the session. fn must not modify it.
	View(ctx context.Context, id string, fn func(*Session) error) error

	// Delete removes the session.
	Delete(ctx context.Context, id string) error
}
