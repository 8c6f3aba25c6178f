package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/lk16/mines/internal/config"
	"github.com/lk16/mines/internal/minesweeper"
)

var ErrInvalidPayload = errors.New("invalid payload")

// NewGamePayload is the request body for creating a game. Omitted fields take the defaults
// of a 10x10 board with 8 mines.
type NewGamePayload struct {
	Width  *int `json:"width,omitempty"`
	Height *int `json:"height,omitempty"`
	Mines  *int `json:"mines,omitempty"`
}

// Resolve applies defaults and validates the board parameters.
func (p NewGamePayload) Resolve() (width, height, mines int, err error) {
	width = valueOr(p.Width, config.DefaultBoardWidth)
	height = valueOr(p.Height, config.DefaultBoardHeight)
	mines = valueOr(p.Mines, config.DefaultBoardMines)

	if width < 1 || width > config.MaxBoardSide {
		return 0, 0, 0, fmt.Errorf("%w: width must be between 1 and %d", ErrInvalidPayload, config.MaxBoardSide)
	}

	if height < 1 || height > config.MaxBoardSide {
		return 0, 0, 0, fmt.Errorf("%w: height must be between 1 and %d", ErrInvalidPayload, config.MaxBoardSide)
	}

	if mines < 0 || mines > width*height {
		return 0, 0, 0, fmt.Errorf("%w: mines must be between 0 and %d", ErrInvalidPayload, width*height)
	}

	return width, height, mines, nil
}

func valueOr(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}

// MovePayload addresses a cell. X is the row and Y the column.
type MovePayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Position converts the payload to a board position.
func (p MovePayload) Position() minesweeper.Position {
	return minesweeper.Position{Row: p.X, Col: p.Y}
}

// GameState is what clients get to see of a game. Cells uses the encoding of
// minesweeper.Cell.Code in row-major order.
type GameState struct {
	ID         string `json:"id"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	MinesCount int    `json:"mines_count"`
	Cells      []int  `json:"cells"`
	Status     string `json:"status"`
	Moves      int    `json:"moves"`
}

// OpenResponse is returned after opening a cell.
type OpenResponse struct {
	Mine bool      `json:"mine"`
	Game GameState `json:"game"`
}

// FlagResponse is returned after toggling a flag.
type FlagResponse struct {
	Flagged bool      `json:"flagged"`
	Game    GameState `json:"game"`
}

// GameRecord is a finished game.
type GameRecord struct {
	ID         string    `json:"id"          db:"id"`
	SessionID  string    `json:"session_id"  db:"session_id"`
	Width      int       `json:"width"       db:"width"`
	Height     int       `json:"height"      db:"height"`
	MinesCount int       `json:"mines_count" db:"mines_count"`
	Outcome    string    `json:"outcome"     db:"outcome"`
	Moves      int       `json:"moves"       db:"moves"`
	FinishedAt time.Time `json:"finished_at" db:"finished_at"`
}

// GameStats summarizes all finished games.
type GameStats struct {
	Played int `json:"played"`
	Won    int `json:"won"`
	Lost   int `json:"lost"`
}

// VersionResponse is returned by the version endpoint.
type VersionResponse struct {
	Commit string `json:"commit"`
}
