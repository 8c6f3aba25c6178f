package wasm

import (
	"log/slog"

	"github.com/lk16/mines/internal/config"
	"github.com/lk16/mines/internal/minesweeper"
	"github.com/lk16/mines/internal/models"
)

// Adapter exposes one board through a coordinate based interface that maps onto JavaScript
// functions. x is the row and y the column.
type Adapter struct {
	board *minesweeper.Board
	opts  []minesweeper.Option
}

// NewAdapter creates an adapter with a default board.
func NewAdapter(opts ...minesweeper.Option) *Adapter {
	return &Adapter{
		board: minesweeper.New(config.DefaultBoardWidth, config.DefaultBoardHeight, config.DefaultBoardMines, opts...),
		opts:  opts,
	}
}

func (a *Adapter) GetWidth() int {
	return a.board.Width()
}

func (a *Adapter) GetHeight() int {
	return a.board.Height()
}

// ToggleFlag returns whether the cell is flagged afterwards.
func (a *Adapter) ToggleFlag(x, y int) bool {
	flagged, err := a.board.ToggleFlag(minesweeper.Position{Row: x, Col: y})
	if err != nil {
		slog.Warn("toggleFlag failed", "x", x, "y", y, "error", err)
		return false
	}
	return flagged
}

// OpenCell returns whether the opened cell contained a mine.
func (a *Adapter) OpenCell(x, y int) bool {
	mine, err := a.board.Open(minesweeper.Position{Row: x, Col: y})
	if err != nil {
		slog.Warn("openCell failed", "x", x, "y", y, "error", err)
		return false
	}
	return mine
}

func (a *Adapter) GetCells() []int {
	return a.board.Cells()
}

func (a *Adapter) GetStatus() string {
	return a.board.Status().String()
}

// Restart replaces the board with a fresh one of the same size.
func (a *Adapter) Restart() {
	a.board = a.board.Restart()
}

// NewBoard replaces the board with one of the given size. Sizes the HTTP API would reject are
// logged and answered with false, the current board is kept then.
func (a *Adapter) NewBoard(width, height, mines int) bool {
	payload := models.NewGamePayload{Width: &width, Height: &height, Mines: &mines}
	if _, _, _, err := payload.Resolve(); err != nil {
		slog.Warn("newBoard failed", "width", width, "height", height, "mines", mines, "error", err)
		return false
	}

	a.board = minesweeper.New(width, height, mines, a.opts...)
	return true
}
