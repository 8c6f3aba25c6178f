package minesweeper

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
)

// Position identifies a cell by zero-based row and column.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Status is derived from the cells of a board.
type Status int

const (
	Playing Status = iota
	Lost
	Won
)

func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Lost:
		return "lost"
	case Won:
		return "won"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Rand is the source of mine positions. *rand.Rand from math/rand/v2 implements it.
type Rand interface {
	IntN(n int) int
}

// Option configures a Board at construction time.
type Option func(*Board)

// WithRand makes the board draw mine positions from r.
func WithRand(r Rand) Option {
	return func(b *Board) {
		b.rand = r
	}
}

// WithSeed makes mine placement reproducible.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed))) //nolint:gosec
}

// Board holds the cells of a Minesweeper game. Cells are stored row-major:
// the cell at (row, col) lives at index row*width + col.
//
// A Board does no locking. Callers must not run a mutation concurrently with any other call.
type Board struct {
	width      int
	height     int
	minesCount int
	cells      []Cell
	rand       Rand
}

// MaxSide is the largest width or height New accepts.
const MaxSide = 1024

// New creates a board with all cells closed and minesCount mines placed at random.
// Negative arguments are treated as zero and sides are capped at MaxSide.
// At most width*height mines are drawn.
func New(width, height, minesCount int, opts ...Option) *Board {
	b := &Board{
		width:      min(max(width, 0), MaxSide),
		height:     min(max(height, 0), MaxSide),
		minesCount: max(minesCount, 0),
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.rand == nil {
		b.rand = newDefaultRand()
	}

	b.cells = b.generateCells()
	return b
}

func newDefaultRand() Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec
}

// Restart replaces all cells with a fresh random layout, keeping the dimensions and mine count.
func (b *Board) Restart() *Board {
	b.cells = b.generateCells()
	return b
}

// generateCells draws minesCount positions independently. A position drawn twice holds a single
// mine, so the board may end up with fewer mines than minesCount.
func (b *Board) generateCells() []Cell {
	cells := make([]Cell, b.width*b.height)

	if len(cells) == 0 {
		return cells
	}

	for range min(b.minesCount, len(cells)) {
		row := b.rand.IntN(b.height)
		col := b.rand.IntN(b.width)
		slog.Debug("Placed mine", "row", row, "col", col)
		cells[row*b.width+col] = ClosedCell(true)
	}

	return cells
}

// Width returns the number of columns.
func (b *Board) Width() int {
	return b.width
}

// Height returns the number of rows.
func (b *Board) Height() int {
	return b.height
}

// MinesCount returns the number of mine placements drawn per layout.
func (b *Board) MinesCount() int {
	return b.minesCount
}

// Mines returns the number of cells that actually hold a mine.
func (b *Board) Mines() int {
	count := 0
	for _, cell := range b.cells {
		if cell.HasMine() {
			count++
		}
	}
	return count
}

// Contains reports whether pos is on the board.
func (b *Board) Contains(pos Position) bool {
	return pos.Row >= 0 && pos.Row < b.height && pos.Col >= 0 && pos.Col < b.width
}

func (b *Board) index(pos Position) (int, error) {
	if !b.Contains(pos) {
		return 0, &OutOfRangeError{Position: pos, Width: b.width, Height: b.height}
	}
	return pos.Row*b.width + pos.Col, nil
}

// Cell returns the cell at pos.
func (b *Board) Cell(pos Position) (Cell, error) {
	idx, err := b.index(pos)
	if err != nil {
		return Cell{}, err
	}
	return b.cells[idx], nil
}

// Cells returns the player view of every cell in row-major order, see Cell.Code.
func (b *Board) Cells() []int {
	codes := make([]int, len(b.cells))
	for i, cell := range b.cells {
		codes[i] = cell.Code()
	}
	return codes
}

// ToggleFlag flags a closed cell or unflags a flagged one.
// It returns true only when a flag was placed. Open cells and revealed mines are left alone.
func (b *Board) ToggleFlag(pos Position) (bool, error) {
	idx, err := b.index(pos)
	if err != nil {
		return false, err
	}

	cell := b.cells[idx]

	switch cell.kind {
	case Closed:
		b.cells[idx] = FlaggedCell(cell.hasMine)
		return true, nil
	case Flagged:
		b.cells[idx] = ClosedCell(cell.hasMine)
		return false, nil
	case Open, RevealedMine:
		return false, nil
	default:
		panic(fmt.Sprintf("unknown cell kind %d", cell.kind))
	}
}

// Open reveals the cell at pos and returns true if it holds a mine.
//
// Opening a mine turns every mine on the board into a revealed mine, flagged or not.
// Otherwise only the cell at pos changes: it becomes open with its neighbor mine count.
// Flags do not prevent opening and neighbors are never opened automatically.
func (b *Board) Open(pos Position) (bool, error) {
	idx, err := b.index(pos)
	if err != nil {
		return false, err
	}

	if b.cells[idx].HasMine() {
		b.revealMines()
		return true, nil
	}

	b.cells[idx] = OpenCell(b.adjacentMines(pos))
	return false, nil
}

func (b *Board) revealMines() {
	for i, cell := range b.cells {
		switch cell.kind {
		case Closed, Flagged:
			if cell.hasMine {
				b.cells[i] = RevealedMineCell()
			}
		case Open, RevealedMine:
		default:
			panic(fmt.Sprintf("unknown cell kind %d", cell.kind))
		}
	}
}

// Neighbors returns the up to 8 positions around pos, clamped to the board edges.
// The row range is clamped against the height and the column range against the width.
func (b *Board) Neighbors(pos Position) []Position {
	neighbors := make([]Position, 0, maxAdjacentMines)

	for row := max(pos.Row, 1) - 1; row <= min(pos.Row+1, b.height-1); row++ {
		for col := max(pos.Col, 1) - 1; col <= min(pos.Col+1, b.width-1); col++ {
			if row == pos.Row && col == pos.Col {
				continue
			}
			neighbors = append(neighbors, Position{Row: row, Col: col})
		}
	}

	return neighbors
}

func (b *Board) adjacentMines(pos Position) int {
	count := 0
	for _, neighbor := range b.Neighbors(pos) {
		if b.cells[neighbor.Row*b.width+neighbor.Col].HasMine() {
			count++
		}
	}
	return count
}

// Status reports Lost once a mine was revealed and Won once every cell without a mine is open.
// A board without any open cell is still Playing, even if it has no safe cells.
// The board itself does not act on it.
func (b *Board) Status() Status {
	won := true
	opened := false

	for _, cell := range b.cells {
		switch cell.kind {
		case RevealedMine:
			return Lost
		case Closed, Flagged:
			if !cell.hasMine {
				won = false
			}
		case Open:
			opened = true
		default:
			panic(fmt.Sprintf("unknown cell kind %d", cell.kind))
		}
	}

	if won && opened {
		return Won
	}
	return Playing
}

// NewBoardFromLayout creates a board from one string per row, using one rune per cell:
//
//	.  closed          *  closed with mine
//	f  flagged         F  flagged with mine
//	0-8 open           X  revealed mine
//
// Restarting the board places minesCount random mines.
func NewBoardFromLayout(rows []string, minesCount int, opts ...Option) (*Board, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: rows must be non-empty", ErrInvalidLayout)
	}

	height := len(rows)
	width := len(rows[0])

	cells, err := parseLayout(rows, width, height)
	if err != nil {
		return nil, err
	}

	b := &Board{
		width:      width,
		height:     height,
		minesCount: max(minesCount, 0),
		cells:      cells,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.rand == nil {
		b.rand = newDefaultRand()
	}

	return b, nil
}

func parseLayout(rows []string, width, height int) ([]Cell, error) {
	if len(rows) != height {
		return nil, fmt.Errorf("%w: expected %d rows, got %d", ErrInvalidLayout, height, len(rows))
	}

	cells := make([]Cell, 0, width*height)

	for rowIndex, row := range rows {
		runes := []rune(row)
		if len(runes) != width {
			return nil, fmt.Errorf("%w: row %d has length %d, expected %d", ErrInvalidLayout, rowIndex, len(runes), width)
		}

		for colIndex, r := range runes {
			cell, ok := cellFromLayoutRune(r)
			if !ok {
				return nil, fmt.Errorf("%w: unexpected %q at (%d, %d)", ErrInvalidLayout, r, rowIndex, colIndex)
			}
			cells = append(cells, cell)
		}
	}

	return cells, nil
}

// Layout returns the board in the format accepted by NewBoardFromLayout.
// Unlike String it shows where the mines are.
func (b *Board) Layout() []string {
	return b.rows(Cell.layoutRune)
}

// String returns the board as the player sees it, one line per row.
func (b *Board) String() string {
	return strings.Join(b.rows(Cell.PlayerRune), "\n")
}

func (b *Board) rows(toRune func(Cell) rune) []string {
	rows := make([]string, b.height)

	for row := range b.height {
		var builder strings.Builder
		for _, cell := range b.cells[row*b.width : (row+1)*b.width] {
			builder.WriteRune(toRune(cell))
		}
		rows[row] = builder.String()
	}

	return rows
}

type boardJSON struct {
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	MinesCount int      `json:"mines_count"`
	Layout     []string `json:"layout"`
}

// MarshalJSON encodes the full board, including hidden mines.
func (b *Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(boardJSON{
		Width:      b.width,
		Height:     b.height,
		MinesCount: b.minesCount,
		Layout:     b.Layout(),
	})
}

// UnmarshalJSON decodes a board written by MarshalJSON. The random source is reset.
func (b *Board) UnmarshalJSON(data []byte) error {
	var decoded boardJSON
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	if decoded.Width < 0 || decoded.Height < 0 || decoded.MinesCount < 0 {
		return fmt.Errorf("%w: negative dimensions", ErrInvalidLayout)
	}

	if decoded.Width > MaxSide || decoded.Height > MaxSide {
		return fmt.Errorf("%w: sides are limited to %d", ErrInvalidLayout, MaxSide)
	}

	layout := decoded.Layout
	if decoded.Height == 0 {
		layout = nil
	}

	cells, err := parseLayout(layout, decoded.Width, decoded.Height)
	if err != nil {
		return err
	}

	b.width = decoded.Width
	b.height = decoded.Height
	b.minesCount = decoded.MinesCount
	b.cells = cells
	if b.rand == nil {
		b.rand = newDefaultRand()
	}

	return nil
}
