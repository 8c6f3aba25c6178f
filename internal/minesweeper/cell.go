package minesweeper

import "fmt"

// CellKind tells which of the four cell states a Cell is in.
type CellKind uint8

const (
	Closed CellKind = iota
	Flagged
	Open
	RevealedMine
)

const (
	codeClosed       = 0
	codeFlagged      = 10
	codeOpen         = 20
	codeRevealedMine = 30

	maxAdjacentMines = 8
)

func (k CellKind) String() string {
	switch k {
	case Closed:
		return "closed"
	case Flagged:
		return "flagged"
	case Open:
		return "open"
	case RevealedMine:
		return "revealed_mine"
	default:
		return fmt.Sprintf("CellKind(%d)", uint8(k))
	}
}

// Cell is the state of a single square. The zero value is a closed cell without a mine.
//
// Only the field matching the kind is meaningful: hasMine for Closed and Flagged,
// adjacent for Open.
type Cell struct {
	kind     CellKind
	hasMine  bool
	adjacent uint8
}

// ClosedCell returns a cell the player has not touched yet.
func ClosedCell(hasMine bool) Cell {
	return Cell{kind: Closed, hasMine: hasMine}
}

// FlaggedCell returns a cell the player marked as a suspected mine.
func FlaggedCell(hasMine bool) Cell {
	return Cell{kind: Flagged, hasMine: hasMine}
}

// OpenCell returns a revealed cell without a mine. Panics if adjacent is not in 0..8.
func OpenCell(adjacent int) Cell {
	if adjacent < 0 || adjacent > maxAdjacentMines {
		panic(fmt.Sprintf("open cell cannot have %d adjacent mines", adjacent))
	}
	return Cell{kind: Open, adjacent: uint8(adjacent)}
}

// RevealedMineCell returns a mine shown after a detonation.
func RevealedMineCell() Cell {
	return Cell{kind: RevealedMine}
}

// Kind returns the state of the cell.
func (c Cell) Kind() CellKind {
	return c.kind
}

// HasMine reports whether a mine is under the cell. Open cells never have one,
// revealed mines always do.
func (c Cell) HasMine() bool {
	switch c.kind {
	case Closed, Flagged:
		return c.hasMine
	case Open:
		return false
	case RevealedMine:
		return true
	default:
		panic(fmt.Sprintf("unknown cell kind %d", c.kind))
	}
}

// AdjacentMines returns the neighbor mine count of an open cell and false for any other kind.
func (c Cell) AdjacentMines() (int, bool) {
	if c.kind != Open {
		return 0, false
	}
	return int(c.adjacent), true
}

// Code encodes the cell as seen by the player: 0 closed, 10 flagged,
// 20+n open with n adjacent mines, 30 revealed mine.
func (c Cell) Code() int {
	switch c.kind {
	case Closed:
		return codeClosed
	case Flagged:
		return codeFlagged
	case Open:
		return codeOpen + int(c.adjacent)
	case RevealedMine:
		return codeRevealedMine
	default:
		panic(fmt.Sprintf("unknown cell kind %d", c.kind))
	}
}

// CellFromCode decodes the player view encoding. Closed and flagged cells come back without a mine,
// since the encoding does not carry that.
func CellFromCode(code int) (Cell, error) {
	switch {
	case code == codeClosed:
		return ClosedCell(false), nil
	case code == codeFlagged:
		return FlaggedCell(false), nil
	case code >= codeOpen && code <= codeOpen+maxAdjacentMines:
		return OpenCell(code - codeOpen), nil
	case code == codeRevealedMine:
		return RevealedMineCell(), nil
	default:
		return Cell{}, fmt.Errorf("invalid cell code %d", code)
	}
}

// layoutRune returns the layout rune of the cell, see NewBoardFromLayout.
func (c Cell) layoutRune() rune {
	switch c.kind {
	case Closed:
		if c.hasMine {
			return '*'
		}
		return '.'
	case Flagged:
		if c.hasMine {
			return 'F'
		}
		return 'f'
	case Open:
		return rune('0' + c.adjacent)
	case RevealedMine:
		return 'X'
	default:
		panic(fmt.Sprintf("unknown cell kind %d", c.kind))
	}
}

func cellFromLayoutRune(r rune) (Cell, bool) {
	switch {
	case r == '.':
		return ClosedCell(false), true
	case r == '*':
		return ClosedCell(true), true
	case r == 'f':
		return FlaggedCell(false), true
	case r == 'F':
		return FlaggedCell(true), true
	case r >= '0' && r <= '8':
		return OpenCell(int(r - '0')), true
	case r == 'X':
		return RevealedMineCell(), true
	default:
		return Cell{}, false
	}
}

// PlayerRune returns how the cell is shown to the player.
func (c Cell) PlayerRune() rune {
	switch c.kind {
	case Closed:
		return '#'
	case Flagged:
		return 'F'
	case Open:
		if c.adjacent == 0 {
			return '.'
		}
		return rune('0' + c.adjacent)
	case RevealedMine:
		return '*'
	default:
		panic(fmt.Sprintf("unknown cell kind %d", c.kind))
	}
}
