package minesweeper

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCell_ZeroValue(t *testing.T) {
	var cell Cell

	require.Equal(t, Closed, cell.Kind())
	require.False(t, cell.HasMine())
	require.Equal(t, ClosedCell(false), cell)
}

func TestCell_Code(t *testing.T) {
	tests := []struct {
		cell Cell
		want int
	}{
		{ClosedCell(false), 0},
		{ClosedCell(true), 0},
		{FlaggedCell(false), 10},
		{FlaggedCell(true), 10},
		{OpenCell(0), 20},
		{OpenCell(5), 25},
		{OpenCell(8), 28},
		{RevealedMineCell(), 30},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, tt.cell.Code(), "cell %v", tt.cell)
	}
}

func TestCell_HasMine(t *testing.T) {
	require.True(t, ClosedCell(true).HasMine())
	require.True(t, FlaggedCell(true).HasMine())
	require.True(t, RevealedMineCell().HasMine())
	require.False(t, OpenCell(3).HasMine())
	require.False(t, FlaggedCell(false).HasMine())
}

func TestCell_AdjacentMines(t *testing.T) {
	count, ok := OpenCell(4).AdjacentMines()
	require.True(t, ok)
	require.Equal(t, 4, count)

	_, ok = ClosedCell(false).AdjacentMines()
	require.False(t, ok)
}

func TestOpenCell_PanicsOutsideRange(t *testing.T) {
	require.Panics(t, func() { OpenCell(9) })
	require.Panics(t, func() { OpenCell(-1) })
}

func TestCellFromCode(t *testing.T) {
	for _, code := range []int{0, 10, 20, 24, 28, 30} {
		cell, err := CellFromCode(code)
		require.NoError(t, err)
		require.Equal(t, code, cell.Code())
	}

	for _, code := range []int{-1, 5, 19, 29, 31} {
		_, err := CellFromCode(code)
		require.Error(t, err)
	}
}

func TestCellKind_String(t *testing.T) {
	require.Equal(t, "closed", Closed.String())
	require.Equal(t, "revealed_mine", RevealedMine.String())
	require.Equal(t, "CellKind(9)", CellKind(9).String())
}
