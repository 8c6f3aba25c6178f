package models

import (
	"encoding/json"
	"testing"

	"github.com/lk16/mines/internal/minesweeper"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int {
	return &n
}

func TestNewGamePayload_Resolve(t *testing.T) {
	tests := []struct {
		name       string
		payload    NewGamePayload
		wantWidth  int
		wantHeight int
		wantMines  int
		wantErr    bool
	}{
		{
			name:       "defaults",
			payload:    NewGamePayload{},
			wantWidth:  10,
			wantHeight: 10,
			wantMines:  8,
		},
		{
			name:       "explicit",
			payload:    NewGamePayload{Width: intPtr(5), Height: intPtr(3), Mines: intPtr(4)},
			wantWidth:  5,
			wantHeight: 3,
			wantMines:  4,
		},
		{
			name:       "zero mines",
			payload:    NewGamePayload{Width: intPtr(3), Height: intPtr(3), Mines: intPtr(0)},
			wantWidth:  3,
			wantHeight: 3,
			wantMines:  0,
		},
		{
			name:       "all mines",
			payload:    NewGamePayload{Width: intPtr(2), Height: intPtr(2), Mines: intPtr(4)},
			wantWidth:  2,
			wantHeight: 2,
			wantMines:  4,
		},
		{name: "zero width", payload: NewGamePayload{Width: intPtr(0)}, wantErr: true},
		{name: "huge height", payload: NewGamePayload{Height: intPtr(1000)}, wantErr: true},
		{name: "negative mines", payload: NewGamePayload{Mines: intPtr(-1)}, wantErr: true},
		{
			name:    "too many mines",
			payload: NewGamePayload{Width: intPtr(2), Height: intPtr(2), Mines: intPtr(5)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			width, height, mines, err := tt.payload.Resolve()

			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidPayload)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.wantWidth, width)
			require.Equal(t, tt.wantHeight, height)
			require.Equal(t, tt.wantMines, mines)
		})
	}
}

func TestNewGamePayload_ZeroMinesFromJSON(t *testing.T) {
	var payload NewGamePayload
	require.NoError(t, json.Unmarshal([]byte(`{"width":4,"height":4,"mines":0}`), &payload))

	_, _, mines, err := payload.Resolve()
	require.NoError(t, err)
	require.Equal(t, 0, mines)
}

func TestMovePayload_Position(t *testing.T) {
	payload := MovePayload{X: 2, Y: 4}

	require.Equal(t, minesweeper.Position{Row: 2, Col: 4}, payload.Position())
}
