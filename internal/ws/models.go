package ws

import (
	"encoding/json"

	"github.com/lk16/mines/internal/models"
)

const (
	EventNewGame    = "new_game"
	EventGetGame    = "get_game"
	EventOpen       = "open"
	EventToggleFlag = "toggle_flag"
	EventRestart    = "restart"
)

type Incoming struct {
	Event string          `json:"event"`
	ID    int             `json:"id"`
	Data  json.RawMessage `json:"data"`
}

type Outgoing struct {
	ID    int    `json:"id"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// GameRequest addresses an existing game.
type GameRequest struct {
	GameID string `json:"game_id"`
}

// MoveRequest addresses a cell of an existing game.
type MoveRequest struct {
	GameID string `json:"game_id"`
	models.MovePayload
}
