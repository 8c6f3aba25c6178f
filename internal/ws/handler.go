package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/lk16/mines/internal/game"
	"github.com/lk16/mines/internal/models"
)

const (
	eventTimeout = 5 * time.Second
)

// Conn is the part of a websocket connection the handler uses.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
}

type Handler struct {
	games *game.Service
	ws    Conn
}

// NewHandler creates a new Handler.
func NewHandler(ws Conn, games *game.Service) *Handler {
	return &Handler{games: games, ws: ws}
}

func (h *Handler) readMessage() (*Incoming, error) {
	var req Incoming

	msgType, msg, err := h.ws.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("ws read error: %w", err)
	}

	slog.Debug("read ws message", "msgType", msgType, "msg", msg)

	if msgType != websocket.TextMessage {
		return nil, fmt.Errorf("unexpected message type: %d", msgType)
	}

	if err = json.Unmarshal(msg, &req); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}

	return &req, nil
}

func (h *Handler) writeMessage(outgoing *Outgoing) error {
	msg, err := json.Marshal(outgoing)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	slog.Debug("write ws message", "msg", string(msg))

	if err = h.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
		return fmt.Errorf("write error: %w", err)
	}

	return nil
}

func (h *Handler) handleMessage(ctx context.Context, req *Incoming) (any, error) {
	if req.Event == "" {
		return nil, errors.New("event field is either empty or missing")
	}

	switch req.Event {
	case EventNewGame:
		return h.handleNewGame(ctx, req)
	case EventGetGame:
		return h.handleGetGame(ctx, req)
	case EventOpen:
		return h.handleOpen(ctx, req)
	case EventToggleFlag:
		return h.handleToggleFlag(ctx, req)
	case EventRestart:
		return h.handleRestart(ctx, req)
	default:
		return nil, fmt.Errorf("unknown event: %s", req.Event)
	}
}

// Handle handles the websocket connection until reading or writing fails.
// Errors of individual events are sent back to the client.
func (h *Handler) Handle() error {
	for {
		req, err := h.readMessage()
		if err != nil {
			return fmt.Errorf("ws read error: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		data, err := h.handleMessage(ctx, req)
		cancel()

		outgoing := &Outgoing{ID: req.ID, Data: data}
		if err != nil {
			slog.Debug("ws event failed", "event", req.Event, "error", err)
			outgoing = &Outgoing{ID: req.ID, Error: err.Error()}
		}

		if err = h.writeMessage(outgoing); err != nil {
			return fmt.Errorf("ws write error: %w", err)
		}
	}
}

func decodeData(req *Incoming, target any) error {
	if len(req.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(req.Data, target); err != nil {
		return fmt.Errorf("%w: %s data: %w", models.ErrInvalidPayload, req.Event, err)
	}
	return nil
}

func (h *Handler) handleNewGame(ctx context.Context, req *Incoming) (any, error) {
	var payload models.NewGamePayload
	if err := decodeData(req, &payload); err != nil {
		return nil, err
	}

	width, height, mines, err := payload.Resolve()
	if err != nil {
		return nil, err
	}

	return h.games.NewGame(ctx, width, height, mines)
}

func (h *Handler) handleGetGame(ctx context.Context, req *Incoming) (any, error) {
	var payload GameRequest
	if err := decodeData(req, &payload); err != nil {
		return nil, err
	}

	return h.games.Get(ctx, payload.GameID)
}

func (h *Handler) handleOpen(ctx context.Context, req *Incoming) (any, error) {
	var payload MoveRequest
	if err := decodeData(req, &payload); err != nil {
		return nil, err
	}

	mine, state, err := h.games.Open(ctx, payload.GameID, payload.Position())
	if err != nil {
		return nil, err
	}

	return models.OpenResponse{Mine: mine, Game: state}, nil
}

func (h *Handler) handleToggleFlag(ctx context.Context, req *Incoming) (any, error) {
	var payload MoveRequest
	if err := decodeData(req, &payload); err != nil {
		return nil, err
	}

	flagged, state, err := h.games.ToggleFlag(ctx, payload.GameID, payload.Position())
	if err != nil {
		return nil, err
	}

	return models.FlagResponse{Flagged: flagged, Game: state}, nil
}

func (h *Handler) handleRestart(ctx context.Context, req *Incoming) (any, error) {
	var payload GameRequest
	if err := decodeData(req, &payload); err != nil {
		return nil, err
	}

	return h.games.Restart(ctx, payload.GameID)
}
