package ws

import (
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/lk16/mines/internal/game"
	"github.com/lk16/mines/internal/minesweeper"
	"github.com/lk16/mines/internal/session"
	"github.com/stretchr/testify/require"
)

// fakeConn replays incoming frames and collects the written ones.
type fakeConn struct {
	incoming [][]byte
	written  []Outgoing
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	if len(c.incoming) == 0 {
		return 0, nil, io.EOF
	}
	msg := c.incoming[0]
	c.incoming = c.incoming[1:]
	return websocket.TextMessage, msg, nil
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	var outgoing Outgoing
	if err := json.Unmarshal(data, &outgoing); err != nil {
		return err
	}
	c.written = append(c.written, outgoing)
	return nil
}

func newTestGames(t *testing.T) *game.Service {
	t.Helper()
	factory := func(_, _, mines int) *minesweeper.Board {
		board, err := minesweeper.NewBoardFromLayout([]string{"*..", "...", "..."}, mines)
		require.NoError(t, err)
		return board
	}
	return game.NewService(session.NewMemoryStore(time.Hour), nil, game.WithBoardFactory(factory))
}

func frame(t *testing.T, id int, event string, data any) []byte {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	msg, err := json.Marshal(Incoming{Event: event, ID: id, Data: raw})
	require.NoError(t, err)
	return msg
}

// dataField decodes the data of an outgoing message into a generic map.
func dataField(t *testing.T, outgoing Outgoing) map[string]any {
	t.Helper()
	data, ok := outgoing.Data.(map[string]any)
	require.True(t, ok, "unexpected data %v", outgoing.Data)
	return data
}

func TestHandler_GameFlow(t *testing.T) {
	games := newTestGames(t)

	conn := &fakeConn{incoming: [][]byte{
		frame(t, 1, EventNewGame, map[string]int{"width": 3, "height": 3, "mines": 1}),
	}}
	err := NewHandler(conn, games).Handle()
	require.ErrorIs(t, err, io.EOF)

	require.Len(t, conn.written, 1)
	require.Equal(t, 1, conn.written[0].ID)
	require.Empty(t, conn.written[0].Error)
	gameID, ok := dataField(t, conn.written[0])["id"].(string)
	require.True(t, ok)

	conn = &fakeConn{incoming: [][]byte{
		frame(t, 2, EventOpen, map[string]any{"game_id": gameID, "x": 1, "y": 1}),
		frame(t, 3, EventToggleFlag, map[string]any{"game_id": gameID, "x": 0, "y": 0}),
		frame(t, 4, EventGetGame, map[string]any{"game_id": gameID}),
		frame(t, 5, EventOpen, map[string]any{"game_id": gameID, "x": 0, "y": 0}),
		frame(t, 6, EventOpen, map[string]any{"game_id": gameID, "x": 2, "y": 2}),
		frame(t, 7, EventRestart, map[string]any{"game_id": gameID}),
	}}
	err = NewHandler(conn, games).Handle()
	require.ErrorIs(t, err, io.EOF)
	require.Len(t, conn.written, 6)

	open := dataField(t, conn.written[0])
	require.Equal(t, false, open["mine"])

	flag := dataField(t, conn.written[1])
	require.Equal(t, true, flag["flagged"])

	state := dataField(t, conn.written[2])
	require.Equal(t, []any{10.0, 0.0, 0.0, 0.0, 21.0, 0.0, 0.0, 0.0, 0.0}, state["cells"])

	detonation := dataField(t, conn.written[3])
	require.Equal(t, true, detonation["mine"])

	require.Equal(t, 6, conn.written[4].ID)
	require.Equal(t, game.ErrGameOver.Error(), conn.written[4].Error)

	restarted := dataField(t, conn.written[5])
	require.Equal(t, "playing", restarted["status"])
}

func TestHandler_EventErrorsKeepConnection(t *testing.T) {
	conn := &fakeConn{incoming: [][]byte{
		frame(t, 1, "dance", nil),
		[]byte(`{"id": 2}`),
		frame(t, 3, EventGetGame, map[string]any{"game_id": "unknown"}),
		frame(t, 4, EventNewGame, map[string]int{"width": 0}),
		frame(t, 5, EventOpen, "not an object"),
	}}

	err := NewHandler(conn, newTestGames(t)).Handle()
	require.ErrorIs(t, err, io.EOF)

	require.Len(t, conn.written, 5)
	for i, outgoing := range conn.written {
		require.Equal(t, i+1, outgoing.ID)
		require.NotEmpty(t, outgoing.Error)
		require.Nil(t, outgoing.Data)
	}
	require.Contains(t, conn.written[0].Error, "unknown event")
	require.Contains(t, conn.written[2].Error, session.ErrNotFound.Error())
}

func TestHandler_MalformedFrameCloses(t *testing.T) {
	conn := &fakeConn{incoming: [][]byte{[]byte("{")}}

	err := NewHandler(conn, newTestGames(t)).Handle()
	require.Error(t, err)
	require.False(t, errors.Is(err, io.EOF))
	require.Empty(t, conn.written)
}
