package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/mines/internal/models"
	"github.com/lk16/mines/internal/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRequest(t *testing.T, app *fiber.App, method string, path string, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	t.Cleanup(func() {
		resp.Body.Close()
	})

	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var parsed T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return parsed
}

func newGame(t *testing.T, app *fiber.App) models.GameState {
	t.Helper()

	resp := doRequest(t, app, http.MethodPost, "/api/games", `{"width":3,"height":3,"mines":2}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	return decode[models.GameState](t, resp)
}

func TestNewGame(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		wantStatusCode int
	}{
		{name: "no body", body: "", wantStatusCode: http.StatusCreated},
		{name: "explicit size", body: `{"width":3,"height":3,"mines":2}`, wantStatusCode: http.StatusCreated},
		{name: "zero mines", body: `{"width":3,"height":3,"mines":0}`, wantStatusCode: http.StatusCreated},
		{name: "invalid json", body: `{"width":`, wantStatusCode: http.StatusBadRequest},
		{name: "zero width", body: `{"width":0}`, wantStatusCode: http.StatusBadRequest},
		{name: "too many mines", body: `{"width":2,"height":2,"mines":5}`, wantStatusCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testApp(t)

			resp := doRequest(t, app, http.MethodPost, "/api/games", tt.body)
			assert.Equal(t, tt.wantStatusCode, resp.StatusCode)

			if resp.StatusCode != http.StatusCreated {
				return
			}

			state := decode[models.GameState](t, resp)
			assert.NotEmpty(t, state.ID)
			assert.Len(t, state.Cells, state.Width*state.Height)
			assert.Equal(t, "playing", state.Status)
		})
	}
}

func TestGetGame(t *testing.T) {
	app := testApp(t)
	created := newGame(t, app)

	resp := doRequest(t, app, http.MethodGet, "/api/games/"+created.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, created, decode[models.GameState](t, resp))

	resp = doRequest(t, app, http.MethodGet, "/api/games/unknown", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOpenCell(t *testing.T) {
	app := testApp(t)
	created := newGame(t, app)
	path := "/api/games/" + created.ID + "/open"

	tests := []struct {
		name           string
		body           string
		wantStatusCode int
		wantMine       bool
		wantCode       int
		wantIndex      int
	}{
		{name: "invalid body", body: `{"x":`, wantStatusCode: http.StatusBadRequest},
		{name: "row out of range", body: `{"x":3,"y":0}`, wantStatusCode: http.StatusUnprocessableEntity},
		{name: "column out of range", body: `{"x":0,"y":-1}`, wantStatusCode: http.StatusUnprocessableEntity},
		{
			name:           "safe cell",
			body:           `{"x":1,"y":1}`,
			wantStatusCode: http.StatusOK,
			wantMine:       false,
			wantCode:       22,
			wantIndex:      4,
		},
		{
			name:           "mine",
			body:           `{"x":0,"y":0}`,
			wantStatusCode: http.StatusOK,
			wantMine:       true,
			wantCode:       30,
			wantIndex:      8,
		},
		{name: "game over", body: `{"x":0,"y":1}`, wantStatusCode: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, app, http.MethodPost, path, tt.body)
			require.Equal(t, tt.wantStatusCode, resp.StatusCode)

			if resp.StatusCode != http.StatusOK {
				body := decode[map[string]string](t, resp)
				assert.NotEmpty(t, body["error"])
				return
			}

			parsed := decode[models.OpenResponse](t, resp)
			assert.Equal(t, tt.wantMine, parsed.Mine)
			assert.Equal(t, tt.wantCode, parsed.Game.Cells[tt.wantIndex])
		})
	}
}

func TestToggleFlag(t *testing.T) {
	app := testApp(t)
	created := newGame(t, app)
	path := "/api/games/" + created.ID + "/flag"

	resp := doRequest(t, app, http.MethodPost, path, `{"x":2,"y":1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	parsed := decode[models.FlagResponse](t, resp)
	require.True(t, parsed.Flagged)
	require.Equal(t, 10, parsed.Game.Cells[7])
	require.Equal(t, 1, parsed.Game.Moves)

	resp = doRequest(t, app, http.MethodPost, path, `{"x":2,"y":1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	parsed = decode[models.FlagResponse](t, resp)
	require.False(t, parsed.Flagged)
	require.Equal(t, 0, parsed.Game.Cells[7])

	resp = doRequest(t, app, http.MethodPost, path, `{"x":2,"y":3}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestRestartAndDelete(t *testing.T) {
	app := testApp(t)
	created := newGame(t, app)

	resp := doRequest(t, app, http.MethodPost, "/api/games/"+created.ID+"/open", `{"x":0,"y":0}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, "/api/games/"+created.ID+"/restart", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	restarted := decode[models.GameState](t, resp)
	require.Equal(t, "playing", restarted.Status)
	require.Equal(t, 0, restarted.Moves)

	resp = doRequest(t, app, http.MethodDelete, "/api/games/"+created.ID, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, app, http.MethodDelete, "/api/games/"+created.ID, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, "/api/games/"+created.ID+"/restart", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGameStatsWithoutServices(t *testing.T) {
	cases := []struct {
		name           string
		token          string
		basicAuth      bool
		wantStatusCode int
	}{
		{name: "no auth", wantStatusCode: http.StatusUnauthorized},
		{name: "wrong token", token: "nope", wantStatusCode: http.StatusUnauthorized},
		{name: "token", token: tests.TestToken, wantStatusCode: http.StatusServiceUnavailable},
		{name: "basic auth", basicAuth: true, wantStatusCode: http.StatusServiceUnavailable},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			app := testApp(t)

			req, err := http.NewRequest(http.MethodGet, "/api/games/stats", nil)
			require.NoError(t, err)

			if tt.token != "" {
				req.Header.Set("x-token", tt.token)
			}
			if tt.basicAuth {
				req.SetBasicAuth(tests.TestUser, tests.TestPassword)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)

			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatusCode, resp.StatusCode)
		})
	}
}

func testApp(t *testing.T) *fiber.App {
	t.Helper()
	return tests.NewApp(t, nil, nil)
}
