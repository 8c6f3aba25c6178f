package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lk16/mines/internal/config"
	"github.com/lk16/mines/internal/models"
)

const (
	clientTimeout = 1 * time.Second
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned unexpected status %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is a StatusError with the given status code.
func IsStatus(err error, statusCode int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == statusCode
}

// Client talks to the game API of the server.
type Client struct {
	config     *config.PlayClientConfig
	httpClient *http.Client
}

func NewClient(config *config.PlayClientConfig) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: clientTimeout,
		},
	}
}

func (c *Client) logRequestAsCurl(req *http.Request) {
	// Do not build string if we're not logging it
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	var builder strings.Builder
	builder.WriteString("curl -X ")
	builder.WriteString(req.Method)
	builder.WriteString(" '")
	builder.WriteString(req.URL.String())
	builder.WriteString("'")

	for key, values := range req.Header {
		for _, value := range values {
			builder.WriteString(" -H '")
			builder.WriteString(strings.ToLower(key))
			builder.WriteString(": ")
			builder.WriteString(value)
			builder.WriteString("'")
		}
	}

	if req.Body != nil && req.Body != http.NoBody {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			slog.Error("Failed to read request body", "error", err)
		}

		if len(body) > 0 {
			builder.WriteString(" -d '")
			builder.WriteString(strings.ReplaceAll(string(body), "'", "'\\''"))
			builder.WriteString("'")
		}

		// Restore the original body
		req.Body = io.NopCloser(bytes.NewBuffer(body))
	}

	slog.Debug("Sending request", "command", builder.String())
}

// do sends a request and decodes the JSON response into target, which may be nil.
func (c *Client) do(ctx context.Context, method string, path string, payload any, target any) error {
	var body io.Reader = http.NoBody

	if payload != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(payload); err != nil {
			return fmt.Errorf("failed to encode payload: %w", err)
		}
		body = buf
	}

	ctx, cancel := context.WithTimeout(ctx, clientTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.config.ServerURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logRequestAsCurl(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	slog.Debug("Response", "status", resp.Status, "body", string(respBody))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var parsed struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(respBody, &parsed)
		return &StatusError{StatusCode: resp.StatusCode, Message: parsed.Error}
	}

	if target == nil {
		return nil
	}

	if err = json.Unmarshal(respBody, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// NewGame starts a game with the board size of the client config.
func (c *Client) NewGame(ctx context.Context) (models.GameState, error) {
	payload := models.NewGamePayload{
		Width:  &c.config.Width,
		Height: &c.config.Height,
		Mines:  &c.config.Mines,
	}

	var state models.GameState
	if err := c.do(ctx, http.MethodPost, "/api/games", payload, &state); err != nil {
		return models.GameState{}, fmt.Errorf("failed to create game: %w", err)
	}

	return state, nil
}

func (c *Client) GetGame(ctx context.Context, id string) (models.GameState, error) {
	var state models.GameState
	if err := c.do(ctx, http.MethodGet, "/api/games/"+id, nil, &state); err != nil {
		return models.GameState{}, fmt.Errorf("failed to get game: %w", err)
	}

	return state, nil
}

// Open opens the cell at row x and column y.
func (c *Client) Open(ctx context.Context, id string, x, y int) (models.OpenResponse, error) {
	var resp models.OpenResponse
	if err := c.do(ctx, http.MethodPost, "/api/games/"+id+"/open", models.MovePayload{X: x, Y: y}, &resp); err != nil {
		return models.OpenResponse{}, fmt.Errorf("failed to open cell: %w", err)
	}

	return resp, nil
}

// ToggleFlag toggles the flag at row x and column y.
func (c *Client) ToggleFlag(ctx context.Context, id string, x, y int) (models.FlagResponse, error) {
	var resp models.FlagResponse
	if err := c.do(ctx, http.MethodPost, "/api/games/"+id+"/flag", models.MovePayload{X: x, Y: y}, &resp); err != nil {
		return models.FlagResponse{}, fmt.Errorf("failed to toggle flag: %w", err)
	}

	return resp, nil
}

func (c *Client) Restart(ctx context.Context, id string) (models.GameState, error) {
	var state models.GameState
	if err := c.do(ctx, http.MethodPost, "/api/games/"+id+"/restart", nil, &state); err != nil {
		return models.GameState{}, fmt.Errorf("failed to restart game: %w", err)
	}

	return state, nil
}

func (c *Client) DeleteGame(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/games/"+id, nil, nil); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	return nil
}
