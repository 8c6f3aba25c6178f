package ws

import (
	"log/slog"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/lk16/mines/internal/game"
	"github.com/lk16/mines/internal/ws"
)

func handleWs(c *websocket.Conn) {
	games := c.Locals("games").(*game.Service) //nolint: errcheck

	h := ws.NewHandler(c, games)
	err := h.Handle()
	if err != nil {
		slog.Debug("ws connection closed", "error", err)
	}
}

func upgradeOnly(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}

// SetupRoutes sets up the routes for the websocket.
func SetupRoutes(app *fiber.App) {
	app.Get("/ws", upgradeOnly, websocket.New(handleWs))
}
