package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lk16/mines/internal/config"
	"github.com/lk16/mines/internal/routes/api"
	"github.com/lk16/mines/internal/routes/metrics"
	"github.com/lk16/mines/internal/routes/static"
	"github.com/lk16/mines/internal/routes/version"
	"github.com/lk16/mines/internal/routes/ws"
)

func rootHandler(c *fiber.Ctx) error {
	return c.Redirect("/static/index.html")
}

func SetupRoutes(app *fiber.App, cfg *config.ServerConfig) {
	// Serve API routes
	api.SetupRoutes(app)
	ws.SetupRoutes(app)

	// Serve static files, including the wasm build
	static.SetupRoutes(app, cfg.StaticDir)

	// Serve version info and metrics
	version.SetupRoutes(app)
	metrics.SetupRoutes(app)

	// Serve root page
	app.Get("/", rootHandler)
}
