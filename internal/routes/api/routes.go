package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lk16/mines/internal/middleware"
)

// SetupRoutes sets up the API routes.
func SetupRoutes(app *fiber.App) {
	gamesGroup := app.Group("/api/games")

	// Stats must be registered before the :id routes
	gamesGroup.Get("/stats", middleware.AuthOrToken(), GetGameStats)

	gamesGroup.Post("/", NewGame)
	gamesGroup.Get("/:id", GetGame)
	gamesGroup.Delete("/:id", DeleteGame)
	gamesGroup.Post("/:id/open", OpenCell)
	gamesGroup.Post("/:id/flag", ToggleFlag)
	gamesGroup.Post("/:id/restart", Restart)
}
