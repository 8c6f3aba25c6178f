package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/mines/internal/game"
	"github.com/lk16/mines/internal/minesweeper"
	"github.com/lk16/mines/internal/models"
	"github.com/lk16/mines/internal/session"
)

// ErrorStatus maps errors of the game service to HTTP status codes.
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidPayload):
		return fiber.StatusBadRequest
	case errors.Is(err, session.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, game.ErrGameOver):
		return fiber.StatusConflict
	case errors.Is(err, minesweeper.ErrOutOfRange):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, session.ErrLockTimeout):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	status := ErrorStatus(err)
	if status == fiber.StatusInternalServerError {
		slog.Error("Request failed", "path", c.Path(), "error", err)
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
