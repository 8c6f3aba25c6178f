package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lk16/mines/internal/game"
	"github.com/lk16/mines/internal/models"
	"github.com/lk16/mines/internal/repository"
	"github.com/lk16/mines/internal/services"
)

func gameService(c *fiber.Ctx) *game.Service {
	return c.Locals("games").(*game.Service) //nolint: errcheck
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid request body",
	})
}

// NewGame creates a game. The body is optional.
func NewGame(c *fiber.Ctx) error {
	var payload models.NewGamePayload
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return invalidBody(c)
		}
	}

	width, height, mines, err := payload.Resolve()
	if err != nil {
		return errorResponse(c, err)
	}

	state, err := gameService(c).NewGame(c.Context(), width, height, mines)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(state)
}

// GetGame returns the dimensions and cells of a game.
func GetGame(c *fiber.Ctx) error {
	state, err := gameService(c).Get(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(state)
}

// DeleteGame drops a game.
func DeleteGame(c *fiber.Ctx) error {
	if err := gameService(c).Delete(c.Context(), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// OpenCell opens a cell.
func OpenCell(c *fiber.Ctx) error {
	var payload models.MovePayload
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	mine, state, err := gameService(c).Open(c.Context(), c.Params("id"), payload.Position())
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(models.OpenResponse{Mine: mine, Game: state})
}

// ToggleFlag toggles the flag on a cell.
func ToggleFlag(c *fiber.Ctx) error {
	var payload models.MovePayload
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	flagged, state, err := gameService(c).ToggleFlag(c.Context(), c.Params("id"), payload.Position())
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(models.FlagResponse{Flagged: flagged, Game: state})
}

// Restart puts a new layout on the board of a game.
func Restart(c *fiber.Ctx) error {
	state, err := gameService(c).Restart(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(state)
}

// GetGameStats returns statistics about finished games.
func GetGameStats(c *fiber.Ctx) error {
	if svc, _ := c.Locals("services").(*services.Services); svc == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Game records are not available",
		})
	}

	repo := repository.NewGameRepository(c)
	stats, err := repo.GetGameStats(c.Context())
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}
