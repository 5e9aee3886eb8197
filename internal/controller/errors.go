package controller

import (
	"errors"

	"github.com/benbeisheim/metricchess-backend/internal/model"
	"github.com/benbeisheim/metricchess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

// statusFor maps service failures onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrIllegalMove),
		errors.Is(err, service.ErrInvalidSquare),
		errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, service.ErrInvalidPlayer):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrNotYourTurn),
		errors.Is(err, service.ErrNotInGame):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrGameFull),
		errors.Is(err, service.ErrGameExists),
		errors.Is(err, service.ErrGameOver),
		errors.Is(err, service.ErrNothingToUndo),
		errors.Is(err, service.ErrNothingToRedo),
		errors.Is(err, model.ErrAlreadyQueued):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrEngineUnavailable):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

func sendError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Error("request failed", "path", c.Path(), "err", err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
