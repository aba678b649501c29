package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/kilianp07/planner/core/logger"
	"github.com/kilianp07/planner/core/planner"
)

// statusOf maps planner error kinds to HTTP statuses.
func statusOf(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, planner.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, planner.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, planner.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func errorHandler(log logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := statusOf(err)
		msg := err.Error()
		if code >= fiber.StatusInternalServerError {
			log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
			msg = "internal server error"
		}
		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   msg,
			"code":    code,
		})
	}
}

func badRequest(err error) error {
	return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
}
