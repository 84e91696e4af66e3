package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/stroymat/internal/models"
)

// domainError maps domain sentinel errors onto HTTP statuses. Unknown
// errors pass through to the Fiber error handler as 500s.
func domainError(err error) error {
	switch {
	case errors.Is(err, models.ErrInvalidTransition):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, models.ErrValidation):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	default:
		return err
	}
}
