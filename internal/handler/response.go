package handler

import (
	"errors"

	"go-office-inventory/internal/middleware"
	"go-office-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// statusFor maps the service error kinds onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrInsufficientStock), errors.Is(err, service.ErrConflict):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// respondError writes {"error": msg}. Unknown errors never leak their text.
func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		return c.Status(status).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// getUserID returns the authenticated user id as stored by RequireAuth
func getUserID(c *fiber.Ctx) string {
	userID, ok := c.Locals(middleware.LocalUserID).(string)
	if !ok {
		return "system"
	}
	return userID
}

func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(getUserID(c))
}

func parseIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}
