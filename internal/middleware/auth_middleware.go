package middleware

import (
	"errors"
	"strings"

	"go-office-inventory/internal/model"
	"go-office-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by RequireAuth
const (
	LocalUserID   = "user_id"
	LocalUsername = "username"
	LocalRole     = "user_role"
)

// RequireAuth is middleware that validates the bearer token and sets user info in context
func RequireAuth(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		user, err := authService.Authenticate(c.UserContext(), parts[1])
		if err != nil {
			switch {
			case errors.Is(err, service.ErrForbidden):
				return c.Status(403).JSON(fiber.Map{"error": "Account is inactive"})
			case errors.Is(err, service.ErrUnauthorized):
				return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
			}
			return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
		}

		c.Locals(LocalUserID, user.ID.String())
		c.Locals(LocalUsername, user.Username)
		c.Locals(LocalRole, string(user.Role))

		return c.Next()
	}
}

// RequireRole lets the request through when the authenticated user holds one of roles
func RequireRole(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(string)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No role found"})
		}

		for _, r := range roles {
			if string(r) == role {
				return c.Next()
			}
		}

		names := make([]string, len(roles))
		for i, r := range roles {
			names[i] = string(r)
		}
		return c.Status(403).JSON(fiber.Map{
			"error": "Forbidden: requires role " + strings.Join(names, " or "),
		})
	}
}
