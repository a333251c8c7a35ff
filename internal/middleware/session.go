package middleware

import (
	"context"
	"strings"

	"github.com/Tron16/SolarScheduler/internal/domain"
	"github.com/Tron16/SolarScheduler/internal/port"
	"github.com/gofiber/fiber/v3"
)

// SessionResolver validates a raw session token and returns the user
// context for it.
type SessionResolver interface {
	Resolve(ctx context.Context, rawToken string) (*domain.UserContext, error)
}

// RequireAuth creates a Fiber middleware that validates the bearer
// session token and injects a UserContext into the request context.
// Requests without a valid session never reach the handler.
func RequireAuth(resolver SessionResolver) fiber.Handler {
	return func(c fiber.Ctx) error {
		var token string

		// Try Authorization header first
		authHeader := c.Get("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
				token = parts[1]
			}
		}

		// Fallback: ?token= query param (for SSE/EventSource which can't set headers)
		if token == "" {
			token = c.Query("token")
		}

		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing authorization",
			})
		}

		uc, err := resolver.Resolve(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		c.Locals("user", uc)

		return c.Next()
	}
}

// RequireAdmin gates a route group on the admin role. It must run after
// RequireAuth. Authenticated non-admins get 403; anonymous callers get
// 401 from RequireAuth before this runs.
func RequireAdmin() fiber.Handler {
	return func(c fiber.Ctx) error {
		uc := GetUserContext(c)
		if uc == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing authorization",
			})
		}
		if !uc.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": port.ErrAdminRequired.Error(),
			})
		}
		return c.Next()
	}
}

// GetUserContext extracts the UserContext from Fiber locals.
func GetUserContext(c fiber.Ctx) *domain.UserContext {
	u, ok := c.Locals("user").(*domain.UserContext)
	if !ok {
		return nil
	}
	return u
}
