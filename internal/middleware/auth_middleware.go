package middleware

import (
	"strings"

	"go-bakery-trace/internal/model"
	"go-bakery-trace/internal/service"
	"go-bakery-trace/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals keys set by RequireAuth.
const (
	LocalUserID     = "user_id"
	LocalUserEmail  = "user_email"
	LocalUserName   = "user_name"
	LocalPrivileges = "user_privileges"
)

// SessionStore looks up the user behind a token.
type SessionStore interface {
	FindByID(id uuid.UUID) (*model.User, error)
}

func deny(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg, "code": code})
}

// RequireAuth is middleware that validates JWT token and sets user info in context
func RequireAuth(tokens *jwt.Manager, users SessionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return deny(c, fiber.StatusUnauthorized, service.CodeUnauthorized, "Missing authorization token")
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return deny(c, fiber.StatusUnauthorized, service.CodeUnauthorized, "Invalid authorization format. Use: Bearer <token>")
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			return deny(c, fiber.StatusUnauthorized, service.CodeUnauthorized, "Invalid or expired token")
		}

		// Check strict session against DB
		user, err := users.FindByID(claims.UserID)
		if err != nil || !user.IsActive {
			return deny(c, fiber.StatusUnauthorized, service.CodeUnauthorized, "User not found")
		}
		if user.TokenVersion != claims.TokenVersion {
			return deny(c, fiber.StatusUnauthorized, service.CodeUnauthorized, "Session expired (logged in on another device)")
		}

		c.Locals(LocalUserID, claims.UserID.String())
		c.Locals(LocalUserEmail, claims.Email)
		c.Locals(LocalUserName, claims.Name)
		c.Locals(LocalPrivileges, claims.Privileges)

		return c.Next()
	}
}

// RequirePrivilege checks if the authenticated user has the required privilege
func RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		privileges, ok := c.Locals(LocalPrivileges).([]string)
		if !ok {
			return deny(c, fiber.StatusForbidden, service.CodeForbidden, "No privileges found")
		}

		for _, p := range privileges {
			if p == requiredPrivilege {
				return c.Next()
			}
		}

		return deny(c, fiber.StatusForbidden, service.CodeForbidden,
			"Forbidden: requires '"+requiredPrivilege+"' privilege")
	}
}

// Actor returns the display name of the authenticated user, falling back to
// the email.
func Actor(c *fiber.Ctx) string {
	if name, _ := c.Locals(LocalUserName).(string); name != "" {
		return name
	}
	email, _ := c.Locals(LocalUserEmail).(string)
	return email
}
