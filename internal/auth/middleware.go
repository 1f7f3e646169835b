package auth

import (
	"strings"

	"sahone-backend/internal/config"
	"sahone-backend/internal/database"
	"sahone-backend/internal/models"
	"sahone-backend/internal/principal"

	"github.com/gofiber/fiber/v2"
)

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Missing Authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header must be 'Bearer <token>'")
		}

		claims, err := ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		principal.Set(c, principal.Principal{
			AccountID: claims.AccountID,
			UID:       claims.UID,
			Email:     claims.Email,
			Role:      claims.Role,
		})
		return c.Next()
	}
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principal.Require(c)
		if err != nil {
			return err
		}
		for _, r := range allowedRoles {
			if r == p.Role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "You are not allowed to perform this action")
	}
}

// RequirePermission checks the admin's stored permissions on every request,
// so revoking a permission takes effect before the token expires.
func RequirePermission(perm Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principal.Require(c)
		if err != nil {
			return err
		}
		if p.Role != models.RoleAdmin {
			return fiber.NewError(fiber.StatusForbidden, "Admin access required")
		}
		var admin models.Admin
		if err := database.DB.First(&admin, p.AccountID).Error; err != nil {
			return fiber.NewError(fiber.StatusForbidden, "Admin access required")
		}
		if !HasPermission(admin.Permissions, perm) {
			return fiber.NewError(fiber.StatusForbidden, "Missing permission: "+perm)
		}
		return c.Next()
	}
}
