// Package principal holds the authenticated caller on the fiber context.
package principal

import (
	"sahone-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	ctxKey = "principal"

	// read by the request logger
	CtxUserIDKey = "user_id"
)

type Principal struct {
	AccountID uint
	UID       string
	Email     string
	Role      models.UserRole
}

func (p Principal) Is(role models.UserRole) bool { return p.Role == role }

func Set(c *fiber.Ctx, p Principal) {
	c.Locals(ctxKey, p)
	c.Locals(CtxUserIDKey, p.AccountID)
}

func From(c *fiber.Ctx) (Principal, bool) {
	p, ok := c.Locals(ctxKey).(Principal)
	return p, ok
}

// Require returns 401 when no caller was attached by the JWT middleware.
func Require(c *fiber.Ctx) (Principal, error) {
	p, ok := From(c)
	if !ok {
		return Principal{}, fiber.NewError(fiber.StatusUnauthorized, "Authentication required")
	}
	return p, nil
}
