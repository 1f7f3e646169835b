package auth

import (
	"encoding/json"
	"errors"

	"sahone-backend/internal/config"
	"sahone-backend/internal/database"
	"sahone-backend/internal/models"
	"sahone-backend/internal/principal"
	"sahone-backend/internal/request"
	"sahone-backend/internal/users"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type SessionRequest struct {
	IDToken string `json:"idToken" validate:"required"`
	Profile
}

type ProfileRequest struct {
	Name    *string `json:"name" validate:"omitempty,max=100"`
	Phone   *string `json:"phone" validate:"omitempty,max=30"`
	Address *string `json:"address" validate:"omitempty,max=500"`
}

func sessionResponse(c *fiber.Ctx, cfg *config.Config, acc *Account, isNew bool) error {
	token, err := GenerateToken(cfg.JWTSecret, cfg.JWTTTL, acc)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not issue token")
	}

	status := fiber.StatusOK
	if isNew {
		status = fiber.StatusCreated
		logrus.WithFields(logrus.Fields{"role": acc.Role, "account_id": acc.ID}).Info("account created")
	}
	return c.Status(status).JSON(fiber.Map{
		"token": token,
		"id":    acc.ID,
		"role":  acc.Role,
		"isNew": isNew,
	})
}

// POST /api/auth/session
// Exchanges an identity-provider ID token for a service token.
func SessionHandler(cfg *config.Config, verifier Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if verifier == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "Identity provider is not configured")
		}

		var body SessionRequest
		if err := request.Bind(c, &body); err != nil {
			return err
		}

		id, err := verifier.Verify(c.UserContext(), body.IDToken)
		if err != nil {
			if !errors.Is(err, ErrInvalidIDToken) {
				logrus.WithError(err).Warn("id token verification failed")
			}
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid identity token")
		}

		acc, isNew, err := EnsureAccount(database.DB, cfg, id, body.Profile)
		if err != nil {
			return err
		}
		return sessionResponse(c, cfg, acc, isNew)
	}
}

// GET /api/auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principal.Require(c)
		if err != nil {
			return err
		}

		acc, err := LoadAccount(database.DB, p.Role, p.AccountID)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Account not found")
		}

		// the stored document plus userType
		raw, err := json.Marshal(acc.Record)
		if err != nil {
			return err
		}
		resp := map[string]any{}
		if err := json.Unmarshal(raw, &resp); err != nil {
			return err
		}
		resp["userType"] = acc.Role
		return c.JSON(resp)
	}
}

// PUT /api/auth/profile
// Address is only stored for customers.
func UpdateProfileHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principal.Require(c)
		if err != nil {
			return err
		}

		var body ProfileRequest
		if err := request.Bind(c, &body); err != nil {
			return err
		}

		switch p.Role {
		case models.RoleUser:
			if _, err := users.Update(database.DB, p.AccountID, users.Patch{
				Name:    body.Name,
				Phone:   body.Phone,
				Address: body.Address,
			}); err != nil {
				return err
			}
		case models.RoleAdmin:
			if err := patchNamePhone(&models.Admin{}, p.AccountID, body); err != nil {
				return err
			}
		case models.RoleDelivery:
			if err := patchNamePhone(&models.DeliveryPerson{}, p.AccountID, body); err != nil {
				return err
			}
		}
		return c.JSON(fiber.Map{"success": true, "userType": p.Role})
	}
}

func patchNamePhone(model any, id uint, body ProfileRequest) error {
	if err := database.DB.First(model, id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	}
	up := map[string]any{}
	if body.Name != nil {
		up["name"] = *body.Name
	}
	if body.Phone != nil {
		up["phone"] = *body.Phone
	}
	if len(up) == 0 {
		return nil
	}
	return database.DB.Model(model).Updates(up).Error
}

// GET /api/auth/verify-role?role=admin
func VerifyRoleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principal.Require(c)
		if err != nil {
			return err
		}
		role := models.UserRole(c.Query("role"))
		if !role.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "Unknown role")
		}
		if _, err := LoadAccount(database.DB, p.Role, p.AccountID); err != nil {
			return c.JSON(fiber.Map{"ok": false})
		}
		return c.JSON(fiber.Map{"ok": p.Role == role})
	}
}

// GET /api/auth/permissions/:permission
func CheckPermissionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principal.Require(c)
		if err != nil {
			return err
		}
		if p.Role != models.RoleAdmin {
			return c.JSON(fiber.Map{"ok": false})
		}
		var admin models.Admin
		if err := database.DB.First(&admin, p.AccountID).Error; err != nil {
			return c.JSON(fiber.Map{"ok": false})
		}
		return c.JSON(fiber.Map{"ok": HasPermission(admin.Permissions, c.Params("permission"))})
	}
}
