package users

import (
	"errors"
	"strings"

	"sahone-backend/internal/database"
	"sahone-backend/internal/models"
	"sahone-backend/internal/principal"
	"sahone-backend/internal/request"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PUT /api/users/me
func UpdateMeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principal.Require(c)
		if err != nil {
			return err
		}
		if !p.Is(models.RoleUser) {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		var body Patch
		if err := request.Bind(c, &body); err != nil {
			return err
		}

		user, err := Update(database.DB, p.AccountID, body)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "id": user.ID})
	}
}

// GET /api/admin/users
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var list []models.User
		if err := database.DB.Order("created_at desc").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list users")
		}
		return c.JSON(list)
	}
}

// GET /api/admin/users/by-email?email=
func GetUserByEmailHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := strings.TrimSpace(strings.ToLower(c.Query("email")))
		if email == "" {
			return fiber.NewError(fiber.StatusBadRequest, "email is required")
		}
		return findOne(c, "email = ?", email)
	}
}

// GET /api/admin/users/by-uid/:firebaseUid
func GetUserByFirebaseUIDHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return findOne(c, "firebase_uid = ?", c.Params("firebaseUid"))
	}
}

// findOne answers null instead of 404 when nothing matches.
func findOne(c *fiber.Ctx, query string, arg any) error {
	var user models.User
	err := database.DB.Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(nil)
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not load user")
	}
	return c.JSON(user)
}
