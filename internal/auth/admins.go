package auth

import (
	"errors"
	"fmt"

	"sahone-backend/internal/database"
	"sahone-backend/internal/models"
	"sahone-backend/internal/principal"
	"sahone-backend/internal/request"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AdminInput struct {
	FirebaseUID string   `json:"firebaseUid" validate:"required"`
	Email       string   `json:"email" validate:"required,email"`
	Name        string   `json:"name" validate:"max=100"`
	Phone       string   `json:"phone" validate:"max=30"`
	Permissions []string `json:"permissions"`
}

type UpdateAdminRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=100"`
	Phone *string `json:"phone" validate:"omitempty,max=30"`
}

// CreateOrUpdateAdmin inserts an admin with the given permissions (all of
// them when none are given), or syncs email and name of an existing one.
// A user or delivery row with the same uid is removed, so the uid ends up
// in exactly one table.
func CreateOrUpdateAdmin(db *gorm.DB, in AdminInput) (*models.Admin, bool, error) {
	var admin models.Admin
	created := false

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("firebase_uid = ?", in.FirebaseUID).First(&admin).Error
		if err == nil {
			up := map[string]any{"email": in.Email}
			if in.Name != "" {
				up["name"] = in.Name
			}
			return tx.Model(&admin).Updates(up).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		perms := in.Permissions
		if len(perms) == 0 {
			perms = AllPermissions()
		}
		if err := validatePermissions(perms); err != nil {
			return err
		}
		admin = models.Admin{
			FirebaseUID: in.FirebaseUID,
			Email:       in.Email,
			Name:        in.Name,
			Phone:       in.Phone,
			Role:        models.RoleAdmin,
			Permissions: perms,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		if err := tx.Where("firebase_uid = ?", in.FirebaseUID).Delete(&models.User{}).Error; err != nil {
			return err
		}
		if err := tx.Where("firebase_uid = ?", in.FirebaseUID).Delete(&models.DeliveryPerson{}).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &admin, created, nil
}

func validatePermissions(perms []string) error {
	known := map[string]bool{PermAll: true}
	for _, p := range AllPermissions() {
		known[p] = true
	}
	for _, p := range perms {
		if !known[p] {
			return fiber.NewError(fiber.StatusBadRequest, "Unknown permission: "+p)
		}
	}
	return nil
}

// POST /api/admin/admins
func CreateOrUpdateAdminHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body AdminInput
		if err := request.Bind(c, &body); err != nil {
			return err
		}
		admin, created, err := CreateOrUpdateAdmin(database.DB, body)
		if err != nil {
			return err
		}
		status := fiber.StatusOK
		if created {
			status = fiber.StatusCreated
		}
		return c.Status(status).JSON(fiber.Map{"id": admin.ID, "isNew": created})
	}
}

// GET /api/admin/admins/:firebaseUid
func GetAdminHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var admin models.Admin
		err := database.DB.Where("firebase_uid = ?", c.Params("firebaseUid")).First(&admin).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(nil)
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load admin")
		}
		return c.JSON(admin)
	}
}

// PUT /api/admin/profile
func UpdateAdminHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principal.Require(c)
		if err != nil {
			return err
		}

		var body UpdateAdminRequest
		if err := request.Bind(c, &body); err != nil {
			return err
		}

		var admin models.Admin
		if err := database.DB.First(&admin, p.AccountID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Admin not found")
		}

		up := map[string]any{}
		if body.Name != nil {
			up["name"] = *body.Name
		}
		if body.Phone != nil {
			up["phone"] = *body.Phone
		}
		if len(up) > 0 {
			if err := database.DB.Model(&admin).Updates(up).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not update admin")
			}
		}
		return c.JSON(fiber.Map{"success": true, "id": admin.ID})
	}
}
