package servinghours

import (
	"time"

	"sahone-backend/internal/audit"
	"sahone-backend/internal/database"
	"sahone-backend/internal/models"
	"sahone-backend/internal/request"

	"github.com/gofiber/fiber/v2"
)

// GET /api/serving-hours
func GetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cfg, err := Get(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load serving hours")
		}
		if cfg == nil {
			return c.JSON(nil)
		}
		return c.JSON(cfg)
	}
}

// GET /api/serving-hours/active
func ActiveHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cfg, err := Get(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load serving hours")
		}
		resp := fiber.Map{
			"isClosed":   cfg != nil && cfg.IsClosed,
			"categories": ActiveCategories(cfg, time.Now()),
		}
		if cfg != nil && cfg.IsClosed {
			resp["reason"] = cfg.Reason
		}
		return c.JSON(resp)
	}
}

// PUT /api/admin/serving-hours
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateRequest
		if err := request.Bind(c, &body); err != nil {
			return err
		}
		before, after, err := Upsert(database.DB, body)
		if err != nil {
			return err
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  "serving_hours",
			EntityID:    after.ID,
			Action:      models.AuditActionUpdate,
			Description: "Serving hours updated",
			Before:      before,
			After:       after,
		})
		return c.JSON(fiber.Map{"id": after.ID})
	}
}

// PATCH /api/admin/serving-hours/:slot/items/:itemId
func ToggleItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ItemToggleRequest
		if err := request.Bind(c, &body); err != nil {
			return err
		}
		cfg, err := ToggleItem(database.DB, c.Params("slot"), c.Params("itemId"), *body.IsActive)
		if err != nil {
			return err
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  "serving_hours",
			EntityID:    cfg.ID,
			Action:      models.AuditActionUpdate,
			Description: "Special item toggled: " + c.Params("slot") + "/" + c.Params("itemId"),
			After:       fiber.Map{"isActive": *body.IsActive},
		})
		return c.JSON(fiber.Map{"success": true})
	}
}
