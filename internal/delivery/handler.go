package delivery

import (
	"errors"

	"sahone-backend/internal/audit"
	"sahone-backend/internal/database"
	"sahone-backend/internal/models"
	"sahone-backend/internal/principal"
	"sahone-backend/internal/request"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AvailabilityRequest struct {
	IsAvailable *bool `json:"isAvailable" validate:"required"`
}

type OrderRefRequest struct {
	OrderID string `json:"orderId" validate:"required"`
}

// GET /api/admin/delivery
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var list []models.DeliveryPerson
		if err := database.DB.Order("name asc").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list delivery personnel")
		}
		return c.JSON(list)
	}
}

// GET /api/admin/delivery/available
func ListAvailableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var list []models.DeliveryPerson
		if err := database.DB.Where("is_available = ?", true).Order("name asc").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list delivery personnel")
		}
		return c.JSON(list)
	}
}

// GET /api/admin/delivery/by-uid/:firebaseUid
func GetByFirebaseUIDHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var person models.DeliveryPerson
		err := database.DB.Where("firebase_uid = ?", c.Params("firebaseUid")).First(&person).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(nil)
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load delivery person")
		}
		return c.JSON(person)
	}
}

// POST /api/admin/delivery
func CreateOrUpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body Input
		if err := request.Bind(c, &body); err != nil {
			return err
		}

		person, created, err := CreateOrUpdate(database.DB, body)
		if err != nil {
			return err
		}

		action := models.AuditActionUpdate
		if created {
			action = models.AuditActionCreate
		}
		audit.Record(c, audit.LogOptions{
			EntityType:  "delivery_person",
			EntityID:    person.ID,
			Action:      action,
			Description: "Delivery person saved: " + person.Email,
			After:       person,
		})

		status := fiber.StatusOK
		if created {
			status = fiber.StatusCreated
		}
		return c.Status(status).JSON(fiber.Map{"id": person.ID, "isNew": created})
	}
}

// PATCH /api/admin/delivery/:id/availability
func UpdateAvailabilityHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := request.ParamID(c, "id")
		if err != nil {
			return err
		}
		return setAvailability(c, id)
	}
}

// PATCH /api/delivery/me/availability
func UpdateMyAvailabilityHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principal.Require(c)
		if err != nil {
			return err
		}
		return setAvailability(c, p.AccountID)
	}
}

func setAvailability(c *fiber.Ctx, id uint) error {
	var body AvailabilityRequest
	if err := request.Bind(c, &body); err != nil {
		return err
	}
	if err := SetAvailability(database.DB, id, *body.IsAvailable); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// POST /api/admin/delivery/:id/orders
func AssignOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := request.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body OrderRefRequest
		if err := request.Bind(c, &body); err != nil {
			return err
		}
		if _, err := AssignOrder(database.DB, id, body.OrderID); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true})
	}
}

// POST /api/admin/delivery/:id/orders/:orderId/complete
func CompleteOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := request.ParamID(c, "id")
		if err != nil {
			return err
		}
		if _, err := CompleteOrder(database.DB, id, c.Params("orderId")); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true})
	}
}

// DELETE /api/admin/delivery/:id
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := request.ParamID(c, "id")
		if err != nil {
			return err
		}
		person, err := Get(database.DB, id)
		if err != nil {
			return err
		}
		if err := database.DB.Delete(person).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete delivery person")
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  "delivery_person",
			EntityID:    id,
			Action:      models.AuditActionDelete,
			Description: "Delivery person deleted: " + person.Email,
			Before:      person,
		})
		return c.JSON(fiber.Map{"success": true})
	}
}
