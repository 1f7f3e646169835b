package offers

import (
	"time"

	"sahone-backend/internal/audit"
	"sahone-backend/internal/database"
	"sahone-backend/internal/metrics"
	"sahone-backend/internal/models"
	"sahone-backend/internal/request"

	"github.com/gofiber/fiber/v2"
)

type ValidateRequest struct {
	Code        string  `json:"code" validate:"required"`
	OrderAmount float64 `json:"orderAmount" validate:"gte=0"`
}

type StatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

// GET /api/admin/offers
func ListAllHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var list []models.Offer
		if err := database.DB.Order("created_at desc").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list offers")
		}
		return c.JSON(list)
	}
}

// GET /api/offers
func ListActiveHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := ListActive(database.DB, time.Now())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list offers")
		}
		return c.JSON(list)
	}
}

// GET /api/offers/code/:code
// null unless the offer is currently valid.
func GetByCodeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		o, err := FindByCode(database.DB, c.Params("code"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load offer")
		}
		if o == nil || !Active(o, time.Now()) {
			return c.JSON(nil)
		}
		return c.JSON(o)
	}
}

// GET /api/admin/offers/:id
func GetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := request.ParamID(c, "id")
		if err != nil {
			return err
		}
		o, err := Get(database.DB, id)
		if err != nil {
			return err
		}
		return c.JSON(o)
	}
}

// POST /api/admin/offers
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOfferRequest
		if err := request.Bind(c, &body); err != nil {
			return err
		}
		o, err := Create(database.DB, body)
		if err != nil {
			return err
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  "offer",
			EntityID:    o.ID,
			Action:      models.AuditActionCreate,
			Description: "Offer created: " + o.Code,
			After:       o,
		})
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": o.ID})
	}
}

// PUT /api/admin/offers/:id
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := request.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body UpdateOfferRequest
		if err := request.Bind(c, &body); err != nil {
			return err
		}
		before, after, err := Update(database.DB, id, body)
		if err != nil {
			return err
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  "offer",
			EntityID:    id,
			Action:      models.AuditActionUpdate,
			Description: "Offer updated: " + after.Code,
			Before:      before,
			After:       after,
		})
		return c.JSON(fiber.Map{"success": true})
	}
}

// PATCH /api/admin/offers/:id/status
func ToggleStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := request.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body StatusRequest
		if err := request.Bind(c, &body); err != nil {
			return err
		}
		o, err := SetStatus(database.DB, id, *body.IsActive)
		if err != nil {
			return err
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  "offer",
			EntityID:    id,
			Action:      models.AuditActionUpdate,
			Description: "Offer status changed: " + o.Code,
			After:       fiber.Map{"isActive": *body.IsActive},
		})
		return c.JSON(fiber.Map{"success": true})
	}
}

// DELETE /api/admin/offers/:id
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := request.ParamID(c, "id")
		if err != nil {
			return err
		}
		o, err := Delete(database.DB, id)
		if err != nil {
			return err
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  "offer",
			EntityID:    id,
			Action:      models.AuditActionDelete,
			Description: "Offer deleted: " + o.Code,
			Before:      o,
		})
		return c.JSON(fiber.Map{"success": true})
	}
}

// POST /api/offers/validate
func ValidateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ValidateRequest
		if err := request.Bind(c, &body); err != nil {
			return err
		}
		o, err := FindByCode(database.DB, body.Code)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load offer")
		}

		res := Validate(o, body.OrderAmount, time.Now())
		result := "invalid"
		if res.Valid {
			result = "valid"
		}
		metrics.OfferValidations.WithLabelValues(result).Inc()
		return c.JSON(res)
	}
}
