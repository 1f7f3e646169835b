package orders

import (
	"fmt"
	"time"

	"sahone-backend/internal/audit"
	"sahone-backend/internal/config"
	"sahone-backend/internal/database"
	"sahone-backend/internal/export"
	"sahone-backend/internal/models"
	"sahone-backend/internal/principal"
	"sahone-backend/internal/request"

	"github.com/gofiber/fiber/v2"
)

func listResponse(c *fiber.Ctx, f Filter) error {
	list, err := List(database.DB, f)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not list orders")
	}
	return c.JSON(list)
}

func recordStatus(c *fiber.Ctx, before, after *models.Order, desc string) {
	audit.Record(c, audit.LogOptions{
		EntityType:  "order",
		EntityID:    after.ID,
		Action:      models.AuditActionStatus,
		Description: desc,
		Before:      before,
		After:       after,
	})
}

// POST /api/orders
func CreateHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principal.Require(c)
		if err != nil {
			return err
		}
		var body CreateOrderRequest
		if err := request.Bind(c, &body); err != nil {
			return err
		}
		o, err := Create(database.DB, p.AccountID, body, cfg.DefaultDeliveryCharge)
		if err != nil {
			return err
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  "order",
			EntityID:    o.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Order placed, total %.2f", o.TotalAmount),
			After:       o,
		})
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": o.ID})
	}
}

// GET /api/admin/orders
func ListAllHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return listResponse(c, Filter{})
	}
}

// GET /api/orders/mine
func ListMineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principal.Require(c)
		if err != nil {
			return err
		}
		return listResponse(c, Filter{UserID: p.AccountID})
	}
}

// GET /api/admin/orders/user/:userId
func ListByUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := request.ParamID(c, "userId")
		if err != nil {
			return err
		}
		return listResponse(c, Filter{UserID: id})
	}
}

// GET /api/admin/orders/status/:status
func ListByStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := models.OrderStatus(c.Params("status"))
		if !st.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "Unknown order status: "+string(st))
		}
		return listResponse(c, Filter{Status: st})
	}
}

// GET /api/admin/orders/delivery/:deliveryPersonId
func ListByDeliveryPersonHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := request.ParamID(c, "deliveryPersonId")
		if err != nil {
			return err
		}
		return listResponse(c, Filter{DeliveryPersonID: id})
	}
}

// GET /api/delivery/me/orders
func ListMyDeliveriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principal.Require(c)
		if err != nil {
			return err
		}
		return listResponse(c, Filter{DeliveryPersonID: p.AccountID})
	}
}

// GET /api/orders/:id
// Owner, assigned delivery person or admin. Others get 404.
func GetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principal.Require(c)
		if err != nil {
			return err
		}
		id, err := request.ParamID(c, "id")
		if err != nil {
			return err
		}
		o, err := Get(database.DB, id)
		if err != nil {
			return err
		}
		if !CanView(o, p) {
			return fiber.NewError(fiber.StatusNotFound, "Order not found")
		}
		return c.JSON(o)
	}
}

// PATCH /api/admin/orders/:id/status
func UpdateStatusHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := request.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body StatusRequest
		if err := request.Bind(c, &body); err != nil {
			return err
		}
		before, after, err := UpdateStatus(database.DB, id, body.Status, ActorAdmin, cfg.StrictOrderTransitions)
		if err != nil {
			return err
		}

		recordStatus(c, before, after, "Order status: "+string(before.Status)+" -> "+string(after.Status))
		return c.JSON(fiber.Map{"success": true})
	}
}

// POST /api/admin/orders/:id/assign
func AssignHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := request.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body AssignRequest
		if err := request.Bind(c, &body); err != nil {
			return err
		}
		before, after, err := AssignDeliveryPerson(database.DB, id, body.DeliveryPersonID)
		if err != nil {
			return err
		}

		recordStatus(c, before, after, fmt.Sprintf("Order assigned to delivery person %d", body.DeliveryPersonID))
		return c.JSON(fiber.Map{"success": true})
	}
}

// POST /api/orders/:id/cancel
func CancelHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principal.Require(c)
		if err != nil {
			return err
		}
		id, err := request.ParamID(c, "id")
		if err != nil {
			return err
		}
		before, after, err := Cancel(database.DB, id, p)
		if err != nil {
			return err
		}

		recordStatus(c, before, after, "Order cancelled by "+string(p.Role))
		return c.JSON(fiber.Map{"success": true})
	}
}

// POST /api/delivery/me/orders/:id/delivered
func MarkDeliveredHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principal.Require(c)
		if err != nil {
			return err
		}
		id, err := request.ParamID(c, "id")
		if err != nil {
			return err
		}
		before, after, err := MarkDelivered(database.DB, id, p.AccountID, cfg.StrictOrderTransitions)
		if err != nil {
			return err
		}

		recordStatus(c, before, after, "Order delivered")
		return c.JSON(fiber.Map{"success": true})
	}
}

// GET /api/admin/orders/recent
func RecentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := Recent(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list orders")
		}
		return c.JSON(list)
	}
}

// GET /api/admin/orders/statistics
func StatisticsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := Stats(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute statistics")
		}
		return c.JSON(s)
	}
}

// GET /api/admin/orders/export?status=
func ExportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := Filter{}
		if s := c.Query("status"); s != "" {
			f.Status = models.OrderStatus(s)
			if !f.Status.Valid() {
				return fiber.NewError(fiber.StatusBadRequest, "Unknown order status: "+s)
			}
		}
		list, err := List(database.DB, f)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list orders")
		}
		buf, err := ExportXLSX(list)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build export")
		}
		return export.Send(c, "orders-"+time.Now().Format("20060102")+".xlsx", buf)
	}
}
