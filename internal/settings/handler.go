package settings

import (
	"bufio"
	"context"
	"encoding/json"
	"strconv"

	"sahone-backend/internal/audit"
	"sahone-backend/internal/database"
	"sahone-backend/internal/events"
	"sahone-backend/internal/models"
	"sahone-backend/internal/request"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

type RestaurantStatusRequest struct {
	IsOpen *bool  `json:"isOpen" validate:"required"`
	Reason string `json:"reason" validate:"max=500"`
}

// GET /api/settings
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := List(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list settings")
		}
		return c.JSON(list)
	}
}

// GET /api/settings/:key
func GetByKeyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := GetByKey(database.DB, c.Params("key"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load setting")
		}
		if s == nil {
			return c.JSON(nil)
		}
		return c.JSON(s)
	}
}

// PUT /api/admin/settings
func SetHandler(b events.Broker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SetRequest
		if err := request.Bind(c, &body); err != nil {
			return err
		}
		before, after, err := Set(database.DB, body)
		if err != nil {
			return err
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  "setting",
			EntityID:    after.ID,
			Action:      models.AuditActionUpdate,
			Description: "Setting changed: " + after.SettingKey,
			Before:      before,
			After:       after,
		})
		publish(c.UserContext(), b, after, false)
		return c.JSON(fiber.Map{"id": after.ID})
	}
}

// PUT /api/admin/settings/bulk
func BulkHandler(b events.Broker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body BulkRequest
		if err := request.Bind(c, &body); err != nil {
			return err
		}
		saved, err := Bulk(database.DB, body.Settings)
		if err != nil {
			return err
		}

		for i := range saved {
			audit.Record(c, audit.LogOptions{
				EntityType:  "setting",
				EntityID:    saved[i].ID,
				Action:      models.AuditActionUpdate,
				Description: "Setting changed: " + saved[i].SettingKey,
				After:       saved[i],
			})
			publish(c.UserContext(), b, &saved[i], false)
		}
		return c.JSON(fiber.Map{"success": true, "count": len(saved)})
	}
}

// DELETE /api/admin/settings/:id
func DeleteHandler(b events.Broker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := request.ParamID(c, "id")
		if err != nil {
			return err
		}
		s, err := Delete(database.DB, id)
		if err != nil {
			return err
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  "setting",
			EntityID:    id,
			Action:      models.AuditActionDelete,
			Description: "Setting deleted: " + s.SettingKey,
			Before:      s,
		})
		publish(c.UserContext(), b, s, true)
		return c.JSON(fiber.Map{"success": true})
	}
}

// GET /api/restaurant/status
func StatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, err := CurrentStatus(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load restaurant status")
		}
		return c.JSON(st)
	}
}

// PUT /api/admin/restaurant/status
func UpdateStatusHandler(b events.Broker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RestaurantStatusRequest
		if err := request.Bind(c, &body); err != nil {
			return err
		}
		before, after, err := Set(database.DB, SetRequest{
			SettingKey:   models.SettingRestaurantOpen,
			SettingValue: strconv.FormatBool(*body.IsOpen),
			Description:  body.Reason,
		})
		if err != nil {
			return err
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  "setting",
			EntityID:    after.ID,
			Action:      models.AuditActionStatus,
			Description: "Restaurant open set to " + after.SettingValue,
			Before:      before,
			After:       after,
		})
		publish(c.UserContext(), b, after, false)
		return c.JSON(fiber.Map{"success": true, "isOpen": *body.IsOpen})
	}
}

// GET /api/settings/stream
func StreamHandler(b events.Broker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, err := CurrentStatus(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load restaurant status")
		}
		initial, _ := json.Marshal(st)

		c.Set("Content-Type", "text/event-stream")
		c.Set("Cache-Control", "no-cache")
		c.Set("Connection", "keep-alive")
		c.Set("X-Accel-Buffering", "no")

		ctx, cancel := context.WithCancel(context.Background())
		ch, unsubscribe := b.Subscribe(ctx, events.TopicSettings)
		remote := c.IP()

		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			defer cancel()
			defer unsubscribe()
			if err := streamEvents(w, initial, ch, heartbeatInterval); err != nil {
				logrus.WithField("remote", remote).Debug("settings stream closed")
			}
		}))
		return nil
	}
}
