package audit

import (
	"strconv"

	"sahone-backend/internal/database"
	"sahone-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const maxAuditRows = 500

// GET /api/admin/audit-logs?entity_type=order&entity_id=1&actor_id=2&limit=100
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.AuditLog{})

		if entityType := c.Query("entity_type"); entityType != "" {
			dbq = dbq.Where("entity_type = ?", entityType)
		}
		if eid, err := strconv.ParseUint(c.Query("entity_id"), 10, 64); err == nil && eid > 0 {
			dbq = dbq.Where("entity_id = ?", eid)
		}
		if aid, err := strconv.ParseUint(c.Query("actor_id"), 10, 64); err == nil && aid > 0 {
			dbq = dbq.Where("actor_id = ?", aid)
		}

		limit := c.QueryInt("limit", 200)
		if limit <= 0 || limit > maxAuditRows {
			limit = maxAuditRows
		}

		var logs []models.AuditLog
		if err := dbq.Order("created_at DESC, id DESC").Limit(limit).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list audit logs")
		}
		return c.JSON(logs)
	}
}
