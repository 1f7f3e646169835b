package audit

import (
	"encoding/json"
	"fmt"

	"sahone-backend/internal/database"
	"sahone-backend/internal/models"
	"sahone-backend/internal/principal"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type LogOptions struct {
	Actor       principal.Principal
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

func WriteLog(opts LogOptions) error {
	// "null" rather than "" so the column always holds valid JSON
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	entry := models.AuditLog{
		ActorID:     opts.Actor.AccountID,
		ActorRole:   opts.Actor.Role,
		ActorEmail:  opts.Actor.Email,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

// Record writes an entry for the caller on c. Failures are logged, never
// returned, so an audit problem does not fail the mutation itself.
func Record(c *fiber.Ctx, opts LogOptions) {
	if p, ok := principal.From(c); ok {
		opts.Actor = p
	}
	if err := WriteLog(opts); err != nil {
		logrus.WithFields(logrus.Fields{
			"entity_type": opts.EntityType,
			"entity_id":   opts.EntityID,
			"action":      opts.Action,
		}).WithError(err).Error("audit log write failed")
	}
}
