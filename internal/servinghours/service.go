package servinghours

import (
	"errors"
	"fmt"
	"time"

	"sahone-backend/internal/apperr"
	"sahone-backend/internal/models"

	"gorm.io/gorm"
)

var slotNames = []struct {
	ID   string
	Name string
}{
	{"breakfast", "Breakfast"},
	{"lunch", "Lunch"},
	{"dinner", "Dinner"},
}

// ActiveCategory is one slot as shown to customers.
type ActiveCategory struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Time      string               `json:"time"`
	Items     []models.SpecialItem `json:"items"`
	IsCurrent bool                 `json:"isCurrent"`
}

type UpdateRequest struct {
	IsClosed  bool                `json:"isClosed"`
	Reason    string              `json:"reason" validate:"max=500"`
	Breakfast *models.ServingSlot `json:"breakfast" validate:"omitempty"`
	Lunch     *models.ServingSlot `json:"lunch" validate:"omitempty"`
	Dinner    *models.ServingSlot `json:"dinner" validate:"omitempty"`
}

type ItemToggleRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

// ActiveCategories lists the slots a customer can order from: none when
// the restaurant is closed, otherwise every active slot with at least one
// active item. IsCurrent compares now against the slot window.
func ActiveCategories(cfg *models.ServingHoursConfig, now time.Time) []ActiveCategory {
	out := []ActiveCategory{}
	if cfg == nil || cfg.IsClosed {
		return out
	}
	for _, sn := range slotNames {
		slot := cfg.Slot(sn.ID)
		if slot == nil || !slot.IsActive || !slot.HasActiveItem() {
			continue
		}
		items := make([]models.SpecialItem, 0, len(slot.Items))
		for _, it := range slot.Items {
			if it.IsActive {
				items = append(items, it)
			}
		}
		out = append(out, ActiveCategory{
			ID:        sn.ID,
			Name:      sn.Name,
			Time:      slot.StartTime + " - " + slot.EndTime,
			Items:     items,
			IsCurrent: slot.Contains(now),
		})
	}
	return out
}

// Get returns the single config row, or nil when never configured.
func Get(db *gorm.DB) (*models.ServingHoursConfig, error) {
	var cfg models.ServingHoursConfig
	err := db.Order("id asc").First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Upsert replaces the whole config. Optional slots left out are cleared.
func Upsert(db *gorm.DB, in UpdateRequest) (before, after *models.ServingHoursConfig, err error) {
	existing, err := Get(db)
	if err != nil {
		return nil, nil, err
	}

	cfg := &models.ServingHoursConfig{}
	if existing != nil {
		snapshot := *existing
		before = &snapshot
		cfg = existing
	}
	cfg.IsClosed = in.IsClosed
	cfg.Reason = in.Reason
	cfg.Breakfast = normalize(in.Breakfast)
	cfg.Lunch = normalize(in.Lunch)
	cfg.Dinner = normalize(in.Dinner)

	if err := db.Save(cfg).Error; err != nil {
		return nil, nil, fmt.Errorf("save serving hours: %w", err)
	}
	return before, cfg, nil
}

func normalize(s *models.ServingSlot) *models.ServingSlot {
	if s != nil && s.Items == nil {
		s.Items = []models.SpecialItem{}
	}
	return s
}

// ToggleItem flips one special item inside a slot.
func ToggleItem(db *gorm.DB, slotName, itemID string, active bool) (*models.ServingHoursConfig, error) {
	cfg, err := Get(db)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, apperr.NotFound("Serving hours are not configured")
	}
	slot := cfg.Slot(slotName)
	if slot == nil {
		return nil, apperr.NotFound("Slot not found: " + slotName)
	}
	found := false
	for i := range slot.Items {
		if slot.Items[i].ID == itemID {
			slot.Items[i].IsActive = active
			found = true
		}
	}
	if !found {
		return nil, apperr.NotFound("Item not found in slot")
	}
	if err := db.Save(cfg).Error; err != nil {
		return nil, fmt.Errorf("save serving hours: %w", err)
	}
	return cfg, nil
}
