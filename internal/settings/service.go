package settings

import (
	"errors"
	"fmt"
	"strings"

	"sahone-backend/internal/apperr"
	"sahone-backend/internal/models"

	"gorm.io/gorm"
)

type SetRequest struct {
	SettingKey   string `json:"settingKey" validate:"required,max=100"`
	SettingValue string `json:"settingValue"`
	Description  string `json:"description" validate:"max=500"`
}

type BulkRequest struct {
	Settings []SetRequest `json:"settings" validate:"required,min=1,dive"`
}

// Status is what customers see before ordering.
type Status struct {
	IsOpen bool   `json:"isOpen"`
	Reason string `json:"reason,omitempty"`
}

func List(db *gorm.DB) ([]models.RestaurantSetting, error) {
	var list []models.RestaurantSetting
	err := db.Order("setting_key asc").Find(&list).Error
	return list, err
}

// GetByKey returns nil when the key was never set.
func GetByKey(db *gorm.DB, key string) (*models.RestaurantSetting, error) {
	var s models.RestaurantSetting
	err := db.Where("setting_key = ?", key).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Set creates or overwrites a setting. The description is kept when the
// request leaves it empty.
func Set(db *gorm.DB, in SetRequest) (before, after *models.RestaurantSetting, err error) {
	key := strings.TrimSpace(in.SettingKey)
	if key == "" {
		return nil, nil, apperr.Invalid("settingKey is required")
	}
	existing, err := GetByKey(db, key)
	if err != nil {
		return nil, nil, err
	}

	s := &models.RestaurantSetting{SettingKey: key}
	if existing != nil {
		snapshot := *existing
		before = &snapshot
		s = existing
	}
	s.SettingValue = in.SettingValue
	if in.Description != "" {
		s.Description = in.Description
	}
	if err := db.Save(s).Error; err != nil {
		return nil, nil, fmt.Errorf("save setting %s: %w", key, err)
	}
	return before, s, nil
}

// Bulk applies every entry in one transaction.
func Bulk(db *gorm.DB, in []SetRequest) ([]models.RestaurantSetting, error) {
	out := make([]models.RestaurantSetting, 0, len(in))
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, r := range in {
			_, s, err := Set(tx, r)
			if err != nil {
				return err
			}
			out = append(out, *s)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func Delete(db *gorm.DB, id uint) (*models.RestaurantSetting, error) {
	var s models.RestaurantSetting
	if err := db.First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Setting not found")
		}
		return nil, err
	}
	if err := db.Delete(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// CurrentStatus combines the restaurantOpen setting (missing means open)
// with the closed flag of the serving hours.
func CurrentStatus(db *gorm.DB) (Status, error) {
	s, err := GetByKey(db, models.SettingRestaurantOpen)
	if err != nil {
		return Status{}, err
	}
	if s != nil && strings.EqualFold(strings.TrimSpace(s.SettingValue), "false") {
		reason := s.Description
		if reason == "" {
			reason = "Restaurant is currently closed"
		}
		return Status{IsOpen: false, Reason: reason}, nil
	}

	var hours models.ServingHoursConfig
	err = db.Order("id asc").First(&hours).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return Status{}, err
	}
	if err == nil && hours.IsClosed {
		reason := hours.Reason
		if reason == "" {
			reason = "Restaurant is currently closed"
		}
		return Status{IsOpen: false, Reason: reason}, nil
	}
	return Status{IsOpen: true}, nil
}
