package menu

import (
	"errors"
	"fmt"
	"strings"

	"sahone-backend/internal/apperr"
	"sahone-backend/internal/models"

	"gorm.io/gorm"
)

type CreateMenuItemRequest struct {
	Name           string   `json:"name" validate:"required,max=150"`
	Description    string   `json:"description" validate:"max=1000"`
	Category       string   `json:"category" validate:"required"`
	Image          string   `json:"image" validate:"max=500"`
	HasHalfPortion bool     `json:"hasHalfPortion"`
	HalfPrice      *float64 `json:"halfPrice"`
	FullPrice      float64  `json:"fullPrice"`
	IsAvailable    *bool    `json:"isAvailable"`
}

type UpdateMenuItemRequest struct {
	Name           *string  `json:"name" validate:"omitempty,min=1,max=150"`
	Description    *string  `json:"description" validate:"omitempty,max=1000"`
	Category       *string  `json:"category"`
	Image          *string  `json:"image"`
	HasHalfPortion *bool    `json:"hasHalfPortion"`
	HalfPrice      *float64 `json:"halfPrice"`
	FullPrice      *float64 `json:"fullPrice"`
	IsAvailable    *bool    `json:"isAvailable"`
}

var errHalfPrice = apperr.Invalid("Half price is required when half portion option is enabled")

// checkPricing holds for every stored item: a positive full price, and a
// positive half price whenever half portions are offered.
func checkPricing(hasHalf bool, half *float64, full float64) error {
	if full <= 0 {
		return apperr.Invalid("Full price must be greater than 0")
	}
	if hasHalf && (half == nil || *half <= 0) {
		return errHalfPrice
	}
	if half != nil && *half < 0 {
		return apperr.Invalid("Half price cannot be negative")
	}
	return nil
}

func requireCategory(db *gorm.DB, name string) error {
	exists, err := categoryExists(db, name)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.Invalid("Category does not exist")
	}
	return nil
}

func CreateMenuItem(db *gorm.DB, in CreateMenuItemRequest) (*models.MenuItem, error) {
	in.Category = strings.TrimSpace(in.Category)
	if err := requireCategory(db, in.Category); err != nil {
		return nil, err
	}
	if err := checkPricing(in.HasHalfPortion, in.HalfPrice, in.FullPrice); err != nil {
		return nil, err
	}

	item := models.MenuItem{
		Name:           strings.TrimSpace(in.Name),
		Description:    in.Description,
		Category:       in.Category,
		Image:          in.Image,
		HasHalfPortion: in.HasHalfPortion,
		HalfPrice:      in.HalfPrice,
		FullPrice:      in.FullPrice,
		IsAvailable:    true,
	}
	if in.IsAvailable != nil {
		item.IsAvailable = *in.IsAvailable
	}
	if err := db.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("create menu item: %w", err)
	}
	return &item, nil
}

func GetMenuItem(db *gorm.DB, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Menu item not found")
		}
		return nil, err
	}
	return &item, nil
}

// UpdateMenuItem validates the patched item as a whole, so a half price
// already stored satisfies enabling half portions.
func UpdateMenuItem(db *gorm.DB, id uint, in UpdateMenuItemRequest) (before, after *models.MenuItem, err error) {
	item, err := GetMenuItem(db, id)
	if err != nil {
		return nil, nil, err
	}
	snapshot := *item

	if in.Category != nil {
		cat := strings.TrimSpace(*in.Category)
		if err := requireCategory(db, cat); err != nil {
			return nil, nil, err
		}
		item.Category = cat
	}
	if in.Name != nil {
		item.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Image != nil {
		item.Image = *in.Image
	}
	if in.HasHalfPortion != nil {
		item.HasHalfPortion = *in.HasHalfPortion
	}
	if in.HalfPrice != nil {
		item.HalfPrice = in.HalfPrice
	}
	if in.FullPrice != nil {
		item.FullPrice = *in.FullPrice
	}
	if in.IsAvailable != nil {
		item.IsAvailable = *in.IsAvailable
	}

	if err := checkPricing(item.HasHalfPortion, item.HalfPrice, item.FullPrice); err != nil {
		return nil, nil, err
	}
	if err := db.Save(item).Error; err != nil {
		return nil, nil, fmt.Errorf("update menu item: %w", err)
	}
	return &snapshot, item, nil
}

func SetMenuItemAvailability(db *gorm.DB, id uint, available bool) (*models.MenuItem, error) {
	item, err := GetMenuItem(db, id)
	if err != nil {
		return nil, err
	}
	if err := db.Model(item).Update("is_available", available).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func DeleteMenuItem(db *gorm.DB, id uint) (*models.MenuItem, error) {
	item, err := GetMenuItem(db, id)
	if err != nil {
		return nil, err
	}
	if err := db.Delete(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// SearchMenuItems matches a case-insensitive substring of the item name.
func SearchMenuItems(db *gorm.DB, term string) ([]models.MenuItem, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	var items []models.MenuItem
	q := db.Order("name asc")
	if term != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '\\'", "%"+escapeLike(term)+"%")
	}
	err := q.Find(&items).Error
	return items, err
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
