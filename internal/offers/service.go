package offers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"sahone-backend/internal/apperr"
	"sahone-backend/internal/models"

	"gorm.io/gorm"
)

type CreateOfferRequest struct {
	Title          string              `json:"title" validate:"required,max=150"`
	Description    string              `json:"description" validate:"max=1000"`
	Code           string              `json:"code" validate:"required,max=50"`
	DiscountType   models.DiscountType `json:"discountType" validate:"required,oneof=percentage fixed"`
	DiscountValue  float64             `json:"discountValue" validate:"gt=0"`
	MinOrderAmount *float64            `json:"minOrderAmount" validate:"omitempty,gte=0"`
	MaxDiscount    *float64            `json:"maxDiscount" validate:"omitempty,gte=0"`
	ValidFrom      int64               `json:"validFrom" validate:"required"`
	ValidTo        int64               `json:"validTo" validate:"required"`
	IsActive       *bool               `json:"isActive"`
}

// The code of an offer cannot be changed once created.
type UpdateOfferRequest struct {
	Title          *string              `json:"title" validate:"omitempty,min=1,max=150"`
	Description    *string              `json:"description" validate:"omitempty,max=1000"`
	DiscountType   *models.DiscountType `json:"discountType" validate:"omitempty,oneof=percentage fixed"`
	DiscountValue  *float64             `json:"discountValue" validate:"omitempty,gt=0"`
	MinOrderAmount *float64             `json:"minOrderAmount" validate:"omitempty,gte=0"`
	MaxDiscount    *float64             `json:"maxDiscount" validate:"omitempty,gte=0"`
	ValidFrom      *int64               `json:"validFrom"`
	ValidTo        *int64               `json:"validTo"`
	IsActive       *bool                `json:"isActive"`
}

func checkOffer(o *models.Offer) error {
	if o.DiscountType != models.DiscountPercentage && o.DiscountType != models.DiscountFixed {
		return apperr.Invalid("discountType must be percentage or fixed")
	}
	if o.DiscountValue <= 0 {
		return apperr.Invalid("discountValue must be greater than 0")
	}
	if o.DiscountType == models.DiscountPercentage && o.DiscountValue > 100 {
		return apperr.Invalid("Percentage discount cannot exceed 100")
	}
	if o.ValidTo < o.ValidFrom {
		return apperr.Invalid("validTo must not be before validFrom")
	}
	return nil
}

func FindByCode(db *gorm.DB, code string) (*models.Offer, error) {
	var o models.Offer
	err := db.Where("code = ?", strings.TrimSpace(code)).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func Get(db *gorm.DB, id uint) (*models.Offer, error) {
	var o models.Offer
	if err := db.First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Offer not found")
		}
		return nil, err
	}
	return &o, nil
}

func ListActive(db *gorm.DB, now time.Time) ([]models.Offer, error) {
	ms := now.UnixMilli()
	var list []models.Offer
	err := db.Where("is_active = ? AND valid_from <= ? AND valid_to >= ?", true, ms, ms).
		Order("valid_to asc").Find(&list).Error
	return list, err
}

func Create(db *gorm.DB, in CreateOfferRequest) (*models.Offer, error) {
	o := models.Offer{
		Title:          strings.TrimSpace(in.Title),
		Description:    in.Description,
		Code:           strings.TrimSpace(in.Code),
		DiscountType:   in.DiscountType,
		DiscountValue:  in.DiscountValue,
		MinOrderAmount: in.MinOrderAmount,
		MaxDiscount:    in.MaxDiscount,
		ValidFrom:      in.ValidFrom,
		ValidTo:        in.ValidTo,
		IsActive:       true,
	}
	if in.IsActive != nil {
		o.IsActive = *in.IsActive
	}
	if o.Code == "" {
		return nil, apperr.Invalid("code is required")
	}
	if err := checkOffer(&o); err != nil {
		return nil, err
	}

	existing, err := FindByCode(db, o.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("Offer code already exists")
	}
	if err := db.Create(&o).Error; err != nil {
		return nil, fmt.Errorf("create offer: %w", err)
	}
	return &o, nil
}

func Update(db *gorm.DB, id uint, in UpdateOfferRequest) (before, after *models.Offer, err error) {
	o, err := Get(db, id)
	if err != nil {
		return nil, nil, err
	}
	snapshot := *o

	if in.Title != nil {
		o.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		o.Description = *in.Description
	}
	if in.DiscountType != nil {
		o.DiscountType = *in.DiscountType
	}
	if in.DiscountValue != nil {
		o.DiscountValue = *in.DiscountValue
	}
	if in.MinOrderAmount != nil {
		o.MinOrderAmount = in.MinOrderAmount
	}
	if in.MaxDiscount != nil {
		o.MaxDiscount = in.MaxDiscount
	}
	if in.ValidFrom != nil {
		o.ValidFrom = *in.ValidFrom
	}
	if in.ValidTo != nil {
		o.ValidTo = *in.ValidTo
	}
	if in.IsActive != nil {
		o.IsActive = *in.IsActive
	}
	if err := checkOffer(o); err != nil {
		return nil, nil, err
	}
	if err := db.Save(o).Error; err != nil {
		return nil, nil, fmt.Errorf("update offer: %w", err)
	}
	return &snapshot, o, nil
}

func SetStatus(db *gorm.DB, id uint, active bool) (*models.Offer, error) {
	o, err := Get(db, id)
	if err != nil {
		return nil, err
	}
	if err := db.Model(o).Update("is_active", active).Error; err != nil {
		return nil, err
	}
	return o, nil
}

func Delete(db *gorm.DB, id uint) (*models.Offer, error) {
	o, err := Get(db, id)
	if err != nil {
		return nil, err
	}
	if err := db.Delete(o).Error; err != nil {
		return nil, err
	}
	return o, nil
}
