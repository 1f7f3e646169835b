package users

import (
	"errors"
	"fmt"

	"sahone-backend/internal/apperr"
	"sahone-backend/internal/models"

	"gorm.io/gorm"
)

type Input struct {
	FirebaseUID string
	Email       string
	Name        string
	Phone       string
	Address     string
}

// Patch carries only the fields the caller sent.
type Patch struct {
	Name    *string `json:"name" validate:"omitempty,max=100"`
	Phone   *string `json:"phone" validate:"omitempty,max=30"`
	Address *string `json:"address" validate:"omitempty,max=500"`
}

func (p Patch) updates() map[string]any {
	up := map[string]any{}
	if p.Name != nil {
		up["name"] = *p.Name
	}
	if p.Phone != nil {
		up["phone"] = *p.Phone
	}
	if p.Address != nil {
		up["address"] = *p.Address
	}
	return up
}

// CreateOrUpdateUser inserts a customer keyed by firebase uid, or patches the
// non-empty profile fields of an existing one. The bool is true on insert.
func CreateOrUpdateUser(db *gorm.DB, in Input) (*models.User, bool, error) {
	var user models.User
	err := db.Where("firebase_uid = ?", in.FirebaseUID).First(&user).Error
	switch {
	case err == nil:
		up := map[string]any{}
		if in.Name != "" {
			up["name"] = in.Name
		}
		if in.Phone != "" {
			up["phone"] = in.Phone
		}
		if in.Address != "" {
			up["address"] = in.Address
		}
		if len(up) > 0 {
			if err := db.Model(&user).Updates(up).Error; err != nil {
				return nil, false, fmt.Errorf("update user: %w", err)
			}
		}
		return &user, false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, err
	}

	user = models.User{
		FirebaseUID: in.FirebaseUID,
		Email:       in.Email,
		Name:        in.Name,
		Phone:       in.Phone,
		Address:     in.Address,
		Role:        models.RoleUser,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, false, fmt.Errorf("create user: %w", err)
	}
	return &user, true, nil
}

func Update(db *gorm.DB, id uint, p Patch) (*models.User, error) {
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}
	if up := p.updates(); len(up) > 0 {
		if err := db.Model(&user).Updates(up).Error; err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
	}
	return &user, nil
}
