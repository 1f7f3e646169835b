package delivery

import (
	"errors"
	"fmt"

	"sahone-backend/internal/apperr"
	"sahone-backend/internal/models"

	"gorm.io/gorm"
)

type Input struct {
	FirebaseUID   string `json:"firebaseUid" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Name          string `json:"name" validate:"required,max=100"`
	Phone         string `json:"phone" validate:"max=30"`
	VehicleNumber string `json:"vehicleNumber" validate:"max=30"`
	IsAvailable   *bool  `json:"isAvailable"`
}

// CreateOrUpdate upserts a delivery person by firebase uid. New people start
// available with no current orders. The bool is true on insert.
func CreateOrUpdate(db *gorm.DB, in Input) (*models.DeliveryPerson, bool, error) {
	var person models.DeliveryPerson
	err := db.Where("firebase_uid = ?", in.FirebaseUID).First(&person).Error
	switch {
	case err == nil:
		up := map[string]any{
			"name":           in.Name,
			"phone":          in.Phone,
			"vehicle_number": in.VehicleNumber,
		}
		if in.IsAvailable != nil {
			up["is_available"] = *in.IsAvailable
		}
		if err := db.Model(&person).Updates(up).Error; err != nil {
			return nil, false, fmt.Errorf("update delivery person: %w", err)
		}
		return &person, false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, err
	}

	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}
	person = models.DeliveryPerson{
		FirebaseUID:   in.FirebaseUID,
		Email:         in.Email,
		Name:          in.Name,
		Phone:         in.Phone,
		Role:          models.RoleDelivery,
		VehicleNumber: in.VehicleNumber,
		IsAvailable:   available,
		CurrentOrders: []string{},
	}
	if err := db.Create(&person).Error; err != nil {
		return nil, false, fmt.Errorf("create delivery person: %w", err)
	}
	return &person, true, nil
}

func Get(db *gorm.DB, id uint) (*models.DeliveryPerson, error) {
	var person models.DeliveryPerson
	if err := db.First(&person, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Delivery person not found")
		}
		return nil, err
	}
	return &person, nil
}

func SetAvailability(db *gorm.DB, id uint, available bool) error {
	person, err := Get(db, id)
	if err != nil {
		return err
	}
	return db.Model(person).Update("is_available", available).Error
}

// AssignOrder appends orderID to the person's current orders once.
func AssignOrder(db *gorm.DB, id uint, orderID string) (*models.DeliveryPerson, error) {
	person, err := Get(db, id)
	if err != nil {
		return nil, err
	}
	for _, o := range person.CurrentOrders {
		if o == orderID {
			return person, nil
		}
	}
	person.CurrentOrders = append(person.CurrentOrders, orderID)
	if err := saveCurrentOrders(db, person); err != nil {
		return nil, fmt.Errorf("assign order: %w", err)
	}
	return person, nil
}

// CompleteOrder removes orderID from the person's current orders.
func CompleteOrder(db *gorm.DB, id uint, orderID string) (*models.DeliveryPerson, error) {
	person, err := Get(db, id)
	if err != nil {
		return nil, err
	}
	kept := make([]string, 0, len(person.CurrentOrders))
	for _, o := range person.CurrentOrders {
		if o != orderID {
			kept = append(kept, o)
		}
	}
	person.CurrentOrders = kept
	if err := saveCurrentOrders(db, person); err != nil {
		return nil, fmt.Errorf("complete order: %w", err)
	}
	return person, nil
}

// struct form so the json serializer runs on the column
func saveCurrentOrders(db *gorm.DB, person *models.DeliveryPerson) error {
	return db.Model(person).Select("current_orders").
		Updates(&models.DeliveryPerson{CurrentOrders: person.CurrentOrders}).Error
}
