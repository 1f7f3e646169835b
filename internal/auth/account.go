package auth

import (
	"errors"
	"fmt"
	"strings"

	"sahone-backend/internal/config"
	"sahone-backend/internal/delivery"
	"sahone-backend/internal/models"
	"sahone-backend/internal/users"

	"gorm.io/gorm"
)

// Account is the role-independent view of a row in users, admins or
// delivery_personnel.
type Account struct {
	ID          uint
	UID         string
	Email       string
	Name        string
	Role        models.UserRole
	Permissions []string
	Record      any
}

// Profile is the optional data a client sends on first sign-in.
type Profile struct {
	Name          string `json:"name" validate:"max=100"`
	Phone         string `json:"phone" validate:"max=30"`
	Address       string `json:"address" validate:"max=500"`
	VehicleNumber string `json:"vehicleNumber" validate:"max=30"`
}

// FindAccount looks the uid up in admins, then delivery, then users.
// Returns nil, nil when none of them has it.
func FindAccount(db *gorm.DB, uid string) (*Account, error) {
	var admin models.Admin
	if err := db.Where("firebase_uid = ?", uid).First(&admin).Error; err == nil {
		return adminAccount(&admin), nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var person models.DeliveryPerson
	if err := db.Where("firebase_uid = ?", uid).First(&person).Error; err == nil {
		return deliveryAccount(&person), nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var user models.User
	if err := db.Where("firebase_uid = ?", uid).First(&user).Error; err == nil {
		return userAccount(&user), nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return nil, nil
}

// LoadAccount fetches the record behind a token's (role, id).
func LoadAccount(db *gorm.DB, role models.UserRole, id uint) (*Account, error) {
	switch role {
	case models.RoleAdmin:
		var admin models.Admin
		if err := db.First(&admin, id).Error; err != nil {
			return nil, err
		}
		return adminAccount(&admin), nil
	case models.RoleDelivery:
		var person models.DeliveryPerson
		if err := db.First(&person, id).Error; err != nil {
			return nil, err
		}
		return deliveryAccount(&person), nil
	case models.RoleUser:
		var user models.User
		if err := db.First(&user, id).Error; err != nil {
			return nil, err
		}
		return userAccount(&user), nil
	}
	return nil, fmt.Errorf("unknown role %q", role)
}

// EnsureAccount returns the existing account for the identity or creates one
// in the table of the bootstrap role. The bool is true on creation.
func EnsureAccount(db *gorm.DB, cfg *config.Config, id *Identity, p Profile) (*Account, bool, error) {
	existing, err := FindAccount(db, id.UID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	email := strings.TrimSpace(strings.ToLower(id.Email))
	name := firstNonEmpty(p.Name, id.Name)
	phone := firstNonEmpty(p.Phone, id.Phone)

	switch BootstrapRole(cfg.AdminEmails, cfg.DeliveryEmails, email) {
	case models.RoleAdmin:
		admin, _, err := CreateOrUpdateAdmin(db, AdminInput{
			FirebaseUID: id.UID,
			Email:       email,
			Name:        name,
			Phone:       phone,
		})
		if err != nil {
			return nil, false, err
		}
		return adminAccount(admin), true, nil

	case models.RoleDelivery:
		person, _, err := delivery.CreateOrUpdate(db, delivery.Input{
			FirebaseUID:   id.UID,
			Email:         email,
			Name:          name,
			Phone:         phone,
			VehicleNumber: p.VehicleNumber,
		})
		if err != nil {
			return nil, false, err
		}
		return deliveryAccount(person), true, nil
	}

	user, _, err := users.CreateOrUpdateUser(db, users.Input{
		FirebaseUID: id.UID,
		Email:       email,
		Name:        name,
		Phone:       phone,
		Address:     p.Address,
	})
	if err != nil {
		return nil, false, err
	}
	return userAccount(user), true, nil
}

func adminAccount(a *models.Admin) *Account {
	return &Account{ID: a.ID, UID: a.FirebaseUID, Email: a.Email, Name: a.Name, Role: models.RoleAdmin, Permissions: a.Permissions, Record: a}
}

func deliveryAccount(d *models.DeliveryPerson) *Account {
	return &Account{ID: d.ID, UID: d.FirebaseUID, Email: d.Email, Name: d.Name, Role: models.RoleDelivery, Record: d}
}

func userAccount(u *models.User) *Account {
	return &Account{ID: u.ID, UID: u.FirebaseUID, Email: u.Email, Name: u.Name, Role: models.RoleUser, Record: u}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
