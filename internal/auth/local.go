package auth

import (
	"errors"
	"fmt"
	"strings"

	"sahone-backend/internal/config"
	"sahone-backend/internal/database"
	"sahone-backend/internal/models"
	"sahone-backend/internal/request"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type LocalSignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"max=100"`
	Phone    string `json:"phone" validate:"max=30"`
	Address  string `json:"address" validate:"max=500"`
}

type LocalLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterLocal stores a bcrypt credential and returns the identity it
// stands for. Local uids look like "local:<n>".
func RegisterLocal(db *gorm.DB, email, password string) (*Identity, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	var count int64
	if err := db.Model(&models.LocalCredential{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fiber.NewError(fiber.StatusConflict, "Email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	cred := models.LocalCredential{
		UID:          "pending:" + email,
		Email:        email,
		PasswordHash: string(hash),
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&cred).Error; err != nil {
			return err
		}
		cred.UID = fmt.Sprintf("local:%d", cred.ID)
		return tx.Model(&cred).Update("uid", cred.UID).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create credential: %w", err)
	}
	return &Identity{UID: cred.UID, Email: email}, nil
}

func VerifyLocal(db *gorm.DB, email, password string) (*Identity, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	var cred models.LocalCredential
	if err := db.Where("email = ?", email).First(&cred).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	}
	return &Identity{UID: cred.UID, Email: cred.Email}, nil
}

// POST /api/auth/local/signup
func LocalSignupHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LocalSignupRequest
		if err := request.Bind(c, &body); err != nil {
			return err
		}

		id, err := RegisterLocal(database.DB, body.Email, body.Password)
		if err != nil {
			return err
		}
		id.Name = body.Name

		acc, isNew, err := EnsureAccount(database.DB, cfg, id, Profile{Name: body.Name, Phone: body.Phone, Address: body.Address})
		if err != nil {
			return err
		}
		return sessionResponse(c, cfg, acc, isNew)
	}
}

// POST /api/auth/local/login
func LocalLoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LocalLoginRequest
		if err := request.Bind(c, &body); err != nil {
			return err
		}

		id, err := VerifyLocal(database.DB, body.Email, body.Password)
		if err != nil {
			return err
		}

		acc, isNew, err := EnsureAccount(database.DB, cfg, id, Profile{})
		if err != nil {
			return err
		}
		return sessionResponse(c, cfg, acc, isNew)
	}
}
