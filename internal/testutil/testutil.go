// Package testutil wires an in-memory database and the HTTP app for tests.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"sahone-backend/internal/auth"
	"sahone-backend/internal/config"
	"sahone-backend/internal/database"
	"sahone-backend/internal/events"
	"sahone-backend/internal/models"
	"sahone-backend/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const Secret = "test-secret-that-is-at-least-32-chars"

func Config() *config.Config {
	return &config.Config{
		HTTPPort:              "0",
		DBDriver:              "sqlite",
		DatabaseDSN:           ":memory:",
		JWTSecret:             Secret,
		JWTTTL:                time.Hour,
		CORSOrigins:           "*",
		LocalAuthEnabled:      true,
		AdminEmails:           []string{"boss@sahone.test"},
		DeliveryEmails:        []string{"rider@sahone.test"},
		DefaultDeliveryCharge: 50,
		RateLimitMax:          1000,
		RateLimitWindow:       time.Minute,
		LogLevel:              "error",
		LogFormat:             "text",
	}
}

// DB replaces database.DB with a fresh migrated in-memory sqlite.
func DB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// FakeVerifier maps id tokens to identities.
type FakeVerifier map[string]*auth.Identity

func (f FakeVerifier) Verify(_ context.Context, idToken string) (*auth.Identity, error) {
	id, ok := f[idToken]
	if !ok {
		return nil, auth.ErrInvalidIDToken
	}
	return id, nil
}

type Env struct {
	DB     *gorm.DB
	Config *config.Config
	Broker *events.MemoryBroker
	App    *fiber.App
}

// New builds a complete app over a fresh database. verifier may be nil.
func New(t testing.TB, cfg *config.Config, verifier auth.Verifier) *Env {
	t.Helper()
	if cfg == nil {
		cfg = Config()
	}
	logrus.SetLevel(logrus.ErrorLevel)
	db := DB(t)
	broker := events.NewMemoryBroker()
	t.Cleanup(func() { _ = broker.Close() })
	app := server.New(server.Deps{Config: cfg, Verifier: verifier, Broker: broker})
	return &Env{DB: db, Config: cfg, Broker: broker, App: app}
}

func (e *Env) token(t testing.TB, acc *auth.Account) string {
	t.Helper()
	tok, err := auth.GenerateToken(e.Config.JWTSecret, e.Config.JWTTTL, acc)
	require.NoError(t, err)
	return tok
}

func (e *Env) User(t testing.TB, email string) (*models.User, string) {
	t.Helper()
	u := models.User{
		FirebaseUID: "uid-" + email,
		Email:       email,
		Name:        "Customer " + email,
		Phone:       "9800000000",
		Address:     "Ward 4, Butwal",
		Role:        models.RoleUser,
	}
	require.NoError(t, e.DB.Create(&u).Error)
	return &u, e.token(t, &auth.Account{ID: u.ID, UID: u.FirebaseUID, Email: u.Email, Role: models.RoleUser})
}

// Admin creates an admin holding perms, or every permission when none given.
func (e *Env) Admin(t testing.TB, email string, perms ...string) (*models.Admin, string) {
	t.Helper()
	if len(perms) == 0 {
		perms = auth.AllPermissions()
	}
	a := models.Admin{
		FirebaseUID: "uid-" + email,
		Email:       email,
		Name:        "Admin " + email,
		Role:        models.RoleAdmin,
		Permissions: perms,
	}
	require.NoError(t, e.DB.Create(&a).Error)
	return &a, e.token(t, &auth.Account{ID: a.ID, UID: a.FirebaseUID, Email: a.Email, Role: models.RoleAdmin})
}

func (e *Env) Rider(t testing.TB, email string) (*models.DeliveryPerson, string) {
	t.Helper()
	d := models.DeliveryPerson{
		FirebaseUID:   "uid-" + email,
		Email:         email,
		Name:          "Rider " + email,
		Role:          models.RoleDelivery,
		IsAvailable:   true,
		CurrentOrders: []string{},
	}
	require.NoError(t, e.DB.Create(&d).Error)
	return &d, e.token(t, &auth.Account{ID: d.ID, UID: d.FirebaseUID, Email: d.Email, Role: models.RoleDelivery})
}

// Do sends a JSON request through the app and returns status and raw body.
func (e *Env) Do(t testing.TB, method, path string, body any, token string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.App.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

// JSON is Do plus decoding the body into out (skipped when out is nil).
func (e *Env) JSON(t testing.TB, method, path string, body any, token string, out any) int {
	t.Helper()
	status, raw := e.Do(t, method, path, body, token)
	if out != nil {
		require.NoError(t, json.Unmarshal(raw, out), "body: %s", raw)
	}
	return status
}

// ErrorMessage extracts the "error" field of an error response.
func ErrorMessage(t testing.TB, raw []byte) string {
	t.Helper()
	var e struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &e), "body: %s", raw)
	return e.Error
}
