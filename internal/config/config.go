package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const defaultDSN = "host=localhost user=postgres password=postgres dbname=sahone port=5432 sslmode=disable"

type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DBDriver    string `env:"DB_DRIVER" envDefault:"postgres"` // postgres | sqlite
	DatabaseDSN string `env:"DATABASE_DSN" envDefault:"host=localhost user=postgres password=postgres dbname=sahone port=5432 sslmode=disable"`

	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`

	CORSOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173"`

	FirebaseProjectID       string `env:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsPath string `env:"FIREBASE_CREDENTIALS_PATH"`
	LocalAuthEnabled        bool   `env:"LOCAL_AUTH_ENABLED" envDefault:"false"`

	// Bootstrap role for first-time sign-ins. Existing accounts keep their stored role.
	AdminEmails    []string `env:"ADMIN_EMAILS" envSeparator:","`
	DeliveryEmails []string `env:"DELIVERY_EMAILS" envSeparator:","`

	DefaultDeliveryCharge  float64 `env:"DEFAULT_DELIVERY_CHARGE" envDefault:"50"`
	StrictOrderTransitions bool    `env:"ORDER_STRICT_TRANSITIONS" envDefault:"false"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	RateLimitMax    int           `env:"RATE_LIMIT_MAX" envDefault:"20"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"` // text | json
	LogFile   string `env:"LOG_FILE"`

	ReportDailyAt string `env:"REPORT_DAILY_AT"` // HH:MM, empty = off
}

// Load reads an optional env file (ENV_FILE, default .env) and then the
// process environment.
func Load() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read env file %s: %w", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config parse: %w", err)
	}
	cfg.AdminEmails = normalizeEmails(cfg.AdminEmails)
	cfg.DeliveryEmails = normalizeEmails(cfg.DeliveryEmails)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.warn()
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters")
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if !c.FirebaseEnabled() && !c.LocalAuthEnabled {
		return errors.New("no identity provider: set FIREBASE_PROJECT_ID or LOCAL_AUTH_ENABLED")
	}
	if c.ReportDailyAt != "" {
		if _, err := time.Parse("15:04", c.ReportDailyAt); err != nil {
			return fmt.Errorf("REPORT_DAILY_AT must be HH:MM: %w", err)
		}
	}
	if c.DefaultDeliveryCharge < 0 {
		return errors.New("DEFAULT_DELIVERY_CHARGE cannot be negative")
	}
	return nil
}

func (c *Config) warn() {
	if c.DBDriver == "postgres" && c.DatabaseDSN == defaultDSN {
		logrus.Warn("DATABASE_DSN not set, using local default")
	}
	if c.CORSOrigins == "*" {
		logrus.Warn("CORS_ALLOWED_ORIGINS=* allows any origin")
	}
	if c.LocalAuthEnabled {
		logrus.Warn("LOCAL_AUTH_ENABLED is on: email/password accounts are stored locally")
	}
}

func (c *Config) FirebaseEnabled() bool {
	return c.FirebaseProjectID != "" || c.FirebaseCredentialsPath != ""
}

func normalizeEmails(in []string) []string {
	out := make([]string, 0, len(in))
	for _, e := range in {
		e = strings.TrimSpace(strings.ToLower(e))
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}
