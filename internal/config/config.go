// Package config loads runtime settings from the environment (optionally
// seeded by a .env file) and opens the database.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port           string   `env:"PORT" envDefault:"8080"`
	DBDriver       string   `env:"DB_DRIVER" envDefault:"postgres"`
	DatabaseURL    string   `env:"DATABASE_URL" envDefault:"host=localhost user=postgres password=postgres dbname=society port=5432 sslmode=disable"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
	Timezone       string   `env:"TIMEZONE" envDefault:"UTC"`
	InvoiceDueDay  int      `env:"INVOICE_DUE_DAY" envDefault:"15"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string   `env:"LOG_FORMAT" envDefault:"console"`
}

// Load reads .env when present and parses the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, relying on system env")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.InvoiceDueDay < 1 || c.InvoiceDueDay > 28 {
		return fmt.Errorf("INVOICE_DUE_DAY must be between 1 and 28, got %d", c.InvoiceDueDay)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the society's local time zone. Validate has already
// checked the name, so failures fall back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
