package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", DriverSQLite)
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("INVOICE_DUE_DAY", "15")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.InvoiceDueDay)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestValidate(t *testing.T) {
	base := Config{DBDriver: DriverPostgres, InvoiceDueDay: 10, Timezone: "UTC"}
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }},
		{"due day zero", func(c *Config) { c.InvoiceDueDay = 0 }},
		{"due day 31", func(c *Config) { c.InvoiceDueDay = 31 }},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
