package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validTestConfig() *Config {
	return &Config{
		Port:        "8480",
		Env:         "development",
		JWTSecret:   "test_secret",
		DBPath:      "applytrack.db",
		UploadDir:   "uploads",
		MaxUploadMB: 10,
	}
}

func TestValidateAcceptsDevelopmentDefaults(t *testing.T) {
	assert.NoError(t, validTestConfig().Validate())
}

func TestValidateRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing port", func(c *Config) { c.Port = "" }},
		{"missing jwt secret", func(c *Config) { c.JWTSecret = "" }},
		{"missing db path", func(c *Config) { c.DBPath = "" }},
		{"missing upload dir", func(c *Config) { c.UploadDir = "" }},
		{"zero upload cap", func(c *Config) { c.MaxUploadMB = 0 }},
		{"negative upload cap", func(c *Config) { c.MaxUploadMB = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateProductionSecretPolicy(t *testing.T) {
	cfg := validTestConfig()
	cfg.Env = "production"

	cfg.JWTSecret = "your-secret-key-change-in-production"
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = "short"
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = strings.Repeat("s", 32)
	assert.NoError(t, cfg.Validate())
}
