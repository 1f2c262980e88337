package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Env:                      "development",
			Port:                     "8480",
			JWTSecret:                "secure-secret-at-least-32-chars-long",
			DBDriver:                 "postgres",
			DBPassword:               "secure-password",
			DBSSLMode:                "disable",
			DBConnMaxLifetimeMinutes: 1,
			RedisURL:                 "redis://localhost:6379",
			PictureMaxSizeMB:         5,
		}
	}

	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"valid development config", func(c *Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"missing jwt secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"unknown db driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"sqlite allowed in development", func(c *Config) { c.DBDriver = "sqlite" }, false},
		{"sqlite rejected in production", func(c *Config) {
			c.Env = "production"
			c.DBDriver = "sqlite"
		}, true},
		{"default jwt secret rejected in production", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "your-secret-key-change-in-production"
		}, true},
		{"short jwt secret rejected in production", func(c *Config) {
			c.Env = "prod"
			c.JWTSecret = "short"
		}, true},
		{"default db password rejected in production", func(c *Config) {
			c.Env = "production"
			c.DBPassword = "password"
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_PictureMaxSizeBytes(t *testing.T) {
	c := &Config{PictureMaxSizeMB: 5}
	assert.Equal(t, int64(5*1024*1024), c.PictureMaxSizeBytes())

	// Unset falls back to the 5 MiB default rather than zero.
	c = &Config{}
	assert.Equal(t, int64(5*1024*1024), c.PictureMaxSizeBytes())
}
