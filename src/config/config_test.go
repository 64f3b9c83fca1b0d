package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "STORE_BACKEND", "JWT_TTL", "SMTP_PORT", "NOTIFY_TO", "APP_BASE_URL"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	assert.Equal(t, "8888", cfg.Port)
	assert.Equal(t, "mongo", cfg.StoreBackend)
	assert.Equal(t, 12*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Empty(t, cfg.NotifyTo)
	assert.Equal(t, "http://localhost:3000", cfg.AppBaseURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "SQLite")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("SMTP_PORT", "not-a-port")
	t.Setenv("NOTIFY_TO", "super@example.com, , ops@example.com")
	t.Setenv("APP_BASE_URL", "https://inspect.example.com/")
	cfg := Load()

	assert.Equal(t, "sqlite", cfg.StoreBackend)
	assert.Equal(t, 90*time.Minute, cfg.JWTTTL)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, []string{"super@example.com", "ops@example.com"}, cfg.NotifyTo)
	assert.Equal(t, "https://inspect.example.com", cfg.AppBaseURL)
}
