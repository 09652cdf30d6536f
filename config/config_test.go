package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("JWT_KEY", "test-key")
	t.Setenv("ADMIN_CODE_HASH", "test-hash")
	t.Setenv("PORT", "")
	t.Setenv("GIN_MODE", "")
	t.Setenv("POSTGRES_URL", "")
	t.Setenv("ALLOWED_ORIGINS", " https://example.com , https://example.org ,")

	cfg := Load()
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "debug", cfg.GinMode)
	assert.Equal(t, "test-key", cfg.JWTKey)
	assert.Equal(t, "test-hash", cfg.AdminCodeHash)
	assert.Empty(t, cfg.PostgresURL)
	assert.Equal(t, []string{"https://example.com", "https://example.org"}, cfg.AllowedOrigins)
}

func TestLoad_ExplicitValues(t *testing.T) {
	t.Setenv("JWT_KEY", "test-key")
	t.Setenv("ADMIN_CODE_HASH", "test-hash")
	t.Setenv("PORT", "8080")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("POSTGRES_URL", "postgres://localhost/games")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "release", cfg.GinMode)
	assert.Equal(t, "postgres://localhost/games", cfg.PostgresURL)
	assert.Nil(t, cfg.AllowedOrigins)
}
