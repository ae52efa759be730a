package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"social-scheduler/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_FileValuesAndDefaults(t *testing.T) {
	path := writeConfig(t, `
env: production
serverAddr: ":8080"
jwt:
  secret_key: "file-secret"
  access_token_ttl: 10m
TTL:
  reset_token: 90s
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, "file-secret", cfg.JWT.SecretKey)
	assert.Equal(t, 10*time.Minute, cfg.JWT.AccessTokenTTL)
	// значения по умолчанию
	assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshTokenTTL)
	assert.Equal(t, 90*time.Second, cfg.TTL.ResetToken)
	assert.Equal(t, time.Hour, cfg.TTL.VerificationToken)
	assert.Equal(t, "token", cfg.Cookie.AccessName)
	assert.Equal(t, "refreshToken", cfg.Cookie.RefreshName)
	assert.True(t, cfg.SecureCookies())
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret_key: "file-secret"
`)
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("APP_URL", "https://scheduler.example.com")
	t.Setenv("CORS_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.JWT.SecretKey)
	assert.Equal(t, "https://scheduler.example.com", cfg.AppURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.SecureCookies())
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("нет секрета", func(t *testing.T) {
		path := writeConfig(t, "env: development\n")
		_, err := config.LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret_key")
	})

	t.Run("нет файла", func(t *testing.T) {
		_, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})

	t.Run("битый yaml", func(t *testing.T) {
		path := writeConfig(t, "jwt: [\n")
		_, err := config.LoadConfig(path)
		require.Error(t, err)
	})
}
