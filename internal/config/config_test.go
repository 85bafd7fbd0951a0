package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv изолирует тест от переменных окружения машины
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_HOST", "SERVER_ENV", "SERVER_BASE_URL", "SERVER_PORT",
		"DATABASE_DRIVER", "DATABASE_URL", "JWT_SECRET", "ACCESS_TOKEN_EXPIRE_MINUTES",
		"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASSWORD", "EMAIL_FROM", "EMAIL_ENABLED",
		"MAX_LOGIN_ATTEMPTS", "FIRST_ADMIN_EMAIL", "FIRST_ADMIN_PASSWORD",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_FromFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  port: 9000
  env: production
  base_url: https://accounts.example.com/
database:
  driver: mysql
  url: user:pass@tcp(localhost:3306)/accounts
jwt:
  secret: file-secret
  access_token_expire_minutes: 15
auth:
  max_login_attempts: 3
`)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "https://accounts.example.com", cfg.Server.BaseURL)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "file-secret", cfg.JWT.Secret)
	assert.Equal(t, 15, cfg.JWT.TTL)
	assert.Equal(t, 3, cfg.Auth.MaxLoginAttempts)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadConfig_EnvOverridesAndDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "jwt:\n  secret: file-secret\n")
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("DATABASE_DRIVER", "memory")
	t.Setenv("SERVER_PORT", "8181")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, "http://localhost:8181", cfg.Server.BaseURL)
	assert.Equal(t, 30, cfg.JWT.TTL)
	assert.Equal(t, 5, cfg.Auth.MaxLoginAttempts)
	assert.Equal(t, "development", cfg.Server.Env)
}

func TestLoadConfig_MissingFileUsesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("DATABASE_DRIVER", "memory")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
}

func TestLoadConfig_Errors(t *testing.T) {
	clearEnv(t)
	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("CONFIG_PATH", writeConfig(t, "database:\n  driver: memory\n"))
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "jwt secret")
	})
	t.Run("bad port", func(t *testing.T) {
		t.Setenv("CONFIG_PATH", writeConfig(t, "jwt:\n  secret: s\ndatabase:\n  driver: memory\n"))
		t.Setenv("SERVER_PORT", "abc")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "SERVER_PORT")
	})
	t.Run("postgres without url", func(t *testing.T) {
		t.Setenv("CONFIG_PATH", writeConfig(t, "jwt:\n  secret: s\n"))
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "database url")
	})
	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("CONFIG_PATH", writeConfig(t, "jwt:\n  secret: s\ndatabase:\n  driver: oracle\n"))
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "unsupported database driver")
	})
	t.Run("malformed yaml", func(t *testing.T) {
		t.Setenv("CONFIG_PATH", writeConfig(t, "jwt: [unterminated"))
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "failed to parse")
	})
}
