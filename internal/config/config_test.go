package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hearthub.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  url: postgres://file/hearthub
auth:
  jwt_secret: from-file
jobs:
  reconcile_interval: 5m
  reconcile_grace: 30m
logging:
  level: debug
`)
	t.Setenv("DATABASE_URL", "postgres://env/hearthub")
	t.Setenv("RECONCILE_GRACE", "1h")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres://env/hearthub", cfg.Database.URL)
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, 5*time.Minute, cfg.Jobs.ReconcileInterval)
	assert.Equal(t, time.Hour, cfg.Jobs.ReconcileGrace)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// untouched defaults survive the overlay
	assert.Equal(t, "usd", cfg.Payments.Currency)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/hearthub")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.Jobs.ReconcileInterval)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [unclosed")
	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := Load(writeConfig(t, "server:\n  port: 8080\n"))
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestValidateServer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.URL = "postgres://x"
	assert.ErrorContains(t, cfg.ValidateServer(), "JWT_SECRET or JWKS_URL")

	cfg.Auth.JWKSURL = "https://auth.example.com/.well-known/jwks.json"
	assert.NoError(t, cfg.ValidateServer())

	cfg.Server.Port = 0
	assert.Error(t, cfg.ValidateServer())
}

func TestBadEnvValuesKeepDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/hearthub")
	t.Setenv("PORT", "not-a-port")
	t.Setenv("RECONCILE_INTERVAL", "soon")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.Jobs.ReconcileInterval)
}
