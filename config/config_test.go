package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
auth:
  secret_key: file-secret
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "file-secret", cfg.Auth.SecretKey)
	assert.Equal(t, 30*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "https://exp.host/--/api/v2/push/send", cfg.Push.ExpoURL)
	assert.Equal(t, "uploads/profile_pics", cfg.Upload.Dir)
	assert.Equal(t, 1, cfg.WorkerPool.Size)
	assert.Greater(t, cfg.WorkerPool.QueueSize, 0)
}

func TestEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
auth:
  secret_key: file-secret
upload:
  dir: /srv/uploads
`)

	t.Setenv("SECRET_KEY", "env-secret")
	t.Setenv("UPLOAD_FOLDER", "/env/uploads")
	t.Setenv("DB_DSN", "host=envdb user=gate")
	t.Setenv("PORT", "9090")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.Auth.SecretKey)
	assert.Equal(t, "/env/uploads", cfg.Upload.Dir)
	assert.Equal(t, "host=envdb user=gate", cfg.Database.DSN)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
