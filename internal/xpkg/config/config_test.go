package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"cafe-orders/internal/xpkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
database:
  host: db.local
  port: "5432"
  user: cafe
  password: secret
  database: cafe_orders

rabbitmq:
  user: guest
  password: guest
  host: mq.local
  port: "5672"
  vhost: ""
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := config.LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "db.local", cfg.DB.Host)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Equal(t, "cafe", cfg.DB.User)
	assert.Equal(t, "secret", cfg.DB.Password)
	assert.Equal(t, "cafe_orders", cfg.DB.Database)

	assert.Equal(t, "mq.local", cfg.RMQ.Host)
	assert.Equal(t, "guest", cfg.RMQ.User)
}

func TestLoadConfigEnvPasswordOverride(t *testing.T) {
	t.Setenv("CAFE_DB_PASSWORD", "from-env")

	cfg, err := config.LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.DB.Password)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigMissingSections(t *testing.T) {
	_, err := config.LoadConfig(writeConfig(t, "database:\n  host: x\n"))
	assert.Error(t, err)
}
