package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chesswatch/telemetry/internal/config"
)

func writeConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCollectorConfig_FromFile(t *testing.T) {
	path := writeConfigFile(t, `
debug: true
transport:
  url: ws://aggregator:8080/ws/data
  queue_size: 500
probes:
  origin: collector-1
  system_interval: 30s
  game_feed_url: https://feed.example.com/tv
`)

	cfg, err := config.LoadCollectorConfig(path, t.TempDir())
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "ws://aggregator:8080/ws/data", cfg.Transport.URL)
	assert.Equal(t, 500, cfg.Transport.QueueSize)
	assert.Equal(t, "collector-1", cfg.Probes.Origin)
	assert.Equal(t, 30*time.Second, cfg.Probes.SystemInterval)
	assert.Equal(t, "https://feed.example.com/tv", cfg.Probes.GameFeedURL)

	// Defaults fill in the rest
	assert.Equal(t, 30*time.Second, cfg.Transport.MaxReconnectInterval)
	assert.Equal(t, 2*time.Second, cfg.Probes.GameInterval)
	assert.Equal(t, 5*time.Second, cfg.Probes.Timeout)
	assert.Equal(t, "/", cfg.Probes.SystemDiskPath)
}

func TestLoadCollectorConfig_RequiresURLAndOrigin(t *testing.T) {
	path := writeConfigFile(t, `
probes:
  origin: collector-1
`)
	_, err := config.LoadCollectorConfig(path, t.TempDir())
	assert.ErrorContains(t, err, "transport.url is required")

	path = writeConfigFile(t, `
transport:
  url: ws://aggregator:8080/ws/data
`)
	_, err = config.LoadCollectorConfig(path, t.TempDir())
	assert.ErrorContains(t, err, "probes.origin is required")
}

func TestLoadCollectorConfig_FromEnvironment(t *testing.T) {
	t.Setenv("TELEMETRY_TRANSPORT_URL", "ws://env-host:9000/ws/data")
	t.Setenv("TELEMETRY_PROBES_ORIGIN", "env-collector")

	cfg, err := config.LoadCollectorConfig("", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "ws://env-host:9000/ws/data", cfg.Transport.URL)
	assert.Equal(t, "env-collector", cfg.Probes.Origin)
}

func TestLoadAggregatorConfig_Defaults(t *testing.T) {
	path := writeConfigFile(t, `
database:
  host: localhost
  user: postgres
  password: postgres
  dbname: telemetry
`)

	cfg, err := config.LoadAggregatorConfig(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 8, cfg.BroadcastSenders)
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=postgres dbname=telemetry sslmode=disable",
		cfg.Database.DSN())
}

func TestLoadAggregatorConfig_RequiresDatabase(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9999
`)
	_, err := config.LoadAggregatorConfig(path, t.TempDir())
	assert.ErrorContains(t, err, "database.host is required")
}

func TestLoadAggregatorConfig_EnvFileLoaded(t *testing.T) {
	envDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(envDir, ".env"),
		[]byte("TELEMETRY_DATABASE_HOST=dotenv-host\nTELEMETRY_DATABASE_DBNAME=dotenv-db\n"), 0o644))
	t.Cleanup(func() {
		_ = os.Unsetenv("TELEMETRY_DATABASE_HOST")
		_ = os.Unsetenv("TELEMETRY_DATABASE_DBNAME")
	})

	cfg, err := config.LoadAggregatorConfig("", envDir)
	require.NoError(t, err)
	assert.Equal(t, "dotenv-host", cfg.Database.Host)
	assert.Equal(t, "dotenv-db", cfg.Database.DBName)
}
