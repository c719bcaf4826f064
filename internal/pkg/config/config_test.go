package config_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/motmap/internal/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load("motmap-test")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "motmap", cfg.Database.DBName)
	assert.Equal(t, int32(20), cfg.Database.MaxConns)
	assert.Equal(t, "motmap-test", cfg.Telemetry.ServiceName)
	assert.Equal(t, "restaurant-import", cfg.Temporal.TaskQueue)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "postgres://motmap:@localhost:5432/motmap?sslmode=disable", cfg.Database.DSN())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MOTMAP_SERVER_PORT", "9090")
	t.Setenv("MOTMAP_DATABASE_HOST", "db.internal")
	t.Setenv("MOTMAP_LOG_LEVEL", "debug")

	cfg, err := config.Load("motmap-test")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidEnvIsReported(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MOTMAP_SERVER_PORT", "70000")

	_, err := config.Load("motmap-test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be 1-65535")
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &config.Config{}
	err := cfg.Validate()
	require.Error(t, err)

	msg := err.Error()
	for _, want := range []string{
		"server.port", "database.host", "database.user", "database.dbname",
		"nats.url", "valkey.addr", "temporal.task_queue", "log.format",
	} {
		assert.True(t, strings.Contains(msg, want), "missing %q in %q", want, msg)
	}
}
