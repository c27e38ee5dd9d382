package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
nats:
  url: nats://nats:4222
  queue_group: sidecars
guild:
  realm_id: 3
  filter_realm: true
  process_interval: 10ms
observability:
  log_level: debug
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "nats://nats:4222", cfg.NATS.URL)
	assert.Equal(t, "sidecars", cfg.NATS.QueueGroup)
	assert.Equal(t, uint32(3), cfg.Guild.RealmID)
	assert.True(t, cfg.Guild.FilterRealm)
	assert.Equal(t, 10*time.Millisecond, cfg.Guild.ProcessInterval)
	// Unset fields keep their defaults.
	assert.Equal(t, 1000, cfg.Guild.QueueSize)
	assert.Equal(t, "guild-sidecar", cfg.NATS.ClientName)

	lvl, err := cfg.Observability.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "nats:\n  url: nats://file:4222\n")
	t.Setenv("NATS_URL", "nats://env:4222")
	t.Setenv("REALM_ID", "7")
	t.Setenv("GUILD_QUEUE_SIZE", "5")
	t.Setenv("GUILD_PROCESS_INTERVAL", "1s")
	t.Setenv("OTLP_ENDPOINT", "http://tempo:4318/v1/traces")
	t.Setenv("TRACE_SAMPLE_RATE", "0.25")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "nats://env:4222", cfg.NATS.URL)
	assert.Equal(t, uint32(7), cfg.Guild.RealmID)
	assert.True(t, cfg.Guild.FilterRealm)
	assert.Equal(t, 5, cfg.Guild.QueueSize)
	assert.Equal(t, time.Second, cfg.Guild.ProcessInterval)
	assert.Equal(t, "http://tempo:4318/v1/traces", cfg.Observability.OTLPEndpoint)
	assert.Equal(t, 0.25, cfg.Observability.TraceSampleRate)
}

func TestLoadConfig_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("NATS_URL", "nats://only-env:4222")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "nats://only-env:4222", cfg.NATS.URL)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		env     map[string]string
		invalid bool
	}{
		{name: "bad yaml", body: "nats: [unclosed"},
		{name: "bad realm env", body: "", env: map[string]string{"REALM_ID": "abc"}},
		{name: "bad interval env", body: "", env: map[string]string{"GUILD_PROCESS_INTERVAL": "soon"}},
		{name: "zero queue", body: "guild:\n  queue_size: 0\n", invalid: true},
		{name: "bad log level", body: "observability:\n  log_level: loud\n", invalid: true},
		{name: "bad sample rate env", body: "", env: map[string]string{"TRACE_SAMPLE_RATE": "most"}},
		{name: "sample rate above one", body: "observability:\n  trace_sample_rate: 2\n", invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}
