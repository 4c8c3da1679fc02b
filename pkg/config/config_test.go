package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/logging"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(New())
	require.NoError(t, err)

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Source", cfg.Source, "data/samplenetwork.txt"},
		{"TopEdges", cfg.TopEdges, 10},
		{"RecomputeTimeout", cfg.RecomputeTimeout, 2 * time.Minute},
		{"Server.Port", cfg.Server.Port, 3000},
		{"Server.ShutdownTimeout", cfg.Server.ShutdownTimeout, 30 * time.Second},
		{"Server.MaxBodyBytes", cfg.Server.MaxBodyBytes, int64(4 << 20)},
		{"Server.Auth.Enabled", cfg.Server.Auth.Enabled(), false},
		{"Server.Auth.TokenTTL", cfg.Server.Auth.TokenTTL, 24 * time.Hour},
		{"Watch.Enabled", cfg.Watch.Enabled, false},
		{"Watch.Debounce", cfg.Watch.Debounce, 250 * time.Millisecond},
		{"Log.Level", cfg.Log.Level, "info"},
		{"Layout.FillMissing", cfg.Layout.FillMissing, true},
		{"Layout.Width", cfg.Layout.Width, 800.0},
		{"Layout.Height", cfg.Layout.Height, 600.0},
		{"Layout.Algorithm", cfg.Layout.Algorithm, "circular"},
		{"Layout.Iterations", cfg.Layout.Iterations, 50},
		{"Layout.Seed", cfg.Layout.Seed, int64(1)},
		{"AWS.Region", cfg.AWS.Region, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}

	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, logging.InfoLevel, cfg.LogLevel())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GIRVAN_SOURCE", "s3://graphs/net.txt")
	t.Setenv("GIRVAN_SERVER_PORT", "8080")
	t.Setenv("GIRVAN_WATCH_DEBOUNCE", "1s")
	t.Setenv("GIRVAN_LOG_LEVEL", "debug")
	t.Setenv("GIRVAN_AWS_REGION", "eu-west-1")
	t.Setenv("GIRVAN_SERVER_CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, "s3://graphs/net.txt", cfg.Source)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
	assert.Equal(t, logging.DebugLevel, cfg.LogLevel())
	assert.Equal(t, "eu-west-1", cfg.AWS.Region)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source: networks/karate.txt
server:
  host: 127.0.0.1
  port: 9090
watch:
  enabled: true
layout:
  fill_missing: false
`), 0o600))

	v := New()
	require.NoError(t, ReadFile(v, path))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "networks/karate.txt", cfg.Source)
	assert.Equal(t, "127.0.0.1:9090", cfg.Addr())
	assert.True(t, cfg.Watch.Enabled)
	assert.False(t, cfg.Layout.FillMissing)
	assert.Equal(t, 250*time.Millisecond, cfg.Watch.Debounce, "unset keys keep defaults")
}

func TestReadFile_EnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "girvan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o600))
	t.Setenv("GIRVAN_SERVER_PORT", "7070")

	v := New()
	require.NoError(t, ReadFile(v, path))
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestReadFile_ExplicitMissing(t *testing.T) {
	err := ReadFile(New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestReadFile_SearchMissingIsFine(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	assert.NoError(t, ReadFile(New(), ""))
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"port out of range", "server.port", 70000},
		{"unknown log level", "log.level", "loud"},
		{"empty source", "source", ""},
		{"zero layout width", "layout.width", 0},
		{"negative debounce", "watch.debounce", "-1s"},
		{"negative recompute timeout", "recompute_timeout", "-1s"},
		{"unknown layout", "layout.algorithm", "spiral"},
		{"bad endpoint", "aws.endpoint", "not a url"},
		{"short auth secret", "server.auth.secret", "too-short"},
		{"access key without secret", "aws.access_key_id", "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Set(tt.key, tt.value)

			_, err := Load(v)
			assert.Error(t, err)
		})
	}
}
