package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bmerrors "github.com/matzehuels/battlemap/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestDecodeOverridesDefaults(t *testing.T) {
	cfg, err := Decode(strings.NewReader(`
[camera]
zoom_base = 1.5

[store]
backend = "redis"
redis_addr = "cache:6379"
commit_timeout = "250ms"
`))
	require.NoError(t, err)

	assert.Equal(t, 1.5, cfg.Camera.ZoomBase)
	assert.Equal(t, 10, cfg.Camera.ZoomTickLimit)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "cache:6379", cfg.Store.RedisAddr)
	assert.Equal(t, 250*time.Millisecond, cfg.Store.CommitTimeout.Duration)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"zoom base too small", "[camera]\nzoom_base = 1.0\n"},
		{"negative tick limit", "[camera]\nzoom_tick_limit = -1\n"},
		{"negative threshold", "[gesture]\ndrag_threshold = -2.0\n"},
		{"unknown backend", "[store]\nbackend = \"etcd\"\n"},
		{"bad duration", "[store]\ncommit_timeout = \"soon\"\n"},
		{"unknown key", "[camera]\nzoom = 2\n"},
		{"malformed", "[camera"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, bmerrors.Is(err, bmerrors.ErrCodeInvalidConfig), "got %v", err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.NotEmpty(t, cfg.Store.SQLitePath)
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Store.Backend = BackendSQLite
	cfg.Store.SQLitePath = "/tmp/battlemap.db"

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, cfg))

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestPathXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")
	path, err := Path()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/custom-config", appName, "config.toml"), path)
}

func TestPathHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	path, err := Path()
	require.NoError(t, err)

	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".config", appName, "config.toml"), path)
}

func TestStateDirXDG(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/custom-state")
	dir, err := StateDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/custom-state", appName), dir)
}

func TestCameraOptions(t *testing.T) {
	opts := Default().CameraOptions()
	assert.Equal(t, 1.3, opts.ZoomBase)
	assert.Equal(t, 10, opts.ZoomTickLimit)
}
