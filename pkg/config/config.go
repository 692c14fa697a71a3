// Package config loads battlemap settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/battlemap/config.toml (falling back to
// ~/.config/battlemap/config.toml). Every key is optional; a missing file
// yields [Default].
//
//	[camera]
//	zoom_base = 1.3
//	zoom_tick_limit = 10
//
//	[gesture]
//	drag_threshold = 8.0
//
//	[store]
//	backend = "sqlite"
//	sqlite_path = "/var/lib/battlemap/battlemap.db"
//	commit_timeout = "5s"
//
//	[server]
//	addr = ":8080"
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/battlemap/pkg/camera"
	bmerrors "github.com/matzehuels/battlemap/pkg/errors"
	"github.com/matzehuels/battlemap/pkg/gesture"
)

const appName = "battlemap"

// Store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
)

// Backends lists every supported store backend.
var Backends = []string{BackendMemory, BackendRedis, BackendMongo, BackendSQLite}

// Config is the full settings tree.
type Config struct {
	Camera  Camera  `toml:"camera"`
	Gesture Gesture `toml:"gesture"`
	Store   Store   `toml:"store"`
	Server  Server  `toml:"server"`
}

type Camera struct {
	ZoomBase      float64 `toml:"zoom_base"`
	ZoomTickLimit int     `toml:"zoom_tick_limit"`
}

type Gesture struct {
	DragThreshold float64 `toml:"drag_threshold"`
}

type Store struct {
	Backend       string   `toml:"backend"`
	RedisAddr     string   `toml:"redis_addr"`
	MongoURI      string   `toml:"mongo_uri"`
	MongoDatabase string   `toml:"mongo_database"`
	SQLitePath    string   `toml:"sqlite_path"`
	CommitTimeout Duration `toml:"commit_timeout"`
}

type Server struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a Go duration string in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Camera: Camera{
			ZoomBase:      camera.DefaultZoomBase,
			ZoomTickLimit: camera.DefaultZoomTickLimit,
		},
		Gesture: Gesture{DragThreshold: gesture.DefaultThreshold},
		Store: Store{
			Backend:       BackendMemory,
			RedisAddr:     "localhost:6379",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: appName,
			CommitTimeout: Duration{5 * time.Second},
		},
		Server: Server{Addr: ":8080"},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// StateDir returns the directory for logs and the default SQLite database.
func StateDir() (string, error) {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", appName), nil
}

// Load reads path over the defaults and validates the result. A missing file
// is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, cfg.finish()
	}
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads TOML from r over the defaults and validates the result.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, bmerrors.Wrap(bmerrors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, bmerrors.New(bmerrors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	return cfg, cfg.finish()
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// finish fills path defaults that depend on the environment, then validates.
func (c *Config) finish() error {
	if c.Store.SQLitePath == "" {
		if dir, err := StateDir(); err == nil {
			c.Store.SQLitePath = filepath.Join(dir, appName+".db")
		}
	}
	return c.Validate()
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	if c.Camera.ZoomBase <= 1 {
		return bmerrors.New(bmerrors.ErrCodeInvalidConfig, "camera.zoom_base must be greater than 1, got %g", c.Camera.ZoomBase)
	}
	if c.Camera.ZoomTickLimit < 0 {
		return bmerrors.New(bmerrors.ErrCodeInvalidConfig, "camera.zoom_tick_limit must not be negative, got %d", c.Camera.ZoomTickLimit)
	}
	if c.Gesture.DragThreshold < 0 {
		return bmerrors.New(bmerrors.ErrCodeInvalidConfig, "gesture.drag_threshold must not be negative, got %g", c.Gesture.DragThreshold)
	}
	if c.Store.CommitTimeout.Duration < 0 {
		return bmerrors.New(bmerrors.ErrCodeInvalidConfig, "store.commit_timeout must not be negative")
	}
	if !slices.Contains(Backends, c.Store.Backend) {
		return bmerrors.New(bmerrors.ErrCodeInvalidConfig, "unknown store backend %q (want one of %v)", c.Store.Backend, Backends)
	}
	return nil
}

// CameraOptions converts the camera section.
func (c Config) CameraOptions() camera.Options {
	return camera.Options{ZoomBase: c.Camera.ZoomBase, ZoomTickLimit: c.Camera.ZoomTickLimit}
}
