// Package config loads the client and server settings.
//
// Values come from, in increasing priority: defaults, the TOML config file,
// environment variables and finally command line flags (applied by the cli
// package).
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Defaults.
const (
	DefaultServer    = "http://localhost:8080"
	DefaultTimeout   = 30 * time.Second
	DefaultTheme     = "classic"
	DefaultLogLevel  = "info"
	DefaultNotifyFor = 4 * time.Second
	DefaultAddr      = "localhost:8080"
	DefaultStore     = StoreSQLite
	DefaultDBFile    = "todos.db"
	FileName         = "config.toml"
	dirName          = "todo"
)

// Store backends for the server.
const (
	StoreSQLite = "sqlite"
	StoreJSON   = "json"
)

// Config is the merged configuration.
type Config struct {
	// Server is the base URL of the todo server the client talks to.
	Server string `toml:"server"`
	// Timeout bounds every request the client sends.
	Timeout time.Duration `toml:"timeout"`
	Theme   string        `toml:"theme"`
	Token   string        `toml:"token"`
	// LogFile receives the TUI's logs; empty disables TUI logging.
	LogFile  string `toml:"log_file"`
	LogLevel string `toml:"log_level"`
	// NotifyFor is how long a notification stays on screen.
	NotifyFor time.Duration `toml:"notify_for"`
	// Watch is a file whose changes make the TUI reload its rows,
	// typically the server's database when both run on one machine.
	Watch string      `toml:"watch"`
	Serve ServeConfig `toml:"serve"`

	path string
}

// ServeConfig holds the server settings.
type ServeConfig struct {
	Addr  string `toml:"addr"`
	Store string `toml:"store"`
	DB    string `toml:"db"`
	// Token, when set, is required as a bearer token on every request.
	Token string `toml:"token"`
}

// Path returns the config file the values were read from, or "".
func (c *Config) Path() string {
	return c.path
}

// Default returns a Config holding only defaults.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

func setDefaults(cfg *Config) {
	cfg.Server = DefaultServer
	cfg.Timeout = DefaultTimeout
	cfg.Theme = DefaultTheme
	cfg.LogLevel = DefaultLogLevel
	cfg.NotifyFor = DefaultNotifyFor
	cfg.Serve = ServeConfig{
		Addr:  DefaultAddr,
		Store: DefaultStore,
		DB:    DefaultDBFile,
	}
}

// Load builds the configuration from defaults, the config file and the
// environment. An explicit path must exist; the default path may be absent.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("TODO_CONFIG")
		explicit = path != ""
	}
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			if !explicit && errors.Is(err, os.ErrNotExist) {
				path = ""
			} else {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		}
	}
	cfg.path = path

	loadFromEnv(cfg)

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPath returns <user config dir>/todo/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config dir: %w", err)
	}
	return filepath.Join(dir, dirName, FileName), nil
}

func loadFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TODO_SERVER"); v != "" {
		cfg.Server = v
	}
	if v := os.Getenv("TODO_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("TODO_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("TODO_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("TODO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TODO_WATCH"); v != "" {
		cfg.Watch = v
	}
	if v := os.Getenv("TODO_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
	if v := os.Getenv("TODO_DB"); v != "" {
		cfg.Serve.DB = v
	}
}

func (c *Config) finalize() error {
	c.Server = strings.TrimRight(strings.TrimSpace(c.Server), "/")
	if c.Server == "" {
		return errors.New("config: server must not be empty")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config: timeout must not be negative, got %s", c.Timeout)
	}
	if c.NotifyFor <= 0 {
		c.NotifyFor = DefaultNotifyFor
	}
	switch c.Serve.Store {
	case StoreSQLite, StoreJSON:
	default:
		return fmt.Errorf("config: unknown store %q (want %s or %s)", c.Serve.Store, StoreSQLite, StoreJSON)
	}
	c.LogFile = expandPath(c.LogFile)
	c.Watch = expandPath(c.Watch)
	c.Serve.DB = expandPath(c.Serve.DB)
	return nil
}

// Finalize re-validates the config after flag overrides.
func (c *Config) Finalize() error {
	return c.finalize()
}

// Write encodes the config as TOML.
func (c *Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// expandPath expands a leading ~/ and environment variables.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	expanded := os.ExpandEnv(p)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, strings.TrimPrefix(expanded[1:], "/"))
	}
	return expanded
}
