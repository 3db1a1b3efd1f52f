// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable [Load] reads.
const EnvVar = "HYDRA_CONFIG"

// Config is the master configuration for Hydra.
type Config struct {
	// Paths configures file locations.
	Paths PathsConfig `yaml:"paths"`

	// Store tunes the SQLite record store.
	Store StoreConfig `yaml:"store"`

	// Notifications configures desktop notification delivery.
	Notifications NotificationsConfig `yaml:"notifications"`

	// Display configures terminal rendering.
	Display DisplayConfig `yaml:"display"`

	// Log configures daemon and CLI logging.
	Log LogConfig `yaml:"log"`
}

// PathsConfig configures file locations.
type PathsConfig struct {
	// Database is the SQLite file holding entries and settings.
	// Default: ${XDG_DATA_HOME}/hydra/hydra.db
	Database string `yaml:"database"`

	// Socket is the unix socket the daemon listens on.
	// Default: ${XDG_RUNTIME_DIR}/hydra/hydra.sock
	Socket string `yaml:"socket"`

	// Lock guards against a second daemon.
	// Default: next to Socket, as hydra.lock
	Lock string `yaml:"lock"`

	// Autostart is the directory holding the autostart desktop entry.
	// Default: ${XDG_CONFIG_HOME}/autostart
	Autostart string `yaml:"autostart"`
}

// StoreConfig tunes the record store.
type StoreConfig struct {
	// PoolSize is the number of pooled SQLite connections.
	// Default: 4
	PoolSize int `yaml:"pool_size"`
}

// NotificationsConfig configures reminder delivery.
type NotificationsConfig struct {
	// Command is the notification program.
	// Default: notify-send (found in PATH)
	Command string `yaml:"command"`

	// AppName is passed as the notification's application name.
	// Default: Hydra
	AppName string `yaml:"app_name"`
}

// DisplayConfig configures terminal rendering.
type DisplayConfig struct {
	// BarWidth is the width of progress bars in cells.
	// Default: 30
	BarWidth int `yaml:"bar_width"`

	// NoColor disables color output. The NO_COLOR environment variable
	// has the same effect.
	NoColor bool `yaml:"no_color"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: info
	Level string `yaml:"level"`
}

// Default returns the default configuration with XDG paths resolved.
func Default() *Config {
	socket := filepath.Join(runtimeDir(), "hydra", "hydra.sock")
	return &Config{
		Paths: PathsConfig{
			Database:  filepath.Join(dataHome(), "hydra", "hydra.db"),
			Socket:    socket,
			Lock:      filepath.Join(filepath.Dir(socket), "hydra.lock"),
			Autostart: filepath.Join(configHome(), "autostart"),
		},
		Store: StoreConfig{
			PoolSize: 4,
		},
		Notifications: NotificationsConfig{
			Command: "notify-send",
			AppName: "Hydra",
		},
		Display: DisplayConfig{
			BarWidth: 30,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the file named by HYDRA_CONFIG, or
// returns [Default] when the variable is unset.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvVar)
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from path, on top of [Default].
//
// A lock path left empty in the file follows the socket's directory.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	defaultLock := cfg.Paths.Lock
	cfg.Paths.Lock = ""

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.expandVariables()

	if cfg.Paths.Lock == "" {
		if cfg.Paths.Socket != "" {
			cfg.Paths.Lock = filepath.Join(filepath.Dir(cfg.Paths.Socket), "hydra.lock")
		} else {
			cfg.Paths.Lock = defaultLock
		}
	}
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME":            os.Getenv("HOME"),
		"XDG_DATA_HOME":   dataHome(),
		"XDG_CONFIG_HOME": configHome(),
		"XDG_RUNTIME_DIR": runtimeDir(),
	}

	c.Paths.Database = expandVars(c.Paths.Database, vars)
	c.Paths.Socket = expandVars(c.Paths.Socket, vars)
	c.Paths.Lock = expandVars(c.Paths.Lock, vars)
	c.Paths.Autostart = expandVars(c.Paths.Autostart, vars)
	c.Notifications.Command = expandVars(c.Notifications.Command, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns. Names in vars
// take precedence over the environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Paths.Database == "" {
		errs = append(errs, errors.New("paths.database is required"))
	}
	if c.Paths.Socket == "" {
		errs = append(errs, errors.New("paths.socket is required"))
	}
	if c.Paths.Lock == "" {
		errs = append(errs, errors.New("paths.lock is required"))
	}
	if c.Store.PoolSize <= 0 {
		errs = append(errs, fmt.Errorf("store.pool_size must be positive, got %d", c.Store.PoolSize))
	}
	if c.Notifications.Command == "" {
		errs = append(errs, errors.New("notifications.command is required"))
	}
	if c.Display.BarWidth < 5 {
		errs = append(errs, fmt.Errorf("display.bar_width must be at least 5, got %d", c.Display.BarWidth))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// SlogLevel parses Log.Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level must be one of debug, info, warn, error: got %q", l.Level)
	}
	return level, nil
}

// EnsurePaths creates the parent directories of the database, socket
// and lock. The runtime directory is created 0700.
func (c *Config) EnsurePaths() error {
	directories := []struct {
		path string
		mode os.FileMode
	}{
		{filepath.Dir(c.Paths.Database), 0o755},
		{filepath.Dir(c.Paths.Socket), 0o700},
		{filepath.Dir(c.Paths.Lock), 0o700},
	}
	for _, directory := range directories {
		if err := os.MkdirAll(directory.path, directory.mode); err != nil {
			return fmt.Errorf("creating %s: %w", directory.path, err)
		}
	}
	return nil
}

func dataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(homeDir(), ".local", "share")
}

func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(homeDir(), ".config")
}

// runtimeDir falls back to a per-user directory under the system temp
// directory when XDG_RUNTIME_DIR is unset.
func runtimeDir() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(os.TempDir(), "hydra-"+strconv.Itoa(os.Getuid()))
}

func homeDir() string {
	home, _ := os.UserHomeDir()
	return home
}
