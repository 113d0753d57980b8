// Package config loads sensi's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/xonecas/sensi/internal/constants"
)

// Config is the user configuration.
type Config struct {
	// DefaultDPI is used when no baseline exists and no --dpi is given.
	DefaultDPI int `toml:"default_dpi"`
	// Decimals controls displayed precision only.
	Decimals int `toml:"decimals"`
	// Catalog is an optional extra catalog file (.toml, .yaml or .yml).
	// Relative paths resolve against the config file's directory.
	Catalog string `toml:"catalog"`

	Detect DetectConfig `toml:"detect"`
}

// DetectConfig configures running-game detection.
type DetectConfig struct {
	Enabled  bool     `toml:"enabled"`
	Interval Duration `toml:"interval"`
	// Processes maps process names to catalog external ids.
	Processes map[string]string `toml:"processes"`
}

// Duration is a time.Duration decoded from a TOML string like "5s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DefaultDPI: constants.DefaultDPI,
		Decimals:   constants.DefaultDecimals,
		Detect: DetectConfig{
			Enabled:   true,
			Interval:  Duration{constants.DetectInterval},
			Processes: map[string]string{},
		},
	}
}

// Load reads the config at path over the defaults. An empty path yields the
// defaults; a path that does not exist is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config keys: %v", undecoded)
	}

	if cfg.Catalog != "" && !filepath.IsAbs(cfg.Catalog) {
		cfg.Catalog = filepath.Join(filepath.Dir(path), cfg.Catalog)
	}
	if cfg.Detect.Processes == nil {
		cfg.Detect.Processes = map[string]string{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadResolved loads the config the user named, which must exist. Without
// one it loads the first file found by ResolvePath, or returns the defaults
// when there is none. It also returns the path that was read.
func LoadResolved(explicit string) (*Config, string, error) {
	if explicit != "" {
		cfg, err := Load(explicit)
		return cfg, explicit, err
	}

	path := ResolvePath("")
	if path == "" {
		return Default(), "", nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.DefaultDPI <= 0 {
		return fmt.Errorf("default_dpi must be positive, got %d", c.DefaultDPI)
	}
	if c.Decimals < 0 || c.Decimals > 10 {
		return fmt.Errorf("decimals must be between 0 and 10, got %d", c.Decimals)
	}
	if c.Detect.Interval.Duration < constants.MinDetectInterval {
		return fmt.Errorf("detect.interval must be at least %s, got %s",
			constants.MinDetectInterval, c.Detect.Interval.Duration)
	}
	return nil
}

// DataDir returns the application data directory.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, constants.AppDataDir), nil
}

// EnsureDataDir creates the data directory if needed and returns it.
func EnsureDataDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return dir, nil
}

// ResolvePath returns the config path to use: the explicit path if set,
// ./config.toml if present, otherwise the data directory's config.toml.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat("config.toml"); err == nil {
		return "config.toml"
	}
	dataDir, err := DataDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dataDir, "config.toml")
}
