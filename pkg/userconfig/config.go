package userconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/tailscale/hujson"

	"github.com/securescan/securescan/pkg/scan"
)

// EnvConfigPath overrides the config file location
const EnvConfigPath = "SECURESCAN_CONFIG"

// UserConfig holds persistent user preferences
type UserConfig struct {
	LogLevel string       `json:"log_level,omitempty"`
	Server   ServerConfig `json:"server"`
	Scan     ScanConfig   `json:"scan"`
	TUI      TUIConfig    `json:"tui"`
}

// ServerConfig holds web UI settings
type ServerConfig struct {
	Port       int    `json:"port,omitempty"`
	SessionTTL string `json:"session_ttl,omitempty"` // Go duration, e.g. "30m"
}

// ScanConfig tunes the simulated runner
type ScanConfig struct {
	MaxDetectionRate float64 `json:"max_detection_rate,omitempty"`
	MinDelayMs       int     `json:"min_delay_ms,omitempty"`
	MaxDelayMs       int     `json:"max_delay_ms,omitempty"`
}

// TUIConfig holds terminal UI settings
type TUIConfig struct {
	DropDir string `json:"drop_dir,omitempty"`
}

// Defaults returns the built-in configuration
func Defaults() *UserConfig {
	return &UserConfig{
		LogLevel: "info",
		Server: ServerConfig{
			Port:       8080,
			SessionTTL: "30m",
		},
		Scan: ScanConfig{
			MaxDetectionRate: scan.DefaultMaxDetectionRate,
			MinDelayMs:       int(scan.DefaultMinDelay / time.Millisecond),
			MaxDelayMs:       int(scan.DefaultMaxDelay / time.Millisecond),
		},
	}
}

// Path returns the path to the user config file
func Path() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".securescan", "config.json"), nil
}

// Load loads the user config from disk, falling back to defaults
func Load() (*UserConfig, error) {
	path, err := Path()
	if err != nil {
		return Defaults(), nil
	}
	return LoadFrom(path)
}

// LoadFrom parses the file at path. Comments and trailing commas are allowed.
// Fields left out of the file keep their default values.
func LoadFrom(path string) (*UserConfig, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	stdData, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("failed to standardize jsonc: %w", err)
	}
	if err := json.Unmarshal(stdData, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves the user config to disk
func Save(cfg *UserConfig) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes cfg as indented JSON
func SaveTo(path string, cfg *UserConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks value ranges
func (c *UserConfig) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.SessionTTL != "" {
		if _, err := time.ParseDuration(c.Server.SessionTTL); err != nil {
			return fmt.Errorf("server.session_ttl: %w", err)
		}
	}
	if err := c.ScanOptions().Validate(); err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	return nil
}

// ScanOptions converts the scan section into runner options
func (c *UserConfig) ScanOptions() scan.Options {
	return scan.Options{
		MaxDetectionRate: c.Scan.MaxDetectionRate,
		MinDelay:         time.Duration(c.Scan.MinDelayMs) * time.Millisecond,
		MaxDelay:         time.Duration(c.Scan.MaxDelayMs) * time.Millisecond,
	}
}

// SessionTTL returns the parsed session TTL, or 30 minutes
func (c *UserConfig) SessionTTL() time.Duration {
	if d, err := time.ParseDuration(c.Server.SessionTTL); err == nil && d > 0 {
		return d
	}
	return 30 * time.Minute
}

type field struct {
	get func(*UserConfig) string
	set func(*UserConfig, string) error
}

var fields = map[string]field{
	"log_level": {
		get: func(c *UserConfig) string { return c.LogLevel },
		set: func(c *UserConfig, v string) error {
			switch v {
			case "debug", "info", "warn", "error":
				c.LogLevel = v
				return nil
			}
			return fmt.Errorf("unknown log level %q", v)
		},
	},
	"server.port": {
		get: func(c *UserConfig) string { return strconv.Itoa(c.Server.Port) },
		set: func(c *UserConfig, v string) error { return setInt(&c.Server.Port, v) },
	},
	"server.session_ttl": {
		get: func(c *UserConfig) string { return c.Server.SessionTTL },
		set: func(c *UserConfig, v string) error { c.Server.SessionTTL = v; return nil },
	},
	"scan.max_detection_rate": {
		get: func(c *UserConfig) string { return strconv.FormatFloat(c.Scan.MaxDetectionRate, 'f', -1, 64) },
		set: func(c *UserConfig, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return err
			}
			c.Scan.MaxDetectionRate = f
			return nil
		},
	},
	"scan.min_delay_ms": {
		get: func(c *UserConfig) string { return strconv.Itoa(c.Scan.MinDelayMs) },
		set: func(c *UserConfig, v string) error { return setInt(&c.Scan.MinDelayMs, v) },
	},
	"scan.max_delay_ms": {
		get: func(c *UserConfig) string { return strconv.Itoa(c.Scan.MaxDelayMs) },
		set: func(c *UserConfig, v string) error { return setInt(&c.Scan.MaxDelayMs, v) },
	},
	"tui.drop_dir": {
		get: func(c *UserConfig) string { return c.TUI.DropDir },
		set: func(c *UserConfig, v string) error { c.TUI.DropDir = v; return nil },
	},
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

// Keys lists the settable keys in sorted order
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get gets a config value
func Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("unknown config key %q", key)
	}
	cfg, err := Load()
	if err != nil {
		return "", err
	}
	return f.get(cfg), nil
}

// Set sets a config value
func Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}
	cfg, err := Load()
	if err != nil {
		return err
	}
	if err := f.set(cfg, value); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return Save(cfg)
}
