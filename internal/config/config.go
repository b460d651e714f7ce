package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so yaml values can be written in the
// usual "2s" / "500ms" form.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// Config holds all daemon configuration.
type Config struct {
	DeviceName    string   `yaml:"device_name"`
	ServiceUUID   string   `yaml:"service_uuid"`
	CharUUID      string   `yaml:"char_uuid"`
	BaseURL       string   `yaml:"base_url"`
	StorePath     string   `yaml:"store_path"`
	ListenTimeout Duration `yaml:"listen_timeout"`
	MaxPayload    int      `yaml:"max_payload"`
	LogLevel      string   `yaml:"log_level"`
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "badge2-textd")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Default returns a Config with sensible default values.
func Default() *Config {
	home, _ := os.UserHomeDir()
	storePath := filepath.Join(home, ".local", "share", "badge2-textd", "text.json")

	return &Config{
		DeviceName:    "badge2-text",
		ServiceUUID:   "12345678-1234-5678-1234-56789abcdef0",
		CharUUID:      "12345678-1234-5678-1234-56789abcdef1",
		BaseURL:       "https://badge2.example/pair",
		StorePath:     storePath,
		ListenTimeout: Duration(2 * time.Second),
		MaxPayload:    512,
		LogLevel:      "info",
	}
}

// Load reads and parses a YAML config file. Missing fields are filled
// with defaults. Tilde (~) in store_path is expanded to the user's home
// directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.StorePath = expandTilde(cfg.StorePath)

	return cfg, nil
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if c.DeviceName == "" {
		return fmt.Errorf("device_name must not be empty")
	}

	if _, err := uuid.Parse(c.ServiceUUID); err != nil {
		return fmt.Errorf("service_uuid %q is not a valid UUID: %w", c.ServiceUUID, err)
	}

	if _, err := uuid.Parse(c.CharUUID); err != nil {
		return fmt.Errorf("char_uuid %q is not a valid UUID: %w", c.CharUUID, err)
	}

	if c.BaseURL == "" {
		return fmt.Errorf("base_url must not be empty")
	}

	if c.StorePath == "" {
		return fmt.Errorf("store_path must not be empty")
	}

	if c.ListenTimeout <= 0 {
		return fmt.Errorf("listen_timeout must be > 0, got %s", c.ListenTimeout)
	}

	if c.MaxPayload <= 0 {
		return fmt.Errorf("max_payload must be > 0, got %d", c.MaxPayload)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}

	return nil
}

// ParseLogLevel maps a log_level string to a slog.Level. Unknown
// values fall back to info.
func ParseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WriteDefault writes a default config file at the default path if none
// exists yet. It returns the written path, or "" if a config file was
// already present.
func WriteDefault() (string, error) {
	path := DefaultConfigPath()
	if _, err := os.Stat(path); err == nil {
		return "", nil
	}
	if err := os.MkdirAll(DefaultConfigDir(), 0o755); err != nil {
		return "", fmt.Errorf("creating config dir: %w", err)
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return "", fmt.Errorf("marshaling default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing default config: %w", err)
	}
	return path, nil
}

// expandTilde replaces a leading ~ with the user's home directory.
func expandTilde(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
