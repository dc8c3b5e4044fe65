package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Duration decodes from duration strings like "30m" in both TOML and
// environment variables.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds the full daemon configuration. Values come from three
// layers: built-in defaults, the TOML config file, then environment
// variables. Later layers win.
type Config struct {
	// Project is the GCP project that owns the Pub/Sub topic.
	Project string `toml:"project" env:"GWATCH_PROJECT"`

	// Topic is the short Pub/Sub topic name for push notifications.
	Topic string `toml:"topic" env:"GWATCH_TOPIC"`

	// TokensDir holds per-account token files and lease state.
	TokensDir string `toml:"tokens_dir" env:"GWATCH_TOKENS_DIR"`

	// DataDir holds the renewal history database.
	DataDir string `toml:"data_dir" env:"GWATCH_DATA_DIR"`

	// Subjects, when set, replaces token-file discovery with a fixed
	// account list.
	Subjects []string `toml:"subjects" env:"GWATCH_SUBJECTS"`

	// LabelIDs limits push notifications to specific Gmail labels.
	LabelIDs []string `toml:"label_ids" env:"GWATCH_LABEL_IDS"`

	// CheckInterval is how often the renewal loop wakes up.
	CheckInterval Duration `toml:"check_interval" env:"GWATCH_CHECK_INTERVAL"`

	// RenewalWindow is how far before expiry a lease becomes due.
	RenewalWindow Duration `toml:"renewal_window" env:"GWATCH_RENEWAL_WINDOW"`

	// HistoryRetention is how many renewal attempts to keep per subject.
	HistoryRetention int `toml:"history_retention" env:"GWATCH_HISTORY_RETENTION"`

	// HealthAddr is the listen address for the health endpoints.
	// Empty disables the HTTP server.
	HealthAddr string `toml:"health_addr" env:"GWATCH_HEALTH_ADDR"`

	// Verbose enables debug logging.
	Verbose bool `toml:"verbose" env:"GWATCH_VERBOSE"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		CheckInterval:    Duration(time.Hour),
		RenewalWindow:    Duration(24 * time.Hour),
		HistoryRetention: 100,
		HealthAddr:       ":8787",
	}
}

// DefaultDir returns the gwatch home directory (~/.gwatch).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".gwatch"), nil
}

// Load builds the configuration from defaults, the TOML file at path
// (skipped when missing), and environment variables. A .env file in the
// working directory is folded into the environment first.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	// The .env file might not exist and that's ok.
	_ = godotenv.Load()

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.applyDefaults(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyDefaults fills path fields that depend on the home directory.
func (c *Config) applyDefaults() error {
	if c.TokensDir != "" && c.DataDir != "" {
		return nil
	}

	dir, err := DefaultDir()
	if err != nil {
		return err
	}
	if c.TokensDir == "" {
		c.TokensDir = filepath.Join(dir, "tokens")
	}
	if c.DataDir == "" {
		c.DataDir = filepath.Join(dir, "data")
	}
	return nil
}

// Validate checks that the configuration can drive watch registration.
func (c Config) Validate() error {
	if c.Project == "" {
		return fmt.Errorf("project is required (set GWATCH_PROJECT or the config file)")
	}
	if c.Topic == "" {
		return fmt.Errorf("topic is required (set GWATCH_TOPIC or the config file)")
	}
	if c.CheckInterval <= 0 {
		return fmt.Errorf("check_interval must be positive")
	}
	if c.RenewalWindow <= 0 {
		return fmt.Errorf("renewal_window must be positive")
	}
	return nil
}

// DefaultPath returns the default config file location (~/.gwatch/config.toml).
func DefaultPath() string {
	dir, err := DefaultDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}
