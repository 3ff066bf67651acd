// Package config holds all recon configuration: follow-up thresholds, the
// reasoning backend, the ledger store, the bundle watcher and logging.
// Loaded from a YAML file with environment overrides for secrets.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all recon configuration.
type Config struct {
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Backend    BackendConfig    `yaml:"backend"`
	Store      StoreConfig      `yaml:"store"`
	Watch      WatchConfig      `yaml:"watch"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ThresholdsConfig gates follow-up nudges.
type ThresholdsConfig struct {
	// LookbackDays bounds how far back collaborators scan for submissions.
	LookbackDays int `yaml:"lookback_days"`
	// UnclearFollowupDays is the minimum age of an unclear submission
	// before it is flagged for a nudge.
	UnclearFollowupDays int `yaml:"unclear_followup_days"`
	// InactivityDays is the minimum thread silence before a nudge.
	InactivityDays int `yaml:"inactivity_days"`
	// NudgeCooldownDays suppresses repeat nudges on the same candidate.
	NudgeCooldownDays int `yaml:"nudge_cooldown_days"`
}

// BackendConfig configures the generative reasoning backend.
type BackendConfig struct {
	Provider string `yaml:"provider"` // gemini, none
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	Timeout  string `yaml:"timeout"`
}

// StoreConfig configures the SQLite ledger.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// WatchConfig configures the bundle drop-directory watcher.
type WatchConfig struct {
	Dir        string `yaml:"dir"`
	DebounceMS int    `yaml:"debounce_ms"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json"`
}

// Default returns the production defaults.
func Default() Config {
	return Config{
		Thresholds: ThresholdsConfig{
			LookbackDays:        30,
			UnclearFollowupDays: 7,
			InactivityDays:      5,
			NudgeCooldownDays:   7,
		},
		Backend: BackendConfig{
			Provider: "gemini",
			Model:    "gemini-2.5-flash",
			Timeout:  "30s",
		},
		Store: StoreConfig{
			Path: ".recon/ledger.db",
		},
		Watch: WatchConfig{
			Dir:        ".recon/bundles",
			DebounceMS: 500,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML config at path, falling back to defaults when the
// file does not exist, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Missing config is fine; defaults plus env carry the day.
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("RECON_GEMINI_API_KEY"); v != "" {
		c.Backend.APIKey = v
	} else if v := os.Getenv("GEMINI_API_KEY"); v != "" && c.Backend.APIKey == "" {
		c.Backend.APIKey = v
	}
	if v := os.Getenv("RECON_BACKEND_MODEL"); v != "" {
		c.Backend.Model = v
	}
	if v := os.Getenv("RECON_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("RECON_STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	c.Thresholds.LookbackDays = intEnv("RECON_LOOKBACK_DAYS", c.Thresholds.LookbackDays)
	c.Thresholds.UnclearFollowupDays = intEnv("RECON_UNCLEAR_FOLLOWUP_DAYS", c.Thresholds.UnclearFollowupDays)
	c.Thresholds.InactivityDays = intEnv("RECON_INACTIVITY_DAYS", c.Thresholds.InactivityDays)
}

func intEnv(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func (c Config) validate() error {
	if c.Thresholds.UnclearFollowupDays < 0 || c.Thresholds.InactivityDays < 0 {
		return fmt.Errorf("follow-up thresholds must be non-negative")
	}
	if _, err := c.Backend.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// BackendEnabled reports whether a generative backend should be built.
func (c Config) BackendEnabled() bool {
	return c.Backend.Provider != "" && c.Backend.Provider != "none" && c.Backend.APIKey != ""
}

// TimeoutDuration parses the backend timeout string.
func (b BackendConfig) TimeoutDuration() (time.Duration, error) {
	if b.Timeout == "" {
		return 30 * time.Second, nil
	}
	d, err := time.ParseDuration(b.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid backend timeout %q: %w", b.Timeout, err)
	}
	return d, nil
}
