// Package config loads process configuration from RACECOACH_* environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alexanderramin/racecoach/internal/domain"
	"github.com/alexanderramin/racecoach/internal/llm"
	"github.com/alexanderramin/racecoach/internal/notify"
	"github.com/alexanderramin/racecoach/internal/strava"
	"github.com/kelseyhightower/envconfig"
)

const Prefix = "racecoach"

// Config holds the configuration for the racecoach binary.
type Config struct {
	DBPath      string `envconfig:"DB_PATH"`
	LogMode     string `envconfig:"LOG_MODE" default:"dev"`
	Timezone    string `envconfig:"TIMEZONE" default:"America/New_York"`
	ObserveFile string `envconfig:"OBSERVE_FILE" default:"observe.jsonl"`

	// BatchConcurrency caps athletes updated at once by update-all.
	BatchConcurrency int    `envconfig:"BATCH_CONCURRENCY" default:"1"`
	MetricsAddr      string `envconfig:"METRICS_ADDR"`

	LLM      llm.Config
	SendGrid notify.SendGridConfig
	Push     notify.PushConfig
	Strava   strava.Config
}

// Load reads the environment and fills derived defaults.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}
	cfg.LLM.Tasks = llm.DefaultTasks()
	if err := cfg.ResolveDefaults(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ResolveDefaults validates the loaded values and derives DBPath when unset.
func (c *Config) ResolveDefaults() error {
	if c.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		c.DBPath = filepath.Join(home, ".racecoach", "racecoach.db")
	}
	if c.ObserveFile == "" {
		c.ObserveFile = domain.DefaultObserveFile
	}
	if c.BatchConcurrency < 1 {
		return fmt.Errorf("batch concurrency must be at least 1, got %d", c.BatchConcurrency)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return c.LLM.Validate()
}

// Location returns the timezone the coach's "today" is computed in.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Now returns the current time in the configured timezone.
func (c Config) Now() time.Time {
	return time.Now().In(c.Location())
}
