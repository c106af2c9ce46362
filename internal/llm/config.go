package llm

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// TaskType identifies the kind of generation being performed.
type TaskType string

const (
	TaskPlanSkeleton TaskType = "plan_skeleton"
	TaskPlanWeek     TaskType = "plan_week"
	TaskPseudoWeek   TaskType = "pseudo_week"
	TaskTrainingWeek TaskType = "training_week"
	TaskCoachNotes   TaskType = "coach_notes"
)

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// TaskConfig holds per-task generation parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration // overrides global if > 0
	FastModel   bool
}

// Config holds all configuration for the generation backend.
type Config struct {
	Provider         string        `default:"openai"`
	Endpoint         string        `default:"https://api.openai.com"`
	APIKey           string        `split_words:"true"`
	Model            string        `default:"gpt-4o"`
	FastModel        string        `split_words:"true" default:"gpt-4o-mini"`
	Timeout          time.Duration `default:"90s"`
	TransportRetries int           `split_words:"true" default:"1"`
	LogCalls         bool          `split_words:"true" default:"true"`

	// MaxAttempts and RetryDelay bound retries of malformed structured output.
	MaxAttempts int           `split_words:"true" default:"3"`
	RetryDelay  time.Duration `split_words:"true" default:"1s"`

	// ElaborationConcurrency caps in-flight per-week elaboration calls.
	ElaborationConcurrency int `split_words:"true" default:"8"`

	Tasks map[TaskType]TaskConfig `ignored:"true"`
}

// DefaultTasks returns the per-task parameters used when none are supplied.
func DefaultTasks() map[TaskType]TaskConfig {
	return map[TaskType]TaskConfig{
		TaskPlanSkeleton: {Temperature: 0.4, MaxTokens: 4096, Timeout: 120 * time.Second},
		TaskPlanWeek:     {Temperature: 0.5, MaxTokens: 512, FastModel: true},
		TaskPseudoWeek:   {Temperature: 0.5, MaxTokens: 2048},
		TaskTrainingWeek: {Temperature: 0.4, MaxTokens: 2048},
		TaskCoachNotes:   {Temperature: 0.7, MaxTokens: 256},
	}
}

// DefaultConfig returns a Config with the same values LoadConfig applies
// when no environment variables are set.
func DefaultConfig() Config {
	return Config{
		Provider:               ProviderOpenAI,
		Endpoint:               "https://api.openai.com",
		Model:                  "gpt-4o",
		FastModel:              "gpt-4o-mini",
		Timeout:                90 * time.Second,
		TransportRetries:       1,
		LogCalls:               true,
		MaxAttempts:            3,
		RetryDelay:             time.Second,
		ElaborationConcurrency: 8,
		Tasks:                  DefaultTasks(),
	}
}

// LoadConfig reads RACECOACH_LLM_* environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("racecoach_llm", &cfg); err != nil {
		return Config{}, fmt.Errorf("loading llm config: %w", err)
	}
	cfg.Tasks = DefaultTasks()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the clients cannot run with.
func (c Config) Validate() error {
	if c.Provider != ProviderOpenAI && c.Provider != ProviderOllama {
		return fmt.Errorf("unknown llm provider %q", c.Provider)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("llm max attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.RetryDelay <= 0 {
		return fmt.Errorf("llm retry delay must be positive, got %s", c.RetryDelay)
	}
	return nil
}

// RetryPolicy returns the structured-output retry policy for this config.
func (c Config) RetryPolicy() RetryPolicy {
	p := DefaultRetryPolicy()
	p.MaxAttempts = c.MaxAttempts
	p.Delay = c.RetryDelay
	return p
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c Config) TaskTimeout(task TaskType) time.Duration {
	if tc, ok := c.Tasks[task]; ok && tc.Timeout > 0 {
		return tc.Timeout
	}
	return c.Timeout
}

// ModelFor returns the model name a task should run against.
func (c Config) ModelFor(task TaskType) string {
	if tc, ok := c.Tasks[task]; ok && tc.FastModel && c.FastModel != "" {
		return c.FastModel
	}
	return c.Model
}
