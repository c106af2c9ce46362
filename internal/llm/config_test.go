package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_SkeletonTimeoutOverridesGlobal(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 120*time.Second, cfg.TaskTimeout(TaskPlanSkeleton))
	assert.Equal(t, 90*time.Second, cfg.TaskTimeout(TaskCoachNotes))
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("RACECOACH_LLM_PROVIDER", "ollama")
	t.Setenv("RACECOACH_LLM_ENDPOINT", "http://localhost:11434")
	t.Setenv("RACECOACH_LLM_MODEL", "llama3.2")
	t.Setenv("RACECOACH_LLM_TIMEOUT", "30s")
	t.Setenv("RACECOACH_LLM_ELABORATION_CONCURRENCY", "2")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, ProviderOllama, cfg.Provider)
	assert.Equal(t, "llama3.2", cfg.Model)
	assert.Equal(t, "gpt-4o-mini", cfg.FastModel)
	assert.Equal(t, 30*time.Second, cfg.TaskTimeout(TaskTrainingWeek))
	assert.Equal(t, 2, cfg.ElaborationConcurrency)
	assert.NotEmpty(t, cfg.Tasks)
}

func TestLoadConfig_UnknownProvider(t *testing.T) {
	t.Setenv("RACECOACH_LLM_PROVIDER", "carrier-pigeon")

	_, err := LoadConfig()

	assert.Error(t, err)
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	t.Setenv("RACECOACH_LLM_TIMEOUT", "soon")

	_, err := LoadConfig()

	assert.Error(t, err)
}

func TestModelFor_FastTasks(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "gpt-4o-mini", cfg.ModelFor(TaskPlanWeek))
	assert.Equal(t, "gpt-4o", cfg.ModelFor(TaskPlanSkeleton))

	cfg.FastModel = ""
	assert.Equal(t, "gpt-4o", cfg.ModelFor(TaskPlanWeek))
}

func TestLoadConfig_RetryPolicy(t *testing.T) {
	t.Setenv("RACECOACH_LLM_MAX_ATTEMPTS", "5")
	t.Setenv("RACECOACH_LLM_RETRY_DELAY", "250ms")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	p := cfg.RetryPolicy()
	assert.Equal(t, 5, p.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, p.Delay)
	assert.NotNil(t, p.Retryable)
}

func TestValidate_RejectsZeroAttempts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxAttempts = 0
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsNonPositiveRetryDelay(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Second} {
		cfg := DefaultConfig()
		cfg.RetryDelay = d
		assert.ErrorContains(t, cfg.Validate(), "retry delay must be positive", d.String())
	}
}

func TestLoadConfig_ZeroRetryDelayRejected(t *testing.T) {
	t.Setenv("RACECOACH_LLM_RETRY_DELAY", "0s")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "retry delay")
}
