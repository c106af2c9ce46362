package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVs_RedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{"athlete_id", 42, "access_token", "abc", "alert_email", "me@x.io", "dangling"})

	assert.Equal(t, []interface{}{"athlete_id", 42, "access_token", "[REDACTED]", "alert_email", "[REDACTED]", "dangling"}, out)
}

func TestLogger_WithCarriesFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("athlete_id", 7).Info("updated", "mode", "MID_WEEK", "api_key", "k")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.EqualValues(t, 7, fields["athlete_id"])
		assert.Equal(t, "MID_WEEK", fields["mode"])
		assert.Equal(t, "[REDACTED]", fields["api_key"])
	}
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { Nop().Error("boom", "k", "v") })
}
