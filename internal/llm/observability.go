package llm

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/alexanderramin/racecoach/internal/platform/logger"
)

// LLMCallEvent records metadata about a single backend invocation.
type LLMCallEvent struct {
	Name       string
	Task       TaskType
	Model      string
	Messages   []string
	ResponseID string
	Content    string
	Usage      Usage
	Duration   time.Duration
	Success    bool
	ErrorCode  string
}

// Observer receives events about LLM calls for logging and metrics.
// Implementations must not block the caller for long and must not panic.
type Observer interface {
	OnCallComplete(event LLMCallEvent)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(LLMCallEvent) {}

type multiObserver []Observer

// MultiObserver fans each event out to every non-nil observer.
func MultiObserver(observers ...Observer) Observer {
	var out multiObserver
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

func (m multiObserver) OnCallComplete(event LLMCallEvent) {
	for _, o := range m {
		o.OnCallComplete(event)
	}
}

// LogObserver writes a one-line summary of every call.
type LogObserver struct {
	log *logger.Logger
}

func NewLogObserver(log *logger.Logger) *LogObserver {
	return &LogObserver{log: log.With("component", "llm")}
}

func (o *LogObserver) OnCallComplete(event LLMCallEvent) {
	kv := []interface{}{
		"generation", event.Name,
		"task", event.Task,
		"model", event.Model,
		"latency_ms", event.Duration.Milliseconds(),
		"total_tokens", event.Usage.TotalTokens,
	}
	if !event.Success {
		o.log.Warn("llm_call failed", append(kv, "error_code", event.ErrorCode)...)
		return
	}
	o.log.Debug("llm_call", kv...)
}

// observation is one line of the append-only JSONL log.
type observation struct {
	GenerationName   string   `json:"generation_name"`
	Messages         []string `json:"messages"`
	ResponseID       string   `json:"response_id"`
	Content          string   `json:"content"`
	Model            string   `json:"model"`
	CompletionTokens int      `json:"completion_tokens"`
	PromptTokens     int      `json:"prompt_tokens"`
	TotalTokens      int      `json:"total_tokens"`
	Duration         float64  `json:"duration"`
	Error            string   `json:"error,omitempty"`
}

// JSONLObserver appends one JSON object per call to a file. Write failures
// are logged and swallowed.
type JSONLObserver struct {
	mu  sync.Mutex
	f   *os.File
	log *logger.Logger
}

// NewJSONLObserver opens path for appending, creating it if needed.
func NewJSONLObserver(path string, log *logger.Logger) (*JSONLObserver, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &JSONLObserver{f: f, log: log}, nil
}

func (o *JSONLObserver) OnCallComplete(event LLMCallEvent) {
	rec := observation{
		GenerationName:   event.Name,
		Messages:         event.Messages,
		ResponseID:       event.ResponseID,
		Content:          event.Content,
		Model:            event.Model,
		CompletionTokens: event.Usage.CompletionTokens,
		PromptTokens:     event.Usage.PromptTokens,
		TotalTokens:      event.Usage.TotalTokens,
		Duration:         event.Duration.Seconds(),
	}
	if !event.Success {
		rec.Error = event.ErrorCode
	}

	line, err := json.Marshal(rec)
	if err != nil {
		o.log.Warn("encoding observation", "error", err)
		return
	}
	line = append(line, '\n')

	o.mu.Lock()
	defer o.mu.Unlock()
	if _, err := o.f.Write(line); err != nil {
		o.log.Warn("writing observation", "error", err, "generation", event.Name)
	}
}

func (o *JSONLObserver) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.f.Close()
}
