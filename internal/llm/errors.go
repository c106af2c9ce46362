package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable indicates the generation backend is unreachable.
	ErrUnavailable = errors.New("llm backend unavailable")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the LLM response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")

	// ErrEmptyResponse indicates the backend answered without any content.
	ErrEmptyResponse = errors.New("llm returned empty response")
)

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm backend returned status %d: %s", e.StatusCode, e.Body)
}

// GenerationError is the terminal failure of a structured generation. It
// keeps the last raw backend text for diagnostics.
type GenerationError struct {
	Name     string
	Attempts int
	LastRaw  string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation %q failed after %d attempt(s): %v; last response: %q",
		e.Name, e.Attempts, e.Err, truncate(e.LastRaw, 500))
}

func (e *GenerationError) Unwrap() error { return e.Err }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
