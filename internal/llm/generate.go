package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// RetryPolicy bounds how structured generation retries a failed attempt.
type RetryPolicy struct {
	MaxAttempts int
	// Delay is waited between attempts, never after the last one.
	Delay time.Duration
	// Retryable classifies an attempt error. Non-retryable errors end the
	// generation immediately.
	Retryable func(error) bool
}

// DefaultRetryPolicy retries malformed output up to three attempts with a
// fixed one second pause.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Delay:       time.Second,
		Retryable:   IsInvalidOutput,
	}
}

// IsInvalidOutput reports whether err stems from unparsable or
// schema-invalid backend text.
func IsInvalidOutput(err error) bool {
	return errors.Is(err, ErrInvalidOutput)
}

const jsonInstruction = "You are a helpful assistant designed to output JSON. " +
	"Output only a single JSON object with no markdown and no commentary."

// GenerateStructured asks the backend for a JSON object, parses it into T and
// validates it, retrying per policy. Exhaustion yields a *GenerationError
// wrapping ErrRetryExhausted and the last attempt's error.
func GenerateStructured[T any](ctx context.Context, client LLMClient, req GenerateRequest, validator SchemaValidator[T], policy RetryPolicy) (T, error) {
	var zero T
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.Retryable == nil {
		policy.Retryable = IsInvalidOutput
	}

	req.JSON = true
	if req.SystemPrompt == "" {
		req.SystemPrompt = jsonInstruction
	} else {
		req.SystemPrompt = jsonInstruction + "\n\n" + req.SystemPrompt
	}

	var lastRaw string
	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, policy.Delay); err != nil {
				return zero, &GenerationError{Name: req.Name, Attempts: attempt - 1, LastRaw: lastRaw, Err: err}
			}
		}

		resp, err := client.Generate(ctx, req)
		if err == nil {
			lastRaw = resp.Text
			var out T
			out, err = ExtractJSON(resp.Text, validator)
			if err == nil {
				return out, nil
			}
		}
		lastErr = err

		if !policy.Retryable(err) {
			return zero, &GenerationError{Name: req.Name, Attempts: attempt, LastRaw: lastRaw, Err: err}
		}
	}

	return zero, &GenerationError{
		Name:     req.Name,
		Attempts: policy.MaxAttempts,
		LastRaw:  lastRaw,
		Err:      fmt.Errorf("%w: %w", ErrRetryExhausted, lastErr),
	}
}

// Complete returns the backend's plain-text answer for req.
func Complete(ctx context.Context, client LLMClient, req GenerateRequest) (string, error) {
	req.JSON = false
	resp, err := client.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", req.Name, err)
	}
	return resp.Text, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
