package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// GenerateRequest holds the parameters for one backend call.
type GenerateRequest struct {
	// Name labels the call in the observation log, e.g. "gen_training_week".
	Name         string
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	// JSON asks the backend to constrain output to a JSON object.
	JSON bool
}

// Usage holds token counts reported by the backend.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	ID        string
	Text      string
	Model     string
	Usage     Usage
	LatencyMs int64
}

// LLMClient provides access to a language model for text generation.
type LLMClient interface {
	// Generate sends a prompt and returns the raw text response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Available checks whether the backend is reachable.
	Available(ctx context.Context) bool
}

// New builds the client for cfg.Provider.
func New(cfg Config, observer Observer) LLMClient {
	if cfg.Provider == ProviderOllama {
		return NewOllamaClient(cfg, observer)
	}
	return NewOpenAIClient(cfg, observer)
}

func newRestyClient(cfg Config) *resty.Client {
	return resty.New().
		SetBaseURL(strings.TrimRight(cfg.Endpoint, "/")).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(cfg.TransportRetries).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil || r == nil {
				return false
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
		})
}

func messagesOf(req GenerateRequest) []string {
	var msgs []string
	if req.SystemPrompt != "" {
		msgs = append(msgs, req.SystemPrompt)
	}
	return append(msgs, req.UserPrompt)
}

// classify maps a transport outcome to the package sentinels.
func classify(ctx context.Context, resp *resty.Response, err error) error {
	if ctx.Err() != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ctx.Err()
	}
	if err != nil {
		if isConnectionError(err) {
			return ErrUnavailable
		}
		return err
	}
	if resp.IsError() {
		return &StatusError{StatusCode: resp.StatusCode(), Body: truncate(resp.String(), 1000)}
	}
	return nil
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	var statusErr *StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrEmptyResponse):
		return "EMPTY_RESPONSE"
	case errors.As(err, &statusErr):
		return fmt.Sprintf("HTTP_%d", statusErr.StatusCode)
	default:
		return "UNKNOWN"
	}
}
