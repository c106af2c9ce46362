package llm

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// ollamaClient implements LLMClient using the Ollama HTTP API.
type ollamaClient struct {
	cfg      Config
	http     *resty.Client
	observer Observer
}

// NewOllamaClient creates an LLMClient that talks to an Ollama instance.
func NewOllamaClient(cfg Config, observer Observer) LLMClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.Tasks == nil {
		cfg.Tasks = DefaultTasks()
	}
	return &ollamaClient{cfg: cfg, http: newRestyClient(cfg), observer: observer}
}

// ollamaRequest is the JSON body sent to POST /api/generate.
type ollamaRequest struct {
	Model   string        `json:"model"`
	System  string        `json:"system,omitempty"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Format  string        `json:"format,omitempty"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// ollamaResponse is the JSON body returned by POST /api/generate (non-streaming).
type ollamaResponse struct {
	Model           string `json:"model"`
	CreatedAt       string `json:"created_at"`
	Response        string `json:"response"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

func (c *ollamaClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()
	taskCfg := c.cfg.Tasks[req.Task]
	model := c.cfg.ModelFor(req.Task)

	ctx, cancel := context.WithTimeout(ctx, c.cfg.TaskTimeout(req.Task))
	defer cancel()

	body := ollamaRequest{
		Model:  model,
		System: req.SystemPrompt,
		Prompt: req.UserPrompt,
		Options: ollamaOptions{
			Temperature: taskCfg.Temperature,
			NumPredict:  taskCfg.MaxTokens,
		},
	}
	if req.JSON {
		body.Format = "json"
	}

	var out ollamaResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&body).
		SetResult(&out).
		Post("/api/generate")

	event := LLMCallEvent{
		Name:     req.Name,
		Task:     req.Task,
		Model:    model,
		Messages: messagesOf(req),
		Duration: time.Since(start),
	}

	if err := classify(ctx, resp, err); err != nil {
		event.ErrorCode = errorCode(err)
		c.observer.OnCallComplete(event)
		return nil, err
	}

	usage := Usage{
		PromptTokens:     out.PromptEvalCount,
		CompletionTokens: out.EvalCount,
		TotalTokens:      out.PromptEvalCount + out.EvalCount,
	}
	// Ollama has no response identifier; the creation timestamp is unique
	// enough to correlate observations.
	id := "ollama-" + out.CreatedAt

	event.Success = true
	event.ResponseID = id
	event.Content = out.Response
	event.Usage = usage
	c.observer.OnCallComplete(event)

	return &GenerateResponse{
		ID:        id,
		Text:      out.Response,
		Model:     out.Model,
		Usage:     usage,
		LatencyMs: event.Duration.Milliseconds(),
	}, nil
}

func (c *ollamaClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	resp, err := c.http.R().SetContext(ctx).Get("/api/tags")
	return err == nil && resp.StatusCode() == 200
}
