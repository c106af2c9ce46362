package llm

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// openAIClient implements LLMClient against an OpenAI-compatible
// chat completions endpoint.
type openAIClient struct {
	cfg      Config
	http     *resty.Client
	observer Observer
}

// NewOpenAIClient creates an LLMClient for the chat completions API.
func NewOpenAIClient(cfg Config, observer Observer) LLMClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.Tasks == nil {
		cfg.Tasks = DefaultTasks()
	}
	c := newRestyClient(cfg)
	if cfg.APIKey != "" {
		c.SetAuthToken(cfg.APIKey)
	}
	return &openAIClient{cfg: cfg, http: c, observer: observer}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func (c *openAIClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()
	taskCfg := c.cfg.Tasks[req.Task]
	model := c.cfg.ModelFor(req.Task)

	ctx, cancel := context.WithTimeout(ctx, c.cfg.TaskTimeout(req.Task))
	defer cancel()

	body := chatRequest{
		Model:       model,
		Temperature: taskCfg.Temperature,
		MaxTokens:   taskCfg.MaxTokens,
	}
	if req.SystemPrompt != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: req.UserPrompt})
	if req.JSON {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	var out chatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&body).
		SetResult(&out).
		Post("/v1/chat/completions")

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
	if len(out.Choices) == 0 {
		event.ErrorCode = errorCode(ErrEmptyResponse)
		c.observer.OnCallComplete(event)
		return nil, ErrEmptyResponse
	}

	result := &GenerateResponse{
		ID:    out.ID,
		Text:  out.Choices[0].Message.Content,
		Model: out.Model,
		Usage: Usage{
			PromptTokens:     out.Usage.PromptTokens,
			CompletionTokens: out.Usage.CompletionTokens,
			TotalTokens:      out.Usage.TotalTokens,
		},
		LatencyMs: event.Duration.Milliseconds(),
	}

	event.Success = true
	event.ResponseID = result.ID
	event.Content = result.Text
	event.Model = result.Model
	event.Usage = result.Usage
	c.observer.OnCallComplete(event)

	return result, nil
}

func (c *openAIClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	resp, err := c.http.R().SetContext(ctx).Get("/v1/models")
	return err == nil && resp.StatusCode() == 200
}
