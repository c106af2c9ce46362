package testutil

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/alexanderramin/racecoach/internal/llm"
)

// Reply is one canned backend answer.
type Reply struct {
	Text string
	Err  error
}

// ScriptedLLM is an llm.LLMClient that answers from per-generation queues and
// records every request. Calls are safe from concurrent goroutines.
type ScriptedLLM struct {
	mu       sync.Mutex
	queues   map[string][]Reply
	fallback func(req llm.GenerateRequest) (string, error)
	requests []llm.GenerateRequest
}

func NewScriptedLLM() *ScriptedLLM {
	return &ScriptedLLM{queues: make(map[string][]Reply)}
}

// Enqueue appends text replies for calls named name.
func (s *ScriptedLLM) Enqueue(name string, texts ...string) *ScriptedLLM {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range texts {
		s.queues[name] = append(s.queues[name], Reply{Text: t})
	}
	return s
}

// EnqueueError appends a failing reply for calls named name.
func (s *ScriptedLLM) EnqueueError(name string, err error) *ScriptedLLM {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queues[name] = append(s.queues[name], Reply{Err: err})
	return s
}

// Fallback answers calls whose queue is empty.
func (s *ScriptedLLM) Fallback(fn func(req llm.GenerateRequest) (string, error)) *ScriptedLLM {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallback = fn
	return s
}

func (s *ScriptedLLM) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	var reply Reply
	if q := s.queues[req.Name]; len(q) > 0 {
		reply = q[0]
		s.queues[req.Name] = q[1:]
	} else if s.fallback != nil {
		fn := s.fallback
		s.mu.Unlock()
		text, err := fn(req)
		if err != nil {
			return nil, err
		}
		return &llm.GenerateResponse{ID: "scripted", Text: text, Model: "scripted"}, nil
	} else {
		s.mu.Unlock()
		return nil, fmt.Errorf("scripted llm: no reply queued for %q", req.Name)
	}
	s.mu.Unlock()

	if reply.Err != nil {
		return nil, reply.Err
	}
	return &llm.GenerateResponse{ID: "scripted", Text: reply.Text, Model: "scripted"}, nil
}

func (s *ScriptedLLM) Available(context.Context) bool { return true }

// Requests returns the recorded requests, optionally filtered by name.
func (s *ScriptedLLM) Requests(name string) []llm.GenerateRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []llm.GenerateRequest
	for _, r := range s.requests {
		if name == "" || r.Name == name {
			out = append(out, r)
		}
	}
	return out
}

// Calls counts recorded requests named name.
func (s *ScriptedLLM) Calls(name string) int {
	return len(s.Requests(name))
}

var (
	blockWeeksPattern = regexp.MustCompile(`The training block has (\d+) weeks`)
	weekNumPattern    = regexp.MustCompile(`week_num=(\d+)`)
)

// CoachReplies answers every coaching generation with a small valid reply.
// Use it as a Fallback when a test drives the whole update pipeline.
func CoachReplies(req llm.GenerateRequest) (string, error) {
	switch req.Name {
	case "gen_training_plan":
		m := blockWeeksPattern.FindStringSubmatch(req.UserPrompt)
		if m == nil {
			return "", fmt.Errorf("scripted llm: no block length in skeleton prompt")
		}
		n, _ := strconv.Atoi(m[1])
		weeks := make([]string, n)
		for i := range weeks {
			weeks[i] = fmt.Sprintf(`{"week_num":%d,"week_type":"build","volume":%d,"long_run":%d}`, i+1, 30+i, 10+i)
		}
		return `{"weeks":[` + strings.Join(weeks, ",") + `]}`, nil
	case "gen_training_plan_week":
		m := weekNumPattern.FindStringSubmatch(req.UserPrompt)
		if m == nil {
			return "", fmt.Errorf("scripted llm: no week_num in week prompt")
		}
		return fmt.Sprintf(`{"week_type":"build","notes":"Week %s builds aerobic base."}`, m[1]), nil
	case "gen_coaches_notes":
		return "Solid, controlled effort.", nil
	case "gen_pseudo_training_week":
		return `{"days":[{"day":"sat","session_type":"long run","distance":10},{"day":"sun","session_type":"easy run","distance":4}]}`, nil
	case "gen_training_week":
		return `{"sessions":[{"day":"sat","session_type":"long run","distance":10,"notes":"Keep it conversational."},` +
			`{"day":"sun","session_type":"easy run","distance":4,"notes":"Recovery pace."}]}`, nil
	default:
		return "", fmt.Errorf("scripted llm: unexpected generation %q", req.Name)
	}
}
