// Package llm adapts hosted language models to a single text-completion capability.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"product-recommender/internal/common/config"
)

// Message roles.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

var ErrEmptyCompletion = errors.New("LLM_EMPTY_COMPLETION")

// Message is one chat turn sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TextCompletion turns a system + user message pair into completion text.
// Failures are opaque; callers only distinguish "call failed".
type TextCompletion interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// CompletionFunc adapts a function to TextCompletion.
type CompletionFunc func(ctx context.Context, messages []Message) (string, error)

func (f CompletionFunc) Complete(ctx context.Context, messages []Message) (string, error) {
	return f(ctx, messages)
}

// New builds the provider selected by cfg.Provider.
func New(ctx context.Context, cfg config.APIsConfig) (TextCompletion, error) {
	timeout := config.GetDuration(cfg.LLM.Timeout)
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	switch cfg.LLM.Provider {
	case config.LLMProviderGroq:
		temperature := cfg.LLM.Temperature
		return NewGroqClient(&GroqConfig{
			BaseURL:     cfg.LLM.BaseURL,
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			Temperature: &temperature,
			Timeout:     timeout,
		}), nil
	case config.LLMProviderGemini:
		return NewGeminiClient(ctx, &GeminiConfig{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
			Timeout: timeout,
		})
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

func splitMessages(messages []Message) (system, user string) {
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system += m.Content
		default:
			user += m.Content
		}
	}
	return system, user
}
