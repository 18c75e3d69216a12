package llm

import (
	"context"
	"strings"
	"time"

	httpclient "product-recommender/internal/common/http"
)

const defaultTemperature = 0.7

type GroqConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	// Temperature nil means 0.7; an explicit zero is sent as is.
	Temperature *float64
	Timeout     time.Duration
}

// GroqClient calls an OpenAI-compatible chat completions endpoint.
type GroqClient struct {
	config *GroqConfig
	client *httpclient.Client
}

func NewGroqClient(cfg *GroqConfig) *GroqClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Temperature == nil {
		t := defaultTemperature
		cfg.Temperature = &t
	}
	return &GroqClient{
		config: cfg,
		client: httpclient.NewClient("llm", cfg.Timeout),
	}
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

func (g *GroqClient) Complete(ctx context.Context, messages []Message) (string, error) {
	headers := map[string]string{"Authorization": "Bearer " + g.config.APIKey}
	body := chatCompletionRequest{
		Model:       g.config.Model,
		Messages:    messages,
		Temperature: *g.config.Temperature,
	}

	var resp chatCompletionResponse
	if err := g.client.PostJSON(ctx, strings.TrimRight(g.config.BaseURL, "/")+"/chat/completions", headers, body, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
