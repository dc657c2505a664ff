package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gsearch/gateway/internal/llm"
	"github.com/gsearch/gateway/internal/upstream"
)

// Provider implements llm.Provider for the OpenAI chat completions API.
// All traffic goes through the pooled upstream client, so retries and
// connection recycling follow the gateway-wide policy.
type Provider struct {
	apiKey       string
	defaultModel string
	client       *upstream.Client
}

// NewProvider creates a new OpenAI provider on top of an upstream client
// bound to the API base URL (e.g. "https://api.openai.com/v1").
func NewProvider(client *upstream.Client, apiKey, defaultModel string) *Provider {
	if defaultModel == "" {
		defaultModel = "gpt-4o-mini"
	}
	return &Provider{
		apiKey:       apiKey,
		defaultModel: defaultModel,
		client:       client,
	}
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return "openai"
}

// DefaultModel returns the default model
func (p *Provider) DefaultModel() string {
	return p.defaultModel
}

// IsConfigured checks if provider has valid credentials
func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []llm.Message `json:"messages"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete runs one chat completion.
func (p *Provider) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	model := req.Model
	if model == "" {
		model = p.defaultModel
	}

	body, err := json.Marshal(chatRequest{
		Model:       model,
		Temperature: req.Temperature,
		Messages:    req.Messages,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("Authorization", "Bearer "+p.apiKey)

	start := time.Now()
	data, err := p.client.Do(ctx, upstream.Request{
		Method: http.MethodPost,
		Path:   "/chat/completions",
		Header: header,
		Body:   body,
	})
	if err != nil {
		return nil, err
	}

	var chatResp chatResponse
	if err := json.Unmarshal(data, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	id := chatResp.ID
	if id == "" {
		id = uuid.NewString()
	}

	content := "empty response from completions API"
	if len(chatResp.Choices) > 0 && chatResp.Choices[0].Message.Content != "" {
		content = chatResp.Choices[0].Message.Content
	}

	return &llm.Response{
		ID:        id,
		Content:   content,
		Model:     model,
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}
