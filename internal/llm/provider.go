package llm

import "context"

// Message is one chat turn sent upstream.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request contains chat completion parameters.
type Request struct {
	Model       string
	Temperature float64
	Messages    []Message
}

// Response contains the completion result.
type Response struct {
	ID        string
	Content   string
	Model     string
	LatencyMs int64
}

// Provider defines the interface for chat completion providers.
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// DefaultModel returns the model used when a request names none
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Complete runs one chat completion
	Complete(ctx context.Context, req Request) (*Response, error)
}
