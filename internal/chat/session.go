// Package chat holds the process-wide chat session state: current model,
// system prompt, temperature and history budget. Mutations are persisted
// to the store immediately so a restart resumes the last values.
package chat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gsearch/gateway/internal/domain"
	"github.com/gsearch/gateway/internal/llm"
	"github.com/gsearch/gateway/internal/store"
)

const (
	modelPath       = "/openai/model"
	systemPath      = "/openai/system"
	temperaturePath = "/openai/temperature"
	maxPromptPath   = "/openai/max_prompt"

	defaultSystem      = "you are a helpful assistant"
	defaultTemperature = 0.3
	defaultMaxPrompt   = 12
)

// Session is the gateway's single chat session. Two concurrent mutations
// may interleave; the surviving persisted value is whichever write lands
// last. That is a known race, acceptable for a single-operator console.
type Session struct {
	mu          sync.Mutex
	store       *store.Store
	router      *llm.Router
	model       string
	system      string
	temperature float64
	maxHistory  int
}

// NewSession loads the persisted session state, falling back to the
// default provider's model when none was ever set.
func NewSession(st *store.Store, router *llm.Router) (*Session, error) {
	s := &Session{
		store:       st,
		router:      router,
		system:      st.GetString(systemPath, defaultSystem),
		temperature: st.GetFloat(temperaturePath, defaultTemperature),
		maxHistory:  st.GetInt(maxPromptPath, defaultMaxPrompt),
	}

	s.model = st.GetString(modelPath, "")
	if s.model == "" {
		p, err := router.GetProvider("")
		if err != nil {
			return nil, fmt.Errorf("no chat provider available: %w", err)
		}
		s.model = p.DefaultModel()
	}

	return s, nil
}

// Model returns the current model identifier.
func (s *Session) Model() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

// SetModel sets and persists the model, returning the new value.
func (s *Session) SetModel(model string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.model = model
	if err := s.store.Set(modelPath, model); err != nil {
		return "", err
	}
	return s.model, nil
}

// Prompt returns the current system prompt.
func (s *Session) Prompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.system
}

// SetPrompt sets and persists the system prompt, returning the new value.
func (s *Session) SetPrompt(system string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.system = system
	if err := s.store.Set(systemPath, system); err != nil {
		return "", err
	}
	return s.system, nil
}

// Chat runs one completion over the supplied history, truncated to the
// configured budget. promptOverride replaces the session system prompt
// for this call only. The state lock is released before the upstream
// call is made.
func (s *Session) Chat(ctx context.Context, history []domain.Turn, promptOverride string) (*domain.ChatResult, error) {
	s.mu.Lock()
	model := s.model
	system := s.system
	temperature := s.temperature
	maxHistory := s.maxHistory
	s.mu.Unlock()

	if promptOverride != "" {
		system = promptOverride
	}

	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}

	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{Role: "system", Content: system})
	for _, h := range history {
		role := "assistant"
		if h.Role == domain.RoleUser {
			role = "user"
		}
		messages = append(messages, llm.Message{Role: role, Content: h.Content})
	}

	provider, err := s.router.GetProvider("")
	if err != nil {
		return nil, err
	}

	createTS := float64(time.Now().UnixMilli()) / 1000
	resp, err := provider.Complete(ctx, llm.Request{
		Model:       model,
		Temperature: temperature,
		Messages:    messages,
	})
	if err != nil {
		return nil, err
	}

	return &domain.ChatResult{
		ID:         resp.ID,
		Message:    resp.Content,
		Model:      resp.Model,
		CreateTS:   createTS,
		ResponseTS: float64(time.Now().UnixMilli()) / 1000,
	}, nil
}
