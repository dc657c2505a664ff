package gateway

import (
	"context"

	"github.com/gsearch/gateway/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockSearcher mocks the external search provider.
type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) Search(ctx context.Context, q string) ([]byte, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSearcher) Lucky(ctx context.Context, q string) (string, error) {
	args := m.Called(ctx, q)
	return args.String(0), args.Error(1)
}

// MockResolver mocks the subreddit resolver.
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Subreddit(ctx context.Context, topic string) (string, error) {
	args := m.Called(ctx, topic)
	return args.String(0), args.Error(1)
}

// MockChat mocks the chat session surface.
type MockChat struct {
	mock.Mock
}

func (m *MockChat) Chat(ctx context.Context, history []domain.Turn, promptOverride string) (*domain.ChatResult, error) {
	args := m.Called(ctx, history, promptOverride)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatResult), args.Error(1)
}

func (m *MockChat) Model() string {
	return m.Called().String(0)
}

func (m *MockChat) SetModel(model string) (string, error) {
	args := m.Called(model)
	return args.String(0), args.Error(1)
}

func (m *MockChat) Prompt() string {
	return m.Called().String(0)
}

func (m *MockChat) SetPrompt(system string) (string, error) {
	args := m.Called(system)
	return args.String(0), args.Error(1)
}

// fakeChat is a plain in-memory ChatService for get/set flows.
type fakeChat struct {
	model  string
	system string
	reply  string

	chatCalls   int
	lastHistory []domain.Turn
	lastPrompt  string
}

func (f *fakeChat) Chat(ctx context.Context, history []domain.Turn, promptOverride string) (*domain.ChatResult, error) {
	f.chatCalls++
	f.lastHistory = history
	f.lastPrompt = promptOverride
	return &domain.ChatResult{ID: "cmpl-1", Message: f.reply, Model: f.model}, nil
}

func (f *fakeChat) Model() string { return f.model }

func (f *fakeChat) SetModel(model string) (string, error) {
	f.model = model
	return model, nil
}

func (f *fakeChat) Prompt() string { return f.system }

func (f *fakeChat) SetPrompt(system string) (string, error) {
	f.system = system
	return system, nil
}
