package gateway

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gsearch/gateway/internal/cache"
	"github.com/gsearch/gateway/internal/domain"
	"github.com/gsearch/gateway/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	return cache.New(st, "/reddit/cache")
}

func TestSubredditResolvesOnceAndCaches(t *testing.T) {
	mockChat := new(MockChat)
	mockChat.On("Chat", mock.Anything, mock.MatchedBy(func(h []domain.Turn) bool {
		return len(h) == 1 && h[0].Role == domain.RoleUser
	}), subredditPrompt).Return(&domain.ChatResult{Message: "/r/homelab"}, nil).Once()

	r := NewRedditResolver(newTestCache(t), mockChat)
	ctx := context.Background()

	sub, err := r.Subreddit(ctx, "HomeLab")
	require.NoError(t, err)
	assert.Equal(t, "/r/homelab", sub)

	// Cached now; the model is not consulted again.
	sub, err = r.Subreddit(ctx, "homelab")
	require.NoError(t, err)
	assert.Equal(t, "/r/homelab", sub)

	mockChat.AssertExpectations(t)
}

func TestSubredditDiscardsNonSubredditAnswer(t *testing.T) {
	mockChat := new(MockChat)
	mockChat.On("Chat", mock.Anything, mock.Anything, subredditPrompt).
		Return(&domain.ChatResult{Message: "I don't know, sorry"}, nil)

	r := NewRedditResolver(newTestCache(t), mockChat)

	sub, err := r.Subreddit(context.Background(), "gibberish")
	require.NoError(t, err)
	assert.Equal(t, "", sub)

	// A second lookup re-asks: the unusable answer was not cached.
	_, err = r.Subreddit(context.Background(), "gibberish")
	require.NoError(t, err)
	mockChat.AssertNumberOfCalls(t, "Chat", 2)
}
