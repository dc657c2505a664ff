package gateway

import (
	"context"
	"strings"

	"github.com/gsearch/gateway/internal/cache"
	"github.com/gsearch/gateway/internal/domain"
)

// ChatService is the slice of the chat session the gateway needs.
type ChatService interface {
	Chat(ctx context.Context, history []domain.Turn, promptOverride string) (*domain.ChatResult, error)
	Model() string
	SetModel(model string) (string, error)
	Prompt() string
	SetPrompt(system string) (string, error)
}

const subredditPrompt = "you are a helpful assistant"

// RedditResolver answers "what subreddit matches this string" by asking
// the chat model, memoizing answers in the persistent cache.
type RedditResolver struct {
	cache *cache.Cache
	chat  ChatService
}

// NewRedditResolver creates the resolver over the shared cache.
func NewRedditResolver(c *cache.Cache, chat ChatService) *RedditResolver {
	return &RedditResolver{cache: c, chat: chat}
}

// Subreddit resolves topic to a "/r/..." path. A model answer that does
// not look like a subreddit path is discarded rather than cached.
func (r *RedditResolver) Subreddit(ctx context.Context, topic string) (string, error) {
	return r.cache.Resolve(ctx, topic, func(ctx context.Context, key string) (string, error) {
		q := "what is the sub reddit for " + key + "." +
			" Just return the name of the subreddit starting with /r/" +
			" and nothing else"

		res, err := r.chat.Chat(ctx, []domain.Turn{{Role: domain.RoleUser, Content: q}}, subredditPrompt)
		if err != nil {
			return "", err
		}

		sub := strings.TrimSpace(res.Message)
		if !strings.HasPrefix(sub, "/r/") {
			return "", nil
		}
		return sub, nil
	})
}
