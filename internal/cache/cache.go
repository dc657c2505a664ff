// Package cache implements a lazily-filled string cache persisted in the
// configuration store. Values are computed by a caller-supplied resolver
// on first miss and durable across restarts.
package cache

import (
	"context"
	"strings"

	"github.com/gsearch/gateway/internal/store"
	"golang.org/x/sync/singleflight"
)

// Resolver computes the value for a key that is not cached yet. An empty
// result means "no usable value"; it is returned to the caller but never
// persisted, so the next lookup retries.
type Resolver func(ctx context.Context, key string) (string, error)

// Cache maps normalized keys to resolved strings under one store path
// prefix. Concurrent misses on the same key are collapsed to a single
// resolver call.
type Cache struct {
	store  *store.Store
	prefix string
	group  singleflight.Group
}

// New creates a cache persisting under prefix, e.g. "/reddit/cache".
func New(st *store.Store, prefix string) *Cache {
	return &Cache{store: st, prefix: strings.TrimSuffix(prefix, "/")}
}

// normalize case-folds the key. The same normalization applies on read
// and write, otherwise lookups silently miss.
func normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func (c *Cache) path(key string) string {
	return c.prefix + "/" + key
}

// Resolve returns the cached value for key, invoking resolve on first
// miss and persisting its result. The resolver runs without any cache
// lock held.
func (c *Cache) Resolve(ctx context.Context, key string, resolve Resolver) (string, error) {
	norm := normalize(key)

	if v := c.store.GetString(c.path(norm), ""); v != "" {
		return v, nil
	}

	v, err, _ := c.group.Do(norm, func() (any, error) {
		// A concurrent miss may have landed while we waited our turn.
		if v := c.store.GetString(c.path(norm), ""); v != "" {
			return v, nil
		}

		resolved, err := resolve(ctx, norm)
		if err != nil {
			return "", err
		}
		if resolved == "" {
			return "", nil
		}

		if err := c.store.Set(c.path(norm), resolved); err != nil {
			return "", err
		}
		return resolved, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
