package gateway

import (
	"sync"

	"github.com/gsearch/gateway/internal/domain"
	"github.com/gsearch/gateway/internal/store"
)

const bookmarksPath = "/bookmarks"

// Bookmarks is the persisted, ordered bookmark collection. Name is a
// soft-unique key enforced here on the mutation path; the store itself
// keeps a plain list.
type Bookmarks struct {
	mu    sync.Mutex
	store *store.Store
}

// NewBookmarks creates the collection over the shared store.
func NewBookmarks(st *store.Store) *Bookmarks {
	return &Bookmarks{store: st}
}

func (b *Bookmarks) load() ([]domain.Bookmark, error) {
	var list []domain.Bookmark
	if _, err := b.store.Unmarshal(bookmarksPath, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// List returns all bookmarks in stored order.
func (b *Bookmarks) List() ([]domain.Bookmark, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.load()
}

// Add appends the bookmark unless one with the same name already exists.
// Adding the same name twice leaves exactly one entry.
func (b *Bookmarks) Add(bookmark domain.Bookmark) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	list, err := b.load()
	if err != nil {
		return err
	}

	for _, existing := range list {
		if existing.Name == bookmark.Name {
			return nil
		}
	}

	return b.store.Set(bookmarksPath, append(list, bookmark))
}

// Remove deletes the bookmark with the given name. It reports whether an
// entry was removed.
func (b *Bookmarks) Remove(name string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list, err := b.load()
	if err != nil {
		return false, err
	}

	for i, existing := range list {
		if existing.Name == name {
			list = append(list[:i], list[i+1:]...)
			return true, b.store.Set(bookmarksPath, list)
		}
	}
	return false, nil
}

// Find returns the bookmark whose name or shortcut matches q.
func (b *Bookmarks) Find(q string) (domain.Bookmark, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list, err := b.load()
	if err != nil {
		return domain.Bookmark{}, false
	}

	for _, bookmark := range list {
		if bookmark.Matches(q) {
			return bookmark, true
		}
	}
	return domain.Bookmark{}, false
}
