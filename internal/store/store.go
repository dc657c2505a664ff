// Package store implements the file-backed JSON configuration document
// shared by every component that needs durable state. Values are addressed
// by slash-separated paths ("/openai/model", "/reddit/cache/<key>") and
// every set is flushed to disk before it returns, so a restart resumes the
// last written values.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store is a process-wide handle to one JSON document. All access goes
// through the embedded lock; the lock is never held across anything but
// the in-memory map walk and the file rewrite.
type Store struct {
	mu   sync.RWMutex
	path string
	doc  map[string]any
}

// Open loads the document at path, creating an empty one when the file
// does not exist yet. A document that exists but cannot be read or parsed
// is a startup-fatal condition for the caller.
func Open(path string) (*Store, error) {
	s := &Store{path: path, doc: map[string]any{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to open store %s: %w", path, err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
		if err := s.flushLocked(); err != nil {
			return nil, err
		}
		return s, nil
	}

	if err := json.Unmarshal(data, &s.doc); err != nil {
		return nil, fmt.Errorf("failed to parse store %s: %w", path, err)
	}

	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

func splitPath(path string) []string {
	var segs []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segs = append(segs, seg)
		}
	}
	return segs
}

func (s *Store) lookup(path string) (any, bool) {
	segs := splitPath(path)
	if len(segs) == 0 {
		return nil, false
	}

	var cur any = s.doc
	for _, seg := range segs {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// GetString returns the string at path, or def when absent or not a string.
func (s *Store) GetString(path, def string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.lookup(path); ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return def
}

// GetFloat returns the number at path, or def when absent.
func (s *Store) GetFloat(path string, def float64) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.lookup(path); ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return def
}

// GetInt returns the integer at path, or def when absent.
func (s *Store) GetInt(path string, def int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.lookup(path); ok {
		if f, ok := v.(float64); ok {
			return int(f)
		}
	}
	return def
}

// Unmarshal decodes the value at path into out. It returns false without
// touching out when the path is absent.
func (s *Store) Unmarshal(path string, out any) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.lookup(path)
	if !ok {
		return false, nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return false, fmt.Errorf("failed to marshal store value %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("failed to decode store value %s: %w", path, err)
	}
	return true, nil
}

// Set writes value at path, creating intermediate objects as needed, and
// flushes the whole document to disk before returning.
func (s *Store) Set(path string, value any) error {
	segs := splitPath(path)
	if len(segs) == 0 {
		return fmt.Errorf("invalid store path %q", path)
	}

	// Round-trip through JSON so the in-memory document only ever holds
	// plain JSON values, whatever type the caller handed us.
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %s: %w", path, err)
	}
	var plain any
	if err := json.Unmarshal(raw, &plain); err != nil {
		return fmt.Errorf("failed to normalize value for %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.doc
	for _, seg := range segs[:len(segs)-1] {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[seg] = next
		}
		cur = next
	}
	cur[segs[len(segs)-1]] = plain

	return s.flushLocked()
}

// flushLocked rewrites the backing file. Callers must hold the write lock
// (or have exclusive access during Open).
func (s *Store) flushLocked() error {
	data, err := json.MarshalIndent(s.doc, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	// Write-then-rename so a crash mid-write never corrupts the document.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace store: %w", err)
	}
	return nil
}
