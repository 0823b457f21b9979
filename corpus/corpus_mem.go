package corpus

import (
	"context"
	"strings"
	"sync"
)

// MemStore keeps everything in process memory. Nothing survives a restart;
// intended for tests and one-shot CLI invocations.
type MemStore struct {
	mu      sync.RWMutex
	items   []string
	seen    map[string]bool
	posted  map[string]bool
	cursors map[string]string
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{
		seen:    make(map[string]bool),
		posted:  make(map[string]bool),
		cursors: make(map[string]string),
	}
}

func (s *MemStore) AddItems(ctx context.Context, source string, items []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := 0
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := source + "/" + HashOf(item)
		if s.seen[key] {
			continue
		}
		s.seen[key] = true
		s.items = append(s.items, item)
		added++
	}
	return added, nil
}

func (s *MemStore) Items(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *MemStore) Len(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items), nil
}

func (s *MemStore) MarkPosted(ctx context.Context, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posted[hash] = true
	return nil
}

func (s *MemStore) WasPosted(ctx context.Context, hash string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.posted[hash], nil
}

func (s *MemStore) LastSeen(ctx context.Context, source string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursors[source], nil
}

func (s *MemStore) SetLastSeen(ctx context.Context, source, cursor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors[source] = cursor
	return nil
}
