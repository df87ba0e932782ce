package todo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"taskwire.org/internal/ids"
)

// MemoryStore is an in-memory Store used in tests and when the service runs
// without a database DSN.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]Todo
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]Todo)}
}

func (s *MemoryStore) Create(ctx context.Context, t *Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = ids.New()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	s.items[t.ID] = *t
	return nil
}

func (s *MemoryStore) Find(ctx context.Context, id string) (Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.items[id]
	if !ok {
		return Todo{}, ErrNotFound
	}
	return t, nil
}

func (s *MemoryStore) ListByOwner(ctx context.Context, ownerID, search string, page, perPage int) ([]Todo, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(search)
	var owned []Todo
	for _, t := range s.items {
		if t.UserID != ownerID {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			continue
		}
		owned = append(owned, t)
	}
	sort.Slice(owned, func(i, j int) bool {
		if owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].ID > owned[j].ID
		}
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	total := len(owned)
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = PerPage
	}
	start := (page - 1) * perPage
	if start >= total {
		return []Todo{}, total, nil
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return owned[start:end], total, nil
}

func (s *MemoryStore) Update(ctx context.Context, t *Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[t.ID]; !ok {
		return ErrNotFound
	}
	t.UpdatedAt = time.Now().UTC()
	s.items[t.ID] = *t
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}
