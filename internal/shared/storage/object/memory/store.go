package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"docvault-backend/internal/shared/storage/object"
)

type entry struct {
	data        []byte
	contentType string
}

// Store is an in-memory object.Store for development and tests.
type Store struct {
	mu      sync.RWMutex
	objects map[string]entry
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{objects: make(map[string]entry)}
}

func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]byte, len(data))
	copy(copied, data)
	s.objects[key] = entry{data: copied, contentType: contentType}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.objects[key]
	if !ok {
		return nil, "", fmt.Errorf("object not found: %s", key)
	}
	copied := make([]byte, len(e.data))
	copy(copied, e.data)
	return copied, e.contentType, nil
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok, nil
}

func (s *Store) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := []string{}
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) ListTopLevelPrefixes(ctx context.Context) ([]string, error) {
	keys, err := s.ListKeys(ctx, "")
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	prefixes := []string{}
	for _, key := range keys {
		top, _, found := strings.Cut(key, "/")
		if !found {
			continue
		}
		if _, ok := seen[top]; ok {
			continue
		}
		seen[top] = struct{}{}
		prefixes = append(prefixes, top)
	}
	return prefixes, nil
}

func (s *Store) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	keys, err := s.ListKeys(ctx, prefix)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.objects, key)
	}
	return len(keys), nil
}

var _ object.Store = (*Store)(nil)
