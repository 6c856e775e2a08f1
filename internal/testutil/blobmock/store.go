package blobmock

import (
	"context"
	"sync"

	"agriloan-backend/internal/infrastructure/blob"
)

// Ensure compile-time compliance
var _ blob.Store = (*Store)(nil)

// Store is an in-memory blob.Store. SaveErr, if set, fails writes after
// FailAfter successful saves (0 means fail immediately).
type Store struct {
	mu        sync.Mutex
	objects   map[string][]byte
	saves     int
	SaveErr   error
	FailAfter int
	Deleted   []string
}

func New() *Store { return &Store{objects: map[string][]byte{}} }

func (m *Store) Save(ctx context.Context, locator string, content []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil && m.saves >= m.FailAfter {
		return m.SaveErr
	}
	m.saves++
	cp := make([]byte, len(content))
	copy(cp, content)
	m.objects[locator] = cp
	return nil
}

func (m *Store) Load(ctx context.Context, locator string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[locator]
	if !ok {
		return nil, blob.ErrNotFound
	}
	return b, nil
}

func (m *Store) Delete(ctx context.Context, locator string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, locator)
	m.Deleted = append(m.Deleted, locator)
	return nil
}

// Len returns the number of stored objects.
func (m *Store) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
