// Package session owns the server-held copy of the authenticated user's
// token and profile. A session is only ever written whole or removed whole.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"sistemaweb/portal/internal/models"
)

var ErrNotFound = errors.New("session not found")

type Store interface {
	Save(ctx context.Context, sid string, s models.Session, ttl time.Duration) error
	Find(ctx context.Context, sid string) (models.Session, error)
	Delete(ctx context.Context, sid string) error
}

type memoryEntry struct {
	session   models.Session
	expiresAt time.Time
}

// MemoryStore keeps sessions in-process. Used in tests and when the portal
// runs without redis.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (m *MemoryStore) Save(_ context.Context, sid string, s models.Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[sid] = memoryEntry{session: s, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (m *MemoryStore) Find(_ context.Context, sid string) (models.Session, error) {
	m.mu.RLock()
	entry, ok := m.entries[sid]
	m.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return models.Session{}, ErrNotFound
	}
	return entry.session, nil
}

func (m *MemoryStore) Delete(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sid)
	return nil
}
