package workflow

import (
	"strings"
	"sync"

	"sistemaweb/portal/internal/models"
)

// Manager keeps the live reviews, one per (session, request) pair. Reviews
// are ephemeral page state: they exist from the first detail fetch until the
// bulk approval or the session ends, whichever comes first.
type Manager struct {
	mu      sync.Mutex
	reviews map[string]*Review
}

func NewManager() *Manager {
	return &Manager{reviews: make(map[string]*Review)}
}

func key(sid, requestID string) string { return sid + "/" + requestID }

// Open returns the existing review for the request or starts one from the
// fetched data.
func (m *Manager) Open(sid string, request models.Request) *Review {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(sid, request.ID)
	if r, ok := m.reviews[k]; ok {
		return r
	}
	r := NewReview(request)
	m.reviews[k] = r
	return r
}

func (m *Manager) Get(sid, requestID string) (*Review, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[key(sid, requestID)]
	return r, ok
}

// Close drops the review after a successful bulk approval.
func (m *Manager) Close(sid, requestID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.reviews, key(sid, requestID))
}

// CloseSession drops every review the session had open. Called on logout and
// invalidation so abandoned reviews do not accumulate.
func (m *Manager) CloseSession(sid string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := sid + "/"
	for k := range m.reviews {
		if strings.HasPrefix(k, prefix) {
			delete(m.reviews, k)
		}
	}
}
