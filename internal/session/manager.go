package session

import (
	"context"

	"github.com/rs/zerolog"

	"sistemaweb/portal/internal/backend"
	"sistemaweb/portal/internal/config"
	"sistemaweb/portal/internal/ids"
	"sistemaweb/portal/internal/models"
)

// Manager ties the auth client to the session store. It enforces the
// lifecycle rules: a session is persisted only after the login response
// validated, and logout clears it no matter what the server said.
type Manager struct {
	client backend.Client
	store  Store
	cfg    config.SessionConfig
	log    zerolog.Logger
}

func NewManager(client backend.Client, store Store, cfg config.SessionConfig, logger zerolog.Logger) *Manager {
	return &Manager{
		client: client,
		store:  store,
		cfg:    cfg,
		log:    logger.With().Str("component", "session_manager").Logger(),
	}
}

// Login authenticates against the backend and, only on success, persists the
// session under a fresh id. A failed or invalid response leaves nothing
// behind.
func (m *Manager) Login(ctx context.Context, cedula, password string) (string, models.Session, error) {
	s, err := m.client.Login(ctx, cedula, password)
	if err != nil {
		return "", models.Session{}, err
	}

	sid := ids.New()
	if err := m.store.Save(ctx, sid, s, m.cfg.TTL); err != nil {
		return "", models.Session{}, err
	}

	m.log.Info().
		Str("username", s.Username).
		Str("department", s.Department).
		Str("status", string(s.Status)).
		Msg("session created")
	return sid, s, nil
}

// Resolve loads the session for a sid. A stored session that fails the
// structural invariant is cleared and reported as absent.
func (m *Manager) Resolve(ctx context.Context, sid string) (models.Session, error) {
	s, err := m.store.Find(ctx, sid)
	if err != nil {
		return models.Session{}, err
	}
	if !s.Valid() {
		_ = m.store.Delete(ctx, sid)
		return models.Session{}, ErrNotFound
	}
	return s, nil
}

// Logout revokes the token server-side on a best-effort basis and always
// clears the local session. It never fails to the caller.
func (m *Manager) Logout(ctx context.Context, sid string) {
	defer func() {
		if err := m.store.Delete(ctx, sid); err != nil {
			m.log.Error().Err(err).Msg("session delete failed")
		}
	}()

	s, err := m.store.Find(ctx, sid)
	if err != nil {
		return
	}
	if err := m.client.Logout(ctx, s.Token); err != nil {
		m.log.Warn().Err(err).Msg("server-side logout failed")
	}
}

// Invalidate drops a session whose token the backend already rejected.
func (m *Manager) Invalidate(ctx context.Context, sid string) {
	if err := m.store.Delete(ctx, sid); err != nil {
		m.log.Error().Err(err).Msg("session invalidate failed")
	}
}
