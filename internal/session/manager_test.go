package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"sistemaweb/portal/internal/backend"
	"sistemaweb/portal/internal/config"
	"sistemaweb/portal/internal/models"
)

type fakeClient struct {
	loginSession models.Session
	loginErr     error
	logoutErr    error

	logoutTokens []string
}

func (f *fakeClient) Login(context.Context, string, string) (models.Session, error) {
	return f.loginSession, f.loginErr
}

func (f *fakeClient) Logout(_ context.Context, token string) error {
	f.logoutTokens = append(f.logoutTokens, token)
	return f.logoutErr
}

func (f *fakeClient) Register(context.Context, string, backend.Registration) (backend.RegistrationResult, error) {
	return backend.RegistrationResult{}, nil
}

func (f *fakeClient) FetchPendingRequests(context.Context, string) ([]models.Request, error) {
	return nil, nil
}

func (f *fakeClient) FetchRequest(context.Context, string, string) (models.Request, error) {
	return models.Request{}, nil
}

func (f *fakeClient) FetchInventory(context.Context, string) ([]models.InventoryItem, error) {
	return nil, nil
}

func (f *fakeClient) ApproveItem(context.Context, string, string, string, int) error { return nil }

func (f *fakeClient) ApproveAll(context.Context, string, string, map[string]int) error { return nil }

func testSession() models.Session {
	return models.Session{
		Token:             "tok-abc",
		UserID:            7,
		Username:          "joseb",
		Status:            models.StatusBasic,
		Department:        models.DepartmentOAC,
		DepartmentDisplay: "OAC",
	}
}

func newTestManager(client backend.Client, store Store) *Manager {
	return NewManager(client, store, config.SessionConfig{TTL: time.Hour}, zerolog.Nop())
}

func TestLogin(t *testing.T) {
	t.Run("persists the session on success", func(t *testing.T) {
		store := NewMemoryStore()
		mgr := newTestManager(&fakeClient{loginSession: testSession()}, store)

		sid, s, err := mgr.Login(context.Background(), "30799436", "secreto123")
		require.NoError(t, err)
		require.NotEmpty(t, sid)
		require.Equal(t, testSession(), s)

		stored, err := store.Find(context.Background(), sid)
		require.NoError(t, err)
		require.Equal(t, testSession(), stored)
	})

	t.Run("failed login persists nothing", func(t *testing.T) {
		store := NewMemoryStore()
		loginErr := &backend.Error{Kind: backend.KindInvalidCredentials}
		mgr := newTestManager(&fakeClient{loginErr: loginErr}, store)

		sid, s, err := mgr.Login(context.Background(), "30799436", "malapass1")
		require.ErrorIs(t, err, loginErr)
		require.Empty(t, sid)
		require.Equal(t, models.Session{}, s)
	})

	t.Run("session ids are unique per login", func(t *testing.T) {
		mgr := newTestManager(&fakeClient{loginSession: testSession()}, NewMemoryStore())

		sid1, _, err := mgr.Login(context.Background(), "30799436", "secreto123")
		require.NoError(t, err)
		sid2, _, err := mgr.Login(context.Background(), "30799436", "secreto123")
		require.NoError(t, err)
		require.NotEqual(t, sid1, sid2)
	})
}

func TestResolve(t *testing.T) {
	t.Run("returns the stored session", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Save(context.Background(), "sid-1", testSession(), time.Hour))

		mgr := newTestManager(&fakeClient{}, store)
		s, err := mgr.Resolve(context.Background(), "sid-1")
		require.NoError(t, err)
		require.Equal(t, testSession(), s)
	})

	t.Run("unknown sid", func(t *testing.T) {
		mgr := newTestManager(&fakeClient{}, NewMemoryStore())
		_, err := mgr.Resolve(context.Background(), "missing")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid stored session is cleared", func(t *testing.T) {
		store := NewMemoryStore()
		broken := testSession()
		broken.Token = ""
		require.NoError(t, store.Save(context.Background(), "sid-1", broken, time.Hour))

		mgr := newTestManager(&fakeClient{}, store)
		_, err := mgr.Resolve(context.Background(), "sid-1")
		require.ErrorIs(t, err, ErrNotFound)

		_, err = store.Find(context.Background(), "sid-1")
		require.ErrorIs(t, err, ErrNotFound, "the broken session must be gone")
	})
}

func TestLogout(t *testing.T) {
	t.Run("revokes the token and clears the session", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Save(context.Background(), "sid-1", testSession(), time.Hour))

		client := &fakeClient{}
		newTestManager(client, store).Logout(context.Background(), "sid-1")

		require.Equal(t, []string{"tok-abc"}, client.logoutTokens)
		_, err := store.Find(context.Background(), "sid-1")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("clears the session even when the server call fails", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Save(context.Background(), "sid-1", testSession(), time.Hour))

		client := &fakeClient{logoutErr: errors.New("backend down")}
		newTestManager(client, store).Logout(context.Background(), "sid-1")

		_, err := store.Find(context.Background(), "sid-1")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown sid is a no-op", func(t *testing.T) {
		client := &fakeClient{}
		newTestManager(client, NewMemoryStore()).Logout(context.Background(), "missing")
		require.Empty(t, client.logoutTokens, "no token to revoke without a session")
	})
}

func TestMemoryStore(t *testing.T) {
	t.Run("save and find", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Save(context.Background(), "sid-1", testSession(), time.Hour))

		s, err := store.Find(context.Background(), "sid-1")
		require.NoError(t, err)
		require.Equal(t, testSession(), s)
	})

	t.Run("expired entry is absent", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Save(context.Background(), "sid-1", testSession(), -time.Second))

		_, err := store.Find(context.Background(), "sid-1")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Save(context.Background(), "sid-1", testSession(), time.Hour))
		require.NoError(t, store.Delete(context.Background(), "sid-1"))

		_, err := store.Find(context.Background(), "sid-1")
		require.ErrorIs(t, err, ErrNotFound)
	})
}
