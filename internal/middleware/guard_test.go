package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"sistemaweb/portal/internal/config"
	"sistemaweb/portal/internal/models"
	"sistemaweb/portal/internal/security"
	"sistemaweb/portal/internal/session"
)

func guardTestConfig() *config.AppConfig {
	return &config.AppConfig{
		Session: config.SessionConfig{
			CookieName:   "portal_session",
			CookieSecret: "test-secret",
			TTL:          time.Hour,
		},
	}
}

func guardTestSession(status models.UserStatus, department string) models.Session {
	return models.Session{
		Token:             "tok-abc",
		UserID:            7,
		Username:          "joseb",
		Status:            status,
		Department:        department,
		DepartmentDisplay: models.DepartmentDisplay(department),
	}
}

// seedSession stores a session and returns the signed cookie that points at it.
func seedSession(t *testing.T, store session.Store, cfg *config.AppConfig, s models.Session) *http.Cookie {
	t.Helper()
	require.NoError(t, store.Save(context.Background(), "sid-1", s, time.Hour))
	signed, err := security.SignSessionCookie(cfg.Session.CookieSecret, "sid-1", time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: cfg.Session.CookieName, Value: signed}
}

func guardedEngine(mgr *session.Manager, cfg *config.AppConfig, guards ...GuardConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	group := engine.Group("/protected")
	for _, g := range guards {
		group.Use(Guard(mgr, cfg, g))
	}
	group.GET("", func(c *gin.Context) {
		s, _ := CurrentSession(c)
		c.JSON(http.StatusOK, gin.H{"username": s.Username, "sid": CurrentSessionID(c)})
	})
	return engine
}

func get(engine *gin.Engine, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestGuardAuthentication(t *testing.T) {
	cfg := guardTestConfig()
	store := session.NewMemoryStore()
	mgr := session.NewManager(nil, store, cfg.Session, zerolog.Nop())
	engine := guardedEngine(mgr, cfg, GuardConfig{})

	t.Run("no cookie redirects to login", func(t *testing.T) {
		rec := get(engine, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("garbage cookie redirects to login", func(t *testing.T) {
		rec := get(engine, &http.Cookie{Name: cfg.Session.CookieName, Value: "garbage"})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("cookie signed with a different secret is rejected", func(t *testing.T) {
		require.NoError(t, store.Save(context.Background(), "sid-1", guardTestSession(models.StatusBasic, models.DepartmentOAC), time.Hour))
		forged, err := security.SignSessionCookie("other-secret", "sid-1", time.Hour)
		require.NoError(t, err)

		rec := get(engine, &http.Cookie{Name: cfg.Session.CookieName, Value: forged})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("valid cookie without a stored session redirects", func(t *testing.T) {
		signed, err := security.SignSessionCookie(cfg.Session.CookieSecret, "gone", time.Hour)
		require.NoError(t, err)

		rec := get(engine, &http.Cookie{Name: cfg.Session.CookieName, Value: signed})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("valid session passes and lands in the context", func(t *testing.T) {
		cookie := seedSession(t, store, cfg, guardTestSession(models.StatusBasic, models.DepartmentOAC))
		rec := get(engine, cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"username":"joseb"`)
		require.Contains(t, rec.Body.String(), `"sid":"sid-1"`)
	})
}

func TestGuardDepartment(t *testing.T) {
	cfg := guardTestConfig()
	store := session.NewMemoryStore()
	mgr := session.NewManager(nil, store, cfg.Session, zerolog.Nop())
	engine := guardedEngine(mgr, cfg, GuardConfig{RequireDepartment: models.DepartmentFarmacia})

	t.Run("matching department passes", func(t *testing.T) {
		cookie := seedSession(t, store, cfg, guardTestSession(models.StatusBasic, models.DepartmentFarmacia))
		require.Equal(t, http.StatusOK, get(engine, cookie).Code)
	})

	t.Run("foreign department lands on the dashboard", func(t *testing.T) {
		cookie := seedSession(t, store, cfg, guardTestSession(models.StatusBasic, models.DepartmentOAC))
		rec := get(engine, cookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/dashboard", rec.Header().Get("Location"))
	})

	t.Run("admin of another department is still denied", func(t *testing.T) {
		cookie := seedSession(t, store, cfg, guardTestSession(models.StatusAdmin, models.DepartmentOAC))
		rec := get(engine, cookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/dashboard", rec.Header().Get("Location"))
	})
}

func TestGuardAdmin(t *testing.T) {
	cfg := guardTestConfig()
	store := session.NewMemoryStore()
	mgr := session.NewManager(nil, store, cfg.Session, zerolog.Nop())

	t.Run("basic user lands on the department panel", func(t *testing.T) {
		engine := guardedEngine(mgr, cfg, GuardConfig{RequireAdmin: true})
		cookie := seedSession(t, store, cfg, guardTestSession(models.StatusBasic, models.DepartmentOAC))
		rec := get(engine, cookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/dashboard/oac", rec.Header().Get("Location"))
	})

	t.Run("admin passes", func(t *testing.T) {
		engine := guardedEngine(mgr, cfg, GuardConfig{RequireAdmin: true})
		cookie := seedSession(t, store, cfg, guardTestSession(models.StatusAdmin, models.DepartmentOAC))
		require.Equal(t, http.StatusOK, get(engine, cookie).Code)
	})

	t.Run("super admin passes", func(t *testing.T) {
		engine := guardedEngine(mgr, cfg, GuardConfig{RequireAdmin: true})
		cookie := seedSession(t, store, cfg, guardTestSession(models.StatusSuperAdmin, models.DepartmentOAC))
		require.Equal(t, http.StatusOK, get(engine, cookie).Code)
	})
}

func TestGuardStacking(t *testing.T) {
	cfg := guardTestConfig()
	store := session.NewMemoryStore()
	mgr := session.NewManager(nil, store, cfg.Session, zerolog.Nop())
	engine := guardedEngine(mgr, cfg,
		GuardConfig{RequireDepartment: models.DepartmentOAC},
		GuardConfig{RequireAdmin: true},
	)

	t.Run("oac admin passes both guards", func(t *testing.T) {
		cookie := seedSession(t, store, cfg, guardTestSession(models.StatusAdmin, models.DepartmentOAC))
		require.Equal(t, http.StatusOK, get(engine, cookie).Code)
	})

	t.Run("oac basic fails the inner guard", func(t *testing.T) {
		cookie := seedSession(t, store, cfg, guardTestSession(models.StatusBasic, models.DepartmentOAC))
		rec := get(engine, cookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/dashboard/oac", rec.Header().Get("Location"))
	})

	t.Run("farmacia admin fails the outer guard", func(t *testing.T) {
		cookie := seedSession(t, store, cfg, guardTestSession(models.StatusAdmin, models.DepartmentFarmacia))
		rec := get(engine, cookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/dashboard", rec.Header().Get("Location"))
	})
}
