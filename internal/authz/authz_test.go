package authz

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sistemaweb/portal/internal/models"
)

func validSession(status models.UserStatus) models.Session {
	return models.Session{
		Token:             "tok-abc",
		UserID:            7,
		Username:          "joseb",
		Status:            status,
		Department:        models.DepartmentOAC,
		DepartmentDisplay: "OAC",
	}
}

func TestIsAuthenticated(t *testing.T) {
	t.Run("complete session", func(t *testing.T) {
		require.True(t, IsAuthenticated(validSession(models.StatusBasic)))
	})

	t.Run("missing fields", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*models.Session)
		}{
			{"no token", func(s *models.Session) { s.Token = "" }},
			{"no user id", func(s *models.Session) { s.UserID = 0 }},
			{"no username", func(s *models.Session) { s.Username = "" }},
			{"no department", func(s *models.Session) { s.Department = "" }},
			{"no department display", func(s *models.Session) { s.DepartmentDisplay = "" }},
			{"unknown status", func(s *models.Session) { s.Status = "root" }},
			{"empty status", func(s *models.Session) { s.Status = "" }},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				s := validSession(models.StatusAdmin)
				tc.mutate(&s)
				require.False(t, IsAuthenticated(s))
			})
		}
	})

	t.Run("zero session", func(t *testing.T) {
		require.False(t, IsAuthenticated(models.Session{}))
	})
}

func TestRoleHierarchy(t *testing.T) {
	cases := []struct {
		status           models.UserStatus
		isAdmin, isSuper bool
	}{
		{models.StatusBasic, false, false},
		{models.StatusAdmin, true, false},
		{models.StatusSuperAdmin, true, true},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			s := validSession(tc.status)
			require.Equal(t, tc.isAdmin, IsAdmin(s))
			require.Equal(t, tc.isSuper, IsSuperAdmin(s))

			// Capabilities imply the weaker ones.
			if IsSuperAdmin(s) {
				require.True(t, IsAdmin(s))
			}
			if IsAdmin(s) {
				require.True(t, IsAuthenticated(s))
			}
		})
	}

	t.Run("admin status on invalid session grants nothing", func(t *testing.T) {
		s := validSession(models.StatusSuperAdmin)
		s.Token = ""
		require.False(t, IsAdmin(s))
		require.False(t, IsSuperAdmin(s))
	})
}

func TestHasDepartmentAccess(t *testing.T) {
	s := validSession(models.StatusBasic)
	require.True(t, HasDepartmentAccess(s, models.DepartmentOAC))
	require.False(t, HasDepartmentAccess(s, models.DepartmentFarmacia))

	s.Token = ""
	require.False(t, HasDepartmentAccess(s, models.DepartmentOAC))
}

func TestDashboardPath(t *testing.T) {
	cases := []struct {
		name     string
		session  models.Session
		expected string
	}{
		{"basic", validSession(models.StatusBasic), "/dashboard/oac"},
		{"admin", validSession(models.StatusAdmin), "/dashboard/oac/admin"},
		{"super admin", validSession(models.StatusSuperAdmin), "/dashboard/oac/admin"},
		{"unauthenticated", models.Session{}, "/"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, DashboardPath(tc.session))
		})
	}
}
