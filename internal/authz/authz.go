// Package authz derives boolean capabilities from a session. All functions
// are pure; callers pass the session they just loaded so results can never be
// stale across a session replacement.
package authz

import "sistemaweb/portal/internal/models"

// IsAuthenticated reports whether the session is present and structurally
// valid. A partial session (token without status, etc.) does not count.
func IsAuthenticated(s models.Session) bool {
	return s.Valid()
}

// IsAdmin reports admin-or-above. The system never compares privilege levels
// beyond this single admin-or-not check.
func IsAdmin(s models.Session) bool {
	if !IsAuthenticated(s) {
		return false
	}
	return s.Status == models.StatusAdmin || s.Status == models.StatusSuperAdmin
}

func IsSuperAdmin(s models.Session) bool {
	return IsAuthenticated(s) && s.Status == models.StatusSuperAdmin
}

func HasDepartmentAccess(s models.Session, department string) bool {
	return IsAuthenticated(s) && s.Department == department
}

// DashboardPath is the post-login landing route for the session.
func DashboardPath(s models.Session) string {
	if !IsAuthenticated(s) {
		return "/"
	}
	if IsAdmin(s) {
		return "/dashboard/" + s.Department + "/admin"
	}
	return "/dashboard/" + s.Department
}
