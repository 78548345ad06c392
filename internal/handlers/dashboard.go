package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sistemaweb/portal/internal/authz"
	"sistemaweb/portal/internal/middleware"
	"sistemaweb/portal/internal/nav"
)

func (h HandlerSet) Nav(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"links": nav.Links(session),
		"user": sessionResponse{
			UserID:            session.UserID,
			Username:          session.Username,
			Status:            string(session.Status),
			Department:        session.Department,
			DepartmentDisplay: session.DepartmentDisplay,
		},
	})
}

// Dashboard is the generic landing view; it points the client at the
// department dashboard the session actually belongs to.
func (h HandlerSet) Dashboard(c *gin.Context) {
	session, _ := middleware.CurrentSession(c)
	c.JSON(http.StatusOK, gin.H{
		"department": session.Department,
		"home":       authz.DashboardPath(session),
	})
}

func (h HandlerSet) DepartmentPanel(c *gin.Context) {
	session, _ := middleware.CurrentSession(c)
	c.JSON(http.StatusOK, gin.H{
		"department":        session.Department,
		"departmentDisplay": session.DepartmentDisplay,
		"admin":             false,
	})
}

func (h HandlerSet) AdminPanel(c *gin.Context) {
	session, _ := middleware.CurrentSession(c)
	c.JSON(http.StatusOK, gin.H{
		"department":        session.Department,
		"departmentDisplay": session.DepartmentDisplay,
		"admin":             true,
	})
}
