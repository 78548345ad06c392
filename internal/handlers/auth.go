package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sistemaweb/portal/internal/authz"
	"sistemaweb/portal/internal/backend"
	"sistemaweb/portal/internal/middleware"
	"sistemaweb/portal/internal/security"
)

type loginRequest struct {
	Cedula   string `json:"cedula" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type sessionResponse struct {
	UserID            int64  `json:"userId"`
	Username          string `json:"username"`
	Status            string `json:"status"`
	Department        string `json:"department"`
	DepartmentDisplay string `json:"departmentDisplay"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La cédula es requerida y la contraseña debe tener al menos 6 caracteres."})
		return
	}
	if !numeric(req.Cedula) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La cédula debe contener solo números."})
		return
	}

	sid, session, err := h.sessions.Login(c.Request.Context(), req.Cedula, req.Password)
	if err != nil {
		c.JSON(statusForAuthError(err), gin.H{"error": backend.UserMessage(err)})
		return
	}

	if err := h.setSessionCookies(c, sid, session); err != nil {
		h.sessions.Invalidate(c.Request.Context(), sid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error inesperado. Intente nuevamente."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"redirectTo": authz.DashboardPath(session),
		"user": sessionResponse{
			UserID:            session.UserID,
			Username:          session.Username,
			Status:            string(session.Status),
			Department:        session.Department,
			DepartmentDisplay: session.DepartmentDisplay,
		},
	})
}

// Logout never fails to the caller: the server-side call is best effort and
// the local session plus cookies are cleared unconditionally. The cookies
// must be expired before the body is written or the headers never leave.
func (h HandlerSet) Logout(c *gin.Context) {
	if cookie, err := c.Cookie(h.cfg.Session.CookieName); err == nil {
		if sid, err := security.ParseSessionCookie(cookie, h.cfg.Session.CookieSecret); err == nil {
			h.sessions.Logout(c.Request.Context(), sid)
			h.reviews.CloseSession(sid)
		}
	}

	h.clearSessionCookies(c)
	c.JSON(http.StatusOK, gin.H{"redirectTo": "/"})
}

type registerRequest struct {
	Cedula          string `json:"cedula" binding:"required"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword"`
	FirstName       string `json:"nombre" binding:"required"`
	LastName        string `json:"apellido" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"telefono"`
	Username        string `json:"username"`
}

// RegisterUser creates a basic account in the admin's own department. The
// department comes from the session, never from the request body.
func (h HandlerSet) RegisterUser(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de registro incompletos o inválidos."})
		return
	}

	result, err := h.api.Register(c.Request.Context(), session.Token, backend.Registration{
		Cedula:          req.Cedula,
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		Department:      session.Department,
	})
	if err != nil {
		h.apiError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// apiError translates a backend failure for the UI. A rejected bearer token
// tears the session down and sends the user back to the login view.
func (h HandlerSet) apiError(c *gin.Context, err error) {
	if backend.IsUnauthorized(err) {
		sid := middleware.CurrentSessionID(c)
		h.sessions.Invalidate(c.Request.Context(), sid)
		h.reviews.CloseSession(sid)
		h.clearSessionCookies(c)
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":      backend.UserMessage(err),
			"redirectTo": "/",
		})
		return
	}

	c.JSON(statusForAuthError(err), gin.H{"error": backend.UserMessage(err)})
}

func statusForAuthError(err error) int {
	switch backend.ErrorKind(err) {
	case backend.KindInvalidCredentials:
		return http.StatusUnauthorized
	case backend.KindValidationError:
		return http.StatusBadRequest
	case backend.KindConflict:
		return http.StatusConflict
	case backend.KindTimeout:
		return http.StatusGatewayTimeout
	case backend.KindNetworkUnavailable, backend.KindCORSOrConfig, backend.KindInvalidServerResponse:
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}

func numeric(s string) bool {
	if s == "" {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) == -1
}
