// Package mockapi is the development stand-in for the administrative REST
// backend. It serves the same wire contract the portal's client speaks:
// token login/logout/register plus the request and inventory endpoints.
package mockapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"sistemaweb/portal/internal/service"
)

type HandlerSet struct {
	log      zerolog.Logger
	auth     *service.AuthService
	fixtures *Fixtures
}

func NewHandlerSet(log zerolog.Logger, auth *service.AuthService, fixtures *Fixtures) HandlerSet {
	return HandlerSet{log: log, auth: auth, fixtures: fixtures}
}

func (h HandlerSet) Register(engine *gin.Engine) {
	engine.Use(CSRF())

	api := engine.Group("/api")
	api.GET("/health/", h.Health)
	api.POST("/login/", h.Login)

	authed := api.Group("")
	authed.Use(TokenAuth(h.auth))
	authed.POST("/logout/", h.Logout)

	admin := authed.Group("")
	admin.Use(RequireAdmin())
	admin.POST("/register/", h.RegisterUser)
	admin.GET("/inventario/", h.Inventory)
	admin.GET("/solicitudes/pendientes/", h.PendingRequests)
	admin.GET("/solicitudes/:id/", h.RequestDetail)
	admin.POST("/solicitudes/:id/aprobar/", h.ApproveAll)
	admin.POST("/solicitudes/:id/items/:itemId/aprobar/", h.ApproveItem)
}

func (h HandlerSet) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type loginRequest struct {
	Cedula   string `json:"cedula" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Credenciales inválidas."})
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Cedula, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Credenciales inválidas."})
			return
		}
		h.log.Error().Err(err).Msg("login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error en el servidor."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":            result.UserID,
		"username":           result.Username,
		"token":              result.Token,
		"status":             result.Status,
		"department":         result.Department,
		"department_display": result.DepartmentDisplay,
	})
}

func (h HandlerSet) Logout(c *gin.Context) {
	token := c.GetHeader("Authorization")
	if len(token) > len("Token ") {
		if err := h.auth.Logout(c.Request.Context(), token[len("Token "):]); err != nil {
			h.log.Warn().Err(err).Msg("token revoke failed")
		}
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Sesión cerrada."})
}

type registerRequest struct {
	Cedula          string `json:"cedula" binding:"required"`
	Username        string `json:"username"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name" binding:"required"`
	LastName        string `json:"last_name" binding:"required"`
	Phone           string `json:"phone"`
	Department      string `json:"department" binding:"required"`
	Status          string `json:"status"`
}

func (h HandlerSet) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Datos de registro inválidos."})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Cedula:          req.Cedula,
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		Department:      req.Department,
	})
	if err != nil {
		c.JSON(registerStatus(err), gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user_id":    user.ID,
		"username":   user.Username,
		"status":     user.Status,
		"department": user.Department,
	})
}

func registerStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrCedulaExists),
		errors.Is(err, service.ErrEmailExists),
		errors.Is(err, service.ErrUsernameExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrBadDepartment),
		errors.Is(err, service.ErrPasswordsDiffer),
		errors.Is(err, service.ErrBadCedula),
		errors.Is(err, service.ErrBadEmail):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h HandlerSet) Inventory(c *gin.Context) {
	c.JSON(http.StatusOK, h.fixtures.Inventory())
}

func (h HandlerSet) PendingRequests(c *gin.Context) {
	c.JSON(http.StatusOK, h.fixtures.Pending())
}

func (h HandlerSet) RequestDetail(c *gin.Context) {
	request, ok := h.fixtures.Request(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Solicitud no encontrada."})
		return
	}
	c.JSON(http.StatusOK, request)
}

type approveItemRequest struct {
	Quantity int `json:"cantidad"`
}

func (h HandlerSet) ApproveItem(c *gin.Context) {
	var req approveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Cantidad inválida."})
		return
	}
	if !h.fixtures.ApproveItem(c.Param("id"), c.Param("itemId"), req.Quantity) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Item no encontrado."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Item aprobado."})
}

type approveAllRequest struct {
	Items map[string]int `json:"items" binding:"required"`
}

func (h HandlerSet) ApproveAll(c *gin.Context) {
	var req approveAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Items inválidos."})
		return
	}
	if !h.fixtures.ApproveAll(c.Param("id"), req.Items) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Solicitud no encontrada."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Solicitud aprobada."})
}
