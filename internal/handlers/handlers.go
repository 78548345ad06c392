package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"sistemaweb/portal/internal/backend"
	"sistemaweb/portal/internal/config"
	"sistemaweb/portal/internal/middleware"
	"sistemaweb/portal/internal/models"
	"sistemaweb/portal/internal/session"
	"sistemaweb/portal/internal/workflow"
)

type HandlerSet struct {
	log      zerolog.Logger
	cfg      *config.AppConfig
	sessions *session.Manager
	api      backend.Client
	reviews  *workflow.Manager
}

func NewHandlerSet(log zerolog.Logger, cfg *config.AppConfig, sessions *session.Manager, api backend.Client) HandlerSet {
	return HandlerSet{
		log:      log,
		cfg:      cfg,
		sessions: sessions,
		api:      api,
		reviews:  workflow.NewManager(),
	}
}

func (h HandlerSet) Register(engine *gin.Engine) {
	engine.GET("/healthz", h.Health)

	portal := engine.Group("/api/portal")
	portal.POST("/login", h.Login)
	portal.POST("/logout", h.Logout)

	authed := portal.Group("")
	authed.Use(h.guard(middleware.GuardConfig{}))
	authed.GET("/nav", h.Nav)

	dashboard := engine.Group("/dashboard")
	dashboard.Use(h.guard(middleware.GuardConfig{}))
	dashboard.GET("", h.Dashboard)

	for _, department := range []string{
		models.DepartmentOAC,
		models.DepartmentFarmacia,
		models.DepartmentMedical,
	} {
		dept := dashboard.Group("/" + department)
		dept.Use(h.guard(middleware.GuardConfig{RequireDepartment: department}))
		dept.GET("", h.DepartmentPanel)

		admin := dept.Group("/admin")
		admin.Use(h.guard(middleware.GuardConfig{RequireAdmin: true}))
		admin.GET("", h.AdminPanel)
		admin.POST("/usuarios/registrar", h.RegisterUser)
	}

	// Inventory and request approval are OAC-admin screens.
	oacAdmin := dashboard.Group("/oac/admin")
	oacAdmin.Use(
		h.guard(middleware.GuardConfig{RequireDepartment: models.DepartmentOAC}),
		h.guard(middleware.GuardConfig{RequireAdmin: true}),
	)
	oacAdmin.GET("/inventario", h.Inventory)
	oacAdmin.GET("/solicitudes/pendientes", h.PendingRequests)

	review := oacAdmin.Group("/solicitudes/pendientes/:id")
	review.GET("", h.RequestDetail)
	review.GET("/confirmacion", h.ConfirmAll)
	review.POST("/aprobar", h.ApproveAll)
	review.PUT("/items/:itemId", h.SetQuantity)
	review.GET("/items/:itemId/confirmacion", h.ConfirmItem)
	review.POST("/items/:itemId/aprobar", h.ApproveItem)
}

func (h HandlerSet) guard(cfg middleware.GuardConfig) gin.HandlerFunc {
	return middleware.Guard(h.sessions, h.cfg, cfg)
}
