package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sistemaweb/portal/internal/middleware"
	"sistemaweb/portal/internal/workflow"
)

func (h HandlerSet) Inventory(c *gin.Context) {
	session, _ := middleware.CurrentSession(c)
	items, err := h.api.FetchInventory(c.Request.Context(), session.Token)
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h HandlerSet) PendingRequests(c *gin.Context) {
	session, _ := middleware.CurrentSession(c)
	requests, err := h.api.FetchPendingRequests(c.Request.Context(), session.Token)
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"solicitudes": requests})
}

// RequestDetail fetches the request and opens (or resumes) its review, with
// every approved quantity preset to the requested quantity.
func (h HandlerSet) RequestDetail(c *gin.Context) {
	session, _ := middleware.CurrentSession(c)
	sid := middleware.CurrentSessionID(c)

	request, err := h.api.FetchRequest(c.Request.Context(), session.Token, c.Param("id"))
	if err != nil {
		h.apiError(c, err)
		return
	}

	review := h.reviews.Open(sid, request)
	c.JSON(http.StatusOK, gin.H{
		"solicitud":  review.Request(),
		"aprobados":  review.Quantities(),
		"puedeTodos": review.CanApproveAll(),
	})
}

type quantityRequest struct {
	Quantity float64 `json:"cantidad"`
}

func (h HandlerSet) SetQuantity(c *gin.Context) {
	review, ok := h.openReview(c)
	if !ok {
		return
	}

	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Por favor ingrese un número válido"})
		return
	}

	stored, warning, err := review.SetQuantity(c.Param("itemId"), req.Quantity)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item no encontrado"})
		return
	}

	resp := gin.H{"cantidad": stored}
	if warning != "" {
		resp["warning"] = warning
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmItem returns the exact quantity text the user must confirm before a
// single-item commit.
func (h HandlerSet) ConfirmItem(c *gin.Context) {
	review, ok := h.openReview(c)
	if !ok {
		return
	}

	line, err := review.ConfirmationLine(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item no encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"confirmacion": line})
}

func (h HandlerSet) ApproveItem(c *gin.Context) {
	session, _ := middleware.CurrentSession(c)
	review, ok := h.openReview(c)
	if !ok {
		return
	}

	requestID := c.Param("id")
	err := review.ApproveItem(c.Request.Context(), c.Param("itemId"), func(ctx context.Context, itemID string, quantity int) error {
		return h.api.ApproveItem(ctx, session.Token, requestID, itemID, quantity)
	})
	switch {
	case errors.Is(err, workflow.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item no encontrado"})
	case errors.Is(err, workflow.ErrItemBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "El item ya se está aprobando"})
	case err != nil:
		h.apiError(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Item aprobado exitosamente"})
	}
}

// ConfirmAll returns the bulk confirmation dialog content: one line per item
// with the exact quantities about to be committed.
func (h HandlerSet) ConfirmAll(c *gin.Context) {
	review, ok := h.openReview(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"confirmacion": review.ConfirmationLines(),
		"habilitado":   review.CanApproveAll(),
	})
}

// ApproveAll commits every positive quantity. With nothing to approve the
// action is rejected with a warning and the backend is never called. On
// success the client goes back to the pending listing.
func (h HandlerSet) ApproveAll(c *gin.Context) {
	session, _ := middleware.CurrentSession(c)
	sid := middleware.CurrentSessionID(c)
	review, ok := h.openReview(c)
	if !ok {
		return
	}

	requestID := c.Param("id")
	err := review.ApproveAll(c.Request.Context(), func(ctx context.Context, quantities map[string]int) error {
		return h.api.ApproveAll(ctx, session.Token, requestID, quantities)
	})
	switch {
	case errors.Is(err, workflow.ErrNothingToApprove):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"warning": workflow.WarnNothing})
	case err != nil:
		h.apiError(c, err)
	default:
		h.reviews.Close(sid, requestID)
		c.JSON(http.StatusOK, gin.H{
			"message":    "Todos los items han sido aprobados exitosamente",
			"redirectTo": "/dashboard/oac/admin/solicitudes/pendientes",
		})
	}
}

// openReview resolves the live review for the request in the URL. The detail
// view must have been loaded first.
func (h HandlerSet) openReview(c *gin.Context) (*workflow.Review, bool) {
	sid := middleware.CurrentSessionID(c)
	review, ok := h.reviews.Get(sid, c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No se encontraron datos de la solicitud"})
		return nil, false
	}
	return review, true
}
