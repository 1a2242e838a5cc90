package sessions

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"meddoc-backend/internal/shared/server/middleware"
	"meddoc-backend/internal/shared/server/respond"
)

// Handler exposes session reset.
type Handler struct {
	Manager *Manager
}

// NewHandler constructs a Handler.
func NewHandler(m *Manager) *Handler {
	return &Handler{Manager: m}
}

// RegisterRoutes attaches session routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.DELETE("/session", h.reset)
}

func (h *Handler) reset(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	if err := h.Manager.Reset(c.Request.Context(), sessionID); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to reset session", nil)
		return
	}
	respond.OK(c, gin.H{"reset": true})
}
