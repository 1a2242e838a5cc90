package regulations

import (
	"github.com/gin-gonic/gin"

	"meddoc-backend/internal/shared/server/respond"
)

// Handler serves the read-only catalog.
type Handler struct{}

// NewHandler constructs a Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes attaches catalog routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/regulations", h.list)
	rg.GET("/regulations/severity-levels", h.severityLevels)
}

func (h *Handler) list(c *gin.Context) {
	respond.OK(c, gin.H{"regulations": All()})
}

func (h *Handler) severityLevels(c *gin.Context) {
	respond.OK(c, gin.H{"severityLevels": SeverityLevels()})
}
