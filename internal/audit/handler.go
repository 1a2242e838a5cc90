package audit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"meddoc-backend/internal/shared/server/middleware"
	"meddoc-backend/internal/shared/server/respond"
)

// Handler exposes the current session's validation history.
type Handler struct {
	Recorder *Recorder
}

// NewHandler constructs a Handler.
func NewHandler(r *Recorder) *Handler {
	return &Handler{Recorder: r}
}

// RegisterRoutes attaches audit routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/audit", h.list)
}

func (h *Handler) list(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	limit := defaultListLimit
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	records, err := h.Recorder.Recent(c.Request.Context(), sessionID, limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list validation runs", nil)
		return
	}
	if records == nil {
		records = []Record{}
	}
	respond.OK(c, gin.H{"runs": records})
}
