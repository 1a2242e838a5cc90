package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"meddoc-backend/internal/audit"
	"meddoc-backend/internal/documents"
	"meddoc-backend/internal/regulations"
	"meddoc-backend/internal/services/health"
	"meddoc-backend/internal/sessions"
	"meddoc-backend/internal/shared/config"
	"meddoc-backend/internal/shared/metrics"
	"meddoc-backend/internal/shared/server/middleware"
	"meddoc-backend/internal/shared/server/respond"
	"meddoc-backend/internal/validations"
)

// RouterDeps are the handlers mounted by NewRouter. Nil handlers are skipped.
type RouterDeps struct {
	Config            config.Config
	Health            *health.Service
	Sessions          *sessions.Manager
	DocumentHandler   *documents.Handler
	ValidationHandler *validations.Handler
	SessionHandler    *sessions.Handler
	AuditHandler      *audit.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if cfg.Env != "dev" && cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true})
			return
		}
		status, ok := deps.Health.Status(c.Request.Context())
		code := http.StatusOK
		if !ok {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})
	regulations.NewHandler().RegisterRoutes(api)

	var touch func(string)
	if deps.Sessions != nil {
		touch = deps.Sessions.Touch
	}
	scoped := api.Group("", middleware.Session(touch))
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(scoped)
	}
	if deps.ValidationHandler != nil {
		deps.ValidationHandler.RegisterRoutes(scoped)
	}
	if deps.SessionHandler != nil {
		deps.SessionHandler.RegisterRoutes(scoped)
	}
	if deps.AuditHandler != nil {
		deps.AuditHandler.RegisterRoutes(scoped)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
