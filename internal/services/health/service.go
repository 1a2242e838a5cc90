package health

import (
	"context"
	"time"

	"meddoc-backend/internal/regulations"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service encapsulates health-related checks.
type Service struct {
	DB       Pinger
	Provider string
	Model    string
}

// NewService constructs a new health service. db may be nil.
func NewService(db Pinger, provider, model string) *Service {
	return &Service{DB: db, Provider: provider, Model: model}
}

// Status returns the health payload and whether every check passed.
func (s *Service) Status(ctx context.Context) (map[string]any, bool) {
	ok := true
	database := "disabled"
	if s.DB != nil {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := s.DB.PingContext(pingCtx); err != nil {
			database = "unavailable"
			ok = false
		} else {
			database = "ok"
		}
	}
	return map[string]any{
		"ok":          ok,
		"provider":    s.Provider,
		"model":       s.Model,
		"database":    database,
		"regulations": len(regulations.Keys()),
	}, ok
}
