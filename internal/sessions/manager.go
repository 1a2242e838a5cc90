// Package sessions tracks browser sessions and drops their data on reset or
// after a period of inactivity.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"meddoc-backend/internal/shared/telemetry"
	"meddoc-backend/internal/shared/util"
)

const defaultTTL = 60 * time.Minute

// Purger removes everything a component holds for one session.
type Purger interface {
	PurgeSession(ctx context.Context, sessionID string) error
}

// Pruner is an optional Purger extension for data that must not outlive
// the session ttl even when its session is no longer tracked.
type Pruner interface {
	PruneBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// Manager records the last activity per session.
type Manager struct {
	mu       sync.Mutex
	lastSeen map[string]time.Time
	ttl      time.Duration
	now      func() time.Time
	purgers  []Purger
}

// NewManager constructs a Manager. A non-positive ttl uses the default.
func NewManager(ttl time.Duration, now func() time.Time, purgers ...Purger) *Manager {
	if now == nil {
		now = time.Now
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Manager{
		lastSeen: make(map[string]time.Time),
		ttl:      ttl,
		now:      now,
		purgers:  purgers,
	}
}

// Touch marks a session as active.
func (m *Manager) Touch(sessionID string) {
	if m == nil || sessionID == "" {
		return
	}
	now := m.now()
	m.mu.Lock()
	m.lastSeen[sessionID] = now
	m.mu.Unlock()
}

// Active reports how many sessions are tracked.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lastSeen)
}

// Reset drops a session's data from every purger. All purgers run even when
// one fails.
func (m *Manager) Reset(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session id is required")
	}
	m.mu.Lock()
	delete(m.lastSeen, sessionID)
	m.mu.Unlock()
	return m.purge(ctx, sessionID)
}

// SweepExpired resets every session idle for longer than the ttl and
// returns how many were dropped.
func (m *Manager) SweepExpired(ctx context.Context) int {
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	var expired []string
	for id, seen := range m.lastSeen {
		if seen.Before(cutoff) {
			expired = append(expired, id)
			delete(m.lastSeen, id)
		}
	}
	m.mu.Unlock()

	for _, id := range expired {
		if err := m.purge(ctx, id); err != nil {
			telemetry.Error("session.purge_failed", map[string]any{
				"session": util.SessionTag(id),
				"error":   err.Error(),
			})
			continue
		}
		telemetry.Info("session.expired", map[string]any{
			"session": util.SessionTag(id),
		})
	}
	m.prune(ctx, cutoff)
	return len(expired)
}

// Run sweeps on every tick until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = m.ttl / 4
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.SweepExpired(ctx)
		}
	}
}

func (m *Manager) prune(ctx context.Context, cutoff time.Time) {
	for _, p := range m.purgers {
		pr, ok := p.(Pruner)
		if !ok {
			continue
		}
		n, err := pr.PruneBefore(ctx, cutoff)
		if err != nil {
			telemetry.Error("session.prune_failed", map[string]any{"error": err.Error()})
			continue
		}
		if n > 0 {
			telemetry.Info("session.pruned", map[string]any{"count": n})
		}
	}
}

func (m *Manager) purge(ctx context.Context, sessionID string) error {
	var errs []error
	for _, p := range m.purgers {
		if err := p.PurgeSession(ctx, sessionID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
