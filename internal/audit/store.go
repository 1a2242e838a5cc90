package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"meddoc-backend/internal/shared/util"
)

// ErrInvalidRecord indicates a record missing required fields.
var ErrInvalidRecord = errors.New("invalid audit record")

const defaultListLimit = 50

// Store persists validation run records. Records are session scoped and
// are removed with the session.
type Store interface {
	Insert(ctx context.Context, rec Record) error
	ListBySession(ctx context.Context, sessionHash string, limit int) ([]Record, error)
	DeleteBySession(ctx context.Context, sessionHash string) (int, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// Recorder fills in identifiers and timestamps before writing to a Store.
type Recorder struct {
	Store Store
	now   func() time.Time
}

// NewRecorder constructs a Recorder over store.
func NewRecorder(store Store) *Recorder {
	return &Recorder{Store: store, now: time.Now}
}

// Record writes rec for sessionID. The raw session ID is never stored.
func (r *Recorder) Record(ctx context.Context, sessionID string, rec Record) (Record, error) {
	if sessionID == "" || rec.Regulation == "" || rec.Status == "" {
		return Record{}, ErrInvalidRecord
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.now().UTC()
	}
	rec.SessionHash = SessionHash(sessionID)
	if err := r.Store.Insert(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Recent returns the newest records for sessionID.
func (r *Recorder) Recent(ctx context.Context, sessionID string, limit int) ([]Record, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	return r.Store.ListBySession(ctx, SessionHash(sessionID), limit)
}

// PurgeSession removes every record of sessionID.
func (r *Recorder) PurgeSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrInvalidRecord
	}
	if _, err := r.Store.DeleteBySession(ctx, SessionHash(sessionID)); err != nil {
		return fmt.Errorf("delete session audit records: %w", err)
	}
	return nil
}

// PruneBefore removes records created before cutoff, whichever session
// they belong to. It covers sessions the process no longer tracks, for
// example after a restart.
func (r *Recorder) PruneBefore(ctx context.Context, cutoff time.Time) (int, error) {
	return r.Store.DeleteBefore(ctx, cutoff)
}

// SessionHash is the stored form of a session ID.
func SessionHash(sessionID string) string {
	return util.HashSessionKey(sessionID)
}
