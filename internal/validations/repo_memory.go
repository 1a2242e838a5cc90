package validations

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]map[string]Validation // sessionId -> validationId -> validation
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]map[string]Validation)}
}

// Create stores a validation under its session.
func (r *MemoryRepo) Create(ctx context.Context, v Validation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	bySession, ok := r.data[v.SessionID]
	if !ok {
		bySession = make(map[string]Validation)
		r.data[v.SessionID] = bySession
	}
	bySession[v.ID] = v
	return nil
}

// Get returns a validation by ID within a session.
func (r *MemoryRepo) Get(ctx context.Context, sessionID, validationID string) (Validation, error) {
	if err := ctx.Err(); err != nil {
		return Validation{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.data[sessionID][validationID]
	if !ok {
		return Validation{}, ErrNotFound
	}
	return v, nil
}

// ListBySession returns a session's validations, newest first.
func (r *MemoryRepo) ListBySession(ctx context.Context, sessionID string) ([]Validation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Validation, 0, len(r.data[sessionID]))
	for _, v := range r.data[sessionID] {
		out = append(out, v)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// DeleteSession drops every validation in a session and reports how many.
func (r *MemoryRepo) DeleteSession(ctx context.Context, sessionID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.data[sessionID])
	delete(r.data, sessionID)
	return n, nil
}
