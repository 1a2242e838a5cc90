package audit

import (
	"context"
	"sync"
	"time"
)

const maxMemoryRecords = 1000

// MemoryStore keeps the most recent records in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryStore constructs a MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Insert(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	if over := len(s.records) - maxMemoryRecords; over > 0 {
		s.records = append([]Record(nil), s.records[over:]...)
	}
	return nil
}

func (s *MemoryStore) ListBySession(ctx context.Context, sessionHash string, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Record
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		if s.records[i].SessionHash == sessionHash {
			out = append(out, s.records[i])
		}
	}
	return out, nil
}

func (s *MemoryStore) DeleteBySession(ctx context.Context, sessionHash string) (int, error) {
	return s.deleteWhere(ctx, func(rec Record) bool { return rec.SessionHash == sessionHash })
}

func (s *MemoryStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int, error) {
	return s.deleteWhere(ctx, func(rec Record) bool { return rec.CreatedAt.Before(cutoff) })
}

func (s *MemoryStore) deleteWhere(ctx context.Context, drop func(Record) bool) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.records[:0]
	for _, rec := range s.records {
		if !drop(rec) {
			kept = append(kept, rec)
		}
	}
	n := len(s.records) - len(kept)
	clear(s.records[len(kept):])
	s.records = kept
	return n, nil
}
