package idempotency

import (
	"context"
	"sync"
	"time"

	"github.com/ridgeline-travel/tripbook-api/internal/ports/out/clock"
	"github.com/ridgeline-travel/tripbook-api/internal/ports/out/idempotency"
)

// Store is an in-memory implementation of idempotency.Store.
// Records older than the retention window are treated as absent and dropped on access.
// It is safe for concurrent use.
type Store struct {
	mu sync.Mutex
	m  map[idempotency.Fingerprint]idempotency.Record

	clk       clock.Clock
	retention time.Duration
}

// NewStore returns a store keeping records for retention; zero keeps them forever.
func NewStore(clk clock.Clock, retention time.Duration) *Store {
	return &Store{
		m:         make(map[idempotency.Fingerprint]idempotency.Record),
		clk:       clk,
		retention: retention,
	}
}

func (s *Store) Get(ctx context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.m[fp]
	if !ok {
		return idempotency.Record{}, false, nil
	}
	if s.expired(rec) {
		delete(s.m, fp)
		return idempotency.Record{}, false, nil
	}
	rec.Body = append([]byte(nil), rec.Body...)
	return rec, true, nil
}

func (s *Store) Put(ctx context.Context, fp idempotency.Fingerprint, rec idempotency.Record) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.Body = append([]byte(nil), rec.Body...)
	s.m[fp] = rec
	return nil
}

func (s *Store) expired(rec idempotency.Record) bool {
	if s.retention <= 0 || s.clk == nil {
		return false
	}
	return s.clk.Now().Sub(rec.CreatedAt) > s.retention
}
