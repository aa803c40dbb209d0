package wizardstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ridgeline-travel/tripbook-api/internal/ports/out/clock"
	"github.com/ridgeline-travel/tripbook-api/internal/ports/out/wizardstore"
)

// Options tunes session expiry.
type Options struct {
	Clock clock.Clock
	// IdleTimeout drops a session that has not been touched for this long.
	// Zero, or a nil Clock, keeps sessions until they are deleted.
	IdleTimeout time.Duration
	// OnExpire, if set, is told how many idle sessions were just dropped.
	OnExpire func(n int)
}

type session[S any] struct {
	mu       sync.Mutex
	state    S
	lastUsed time.Time // guarded by Store.mu
}

// Store is an in-memory implementation of wizardstore.Store.
// Each session carries its own lock so unrelated sessions never contend.
// Idle sessions are dropped lazily: the one being accessed on Update or Delete, all of them on Create.
type Store[S any] struct {
	mu       sync.Mutex
	sessions map[wizardstore.SessionID]*session[S]

	opts  Options
	newID func() wizardstore.SessionID
}

func NewStore[S any](opts Options) *Store[S] {
	return &Store[S]{
		sessions: make(map[wizardstore.SessionID]*session[S]),
		opts:     opts,
		newID: func() wizardstore.SessionID {
			return wizardstore.SessionID(uuid.NewString())
		},
	}
}

func (s *Store[S]) Create(ctx context.Context, state S) (wizardstore.SessionID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := s.newID()
	now := s.now()

	s.mu.Lock()
	dropped := 0
	for sid, sess := range s.sessions {
		if s.idle(sess, now) {
			delete(s.sessions, sid)
			dropped++
		}
	}
	s.sessions[id] = &session[S]{state: state, lastUsed: now}
	s.mu.Unlock()

	s.expired(dropped)
	return id, nil
}

func (s *Store[S]) Update(ctx context.Context, id wizardstore.SessionID, fn func(S) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sess, err := s.touch(id)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess.state)
}

func (s *Store[S]) Delete(ctx context.Context, id wizardstore.SessionID) error {
	_ = ctx
	if _, err := s.touch(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return wizardstore.ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Len returns the number of sessions held, idle ones not yet dropped included.
func (s *Store[S]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// touch looks up id and marks it used. An idle session is dropped and reported as not found.
func (s *Store[S]) touch(id wizardstore.SessionID) (*session[S], error) {
	now := s.now()
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, wizardstore.ErrNotFound
	}
	if s.idle(sess, now) {
		delete(s.sessions, id)
		s.mu.Unlock()
		s.expired(1)
		return nil, wizardstore.ErrNotFound
	}
	sess.lastUsed = now
	s.mu.Unlock()
	return sess, nil
}

func (s *Store[S]) idle(sess *session[S], now time.Time) bool {
	if s.opts.IdleTimeout <= 0 || s.opts.Clock == nil {
		return false
	}
	return now.Sub(sess.lastUsed) > s.opts.IdleTimeout
}

func (s *Store[S]) now() time.Time {
	if s.opts.Clock == nil {
		return time.Time{}
	}
	return s.opts.Clock.Now()
}

func (s *Store[S]) expired(n int) {
	if n > 0 && s.opts.OnExpire != nil {
		s.opts.OnExpire(n)
	}
}
