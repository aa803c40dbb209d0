package wizardstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memclock "github.com/ridgeline-travel/tripbook-api/internal/adapters/memory/clock"
	port "github.com/ridgeline-travel/tripbook-api/internal/ports/out/wizardstore"
)

type counter struct{ n int }

func TestStore_CreateUpdateDelete(t *testing.T) {
	t.Parallel()

	s := NewStore[*counter](Options{})
	id, err := s.Create(context.Background(), &counter{})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.NoError(t, s.Update(context.Background(), id, func(c *counter) error {
		c.n++
		return nil
	}))

	var seen int
	require.NoError(t, s.Update(context.Background(), id, func(c *counter) error {
		seen = c.n
		return nil
	}))
	assert.Equal(t, 1, seen)

	require.NoError(t, s.Delete(context.Background(), id))
	assert.ErrorIs(t, s.Update(context.Background(), id, func(*counter) error { return nil }), port.ErrNotFound)
	assert.ErrorIs(t, s.Delete(context.Background(), id), port.ErrNotFound)
}

func TestStore_UpdatePropagatesCallbackError(t *testing.T) {
	t.Parallel()

	s := NewStore[*counter](Options{})
	id, err := s.Create(context.Background(), &counter{})
	require.NoError(t, err)

	boom := errors.New("boom")
	assert.ErrorIs(t, s.Update(context.Background(), id, func(*counter) error { return boom }), boom)
}

func TestStore_UpdateSerializesPerSession(t *testing.T) {
	t.Parallel()

	s := NewStore[*counter](Options{})
	id, err := s.Create(context.Background(), &counter{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Update(context.Background(), id, func(c *counter) error {
				c.n++
				return nil
			})
		}()
	}
	wg.Wait()

	var total int
	require.NoError(t, s.Update(context.Background(), id, func(c *counter) error {
		total = c.n
		return nil
	}))
	assert.Equal(t, 50, total)
}

func TestStore_DropsIdleSessions(t *testing.T) {
	t.Parallel()

	clk := memclock.NewManualClock(time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC))
	var expired int
	s := NewStore[*counter](Options{Clock: clk, IdleTimeout: time.Hour, OnExpire: func(n int) { expired += n }})
	noop := func(*counter) error { return nil }

	active, err := s.Create(context.Background(), &counter{})
	require.NoError(t, err)
	abandoned, err := s.Create(context.Background(), &counter{})
	require.NoError(t, err)

	// Touching a session restarts its idle window.
	clk.Advance(45 * time.Minute)
	require.NoError(t, s.Update(context.Background(), active, noop))
	clk.Advance(30 * time.Minute)

	require.NoError(t, s.Update(context.Background(), active, noop))
	assert.ErrorIs(t, s.Update(context.Background(), abandoned, noop), port.ErrNotFound)
	assert.Equal(t, 1, expired)
	assert.Equal(t, 1, s.Len())

	// Create sweeps every idle session.
	clk.Advance(2 * time.Hour)
	_, err = s.Create(context.Background(), &counter{})
	require.NoError(t, err)
	assert.Equal(t, 2, expired)
	assert.Equal(t, 1, s.Len())
	assert.ErrorIs(t, s.Delete(context.Background(), active), port.ErrNotFound)
}

func TestStore_ZeroIdleTimeoutKeepsSessions(t *testing.T) {
	t.Parallel()

	clk := memclock.NewManualClock(time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC))
	s := NewStore[*counter](Options{Clock: clk})
	id, err := s.Create(context.Background(), &counter{})
	require.NoError(t, err)

	clk.Advance(30 * 24 * time.Hour)
	assert.NoError(t, s.Update(context.Background(), id, func(*counter) error { return nil }))
}
