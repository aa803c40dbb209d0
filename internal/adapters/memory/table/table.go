// Package table is the ordered, copy-on-access collection backing the in-memory repositories.
package table

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrEmpty is returned by Insert when RejectCreateOnEmpty is set and the table has no rows.
var ErrEmpty = errors.New("table is empty")

// Options tunes a table's behavior.
type Options struct {
	// Latency is waited before every operation to simulate a remote call. Zero disables it.
	Latency time.Duration
	// RejectCreateOnEmpty makes Insert fail with ErrEmpty when no rows exist,
	// instead of starting identifiers at 1.
	RejectCreateOnEmpty bool
}

// Table is an insertion-ordered collection of T keyed by ID.
// Every value going in or out passes through clone, so callers never alias stored rows.
// It is safe for concurrent use.
type Table[ID ~int, T any] struct {
	mu    sync.RWMutex
	order []ID
	rows  map[ID]T
	last  ID

	clone func(T) T
	opts  Options
}

func New[ID ~int, T any](clone func(T) T, opts Options) *Table[ID, T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &Table[ID, T]{
		rows:  make(map[ID]T),
		clone: clone,
		opts:  opts,
	}
}

// Seed stores v under an explicit id. The identifier counter advances to at least id.
func (t *Table[ID, T]) Seed(id ID, v T) error {
	if id <= 0 {
		return fmt.Errorf("seed id must be positive, got %d", id)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; ok {
		return fmt.Errorf("duplicate seed id %d", id)
	}
	t.rows[id] = t.clone(v)
	t.order = append(t.order, id)
	if id > t.last {
		t.last = id
	}
	return nil
}

// Insert assigns the next identifier, builds the row with it and stores it.
func (t *Table[ID, T]) Insert(ctx context.Context, build func(id ID) T) (T, error) {
	var zero T
	if err := t.wait(ctx); err != nil {
		return zero, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.opts.RejectCreateOnEmpty && len(t.rows) == 0 {
		return zero, ErrEmpty
	}
	id := t.last + 1
	v := t.clone(build(id))
	t.rows[id] = v
	t.order = append(t.order, id)
	t.last = id
	return t.clone(v), nil
}

// Get returns a copy of the row for id.
func (t *Table[ID, T]) Get(ctx context.Context, id ID) (T, bool, error) {
	var zero T
	if err := t.wait(ctx); err != nil {
		return zero, false, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.rows[id]
	if !ok {
		return zero, false, nil
	}
	return t.clone(v), true, nil
}

// List returns copies of the rows accepted by keep (all rows when keep is nil), in insertion order.
func (t *Table[ID, T]) List(ctx context.Context, keep func(T) bool) ([]T, error) {
	if err := t.wait(ctx); err != nil {
		return nil, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		v := t.rows[id]
		if keep != nil && !keep(v) {
			continue
		}
		out = append(out, t.clone(v))
	}
	return out, nil
}

// Mutate applies fn to a working copy of the row while holding the write lock.
// The copy is stored only when fn returns nil.
func (t *Table[ID, T]) Mutate(ctx context.Context, id ID, fn func(*T) error) (T, bool, error) {
	var zero T
	if err := t.wait(ctx); err != nil {
		return zero, false, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	cur, ok := t.rows[id]
	if !ok {
		return zero, false, nil
	}
	work := t.clone(cur)
	if err := fn(&work); err != nil {
		return zero, true, err
	}
	t.rows[id] = t.clone(work)
	return work, true, nil
}

// Remove deletes the row for id and returns it. It reports false when id is absent.
func (t *Table[ID, T]) Remove(ctx context.Context, id ID) (T, bool, error) {
	var zero T
	if err := t.wait(ctx); err != nil {
		return zero, false, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.rows[id]
	if !ok {
		return zero, false, nil
	}
	delete(t.rows, id)
	for i, oid := range t.order {
		if oid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return v, true, nil
}

// Len returns the number of rows.
func (t *Table[ID, T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// wait blocks for the configured latency. A context that is already done, or
// finishes first, aborts the operation.
func (t *Table[ID, T]) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.opts.Latency <= 0 {
		return nil
	}
	timer := time.NewTimer(t.opts.Latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
