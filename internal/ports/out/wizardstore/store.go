package wizardstore

import (
	"context"
	"errors"
)

// ErrNotFound indicates no session exists for the ID (never created, or already discarded).
var ErrNotFound = errors.New("wizard session not found")

// SessionID identifies an in-progress booking wizard.
type SessionID string

// Store keeps in-progress wizard sessions between requests.
//
// Update runs fn while holding the session exclusively, so two requests against the
// same session never interleave their mutations.
type Store[S any] interface {
	Create(ctx context.Context, s S) (SessionID, error)
	Update(ctx context.Context, id SessionID, fn func(S) error) error
	Delete(ctx context.Context, id SessionID) error
}
