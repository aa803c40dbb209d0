package idempotency

import (
	"testing"

	"github.com/ridgeline-travel/tripbook-api/internal/adapters/contracttest"
	idempotencyport "github.com/ridgeline-travel/tripbook-api/internal/ports/out/idempotency"
)

func TestContract_IdempotencyStore(t *testing.T) {
	contracttest.RunIdempotencyStore(t, func(t *testing.T) (idempotencyport.Store, func()) {
		t.Helper()
		return NewStore(nil, 0), nil
	})
}
