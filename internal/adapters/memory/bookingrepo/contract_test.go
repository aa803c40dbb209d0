package bookingrepo

import (
	"testing"

	"github.com/ridgeline-travel/tripbook-api/internal/adapters/contracttest"
	"github.com/ridgeline-travel/tripbook-api/internal/adapters/memory/table"
	bookingrepoport "github.com/ridgeline-travel/tripbook-api/internal/ports/out/bookingrepo"
)

func TestContract_BookingRepo(t *testing.T) {
	contracttest.RunBookingRepo(t, func(t *testing.T) (bookingrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(table.Options{}), nil
	})
}
