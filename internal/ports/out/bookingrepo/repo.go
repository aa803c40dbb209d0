package bookingrepo

import (
	"context"

	"github.com/ridgeline-travel/tripbook-api/internal/domain"
)

// Repository provides access to stored bookings. List returns bookings in insertion order.
type Repository interface {
	List(ctx context.Context) ([]domain.Booking, error)
	GetByID(ctx context.Context, id domain.BookingID) (domain.Booking, error)
	Create(ctx context.Context, b domain.Booking) (domain.Booking, error)
	// Update applies fn to the stored booking atomically. Nothing is stored when fn fails.
	Update(ctx context.Context, id domain.BookingID, fn func(*domain.Booking) error) (domain.Booking, error)
	// Delete removes the booking and returns it as it was at removal.
	Delete(ctx context.Context, id domain.BookingID) (domain.Booking, error)
}
