package bookings

import (
	"time"

	"github.com/ridgeline-travel/tripbook-api/internal/app/patch"
	"github.com/ridgeline-travel/tripbook-api/internal/domain"
)

type CreateBookingInput struct {
	PackageID domain.PackageID
	GroupID   *domain.GroupID

	Travelers []domain.Traveler
	// DepartureDate may be left zero when GroupID is set; the group's date is used.
	DepartureDate    time.Time
	SpecialRequests  string
	EmergencyContact domain.EmergencyContact
	// PaymentMethod defaults to card.
	PaymentMethod domain.PaymentMethod
	// Status defaults to confirmed; only confirmed and pending are accepted.
	Status domain.BookingStatus
}

// UpdateBookingInput is limited to status transitions and special requests.
type UpdateBookingInput struct {
	Status          patch.Optional[domain.BookingStatus]
	SpecialRequests patch.Optional[string] // null clears
}
