package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusConfirmed, BookingStatusPending, BookingStatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether a booking in status s may move to next.
// Cancelled is terminal; re-asserting the current status is allowed.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case BookingStatusPending:
		return next == BookingStatusConfirmed || next == BookingStatusCancelled
	case BookingStatusConfirmed:
		return next == BookingStatusCancelled
	default:
		return false
	}
}

type PaymentMethod string

const (
	PaymentMethodCard       PaymentMethod = "card"
	PaymentMethodUPI        PaymentMethod = "upi"
	PaymentMethodNetBanking PaymentMethod = "netbanking"
)

// PaymentMethods lists the selectable methods; the first is the default.
var PaymentMethods = []PaymentMethod{PaymentMethodCard, PaymentMethodUPI, PaymentMethodNetBanking}

// Valid reports whether m is a selectable payment method.
func (m PaymentMethod) Valid() bool {
	for _, v := range PaymentMethods {
		if v == m {
			return true
		}
	}
	return false
}

type Traveler struct {
	Name  string
	Email string
	Phone string
	Age   int
}

type EmergencyContact struct {
	Name     string
	Phone    string
	Relation string
}

// Booking is a reservation by one or more travelers against a package, optionally tied to a group.
type Booking struct {
	ID        BookingID
	PackageID PackageID
	GroupID   *GroupID

	Travelers        []Traveler
	DepartureDate    time.Time // date-only semantics at the edges
	SpecialRequests  string
	EmergencyContact EmergencyContact
	PaymentMethod    PaymentMethod

	TotalPrice  int
	BookingDate time.Time
	Status      BookingStatus

	// Reference is the confirmation code shown to the traveler.
	Reference string
}

// CloneBooking returns a deep copy of b.
func CloneBooking(b Booking) Booking {
	out := b
	if b.GroupID != nil {
		v := *b.GroupID
		out.GroupID = &v
	}
	if b.Travelers != nil {
		out.Travelers = append([]Traveler(nil), b.Travelers...)
	}
	return out
}
