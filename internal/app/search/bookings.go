package search

import (
	"cmp"
	"slices"
	"strings"

	"github.com/ridgeline-travel/tripbook-api/internal/app/apperr"
	"github.com/ridgeline-travel/tripbook-api/internal/domain"
)

type BookingSortKey string

const (
	SortByBookingDate   BookingSortKey = "bookingDate"
	SortByDepartureDate BookingSortKey = "departureDate"
	SortByTotalPrice    BookingSortKey = "totalPrice"
	SortByDestination   BookingSortKey = "destination"
)

type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// BookingQuery drives the trip history list. Zero values mean: any status, newest booking first.
type BookingQuery struct {
	Text   string
	Status string
	SortBy BookingSortKey
	Order  SortOrder
}

func (q BookingQuery) Validate() error {
	if !isAll(q.Status) && !domain.BookingStatus(q.Status).Valid() {
		return apperr.Invalid("status", "must be one of all, confirmed, pending, cancelled")
	}
	return nil
}

// Bookings filters by status and by text over the booked package's title and destination
// and the travelers' names. pkgs resolves package references; bookings whose package is
// missing only match on traveler names and sort with an empty destination.
func Bookings(in []domain.Booking, pkgs []domain.Package, q BookingQuery) ([]domain.Booking, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	byID := make(map[domain.PackageID]domain.Package, len(pkgs))
	for _, p := range pkgs {
		byID[p.ID] = p
	}

	text := normalizeText(q.Text)
	out := make([]domain.Booking, 0, len(in))
	for _, b := range in {
		if !isAll(q.Status) && !strings.EqualFold(string(b.Status), q.Status) {
			continue
		}
		if text != "" && !bookingMatchesText(text, b, byID) {
			continue
		}
		out = append(out, b)
	}

	compare := bookingComparator(q.SortBy, byID)
	if q.Order != Ascending {
		asc := compare
		compare = func(a, b domain.Booking) int { return asc(b, a) }
	}
	slices.SortStableFunc(out, compare)
	return out, nil
}

func bookingMatchesText(text string, b domain.Booking, pkgs map[domain.PackageID]domain.Package) bool {
	if p, ok := pkgs[b.PackageID]; ok && matchesText(text, p.Title, p.Destination) {
		return true
	}
	for _, t := range b.Travelers {
		if matchesText(text, t.Name) {
			return true
		}
	}
	return false
}

func bookingComparator(key BookingSortKey, pkgs map[domain.PackageID]domain.Package) func(a, b domain.Booking) int {
	switch key {
	case SortByDepartureDate:
		return func(a, b domain.Booking) int { return a.DepartureDate.Compare(b.DepartureDate) }
	case SortByTotalPrice:
		return func(a, b domain.Booking) int { return cmp.Compare(a.TotalPrice, b.TotalPrice) }
	case SortByDestination:
		return func(a, b domain.Booking) int {
			return cmp.Compare(pkgs[a.PackageID].Destination, pkgs[b.PackageID].Destination)
		}
	default:
		return func(a, b domain.Booking) int { return a.BookingDate.Compare(b.BookingDate) }
	}
}
