package search

import (
	"github.com/ridgeline-travel/tripbook-api/internal/app/apperr"
	"github.com/ridgeline-travel/tripbook-api/internal/domain"
)

type Availability string

const (
	AvailabilityAll        Availability = All
	AvailabilityOpen       Availability = "available"   // at least one spot
	AvailabilityAlmostFull Availability = "almost-full" // one or two spots
	AvailabilityFull       Availability = "full"        // no spots
)

func (a Availability) matches(g domain.Group) bool {
	spots := g.SpotsLeft()
	switch a {
	case AvailabilityOpen:
		return spots > 0
	case AvailabilityAlmostFull:
		return spots > 0 && spots <= 2
	case AvailabilityFull:
		return spots == 0
	default:
		return true
	}
}

type GroupQuery struct {
	Text         string
	PackageID    *domain.PackageID
	Availability Availability
}

func (q GroupQuery) Validate() error {
	switch q.Availability {
	case "", AvailabilityAll, AvailabilityOpen, AvailabilityAlmostFull, AvailabilityFull:
		return nil
	default:
		return apperr.Invalid("availability", "must be one of all, available, almost-full, full")
	}
}

// Groups filters by text over destination and leader name, then by package and availability.
// Input order is preserved.
func Groups(in []domain.Group, q GroupQuery) ([]domain.Group, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	text := normalizeText(q.Text)
	out := make([]domain.Group, 0, len(in))
	for _, g := range in {
		if text != "" && !matchesText(text, g.Destination, g.Leader.Name) {
			continue
		}
		if q.PackageID != nil && g.PackageID != *q.PackageID {
			continue
		}
		if !q.Availability.matches(g) {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}
