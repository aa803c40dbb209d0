package packages

import (
	"github.com/ridgeline-travel/tripbook-api/internal/app/patch"
	"github.com/ridgeline-travel/tripbook-api/internal/domain"
)

type CreatePackageInput struct {
	Title        string
	Destination  string
	Duration     domain.Duration
	Price        int
	Images       []string
	Inclusions   []string
	Exclusions   []string
	Highlights   []string
	Itinerary    []domain.ItineraryDay
	Category     string
	TravelStyle  string
	Rating       float64
	MaxGroupSize int
}

// UpdatePackageInput replaces the specified fields. Scalar fields cannot be null;
// null on a list field clears it. GroupsAvailable is derived from groups and not patchable.
type UpdatePackageInput struct {
	Title        patch.Optional[string]
	Destination  patch.Optional[string]
	Duration     patch.Optional[domain.Duration]
	Price        patch.Optional[int]
	Images       patch.Optional[[]string]
	Inclusions   patch.Optional[[]string]
	Exclusions   patch.Optional[[]string]
	Highlights   patch.Optional[[]string]
	Itinerary    patch.Optional[[]domain.ItineraryDay]
	Category     patch.Optional[string]
	TravelStyle  patch.Optional[string]
	Rating       patch.Optional[float64]
	MaxGroupSize patch.Optional[int]
}

// Details is a package together with the groups formed for it.
type Details struct {
	Package domain.Package
	Groups  []domain.Group
}
