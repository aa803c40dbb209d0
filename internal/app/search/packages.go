package search

import (
	"cmp"
	"slices"

	"github.com/ridgeline-travel/tripbook-api/internal/app/apperr"
	"github.com/ridgeline-travel/tripbook-api/internal/domain"
)

type PackageSort string

const (
	SortPopular       PackageSort = "popular"
	SortPriceLow      PackageSort = "price-low"
	SortPriceHigh     PackageSort = "price-high"
	SortDurationShort PackageSort = "duration-short"
	SortDurationLong  PackageSort = "duration-long"
)

// ParsePackageSort maps a client-supplied key to a sort, falling back to SortPopular.
func ParsePackageSort(s string) PackageSort {
	switch PackageSort(s) {
	case SortPriceLow, SortPriceHigh, SortDurationShort, SortDurationLong:
		return PackageSort(s)
	default:
		return SortPopular
	}
}

type GroupSize string

const (
	GroupSizeAll    GroupSize = All
	GroupSizeSmall  GroupSize = "small"  // up to 6
	GroupSizeMedium GroupSize = "medium" // 7 to 12
	GroupSizeLarge  GroupSize = "large"  // more than 12
)

func (s GroupSize) valid() bool {
	switch s {
	case "", GroupSizeAll, GroupSizeSmall, GroupSizeMedium, GroupSizeLarge:
		return true
	default:
		return false
	}
}

// matches applies the bucket to a package. Every bucket except All requires at least one open group.
func (s GroupSize) matches(p domain.Package) bool {
	switch s {
	case GroupSizeSmall:
		return p.GroupsAvailable > 0 && p.MaxGroupSize <= 6
	case GroupSizeMedium:
		return p.GroupsAvailable > 0 && p.MaxGroupSize >= 7 && p.MaxGroupSize <= 12
	case GroupSizeLarge:
		return p.GroupsAvailable > 0 && p.MaxGroupSize > 12
	default:
		return true
	}
}

// PackageFilters narrows a package list. A nil range does not filter.
// Category and DestinationType both match the package category and must both hold:
// the first comes from the browse link, the second from the sidebar.
type PackageFilters struct {
	Duration        *Range // trip length in days
	Budget          *Range // price
	Category        string
	DestinationType string
	TravelStyle     string
	GroupSize       GroupSize
}

// DefaultPackageFilters returns the browse defaults: 3 to 15 days, 5000 to 50000, everything else open.
func DefaultPackageFilters() PackageFilters {
	return PackageFilters{
		Duration:        &Range{Min: 3, Max: 15},
		Budget:          &Range{Min: 5000, Max: 50000},
		Category:        All,
		DestinationType: All,
		TravelStyle:     All,
		GroupSize:       GroupSizeAll,
	}
}

type PackageQuery struct {
	Text    string
	Filters PackageFilters
	Sort    PackageSort
}

// Validate rejects malformed ranges and unknown group size buckets.
func (q PackageQuery) Validate() error {
	if q.Filters.Duration != nil {
		if err := q.Filters.Duration.validate("duration"); err != nil {
			return err
		}
	}
	if q.Filters.Budget != nil {
		if err := q.Filters.Budget.validate("budget"); err != nil {
			return err
		}
	}
	if !q.Filters.GroupSize.valid() {
		return apperr.Invalid("groupSize", "must be one of all, small, medium, large")
	}
	return nil
}

// Packages runs the text filter, the categorical filters, the range filters and then the sort.
func Packages(in []domain.Package, q PackageQuery) ([]domain.Package, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	text := normalizeText(q.Text)
	f := q.Filters
	out := make([]domain.Package, 0, len(in))
	for _, p := range in {
		if text != "" && !matchesText(text, p.Title, p.Destination) {
			continue
		}
		if !matchesCategory(f.Category, p.Category) || !matchesCategory(f.DestinationType, p.Category) {
			continue
		}
		if !matchesCategory(f.TravelStyle, p.TravelStyle) {
			continue
		}
		if !f.GroupSize.matches(p) {
			continue
		}
		if f.Duration != nil && !f.Duration.Contains(p.Duration.Days) {
			continue
		}
		if f.Budget != nil && !f.Budget.Contains(p.Price) {
			continue
		}
		out = append(out, p)
	}

	slices.SortStableFunc(out, packageComparator(ParsePackageSort(string(q.Sort))))
	return out, nil
}

func packageComparator(s PackageSort) func(a, b domain.Package) int {
	switch s {
	case SortPriceLow:
		return func(a, b domain.Package) int { return cmp.Compare(a.Price, b.Price) }
	case SortPriceHigh:
		return func(a, b domain.Package) int { return cmp.Compare(b.Price, a.Price) }
	case SortDurationShort:
		return func(a, b domain.Package) int { return cmp.Compare(a.Duration.Days, b.Duration.Days) }
	case SortDurationLong:
		return func(a, b domain.Package) int { return cmp.Compare(b.Duration.Days, a.Duration.Days) }
	default:
		return func(a, b domain.Package) int { return cmp.Compare(b.GroupsAvailable, a.GroupsAvailable) }
	}
}
