package httpapi

import (
	"math"
	"net/url"
	"strconv"

	"github.com/ridgeline-travel/tripbook-api/internal/app/apperr"
	"github.com/ridgeline-travel/tripbook-api/internal/app/search"
	"github.com/ridgeline-travel/tripbook-api/internal/domain"
)

// queryRange reads an inclusive range from two optional parameters. It returns nil when both are absent;
// a missing bound is open-ended.
func queryRange(q url.Values, minKey, maxKey string) (*search.Range, error) {
	minRaw, maxRaw := q.Get(minKey), q.Get(maxKey)
	if minRaw == "" && maxRaw == "" {
		return nil, nil
	}
	r := &search.Range{Min: 0, Max: math.MaxInt}
	if minRaw != "" {
		v, err := strconv.Atoi(minRaw)
		if err != nil {
			return nil, apperr.Invalid(minKey, "must be an integer")
		}
		r.Min = v
	}
	if maxRaw != "" {
		v, err := strconv.Atoi(maxRaw)
		if err != nil {
			return nil, apperr.Invalid(maxKey, "must be an integer")
		}
		r.Max = v
	}
	return r, nil
}

func packageQuery(q url.Values) (search.PackageQuery, error) {
	duration, err := queryRange(q, "minDays", "maxDays")
	if err != nil {
		return search.PackageQuery{}, err
	}
	budget, err := queryRange(q, "minPrice", "maxPrice")
	if err != nil {
		return search.PackageQuery{}, err
	}
	return search.PackageQuery{
		Text: q.Get("q"),
		Filters: search.PackageFilters{
			Duration:        duration,
			Budget:          budget,
			Category:        q.Get("category"),
			DestinationType: q.Get("destinationType"),
			TravelStyle:     q.Get("travelStyle"),
			GroupSize:       search.GroupSize(q.Get("groupSize")),
		},
		Sort: search.ParsePackageSort(q.Get("sort")),
	}, nil
}

func groupQuery(q url.Values) (search.GroupQuery, error) {
	gq := search.GroupQuery{
		Text:         q.Get("q"),
		Availability: search.Availability(q.Get("availability")),
	}
	if raw := q.Get("packageId"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return search.GroupQuery{}, apperr.Invalid("packageId", "must be an integer")
		}
		id := domain.PackageID(v)
		gq.PackageID = &id
	}
	return gq, nil
}

func bookingQuery(q url.Values) search.BookingQuery {
	return search.BookingQuery{
		Text:   q.Get("q"),
		Status: q.Get("status"),
		SortBy: search.BookingSortKey(q.Get("sortBy")),
		Order:  search.SortOrder(q.Get("order")),
	}
}

// hasAny reports whether any of keys is present in q.
func hasAny(q url.Values, keys ...string) bool {
	for _, k := range keys {
		if _, ok := q[k]; ok {
			return true
		}
	}
	return false
}
