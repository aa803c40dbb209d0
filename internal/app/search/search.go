// Package search narrows and orders package, group and booking lists.
//
// Every function returns a new slice and leaves its input untouched. Filters are
// conjunctive and run before the sort; sorts are stable so records with equal keys
// keep their prior relative order.
package search

import (
	"strings"

	"github.com/ridgeline-travel/tripbook-api/internal/app/apperr"
)

// All disables a categorical filter. The empty string does the same.
const All = "all"

// Range is an inclusive [Min, Max] bound.
type Range struct {
	Min int
	Max int
}

func (r Range) Contains(v int) bool { return v >= r.Min && v <= r.Max }

func (r Range) validate(field string) error {
	if r.Min < 0 || r.Max < 0 {
		return apperr.Invalid(field, "bounds must be >= 0")
	}
	if r.Min > r.Max {
		return apperr.Invalid(field, "min must be <= max")
	}
	return nil
}

// matchesText reports whether any field contains q, ignoring case. q must already be lowercased.
func matchesText(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func normalizeText(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

func isAll(v string) bool {
	return v == "" || strings.EqualFold(v, All)
}

// matchesCategory is an exact case-insensitive comparison unless want is All.
func matchesCategory(want, got string) bool {
	return isAll(want) || strings.EqualFold(want, got)
}
