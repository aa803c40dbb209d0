package domain

import "math"

// TaxPercent is the flat tax applied to every booking.
const TaxPercent = 18

// MaxPackagePrice bounds a package's per-traveler price.
const MaxPackagePrice = 100_000_000

// BookingTotal returns round(price * travelers * 1.18) using integer arithmetic,
// rounding half up to the nearest whole currency unit. A product too large for int saturates at math.MaxInt.
func BookingTotal(price, travelers int) int {
	if price <= 0 || travelers <= 0 {
		return 0
	}
	if price > (math.MaxInt-50)/(100+TaxPercent)/travelers {
		return math.MaxInt
	}
	base := price * travelers
	return (base*(100+TaxPercent) + 50) / 100
}
