package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingTotal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		price     int
		travelers int
		want      int
	}{
		{name: "two travelers", price: 10000, travelers: 2, want: 23600},
		{name: "single traveler", price: 15999, travelers: 1, want: 18879}, // 18878.82
		{name: "rounds half up", price: 25, travelers: 1, want: 30},         // 29.5
		{name: "rounds down below half", price: 1, travelers: 1, want: 1},   // 1.18
		{name: "no travelers", price: 10000, travelers: 0, want: 0},
		{name: "no price", price: 0, travelers: 3, want: 0},
		{name: "largest package price", price: MaxPackagePrice, travelers: 10, want: 1_180_000_000},
		{name: "saturates instead of overflowing", price: 1 << 60, travelers: 2, want: math.MaxInt},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, BookingTotal(tc.price, tc.travelers))
		})
	}
}

func TestBookingTotal_ScalesWithTravelerCount(t *testing.T) {
	t.Parallel()

	prev := 0
	for n := 1; n <= 8; n++ {
		got := BookingTotal(12500, n)
		assert.Greater(t, got, prev, "travelers=%d", n)
		prev = got
	}
}
