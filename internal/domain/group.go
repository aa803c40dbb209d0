package domain

import "time"

type GroupStatus string

const (
	GroupStatusOpen   GroupStatus = "open"
	GroupStatusFull   GroupStatus = "full"
	GroupStatusClosed GroupStatus = "closed"
)

// Leader is the traveler who formed a group.
type Leader struct {
	Name  string
	Email string
	Phone string
}

// Group is a cohort of travelers sharing one package and departure date.
//
// Invariant: 0 <= CurrentMembers <= MaxMembers.
type Group struct {
	ID        GroupID
	PackageID PackageID
	// Destination is copied from the package at creation time.
	Destination   string
	DepartureDate time.Time // date-only semantics at the edges

	MaxMembers     int
	CurrentMembers int

	Leader      Leader
	Description string
	Status      GroupStatus
}

// SpotsLeft returns the number of seats still free.
func (g Group) SpotsLeft() int {
	n := g.MaxMembers - g.CurrentMembers
	if n < 0 {
		return 0
	}
	return n
}

// CanSeat reports whether n more travelers fit in the group.
func (g Group) CanSeat(n int) bool {
	return n >= 0 && g.CurrentMembers+n <= g.MaxMembers
}

// StatusForMembership derives the open/full status from the membership counts.
// A closed group stays closed.
func (g Group) StatusForMembership() GroupStatus {
	if g.Status == GroupStatusClosed {
		return GroupStatusClosed
	}
	if g.CurrentMembers >= g.MaxMembers {
		return GroupStatusFull
	}
	return GroupStatusOpen
}
