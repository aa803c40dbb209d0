package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroup_CanSeatAndSpotsLeft(t *testing.T) {
	t.Parallel()

	g := Group{MaxMembers: 6, CurrentMembers: 5}
	assert.Equal(t, 1, g.SpotsLeft())
	assert.True(t, g.CanSeat(1))
	assert.False(t, g.CanSeat(2))
	assert.False(t, g.CanSeat(-1))

	over := Group{MaxMembers: 2, CurrentMembers: 3}
	assert.Equal(t, 0, over.SpotsLeft())
}

func TestGroup_StatusForMembership(t *testing.T) {
	t.Parallel()

	assert.Equal(t, GroupStatusOpen, Group{MaxMembers: 6, CurrentMembers: 5}.StatusForMembership())
	assert.Equal(t, GroupStatusFull, Group{MaxMembers: 6, CurrentMembers: 6}.StatusForMembership())
	assert.Equal(t, GroupStatusClosed, Group{MaxMembers: 6, CurrentMembers: 1, Status: GroupStatusClosed}.StatusForMembership())
}

func TestBookingStatus_Transitions(t *testing.T) {
	t.Parallel()

	assert.True(t, BookingStatusPending.CanTransitionTo(BookingStatusConfirmed))
	assert.True(t, BookingStatusPending.CanTransitionTo(BookingStatusCancelled))
	assert.True(t, BookingStatusConfirmed.CanTransitionTo(BookingStatusCancelled))
	assert.True(t, BookingStatusConfirmed.CanTransitionTo(BookingStatusConfirmed))
	assert.False(t, BookingStatusConfirmed.CanTransitionTo(BookingStatusPending))
	assert.False(t, BookingStatusCancelled.CanTransitionTo(BookingStatusConfirmed))
	assert.False(t, BookingStatus("archived").Valid())
}

func TestCloneBooking_IsIndependent(t *testing.T) {
	t.Parallel()

	gid := GroupID(4)
	b := Booking{GroupID: &gid, Travelers: []Traveler{{Name: "Asha"}}}
	cp := CloneBooking(b)
	*cp.GroupID = 9
	cp.Travelers[0].Name = "Ravi"

	assert.Equal(t, GroupID(4), *b.GroupID)
	assert.Equal(t, "Asha", b.Travelers[0].Name)
}
