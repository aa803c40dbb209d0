package bookings_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgeline-travel/tripbook-api/internal/adapters/memory/table"
	"github.com/ridgeline-travel/tripbook-api/internal/app/apperr"
	"github.com/ridgeline-travel/tripbook-api/internal/app/bookings"
	"github.com/ridgeline-travel/tripbook-api/internal/app/patch"
	"github.com/ridgeline-travel/tripbook-api/internal/app/search"
	"github.com/ridgeline-travel/tripbook-api/internal/domain"
)

func soloInput() bookings.CreateBookingInput {
	return bookings.CreateBookingInput{
		PackageID:        pkgStandard,
		Travelers:        []domain.Traveler{traveler("asha", 31), traveler("ravi", 34)},
		DepartureDate:    departure,
		EmergencyContact: contact(),
	}
}

func groupInput(n int) bookings.CreateBookingInput {
	gid := groupTiger
	in := bookings.CreateBookingInput{PackageID: pkgTiger, GroupID: &gid, EmergencyContact: contact()}
	for i := 0; i < n; i++ {
		in.Travelers = append(in.Travelers, traveler("t"+string(rune('a'+i)), 30))
	}
	return in
}

func TestService_Create_ComputesDerivedFields(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	b, err := f.svc.Create(context.Background(), soloInput())
	require.NoError(t, err)
	assert.Equal(t, domain.BookingID(1), b.ID)
	assert.Equal(t, 23600, b.TotalPrice)
	assert.Equal(t, now, b.BookingDate)
	assert.Equal(t, domain.BookingStatusConfirmed, b.Status)
	assert.Equal(t, domain.PaymentMethodCard, b.PaymentMethod)
	assert.Equal(t, "ref-1", b.Reference)
	assert.Nil(t, b.GroupID)
}

func TestService_Create_GroupCapacity(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), groupInput(2))
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.True(t, apperr.HasCode(err, apperr.CodeGroupCapacityExceeded))
	g, err := f.groups.GetByID(context.Background(), groupTiger)
	require.NoError(t, err)
	assert.Equal(t, 5, g.CurrentMembers)

	b, err := f.svc.Create(context.Background(), groupInput(1))
	require.NoError(t, err)
	require.NotNil(t, b.GroupID)
	assert.Equal(t, departure, b.DepartureDate)
	assert.Equal(t, 21240, b.TotalPrice)

	g, err = f.groups.GetByID(context.Background(), groupTiger)
	require.NoError(t, err)
	assert.Equal(t, 6, g.CurrentMembers)
	assert.Equal(t, domain.GroupStatusFull, g.Status)
}

func TestService_Create_ReleasesSeatsWhenInsertFails(t *testing.T) {
	t.Parallel()

	f := newFixtureWithBookings(t, failingBookingRepo{})
	_, err := f.svc.Create(context.Background(), groupInput(1))
	require.ErrorIs(t, err, errStoreDown)

	g, err := f.groups.GetByID(context.Background(), groupTiger)
	require.NoError(t, err)
	assert.Equal(t, 5, g.CurrentMembers)
	assert.Equal(t, domain.GroupStatusOpen, g.Status)
}

func TestService_Create_Validation(t *testing.T) {
	t.Parallel()

	cases := map[string]func(*bookings.CreateBookingInput){
		"travelers": func(in *bookings.CreateBookingInput) { in.Travelers = nil },
		"travelers[1].age": func(in *bookings.CreateBookingInput) {
			in.Travelers[1].Age = 101
		},
		"travelers[0].email": func(in *bookings.CreateBookingInput) {
			in.Travelers[0].Email = "not-an-email"
		},
		"packageId":              func(in *bookings.CreateBookingInput) { in.PackageID = 99 },
		"departureDate":          func(in *bookings.CreateBookingInput) { in.DepartureDate = now.AddDate(0, 0, -2) },
		"emergencyContact.phone": func(in *bookings.CreateBookingInput) { in.EmergencyContact.Phone = "" },
		"paymentMethod":          func(in *bookings.CreateBookingInput) { in.PaymentMethod = "cash" },
		"groupId": func(in *bookings.CreateBookingInput) {
			gid := groupTiger // belongs to another package
			in.GroupID = &gid
		},
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			in := soloInput()
			mutate(&in)
			_, err := f.svc.Create(context.Background(), in)
			require.ErrorIs(t, err, domain.ErrValidation)
			ae, ok := apperr.As(err)
			require.True(t, ok)
			assert.Contains(t, ae.Details, field)
		})
	}
}

func TestService_Update_StatusTransitions(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	in := groupInput(1)
	in.Status = domain.BookingStatusPending
	b, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)

	b, err = f.svc.Update(context.Background(), b.ID, bookings.UpdateBookingInput{
		Status:          patch.Some(domain.BookingStatusConfirmed),
		SpecialRequests: patch.Some("  window seat "),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, b.Status)
	assert.Equal(t, "window seat", b.SpecialRequests)

	_, err = f.svc.Update(context.Background(), b.ID, bookings.UpdateBookingInput{Status: patch.Some(domain.BookingStatusPending)})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.True(t, apperr.HasCode(err, apperr.CodeBookingInvalidStatus))

	_, err = f.svc.Update(context.Background(), b.ID, bookings.UpdateBookingInput{Status: patch.Some(domain.BookingStatusCancelled)})
	require.NoError(t, err)
	g, err := f.groups.GetByID(context.Background(), groupTiger)
	require.NoError(t, err)
	assert.Equal(t, 5, g.CurrentMembers, "cancelling frees the seat")

	_, err = f.svc.Update(context.Background(), b.ID, bookings.UpdateBookingInput{Status: patch.Some(domain.BookingStatusConfirmed)})
	require.ErrorIs(t, err, domain.ErrValidation)

	// Deleting an already cancelled booking does not release twice.
	require.NoError(t, f.svc.Delete(context.Background(), b.ID))
	g, err = f.groups.GetByID(context.Background(), groupTiger)
	require.NoError(t, err)
	assert.Equal(t, 5, g.CurrentMembers)
}

func TestService_Delete_CancelsBooking(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	b, err := f.svc.Create(context.Background(), groupInput(1))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), b.ID))

	all, err := f.svc.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = f.svc.GetByID(context.Background(), b.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, apperr.HasCode(err, apperr.CodeBookingNotFound))

	g, err := f.groups.GetByID(context.Background(), groupTiger)
	require.NoError(t, err)
	assert.Equal(t, 5, g.CurrentMembers)

	require.ErrorIs(t, f.svc.Delete(context.Background(), b.ID), domain.ErrNotFound)
}

func TestService_ConcurrentCancelsReleaseSeatsOnce(t *testing.T) {
	t.Parallel()

	f := newFixtureWithOptions(t, table.Options{Latency: 20 * time.Millisecond}, nil)
	gid := groupTiger
	require.NoError(t, f.bookings.Seed(domain.Booking{
		ID: 1, PackageID: pkgTiger, GroupID: &gid, Travelers: []domain.Traveler{traveler("asha", 31)},
		DepartureDate: departure, Status: domain.BookingStatusConfirmed,
	}))

	// Re-asserting cancelled is allowed, but only the first cancel gives the seat back.
	var wg sync.WaitGroup
	cancel := bookings.UpdateBookingInput{Status: patch.Some(domain.BookingStatusCancelled)}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Update(context.Background(), 1, cancel)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	g, err := f.groups.GetByID(context.Background(), groupTiger)
	require.NoError(t, err)
	assert.Equal(t, 4, g.CurrentMembers)

	// The booking is already cancelled, so removing it gives nothing back.
	require.NoError(t, f.svc.Delete(context.Background(), 1))
	g, err = f.groups.GetByID(context.Background(), groupTiger)
	require.NoError(t, err)
	assert.Equal(t, 4, g.CurrentMembers)
}

func TestService_Search(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	first, err := f.svc.Create(context.Background(), soloInput())
	require.NoError(t, err)
	second, err := f.svc.Create(context.Background(), groupInput(1))
	require.NoError(t, err)

	got, err := f.svc.Search(context.Background(), search.BookingQuery{SortBy: search.SortByTotalPrice, Order: search.Ascending})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)

	got, err = f.svc.Search(context.Background(), search.BookingQuery{Text: "tiger"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, second.ID, got[0].ID)
}
