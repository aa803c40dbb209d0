package bookings_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgeline-travel/tripbook-api/internal/app/apperr"
	"github.com/ridgeline-travel/tripbook-api/internal/app/bookings"
	"github.com/ridgeline-travel/tripbook-api/internal/domain"
)


func standardPackage() domain.Package {
	return domain.Package{ID: pkgStandard, Title: "Goa Sun and Sand", Price: 10000, MaxGroupSize: 10}
}

func tigerGroup(current int) *domain.Group {
	return &domain.Group{ID: groupTiger, PackageID: pkgTiger, DepartureDate: departure, MaxMembers: 6, CurrentMembers: current, Status: domain.GroupStatusOpen}
}

// fillTravelers moves a fresh wizard through the first stage with n valid travelers.
func fillTravelers(t *testing.T, w *bookings.Wizard, n int) {
	t.Helper()
	for i := 1; i < n; i++ {
		require.NoError(t, w.AddTraveler())
	}
	for i := 0; i < n; i++ {
		require.NoError(t, w.UpdateTraveler(i, traveler("traveler"+string(rune('a'+i)), 30+i)))
	}
	require.NoError(t, w.Next(today))
}

func TestWizard_StartsWithOneBlankTraveler(t *testing.T) {
	t.Parallel()

	w := bookings.NewWizard(standardPackage(), nil)
	assert.Equal(t, bookings.StageCollectingTravelers, w.Stage())
	assert.Len(t, w.Travelers().Travelers, 1)
	assert.Equal(t, domain.PaymentMethodCard, w.Payment().Method)
	assert.False(t, w.TripDetails().DepartureFixed)
	assert.Equal(t, 11800, w.Total())
}

func TestWizard_TotalFollowsTravelerCount(t *testing.T) {
	t.Parallel()

	w := bookings.NewWizard(standardPackage(), nil)
	require.NoError(t, w.AddTraveler())
	assert.Equal(t, 23600, w.Total())
	require.NoError(t, w.RemoveTraveler(0))
	assert.Equal(t, 11800, w.Total())
}

func TestWizard_RemoveLastTravelerIsNoop(t *testing.T) {
	t.Parallel()

	w := bookings.NewWizard(standardPackage(), nil)
	require.NoError(t, w.UpdateTraveler(0, traveler("asha", 31)))
	require.NoError(t, w.RemoveTraveler(0))
	require.Len(t, w.Travelers().Travelers, 1)
	assert.Equal(t, "asha@example.com", w.Travelers().Travelers[0].Email)

	err := w.RemoveTraveler(3)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestWizard_NextValidatesCurrentStage(t *testing.T) {
	t.Parallel()

	w := bookings.NewWizard(standardPackage(), nil)
	err := w.Next(today)
	require.ErrorIs(t, err, domain.ErrValidation)
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Contains(t, ae.Details, "travelers[0].name")
	assert.Equal(t, bookings.StageCollectingTravelers, w.Stage())

	fillTravelers(t, w, 1)
	assert.Equal(t, bookings.StageCollectingTripDetails, w.Stage())

	err = w.Next(today)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, bookings.StageCollectingTripDetails, w.Stage())

	require.NoError(t, w.SetTripDetails(bookings.TripDetailsStage{DepartureDate: departure, EmergencyContact: contact()}))
	require.NoError(t, w.Next(today))
	assert.Equal(t, bookings.StageReviewAndPay, w.Stage())

	err = w.Next(today)
	assert.True(t, apperr.HasCode(err, apperr.CodeWizardInvalidTransition))
}

func TestWizard_BackKeepsData(t *testing.T) {
	t.Parallel()

	w := bookings.NewWizard(standardPackage(), nil)
	fillTravelers(t, w, 2)
	details := bookings.TripDetailsStage{DepartureDate: departure, EmergencyContact: contact(), SpecialRequests: "vegetarian meals"}
	require.NoError(t, w.SetTripDetails(details))
	require.NoError(t, w.Next(today))
	require.NoError(t, w.SetPayment(bookings.PaymentStage{Method: domain.PaymentMethodUPI}))

	require.NoError(t, w.Back())
	require.NoError(t, w.Back())
	assert.Equal(t, bookings.StageCollectingTravelers, w.Stage())
	assert.Len(t, w.Travelers().Travelers, 2)

	require.NoError(t, w.Next(today))
	require.NoError(t, w.Next(today))
	assert.Equal(t, "vegetarian meals", w.TripDetails().SpecialRequests)
	assert.Equal(t, domain.PaymentMethodUPI, w.Payment().Method)

	err := w.Back()
	require.NoError(t, err)
	err = w.Back()
	require.NoError(t, err)
	err = w.Back()
	assert.True(t, apperr.HasCode(err, apperr.CodeWizardInvalidTransition), "no stage before travelers")
}

func TestWizard_EditsAreStageBound(t *testing.T) {
	t.Parallel()

	w := bookings.NewWizard(standardPackage(), nil)
	assert.True(t, apperr.HasCode(w.SetTripDetails(bookings.TripDetailsStage{}), apperr.CodeWizardInvalidTransition))
	assert.True(t, apperr.HasCode(w.SetPayment(bookings.PaymentStage{Method: domain.PaymentMethodUPI}), apperr.CodeWizardInvalidTransition))

	fillTravelers(t, w, 1)
	assert.True(t, apperr.HasCode(w.AddTraveler(), apperr.CodeWizardInvalidTransition))
	assert.True(t, apperr.HasCode(w.UpdateTraveler(0, traveler("x", 20)), apperr.CodeWizardInvalidTransition))
}

func TestWizard_GroupFixesDepartureDate(t *testing.T) {
	t.Parallel()

	w := bookings.NewWizard(domain.Package{ID: pkgTiger, Price: 18000, MaxGroupSize: 6}, tigerGroup(5))
	assert.True(t, w.TripDetails().DepartureFixed)
	assert.Equal(t, departure, w.TripDetails().DepartureDate)

	fillTravelers(t, w, 1)
	err := w.SetTripDetails(bookings.TripDetailsStage{DepartureDate: departure.AddDate(0, 0, 7), EmergencyContact: contact()})
	require.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, w.SetTripDetails(bookings.TripDetailsStage{EmergencyContact: contact()}))
	assert.Equal(t, departure, w.TripDetails().DepartureDate)
	require.NoError(t, w.Next(today))
}

func TestWizard_ValidateChecksCapacity(t *testing.T) {
	t.Parallel()

	w := bookings.NewWizard(domain.Package{ID: pkgTiger, Price: 18000, MaxGroupSize: 6}, tigerGroup(5))
	assert.True(t, apperr.HasCode(w.Validate(today, tigerGroup(5)), apperr.CodeWizardInvalidTransition))

	fillTravelers(t, w, 2)
	require.NoError(t, w.SetTripDetails(bookings.TripDetailsStage{EmergencyContact: contact()}))
	require.NoError(t, w.Next(today))

	err := w.Validate(today, tigerGroup(5))
	assert.True(t, apperr.HasCode(err, apperr.CodeGroupCapacityExceeded))
	assert.NoError(t, w.Validate(today, tigerGroup(4)))

	in := w.BookingInput()
	require.NotNil(t, in.GroupID)
	assert.Equal(t, groupTiger, *in.GroupID)
	assert.Len(t, in.Travelers, 2)
	assert.Equal(t, departure, in.DepartureDate)
}

func TestWizard_SubmittedIsTerminal(t *testing.T) {
	t.Parallel()

	w := bookings.NewWizard(standardPackage(), nil)
	fillTravelers(t, w, 1)
	require.NoError(t, w.SetTripDetails(bookings.TripDetailsStage{DepartureDate: departure, EmergencyContact: contact()}))
	require.NoError(t, w.Next(today))

	w.Complete(domain.Booking{ID: 4, PackageID: pkgStandard}, nil)
	assert.Equal(t, bookings.StageSubmitted, w.Stage())
	b, ok := w.Booking()
	require.True(t, ok)
	assert.Equal(t, domain.BookingID(4), b.ID)

	for name, err := range map[string]error{
		"back":     w.Back(),
		"next":     w.Next(today),
		"traveler": w.AddTraveler(),
		"payment":  w.SetPayment(bookings.PaymentStage{Method: domain.PaymentMethodCard}),
		"validate": w.Validate(today, nil),
	} {
		assert.True(t, apperr.HasCode(err, apperr.CodeWizardInvalidTransition), name)
	}
}
