package bookings

import (
	"fmt"
	"time"

	"github.com/ridgeline-travel/tripbook-api/internal/app/apperr"
	"github.com/ridgeline-travel/tripbook-api/internal/domain"
)

// Stage is a booking wizard state. The wizard moves forward one stage at a time
// and may step back until it is submitted.
type Stage int

const (
	StageCollectingTravelers Stage = iota + 1
	StageCollectingTripDetails
	StageReviewAndPay
	StageSubmitted
)

func (s Stage) String() string {
	switch s {
	case StageCollectingTravelers:
		return "collecting-travelers"
	case StageCollectingTripDetails:
		return "collecting-trip-details"
	case StageReviewAndPay:
		return "review-and-pay"
	case StageSubmitted:
		return "submitted"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Wizard accumulates booking data for one package, and optionally one group, across stages.
// It is not safe for concurrent use; the session store serializes access.
type Wizard struct {
	stage   Stage
	pkg     domain.Package
	group   *domain.Group
	travel  TravelersStage
	details TripDetailsStage
	payment PaymentStage

	booking *domain.Booking
}

// NewWizard starts at the first stage with one blank traveler and the default payment method.
// A group fixes the departure date to its own.
func NewWizard(pkg domain.Package, group *domain.Group) *Wizard {
	w := &Wizard{
		stage:   StageCollectingTravelers,
		pkg:     pkg,
		travel:  TravelersStage{Travelers: []domain.Traveler{{}}},
		payment: PaymentStage{Method: domain.PaymentMethods[0]},
	}
	if group != nil {
		g := *group
		w.group = &g
		w.details.DepartureDate = g.DepartureDate
		w.details.DepartureFixed = true
	}
	return w
}

func (w *Wizard) Stage() Stage            { return w.stage }
func (w *Wizard) Package() domain.Package { return w.pkg }

func (w *Wizard) Group() *domain.Group {
	if w.group == nil {
		return nil
	}
	g := *w.group
	return &g
}

func (w *Wizard) Travelers() TravelersStage {
	return TravelersStage{Travelers: append([]domain.Traveler(nil), w.travel.Travelers...)}
}

func (w *Wizard) TripDetails() TripDetailsStage { return w.details }
func (w *Wizard) Payment() PaymentStage         { return w.payment }

// Total is derived from the current traveler count on every call.
func (w *Wizard) Total() int {
	return domain.BookingTotal(w.pkg.Price, len(w.travel.Travelers))
}

// Booking returns the created booking once the wizard is submitted.
func (w *Wizard) Booking() (domain.Booking, bool) {
	if w.booking == nil {
		return domain.Booking{}, false
	}
	return domain.CloneBooking(*w.booking), true
}

// AddTraveler appends a blank traveler.
func (w *Wizard) AddTraveler() error {
	if err := w.requireStage("add traveler", StageCollectingTravelers); err != nil {
		return err
	}
	w.travel.Travelers = append(w.travel.Travelers, domain.Traveler{})
	return nil
}

// RemoveTraveler deletes the traveler at i. With a single traveler left it does nothing.
func (w *Wizard) RemoveTraveler(i int) error {
	if err := w.requireStage("remove traveler", StageCollectingTravelers); err != nil {
		return err
	}
	if err := w.checkIndex(i); err != nil {
		return err
	}
	if len(w.travel.Travelers) == 1 {
		return nil
	}
	w.travel.Travelers = append(w.travel.Travelers[:i:i], w.travel.Travelers[i+1:]...)
	return nil
}

func (w *Wizard) UpdateTraveler(i int, t domain.Traveler) error {
	if err := w.requireStage("update traveler", StageCollectingTravelers); err != nil {
		return err
	}
	if err := w.checkIndex(i); err != nil {
		return err
	}
	w.travel.Travelers[i] = normalizeTraveler(t)
	return nil
}

// SetTripDetails replaces the second stage's data. A group-fixed departure date cannot be changed.
func (w *Wizard) SetTripDetails(d TripDetailsStage) error {
	if err := w.requireStage("set trip details", StageCollectingTripDetails); err != nil {
		return err
	}
	d = normalizeTripDetails(d)
	if w.details.DepartureFixed {
		if !d.DepartureDate.IsZero() && !d.DepartureDate.Equal(w.details.DepartureDate) {
			return apperr.Invalid("departureDate", "is fixed by the selected group")
		}
		d.DepartureDate = w.details.DepartureDate
	}
	d.DepartureFixed = w.details.DepartureFixed
	w.details = d
	return nil
}

func (w *Wizard) SetPayment(p PaymentStage) error {
	if err := w.requireStage("set payment", StageReviewAndPay); err != nil {
		return err
	}
	if err := ValidatePayment(p); err != nil {
		return err
	}
	w.payment = p
	return nil
}

// Next validates the current stage and advances. ReviewAndPay advances only through Submit.
func (w *Wizard) Next(today time.Time) error {
	switch w.stage {
	case StageCollectingTravelers:
		if err := ValidateTravelers(w.travel); err != nil {
			return err
		}
		w.stage = StageCollectingTripDetails
	case StageCollectingTripDetails:
		if err := ValidateTripDetails(w.details, today); err != nil {
			return err
		}
		w.stage = StageReviewAndPay
	default:
		return w.invalidTransition("next")
	}
	return nil
}

// Back returns to the previous stage without touching collected data.
func (w *Wizard) Back() error {
	switch w.stage {
	case StageCollectingTripDetails:
		w.stage = StageCollectingTravelers
	case StageReviewAndPay:
		w.stage = StageCollectingTripDetails
	default:
		return w.invalidTransition("back")
	}
	return nil
}

// Validate runs every stage validator plus the group capacity check against group,
// the latest known state of the selected group.
func (w *Wizard) Validate(today time.Time, group *domain.Group) error {
	if w.stage != StageReviewAndPay {
		return w.invalidTransition("submit")
	}
	if err := ValidateTravelers(w.travel); err != nil {
		return err
	}
	if err := ValidateTripDetails(w.details, today); err != nil {
		return err
	}
	if err := ValidatePayment(w.payment); err != nil {
		return err
	}
	if group != nil && !group.CanSeat(len(w.travel.Travelers)) {
		return apperr.CapacityExceeded(group.CurrentMembers, group.MaxMembers, len(w.travel.Travelers))
	}
	return nil
}

// BookingInput is the create request built from the collected data.
func (w *Wizard) BookingInput() CreateBookingInput {
	in := CreateBookingInput{
		PackageID:        w.pkg.ID,
		Travelers:        append([]domain.Traveler(nil), w.travel.Travelers...),
		DepartureDate:    w.details.DepartureDate,
		SpecialRequests:  w.details.SpecialRequests,
		EmergencyContact: w.details.EmergencyContact,
		PaymentMethod:    w.payment.Method,
	}
	if w.group != nil {
		gid := w.group.ID
		in.GroupID = &gid
	}
	return in
}

// Complete moves to the terminal stage with the created booking and the group as it stands after it.
func (w *Wizard) Complete(b domain.Booking, group *domain.Group) {
	cb := domain.CloneBooking(b)
	w.booking = &cb
	if group != nil {
		g := *group
		w.group = &g
	}
	w.stage = StageSubmitted
}

func (w *Wizard) requireStage(action string, want Stage) error {
	if w.stage != want {
		return apperr.InvalidTransition("cannot "+action+" in stage "+w.stage.String(), map[string]any{
			"stage":    w.stage.String(),
			"required": want.String(),
		})
	}
	return nil
}

func (w *Wizard) invalidTransition(action string) error {
	return apperr.InvalidTransition("cannot "+action+" from stage "+w.stage.String(), map[string]any{
		"stage": w.stage.String(),
	})
}

func (w *Wizard) checkIndex(i int) error {
	if i < 0 || i >= len(w.travel.Travelers) {
		return apperr.Invalid("index", fmt.Sprintf("must be between 0 and %d", len(w.travel.Travelers)-1))
	}
	return nil
}
