package bookings

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/ridgeline-travel/tripbook-api/internal/app/apperr"
	"github.com/ridgeline-travel/tripbook-api/internal/domain"
)

const (
	MinTravelerAge = 1
	MaxTravelerAge = 100
)

// TravelersStage is the data collected in the first wizard stage.
type TravelersStage struct {
	Travelers []domain.Traveler
}

// TripDetailsStage is the data collected in the second wizard stage.
// When DepartureFixed is set the date comes from the selected group and cannot be edited.
type TripDetailsStage struct {
	DepartureDate    time.Time
	DepartureFixed   bool
	EmergencyContact domain.EmergencyContact
	SpecialRequests  string
}

// PaymentStage is the data collected in the final wizard stage.
type PaymentStage struct {
	Method domain.PaymentMethod
}

func ValidateTravelers(s TravelersStage) error {
	if len(s.Travelers) == 0 {
		return apperr.Invalid("travelers", "must contain at least one traveler")
	}
	details := map[string]any{}
	for i, t := range s.Travelers {
		prefix := fmt.Sprintf("travelers[%d].", i)
		if t.Name == "" {
			details[prefix+"name"] = "must be non-empty"
		}
		if t.Email == "" {
			details[prefix+"email"] = "must be non-empty"
		} else if err := validateEmail(t.Email); err != nil {
			details[prefix+"email"] = err.Error()
		}
		if t.Phone == "" {
			details[prefix+"phone"] = "must be non-empty"
		}
		if t.Age < MinTravelerAge || t.Age > MaxTravelerAge {
			details[prefix+"age"] = fmt.Sprintf("must be between %d and %d", MinTravelerAge, MaxTravelerAge)
		}
	}
	if len(details) > 0 {
		return apperr.InvalidFields("invalid travelers", details)
	}
	return nil
}

// ValidateTripDetails checks the departure date against today unless the group fixed it.
func ValidateTripDetails(s TripDetailsStage, today time.Time) error {
	details := map[string]any{}
	if s.DepartureDate.IsZero() {
		details["departureDate"] = "is required"
	} else if !s.DepartureFixed && s.DepartureDate.Before(today) {
		details["departureDate"] = "cannot be in the past"
	}
	c := s.EmergencyContact
	if c.Name == "" {
		details["emergencyContact.name"] = "must be non-empty"
	}
	if c.Phone == "" {
		details["emergencyContact.phone"] = "must be non-empty"
	}
	if c.Relation == "" {
		details["emergencyContact.relation"] = "must be non-empty"
	}
	if len(details) > 0 {
		return apperr.InvalidFields("invalid trip details", details)
	}
	return nil
}

func ValidatePayment(s PaymentStage) error {
	if !s.Method.Valid() {
		return apperr.Invalid("paymentMethod", "must be one of card, upi, netbanking")
	}
	return nil
}

func normalizeTraveler(t domain.Traveler) domain.Traveler {
	return domain.Traveler{
		Name:  domain.NormalizeHumanName(t.Name),
		Email: strings.TrimSpace(t.Email),
		Phone: strings.TrimSpace(t.Phone),
		Age:   t.Age,
	}
}

func normalizeTravelers(ts []domain.Traveler) []domain.Traveler {
	out := make([]domain.Traveler, len(ts))
	for i, t := range ts {
		out[i] = normalizeTraveler(t)
	}
	return out
}

func normalizeTripDetails(s TripDetailsStage) TripDetailsStage {
	s.DepartureDate = dateOnly(s.DepartureDate)
	s.EmergencyContact = domain.EmergencyContact{
		Name:     domain.NormalizeHumanName(s.EmergencyContact.Name),
		Phone:    strings.TrimSpace(s.EmergencyContact.Phone),
		Relation: strings.TrimSpace(s.EmergencyContact.Relation),
	}
	s.SpecialRequests = strings.TrimSpace(s.SpecialRequests)
	return s
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("must be a valid email")
	}
	// Ensure no "Name <email@x>" format sneaks in.
	if addr.Address != email {
		return fmt.Errorf("must be a bare email address")
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
