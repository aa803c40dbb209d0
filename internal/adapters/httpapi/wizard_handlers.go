package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ridgeline-travel/tripbook-api/internal/app/apperr"
	"github.com/ridgeline-travel/tripbook-api/internal/app/bookings"
	"github.com/ridgeline-travel/tripbook-api/internal/domain"
	"github.com/ridgeline-travel/tripbook-api/internal/ports/out/wizardstore"
)

func wizardID(r *http.Request) wizardstore.SessionID {
	return wizardstore.SessionID(chi.URLParam(r, "id"))
}

func travelerIndex(r *http.Request) (int, error) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return 0, apperr.Invalid("index", "must be an integer")
	}
	return i, nil
}

// writeWizard renders the outcome of a wizard command.
func (s *Server) writeWizard(w http.ResponseWriter, r *http.Request, status int, v bookings.WizardView, err error) {
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, status, map[string]any{"wizard": wizardFromView(v)})
}

func (s *Server) startWizard(w http.ResponseWriter, r *http.Request) {
	var body startWizardRequest
	if err := decodeBody(r, &body, ""); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	in := bookings.StartWizardInput{PackageID: domain.PackageID(body.PackageID)}
	if body.GroupID.IsSpecified() && !body.GroupID.IsNull() {
		if v, err := body.GroupID.Get(); err == nil {
			gid := domain.GroupID(v)
			in.GroupID = &gid
		}
	}
	v, err := s.Wizards.Start(r.Context(), in)
	s.writeWizard(w, r, http.StatusCreated, v, err)
}

func (s *Server) getWizard(w http.ResponseWriter, r *http.Request) {
	v, err := s.Wizards.Get(r.Context(), wizardID(r))
	s.writeWizard(w, r, http.StatusOK, v, err)
}

func (s *Server) discardWizard(w http.ResponseWriter, r *http.Request) {
	if err := s.Wizards.Discard(r.Context(), wizardID(r)); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addWizardTraveler(w http.ResponseWriter, r *http.Request) {
	v, err := s.Wizards.AddTraveler(r.Context(), wizardID(r))
	s.writeWizard(w, r, http.StatusOK, v, err)
}

func (s *Server) updateWizardTraveler(w http.ResponseWriter, r *http.Request) {
	i, err := travelerIndex(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	var body travelerJSON
	if err := decodeBody(r, &body, ""); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	v, err := s.Wizards.UpdateTraveler(r.Context(), wizardID(r), i, travelerToDomain(body))
	s.writeWizard(w, r, http.StatusOK, v, err)
}

func (s *Server) removeWizardTraveler(w http.ResponseWriter, r *http.Request) {
	i, err := travelerIndex(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	v, err := s.Wizards.RemoveTraveler(r.Context(), wizardID(r), i)
	s.writeWizard(w, r, http.StatusOK, v, err)
}

func (s *Server) setWizardDetails(w http.ResponseWriter, r *http.Request) {
	var body tripDetailsRequest
	if err := decodeBody(r, &body, ""); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	v, err := s.Wizards.SetTripDetails(r.Context(), wizardID(r), bookings.TripDetailsStage{
		DepartureDate:    dateValue(body.DepartureDate),
		EmergencyContact: contactToDomain(body.EmergencyContact),
		SpecialRequests:  body.SpecialRequests,
	})
	s.writeWizard(w, r, http.StatusOK, v, err)
}

func (s *Server) setWizardPayment(w http.ResponseWriter, r *http.Request) {
	var body paymentRequest
	if err := decodeBody(r, &body, ""); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	v, err := s.Wizards.SetPayment(r.Context(), wizardID(r), bookings.PaymentStage{Method: domain.PaymentMethod(body.PaymentMethod)})
	s.writeWizard(w, r, http.StatusOK, v, err)
}

func (s *Server) nextWizardStage(w http.ResponseWriter, r *http.Request) {
	v, err := s.Wizards.Next(r.Context(), wizardID(r))
	s.writeWizard(w, r, http.StatusOK, v, err)
}

func (s *Server) previousWizardStage(w http.ResponseWriter, r *http.Request) {
	v, err := s.Wizards.Back(r.Context(), wizardID(r))
	s.writeWizard(w, r, http.StatusOK, v, err)
}

// submitWizard creates the booking; a rejection leaves the wizard in review with its data.
func (s *Server) submitWizard(w http.ResponseWriter, r *http.Request) {
	v, err := s.Wizards.Submit(r.Context(), wizardID(r))
	s.writeWizard(w, r, http.StatusCreated, v, err)
}
