package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/ridgeline-travel/tripbook-api/internal/app/apperr"
	"github.com/ridgeline-travel/tripbook-api/internal/app/bookings"
	"github.com/ridgeline-travel/tripbook-api/internal/domain"
)

func (s *Server) listBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		bs  []domain.Booking
		err error
	)
	if hasAny(q, "q", "status", "sortBy", "order") {
		bs, err = s.Bookings.Search(r.Context(), bookingQuery(q))
	} else {
		bs, err = s.Bookings.GetAll(r.Context())
	}
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookingsFromDomain(bs)})
}

func (s *Server) getBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, apperr.CodeBookingNotFound, "booking")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	b, err := s.Bookings.GetByID(r.Context(), domain.BookingID(id))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"booking": bookingFromDomain(b)})
}

// createBooking honours Idempotency-Key: a retry with the same key and body replays the first response.
func (s *Server) createBooking(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeServiceError(w, r, apperr.Invalid("body", "unreadable request body"))
		return
	}

	fp, keyed := s.idempotencyFingerprint(r, "/bookings", raw)
	if keyed {
		done, err := s.replayIdempotent(w, r, fp)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		if done {
			return
		}
	}

	var body createBookingRequest
	if err := decodeJSON(bytes.NewReader(raw), &body, ""); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	in := bookings.CreateBookingInput{
		PackageID:        domain.PackageID(body.PackageID),
		Travelers:        travelersToDomain(body.Travelers),
		DepartureDate:    dateValue(body.DepartureDate),
		SpecialRequests:  body.SpecialRequests,
		EmergencyContact: contactToDomain(body.EmergencyContact),
		PaymentMethod:    domain.PaymentMethod(body.PaymentMethod),
		Status:           domain.BookingStatus(body.Status),
	}
	if body.GroupID.IsSpecified() && !body.GroupID.IsNull() {
		if v, err := body.GroupID.Get(); err == nil {
			gid := domain.GroupID(v)
			in.GroupID = &gid
		}
	}

	b, err := s.Bookings.Create(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	payload, err := json.Marshal(map[string]any{"booking": bookingFromDomain(b)})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if keyed {
		s.recordIdempotent(r, fp, http.StatusCreated, payload)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(payload)
}

func (s *Server) updateBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, apperr.CodeBookingNotFound, "booking")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	var body updateBookingRequest
	if err := decodeBody(r, &body, ""); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	b, err := s.Bookings.Update(r.Context(), domain.BookingID(id), bookings.UpdateBookingInput{
		Status:          optionalMap(body.Status, func(v string) domain.BookingStatus { return domain.BookingStatus(v) }),
		SpecialRequests: optionalFrom(body.SpecialRequests),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"booking": bookingFromDomain(b)})
}

// deleteBooking cancels the booking and frees its group seats.
func (s *Server) deleteBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, apperr.CodeBookingNotFound, "booking")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if err := s.Bookings.Delete(r.Context(), domain.BookingID(id)); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
