package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/rs/zerolog"

	"github.com/ridgeline-travel/tripbook-api/internal/app/apperr"
	"github.com/ridgeline-travel/tripbook-api/internal/app/bookings"
	"github.com/ridgeline-travel/tripbook-api/internal/app/groups"
	"github.com/ridgeline-travel/tripbook-api/internal/app/packages"
	clockport "github.com/ridgeline-travel/tripbook-api/internal/ports/out/clock"
	"github.com/ridgeline-travel/tripbook-api/internal/ports/out/idempotency"
)

// maxBodyBytes bounds request bodies; the largest legitimate payload is a package with its itinerary.
const maxBodyBytes = 1 << 20

// Server adapts the application services to HTTP.
type Server struct {
	Packages *packages.Service
	Groups   *groups.Service
	Bookings *bookings.Service
	Wizards  *bookings.WizardService
	// Idem is optional; without it POST /bookings ignores Idempotency-Key.
	Idem idempotency.Store

	clock clockport.Clock
	log   zerolog.Logger
}

func NewServer(
	packagesSvc *packages.Service,
	groupsSvc *groups.Service,
	bookingsSvc *bookings.Service,
	wizardSvc *bookings.WizardService,
	idem idempotency.Store,
	clk clockport.Clock,
	log zerolog.Logger,
) *Server {
	return &Server{
		Packages: packagesSvc,
		Groups:   groupsSvc,
		Bookings: bookingsSvc,
		Wizards:  wizardSvc,
		Idem:     idem,
		clock:    clk,
		log:      log.With().Str("component", "httpapi").Logger(),
	}
}

// decodeBody reads a JSON body into dst. Malformed or missing bodies are validation failures;
// an email rejected by the wire type is reported against emailField.
func decodeBody(r *http.Request, dst any, emailField string) error {
	if r.Body == nil {
		return apperr.Invalid("body", "missing request body")
	}
	return decodeJSON(io.LimitReader(r.Body, maxBodyBytes), dst, emailField)
}

func decodeJSON(src io.Reader, dst any, emailField string) error {
	if err := json.NewDecoder(src).Decode(dst); err != nil {
		switch {
		case errors.Is(err, io.EOF):
			return apperr.Invalid("body", "missing request body")
		case errors.Is(err, openapi_types.ErrValidationEmail) && emailField != "":
			return apperr.Invalid(emailField, "must be a valid email")
		default:
			return apperr.Invalid("body", "malformed JSON: "+err.Error())
		}
	}
	return nil
}

// pathID parses a numeric {id}. A non-numeric id cannot name a record, so it is reported as not found.
func pathID(r *http.Request, notFoundCode, entity string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, apperr.NotFound(notFoundCode, entity+" not found")
	}
	return id, nil
}
