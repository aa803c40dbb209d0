package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type RouterOptions struct {
	Logger zerolog.Logger
	// MetricsEnabled mounts /metrics and records per-route request metrics.
	MetricsEnabled bool
}

// NewRouter constructs the API HTTP router with request logging disabled and metrics on.
func NewRouter(s *Server) http.Handler {
	return NewRouterWithOptions(s, RouterOptions{Logger: zerolog.Nop(), MetricsEnabled: true})
}

func NewRouterWithOptions(s *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(opts.Logger))
	if opts.MetricsEnabled {
		r.Use(instrument)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "no route for "+r.Method+" "+r.URL.Path, nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" is not allowed on "+r.URL.Path, nil)
	})

	// Health endpoint sits outside the API surface for infra checks.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.MetricsEnabled {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}

	r.Route("/packages", func(r chi.Router) {
		r.Get("/", s.listPackages)
		r.Post("/", s.createPackage)
		r.Get("/{id}", s.getPackage)
		r.Patch("/{id}", s.updatePackage)
		r.Delete("/{id}", s.deletePackage)
		r.Get("/{id}/groups", s.getPackageDetails)
	})

	r.Route("/groups", func(r chi.Router) {
		r.Get("/", s.listGroups)
		r.Post("/", s.createGroup)
		r.Get("/{id}", s.getGroup)
		r.Patch("/{id}", s.updateGroup)
		r.Delete("/{id}", s.deleteGroup)
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Get("/", s.listBookings)
		r.Post("/", s.createBooking)
		r.Get("/{id}", s.getBooking)
		r.Patch("/{id}", s.updateBooking)
		r.Delete("/{id}", s.deleteBooking)
	})

	r.Route("/wizards", func(r chi.Router) {
		r.Post("/", s.startWizard)
		r.Get("/{id}", s.getWizard)
		r.Delete("/{id}", s.discardWizard)
		r.Post("/{id}/travelers", s.addWizardTraveler)
		r.Put("/{id}/travelers/{index}", s.updateWizardTraveler)
		r.Delete("/{id}/travelers/{index}", s.removeWizardTraveler)
		r.Put("/{id}/details", s.setWizardDetails)
		r.Put("/{id}/payment", s.setWizardPayment)
		r.Post("/{id}/next", s.nextWizardStage)
		r.Post("/{id}/back", s.previousWizardStage)
		r.Post("/{id}/submit", s.submitWizard)
	})

	return r
}
