package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ridgeline-travel/tripbook-api/internal/platform/metrics"
)

// requestLogger logs one line per request, at error for 5xx, warn for 4xx and info otherwise.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			l := log.With().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status_code", status).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Str("ip", r.RemoteAddr).
				Logger()

			switch {
			case status >= 500:
				l.Error().Msg("HTTP request")
			case status >= 400:
				l.Warn().Msg("HTTP request")
			default:
				l.Info().Msg("HTTP request")
			}
		})
	}
}

// instrument records request count and latency labelled by the matched route pattern,
// so /bookings/1 and /bookings/2 share a series.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		code := strconv.Itoa(status)
		metrics.HTTPRequestTotal.WithLabelValues(r.Method, route, code).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route, code).Observe(time.Since(start).Seconds())
	})
}
