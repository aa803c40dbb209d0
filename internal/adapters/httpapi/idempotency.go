package httpapi

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/ridgeline-travel/tripbook-api/internal/app/apperr"
	"github.com/ridgeline-travel/tripbook-api/internal/ports/out/idempotency"
)

const (
	idempotencyHeader = "Idempotency-Key"
	replayedHeader    = "Idempotent-Replayed"
)

// idempotencyFingerprint identifies a keyed request; ok is false when the request carries no key
// or the server has no store.
func (s *Server) idempotencyFingerprint(r *http.Request, route string, body []byte) (idempotency.Fingerprint, bool) {
	key := r.Header.Get(idempotencyHeader)
	if key == "" || s.Idem == nil {
		return idempotency.Fingerprint{}, false
	}
	sum := sha256.Sum256(body)
	return idempotency.Fingerprint{
		Key:      idempotency.Key(key),
		Method:   r.Method,
		Route:    route,
		BodyHash: hex.EncodeToString(sum[:]),
	}, true
}

// replayIdempotent writes the stored response for a repeated request and reports whether it did.
// A key already used with a different body is answered with a conflict.
//
// Only successful responses are recorded, so a rejected request may be retried with a corrected body
// under the same key.
func (s *Server) replayIdempotent(w http.ResponseWriter, r *http.Request, fp idempotency.Fingerprint) (bool, error) {
	ctx := r.Context()

	meta := fp
	meta.BodyHash = ""
	rec, ok, err := s.Idem.Get(ctx, meta)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if string(rec.Body) != fp.BodyHash {
		writeError(w, r, http.StatusConflict, apperr.CodeIdempotencyKeyConflict,
			"idempotency key was already used with a different request body", map[string]any{"key": string(fp.Key)})
		return true, nil
	}

	rec, ok, err = s.Idem.Get(ctx, fp)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	w.Header().Set("Content-Type", rec.ContentType)
	w.Header().Set(replayedHeader, "true")
	w.WriteHeader(rec.StatusCode)
	_, _ = w.Write(rec.Body)
	return true, nil
}

// recordIdempotent binds the key to the body hash and stores the response for replay.
func (s *Server) recordIdempotent(r *http.Request, fp idempotency.Fingerprint, status int, body []byte) {
	ctx := r.Context()
	now := s.clock.Now().UTC()

	meta := fp
	meta.BodyHash = ""
	if err := s.Idem.Put(ctx, meta, idempotency.Record{
		ContentType: "text/plain",
		Body:        []byte(fp.BodyHash),
		CreatedAt:   now,
	}); err != nil {
		s.log.Warn().Err(err).Msg("store idempotency key")
		return
	}
	if err := s.Idem.Put(ctx, fp, idempotency.Record{
		StatusCode:  status,
		ContentType: "application/json",
		Body:        body,
		CreatedAt:   now,
	}); err != nil {
		s.log.Warn().Err(err).Msg("store idempotent response")
	}
}
