package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ridgeline-travel/tripbook-api/internal/adapters/fixtures"
	membookingrepo "github.com/ridgeline-travel/tripbook-api/internal/adapters/memory/bookingrepo"
	memclock "github.com/ridgeline-travel/tripbook-api/internal/adapters/memory/clock"
	memgrouprepo "github.com/ridgeline-travel/tripbook-api/internal/adapters/memory/grouprepo"
	memidempotency "github.com/ridgeline-travel/tripbook-api/internal/adapters/memory/idempotency"
	mempackagerepo "github.com/ridgeline-travel/tripbook-api/internal/adapters/memory/packagerepo"
	"github.com/ridgeline-travel/tripbook-api/internal/adapters/memory/table"
	memwizardstore "github.com/ridgeline-travel/tripbook-api/internal/adapters/memory/wizardstore"
	"github.com/ridgeline-travel/tripbook-api/internal/app/bookings"
	"github.com/ridgeline-travel/tripbook-api/internal/app/groups"
	"github.com/ridgeline-travel/tripbook-api/internal/app/packages"
)

var testNow = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

// newTestRouter wires the full stack over the embedded seed data with a manual clock.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	data, err := fixtures.Load()
	require.NoError(t, err)

	pkgs := mempackagerepo.NewRepo(table.Options{})
	gs := memgrouprepo.NewRepo(table.Options{})
	bs := membookingrepo.NewRepo(table.Options{})
	require.NoError(t, pkgs.Seed(data.Packages...))
	require.NoError(t, gs.Seed(data.Groups...))
	require.NoError(t, bs.Seed(data.Bookings...))

	clk := memclock.NewManualClock(testNow)
	log := zerolog.Nop()
	bookingSvc := bookings.NewService(bs, pkgs, gs, clk, log)
	api := NewServer(
		packages.NewService(pkgs, gs, log),
		groups.NewService(gs, pkgs, clk, log),
		bookingSvc,
		bookings.NewWizardService(memwizardstore.NewStore[*bookings.Wizard](memwizardstore.Options{}), bookingSvc, log),
		memidempotency.NewStore(clk, time.Hour),
		clk,
		log,
	)
	return NewRouter(api)
}

func do(t *testing.T, h http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// requireError asserts the status and the error envelope's code and returns the envelope.
func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) errorBody {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	er := decode[errorResponse](t, rec)
	require.Equal(t, code, er.Error.Code)
	return er.Error
}

func details(t *testing.T, e errorBody) map[string]any {
	t.Helper()
	d, err := e.Details.Get()
	require.NoError(t, err)
	return d
}
