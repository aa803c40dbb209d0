package httpapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgeline-travel/tripbook-api/internal/app/apperr"
)

type packagesEnvelope struct {
	Packages []packageJSON `json:"packages"`
}

type packageEnvelope struct {
	Package packageJSON `json:"package"`
	Groups  []groupJSON `json:"groups"`
}

func packageIDs(ps []packageJSON) []int {
	out := make([]int, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestPackages_List(t *testing.T) {
	t.Parallel()
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/packages", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[packagesEnvelope](t, rec)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, packageIDs(got.Packages))
	assert.NotContains(t, rec.Body.String(), `"exclusions":null`, "lists are never null")

	rec = do(t, h, http.MethodGet, "/packages?category=heritage&sort=price-low", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{3, 8}, packageIDs(decode[packagesEnvelope](t, rec).Packages))

	rec = do(t, h, http.MethodGet, "/packages?category=heritage&destinationType=heritage", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.ElementsMatch(t, []int{3, 8}, packageIDs(decode[packagesEnvelope](t, rec).Packages))

	rec = do(t, h, http.MethodGet, "/packages?category=heritage&destinationType=beaches", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[packagesEnvelope](t, rec).Packages)

	rec = do(t, h, http.MethodGet, "/packages?minDays=4&maxDays=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.ElementsMatch(t, []int{2, 5, 8}, packageIDs(decode[packagesEnvelope](t, rec).Packages))

	rec = do(t, h, http.MethodGet, "/packages?q=LADAKH", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{1}, packageIDs(decode[packagesEnvelope](t, rec).Packages))
}

func TestPackages_List_MalformedRange(t *testing.T) {
	t.Parallel()
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/packages?minPrice=40000&maxPrice=10000", nil)
	requireError(t, rec, http.StatusUnprocessableEntity, apperr.CodeValidation)

	rec = do(t, h, http.MethodGet, "/packages?minDays=three", nil)
	e := requireError(t, rec, http.StatusUnprocessableEntity, apperr.CodeValidation)
	assert.Contains(t, details(t, e), "minDays")
}

func TestPackages_Get(t *testing.T) {
	t.Parallel()
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/packages/5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[packageEnvelope](t, rec).Package
	assert.Equal(t, "Ranthambore Tiger Trail", p.Title)
	assert.Equal(t, 18000, p.Price)

	for _, path := range []string{"/packages/99", "/packages/abc"} {
		rec = do(t, h, http.MethodGet, path, nil)
		e := requireError(t, rec, http.StatusNotFound, apperr.CodePackageNotFound)
		assert.True(t, e.RequestID.IsSpecified(), "request id is echoed")
	}
}

func TestPackages_Details(t *testing.T) {
	t.Parallel()
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/packages/1/groups", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	d := decode[packageEnvelope](t, rec)
	assert.Equal(t, 1, d.Package.ID)
	require.Len(t, d.Groups, 2)
	assert.Equal(t, 1, d.Groups[0].ID)
	assert.Equal(t, 2, d.Groups[1].ID)
	assert.Equal(t, 0, d.Groups[1].SpotsLeft)

	rec = do(t, h, http.MethodGet, "/packages/42/groups", nil)
	requireError(t, rec, http.StatusNotFound, apperr.CodePackageNotFound)
}

func TestPackages_CreateUpdateDelete(t *testing.T) {
	t.Parallel()
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/packages", map[string]any{
		"title":        "Hampi Ruins Walk",
		"destination":  "Hampi",
		"duration":     map[string]int{"days": 3, "nights": 2},
		"price":        12000,
		"category":     "Heritage",
		"maxGroupSize": 8,
		"itinerary":    []map[string]any{{"day": 1, "title": "Arrive", "description": "Check in"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[packageEnvelope](t, rec).Package
	assert.Equal(t, 9, created.ID)
	assert.Equal(t, "heritage", created.Category)
	assert.Equal(t, 0, created.GroupsAvailable)

	rec = do(t, h, http.MethodPost, "/packages", map[string]any{"title": "", "duration": map[string]int{"days": 0}})
	e := requireError(t, rec, http.StatusUnprocessableEntity, apperr.CodeValidation)
	assert.Contains(t, details(t, e), "title")
	assert.Contains(t, details(t, e), "duration.days")

	rec = do(t, h, http.MethodPost, "/packages", `{"title":`)
	requireError(t, rec, http.StatusUnprocessableEntity, apperr.CodeValidation)

	rec = do(t, h, http.MethodPatch, "/packages/9", map[string]any{"price": 13500, "itinerary": nil})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[packageEnvelope](t, rec).Package
	assert.Equal(t, 13500, updated.Price)
	assert.Empty(t, updated.Itinerary)
	assert.Equal(t, "Hampi Ruins Walk", updated.Title)

	rec = do(t, h, http.MethodPatch, "/packages/9", map[string]any{"title": nil})
	requireError(t, rec, http.StatusUnprocessableEntity, apperr.CodeValidation)

	rec = do(t, h, http.MethodDelete, "/packages/9", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodDelete, "/packages/9", nil)
	requireError(t, rec, http.StatusNotFound, apperr.CodePackageNotFound)
}
