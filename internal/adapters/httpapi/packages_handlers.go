package httpapi

import (
	"net/http"

	"github.com/ridgeline-travel/tripbook-api/internal/app/apperr"
	"github.com/ridgeline-travel/tripbook-api/internal/app/packages"
	"github.com/ridgeline-travel/tripbook-api/internal/domain"
)

var packageSearchParams = []string{"q", "sort", "category", "destinationType", "travelStyle", "groupSize", "minDays", "maxDays", "minPrice", "maxPrice"}

// listPackages returns the catalogue in stored order, or the filtered and sorted view when any search
// parameter is present.
func (s *Server) listPackages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		ps  []domain.Package
		err error
	)
	if hasAny(q, packageSearchParams...) {
		pq, qerr := packageQuery(q)
		if qerr != nil {
			s.writeServiceError(w, r, qerr)
			return
		}
		ps, err = s.Packages.Search(r.Context(), pq)
	} else {
		ps, err = s.Packages.GetAll(r.Context())
	}
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"packages": packagesFromDomain(ps)})
}

func (s *Server) getPackage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, apperr.CodePackageNotFound, "package")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	p, err := s.Packages.GetByID(r.Context(), domain.PackageID(id))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"package": packageFromDomain(p)})
}

// getPackageDetails serves the package page: the package plus the groups formed for it.
func (s *Server) getPackageDetails(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, apperr.CodePackageNotFound, "package")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	d, err := s.Packages.Details(r.Context(), domain.PackageID(id))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"package": packageFromDomain(d.Package),
		"groups":  groupsFromDomain(d.Groups),
	})
}

func (s *Server) createPackage(w http.ResponseWriter, r *http.Request) {
	var body createPackageRequest
	if err := decodeBody(r, &body, ""); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	p, err := s.Packages.Create(r.Context(), packages.CreatePackageInput{
		Title:        body.Title,
		Destination:  body.Destination,
		Duration:     durationToDomain(body.Duration),
		Price:        body.Price,
		Images:       body.Images,
		Inclusions:   body.Inclusions,
		Exclusions:   body.Exclusions,
		Highlights:   body.Highlights,
		Itinerary:    itineraryToDomain(body.Itinerary),
		Category:     body.Category,
		TravelStyle:  body.TravelStyle,
		Rating:       body.Rating,
		MaxGroupSize: body.MaxGroupSize,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"package": packageFromDomain(p)})
}

func (s *Server) updatePackage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, apperr.CodePackageNotFound, "package")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	var body updatePackageRequest
	if err := decodeBody(r, &body, ""); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	p, err := s.Packages.Update(r.Context(), domain.PackageID(id), packages.UpdatePackageInput{
		Title:        optionalFrom(body.Title),
		Destination:  optionalFrom(body.Destination),
		Duration:     optionalMap(body.Duration, durationToDomain),
		Price:        optionalFrom(body.Price),
		Images:       optionalFrom(body.Images),
		Inclusions:   optionalFrom(body.Inclusions),
		Exclusions:   optionalFrom(body.Exclusions),
		Highlights:   optionalFrom(body.Highlights),
		Itinerary:    optionalMap(body.Itinerary, itineraryToDomain),
		Category:     optionalFrom(body.Category),
		TravelStyle:  optionalFrom(body.TravelStyle),
		Rating:       optionalFrom(body.Rating),
		MaxGroupSize: optionalFrom(body.MaxGroupSize),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"package": packageFromDomain(p)})
}

func (s *Server) deletePackage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, apperr.CodePackageNotFound, "package")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if err := s.Packages.Delete(r.Context(), domain.PackageID(id)); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
