package packages

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ridgeline-travel/tripbook-api/internal/app/apperr"
	"github.com/ridgeline-travel/tripbook-api/internal/app/patch"
	"github.com/ridgeline-travel/tripbook-api/internal/app/search"
	"github.com/ridgeline-travel/tripbook-api/internal/domain"
	"github.com/ridgeline-travel/tripbook-api/internal/ports/out/grouprepo"
	"github.com/ridgeline-travel/tripbook-api/internal/ports/out/packagerepo"
)

type Service struct {
	packages packagerepo.Repository
	groups   grouprepo.Repository
	log      zerolog.Logger
}

func NewService(packagesRepo packagerepo.Repository, groupsRepo grouprepo.Repository, log zerolog.Logger) *Service {
	return &Service{
		packages: packagesRepo,
		groups:   groupsRepo,
		log:      log.With().Str("component", "packages").Logger(),
	}
}

func (s *Service) GetAll(ctx context.Context) ([]domain.Package, error) {
	return s.packages.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id domain.PackageID) (domain.Package, error) {
	p, err := s.packages.GetByID(ctx, id)
	if err != nil {
		return domain.Package{}, mapRepoErr(err)
	}
	return p, nil
}

// Search runs the filter/sort pipeline over the current package list.
func (s *Service) Search(ctx context.Context, q search.PackageQuery) ([]domain.Package, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	all, err := s.packages.List(ctx)
	if err != nil {
		return nil, err
	}
	return search.Packages(all, q)
}

// Details loads the package and its groups concurrently. Both reads must succeed.
func (s *Service) Details(ctx context.Context, id domain.PackageID) (Details, error) {
	var d Details
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.packages.GetByID(gctx, id)
		if err != nil {
			return mapRepoErr(err)
		}
		d.Package = p
		return nil
	})
	g.Go(func() error {
		gs, err := s.groups.ListByPackage(gctx, id)
		if err != nil {
			return err
		}
		d.Groups = gs
		return nil
	})
	if err := g.Wait(); err != nil {
		return Details{}, err
	}
	return d, nil
}

func (s *Service) Create(ctx context.Context, in CreatePackageInput) (domain.Package, error) {
	p := domain.Package{
		Title:        strings.TrimSpace(in.Title),
		Destination:  strings.TrimSpace(in.Destination),
		Duration:     in.Duration,
		Price:        in.Price,
		Images:       in.Images,
		Inclusions:   in.Inclusions,
		Exclusions:   in.Exclusions,
		Highlights:   in.Highlights,
		Itinerary:    in.Itinerary,
		Category:     strings.ToLower(strings.TrimSpace(in.Category)),
		TravelStyle:  strings.ToLower(strings.TrimSpace(in.TravelStyle)),
		Rating:       in.Rating,
		MaxGroupSize: in.MaxGroupSize,
	}
	if err := validatePackage(p); err != nil {
		return domain.Package{}, err
	}

	created, err := s.packages.Create(ctx, p)
	if err != nil {
		return domain.Package{}, mapRepoErr(err)
	}
	s.log.Info().Int("packageId", int(created.ID)).Str("title", created.Title).Msg("package created")
	return created, nil
}

// Update patches the package under the store's lock; a concurrent groupsAvailable adjustment is kept.
func (s *Service) Update(ctx context.Context, id domain.PackageID, in UpdatePackageInput) (domain.Package, error) {
	nonNullable := []struct {
		field  string
		isNull bool
	}{
		{"title", in.Title.IsNull()},
		{"destination", in.Destination.IsNull()},
		{"duration", in.Duration.IsNull()},
		{"price", in.Price.IsNull()},
		{"category", in.Category.IsNull()},
		{"travelStyle", in.TravelStyle.IsNull()},
		{"maxGroupSize", in.MaxGroupSize.IsNull()},
	}
	for _, f := range nonNullable {
		if f.isNull {
			return domain.Package{}, apperr.Invalid(f.field, "cannot be null")
		}
	}

	p, err := s.packages.Update(ctx, id, func(p *domain.Package) error {
		applyPackagePatch(p, in)
		return validatePackage(*p)
	})
	if err != nil {
		return domain.Package{}, mapRepoErr(err)
	}
	return p, nil
}

func applyPackagePatch(p *domain.Package, in UpdatePackageInput) {
	if in.Title.HasValue() {
		p.Title = strings.TrimSpace(in.Title.Value())
	}
	if in.Destination.HasValue() {
		p.Destination = strings.TrimSpace(in.Destination.Value())
	}
	if in.Category.HasValue() {
		p.Category = strings.ToLower(strings.TrimSpace(in.Category.Value()))
	}
	if in.TravelStyle.HasValue() {
		p.TravelStyle = strings.ToLower(strings.TrimSpace(in.TravelStyle.Value()))
	}
	in.Duration.Apply(&p.Duration)
	in.Price.Apply(&p.Price)
	in.MaxGroupSize.Apply(&p.MaxGroupSize)
	if in.Rating.IsNull() {
		p.Rating = 0
	}
	in.Rating.Apply(&p.Rating)

	applyList(&p.Images, in.Images)
	applyList(&p.Inclusions, in.Inclusions)
	applyList(&p.Exclusions, in.Exclusions)
	applyList(&p.Highlights, in.Highlights)
	if in.Itinerary.IsSpecified() {
		p.Itinerary = in.Itinerary.Value()
	}
}

// Delete removes the package. Groups keep their packageId reference.
func (s *Service) Delete(ctx context.Context, id domain.PackageID) error {
	if err := s.packages.Delete(ctx, id); err != nil {
		return mapRepoErr(err)
	}
	s.log.Info().Int("packageId", int(id)).Msg("package deleted")
	return nil
}

func applyList(dst *[]string, o patch.Optional[[]string]) {
	if !o.IsSpecified() {
		return
	}
	if o.IsNull() {
		*dst = nil
		return
	}
	*dst = o.Value()
}

func validatePackage(p domain.Package) error {
	details := map[string]any{}
	if p.Title == "" {
		details["title"] = "must be non-empty"
	}
	if p.Destination == "" {
		details["destination"] = "must be non-empty"
	}
	if p.Duration.Days < 1 {
		details["duration.days"] = "must be >= 1"
	}
	if p.Duration.Nights < 0 || p.Duration.Nights > p.Duration.Days {
		details["duration.nights"] = "must be between 0 and days"
	}
	if p.Price < 0 || p.Price > domain.MaxPackagePrice {
		details["price"] = fmt.Sprintf("must be between 0 and %d", domain.MaxPackagePrice)
	}
	if p.MaxGroupSize < 0 {
		details["maxGroupSize"] = "must be >= 0"
	}
	if p.Rating < 0 || p.Rating > 5 {
		details["rating"] = "must be between 0 and 5"
	}
	for i, d := range p.Itinerary {
		if d.Day < 1 || d.Day > p.Duration.Days {
			details["itinerary"] = "day numbers must fall within the trip"
			break
		}
		if i > 0 && d.Day <= p.Itinerary[i-1].Day {
			details["itinerary"] = "days must be in increasing order"
			break
		}
	}
	if len(details) > 0 {
		return apperr.InvalidFields("invalid package", details)
	}
	return nil
}

func mapRepoErr(err error) error {
	switch {
	case errors.Is(err, packagerepo.ErrNotFound):
		return apperr.NotFound(apperr.CodePackageNotFound, "package not found")
	case errors.Is(err, packagerepo.ErrEmptyCollection):
		return apperr.CreationPrecondition("packages")
	default:
		return err
	}
}
