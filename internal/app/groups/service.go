package groups

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ridgeline-travel/tripbook-api/internal/app/apperr"
	"github.com/ridgeline-travel/tripbook-api/internal/app/search"
	"github.com/ridgeline-travel/tripbook-api/internal/domain"
	"github.com/ridgeline-travel/tripbook-api/internal/platform/metrics"
	clockport "github.com/ridgeline-travel/tripbook-api/internal/ports/out/clock"
	"github.com/ridgeline-travel/tripbook-api/internal/ports/out/grouprepo"
	"github.com/ridgeline-travel/tripbook-api/internal/ports/out/packagerepo"
)

type Service struct {
	groups   grouprepo.Repository
	packages packagerepo.Repository
	clock    clockport.Clock
	log      zerolog.Logger
}

func NewService(groupsRepo grouprepo.Repository, packagesRepo packagerepo.Repository, clk clockport.Clock, log zerolog.Logger) *Service {
	return &Service{
		groups:   groupsRepo,
		packages: packagesRepo,
		clock:    clk,
		log:      log.With().Str("component", "groups").Logger(),
	}
}

func (s *Service) GetAll(ctx context.Context) ([]domain.Group, error) {
	return s.groups.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id domain.GroupID) (domain.Group, error) {
	g, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return domain.Group{}, mapRepoErr(err)
	}
	return g, nil
}

// GetByPackageID returns the groups whose packageId matches exactly. An unknown package yields an empty list.
func (s *Service) GetByPackageID(ctx context.Context, packageID domain.PackageID) ([]domain.Group, error) {
	return s.groups.ListByPackage(ctx, packageID)
}

func (s *Service) Search(ctx context.Context, q search.GroupQuery) ([]domain.Group, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	all, err := s.groups.List(ctx)
	if err != nil {
		return nil, err
	}
	return search.Groups(all, q)
}

// Board loads groups and packages concurrently. Both reads must succeed.
func (s *Service) Board(ctx context.Context) (Board, error) {
	var b Board
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		gs, err := s.groups.List(gctx)
		b.Groups = gs
		return err
	})
	g.Go(func() error {
		ps, err := s.packages.List(gctx)
		b.Packages = ps
		return err
	})
	if err := g.Wait(); err != nil {
		return Board{}, err
	}
	return b, nil
}

// Create forms a group led by in.Leader, who takes the first seat.
func (s *Service) Create(ctx context.Context, in CreateGroupInput) (g domain.Group, err error) {
	defer func() { metrics.RecordGroup("create", err, isRejected) }()

	pkg, err := s.packages.GetByID(ctx, in.PackageID)
	if err != nil {
		if errors.Is(err, packagerepo.ErrNotFound) {
			return domain.Group{}, apperr.Invalid("packageId", "package does not exist")
		}
		return domain.Group{}, err
	}

	leader := normalizeLeader(in.Leader)
	details := validateLeader(leader)
	if in.DepartureDate.IsZero() {
		details["departureDate"] = "is required"
	} else if dateOnly(in.DepartureDate).Before(clockport.Today(s.clock)) {
		details["departureDate"] = "cannot be in the past"
	}
	if msg := validateMaxMembers(in.MaxMembers, pkg); msg != "" {
		details["maxMembers"] = msg
	}
	if len(details) > 0 {
		return domain.Group{}, apperr.InvalidFields("invalid group", details)
	}

	g = domain.Group{
		PackageID:      pkg.ID,
		Destination:    pkg.Destination,
		DepartureDate:  dateOnly(in.DepartureDate),
		MaxMembers:     in.MaxMembers,
		CurrentMembers: 1,
		Leader:         leader,
		Description:    strings.TrimSpace(in.Description),
		Status:         domain.GroupStatusOpen,
	}
	g.Status = g.StatusForMembership()

	created, err := s.groups.Create(ctx, g)
	if err != nil {
		return domain.Group{}, mapRepoErr(err)
	}
	if _, err := s.packages.AdjustGroupsAvailable(ctx, pkg.ID, 1); err != nil {
		if delErr := s.groups.Delete(ctx, created.ID); delErr != nil {
			s.log.Error().Err(delErr).Int("groupId", int(created.ID)).Msg("rollback group create")
		}
		return domain.Group{}, err
	}

	s.log.Info().
		Int("groupId", int(created.ID)).
		Int("packageId", int(pkg.ID)).
		Int("maxMembers", created.MaxMembers).
		Msg("group created")
	return created, nil
}

// Update patches the group under the store's lock, so seats reserved concurrently are never overwritten.
func (s *Service) Update(ctx context.Context, id domain.GroupID, in UpdateGroupInput) (domain.Group, error) {
	nonNullable := []struct {
		field  string
		isNull bool
	}{
		{"departureDate", in.DepartureDate.IsNull()},
		{"maxMembers", in.MaxMembers.IsNull()},
		{"currentMembers", in.CurrentMembers.IsNull()},
		{"leader.name", in.LeaderName.IsNull()},
		{"leader.email", in.LeaderEmail.IsNull()},
		{"leader.phone", in.LeaderPhone.IsNull()},
		{"status", in.Status.IsNull()},
	}
	for _, f := range nonNullable {
		if f.isNull {
			return domain.Group{}, apperr.Invalid(f.field, "cannot be null")
		}
	}

	// The package reference never changes, so its size cap can be read before locking the group.
	var pkg domain.Package
	if in.MaxMembers.HasValue() {
		cur, err := s.groups.GetByID(ctx, id)
		if err != nil {
			return domain.Group{}, mapRepoErr(err)
		}
		pkg, err = s.packages.GetByID(ctx, cur.PackageID)
		if err != nil && !errors.Is(err, packagerepo.ErrNotFound) {
			return domain.Group{}, err
		}
	}

	g, err := s.groups.Update(ctx, id, func(g *domain.Group) error {
		return applyGroupPatch(g, in, pkg)
	})
	if err != nil {
		return domain.Group{}, mapRepoErr(err)
	}
	return g, nil
}

// applyGroupPatch applies in to g and re-checks the membership invariants.
// pkg is the group's package when maxMembers changes; a zero pkg skips the size cap.
func applyGroupPatch(g *domain.Group, in UpdateGroupInput, pkg domain.Package) error {
	if in.DepartureDate.HasValue() {
		g.DepartureDate = dateOnly(in.DepartureDate.Value())
	}
	in.MaxMembers.Apply(&g.MaxMembers)
	in.CurrentMembers.Apply(&g.CurrentMembers)
	in.LeaderName.Apply(&g.Leader.Name)
	in.LeaderEmail.Apply(&g.Leader.Email)
	in.LeaderPhone.Apply(&g.Leader.Phone)
	if in.Description.IsSpecified() {
		g.Description = strings.TrimSpace(in.Description.Value())
	}
	g.Leader = normalizeLeader(g.Leader)

	details := validateLeader(g.Leader)
	if in.MaxMembers.HasValue() {
		if msg := validateMaxMembers(g.MaxMembers, pkg); msg != "" {
			details["maxMembers"] = msg
		}
	}
	if g.CurrentMembers < 0 || g.CurrentMembers > g.MaxMembers {
		details["currentMembers"] = "must be between 0 and maxMembers"
	}
	if in.Status.HasValue() {
		switch st := in.Status.Value(); st {
		case domain.GroupStatusOpen, domain.GroupStatusClosed:
			g.Status = st
		default:
			details["status"] = "must be open or closed"
		}
	}
	if len(details) > 0 {
		return apperr.InvalidFields("invalid group", details)
	}
	g.Status = g.StatusForMembership()
	return nil
}

// Delete removes the group and decrements its package's groupsAvailable.
func (s *Service) Delete(ctx context.Context, id domain.GroupID) (err error) {
	defer func() { metrics.RecordGroup("delete", err, isRejected) }()

	g, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return mapRepoErr(err)
	}
	if err := s.groups.Delete(ctx, id); err != nil {
		return mapRepoErr(err)
	}
	if _, err := s.packages.AdjustGroupsAvailable(ctx, g.PackageID, -1); err != nil && !errors.Is(err, packagerepo.ErrNotFound) {
		return err
	}
	s.log.Info().Int("groupId", int(id)).Msg("group deleted")
	return nil
}

func validateMaxMembers(n int, pkg domain.Package) string {
	if n < MinMembers {
		return "must be >= 2"
	}
	if pkg.MaxGroupSize > 0 && n > pkg.MaxGroupSize {
		return "cannot exceed the package's maxGroupSize"
	}
	return ""
}

func normalizeLeader(l domain.Leader) domain.Leader {
	return domain.Leader{
		Name:  domain.NormalizeHumanName(l.Name),
		Email: strings.TrimSpace(l.Email),
		Phone: strings.TrimSpace(l.Phone),
	}
}

func validateLeader(l domain.Leader) map[string]any {
	details := map[string]any{}
	if l.Name == "" {
		details["leader.name"] = "must be non-empty"
	}
	if l.Email == "" {
		details["leader.email"] = "must be non-empty"
	} else if addr, err := mail.ParseAddress(l.Email); err != nil || addr.Address != l.Email {
		details["leader.email"] = "must be a bare email address"
	}
	if l.Phone == "" {
		details["leader.phone"] = "must be non-empty"
	}
	return details
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isRejected(err error) bool {
	_, ok := apperr.As(err)
	return ok
}

func mapRepoErr(err error) error {
	switch {
	case errors.Is(err, grouprepo.ErrNotFound):
		return apperr.NotFound(apperr.CodeGroupNotFound, "group not found")
	case errors.Is(err, grouprepo.ErrEmptyCollection):
		return apperr.CreationPrecondition("groups")
	default:
		return err
	}
}
