package bookings

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ridgeline-travel/tripbook-api/internal/app/apperr"
	"github.com/ridgeline-travel/tripbook-api/internal/app/search"
	"github.com/ridgeline-travel/tripbook-api/internal/domain"
	"github.com/ridgeline-travel/tripbook-api/internal/platform/metrics"
	"github.com/ridgeline-travel/tripbook-api/internal/ports/out/bookingrepo"
	clockport "github.com/ridgeline-travel/tripbook-api/internal/ports/out/clock"
	"github.com/ridgeline-travel/tripbook-api/internal/ports/out/grouprepo"
	"github.com/ridgeline-travel/tripbook-api/internal/ports/out/packagerepo"
)

type Service struct {
	bookings bookingrepo.Repository
	packages packagerepo.Repository
	groups   grouprepo.Repository
	clock    clockport.Clock
	log      zerolog.Logger

	newReference func() string
}

func NewService(
	bookingsRepo bookingrepo.Repository,
	packagesRepo packagerepo.Repository,
	groupsRepo grouprepo.Repository,
	clk clockport.Clock,
	log zerolog.Logger,
) *Service {
	return &Service{
		bookings:     bookingsRepo,
		packages:     packagesRepo,
		groups:       groupsRepo,
		clock:        clk,
		log:          log.With().Str("component", "bookings").Logger(),
		newReference: uuid.NewString,
	}
}

// SetNewReferenceForTest overrides confirmation reference generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewReferenceForTest(fn func() string) {
	if fn != nil {
		s.newReference = fn
	}
}

func (s *Service) GetAll(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id domain.BookingID) (domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return domain.Booking{}, mapRepoErr(err)
	}
	return b, nil
}

// Search filters and orders bookings. Bookings and packages are loaded concurrently.
func (s *Service) Search(ctx context.Context, q search.BookingQuery) ([]domain.Booking, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	var (
		bs []domain.Booking
		ps []domain.Package
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		bs, err = s.bookings.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		ps, err = s.packages.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return search.Bookings(bs, ps, q)
}

// Create validates the booking, reserves group seats when a group is given and stores it.
// The total price is always computed here from the package price.
func (s *Service) Create(ctx context.Context, in CreateBookingInput) (b domain.Booking, err error) {
	defer func() { metrics.RecordBooking("create", err, isRejected) }()

	travelers := normalizeTravelers(in.Travelers)
	if err := ValidateTravelers(TravelersStage{Travelers: travelers}); err != nil {
		return domain.Booking{}, err
	}

	pkg, err := s.packages.GetByID(ctx, in.PackageID)
	if err != nil {
		if errors.Is(err, packagerepo.ErrNotFound) {
			return domain.Booking{}, apperr.Invalid("packageId", "package does not exist")
		}
		return domain.Booking{}, err
	}

	details := normalizeTripDetails(TripDetailsStage{
		DepartureDate:    in.DepartureDate,
		EmergencyContact: in.EmergencyContact,
		SpecialRequests:  in.SpecialRequests,
	})
	var group *domain.Group
	if in.GroupID != nil {
		g, err := s.bookableGroup(ctx, *in.GroupID, pkg.ID, len(travelers))
		if err != nil {
			return domain.Booking{}, err
		}
		if !details.DepartureDate.IsZero() && !details.DepartureDate.Equal(g.DepartureDate) {
			return domain.Booking{}, apperr.Invalid("departureDate", "must match the group's departure date")
		}
		details.DepartureDate = g.DepartureDate
		details.DepartureFixed = true
		group = &g
	}
	if err := ValidateTripDetails(details, clockport.Today(s.clock)); err != nil {
		return domain.Booking{}, err
	}

	method := in.PaymentMethod
	if method == "" {
		method = domain.PaymentMethods[0]
	}
	if err := ValidatePayment(PaymentStage{Method: method}); err != nil {
		return domain.Booking{}, err
	}

	status := in.Status
	switch status {
	case "":
		status = domain.BookingStatusConfirmed
	case domain.BookingStatusConfirmed, domain.BookingStatusPending:
	default:
		return domain.Booking{}, apperr.Invalid("status", "must be confirmed or pending")
	}

	if group != nil {
		if _, err := s.groups.Reserve(ctx, group.ID, len(travelers)); err != nil {
			return domain.Booking{}, s.mapReserveErr(ctx, err, *group, len(travelers))
		}
	}

	b = domain.Booking{
		PackageID:        pkg.ID,
		Travelers:        travelers,
		DepartureDate:    details.DepartureDate,
		SpecialRequests:  details.SpecialRequests,
		EmergencyContact: details.EmergencyContact,
		PaymentMethod:    method,
		TotalPrice:       domain.BookingTotal(pkg.Price, len(travelers)),
		BookingDate:      s.clock.Now().UTC(),
		Status:           status,
		Reference:        s.newReference(),
	}
	if group != nil {
		gid := group.ID
		b.GroupID = &gid
	}

	created, err := s.bookings.Create(ctx, b)
	if err != nil {
		if group != nil {
			// Give the seats back; ctx may already be done.
			if _, relErr := s.groups.Release(context.WithoutCancel(ctx), group.ID, len(travelers)); relErr != nil {
				s.log.Error().Err(relErr).Int("groupId", int(group.ID)).Msg("release seats after failed booking")
			}
		}
		return domain.Booking{}, mapRepoErr(err)
	}

	ev := s.log.Info().
		Int("bookingId", int(created.ID)).
		Int("packageId", int(created.PackageID)).
		Int("travelers", len(created.Travelers)).
		Int("totalPrice", created.TotalPrice)
	if created.GroupID != nil {
		ev = ev.Int("groupId", int(*created.GroupID))
	}
	ev.Msg("booking created")
	return created, nil
}

// Update applies a status transition and/or new special requests under the store's lock.
// Moving to cancelled releases the booking's group seats exactly once.
func (s *Service) Update(ctx context.Context, id domain.BookingID, in UpdateBookingInput) (b domain.Booking, err error) {
	defer func() { metrics.RecordBooking("update", err, isRejected) }()

	if in.Status.IsNull() {
		return domain.Booking{}, apperr.Invalid("status", "cannot be null")
	}
	if in.Status.HasValue() && !in.Status.Value().Valid() {
		return domain.Booking{}, apperr.Invalid("status", "must be one of confirmed, pending, cancelled")
	}

	releasing := false
	b, err = s.bookings.Update(ctx, id, func(b *domain.Booking) error {
		releasing = false
		if in.Status.HasValue() {
			next := in.Status.Value()
			if !b.Status.CanTransitionTo(next) {
				return apperr.InvalidStatusChange(string(b.Status), string(next))
			}
			releasing = next == domain.BookingStatusCancelled && b.Status != domain.BookingStatusCancelled
			b.Status = next
		}
		if in.SpecialRequests.IsSpecified() {
			b.SpecialRequests = normalizeTripDetails(TripDetailsStage{SpecialRequests: in.SpecialRequests.Value()}).SpecialRequests
		}
		return nil
	})
	if err != nil {
		return domain.Booking{}, mapRepoErr(err)
	}
	if releasing {
		s.releaseSeats(ctx, b)
		s.log.Info().Int("bookingId", int(b.ID)).Msg("booking cancelled")
	}
	return b, nil
}

// Delete cancels the booking by removing it. Seats it still holds in a group are released.
func (s *Service) Delete(ctx context.Context, id domain.BookingID) (err error) {
	defer func() { metrics.RecordBooking("delete", err, isRejected) }()

	b, err := s.bookings.Delete(ctx, id)
	if err != nil {
		return mapRepoErr(err)
	}
	if b.Status != domain.BookingStatusCancelled {
		s.releaseSeats(ctx, b)
	}
	s.log.Info().Int("bookingId", int(id)).Msg("booking cancelled")
	return nil
}

func (s *Service) releaseSeats(ctx context.Context, b domain.Booking) {
	if b.GroupID == nil {
		return
	}
	_, err := s.groups.Release(context.WithoutCancel(ctx), *b.GroupID, len(b.Travelers))
	if err != nil && !errors.Is(err, grouprepo.ErrNotFound) {
		s.log.Error().Err(err).Int("bookingId", int(b.ID)).Int("groupId", int(*b.GroupID)).Msg("release seats")
	}
}

// bookableGroup loads the group and checks it belongs to the package and can seat n more travelers.
func (s *Service) bookableGroup(ctx context.Context, id domain.GroupID, pkgID domain.PackageID, n int) (domain.Group, error) {
	g, err := s.groups.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, grouprepo.ErrNotFound) {
			return domain.Group{}, apperr.Invalid("groupId", "group does not exist")
		}
		return domain.Group{}, err
	}
	if g.PackageID != pkgID {
		return domain.Group{}, apperr.Invalid("groupId", "group belongs to a different package")
	}
	if g.Status == domain.GroupStatusClosed {
		return domain.Group{}, apperr.Invalid("groupId", "group is closed")
	}
	if !g.CanSeat(n) {
		return domain.Group{}, apperr.CapacityExceeded(g.CurrentMembers, g.MaxMembers, n)
	}
	return g, nil
}

func (s *Service) mapReserveErr(ctx context.Context, err error, g domain.Group, n int) error {
	switch {
	case errors.Is(err, grouprepo.ErrCapacityExceeded):
		// Someone else took the seats between the check and the reservation.
		cur, getErr := s.groups.GetByID(context.WithoutCancel(ctx), g.ID)
		if getErr == nil {
			g = cur
		}
		return apperr.CapacityExceeded(g.CurrentMembers, g.MaxMembers, n)
	case errors.Is(err, grouprepo.ErrNotFound):
		return apperr.Invalid("groupId", "group does not exist")
	default:
		return err
	}
}

func isRejected(err error) bool {
	_, ok := apperr.As(err)
	return ok
}

func mapRepoErr(err error) error {
	switch {
	case errors.Is(err, bookingrepo.ErrNotFound):
		return apperr.NotFound(apperr.CodeBookingNotFound, "booking not found")
	case errors.Is(err, bookingrepo.ErrEmptyCollection):
		return apperr.CreationPrecondition("bookings")
	default:
		return err
	}
}
