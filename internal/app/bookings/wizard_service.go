package bookings

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/ridgeline-travel/tripbook-api/internal/app/apperr"
	"github.com/ridgeline-travel/tripbook-api/internal/domain"
	"github.com/ridgeline-travel/tripbook-api/internal/platform/metrics"
	clockport "github.com/ridgeline-travel/tripbook-api/internal/ports/out/clock"
	"github.com/ridgeline-travel/tripbook-api/internal/ports/out/grouprepo"
	"github.com/ridgeline-travel/tripbook-api/internal/ports/out/packagerepo"
	"github.com/ridgeline-travel/tripbook-api/internal/ports/out/wizardstore"
)

type StartWizardInput struct {
	PackageID domain.PackageID
	GroupID   *domain.GroupID
}

// WizardView is a snapshot of a wizard session.
type WizardView struct {
	ID          wizardstore.SessionID
	Stage       Stage
	Package     domain.Package
	Group       *domain.Group
	Travelers   []domain.Traveler
	TripDetails TripDetailsStage
	Payment     PaymentStage
	Total       int
	// Booking is set once the wizard is submitted.
	Booking *domain.Booking
}

// WizardService drives booking wizards kept in a session store.
type WizardService struct {
	sessions wizardstore.Store[*Wizard]
	bookings *Service
	log      zerolog.Logger
}

func NewWizardService(sessions wizardstore.Store[*Wizard], bookings *Service, log zerolog.Logger) *WizardService {
	return &WizardService{
		sessions: sessions,
		bookings: bookings,
		log:      log.With().Str("component", "wizard").Logger(),
	}
}

// Start opens a wizard for a package, optionally joining one of its groups.
func (s *WizardService) Start(ctx context.Context, in StartWizardInput) (WizardView, error) {
	pkg, err := s.bookings.packages.GetByID(ctx, in.PackageID)
	if err != nil {
		if errors.Is(err, packagerepo.ErrNotFound) {
			return WizardView{}, apperr.NotFound(apperr.CodePackageNotFound, "package not found")
		}
		return WizardView{}, err
	}

	var group *domain.Group
	if in.GroupID != nil {
		g, err := s.bookings.bookableGroup(ctx, *in.GroupID, pkg.ID, 1)
		if err != nil {
			return WizardView{}, err
		}
		group = &g
	}

	w := NewWizard(pkg, group)
	id, err := s.sessions.Create(ctx, w)
	if err != nil {
		return WizardView{}, err
	}
	metrics.WizardSessions.Inc()
	metrics.RecordWizardTransition("start", w.Stage().String())
	s.log.Debug().Str("wizardId", string(id)).Int("packageId", int(pkg.ID)).Msg("wizard started")
	return view(id, w), nil
}

func (s *WizardService) Get(ctx context.Context, id wizardstore.SessionID) (WizardView, error) {
	return s.apply(ctx, id, func(*Wizard) error { return nil })
}

func (s *WizardService) AddTraveler(ctx context.Context, id wizardstore.SessionID) (WizardView, error) {
	return s.apply(ctx, id, func(w *Wizard) error { return w.AddTraveler() })
}

func (s *WizardService) UpdateTraveler(ctx context.Context, id wizardstore.SessionID, index int, t domain.Traveler) (WizardView, error) {
	return s.apply(ctx, id, func(w *Wizard) error { return w.UpdateTraveler(index, t) })
}

func (s *WizardService) RemoveTraveler(ctx context.Context, id wizardstore.SessionID, index int) (WizardView, error) {
	return s.apply(ctx, id, func(w *Wizard) error { return w.RemoveTraveler(index) })
}

func (s *WizardService) SetTripDetails(ctx context.Context, id wizardstore.SessionID, d TripDetailsStage) (WizardView, error) {
	return s.apply(ctx, id, func(w *Wizard) error { return w.SetTripDetails(d) })
}

func (s *WizardService) SetPayment(ctx context.Context, id wizardstore.SessionID, p PaymentStage) (WizardView, error) {
	return s.apply(ctx, id, func(w *Wizard) error { return w.SetPayment(p) })
}

func (s *WizardService) Next(ctx context.Context, id wizardstore.SessionID) (WizardView, error) {
	return s.apply(ctx, id, func(w *Wizard) error {
		if err := w.Next(clockport.Today(s.bookings.clock)); err != nil {
			return err
		}
		metrics.RecordWizardTransition("next", w.Stage().String())
		return nil
	})
}

func (s *WizardService) Back(ctx context.Context, id wizardstore.SessionID) (WizardView, error) {
	return s.apply(ctx, id, func(w *Wizard) error {
		if err := w.Back(); err != nil {
			return err
		}
		metrics.RecordWizardTransition("back", w.Stage().String())
		return nil
	})
}

// Submit validates every stage and the group's capacity, then creates the booking.
// On failure the wizard stays in review with its data intact.
func (s *WizardService) Submit(ctx context.Context, id wizardstore.SessionID) (WizardView, error) {
	return s.apply(ctx, id, func(w *Wizard) error {
		var group *domain.Group
		if g := w.Group(); g != nil && w.Stage() == StageReviewAndPay {
			cur, err := s.bookings.groups.GetByID(ctx, g.ID)
			if err != nil {
				if errors.Is(err, grouprepo.ErrNotFound) {
					return apperr.Invalid("groupId", "group does not exist")
				}
				return err
			}
			group = &cur
		}
		if err := w.Validate(clockport.Today(s.bookings.clock), group); err != nil {
			return err
		}

		b, err := s.bookings.Create(ctx, w.BookingInput())
		if err != nil {
			s.log.Info().Err(err).Str("wizardId", string(id)).Msg("wizard submit rejected")
			return err
		}
		if group != nil {
			if after, err := s.bookings.groups.GetByID(ctx, group.ID); err == nil {
				group = &after
			}
		}
		w.Complete(b, group)
		metrics.RecordWizardTransition("submit", w.Stage().String())
		return nil
	})
}

// Discard drops the session.
func (s *WizardService) Discard(ctx context.Context, id wizardstore.SessionID) error {
	if err := s.sessions.Delete(ctx, id); err != nil {
		return mapSessionErr(err)
	}
	metrics.WizardSessions.Dec()
	return nil
}

// apply runs fn with exclusive access to the session and snapshots the result.
func (s *WizardService) apply(ctx context.Context, id wizardstore.SessionID, fn func(*Wizard) error) (WizardView, error) {
	var out WizardView
	err := s.sessions.Update(ctx, id, func(w *Wizard) error {
		if err := fn(w); err != nil {
			return err
		}
		out = view(id, w)
		return nil
	})
	if err != nil {
		return WizardView{}, mapSessionErr(err)
	}
	return out, nil
}

func view(id wizardstore.SessionID, w *Wizard) WizardView {
	v := WizardView{
		ID:          id,
		Stage:       w.Stage(),
		Package:     domain.ClonePackage(w.Package()),
		Group:       w.Group(),
		Travelers:   w.Travelers().Travelers,
		TripDetails: w.TripDetails(),
		Payment:     w.Payment(),
		Total:       w.Total(),
	}
	if b, ok := w.Booking(); ok {
		v.Booking = &b
	}
	return v
}

func mapSessionErr(err error) error {
	if errors.Is(err, wizardstore.ErrNotFound) {
		return apperr.NotFound(apperr.CodeWizardNotFound, "wizard session not found")
	}
	return err
}
