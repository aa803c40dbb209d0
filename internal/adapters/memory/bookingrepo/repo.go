package bookingrepo

import (
	"context"
	"errors"

	"github.com/ridgeline-travel/tripbook-api/internal/adapters/memory/table"
	"github.com/ridgeline-travel/tripbook-api/internal/domain"
	"github.com/ridgeline-travel/tripbook-api/internal/ports/out/bookingrepo"
)

// Repo is an in-memory implementation of bookingrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	t *table.Table[domain.BookingID, domain.Booking]
}

func NewRepo(opts table.Options) *Repo {
	return &Repo{t: table.New[domain.BookingID](domain.CloneBooking, opts)}
}

// Seed loads bookings with their existing identifiers.
func (r *Repo) Seed(bs ...domain.Booking) error {
	for _, b := range bs {
		if err := r.t.Seed(b.ID, b); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Booking, error) {
	return r.t.List(ctx, nil)
}

func (r *Repo) GetByID(ctx context.Context, id domain.BookingID) (domain.Booking, error) {
	b, ok, err := r.t.Get(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if !ok {
		return domain.Booking{}, bookingrepo.ErrNotFound
	}
	return b, nil
}

func (r *Repo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	out, err := r.t.Insert(ctx, func(id domain.BookingID) domain.Booking {
		b.ID = id
		return b
	})
	if errors.Is(err, table.ErrEmpty) {
		return domain.Booking{}, bookingrepo.ErrEmptyCollection
	}
	return out, err
}

func (r *Repo) Update(ctx context.Context, id domain.BookingID, fn func(*domain.Booking) error) (domain.Booking, error) {
	b, ok, err := r.t.Mutate(ctx, id, fn)
	if err != nil {
		return domain.Booking{}, err
	}
	if !ok {
		return domain.Booking{}, bookingrepo.ErrNotFound
	}
	return b, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.BookingID) (domain.Booking, error) {
	b, ok, err := r.t.Remove(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if !ok {
		return domain.Booking{}, bookingrepo.ErrNotFound
	}
	return b, nil
}
