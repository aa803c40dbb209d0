package grouprepo

import (
	"context"
	"errors"

	"github.com/ridgeline-travel/tripbook-api/internal/adapters/memory/table"
	"github.com/ridgeline-travel/tripbook-api/internal/domain"
	"github.com/ridgeline-travel/tripbook-api/internal/ports/out/grouprepo"
)

// Repo is an in-memory implementation of grouprepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	t *table.Table[domain.GroupID, domain.Group]
}

func NewRepo(opts table.Options) *Repo {
	return &Repo{t: table.New[domain.GroupID](func(g domain.Group) domain.Group { return g }, opts)}
}

// Seed loads groups with their existing identifiers.
func (r *Repo) Seed(gs ...domain.Group) error {
	for _, g := range gs {
		if err := r.t.Seed(g.ID, g); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Group, error) {
	return r.t.List(ctx, nil)
}

func (r *Repo) ListByPackage(ctx context.Context, packageID domain.PackageID) ([]domain.Group, error) {
	return r.t.List(ctx, func(g domain.Group) bool { return g.PackageID == packageID })
}

func (r *Repo) GetByID(ctx context.Context, id domain.GroupID) (domain.Group, error) {
	g, ok, err := r.t.Get(ctx, id)
	if err != nil {
		return domain.Group{}, err
	}
	if !ok {
		return domain.Group{}, grouprepo.ErrNotFound
	}
	return g, nil
}

func (r *Repo) Create(ctx context.Context, g domain.Group) (domain.Group, error) {
	out, err := r.t.Insert(ctx, func(id domain.GroupID) domain.Group {
		g.ID = id
		return g
	})
	if errors.Is(err, table.ErrEmpty) {
		return domain.Group{}, grouprepo.ErrEmptyCollection
	}
	return out, err
}

func (r *Repo) Update(ctx context.Context, id domain.GroupID, fn func(*domain.Group) error) (domain.Group, error) {
	return r.mutate(ctx, id, fn)
}

func (r *Repo) Delete(ctx context.Context, id domain.GroupID) error {
	_, ok, err := r.t.Remove(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return grouprepo.ErrNotFound
	}
	return nil
}

func (r *Repo) Reserve(ctx context.Context, id domain.GroupID, seats int) (domain.Group, error) {
	return r.mutate(ctx, id, func(g *domain.Group) error {
		if !g.CanSeat(seats) {
			return grouprepo.ErrCapacityExceeded
		}
		g.CurrentMembers += seats
		g.Status = g.StatusForMembership()
		return nil
	})
}

func (r *Repo) Release(ctx context.Context, id domain.GroupID, seats int) (domain.Group, error) {
	return r.mutate(ctx, id, func(g *domain.Group) error {
		g.CurrentMembers -= seats
		if g.CurrentMembers < 0 {
			g.CurrentMembers = 0
		}
		g.Status = g.StatusForMembership()
		return nil
	})
}

func (r *Repo) mutate(ctx context.Context, id domain.GroupID, fn func(*domain.Group) error) (domain.Group, error) {
	g, ok, err := r.t.Mutate(ctx, id, fn)
	if !ok && err == nil {
		return domain.Group{}, grouprepo.ErrNotFound
	}
	if err != nil {
		return domain.Group{}, err
	}
	return g, nil
}
