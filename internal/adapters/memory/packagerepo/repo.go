package packagerepo

import (
	"context"
	"errors"

	"github.com/ridgeline-travel/tripbook-api/internal/adapters/memory/table"
	"github.com/ridgeline-travel/tripbook-api/internal/domain"
	"github.com/ridgeline-travel/tripbook-api/internal/ports/out/packagerepo"
)

// Repo is an in-memory implementation of packagerepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	t *table.Table[domain.PackageID, domain.Package]
}

func NewRepo(opts table.Options) *Repo {
	return &Repo{t: table.New[domain.PackageID](domain.ClonePackage, opts)}
}

// Seed loads packages with their existing identifiers.
func (r *Repo) Seed(ps ...domain.Package) error {
	for _, p := range ps {
		if err := r.t.Seed(p.ID, p); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Package, error) {
	return r.t.List(ctx, nil)
}

func (r *Repo) GetByID(ctx context.Context, id domain.PackageID) (domain.Package, error) {
	p, ok, err := r.t.Get(ctx, id)
	if err != nil {
		return domain.Package{}, err
	}
	if !ok {
		return domain.Package{}, packagerepo.ErrNotFound
	}
	return p, nil
}

func (r *Repo) Create(ctx context.Context, p domain.Package) (domain.Package, error) {
	out, err := r.t.Insert(ctx, func(id domain.PackageID) domain.Package {
		p.ID = id
		return p
	})
	if errors.Is(err, table.ErrEmpty) {
		return domain.Package{}, packagerepo.ErrEmptyCollection
	}
	return out, err
}

func (r *Repo) Update(ctx context.Context, id domain.PackageID, fn func(*domain.Package) error) (domain.Package, error) {
	p, ok, err := r.t.Mutate(ctx, id, fn)
	if err != nil {
		return domain.Package{}, err
	}
	if !ok {
		return domain.Package{}, packagerepo.ErrNotFound
	}
	return p, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.PackageID) error {
	_, ok, err := r.t.Remove(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return packagerepo.ErrNotFound
	}
	return nil
}

func (r *Repo) AdjustGroupsAvailable(ctx context.Context, id domain.PackageID, delta int) (domain.Package, error) {
	return r.Update(ctx, id, func(p *domain.Package) error {
		p.GroupsAvailable += delta
		if p.GroupsAvailable < 0 {
			p.GroupsAvailable = 0
		}
		return nil
	})
}
