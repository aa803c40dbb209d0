package packagerepo

import (
	"context"

	"github.com/ridgeline-travel/tripbook-api/internal/domain"
)

// Repository provides access to stored packages.
//
// Implementations hand out independent copies; callers never share memory with the store.
// List returns packages in insertion order.
type Repository interface {
	List(ctx context.Context) ([]domain.Package, error)
	GetByID(ctx context.Context, id domain.PackageID) (domain.Package, error)
	// Create assigns the next identifier, ignoring p.ID.
	Create(ctx context.Context, p domain.Package) (domain.Package, error)
	// Update applies fn to the stored package atomically; ErrNotFound if it does not exist.
	// Nothing is stored when fn fails.
	Update(ctx context.Context, id domain.PackageID, fn func(*domain.Package) error) (domain.Package, error)
	Delete(ctx context.Context, id domain.PackageID) error
	// AdjustGroupsAvailable atomically adds delta to GroupsAvailable, clamping at zero.
	AdjustGroupsAvailable(ctx context.Context, id domain.PackageID, delta int) (domain.Package, error)
}
