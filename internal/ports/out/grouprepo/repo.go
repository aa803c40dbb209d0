package grouprepo

import (
	"context"

	"github.com/ridgeline-travel/tripbook-api/internal/domain"
)

// Repository provides access to stored groups.
//
// Result ordering expectations:
// - List methods return groups in insertion order.
type Repository interface {
	List(ctx context.Context) ([]domain.Group, error)
	// ListByPackage returns the groups whose PackageID equals packageID exactly.
	ListByPackage(ctx context.Context, packageID domain.PackageID) ([]domain.Group, error)
	GetByID(ctx context.Context, id domain.GroupID) (domain.Group, error)
	Create(ctx context.Context, g domain.Group) (domain.Group, error)
	// Update applies fn to the stored group atomically. Nothing is stored when fn fails;
	// its error is returned as is.
	Update(ctx context.Context, id domain.GroupID, fn func(*domain.Group) error) (domain.Group, error)
	Delete(ctx context.Context, id domain.GroupID) error

	// Reserve adds seats to CurrentMembers if they fit, else returns ErrCapacityExceeded.
	// The check and the increment happen atomically.
	Reserve(ctx context.Context, id domain.GroupID, seats int) (domain.Group, error)
	// Release removes seats from CurrentMembers, never going below zero.
	Release(ctx context.Context, id domain.GroupID, seats int) (domain.Group, error)
}
