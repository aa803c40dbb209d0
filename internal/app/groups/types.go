package groups

import (
	"time"

	"github.com/ridgeline-travel/tripbook-api/internal/app/patch"
	"github.com/ridgeline-travel/tripbook-api/internal/domain"
)

// MinMembers is the smallest group a leader may form.
const MinMembers = 2

type CreateGroupInput struct {
	PackageID     domain.PackageID
	DepartureDate time.Time
	MaxMembers    int
	Leader        domain.Leader
	Description   string
}

type UpdateGroupInput struct {
	DepartureDate  patch.Optional[time.Time]
	MaxMembers     patch.Optional[int]
	CurrentMembers patch.Optional[int]
	LeaderName     patch.Optional[string]
	LeaderEmail    patch.Optional[string]
	LeaderPhone    patch.Optional[string]
	Description    patch.Optional[string] // null clears
	// Status accepts open or closed; full is derived from membership.
	Status patch.Optional[domain.GroupStatus]
}

// Board is the group travel listing: every group plus the packages they reference.
type Board struct {
	Groups   []domain.Group
	Packages []domain.Package
}
