package bookings_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	membookingrepo "github.com/ridgeline-travel/tripbook-api/internal/adapters/memory/bookingrepo"
	memclock "github.com/ridgeline-travel/tripbook-api/internal/adapters/memory/clock"
	memgrouprepo "github.com/ridgeline-travel/tripbook-api/internal/adapters/memory/grouprepo"
	mempackagerepo "github.com/ridgeline-travel/tripbook-api/internal/adapters/memory/packagerepo"
	"github.com/ridgeline-travel/tripbook-api/internal/adapters/memory/table"
	memwizardstore "github.com/ridgeline-travel/tripbook-api/internal/adapters/memory/wizardstore"
	"github.com/ridgeline-travel/tripbook-api/internal/app/bookings"
	"github.com/ridgeline-travel/tripbook-api/internal/domain"
	"github.com/ridgeline-travel/tripbook-api/internal/ports/out/bookingrepo"
)

var (
	now       = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)
	today     = time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	departure = time.Date(2027, 3, 3, 0, 0, 0, 0, time.UTC)
)

const (
	pkgStandard domain.PackageID = 1 // price 10000, no groups
	pkgTiger    domain.PackageID = 5 // price 18000
	groupTiger  domain.GroupID   = 7 // 5 of 6 seats taken
)

type fixture struct {
	svc      *bookings.Service
	wizards  *bookings.WizardService
	packages *mempackagerepo.Repo
	groups   *memgrouprepo.Repo
	bookings *membookingrepo.Repo
	sessions *memwizardstore.Store[*bookings.Wizard]
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	return newFixtureWithBookings(t, nil)
}

// newFixtureWithBookings lets a test swap the booking repository; nil uses the in-memory one.
func newFixtureWithBookings(t *testing.T, override bookingrepo.Repository) fixture {
	t.Helper()
	return newFixtureWithOptions(t, table.Options{}, override)
}

func newFixtureWithOptions(t *testing.T, opts table.Options, override bookingrepo.Repository) fixture {
	t.Helper()

	pkgs := mempackagerepo.NewRepo(opts)
	require.NoError(t, pkgs.Seed(
		domain.Package{ID: pkgStandard, Title: "Goa Sun and Sand", Destination: "Goa", Duration: domain.Duration{Days: 5, Nights: 4}, Price: 10000, MaxGroupSize: 10},
		domain.Package{ID: pkgTiger, Title: "Ranthambore Tiger Trail", Destination: "Sawai Madhopur", Duration: domain.Duration{Days: 4, Nights: 3}, Price: 18000, MaxGroupSize: 6, GroupsAvailable: 1},
	))
	groups := memgrouprepo.NewRepo(opts)
	require.NoError(t, groups.Seed(
		domain.Group{ID: groupTiger, PackageID: pkgTiger, Destination: "Sawai Madhopur", DepartureDate: departure, MaxMembers: 6, CurrentMembers: 5, Status: domain.GroupStatusOpen},
	))
	mem := membookingrepo.NewRepo(opts)
	var repo bookingrepo.Repository = mem
	if override != nil {
		repo = override
	}

	svc := bookings.NewService(repo, pkgs, groups, memclock.NewManualClock(now), zerolog.Nop())
	refs := 0
	svc.SetNewReferenceForTest(func() string {
		refs++
		return "ref-" + string(rune('0'+refs))
	})
	sessions := memwizardstore.NewStore[*bookings.Wizard](memwizardstore.Options{})
	return fixture{
		svc:      svc,
		wizards:  bookings.NewWizardService(sessions, svc, zerolog.Nop()),
		packages: pkgs,
		groups:   groups,
		bookings: mem,
		sessions: sessions,
	}
}

func traveler(name string, age int) domain.Traveler {
	return domain.Traveler{Name: name, Email: name + "@example.com", Phone: "+91 99000 00000", Age: age}
}

func contact() domain.EmergencyContact {
	return domain.EmergencyContact{Name: "Farah Iqbal", Phone: "+91 99000 10003", Relation: "Sister"}
}

type failingBookingRepo struct {
	bookingrepo.Repository
}

var errStoreDown = errors.New("store down")

func (failingBookingRepo) Create(context.Context, domain.Booking) (domain.Booking, error) {
	return domain.Booking{}, errStoreDown
}
