package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ridgeline-travel/tripbook-api/internal/domain"
	bookingrepoport "github.com/ridgeline-travel/tripbook-api/internal/ports/out/bookingrepo"
	grouprepoport "github.com/ridgeline-travel/tripbook-api/internal/ports/out/grouprepo"
	idempotencyport "github.com/ridgeline-travel/tripbook-api/internal/ports/out/idempotency"
	packagerepoport "github.com/ridgeline-travel/tripbook-api/internal/ports/out/packagerepo"
)

type CleanupFunc = func()

type PackageRepoFactory func(t *testing.T) (packagerepoport.Repository, CleanupFunc)
type GroupRepoFactory func(t *testing.T) (grouprepoport.Repository, CleanupFunc)
type BookingRepoFactory func(t *testing.T) (bookingrepoport.Repository, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

// Factories must return empty repositories.

var errRejected = errors.New("rejected by update func")

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	fp := idempotencyport.Fingerprint{
		Key:      "k-1",
		Method:   "POST",
		Route:    "/bookings",
		BodyHash: "body-1",
	}
	rec := idempotencyport.Record{
		StatusCode:  201,
		ContentType: "application/json",
		Body:        []byte(`{"id":1}`),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}
	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if string(got.Body) != `{"id":1}` || got.ContentType != "application/json" || got.StatusCode != 201 {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte(`{"id":2}`)
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, fp)
	if err != nil || !ok || string(got.Body) != `{"id":2}` {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}
}

func RunPackageRepo(t *testing.T, newRepo PackageRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	a, err := repo.Create(ctx, domain.Package{Title: "Ladakh", Destination: "Leh", Price: 30000, Images: []string{"a.jpg"}})
	if err != nil {
		t.Fatalf("Create a: %v", err)
	}
	b, err := repo.Create(ctx, domain.Package{Title: "Goa", Destination: "Goa", Price: 12000})
	if err != nil {
		t.Fatalf("Create b: %v", err)
	}
	if a.ID <= 0 || b.ID != a.ID+1 {
		t.Fatalf("ids a=%d b=%d, want consecutive positive", a.ID, b.ID)
	}

	// Returned values are copies.
	a.Images[0] = "mutated.jpg"
	got, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Images[0] != "a.jpg" {
		t.Fatalf("stored package was mutated through a returned copy: %v", got.Images)
	}

	if _, err := repo.Update(ctx, a.ID, func(p *domain.Package) error {
		p.Price = 31000
		p.Images = nil
		return errRejected
	}); !errors.Is(err, errRejected) {
		t.Fatalf("Update(rejected) err=%v, want %v", err, errRejected)
	}
	updated, err := repo.Update(ctx, a.ID, func(p *domain.Package) error {
		p.Price = 31000
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Price != 31000 || len(updated.Images) != 1 {
		t.Fatalf("updated=%+v, want price=31000 with images kept", updated)
	}
	if _, err := repo.Update(ctx, 9999, func(*domain.Package) error { return nil }); !errors.Is(err, packagerepoport.ErrNotFound) {
		t.Fatalf("Update(nonexistent) err=%v, want %v", err, packagerepoport.ErrNotFound)
	}

	adj, err := repo.AdjustGroupsAvailable(ctx, a.ID, -5)
	if err != nil {
		t.Fatalf("AdjustGroupsAvailable: %v", err)
	}
	if adj.GroupsAvailable != 0 || adj.Price != 31000 {
		t.Fatalf("adjusted=%+v, want groupsAvailable=0 price=31000", adj)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != a.ID || list[1].ID != b.ID {
		t.Fatalf("List order=%v", list)
	}

	if err := repo.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, a.ID); !errors.Is(err, packagerepoport.ErrNotFound) {
		t.Fatalf("GetByID(deleted) err=%v, want %v", err, packagerepoport.ErrNotFound)
	}
	if err := repo.Delete(ctx, a.ID); !errors.Is(err, packagerepoport.ErrNotFound) {
		t.Fatalf("Delete(deleted) err=%v, want %v", err, packagerepoport.ErrNotFound)
	}
}

func RunGroupRepo(t *testing.T, newRepo GroupRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	dep := time.Date(2030, 3, 1, 0, 0, 0, 0, time.UTC)
	g1, err := repo.Create(ctx, domain.Group{PackageID: 1, DepartureDate: dep, MaxMembers: 6, CurrentMembers: 5, Status: domain.GroupStatusOpen})
	if err != nil {
		t.Fatalf("Create g1: %v", err)
	}
	if _, err := repo.Create(ctx, domain.Group{PackageID: 2, DepartureDate: dep, MaxMembers: 10, CurrentMembers: 1}); err != nil {
		t.Fatalf("Create g2: %v", err)
	}
	g3, err := repo.Create(ctx, domain.Group{PackageID: 1, DepartureDate: dep, MaxMembers: 4, CurrentMembers: 1})
	if err != nil {
		t.Fatalf("Create g3: %v", err)
	}

	byPkg, err := repo.ListByPackage(ctx, 1)
	if err != nil {
		t.Fatalf("ListByPackage: %v", err)
	}
	if len(byPkg) != 2 || byPkg[0].ID != g1.ID || byPkg[1].ID != g3.ID {
		t.Fatalf("ListByPackage=%v, want [g1 g3]", byPkg)
	}

	// Capacity: 5 + 2 > 6 rejected, 5 + 1 accepted and marks the group full.
	if _, err := repo.Reserve(ctx, g1.ID, 2); !errors.Is(err, grouprepoport.ErrCapacityExceeded) {
		t.Fatalf("Reserve(2) err=%v, want %v", err, grouprepoport.ErrCapacityExceeded)
	}
	full, err := repo.Reserve(ctx, g1.ID, 1)
	if err != nil {
		t.Fatalf("Reserve(1): %v", err)
	}
	if full.CurrentMembers != 6 || full.Status != domain.GroupStatusFull {
		t.Fatalf("after reserve=%+v, want currentMembers=6 status=full", full)
	}
	open, err := repo.Release(ctx, g1.ID, 10)
	if err != nil {
		t.Fatalf("Release: %v", err)
	}
	if open.CurrentMembers != 0 || open.Status != domain.GroupStatusOpen {
		t.Fatalf("after release=%+v, want currentMembers=0 status=open", open)
	}
	if _, err := repo.Reserve(ctx, 9999, 1); !errors.Is(err, grouprepoport.ErrNotFound) {
		t.Fatalf("Reserve(nonexistent) err=%v, want %v", err, grouprepoport.ErrNotFound)
	}

	if _, err := repo.Update(ctx, g3.ID, func(g *domain.Group) error {
		g.MaxMembers = 0
		return errRejected
	}); !errors.Is(err, errRejected) {
		t.Fatalf("Update(rejected) err=%v, want %v", err, errRejected)
	}
	described, err := repo.Update(ctx, g3.ID, func(g *domain.Group) error {
		g.Description = "weekend"
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if described.Description != "weekend" || described.MaxMembers != 4 {
		t.Fatalf("updated=%+v, want description=weekend maxMembers=4", described)
	}
	if _, err := repo.Update(ctx, 9999, func(*domain.Group) error { return nil }); !errors.Is(err, grouprepoport.ErrNotFound) {
		t.Fatalf("Update(nonexistent) err=%v, want %v", err, grouprepoport.ErrNotFound)
	}

	if err := repo.Delete(ctx, g3.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("List len=%d, want 2", len(all))
	}
}

func RunBookingRepo(t *testing.T, newRepo BookingRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	gid := domain.GroupID(3)
	b, err := repo.Create(ctx, domain.Booking{
		PackageID: 1,
		GroupID:   &gid,
		Travelers: []domain.Traveler{{Name: "Asha", Email: "asha@example.com", Phone: "+91 98000 00000", Age: 31}},
		Status:    domain.BookingStatusConfirmed,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Mutating the returned booking must not leak into the store.
	*b.GroupID = 99
	b.Travelers[0].Name = "Changed"
	got, err := repo.GetByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if *got.GroupID != 3 || got.Travelers[0].Name != "Asha" {
		t.Fatalf("stored booking was mutated: %+v", got)
	}

	if _, err := repo.Update(ctx, got.ID, func(b *domain.Booking) error {
		b.Status = domain.BookingStatusCancelled
		return nil
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	removed, err := repo.Delete(ctx, got.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if removed.Status != domain.BookingStatusCancelled || len(removed.Travelers) != 1 {
		t.Fatalf("Delete returned %+v, want the cancelled booking", removed)
	}
	if _, err := repo.Delete(ctx, got.ID); !errors.Is(err, bookingrepoport.ErrNotFound) {
		t.Fatalf("Delete(deleted) err=%v, want %v", err, bookingrepoport.ErrNotFound)
	}
	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("List after delete=%v, want empty", list)
	}
	if _, err := repo.GetByID(ctx, got.ID); !errors.Is(err, bookingrepoport.ErrNotFound) {
		t.Fatalf("GetByID(deleted) err=%v, want %v", err, bookingrepoport.ErrNotFound)
	}
}
