package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/fr0stylo/sponsorboard/internal/app/domain"
	"github.com/fr0stylo/sponsorboard/internal/app/ports"
	"github.com/fr0stylo/sponsorboard/internal/db"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.New(filepath.Join(t.TempDir(), "store-test"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return NewStore(database)
}

func TestStoreSponsorRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)

	level, err := store.CreateLevel(ctx, "Gold")
	if err != nil {
		t.Fatalf("create level: %v", err)
	}
	created, err := store.CreateSponsor(ctx, domain.Sponsor{
		Name:        "Acme",
		LogoURL:     "3f1c2a4e-8b9d-4c1e-a2f3-0123456789ab",
		LogoKind:    domain.LogoKindMedia,
		WebsiteURL:  "https://acme.example.com",
		Description: "Rockets",
		LevelID:     level.ID,
	})
	if err != nil {
		t.Fatalf("create sponsor: %v", err)
	}

	loaded, err := store.GetSponsor(ctx, created.ID)
	if err != nil {
		t.Fatalf("get sponsor: %v", err)
	}
	if loaded != created {
		t.Fatalf("round trip mismatch: got %+v want %+v", loaded, created)
	}

	owner, err := store.GetSponsorByLogo(ctx, created.LogoURL)
	if err != nil {
		t.Fatalf("get sponsor by logo: %v", err)
	}
	if owner.ID != created.ID {
		t.Fatalf("unexpected media owner %+v", owner)
	}

	loaded.Name = "Acme Corp"
	loaded.LogoURL = ""
	loaded.LogoKind = domain.LogoKindNone
	updated, err := store.UpdateSponsor(ctx, loaded)
	if err != nil {
		t.Fatalf("update sponsor: %v", err)
	}
	if updated.Name != "Acme Corp" || updated.LogoKind != domain.LogoKindNone {
		t.Fatalf("unexpected updated sponsor %+v", updated)
	}
	if _, err := store.GetSponsorByLogo(ctx, created.LogoURL); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected cleared media logo to have no owner, got %v", err)
	}
}

func TestStoreMapsMissingRowsToNotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.GetLevel(ctx, 42); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for level, got %v", err)
	}
	if _, err := store.GetSponsor(ctx, 42); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for sponsor, got %v", err)
	}
	if _, err := store.UpdateLevel(ctx, 42, "x"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for level update, got %v", err)
	}
	if err := store.DeleteSponsor(ctx, 42); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for sponsor delete, got %v", err)
	}
	if err := store.DeleteLevel(ctx, 42); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for level delete, got %v", err)
	}
}

func TestStoreRefusesDeletingReferencedLevel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)
	level, _ := store.CreateLevel(ctx, "Gold")
	if _, err := store.CreateSponsor(ctx, domain.Sponsor{Name: "Acme", LevelID: level.ID}); err != nil {
		t.Fatalf("create sponsor: %v", err)
	}

	if err := store.DeleteLevel(ctx, level.ID); !errors.Is(err, ports.ErrReferenced) {
		t.Fatalf("expected ErrReferenced, got %v", err)
	}
	count, err := store.CountSponsorsByLevel(ctx, level.ID)
	if err != nil || count != 1 {
		t.Fatalf("expected one sponsor still attached, got %d (%v)", count, err)
	}
}

func TestStoreListsInInsertionOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)
	gold, _ := store.CreateLevel(ctx, "Gold")
	silver, _ := store.CreateLevel(ctx, "Silver")
	for _, s := range []domain.Sponsor{
		{Name: "Zeta", LevelID: gold.ID},
		{Name: "Acme", LevelID: silver.ID},
		{Name: "Beta", LevelID: gold.ID},
	} {
		if _, err := store.CreateSponsor(ctx, s); err != nil {
			t.Fatalf("create sponsor: %v", err)
		}
	}

	levels, err := store.ListLevels(ctx)
	if err != nil || len(levels) != 2 || levels[0].Name != "Gold" {
		t.Fatalf("unexpected levels %+v (%v)", levels, err)
	}
	byGold, err := store.ListSponsorsByLevel(ctx, gold.ID)
	if err != nil {
		t.Fatalf("list by level: %v", err)
	}
	if len(byGold) != 2 || byGold[0].Name != "Zeta" || byGold[1].Name != "Beta" {
		t.Fatalf("unexpected gold sponsors %+v", byGold)
	}
}
