package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fr0stylo/sponsorboard/internal/app/domain"
	"github.com/fr0stylo/sponsorboard/internal/app/ports"
)

func TestMapError(t *testing.T) {
	if err := mapError(nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if err := mapError(fmt.Errorf("wrapped: %w", pgx.ErrNoRows)); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	fk := &pgconn.PgError{Code: foreignKeyViolation, ConstraintName: "sponsors_level_id_fkey"}
	if err := mapError(fk); !errors.Is(err, ports.ErrReferenced) {
		t.Fatalf("expected ErrReferenced, got %v", err)
	}
	other := errors.New("boom")
	if err := mapError(other); err != other {
		t.Fatalf("expected passthrough, got %v", err)
	}
}

// TestStoreAgainstPostgres runs only when SPONSORS_TEST_POSTGRES_DSN points
// at a disposable database.
func TestStoreAgainstPostgres(t *testing.T) {
	dsn := os.Getenv("SPONSORS_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SPONSORS_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	store, err := Open(ctx, dsn)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	level, err := store.CreateLevel(ctx, "Gold")
	if err != nil {
		t.Fatalf("create level: %v", err)
	}
	sponsor, err := store.CreateSponsor(ctx, domain.Sponsor{Name: "Acme", LevelID: level.ID})
	if err != nil {
		t.Fatalf("create sponsor: %v", err)
	}
	if sponsor.LogoKind != domain.LogoKindNone {
		t.Fatalf("expected none logo kind, got %q", sponsor.LogoKind)
	}

	if err := store.DeleteLevel(ctx, level.ID); !errors.Is(err, ports.ErrReferenced) {
		t.Fatalf("expected ErrReferenced, got %v", err)
	}
	if err := store.DeleteSponsor(ctx, sponsor.ID); err != nil {
		t.Fatalf("delete sponsor: %v", err)
	}
	if err := store.DeleteLevel(ctx, level.ID); err != nil {
		t.Fatalf("delete level: %v", err)
	}
	if _, err := store.GetLevel(ctx, level.ID); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
