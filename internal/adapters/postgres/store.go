package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fr0stylo/sponsorboard/internal/app/domain"
	"github.com/fr0stylo/sponsorboard/internal/app/ports"
	"github.com/fr0stylo/sponsorboard/internal/observability"
)

const dbSystem = "postgresql"

// foreignKeyViolation is the SQLSTATE for a broken FOREIGN KEY reference.
const foreignKeyViolation = "23503"

var _ ports.SponsorStore = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS sponsor_levels (
	id BIGSERIAL PRIMARY KEY,
	name VARCHAR(255) NOT NULL
);

CREATE TABLE IF NOT EXISTS sponsors (
	id BIGSERIAL PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	logo_url VARCHAR(255) NOT NULL DEFAULT '',
	logo_kind TEXT NOT NULL DEFAULT 'none' CHECK (logo_kind IN ('none', 'url', 'media')),
	website_url VARCHAR(255) NOT NULL DEFAULT '',
	description VARCHAR(1000) NOT NULL DEFAULT '',
	level_id BIGINT NOT NULL REFERENCES sponsor_levels(id) ON DELETE RESTRICT
);

CREATE INDEX IF NOT EXISTS idx_sponsors_level_id ON sponsors(level_id);
CREATE INDEX IF NOT EXISTS idx_sponsors_media_logo ON sponsors(logo_url) WHERE logo_kind = 'media';
`

const sponsorColumns = `id, name, logo_url, logo_kind, website_url, description, level_id`

// Store implements ports.SponsorStore over a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if poolConfig.MaxConns < 4 {
		poolConfig.MaxConns = 4
	}
	poolConfig.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Init creates the tables when they do not exist yet.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("init postgres schema: %w", err)
	}
	return nil
}

// Ping checks the pool for readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) ListLevels(ctx context.Context) ([]domain.SponsorLevel, error) {
	ctx, span := observability.StartDBSpan(ctx, dbSystem, "ListSponsorLevels", "query")
	defer span.End()

	rows, err := s.pool.Query(ctx, `SELECT id, name FROM sponsor_levels ORDER BY id`)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list levels: %w", err)
	}
	levels, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.SponsorLevel, error) {
		var level domain.SponsorLevel
		err := row.Scan(&level.ID, &level.Name)
		return level, err
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("scan levels: %w", err)
	}
	return levels, nil
}

func (s *Store) GetLevel(ctx context.Context, id int64) (domain.SponsorLevel, error) {
	ctx, span := observability.StartDBSpan(ctx, dbSystem, "GetSponsorLevel", "query_row")
	defer span.End()

	var level domain.SponsorLevel
	err := s.pool.QueryRow(ctx, `SELECT id, name FROM sponsor_levels WHERE id = $1`, id).Scan(&level.ID, &level.Name)
	return level, recordErr(span, err)
}

func (s *Store) CreateLevel(ctx context.Context, name string) (domain.SponsorLevel, error) {
	ctx, span := observability.StartDBSpan(ctx, dbSystem, "CreateSponsorLevel", "query_row")
	defer span.End()

	var level domain.SponsorLevel
	err := s.pool.QueryRow(ctx, `INSERT INTO sponsor_levels (name) VALUES ($1) RETURNING id, name`, name).Scan(&level.ID, &level.Name)
	return level, recordErr(span, err)
}

func (s *Store) UpdateLevel(ctx context.Context, id int64, name string) (domain.SponsorLevel, error) {
	ctx, span := observability.StartDBSpan(ctx, dbSystem, "UpdateSponsorLevel", "query_row")
	defer span.End()

	var level domain.SponsorLevel
	err := s.pool.QueryRow(ctx, `UPDATE sponsor_levels SET name = $1 WHERE id = $2 RETURNING id, name`, name, id).Scan(&level.ID, &level.Name)
	return level, recordErr(span, err)
}

// DeleteLevel removes an unreferenced level; the foreign key guards the race
// between the caller's count and this delete.
func (s *Store) DeleteLevel(ctx context.Context, id int64) error {
	ctx, span := observability.StartDBSpan(ctx, dbSystem, "DeleteSponsorLevel", "exec")
	defer span.End()

	tag, err := s.pool.Exec(ctx, `DELETE FROM sponsor_levels WHERE id = $1`, id)
	if err != nil {
		return recordErr(span, err)
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (s *Store) CountSponsorsByLevel(ctx context.Context, levelID int64) (int64, error) {
	ctx, span := observability.StartDBSpan(ctx, dbSystem, "CountSponsorsByLevel", "query_row")
	defer span.End()

	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sponsors WHERE level_id = $1`, levelID).Scan(&count)
	return count, recordErr(span, err)
}

func (s *Store) ListSponsors(ctx context.Context) ([]domain.Sponsor, error) {
	return s.querySponsors(ctx, "ListSponsors", `SELECT `+sponsorColumns+` FROM sponsors ORDER BY id`)
}

func (s *Store) ListSponsorsByLevel(ctx context.Context, levelID int64) ([]domain.Sponsor, error) {
	return s.querySponsors(ctx, "ListSponsorsByLevel", `SELECT `+sponsorColumns+` FROM sponsors WHERE level_id = $1 ORDER BY id`, levelID)
}

func (s *Store) GetSponsor(ctx context.Context, id int64) (domain.Sponsor, error) {
	return s.querySponsor(ctx, "GetSponsor", `SELECT `+sponsorColumns+` FROM sponsors WHERE id = $1`, id)
}

func (s *Store) GetSponsorByLogo(ctx context.Context, logoRef string) (domain.Sponsor, error) {
	return s.querySponsor(ctx, "GetSponsorByMediaLogo",
		`SELECT `+sponsorColumns+` FROM sponsors WHERE logo_kind = 'media' AND logo_url = $1 ORDER BY id LIMIT 1`, logoRef)
}

func (s *Store) CreateSponsor(ctx context.Context, sponsor domain.Sponsor) (domain.Sponsor, error) {
	return s.querySponsor(ctx, "CreateSponsor",
		`INSERT INTO sponsors (name, logo_url, logo_kind, website_url, description, level_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+sponsorColumns,
		sponsor.Name, sponsor.LogoURL, string(domain.LogoKindOf(sponsor)), sponsor.WebsiteURL, sponsor.Description, sponsor.LevelID)
}

func (s *Store) UpdateSponsor(ctx context.Context, sponsor domain.Sponsor) (domain.Sponsor, error) {
	return s.querySponsor(ctx, "UpdateSponsor",
		`UPDATE sponsors
		SET name = $1, logo_url = $2, logo_kind = $3, website_url = $4, description = $5, level_id = $6
		WHERE id = $7
		RETURNING `+sponsorColumns,
		sponsor.Name, sponsor.LogoURL, string(domain.LogoKindOf(sponsor)), sponsor.WebsiteURL, sponsor.Description, sponsor.LevelID, sponsor.ID)
}

func (s *Store) DeleteSponsor(ctx context.Context, id int64) error {
	ctx, span := observability.StartDBSpan(ctx, dbSystem, "DeleteSponsor", "exec")
	defer span.End()

	tag, err := s.pool.Exec(ctx, `DELETE FROM sponsors WHERE id = $1`, id)
	if err != nil {
		return recordErr(span, err)
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (s *Store) querySponsor(ctx context.Context, name, query string, args ...any) (domain.Sponsor, error) {
	ctx, span := observability.StartDBSpan(ctx, dbSystem, name, "query_row")
	defer span.End()

	sponsor, err := scanSponsor(s.pool.QueryRow(ctx, query, args...))
	return sponsor, recordErr(span, err)
}

func (s *Store) querySponsors(ctx context.Context, name, query string, args ...any) ([]domain.Sponsor, error) {
	ctx, span := observability.StartDBSpan(ctx, dbSystem, name, "query")
	defer span.End()

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	sponsors, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Sponsor, error) {
		return scanSponsor(row)
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return sponsors, nil
}

func scanSponsor(row pgx.Row) (domain.Sponsor, error) {
	var (
		sponsor domain.Sponsor
		kind    string
	)
	err := row.Scan(
		&sponsor.ID,
		&sponsor.Name,
		&sponsor.LogoURL,
		&kind,
		&sponsor.WebsiteURL,
		&sponsor.Description,
		&sponsor.LevelID,
	)
	sponsor.LogoKind = domain.LogoKind(kind)
	return sponsor, err
}

// recordErr maps driver errors onto port errors and records them on span.
func recordErr(span observability.Span, err error) error {
	err = mapError(err)
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		span.RecordError(err)
	}
	return err
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ports.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return fmt.Errorf("%s: %w", pgErr.ConstraintName, ports.ErrReferenced)
	}
	return err
}
