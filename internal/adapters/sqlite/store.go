package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fr0stylo/sponsorboard/internal/app/domain"
	"github.com/fr0stylo/sponsorboard/internal/app/ports"
	"github.com/fr0stylo/sponsorboard/internal/db"
	"github.com/fr0stylo/sponsorboard/internal/db/queries"
)

var _ ports.SponsorStore = (*Store)(nil)

// Store implements ports.SponsorStore over the sqlite database.
type Store struct {
	database storeDatabase
}

// NewStore wraps an open database.
func NewStore(database *db.Database) *Store {
	return &Store{database: database}
}

func (s *Store) ListLevels(ctx context.Context) ([]domain.SponsorLevel, error) {
	rows, err := s.database.ListSponsorLevels(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.SponsorLevel, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapLevel(row))
	}
	return out, nil
}

func (s *Store) GetLevel(ctx context.Context, id int64) (domain.SponsorLevel, error) {
	row, err := s.database.GetSponsorLevel(ctx, id)
	if err != nil {
		return domain.SponsorLevel{}, notFound(err)
	}
	return mapLevel(row), nil
}

func (s *Store) CreateLevel(ctx context.Context, name string) (domain.SponsorLevel, error) {
	row, err := s.database.CreateSponsorLevel(ctx, name)
	if err != nil {
		return domain.SponsorLevel{}, err
	}
	return mapLevel(row), nil
}

func (s *Store) UpdateLevel(ctx context.Context, id int64, name string) (domain.SponsorLevel, error) {
	row, err := s.database.RenameSponsorLevel(ctx, id, name)
	if err != nil {
		return domain.SponsorLevel{}, notFound(err)
	}
	return mapLevel(row), nil
}

// DeleteLevel removes an unreferenced level.
func (s *Store) DeleteLevel(ctx context.Context, id int64) error {
	affected, err := s.database.DeleteUnusedSponsorLevel(ctx, id)
	if errors.Is(err, db.ErrLevelReferenced) {
		return fmt.Errorf("delete level %d: %w", id, ports.ErrReferenced)
	}
	if err != nil {
		return err
	}
	if affected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (s *Store) CountSponsorsByLevel(ctx context.Context, levelID int64) (int64, error) {
	return s.database.CountSponsorsByLevel(ctx, levelID)
}

func (s *Store) ListSponsors(ctx context.Context) ([]domain.Sponsor, error) {
	rows, err := s.database.ListSponsors(ctx)
	if err != nil {
		return nil, err
	}
	return mapSponsors(rows), nil
}

func (s *Store) ListSponsorsByLevel(ctx context.Context, levelID int64) ([]domain.Sponsor, error) {
	rows, err := s.database.ListSponsorsByLevel(ctx, levelID)
	if err != nil {
		return nil, err
	}
	return mapSponsors(rows), nil
}

func (s *Store) GetSponsor(ctx context.Context, id int64) (domain.Sponsor, error) {
	row, err := s.database.GetSponsor(ctx, id)
	if err != nil {
		return domain.Sponsor{}, notFound(err)
	}
	return mapSponsor(row), nil
}

// GetSponsorByLogo finds the sponsor owning a media identifier.
func (s *Store) GetSponsorByLogo(ctx context.Context, logoRef string) (domain.Sponsor, error) {
	row, err := s.database.GetSponsorByMediaLogo(ctx, logoRef)
	if err != nil {
		return domain.Sponsor{}, notFound(err)
	}
	return mapSponsor(row), nil
}

func (s *Store) CreateSponsor(ctx context.Context, sponsor domain.Sponsor) (domain.Sponsor, error) {
	row, err := s.database.CreateSponsor(ctx, queries.CreateSponsorParams{
		Name:        sponsor.Name,
		LogoUrl:     sponsor.LogoURL,
		LogoKind:    string(domain.LogoKindOf(sponsor)),
		WebsiteUrl:  sponsor.WebsiteURL,
		Description: sponsor.Description,
		LevelID:     sponsor.LevelID,
	})
	if err != nil {
		return domain.Sponsor{}, err
	}
	return mapSponsor(row), nil
}

func (s *Store) UpdateSponsor(ctx context.Context, sponsor domain.Sponsor) (domain.Sponsor, error) {
	row, err := s.database.UpdateSponsor(ctx, queries.UpdateSponsorParams{
		Name:        sponsor.Name,
		LogoUrl:     sponsor.LogoURL,
		LogoKind:    string(domain.LogoKindOf(sponsor)),
		WebsiteUrl:  sponsor.WebsiteURL,
		Description: sponsor.Description,
		LevelID:     sponsor.LevelID,
		ID:          sponsor.ID,
	})
	if err != nil {
		return domain.Sponsor{}, notFound(err)
	}
	return mapSponsor(row), nil
}

func (s *Store) DeleteSponsor(ctx context.Context, id int64) error {
	affected, err := s.database.DeleteSponsor(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func mapLevel(row queries.SponsorLevel) domain.SponsorLevel {
	return domain.SponsorLevel{ID: row.ID, Name: row.Name}
}

func mapSponsor(row queries.Sponsor) domain.Sponsor {
	return domain.Sponsor{
		ID:          row.ID,
		Name:        row.Name,
		LogoURL:     row.LogoUrl,
		LogoKind:    domain.LogoKind(row.LogoKind),
		WebsiteURL:  row.WebsiteUrl,
		Description: row.Description,
		LevelID:     row.LevelID,
	}
}

func mapSponsors(rows []queries.Sponsor) []domain.Sponsor {
	out := make([]domain.Sponsor, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapSponsor(row))
	}
	return out
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ports.ErrNotFound
	}
	return err
}
