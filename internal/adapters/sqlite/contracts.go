package sqlite

import (
	"context"

	"github.com/fr0stylo/sponsorboard/internal/db/queries"
)

type storeDatabase interface {
	ListSponsorLevels(ctx context.Context) ([]queries.SponsorLevel, error)
	GetSponsorLevel(ctx context.Context, id int64) (queries.SponsorLevel, error)
	CreateSponsorLevel(ctx context.Context, name string) (queries.SponsorLevel, error)
	RenameSponsorLevel(ctx context.Context, id int64, name string) (queries.SponsorLevel, error)
	DeleteUnusedSponsorLevel(ctx context.Context, id int64) (int64, error)
	CountSponsorsByLevel(ctx context.Context, levelID int64) (int64, error)

	ListSponsors(ctx context.Context) ([]queries.Sponsor, error)
	ListSponsorsByLevel(ctx context.Context, levelID int64) ([]queries.Sponsor, error)
	GetSponsor(ctx context.Context, id int64) (queries.Sponsor, error)
	GetSponsorByMediaLogo(ctx context.Context, logoUrl string) (queries.Sponsor, error)
	CreateSponsor(ctx context.Context, arg queries.CreateSponsorParams) (queries.Sponsor, error)
	UpdateSponsor(ctx context.Context, arg queries.UpdateSponsorParams) (queries.Sponsor, error)
	DeleteSponsor(ctx context.Context, id int64) (int64, error)
}
