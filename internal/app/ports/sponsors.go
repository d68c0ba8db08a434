package ports

import (
	"context"
	"errors"

	"github.com/fr0stylo/sponsorboard/internal/app/domain"
)

var (
	// ErrNotFound is returned by stores when a row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrReferenced is returned when deleting a row other rows still point at.
	ErrReferenced = errors.New("still referenced")
)

// SponsorStore defines persistence operations for levels and sponsors.
// sqlite and postgres adapters implement it.
type SponsorStore interface {
	ListLevels(ctx context.Context) ([]domain.SponsorLevel, error)
	GetLevel(ctx context.Context, id int64) (domain.SponsorLevel, error)
	CreateLevel(ctx context.Context, name string) (domain.SponsorLevel, error)
	UpdateLevel(ctx context.Context, id int64, name string) (domain.SponsorLevel, error)
	DeleteLevel(ctx context.Context, id int64) error
	CountSponsorsByLevel(ctx context.Context, levelID int64) (int64, error)

	ListSponsors(ctx context.Context) ([]domain.Sponsor, error)
	ListSponsorsByLevel(ctx context.Context, levelID int64) ([]domain.Sponsor, error)
	GetSponsor(ctx context.Context, id int64) (domain.Sponsor, error)
	GetSponsorByLogo(ctx context.Context, logoRef string) (domain.Sponsor, error)
	CreateSponsor(ctx context.Context, sponsor domain.Sponsor) (domain.Sponsor, error)
	UpdateSponsor(ctx context.Context, sponsor domain.Sponsor) (domain.Sponsor, error)
	DeleteSponsor(ctx context.Context, id int64) error
}

// ChangeKind is the kind of mutation announced to the host.
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
)

// Change describes one committed mutation of a level or sponsor.
type Change struct {
	Kind    ChangeKind
	Level   *domain.SponsorLevel
	Sponsor *domain.Sponsor
}

// ChangePublisher announces committed mutations to the host platform.
type ChangePublisher interface {
	Publish(ctx context.Context, change Change) error
}

// MediaReserver hands out identifiers for logo binaries uploaded later.
type MediaReserver interface {
	Reserve(ctx context.Context) (string, error)
}
