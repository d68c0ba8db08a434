package ports

import (
	"context"

	"github.com/fr0stylo/sponsorboard/internal/app/domain"
)

// SponsorAPI is the host REST API as seen by the admin screen and the widget.
// sponsorclient.Client talks to it over HTTP; services.CatalogService
// satisfies it in-process.
type SponsorAPI interface {
	SponsorReader

	CreateLevel(ctx context.Context, name string) (domain.SponsorLevel, error)
	UpdateLevel(ctx context.Context, id int64, name string) (domain.SponsorLevel, error)
	DeleteLevel(ctx context.Context, id int64) error

	CreateSponsor(ctx context.Context, input domain.SponsorInput) (domain.Sponsor, error)
	UpdateSponsor(ctx context.Context, id int64, patch domain.SponsorPatch) (domain.Sponsor, error)
	DeleteSponsor(ctx context.Context, id int64) error
}

// SponsorReader is the read-only subset of SponsorAPI used by the widget.
type SponsorReader interface {
	ListLevels(ctx context.Context) ([]domain.SponsorLevel, error)
	ListSponsors(ctx context.Context) ([]domain.Sponsor, error)
}

// MediaResolver turns an opaque media identifier into a fetchable URL.
type MediaResolver interface {
	MediaURL(id string) string
}

// LogoFile is a locally selected logo binary.
type LogoFile struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// MediaUploader stores a binary against a previously reserved identifier.
type MediaUploader interface {
	UploadMedia(ctx context.Context, id string, file LogoFile) error
}

// NotificationLevel is the severity of a user-facing notification.
type NotificationLevel string

const (
	NotifySuccess NotificationLevel = "success"
	NotifyError   NotificationLevel = "error"
	NotifyInfo    NotificationLevel = "info"
)

// Notification is one toast shown to the user.
type Notification struct {
	Level   NotificationLevel
	Message string
}

// Notifier is the host toast/notification side channel.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}
