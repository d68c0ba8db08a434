package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fr0stylo/sponsorboard/internal/app/domain"
	"github.com/fr0stylo/sponsorboard/internal/app/ports"
)

var (
	// ErrInvalidInput indicates a payload that fails field validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrLevelNotFound indicates an unknown sponsor level.
	ErrLevelNotFound = errors.New("level not found")
	// ErrSponsorNotFound indicates an unknown sponsor.
	ErrSponsorNotFound = errors.New("sponsor not found")
	// ErrLevelInUse is returned when deleting a level that sponsors still reference.
	ErrLevelInUse = errors.New("level still has sponsors")
	// ErrMediaNotReserved is returned when a media identifier is not referenced by any sponsor.
	ErrMediaNotReserved = errors.New("media identifier not reserved")
)

var _ ports.SponsorAPI = (*CatalogService)(nil)

// CatalogService owns the server-side rules for levels and sponsors.
type CatalogService struct {
	store     ports.SponsorStore
	media     ports.MediaReserver
	publisher ports.ChangePublisher
}

// NewCatalogService constructs the catalog service. media and publisher may be nil.
func NewCatalogService(store ports.SponsorStore, media ports.MediaReserver, publisher ports.ChangePublisher) *CatalogService {
	return &CatalogService{store: store, media: media, publisher: publisher}
}

// ListLevels returns every level with its sponsors attached.
func (s *CatalogService) ListLevels(ctx context.Context) ([]domain.SponsorLevel, error) {
	levels, err := s.store.ListLevels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}
	sponsors, err := s.store.ListSponsors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sponsors: %w", err)
	}
	byLevel := make(map[int64][]domain.Sponsor, len(levels))
	for _, sponsor := range sponsors {
		byLevel[sponsor.LevelID] = append(byLevel[sponsor.LevelID], sponsor)
	}
	for i := range levels {
		levels[i].Sponsors = byLevel[levels[i].ID]
	}
	return levels, nil
}

// GetLevel returns one level with its sponsors.
func (s *CatalogService) GetLevel(ctx context.Context, id int64) (domain.SponsorLevel, error) {
	level, err := s.store.GetLevel(ctx, id)
	if err != nil {
		return domain.SponsorLevel{}, mapNotFound(err, ErrLevelNotFound)
	}
	sponsors, err := s.store.ListSponsorsByLevel(ctx, id)
	if err != nil {
		return domain.SponsorLevel{}, fmt.Errorf("list level sponsors: %w", err)
	}
	level.Sponsors = sponsors
	return level, nil
}

// CreateLevel validates and inserts a level.
func (s *CatalogService) CreateLevel(ctx context.Context, name string) (domain.SponsorLevel, error) {
	name, err := validateName(name)
	if err != nil {
		return domain.SponsorLevel{}, err
	}
	level, err := s.store.CreateLevel(ctx, name)
	if err != nil {
		return domain.SponsorLevel{}, fmt.Errorf("create level: %w", err)
	}
	s.publish(ctx, ports.Change{Kind: ports.ChangeCreated, Level: &level})
	return level, nil
}

// UpdateLevel renames a level.
func (s *CatalogService) UpdateLevel(ctx context.Context, id int64, name string) (domain.SponsorLevel, error) {
	name, err := validateName(name)
	if err != nil {
		return domain.SponsorLevel{}, err
	}
	if _, err := s.store.GetLevel(ctx, id); err != nil {
		return domain.SponsorLevel{}, mapNotFound(err, ErrLevelNotFound)
	}
	level, err := s.store.UpdateLevel(ctx, id, name)
	if err != nil {
		return domain.SponsorLevel{}, mapNotFound(err, ErrLevelNotFound)
	}
	s.publish(ctx, ports.Change{Kind: ports.ChangeUpdated, Level: &level})
	return level, nil
}

// RemoveLevel deletes an unreferenced level and returns it.
func (s *CatalogService) RemoveLevel(ctx context.Context, id int64) (domain.SponsorLevel, error) {
	level, err := s.store.GetLevel(ctx, id)
	if err != nil {
		return domain.SponsorLevel{}, mapNotFound(err, ErrLevelNotFound)
	}
	count, err := s.store.CountSponsorsByLevel(ctx, id)
	if err != nil {
		return domain.SponsorLevel{}, fmt.Errorf("count level sponsors: %w", err)
	}
	if count > 0 {
		return domain.SponsorLevel{}, ErrLevelInUse
	}
	if err := s.store.DeleteLevel(ctx, id); err != nil {
		if errors.Is(err, ports.ErrReferenced) {
			return domain.SponsorLevel{}, ErrLevelInUse
		}
		return domain.SponsorLevel{}, mapNotFound(err, ErrLevelNotFound)
	}
	s.publish(ctx, ports.Change{Kind: ports.ChangeDeleted, Level: &level})
	return level, nil
}

// DeleteLevel implements ports.SponsorAPI.
func (s *CatalogService) DeleteLevel(ctx context.Context, id int64) error {
	_, err := s.RemoveLevel(ctx, id)
	return err
}

// ListSponsors returns every sponsor.
func (s *CatalogService) ListSponsors(ctx context.Context) ([]domain.Sponsor, error) {
	sponsors, err := s.store.ListSponsors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sponsors: %w", err)
	}
	return sponsors, nil
}

// GetSponsor returns one sponsor.
func (s *CatalogService) GetSponsor(ctx context.Context, id int64) (domain.Sponsor, error) {
	sponsor, err := s.store.GetSponsor(ctx, id)
	if err != nil {
		return domain.Sponsor{}, mapNotFound(err, ErrSponsorNotFound)
	}
	return sponsor, nil
}

// CreateSponsor validates the payload, reserves a media identifier when a
// logo upload is announced, and inserts the sponsor.
func (s *CatalogService) CreateSponsor(ctx context.Context, input domain.SponsorInput) (domain.Sponsor, error) {
	sponsor := domain.Sponsor{
		Name:        input.Name,
		LogoURL:     strings.TrimSpace(input.LogoURL),
		WebsiteURL:  strings.TrimSpace(input.WebsiteURL),
		Description: strings.TrimSpace(input.Description),
		LevelID:     input.LevelID,
	}
	if input.LogoUpload && sponsor.LogoURL != "" {
		return domain.Sponsor{}, fmt.Errorf("%w: logo_url must be empty when logo_upload is set", ErrInvalidInput)
	}
	if sponsor.LevelID <= 0 {
		return domain.Sponsor{}, fmt.Errorf("%w: level_id is required", ErrInvalidInput)
	}
	if err := validateSponsor(&sponsor); err != nil {
		return domain.Sponsor{}, err
	}
	if err := s.ensureLevel(ctx, sponsor.LevelID); err != nil {
		return domain.Sponsor{}, err
	}
	if err := s.assignLogo(ctx, &sponsor, input.LogoUpload, ""); err != nil {
		return domain.Sponsor{}, err
	}

	created, err := s.store.CreateSponsor(ctx, sponsor)
	if err != nil {
		return domain.Sponsor{}, fmt.Errorf("create sponsor: %w", err)
	}
	s.publish(ctx, ports.Change{Kind: ports.ChangeCreated, Sponsor: &created})
	return created, nil
}

// UpdateSponsor applies a partial update.
func (s *CatalogService) UpdateSponsor(ctx context.Context, id int64, patch domain.SponsorPatch) (domain.Sponsor, error) {
	current, err := s.store.GetSponsor(ctx, id)
	if err != nil {
		return domain.Sponsor{}, mapNotFound(err, ErrSponsorNotFound)
	}

	next := patch.Apply(current)
	next.ID = current.ID
	next.LogoURL = strings.TrimSpace(next.LogoURL)
	next.WebsiteURL = strings.TrimSpace(next.WebsiteURL)
	next.Description = strings.TrimSpace(next.Description)
	if patch.LogoUpload && patch.LogoURL != nil && strings.TrimSpace(*patch.LogoURL) != "" {
		return domain.Sponsor{}, fmt.Errorf("%w: logo_url must be empty when logo_upload is set", ErrInvalidInput)
	}
	if err := validateSponsor(&next); err != nil {
		return domain.Sponsor{}, err
	}
	if patch.LevelID != nil && *patch.LevelID != current.LevelID {
		if err := s.ensureLevel(ctx, next.LevelID); err != nil {
			return domain.Sponsor{}, err
		}
	}

	reuse := ""
	if domain.LogoKindOf(current) == domain.LogoKindMedia {
		reuse = current.LogoURL
	}
	if err := s.assignLogo(ctx, &next, patch.LogoUpload, reuse); err != nil {
		return domain.Sponsor{}, err
	}

	updated, err := s.store.UpdateSponsor(ctx, next)
	if err != nil {
		return domain.Sponsor{}, mapNotFound(err, ErrSponsorNotFound)
	}
	s.publish(ctx, ports.Change{Kind: ports.ChangeUpdated, Sponsor: &updated})
	return updated, nil
}

// RemoveSponsor deletes a sponsor and returns it.
func (s *CatalogService) RemoveSponsor(ctx context.Context, id int64) (domain.Sponsor, error) {
	sponsor, err := s.store.GetSponsor(ctx, id)
	if err != nil {
		return domain.Sponsor{}, mapNotFound(err, ErrSponsorNotFound)
	}
	if err := s.store.DeleteSponsor(ctx, id); err != nil {
		return domain.Sponsor{}, mapNotFound(err, ErrSponsorNotFound)
	}
	s.publish(ctx, ports.Change{Kind: ports.ChangeDeleted, Sponsor: &sponsor})
	return sponsor, nil
}

// DeleteSponsor implements ports.SponsorAPI.
func (s *CatalogService) DeleteSponsor(ctx context.Context, id int64) error {
	_, err := s.RemoveSponsor(ctx, id)
	return err
}

// Component returns sponsors and levels for the embeddable widget payload.
func (s *CatalogService) Component(ctx context.Context) (domain.ComponentData, error) {
	sponsors, err := s.ListSponsors(ctx)
	if err != nil {
		return domain.ComponentData{}, err
	}
	levels, err := s.store.ListLevels(ctx)
	if err != nil {
		return domain.ComponentData{}, fmt.Errorf("list levels: %w", err)
	}
	return domain.ComponentData{Sponsors: sponsors, Levels: levels}, nil
}

// EnsureMediaReserved fails unless a sponsor references the media identifier.
func (s *CatalogService) EnsureMediaReserved(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if !domain.IsMediaID(id) {
		return ErrMediaNotReserved
	}
	if _, err := s.store.GetSponsorByLogo(ctx, id); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return ErrMediaNotReserved
		}
		return fmt.Errorf("lookup media owner: %w", err)
	}
	return nil
}

func (s *CatalogService) ensureLevel(ctx context.Context, levelID int64) error {
	if _, err := s.store.GetLevel(ctx, levelID); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return fmt.Errorf("%w: level %d does not exist", ErrInvalidInput, levelID)
		}
		return fmt.Errorf("lookup level: %w", err)
	}
	return nil
}

func (s *CatalogService) assignLogo(ctx context.Context, sponsor *domain.Sponsor, upload bool, reuse string) error {
	if !upload {
		sponsor.LogoKind = domain.ClassifyLogo(sponsor.LogoURL)
		return nil
	}
	if reuse != "" {
		sponsor.LogoURL = reuse
		sponsor.LogoKind = domain.LogoKindMedia
		return nil
	}
	if s.media == nil {
		return fmt.Errorf("%w: logo uploads are not supported", ErrInvalidInput)
	}
	id, err := s.media.Reserve(ctx)
	if err != nil {
		return fmt.Errorf("reserve media: %w", err)
	}
	sponsor.LogoURL = id
	sponsor.LogoKind = domain.LogoKindMedia
	return nil
}

func (s *CatalogService) publish(ctx context.Context, change ports.Change) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, change); err != nil {
		slog.WarnContext(ctx, "Failed to publish sponsor change", "kind", change.Kind, "error", err)
	}
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len([]rune(name)) > domain.MaxNameLength {
		return "", fmt.Errorf("%w: name exceeds %d characters", ErrInvalidInput, domain.MaxNameLength)
	}
	return name, nil
}

func validateSponsor(sponsor *domain.Sponsor) error {
	name, err := validateName(sponsor.Name)
	if err != nil {
		return err
	}
	sponsor.Name = name
	if len([]rune(sponsor.LogoURL)) > domain.MaxURLLength {
		return fmt.Errorf("%w: logo_url exceeds %d characters", ErrInvalidInput, domain.MaxURLLength)
	}
	if len([]rune(sponsor.WebsiteURL)) > domain.MaxURLLength {
		return fmt.Errorf("%w: website_url exceeds %d characters", ErrInvalidInput, domain.MaxURLLength)
	}
	if !domain.IsWebsiteURL(sponsor.WebsiteURL) {
		return fmt.Errorf("%w: website_url must be an http or https URL", ErrInvalidInput)
	}
	if len([]rune(sponsor.Description)) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidInput, domain.MaxDescriptionLength)
	}
	return nil
}

func mapNotFound(err, notFound error) error {
	if errors.Is(err, ports.ErrNotFound) {
		return notFound
	}
	return err
}
