package admin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fr0stylo/sponsorboard/internal/app/domain"
	"github.com/fr0stylo/sponsorboard/internal/app/ports"
)

// DefaultMaxLogoBytes is the largest logo file the admin form accepts.
const DefaultMaxLogoBytes = 5 * 1024 * 1024

// Confirmation prompts shown before destructive actions.
const (
	ConfirmDeleteLevel   = "Are you sure you want to delete this level? This action cannot be undone."
	ConfirmDeleteSponsor = "Are you sure you want to delete this sponsor?"
)

// LogoMode selects how the sponsor form supplies a logo.
type LogoMode string

const (
	LogoModeURL  LogoMode = "url"
	LogoModeFile LogoMode = "file"
)

// SponsorForm is the editable state of the add/edit sponsor dialog.
type SponsorForm struct {
	Name        string
	LogoURL     string
	WebsiteURL  string
	Description string
	LevelID     int64
	LogoMode    LogoMode
	LogoFile    *ports.LogoFile
	LogoPreview string
}

// Options tunes the manager.
type Options struct {
	// LogoCompensate undoes the metadata write when the logo upload fails.
	// Off by default: the sponsor is kept without its logo.
	LogoCompensate bool
	MaxLogoBytes   int64
}

// DefaultOptions returns the options used by the admin screen.
func DefaultOptions() Options {
	return Options{MaxLogoBytes: DefaultMaxLogoBytes}
}

// Manager is the admin controller: it caches levels and sponsors for one
// mount and drives every mutation through the host API.
//
// A Manager is not safe for concurrent use.
type Manager struct {
	api       ports.SponsorAPI
	media     ports.MediaResolver
	uploader  ports.MediaUploader
	notifier  ports.Notifier
	confirmer ports.Confirmer
	log       *slog.Logger
	opts      Options

	Levels          []domain.SponsorLevel
	Sponsors        []domain.Sponsor
	Error           string
	LoadingLevels   bool
	LoadingSponsors bool
}

// NewManager wires the controller to its host capabilities.
func NewManager(api ports.SponsorAPI, media ports.MediaResolver, uploader ports.MediaUploader, notifier ports.Notifier, confirmer ports.Confirmer, log *slog.Logger, opts Options) *Manager {
	if log == nil {
		log = slog.Default()
	}
	if opts.MaxLogoBytes <= 0 {
		opts.MaxLogoBytes = DefaultMaxLogoBytes
	}
	return &Manager{
		api:       api,
		media:     media,
		uploader:  uploader,
		notifier:  notifier,
		confirmer: confirmer,
		log:       log,
		opts:      opts,
	}
}

// Load fetches levels and sponsors into the cache.
func (m *Manager) Load(ctx context.Context) bool {
	m.Error = ""
	ok := true

	m.LoadingLevels = true
	levels, err := m.api.ListLevels(ctx)
	m.LoadingLevels = false
	if err != nil {
		m.log.ErrorContext(ctx, "Failed to load sponsor levels", "error", err)
		m.Error = "Failed to load sponsor levels"
		m.notify(ctx, ports.NotifyError, "Failed to load sponsor levels")
		ok = false
	} else {
		m.Levels = levels
	}

	m.LoadingSponsors = true
	sponsors, err := m.api.ListSponsors(ctx)
	m.LoadingSponsors = false
	if err != nil {
		m.log.ErrorContext(ctx, "Failed to load sponsors", "error", err)
		m.Error = "Failed to load sponsors"
		m.notify(ctx, ports.NotifyError, "Failed to load sponsors")
		ok = false
	} else {
		m.Sponsors = sponsors
	}
	return ok
}

// CreateLevel adds a level.
func (m *Manager) CreateLevel(ctx context.Context, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		m.notify(ctx, ports.NotifyError, "Level name cannot be empty")
		return false
	}

	m.LoadingLevels = true
	defer func() { m.LoadingLevels = false }()
	level, err := m.api.CreateLevel(ctx, name)
	if err != nil {
		m.log.ErrorContext(ctx, "Failed to create sponsor level", "name", name, "error", err)
		m.notify(ctx, ports.NotifyError, "Failed to create sponsor level")
		return false
	}
	m.Levels = append(m.Levels, level)
	m.notify(ctx, ports.NotifySuccess, fmt.Sprintf("Level %q created successfully", level.Name))
	return true
}

// UpdateLevel renames a level.
func (m *Manager) UpdateLevel(ctx context.Context, id int64, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		m.notify(ctx, ports.NotifyError, "Level name cannot be empty")
		return false
	}

	m.LoadingLevels = true
	defer func() { m.LoadingLevels = false }()
	level, err := m.api.UpdateLevel(ctx, id, name)
	if err != nil {
		m.log.ErrorContext(ctx, "Failed to update sponsor level", "level_id", id, "error", err)
		m.notify(ctx, ports.NotifyError, "Failed to update sponsor level")
		return false
	}
	for i := range m.Levels {
		if m.Levels[i].ID == id {
			m.Levels[i] = level
		}
	}
	m.notify(ctx, ports.NotifySuccess, fmt.Sprintf("Level %q updated successfully", level.Name))
	return true
}

// SponsorCount returns how many cached sponsors reference the level.
func (m *Manager) SponsorCount(levelID int64) int {
	count := 0
	for _, sponsor := range m.Sponsors {
		if sponsor.LevelID == levelID {
			count++
		}
	}
	return count
}

// CanDeleteLevel reports whether the delete control for a level is enabled.
func (m *Manager) CanDeleteLevel(levelID int64) bool {
	return m.SponsorCount(levelID) == 0
}

// DeleteLevel removes an unreferenced level after confirmation.
func (m *Manager) DeleteLevel(ctx context.Context, id int64) bool {
	if !m.CanDeleteLevel(id) {
		return false
	}
	if !m.confirm(ctx, ConfirmDeleteLevel) {
		return false
	}

	m.LoadingLevels = true
	defer func() { m.LoadingLevels = false }()
	if err := m.api.DeleteLevel(ctx, id); err != nil {
		m.log.ErrorContext(ctx, "Failed to delete level", "level_id", id, "error", err)
		m.notify(ctx, ports.NotifyError, "Failed to delete level")
		return false
	}
	kept := m.Levels[:0]
	for _, level := range m.Levels {
		if level.ID != id {
			kept = append(kept, level)
		}
	}
	m.Levels = kept
	m.notify(ctx, ports.NotifySuccess, "Level deleted successfully")
	return true
}

// StartAddSponsor opens the add dialog, which needs at least one level.
func (m *Manager) StartAddSponsor(ctx context.Context) (SponsorForm, bool) {
	if len(m.Levels) == 0 {
		m.notify(ctx, ports.NotifyInfo, "Please create at least one level first")
		return SponsorForm{}, false
	}
	return m.NewForm(), true
}

// NewForm returns an empty sponsor form preselecting the first level.
func (m *Manager) NewForm() SponsorForm {
	form := SponsorForm{LogoMode: LogoModeURL}
	if len(m.Levels) > 0 {
		form.LevelID = m.Levels[0].ID
	}
	return form
}

// FormFromSponsor pre-fills the edit form. Media logos switch the form to
// file mode with a preview of the stored binary.
func (m *Manager) FormFromSponsor(s domain.Sponsor) SponsorForm {
	form := SponsorForm{
		Name:        s.Name,
		WebsiteURL:  s.WebsiteURL,
		Description: s.Description,
		LevelID:     s.LevelID,
		LogoMode:    LogoModeURL,
	}
	switch kind := domain.LogoKindOf(s); {
	case kind == domain.LogoKindMedia || (s.LogoKind == "" && domain.IsMediaID(s.LogoURL)):
		form.LogoMode = LogoModeFile
		if m.media != nil {
			form.LogoPreview = m.media.MediaURL(strings.TrimSpace(s.LogoURL))
		}
	case kind == domain.LogoKindURL:
		form.LogoURL = s.LogoURL
		form.LogoPreview = s.LogoURL
	}
	return form
}

// SelectLogoFile validates a chosen logo file and attaches it to the form.
func (m *Manager) SelectLogoFile(ctx context.Context, form *SponsorForm, file ports.LogoFile) bool {
	if file.Size == 0 {
		file.Size = int64(len(file.Data))
	}
	if file.Size > m.opts.MaxLogoBytes {
		m.notify(ctx, ports.NotifyError, fmt.Sprintf("File size should be less than %s", formatBytes(m.opts.MaxLogoBytes)))
		return false
	}
	if !strings.HasPrefix(strings.ToLower(file.ContentType), "image/") {
		m.notify(ctx, ports.NotifyError, "Please upload an image file")
		return false
	}
	form.LogoMode = LogoModeFile
	form.LogoFile = &file
	return true
}

// CreateSponsor writes a new sponsor and, in file mode, uploads its logo.
func (m *Manager) CreateSponsor(ctx context.Context, form SponsorForm) bool {
	if strings.TrimSpace(form.Name) == "" {
		m.notify(ctx, ports.NotifyError, "Sponsor name cannot be empty")
		return false
	}
	if form.LevelID <= 0 {
		m.notify(ctx, ports.NotifyError, "Please select a sponsor level")
		return false
	}

	m.LoadingSponsors = true
	defer func() { m.LoadingSponsors = false }()

	input := form.input()
	created, err := m.api.CreateSponsor(ctx, input)
	if err != nil {
		m.log.ErrorContext(ctx, "Failed to create sponsor", "name", form.Name, "error", err)
		m.notify(ctx, ports.NotifyError, "Failed to create sponsor")
		return false
	}

	if input.LogoUpload {
		if err := m.upload(ctx, created.LogoURL, *form.LogoFile); err != nil {
			m.log.ErrorContext(ctx, "Failed to upload sponsor logo", "sponsor_id", created.ID, "error", err)
			m.notify(ctx, ports.NotifyError, "Failed to upload sponsor logo")
			if !m.opts.LogoCompensate {
				m.Sponsors = append(m.Sponsors, created)
				return true
			}
			if err := m.api.DeleteSponsor(ctx, created.ID); err != nil {
				m.log.ErrorContext(ctx, "Failed to roll back sponsor after logo upload", "sponsor_id", created.ID, "error", err)
				m.Sponsors = append(m.Sponsors, created)
			}
			return false
		}
	}

	m.Sponsors = append(m.Sponsors, created)
	m.notify(ctx, ports.NotifySuccess, fmt.Sprintf("Sponsor %q created successfully", form.Name))
	return true
}

// UpdateSponsor rewrites a sponsor and, in file mode, uploads its new logo.
func (m *Manager) UpdateSponsor(ctx context.Context, id int64, form SponsorForm) bool {
	if strings.TrimSpace(form.Name) == "" {
		m.notify(ctx, ports.NotifyError, "Sponsor name cannot be empty")
		return false
	}

	m.LoadingSponsors = true
	defer func() { m.LoadingSponsors = false }()

	previous, cached := m.sponsor(id)
	patch := domain.FullPatch(form.input())
	if form.LogoMode == LogoModeFile && form.LogoFile == nil && cached && domain.LogoKindOf(previous) == domain.LogoKindMedia {
		patch.LogoURL = nil
	}

	updated, err := m.api.UpdateSponsor(ctx, id, patch)
	if err != nil {
		m.log.ErrorContext(ctx, "Failed to update sponsor", "sponsor_id", id, "error", err)
		m.notify(ctx, ports.NotifyError, "Failed to update sponsor")
		return false
	}

	if patch.LogoUpload {
		if err := m.upload(ctx, updated.LogoURL, *form.LogoFile); err != nil {
			m.log.ErrorContext(ctx, "Failed to upload sponsor logo", "sponsor_id", id, "error", err)
			m.notify(ctx, ports.NotifyError, "Failed to upload sponsor logo")
			if !m.opts.LogoCompensate {
				m.replace(updated)
				return true
			}
			if !cached {
				m.log.WarnContext(ctx, "No cached sponsor to restore after logo upload", "sponsor_id", id)
				m.replace(updated)
				return false
			}
			if _, err := m.api.UpdateSponsor(ctx, id, domain.RestorePatch(previous)); err != nil {
				m.log.ErrorContext(ctx, "Failed to restore sponsor after logo upload", "sponsor_id", id, "error", err)
				m.replace(updated)
			}
			return false
		}
	}

	m.replace(updated)
	m.notify(ctx, ports.NotifySuccess, fmt.Sprintf("Sponsor %q updated successfully", form.Name))
	return true
}

// DeleteSponsor removes a sponsor after confirmation.
func (m *Manager) DeleteSponsor(ctx context.Context, id int64) bool {
	if !m.confirm(ctx, ConfirmDeleteSponsor) {
		return false
	}

	m.LoadingSponsors = true
	defer func() { m.LoadingSponsors = false }()
	if err := m.api.DeleteSponsor(ctx, id); err != nil {
		m.log.ErrorContext(ctx, "Failed to delete sponsor", "sponsor_id", id, "error", err)
		m.notify(ctx, ports.NotifyError, "Failed to delete sponsor")
		return false
	}
	kept := m.Sponsors[:0]
	for _, sponsor := range m.Sponsors {
		if sponsor.ID != id {
			kept = append(kept, sponsor)
		}
	}
	m.Sponsors = kept
	m.notify(ctx, ports.NotifySuccess, "Sponsor deleted successfully")
	return true
}

// Groups returns the cached sponsors filtered by query and grouped by level.
func (m *Manager) Groups(query string) []domain.LevelGroup {
	return domain.GroupSponsors(m.Levels, m.Sponsors, query, domain.MatchAll)
}

// LogoSrc returns the image source for a sponsor card.
func (m *Manager) LogoSrc(s domain.Sponsor) string {
	if m.media == nil {
		return domain.ResolveLogo(s, nil)
	}
	return domain.ResolveLogo(s, m.media.MediaURL)
}

// Sponsor returns a cached sponsor by id.
func (m *Manager) Sponsor(id int64) (domain.Sponsor, bool) {
	return m.sponsor(id)
}

func (m *Manager) sponsor(id int64) (domain.Sponsor, bool) {
	for _, sponsor := range m.Sponsors {
		if sponsor.ID == id {
			return sponsor, true
		}
	}
	return domain.Sponsor{}, false
}

func (m *Manager) replace(updated domain.Sponsor) {
	for i := range m.Sponsors {
		if m.Sponsors[i].ID == updated.ID {
			m.Sponsors[i] = updated
			return
		}
	}
	m.Sponsors = append(m.Sponsors, updated)
}

func (m *Manager) upload(ctx context.Context, id string, file ports.LogoFile) error {
	if m.uploader == nil {
		return fmt.Errorf("no media uploader configured")
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("host returned no media identifier")
	}
	return m.uploader.UploadMedia(ctx, id, file)
}

func (m *Manager) notify(ctx context.Context, level ports.NotificationLevel, message string) {
	if m.notifier == nil {
		return
	}
	m.notifier.Notify(ctx, ports.Notification{Level: level, Message: message})
}

func (m *Manager) confirm(ctx context.Context, prompt string) bool {
	if m.confirmer == nil {
		return false
	}
	return m.confirmer.Confirm(ctx, prompt)
}

func (f SponsorForm) input() domain.SponsorInput {
	input := domain.SponsorInput{
		Name:        strings.TrimSpace(f.Name),
		LogoURL:     strings.TrimSpace(f.LogoURL),
		WebsiteURL:  strings.TrimSpace(f.WebsiteURL),
		Description: strings.TrimSpace(f.Description),
		LevelID:     f.LevelID,
	}
	if f.LogoMode == LogoModeFile {
		input.LogoURL = ""
		input.LogoUpload = f.LogoFile != nil
	}
	return input
}

func formatBytes(n int64) string {
	const mb = 1024 * 1024
	if n%mb == 0 {
		return fmt.Sprintf("%dMB", n/mb)
	}
	return fmt.Sprintf("%d bytes", n)
}
