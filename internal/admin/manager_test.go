package admin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/fr0stylo/sponsorboard/internal/app/domain"
	"github.com/fr0stylo/sponsorboard/internal/app/ports"
)

const mediaID = "3f1c2a4e-8b9d-4c1e-a2f3-0123456789ab"

type mockSponsorAPI struct{ mock.Mock }

func (m *mockSponsorAPI) ListLevels(ctx context.Context) ([]domain.SponsorLevel, error) {
	args := m.Called(ctx)
	levels, _ := args.Get(0).([]domain.SponsorLevel)
	return levels, args.Error(1)
}

func (m *mockSponsorAPI) ListSponsors(ctx context.Context) ([]domain.Sponsor, error) {
	args := m.Called(ctx)
	sponsors, _ := args.Get(0).([]domain.Sponsor)
	return sponsors, args.Error(1)
}

func (m *mockSponsorAPI) CreateLevel(ctx context.Context, name string) (domain.SponsorLevel, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(domain.SponsorLevel), args.Error(1)
}

func (m *mockSponsorAPI) UpdateLevel(ctx context.Context, id int64, name string) (domain.SponsorLevel, error) {
	args := m.Called(ctx, id, name)
	return args.Get(0).(domain.SponsorLevel), args.Error(1)
}

func (m *mockSponsorAPI) DeleteLevel(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockSponsorAPI) CreateSponsor(ctx context.Context, input domain.SponsorInput) (domain.Sponsor, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.Sponsor), args.Error(1)
}

func (m *mockSponsorAPI) UpdateSponsor(ctx context.Context, id int64, patch domain.SponsorPatch) (domain.Sponsor, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(domain.Sponsor), args.Error(1)
}

func (m *mockSponsorAPI) DeleteSponsor(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockUploader struct{ mock.Mock }

func (m *mockUploader) UploadMedia(ctx context.Context, id string, file ports.LogoFile) error {
	return m.Called(ctx, id, file).Error(0)
}

type recordingNotifier struct {
	notes []ports.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, note ports.Notification) {
	n.notes = append(n.notes, note)
}

func (n *recordingNotifier) last() ports.Notification {
	if len(n.notes) == 0 {
		return ports.Notification{}
	}
	return n.notes[len(n.notes)-1]
}

type staticConfirmer struct {
	answer  bool
	prompts []string
}

func (c *staticConfirmer) Confirm(_ context.Context, prompt string) bool {
	c.prompts = append(c.prompts, prompt)
	return c.answer
}

type mediaBase string

func (b mediaBase) MediaURL(id string) string { return string(b) + "/media/" + id }

type testManager struct {
	*Manager
	api       *mockSponsorAPI
	uploader  *mockUploader
	notifier  *recordingNotifier
	confirmer *staticConfirmer
}

func newTestManager(t *testing.T, opts Options) testManager {
	t.Helper()
	api := &mockSponsorAPI{}
	uploader := &mockUploader{}
	notifier := &recordingNotifier{}
	confirmer := &staticConfirmer{answer: true}
	t.Cleanup(func() {
		api.AssertExpectations(t)
		uploader.AssertExpectations(t)
	})
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := NewManager(api, mediaBase("https://host"), uploader, notifier, confirmer, log, opts)
	return testManager{Manager: m, api: api, uploader: uploader, notifier: notifier, confirmer: confirmer}
}

func compensating() Options {
	opts := DefaultOptions()
	opts.LogoCompensate = true
	return opts
}

func TestLoadReportsEachFailure(t *testing.T) {
	tm := newTestManager(t, DefaultOptions())
	tm.api.On("ListLevels", mock.Anything).Return(nil, errors.New("boom")).Once()
	tm.api.On("ListSponsors", mock.Anything).Return([]domain.Sponsor{{ID: 1, Name: "Acme", LevelID: 1}}, nil).Once()

	if tm.Load(context.Background()) {
		t.Fatalf("expected Load to report failure")
	}
	if tm.Error != "Failed to load sponsor levels" {
		t.Fatalf("unexpected error message %q", tm.Error)
	}
	if len(tm.Sponsors) != 1 {
		t.Fatalf("expected sponsors to load independently, got %+v", tm.Sponsors)
	}
	if tm.LoadingLevels || tm.LoadingSponsors {
		t.Fatalf("loading flags must be cleared")
	}
}

func TestCreateLevelRejectsBlankNameWithoutRequest(t *testing.T) {
	tm := newTestManager(t, DefaultOptions())

	if tm.CreateLevel(context.Background(), "   ") {
		t.Fatalf("expected blank level to be refused")
	}
	tm.api.AssertNotCalled(t, "CreateLevel", mock.Anything, mock.Anything)
	if got := tm.notifier.last(); got.Level != ports.NotifyError || got.Message != "Level name cannot be empty" {
		t.Fatalf("unexpected notification %+v", got)
	}
}

func TestCreateAndUpdateLevelUpdateCache(t *testing.T) {
	tm := newTestManager(t, DefaultOptions())
	ctx := context.Background()
	tm.api.On("CreateLevel", mock.Anything, "Gold").Return(domain.SponsorLevel{ID: 1, Name: "Gold"}, nil).Once()
	tm.api.On("UpdateLevel", mock.Anything, int64(1), "Platinum").Return(domain.SponsorLevel{ID: 1, Name: "Platinum"}, nil).Once()

	if !tm.CreateLevel(ctx, " Gold ") {
		t.Fatalf("expected level creation to succeed")
	}
	if got := tm.notifier.last().Message; got != `Level "Gold" created successfully` {
		t.Fatalf("unexpected notification %q", got)
	}
	if !tm.UpdateLevel(ctx, 1, "Platinum") {
		t.Fatalf("expected level update to succeed")
	}
	if len(tm.Levels) != 1 || tm.Levels[0].Name != "Platinum" {
		t.Fatalf("unexpected levels %+v", tm.Levels)
	}
	if got := tm.notifier.last().Message; got != `Level "Platinum" updated successfully` {
		t.Fatalf("unexpected notification %q", got)
	}
}

func TestCreateLevelFailureKeepsCache(t *testing.T) {
	tm := newTestManager(t, DefaultOptions())
	tm.api.On("CreateLevel", mock.Anything, "Gold").Return(domain.SponsorLevel{}, errors.New("503")).Once()

	if tm.CreateLevel(context.Background(), "Gold") {
		t.Fatalf("expected failure")
	}
	if len(tm.Levels) != 0 {
		t.Fatalf("cache must be untouched, got %+v", tm.Levels)
	}
	if got := tm.notifier.last().Message; got != "Failed to create sponsor level" {
		t.Fatalf("unexpected notification %q", got)
	}
}

func TestDeleteLevelWithSponsorsIsRefusedWithoutRequest(t *testing.T) {
	tm := newTestManager(t, DefaultOptions())
	tm.Levels = []domain.SponsorLevel{{ID: 1, Name: "Gold"}}
	tm.Sponsors = []domain.Sponsor{{ID: 7, Name: "Acme", LevelID: 1}}

	if tm.CanDeleteLevel(1) {
		t.Fatalf("expected delete control to be disabled")
	}
	if tm.DeleteLevel(context.Background(), 1) {
		t.Fatalf("expected referenced level delete to be refused")
	}
	tm.api.AssertNotCalled(t, "DeleteLevel", mock.Anything, mock.Anything)
	if len(tm.confirmer.prompts) != 0 {
		t.Fatalf("no confirmation expected, got %v", tm.confirmer.prompts)
	}
}

func TestDeleteLevelNeedsConfirmation(t *testing.T) {
	tm := newTestManager(t, DefaultOptions())
	tm.Levels = []domain.SponsorLevel{{ID: 1, Name: "Gold"}, {ID: 2, Name: "Silver"}}
	tm.confirmer.answer = false

	if tm.DeleteLevel(context.Background(), 2) {
		t.Fatalf("declined confirmation must abort")
	}
	tm.api.AssertNotCalled(t, "DeleteLevel", mock.Anything, mock.Anything)

	tm.confirmer.answer = true
	tm.api.On("DeleteLevel", mock.Anything, int64(2)).Return(nil).Once()
	if !tm.DeleteLevel(context.Background(), 2) {
		t.Fatalf("expected level delete to succeed")
	}
	if len(tm.Levels) != 1 || tm.Levels[0].ID != 1 {
		t.Fatalf("unexpected levels %+v", tm.Levels)
	}
	if got := tm.notifier.last().Message; got != "Level deleted successfully" {
		t.Fatalf("unexpected notification %q", got)
	}
}

func TestCreateSponsorValidationSkipsRequest(t *testing.T) {
	tm := newTestManager(t, DefaultOptions())
	ctx := context.Background()

	if tm.CreateSponsor(ctx, SponsorForm{Name: " ", LevelID: 1}) {
		t.Fatalf("expected empty name to be refused")
	}
	if got := tm.notifier.last().Message; got != "Sponsor name cannot be empty" {
		t.Fatalf("unexpected notification %q", got)
	}
	if tm.CreateSponsor(ctx, SponsorForm{Name: "Acme"}) {
		t.Fatalf("expected missing level to be refused")
	}
	if got := tm.notifier.last().Message; got != "Please select a sponsor level" {
		t.Fatalf("unexpected notification %q", got)
	}
	tm.api.AssertNotCalled(t, "CreateSponsor", mock.Anything, mock.Anything)
}

func TestStartAddSponsorNeedsALevel(t *testing.T) {
	tm := newTestManager(t, DefaultOptions())
	if _, ok := tm.StartAddSponsor(context.Background()); ok {
		t.Fatalf("expected add dialog to stay closed without levels")
	}
	if got := tm.notifier.last().Message; got != "Please create at least one level first" {
		t.Fatalf("unexpected notification %q", got)
	}

	tm.Levels = []domain.SponsorLevel{{ID: 4, Name: "Gold"}}
	form, ok := tm.StartAddSponsor(context.Background())
	if !ok || form.LevelID != 4 || form.LogoMode != LogoModeURL {
		t.Fatalf("unexpected form %+v", form)
	}
}

func TestSelectLogoFileValidatesSizeAndType(t *testing.T) {
	tm := newTestManager(t, DefaultOptions())
	ctx := context.Background()
	form := SponsorForm{LogoMode: LogoModeURL}

	if tm.SelectLogoFile(ctx, &form, ports.LogoFile{Name: "big.png", ContentType: "image/png", Size: DefaultMaxLogoBytes + 1}) {
		t.Fatalf("expected oversized file to be refused")
	}
	if got := tm.notifier.last().Message; got != "File size should be less than 5MB" {
		t.Fatalf("unexpected notification %q", got)
	}
	if tm.SelectLogoFile(ctx, &form, ports.LogoFile{Name: "doc.pdf", ContentType: "application/pdf", Size: 10}) {
		t.Fatalf("expected non-image to be refused")
	}
	if got := tm.notifier.last().Message; got != "Please upload an image file" {
		t.Fatalf("unexpected notification %q", got)
	}
	if form.LogoFile != nil {
		t.Fatalf("rejected files must not be attached")
	}
	if !tm.SelectLogoFile(ctx, &form, ports.LogoFile{Name: "logo.png", ContentType: "image/png", Data: []byte("png")}) {
		t.Fatalf("expected image to be accepted")
	}
	if form.LogoMode != LogoModeFile || form.LogoFile == nil || form.LogoFile.Size != 3 {
		t.Fatalf("unexpected form %+v", form)
	}
}

func TestCreateSponsorWithURLLogo(t *testing.T) {
	tm := newTestManager(t, DefaultOptions())
	want := domain.SponsorInput{Name: "Acme", LogoURL: "https://cdn.example.com/acme.png", LevelID: 1}
	tm.api.On("CreateSponsor", mock.Anything, want).Return(domain.Sponsor{ID: 3, Name: "Acme", LogoURL: want.LogoURL, LogoKind: domain.LogoKindURL, LevelID: 1}, nil).Once()

	ok := tm.CreateSponsor(context.Background(), SponsorForm{Name: "Acme", LogoURL: want.LogoURL, LevelID: 1, LogoMode: LogoModeURL})
	if !ok {
		t.Fatalf("expected sponsor creation to succeed")
	}
	if len(tm.Sponsors) != 1 || tm.Sponsors[0].ID != 3 {
		t.Fatalf("unexpected sponsors %+v", tm.Sponsors)
	}
	if got := tm.notifier.last().Message; got != `Sponsor "Acme" created successfully` {
		t.Fatalf("unexpected notification %q", got)
	}
	tm.uploader.AssertNotCalled(t, "UploadMedia", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateSponsorUploadsFileAfterMetadataWrite(t *testing.T) {
	tm := newTestManager(t, DefaultOptions())
	file := ports.LogoFile{Name: "logo.png", ContentType: "image/png", Size: 3, Data: []byte("png")}
	want := domain.SponsorInput{Name: "Acme", LevelID: 1, LogoUpload: true}
	tm.api.On("CreateSponsor", mock.Anything, want).Return(domain.Sponsor{ID: 3, Name: "Acme", LogoURL: mediaID, LogoKind: domain.LogoKindMedia, LevelID: 1}, nil).Once()
	tm.uploader.On("UploadMedia", mock.Anything, mediaID, file).Return(nil).Once()

	ok := tm.CreateSponsor(context.Background(), SponsorForm{Name: "Acme", LogoURL: "ignored", LevelID: 1, LogoMode: LogoModeFile, LogoFile: &file})
	if !ok || len(tm.Sponsors) != 1 {
		t.Fatalf("expected sponsor to be created and cached, got %v %+v", ok, tm.Sponsors)
	}
}

func TestCreateSponsorCompensatesFailedUpload(t *testing.T) {
	tm := newTestManager(t, compensating())
	file := ports.LogoFile{Name: "logo.png", ContentType: "image/png", Size: 3, Data: []byte("png")}
	tm.api.On("CreateSponsor", mock.Anything, mock.Anything).Return(domain.Sponsor{ID: 3, Name: "Acme", LogoURL: mediaID, LevelID: 1}, nil).Once()
	tm.uploader.On("UploadMedia", mock.Anything, mediaID, file).Return(errors.New("413")).Once()
	tm.api.On("DeleteSponsor", mock.Anything, int64(3)).Return(nil).Once()

	if tm.CreateSponsor(context.Background(), SponsorForm{Name: "Acme", LevelID: 1, LogoMode: LogoModeFile, LogoFile: &file}) {
		t.Fatalf("expected failed upload to fail the create")
	}
	if len(tm.Sponsors) != 0 {
		t.Fatalf("cache must stay unchanged, got %+v", tm.Sponsors)
	}
	if got := tm.notifier.last(); got.Level != ports.NotifyError || got.Message != "Failed to upload sponsor logo" {
		t.Fatalf("unexpected notification %+v", got)
	}
}

func TestCreateSponsorWithoutCompensationKeepsSponsor(t *testing.T) {
	tm := newTestManager(t, DefaultOptions())
	file := ports.LogoFile{Name: "logo.png", ContentType: "image/png", Size: 3, Data: []byte("png")}
	tm.api.On("CreateSponsor", mock.Anything, mock.Anything).Return(domain.Sponsor{ID: 3, Name: "Acme", LogoURL: mediaID, LevelID: 1}, nil).Once()
	tm.uploader.On("UploadMedia", mock.Anything, mediaID, file).Return(errors.New("413")).Once()

	tm.CreateSponsor(context.Background(), SponsorForm{Name: "Acme", LevelID: 1, LogoMode: LogoModeFile, LogoFile: &file})

	tm.api.AssertNotCalled(t, "DeleteSponsor", mock.Anything, mock.Anything)
	if len(tm.Sponsors) != 1 {
		t.Fatalf("expected persisted sponsor in cache, got %+v", tm.Sponsors)
	}
	if got := tm.notifier.last().Message; got != "Failed to upload sponsor logo" {
		t.Fatalf("unexpected notification %q", got)
	}
}

func TestUpdateSponsorRestoresPreviousOnFailedUpload(t *testing.T) {
	tm := newTestManager(t, compensating())
	previous := domain.Sponsor{ID: 5, Name: "Acme", LogoURL: "https://cdn.example.com/a.png", LogoKind: domain.LogoKindURL, LevelID: 1}
	tm.Sponsors = []domain.Sponsor{previous}
	file := ports.LogoFile{Name: "logo.png", ContentType: "image/png", Size: 3, Data: []byte("png")}

	tm.api.On("UpdateSponsor", mock.Anything, int64(5), mock.MatchedBy(func(p domain.SponsorPatch) bool { return p.LogoUpload })).
		Return(domain.Sponsor{ID: 5, Name: "Acme Corp", LogoURL: mediaID, LogoKind: domain.LogoKindMedia, LevelID: 1}, nil).Once()
	tm.uploader.On("UploadMedia", mock.Anything, mediaID, file).Return(errors.New("network")).Once()
	tm.api.On("UpdateSponsor", mock.Anything, int64(5), domain.RestorePatch(previous)).Return(previous, nil).Once()

	if tm.UpdateSponsor(context.Background(), 5, SponsorForm{Name: "Acme Corp", LevelID: 1, LogoMode: LogoModeFile, LogoFile: &file}) {
		t.Fatalf("expected failed upload to fail the update")
	}
	if tm.Sponsors[0] != previous {
		t.Fatalf("cache must stay unchanged, got %+v", tm.Sponsors[0])
	}
}

func TestUpdateSponsorKeepsMediaLogoWithoutNewFile(t *testing.T) {
	tm := newTestManager(t, DefaultOptions())
	current := domain.Sponsor{ID: 5, Name: "Acme", LogoURL: mediaID, LogoKind: domain.LogoKindMedia, LevelID: 1}
	tm.Sponsors = []domain.Sponsor{current}

	tm.api.On("UpdateSponsor", mock.Anything, int64(5), mock.MatchedBy(func(p domain.SponsorPatch) bool {
		return p.LogoURL == nil && !p.LogoUpload && p.Name != nil && *p.Name == "Acme Corp"
	})).Return(domain.Sponsor{ID: 5, Name: "Acme Corp", LogoURL: mediaID, LogoKind: domain.LogoKindMedia, LevelID: 1}, nil).Once()

	form := tm.FormFromSponsor(current)
	form.Name = "Acme Corp"
	if !tm.UpdateSponsor(context.Background(), 5, form) {
		t.Fatalf("expected update to succeed")
	}
	if tm.Sponsors[0].Name != "Acme Corp" || tm.Sponsors[0].LogoURL != mediaID {
		t.Fatalf("unexpected cached sponsor %+v", tm.Sponsors[0])
	}
	if got := tm.notifier.last().Message; got != `Sponsor "Acme Corp" updated successfully` {
		t.Fatalf("unexpected notification %q", got)
	}
}

func TestFormFromSponsorPicksLogoMode(t *testing.T) {
	tm := newTestManager(t, DefaultOptions())

	media := tm.FormFromSponsor(domain.Sponsor{Name: "Acme", LogoURL: mediaID})
	if media.LogoMode != LogoModeFile || media.LogoURL != "" || media.LogoPreview != "https://host/media/"+mediaID {
		t.Fatalf("unexpected media form %+v", media)
	}
	remote := tm.FormFromSponsor(domain.Sponsor{Name: "Acme", LogoURL: "https://cdn.example.com/a.png", LogoKind: domain.LogoKindURL})
	if remote.LogoMode != LogoModeURL || remote.LogoURL != "https://cdn.example.com/a.png" {
		t.Fatalf("unexpected url form %+v", remote)
	}
}

func TestDeleteSponsorFlow(t *testing.T) {
	tm := newTestManager(t, DefaultOptions())
	tm.Sponsors = []domain.Sponsor{{ID: 1, Name: "Acme"}, {ID: 2, Name: "Beta"}}
	tm.api.On("DeleteSponsor", mock.Anything, int64(1)).Return(errors.New("500")).Once()
	tm.api.On("DeleteSponsor", mock.Anything, int64(2)).Return(nil).Once()

	if tm.DeleteSponsor(context.Background(), 1) {
		t.Fatalf("expected failed delete")
	}
	if got := tm.notifier.last().Message; got != "Failed to delete sponsor" {
		t.Fatalf("unexpected notification %q", got)
	}
	if !tm.DeleteSponsor(context.Background(), 2) {
		t.Fatalf("expected delete to succeed")
	}
	if len(tm.Sponsors) != 1 || tm.Sponsors[0].ID != 1 {
		t.Fatalf("unexpected sponsors %+v", tm.Sponsors)
	}
	if tm.confirmer.prompts[0] != "Are you sure you want to delete this sponsor?" {
		t.Fatalf("unexpected prompt %q", tm.confirmer.prompts[0])
	}
}

func TestGroupsMatchesDescriptionAndWebsite(t *testing.T) {
	tm := newTestManager(t, DefaultOptions())
	tm.Levels = []domain.SponsorLevel{{ID: 1, Name: "Gold"}, {ID: 2, Name: "Silver"}}
	tm.Sponsors = []domain.Sponsor{
		{ID: 1, Name: "Zeta", LevelID: 1, Description: "rockets"},
		{ID: 2, Name: "Acme", LevelID: 1, WebsiteURL: "https://acme.example.com"},
		{ID: 3, Name: "Beta", LevelID: 2},
	}

	groups := tm.Groups("ROCKETS")
	if len(groups) != 2 || len(groups[0].Sponsors) != 1 || groups[0].Sponsors[0].Name != "Zeta" {
		t.Fatalf("unexpected groups %+v", groups)
	}
	if len(groups[1].Sponsors) != 0 {
		t.Fatalf("empty level must be kept, got %+v", groups[1])
	}

	all := tm.Groups("")
	if all[0].Sponsors[0].Name != "Acme" || all[0].Sponsors[1].Name != "Zeta" {
		t.Fatalf("expected name ordering, got %+v", all[0].Sponsors)
	}
}
