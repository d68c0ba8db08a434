package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fr0stylo/sponsorboard/internal/app/domain"
	"github.com/fr0stylo/sponsorboard/internal/app/ports"
)

type memoryAPI struct {
	levels   []domain.SponsorLevel
	sponsors []domain.Sponsor
	deleted  []int64
	nextID   int64
}

func (m *memoryAPI) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memoryAPI) ListLevels(context.Context) ([]domain.SponsorLevel, error) {
	return m.levels, nil
}

func (m *memoryAPI) ListSponsors(context.Context) ([]domain.Sponsor, error) {
	return m.sponsors, nil
}

func (m *memoryAPI) CreateLevel(_ context.Context, name string) (domain.SponsorLevel, error) {
	level := domain.SponsorLevel{ID: m.id(), Name: name}
	m.levels = append(m.levels, level)
	return level, nil
}

func (m *memoryAPI) UpdateLevel(context.Context, int64, string) (domain.SponsorLevel, error) {
	return domain.SponsorLevel{}, errors.New("not used")
}

func (m *memoryAPI) DeleteLevel(context.Context, int64) error {
	return errors.New("not used")
}

func (m *memoryAPI) CreateSponsor(_ context.Context, input domain.SponsorInput) (domain.Sponsor, error) {
	sponsor := domain.Sponsor{ID: m.id(), Name: input.Name, LogoURL: input.LogoURL, LevelID: input.LevelID}
	if input.LogoUpload {
		sponsor.LogoURL = "media-1"
		sponsor.LogoKind = domain.LogoKindMedia
	}
	m.sponsors = append(m.sponsors, sponsor)
	return sponsor, nil
}

func (m *memoryAPI) UpdateSponsor(context.Context, int64, domain.SponsorPatch) (domain.Sponsor, error) {
	return domain.Sponsor{}, errors.New("not used")
}

func (m *memoryAPI) DeleteSponsor(_ context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type recordingUploader struct {
	ids   []string
	files []ports.LogoFile
	err   error
}

func (u *recordingUploader) UploadMedia(_ context.Context, id string, file ports.LogoFile) error {
	u.ids = append(u.ids, id)
	u.files = append(u.files, file)
	return u.err
}

const sampleSeed = `
levels:
  - name: Gold
    sponsors:
      - name: Acme
        logo_url: https://acme.example/logo.png
        website_url: https://acme.example
  - name: Silver
    sponsors:
      - name: Globex
        logo_file: logos/globex.png
`

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestParseSeedRejectsUnknownFields(t *testing.T) {
	_, err := parseSeed(strings.NewReader("levels:\n  - name: Gold\n    colour: gold\n"))
	if err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestParseSeedRejectsExclusiveLogoSources(t *testing.T) {
	_, err := parseSeed(strings.NewReader("levels:\n  - name: Gold\n    sponsors:\n      - name: Acme\n        logo_url: https://a\n        logo_file: a.png\n"))
	if err == nil || !strings.Contains(err.Error(), "exclusive") {
		t.Fatalf("expected exclusive logo error, got %v", err)
	}
}

func TestSeederCreatesLevelsSponsorsAndUploadsLogos(t *testing.T) {
	file, err := parseSeed(strings.NewReader(sampleSeed))
	if err != nil {
		t.Fatalf("parse seed: %v", err)
	}
	api := &memoryAPI{}
	uploader := &recordingUploader{}
	var readPath string
	s := &seeder{api: api, uploader: uploader, baseDir: "/seeds", readFile: func(path string) ([]byte, error) {
		readPath = path
		return pngHeader, nil
	}}

	result, err := s.run(context.Background(), file)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.LevelsCreated != 2 || result.SponsorsCreated != 2 || result.SponsorsSkipped != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if readPath != "/seeds/logos/globex.png" {
		t.Fatalf("expected logo path relative to seed dir, got %q", readPath)
	}
	if len(uploader.ids) != 1 || uploader.ids[0] != "media-1" {
		t.Fatalf("expected one upload to media-1, got %v", uploader.ids)
	}
	if uploader.files[0].ContentType != "image/png" {
		t.Fatalf("expected detected png content type, got %q", uploader.files[0].ContentType)
	}
}

func TestSeederSkipsExistingEntries(t *testing.T) {
	file, err := parseSeed(strings.NewReader(sampleSeed))
	if err != nil {
		t.Fatalf("parse seed: %v", err)
	}
	api := &memoryAPI{
		levels:   []domain.SponsorLevel{{ID: 1, Name: "gold"}, {ID: 2, Name: "Silver"}},
		sponsors: []domain.Sponsor{{ID: 3, Name: "ACME", LevelID: 1}, {ID: 4, Name: "Globex", LevelID: 2}},
		nextID:   10,
	}
	s := &seeder{api: api, uploader: &recordingUploader{}}

	result, err := s.run(context.Background(), file)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.LevelsCreated != 0 || result.SponsorsCreated != 0 || result.SponsorsSkipped != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestSeederRemovesSponsorWhenUploadFails(t *testing.T) {
	file, err := parseSeed(strings.NewReader(sampleSeed))
	if err != nil {
		t.Fatalf("parse seed: %v", err)
	}
	api := &memoryAPI{}
	s := &seeder{
		api:      api,
		uploader: &recordingUploader{err: errors.New("boom")},
		readFile: func(string) ([]byte, error) { return pngHeader, nil },
	}

	if _, err := s.run(context.Background(), file); err == nil {
		t.Fatalf("expected upload error")
	}
	if len(api.deleted) != 1 {
		t.Fatalf("expected created sponsor to be removed, got %v", api.deleted)
	}
}
