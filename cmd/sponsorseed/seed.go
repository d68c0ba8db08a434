package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"gopkg.in/yaml.v3"

	"github.com/fr0stylo/sponsorboard/internal/app/domain"
	"github.com/fr0stylo/sponsorboard/internal/app/ports"
)

type seedFile struct {
	Levels []seedLevel `yaml:"levels"`
}

type seedLevel struct {
	Name     string        `yaml:"name"`
	Sponsors []seedSponsor `yaml:"sponsors"`
}

type seedSponsor struct {
	Name        string `yaml:"name"`
	LogoURL     string `yaml:"logo_url"`
	LogoFile    string `yaml:"logo_file"`
	WebsiteURL  string `yaml:"website_url"`
	Description string `yaml:"description"`
}

func parseSeed(r io.Reader) (seedFile, error) {
	var file seedFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		if err == io.EOF {
			return seedFile{}, nil
		}
		return seedFile{}, fmt.Errorf("decode seed file: %w", err)
	}
	for i, level := range file.Levels {
		if strings.TrimSpace(level.Name) == "" {
			return seedFile{}, fmt.Errorf("level %d: name is required", i+1)
		}
		for j, sponsor := range level.Sponsors {
			if strings.TrimSpace(sponsor.Name) == "" {
				return seedFile{}, fmt.Errorf("level %q sponsor %d: name is required", level.Name, j+1)
			}
			if sponsor.LogoURL != "" && sponsor.LogoFile != "" {
				return seedFile{}, fmt.Errorf("sponsor %q: logo_url and logo_file are exclusive", sponsor.Name)
			}
		}
	}
	return file, nil
}

type seedResult struct {
	LevelsCreated   int
	SponsorsCreated int
	SponsorsSkipped int
}

// seeder applies a seed file through the plugin API. Levels and sponsors that
// already exist by name are left alone, so a seed can be re-run.
type seeder struct {
	api      ports.SponsorAPI
	uploader ports.MediaUploader
	baseDir  string
	readFile func(string) ([]byte, error)
}

func (s *seeder) run(ctx context.Context, file seedFile) (seedResult, error) {
	var result seedResult

	levels, err := s.api.ListLevels(ctx)
	if err != nil {
		return result, fmt.Errorf("list levels: %w", err)
	}
	sponsors, err := s.api.ListSponsors(ctx)
	if err != nil {
		return result, fmt.Errorf("list sponsors: %w", err)
	}

	levelIDs := make(map[string]int64, len(levels))
	for _, level := range levels {
		levelIDs[seedKey(level.Name)] = level.ID
	}
	existing := make(map[string]struct{}, len(sponsors))
	for _, sponsor := range sponsors {
		existing[sponsorKey(sponsor.LevelID, sponsor.Name)] = struct{}{}
	}

	for _, level := range file.Levels {
		levelID, ok := levelIDs[seedKey(level.Name)]
		if !ok {
			created, err := s.api.CreateLevel(ctx, strings.TrimSpace(level.Name))
			if err != nil {
				return result, fmt.Errorf("create level %q: %w", level.Name, err)
			}
			levelID = created.ID
			levelIDs[seedKey(level.Name)] = levelID
			result.LevelsCreated++
		}

		for _, sponsor := range level.Sponsors {
			key := sponsorKey(levelID, sponsor.Name)
			if _, ok := existing[key]; ok {
				result.SponsorsSkipped++
				continue
			}
			if err := s.createSponsor(ctx, levelID, sponsor); err != nil {
				return result, err
			}
			existing[key] = struct{}{}
			result.SponsorsCreated++
		}
	}
	return result, nil
}

func (s *seeder) createSponsor(ctx context.Context, levelID int64, sponsor seedSponsor) error {
	input := domain.SponsorInput{
		Name:        strings.TrimSpace(sponsor.Name),
		LogoURL:     strings.TrimSpace(sponsor.LogoURL),
		WebsiteURL:  strings.TrimSpace(sponsor.WebsiteURL),
		Description: strings.TrimSpace(sponsor.Description),
		LevelID:     levelID,
	}
	if sponsor.LogoFile == "" {
		if _, err := s.api.CreateSponsor(ctx, input); err != nil {
			return fmt.Errorf("create sponsor %q: %w", sponsor.Name, err)
		}
		return nil
	}

	logo, err := s.loadLogo(sponsor.LogoFile)
	if err != nil {
		return fmt.Errorf("sponsor %q: %w", sponsor.Name, err)
	}
	input.LogoUpload = true
	created, err := s.api.CreateSponsor(ctx, input)
	if err != nil {
		return fmt.Errorf("create sponsor %q: %w", sponsor.Name, err)
	}
	if err := s.uploader.UploadMedia(ctx, created.LogoURL, logo); err != nil {
		if delErr := s.api.DeleteSponsor(ctx, created.ID); delErr != nil {
			return fmt.Errorf("upload logo for %q: %w (cleanup failed: %v)", sponsor.Name, err, delErr)
		}
		return fmt.Errorf("upload logo for %q: %w", sponsor.Name, err)
	}
	return nil
}

func (s *seeder) loadLogo(path string) (ports.LogoFile, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.baseDir, path)
	}
	read := s.readFile
	if read == nil {
		read = os.ReadFile
	}
	data, err := read(path)
	if err != nil {
		return ports.LogoFile{}, fmt.Errorf("read logo: %w", err)
	}
	return ports.LogoFile{
		Name:        filepath.Base(path),
		ContentType: mimetype.Detect(data).String(),
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}

func seedKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func sponsorKey(levelID int64, name string) string {
	return fmt.Sprintf("%d/%s", levelID, seedKey(name))
}
