package domain

// LogoKind discriminates what a sponsor's logo reference points at.
type LogoKind string

const (
	// LogoKindNone means no logo; a placeholder is rendered.
	LogoKindNone LogoKind = "none"
	// LogoKindURL means the logo reference is an absolute URL.
	LogoKindURL LogoKind = "url"
	// LogoKindMedia means the logo reference is an opaque media identifier.
	LogoKindMedia LogoKind = "media"
)

// Field limits enforced by the host API.
const (
	MaxNameLength        = 255
	MaxURLLength         = 255
	MaxDescriptionLength = 1000
)

// SponsorLevel is a named tier used to group sponsors.
type SponsorLevel struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Sponsors []Sponsor `json:"sponsors,omitempty"`
}

// Sponsor is one sponsor entry.
type Sponsor struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	LogoURL     string   `json:"logo_url"`
	LogoKind    LogoKind `json:"logo_kind,omitempty"`
	WebsiteURL  string   `json:"website_url"`
	Description string   `json:"description"`
	LevelID     int64    `json:"level_id"`
}

// SponsorInput is the create payload for a sponsor.
//
// LogoUpload asks the host to reserve a media identifier for a logo binary
// that is uploaded after the sponsor is written; LogoURL must be empty then.
type SponsorInput struct {
	Name        string `json:"name"`
	LogoURL     string `json:"logo_url"`
	WebsiteURL  string `json:"website_url"`
	Description string `json:"description"`
	LevelID     int64  `json:"level_id"`
	LogoUpload  bool   `json:"logo_upload,omitempty"`
}

// SponsorPatch is a partial sponsor update. Nil fields are left unchanged.
type SponsorPatch struct {
	Name        *string `json:"name,omitempty"`
	LogoURL     *string `json:"logo_url,omitempty"`
	WebsiteURL  *string `json:"website_url,omitempty"`
	Description *string `json:"description,omitempty"`
	LevelID     *int64  `json:"level_id,omitempty"`
	LogoUpload  bool    `json:"logo_upload,omitempty"`
}

// FullPatch returns a patch that overwrites every field of the sponsor with in.
func FullPatch(in SponsorInput) SponsorPatch {
	name := in.Name
	logo := in.LogoURL
	website := in.WebsiteURL
	description := in.Description
	patch := SponsorPatch{
		Name:        &name,
		LogoURL:     &logo,
		WebsiteURL:  &website,
		Description: &description,
		LogoUpload:  in.LogoUpload,
	}
	if in.LevelID > 0 {
		levelID := in.LevelID
		patch.LevelID = &levelID
	}
	return patch
}

// RestorePatch returns a patch that writes back a previously read sponsor.
func RestorePatch(s Sponsor) SponsorPatch {
	return FullPatch(SponsorInput{
		Name:        s.Name,
		LogoURL:     s.LogoURL,
		WebsiteURL:  s.WebsiteURL,
		Description: s.Description,
		LevelID:     s.LevelID,
	})
}

// Apply returns s with the non-nil patch fields applied.
func (p SponsorPatch) Apply(s Sponsor) Sponsor {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.LogoURL != nil {
		s.LogoURL = *p.LogoURL
	}
	if p.WebsiteURL != nil {
		s.WebsiteURL = *p.WebsiteURL
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.LevelID != nil {
		s.LevelID = *p.LevelID
	}
	return s
}

// ComponentData is the aggregate payload served to embedded widgets.
type ComponentData struct {
	Sponsors                  []Sponsor      `json:"sponsors"`
	Levels                    []SponsorLevel `json:"levels"`
	DisplaySponsorLevel       bool           `json:"display_sponsor_level"`
	DisplaySponsorWebsite     bool           `json:"display_sponsor_website"`
	DisplaySponsorDescription bool           `json:"display_sponsor_description"`
}
