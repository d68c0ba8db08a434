package domain

import (
	"net/url"
	"regexp"
	"strings"
)

var mediaIDPattern = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// IsMediaID reports whether raw has the shape of a host media identifier.
func IsMediaID(raw string) bool {
	return mediaIDPattern.MatchString(strings.TrimSpace(raw))
}

// IsAbsoluteURL reports whether raw is a scheme-prefixed URL that can be
// rendered without going through the media service.
func IsAbsoluteURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return parsed.Host != ""
	case "data":
		return true
	default:
		return false
	}
}

// IsWebsiteURL reports whether raw may be stored as a sponsor website. Empty
// means no website; anything else must be an http or https URL with a host.
func IsWebsiteURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return true
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return parsed.Host != ""
	default:
		return false
	}
}

// ClassifyLogo decides the logo kind from the raw logo field.
func ClassifyLogo(raw string) LogoKind {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return LogoKindNone
	case IsAbsoluteURL(raw):
		return LogoKindURL
	default:
		return LogoKindMedia
	}
}

// LogoKindOf returns the sponsor's logo discriminant, classifying the raw
// field only when the host did not send one.
func LogoKindOf(s Sponsor) LogoKind {
	if strings.TrimSpace(s.LogoURL) == "" {
		return LogoKindNone
	}
	switch s.LogoKind {
	case LogoKindURL, LogoKindMedia:
		return s.LogoKind
	default:
		return ClassifyLogo(s.LogoURL)
	}
}

// ResolveLogo returns the renderable image source for a sponsor.
//
// Empty logos yield the placeholder data URI, absolute URLs pass through and
// anything else is resolved with mediaURL.
func ResolveLogo(s Sponsor, mediaURL func(id string) string) string {
	switch LogoKindOf(s) {
	case LogoKindURL:
		return strings.TrimSpace(s.LogoURL)
	case LogoKindMedia:
		if mediaURL == nil {
			return PlaceholderDataURI(s.Name)
		}
		return mediaURL(strings.TrimSpace(s.LogoURL))
	default:
		return PlaceholderDataURI(s.Name)
	}
}
