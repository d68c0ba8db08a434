package domain

import (
	"html"
	"net/url"
	"strings"
)

const (
	// PlaceholderLineChars is the per-line character budget of placeholder text.
	PlaceholderLineChars = 16
	// PlaceholderMaxLines is the number of text lines a placeholder can hold.
	PlaceholderMaxLines = 2

	ellipsis = "…"
)

// WrapText packs words greedily into at most maxLines lines of maxChars runes.
// A line that would overflow its budget is cut and ends with an ellipsis.
func WrapText(text string, maxChars, maxLines int) []string {
	words := strings.Fields(text)
	if len(words) == 0 || maxChars <= 0 || maxLines <= 0 {
		return nil
	}

	lines := make([]string, 0, maxLines)
	current := ""
	for i, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if runeLen(candidate) <= maxChars {
			current = candidate
			continue
		}
		if len(lines)+1 == maxLines {
			rest := strings.Join(words[i:], " ")
			if current != "" {
				rest = current + " " + rest
			}
			return append(lines, truncate(rest, maxChars))
		}
		if current != "" {
			lines = append(lines, current)
			current = word
			continue
		}
		lines = append(lines, truncate(word, maxChars))
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

func truncate(line string, maxChars int) string {
	runes := []rune(line)
	if len(runes) <= maxChars {
		return line
	}
	return strings.TrimRight(string(runes[:maxChars-1]), " ") + ellipsis
}

func runeLen(s string) int {
	return len([]rune(s))
}

// PlaceholderSVG renders the inline placeholder graphic for a sponsor name.
func PlaceholderSVG(name string) string {
	lines := WrapText(name, PlaceholderLineChars, PlaceholderMaxLines)

	var b strings.Builder
	b.WriteString(`<svg width='200' height='100' xmlns='http://www.w3.org/2000/svg'>`)
	b.WriteString(`<rect width='200' height='100' fill='var(--color-base-100)'/>`)
	b.WriteString(`<text x='50%' y='50%' dominant-baseline='middle' text-anchor='middle' fill='var(--color-base-content)' font-size='20' font-family='Arial, sans-serif' font-weight='bold'>`)
	switch len(lines) {
	case 0:
	case 1:
		b.WriteString(`<tspan x='50%' dy='0em'>` + html.EscapeString(lines[0]) + `</tspan>`)
	default:
		b.WriteString(`<tspan x='50%' dy='-0.6em'>` + html.EscapeString(lines[0]) + `</tspan>`)
		b.WriteString(`<tspan x='50%' dy='1.2em'>` + html.EscapeString(lines[1]) + `</tspan>`)
	}
	b.WriteString(`</text></svg>`)
	return b.String()
}

// PlaceholderDataURI returns PlaceholderSVG as a data URI usable as an image source.
func PlaceholderDataURI(name string) string {
	return "data:image/svg+xml," + url.PathEscape(PlaceholderSVG(name))
}
