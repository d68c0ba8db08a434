package components

import (
	"strings"

	"github.com/a-h/templ"
)

// WidgetFragment renders the sponsor widget body swapped in by htmx.
func WidgetFragment(view WidgetView) templ.Component {
	return markup(func(b *strings.Builder) {
		if view.Error != "" {
			b.WriteString(`<div class="sponsors-widget" data-state="error"><div class="alert alert-error" role="alert">` + esc(view.Error) + `</div></div>`)
			return
		}
		b.WriteString(`<div class="sponsors-widget" data-state="ready">`)
		if view.ShowSearch {
			b.WriteString(`<div class="sponsors-search"><input type="search" name="q" class="input" value="` + esc(view.Query) + `" placeholder="` + esc(view.SearchPlaceholder) + `"`)
			b.WriteString(` hx-get="` + esc(view.FragmentURL) + `" hx-trigger="input changed delay:300ms, search" hx-target="#sponsor-results" hx-select="#sponsor-results" hx-swap="outerHTML"/></div>`)
		}
		b.WriteString(`<div id="sponsor-results">`)
		switch {
		case view.Empty != "":
			b.WriteString(`<p class="sponsors-empty">` + esc(view.Empty) + `</p>`)
		case view.Grouped:
			for _, group := range view.Groups {
				b.WriteString(`<section class="sponsor-level"><h3 class="sponsor-level-title">` + esc(group.Name) + `</h3>`)
				if group.Empty != "" {
					b.WriteString(`<p class="sponsors-empty">` + esc(group.Empty) + `</p>`)
				} else {
					writeCards(b, view.ModalURL, group.Cards)
				}
				b.WriteString(`</section>`)
			}
		default:
			writeCards(b, view.ModalURL, view.Cards)
		}
		b.WriteString(`</div><div id="sponsor-modal"></div></div>`)
	})
}

func writeCards(b *strings.Builder, modalURL string, cards []WidgetCard) {
	b.WriteString(`<div class="sponsor-grid">`)
	for _, card := range cards {
		writeCard(b, modalURL, card)
	}
	b.WriteString(`</div>`)
}

func writeCard(b *strings.Builder, modalURL string, card WidgetCard) {
	name := esc(card.Name)
	img := func() {
		b.WriteString(`<div class="sponsor-logo-frame"><img src="` + esc(card.LogoSrc) + `" alt="` + name + ` logo" loading="lazy"`)
		placeholderOnError(b, card.Placeholder)
		b.WriteString(`/></div>`)
	}
	switch card.Action {
	case "modal":
		b.WriteString(`<button type="button" class="sponsor-logo" title="` + name + `" aria-label="` + name + `"`)
		b.WriteString(` hx-get="` + esc(modalURL+id(card.ID)) + `" hx-target="#sponsor-modal" hx-swap="innerHTML">`)
		img()
		b.WriteString(`</button>`)
	case "website":
		b.WriteString(`<a class="sponsor-logo" href="` + href(card.WebsiteURL) + `" target="_blank" rel="noopener noreferrer" title="` + name + `" aria-label="` + name + `">`)
		img()
		b.WriteString(`</a>`)
	default:
		b.WriteString(`<div class="sponsor-logo" title="` + name + `" aria-label="` + name + `">`)
		img()
		b.WriteString(`</div>`)
	}
}

// SponsorModalDialog renders the description dialog for one sponsor.
func SponsorModalDialog(modal SponsorModal) templ.Component {
	return markup(func(b *strings.Builder) {
		b.WriteString(`<dialog class="modal modal-middle" open><div class="modal-box">`)
		b.WriteString(`<form method="dialog"><button class="btn btn-sm btn-circle btn-ghost modal-close" aria-label="Close">&times;</button></form>`)
		if modal.LogoSrc != "" {
			b.WriteString(`<img class="modal-logo" src="` + esc(modal.LogoSrc) + `" alt="` + esc(modal.Name) + ` logo"/>`)
		}
		b.WriteString(`<h2 class="modal-title">` + esc(modal.Name) + `</h2>`)
		b.WriteString(`<p class="modal-description">` + esc(modal.Description) + `</p>`)
		if modal.ShowWebsite && modal.WebsiteURL != "" {
			b.WriteString(`<a class="modal-website" href="` + href(modal.WebsiteURL) + `" target="_blank" rel="noreferrer">Visit Website</a>`)
		}
		b.WriteString(`</div><form method="dialog" class="modal-backdrop"><button>close</button></form></dialog>`)
	})
}
