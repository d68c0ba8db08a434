package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/fr0stylo/sponsorboard/views/components"
)

const htmxScript = "https://unpkg.com/htmx.org@2.0.4"

// confirmScript asks before submitting forms that carry data-confirm.
const confirmScript = `document.addEventListener("submit",function(e){var m=e.target.dataset&&e.target.dataset.confirm;if(m&&!window.confirm(m)){e.preventDefault();}});`

// Layout wraps body in the HTML document shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		head := `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"/>` +
			`<meta name="viewport" content="width=device-width, initial-scale=1"/>` +
			`<title>` + templ.EscapeString(title) + `</title>` +
			`<link rel="stylesheet" href="/public/sponsors.css"/>` +
			`<script src="` + htmxScript + `" defer></script>` +
			`<script>` + confirmScript + `</script></head><body>`
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

// AdminPage renders the sponsor management screen.
func AdminPage(view components.AdminView) templ.Component {
	return Layout("Sponsors Management", components.AdminScreen(view))
}

// WidgetPage renders the public sponsor page. The widget itself is fetched
// by htmx once the page has loaded.
func WidgetPage(title, fragmentURL string) templ.Component {
	shell := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<main class="sponsors-page"><h1>`+templ.EscapeString(title)+`</h1>`+
			`<div id="sponsor-widget" hx-get="`+templ.EscapeString(fragmentURL)+`" hx-trigger="load" hx-swap="innerHTML">`+
			`<div class="sponsors-loading" data-state="loading"><span class="loading loading-spinner"></span> Loading sponsors...</div>`+
			`</div></main>`)
		return err
	})
	return Layout(title, shell)
}
