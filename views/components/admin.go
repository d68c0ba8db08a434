package components

import (
	"strings"

	"github.com/a-h/templ"
)

const adminBase = "/admin/sponsors"

// Toasts renders flash notifications.
func Toasts(toasts []Toast) templ.Component {
	return markup(func(b *strings.Builder) {
		writeToasts(b, toasts)
	})
}

func writeToasts(b *strings.Builder, toasts []Toast) {
	if len(toasts) == 0 {
		return
	}
	b.WriteString(`<div class="toast toast-top toast-end">`)
	for _, toast := range toasts {
		level := toast.Level
		if level == "" {
			level = "info"
		}
		b.WriteString(`<div class="alert alert-` + esc(level) + `" role="status">` + esc(toast.Message) + `</div>`)
	}
	b.WriteString(`</div>`)
}

// AdminScreen renders the sponsor management screen body.
func AdminScreen(view AdminView) templ.Component {
	return markup(func(b *strings.Builder) {
		writeToasts(b, view.Toasts)
		b.WriteString(`<div class="admin-sponsors"><h1 class="admin-title">Sponsors Management</h1>`)
		if view.Error != "" {
			b.WriteString(`<div class="alert alert-error" role="alert">` + esc(view.Error) + `</div>`)
		}
		writeLevels(b, view)
		writeSponsors(b, view)
		if view.Form.Open {
			writeSponsorForm(b, view)
		}
		b.WriteString(`</div>`)
	})
}

func writeLevels(b *strings.Builder, view AdminView) {
	b.WriteString(`<section class="admin-levels"><h2>Sponsor Levels</h2>`)
	b.WriteString(`<form method="post" action="` + adminBase + `/levels" class="level-create">`)
	csrfField(b, view.CSRF)
	b.WriteString(`<input type="text" name="name" class="input" placeholder="Enter level name"/><button type="submit" class="btn btn-primary">Add Level</button></form>`)
	b.WriteString(`<ul class="level-list">`)
	for _, level := range view.Levels {
		b.WriteString(`<li class="level-row">`)
		if level.Editing {
			b.WriteString(`<form method="post" action="` + adminBase + `/levels/` + id(level.ID) + `" class="level-edit">`)
			csrfField(b, view.CSRF)
			b.WriteString(`<input type="text" name="name" class="input" value="` + esc(level.Name) + `"/><button type="submit" class="btn btn-primary">Save</button><a class="btn" href="` + adminBase + `">Cancel</a></form>`)
		} else {
			b.WriteString(`<span class="level-name">` + esc(level.Name) + `</span> <span class="badge">` + id(int64(level.SponsorCount)) + ` sponsors</span>`)
			b.WriteString(`<a class="btn btn-ghost" href="` + adminBase + `?edit_level=` + id(level.ID) + `">Edit</a>`)
		}
		b.WriteString(`<form method="post" action="` + adminBase + `/levels/` + id(level.ID) + `/delete" data-confirm="` + esc(view.ConfirmLevel) + `">`)
		csrfField(b, view.CSRF)
		b.WriteString(`<input type="hidden" name="confirm" value="yes"/><button type="submit" class="btn btn-error"`)
		if !level.CanDelete {
			b.WriteString(` disabled title="Cannot delete levels with sponsors"`)
		}
		b.WriteString(`>Delete</button></form></li>`)
	}
	b.WriteString(`</ul></section>`)
}

func writeSponsors(b *strings.Builder, view AdminView) {
	b.WriteString(`<section class="admin-list"><div class="admin-toolbar">`)
	b.WriteString(`<form method="get" action="` + adminBase + `" class="admin-search"><input type="search" name="q" class="input" placeholder="Search sponsors..." value="` + esc(view.Query) + `"/>`)
	if view.Query != "" {
		b.WriteString(`<a class="btn btn-ghost" href="` + adminBase + `" aria-label="Clear search">&times;</a>`)
	}
	b.WriteString(`</form><a class="btn btn-primary" href="` + adminBase + `?new=1">Add Sponsor</a></div>`)
	for _, group := range view.Groups {
		b.WriteString(`<div class="admin-group"><h3>` + esc(group.LevelName) + `</h3>`)
		if len(group.Sponsors) == 0 {
			b.WriteString(`<p class="sponsors-empty">No sponsors in this level</p>`)
		}
		b.WriteString(`<div class="admin-grid">`)
		for _, sponsor := range group.Sponsors {
			writeAdminSponsor(b, view, sponsor)
		}
		b.WriteString(`</div></div>`)
	}
	b.WriteString(`</section>`)
}

func writeAdminSponsor(b *strings.Builder, view AdminView, sponsor AdminSponsor) {
	b.WriteString(`<article class="admin-card"><img src="` + esc(sponsor.LogoSrc) + `" alt="` + esc(sponsor.Name) + ` logo"/>`)
	b.WriteString(`<h4>` + esc(sponsor.Name) + `</h4>`)
	if sponsor.WebsiteURL != "" {
		b.WriteString(`<a href="` + href(sponsor.WebsiteURL) + `" target="_blank" rel="noreferrer">` + esc(sponsor.WebsiteURL) + `</a>`)
	}
	if sponsor.Description != "" {
		b.WriteString(`<p>` + esc(sponsor.Description) + `</p>`)
	}
	b.WriteString(`<div class="admin-card-actions"><a class="btn btn-ghost" href="` + adminBase + `?edit=` + id(sponsor.ID) + `">Edit</a>`)
	b.WriteString(`<form method="post" action="` + adminBase + `/sponsors/` + id(sponsor.ID) + `/delete" data-confirm="` + esc(view.ConfirmSponsor) + `">`)
	csrfField(b, view.CSRF)
	b.WriteString(`<input type="hidden" name="confirm" value="yes"/><button type="submit" class="btn btn-error">Delete</button></form></div></article>`)
}

func writeSponsorForm(b *strings.Builder, view AdminView) {
	form := view.Form
	action := adminBase + "/sponsors"
	title := "Add Sponsor"
	if form.SponsorID > 0 {
		action += "/" + id(form.SponsorID)
		title = "Edit Sponsor"
	}
	b.WriteString(`<dialog class="modal" open><div class="modal-box"><h2>` + title + `</h2>`)
	b.WriteString(`<form method="post" action="` + esc(action) + `" enctype="multipart/form-data" class="sponsor-form">`)
	csrfField(b, view.CSRF)
	b.WriteString(`<label>Name<input type="text" name="name" class="input" placeholder="Sponsor name" value="` + esc(form.Name) + `"/></label>`)
	b.WriteString(`<label>Level<select name="level_id" class="select"><option value="">Select level</option>`)
	for _, level := range view.Levels {
		b.WriteString(`<option value="` + id(level.ID) + `"`)
		if level.ID == form.LevelID {
			b.WriteString(` selected`)
		}
		b.WriteString(`>` + esc(level.Name) + `</option>`)
	}
	b.WriteString(`</select></label>`)
	b.WriteString(`<label>Website<input type="url" name="website_url" class="input" placeholder="https://example.com" value="` + esc(form.WebsiteURL) + `"/></label>`)
	b.WriteString(`<fieldset class="logo-mode"><legend>Logo</legend>`)
	for _, mode := range []struct{ value, label string }{{"url", "URL"}, {"file", "Upload"}} {
		b.WriteString(`<label><input type="radio" name="logo_mode" value="` + mode.value + `"`)
		if form.LogoMode == mode.value {
			b.WriteString(` checked`)
		}
		b.WriteString(`/> ` + mode.label + `</label>`)
	}
	b.WriteString(`<input type="url" name="logo_url" class="input" placeholder="https://example.com/logo.png" value="` + esc(form.LogoURL) + `"/>`)
	b.WriteString(`<input type="file" name="logo_file" accept="image/*" class="file-input"/>`)
	if view.MaxLogoLabel != "" {
		b.WriteString(`<small>Images up to ` + esc(view.MaxLogoLabel) + `</small>`)
	}
	if form.LogoPreview != "" {
		b.WriteString(`<img class="logo-preview" src="` + esc(form.LogoPreview) + `" alt="Logo preview"/>`)
	}
	b.WriteString(`</fieldset>`)
	b.WriteString(`<label>Description<textarea name="description" class="textarea" placeholder="Describe the sponsor">` + esc(form.Description) + `</textarea></label>`)
	b.WriteString(`<div class="modal-action"><a class="btn" href="` + adminBase + `">Cancel</a><button type="submit" class="btn btn-primary">Save</button></div>`)
	b.WriteString(`</form></div></dialog>`)
}
