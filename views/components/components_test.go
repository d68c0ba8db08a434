package components

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestWidgetFragmentEscapesUserContent(t *testing.T) {
	html := render(t, WidgetFragment(WidgetView{
		FragmentURL: "/sponsors/widget",
		ModalURL:    "/sponsors/widget/sponsors/",
		Cards: []WidgetCard{{
			ID:          7,
			Name:        `<script>alert("x")</script>`,
			LogoSrc:     "https://cdn.example/logo.png",
			Placeholder: "data:image/svg+xml;base64,AAAA",
			Action:      "modal",
		}},
	}))

	if strings.Contains(html, "<script>") {
		t.Fatalf("expected sponsor name to be escaped:\n%s", html)
	}
	if !strings.Contains(html, `hx-get="/sponsors/widget/sponsors/7"`) {
		t.Fatalf("expected modal card to request its dialog:\n%s", html)
	}
	if !strings.Contains(html, "onerror=") {
		t.Fatalf("expected placeholder fallback on image error")
	}
}

func TestWidgetFragmentCardActions(t *testing.T) {
	tests := []struct {
		action string
		want   string
		reject string
	}{
		{action: "website", want: `target="_blank"`, reject: "hx-get"},
		{action: "modal", want: `hx-target="#sponsor-modal"`, reject: `target="_blank"`},
		{action: "none", want: `<div class="sponsor-logo"`, reject: "hx-get"},
	}
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			html := render(t, WidgetFragment(WidgetView{
				ModalURL: "/m/",
				Cards:    []WidgetCard{{ID: 1, Name: "Acme", WebsiteURL: "https://acme.example", Action: tt.action}},
			}))
			grid := html[strings.Index(html, `<div class="sponsor-grid">`):]
			if !strings.Contains(grid, tt.want) {
				t.Fatalf("expected %q in:\n%s", tt.want, grid)
			}
			if strings.Contains(grid, tt.reject) {
				t.Fatalf("did not expect %q in:\n%s", tt.reject, grid)
			}
		})
	}
}

func TestWidgetFragmentErrorState(t *testing.T) {
	html := render(t, WidgetFragment(WidgetView{Error: "Failed to load", ShowSearch: true}))
	if !strings.Contains(html, `data-state="error"`) || !strings.Contains(html, "Failed to load") {
		t.Fatalf("expected error state:\n%s", html)
	}
	if strings.Contains(html, `type="search"`) {
		t.Fatalf("error state should not render the search box")
	}
}

func TestWidgetFragmentGroupsWithEmptyLevel(t *testing.T) {
	html := render(t, WidgetFragment(WidgetView{
		Grouped: true,
		Groups: []WidgetGroup{
			{Name: "Gold", Cards: []WidgetCard{{ID: 1, Name: "Acme"}}},
			{Name: "Silver", Empty: "No sponsors in this level"},
		},
	}))
	gold := strings.Index(html, "Gold")
	silver := strings.Index(html, "Silver")
	if gold < 0 || silver < 0 || gold > silver {
		t.Fatalf("expected groups in order:\n%s", html)
	}
	if !strings.Contains(html, "No sponsors in this level") {
		t.Fatalf("expected empty level message")
	}
}

func TestSponsorModalHidesWebsiteWhenDisabled(t *testing.T) {
	modal := SponsorModal{Name: "Acme", Description: "Rockets", WebsiteURL: "https://acme.example"}
	if html := render(t, SponsorModalDialog(modal)); strings.Contains(html, "Visit Website") {
		t.Fatalf("expected no website link when hidden")
	}
	modal.ShowWebsite = true
	if html := render(t, SponsorModalDialog(modal)); !strings.Contains(html, "Visit Website") {
		t.Fatalf("expected website link")
	}
}

func TestAdminScreenLevelDeleteControls(t *testing.T) {
	html := render(t, AdminScreen(AdminView{
		CSRF:         "tok",
		ConfirmLevel: "Really?",
		Levels: []AdminLevel{
			{ID: 1, Name: "Gold", SponsorCount: 2},
			{ID: 2, Name: "Silver", CanDelete: true},
		},
	}))

	if !strings.Contains(html, `name="_csrf" value="tok"`) {
		t.Fatalf("expected csrf field:\n%s", html)
	}
	if strings.Count(html, `data-confirm="Really?"`) != 2 {
		t.Fatalf("expected confirm prompt on each level delete form")
	}
	if strings.Count(html, " disabled ") != 1 {
		t.Fatalf("expected only the referenced level delete to be disabled:\n%s", html)
	}
}

func TestAdminScreenSponsorFormModes(t *testing.T) {
	html := render(t, AdminScreen(AdminView{
		Levels: []AdminLevel{{ID: 3, Name: "Gold"}},
		Form: AdminSponsorForm{
			Open:        true,
			SponsorID:   9,
			Name:        "Acme",
			LevelID:     3,
			LogoMode:    "file",
			LogoPreview: "/media/abc",
		},
		MaxLogoLabel: "5MB",
	}))

	for _, want := range []string{
		`action="/admin/sponsors/sponsors/9"`,
		`enctype="multipart/form-data"`,
		`name="logo_file"`,
		"/media/abc",
		"5MB",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in sponsor form:\n%s", want, html)
		}
	}
}

func TestScriptWebsiteIsNotLinked(t *testing.T) {
	const script = "javascript:alert(document.cookie)"
	safe := `href="` + string(templ.FailedSanitizationURL) + `"`

	rendered := map[string]string{
		"card": render(t, WidgetFragment(WidgetView{
			Cards: []WidgetCard{{ID: 1, Name: "Evil", WebsiteURL: script, Action: "website"}},
		})),
		"modal": render(t, SponsorModalDialog(SponsorModal{Name: "Evil", WebsiteURL: script, ShowWebsite: true})),
		"admin": render(t, AdminScreen(AdminView{
			Groups: []AdminGroup{{LevelID: 1, LevelName: "Gold", Sponsors: []AdminSponsor{{ID: 1, Name: "Evil", WebsiteURL: script}}}},
		})),
	}
	for name, html := range rendered {
		if strings.Contains(html, `href="javascript:`) {
			t.Fatalf("%s: script URL rendered as link:\n%s", name, html)
		}
		if !strings.Contains(html, safe) {
			t.Fatalf("%s: expected sanitized href:\n%s", name, html)
		}
	}
}
