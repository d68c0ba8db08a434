package routes

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"

	"github.com/fr0stylo/sponsorboard/internal/admin"
	"github.com/fr0stylo/sponsorboard/internal/app/ports"
	"github.com/fr0stylo/sponsorboard/views/components"
	"github.com/fr0stylo/sponsorboard/views/pages"
)

const adminPath = "/admin/sponsors"

// AdminRoutes serves the sponsor management screen.
type AdminRoutes struct {
	api      ports.SponsorAPI
	media    ports.MediaResolver
	uploader ports.MediaUploader
	auth     *Auth
	opts     admin.Options
	log      *slog.Logger
}

// NewAdminRoutes constructs admin routes.
func NewAdminRoutes(api ports.SponsorAPI, media ports.MediaResolver, uploader ports.MediaUploader, auth *Auth, opts admin.Options, log *slog.Logger) *AdminRoutes {
	if log == nil {
		log = slog.Default()
	}
	if opts.MaxLogoBytes <= 0 {
		opts.MaxLogoBytes = admin.DefaultMaxLogoBytes
	}
	return &AdminRoutes{api: api, media: media, uploader: uploader, auth: auth, opts: opts, log: log}
}

// RegisterRoutes registers admin routes.
func (a *AdminRoutes) RegisterRoutes(s *echo.Echo) {
	g := s.Group(adminPath, a.auth.RequireAdmin())

	g.GET("", a.handleIndex)
	g.POST("/levels", a.handleLevelCreate)
	g.POST("/levels/:id", a.handleLevelUpdate)
	g.POST("/levels/:id/delete", a.handleLevelDelete)
	g.POST("/sponsors", a.handleSponsorCreate)
	g.POST("/sponsors/:id", a.handleSponsorUpdate)
	g.POST("/sponsors/:id/delete", a.handleSponsorDelete)
}

// formConfirmer treats a submitted confirm=yes field as the user's answer.
type formConfirmer struct {
	c echo.Context
}

func (f formConfirmer) Confirm(context.Context, string) bool {
	return strings.EqualFold(strings.TrimSpace(f.c.FormValue("confirm")), "yes")
}

// mount creates the per-request admin controller and loads its cache.
func (a *AdminRoutes) mount(c echo.Context) (*admin.Manager, *collectingNotifier) {
	notes := &collectingNotifier{}
	m := admin.NewManager(a.api, a.media, a.uploader, notes, formConfirmer{c: c}, a.log, a.opts)
	m.Load(c.Request().Context())
	return m, notes
}

type adminRender struct {
	query        string
	form         *components.AdminSponsorForm
	editingLevel int64
	status       int
}

func (a *AdminRoutes) render(c echo.Context, m *admin.Manager, notes *collectingNotifier, opts adminRender) error {
	toasts := append(a.auth.popFlashes(c), notes.notes...)
	view := components.AdminView{
		CSRF:           csrfToken(c),
		Error:          m.Error,
		Toasts:         mapToasts(toasts),
		Query:          opts.query,
		Levels:         mapAdminLevels(m, opts.editingLevel),
		Groups:         mapAdminGroups(m, opts.query),
		ConfirmLevel:   admin.ConfirmDeleteLevel,
		ConfirmSponsor: admin.ConfirmDeleteSponsor,
		MaxLogoLabel:   fmt.Sprintf("%dMB", a.opts.MaxLogoBytes/(1024*1024)),
	}
	if opts.form != nil {
		view.Form = *opts.form
	}
	status := opts.status
	if status == 0 {
		status = http.StatusOK
	}
	return c.Render(status, "", pages.AdminPage(view))
}

func (a *AdminRoutes) redirect(c echo.Context, notes *collectingNotifier) error {
	if err := a.auth.saveFlashes(c, notes.notes); err != nil {
		a.log.WarnContext(c.Request().Context(), "Failed to store flash notifications", "error", err)
	}
	return c.Redirect(http.StatusSeeOther, adminPath)
}

func (a *AdminRoutes) handleIndex(c echo.Context) error {
	ctx := c.Request().Context()
	m, notes := a.mount(c)
	opts := adminRender{query: strings.TrimSpace(c.QueryParam("q"))}

	if id, ok := parseID(c.QueryParam("edit_level")); ok {
		opts.editingLevel = id
	}
	switch {
	case c.QueryParam("new") != "":
		if form, ok := m.StartAddSponsor(ctx); ok {
			view := mapSponsorForm(form, 0)
			opts.form = &view
		}
	case c.QueryParam("edit") != "":
		if id, ok := parseID(c.QueryParam("edit")); ok {
			if sponsor, found := m.Sponsor(id); found {
				view := mapSponsorForm(m.FormFromSponsor(sponsor), id)
				opts.form = &view
			}
		}
	}
	return a.render(c, m, notes, opts)
}

func (a *AdminRoutes) handleLevelCreate(c echo.Context) error {
	m, notes := a.mount(c)
	m.CreateLevel(c.Request().Context(), c.FormValue("name"))
	return a.redirect(c, notes)
}

func (a *AdminRoutes) handleLevelUpdate(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.NoContent(http.StatusNotFound)
	}
	m, notes := a.mount(c)
	m.UpdateLevel(c.Request().Context(), id, c.FormValue("name"))
	return a.redirect(c, notes)
}

func (a *AdminRoutes) handleLevelDelete(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.NoContent(http.StatusNotFound)
	}
	m, notes := a.mount(c)
	m.DeleteLevel(c.Request().Context(), id)
	return a.redirect(c, notes)
}

func (a *AdminRoutes) handleSponsorCreate(c echo.Context) error {
	ctx := c.Request().Context()
	m, notes := a.mount(c)
	form, ok := a.parseSponsorForm(c, m, notes)
	if ok && m.CreateSponsor(ctx, form) {
		return a.redirect(c, notes)
	}
	view := mapSponsorForm(form, 0)
	return a.render(c, m, notes, adminRender{form: &view})
}

func (a *AdminRoutes) handleSponsorUpdate(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.NoContent(http.StatusNotFound)
	}
	ctx := c.Request().Context()
	m, notes := a.mount(c)
	form, ok := a.parseSponsorForm(c, m, notes)
	if ok && m.UpdateSponsor(ctx, id, form) {
		return a.redirect(c, notes)
	}
	if sponsor, found := m.Sponsor(id); found && form.LogoMode == admin.LogoModeFile {
		form.LogoPreview = m.FormFromSponsor(sponsor).LogoPreview
	}
	view := mapSponsorForm(form, id)
	return a.render(c, m, notes, adminRender{form: &view})
}

func (a *AdminRoutes) handleSponsorDelete(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.NoContent(http.StatusNotFound)
	}
	m, notes := a.mount(c)
	m.DeleteSponsor(c.Request().Context(), id)
	return a.redirect(c, notes)
}

// parseSponsorForm reads the multipart sponsor form. A selected logo file is
// validated through the manager; false means it was rejected.
func (a *AdminRoutes) parseSponsorForm(c echo.Context, m *admin.Manager, notes *collectingNotifier) (admin.SponsorForm, bool) {
	form := admin.SponsorForm{
		Name:        c.FormValue("name"),
		LogoURL:     c.FormValue("logo_url"),
		WebsiteURL:  c.FormValue("website_url"),
		Description: c.FormValue("description"),
		LogoMode:    admin.LogoModeURL,
	}
	if levelID, ok := parseID(c.FormValue("level_id")); ok {
		form.LevelID = levelID
	}
	if strings.TrimSpace(c.FormValue("logo_mode")) == string(admin.LogoModeFile) {
		form.LogoMode = admin.LogoModeFile
	}
	if form.LogoMode != admin.LogoModeFile {
		return form, true
	}

	header, err := c.FormFile("logo_file")
	if err != nil || header.Size == 0 {
		return form, true
	}
	return form, a.selectLogo(c.Request().Context(), m, notes, &form, header)
}

func (a *AdminRoutes) selectLogo(ctx context.Context, m *admin.Manager, notes *collectingNotifier, form *admin.SponsorForm, header *multipart.FileHeader) bool {
	file, err := readLogoFile(header, a.opts.MaxLogoBytes)
	if err != nil {
		a.log.ErrorContext(ctx, "Failed to read logo upload", "error", err)
		notes.Notify(ctx, ports.Notification{Level: ports.NotifyError, Message: "Failed to read logo file"})
		return false
	}
	return m.SelectLogoFile(ctx, form, file)
}

// readLogoFile loads an uploaded file. Oversized files are returned without
// data so the size check can reject them.
func readLogoFile(header *multipart.FileHeader, maxBytes int64) (ports.LogoFile, error) {
	file := ports.LogoFile{
		Name:        header.Filename,
		ContentType: header.Header.Get(echo.HeaderContentType),
		Size:        header.Size,
	}
	if header.Size > maxBytes {
		return file, nil
	}
	src, err := header.Open()
	if err != nil {
		return ports.LogoFile{}, err
	}
	defer func() { _ = src.Close() }()
	data, err := io.ReadAll(io.LimitReader(src, maxBytes+1))
	if err != nil {
		return ports.LogoFile{}, err
	}
	file.Data = data
	file.Size = int64(len(data))
	if file.ContentType == "" || file.ContentType == echo.MIMEOctetStream {
		file.ContentType = mimetype.Detect(data).String()
	}
	return file, nil
}
