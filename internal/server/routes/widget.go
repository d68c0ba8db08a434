package routes

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fr0stylo/sponsorboard/internal/app/ports"
	"github.com/fr0stylo/sponsorboard/internal/widget"
	"github.com/fr0stylo/sponsorboard/views/components"
	"github.com/fr0stylo/sponsorboard/views/pages"
)

const (
	widgetPagePath     = "/sponsors"
	widgetFragmentPath = "/sponsors/widget"
	widgetModalPath    = "/sponsors/widget/sponsors/"
	widgetPageTitle    = "Our Sponsors"
)

// WidgetRoutes serves the public sponsor display.
type WidgetRoutes struct {
	api   ports.SponsorReader
	media ports.MediaResolver
	opts  widget.Options
	log   *slog.Logger
}

// NewWidgetRoutes constructs widget routes.
func NewWidgetRoutes(api ports.SponsorReader, media ports.MediaResolver, opts widget.Options, log *slog.Logger) *WidgetRoutes {
	if log == nil {
		log = slog.Default()
	}
	return &WidgetRoutes{api: api, media: media, opts: opts, log: log}
}

// RegisterRoutes registers widget routes.
func (w *WidgetRoutes) RegisterRoutes(s *echo.Echo) {
	s.GET(widgetPagePath, w.handlePage)
	s.GET(widgetFragmentPath, w.handleFragment)
	s.GET(widgetModalPath+":id", w.handleModal)
}

func (w *WidgetRoutes) handlePage(c echo.Context) error {
	fragment := widgetFragmentPath
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		fragment += "?q=" + url.QueryEscape(q)
	}
	return c.Render(http.StatusOK, "", pages.WidgetPage(widgetPageTitle, fragment))
}

// each fragment request mounts a fresh widget.
func (w *WidgetRoutes) handleFragment(c echo.Context) error {
	mounted := widget.New(w.api, w.media, w.opts, w.log)
	_ = mounted.Load(c.Request().Context())
	view := mounted.View(c.QueryParam("q"))
	return c.Render(http.StatusOK, "", components.WidgetFragment(mapWidgetView(view, widgetFragmentPath, widgetModalPath)))
}

func (w *WidgetRoutes) handleModal(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.NoContent(http.StatusNotFound)
	}
	mounted := widget.New(w.api, w.media, w.opts, w.log)
	if err := mounted.Load(c.Request().Context()); err != nil {
		return c.Render(http.StatusOK, "", components.WidgetFragment(mapWidgetView(mounted.View(""), widgetFragmentPath, widgetModalPath)))
	}
	card, ok := mounted.Sponsor(id)
	if !ok {
		return c.NoContent(http.StatusNotFound)
	}
	return c.Render(http.StatusOK, "", components.SponsorModalDialog(components.SponsorModal{
		Name:        card.Sponsor.Name,
		Description: card.Sponsor.Description,
		WebsiteURL:  card.Sponsor.WebsiteURL,
		LogoSrc:     card.LogoSrc,
		ShowWebsite: w.opts.DisplayWebsite,
	}))
}
