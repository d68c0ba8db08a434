package server

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	slogecho "github.com/samber/slog-echo"

	"github.com/fr0stylo/sponsorboard/internal/observability"
	"github.com/fr0stylo/sponsorboard/internal/renderer"
	"github.com/fr0stylo/sponsorboard/internal/sponsorclient"
)

// RouteRegister registers Echo routes.
type RouteRegister interface {
	RegisterRoutes(s *echo.Echo)
}

// Pinger reports backend health for /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the Echo instance.
type Server struct {
	e *echo.Echo
}

// New creates a new server instance.
func New(log *slog.Logger, publicFS fs.FS) *Server {
	e := echo.New()

	e.Renderer = &renderer.Renderer{}
	e.Validator = NewValidator()
	e.HideBanner = true
	e.HidePort = true

	e.Use(slogecho.New(log))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(observability.EchoMiddleware())
	e.Use(observability.EchoSpanEnrichmentMiddleware())
	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup: "header:X-CSRF-Token,form:_csrf",
		Skipper:     csrfSkipper,
	}))

	if publicFS != nil {
		e.StaticFS("/public", publicFS)
	}

	return &Server{
		e: e,
	}
}

// bearer-authenticated API and media uploads carry no browser session.
func csrfSkipper(c echo.Context) bool {
	path := c.Request().URL.Path
	return strings.HasPrefix(path, sponsorclient.BasePath+"/") || strings.HasPrefix(path, "/media/")
}

// RegisterRouter attaches a route registrar.
func (s *Server) RegisterRouter(r RouteRegister) {
	r.RegisterRoutes(s.e)
}

// RegisterHealth exposes /healthz backed by p.
func (s *Server) RegisterHealth(p Pinger) {
	s.e.GET("/healthz", func(c echo.Context) error {
		if p != nil {
			if err := p.Ping(c.Request().Context()); err != nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			}
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}

// Handler exposes the router for tests and custom listeners.
func (s *Server) Handler() http.Handler {
	return s.e
}

// Start runs the HTTP server.
func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

// Shutdown stops accepting connections and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
