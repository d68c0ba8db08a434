package routes

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	appservices "github.com/fr0stylo/sponsorboard/internal/app/services"
	"github.com/fr0stylo/sponsorboard/internal/media"
)

// MediaStore is the binary store behind /media.
type MediaStore interface {
	Put(ctx context.Context, id string, r io.Reader) (string, error)
	Open(id string) (*media.Object, error)
}

// MediaReservations tells whether an identifier may receive an upload.
type MediaReservations interface {
	EnsureMediaReserved(ctx context.Context, id string) error
}

// MediaRoutes serves and accepts sponsor logo binaries.
type MediaRoutes struct {
	store        MediaStore
	reservations MediaReservations
	auth         *Auth
}

// NewMediaRoutes constructs media routes.
func NewMediaRoutes(store MediaStore, reservations MediaReservations, auth *Auth) *MediaRoutes {
	return &MediaRoutes{store: store, reservations: reservations, auth: auth}
}

// RegisterRoutes registers media endpoints.
func (m *MediaRoutes) RegisterRoutes(s *echo.Echo) {
	s.GET("/media/:id", m.handleGet)
	s.HEAD("/media/:id", m.handleGet)
	s.PUT("/media/:id", m.handleUpload, m.auth.RequireAPIToken)
}

func (m *MediaRoutes) handleGet(c echo.Context) error {
	obj, err := m.store.Open(c.Param("id"))
	if err != nil {
		if errors.Is(err, media.ErrNotFound) || errors.Is(err, media.ErrInvalidID) {
			return c.JSON(http.StatusNotFound, errorBody{Detail: "Media not found"})
		}
		return err
	}
	defer func() { _ = obj.Close() }()

	header := c.Response().Header()
	header.Set(echo.HeaderContentType, obj.ContentType)
	header.Set("Cache-Control", "public, max-age=300")
	header.Set("X-Content-Type-Options", "nosniff")
	http.ServeContent(c.Response(), c.Request(), "", obj.ModTime, obj)
	return nil
}

func (m *MediaRoutes) handleUpload(c echo.Context) error {
	ctx := c.Request().Context()
	id := strings.ToLower(strings.TrimSpace(c.Param("id")))
	if err := m.reservations.EnsureMediaReserved(ctx, id); err != nil {
		if errors.Is(err, appservices.ErrMediaNotReserved) {
			return c.JSON(http.StatusNotFound, errorBody{Detail: "Media identifier not reserved"})
		}
		return err
	}

	body, closeBody, err := uploadBody(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Detail: "Missing file"})
	}
	defer closeBody()

	contentType, err := m.store.Put(ctx, id, body)
	switch {
	case errors.Is(err, media.ErrTooLarge):
		return c.JSON(http.StatusRequestEntityTooLarge, errorBody{Detail: "File too large"})
	case errors.Is(err, media.ErrNotImage):
		return c.JSON(http.StatusUnsupportedMediaType, errorBody{Detail: "Please upload an image file"})
	case errors.Is(err, media.ErrInvalidID):
		return c.JSON(http.StatusNotFound, errorBody{Detail: "Media not found"})
	case err != nil:
		return err
	}
	slog.InfoContext(ctx, "Stored sponsor logo", "media_id", id, "content_type", contentType)
	return c.NoContent(http.StatusNoContent)
}

// uploadBody accepts either a multipart "file" field or a raw body.
func uploadBody(c echo.Context) (io.Reader, func(), error) {
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		header, err := c.FormFile("file")
		if err != nil {
			return nil, func() {}, err
		}
		file, err := header.Open()
		if err != nil {
			return nil, func() {}, err
		}
		return file, func() { _ = file.Close() }, nil
	}
	return c.Request().Body, func() {}, nil
}
