package observability

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestWrapSlogHandlerAddsRequestFields(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(WrapSlogHandler(slog.NewTextHandler(&buf, nil)))

	ctx := WithRequestMetadata(context.Background(), "req-1", "/sponsors/")
	ctx = WithActor(ctx, "admin")
	log.InfoContext(ctx, "hello")

	out := buf.String()
	for _, want := range []string{"request_id=req-1", "route=/sponsors/", "actor=admin"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in log line, got %q", want, out)
		}
	}
}

func TestNewLoggerUsesJSONOutsideLocal(t *testing.T) {
	var buf bytes.Buffer
	NewLogger("production", &buf).Info("hello")
	if !strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Fatalf("expected JSON output, got %q", buf.String())
	}
}

func TestEchoMiddlewaresPropagateRequestMetadata(t *testing.T) {
	e := echo.New()
	var seenRoute string
	e.Use(EchoMiddleware(), EchoSpanEnrichmentMiddleware())
	e.GET("/sponsors/:id", func(c echo.Context) error {
		seenRoute, _ = RouteFromContext(c.Request().Context())
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sponsors/4", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if seenRoute != "/sponsors/:id" {
		t.Fatalf("expected route template in context, got %q", seenRoute)
	}
}

func TestTraceSkipperIgnoresStaticAssets(t *testing.T) {
	e := echo.New()
	for path, want := range map[string]bool{
		"/public/app.css":  true,
		"/healthz":         true,
		"/media/logo.png":  true,
		"/sponsors/widget": false,
		"/admin/sponsors":  false,
	} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, path, nil), httptest.NewRecorder())
		if got := traceSkipper(c); got != want {
			t.Fatalf("traceSkipper(%q) = %v, want %v", path, got, want)
		}
	}
}
