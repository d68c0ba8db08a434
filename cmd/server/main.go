package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fr0stylo/sponsorboard"
	"github.com/fr0stylo/sponsorboard/internal/adapters/postgres"
	"github.com/fr0stylo/sponsorboard/internal/adapters/sqlite"
	"github.com/fr0stylo/sponsorboard/internal/admin"
	"github.com/fr0stylo/sponsorboard/internal/app/ports"
	appservices "github.com/fr0stylo/sponsorboard/internal/app/services"
	"github.com/fr0stylo/sponsorboard/internal/config"
	"github.com/fr0stylo/sponsorboard/internal/db"
	"github.com/fr0stylo/sponsorboard/internal/events"
	"github.com/fr0stylo/sponsorboard/internal/media"
	"github.com/fr0stylo/sponsorboard/internal/observability"
	"github.com/fr0stylo/sponsorboard/internal/server"
	"github.com/fr0stylo/sponsorboard/internal/server/routes"
	"github.com/fr0stylo/sponsorboard/internal/sponsorclient"
	"github.com/fr0stylo/sponsorboard/internal/widget"
)

type backend interface {
	ports.SponsorStore
	server.Pinger
	io.Closer
}

func Run() error {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log := observability.NewLogger(cfg.Environment, os.Stdout)
	slog.SetDefault(log)
	if cfg.IsLocalDevelopment() && cfg.Auth.SessionSecret == "sponsors-local-dev" {
		slog.Warn("SPONSORS_SESSION_SECRET not set, using local development fallback")
	}

	shutdownTelemetry, err := observability.SetupOpenTelemetry(context.Background(), log, observability.OpenTelemetryConfig{
		Enabled:          cfg.Observability.Enabled,
		OTLPEndpoint:     cfg.Observability.OTLPEndpoint,
		OTLPTraceHeaders: cfg.Observability.OTLPTraceHeaders,
		ServiceName:      cfg.Observability.ServiceName,
		ServiceVer:       cfg.Observability.ServiceVer,
		SamplingRatio:    cfg.Observability.SamplingRatio,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(ctx); err != nil {
			slog.Error("Failed to shutdown OpenTelemetry", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}()

	mediaStore, err := media.NewStore(cfg.Media.Dir, cfg.Server.PublicURL, cfg.Media.MaxBytes)
	if err != nil {
		return fmt.Errorf("failed to open media store: %w", err)
	}

	var publisher ports.ChangePublisher
	if p := events.NewPublisher(cfg.Events.SinkURL, cfg.Events.Source, cfg.Events.Secret); p.Enabled() {
		publisher = p
		slog.Info("Publishing catalog changes", "sink", cfg.Events.SinkURL)
	}
	catalog := appservices.NewCatalogService(store, mediaStore, publisher)

	auth := routes.NewAuth(routes.AuthConfig{
		SessionKey:    cfg.Auth.SessionSecret,
		SecureCookies: cfg.Auth.SecureCookie,
		AdminUser:     cfg.Auth.AdminUser,
		AdminPassword: cfg.Auth.AdminPassword,
		APIToken:      cfg.Auth.APIToken,
	})

	display := widget.Options{
		DisplayLevel:       cfg.Widget.DisplayLevel,
		DisplayWebsite:     cfg.Widget.DisplayWebsite,
		DisplayDescription: cfg.Widget.DisplayDescription,
		DisplaySearch:      cfg.Widget.DisplaySearch,
	}
	adminOpts := admin.Options{LogoCompensate: cfg.Admin.LogoCompensate, MaxLogoBytes: cfg.Media.MaxBytes}

	// The admin screen and widget talk to the plugin API; by default that is
	// the in-process catalog, otherwise a remote host.
	var (
		api      ports.SponsorAPI    = catalog
		resolver ports.MediaResolver = mediaStore
		uploader ports.MediaUploader = mediaStore
	)
	if cfg.UsesRemoteHost() {
		client := sponsorclient.New(cfg.Server.HostURL, cfg.Auth.APIToken)
		api, resolver, uploader = client, client, client
		slog.Info("Using remote sponsors host", "host", cfg.Server.HostURL)
	}

	srv := server.New(log, sponsorboard.PublicFS)
	srv.RegisterHealth(store)
	srv.RegisterRouter(routes.NewAPIRoutes(catalog, auth, display))
	srv.RegisterRouter(routes.NewMediaRoutes(mediaStore, catalog, auth))
	srv.RegisterRouter(routes.NewWidgetRoutes(api, resolver, display, log))
	srv.RegisterRouter(routes.NewAdminRoutes(api, resolver, uploader, auth, adminOpts, log))

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("Starting server", "port", cfg.Server.Port)
		errCh <- srv.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	slog.Info("Shutting down server")
	return srv.Shutdown(shutdownCtx)
}

func openBackend(ctx context.Context, cfg config.Config, log *slog.Logger) (backend, error) {
	if cfg.Database.Driver == config.DriverPostgres {
		store, err := postgres.Open(ctx, cfg.Database.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := store.Init(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil
	}

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.Database.LogTiming {
		go database.LogLatencyStats(ctx, log, time.Minute, 5)
	}
	return sqliteBackend{Store: sqlite.NewStore(database), database: database}, nil
}

// sqliteBackend pairs the sqlite store with its connection for health and
// shutdown.
type sqliteBackend struct {
	*sqlite.Store
	database *db.Database
}

func (b sqliteBackend) Ping(ctx context.Context) error { return b.database.Ping(ctx) }

func (b sqliteBackend) Close() error { return b.database.Close() }

func main() {
	if err := Run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}
