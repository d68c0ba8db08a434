package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Environment   string
	Server        ServerConfig
	Database      DatabaseConfig
	Media         MediaConfig
	Auth          AuthConfig
	Widget        WidgetConfig
	Admin         AdminConfig
	Events        EventsConfig
	Observability ObservabilityConfig
}

type ServerConfig struct {
	Port      int
	PublicURL string
	// HostURL points the admin screen and widget at a remote plugin API.
	// Empty means the in-process catalog is used.
	HostURL string
}

type DatabaseConfig struct {
	Driver      string
	Path        string
	PostgresDSN string
	LogTiming   bool
}

type MediaConfig struct {
	Dir      string
	MaxBytes int64
}

type AuthConfig struct {
	APIToken      string
	AdminUser     string
	AdminPassword string
	SessionSecret string
	SecureCookie  bool
}

type WidgetConfig struct {
	DisplayLevel       bool
	DisplayWebsite     bool
	DisplayDescription bool
	DisplaySearch      bool
}

type AdminConfig struct {
	LogoCompensate bool
}

type EventsConfig struct {
	SinkURL string
	Source  string
	Secret  string
}

type ObservabilityConfig struct {
	Enabled          bool
	OTLPEndpoint     string
	OTLPTraceHeaders map[string]string
	ServiceName      string
	ServiceVer       string
	SamplingRatio    float64
}

func Load() (Config, error) {
	return load(true)
}

// LoadForTool loads config for CLI tools that do not serve the admin screen.
func LoadForTool() (Config, error) {
	return load(false)
}

func load(requireSecrets bool) (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("sponsors_env", "")
	v.SetDefault("app_env", "")
	v.SetDefault("go_env", "")
	v.SetDefault("sponsors_port", 8080)
	v.SetDefault("sponsors_public_url", "")
	v.SetDefault("sponsors_host_url", "")
	v.SetDefault("sponsors_db_driver", DriverSQLite)
	v.SetDefault("sponsors_db_path", "data/sponsors")
	v.SetDefault("sponsors_postgres_dsn", "")
	v.SetDefault("sponsors_db_timing", false)
	v.SetDefault("sponsors_media_dir", "data/media")
	v.SetDefault("sponsors_media_max_bytes", 5*1024*1024)
	v.SetDefault("sponsors_api_token", "")
	v.SetDefault("sponsors_admin_user", "admin")
	v.SetDefault("sponsors_admin_password", "")
	v.SetDefault("sponsors_session_secret", "")
	v.SetDefault("sponsors_secure_cookie", false)
	v.SetDefault("sponsors_display_level", true)
	v.SetDefault("sponsors_display_website", true)
	v.SetDefault("sponsors_display_description", true)
	v.SetDefault("sponsors_display_search", true)
	v.SetDefault("sponsors_logo_compensate", false)
	v.SetDefault("sponsors_events_sink_url", "")
	v.SetDefault("sponsors_events_source", "sponsorboard")
	v.SetDefault("sponsors_events_secret", "")
	v.SetDefault("sponsors_otel_enabled", false)
	v.SetDefault("otel_exporter_otlp_endpoint", "")
	v.SetDefault("otel_exporter_otlp_headers", "")
	v.SetDefault("otel_exporter_otlp_traces_headers", "")
	v.SetDefault("otel_service_name", "sponsorboard")
	v.SetDefault("sponsors_version", "dev")
	v.SetDefault("sponsors_otel_sampling_ratio", 1.0)

	env := resolveEnvironment(v)
	port := v.GetInt("sponsors_port")
	if port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("invalid SPONSORS_PORT: %d", port)
	}

	driver := strings.ToLower(strings.TrimSpace(v.GetString("sponsors_db_driver")))
	switch driver {
	case "", DriverSQLite:
		driver = DriverSQLite
	case DriverPostgres, "postgresql", "pgx":
		driver = DriverPostgres
	default:
		return Config{}, fmt.Errorf("invalid SPONSORS_DB_DRIVER: %q", driver)
	}

	maxBytes := v.GetInt64("sponsors_media_max_bytes")
	if maxBytes <= 0 {
		maxBytes = 5 * 1024 * 1024
	}

	samplingRatio := v.GetFloat64("sponsors_otel_sampling_ratio")
	if samplingRatio < 0 {
		samplingRatio = 0
	}
	if samplingRatio > 1 {
		samplingRatio = 1
	}

	serviceName := strings.TrimSpace(v.GetString("otel_service_name"))
	if serviceName == "" {
		serviceName = "sponsorboard"
	}
	serviceVersion := strings.TrimSpace(v.GetString("sponsors_version"))
	if serviceVersion == "" {
		serviceVersion = "dev"
	}

	otlpEndpoint := strings.TrimSpace(v.GetString("otel_exporter_otlp_endpoint"))
	traceHeaders := mergeHeaderMaps(
		parseOTLPHeaders(v.GetString("otel_exporter_otlp_headers")),
		parseOTLPHeaders(v.GetString("otel_exporter_otlp_traces_headers")),
	)

	cfg := Config{
		Environment: env,
		Server: ServerConfig{
			Port:      port,
			PublicURL: strings.TrimRight(strings.TrimSpace(v.GetString("sponsors_public_url")), "/"),
			HostURL:   strings.TrimRight(strings.TrimSpace(v.GetString("sponsors_host_url")), "/"),
		},
		Database: DatabaseConfig{
			Driver:      driver,
			Path:        strings.TrimSpace(v.GetString("sponsors_db_path")),
			PostgresDSN: strings.TrimSpace(v.GetString("sponsors_postgres_dsn")),
			LogTiming:   v.GetBool("sponsors_db_timing"),
		},
		Media: MediaConfig{
			Dir:      strings.TrimSpace(v.GetString("sponsors_media_dir")),
			MaxBytes: maxBytes,
		},
		Auth: AuthConfig{
			APIToken:      strings.TrimSpace(v.GetString("sponsors_api_token")),
			AdminUser:     strings.TrimSpace(v.GetString("sponsors_admin_user")),
			AdminPassword: v.GetString("sponsors_admin_password"),
			SessionSecret: strings.TrimSpace(v.GetString("sponsors_session_secret")),
			SecureCookie:  v.GetBool("sponsors_secure_cookie"),
		},
		Widget: WidgetConfig{
			DisplayLevel:       v.GetBool("sponsors_display_level"),
			DisplayWebsite:     v.GetBool("sponsors_display_website"),
			DisplayDescription: v.GetBool("sponsors_display_description"),
			DisplaySearch:      v.GetBool("sponsors_display_search"),
		},
		Admin: AdminConfig{
			LogoCompensate: v.GetBool("sponsors_logo_compensate"),
		},
		Events: EventsConfig{
			SinkURL: strings.TrimSpace(v.GetString("sponsors_events_sink_url")),
			Source:  strings.TrimSpace(v.GetString("sponsors_events_source")),
			Secret:  strings.TrimSpace(v.GetString("sponsors_events_secret")),
		},
		Observability: ObservabilityConfig{
			Enabled:          v.GetBool("sponsors_otel_enabled") || otlpEndpoint != "",
			OTLPEndpoint:     otlpEndpoint,
			OTLPTraceHeaders: traceHeaders,
			ServiceName:      serviceName,
			ServiceVer:       serviceVersion,
			SamplingRatio:    samplingRatio,
		},
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/sponsors"
	}
	if cfg.Media.Dir == "" {
		cfg.Media.Dir = "data/media"
	}
	if cfg.Events.Source == "" {
		cfg.Events.Source = "sponsorboard"
	}
	if cfg.Database.Driver == DriverPostgres && cfg.Database.PostgresDSN == "" {
		return Config{}, fmt.Errorf("SPONSORS_POSTGRES_DSN is required when SPONSORS_DB_DRIVER=postgres")
	}

	if requireSecrets && !cfg.IsLocalDevelopment() {
		if cfg.Auth.SessionSecret == "" {
			return Config{}, fmt.Errorf("SPONSORS_SESSION_SECRET is required outside local/dev environments")
		}
		if cfg.Auth.APIToken == "" {
			return Config{}, fmt.Errorf("SPONSORS_API_TOKEN is required outside local/dev environments")
		}
		if cfg.Auth.AdminPassword == "" {
			return Config{}, fmt.Errorf("SPONSORS_ADMIN_PASSWORD is required outside local/dev environments")
		}
	}
	if cfg.IsLocalDevelopment() {
		if cfg.Auth.SessionSecret == "" {
			cfg.Auth.SessionSecret = "sponsors-local-dev"
		}
		if cfg.Auth.APIToken == "" {
			cfg.Auth.APIToken = "sponsors-local-token"
		}
		if cfg.Auth.AdminPassword == "" {
			cfg.Auth.AdminPassword = "admin"
		}
	}

	return cfg, nil
}

func parseOTLPHeaders(raw string) map[string]string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	out := make(map[string]string)
	for _, part := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func mergeHeaderMaps(base, override map[string]string) map[string]string {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

func (c Config) IsLocalDevelopment() bool {
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "", "local", "dev", "development", "test":
		return true
	default:
		return false
	}
}

// UsesRemoteHost reports whether the controllers talk to a remote plugin API.
func (c Config) UsesRemoteHost() bool {
	return c.Server.HostURL != ""
}

func resolveEnvironment(v *viper.Viper) string {
	for _, key := range []string{"sponsors_env", "app_env", "go_env"} {
		value := strings.TrimSpace(v.GetString(key))
		if value != "" {
			return strings.ToLower(value)
		}
	}
	return ""
}
