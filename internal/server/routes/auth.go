package routes

import (
	"crypto/subtle"
	"encoding/gob"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/fr0stylo/sponsorboard/internal/observability"
)

const (
	flashSessionName = "sponsors-flash"
	adminActor       = "admin"
	apiActor         = "api-token"
)

// AuthConfig configures the admin session store and credentials.
type AuthConfig struct {
	SessionKey    string
	SecureCookies bool
	AdminUser     string
	AdminPassword string
	APIToken      string
}

// flashMessage is the gob-encoded flash payload.
type flashMessage struct {
	Level   string
	Message string
}

func init() {
	gob.Register(flashMessage{})
}

// Auth guards the admin screen and mutating API endpoints and owns the
// cookie store used for flash notifications.
type Auth struct {
	store  sessions.Store
	config AuthConfig
}

// NewAuth initializes the session store.
func NewAuth(config AuthConfig) *Auth {
	store := sessions.NewCookieStore([]byte(config.SessionKey))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int((24 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	return &Auth{store: store, config: config}
}

// RequireAdmin protects the admin screen with HTTP basic auth.
func (a *Auth) RequireAdmin() echo.MiddlewareFunc {
	return middleware.BasicAuthWithConfig(middleware.BasicAuthConfig{
		Realm: "Sponsors",
		Validator: func(user, password string, c echo.Context) (bool, error) {
			if a.config.AdminPassword == "" {
				return false, nil
			}
			userOK := subtle.ConstantTimeCompare([]byte(user), []byte(a.config.AdminUser)) == 1
			passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.config.AdminPassword)) == 1
			if !userOK || !passOK {
				return false, nil
			}
			ctx := observability.WithActor(c.Request().Context(), adminActor)
			c.SetRequest(c.Request().WithContext(ctx))
			return true, nil
		},
	})
}

// RequireAPIToken guards mutating API endpoints with a bearer token.
func (a *Auth) RequireAPIToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok || a.config.APIToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(a.config.APIToken)) != 1 {
			return c.JSON(http.StatusUnauthorized, errorBody{Detail: "Not authenticated"})
		}
		ctx := observability.WithActor(c.Request().Context(), apiActor)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// saveFlashes stores notifications to show after a redirect.
func (a *Auth) saveFlashes(c echo.Context, notes []flashMessage) error {
	if len(notes) == 0 {
		return nil
	}
	session, err := a.session(c)
	if err != nil {
		return err
	}
	for _, note := range notes {
		session.AddFlash(note)
	}
	return session.Save(c.Request(), c.Response())
}

// popFlashes returns and clears pending flash notifications.
func (a *Auth) popFlashes(c echo.Context) []flashMessage {
	session, err := a.session(c)
	if err != nil {
		return nil
	}
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	out := make([]flashMessage, 0, len(raw))
	for _, item := range raw {
		if note, ok := item.(flashMessage); ok {
			out = append(out, note)
		}
	}
	if err := session.Save(c.Request(), c.Response()); err != nil {
		c.Logger().Warnf("save flash session: %v", err)
	}
	return out
}

func (a *Auth) session(c echo.Context) (*sessions.Session, error) {
	session, err := a.store.Get(c.Request(), flashSessionName)
	if err != nil && isInvalidSecureCookieError(err) {
		clearSessionCookie(c, flashSessionName)
		return session, nil
	}
	return session, err
}

func isInvalidSecureCookieError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "securecookie") {
		return false
	}
	return strings.Contains(msg, "not valid") || strings.Contains(msg, "name not registered for interface")
}

func clearSessionCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func csrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
