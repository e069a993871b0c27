package pubcontent

import (
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	sessionName    = "pubcontent_admin"
	sessionAuthKey = "authenticated"
	csrfHeader     = "X-CSRF-Token"
)

// contentSecurityPolicy allows the inline gtag snippet the default views emit
// when an analytics code is configured.
const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' 'unsafe-inline' https://www.googletagmanager.com; " +
	"img-src 'self' https: data:; connect-src 'self' https://www.google-analytics.com"

func (a *App) setupMiddleware() {
	e := a.Echo
	e.IPExtractor = echo.ExtractIPFromXFFHeader(echo.TrustLoopback(true), echo.TrustPrivateNet(true))
	e.HTTPErrorHandler = a.httpErrorHandler

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			c.Logger().Infof("%s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level:   5,
		Skipper: func(c echo.Context) bool { return isMediaPath(c.Request().URL.Path) },
	}))
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: contentSecurityPolicy,
		HSTSMaxAge:            31536000,
	}))
	// Content URLs always end in "/"; files and API endpoints do not.
	e.Use(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return isMediaPath(path) || strings.HasPrefix(path, "/api/") ||
				path == "/sitemap.xml" || path == "/robots.txt"
		},
	}))
	e.Use(cacheControl)
}

func isMediaPath(path string) bool {
	return strings.HasPrefix(path, strings.TrimSuffix(mediaPrefix, "/"))
}

func cacheControl(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		value := "public, max-age=3600"
		switch {
		case isMediaPath(path):
			value = "public, max-age=31536000, immutable"
		case path == "/sitemap.xml" || path == "/robots.txt":
			value = "public, max-age=86400"
		case strings.HasPrefix(path, "/admin"):
			value = "no-store"
		case strings.HasPrefix(path, "/api/"):
			value = "public, max-age=300"
		}
		c.Response().Header().Set("Cache-Control", value)
		return next(c)
	}
}

// adminMiddleware guards the /admin group: a signed session cookie and a CSRF
// token on every unsafe request, login included.
func (a *App) adminMiddleware() []echo.MiddlewareFunc {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/admin/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 12,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return []echo.MiddlewareFunc{
		session.Middleware(store),
		middleware.CSRFWithConfig(middleware.CSRFConfig{
			TokenLookup:    "header:" + csrfHeader + ",form:_csrf",
			CookieName:     "_csrf",
			CookiePath:     "/admin/",
			CookieSameSite: http.SameSiteLaxMode,
			CookieSecure:   a.Config.CookieSecure,
			ErrorHandler: func(err error, c echo.Context) error {
				return c.String(http.StatusForbidden, "Forbidden")
			},
		}),
	}
}

// requireAdmin rejects requests without an authenticated admin session.
func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !isAdmin(c) {
			return echo.ErrUnauthorized
		}
		return next(c)
	}
}

func isAdmin(c echo.Context) bool {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return false
	}
	auth, _ := sess.Values[sessionAuthKey].(bool)
	return auth
}

// setAdmin marks the session authenticated, or expires it when on is false.
func setAdmin(c echo.Context, on bool) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	if on {
		sess.Values[sessionAuthKey] = true
	} else {
		delete(sess.Values, sessionAuthKey)
		sess.Options.MaxAge = -1
	}
	return sess.Save(c.Request(), c.Response())
}

func csrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
