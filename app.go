// Package pubcontent serves a published-content tree with Go, Echo, and templ.
// It renders content pages with derived SEO metadata, paginated child
// listings, a JSON API, a sitemap, and an optional admin API for editing
// nodes and uploading media.
//
// Sites can replace the built-in templates via views.Views, and pubcontent
// handles the routing, middleware, and content lookups.
package pubcontent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/eringen/pubcontent/content"
	"github.com/eringen/pubcontent/pages"
	"github.com/eringen/pubcontent/seo"
	"github.com/eringen/pubcontent/settings"
	"github.com/eringen/pubcontent/views"
)

// App is the central pubcontent application. It wires together the content
// store, URL resolution, page and SEO services, middleware, and templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  content.Store
	URLs   *content.PathResolver
	Pages  *pages.Service
	SEO    *seo.Service
	Views  views.Views

	siteSettings atomic.Pointer[settings.Service]
	writer       content.Writer
	loginLimiter *AttemptLimiter
	customRoutes []func(*App)
	stop         context.CancelFunc
	ready        bool
}

// New creates an App serving the content in store. When store also
// implements content.Writer the admin API can edit it.
func New(cfg SiteConfig, store content.Store, opts ...Option) *App {
	cfg.setDefaults()

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.INFO)

	urls := content.NewPathResolver(store, cfg.URL, cfg.Culture)
	pageService := pages.NewService(store, urls)

	a := &App{
		Config: cfg,
		Echo:   e,
		Store:  store,
		URLs:   urls,
		Pages:  pageService,
		SEO:    seo.NewService(pageService, seo.NewResolver(urls, cfg.Culture)),
	}
	a.writer, _ = store.(content.Writer)

	for _, opt := range opts {
		opt(a)
	}
	a.Views = a.Views.WithDefaults()

	return a
}

// Setup loads site settings and registers middleware and routes. Start calls
// it when it has not run yet.
func (a *App) Setup(ctx context.Context) error {
	if a.ready {
		return nil
	}
	if a.Config.AdminPassword != "" {
		if a.Config.SessionSecret == "" {
			return errors.New("pubcontent: SessionSecret is required when AdminPassword is set")
		}
		if a.writer == nil {
			return errors.New("pubcontent: admin requires a writable store")
		}
	}

	if err := a.loadSettings(ctx); err != nil {
		return err
	}

	limiterCtx, cancel := context.WithCancel(context.Background())
	a.stop = cancel
	a.loginLimiter = NewAttemptLimiter(limiterCtx, 5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

func (a *App) loadSettings(ctx context.Context) error {
	s, err := settings.New(ctx, a.Store, a.URLs, a.Echo.Logger)
	if err != nil {
		return fmt.Errorf("pubcontent: load settings: %w", err)
	}
	a.siteSettings.Store(s)
	return nil
}

// Settings returns the site settings loaded by Setup, reloaded whenever the
// admin API writes the settings node.
func (a *App) Settings() *settings.Service {
	return a.siteSettings.Load()
}

// Start sets the App up and serves HTTP on Config.Addr.
func (a *App) Start() error {
	if err := a.Setup(context.Background()); err != nil {
		return err
	}
	a.Echo.Logger.Infof("serving %s on %s", a.Config.Name, a.Config.Addr)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/media", a.Config.MediaDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)

	api := e.Group("/api")
	api.GET("/seo/:id", a.handleSEO)
	api.GET("/pages/:type", a.handlePages)

	if a.Config.AdminPassword != "" {
		admin := e.Group("/admin", a.adminMiddleware()...)
		admin.GET("/", a.handleAdmin)
		admin.POST("/login/", a.handleAdminLogin)
		admin.POST("/logout/", handleAdminLogout)
		admin.POST("/nodes/", a.handleNodeSave, requireAdmin)
		admin.DELETE("/nodes/:id/", a.handleNodeDelete, requireAdmin)
		admin.POST("/media/", a.handleMediaUpload, requireAdmin)
	}

	e.GET("/", a.handlePage)
	e.GET("/*", a.handlePage)
}

// Close stops background work and closes the store when it is closable.
func (a *App) Close() error {
	if a.stop != nil {
		a.stop()
	}
	if c, ok := a.Store.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
