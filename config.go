package pubcontent

import (
	"github.com/eringen/pubcontent/paginator"
	"github.com/eringen/pubcontent/views"
)

// SiteConfig holds all configuration for a pubcontent site.
type SiteConfig struct {
	Name    string // Site name shown next to page titles (default "Site")
	URL     string // Canonical base URL (default "http://localhost:3000")
	Culture string // Default culture (default "en-US")

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/content.db")
	MediaDir     string // Upload directory served under /media (default "public/media")
	PageSize     int    // Children per listing page (default 10)

	AdminPassword string // Enables the admin API when set
	SessionSecret string // Required with AdminPassword
	CookieSecure  bool   // Set true for HTTPS

	Crops []CropSpec // Crops rendered for uploaded images
}

// CropSpec is a named crop rendered for every uploaded image.
type CropSpec struct {
	Alias  string
	Width  int
	Height int
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Site"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Culture == "" {
		c.Culture = "en-US"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/content.db"
	}
	if c.MediaDir == "" {
		c.MediaDir = "public/media"
	}
	if c.PageSize == 0 {
		c.PageSize = paginator.DefaultPageSize
	}
	if c.Crops == nil {
		c.Crops = []CropSpec{
			{Alias: "social", Width: 1200, Height: 630},
			{Alias: "thumbnail", Width: 400, Height: 300},
		}
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithViews replaces the built-in page templates.
func WithViews(v views.Views) Option {
	return func(a *App) {
		a.Views = v
	}
}
