// Package settings exposes site-wide values stored on the top-level
// "siteSettings" node.
package settings

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/eringen/pubcontent/content"
)

// Property aliases read from the settings node.
const (
	DefaultWebsiteImageAlias         = "defaultWebsiteImage"
	GoogleAnalyticsTrackingCodeAlias = "googleAnalyticsTrackingCode"
)

// Service reads settings from a node fetched once at construction. A missing
// node or value is logged and answered with the zero value.
type Service struct {
	node   *content.Node
	urls   content.URLResolver
	logger echo.Logger
}

// New loads the settings node from store. logger may be nil.
func New(ctx context.Context, store content.Store, urls content.URLResolver, logger echo.Logger) (*Service, error) {
	if logger == nil {
		logger = log.New("settings")
	}
	node, err := content.FirstAtRoot(ctx, store, content.SiteSettingsType)
	if err != nil {
		return nil, err
	}
	if node == nil {
		logger.Warn("failed to initialize site settings, no node was found at root")
	}
	return &Service{node: node, urls: urls, logger: logger}, nil
}

// Found reports whether a settings node exists.
func (s *Service) Found() bool { return s.node != nil }

// DefaultWebsiteImage returns the fallback image of the site.
func (s *Service) DefaultWebsiteImage() (content.Image, bool) {
	img, ok := s.image()
	if !ok {
		s.missing(DefaultWebsiteImageAlias)
	}
	return img, ok
}

// DefaultWebsiteImageURL returns the relative URL of DefaultWebsiteImage.
func (s *Service) DefaultWebsiteImageURL() string {
	img, ok := s.image()
	if !ok || img.URL == "" {
		s.missing(DefaultWebsiteImageAlias + "Url")
		return ""
	}
	return s.urls.MediaURL(img, content.URLRelative)
}

// GoogleAnalyticsTrackingCode returns the analytics tracking id.
func (s *Service) GoogleAnalyticsTrackingCode() string {
	v := s.node.String(GoogleAnalyticsTrackingCodeAlias)
	if v == "" {
		s.missing(GoogleAnalyticsTrackingCodeAlias)
	}
	return v
}

func (s *Service) image() (content.Image, bool) {
	p, ok := s.node.Property(DefaultWebsiteImageAlias)
	if !ok {
		return content.Image{}, false
	}
	switch v := p.Value.(type) {
	case content.Image:
		return v, true
	case []content.Image:
		if len(v) > 0 {
			return v[0], true
		}
	}
	return content.Image{}, false
}

func (s *Service) missing(key string) {
	s.logger.Warnf("site setting with key %s doesn't exist", key)
}
