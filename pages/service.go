// Package pages looks up pages of the content tree by document type and
// builds their URLs.
package pages

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/eringen/pubcontent/content"
)

var (
	ErrRootNotFound = errors.New("pages: could not get root node")
	ErrEmptyAlias   = errors.New("pages: content type alias cannot be empty")
	ErrEmptyURL     = errors.New("pages: url cannot be empty")
	ErrRelativeURL  = errors.New("pages: url is not absolute")
)

// Service resolves pages below the "Website" root.
type Service struct {
	store content.Store
	urls  content.URLResolver
}

// NewService creates a page Service.
func NewService(store content.Store, urls content.URLResolver) *Service {
	return &Service{store: store, urls: urls}
}

// GetRootNode returns the first top-level node of docType, or nil.
func (s *Service) GetRootNode(ctx context.Context, docType string) (*content.Node, error) {
	return content.FirstAtRoot(ctx, s.store, docType)
}

func (s *Service) website(ctx context.Context) (*content.Node, error) {
	root, err := s.GetRootNode(ctx, content.WebsiteType)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, ErrRootNotFound
	}
	return root, nil
}

// GetHomeURL returns the encoded URL of the website root.
func (s *Service) GetHomeURL(ctx context.Context, culture string, mode content.URLMode) (string, error) {
	root, err := s.website(ctx)
	if err != nil {
		return "", err
	}
	u, err := s.urls.URL(ctx, root, culture, mode)
	if err != nil {
		return "", err
	}
	return Encoded(u)
}

// GetWebsiteRootPageURL returns the URL of the website root's first child of
// docType, or "" when there is none.
func (s *Service) GetWebsiteRootPageURL(ctx context.Context, docType, culture string, mode content.URLMode) (string, error) {
	root, err := s.GetRootNode(ctx, content.WebsiteType)
	if err != nil {
		return "", err
	}
	page := root.FirstChildOfType(docType)
	if page == nil {
		return "", nil
	}
	return s.urls.URL(ctx, page, culture, mode)
}

// GetContentPage returns the website root's first child of docType, or nil.
func (s *Service) GetContentPage(ctx context.Context, docType string) (*content.Node, error) {
	if strings.TrimSpace(docType) == "" {
		return nil, ErrEmptyAlias
	}
	root, err := s.website(ctx)
	if err != nil {
		return nil, err
	}
	return root.FirstChildOfType(docType), nil
}

// GetContentPageURL returns the encoded URL of GetContentPage, or "" when the
// page does not exist.
func (s *Service) GetContentPageURL(ctx context.Context, docType, culture string, mode content.URLMode) (string, error) {
	page, err := s.GetContentPage(ctx, docType)
	if err != nil || page == nil {
		return "", err
	}
	u, err := s.urls.URL(ctx, page, culture, mode)
	if err != nil {
		return "", err
	}
	return Encoded(u)
}

// Encoded normalizes an absolute URL into its escaped form.
func Encoded(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrEmptyURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("pages: parse %q: %w", raw, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrRelativeURL, raw)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String(), nil
}

// GetContentModelURL joins the URL segments of node and its ancestors below
// the website root, e.g. "blog/2024/hello-world".
func (s *Service) GetContentModelURL(ctx context.Context, node *content.Node, culture string) (string, error) {
	segs := []string{node.SegmentFor(culture)}
	err := content.WalkAncestors(ctx, s.store, node, func(p *content.Node) bool {
		if p.IsDocumentType(content.WebsiteType) {
			return false
		}
		segs = append(segs, p.SegmentFor(culture))
		return true
	})
	if err != nil {
		return "", err
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return strings.Join(segs, "/"), nil
}
