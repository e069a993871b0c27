package content

import (
	"context"
	"strings"
)

// URLMode selects how a URL is rendered.
type URLMode int

const (
	URLDefault URLMode = iota
	URLRelative
	URLAbsolute
)

// URLResolver converts nodes and media into URLs.
type URLResolver interface {
	URL(ctx context.Context, n *Node, culture string, mode URLMode) (string, error)
	MediaURL(img Image, mode URLMode) string
}

// PathResolver builds node URLs from ancestor URL segments. Top-level nodes map
// to "/"; their descendants to "/seg/seg/".
type PathResolver struct {
	store          Store
	baseURL        string
	defaultCulture string
}

// NewPathResolver creates a PathResolver. baseURL is used for absolute URLs;
// a culture other than defaultCulture is rendered as a leading path segment.
func NewPathResolver(store Store, baseURL, defaultCulture string) *PathResolver {
	return &PathResolver{
		store:          store,
		baseURL:        strings.TrimRight(baseURL, "/"),
		defaultCulture: defaultCulture,
	}
}

// Segments returns the URL segments of n from the top of the tree down.
func (r *PathResolver) Segments(ctx context.Context, n *Node, culture string) ([]string, error) {
	if n.ParentID == 0 {
		return r.withCulture(nil, culture), nil
	}
	segs := []string{n.SegmentFor(culture)}
	err := WalkAncestors(ctx, r.store, n, func(p *Node) bool {
		if p.ParentID == 0 {
			return false
		}
		segs = append(segs, p.SegmentFor(culture))
		return true
	})
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return r.withCulture(segs, culture), nil
}

func (r *PathResolver) withCulture(segs []string, culture string) []string {
	if culture == "" || strings.EqualFold(culture, r.defaultCulture) {
		return segs
	}
	return append([]string{strings.ToLower(culture)}, segs...)
}

// URL returns the URL of n. A nil node yields "".
func (r *PathResolver) URL(ctx context.Context, n *Node, culture string, mode URLMode) (string, error) {
	if n == nil {
		return "", nil
	}
	segs, err := r.Segments(ctx, n, culture)
	if err != nil {
		return "", err
	}
	if mode == URLAbsolute && r.baseURL != "" {
		if len(segs) == 0 {
			return BuildURL(r.baseURL, "/"), nil
		}
		return BuildURL(r.baseURL, segs...), nil
	}
	if len(segs) == 0 {
		return "/", nil
	}
	return "/" + strings.Join(segs, "/") + "/", nil
}

// MediaURL returns the URL of img, resolved against the base URL in absolute mode.
func (r *PathResolver) MediaURL(img Image, mode URLMode) string {
	if mode == URLAbsolute {
		return AbsoluteURL(r.baseURL+"/", img.URL)
	}
	return img.URL
}

// FindByRoute resolves a request path against the tree below roots. The first
// top-level node answers "/"; an optional leading culture segment is skipped
// when it matches culture.
func FindByRoute(roots []*Node, route, culture string) *Node {
	if len(roots) == 0 {
		return nil
	}
	parts := FilterEmpty(strings.Split(route, "/"))
	if culture != "" && len(parts) > 0 && strings.EqualFold(parts[0], culture) {
		parts = parts[1:]
	}
	cur := roots[0]
	for _, part := range parts {
		cur = cur.FirstChild(func(c *Node) bool {
			return strings.EqualFold(c.SegmentFor(culture), part)
		})
		if cur == nil {
			return nil
		}
	}
	return cur
}
