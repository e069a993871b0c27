package seo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eringen/pubcontent/content"
)

var (
	// ErrRootNotFound is returned when no site root is available.
	ErrRootNotFound = errors.New("seo: could not find website root")
	// ErrNoContent is returned when the node to describe is nil.
	ErrNoContent = errors.New("seo: content node is nil")
)

// Resolver computes a Model for a node and its site root. It holds no
// per-request state and may be shared.
type Resolver struct {
	urls    content.URLResolver
	culture string
}

// NewResolver creates a Resolver that renders URLs through urls for culture.
func NewResolver(urls content.URLResolver, culture string) *Resolver {
	return &Resolver{urls: urls, culture: culture}
}

// GetSeoModel derives every field of the Model independently. Missing
// properties never fail; only a nil root or node, or a URL lookup error, does.
func (r *Resolver) GetSeoModel(ctx context.Context, node, root *content.Node) (Model, error) {
	if root == nil {
		return Model{}, ErrRootNotFound
	}
	if node == nil {
		return Model{}, ErrNoContent
	}
	pageURL, err := r.pageURL(ctx, node, root)
	if err != nil {
		return Model{}, fmt.Errorf("seo: resolve url of node %d: %w", node.ID, err)
	}
	return Model{
		Title:                 Title(node, root),
		Description:           Description(node, root),
		Tags:                  Keywords(node, root),
		SocialMediaShareImage: r.socialImage(node, root),
		URL:                   pageURL,
	}, nil
}

// firstString returns the first candidate that is not blank, or "".
func firstString(candidates ...func() string) string {
	for _, c := range candidates {
		if v := c(); !blank(v) {
			return v
		}
	}
	return ""
}

// firstStrings returns the first candidate with at least one value.
func firstStrings(candidates ...func() []string) []string {
	for _, c := range candidates {
		if v := c(); len(v) > 0 {
			return v
		}
	}
	return []string{}
}

// findProperty returns the first property of n accepted by match.
func findProperty(n *content.Node, match func(content.Property) bool) (content.Property, bool) {
	for _, p := range n.Properties {
		if match(p) {
			return p, true
		}
	}
	return content.Property{}, false
}

// Title is "{metaTitle or name} - {root metaTitle or root name}".
func Title(node, root *content.Node) string {
	rootTitle := firstString(
		func() string { return root.String(MetaTitleAlias) },
		func() string { return root.Name },
	)
	title := firstString(
		func() string { return node.String(MetaTitleAlias) },
		func() string { return node.Name },
	)
	return title + " - " + rootTitle
}

// Description prefers metaDescription, then the first look-alike
// "description" property, then the root's metaDescription, then the node name.
func Description(node, root *content.Node) string {
	return firstString(
		func() string { return node.String(MetaDescriptionAlias) },
		func() string { return describedBy(node) },
		func() string { return root.String(MetaDescriptionAlias) },
		func() string { return node.Name },
	)
}

// describedBy normalizes the first property whose alias mentions
// "description". Only that first match is considered.
func describedBy(node *content.Node) string {
	p, ok := findProperty(node, func(p content.Property) bool {
		return containsFold(p.Alias, descriptionAliasTarget) && !strings.EqualFold(p.Alias, MetaDescriptionAlias)
	})
	if !ok {
		return ""
	}
	return propertyText(p)
}

// Keywords prefers metaKeywords, then the first property that looks like a
// keyword list by alias or by tags editor, then the root's metaKeywords.
func Keywords(node, root *content.Node) []string {
	return firstStrings(
		func() []string { return node.Strings(MetaKeywordsAlias) },
		func() []string {
			p, ok := findProperty(node, func(p content.Property) bool {
				byAlias := containsFold(p.Alias, keywordAliasTarget)
				byEditor := p.Kind() == content.EditorTags
				return (byAlias || byEditor) && !strings.EqualFold(p.Alias, MetaKeywordsAlias)
			})
			if !ok {
				return nil
			}
			return propertyStrings(p)
		},
		func() []string { return root.Strings(MetaKeywordsAlias) },
	)
}

func (r *Resolver) socialImage(node, root *content.Node) string {
	return firstString(
		func() string { return r.imageURL(node, SocialShareImageAlias) },
		func() string {
			p, ok := findProperty(node, func(p content.Property) bool {
				return containsFold(p.Alias, imageAliasTarget) && !strings.EqualFold(p.Alias, SocialShareImageAlias)
			})
			if !ok {
				return ""
			}
			img, ok := propertyImage(p)
			if !ok {
				return ""
			}
			return r.urls.MediaURL(img, content.URLAbsolute)
		},
		func() string { return r.imageURL(root, SocialShareImageAlias) },
		func() string { return r.imageURL(root, WebsiteLogoAlias) },
	)
}

func (r *Resolver) imageURL(n *content.Node, alias string) string {
	p, ok := n.Property(alias)
	if !ok {
		return ""
	}
	img, ok := propertyImage(p)
	if !ok {
		return ""
	}
	return r.urls.MediaURL(img, content.URLAbsolute)
}

func (r *Resolver) pageURL(ctx context.Context, node, root *content.Node) (string, error) {
	u, err := r.urls.URL(ctx, node, r.culture, content.URLAbsolute)
	if err != nil {
		return "", err
	}
	if !blank(u) {
		return u, nil
	}
	return r.urls.URL(ctx, root, r.culture, content.URLAbsolute)
}

// RootFinder looks up a top-level node by document type.
type RootFinder interface {
	GetRootNode(ctx context.Context, docType string) (*content.Node, error)
}

// Service resolves the site root itself before deriving a Model.
type Service struct {
	roots    RootFinder
	resolver *Resolver
}

// NewService creates a Service.
func NewService(roots RootFinder, resolver *Resolver) *Service {
	return &Service{roots: roots, resolver: resolver}
}

// GetSeoModel derives the Model of node against the "Website" root.
func (s *Service) GetSeoModel(ctx context.Context, node *content.Node) (Model, error) {
	root, err := s.roots.GetRootNode(ctx, content.WebsiteType)
	if err != nil {
		return Model{}, err
	}
	if root == nil {
		return Model{}, ErrRootNotFound
	}
	return s.resolver.GetSeoModel(ctx, node, root)
}
