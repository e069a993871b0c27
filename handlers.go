package pubcontent

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubcontent/content"
	"github.com/eringen/pubcontent/paginator"
	"github.com/eringen/pubcontent/seo"
	"github.com/eringen/pubcontent/views"
)

// pageEnvelope is the JSON body of /api/pages/:type.
type pageEnvelope struct {
	Items      []views.Item `json:"items"`
	Page       int          `json:"page"`
	PageSize   int          `json:"pageSize"`
	TotalPages int          `json:"totalPages"`
	TotalItems int          `json:"totalItems"`
	Next       string       `json:"next,omitempty"`
	Previous   string       `json:"previous,omitempty"`
}

func (a *App) handlePage(c echo.Context) error {
	ctx := c.Request().Context()
	root, err := a.Pages.GetRootNode(ctx, content.WebsiteType)
	if err != nil {
		return err
	}
	if root == nil {
		return echo.ErrNotFound
	}

	node, culture := a.route(root, c.Request().URL.Path)
	if node == nil {
		return echo.ErrNotFound
	}

	p, err := paginator.Create(c.QueryString(), node.Children, a.Config.PageSize)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	items, err := a.items(ctx, p.Paginate(), culture, content.URLRelative)
	if err != nil {
		return err
	}
	model, err := seo.NewResolver(a.URLs, culture).GetSeoModel(ctx, node, root)
	if err != nil {
		return err
	}

	data := views.PageData{
		SiteName: a.Config.Name,
		SEO:      a.withDefaultImage(model),
		Name:     node.Name,
		DocType:  node.DocType,
		Items:    items,
		Pager:    pager(p),
	}
	if s := a.Settings(); s != nil && s.Found() {
		data.AnalyticsCode = s.GoogleAnalyticsTrackingCode()
	}
	return a.render(c, http.StatusOK, a.Views.Page(data))
}

// route resolves path in the configured culture first, then in the culture
// named by a leading segment such as "/da-dk/".
func (a *App) route(root *content.Node, path string) (*content.Node, string) {
	roots := []*content.Node{root}
	if n := content.FindByRoute(roots, path, a.Config.Culture); n != nil {
		return n, a.Config.Culture
	}
	first, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if !isCultureCode(first) {
		return nil, ""
	}
	culture := strings.ToLower(first)
	return content.FindByRoute(roots, path, culture), culture
}

func isCultureCode(s string) bool {
	if len(s) != 5 || s[2] != '-' {
		return false
	}
	for i, r := range s {
		if i == 2 {
			continue
		}
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

func (a *App) items(ctx context.Context, nodes []*content.Node, culture string, mode content.URLMode) ([]views.Item, error) {
	items := make([]views.Item, 0, len(nodes))
	for _, n := range nodes {
		u, err := a.URLs.URL(ctx, n, culture, mode)
		if err != nil {
			return nil, err
		}
		items = append(items, views.Item{Name: n.Name, URL: u})
	}
	return items, nil
}

func pager[T any](p *paginator.Paginator[T]) views.Pager {
	out := views.Pager{
		Current:  p.CurrentPage(),
		Total:    p.TotalPages(),
		Previous: p.PreviousPageLink(),
		Next:     p.NextPageLink(),
	}
	if !p.HasPages() {
		return out
	}
	for n := 1; n <= p.TotalPages(); n++ {
		out.Links = append(out.Links, views.PageLink{
			Number: n,
			Href:   p.GetPageLink(n),
			Active: n == p.CurrentPage(),
		})
	}
	return out
}

// withDefaultImage falls back to the default website image from site settings
// when no share image was found.
func (a *App) withDefaultImage(m seo.Model) seo.Model {
	if s := a.Settings(); m.SocialMediaShareImage == "" && s != nil && s.Found() {
		if img, ok := s.DefaultWebsiteImage(); ok {
			m.SocialMediaShareImage = a.URLs.MediaURL(img, content.URLAbsolute)
		}
	}
	return m
}

func (a *App) handleSEO(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid node id")
	}
	ctx := c.Request().Context()
	node, err := a.Store.GetByID(ctx, id)
	if errors.Is(err, content.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "node not found")
	}
	if err != nil {
		return err
	}
	model, err := a.SEO.GetSeoModel(ctx, node)
	if errors.Is(err, seo.ErrRootNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a.withDefaultImage(model))
}

func (a *App) handlePages(c echo.Context) error {
	ctx := c.Request().Context()
	docType := c.Param("type")
	root, err := a.Pages.GetRootNode(ctx, content.WebsiteType)
	if err != nil {
		return err
	}
	if root == nil {
		return echo.NewHTTPError(http.StatusNotFound, seo.ErrRootNotFound.Error())
	}

	// "size", not "pageSize": any segment mentioning "page" is read as the page number.
	size := a.Config.PageSize
	if raw := c.QueryParam("size"); raw != "" {
		if size, err = strconv.Atoi(raw); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid page size")
		}
	}

	var matches []*content.Node
	for _, n := range content.Descendants(root) {
		if n.IsDocumentType(docType) {
			matches = append(matches, n)
		}
	}
	p, err := paginator.Create(c.QueryString(), matches, size)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	items, err := a.items(ctx, p.Paginate(), a.Config.Culture, content.URLAbsolute)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pageEnvelope{
		Items:      items,
		Page:       p.CurrentPage(),
		PageSize:   p.PageSize(),
		TotalPages: p.TotalPages(),
		TotalItems: p.TotalItemsCount(),
		Next:       p.NextPageLink(),
		Previous:   p.PreviousPageLink(),
	})
}

func (a *App) handleRobots(c echo.Context) error {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /admin/\n")
	b.WriteString("Sitemap: " + strings.TrimRight(a.Config.URL, "/") + "/sitemap.xml\n")
	return c.String(http.StatusOK, b.String())
}
