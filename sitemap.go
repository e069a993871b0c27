package pubcontent

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubcontent/content"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc      string `xml:"loc"`
	Priority string `xml:"priority,omitempty"`
}

func (a *App) handleSitemap(c echo.Context) error {
	ctx := c.Request().Context()
	root, err := a.Pages.GetRootNode(ctx, content.WebsiteType)
	if err != nil {
		return err
	}

	var urls []sitemapURL
	for _, n := range content.Descendants(root) {
		loc, err := a.URLs.URL(ctx, n, a.Config.Culture, content.URLAbsolute)
		if err != nil {
			return err
		}
		u := sitemapURL{Loc: loc}
		if n == root {
			u.Priority = "1.0"
		}
		urls = append(urls, u)
	}

	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
