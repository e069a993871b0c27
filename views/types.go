// Package views holds the data handed to page templates and the built-in
// templates used when a site does not supply its own.
package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/pubcontent/seo"
)

// Views holds the templ components the App renders. Any nil field falls back
// to the built-in component.
type Views struct {
	Page        func(PageData) templ.Component
	NotFound    func(siteName string) templ.Component
	ServerError func(siteName string) templ.Component
}

// PageData carries one rendered content page.
type PageData struct {
	SiteName      string
	SEO           seo.Model
	Name          string
	DocType       string
	Items         []Item // children of the page on the current listing page
	Pager         Pager
	AnalyticsCode string // Google Analytics id from site settings
}

// Item is a linked child page.
type Item struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Pager describes the listing pagination of a page.
type Pager struct {
	Current  int        `json:"page"`
	Total    int        `json:"totalPages"`
	Previous string     `json:"previous,omitempty"`
	Next     string     `json:"next,omitempty"`
	Links    []PageLink `json:"links,omitempty"`
}

// PageLink is a numbered link of a Pager.
type PageLink struct {
	Number int    `json:"number"`
	Href   string `json:"href"`
	Active bool   `json:"active"`
}

// WithDefaults fills nil fields of v with the built-in components.
func (v Views) WithDefaults() Views {
	if v.Page == nil {
		v.Page = Page
	}
	if v.NotFound == nil {
		v.NotFound = NotFound
	}
	if v.ServerError == nil {
		v.ServerError = ServerError
	}
	return v
}
