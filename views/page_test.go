package views

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pubcontent/seo"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestPageRendersListingAndPager(t *testing.T) {
	out := render(t, Page(PageData{
		SiteName: "Example",
		SEO:      seo.Model{Title: "Blog - Example", URL: "https://example.com/blog/"},
		Name:     "Blog <news>",
		Items:    []Item{{Name: "Hello & welcome", URL: "/blog/hello/"}},
		Pager: Pager{
			Current:  2,
			Total:    3,
			Previous: "?page=1&tag=go",
			Next:     "?page=3&tag=go",
			Links: []PageLink{
				{Number: 1, Href: "?page=1&tag=go"},
				{Number: 2, Href: "?page=2&tag=go", Active: true},
				{Number: 3, Href: "?page=3&tag=go"},
			},
		},
		AnalyticsCode: "G-ABC",
	}))

	assert.Contains(t, out, "<title>Blog - Example</title>")
	assert.Contains(t, out, "<h1>Blog &lt;news&gt;</h1>")
	assert.Contains(t, out, `<a href="/blog/hello/">Hello &amp; welcome</a>`)
	assert.Contains(t, out, `<a rel="prev" href="?page=1&amp;tag=go">Previous</a>`)
	assert.Contains(t, out, `<span aria-current="page">2</span>`)
	assert.Contains(t, out, `<a href="?page=3&amp;tag=go">3</a>`)
	assert.Contains(t, out, "gtag/js?id=G-ABC")
}

func TestPageWithoutPagesOmitsPager(t *testing.T) {
	out := render(t, Page(PageData{Name: "About", Pager: Pager{Current: 1, Total: 1}}))
	assert.NotContains(t, out, `class="pager"`)
	assert.NotContains(t, out, "googletagmanager")
}

func TestPageSanitizesLinks(t *testing.T) {
	out := render(t, Page(PageData{
		Name:          "Links",
		Items:         []Item{{Name: "bad", URL: "javascript:alert(1)"}, {Name: "ok", URL: "https://example.com/a/"}},
		AnalyticsCode: `G-1"&x`,
	}))

	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, `<a href="about:invalid`)
	assert.Contains(t, out, `<a href="https://example.com/a/">ok</a>`)
	assert.Contains(t, out, "gtag/js?id=G-1%22%26x")
}

func TestWithDefaults(t *testing.T) {
	v := Views{}.WithDefaults()
	require.NotNil(t, v.Page)
	assert.Contains(t, render(t, v.NotFound("Example")), "Page not found - Example")
	assert.Contains(t, render(t, v.ServerError("Example")), "Something went wrong")

	custom := Views{NotFound: func(string) templ.Component { return templ.Raw("custom") }}.WithDefaults()
	assert.Equal(t, "custom", render(t, custom.NotFound("x")))
}
