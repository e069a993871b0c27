package views

import (
	"context"
	"io"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/pubcontent/seo"
)

// Page renders a content page with its SEO head, child listing and pager.
func Page(d PageData) templ.Component {
	return templ.Join(
		templ.Raw("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n"),
		seo.Head(d.SEO, d.SiteName),
		analytics(d.AnalyticsCode),
		templ.Raw("</head>\n<body>\n<main>\n"),
		heading(d.Name),
		children(d.Items),
		pager(d.Pager),
		templ.Raw("</main>\n</body>\n</html>\n"),
	)
}

func analytics(code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if code == "" {
			return nil
		}
		src := templ.URL("https://www.googletagmanager.com/gtag/js?id=" + url.QueryEscape(code))
		_, err := io.WriteString(w, `<script async src="`+templ.EscapeString(string(src))+`"></script>`+"\n")
		return err
	})
}

func heading(text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<h1>"+templ.EscapeString(text)+"</h1>\n")
		return err
	})
}

func children(items []Item) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(items) == 0 {
			return nil
		}
		if _, err := io.WriteString(w, "<ul class=\"children\">\n"); err != nil {
			return err
		}
		for _, it := range items {
			if _, err := io.WriteString(w, "<li>"); err != nil {
				return err
			}
			if err := link("", it.URL, it.Name).Render(ctx, w); err != nil {
				return err
			}
			if _, err := io.WriteString(w, "</li>\n"); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</ul>\n")
		return err
	})
}

// pager renders nothing for a single page.
func pager(p Pager) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if p.Total <= 1 {
			return nil
		}
		parts := []templ.Component{templ.Raw("<nav class=\"pager\">\n")}
		if p.Previous != "" {
			parts = append(parts, link("prev", p.Previous, "Previous"), templ.Raw("\n"))
		}
		for _, l := range p.Links {
			n := strconv.Itoa(l.Number)
			if l.Active {
				parts = append(parts, templ.Raw(`<span aria-current="page">`+n+"</span>\n"))
				continue
			}
			parts = append(parts, link("", l.Href, n), templ.Raw("\n"))
		}
		if p.Next != "" {
			parts = append(parts, link("next", p.Next, "Next"), templ.Raw("\n"))
		}
		parts = append(parts, templ.Raw("</nav>\n"))
		return templ.Join(parts...).Render(ctx, w)
	})
}

// link renders an anchor. href is sanitized with templ.URL.
func link(rel, href, text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		a := "<a "
		if rel != "" {
			a += `rel="` + templ.EscapeString(rel) + `" `
		}
		a += `href="` + templ.EscapeString(string(templ.URL(href))) + `">` + templ.EscapeString(text) + "</a>"
		_, err := io.WriteString(w, a)
		return err
	})
}

// NotFound renders the 404 page.
func NotFound(siteName string) templ.Component {
	return message(siteName, "Page not found", "The page you are looking for does not exist.")
}

// ServerError renders the 500 page.
func ServerError(siteName string) templ.Component {
	return message(siteName, "Something went wrong", "Please try again later.")
}

func message(siteName, title, body string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>"+
			templ.EscapeString(title+" - "+siteName)+"</title>\n</head>\n<body>\n<h1>"+
			templ.EscapeString(title)+"</h1>\n<p>"+templ.EscapeString(body)+"</p>\n</body>\n</html>\n")
		return err
	})
}
