package seo

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Head renders the <head> metadata of m: title, description, keywords,
// canonical link, OpenGraph, Twitter card and a WebPage JSON-LD block.
func Head(m Model, siteName string) templ.Component {
	card := "summary"
	if m.SocialMediaShareImage != "" {
		card = "summary_large_image"
	}
	return templ.Join(
		title(m.Title),
		metaTag("name", "description", m.Description),
		metaTag("name", "keywords", strings.Join(m.Tags, ", ")),
		canonical(m.URL),
		metaTag("property", "og:type", "website"),
		metaTag("property", "og:title", m.Title),
		metaTag("property", "og:description", m.Description),
		metaTag("property", "og:url", string(urlOrEmpty(m.URL))),
		metaTag("property", "og:site_name", siteName),
		metaTag("property", "og:image", string(urlOrEmpty(m.SocialMediaShareImage))),
		metaTag("name", "twitter:image", string(urlOrEmpty(m.SocialMediaShareImage))),
		metaTag("name", "twitter:card", card),
		metaTag("name", "twitter:title", m.Title),
		metaTag("name", "twitter:description", m.Description),
		jsonLD(WebPageJsonLD(m, siteName)),
	)
}

func title(text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<title>"+templ.EscapeString(text)+"</title>\n")
		return err
	})
}

// metaTag renders nothing for an empty value.
func metaTag(attr, key, value string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if value == "" {
			return nil
		}
		_, err := io.WriteString(w, "<meta "+attr+"=\""+key+"\" content=\""+templ.EscapeString(value)+"\">\n")
		return err
	})
}

func canonical(u string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if u == "" {
			return nil
		}
		_, err := io.WriteString(w, "<link rel=\"canonical\" href=\""+templ.EscapeString(string(templ.URL(u)))+"\">\n")
		return err
	})
}

func urlOrEmpty(u string) templ.SafeURL {
	if u == "" {
		return ""
	}
	return templ.URL(u)
}

// jsonLD writes data, already encoded by templ.JSONString, as a structured
// data script. The encoding escapes "<", so it cannot close the element.
func jsonLD(data string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<script type="application/ld+json">`+data+"</script>\n")
		return err
	})
}

func webPage(m Model, siteName string) map[string]any {
	data := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "WebPage",
		"name":        m.Title,
		"description": m.Description,
		"url":         m.URL,
	}
	if m.SocialMediaShareImage != "" {
		data["image"] = m.SocialMediaShareImage
	}
	if len(m.Tags) > 0 {
		data["keywords"] = strings.Join(m.Tags, ", ")
	}
	if siteName != "" {
		data["isPartOf"] = map[string]string{
			"@type": "WebSite",
			"name":  siteName,
		}
	}
	return data
}

// WebPageJsonLD returns a Schema.org WebPage JSON-LD string for m.
func WebPageJsonLD(m Model, siteName string) string {
	s, err := templ.JSONString(webPage(m, siteName))
	if err != nil {
		return "{}"
	}
	return s
}
