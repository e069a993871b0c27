package seo

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"

	"github.com/eringen/pubcontent/content"
)

// containsFold reports whether alias contains target, ignoring case.
// A Caser is not safe for concurrent use, so each call gets its own.
func containsFold(alias, target string) bool {
	fold := cases.Fold()
	return strings.Contains(fold.String(alias), fold.String(target))
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// propertyText normalizes a description-like property into plain text.
// Editors other than text and rich text produce "".
func propertyText(p content.Property) string {
	s, ok := p.Value.(string)
	if !ok {
		return ""
	}
	switch p.Kind() {
	case content.EditorTextBox, content.EditorTextArea:
		return truncate(s, MaxDescriptionLength)
	case content.EditorRichText:
		return truncate(stripNewLines(StripHTML(s)), MaxDescriptionLength)
	default:
		return ""
	}
}

// propertyStrings reads a tag-like property as a list of strings.
func propertyStrings(p content.Property) []string {
	switch v := p.Value.(type) {
	case []string:
		return content.FilterEmpty(v)
	case string:
		return content.FilterEmpty(strings.Split(v, ","))
	}
	return nil
}

// propertyImage reads an image property holding one image or a list of them.
func propertyImage(p content.Property) (content.Image, bool) {
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

// StripHTML returns the text content of an HTML fragment with entities decoded.
// Script and style bodies are dropped.
func StripHTML(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.StartTagToken:
			if name, _ := z.TagName(); isRawTag(name) {
				skip++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); isRawTag(name) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func isRawTag(name []byte) bool {
	return string(name) == "script" || string(name) == "style"
}

// stripNewLines replaces each run of line breaks with one space.
func stripNewLines(s string) string {
	var b strings.Builder
	inBreak := false
	for _, r := range s {
		if r == '\n' || r == '\r' {
			if !inBreak {
				b.WriteByte(' ')
				inBreak = true
			}
			continue
		}
		inBreak = false
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
