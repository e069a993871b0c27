// Package seo derives page metadata (title, description, keywords, social
// image and canonical URL) from a content node, falling back to the site root.
package seo

// Model is the derived metadata of one page.
type Model struct {
	Title                 string   `json:"title"`
	Description           string   `json:"description"`
	Tags                  []string `json:"tags"`
	SocialMediaShareImage string   `json:"socialMediaShareImage"`
	URL                   string   `json:"url"`
}

// Well-known property aliases of the SEO composition and the site root.
const (
	MetaTitleAlias        = "metaTitle"
	MetaDescriptionAlias  = "metaDescription"
	MetaKeywordsAlias     = "metaKeywords"
	SocialShareImageAlias = "socialShareImage"
	WebsiteLogoAlias      = "websiteLogo"
)

// Alias fragments used to find look-alike properties when the dedicated SEO
// properties are empty.
const (
	descriptionAliasTarget = "description"
	keywordAliasTarget     = "keyword"
	imageAliasTarget       = "image"
)

// MaxDescriptionLength caps descriptions taken from look-alike properties.
const MaxDescriptionLength = 255
