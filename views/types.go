package views

// Site holds the site-wide settings every page needs.
type Site struct {
	Name string // shown in the header and <title>
	URL  string // canonical base URL, no trailing slash
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head>.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string // og:image, optional
	JSONLD      string // raw JSON-LD, optional
}

// nav identifies the highlighted header link.
type nav int

const (
	navNone nav = iota
	navFeed
	navCreate
	navAnalytics
)
