package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/eringen/genblog"
	"github.com/eringen/genblog/analytics"
)

// buildURL joins path segments onto a base URL, ensuring a trailing slash.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// postPath is the site-relative link to a post.
func postPath(p *genblog.BlogPost) string {
	return "/posts/" + url.PathEscape(p.ID) + "/"
}

// initial returns the first rune of name, uppercased, for avatar badges.
func initial(name string) string {
	for _, r := range name {
		return strings.ToUpper(string(r))
	}
	return "?"
}

// viewsLabel formats a view count as "1,240 views".
func viewsLabel(n int) string {
	if n == 1 {
		return "1 view"
	}
	return analytics.FormatCount(n) + " views"
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block for site.
func WebsiteJsonLD(site Site) string {
	data := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     site.Name,
		"url":      buildURL(site.URL),
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block for a post.
func BlogPostingJsonLD(site Site, post *genblog.BlogPost) string {
	postURL := buildURL(site.URL, "posts", post.ID)
	data := map[string]any{
		"@context":       "https://schema.org",
		"@type":          "BlogPosting",
		"headline":       post.Title,
		"description":    post.Excerpt,
		"datePublished":  post.Date,
		"articleSection": post.Category,
		"url":            postURL,
		"author": map[string]string{
			"@type": "Person",
			"name":  post.Author,
		},
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  site.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if post.ImageURL != "" {
		data["image"] = post.ImageURL
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
