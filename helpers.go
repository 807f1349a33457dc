package genblog

import (
	"net/url"
	"path"
	"strings"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
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

// PathEscape escapes a string for use in a URL path.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// RelatedPosts returns up to limit posts sharing current's category, in
// store order, excluding current itself. Uncategorized posts have no
// relatives.
func RelatedPosts(current *BlogPost, posts []*BlogPost, limit int) []*BlogPost {
	if current == nil || limit <= 0 {
		return nil
	}
	want := strings.ToLower(strings.TrimSpace(current.Category))
	if want == "" {
		return nil
	}
	var related []*BlogPost
	for _, p := range posts {
		if p.ID == current.ID || strings.ToLower(strings.TrimSpace(p.Category)) != want {
			continue
		}
		related = append(related, p)
		if len(related) == limit {
			break
		}
	}
	return related
}
