package views

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/genblog"
	"github.com/eringen/genblog/analytics"
)

var site = Site{Name: "GenBlog", URL: "https://example.com"}

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func post(id, title string) *genblog.BlogPost {
	return &genblog.BlogPost{
		ID:       id,
		Title:    title,
		Excerpt:  "excerpt " + id,
		Content:  "First line\nsecond line\n\nNext paragraph",
		Author:   "Sarah Khan",
		Date:     "Oct 24, 2023",
		ReadTime: "5 min read",
		Category: "Technology",
		ImageURL: "https://picsum.photos/800/600?random=1",
		Views:    1240,
	}
}

func TestContentVerbatim(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", `<div class="content"></div>`},
		{"one", `<div class="content">one</div>`},
		{"a\n\n\n\nb", "<div class=\"content\">a\n\n\n\nb</div>"},
		{"Line two\n    indented code  ", "<div class=\"content\">Line two\n    indented code  </div>"},
		{"<script>x</script>", `<div class="content">&lt;script&gt;x&lt;/script&gt;</div>`},
	}
	for _, tt := range tests {
		got := render(t, Content(tt.in))
		if got != tt.want {
			t.Errorf("Content(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLayoutPreservesWhitespace(t *testing.T) {
	html := render(t, Post(site, post("1", "T"), nil))
	assert.Contains(t, html, ".content{white-space:pre-wrap")
}

func TestFeedOrderAndEscaping(t *testing.T) {
	posts := []*genblog.BlogPost{post("9", "<b>New</b>"), post("1", "Old")}
	html := render(t, Feed(site, posts))

	assert.Contains(t, html, "&lt;b&gt;New&lt;/b&gt;")
	assert.NotContains(t, html, "<b>New</b>")
	assert.Less(t, strings.Index(html, "/posts/9/"), strings.Index(html, "/posts/1/"))
	assert.Contains(t, html, `class="card featured"`)
	assert.Contains(t, html, "1,240 views")
}

func TestFeedEmpty(t *testing.T) {
	html := render(t, Feed(site, nil))
	assert.Contains(t, html, "No posts yet")
}

func TestPostPage(t *testing.T) {
	p := post("2", "Lahore Food")
	rel := post("3", "Karachi Tech")
	html := render(t, Post(site, p, []*genblog.BlogPost{rel}))

	assert.Contains(t, html, "<h1>Lahore Food</h1>")
	assert.Contains(t, html, "First line\nsecond line\n\nNext paragraph")
	assert.Contains(t, html, "By Sarah Khan")
	assert.Contains(t, html, "/posts/3/")
	assert.Contains(t, html, `application/ld+json`)
}

func TestCreateKeepsInput(t *testing.T) {
	form := genblog.CreateForm{Topic: `Tea & "coffee"`, Tone: "Humorous", Error: "Failed"}
	html := render(t, Create(site, form, []string{"Informative", "Humorous"}, "tok123"))

	assert.Contains(t, html, "Tea &amp; &#34;coffee&#34;")
	assert.Contains(t, html, `value="Humorous" checked`)
	assert.NotContains(t, html, `value="Informative" checked`)
	assert.Contains(t, html, `name="_csrf" value="tok123"`)
	assert.Contains(t, html, `role="alert">Failed<`)
}

func TestCreateNoErrorBox(t *testing.T) {
	html := render(t, Create(site, genblog.CreateForm{Tone: "Informative"}, []string{"Informative"}, ""))
	assert.NotContains(t, html, `role="alert"`)
}

func TestAnalyticsPage(t *testing.T) {
	series := []analytics.Point{{Name: "Mon", Views: 400, Visitors: 240}, {Name: "Tue", Views: 200, Visitors: 100}}
	summary := analytics.Summary{TotalPosts: 3, TotalViews: 5530, TopAuthor: "Sarah Khan"}
	html := render(t, Analytics(site, series, summary))

	assert.Contains(t, html, "<b>5,530</b>")
	assert.Contains(t, html, "<b>Sarah Khan</b>")
	assert.Contains(t, html, "width:100%")
	assert.Contains(t, html, "width:50%")
}

func TestAnalyticsNoTopAuthor(t *testing.T) {
	html := render(t, Analytics(site, nil, analytics.Summary{}))
	assert.Contains(t, html, "<b>N/A</b>")
}

func TestBlogPostingJsonLD(t *testing.T) {
	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(BlogPostingJsonLD(site, post("7", "</script>"))), &data))
	assert.Equal(t, "https://example.com/posts/7/", data["url"])
	assert.Equal(t, "</script>", data["headline"])
	assert.NotContains(t, BlogPostingJsonLD(site, post("7", "</script>")), "</script>")
}

func TestFuncsWiresEveryView(t *testing.T) {
	f := Funcs(site)
	require.NotNil(t, f.Feed)
	require.NotNil(t, f.Post)
	require.NotNil(t, f.Create)
	require.NotNil(t, f.Analytics)
	assert.Contains(t, render(t, f.NotFound()), "Not found")
	assert.Contains(t, render(t, f.ServerError()), "Something went wrong")
}

func TestInitial(t *testing.T) {
	tests := map[string]string{"sarah": "S", "": "?", "ñandu": "Ñ"}
	for in, want := range tests {
		if got := initial(in); got != want {
			t.Errorf("initial(%q) = %q, want %q", in, got, want)
		}
	}
}
