package views

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/genblog"
	"github.com/eringen/genblog/analytics"
)

// Funcs returns the page components for site, ready to hand to genblog.New.
func Funcs(site Site) genblog.ViewFuncs {
	return genblog.ViewFuncs{
		Feed: func(posts []*genblog.BlogPost) templ.Component {
			return Feed(site, posts)
		},
		Post: func(post *genblog.BlogPost, related []*genblog.BlogPost) templ.Component {
			return Post(site, post, related)
		},
		Create: func(form genblog.CreateForm, tones []string, csrf string) templ.Component {
			return Create(site, form, tones, csrf)
		},
		Analytics: func(series []analytics.Point, summary analytics.Summary) templ.Component {
			return Analytics(site, series, summary)
		},
		NotFound:    func() templ.Component { return NotFound(site) },
		ServerError: func() templ.Component { return ServerError(site) },
	}
}

// Feed lists posts in the order given. The first post is featured.
func Feed(site Site, posts []*genblog.BlogPost) templ.Component {
	meta := PageMeta{
		Title:       site.Name,
		Description: "Posts written with AI, newest first.",
		URL:         buildURL(site.URL),
		JSONLD:      WebsiteJsonLD(site),
	}
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		if len(posts) == 0 {
			h.raw(`<p class="note">No posts yet. <a href="/create/">Write the first one.</a></p>`)
			return h.err
		}
		card(h, posts[0], true)
		if len(posts) > 1 {
			h.raw(`<div class="grid">`)
			for _, p := range posts[1:] {
				card(h, p, false)
			}
			h.raw("</div>")
		}
		return h.err
	})
	return Layout(site, meta, navFeed, body)
}

func card(h *htmlWriter, p *genblog.BlogPost, featured bool) {
	class := "card"
	if featured {
		class = "card featured"
	}
	h.raw("<a")
	h.attr("class", class)
	h.attr("href", postPath(p))
	h.raw(`><div class="img"><img loading="lazy"`)
	h.attr("src", p.ImageURL)
	h.attr("alt", p.Title)
	h.raw(`><span class="pill">`)
	h.text(p.Category)
	h.raw(`</span></div><div class="body"><div class="meta">`)
	h.text(p.Date + " • " + p.ReadTime + " • " + viewsLabel(p.Views))
	h.raw("</div><h3>")
	h.text(p.Title)
	h.raw("</h3><p>")
	h.text(p.Excerpt)
	h.raw(`</p><div class="by"><span class="avatar">`)
	h.text(initial(p.Author))
	h.raw("</span>")
	h.text(p.Author)
	h.raw("</div></div></a>")
}

// Post renders one post in full, followed by related posts when any.
func Post(site Site, post *genblog.BlogPost, related []*genblog.BlogPost) templ.Component {
	meta := PageMeta{
		Title:       post.Title,
		Description: post.Excerpt,
		URL:         buildURL(site.URL, "posts", post.ID),
		OGType:      "article",
		Image:       post.ImageURL,
		JSONLD:      BlogPostingJsonLD(site, post),
	}
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<p><a class="meta" href="/">&larr; Back to feed</a></p>`)
		h.raw(`<div class="hero"><img`)
		h.attr("src", post.ImageURL)
		h.attr("alt", post.Title)
		h.raw(`><div class="shade"></div><div class="caption"><span class="pill">`)
		h.text(post.Category)
		h.raw("</span><h1>")
		h.text(post.Title)
		h.raw("</h1><div>")
		h.text("By " + post.Author + " • " + post.Date + " • " + post.ReadTime)
		h.raw(`</div></div></div><article class="prose">`)
		if h.err != nil {
			return h.err
		}
		if err := Content(post.Content).Render(ctx, w); err != nil {
			return err
		}
		h.raw("</article>")
		if len(related) > 0 {
			h.raw(`<section class="related"><h2>More in `)
			h.text(post.Category)
			h.raw(`</h2><div class="grid">`)
			for _, p := range related {
				card(h, p, false)
			}
			h.raw("</div></section>")
		}
		return h.err
	})
	return Layout(site, meta, navNone, body)
}

// Create renders the generation form. form is echoed back so a failed
// attempt keeps the user's topic and tone.
func Create(site Site, form genblog.CreateForm, tones []string, csrf string) templ.Component {
	meta := PageMeta{Title: "AI Writer Studio", URL: buildURL(site.URL, "create")}
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="panel stack"><div><h2>AI Writer Studio</h2><p class="meta">`)
		h.text("Describe what you want to write about, and let " + site.Name + " handle the rest.")
		h.raw(`</p></div><form method="post" action="/create/" class="stack">`)
		h.raw(`<input type="hidden" name="_csrf"`)
		h.attr("value", csrf)
		h.raw(`><div><label for="topic">Topic or Idea</label>`)
		h.raw(`<textarea id="topic" name="topic" required placeholder="e.g., The benefits of green tea, How to start coding...">`)
		h.text(form.Topic)
		h.raw(`</textarea></div><div><label>Tone</label><fieldset class="tones">`)
		for _, t := range tones {
			h.raw(`<label><input type="radio" name="tone"`)
			h.attr("value", t)
			if t == form.Tone {
				h.raw(" checked")
			}
			h.raw("><span>")
			h.text(t)
			h.raw("</span></label>")
		}
		h.raw("</fieldset></div>")
		if form.Error != "" {
			h.raw(`<div class="error" role="alert">`)
			h.text(form.Error)
			h.raw("</div>")
		}
		h.raw(`<div class="actions">`)
		h.raw(`<button type="submit" class="secondary" formaction="/create/cancel/" formnovalidate>Cancel</button>`)
		h.raw(`<button type="submit" class="primary">Generate Post</button>`)
		h.raw(`</div></form><p class="note">Powered by Google Gemini</p></div>`)
		return h.err
	})
	return Layout(site, meta, navCreate, body)
}

// Analytics renders the summary cards and the weekly traffic series.
func Analytics(site Site, series []analytics.Point, summary analytics.Summary) templ.Component {
	meta := PageMeta{Title: "Analytics", URL: buildURL(site.URL, "analytics")}
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h2>Analytics</h2><div class="stats">`)
		stat(h, "Total Posts", strconv.Itoa(summary.TotalPosts))
		stat(h, "Total Views", analytics.FormatCount(summary.TotalViews))
		stat(h, "Top Author", orDefault(summary.TopAuthor, "N/A"))
		h.raw(`</div><div class="chart"><h3>Weekly Traffic</h3>`)
		peak, _ := analytics.Peak(series)
		for _, pt := range series {
			pct := 0
			if peak.Views > 0 {
				pct = pt.Views * 100 / peak.Views
			}
			h.raw(`<div class="row"><span>`)
			h.text(pt.Name)
			h.raw(`</span><div class="track"><div class="fill"`)
			h.attr("style", fmt.Sprintf("width:%d%%", pct))
			h.raw(`></div></div><span class="meta">`)
			h.text(analytics.FormatCount(pt.Views))
			h.raw("</span></div>")
		}
		views, visitors := analytics.Totals(series)
		h.raw(`<p class="meta">`)
		h.text(fmt.Sprintf("%s views from %s visitors this week.",
			analytics.FormatCount(views), analytics.FormatCount(visitors)))
		h.raw("</p></div>")
		return h.err
	})
	return Layout(site, meta, navAnalytics, body)
}

func stat(h *htmlWriter, label, value string) {
	h.raw(`<div class="stat"><span class="meta">`)
	h.text(label)
	h.raw("</span><b>")
	h.text(value)
	h.raw("</b></div>")
}

// NotFound is rendered for unknown routes and posts.
func NotFound(site Site) templ.Component {
	return message(site, "Not found", "That page or post does not exist in this session.")
}

// ServerError is rendered for unexpected failures.
func ServerError(site Site) templ.Component {
	return message(site, "Something went wrong", "Please try again in a moment.")
}

func message(site Site, title, text string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="panel"><h2>`)
		h.text(title)
		h.raw("</h2><p>")
		h.text(text)
		h.raw(`</p><p><a class="meta" href="/">&larr; Back to feed</a></p></div>`)
		return h.err
	})
	return Layout(site, PageMeta{Title: title}, navNone, body)
}
