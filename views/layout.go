package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const stylesheet = `
*{box-sizing:border-box}
body{margin:0;font-family:system-ui,-apple-system,"Segoe UI",sans-serif;background:#f8fafc;color:#1e293b;line-height:1.5}
a{color:inherit;text-decoration:none}
header{position:sticky;top:0;z-index:10;background:#fff;border-bottom:1px solid #e2e8f0}
.bar{max-width:72rem;margin:0 auto;padding:0 1rem;height:4rem;display:flex;align-items:center;justify-content:space-between}
.brand{font-weight:800;font-size:1.25rem;color:#4f46e5}
nav a{margin-left:1rem;padding:.4rem .9rem;border-radius:999px;font-size:.9rem;color:#475569}
nav a.active{background:#eef2ff;color:#4338ca;font-weight:600}
nav a.cta{background:#4f46e5;color:#fff;font-weight:600}
main{max-width:72rem;margin:0 auto;padding:2rem 1rem 5rem}
.grid{display:grid;gap:1.5rem;grid-template-columns:repeat(auto-fill,minmax(18rem,1fr))}
.card{display:flex;flex-direction:column;background:#fff;border:1px solid #f1f5f9;border-radius:1rem;overflow:hidden;box-shadow:0 1px 2px rgba(0,0,0,.05)}
.card:hover{box-shadow:0 4px 12px rgba(0,0,0,.08)}
.card .img{position:relative;height:12rem}
.card img,.hero img{width:100%;height:100%;object-fit:cover;display:block}
.pill{display:inline-block;padding:.2rem .75rem;border-radius:999px;font-size:.75rem;font-weight:600;background:rgba(255,255,255,.9);color:#4f46e5}
.card .pill{position:absolute;top:.75rem;left:.75rem}
.card .body{padding:1.25rem;display:flex;flex-direction:column;flex-grow:1}
.meta{font-size:.75rem;color:#64748b}
.card h3{margin:.5rem 0;font-size:1.2rem;line-height:1.3}
.card p{margin:0 0 1rem;color:#475569;font-size:.9rem;flex-grow:1}
.by{display:flex;align-items:center;gap:.5rem;padding-top:1rem;border-top:1px solid #f8fafc;font-size:.85rem;font-weight:500}
.avatar{width:2rem;height:2rem;border-radius:999px;background:#e0e7ff;color:#4f46e5;display:flex;align-items:center;justify-content:center;font-weight:700;font-size:.75rem}
.featured{display:grid;grid-template-columns:3fr 2fr;margin-bottom:2.5rem}
.featured .img{height:100%;min-height:18rem}
.featured h3{font-size:1.8rem}
.hero{position:relative;height:24rem;border-radius:1rem;overflow:hidden;margin-bottom:2rem}
.hero .shade{position:absolute;inset:0;background:linear-gradient(to top,rgba(0,0,0,.6),transparent)}
.hero .caption{position:absolute;left:1.5rem;right:1.5rem;bottom:1.5rem;color:#fff}
.hero .pill{background:#4f46e5;color:#fff}
.hero h1{font-size:2.2rem;line-height:1.2;margin:.5rem 0}
.prose{max-width:48rem;margin:0 auto;font-size:1.1rem;color:#334155}
.content{white-space:pre-wrap;overflow-wrap:break-word}
.panel{max-width:42rem;margin:0 auto;background:#fff;border:1px solid #f1f5f9;border-radius:1rem;padding:2rem;box-shadow:0 4px 12px rgba(0,0,0,.06)}
label{display:block;font-size:.9rem;font-weight:500;margin-bottom:.5rem}
textarea{width:100%;height:8rem;padding:.75rem 1rem;border:1px solid #e2e8f0;border-radius:.75rem;font:inherit;resize:none}
.tones{display:flex;flex-wrap:wrap;gap:.5rem;margin:0;padding:0;border:0}
.tones input{position:absolute;opacity:0}
.tones span{display:inline-block;padding:.5rem 1rem;border-radius:999px;background:#f1f5f9;color:#475569;font-size:.9rem;cursor:pointer}
.tones input:checked+span{background:#4f46e5;color:#fff}
.error{padding:1rem;background:#fef2f2;color:#dc2626;border-radius:.5rem;font-size:.9rem}
.actions{display:flex;gap:1rem;padding-top:1rem}
.actions button{flex:1;padding:.75rem 1.5rem;border:0;border-radius:.75rem;font:inherit;font-weight:600;cursor:pointer}
.secondary{background:#f1f5f9;color:#475569}
.primary{background:#4f46e5;color:#fff}
.stack>*+*{margin-top:1.5rem}
.note{text-align:center;font-size:.75rem;color:#94a3b8}
.stats{display:grid;gap:1.5rem;grid-template-columns:repeat(auto-fit,minmax(14rem,1fr));margin-bottom:2rem}
.stat{background:#fff;border:1px solid #f1f5f9;border-radius:1rem;padding:1.5rem}
.stat b{display:block;font-size:1.8rem}
.chart{background:#fff;border:1px solid #f1f5f9;border-radius:1rem;padding:1.5rem}
.row{display:grid;grid-template-columns:3rem 1fr 5rem;align-items:center;gap:.75rem;margin:.5rem 0;font-size:.85rem}
.track{background:#f1f5f9;border-radius:999px;height:.75rem;overflow:hidden}
.fill{background:#6366f1;height:100%}
.related{max-width:48rem;margin:3rem auto 0}
`

// Layout wraps body in the page shell: head, header navigation and main.
func Layout(site Site, meta PageMeta, active nav, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		title := site.Name
		if meta.Title != "" && meta.Title != site.Name {
			title = meta.Title + " | " + site.Name
		}
		h.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw("<title>")
		h.text(title)
		h.raw("</title>")
		if meta.Description != "" {
			h.raw(`<meta name="description"`)
			h.attr("content", meta.Description)
			h.raw(">")
		}
		if meta.URL != "" {
			h.raw(`<link rel="canonical"`)
			h.attr("href", meta.URL)
			h.raw(`><meta property="og:url"`)
			h.attr("content", meta.URL)
			h.raw(">")
		}
		h.raw(`<meta property="og:title"`)
		h.attr("content", title)
		h.raw(`><meta property="og:type"`)
		h.attr("content", orDefault(meta.OGType, "website"))
		h.raw(">")
		if meta.Image != "" {
			h.raw(`<meta property="og:image"`)
			h.attr("content", meta.Image)
			h.raw(">")
		}
		h.raw(`<link rel="alternate" type="application/rss+xml" href="/feed.xml"`)
		h.attr("title", site.Name)
		h.raw(">")
		if meta.JSONLD != "" {
			// json.Marshal escapes <, > and &, so the block cannot close the tag.
			h.raw(`<script type="application/ld+json">` + meta.JSONLD + "</script>")
		}
		h.raw("<style>" + stylesheet + "</style></head><body>")

		h.raw(`<header><div class="bar"><a class="brand" href="/">`)
		h.text(site.Name)
		h.raw("</a><nav>")
		navLink(h, "/", "Feed", active == navFeed, "")
		navLink(h, "/analytics/", "Analytics", active == navAnalytics, "")
		navLink(h, "/create/", "Write with AI", active == navCreate, "cta")
		h.raw("</nav></div></header><main>")
		if h.err != nil {
			return h.err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		h.raw("</main></body></html>")
		return h.err
	})
}

func navLink(h *htmlWriter, href, label string, active bool, class string) {
	if active {
		class = "active"
	}
	h.raw("<a")
	h.attr("href", href)
	if class != "" {
		h.attr("class", class)
	}
	h.raw(">")
	h.text(label)
	h.raw("</a>")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
