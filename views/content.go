package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Content renders generated post text escaped and byte for byte. The
// .content class sets white-space:pre-wrap, so blank lines, indentation and
// trailing spaces show exactly as the model wrote them.
func Content(text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="content">`)
		h.text(text)
		h.raw("</div>")
		return h.err
	})
}
