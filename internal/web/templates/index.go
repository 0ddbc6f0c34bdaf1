package templates

import (
	"context"
	"io"
	"net/url"

	"github.com/a-h/templ"
)

// ViewLink is one view offered on the index page.
type ViewLink struct {
	Key     string
	Title   string
	Pattern string
}

// Index lists every job with a link per view.
func Index(jobs []string, views []ViewLink) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		parts := []templ.Component{markup(`<h1>Build properties</h1>`)}

		if len(jobs) == 0 {
			parts = append(parts, markup(`<p class="muted">No properties have been recorded yet.</p>`))
		}

		parts = append(parts, markup(`<ul class="jobs">`))
		for _, job := range jobs {
			parts = append(parts, markup(`<li><strong>`), text(job), markup(`</strong>`))
			for _, v := range views {
				href := "/job/" + url.PathEscape(job) + "/view/" + url.PathEscape(v.Key)
				parts = append(parts, markup(` <a href="`), text(href), markup(`"`))
				if v.Pattern != "" {
					parts = append(parts, markup(` title="`), text(v.Pattern), markup(`"`))
				}
				parts = append(parts, markup(`>`), text(v.Title), markup(`</a>`))
			}
			parts = append(parts, markup(`</li>`))
		}
		parts = append(parts, markup(`</ul>`))

		return renderAll(ctx, w, parts)
	})
}
