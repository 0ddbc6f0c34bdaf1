package templates

import (
	"context"
	"io"

	"github.com/JonMunkholm/buildprops/internal/table"
	"github.com/a-h/templ"
)

// TableViewParams holds everything the table page shows.
type TableViewParams struct {
	Job     string
	ViewKey string
	Title   string
	Headers []table.Header
	Rows    []table.Row
}

// TableView renders a materialized property table. Title, headers, row
// titles and cells are already sanitized.
func TableView(p TableViewParams) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		parts := []templ.Component{
			markup(`<p><a href="/">&larr; All jobs</a></p><h1>`), sanitized(p.Title), markup(`</h1>`),
			markup(`<p class="muted">Job `), text(p.Job), markup(`, view `), text(p.ViewKey), markup(`</p>`),
		}

		if len(p.Rows) == 0 {
			parts = append(parts, markup(`<p class="muted">No matching properties.</p>`))
			return renderAll(ctx, w, parts)
		}

		parts = append(parts, markup(`<table><thead><tr><th></th>`))
		for _, h := range p.Headers {
			parts = append(parts, markup(`<th>`), sanitized(h.Title), markup(`</th>`))
		}
		parts = append(parts, markup(`</tr></thead><tbody>`))
		for _, r := range p.Rows {
			parts = append(parts, markup(`<tr><td class="row-title">`), sanitized(r.Title), markup(`</td>`))
			for _, c := range r.Cells {
				parts = append(parts, markup(`<td>`), sanitized(c.Value), markup(`</td>`))
			}
			parts = append(parts, markup(`</tr>`))
		}
		parts = append(parts, markup(`</tbody></table>`))

		return renderAll(ctx, w, parts)
	})
}
