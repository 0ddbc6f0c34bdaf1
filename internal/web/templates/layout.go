// Package templates holds the HTML components of the property table UI.
//
// Components are templ.Component values. Strings that come out of a
// materialized table are already sanitized and are written with templ.Raw
// through sanitized; every other string goes through text, which escapes it.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const pageStyle = `body{font-family:system-ui,sans-serif;margin:2rem;color:#1f2937}
table{border-collapse:collapse;margin-top:1rem}
th,td{border:1px solid #d1d5db;padding:.35rem .6rem;text-align:left;vertical-align:top}
th{background:#f3f4f6}
td.row-title{font-weight:600}
.alert{border:1px solid #fca5a5;background:#fef2f2;padding:.75rem;margin:1rem 0}
.muted{color:#6b7280}`

// text escapes untrusted s.
func text(s string) templ.Component {
	return templ.Raw(templ.EscapeString(s))
}

// sanitized writes s as-is. Only for table output, which was sanitized
// when the table was materialized.
func sanitized(s string) templ.Component {
	return templ.Raw(s)
}

// markup writes static HTML.
func markup(html string) templ.Component {
	return templ.Raw(html)
}

func renderAll(ctx context.Context, w io.Writer, parts []templ.Component) error {
	for _, p := range parts {
		if err := p.Render(ctx, w); err != nil {
			return err
		}
	}
	return nil
}

// Page wraps body in the HTML document shell.
func Page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return renderAll(ctx, w, []templ.Component{
			markup(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`),
			text(title),
			markup(`</title><style>` + pageStyle + `</style></head><body>`),
			body,
			markup(`</body></html>`),
		})
	})
}

// ErrorAlert renders a user-facing error message.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		parts := []templ.Component{
			markup(`<div class="alert" role="alert"><strong>`), text(message), markup(`</strong>`),
		}
		if action != "" {
			parts = append(parts, markup(`<p>`), text(action), markup(`</p>`))
		}
		parts = append(parts, markup(`<p class="muted">Code: `), text(code), markup(`</p></div>`))
		return renderAll(ctx, w, parts)
	})
}
