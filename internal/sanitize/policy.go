package sanitize

import (
	"html"
	"io"
	"slices"
	"strings"

	xhtml "golang.org/x/net/html"
)

// Policy is an allowlist sanitizer. Allowed elements are re-emitted with
// only their allowed attributes; all other markup is escaped as text.
type Policy struct {
	// AllowedTags maps a lowercase tag name to the attributes it may keep.
	AllowedTags map[string][]string

	// AllowedSchemes lists URL schemes permitted in href attributes.
	AllowedSchemes []string
}

// DefaultPolicy allows basic inline formatting and http(s)/mailto links.
func DefaultPolicy() *Policy {
	return &Policy{
		AllowedTags: map[string][]string{
			"a":      {"href", "title"},
			"b":      nil,
			"br":     nil,
			"code":   nil,
			"em":     nil,
			"i":      nil,
			"small":  nil,
			"span":   nil,
			"strong": nil,
			"sub":    nil,
			"sup":    nil,
			"u":      nil,
		},
		AllowedSchemes: []string{"http", "https", "mailto"},
	}
}

// Sanitize implements Sanitizer.
func (p *Policy) Sanitize(text string) string {
	if !strings.ContainsAny(text, "<>&\"'") {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))

	// open holds unclosed allowed elements; stray end tags are escaped.
	var open []string
	z := xhtml.NewTokenizer(strings.NewReader(text))
	for {
		tt := z.Next()
		if tt == xhtml.ErrorToken {
			if z.Err() != io.EOF {
				b.WriteString(html.EscapeString(string(z.Raw())))
			}
			break
		}

		tok := z.Token()
		switch tt {
		case xhtml.TextToken:
			b.WriteString(html.EscapeString(tok.Data))

		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			attrs, ok := p.AllowedTags[tok.Data]
			if !ok {
				b.WriteString(html.EscapeString(string(z.Raw())))
				continue
			}
			tok.Attr = p.filterAttrs(attrs, tok.Attr)
			b.WriteString(tok.String())
			if tt == xhtml.StartTagToken && tok.Data != "br" {
				open = append(open, tok.Data)
			}

		case xhtml.EndTagToken:
			i := slices.Index(open, tok.Data)
			if i < 0 {
				b.WriteString(html.EscapeString(string(z.Raw())))
				continue
			}
			for j := len(open) - 1; j >= i; j-- {
				b.WriteString("</" + open[j] + ">")
			}
			open = open[:i]

		default:
			// Comments and doctypes are dropped.
		}
	}

	// Close anything left open so one cell cannot leak markup into the next.
	for j := len(open) - 1; j >= 0; j-- {
		b.WriteString("</" + open[j] + ">")
	}
	return b.String()
}

// filterAttrs keeps allowed attributes and drops links with unsafe schemes.
func (p *Policy) filterAttrs(allowed []string, attrs []xhtml.Attribute) []xhtml.Attribute {
	var kept []xhtml.Attribute
	for _, a := range attrs {
		if a.Namespace != "" || !slices.Contains(allowed, a.Key) {
			continue
		}
		if a.Key == "href" && !p.allowedURL(a.Val) {
			continue
		}
		kept = append(kept, xhtml.Attribute{Key: a.Key, Val: a.Val})
	}
	return kept
}

// allowedURL reports whether a link target is relative or uses an allowed scheme.
func (p *Policy) allowedURL(raw string) bool {
	u := strings.TrimSpace(strings.ToLower(raw))
	i := strings.IndexAny(u, ":/?#")
	if i < 0 || u[i] != ':' {
		return true
	}
	return slices.Contains(p.AllowedSchemes, u[:i])
}
