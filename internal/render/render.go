// Package render writes materialized tables as text, markdown, CSV or JSON.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/buildprops/internal/table"
	"github.com/jedib0t/go-pretty/v6/text"
	prettytable "github.com/jedib0t/go-pretty/v6/table"
)

// Format selects an output representation.
type Format string

const (
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// ParseFormat resolves a format name. "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return FormatTable, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q (want table, markdown, csv or json)", s)
	}
}

// Document is the serializable form of a table.
type Document struct {
	Title   string         `json:"title"`
	Headers []table.Header `json:"headers"`
	Rows    []table.Row    `json:"rows"`
}

// NewDocument snapshots t. Headers and rows are never nil.
func NewDocument(t *table.Table) Document {
	doc := Document{
		Title:   t.Title(),
		Headers: t.Headers(),
		Rows:    t.Rows(),
	}
	if doc.Headers == nil {
		doc.Headers = []table.Header{}
	}
	if doc.Rows == nil {
		doc.Rows = []table.Row{}
	}
	for i := range doc.Rows {
		if doc.Rows[i].Cells == nil {
			doc.Rows[i].Cells = []table.Cell{}
		}
	}
	return doc
}

// Write renders t to w in the given format.
func Write(w io.Writer, t *table.Table, format Format) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewDocument(t))
	}

	tw := prettytable.NewWriter()
	tw.SetStyle(prettytable.StyleLight)
	// Property names are case-sensitive; keep header text as given.
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().Title.Align = text.AlignCenter
	if t.Title() != "" {
		tw.SetTitle(t.Title())
	}

	header := prettytable.Row{""}
	for _, h := range t.Headers() {
		header = append(header, h.Title)
	}
	tw.AppendHeader(header)

	for _, r := range t.Rows() {
		row := prettytable.Row{r.Title}
		for _, c := range r.Cells {
			row = append(row, c.Value)
		}
		tw.AppendRow(row)
	}

	var out string
	switch format {
	case FormatTable:
		out = tw.Render()
	case FormatMarkdown:
		out = tw.RenderMarkdown()
	case FormatCSV:
		out = tw.RenderCSV()
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	if _, err := io.WriteString(w, out+"\n"); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return nil
}
