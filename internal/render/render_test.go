package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/buildprops/internal/sanitize"
	"github.com/JonMunkholm/buildprops/internal/table"
)

func sampleTable(t *testing.T) *table.Table {
	t.Helper()
	tbl := table.New("Builds", nil, table.Options{Sanitizer: sanitize.Identity, Location: time.UTC})
	points := []struct {
		row, col string
		v        table.Value
	}{
		{"row1", "colA", table.Text("x")},
		{"row1", "colB", table.Date(time.Date(2022, 1, 3, 9, 15, 0, 0, time.UTC))},
		{"row2", "colA", table.Text("y")},
	}
	for _, p := range points {
		if err := tbl.AddRawData(p.row, p.col, p.v); err != nil {
			t.Fatalf("AddRawData() error = %v", err)
		}
	}
	tbl.ProcessRaw()
	return tbl
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{input: "", want: FormatTable},
		{input: "TABLE", want: FormatTable},
		{input: "md", want: FormatMarkdown},
		{input: "markdown", want: FormatMarkdown},
		{input: "csv", want: FormatCSV},
		{input: "json", want: FormatJSON},
		{input: "yaml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleTable(t), FormatJSON); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var doc Document
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if doc.Title != "Builds" || len(doc.Headers) != 2 || len(doc.Rows) != 2 {
		t.Fatalf("doc = %+v", doc)
	}
	if doc.Rows[0].Cells[1].Value != "2022-01-03 09:15:00 Mon" {
		t.Errorf("date cell = %q", doc.Rows[0].Cells[1].Value)
	}
	if doc.Rows[1].Cells[1].Value != "" {
		t.Errorf("missing cell = %q, want empty", doc.Rows[1].Cells[1].Value)
	}
}

func TestWrite_JSON_EmptyTableUsesArrays(t *testing.T) {
	tbl := table.New("empty", nil, table.Options{})
	tbl.ProcessRaw()

	var buf bytes.Buffer
	if err := Write(&buf, tbl, FormatJSON); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"headers": []`) || !strings.Contains(buf.String(), `"rows": []`) {
		t.Errorf("empty table should encode empty arrays, got %s", buf.String())
	}
}

func TestWrite_TextFormats(t *testing.T) {
	tests := []struct {
		format Format
		want   []string
	}{
		{format: FormatTable, want: []string{"colA", "colB", "row1", "2022-01-03 09:15:00 Mon", "row2"}},
		{format: FormatMarkdown, want: []string{"| row1 | x | 2022-01-03 09:15:00 Mon |", "| row2 | y |"}},
		{format: FormatCSV, want: []string{",colA,colB", "row1,x,2022-01-03 09:15:00 Mon", "row2,y,"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, sampleTable(t), tt.format); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleTable(t), Format("xml")); err == nil {
		t.Error("Write() expected error for unknown format")
	}
}
