package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/JonMunkholm/buildprops/internal/table"
	"github.com/a-h/templ"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.String()
}

func TestTableView_TrustBoundary(t *testing.T) {
	out := renderString(t, TableView(TableViewParams{
		Job:     `<job>`,
		ViewKey: `"all"`,
		Title:   `<em>Props</em>`,
		Headers: []table.Header{{Title: "a"}},
		Rows:    []table.Row{{Title: "1", Cells: []table.Cell{{Value: "<b>x</b>"}}}},
	}))

	tests := []struct {
		name string
		want string
	}{
		{"job escaped", "Job &lt;job&gt;"},
		{"view key escaped", "view &#34;all&#34;"},
		{"sanitized title kept", "<h1><em>Props</em></h1>"},
		{"sanitized cell kept", "<td><b>x</b></td>"},
	}
	for _, tt := range tests {
		if !strings.Contains(out, tt.want) {
			t.Errorf("%s: output missing %q\n%s", tt.name, tt.want, out)
		}
	}
}

func TestTableView_Empty(t *testing.T) {
	out := renderString(t, TableView(TableViewParams{Job: "j", ViewKey: "all", Title: "T"}))
	if !strings.Contains(out, "No matching properties.") || strings.Contains(out, "<table>") {
		t.Errorf("empty table output = %q", out)
	}
}

func TestPageAndAlert_EscapeText(t *testing.T) {
	out := renderString(t, Page("<t>", ErrorAlert("<m>", "", "C1")))
	for _, want := range []string{"<title>&lt;t&gt;</title>", "<strong>&lt;m&gt;</strong>", "Code: C1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "<p></p>") {
		t.Error("empty action should not render a paragraph")
	}
}

func TestIndex_EscapesJobsAndViews(t *testing.T) {
	out := renderString(t, Index([]string{"a b"}, []ViewLink{{Key: "v", Title: "<V>", Pattern: `"x"`}}))
	for _, want := range []string{
		`href="/job/a%20b/view/v"`,
		`title="&#34;x&#34;"`,
		">&lt;V&gt;</a>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}
