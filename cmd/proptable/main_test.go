package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/buildprops/internal/render"
)

const triples = `# row,column,value,kind
build-2,deploy.env,staging
build-1,started,2022-01-03T09:15:00Z,date
build-1,deploy.env,prod
build-1,commit,abc
build-2,commit,,absent
`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRender_CSV(t *testing.T) {
	out, err := execute(t, triples, "render", "-", "--format", "csv", "--timezone", "UTC")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, want := range []string{
		",commit,deploy.env,started",
		"build-1,abc,prod,2022-01-03 09:15:00 Mon",
		"build-2,,staging,",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q, got:\n%s", want, out)
		}
	}
}

func TestRender_PatternAndJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "props.csv")
	if err := os.WriteFile(path, []byte(triples), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "", "render", path, "--format", "json", "--pattern", `^deploy\.`, "--title", "Deploys")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var doc render.Document
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if doc.Title != "Deploys" {
		t.Errorf("title = %q", doc.Title)
	}
	if len(doc.Headers) != 1 || doc.Headers[0].Title != "deploy.env" {
		t.Errorf("headers = %v, want only deploy.env", doc.Headers)
	}
	if len(doc.Rows) != 2 || doc.Rows[0].Title != "build-1" || doc.Rows[1].Cells[0].Value != "staging" {
		t.Errorf("rows = %+v", doc.Rows)
	}
}

func TestRender_Sanitizer(t *testing.T) {
	input := "r,c,<b>bold</b>\n"

	out, err := execute(t, input, "render", "-", "--format", "csv")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "<b>bold</b>") {
		t.Errorf("default sanitizer should leave text unchanged, got %q", out)
	}

	out, err = execute(t, input, "render", "-", "--format", "csv", "--sanitizer", "escape")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "&lt;b&gt;bold&lt;/b&gt;") {
		t.Errorf("escape sanitizer output = %q", out)
	}
}

func TestRender_Errors(t *testing.T) {
	tests := []struct {
		name    string
		stdin   string
		args    []string
		wantErr string
	}{
		{"bad format", "a,b,c\n", []string{"render", "-", "--format", "xml"}, "unknown format"},
		{"bad pattern", "a,b,c\n", []string{"render", "-", "--pattern", "("}, "invalid --pattern"},
		{"bad timezone", "a,b,c\n", []string{"render", "-", "--timezone", "Mars/Olympus"}, "invalid --timezone"},
		{"bad sanitizer", "a,b,c\n", []string{"render", "-", "--sanitizer", "strip"}, "sanitizer"},
		{"bad kind", "a,b,c,number\n", []string{"render", "-"}, "unknown kind"},
		{"bad date", "a,b,yesterday,date\n", []string{"render", "-"}, "line 1"},
		{"too few fields", "a\n", []string{"render", "-"}, "want row,column"},
		{"empty row name", ",b,c\n", []string{"render", "-"}, "invalid argument"},
		{"missing file", "", []string{"render", "/nonexistent/props.csv"}, "no such file"},
		{"no args", "", []string{"render"}, "accepts 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.stdin, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
