package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/JonMunkholm/buildprops/internal/core"
	"github.com/JonMunkholm/buildprops/internal/logging"
	"github.com/JonMunkholm/buildprops/internal/render"
	"github.com/JonMunkholm/buildprops/internal/sanitize"
	"github.com/JonMunkholm/buildprops/internal/table"
	"github.com/spf13/cobra"
)

type renderOptions struct {
	title       string
	pattern     string
	format      string
	timezone    string
	sanitizer   string
	placeholder string
	verbose     bool
}

func newRenderCmd() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a CSV of property triples as a table",
		Long: `Read "row,column,value[,kind]" records and print the materialized table.

kind is text (default), date (RFC 3339 value) or absent. Lines starting
with # are ignored. Use - to read from standard input.`,
		Example: `  # Render as a text table
  proptable render props.csv

  # Only columns starting with "deploy."
  proptable render props.csv --pattern '^deploy\.' --format markdown

  # Dates in UTC, cells HTML-escaped
  proptable render - --timezone UTC --sanitizer escape < props.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.title, "title", "", "table title")
	cmd.Flags().StringVar(&opts.pattern, "pattern", "", "only keep columns matching this regular expression")
	cmd.Flags().StringVarP(&opts.format, "format", "f", string(render.FormatTable), "output format (table|markdown|csv|json)")
	cmd.Flags().StringVar(&opts.timezone, "timezone", "Local", "IANA timezone dates are rendered in")
	cmd.Flags().StringVar(&opts.sanitizer, "sanitizer", string(sanitize.ModeIdentity), "cell sanitizer (escape|policy|none)")
	cmd.Flags().StringVar(&opts.placeholder, "placeholder", "", "text for cells that cannot be formatted")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log warnings to stderr")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "markdown", "csv", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runRender(cmd *cobra.Command, path string, opts renderOptions) error {
	format, err := render.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	s, err := sanitize.ForMode(opts.sanitizer)
	if err != nil {
		return err
	}
	pattern, err := core.ParsePattern(opts.pattern)
	if err != nil {
		return fmt.Errorf("invalid --pattern: %w", err)
	}
	loc, err := loadLocation(opts.timezone)
	if err != nil {
		return fmt.Errorf("invalid --timezone: %w", err)
	}

	level := "error"
	if opts.verbose {
		level = "warn"
	}

	var in io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	t := table.New(opts.title, pattern, table.Options{
		Sanitizer:   s,
		Location:    loc,
		Placeholder: opts.placeholder,
		Logger:      logging.New(cmd.ErrOrStderr(), level, "text"),
	})
	if err := loadTriples(in, t); err != nil {
		return err
	}
	t.ProcessRaw()

	return render.Write(cmd.OutOrStdout(), t, format)
}

// loadTriples feeds every CSV record to t. Records whose column does not
// match the table pattern are skipped.
func loadTriples(r io.Reader, t *table.Table) error {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read triples: %w", err)
		}

		line, _ := cr.FieldPos(0)
		if len(rec) < 2 || len(rec) > 4 {
			return fmt.Errorf("line %d: want row,column[,value[,kind]], got %d fields", line, len(rec))
		}
		row, column := rec[0], rec[1]
		if p := t.Pattern(); p != nil && !p.MatchString(column) {
			continue
		}

		var raw, kind string
		if len(rec) > 2 {
			raw = rec[2]
		}
		if len(rec) > 3 {
			kind = rec[3]
		}
		v, err := parseTriple(raw, kind)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if err := t.AddRawData(row, column, v); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
}

func parseTriple(raw, kind string) (table.Value, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "text":
		return table.Text(raw), nil
	case "date":
		ts, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
		if err != nil {
			return table.Value{}, fmt.Errorf("date value %q: %w", raw, err)
		}
		return table.Date(ts), nil
	case "absent":
		return table.Value{}, nil
	default:
		return table.Value{}, fmt.Errorf("unknown kind %q", kind)
	}
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}
