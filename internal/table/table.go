// Package table builds rectangular, sanitized tables for rendering.
//
// A Table is filled in one of two ways:
//
//   - raw accumulation: AddRawData records sparse (row, column, value)
//     triples and ProcessRaw turns them into sorted headers and dense rows,
//     formatting and sanitizing every visible string;
//   - direct building: CreateHeader, CreateRow and CreateCell append
//     entries whose text the caller has already made safe.
//
// ProcessRaw is a one-shot transition from StateAccumulating to
// StateMaterialized. A Table has no internal locking; confine each instance
// to one goroutine or guard it externally.
package table

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"regexp"
	"slices"
	"time"

	"github.com/JonMunkholm/buildprops/internal/sanitize"
)

var (
	// ErrInvalidArgument is returned for empty names and out-of-range indices.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMaterialized is returned by AddRawData once ProcessRaw has run.
	ErrMaterialized = errors.New("table already materialized")

	// ErrFormat marks a raw value that could not be converted to text.
	ErrFormat = errors.New("format value")
)

// State is the lifecycle stage of a Table.
type State int

const (
	StateAccumulating State = iota
	StateMaterialized
)

func (s State) String() string {
	if s == StateMaterialized {
		return "materialized"
	}
	return "accumulating"
}

// Sanitizer neutralizes a string for embedding in a rendering context.
type Sanitizer = sanitize.Sanitizer

// Header is a column title.
type Header struct {
	Title string `json:"title"`
}

// Cell is a formatted, display-ready value.
type Cell struct {
	Value string `json:"value"`
}

// Row is a titled sequence of cells aligned with the table headers.
type Row struct {
	Title string `json:"title"`
	Cells []Cell `json:"cells"`
}

// Options controls formatting and sanitization during materialization.
type Options struct {
	// Sanitizer is applied to the title and every materialized string.
	// Defaults to sanitize.Escape.
	Sanitizer Sanitizer

	// Location is the timezone dates are rendered in. Defaults to time.Local.
	Location *time.Location

	// Placeholder replaces a cell whose value fails to format.
	Placeholder string

	// Logger receives warnings about degraded cells. Defaults to slog.Default().
	Logger *slog.Logger
}

// Table is a titled grid of headers and rows.
type Table struct {
	title   string
	pattern *regexp.Regexp
	headers []Header
	rows    []Row
	state   State

	rawData    map[string]map[string]Value
	rawColumns map[string]struct{}

	sanitizer   Sanitizer
	location    *time.Location
	placeholder string
	logger      *slog.Logger
}

// New creates an accumulating table. The title is sanitized immediately;
// pattern may be nil.
func New(title string, pattern *regexp.Regexp, opts Options) *Table {
	t := &Table{
		pattern:     pattern,
		rawData:     make(map[string]map[string]Value),
		rawColumns:  make(map[string]struct{}),
		sanitizer:   opts.Sanitizer,
		location:    opts.Location,
		placeholder: opts.Placeholder,
		logger:      opts.Logger,
	}
	if t.sanitizer == nil {
		t.sanitizer = sanitize.Escape
	}
	if t.location == nil {
		t.location = time.Local
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	t.title = t.sanitizer.Sanitize(title)
	return t
}

// Title returns the sanitized table title.
func (t *Table) Title() string {
	return t.title
}

// Pattern returns the selection filter, or nil once the table is materialized.
func (t *Table) Pattern() *regexp.Regexp {
	return t.pattern
}

// State returns the lifecycle stage.
func (t *Table) State() State {
	return t.state
}

// Headers returns a copy of the headers in display order.
func (t *Table) Headers() []Header {
	return slices.Clone(t.headers)
}

// Rows returns a deep copy of the rows in display order.
func (t *Table) Rows() []Row {
	rows := make([]Row, len(t.rows))
	for i, r := range t.rows {
		rows[i] = Row{Title: r.Title, Cells: slices.Clone(r.Cells)}
	}
	return rows
}

// ----------------------------------------------------------------------------
// Raw accumulation
// ----------------------------------------------------------------------------

// AddRawData records value under (rowName, columnName), replacing any earlier
// value for the same pair. Empty names are rejected with ErrInvalidArgument:
// an unnamed row or column has no title to sort or display, so "" is treated
// as a missing key rather than as a valid name.
func (t *Table) AddRawData(rowName, columnName string, value Value) error {
	if rowName == "" || columnName == "" {
		return fmt.Errorf("add raw data (row %q, column %q): %w", rowName, columnName, ErrInvalidArgument)
	}
	if t.state == StateMaterialized {
		return fmt.Errorf("add raw data (row %q, column %q): %w", rowName, columnName, ErrMaterialized)
	}

	cells, ok := t.rawData[rowName]
	if !ok {
		cells = make(map[string]Value)
		t.rawData[rowName] = cells
	}
	cells[columnName] = value
	t.rawColumns[columnName] = struct{}{}
	return nil
}

// ProcessRaw materializes the accumulated raw data into headers and rows and
// clears the pattern. Columns and rows are ordered by name. Only the first
// call has an effect; later calls add nothing.
func (t *Table) ProcessRaw() {
	if t.state == StateMaterialized {
		return
	}
	t.pattern = nil

	columns := slices.Sorted(maps.Keys(t.rawColumns))
	for _, column := range columns {
		t.headers = append(t.headers, Header{Title: t.sanitizer.Sanitize(column)})
	}

	for _, rowName := range slices.Sorted(maps.Keys(t.rawData)) {
		raw := t.rawData[rowName]
		row := Row{
			Title: t.sanitizer.Sanitize(rowName),
			Cells: make([]Cell, 0, len(columns)),
		}
		for _, column := range columns {
			row.Cells = append(row.Cells, Cell{Value: t.sanitizer.Sanitize(t.formatCell(rowName, column, raw[column]))})
		}
		t.rows = append(t.rows, row)
	}

	clear(t.rawData)
	clear(t.rawColumns)
	t.state = StateMaterialized
}

// formatCell renders v, substituting the placeholder on failure.
func (t *Table) formatCell(rowName, column string, v Value) string {
	s, err := v.format(t.location)
	if err != nil {
		t.logger.Warn("cell degraded to placeholder",
			"table", t.title,
			"row", rowName,
			"column", column,
			"kind", v.Kind().String(),
			"error", err,
		)
		return t.placeholder
	}
	return s
}

// ----------------------------------------------------------------------------
// Direct building
// ----------------------------------------------------------------------------

// CreateHeader appends a header and returns its index. The title is used as
// given; the caller is responsible for making it safe.
func (t *Table) CreateHeader(title string) int {
	t.headers = append(t.headers, Header{Title: title})
	return len(t.headers) - 1
}

// SetHeaderTitle replaces the title of the header at index.
func (t *Table) SetHeaderTitle(index int, title string) error {
	if index < 0 || index >= len(t.headers) {
		return fmt.Errorf("header %d: %w", index, ErrInvalidArgument)
	}
	t.headers[index].Title = title
	return nil
}

// CreateRow appends an empty row and returns its index.
func (t *Table) CreateRow(title string) int {
	t.rows = append(t.rows, Row{Title: title})
	return len(t.rows) - 1
}

// SetRowTitle replaces the title of the row at index.
func (t *Table) SetRowTitle(index int, title string) error {
	if index < 0 || index >= len(t.rows) {
		return fmt.Errorf("row %d: %w", index, ErrInvalidArgument)
	}
	t.rows[index].Title = title
	return nil
}

// CreateCell appends a cell to the row at rowIndex and returns the cell's
// index within that row.
func (t *Table) CreateCell(rowIndex int, value string) (int, error) {
	if rowIndex < 0 || rowIndex >= len(t.rows) {
		return 0, fmt.Errorf("row %d: %w", rowIndex, ErrInvalidArgument)
	}
	row := &t.rows[rowIndex]
	row.Cells = append(row.Cells, Cell{Value: value})
	return len(row.Cells) - 1, nil
}
