package store

import (
	"testing"
	"time"

	"github.com/JonMunkholm/buildprops/internal/table"
	"github.com/jackc/pgx/v5/pgtype"
)

// ----------------------------------------------------------------------------
// encodeValue Tests
// ----------------------------------------------------------------------------

func TestEncodeValue(t *testing.T) {
	ts := time.Date(2022, 1, 3, 9, 15, 0, 0, time.UTC)
	var nilTime *time.Time

	tests := []struct {
		name      string
		input     any
		wantText  pgtype.Text
		wantValid bool // timestamp column
	}{
		{name: "nil", input: nil},
		{name: "nil time pointer", input: nilTime},
		{name: "time", input: ts, wantValid: true},
		{name: "time pointer", input: &ts, wantValid: true},
		{name: "string", input: "1.2.3", wantText: pgtype.Text{String: "1.2.3", Valid: true}},
		{name: "empty string", input: "", wantText: pgtype.Text{String: "", Valid: true}},
		{name: "int", input: 42, wantText: pgtype.Text{String: "42", Valid: true}},
		{name: "bool", input: false, wantText: pgtype.Text{String: "false", Valid: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, gotTS := encodeValue(tt.input)
			if text != tt.wantText {
				t.Errorf("text = %+v, want %+v", text, tt.wantText)
			}
			if gotTS.Valid != tt.wantValid {
				t.Errorf("timestamp valid = %v, want %v", gotTS.Valid, tt.wantValid)
			}
			if tt.wantValid && !gotTS.Time.Equal(ts) {
				t.Errorf("timestamp = %v, want %v", gotTS.Time, ts)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// decodeValue Tests
// ----------------------------------------------------------------------------

func TestDecodeValue(t *testing.T) {
	ts := time.Date(2022, 1, 3, 9, 15, 0, 0, time.UTC)

	tests := []struct {
		name string
		text pgtype.Text
		ts   pgtype.Timestamptz
		want table.ValueKind
	}{
		{name: "both null", want: table.KindAbsent},
		{name: "text", text: pgtype.Text{String: "x", Valid: true}, want: table.KindText},
		{name: "timestamp", ts: pgtype.Timestamptz{Time: ts, Valid: true}, want: table.KindDate},
		{
			name: "timestamp wins over text",
			text: pgtype.Text{String: "x", Valid: true},
			ts:   pgtype.Timestamptz{Time: ts, Valid: true},
			want: table.KindDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeValue(tt.text, tt.ts).Kind(); got != tt.want {
				t.Errorf("decodeValue().Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeValue_RendersInTable(t *testing.T) {
	ts := time.Date(2022, 1, 3, 9, 15, 0, 0, time.UTC)

	tbl := table.New("t", nil, table.Options{Location: time.UTC})
	if err := tbl.AddRawData("#1", "started", decodeValue(pgtype.Text{}, pgtype.Timestamptz{Time: ts, Valid: true})); err != nil {
		t.Fatalf("AddRawData() error = %v", err)
	}
	tbl.ProcessRaw()

	if got := tbl.Rows()[0].Cells[0].Value; got != "2022-01-03 09:15:00 Mon" {
		t.Errorf("cell = %q, want %q", got, "2022-01-03 09:15:00 Mon")
	}
}
