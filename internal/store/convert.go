package store

// convert.go maps between Go property values and their two database columns.
// A property is a timestamp (value_time), text (value_text) or NULL in both.

import (
	"fmt"
	"time"

	"github.com/JonMunkholm/buildprops/internal/table"
	"github.com/jackc/pgx/v5/pgtype"
)

// encodeValue splits a property value into its text and timestamp columns.
func encodeValue(v any) (pgtype.Text, pgtype.Timestamptz) {
	switch x := v.(type) {
	case nil:
		return pgtype.Text{}, pgtype.Timestamptz{}
	case time.Time:
		return pgtype.Text{}, pgtype.Timestamptz{Time: x, Valid: true}
	case *time.Time:
		if x == nil {
			return pgtype.Text{}, pgtype.Timestamptz{}
		}
		return pgtype.Text{}, pgtype.Timestamptz{Time: *x, Valid: true}
	case string:
		return pgtype.Text{String: x, Valid: true}, pgtype.Timestamptz{}
	default:
		return pgtype.Text{String: fmt.Sprint(x), Valid: true}, pgtype.Timestamptz{}
	}
}

// decodeValue turns the stored columns back into a table value.
// A timestamp takes precedence over text; both NULL is absent.
func decodeValue(text pgtype.Text, ts pgtype.Timestamptz) table.Value {
	if ts.Valid {
		return table.Date(ts.Time)
	}
	if text.Valid {
		return table.Text(text.String)
	}
	return table.Value{}
}
