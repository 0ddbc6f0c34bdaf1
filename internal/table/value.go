package table

import (
	"fmt"
	"time"
)

// DateLayout renders dates as "yyyy-MM-dd HH:mm:ss EEE".
const DateLayout = "2006-01-02 15:04:05 Mon"

// ValueKind identifies which variant a Value holds.
type ValueKind int

const (
	KindAbsent ValueKind = iota
	KindDate
	KindText
	KindGeneric
	KindLazy
)

func (k ValueKind) String() string {
	switch k {
	case KindDate:
		return "date"
	case KindText:
		return "text"
	case KindGeneric:
		return "generic"
	case KindLazy:
		return "lazy"
	default:
		return "absent"
	}
}

// Value is a raw cell value. The zero Value is absent and renders as "".
type Value struct {
	kind    ValueKind
	date    time.Time
	text    string
	generic any
	lazy    func() (string, error)
}

// Date returns a date/time value.
func Date(t time.Time) Value {
	return Value{kind: KindDate, date: t}
}

// Text returns a plain string value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Generic wraps any printable value. It is rendered with fmt.Sprint.
func Generic(v any) Value {
	if v == nil {
		return Value{}
	}
	return Value{kind: KindGeneric, generic: v}
}

// Lazy defers string conversion to materialization time. A returned error
// degrades the cell to the table's placeholder.
func Lazy(fn func() (string, error)) Value {
	if fn == nil {
		return Value{}
	}
	return Value{kind: KindLazy, lazy: fn}
}

// ValueOf classifies a dynamic value once, at insertion.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Value{}
	case Value:
		return x
	case time.Time:
		return Date(x)
	case *time.Time:
		if x == nil {
			return Value{}
		}
		return Date(*x)
	case string:
		return Text(x)
	default:
		return Generic(x)
	}
}

// Kind reports the variant held by v.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsAbsent reports whether v carries no value.
func (v Value) IsAbsent() bool {
	return v.kind == KindAbsent
}

// format renders v for display. Dates are converted to loc first.
func (v Value) format(loc *time.Location) (s string, err error) {
	switch v.kind {
	case KindAbsent:
		return "", nil
	case KindDate:
		if loc == nil {
			loc = time.Local
		}
		return v.date.In(loc).Format(DateLayout), nil
	case KindText:
		return v.text, nil
	}

	// Generic and lazy values run caller code; a panic there is a formatting
	// failure for this cell only.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrFormat, r)
		}
	}()

	if v.kind == KindLazy {
		s, err = v.lazy()
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrFormat, err)
		}
		return s, nil
	}

	if st, ok := v.generic.(fmt.Stringer); ok {
		return st.String(), nil
	}
	return fmt.Sprint(v.generic), nil
}
