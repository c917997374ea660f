// Package value implements the typed cell value system shared by the
// catalog, table store, and executor: casting raw literals to a column's
// declared type, comparing typed values, and converting to and from the
// JSON-backed persistent form.
package value

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Type is a column's declared type.
type Type string

const (
	Int      Type = "INT"
	Text     Type = "TEXT"
	Bool     Type = "BOOL"
	DateTime Type = "DATETIME"
)

// ValidType reports whether t is one of the four supported column types.
func ValidType(t Type) bool {
	switch t {
	case Int, Text, Bool, DateTime:
		return true
	default:
		return false
	}
}

// Kind tags the shape of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindText
	KindBool
	KindDateTime
	// KindRaw is transient: the literal text parsed out of a SQL statement,
	// not yet cast to a column's declared type.
	KindRaw
)

// Value is a tagged variant over the six shapes a cell can take.
type Value struct {
	kind Kind
	i    int64
	s    string
	b    bool
	t    time.Time
}

// Null is the Null value.
var Null = Value{kind: KindNull}

// NewInt constructs an Int value.
func NewInt(i int64) Value { return Value{kind: KindInt, i: i} }

// NewText constructs a Text value.
func NewText(s string) Value { return Value{kind: KindText, s: s} }

// NewBool constructs a Bool value.
func NewBool(b bool) Value { return Value{kind: KindBool, b: b} }

// NewDateTime constructs a DateTime value.
func NewDateTime(t time.Time) Value { return Value{kind: KindDateTime, t: t} }

// NewRaw constructs a transient Raw value holding unparsed literal text.
func NewRaw(s string) Value { return Value{kind: KindRaw, s: s} }

// IsNull reports whether v is Null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Kind returns the value's shape.
func (v Value) Kind() Kind { return v.kind }

// Int returns the underlying int64; only meaningful when Kind() == KindInt.
func (v Value) Int() int64 { return v.i }

// Text returns the underlying string; meaningful for KindText and KindRaw.
func (v Value) Text() string { return v.s }

// Bool returns the underlying bool; only meaningful when Kind() == KindBool.
func (v Value) Bool() bool { return v.b }

// Time returns the underlying time; only meaningful when Kind() == KindDateTime.
func (v Value) Time() time.Time { return v.t }

// Equal compares two values by shape then payload. Null is never equal to
// anything, including another Null, when used as a predicate test.
func (v Value) Equal(other Value) bool {
	if v.kind == KindNull || other.kind == KindNull {
		return false
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindInt:
		return v.i == other.i
	case KindText:
		return v.s == other.s
	case KindBool:
		return v.b == other.b
	case KindDateTime:
		return v.t.Equal(other.t)
	default:
		return false
	}
}

// String renders a value the way the joined-WHERE comparison path needs it:
// the stringified form of a typed cell.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindText, KindRaw:
		return v.s
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindDateTime:
		return v.t.Format(time.RFC3339)
	default:
		return ""
	}
}

// IndexKey returns a comparable Go value suitable for use as a map key in a
// unique-column index. Keys are not tagged by shape: Int and DateTime both
// map to int64 and Text and Raw both map to string, so a key is only
// unambiguous within one column's index, where every value has that
// column's type.
func (v Value) IndexKey() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindText, KindRaw:
		return v.s
	case KindBool:
		return v.b
	case KindDateTime:
		return v.t.UnixNano()
	default:
		return nil
	}
}

// Cast coerces a raw input (a Value of KindRaw/KindText/KindInt/KindBool/
// KindDateTime, or Null) to the declared column type. Null always
// round-trips unchanged.
func Cast(raw Value, t Type) (Value, error) {
	if raw.kind == KindNull {
		return Null, nil
	}
	switch t {
	case Int:
		return castInt(raw)
	case Text:
		return castText(raw)
	case Bool:
		return castBool(raw)
	case DateTime:
		return castDateTime(raw)
	default:
		return Value{}, fmt.Errorf("unknown type: %s", t)
	}
}

var errInvalid = func(t Type, raw Value) error {
	return fmt.Errorf("Invalid %s value: %s", t, raw.String())
}

func castInt(raw Value) (Value, error) {
	switch raw.kind {
	case KindInt:
		return NewInt(raw.i), nil
	case KindText, KindRaw:
		s := raw.s
		if isIntLiteral(s) {
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return Value{}, errInvalid(Int, raw)
			}
			return NewInt(n), nil
		}
		return Value{}, errInvalid(Int, raw)
	case KindBool:
		if raw.b {
			return NewInt(1), nil
		}
		return NewInt(0), nil
	default:
		return Value{}, errInvalid(Int, raw)
	}
}

// isIntLiteral matches -?[0-9]+.
func isIntLiteral(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '-' {
		i = 1
	}
	if i >= len(s) {
		return false
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func castText(raw Value) (Value, error) {
	switch raw.kind {
	case KindText, KindRaw:
		return NewText(raw.s), nil
	case KindInt:
		return NewText(strconv.FormatInt(raw.i, 10)), nil
	case KindBool:
		return NewText(strconv.FormatBool(raw.b)), nil
	case KindDateTime:
		return NewText(raw.t.Format(time.RFC3339)), nil
	default:
		return Value{}, errInvalid(Text, raw)
	}
}

func castBool(raw Value) (Value, error) {
	switch raw.kind {
	case KindBool:
		return NewBool(raw.b), nil
	case KindText, KindRaw:
		v := strings.ToLower(strings.TrimSpace(raw.s))
		switch v {
		case "true":
			return NewBool(true), nil
		case "false":
			return NewBool(false), nil
		case "0":
			return NewBool(false), nil
		case "1":
			return NewBool(true), nil
		default:
			return Value{}, errInvalid(Bool, raw)
		}
	case KindInt:
		return NewBool(raw.i != 0), nil
	default:
		return Value{}, errInvalid(Bool, raw)
	}
}

func castDateTime(raw Value) (Value, error) {
	switch raw.kind {
	case KindDateTime:
		return NewDateTime(raw.t), nil
	case KindText, KindRaw:
		t, err := parseISO8601(raw.s)
		if err != nil {
			return Value{}, errInvalid(DateTime, raw)
		}
		return NewDateTime(t), nil
	default:
		return Value{}, errInvalid(DateTime, raw)
	}
}

// parseISO8601 tries the layouts an ISO-8601 timestamp is likely to arrive
// in, date-only included.
func parseISO8601(s string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	var lastErr error
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}

// ToPersistent converts a typed Value to the form stored in a table's JSON
// file: DATETIME becomes an ISO-8601 string, Null becomes nil, everything
// else is its native Go value.
func ToPersistent(v Value) any {
	switch v.kind {
	case KindNull:
		return nil
	case KindInt:
		return v.i
	case KindText, KindRaw:
		return v.s
	case KindBool:
		return v.b
	case KindDateTime:
		return v.t.Format(time.RFC3339Nano)
	default:
		return nil
	}
}

// FromPersistent reconstructs a typed Value from its JSON-decoded form and
// the column's declared type. json.Unmarshal into `any` yields float64 for
// numbers, string, bool, or nil.
func FromPersistent(raw any, t Type) (Value, error) {
	if raw == nil {
		return Null, nil
	}
	switch t {
	case Int:
		switch n := raw.(type) {
		case float64:
			return NewInt(int64(n)), nil
		case int64:
			return NewInt(n), nil
		default:
			return Value{}, fmt.Errorf("Invalid INT value: %v", raw)
		}
	case Text:
		s, ok := raw.(string)
		if !ok {
			return Value{}, fmt.Errorf("Invalid TEXT value: %v", raw)
		}
		return NewText(s), nil
	case Bool:
		b, ok := raw.(bool)
		if !ok {
			return Value{}, fmt.Errorf("Invalid BOOL value: %v", raw)
		}
		return NewBool(b), nil
	case DateTime:
		s, ok := raw.(string)
		if !ok {
			return Value{}, fmt.Errorf("Invalid DATETIME value: %v", raw)
		}
		t, err := parseISO8601(s)
		if err != nil {
			return Value{}, fmt.Errorf("Invalid DATETIME value: %v", raw)
		}
		return NewDateTime(t), nil
	default:
		return Value{}, fmt.Errorf("unknown type: %s", t)
	}
}
