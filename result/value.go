// Package result defines metadata rows, their column layouts and result sets.
//
// A Row is a positional tuple of Values. Value is a closed variant over the
// primitive kinds the metadata layouts use (null, text, 32-bit integer,
// 16-bit integer, boolean), so rows can only ever hold supported kinds.
// Positional agreement with a layout is checked when a ResultSet is turned
// into an Arrow record.
package result

import "fmt"

// Kind is the variant tag of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindText
	KindInt32
	KindInt16
	KindBool
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindInt32:
		return "int32"
	case KindInt16:
		return "int16"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a single cell of a metadata row. The zero Value is null.
type Value struct {
	kind Kind
	text string
	num  int32
	flag bool
}

// Null returns the null value.
func Null() Value { return Value{} }

// Text returns a string value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Int32 returns a 32-bit integer value.
func Int32(v int32) Value { return Value{kind: KindInt32, num: v} }

// Int16 returns a 16-bit integer value.
func Int16(v int16) Value { return Value{kind: KindInt16, num: int32(v)} }

// Bool returns a boolean value.
func Bool(v bool) Value { return Value{kind: KindBool, flag: v} }

// OptionalText returns Text(*s), or Null when s is nil.
func OptionalText(s *string) Value {
	if s == nil {
		return Null()
	}
	return Text(*s)
}

// OptionalInt32 returns Int32(*v), or Null when v is nil.
func OptionalInt32(v *int32) Value {
	if v == nil {
		return Null()
	}
	return Int32(*v)
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsText returns the string payload and whether the value is text.
func (v Value) AsText() (string, bool) { return v.text, v.kind == KindText }

// AsInt32 returns the integer payload and whether the value is a 32-bit integer.
func (v Value) AsInt32() (int32, bool) { return v.num, v.kind == KindInt32 }

// AsInt16 returns the integer payload and whether the value is a 16-bit integer.
func (v Value) AsInt16() (int16, bool) { return int16(v.num), v.kind == KindInt16 }

// AsBool returns the boolean payload and whether the value is a boolean.
func (v Value) AsBool() (bool, bool) { return v.flag, v.kind == KindBool }

// Any returns the payload as a plain Go value (nil for null).
func (v Value) Any() any {
	switch v.kind {
	case KindText:
		return v.text
	case KindInt32:
		return v.num
	case KindInt16:
		return int16(v.num)
	case KindBool:
		return v.flag
	default:
		return nil
	}
}

// String formats the value for logs and test failures.
func (v Value) String() string {
	if v.kind == KindNull {
		return "NULL"
	}
	return fmt.Sprintf("%v", v.Any())
}

// Row is an ordered tuple of values whose shape is dictated by a layout.
type Row []Value

// Project packs values into a row. Every argument is already a supported
// kind, so projection cannot fail; layout agreement is checked later by
// ResultSet.Validate.
func Project(values ...Value) Row {
	row := make(Row, len(values))
	copy(row, values)
	return row
}
