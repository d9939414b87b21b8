package dbf

import (
	"fmt"
	"time"
)

// ValueKind discriminates the closed set of FieldValue variants.
type ValueKind int

const (
	KindText ValueKind = iota
	KindNumeric
	KindInteger
	KindBoolean
	KindDate
	KindDateTime
	KindUnknown
)

func (k ValueKind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindNumeric:
		return "Numeric"
	case KindInteger:
		return "Integer"
	case KindBoolean:
		return "Boolean"
	case KindDate:
		return "Date"
	case KindDateTime:
		return "DateTime"
	case KindUnknown:
		return "Unknown"
	default:
		return "Invalid"
	}
}

// FieldValue is the closed tagged union returned for every decoded cell:
// exactly one of its accessors reports ok for any given value.
type FieldValue struct {
	kind    ValueKind
	text    string
	numeric float64
	integer int32
	boolean *bool // nil means unknown (three-valued logic)
	when    time.Time
	raw     []byte
}

// Kind reports which variant v holds.
func (v FieldValue) Kind() ValueKind { return v.kind }

// TextValue builds a Text variant.
func TextValue(s string) FieldValue { return FieldValue{kind: KindText, text: s} }

// NumericValue builds a Numeric variant.
func NumericValue(f float64) FieldValue { return FieldValue{kind: KindNumeric, numeric: f} }

// IntegerValue builds an Integer variant.
func IntegerValue(i int32) FieldValue { return FieldValue{kind: KindInteger, integer: i} }

// BooleanValue builds a Boolean variant. A nil b means the three-valued
// logical field holds neither Y/y nor N/n.
func BooleanValue(b *bool) FieldValue { return FieldValue{kind: KindBoolean, boolean: b} }

// DateValue builds a Date variant. t's time-of-day components are ignored.
func DateValue(t time.Time) FieldValue {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return FieldValue{kind: KindDate, when: d}
}

// DateTimeValue builds a DateTime variant.
func DateTimeValue(t time.Time) FieldValue { return FieldValue{kind: KindDateTime, when: t} }

// UnknownValue builds an Unknown variant wrapping the untouched raw bytes.
func UnknownValue(raw []byte) FieldValue {
	cp := make([]byte, len(raw))
	copy(cp, raw)
	return FieldValue{kind: KindUnknown, raw: cp}
}

// Text returns the string and true if v is a Text variant.
func (v FieldValue) Text() (string, bool) { return v.text, v.kind == KindText }

// Numeric returns the float64 and true if v is a Numeric variant.
func (v FieldValue) Numeric() (float64, bool) { return v.numeric, v.kind == KindNumeric }

// Integer returns the int32 and true if v is an Integer variant.
func (v FieldValue) Integer() (int32, bool) { return v.integer, v.kind == KindInteger }

// Boolean returns the boolean pointer (nil meaning "unknown") and true if v
// is a Boolean variant.
func (v FieldValue) Boolean() (*bool, bool) { return v.boolean, v.kind == KindBoolean }

// Date returns the civil date and true if v is a Date variant.
func (v FieldValue) Date() (time.Time, bool) { return v.when, v.kind == KindDate }

// DateTime returns the instant and true if v is a DateTime variant.
func (v FieldValue) DateTime() (time.Time, bool) { return v.when, v.kind == KindDateTime }

// Raw returns the untouched bytes and true if v is an Unknown variant.
func (v FieldValue) Raw() ([]byte, bool) { return v.raw, v.kind == KindUnknown }

// String renders v for debugging/logging call sites; it is not part of the
// on-disk format.
func (v FieldValue) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumeric:
		return fmt.Sprintf("%g", v.numeric)
	case KindInteger:
		return fmt.Sprintf("%d", v.integer)
	case KindBoolean:
		if v.boolean == nil {
			return "unknown"
		}
		return fmt.Sprintf("%t", *v.boolean)
	case KindDate:
		return v.when.Format("2006-01-02")
	case KindDateTime:
		return v.when.Format(time.RFC3339)
	case KindUnknown:
		return fmt.Sprintf("% x", v.raw)
	default:
		return ""
	}
}
