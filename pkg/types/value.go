package types

import (
	"fmt"
	"strconv"
)

// Value is a single scalar value together with its data type. Values are
// comparable with ==; the zero value is the invalid value.
type Value struct {
	ty   DataType
	null bool

	b bool
	i int64
	f float64
	s string
}

// NullValue returns the null value of the given data type.
func NullValue(ty DataType) Value { return Value{ty: ty, null: true} }

// BoolValue returns a boolean value.
func BoolValue(v bool) Value { return Value{ty: Bool, b: v} }

// IntegerValue returns a signed 64bit integer value.
func IntegerValue(v int64) Value { return Value{ty: Integer, i: v} }

// FloatValue returns a 64bit floating point value.
func FloatValue(v float64) Value { return Value{ty: Float, f: v} }

// StringValue returns a string value.
func StringValue(v string) Value { return Value{ty: String, s: v} }

// TimestampValue returns a nanosecond timestamp value.
func TimestampValue(ns int64) Value { return Value{ty: Timestamp, i: ns} }

// Type returns the data type of the value.
func (v Value) Type() DataType { return v.ty }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.null }

// Bool returns the boolean payload. It is only meaningful for [Bool] values.
func (v Value) Bool() bool { return v.b }

// Int64 returns the integer payload. It is only meaningful for [Integer] and
// [Timestamp] values.
func (v Value) Int64() int64 { return v.i }

// Float64 returns the floating point payload. It is only meaningful for
// [Float] values.
func (v Value) Float64() float64 { return v.f }

// Str returns the string payload. It is only meaningful for [String] values.
func (v Value) Str() string { return v.s }

// Any returns the payload as an untyped value, or nil if the value is null.
func (v Value) Any() any {
	if v.null {
		return nil
	}
	switch v.ty {
	case Bool:
		return v.b
	case Integer, Timestamp:
		return v.i
	case Float:
		return v.f
	case String:
		return v.s
	default:
		return nil
	}
}

// String returns the string representation of the value.
func (v Value) String() string {
	if v.null {
		return "NULL"
	}
	switch v.ty {
	case Bool:
		return strconv.FormatBool(v.b)
	case Integer, Timestamp:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case String:
		return strconv.Quote(v.s)
	default:
		return fmt.Sprintf("Value(%s)", v.ty)
	}
}
