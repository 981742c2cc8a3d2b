package executor

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/quiverdb/quiver/pkg/types"
)

// ColumnVector represents columnar values from evaluated expressions.
type ColumnVector interface {
	// ToArray returns the Arrow array representation of the column vector.
	// The returned array is retained for the caller, who must release it.
	ToArray() arrow.Array
	// Value returns the value at the specified index position in the column vector.
	Value(i int) types.Value
	// Type returns the data type of the column vector.
	Type() types.DataType
	// Len returns the length of the vector.
	Len() int64
	// Release decreases the reference count by 1 on the underlying Arrow array.
	Release()
}

// Scalar represents a single value repeated any number of times.
type Scalar struct {
	value types.Value
	rows  int64
}

var _ ColumnVector = (*Scalar)(nil)

// ToArray implements ColumnVector.
func (v *Scalar) ToArray() arrow.Array {
	builder := array.NewBuilder(memory.NewGoAllocator(), types.ToArrow[v.value.Type()])
	defer builder.Release()

	if v.value.IsNull() {
		for range v.rows {
			builder.AppendNull()
		}
		return builder.NewArray()
	}

	switch builder := builder.(type) {
	case *array.BooleanBuilder:
		value := v.value.Bool()
		for range v.rows {
			builder.Append(value)
		}
	case *array.Int64Builder:
		value := v.value.Int64()
		for range v.rows {
			builder.Append(value)
		}
	case *array.Float64Builder:
		value := v.value.Float64()
		for range v.rows {
			builder.Append(value)
		}
	case *array.StringBuilder:
		value := v.value.Str()
		for range v.rows {
			builder.Append(value)
		}
	case *array.TimestampBuilder:
		value := arrow.Timestamp(v.value.Int64())
		for range v.rows {
			builder.Append(value)
		}
	}
	return builder.NewArray()
}

// Value implements ColumnVector.
func (v *Scalar) Value(_ int) types.Value {
	return v.value
}

// Type implements ColumnVector.
func (v *Scalar) Type() types.DataType {
	return v.value.Type()
}

// Len implements ColumnVector.
func (v *Scalar) Len() int64 {
	return v.rows
}

// Release implements ColumnVector.
func (v *Scalar) Release() {
}

// Array represents a column of data, stored as an [arrow.Array].
type Array struct {
	array arrow.Array
	dt    types.DataType
	rows  int64
}

var _ ColumnVector = (*Array)(nil)

// ToArray implements ColumnVector.
func (a *Array) ToArray() arrow.Array {
	a.array.Retain()
	return a.array
}

// Value implements ColumnVector.
func (a *Array) Value(i int) types.Value {
	if a.array.IsNull(i) || !a.array.IsValid(i) {
		return types.NullValue(a.dt)
	}

	switch arr := a.array.(type) {
	case *array.Boolean:
		return types.BoolValue(arr.Value(i))
	case *array.Int64:
		return types.IntegerValue(arr.Value(i))
	case *array.Float64:
		return types.FloatValue(arr.Value(i))
	case *array.String:
		return types.StringValue(arr.Value(i))
	case *array.Timestamp:
		return types.TimestampValue(int64(arr.Value(i)))
	default:
		return types.NullValue(a.dt)
	}
}

// Type implements ColumnVector.
func (a *Array) Type() types.DataType {
	return a.dt
}

// Len implements ColumnVector.
func (a *Array) Len() int64 {
	return a.rows
}

// Release implements ColumnVector.
func (a *Array) Release() {
	a.array.Release()
}
