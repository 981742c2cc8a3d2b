package types

import "github.com/apache/arrow-go/v18/arrow"

var (
	// Arrow holds the Arrow type used to represent each data type.
	Arrow = struct {
		Bool      arrow.DataType
		Integer   arrow.DataType
		Float     arrow.DataType
		String    arrow.DataType
		Timestamp arrow.DataType
	}{
		Bool:      arrow.FixedWidthTypes.Boolean,
		Integer:   arrow.PrimitiveTypes.Int64,
		Float:     arrow.PrimitiveTypes.Float64,
		String:    arrow.BinaryTypes.String,
		Timestamp: arrow.FixedWidthTypes.Timestamp_ns,
	}

	// ToArrow maps data types to their Arrow representation.
	ToArrow = map[DataType]arrow.DataType{
		Bool:      Arrow.Bool,
		Integer:   Arrow.Integer,
		Float:     Arrow.Float,
		String:    Arrow.String,
		Timestamp: Arrow.Timestamp,
	}
)

// FromArrow returns the data type represented by the given Arrow type,
// matching by type ID.
func FromArrow(dt arrow.DataType) DataType {
	switch dt.ID() {
	case arrow.BOOL:
		return Bool
	case arrow.INT64:
		return Integer
	case arrow.FLOAT64:
		return Float
	case arrow.STRING:
		return String
	case arrow.TIMESTAMP:
		return Timestamp
	default:
		return Invalid
	}
}
