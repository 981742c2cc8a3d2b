package types

import (
	"fmt"
	"strings"
)

// DataType denotes the logical type of a scalar value or column.
type DataType uint32

// Recognized values of [DataType].
const (
	Invalid DataType = iota // zero-value is an invalid type

	Bool      // Boolean value
	Integer   // Signed 64bit integer value
	Float     // 64bit floating point value
	String    // String value
	Timestamp // Nanosecond timestamp value
)

var dataTypeStrings = map[DataType]string{
	Invalid: "invalid",

	Bool:      "bool",
	Integer:   "integer",
	Float:     "float",
	String:    "string",
	Timestamp: "timestamp",
}

// String returns the string representation of the data type.
func (t DataType) String() string {
	if s, ok := dataTypeStrings[t]; ok {
		return s
	}
	return fmt.Sprintf("DataType(%d)", t)
}

// IsNumeric reports whether values of the type support arithmetic.
func (t DataType) IsNumeric() bool {
	return t == Integer || t == Float
}

// ParseDataType returns the data type named by s, accepting common SQL
// synonyms. It reports whether the name was recognized.
func ParseDataType(s string) (DataType, bool) {
	switch strings.ToLower(s) {
	case "bool", "boolean":
		return Bool, true
	case "int", "integer", "bigint":
		return Integer, true
	case "float", "double", "real":
		return Float, true
	case "string", "varchar", "text":
		return String, true
	case "timestamp":
		return Timestamp, true
	}
	return Invalid, false
}
