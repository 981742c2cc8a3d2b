package types

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/require"
)

func TestFromArrowRoundTrip(t *testing.T) {
	for dt, at := range ToArrow {
		require.Equal(t, dt, FromArrow(at), "arrow type %s", at)
	}
}

func TestFromArrowUnknown(t *testing.T) {
	require.Equal(t, Invalid, FromArrow(arrow.PrimitiveTypes.Int32))
}

func TestParseDataType(t *testing.T) {
	for _, tt := range []struct {
		name string
		want DataType
		ok   bool
	}{
		{"integer", Integer, true},
		{"BIGINT", Integer, true},
		{"double", Float, true},
		{"text", String, true},
		{"BOOLEAN", Bool, true},
		{"timestamp", Timestamp, true},
		{"uuid", Invalid, false},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDataType(tt.name)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestValueString(t *testing.T) {
	require.Equal(t, "42", IntegerValue(42).String())
	require.Equal(t, `"bob"`, StringValue("bob").String())
	require.Equal(t, "NULL", NullValue(Integer).String())
	require.Equal(t, "true", BoolValue(true).String())
	require.Equal(t, "2.5", FloatValue(2.5).String())
}

func TestValueComparable(t *testing.T) {
	require.True(t, IntegerValue(1) == IntegerValue(1))
	require.False(t, IntegerValue(1) == IntegerValue(2))
	require.False(t, IntegerValue(1) == FloatValue(1))
	require.False(t, NullValue(Integer) == IntegerValue(0))
}
