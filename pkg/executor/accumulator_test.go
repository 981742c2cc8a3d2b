package executor

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"

	"github.com/quiverdb/quiver/pkg/binder"
	"github.com/quiverdb/quiver/pkg/types"
)

func int64Array(t *testing.T, values ...any) arrow.Array {
	t.Helper()
	builder := array.NewInt64Builder(memory.NewGoAllocator())
	defer builder.Release()
	for _, v := range values {
		if v == nil {
			builder.AppendNull()
			continue
		}
		builder.Append(int64(v.(int)))
	}
	return builder.NewArray()
}

func TestNewAccumulator(t *testing.T) {
	aggCall := func(fn types.AggFunc, dt types.DataType) *binder.AggCall {
		return &binder.AggCall{Func: fn, Args: []binder.Expr{&binder.InputRef{Index: 0, Type: dt}}, Type: dt}
	}

	t.Run("sum", func(t *testing.T) {
		for _, dt := range []types.DataType{types.Integer, types.Float} {
			acc, err := newAccumulator(aggCall(types.AggFuncSum, dt))
			require.NoError(t, err)
			require.NotNil(t, acc)
		}
	})

	t.Run("sum over non-numeric type", func(t *testing.T) {
		_, err := newAccumulator(aggCall(types.AggFuncSum, types.String))
		require.ErrorContains(t, err, "sum over values of type string is not supported")
	})

	t.Run("unimplemented functions", func(t *testing.T) {
		for _, fn := range []types.AggFunc{types.AggFuncCount, types.AggFuncMin, types.AggFuncMax} {
			_, err := newAccumulator(aggCall(fn, types.Integer))
			require.ErrorIs(t, err, ErrNotImplemented)
			require.ErrorContains(t, err, fn.String()+" accumulator")
		}
	})
}

func TestSumAccumulator(t *testing.T) {
	t.Run("accumulates across batches", func(t *testing.T) {
		acc := &sumAccumulator{dt: types.Integer}

		first := int64Array(t, 100, 100)
		defer first.Release()
		second := int64Array(t, 200, 400)
		defer second.Release()

		require.NoError(t, acc.UpdateBatch(first))
		require.NoError(t, acc.UpdateBatch(second))
		require.Equal(t, types.IntegerValue(800), acc.Evaluate())
	})

	t.Run("ignores nulls", func(t *testing.T) {
		acc := &sumAccumulator{dt: types.Integer}

		arr := int64Array(t, 100, nil, 200)
		defer arr.Release()

		require.NoError(t, acc.UpdateBatch(arr))
		require.Equal(t, types.IntegerValue(300), acc.Evaluate())
	})

	t.Run("no rows evaluates to null", func(t *testing.T) {
		acc := &sumAccumulator{dt: types.Integer}
		require.Equal(t, types.NullValue(types.Integer), acc.Evaluate())

		arr := int64Array(t, nil, nil)
		defer arr.Release()

		require.NoError(t, acc.UpdateBatch(arr))
		require.Equal(t, types.NullValue(types.Integer), acc.Evaluate())
	})

	t.Run("floats", func(t *testing.T) {
		acc := &sumAccumulator{dt: types.Float}

		builder := array.NewFloat64Builder(memory.NewGoAllocator())
		builder.AppendValues([]float64{1.5, 2.25}, nil)
		arr := builder.NewArray()
		builder.Release()
		defer arr.Release()

		require.NoError(t, acc.UpdateBatch(arr))
		require.Equal(t, types.FloatValue(3.75), acc.Evaluate())
	})

	t.Run("unsupported input type", func(t *testing.T) {
		acc := &sumAccumulator{dt: types.Integer}

		builder := array.NewStringBuilder(memory.NewGoAllocator())
		builder.Append("nope")
		arr := builder.NewArray()
		builder.Release()
		defer arr.Release()

		require.ErrorContains(t, acc.UpdateBatch(arr), "sum does not support input of type")
	})
}
