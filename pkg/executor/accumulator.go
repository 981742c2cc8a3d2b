package executor

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/quiverdb/quiver/pkg/binder"
	"github.com/quiverdb/quiver/pkg/types"
)

// Accumulator folds columns of input values into a single aggregated value.
type Accumulator interface {
	// UpdateBatch folds one column of values into the accumulator. Null
	// values are ignored.
	UpdateBatch(arr arrow.Array) error
	// Evaluate returns the aggregated value. It returns a null value when no
	// rows have been accumulated.
	Evaluate() types.Value
}

// newAccumulator creates the accumulator for an aggregate call. Aggregations
// without an accumulator implementation are rejected here, before any data
// is read.
func newAccumulator(call *binder.AggCall) (Accumulator, error) {
	switch call.Func {
	case types.AggFuncSum:
		switch call.Type {
		case types.Integer, types.Float:
			return &sumAccumulator{dt: call.Type}, nil
		default:
			return nil, fmt.Errorf("sum over values of type %s is not supported", call.Type)
		}
	case types.AggFuncCount, types.AggFuncMin, types.AggFuncMax:
		return nil, fmt.Errorf("%w: %s accumulator", ErrNotImplemented, call.Func)
	default:
		return nil, fmt.Errorf("unknown aggregate function %s", call.Func)
	}
}

type sumAccumulator struct {
	dt       types.DataType
	intSum   int64
	floatSum float64
	seen     bool
}

var _ Accumulator = (*sumAccumulator)(nil)

// UpdateBatch implements Accumulator.
func (a *sumAccumulator) UpdateBatch(arr arrow.Array) error {
	switch arr := arr.(type) {
	case *array.Int64:
		for i := 0; i < arr.Len(); i++ {
			if arr.IsNull(i) {
				continue
			}
			a.intSum += arr.Value(i)
			a.seen = true
		}
	case *array.Float64:
		for i := 0; i < arr.Len(); i++ {
			if arr.IsNull(i) {
				continue
			}
			a.floatSum += arr.Value(i)
			a.seen = true
		}
	default:
		return fmt.Errorf("sum does not support input of type %s", arr.DataType())
	}
	return nil
}

// Evaluate implements Accumulator.
func (a *sumAccumulator) Evaluate() types.Value {
	if !a.seen {
		return types.NullValue(a.dt)
	}
	if a.dt == types.Float {
		return types.FloatValue(a.floatSum)
	}
	return types.IntegerValue(a.intSum)
}
