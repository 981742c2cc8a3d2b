package executor

import (
	"cmp"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/quiverdb/quiver/pkg/types"
)

var (
	binaryFunctions = binaryFunctionRegistry{funcs: make(map[types.BinaryOp]map[types.DataType]binaryFunc)}
	castFunctions   = castFunctionRegistry{funcs: make(map[types.DataType]map[types.DataType]castFunc)}
)

func init() {
	registerComparisons[int64, *array.Int64](&binaryFunctions, types.Integer)
	registerComparisons[float64, *array.Float64](&binaryFunctions, types.Float)
	registerComparisons[string, *array.String](&binaryFunctions, types.String)
	registerComparisons[arrow.Timestamp, *array.Timestamp](&binaryFunctions, types.Timestamp)

	binaryFunctions.register(types.BinaryOpEq, types.Bool, newBoolFunc[bool, *array.Boolean](func(a, b bool) bool { return a == b }))
	binaryFunctions.register(types.BinaryOpNotEq, types.Bool, newBoolFunc[bool, *array.Boolean](func(a, b bool) bool { return a != b }))
	binaryFunctions.register(types.BinaryOpAnd, types.Bool, newBoolFunc[bool, *array.Boolean](func(a, b bool) bool { return a && b }))
	binaryFunctions.register(types.BinaryOpOr, types.Bool, newBoolFunc[bool, *array.Boolean](func(a, b bool) bool { return a || b }))

	registerArithmetic[int64, *array.Int64](&binaryFunctions, types.Integer)
	registerArithmetic[float64, *array.Float64](&binaryFunctions, types.Float)

	castFunctions.register(types.Integer, types.Float, castFuncImpl(castIntegerToFloat))
	castFunctions.register(types.Float, types.Integer, castFuncImpl(castFloatToInteger))
}

type binaryFunc interface {
	Evaluate(lhs, rhs ColumnVector) (ColumnVector, error)
}

type binaryFuncImpl func(lhs, rhs ColumnVector) (ColumnVector, error)

func (f binaryFuncImpl) Evaluate(lhs, rhs ColumnVector) (ColumnVector, error) {
	return f(lhs, rhs)
}

type binaryFunctionRegistry struct {
	funcs map[types.BinaryOp]map[types.DataType]binaryFunc
}

func (r *binaryFunctionRegistry) register(op types.BinaryOp, ltype types.DataType, fn binaryFunc) {
	if _, ok := r.funcs[op]; !ok {
		r.funcs[op] = make(map[types.DataType]binaryFunc)
	}
	r.funcs[op][ltype] = fn
}

// GetForSignature returns the function implementing the operation for
// operands of the given type.
func (r *binaryFunctionRegistry) GetForSignature(op types.BinaryOp, ltype types.DataType) (binaryFunc, error) {
	fns, ok := r.funcs[op]
	if !ok {
		return nil, fmt.Errorf("no functions registered for operation %s", op)
	}
	fn, ok := fns[ltype]
	if !ok {
		return nil, fmt.Errorf("no function registered for operation %s and type %s", op, ltype)
	}
	return fn, nil
}

// valueArray is the common surface of the typed Arrow array implementations.
type valueArray[T any] interface {
	arrow.Array
	Value(i int) T
}

// valueBuilder is the common surface of the typed Arrow builder implementations.
type valueBuilder[T any] interface {
	array.Builder
	Append(v T)
}

// newBoolFunc builds a binary function that evaluates a predicate over two
// arrays of the same type, producing a boolean vector. Rows where either side
// is null produce a null.
func newBoolFunc[T any, A valueArray[T]](eval func(T, T) bool) binaryFunc {
	return binaryFuncImpl(func(lhs, rhs ColumnVector) (ColumnVector, error) {
		left := lhs.ToArray()
		defer left.Release()
		right := rhs.ToArray()
		defer right.Release()

		la, ok := left.(A)
		if !ok {
			return nil, fmt.Errorf("unexpected array type %T for lhs of type %s", left, lhs.Type())
		}
		ra, ok := right.(A)
		if !ok {
			return nil, fmt.Errorf("unexpected array type %T for rhs of type %s", right, rhs.Type())
		}

		builder := array.NewBooleanBuilder(memory.NewGoAllocator())
		defer builder.Release()

		for i := 0; i < la.Len(); i++ {
			if la.IsNull(i) || ra.IsNull(i) {
				builder.AppendNull()
				continue
			}
			builder.Append(eval(la.Value(i), ra.Value(i)))
		}

		return &Array{array: builder.NewArray(), dt: types.Bool, rows: int64(la.Len())}, nil
	})
}

// newArithmeticFunc builds a binary function that combines two arrays of the
// same numeric type into a third of that type. Rows where either side is null
// produce a null.
func newArithmeticFunc[T int64 | float64, A valueArray[T]](dt types.DataType, eval func(T, T) (T, error)) binaryFunc {
	return binaryFuncImpl(func(lhs, rhs ColumnVector) (ColumnVector, error) {
		left := lhs.ToArray()
		defer left.Release()
		right := rhs.ToArray()
		defer right.Release()

		la, ok := left.(A)
		if !ok {
			return nil, fmt.Errorf("unexpected array type %T for lhs of type %s", left, lhs.Type())
		}
		ra, ok := right.(A)
		if !ok {
			return nil, fmt.Errorf("unexpected array type %T for rhs of type %s", right, rhs.Type())
		}

		builder := array.NewBuilder(memory.NewGoAllocator(), types.ToArrow[dt]).(valueBuilder[T])
		defer builder.Release()

		for i := 0; i < la.Len(); i++ {
			if la.IsNull(i) || ra.IsNull(i) {
				builder.AppendNull()
				continue
			}
			value, err := eval(la.Value(i), ra.Value(i))
			if err != nil {
				return nil, err
			}
			builder.Append(value)
		}

		return &Array{array: builder.NewArray(), dt: dt, rows: int64(la.Len())}, nil
	})
}

func registerComparisons[T cmp.Ordered, A valueArray[T]](r *binaryFunctionRegistry, dt types.DataType) {
	r.register(types.BinaryOpEq, dt, newBoolFunc[T, A](func(a, b T) bool { return a == b }))
	r.register(types.BinaryOpNotEq, dt, newBoolFunc[T, A](func(a, b T) bool { return a != b }))
	r.register(types.BinaryOpGt, dt, newBoolFunc[T, A](func(a, b T) bool { return a > b }))
	r.register(types.BinaryOpGtEq, dt, newBoolFunc[T, A](func(a, b T) bool { return a >= b }))
	r.register(types.BinaryOpLt, dt, newBoolFunc[T, A](func(a, b T) bool { return a < b }))
	r.register(types.BinaryOpLtEq, dt, newBoolFunc[T, A](func(a, b T) bool { return a <= b }))
}

func registerArithmetic[T int64 | float64, A valueArray[T]](r *binaryFunctionRegistry, dt types.DataType) {
	r.register(types.BinaryOpAdd, dt, newArithmeticFunc[T, A](dt, func(a, b T) (T, error) { return a + b, nil }))
	r.register(types.BinaryOpSub, dt, newArithmeticFunc[T, A](dt, func(a, b T) (T, error) { return a - b, nil }))
	r.register(types.BinaryOpMul, dt, newArithmeticFunc[T, A](dt, func(a, b T) (T, error) { return a * b, nil }))
	r.register(types.BinaryOpDiv, dt, newArithmeticFunc[T, A](dt, func(a, b T) (T, error) {
		if b == 0 {
			var zero T
			return zero, errDivisionByZero
		}
		return a / b, nil
	}))
}

type castFunc interface {
	Evaluate(v ColumnVector) (ColumnVector, error)
}

type castFuncImpl func(v ColumnVector) (ColumnVector, error)

func (f castFuncImpl) Evaluate(v ColumnVector) (ColumnVector, error) {
	return f(v)
}

type castFunctionRegistry struct {
	funcs map[types.DataType]map[types.DataType]castFunc
}

func (r *castFunctionRegistry) register(from, to types.DataType, fn castFunc) {
	if _, ok := r.funcs[from]; !ok {
		r.funcs[from] = make(map[types.DataType]castFunc)
	}
	r.funcs[from][to] = fn
}

// GetForSignature returns the function casting values from one type to the other.
func (r *castFunctionRegistry) GetForSignature(from, to types.DataType) (castFunc, error) {
	fns, ok := r.funcs[from]
	if !ok {
		return nil, fmt.Errorf("no cast registered from type %s", from)
	}
	fn, ok := fns[to]
	if !ok {
		return nil, fmt.Errorf("no cast registered from type %s to type %s", from, to)
	}
	return fn, nil
}

func castIntegerToFloat(v ColumnVector) (ColumnVector, error) {
	arr := v.ToArray()
	defer arr.Release()

	src, ok := arr.(*array.Int64)
	if !ok {
		return nil, fmt.Errorf("unexpected array type %T for cast input of type %s", arr, v.Type())
	}

	builder := array.NewFloat64Builder(memory.NewGoAllocator())
	defer builder.Release()

	for i := 0; i < src.Len(); i++ {
		if src.IsNull(i) {
			builder.AppendNull()
			continue
		}
		builder.Append(float64(src.Value(i)))
	}

	return &Array{array: builder.NewArray(), dt: types.Float, rows: int64(src.Len())}, nil
}

// castFloatToInteger truncates the fractional part toward zero.
func castFloatToInteger(v ColumnVector) (ColumnVector, error) {
	arr := v.ToArray()
	defer arr.Release()

	src, ok := arr.(*array.Float64)
	if !ok {
		return nil, fmt.Errorf("unexpected array type %T for cast input of type %s", arr, v.Type())
	}

	builder := array.NewInt64Builder(memory.NewGoAllocator())
	defer builder.Release()

	for i := 0; i < src.Len(); i++ {
		if src.IsNull(i) {
			builder.AppendNull()
			continue
		}
		builder.Append(int64(src.Value(i)))
	}

	return &Array{array: builder.NewArray(), dt: types.Integer, rows: int64(src.Len())}, nil
}
