package executor

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/quiverdb/quiver/pkg/binder"
)

type expressionEvaluator struct{}

func (e expressionEvaluator) eval(expr binder.Expr, input arrow.Record) (ColumnVector, error) {
	switch expr := expr.(type) {

	case *binder.Constant:
		return &Scalar{
			value: expr.Value,
			rows:  input.NumRows(),
		}, nil

	case *binder.InputRef:
		if expr.Index < 0 || expr.Index >= int(input.NumCols()) {
			return nil, fmt.Errorf("input reference %d out of range for record with %d columns", expr.Index, input.NumCols())
		}
		arr := input.Column(expr.Index)
		arr.Retain()
		return &Array{
			array: arr,
			dt:    expr.Type,
			rows:  input.NumRows(),
		}, nil

	case *binder.ColumnRef:
		// Column references are resolved into input references before a plan
		// reaches the executor.
		return nil, fmt.Errorf("unresolved column reference %s", expr.Column.Name)

	case *binder.BinaryOp:
		lhs, err := e.eval(expr.Left, input)
		if err != nil {
			return nil, err
		}
		defer lhs.Release()

		rhs, err := e.eval(expr.Right, input)
		if err != nil {
			return nil, err
		}
		defer rhs.Release()

		if lhs.Type() != rhs.Type() {
			return nil, fmt.Errorf("failed to lookup binary function for signature %s(%s, %s): types do not match", expr.Op, lhs.Type(), rhs.Type())
		}

		fn, err := binaryFunctions.GetForSignature(expr.Op, lhs.Type())
		if err != nil {
			return nil, fmt.Errorf("failed to lookup binary function for signature %s(%s, %s): %w", expr.Op, lhs.Type(), rhs.Type(), err)
		}
		return fn.Evaluate(lhs, rhs)

	case *binder.TypeCast:
		inner, err := e.eval(expr.Expr, input)
		if err != nil {
			return nil, err
		}
		if inner.Type() == expr.Type {
			return inner, nil
		}
		defer inner.Release()

		fn, err := castFunctions.GetForSignature(inner.Type(), expr.Type)
		if err != nil {
			return nil, fmt.Errorf("failed to lookup cast function: %w", err)
		}
		return fn.Evaluate(inner)

	case *binder.AggCall:
		return nil, fmt.Errorf("aggregate %s cannot be evaluated as a row expression", expr.Func)
	}

	return nil, fmt.Errorf("unknown expression: %v", expr)
}
