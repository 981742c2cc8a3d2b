package executor

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/quiverdb/quiver/pkg/plan"
	"github.com/quiverdb/quiver/pkg/types"
)

// newProjectPipeline builds a pipeline that evaluates one expression per
// output column against each input batch.
func newProjectPipeline(proj *plan.PhysicalProject, input Pipeline, evaluator expressionEvaluator) Pipeline {
	columns := proj.Schema()
	fields := make([]arrow.Field, len(columns))
	for i, col := range columns {
		fields[i] = arrow.Field{Name: col.Name, Type: types.ToArrow[col.Type], Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	return newGenericPipeline(func(ctx context.Context, inputs []Pipeline) (arrow.Record, error) {
		input := inputs[0]
		batch, err := input.Read(ctx)
		if err != nil {
			return nil, err
		}
		defer batch.Release()

		arrays := make([]arrow.Array, 0, len(proj.Logical.Exprs))
		defer func() {
			for _, arr := range arrays {
				arr.Release()
			}
		}()

		for _, expr := range proj.Logical.Exprs {
			vec, err := evaluator.eval(expr, batch)
			if err != nil {
				return nil, err
			}
			arr := vec.ToArray()
			vec.Release()
			arrays = append(arrays, arr)
		}

		return array.NewRecord(schema, arrays, batch.NumRows()), nil
	}, input)
}
