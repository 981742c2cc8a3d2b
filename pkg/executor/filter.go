package executor

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/quiverdb/quiver/pkg/plan"
)

// newFilterPipeline builds a pipeline that drops the rows of its input for
// which the predicate does not evaluate to true. Rows where the predicate
// evaluates to null are dropped as well.
func newFilterPipeline(filter *plan.PhysicalFilter, input Pipeline, evaluator expressionEvaluator) Pipeline {
	return newGenericPipeline(func(ctx context.Context, inputs []Pipeline) (arrow.Record, error) {
		input := inputs[0]
		batch, err := input.Read(ctx)
		if err != nil {
			return nil, err
		}
		defer batch.Release()

		res, err := evaluator.eval(filter.Logical.Predicate, batch)
		if err != nil {
			return nil, err
		}
		defer res.Release()

		data := res.ToArray()
		defer data.Release()

		predicate, ok := data.(*array.Boolean)
		if !ok {
			return nil, fmt.Errorf("predicate returned non-boolean type %s", data.DataType())
		}

		return filterRecord(batch, func(i int) bool {
			return predicate.IsValid(i) && predicate.Value(i)
		})
	}, input)
}

// filterRecord creates a new record containing the rows of batch for which
// include returns true. There is no plumbing in the arrow library to do this
// efficiently, so every column goes through a builder of its type.
func filterRecord(batch arrow.Record, include func(int) bool) (arrow.Record, error) {
	mem := memory.NewGoAllocator()
	fields := batch.Schema().Fields()

	builders := make([]array.Builder, len(fields))
	defer func() {
		for _, b := range builders {
			if b != nil {
				b.Release()
			}
		}
	}()

	additions := make([]func(int), len(fields))

	for i, field := range fields {
		switch field.Type.ID() {
		case arrow.BOOL:
			builder := array.NewBooleanBuilder(mem)
			builders[i] = builder
			additions[i] = func(offset int) {
				src := batch.Column(i).(*array.Boolean)
				if src.IsNull(offset) {
					builder.AppendNull()
					return
				}
				builder.Append(src.Value(offset))
			}

		case arrow.INT64:
			builder := array.NewInt64Builder(mem)
			builders[i] = builder
			additions[i] = func(offset int) {
				src := batch.Column(i).(*array.Int64)
				if src.IsNull(offset) {
					builder.AppendNull()
					return
				}
				builder.Append(src.Value(offset))
			}

		case arrow.FLOAT64:
			builder := array.NewFloat64Builder(mem)
			builders[i] = builder
			additions[i] = func(offset int) {
				src := batch.Column(i).(*array.Float64)
				if src.IsNull(offset) {
					builder.AppendNull()
					return
				}
				builder.Append(src.Value(offset))
			}

		case arrow.STRING:
			builder := array.NewStringBuilder(mem)
			builders[i] = builder
			additions[i] = func(offset int) {
				src := batch.Column(i).(*array.String)
				if src.IsNull(offset) {
					builder.AppendNull()
					return
				}
				builder.Append(src.Value(offset))
			}

		case arrow.TIMESTAMP:
			builder := array.NewTimestampBuilder(mem, &arrow.TimestampType{Unit: arrow.Nanosecond, TimeZone: "UTC"})
			builders[i] = builder
			additions[i] = func(offset int) {
				src := batch.Column(i).(*array.Timestamp)
				if src.IsNull(offset) {
					builder.AppendNull()
					return
				}
				builder.Append(src.Value(offset))
			}

		default:
			return nil, fmt.Errorf("unsupported type in filter: %s", field.Type.Name())
		}
	}

	var rows int64
	for i := 0; i < int(batch.NumRows()); i++ {
		if include(i) {
			for _, add := range additions {
				add(i)
			}
			rows++
		}
	}

	arrays := make([]arrow.Array, len(builders))
	for i, builder := range builders {
		arrays[i] = builder.NewArray()
	}
	defer func() {
		for _, arr := range arrays {
			arr.Release()
		}
	}()

	schema := arrow.NewSchema(fields, nil)
	return array.NewRecord(schema, arrays, rows), nil
}
