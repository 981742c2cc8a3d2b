package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/quiverdb/quiver/pkg/binder"
	"github.com/quiverdb/quiver/pkg/plan"
	"github.com/quiverdb/quiver/pkg/types"
)

// newAggregatePipeline builds a pipeline that folds its whole input into a
// single record of aggregated values.
func newAggregatePipeline(agg *plan.PhysicalSimpleAgg, input Pipeline, evaluator expressionEvaluator) (Pipeline, error) {
	if len(agg.Logical.GroupBy) > 0 {
		return nil, fmt.Errorf("%w: aggregation with GROUP BY", ErrNotImplemented)
	}

	calls := make([]*binder.AggCall, len(agg.Logical.Aggs))
	accumulators := make([]Accumulator, len(agg.Logical.Aggs))
	for i, expr := range agg.Logical.Aggs {
		call, ok := expr.(*binder.AggCall)
		if !ok {
			return nil, fmt.Errorf("aggregation expression %d is not an aggregate call: %s", i, expr)
		}
		acc, err := newAccumulator(call)
		if err != nil {
			return nil, err
		}
		calls[i] = call
		accumulators[i] = acc
	}

	columns := agg.Schema()
	fields := make([]arrow.Field, len(columns))
	for i, col := range columns {
		fields[i] = arrow.Field{Name: col.Name, Type: types.ToArrow[col.Type], Nullable: true}
	}

	return &aggregatePipeline{
		input:        input,
		evaluator:    evaluator,
		calls:        calls,
		accumulators: accumulators,
		schema:       arrow.NewSchema(fields, nil),
	}, nil
}

type aggregatePipeline struct {
	input        Pipeline
	evaluator    expressionEvaluator
	calls        []*binder.AggCall
	accumulators []Accumulator
	schema       *arrow.Schema
	done         bool
}

var _ Pipeline = (*aggregatePipeline)(nil)

// Read implements Pipeline. The first read drains the input and returns one
// record holding the aggregated values; subsequent reads return EOF.
func (p *aggregatePipeline) Read(ctx context.Context) (arrow.Record, error) {
	if p.done {
		return nil, EOF
	}

	for {
		batch, err := p.input.Read(ctx)
		if errors.Is(err, EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		err = p.update(batch)
		batch.Release()
		if err != nil {
			return nil, err
		}
	}

	p.done = true
	return p.buildRecord()
}

func (p *aggregatePipeline) update(batch arrow.Record) error {
	for i, call := range p.calls {
		vec, err := p.evaluator.eval(call.Args[0], batch)
		if err != nil {
			return err
		}
		arr := vec.ToArray()
		vec.Release()

		err = p.accumulators[i].UpdateBatch(arr)
		arr.Release()
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *aggregatePipeline) buildRecord() (arrow.Record, error) {
	rb := array.NewRecordBuilder(memory.NewGoAllocator(), p.schema)
	defer rb.Release()

	for i, acc := range p.accumulators {
		value := acc.Evaluate()
		if value.IsNull() {
			rb.Field(i).AppendNull()
			continue
		}
		switch builder := rb.Field(i).(type) {
		case *array.Int64Builder:
			builder.Append(value.Int64())
		case *array.Float64Builder:
			builder.Append(value.Float64())
		default:
			return nil, fmt.Errorf("unsupported aggregate output type %s", p.schema.Field(i).Type)
		}
	}

	return rb.NewRecord(), nil
}

// Close implements Pipeline.
func (p *aggregatePipeline) Close() {
	p.input.Close()
}
