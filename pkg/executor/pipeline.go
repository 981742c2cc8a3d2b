package executor

import (
	"context"
	"errors"

	"github.com/apache/arrow-go/v18/arrow"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// EOF is returned by [Pipeline.Read] when the pipeline is exhausted.
var EOF = errors.New("pipeline exhausted") //nolint:revive,staticcheck

// Pipeline is a streaming iterator over [arrow.Record] batches. Pipelines
// are stacked on top of each other to form the execution side of a query
// plan, with each pipeline pulling batches from its inputs on demand.
type Pipeline interface {
	// Read reads the next record batch from the pipeline. It returns EOF
	// once the pipeline is exhausted. Ownership of the returned record
	// moves to the caller, who must release it.
	Read(context.Context) (arrow.Record, error)
	// Close closes the pipeline and releases all held resources. Inputs of
	// the pipeline are closed as well.
	Close()
}

type readFunc func(context.Context, []Pipeline) (arrow.Record, error)

// GenericPipeline implements [Pipeline] by delegating every read to a
// function. It is the building block for stateless operators.
type GenericPipeline struct {
	inputs []Pipeline
	read   readFunc
}

var _ Pipeline = (*GenericPipeline)(nil)

func newGenericPipeline(read readFunc, inputs ...Pipeline) *GenericPipeline {
	return &GenericPipeline{
		inputs: inputs,
		read:   read,
	}
}

// Read implements Pipeline.
func (p *GenericPipeline) Read(ctx context.Context) (arrow.Record, error) {
	if p.read == nil {
		return nil, EOF
	}
	return p.read(ctx, p.inputs)
}

// Close implements Pipeline.
func (p *GenericPipeline) Close() {
	for _, input := range p.inputs {
		input.Close()
	}
}

// tracedPipeline wraps a pipeline and emits a tracing span for every read.
type tracedPipeline struct {
	name  string
	inner Pipeline
}

func tracePipeline(name string, p Pipeline) *tracedPipeline {
	return &tracedPipeline{
		name:  name,
		inner: p,
	}
}

var _ Pipeline = (*tracedPipeline)(nil)

// Read implements Pipeline.
func (t *tracedPipeline) Read(ctx context.Context) (arrow.Record, error) {
	ctx, span := tracer.Start(ctx, t.name+".Read")
	defer span.End()

	rec, err := t.inner.Read(ctx)
	if err != nil && !errors.Is(err, EOF) {
		var opErr *Error
		if !errors.As(err, &opErr) {
			err = &Error{Op: t.name, Err: err}
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return rec, err
	}
	if rec != nil {
		span.SetAttributes(attribute.Int64("rows", rec.NumRows()))
	}
	span.SetStatus(codes.Ok, "")
	return rec, err
}

// Close implements Pipeline.
func (t *tracedPipeline) Close() {
	t.inner.Close()
}
