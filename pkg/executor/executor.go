// Package executor compiles physical plans into pipelines that stream
// query results as Arrow record batches.
package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go.opentelemetry.io/otel"

	"github.com/quiverdb/quiver/pkg/plan"
)

var tracer = otel.Tracer("pkg/executor")

// Scanner supplies the stored batches of a table. It is implemented by the
// storage layer.
type Scanner interface {
	// Scan returns a reader over the batches of the named table. Every call
	// starts over at the first row. The caller releases the reader.
	Scan(ctx context.Context, table string) (array.RecordReader, error)
}

// Config holds the configuration of the executor.
type Config struct {
	// BatchSize caps the number of rows per record emitted by table scans.
	// Zero or negative passes stored batches through whole.
	BatchSize int64
	Scanner   Scanner
}

// Run compiles a physical plan into a pipeline that streams the results of
// the query. Compilation is bottom-up, and a plan that cannot be executed is
// rejected before any data is read. The returned pipeline must be closed by
// the caller.
func Run(ctx context.Context, cfg Config, node plan.Node, logger log.Logger) (Pipeline, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	c := &Context{
		batchSize: cfg.BatchSize,
		scanner:   cfg.Scanner,
		logger:    logger,
		evaluator: expressionEvaluator{},
	}
	if node == nil {
		return nil, errors.New("plan is nil")
	}
	return c.execute(ctx, node)
}

// Context carries the dependencies of pipeline construction.
type Context struct {
	batchSize int64
	logger    log.Logger
	scanner   Scanner
	evaluator expressionEvaluator
}

func (c *Context) execute(ctx context.Context, node plan.Node) (Pipeline, error) {
	children := node.Children()
	inputs := make([]Pipeline, 0, len(children))
	for _, child := range children {
		input, err := c.execute(ctx, child)
		if err != nil {
			closeAll(inputs)
			return nil, err
		}
		inputs = append(inputs, input)
	}

	pipeline, err := c.executeNode(ctx, node, inputs)
	if err != nil {
		closeAll(inputs)
		return nil, err
	}
	return pipeline, nil
}

func (c *Context) executeNode(ctx context.Context, node plan.Node, inputs []Pipeline) (Pipeline, error) {
	level.Debug(c.logger).Log("msg", "build pipeline", "node", node.String())

	switch n := node.(type) {
	case *plan.PhysicalTableScan:
		p, err := c.executeTableScan(ctx, n, inputs)
		if err != nil {
			return nil, err
		}
		return tracePipeline("plan.PhysicalTableScan", p), nil

	case *plan.PhysicalFilter:
		p, err := c.executeFilter(ctx, n, inputs)
		if err != nil {
			return nil, err
		}
		return tracePipeline("plan.PhysicalFilter", p), nil

	case *plan.PhysicalProject:
		p, err := c.executeProject(ctx, n, inputs)
		if err != nil {
			return nil, err
		}
		return tracePipeline("plan.PhysicalProject", p), nil

	case *plan.PhysicalSimpleAgg:
		p, err := c.executeSimpleAgg(ctx, n, inputs)
		if err != nil {
			return nil, err
		}
		return tracePipeline("plan.PhysicalSimpleAgg", p), nil

	default:
		return nil, fmt.Errorf("invalid node type: %T", node)
	}
}

func (c *Context) executeTableScan(_ context.Context, node *plan.PhysicalTableScan, inputs []Pipeline) (Pipeline, error) {
	if len(inputs) != 0 {
		return nil, fmt.Errorf("table scan expects no inputs, got %d", len(inputs))
	}
	if c.scanner == nil {
		return nil, errors.New("no scanner configured")
	}
	return newScanPipeline(c.scanner, node.Logical.Table, c.batchSize), nil
}

func (c *Context) executeFilter(_ context.Context, node *plan.PhysicalFilter, inputs []Pipeline) (Pipeline, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("filter expects exactly one input, got %d", len(inputs))
	}
	return newFilterPipeline(node, inputs[0], c.evaluator), nil
}

func (c *Context) executeProject(_ context.Context, node *plan.PhysicalProject, inputs []Pipeline) (Pipeline, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("projection expects exactly one input, got %d", len(inputs))
	}
	return newProjectPipeline(node, inputs[0], c.evaluator), nil
}

func (c *Context) executeSimpleAgg(_ context.Context, node *plan.PhysicalSimpleAgg, inputs []Pipeline) (Pipeline, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("aggregation expects exactly one input, got %d", len(inputs))
	}
	return newAggregatePipeline(node, inputs[0], c.evaluator)
}

func closeAll(pipelines []Pipeline) {
	for _, p := range pipelines {
		p.Close()
	}
}
