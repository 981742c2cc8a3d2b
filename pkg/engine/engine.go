// Package engine ties the query compilation stages together: it parses,
// binds, plans, and rewrites a SQL query, then executes the resulting
// physical plan against registered storage.
package engine

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/quiverdb/quiver/pkg/binder"
	"github.com/quiverdb/quiver/pkg/executor"
	"github.com/quiverdb/quiver/pkg/parser"
	"github.com/quiverdb/quiver/pkg/plan"
	"github.com/quiverdb/quiver/pkg/planner"
	"github.com/quiverdb/quiver/pkg/storage"
	"github.com/quiverdb/quiver/pkg/util/pretty"
)

var tracer = otel.Tracer("pkg/engine")

// Config configures the query engine.
type Config struct {
	// BatchSize caps the number of rows per record batch produced by table
	// scans. Zero disables re-batching, passing stored batches through whole.
	BatchSize int64 `yaml:"batch_size"`
}

// RegisterFlags registers the flags of the engine configuration.
func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	f.Int64Var(&cfg.BatchSize, "engine.batch-size", 1024, "Maximum number of rows per record batch produced by table scans. 0 disables re-batching.")
}

// Params holds parameters for constructing a new [Engine].
type Params struct {
	Logger     log.Logger            // Logger for optional log messages.
	Registerer prometheus.Registerer // Registerer for optional metrics.

	Config  Config          // Config for the engine.
	Storage storage.Storage // Storage to resolve and read tables from.
}

// validate validates p and applies defaults.
func (p *Params) validate() error {
	if p.Logger == nil {
		p.Logger = log.NewNopLogger()
	}
	if p.Registerer == nil {
		p.Registerer = prometheus.NewRegistry()
	}
	if p.Storage == nil {
		return errors.New("storage is required")
	}
	if p.Config.BatchSize < 0 {
		return fmt.Errorf("invalid batch size, must not be negative, got %d", p.Config.BatchSize)
	}
	return nil
}

// Engine executes SQL queries against registered storage.
type Engine struct {
	logger  log.Logger
	metrics *metrics

	storage   storage.Storage
	binder    *binder.Binder
	batchSize int64
}

// New creates a new Engine.
func New(params Params) (*Engine, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	return &Engine{
		logger:  params.Logger,
		metrics: newMetrics(params.Registerer),

		storage:   params.Storage,
		binder:    binder.New(params.Storage.Catalog()),
		batchSize: params.Config.BatchSize,
	}, nil
}

// Result holds the records produced by a query. The caller releases it when
// done.
type Result struct {
	Records []arrow.Record
	Rows    int64
}

// Release releases the records held by the result.
func (r *Result) Release() {
	for _, rec := range r.Records {
		rec.Release()
	}
	r.Records = nil
}

// String renders the result as an aligned text table.
func (r *Result) String() string {
	return pretty.Format(r.Records)
}

// Query compiles and executes a SQL query, returning all produced records.
func (e *Engine) Query(ctx context.Context, query string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "Engine.Query", trace.WithAttributes(
		attribute.String("query", query),
	))
	defer span.End()

	start := time.Now()
	logger := log.With(e.logger, "query", query)
	level.Debug(logger).Log("msg", "starting query")

	compiled, durPlanning, err := e.compile(logger, query)
	if err != nil {
		return nil, e.observeError(span, err)
	}

	result, durExecution, err := e.run(ctx, logger, compiled.physical)
	if err != nil {
		return nil, e.observeError(span, err)
	}

	e.metrics.queries.WithLabelValues(statusSuccess).Inc()
	e.metrics.rowsProduced.Add(float64(result.Rows))
	span.SetStatus(codes.Ok, "")

	level.Info(logger).Log(
		"msg", "finished executing",
		"rows", result.Rows,
		"duration_planning", durPlanning,
		"duration_execution", durExecution,
		"duration_full", time.Since(start),
	)
	return result, nil
}

// Explain compiles the query and returns a rendering of its logical and
// physical plans without executing it.
func (e *Engine) Explain(ctx context.Context, query string) (string, error) {
	_, span := tracer.Start(ctx, "Engine.Explain", trace.WithAttributes(
		attribute.String("query", query),
	))
	defer span.End()

	compiled, _, err := e.compile(e.logger, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetStatus(codes.Ok, "")

	var sb strings.Builder
	sb.WriteString("Logical plan:\n")
	sb.WriteString(plan.Format(compiled.logical))
	sb.WriteString("\nPhysical plan:\n")
	sb.WriteString(plan.Format(compiled.physical))
	return sb.String(), nil
}

type compiledQuery struct {
	logical  plan.Node
	physical plan.Node
}

// compile runs the synchronous compilation stages: parse, bind, plan, and
// the two plan rewrites.
func (e *Engine) compile(logger log.Logger, query string) (compiledQuery, time.Duration, error) {
	timer := prometheus.NewTimer(e.metrics.planning)

	stmt, err := parser.Parse(query)
	if err != nil {
		return compiledQuery{}, 0, fmt.Errorf("parsing query: %w", err)
	}

	bound, err := e.binder.Bind(stmt)
	if err != nil {
		return compiledQuery{}, 0, fmt.Errorf("binding query: %w", err)
	}

	logical := planner.Plan(bound)

	resolved, err := plan.Rewrite(plan.NewInputRefRewriter(), logical)
	if err != nil {
		return compiledQuery{}, 0, fmt.Errorf("resolving input references: %w", err)
	}

	physical, err := plan.Rewrite(plan.NewPhysicalRewriter(), resolved)
	if err != nil {
		return compiledQuery{}, 0, fmt.Errorf("building physical plan: %w", err)
	}

	duration := timer.ObserveDuration()
	level.Debug(logger).Log(
		"msg", "finished planning",
		"plan", plan.Format(physical),
		"duration", duration.String(),
	)
	return compiledQuery{logical: logical, physical: physical}, duration, nil
}

// run compiles the physical plan into a pipeline and drains it.
func (e *Engine) run(ctx context.Context, logger log.Logger, node plan.Node) (*Result, time.Duration, error) {
	timer := prometheus.NewTimer(e.metrics.execution)

	cfg := executor.Config{BatchSize: e.batchSize, Scanner: e.storage}
	pipeline, err := executor.Run(ctx, cfg, node, logger)
	if err != nil {
		return nil, 0, fmt.Errorf("compiling pipeline: %w", err)
	}
	defer pipeline.Close()

	records, err := executor.Collect(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("executing query: %w", err)
	}

	result := &Result{Records: records}
	for _, rec := range records {
		result.Rows += rec.NumRows()
	}

	return result, timer.ObserveDuration(), nil
}

func (e *Engine) observeError(span trace.Span, err error) error {
	e.metrics.queries.WithLabelValues(statusFor(err)).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// statusFor maps an error to the status label of the query counter.
func statusFor(err error) string {
	if errors.Is(err, binder.ErrNotImplemented) || errors.Is(err, executor.ErrNotImplemented) {
		return statusNotImplemented
	}
	return statusFailure
}
