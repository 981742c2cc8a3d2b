package plan

import (
	"errors"
	"fmt"

	"github.com/quiverdb/quiver/pkg/binder"
)

// ErrUnresolved indicates an expression that matches no input binding and
// cannot be decomposed any further. It marks a gap between the plan and the
// bindings it was built against, never bad user input.
var ErrUnresolved = errors.New("unresolvable expression")

// InputRefRewriter replaces every column reference in a plan with a
// positional input reference valid against the referencing operator's input
// layout. After the pass, expression evaluation needs only positional array
// lookups.
//
// The pass threads a binding list bottom-up: each node resolves its own
// expressions against the bindings describing its child's output rows, then
// hands its parent the bindings describing its own.
type InputRefRewriter struct{}

var _ Rewriter = (*InputRefRewriter)(nil)

// NewInputRefRewriter creates the input reference resolution pass.
func NewInputRefRewriter() *InputRefRewriter {
	return &InputRefRewriter{}
}

// RewriteTableScan resolves the subtree rooted at n.
func (r *InputRefRewriter) RewriteTableScan(n *LogicalTableScan) (Node, error) {
	node, _, err := r.resolveTableScan(n)
	return node, err
}

// RewriteFilter resolves the subtree rooted at n.
func (r *InputRefRewriter) RewriteFilter(n *LogicalFilter) (Node, error) {
	node, _, err := r.resolveFilter(n)
	return node, err
}

// RewriteProject resolves the subtree rooted at n.
func (r *InputRefRewriter) RewriteProject(n *LogicalProject) (Node, error) {
	node, _, err := r.resolveProject(n)
	return node, err
}

// RewriteSimpleAgg resolves the subtree rooted at n.
func (r *InputRefRewriter) RewriteSimpleAgg(n *LogicalSimpleAgg) (Node, error) {
	node, _, err := r.resolveSimpleAgg(n)
	return node, err
}

// resolve rewrites node and returns it together with the bindings describing
// its output rows.
func (r *InputRefRewriter) resolve(node Node) (Node, []binder.Expr, error) {
	switch n := node.(type) {
	case *LogicalTableScan:
		return r.resolveTableScan(n)
	case *LogicalFilter:
		return r.resolveFilter(n)
	case *LogicalProject:
		return r.resolveProject(n)
	case *LogicalSimpleAgg:
		return r.resolveSimpleAgg(n)
	default:
		return nil, nil, fmt.Errorf("no rewrite rule for node type %T", node)
	}
}

// resolveChild resolves the single input of n.
func (r *InputRefRewriter) resolveChild(n Node) (Node, []binder.Expr, error) {
	children := n.Children()
	if len(children) != 1 {
		return nil, nil, fmt.Errorf("%T expects exactly one input, got %d", n, len(children))
	}
	return r.resolve(children[0])
}

// resolveTableScan binds a row to one column reference per scanned column,
// in output order. The scan itself has no expressions to rewrite.
func (r *InputRefRewriter) resolveTableScan(n *LogicalTableScan) (Node, []binder.Expr, error) {
	bindings := make([]binder.Expr, len(n.Columns))
	for i, col := range n.Columns {
		bindings[i] = &binder.ColumnRef{Column: col}
	}
	return n, bindings, nil
}

// resolveFilter rewrites the predicate against the input's bindings. A
// filter does not change the row shape, so the bindings pass through.
func (r *InputRefRewriter) resolveFilter(n *LogicalFilter) (Node, []binder.Expr, error) {
	child, bindings, err := r.resolveChild(n)
	if err != nil {
		return nil, nil, err
	}
	predicate, err := resolveExpr(n.Predicate, bindings)
	if err != nil {
		return nil, nil, err
	}
	return NewLogicalFilter(predicate, child), bindings, nil
}

// resolveProject rewrites the output expressions against the input's
// bindings. A parent addresses this node's output rows by the original
// expressions, so those become the new bindings.
func (r *InputRefRewriter) resolveProject(n *LogicalProject) (Node, []binder.Expr, error) {
	child, bindings, err := r.resolveChild(n)
	if err != nil {
		return nil, nil, err
	}
	exprs := make([]binder.Expr, len(n.Exprs))
	for i, expr := range n.Exprs {
		if exprs[i], err = resolveExpr(expr, bindings); err != nil {
			return nil, nil, err
		}
	}
	return NewLogicalProject(exprs, child), n.Exprs, nil
}

// resolveSimpleAgg rewrites the aggregate and group-by expressions against
// the input's bindings. A parent addresses this node's output rows as the
// original group-by expressions followed by the original aggregate
// expressions, which fixes the aggregate operator's output column order.
func (r *InputRefRewriter) resolveSimpleAgg(n *LogicalSimpleAgg) (Node, []binder.Expr, error) {
	child, input, err := r.resolveChild(n)
	if err != nil {
		return nil, nil, err
	}

	bindings := make([]binder.Expr, 0, len(n.GroupBy)+len(n.Aggs))
	bindings = append(bindings, n.GroupBy...)
	bindings = append(bindings, n.Aggs...)

	aggs := make([]binder.Expr, len(n.Aggs))
	for i, expr := range n.Aggs {
		if aggs[i], err = resolveExpr(expr, input); err != nil {
			return nil, nil, err
		}
	}
	groupBy := make([]binder.Expr, len(n.GroupBy))
	for i, expr := range n.GroupBy {
		if groupBy[i], err = resolveExpr(expr, input); err != nil {
			return nil, nil, err
		}
	}

	return NewLogicalSimpleAgg(groupBy, aggs, child), bindings, nil
}

// inputRefResolver rewrites expressions against a fixed binding list.
type inputRefResolver struct {
	NoopExprRewriter

	bindings []binder.Expr
}

var _ ExprRewriter = (*inputRefResolver)(nil)

// resolveExpr rewrites expr against bindings. Constants and already resolved
// references pass through unchanged.
func resolveExpr(expr binder.Expr, bindings []binder.Expr) (binder.Expr, error) {
	return RewriteExpr(&inputRefResolver{bindings: bindings}, expr)
}

func (r *inputRefResolver) RewriteColumnRef(e *binder.ColumnRef) (binder.Expr, error) {
	return r.resolveInternal(e)
}

func (r *inputRefResolver) RewriteBinaryOp(e *binder.BinaryOp) (binder.Expr, error) {
	return r.resolveInternal(e)
}

func (r *inputRefResolver) RewriteTypeCast(e *binder.TypeCast) (binder.Expr, error) {
	return r.resolveInternal(e)
}

func (r *inputRefResolver) RewriteAggCall(e *binder.AggCall) (binder.Expr, error) {
	return r.resolveInternal(e)
}

// resolveInternal searches the bindings for an entry structurally equal to
// expr and replaces the whole expression with its position when found.
// Expressions not bound verbatim must be composites, which are rebuilt from
// their resolved operands. Anything else cannot be resolved and fails fast
// rather than producing a wrong index.
func (r *inputRefResolver) resolveInternal(expr binder.Expr) (binder.Expr, error) {
	for i, binding := range r.bindings {
		if expr.Equal(binding) {
			return &binder.InputRef{Index: i, Type: expr.ReturnType()}, nil
		}
	}

	switch e := expr.(type) {
	case *binder.BinaryOp:
		left, err := RewriteExpr(r, e.Left)
		if err != nil {
			return nil, err
		}
		right, err := RewriteExpr(r, e.Right)
		if err != nil {
			return nil, err
		}
		return &binder.BinaryOp{Op: e.Op, Left: left, Right: right, Type: e.Type}, nil

	case *binder.TypeCast:
		inner, err := RewriteExpr(r, e.Expr)
		if err != nil {
			return nil, err
		}
		return &binder.TypeCast{Expr: inner, Type: e.Type}, nil

	case *binder.AggCall:
		args := make([]binder.Expr, len(e.Args))
		for i, arg := range e.Args {
			var err error
			if args[i], err = RewriteExpr(r, arg); err != nil {
				return nil, err
			}
		}
		return &binder.AggCall{Func: e.Func, Args: args, Type: e.Type}, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnresolved, expr)
	}
}
