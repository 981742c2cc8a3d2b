package plan

import (
	"fmt"

	"github.com/quiverdb/quiver/pkg/binder"
)

// Rewriter is a visitor over logical plan trees with one method per node
// kind. Methods are not auto-recursive; a rewriter that wants to transform a
// whole tree calls [Rewrite] on the children it cares about, which lets a
// pass skip or short-circuit subtrees.
//
// Adding a node kind extends this interface, so every pass is forced to
// handle it before it compiles again.
type Rewriter interface {
	RewriteTableScan(*LogicalTableScan) (Node, error)
	RewriteFilter(*LogicalFilter) (Node, error)
	RewriteProject(*LogicalProject) (Node, error)
	RewriteSimpleAgg(*LogicalSimpleAgg) (Node, error)
}

// Rewrite dispatches node to the matching method of r. Node kinds without a
// rewrite rule are a fatal error.
func Rewrite(r Rewriter, node Node) (Node, error) {
	switch n := node.(type) {
	case *LogicalTableScan:
		return r.RewriteTableScan(n)
	case *LogicalFilter:
		return r.RewriteFilter(n)
	case *LogicalProject:
		return r.RewriteProject(n)
	case *LogicalSimpleAgg:
		return r.RewriteSimpleAgg(n)
	default:
		return nil, fmt.Errorf("no rewrite rule for node type %T", node)
	}
}

// ExprRewriter is a visitor over bound expressions with one method per
// expression kind. Expressions are immutable; a rewrite returns a new
// expression and leaves the input untouched.
//
// Embed [NoopExprRewriter] to implement only the kinds a pass changes.
type ExprRewriter interface {
	RewriteConstant(*binder.Constant) (binder.Expr, error)
	RewriteColumnRef(*binder.ColumnRef) (binder.Expr, error)
	RewriteInputRef(*binder.InputRef) (binder.Expr, error)
	RewriteBinaryOp(*binder.BinaryOp) (binder.Expr, error)
	RewriteTypeCast(*binder.TypeCast) (binder.Expr, error)
	RewriteAggCall(*binder.AggCall) (binder.Expr, error)
}

// RewriteExpr dispatches expr to the matching method of r. Expression kinds
// without a rewrite rule are a fatal error.
func RewriteExpr(r ExprRewriter, expr binder.Expr) (binder.Expr, error) {
	switch e := expr.(type) {
	case *binder.Constant:
		return r.RewriteConstant(e)
	case *binder.ColumnRef:
		return r.RewriteColumnRef(e)
	case *binder.InputRef:
		return r.RewriteInputRef(e)
	case *binder.BinaryOp:
		return r.RewriteBinaryOp(e)
	case *binder.TypeCast:
		return r.RewriteTypeCast(e)
	case *binder.AggCall:
		return r.RewriteAggCall(e)
	default:
		return nil, fmt.Errorf("no rewrite rule for expression type %T", expr)
	}
}

// NoopExprRewriter implements every [ExprRewriter] method as the identity.
type NoopExprRewriter struct{}

var _ ExprRewriter = NoopExprRewriter{}

func (NoopExprRewriter) RewriteConstant(e *binder.Constant) (binder.Expr, error)   { return e, nil }
func (NoopExprRewriter) RewriteColumnRef(e *binder.ColumnRef) (binder.Expr, error) { return e, nil }
func (NoopExprRewriter) RewriteInputRef(e *binder.InputRef) (binder.Expr, error)   { return e, nil }
func (NoopExprRewriter) RewriteBinaryOp(e *binder.BinaryOp) (binder.Expr, error)   { return e, nil }
func (NoopExprRewriter) RewriteTypeCast(e *binder.TypeCast) (binder.Expr, error)   { return e, nil }
func (NoopExprRewriter) RewriteAggCall(e *binder.AggCall) (binder.Expr, error)     { return e, nil }
