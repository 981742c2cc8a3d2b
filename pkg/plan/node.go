// Package plan defines the logical and physical query plan nodes and the
// rewriting passes that transform a bound query into an executable plan.
//
// Plan trees are immutable. A rewrite never modifies a node in place; it
// builds a new node over possibly rewritten children and shares every
// untouched subtree with the original tree.
package plan

import (
	"fmt"
	"strings"

	"github.com/quiverdb/quiver/pkg/binder"
	"github.com/quiverdb/quiver/pkg/catalog"
)

// Node is a single operator of a logical or physical query plan.
type Node interface {
	fmt.Stringer

	// Schema returns the ordered output columns the node produces.
	Schema() []catalog.Column

	// Children returns the ordered inputs of the node, empty for source
	// nodes.
	Children() []Node

	// CloneWithChildren returns a new node of the same kind with the given
	// children. The children are stored as given; passes that require a
	// specific child count validate it themselves.
	CloneWithChildren(children []Node) Node
}

// schemaName derives the output column name of an expression, resolving
// positional references through the input layout.
func schemaName(expr binder.Expr, input []catalog.Column) string {
	switch e := expr.(type) {
	case *binder.InputRef:
		if e.Index >= 0 && e.Index < len(input) {
			return input[e.Index].Name
		}
	case *binder.BinaryOp:
		return fmt.Sprintf("%s(%s, %s)", e.Op, schemaName(e.Left, input), schemaName(e.Right, input))
	case *binder.TypeCast:
		return fmt.Sprintf("CAST(%s AS %s)", schemaName(e.Expr, input), e.Type)
	case *binder.AggCall:
		args := make([]string, len(e.Args))
		for i, arg := range e.Args {
			args[i] = schemaName(arg, input)
		}
		return fmt.Sprintf("%s(%s)", e.Func, strings.Join(args, ", "))
	}
	return expr.String()
}

// inputSchema returns the output columns of a single-input node's child, or
// nil if the node does not have exactly one child.
func inputSchema(children []Node) []catalog.Column {
	if len(children) != 1 {
		return nil
	}
	return children[0].Schema()
}

func formatExprs(exprs []binder.Expr) string {
	parts := make([]string, len(exprs))
	for i, expr := range exprs {
		parts[i] = expr.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatColumns(columns []catalog.Column) string {
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = col.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
