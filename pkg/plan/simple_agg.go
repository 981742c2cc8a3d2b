package plan

import (
	"github.com/quiverdb/quiver/pkg/binder"
	"github.com/quiverdb/quiver/pkg/catalog"
)

// LogicalSimpleAgg folds its entire input into aggregate values. Its output
// layout is the group-by expressions followed by the aggregate expressions,
// in that order.
type LogicalSimpleAgg struct {
	GroupBy []binder.Expr
	Aggs    []binder.Expr

	children []Node
}

var _ Node = (*LogicalSimpleAgg)(nil)

// NewLogicalSimpleAgg creates an aggregation of child.
func NewLogicalSimpleAgg(groupBy, aggs []binder.Expr, child Node) *LogicalSimpleAgg {
	return &LogicalSimpleAgg{GroupBy: groupBy, Aggs: aggs, children: []Node{child}}
}

// Schema returns the group-by columns followed by the aggregate columns.
// Column names resolve positional references through the input layout.
func (n *LogicalSimpleAgg) Schema() []catalog.Column {
	input := inputSchema(n.children)
	columns := make([]catalog.Column, 0, len(n.GroupBy)+len(n.Aggs))
	for _, expr := range n.GroupBy {
		columns = append(columns, catalog.Column{Name: schemaName(expr, input), Type: expr.ReturnType()})
	}
	for _, expr := range n.Aggs {
		columns = append(columns, catalog.Column{Name: schemaName(expr, input), Type: expr.ReturnType()})
	}
	return columns
}

// Children returns the aggregation's input.
func (n *LogicalSimpleAgg) Children() []Node { return n.children }

// CloneWithChildren returns a new aggregation with the same expressions over
// the given children.
func (n *LogicalSimpleAgg) CloneWithChildren(children []Node) Node {
	return &LogicalSimpleAgg{GroupBy: n.GroupBy, Aggs: n.Aggs, children: children}
}

func (n *LogicalSimpleAgg) String() string {
	return "LogicalSimpleAgg: " + n.describe()
}

func (n *LogicalSimpleAgg) describe() string {
	return "aggs=" + formatExprs(n.Aggs) + ", groups=" + formatExprs(n.GroupBy)
}

// PhysicalSimpleAgg is the executable counterpart of an aggregation.
type PhysicalSimpleAgg struct {
	Logical *LogicalSimpleAgg
}

var _ Node = (*PhysicalSimpleAgg)(nil)

// NewPhysicalSimpleAgg wraps a logical aggregation.
func NewPhysicalSimpleAgg(logical *LogicalSimpleAgg) *PhysicalSimpleAgg {
	return &PhysicalSimpleAgg{Logical: logical}
}

// Schema returns the wrapped node's schema.
func (n *PhysicalSimpleAgg) Schema() []catalog.Column { return n.Logical.Schema() }

// Children returns the wrapped node's children.
func (n *PhysicalSimpleAgg) Children() []Node { return n.Logical.Children() }

// CloneWithChildren returns a new physical aggregation over a rebuilt logical
// aggregation.
func (n *PhysicalSimpleAgg) CloneWithChildren(children []Node) Node {
	return NewPhysicalSimpleAgg(n.Logical.CloneWithChildren(children).(*LogicalSimpleAgg))
}

func (n *PhysicalSimpleAgg) String() string {
	return "PhysicalSimpleAgg: " + n.Logical.describe()
}
