package plan

import (
	"github.com/quiverdb/quiver/pkg/binder"
	"github.com/quiverdb/quiver/pkg/catalog"
)

// LogicalFilter keeps the input rows for which its predicate evaluates to
// true. Its output layout equals its input's.
type LogicalFilter struct {
	Predicate binder.Expr

	children []Node
}

var _ Node = (*LogicalFilter)(nil)

// NewLogicalFilter creates a filter of child by predicate.
func NewLogicalFilter(predicate binder.Expr, child Node) *LogicalFilter {
	return &LogicalFilter{Predicate: predicate, children: []Node{child}}
}

// Schema returns the input's schema.
func (n *LogicalFilter) Schema() []catalog.Column { return inputSchema(n.children) }

// Children returns the filter's input.
func (n *LogicalFilter) Children() []Node { return n.children }

// CloneWithChildren returns a new filter with the same predicate over the
// given children.
func (n *LogicalFilter) CloneWithChildren(children []Node) Node {
	return &LogicalFilter{Predicate: n.Predicate, children: children}
}

func (n *LogicalFilter) String() string {
	return "LogicalFilter: " + n.describe()
}

func (n *LogicalFilter) describe() string {
	return "predicate=" + n.Predicate.String()
}

// PhysicalFilter is the executable counterpart of a filter.
type PhysicalFilter struct {
	Logical *LogicalFilter
}

var _ Node = (*PhysicalFilter)(nil)

// NewPhysicalFilter wraps a logical filter.
func NewPhysicalFilter(logical *LogicalFilter) *PhysicalFilter {
	return &PhysicalFilter{Logical: logical}
}

// Schema returns the wrapped node's schema.
func (n *PhysicalFilter) Schema() []catalog.Column { return n.Logical.Schema() }

// Children returns the wrapped node's children.
func (n *PhysicalFilter) Children() []Node { return n.Logical.Children() }

// CloneWithChildren returns a new physical filter over a rebuilt logical
// filter.
func (n *PhysicalFilter) CloneWithChildren(children []Node) Node {
	return NewPhysicalFilter(n.Logical.CloneWithChildren(children).(*LogicalFilter))
}

func (n *PhysicalFilter) String() string {
	return "PhysicalFilter: " + n.Logical.describe()
}
