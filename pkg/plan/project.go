package plan

import (
	"github.com/quiverdb/quiver/pkg/binder"
	"github.com/quiverdb/quiver/pkg/catalog"
)

// LogicalProject evaluates one expression per output column against each
// input row.
type LogicalProject struct {
	Exprs []binder.Expr

	children []Node
}

var _ Node = (*LogicalProject)(nil)

// NewLogicalProject creates a projection of child through exprs.
func NewLogicalProject(exprs []binder.Expr, child Node) *LogicalProject {
	return &LogicalProject{Exprs: exprs, children: []Node{child}}
}

// Schema returns one column per projected expression. Column names resolve
// positional references through the input layout.
func (n *LogicalProject) Schema() []catalog.Column {
	input := inputSchema(n.children)
	columns := make([]catalog.Column, len(n.Exprs))
	for i, expr := range n.Exprs {
		columns[i] = catalog.Column{Name: schemaName(expr, input), Type: expr.ReturnType()}
	}
	return columns
}

// Children returns the projection's input.
func (n *LogicalProject) Children() []Node { return n.children }

// CloneWithChildren returns a new projection with the same expressions over
// the given children.
func (n *LogicalProject) CloneWithChildren(children []Node) Node {
	return &LogicalProject{Exprs: n.Exprs, children: children}
}

func (n *LogicalProject) String() string {
	return "LogicalProject: " + n.describe()
}

func (n *LogicalProject) describe() string {
	return "exprs=" + formatExprs(n.Exprs)
}

// PhysicalProject is the executable counterpart of a projection.
type PhysicalProject struct {
	Logical *LogicalProject
}

var _ Node = (*PhysicalProject)(nil)

// NewPhysicalProject wraps a logical projection.
func NewPhysicalProject(logical *LogicalProject) *PhysicalProject {
	return &PhysicalProject{Logical: logical}
}

// Schema returns the wrapped node's schema.
func (n *PhysicalProject) Schema() []catalog.Column { return n.Logical.Schema() }

// Children returns the wrapped node's children.
func (n *PhysicalProject) Children() []Node { return n.Logical.Children() }

// CloneWithChildren returns a new physical projection over a rebuilt logical
// projection.
func (n *PhysicalProject) CloneWithChildren(children []Node) Node {
	return NewPhysicalProject(n.Logical.CloneWithChildren(children).(*LogicalProject))
}

func (n *PhysicalProject) String() string {
	return "PhysicalProject: " + n.Logical.describe()
}
