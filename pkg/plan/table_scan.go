package plan

import (
	"github.com/quiverdb/quiver/pkg/catalog"
)

// LogicalTableScan reads the declared columns of a table in declared order.
// It is the only source node; every plan tree bottoms out in one.
type LogicalTableScan struct {
	Table   string
	Columns []catalog.Column
}

var _ Node = (*LogicalTableScan)(nil)

// NewLogicalTableScan creates a scan of the given table columns.
func NewLogicalTableScan(table string, columns []catalog.Column) *LogicalTableScan {
	return &LogicalTableScan{Table: table, Columns: columns}
}

// Schema returns the scanned columns.
func (n *LogicalTableScan) Schema() []catalog.Column { return n.Columns }

// Children returns nil; scans have no inputs.
func (n *LogicalTableScan) Children() []Node { return nil }

// CloneWithChildren returns a copy of the scan. Scans have no children, so
// the argument is ignored.
func (n *LogicalTableScan) CloneWithChildren(_ []Node) Node {
	return NewLogicalTableScan(n.Table, n.Columns)
}

func (n *LogicalTableScan) String() string {
	return "LogicalTableScan: " + n.describe()
}

func (n *LogicalTableScan) describe() string {
	return "table=" + n.Table + ", columns=" + formatColumns(n.Columns)
}

// PhysicalTableScan is the executable counterpart of a table scan.
type PhysicalTableScan struct {
	Logical *LogicalTableScan
}

var _ Node = (*PhysicalTableScan)(nil)

// NewPhysicalTableScan wraps a logical scan.
func NewPhysicalTableScan(logical *LogicalTableScan) *PhysicalTableScan {
	return &PhysicalTableScan{Logical: logical}
}

// Schema returns the wrapped node's schema.
func (n *PhysicalTableScan) Schema() []catalog.Column { return n.Logical.Schema() }

// Children returns the wrapped node's children.
func (n *PhysicalTableScan) Children() []Node { return n.Logical.Children() }

// CloneWithChildren returns a new physical scan over a rebuilt logical scan.
func (n *PhysicalTableScan) CloneWithChildren(children []Node) Node {
	return NewPhysicalTableScan(n.Logical.CloneWithChildren(children).(*LogicalTableScan))
}

func (n *PhysicalTableScan) String() string {
	return "PhysicalTableScan: " + n.Logical.describe()
}
