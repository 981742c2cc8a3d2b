package plan

// PhysicalRewriter compiles a logical plan into its physical counterpart.
// The mapping is structural and one to one: children compile first, then the
// logical node, rebuilt over its physical children, is wrapped in its
// physical kind. Expressions are carried over unchanged, so the pass runs
// after input reference resolution.
type PhysicalRewriter struct{}

var _ Rewriter = (*PhysicalRewriter)(nil)

// NewPhysicalRewriter creates the physical compilation pass.
func NewPhysicalRewriter() *PhysicalRewriter {
	return &PhysicalRewriter{}
}

// RewriteTableScan wraps a logical scan.
func (r *PhysicalRewriter) RewriteTableScan(n *LogicalTableScan) (Node, error) {
	return NewPhysicalTableScan(n), nil
}

// RewriteFilter compiles the filter's children, then wraps the rebuilt
// filter.
func (r *PhysicalRewriter) RewriteFilter(n *LogicalFilter) (Node, error) {
	children, err := r.rewriteChildren(n)
	if err != nil {
		return nil, err
	}
	return NewPhysicalFilter(n.CloneWithChildren(children).(*LogicalFilter)), nil
}

// RewriteProject compiles the projection's children, then wraps the rebuilt
// projection.
func (r *PhysicalRewriter) RewriteProject(n *LogicalProject) (Node, error) {
	children, err := r.rewriteChildren(n)
	if err != nil {
		return nil, err
	}
	return NewPhysicalProject(n.CloneWithChildren(children).(*LogicalProject)), nil
}

// RewriteSimpleAgg compiles the aggregation's children, then wraps the
// rebuilt aggregation.
func (r *PhysicalRewriter) RewriteSimpleAgg(n *LogicalSimpleAgg) (Node, error) {
	children, err := r.rewriteChildren(n)
	if err != nil {
		return nil, err
	}
	return NewPhysicalSimpleAgg(n.CloneWithChildren(children).(*LogicalSimpleAgg)), nil
}

func (r *PhysicalRewriter) rewriteChildren(n Node) ([]Node, error) {
	children := n.Children()
	rewritten := make([]Node, len(children))
	for i, child := range children {
		var err error
		if rewritten[i], err = Rewrite(r, child); err != nil {
			return nil, err
		}
	}
	return rewritten, nil
}
