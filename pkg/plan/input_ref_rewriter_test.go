package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quiverdb/quiver/pkg/binder"
	"github.com/quiverdb/quiver/pkg/catalog"
	"github.com/quiverdb/quiver/pkg/types"
)

var (
	c1 = catalog.Column{Name: "c1", Type: types.Integer}
	c2 = catalog.Column{Name: "c2", Type: types.Integer}
)

func colRef(col catalog.Column) *binder.ColumnRef {
	return &binder.ColumnRef{Column: col}
}

func intConst(v int64) *binder.Constant {
	return &binder.Constant{Value: types.IntegerValue(v)}
}

func sumCall(arg binder.Expr) *binder.AggCall {
	return &binder.AggCall{Func: types.AggFuncSum, Args: []binder.Expr{arg}, Type: types.Integer}
}

func TestInputRefRewriter_ProjectOverFilter(t *testing.T) {
	scan := NewLogicalTableScan("t", []catalog.Column{c1, c2})
	filter := NewLogicalFilter(&binder.BinaryOp{
		Op:    types.BinaryOpEq,
		Left:  colRef(c1),
		Right: intConst(2),
		Type:  types.Bool,
	}, scan)
	project := NewLogicalProject([]binder.Expr{colRef(c2)}, filter)

	rewritten, err := Rewrite(NewInputRefRewriter(), project)
	require.NoError(t, err)

	p, ok := rewritten.(*LogicalProject)
	require.True(t, ok)
	require.Equal(t, []binder.Expr{&binder.InputRef{Index: 1, Type: types.Integer}}, p.Exprs)

	f, ok := p.Children()[0].(*LogicalFilter)
	require.True(t, ok)
	require.Equal(t, &binder.BinaryOp{
		Op:    types.BinaryOpEq,
		Left:  &binder.InputRef{Index: 0, Type: types.Integer},
		Right: intConst(2),
		Type:  types.Bool,
	}, f.Predicate)

	// The untouched scan is shared, not copied.
	require.Same(t, scan, f.Children()[0])

	// The input tree is left as it was.
	require.Equal(t, []binder.Expr{colRef(c2)}, project.Exprs)
	require.Equal(t, "EQ(c1, 2)", filter.Predicate.String())
}

func TestInputRefRewriter_ProjectOverAggregation(t *testing.T) {
	scan := NewLogicalTableScan("t", []catalog.Column{c1})
	agg := NewLogicalSimpleAgg(nil, []binder.Expr{sumCall(colRef(c1))}, scan)
	// The projected expression is a distinct value; resolution goes by
	// structural equality, not by identity.
	project := NewLogicalProject([]binder.Expr{sumCall(colRef(c1))}, agg)

	rewritten, err := Rewrite(NewInputRefRewriter(), project)
	require.NoError(t, err)

	p := rewritten.(*LogicalProject)
	require.Equal(t, []binder.Expr{&binder.InputRef{Index: 0, Type: types.Integer}}, p.Exprs)

	a := p.Children()[0].(*LogicalSimpleAgg)
	require.Equal(t, []binder.Expr{sumCall(&binder.InputRef{Index: 0, Type: types.Integer})}, a.Aggs)
	require.Empty(t, a.GroupBy)
}

func TestInputRefRewriter_GroupByOrdersBindings(t *testing.T) {
	scan := NewLogicalTableScan("t", []catalog.Column{c1, c2})
	agg := NewLogicalSimpleAgg(
		[]binder.Expr{colRef(c2)},
		[]binder.Expr{sumCall(colRef(c1))},
		scan,
	)
	project := NewLogicalProject([]binder.Expr{colRef(c2), sumCall(colRef(c1))}, agg)

	rewritten, err := Rewrite(NewInputRefRewriter(), project)
	require.NoError(t, err)

	// Group-by expressions come before aggregate expressions in the
	// aggregation's output, so the projection sees c2 at position 0.
	p := rewritten.(*LogicalProject)
	require.Equal(t, []binder.Expr{
		&binder.InputRef{Index: 0, Type: types.Integer},
		&binder.InputRef{Index: 1, Type: types.Integer},
	}, p.Exprs)

	// The aggregation's own expressions resolve against the scan layout.
	a := p.Children()[0].(*LogicalSimpleAgg)
	require.Equal(t, []binder.Expr{&binder.InputRef{Index: 1, Type: types.Integer}}, a.GroupBy)
	require.Equal(t, []binder.Expr{sumCall(&binder.InputRef{Index: 0, Type: types.Integer})}, a.Aggs)
}

func TestInputRefRewriter_BinaryOperandsResolveIndependently(t *testing.T) {
	scan := NewLogicalTableScan("t", []catalog.Column{c1, c2})
	filter := NewLogicalFilter(&binder.BinaryOp{
		Op:    types.BinaryOpEq,
		Left:  colRef(c2),
		Right: &binder.TypeCast{Expr: colRef(c1), Type: types.Integer},
		Type:  types.Bool,
	}, scan)

	rewritten, err := Rewrite(NewInputRefRewriter(), filter)
	require.NoError(t, err)

	f := rewritten.(*LogicalFilter)
	require.Equal(t, &binder.BinaryOp{
		Op:    types.BinaryOpEq,
		Left:  &binder.InputRef{Index: 1, Type: types.Integer},
		Right: &binder.TypeCast{Expr: &binder.InputRef{Index: 0, Type: types.Integer}, Type: types.Integer},
		Type:  types.Bool,
	}, f.Predicate)
}

func TestInputRefRewriter_Idempotent(t *testing.T) {
	scan := NewLogicalTableScan("t", []catalog.Column{c1, c2})
	filter := NewLogicalFilter(&binder.BinaryOp{
		Op:    types.BinaryOpEq,
		Left:  colRef(c1),
		Right: intConst(2),
		Type:  types.Bool,
	}, scan)
	agg := NewLogicalSimpleAgg(nil, []binder.Expr{sumCall(colRef(c2))}, filter)
	project := NewLogicalProject([]binder.Expr{sumCall(colRef(c2))}, agg)

	once, err := Rewrite(NewInputRefRewriter(), project)
	require.NoError(t, err)
	twice, err := Rewrite(NewInputRefRewriter(), once)
	require.NoError(t, err)

	require.Equal(t, once, twice)
	require.Equal(t, Format(once), Format(twice))
}

func TestInputRefRewriter_Unresolvable(t *testing.T) {
	missing := catalog.Column{Name: "c3", Type: types.Integer}

	t.Run("bare column", func(t *testing.T) {
		scan := NewLogicalTableScan("t", []catalog.Column{c1})
		project := NewLogicalProject([]binder.Expr{colRef(missing)}, scan)

		_, err := Rewrite(NewInputRefRewriter(), project)
		require.ErrorIs(t, err, ErrUnresolved)
		require.ErrorContains(t, err, "c3")
	})

	t.Run("column inside composite", func(t *testing.T) {
		scan := NewLogicalTableScan("t", []catalog.Column{c1})
		filter := NewLogicalFilter(&binder.BinaryOp{
			Op:    types.BinaryOpEq,
			Left:  colRef(missing),
			Right: intConst(2),
			Type:  types.Bool,
		}, scan)

		_, err := Rewrite(NewInputRefRewriter(), filter)
		require.ErrorIs(t, err, ErrUnresolved)
	})
}

func TestInputRefRewriter_ChildCount(t *testing.T) {
	scan := NewLogicalTableScan("t", []catalog.Column{c1})
	filter := NewLogicalFilter(intConst(1), scan)

	t.Run("no input", func(t *testing.T) {
		orphan := filter.CloneWithChildren(nil)
		_, err := Rewrite(NewInputRefRewriter(), orphan)
		require.ErrorContains(t, err, "expects exactly one input, got 0")
	})

	t.Run("two inputs", func(t *testing.T) {
		twin := filter.CloneWithChildren([]Node{scan, scan})
		_, err := Rewrite(NewInputRefRewriter(), twin)
		require.ErrorContains(t, err, "expects exactly one input, got 2")
	})
}

type unknownNode struct{}

func (unknownNode) Schema() []catalog.Column        { return nil }
func (unknownNode) Children() []Node                { return nil }
func (unknownNode) CloneWithChildren(_ []Node) Node { return unknownNode{} }
func (unknownNode) String() string                  { return "unknown" }

func TestRewrite_UnknownNode(t *testing.T) {
	_, err := Rewrite(NewInputRefRewriter(), unknownNode{})
	require.ErrorContains(t, err, "no rewrite rule for node type")

	scan := NewLogicalTableScan("t", []catalog.Column{c1})
	filter := NewLogicalFilter(intConst(1), scan).CloneWithChildren([]Node{unknownNode{}})
	_, err = Rewrite(NewInputRefRewriter(), filter)
	require.ErrorContains(t, err, "no rewrite rule for node type")
}
