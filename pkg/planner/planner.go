// Package planner builds logical plans from bound statements.
package planner

import (
	"github.com/quiverdb/quiver/pkg/binder"
	"github.com/quiverdb/quiver/pkg/plan"
)

// Plan builds the logical plan for a bound select statement. The shape is a
// table scan, a filter when a predicate is present, an aggregation when the
// query aggregates, and a projection on top.
func Plan(stmt *binder.BoundSelect) plan.Node {
	var node plan.Node = plan.NewLogicalTableScan(stmt.Table.Name, stmt.Table.Columns)

	if stmt.Where != nil {
		node = plan.NewLogicalFilter(stmt.Where, node)
	}

	aggs := collectAggCalls(stmt.Items)
	if len(aggs) > 0 || len(stmt.GroupBy) > 0 {
		node = plan.NewLogicalSimpleAgg(stmt.GroupBy, aggs, node)
	}

	return plan.NewLogicalProject(stmt.Items, node)
}

// collectAggCalls returns the aggregate calls of the select list in
// occurrence order.
func collectAggCalls(items []binder.Expr) []binder.Expr {
	var aggs []binder.Expr
	for _, item := range items {
		aggs = append(aggs, findAggCalls(item)...)
	}
	return aggs
}

func findAggCalls(expr binder.Expr) []binder.Expr {
	switch e := expr.(type) {
	case *binder.AggCall:
		return []binder.Expr{e}
	case *binder.BinaryOp:
		return append(findAggCalls(e.Left), findAggCalls(e.Right)...)
	case *binder.TypeCast:
		return findAggCalls(e.Expr)
	}
	return nil
}
