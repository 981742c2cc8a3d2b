// Package binder resolves the names in a parsed statement against a catalog
// and assigns a type to every expression. The planner consumes its output.
package binder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/quiverdb/quiver/pkg/catalog"
	"github.com/quiverdb/quiver/pkg/parser"
	"github.com/quiverdb/quiver/pkg/types"
)

var (
	// ErrInvalidTable indicates a table reference that is malformed or not
	// present in the catalog.
	ErrInvalidTable = errors.New("invalid table")

	// ErrInvalidColumn indicates a column reference that does not exist in
	// the queried table.
	ErrInvalidColumn = errors.New("invalid column")

	// ErrNotImplemented indicates a recognized construct that cannot be
	// bound yet.
	ErrNotImplemented = errors.New("not implemented")
)

// Unqualified and partially qualified table references are completed with
// these defaults before lookup.
const (
	defaultDatabase = "postgres"
	defaultSchema   = "postgres"
)

// aggFuncs maps uppercase function names to aggregate functions.
var aggFuncs = map[string]types.AggFunc{
	"SUM":   types.AggFuncSum,
	"COUNT": types.AggFuncCount,
	"MIN":   types.AggFuncMin,
	"MAX":   types.AggFuncMax,
}

// BoundSelect is a SELECT statement with every name resolved against the
// catalog and every expression typed.
type BoundSelect struct {
	// Items are the bound expressions of the select list.
	Items []Expr
	// Table is the catalog table being queried.
	Table *catalog.Table
	// Where is the bound filter predicate, or nil.
	Where Expr
	// GroupBy are the bound grouping expressions.
	GroupBy []Expr
}

// Binder binds parsed statements against a catalog.
type Binder struct {
	catalog *catalog.Catalog
}

// New creates a Binder resolving names against the given catalog.
func New(c *catalog.Catalog) *Binder {
	return &Binder{catalog: c}
}

// Bind resolves and type-checks the given statement.
func (b *Binder) Bind(stmt parser.Statement) (*BoundSelect, error) {
	switch s := stmt.(type) {
	case *parser.SelectStatement:
		return b.bindSelect(s)
	default:
		return nil, fmt.Errorf("%w: statement %T", ErrNotImplemented, stmt)
	}
}

func (b *Binder) bindSelect(s *parser.SelectStatement) (*BoundSelect, error) {
	table, err := b.bindTable(s.From)
	if err != nil {
		return nil, err
	}

	items := make([]Expr, 0, len(s.Items))
	for _, item := range s.Items {
		bound, err := b.bindExpr(item, table)
		if err != nil {
			return nil, err
		}
		items = append(items, bound)
	}

	var where Expr
	if s.Where != nil {
		where, err = b.bindExpr(s.Where, table)
		if err != nil {
			return nil, err
		}
		if containsAggCall(where) {
			return nil, fmt.Errorf("aggregate functions are not allowed in WHERE")
		}
		if got := where.ReturnType(); got != types.Bool {
			return nil, fmt.Errorf("WHERE clause must evaluate to bool, got %s", got)
		}
	}

	groupBy := make([]Expr, 0, len(s.GroupBy))
	for _, g := range s.GroupBy {
		bound, err := b.bindExpr(g, table)
		if err != nil {
			return nil, err
		}
		if containsAggCall(bound) {
			return nil, fmt.Errorf("aggregate functions are not allowed in GROUP BY")
		}
		groupBy = append(groupBy, bound)
	}

	if err := validateAggregation(items, groupBy); err != nil {
		return nil, err
	}

	return &BoundSelect{
		Items:   items,
		Table:   table,
		Where:   where,
		GroupBy: groupBy,
	}, nil
}

// bindTable resolves a possibly qualified table reference. One, two, and
// three part names are accepted, with missing database and schema parts
// filled in from the defaults. The catalog holds a single namespace, so
// lookup goes by the table part alone.
func (b *Binder) bindTable(name parser.TableName) (*catalog.Table, error) {
	parts := name.Parts
	switch len(parts) {
	case 1:
		parts = []string{defaultDatabase, defaultSchema, parts[0]}
	case 2:
		parts = []string{defaultDatabase, parts[0], parts[1]}
	case 3:
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidTable, name)
	}

	table, ok := b.catalog.Table(parts[2])
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTable, name)
	}
	return table, nil
}

func (b *Binder) bindExpr(expr parser.Expr, table *catalog.Table) (Expr, error) {
	switch e := expr.(type) {
	case *parser.Ident:
		col, ok := table.Column(e.Name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidColumn, e.Name)
		}
		return &ColumnRef{Column: col}, nil

	case *parser.IntegerLit:
		return &Constant{Value: types.IntegerValue(e.Value)}, nil

	case *parser.FloatLit:
		return &Constant{Value: types.FloatValue(e.Value)}, nil

	case *parser.StringLit:
		return &Constant{Value: types.StringValue(e.Value)}, nil

	case *parser.BoolLit:
		return &Constant{Value: types.BoolValue(e.Value)}, nil

	case *parser.BinaryExpr:
		return b.bindBinaryExpr(e, table)

	case *parser.FuncCall:
		return b.bindFuncCall(e, table)

	case *parser.CastExpr:
		return b.bindCastExpr(e, table)

	default:
		return nil, fmt.Errorf("%w: expression %T", ErrNotImplemented, expr)
	}
}

// bindBinaryExpr types a binary operation. Operand types must match exactly;
// there are no implicit conversions.
func (b *Binder) bindBinaryExpr(e *parser.BinaryExpr, table *catalog.Table) (Expr, error) {
	left, err := b.bindExpr(e.Left, table)
	if err != nil {
		return nil, err
	}
	right, err := b.bindExpr(e.Right, table)
	if err != nil {
		return nil, err
	}

	lt, rt := left.ReturnType(), right.ReturnType()
	if lt != rt {
		return nil, fmt.Errorf("mismatched types %s and %s in %s", lt, rt, e.Op)
	}

	var ret types.DataType
	switch {
	case e.Op.IsComparison():
		ret = types.Bool
	case e.Op.IsLogical():
		if lt != types.Bool {
			return nil, fmt.Errorf("%s requires bool operands, got %s", e.Op, lt)
		}
		ret = types.Bool
	case e.Op.IsArithmetic():
		if !lt.IsNumeric() {
			return nil, fmt.Errorf("%s requires numeric operands, got %s", e.Op, lt)
		}
		ret = lt
	default:
		return nil, fmt.Errorf("%w: operator %s", ErrNotImplemented, e.Op)
	}

	return &BinaryOp{Op: e.Op, Left: left, Right: right, Type: ret}, nil
}

func (b *Binder) bindFuncCall(e *parser.FuncCall, table *catalog.Table) (Expr, error) {
	fn, ok := aggFuncs[strings.ToUpper(e.Name)]
	if !ok {
		return nil, fmt.Errorf("unknown function %s", e.Name)
	}

	if e.Star {
		if fn != types.AggFuncCount {
			return nil, fmt.Errorf("%s does not accept * as an argument", fn)
		}
		return nil, fmt.Errorf("%w: COUNT(*)", ErrNotImplemented)
	}
	if len(e.Args) != 1 {
		return nil, fmt.Errorf("%s expects exactly one argument, got %d", fn, len(e.Args))
	}

	arg, err := b.bindExpr(e.Args[0], table)
	if err != nil {
		return nil, err
	}
	if containsAggCall(arg) {
		return nil, fmt.Errorf("aggregate functions cannot be nested")
	}

	var ret types.DataType
	switch fn {
	case types.AggFuncSum:
		if !arg.ReturnType().IsNumeric() {
			return nil, fmt.Errorf("%s requires a numeric argument, got %s", fn, arg.ReturnType())
		}
		ret = arg.ReturnType()
	case types.AggFuncCount:
		ret = types.Integer
	case types.AggFuncMin, types.AggFuncMax:
		ret = arg.ReturnType()
	}

	return &AggCall{Func: fn, Args: []Expr{arg}, Type: ret}, nil
}

// bindCastExpr types an explicit conversion. Only conversions between numeric
// types are supported.
func (b *Binder) bindCastExpr(e *parser.CastExpr, table *catalog.Table) (Expr, error) {
	inner, err := b.bindExpr(e.Expr, table)
	if err != nil {
		return nil, err
	}

	target, ok := types.ParseDataType(e.TypeName)
	if !ok {
		return nil, fmt.Errorf("unknown type %s in CAST", e.TypeName)
	}

	from := inner.ReturnType()
	if from != target && !(from.IsNumeric() && target.IsNumeric()) {
		return nil, fmt.Errorf("cannot cast %s to %s", from, target)
	}

	return &TypeCast{Expr: inner, Type: target}, nil
}

// validateAggregation enforces that once a query aggregates, every select
// list item is either an aggregate call or one of the grouping expressions.
func validateAggregation(items, groupBy []Expr) error {
	aggregated := len(groupBy) > 0
	for _, item := range items {
		if containsAggCall(item) {
			aggregated = true
		}
	}
	if !aggregated {
		return nil
	}

	for _, item := range items {
		if _, ok := item.(*AggCall); ok {
			continue
		}
		if isGroupExpr(item, groupBy) {
			continue
		}
		return fmt.Errorf("select list item %s must be an aggregate or appear in GROUP BY", item)
	}
	return nil
}

func isGroupExpr(item Expr, groupBy []Expr) bool {
	for _, g := range groupBy {
		if item.Equal(g) {
			return true
		}
	}
	return false
}

func containsAggCall(e Expr) bool {
	switch e := e.(type) {
	case *AggCall:
		return true
	case *BinaryOp:
		return containsAggCall(e.Left) || containsAggCall(e.Right)
	case *TypeCast:
		return containsAggCall(e.Expr)
	}
	return false
}
