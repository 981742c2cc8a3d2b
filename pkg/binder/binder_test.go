package binder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quiverdb/quiver/pkg/catalog"
	"github.com/quiverdb/quiver/pkg/parser"
	"github.com/quiverdb/quiver/pkg/types"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	c := catalog.New()
	err := c.RegisterTable(&catalog.Table{
		Name: "employee",
		Columns: []catalog.Column{
			{Name: "id", Type: types.Integer},
			{Name: "first_name", Type: types.String},
			{Name: "last_name", Type: types.String},
			{Name: "salary", Type: types.Integer},
		},
	})
	require.NoError(t, err)
	return c
}

func bind(t *testing.T, sql string) (*BoundSelect, error) {
	t.Helper()

	stmt, err := parser.Parse(sql)
	require.NoError(t, err)
	return New(testCatalog(t)).Bind(stmt)
}

func TestBinder(t *testing.T) {
	t.Run("column and constant", func(t *testing.T) {
		bound, err := bind(t, "select first_name from employee where id = 1")
		require.NoError(t, err)

		require.Equal(t, "employee", bound.Table.Name)
		require.Len(t, bound.Items, 1)
		require.Equal(t, &ColumnRef{Column: catalog.Column{Name: "first_name", Type: types.String}}, bound.Items[0])
		require.Equal(t, &BinaryOp{
			Op:    types.BinaryOpEq,
			Left:  &ColumnRef{Column: catalog.Column{Name: "id", Type: types.Integer}},
			Right: &Constant{Value: types.IntegerValue(1)},
			Type:  types.Bool,
		}, bound.Where)
	})

	t.Run("aggregate call", func(t *testing.T) {
		bound, err := bind(t, "select sum(salary) from employee")
		require.NoError(t, err)

		require.Len(t, bound.Items, 1)
		agg, ok := bound.Items[0].(*AggCall)
		require.True(t, ok)
		require.Equal(t, types.AggFuncSum, agg.Func)
		require.Equal(t, types.Integer, agg.Type)
	})

	t.Run("group by", func(t *testing.T) {
		bound, err := bind(t, "select last_name, sum(salary) from employee group by last_name")
		require.NoError(t, err)

		require.Len(t, bound.GroupBy, 1)
		require.True(t, bound.Items[0].Equal(bound.GroupBy[0]))
	})

	t.Run("cast", func(t *testing.T) {
		bound, err := bind(t, "select cast(salary as float) from employee")
		require.NoError(t, err)

		cast, ok := bound.Items[0].(*TypeCast)
		require.True(t, ok)
		require.Equal(t, types.Float, cast.Type)
		require.Equal(t, types.Float, cast.ReturnType())
	})

	t.Run("arithmetic keeps operand type", func(t *testing.T) {
		bound, err := bind(t, "select salary + salary from employee")
		require.NoError(t, err)
		require.Equal(t, types.Integer, bound.Items[0].ReturnType())
	})
}

func TestBinder_TableNames(t *testing.T) {
	t.Run("partially qualified names resolve", func(t *testing.T) {
		for _, sql := range []string{
			"select id from employee",
			"select id from public.employee",
			"select id from postgres.public.employee",
		} {
			bound, err := bind(t, sql)
			require.NoError(t, err, sql)
			require.Equal(t, "employee", bound.Table.Name)
		}
	})

	t.Run("too many parts", func(t *testing.T) {
		_, err := bind(t, "select id from a.b.c.employee")
		require.ErrorIs(t, err, ErrInvalidTable)
	})

	t.Run("unknown table", func(t *testing.T) {
		_, err := bind(t, "select id from missing")
		require.ErrorIs(t, err, ErrInvalidTable)
	})
}

func TestBinder_Errors(t *testing.T) {
	tt := []struct {
		name string
		sql  string
		err  string
	}{
		{
			name: "unknown column",
			sql:  "select nope from employee",
			err:  "invalid column: nope",
		},
		{
			name: "count star",
			sql:  "select count(*) from employee",
			err:  "not implemented: COUNT(*)",
		},
		{
			name: "star argument",
			sql:  "select sum(*) from employee",
			err:  "SUM does not accept *",
		},
		{
			name: "non boolean predicate",
			sql:  "select id from employee where salary + 1",
			err:  "WHERE clause must evaluate to bool, got integer",
		},
		{
			name: "mismatched comparison",
			sql:  "select id from employee where first_name = 1",
			err:  "mismatched types string and integer in EQ",
		},
		{
			name: "mismatched arithmetic",
			sql:  "select salary + first_name from employee",
			err:  "mismatched types integer and string in ADD",
		},
		{
			name: "non numeric arithmetic",
			sql:  "select first_name + last_name from employee",
			err:  "ADD requires numeric operands, got string",
		},
		{
			name: "non numeric sum",
			sql:  "select sum(first_name) from employee",
			err:  "SUM requires a numeric argument, got string",
		},
		{
			name: "unknown function",
			sql:  "select avg(salary) from employee",
			err:  "unknown function avg",
		},
		{
			name: "nested aggregate",
			sql:  "select sum(sum(salary)) from employee",
			err:  "aggregate functions cannot be nested",
		},
		{
			name: "aggregate in where",
			sql:  "select id from employee where sum(salary) = 1",
			err:  "aggregate functions are not allowed in WHERE",
		},
		{
			name: "aggregate in group by",
			sql:  "select id from employee group by sum(salary)",
			err:  "aggregate functions are not allowed in GROUP BY",
		},
		{
			name: "bare column next to aggregate",
			sql:  "select first_name, sum(salary) from employee",
			err:  "must be an aggregate or appear in GROUP BY",
		},
		{
			name: "column missing from group by",
			sql:  "select first_name from employee group by last_name",
			err:  "must be an aggregate or appear in GROUP BY",
		},
		{
			name: "unsupported cast",
			sql:  "select cast(first_name as integer) from employee",
			err:  "cannot cast string to integer",
		},
		{
			name: "unknown cast type",
			sql:  "select cast(salary as decimal) from employee",
			err:  "unknown type decimal in CAST",
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			_, err := bind(t, tc.sql)
			require.ErrorContains(t, err, tc.err)
		})
	}
}

func TestExprEqual(t *testing.T) {
	idCol := catalog.Column{Name: "id", Type: types.Integer}
	salaryCol := catalog.Column{Name: "salary", Type: types.Integer}

	tt := []struct {
		name  string
		a, b  Expr
		equal bool
	}{
		{
			name:  "same column",
			a:     &ColumnRef{Column: idCol},
			b:     &ColumnRef{Column: idCol},
			equal: true,
		},
		{
			name:  "different column",
			a:     &ColumnRef{Column: idCol},
			b:     &ColumnRef{Column: salaryCol},
			equal: false,
		},
		{
			name:  "different kinds",
			a:     &ColumnRef{Column: idCol},
			b:     &Constant{Value: types.IntegerValue(1)},
			equal: false,
		},
		{
			name:  "same input ref",
			a:     &InputRef{Index: 1, Type: types.Integer},
			b:     &InputRef{Index: 1, Type: types.Integer},
			equal: true,
		},
		{
			name:  "different input ref index",
			a:     &InputRef{Index: 1, Type: types.Integer},
			b:     &InputRef{Index: 2, Type: types.Integer},
			equal: false,
		},
		{
			name: "same aggregate",
			a: &AggCall{
				Func: types.AggFuncSum,
				Args: []Expr{&ColumnRef{Column: salaryCol}},
				Type: types.Integer,
			},
			b: &AggCall{
				Func: types.AggFuncSum,
				Args: []Expr{&ColumnRef{Column: salaryCol}},
				Type: types.Integer,
			},
			equal: true,
		},
		{
			name: "nested binary op",
			a: &BinaryOp{
				Op:    types.BinaryOpEq,
				Left:  &ColumnRef{Column: idCol},
				Right: &Constant{Value: types.IntegerValue(2)},
				Type:  types.Bool,
			},
			b: &BinaryOp{
				Op:    types.BinaryOpEq,
				Left:  &ColumnRef{Column: idCol},
				Right: &Constant{Value: types.IntegerValue(3)},
				Type:  types.Bool,
			},
			equal: false,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.equal, tc.a.Equal(tc.b))
			require.Equal(t, tc.equal, tc.b.Equal(tc.a))
		})
	}
}
