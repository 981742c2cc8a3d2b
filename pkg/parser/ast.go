package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quiverdb/quiver/pkg/types"
)

// Statement is a parsed SQL statement.
type Statement interface {
	fmt.Stringer
	isStatement()
}

// SelectStatement is a parsed SELECT query.
type SelectStatement struct {
	// Items are the expressions of the select list.
	Items []Expr
	// From names the table being queried.
	From TableName
	// Where is the filter predicate, or nil if the query has no WHERE clause.
	Where Expr
	// GroupBy are the grouping expressions, empty if the query has no GROUP
	// BY clause.
	GroupBy []Expr
}

func (s *SelectStatement) isStatement() {}

func (s *SelectStatement) String() string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	for i, item := range s.Items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(item.String())
	}
	sb.WriteString(" FROM ")
	sb.WriteString(s.From.String())
	if s.Where != nil {
		sb.WriteString(" WHERE ")
		sb.WriteString(s.Where.String())
	}
	if len(s.GroupBy) > 0 {
		sb.WriteString(" GROUP BY ")
		for i, g := range s.GroupBy {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(g.String())
		}
	}
	return sb.String()
}

// TableName is a possibly qualified table reference. Parts holds every
// dot-separated component in source order, e.g. ["postgres", "public",
// "employee"].
type TableName struct {
	Parts []string
}

func (t TableName) String() string {
	return strings.Join(t.Parts, ".")
}

// Expr is a parsed scalar expression.
type Expr interface {
	fmt.Stringer
	isExpr()
}

// Ident is an unqualified column or object name.
type Ident struct {
	Name string
}

func (e *Ident) isExpr() {}

func (e *Ident) String() string { return e.Name }

// IntegerLit is an integer literal.
type IntegerLit struct {
	Value int64
}

func (e *IntegerLit) isExpr() {}

func (e *IntegerLit) String() string { return strconv.FormatInt(e.Value, 10) }

// FloatLit is a floating point literal.
type FloatLit struct {
	Value float64
}

func (e *FloatLit) isExpr() {}

func (e *FloatLit) String() string { return strconv.FormatFloat(e.Value, 'g', -1, 64) }

// StringLit is a string literal.
type StringLit struct {
	Value string
}

func (e *StringLit) isExpr() {}

func (e *StringLit) String() string { return strconv.Quote(e.Value) }

// BoolLit is a boolean literal.
type BoolLit struct {
	Value bool
}

func (e *BoolLit) isExpr() {}

func (e *BoolLit) String() string { return strconv.FormatBool(e.Value) }

// BinaryExpr is a binary operation over two expressions.
type BinaryExpr struct {
	Op    types.BinaryOp
	Left  Expr
	Right Expr
}

func (e *BinaryExpr) isExpr() {}

func (e *BinaryExpr) String() string {
	return fmt.Sprintf("%s(%s, %s)", e.Op, e.Left, e.Right)
}

// FuncCall is a function invocation such as SUM(salary). Star is set for the
// COUNT(*) form, in which case Args is empty.
type FuncCall struct {
	Name string
	Args []Expr
	Star bool
}

func (e *FuncCall) isExpr() {}

func (e *FuncCall) String() string {
	if e.Star {
		return fmt.Sprintf("%s(*)", strings.ToUpper(e.Name))
	}
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", strings.ToUpper(e.Name), strings.Join(args, ", "))
}

// CastExpr is an explicit type conversion, CAST(expr AS type).
type CastExpr struct {
	Expr     Expr
	TypeName string
}

func (e *CastExpr) isExpr() {}

func (e *CastExpr) String() string {
	return fmt.Sprintf("CAST(%s AS %s)", e.Expr, e.TypeName)
}
