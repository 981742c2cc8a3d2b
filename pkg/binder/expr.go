package binder

import (
	"fmt"
	"strings"

	"github.com/quiverdb/quiver/pkg/catalog"
	"github.com/quiverdb/quiver/pkg/types"
)

// Expr is a bound scalar expression. Bound expressions are produced by the
// [Binder] from parsed AST nodes and carry their resolved return type.
//
// Expr implementations must be pointers to be usable with [Expr.Equal].
type Expr interface {
	fmt.Stringer

	// ReturnType returns the type the expression evaluates to.
	ReturnType() types.DataType

	// Equal reports whether the expression is structurally identical to
	// other.
	Equal(other Expr) bool

	isExpr()
}

var (
	_ Expr = (*Constant)(nil)
	_ Expr = (*ColumnRef)(nil)
	_ Expr = (*InputRef)(nil)
	_ Expr = (*BinaryOp)(nil)
	_ Expr = (*TypeCast)(nil)
	_ Expr = (*AggCall)(nil)
)

// Constant is a literal value.
type Constant struct {
	Value types.Value
}

func (e *Constant) isExpr() {}

// ReturnType returns the type of the literal.
func (e *Constant) ReturnType() types.DataType { return e.Value.Type() }

// Equal reports whether other is the same literal.
func (e *Constant) Equal(other Expr) bool {
	o, ok := other.(*Constant)
	return ok && e.Value == o.Value
}

func (e *Constant) String() string { return e.Value.String() }

// ColumnRef is a reference to a named table column.
type ColumnRef struct {
	Column catalog.Column
}

func (e *ColumnRef) isExpr() {}

// ReturnType returns the type of the referenced column.
func (e *ColumnRef) ReturnType() types.DataType { return e.Column.Type }

// Equal reports whether other references the same column.
func (e *ColumnRef) Equal(other Expr) bool {
	o, ok := other.(*ColumnRef)
	return ok && e.Column == o.Column
}

func (e *ColumnRef) String() string { return e.Column.Name }

// InputRef is a positional reference into the columns produced by an
// operator's input.
type InputRef struct {
	Index int
	Type  types.DataType
}

func (e *InputRef) isExpr() {}

// ReturnType returns the type of the referenced input column.
func (e *InputRef) ReturnType() types.DataType { return e.Type }

// Equal reports whether other references the same input position with the
// same type.
func (e *InputRef) Equal(other Expr) bool {
	o, ok := other.(*InputRef)
	return ok && e.Index == o.Index && e.Type == o.Type
}

func (e *InputRef) String() string { return fmt.Sprintf("InputRef(%d)", e.Index) }

// BinaryOp applies a binary operation to two operand expressions.
type BinaryOp struct {
	Op    types.BinaryOp
	Left  Expr
	Right Expr
	Type  types.DataType
}

func (e *BinaryOp) isExpr() {}

// ReturnType returns the type the operation evaluates to.
func (e *BinaryOp) ReturnType() types.DataType { return e.Type }

// Equal reports whether other is the same operation over structurally equal
// operands.
func (e *BinaryOp) Equal(other Expr) bool {
	o, ok := other.(*BinaryOp)
	return ok && e.Op == o.Op && e.Type == o.Type && e.Left.Equal(o.Left) && e.Right.Equal(o.Right)
}

func (e *BinaryOp) String() string {
	return fmt.Sprintf("%s(%s, %s)", e.Op, e.Left, e.Right)
}

// TypeCast converts the value of an expression to another type.
type TypeCast struct {
	Expr Expr
	Type types.DataType
}

func (e *TypeCast) isExpr() {}

// ReturnType returns the target type of the conversion.
func (e *TypeCast) ReturnType() types.DataType { return e.Type }

// Equal reports whether other casts a structurally equal expression to the
// same type.
func (e *TypeCast) Equal(other Expr) bool {
	o, ok := other.(*TypeCast)
	return ok && e.Type == o.Type && e.Expr.Equal(o.Expr)
}

func (e *TypeCast) String() string {
	return fmt.Sprintf("CAST(%s AS %s)", e.Expr, e.Type)
}

// AggCall applies an aggregate function over the values its argument
// expressions take across an operator's input rows.
type AggCall struct {
	Func types.AggFunc
	Args []Expr
	Type types.DataType
}

func (e *AggCall) isExpr() {}

// ReturnType returns the type the aggregate evaluates to.
func (e *AggCall) ReturnType() types.DataType { return e.Type }

// Equal reports whether other is the same aggregate over structurally equal
// arguments.
func (e *AggCall) Equal(other Expr) bool {
	o, ok := other.(*AggCall)
	if !ok || e.Func != o.Func || e.Type != o.Type || len(e.Args) != len(o.Args) {
		return false
	}
	for i := range e.Args {
		if !e.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

func (e *AggCall) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", e.Func, strings.Join(args, ", "))
}
