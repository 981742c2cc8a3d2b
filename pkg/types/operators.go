package types

import "fmt"

// BinaryOp denotes the kind of binary operation to apply to a pair of
// operands.
type BinaryOp int

// Recognized values of [BinaryOp].
const (
	// BinaryOpInvalid indicates an invalid binary operation.
	BinaryOpInvalid BinaryOp = iota

	BinaryOpEq    // Equality comparison (=).
	BinaryOpNotEq // Inequality comparison (!=).
	BinaryOpGt    // Greater than comparison (>).
	BinaryOpGtEq  // Greater than or equal comparison (>=).
	BinaryOpLt    // Less than comparison (<).
	BinaryOpLtEq  // Less than or equal comparison (<=).
	BinaryOpAnd   // Logical AND operation.
	BinaryOpOr    // Logical OR operation.

	BinaryOpAdd // Addition operation (+).
	BinaryOpSub // Subtraction operation (-).
	BinaryOpMul // Multiplication operation (*).
	BinaryOpDiv // Division operation (/).
)

var binaryOpStrings = map[BinaryOp]string{
	BinaryOpInvalid: "invalid",

	BinaryOpEq:    "EQ",
	BinaryOpNotEq: "NEQ",
	BinaryOpGt:    "GT",
	BinaryOpGtEq:  "GTE",
	BinaryOpLt:    "LT",
	BinaryOpLtEq:  "LTE",
	BinaryOpAnd:   "AND",
	BinaryOpOr:    "OR",

	BinaryOpAdd: "ADD",
	BinaryOpSub: "SUB",
	BinaryOpMul: "MUL",
	BinaryOpDiv: "DIV",
}

// String returns a human-readable representation of the binary operation.
func (op BinaryOp) String() string {
	if s, ok := binaryOpStrings[op]; ok {
		return s
	}
	return fmt.Sprintf("BinaryOp(%d)", op)
}

// IsComparison reports whether the operation compares its operands, yielding
// a boolean.
func (op BinaryOp) IsComparison() bool {
	switch op {
	case BinaryOpEq, BinaryOpNotEq, BinaryOpGt, BinaryOpGtEq, BinaryOpLt, BinaryOpLtEq:
		return true
	}
	return false
}

// IsLogical reports whether the operation combines boolean operands.
func (op BinaryOp) IsLogical() bool {
	return op == BinaryOpAnd || op == BinaryOpOr
}

// IsArithmetic reports whether the operation is numeric arithmetic.
func (op BinaryOp) IsArithmetic() bool {
	switch op {
	case BinaryOpAdd, BinaryOpSub, BinaryOpMul, BinaryOpDiv:
		return true
	}
	return false
}

// AggFunc denotes an aggregate function applied over the rows of its input.
type AggFunc int

// Recognized values of [AggFunc].
const (
	// AggFuncInvalid indicates an invalid aggregate function.
	AggFuncInvalid AggFunc = iota

	AggFuncSum   // Summation of the input values.
	AggFuncCount // Count of the input values.
	AggFuncMin   // Minimum of the input values.
	AggFuncMax   // Maximum of the input values.
)

var aggFuncStrings = map[AggFunc]string{
	AggFuncInvalid: "invalid",

	AggFuncSum:   "SUM",
	AggFuncCount: "COUNT",
	AggFuncMin:   "MIN",
	AggFuncMax:   "MAX",
}

// String returns a human-readable representation of the aggregate function.
func (f AggFunc) String() string {
	if s, ok := aggFuncStrings[f]; ok {
		return s
	}
	return fmt.Sprintf("AggFunc(%d)", f)
}
