// Package parser turns SQL text into an AST. It understands single-table
// SELECT statements with optional WHERE and GROUP BY clauses, which is the
// surface the planner knows how to turn into a plan.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quiverdb/quiver/pkg/types"
)

// comparisonOps maps operator token values to binary operations.
var comparisonOps = map[string]types.BinaryOp{
	"=":  types.BinaryOpEq,
	"!=": types.BinaryOpNotEq,
	"<>": types.BinaryOpNotEq,
	"<":  types.BinaryOpLt,
	"<=": types.BinaryOpLtEq,
	">":  types.BinaryOpGt,
	">=": types.BinaryOpGtEq,
}

// Parser builds an AST from the token stream of a [Lexer].
type Parser struct {
	lex  *Lexer
	cur  Token
	peek Token
}

// Parse parses a single SQL statement and reports an error if any input
// remains after it.
func Parse(sql string) (Statement, error) {
	return NewParser(NewLexer(sql)).ParseStatement()
}

// NewParser creates a Parser reading from the given lexer.
func NewParser(lex *Lexer) *Parser {
	p := &Parser{lex: lex}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) expect(tt TokenType) (Token, error) {
	if p.cur.Type != tt {
		return Token{}, fmt.Errorf("expected %s, got %s at position %d", tt, p.cur.Type, p.cur.Position)
	}
	tok := p.cur
	p.advance()
	return tok, nil
}

// ParseStatement parses one statement, optionally terminated by a semicolon.
func (p *Parser) ParseStatement() (Statement, error) {
	stmt, err := p.parseSelect()
	if err != nil {
		return nil, err
	}
	if p.cur.Type == SEMICOLON {
		p.advance()
	}
	if p.cur.Type != EOF {
		return nil, fmt.Errorf("unexpected %s after end of statement at position %d", p.cur.Type, p.cur.Position)
	}
	return stmt, nil
}

func (p *Parser) parseSelect() (*SelectStatement, error) {
	if _, err := p.expect(SELECT); err != nil {
		return nil, err
	}

	items, err := p.parseExprList()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(FROM); err != nil {
		return nil, err
	}
	from, err := p.parseTableName()
	if err != nil {
		return nil, err
	}

	stmt := &SelectStatement{Items: items, From: from}

	if p.cur.Type == WHERE {
		p.advance()
		stmt.Where, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}

	if p.cur.Type == GROUP {
		p.advance()
		if _, err := p.expect(BY); err != nil {
			return nil, err
		}
		stmt.GroupBy, err = p.parseExprList()
		if err != nil {
			return nil, err
		}
	}

	return stmt, nil
}

// parseTableName parses a dot-separated table reference, keeping every
// component in source order.
func (p *Parser) parseTableName() (TableName, error) {
	tok, err := p.expect(IDENTIFIER)
	if err != nil {
		return TableName{}, err
	}
	parts := []string{tok.Value}
	for p.cur.Type == DOT {
		p.advance()
		tok, err := p.expect(IDENTIFIER)
		if err != nil {
			return TableName{}, err
		}
		parts = append(parts, tok.Value)
	}
	return TableName{Parts: parts}, nil
}

func (p *Parser) parseExprList() ([]Expr, error) {
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	exprs := []Expr{expr}
	for p.cur.Type == COMMA {
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

// parseExpr parses an expression. Precedence, loosest first:
// OR, AND, comparison, additive, multiplicative, unary.
func (p *Parser) parseExpr() (Expr, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == OR {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: types.BinaryOpOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == AND {
		p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: types.BinaryOpAnd, Left: left, Right: right}
	}
	return left, nil
}

// parseComparison parses at most one comparison; comparisons do not chain.
func (p *Parser) parseComparison() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != OPERATOR {
		return left, nil
	}
	op, ok := comparisonOps[p.cur.Value]
	if !ok {
		return nil, fmt.Errorf("unsupported operator %q at position %d", p.cur.Value, p.cur.Position)
	}
	p.advance()
	right, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	return &BinaryExpr{Op: op, Left: left, Right: right}, nil
}

func (p *Parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == PLUS || p.cur.Type == MINUS {
		op := types.BinaryOpAdd
		if p.cur.Type == MINUS {
			op = types.BinaryOpSub
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == ASTERISK || p.cur.Type == SLASH {
		op := types.BinaryOpMul
		if p.cur.Type == SLASH {
			op = types.BinaryOpDiv
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

// parseUnary folds a leading minus into the numeric literal that follows it.
func (p *Parser) parseUnary() (Expr, error) {
	if p.cur.Type != MINUS {
		return p.parsePrimary()
	}
	pos := p.cur.Position
	p.advance()
	if p.cur.Type != NUMBER {
		return nil, fmt.Errorf("expected number after - at position %d", pos)
	}
	expr, err := p.parseNumber()
	if err != nil {
		return nil, err
	}
	switch lit := expr.(type) {
	case *IntegerLit:
		lit.Value = -lit.Value
	case *FloatLit:
		lit.Value = -lit.Value
	}
	return expr, nil
}

func (p *Parser) parsePrimary() (Expr, error) {
	switch p.cur.Type {
	case NUMBER:
		return p.parseNumber()

	case STRING:
		value := p.cur.Value
		p.advance()
		return &StringLit{Value: value}, nil

	case TRUE:
		p.advance()
		return &BoolLit{Value: true}, nil

	case FALSE:
		p.advance()
		return &BoolLit{Value: false}, nil

	case CAST:
		return p.parseCast()

	case IDENTIFIER:
		return p.parseIdentifier()

	case LPAREN:
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return expr, nil

	case INVALID:
		return nil, fmt.Errorf("invalid token %q at position %d", p.cur.Value, p.cur.Position)

	default:
		return nil, fmt.Errorf("unexpected %s at position %d", p.cur.Type, p.cur.Position)
	}
}

func (p *Parser) parseNumber() (Expr, error) {
	tok := p.cur
	p.advance()
	if strings.Contains(tok.Value, ".") {
		value, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q at position %d", tok.Value, tok.Position)
		}
		return &FloatLit{Value: value}, nil
	}
	value, err := strconv.ParseInt(tok.Value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q at position %d", tok.Value, tok.Position)
	}
	return &IntegerLit{Value: value}, nil
}

// parseCast parses CAST(expr AS type).
func (p *Parser) parseCast() (Expr, error) {
	p.advance()
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(AS); err != nil {
		return nil, err
	}
	name, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return &CastExpr{Expr: expr, TypeName: name.Value}, nil
}

// parseIdentifier parses a column reference or a function call.
func (p *Parser) parseIdentifier() (Expr, error) {
	tok := p.cur
	p.advance()

	switch p.cur.Type {
	case DOT:
		return nil, fmt.Errorf("qualified column reference %q is not supported at position %d", tok.Value, tok.Position)

	case LPAREN:
		p.advance()
		call := &FuncCall{Name: tok.Value}
		if p.cur.Type == ASTERISK {
			call.Star = true
			p.advance()
		} else if p.cur.Type != RPAREN {
			args, err := p.parseExprList()
			if err != nil {
				return nil, err
			}
			call.Args = args
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return call, nil

	default:
		return &Ident{Name: tok.Value}, nil
	}
}
