package parser

import (
	"strings"
	"unicode"
)

// keywords maps uppercase SQL keyword strings to their token types. Keyword
// matching is case-insensitive; the input itself keeps its original case.
var keywords = map[string]TokenType{
	"SELECT": SELECT,
	"FROM":   FROM,
	"WHERE":  WHERE,
	"GROUP":  GROUP,
	"BY":     BY,
	"AND":    AND,
	"OR":     OR,
	"CAST":   CAST,
	"AS":     AS,
	"TRUE":   TRUE,
	"FALSE":  FALSE,
}

// singleCharTokens maps single-byte punctuation to their token types.
var singleCharTokens = map[byte]TokenType{
	',': COMMA,
	'.': DOT,
	';': SEMICOLON,
	'(': LPAREN,
	')': RPAREN,
	'*': ASTERISK,
	'+': PLUS,
	'-': MINUS,
	'/': SLASH,
}

// Lexer performs lexical analysis on a SQL input string, breaking it into a
// sequence of tokens.
type Lexer struct {
	input  string
	pos    int
	length int
}

// NewLexer creates a new Lexer for the given SQL input string.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		length: len(input),
	}
}

// NextToken scans and returns the next token from the input. It skips leading
// whitespace and returns an EOF token when the input is exhausted.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	if l.pos >= l.length {
		return Token{Type: EOF, Position: l.pos}
	}

	start := l.pos
	ch := l.input[l.pos]

	if tt, ok := singleCharTokens[ch]; ok {
		l.pos++
		return Token{Type: tt, Value: string(ch), Position: start}
	}

	switch {
	case isOperatorChar(ch):
		return l.readOperator(start)
	case ch == '\'':
		return l.readString(start)
	case unicode.IsDigit(rune(ch)):
		return l.readNumber(start)
	case isIdentStart(ch):
		return l.readIdentifier(start)
	default:
		l.pos++
		return Token{Type: INVALID, Value: string(ch), Position: start}
	}
}

func isOperatorChar(ch byte) bool {
	return ch == '=' || ch == '<' || ch == '>' || ch == '!'
}

func isIdentStart(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || ch == '_'
}

func isIdentChar(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || unicode.IsDigit(rune(ch)) || ch == '_'
}

// skipWhitespace advances the position past any whitespace characters.
func (l *Lexer) skipWhitespace() {
	for l.pos < l.length && unicode.IsSpace(rune(l.input[l.pos])) {
		l.pos++
	}
}

// readOperator reads a comparison operator token (=, !=, <>, <, <=, >, >=).
func (l *Lexer) readOperator(start int) Token {
	for l.pos < l.length && isOperatorChar(l.input[l.pos]) {
		l.pos++
	}
	return Token{Type: OPERATOR, Value: l.input[start:l.pos], Position: start}
}

// readString reads a string literal delimited by single quotes. A doubled
// quote inside the literal denotes a literal quote character.
func (l *Lexer) readString(start int) Token {
	l.pos++ // skip opening quote

	var sb strings.Builder
	for l.pos < l.length {
		ch := l.input[l.pos]
		if ch == '\'' {
			if l.pos+1 < l.length && l.input[l.pos+1] == '\'' {
				sb.WriteByte('\'')
				l.pos += 2
				continue
			}
			l.pos++
			return Token{Type: STRING, Value: sb.String(), Position: start}
		}
		sb.WriteByte(ch)
		l.pos++
	}

	// Unterminated literal.
	return Token{Type: INVALID, Value: l.input[start:], Position: start}
}

// readNumber reads a numeric literal with an optional fractional part.
func (l *Lexer) readNumber(start int) Token {
	for l.pos < l.length && unicode.IsDigit(rune(l.input[l.pos])) {
		l.pos++
	}
	if l.pos+1 < l.length && l.input[l.pos] == '.' && unicode.IsDigit(rune(l.input[l.pos+1])) {
		l.pos++
		for l.pos < l.length && unicode.IsDigit(rune(l.input[l.pos])) {
			l.pos++
		}
	}
	return Token{Type: NUMBER, Value: l.input[start:l.pos], Position: start}
}

// readIdentifier reads an identifier or keyword token.
func (l *Lexer) readIdentifier(start int) Token {
	for l.pos < l.length && isIdentChar(l.input[l.pos]) {
		l.pos++
	}
	value := l.input[start:l.pos]
	if tt, ok := keywords[strings.ToUpper(value)]; ok {
		return Token{Type: tt, Value: value, Position: start}
	}
	return Token{Type: IDENTIFIER, Value: value, Position: start}
}
