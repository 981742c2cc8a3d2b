package parser

// TokenType denotes the kind of a lexical token.
type TokenType int

// Recognized values of [TokenType].
const (
	SELECT TokenType = iota
	FROM
	WHERE
	GROUP
	BY
	AND
	OR
	CAST
	AS
	TRUE
	FALSE

	IDENTIFIER
	NUMBER
	STRING
	OPERATOR

	COMMA
	DOT
	SEMICOLON
	LPAREN
	RPAREN
	ASTERISK
	PLUS
	MINUS
	SLASH

	INVALID
	EOF
)

var tokenTypeNames = map[TokenType]string{
	SELECT: "SELECT",
	FROM:   "FROM",
	WHERE:  "WHERE",
	GROUP:  "GROUP",
	BY:     "BY",
	AND:    "AND",
	OR:     "OR",
	CAST:   "CAST",
	AS:     "AS",
	TRUE:   "TRUE",
	FALSE:  "FALSE",

	IDENTIFIER: "identifier",
	NUMBER:     "number",
	STRING:     "string",
	OPERATOR:   "operator",

	COMMA:     ",",
	DOT:       ".",
	SEMICOLON: ";",
	LPAREN:    "(",
	RPAREN:    ")",
	ASTERISK:  "*",
	PLUS:      "+",
	MINUS:     "-",
	SLASH:     "/",

	INVALID: "invalid",
	EOF:     "end of input",
}

// String returns a human-readable name for the token type.
func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Token is a single lexical token with its position in the input.
type Token struct {
	Type     TokenType
	Value    string
	Position int
}
