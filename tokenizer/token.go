package tokenizer

import "errors"

// Sentinel errors
var (
	ErrUnexpectedCharacter = errors.New("unexpected character")
)

// TokenType represents the type of a token
type TokenType int

const (
	EOF TokenType = iota
	WHITESPACE
	NUMBER        // decimal digits
	DIE           // d, D
	OPENED_PARENS // (
	CLOSED_PARENS // )

	// Arithmetic operators
	PLUS     // +
	MINUS    // -
	MULTIPLY // *
	DIVIDE   // /
)

// String returns the string representation of TokenType
func (t TokenType) String() string {
	switch t {
	case EOF:
		return "EOF"
	case WHITESPACE:
		return "WHITESPACE"
	case NUMBER:
		return "NUMBER"
	case DIE:
		return "DIE"
	case OPENED_PARENS:
		return "OPENED_PARENS"
	case CLOSED_PARENS:
		return "CLOSED_PARENS"
	case PLUS:
		return "PLUS"
	case MINUS:
		return "MINUS"
	case MULTIPLY:
		return "MULTIPLY"
	case DIVIDE:
		return "DIVIDE"
	default:
		return "UNKNOWN"
	}
}

// Position represents a position in the expression.
// Offset is the 0-based byte offset, Column is 1-based.
type Position struct {
	Offset int
	Column int
}

// Token represents a token
type Token struct {
	Type     TokenType
	Value    string
	Position Position
}

// String returns the string representation of Token
func (t Token) String() string {
	return t.Type.String() + ": " + t.Value
}
