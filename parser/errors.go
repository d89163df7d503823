package parser

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrInvalidExpression is wrapped by every ParseError.
	ErrInvalidExpression = errors.New("invalid expression")
	ErrEmptyExpression   = errors.New("empty expression")
	ErrUnexpectedToken   = errors.New("unexpected token")
	ErrTrailingInput     = errors.New("unexpected trailing input")
	ErrUnexpectedEnd     = errors.New("unexpected end of input")
)

// ParseError reports that the input does not fully match the grammar.
// Input is the original text, unmodified.
type ParseError struct {
	Input  string
	Offset int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s %q: %v", ErrInvalidExpression, e.Input, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrInvalidExpression, e.Err}
}
