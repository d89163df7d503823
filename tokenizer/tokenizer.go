package tokenizer

import (
	"fmt"
	"iter"
	"unicode/utf8"
)

// TokenIterator yields tokens until EOF or the first error.
type TokenIterator iter.Seq2[Token, error]

// ExpressionTokenizer splits a dice expression into tokens.
type ExpressionTokenizer struct {
	input string
}

// NewExpressionTokenizer creates a new ExpressionTokenizer
func NewExpressionTokenizer(input string) *ExpressionTokenizer {
	return &ExpressionTokenizer{input: input}
}

// Tokens returns an iterator of tokens. The last token is always EOF unless
// an error is yielded, in which case iteration stops after the error.
func (t *ExpressionTokenizer) Tokens() TokenIterator {
	return func(yield func(Token, error) bool) {
		tokenizer := &tokenizer{input: t.input}

		for {
			token, err := tokenizer.nextToken()
			if err != nil {
				yield(Token{}, err)
				return
			}

			if !yield(token, nil) {
				return
			}

			if token.Type == EOF {
				return
			}
		}
	}
}

// AllTokens collects every token including the trailing EOF.
func (t *ExpressionTokenizer) AllTokens() ([]Token, error) {
	tokens := make([]Token, 0, len(t.input)+1)

	for token, err := range t.Tokens() {
		if err != nil {
			return tokens, err
		}

		tokens = append(tokens, token)
	}

	return tokens, nil
}

type tokenizer struct {
	input    string
	position int
}

func (t *tokenizer) nextToken() (Token, error) {
	if t.position >= len(t.input) {
		return t.newToken(EOF, t.position, t.position), nil
	}

	start := t.position
	c := t.input[t.position]

	switch c {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		for t.position < len(t.input) && isSpace(t.input[t.position]) {
			t.position++
		}

		return t.newToken(WHITESPACE, start, t.position), nil
	case '(':
		t.position++
		return t.newToken(OPENED_PARENS, start, t.position), nil
	case ')':
		t.position++
		return t.newToken(CLOSED_PARENS, start, t.position), nil
	case '+':
		t.position++
		return t.newToken(PLUS, start, t.position), nil
	case '-':
		t.position++
		return t.newToken(MINUS, start, t.position), nil
	case '*':
		t.position++
		return t.newToken(MULTIPLY, start, t.position), nil
	case '/':
		t.position++
		return t.newToken(DIVIDE, start, t.position), nil
	case 'd', 'D':
		t.position++
		return t.newToken(DIE, start, t.position), nil
	}

	if isDigit(c) {
		for t.position < len(t.input) && isDigit(t.input[t.position]) {
			t.position++
		}

		return t.newToken(NUMBER, start, t.position), nil
	}

	r, _ := utf8.DecodeRuneInString(t.input[start:])

	return Token{}, fmt.Errorf("%w: %q at column %d", ErrUnexpectedCharacter, r, start+1)
}

func (t *tokenizer) newToken(tokenType TokenType, start, end int) Token {
	return Token{
		Type:  tokenType,
		Value: t.input[start:end],
		Position: Position{
			Offset: start,
			Column: start + 1,
		},
	}
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	}

	return false
}
