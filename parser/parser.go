// Package parser builds parse trees for dice expressions such as
// "10d10-5+2/(2d2+6)".
//
// Grammar, lowest precedence first:
//
//	sum      := product (('+' | '-') product)*
//	product  := operand (('*' | '/') operand)*
//	operand  := diceTerm | integer | '(' sum ')' | '-' sum
//	diceTerm := digits ('d' | 'D') digits
//	integer  := digits
//
// Operand alternatives are tried in the order listed. Unary minus takes a
// whole sum, not a single operand, so it negates everything up to the next
// unmatched ')' or the end of input: "-2+3" is -(2+3) and "3+-2+5" is
// 3+(-(2+5)). This differs from conventional unary minus precedence;
// write "(-2)+3" for the usual reading.
//
// No whitespace is accepted anywhere.
package parser

import (
	"fmt"
	"slices"

	tok "github.com/ivorydice/dicecalc/tokenizer"
	pc "github.com/shibukawa/parsercombinator"
)

// Entity is the value carried by parser combinator tokens. Raw tokens only
// have Original; reduced tokens also carry Node.
type Entity struct {
	Original tok.Token
	Node     Node
}

// progress remembers the furthest token a primitive matcher was asked to
// match during one parse. Failures are reported there.
type progress struct {
	total    int
	furthest int
}

func (p *progress) reached(remaining int) {
	p.furthest = max(p.furthest, p.total-remaining)
}

func newGrammar(p *progress) pc.Parser[Entity] {
	var expression pc.Parser[Entity]

	lazySum := pc.Lazy(func() pc.Parser[Entity] { return expression })

	diceTerm := pc.Trans(
		pc.Seq(p.match("number", tok.NUMBER), p.match("die", tok.DIE), p.match("number", tok.NUMBER)),
		func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) ([]pc.Token[Entity], error) {
			count := tokens[0].Val.Original
			return nodeToken(tokens[0], &DiceTerm{
				Count:  count.Value,
				Sides:  tokens[2].Val.Original.Value,
				Offset: count.Position.Offset,
			}), nil
		},
	)

	integer := pc.Trans(
		p.match("number", tok.NUMBER),
		func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) ([]pc.Token[Entity], error) {
			digits := tokens[0].Val.Original
			return nodeToken(tokens[0], &IntegerLiteral{
				Digits: digits.Value,
				Offset: digits.Position.Offset,
			}), nil
		},
	)

	paren := pc.Trans(
		pc.Seq(p.match("parenOpen", tok.OPENED_PARENS), lazySum, p.match("parenClose", tok.CLOSED_PARENS)),
		func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) ([]pc.Token[Entity], error) {
			return tokens[1:2], nil
		},
	)

	negation := pc.Trans(
		pc.Seq(p.match("minus", tok.MINUS), lazySum),
		func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) ([]pc.Token[Entity], error) {
			return nodeToken(tokens[0], &Negated{
				Inner:  tokens[1].Val.Node,
				Offset: tokens[0].Val.Original.Position.Offset,
			}), nil
		},
	)

	operand := pc.Trace("operand", pc.Or(diceTerm, integer, paren, negation))

	product := pc.Trace("product", pc.Trans(
		pc.Seq(operand, pc.ZeroOrMore("product tail", pc.Seq(p.match("productOperator", tok.MULTIPLY, tok.DIVIDE), operand))),
		foldLeft,
	))

	expression = pc.Trace("sum", pc.Trans(
		pc.Seq(product, pc.ZeroOrMore("sum tail", pc.Seq(p.match("sumOperator", tok.PLUS, tok.MINUS), product))),
		foldLeft,
	))

	return expression
}

// Parse parses text into a tree. Any failure is a *ParseError positioned at
// the furthest token the grammar could not match.
func Parse(text string) (Node, error) {
	tokens, err := tok.NewExpressionTokenizer(text).AllTokens()
	if err != nil {
		offset := 0
		if len(tokens) > 0 {
			last := tokens[len(tokens)-1]
			offset = last.Position.Offset + len(last.Value)
		}

		return nil, &ParseError{Input: text, Offset: offset, Err: err}
	}

	entities := toEntities(tokens)
	if len(entities) == 0 {
		return nil, &ParseError{Input: text, Err: ErrEmptyExpression}
	}

	p := &progress{total: len(entities)}

	pctx := pc.NewParseContext[Entity]()
	pctx.OrMode = pc.OrModeTryFast

	consumed, result, err := newGrammar(p)(pctx, entities)
	if err == nil && len(result) == 1 && consumed == len(entities) {
		return result[0].Val.Node, nil
	}

	stop := p.furthest
	kind := ErrUnexpectedToken

	if err == nil && len(result) == 1 {
		stop = max(stop, consumed)
		if stop == consumed {
			kind = ErrTrailingInput
		}
	}

	if stop >= len(entities) {
		return nil, &ParseError{
			Input:  text,
			Offset: len(text),
			Err:    fmt.Errorf("%w at column %d", ErrUnexpectedEnd, len(text)+1),
		}
	}

	return nil, unexpectedToken(text, entities[stop].Val.Original, kind)
}

func unexpectedToken(text string, token tok.Token, kind error) *ParseError {
	return &ParseError{
		Input:  text,
		Offset: token.Position.Offset,
		Err:    fmt.Errorf("%w: %s %q at column %d", kind, token.Type, token.Value, token.Position.Column),
	}
}

// foldLeft reduces "operand (op operand)*" into left-associative BinaryOps.
func foldLeft(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) ([]pc.Token[Entity], error) {
	left := tokens[0].Val.Node
	for i := 1; i+1 < len(tokens); i += 2 {
		left = &BinaryOp{
			Op:     Operator(tokens[i].Val.Original.Value[0]),
			Left:   left,
			Right:  tokens[i+1].Val.Node,
			Offset: left.Pos(),
		}
	}

	return nodeToken(tokens[0], left), nil
}

func nodeToken(first pc.Token[Entity], node Node) []pc.Token[Entity] {
	return []pc.Token[Entity]{
		{
			Type: "node",
			Pos:  first.Pos,
			Val:  Entity{Original: first.Val.Original, Node: node},
			Raw:  node.String(),
		},
	}
}

func toEntities(tokens []tok.Token) []pc.Token[Entity] {
	results := make([]pc.Token[Entity], 0, len(tokens))
	for _, token := range tokens {
		if token.Type == tok.EOF {
			continue
		}

		results = append(results, pc.Token[Entity]{
			Type: "raw",
			Pos: &pc.Pos{
				Line:  1,
				Col:   token.Position.Column,
				Index: token.Position.Offset,
			},
			Val: Entity{Original: token},
			Raw: token.Value,
		})
	}

	return results
}

// match accepts one token of the given types and records how far the
// parse got when it does not.
func (p *progress) match(name string, types ...tok.TokenType) pc.Parser[Entity] {
	return pc.Trace(name, func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		if len(tokens) > 0 && slices.Contains(types, tokens[0].Val.Original.Type) {
			return 1, tokens[:1], nil
		}

		p.reached(len(tokens))

		return 0, nil, pc.ErrNotMatch
	})
}
