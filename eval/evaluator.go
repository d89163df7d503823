// Package eval reduces parse trees to exact rational values while keeping
// an ordered log of every dice roll.
package eval

import (
	"fmt"
	"math"
	"math/big"

	"github.com/ivorydice/dicecalc/parser"
	"github.com/ivorydice/dicecalc/random"
)

// Evaluator walks a parse tree depth-first, left to right. It holds no
// mutable state of its own, so one Evaluator can serve concurrent callers
// as long as its Source is safe for concurrent use.
type Evaluator struct {
	source  random.Source
	maxDice int
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithMaxDice caps the dice count of a single dice term. Zero or a negative
// value means no cap.
func WithMaxDice(n int) Option {
	return func(e *Evaluator) {
		e.maxDice = n
	}
}

// New creates an Evaluator drawing dice from source.
func New(source random.Source, opts ...Option) *Evaluator {
	e := &Evaluator{source: source}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Evaluate reduces node to a single Accumulator. Left operands are evaluated,
// and their dice drawn, before right operands.
func (e *Evaluator) Evaluate(node parser.Node) (Accumulator, error) {
	switch n := node.(type) {
	case *parser.IntegerLiteral:
		v, ok := new(big.Int).SetString(n.Digits, 10)
		if !ok {
			return Accumulator{}, fmt.Errorf("%w: integer literal %q", ErrUnknownNode, n.Digits)
		}

		return Accumulator{value: new(big.Rat).SetInt(v)}, nil
	case *parser.DiceTerm:
		return e.roll(n)
	case *parser.Negated:
		inner, err := e.Evaluate(n.Inner)
		if err != nil {
			return Accumulator{}, err
		}

		return inner.MapValue(func(v *big.Rat) *big.Rat { return v.Neg(v) }), nil
	case *parser.BinaryOp:
		combine, err := combinator(n.Op)
		if err != nil {
			return Accumulator{}, err
		}

		left, err := e.Evaluate(n.Left)
		if err != nil {
			return Accumulator{}, err
		}

		right, err := e.Evaluate(n.Right)
		if err != nil {
			return Accumulator{}, err
		}

		return left.MergeWith(right, combine)
	default:
		return Accumulator{}, fmt.Errorf("%w: %T", ErrUnknownNode, node)
	}
}

func (e *Evaluator) roll(n *parser.DiceTerm) (Accumulator, error) {
	count, ok := new(big.Int).SetString(n.Count, 10)
	if !ok {
		return Accumulator{}, fmt.Errorf("%w: dice count %q", ErrUnknownNode, n.Count)
	}

	sides, ok := new(big.Int).SetString(n.Sides, 10)
	if !ok {
		return Accumulator{}, fmt.Errorf("%w: dice sides %q", ErrUnknownNode, n.Sides)
	}

	// Sides are checked first so "0d0" fails like any other zero-sided die.
	if sides.Sign() <= 0 {
		return Accumulator{}, fmt.Errorf("%w: %s", ErrInvalidSides, n)
	}

	if !sides.IsInt64() {
		return Accumulator{}, fmt.Errorf("%w: %s", ErrDieTooLarge, n)
	}

	if count.Sign() < 0 || !count.IsInt64() || count.Int64() > math.MaxInt {
		return Accumulator{}, fmt.Errorf("%w: %s", ErrTooManyDice, n)
	}

	diceCount := int(count.Int64())
	if e.maxDice > 0 && diceCount > e.maxDice {
		return Accumulator{}, fmt.Errorf("%w: %s exceeds the limit of %d", ErrTooManyDice, n, e.maxDice)
	}

	s := sides.Int64()
	rolls := make([]int64, 0, min(diceCount, 1024))

	var total int64
	for range diceCount {
		r := e.source.Roll(s)
		if total > math.MaxInt64-r {
			return Accumulator{}, fmt.Errorf("%w: %s", ErrRollOverflow, n)
		}

		total += r
		rolls = append(rolls, r)
	}

	record := RollRecord{
		DiceCount: diceCount,
		Sides:     s,
		Rolls:     rolls,
		Total:     total,
	}

	return Accumulator{value: new(big.Rat).SetInt64(total), rolls: []RollRecord{record}}, nil
}

func combinator(op parser.Operator) (func(x, y *big.Rat) (*big.Rat, error), error) {
	switch op {
	case parser.Add:
		return func(x, y *big.Rat) (*big.Rat, error) { return x.Add(x, y), nil }, nil
	case parser.Sub:
		return func(x, y *big.Rat) (*big.Rat, error) { return x.Sub(x, y), nil }, nil
	case parser.Mul:
		return func(x, y *big.Rat) (*big.Rat, error) { return x.Mul(x, y), nil }, nil
	case parser.Div:
		return func(x, y *big.Rat) (*big.Rat, error) {
			if y.Sign() == 0 {
				return nil, ErrDivisionByZero
			}

			return x.Quo(x, y), nil
		}, nil
	default:
		return nil, fmt.Errorf("%w: operator %q", ErrUnknownNode, rune(op))
	}
}

// FormatValue renders v as a plain integer when its reduced denominator is
// 1 and as "numerator/denominator" otherwise. It never produces a decimal.
func FormatValue(v *big.Rat) string {
	if v.IsInt() {
		return v.Num().String()
	}

	return v.Num().String() + "/" + v.Denom().String()
}
