package eval

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/ivorydice/dicecalc/parser"
	"github.com/ivorydice/dicecalc/random"
)

func evaluate(t *testing.T, src random.Source, text string, opts ...Option) (Accumulator, error) {
	t.Helper()

	node, err := parser.Parse(text)
	assert.NoError(t, err)

	return New(src, opts...).Evaluate(node)
}

func TestEvaluate_Arithmetic(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1+2", "3"},
		{"7-10", "-3"},
		{"6*7", "42"},
		{"1+2*3", "7"},
		{"(1+2)*3", "9"},
		{"8/4/2", "1"},
		{"2/4", "1/2"},
		{"1/3+1/6", "1/2"},
		{"10/4*2", "5"},
		{"-2+3", "-5"},
		{"3+-2+5", "-4"},
		{"3+-2", "1"},
		{"(-2)+3", "1"},
		{"--4", "4"},
		{"-1/3", "-1/3"},
		{"99999999999999999999+1", "100000000000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			acc, err := evaluate(t, random.NewSequence(), tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, FormatValue(acc.Value()))
			assert.Equal(t, 0, len(acc.Rolls()))
		})
	}
}

func TestEvaluate_SumOfNonNegatives(t *testing.T) {
	for a := int64(0); a < 30; a += 7 {
		for b := int64(0); b < 30; b += 5 {
			acc, err := evaluate(t, random.NewSequence(), fmt.Sprintf("%d+%d", a, b))
			assert.NoError(t, err)
			assert.Equal(t, fmt.Sprint(a+b), FormatValue(acc.Value()))
		}
	}
}

func TestEvaluate_DivisionIsReduced(t *testing.T) {
	for a := int64(0); a <= 12; a++ {
		for b := int64(1); b <= 12; b++ {
			acc, err := evaluate(t, random.NewSequence(), fmt.Sprintf("%d/%d", a, b))
			assert.NoError(t, err)
			assert.Equal(t, big.NewRat(a, b).RatString(), FormatValue(acc.Value()))
		}
	}
}

func TestEvaluate_Dice(t *testing.T) {
	acc, err := evaluate(t, random.NewSequence(4, 2, 6), "3d6")
	assert.NoError(t, err)

	assert.Equal(t, "12", FormatValue(acc.Value()))
	assert.Equal(t, []RollRecord{
		{DiceCount: 3, Sides: 6, Rolls: []int64{4, 2, 6}, Total: 12},
	}, acc.Rolls())
}

func TestEvaluate_OneSidedDie(t *testing.T) {
	acc, err := evaluate(t, random.New(5), "1d1")
	assert.NoError(t, err)

	assert.Equal(t, "1", FormatValue(acc.Value()))
	assert.Equal(t, []RollRecord{
		{DiceCount: 1, Sides: 1, Rolls: []int64{1}, Total: 1},
	}, acc.Rolls())
}

func TestEvaluate_ZeroDice(t *testing.T) {
	acc, err := evaluate(t, random.NewSequence(3), "0d6+1")
	assert.NoError(t, err)

	assert.Equal(t, "1", FormatValue(acc.Value()))

	rolls := acc.Rolls()
	assert.Equal(t, 1, len(rolls))
	assert.Equal(t, 0, rolls[0].DiceCount)
	assert.Equal(t, int64(6), rolls[0].Sides)
	assert.Equal(t, 0, len(rolls[0].Rolls))
	assert.Equal(t, int64(0), rolls[0].Total)
}

func TestEvaluate_RollOrder(t *testing.T) {
	// The 1d4 draws 3 and the 1d6 draws 1: log order follows the tree, not
	// the totals.
	acc, err := evaluate(t, random.NewSequence(3, 1), "(1d4)+(1d6)")
	assert.NoError(t, err)

	assert.Equal(t, []RollRecord{
		{DiceCount: 1, Sides: 4, Rolls: []int64{3}, Total: 3},
		{DiceCount: 1, Sides: 6, Rolls: []int64{1}, Total: 1},
	}, acc.Rolls())
}

func TestEvaluate_NegationKeepsRolls(t *testing.T) {
	// -(1d6-2d6) = -(2-6)
	acc, err := evaluate(t, random.NewSequence(2, 5, 1), "-1d6-2d6")
	assert.NoError(t, err)

	assert.Equal(t, "4", FormatValue(acc.Value()))
	assert.Equal(t, []RollRecord{
		{DiceCount: 1, Sides: 6, Rolls: []int64{2}, Total: 2},
		{DiceCount: 2, Sides: 6, Rolls: []int64{5, 1}, Total: 6},
	}, acc.Rolls())
}

func TestEvaluate_MixedExpression(t *testing.T) {
	// 10d10 draws 1..10, 2d2 draws 1 and 2.
	src := random.NewSequence(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 1, 2)

	acc, err := evaluate(t, src, "10d10-5+2/(2d2+6)")
	assert.NoError(t, err)

	// 55 - 5 + 2/9
	assert.Equal(t, "452/9", FormatValue(acc.Value()))
	assert.Equal(t, 2, len(acc.Rolls()))
	assert.Equal(t, int64(55), acc.Rolls()[0].Total)
	assert.Equal(t, []int64{1, 2}, acc.Rolls()[1].Rolls)
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		opts    []Option
		wantErr error
	}{
		{name: "division by zero", input: "5/0", wantErr: ErrDivisionByZero},
		{name: "division by zero expression", input: "5/(2-2)", wantErr: ErrDivisionByZero},
		{name: "zero sided die", input: "2d0", wantErr: ErrInvalidSides},
		{name: "zero dice with zero sides", input: "0d0", wantErr: ErrInvalidSides},
		{name: "too many sides", input: "1d99999999999999999999", wantErr: ErrDieTooLarge},
		{name: "dice count beyond int", input: "99999999999999999999d6", wantErr: ErrTooManyDice},
		{name: "dice count above cap", input: "11d6", opts: []Option{WithMaxDice(10)}, wantErr: ErrTooManyDice},
		{name: "overflowing total", input: "3d9223372036854775807", wantErr: ErrRollOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := evaluate(t, random.NewSequence(9223372036854775807), tt.input, tt.opts...)
			assert.IsError(t, err, tt.wantErr)
			assert.IsError(t, err, ErrEvaluation)
		})
	}
}

func TestEvaluate_CapAllowsLimit(t *testing.T) {
	acc, err := evaluate(t, random.NewSequence(1), "10d6", WithMaxDice(10))
	assert.NoError(t, err)
	assert.Equal(t, "10", FormatValue(acc.Value()))
}

func TestEvaluate_DivisionByZeroDrawsLeftFirst(t *testing.T) {
	src := random.NewSequence(4, 6)

	_, err := evaluate(t, src, "1d6/(1d6-6)")
	assert.IsError(t, err, ErrDivisionByZero)
}

type bogusNode struct{ parser.Node }

func TestEvaluate_UnknownNode(t *testing.T) {
	e := New(random.NewSequence())

	_, err := e.Evaluate(nil)
	assert.IsError(t, err, ErrUnknownNode)

	_, err = e.Evaluate(&parser.BinaryOp{Op: '%', Left: &parser.IntegerLiteral{Digits: "1"}, Right: &parser.IntegerLiteral{Digits: "2"}})
	assert.IsError(t, err, ErrUnknownNode)

	_, err = e.Evaluate(&parser.IntegerLiteral{Digits: "x"})
	assert.IsError(t, err, ErrUnknownNode)

	_, err = e.Evaluate(bogusNode{})
	assert.IsError(t, err, ErrUnknownNode)
}
