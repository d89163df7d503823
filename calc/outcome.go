package calc

import (
	"strconv"
	"strings"

	"github.com/ivorydice/dicecalc/eval"
)

// Status classifies how a calculation ended.
type Status string

const (
	StatusOK            Status = "ok"
	StatusParseFailed   Status = "parse_failed"
	StatusComputeFailed Status = "compute_failed"
	StatusRejected      Status = "rejected"
)

// Outcome is the result of one calculation. Text is always set and is
// exactly what gets shown to the user.
type Outcome struct {
	Expression string
	Status     Status
	Value      string
	Rolls      []eval.RollRecord
	Text       string
	Err        error
}

// OK reports whether the expression was evaluated.
func (o Outcome) OK() bool {
	return o.Status == StatusOK
}

// FailureMessage quotes expr in backticks followed by reason, the shape of
// every reply that carries no value.
func FailureMessage(expr, reason string) string {
	return "`" + expr + "` => " + reason
}

// ParseFailureMessage is shown when expr does not match the grammar.
func ParseFailureMessage(expr string) string {
	return FailureMessage(expr, "could not be parsed")
}

// ComputeFailureMessage is shown when expr parsed but could not be
// evaluated, division by zero included.
func ComputeFailureMessage(expr string) string {
	return FailureMessage(expr, "parsed but could not be computed")
}

// RenderRoll formats one roll record as "3d6 => 4+2+6 => 12".
func RenderRoll(r eval.RollRecord) string {
	var b strings.Builder

	b.WriteString(strconv.Itoa(r.DiceCount))
	b.WriteByte('d')
	b.WriteString(strconv.FormatInt(r.Sides, 10))
	b.WriteString(" => ")

	for i, v := range r.Rolls {
		if i > 0 {
			b.WriteByte('+')
		}

		b.WriteString(strconv.FormatInt(v, 10))
	}

	b.WriteString(" => ")
	b.WriteString(strconv.FormatInt(r.Total, 10))

	return b.String()
}

// Render builds the display text: one line per roll in log order, then
// "<expr> => <value>". Lines are separated by "\n" with no trailing newline.
func Render(expr string, acc eval.Accumulator) string {
	var b strings.Builder

	for _, r := range acc.Rolls() {
		b.WriteString(RenderRoll(r))
		b.WriteByte('\n')
	}

	b.WriteString(expr)
	b.WriteString(" => ")
	b.WriteString(eval.FormatValue(acc.Value()))

	return b.String()
}
