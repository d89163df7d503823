// Package calc turns expression text into display text: parse, evaluate,
// render, and map every failure to a fixed message.
package calc

import (
	"errors"
	"fmt"

	"github.com/ivorydice/dicecalc/eval"
	"github.com/ivorydice/dicecalc/parser"
	"go.uber.org/zap"
)

// ErrPanic marks an Outcome produced from a recovered panic.
var ErrPanic = errors.New("calculation panicked")

// Handler runs calculations. It is safe for concurrent use when its
// evaluator's random source is.
type Handler struct {
	evaluator *eval.Evaluator
	logger    *zap.Logger
	parse     func(string) (parser.Node, error)
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// New creates a Handler.
func New(evaluator *eval.Evaluator, opts ...Option) *Handler {
	h := &Handler{
		evaluator: evaluator,
		logger:    zap.NewNop(),
		parse:     parser.Parse,
	}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Calculate returns the display text for expr. It never fails.
func (h *Handler) Calculate(expr string) string {
	return h.Run(expr).Text
}

// Run evaluates expr and reports the full outcome.
func (h *Handler) Run(expr string) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("calculation panicked", zap.String("expression", expr), zap.Any("panic", r))
			outcome = Outcome{
				Expression: expr,
				Status:     StatusComputeFailed,
				Text:       ComputeFailureMessage(expr),
				Err:        fmt.Errorf("%w: %v", ErrPanic, r),
			}
		}
	}()

	node, err := h.parse(expr)
	if err != nil {
		h.logger.Debug("expression could not be parsed", zap.String("expression", expr), zap.Error(err))

		return Outcome{
			Expression: expr,
			Status:     StatusParseFailed,
			Text:       ParseFailureMessage(expr),
			Err:        err,
		}
	}

	acc, err := h.evaluator.Evaluate(node)
	if err != nil {
		if errors.Is(err, eval.ErrUnknownNode) {
			h.logger.Error("parse tree not recognized by evaluator",
				zap.String("expression", expr),
				zap.Stringer("tree", node),
				zap.Error(err))
		} else {
			h.logger.Debug("expression could not be computed", zap.String("expression", expr), zap.Error(err))
		}

		return Outcome{
			Expression: expr,
			Status:     StatusComputeFailed,
			Text:       ComputeFailureMessage(expr),
			Err:        err,
		}
	}

	rolls := acc.Rolls()
	h.logger.Debug("expression computed", zap.String("expression", expr), zap.Int("roll_groups", len(rolls)))

	return Outcome{
		Expression: expr,
		Status:     StatusOK,
		Value:      eval.FormatValue(acc.Value()),
		Rolls:      rolls,
		Text:       Render(expr, acc),
	}
}
