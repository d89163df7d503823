// Package router recognizes calculator commands in chat messages and
// delivers the reply. It knows nothing about users or channels.
package router

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ivorydice/dicecalc/calc"
	"go.uber.org/zap"
)

// DefaultPrefix is the command word recognized when no prefix is configured.
const DefaultPrefix = "$calc"

var (
	ErrExpressionTooLong = errors.New("expression is too long")
	ErrEmptyPrefix       = errors.New("command prefix must not be empty")
	ErrSend              = errors.New("failed to send reply")
)

// Sink receives reply text.
type Sink interface {
	Send(ctx context.Context, text string) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, text string) error

func (f SinkFunc) Send(ctx context.Context, text string) error {
	return f(ctx, text)
}

// Recorder stores answered calculations.
type Recorder interface {
	Record(ctx context.Context, outcome calc.Outcome) error
}

// Calculator is the part of calc.Handler the router needs.
type Calculator interface {
	Run(expr string) calc.Outcome
}

// Router dispatches command messages to a Calculator.
type Router struct {
	calculator Calculator
	pattern    *regexp.Regexp
	maxLength  int
	recorder   Recorder
	logger     *zap.Logger
}

// Option configures a Router.
type Option func(*Router) error

// WithPrefix changes the command word.
func WithPrefix(prefix string) Option {
	return func(r *Router) error {
		if prefix == "" {
			return ErrEmptyPrefix
		}

		r.pattern = commandPattern(prefix)

		return nil
	}
}

// WithMaxExpressionLength rejects expressions longer than n characters.
// Zero disables the check.
func WithMaxExpressionLength(n int) Option {
	return func(r *Router) error {
		if n < 0 {
			return fmt.Errorf("max expression length must not be negative: %d", n)
		}

		r.maxLength = n

		return nil
	}
}

// WithRecorder stores each outcome after the reply is produced.
func WithRecorder(recorder Recorder) Option {
	return func(r *Router) error {
		r.recorder = recorder
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Router) error {
		r.logger = logger
		return nil
	}
}

// New creates a Router.
func New(calculator Calculator, opts ...Option) (*Router, error) {
	r := &Router{
		calculator: calculator,
		pattern:    commandPattern(DefaultPrefix),
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// commandPattern matches the prefix at the start of a message and captures
// the rest of that line. Later lines are ignored.
func commandPattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `\s+([^\n]*)`)
}

// Match extracts the expression text from a command message.
func (r *Router) Match(message string) (string, bool) {
	m := r.pattern.FindStringSubmatch(message)
	if m == nil {
		return "", false
	}

	return strings.TrimRight(m[1], " \t\r"), true
}

// Handle answers message if it is a command. It returns false without
// touching the sink when the message is not addressed to the calculator.
// A failing recorder is logged and never suppresses the reply.
func (r *Router) Handle(ctx context.Context, message string, sink Sink) (bool, error) {
	expr, ok := r.Match(message)
	if !ok {
		return false, nil
	}

	outcome := r.dispatch(expr)

	if err := sink.Send(ctx, outcome.Text); err != nil {
		return true, fmt.Errorf("%w: %w", ErrSend, err)
	}

	if r.recorder != nil {
		if err := r.recorder.Record(ctx, outcome); err != nil {
			r.logger.Warn("failed to record outcome", zap.String("expression", expr), zap.Error(err))
		}
	}

	return true, nil
}

func (r *Router) dispatch(expr string) calc.Outcome {
	if length := utf8.RuneCountInString(expr); r.maxLength > 0 && length > r.maxLength {
		r.logger.Info("expression rejected",
			zap.Int("length", length),
			zap.Int("limit", r.maxLength))

		return calc.Outcome{
			Expression: expr,
			Status:     calc.StatusRejected,
			Text:       calc.FailureMessage(expr, "expression is too long"),
			Err:        fmt.Errorf("%w: %d characters exceeds the limit of %d", ErrExpressionTooLong, length, r.maxLength),
		}
	}

	outcome := r.calculator.Run(expr)
	r.logger.Debug("command handled", zap.String("expression", expr), zap.String("status", string(outcome.Status)))

	return outcome
}
