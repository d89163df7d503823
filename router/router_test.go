package router

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/ivorydice/dicecalc/calc"
	"github.com/ivorydice/dicecalc/eval"
	"github.com/ivorydice/dicecalc/random"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type captureSink struct {
	sent []string
	err  error
}

func (s *captureSink) Send(_ context.Context, text string) error {
	if s.err != nil {
		return s.err
	}

	s.sent = append(s.sent, text)

	return nil
}

type memoryRecorder struct {
	outcomes []calc.Outcome
	err      error
}

func (m *memoryRecorder) Record(_ context.Context, outcome calc.Outcome) error {
	m.outcomes = append(m.outcomes, outcome)
	return m.err
}

func newRouter(t *testing.T, opts ...Option) *Router {
	t.Helper()

	h := calc.New(eval.New(random.NewSequence(4, 2, 6)))
	r, err := New(h, opts...)
	assert.NoError(t, err)

	return r
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expr     string
		expected bool
	}{
		{name: "simple", message: "$calc 2+3", expr: "2+3", expected: true},
		{name: "tab separator", message: "$calc\t3d6", expr: "3d6", expected: true},
		{name: "trailing whitespace trimmed", message: "$calc 2+3   ", expr: "2+3", expected: true},
		{name: "inner whitespace kept", message: "$calc 2 + 3", expr: "2 + 3", expected: true},
		{name: "no expression", message: "$calc ", expr: "", expected: true},
		{name: "trailing newline", message: "$calc 2+3\n", expr: "2+3", expected: true},
		{name: "crlf line ending", message: "$calc 2+3\r\n", expr: "2+3", expected: true},
		{name: "only first line", message: "$calc 2+3\nthanks", expr: "2+3", expected: true},
		{name: "missing separator", message: "$calc2+3", expected: false},
		{name: "other command", message: "$roll 2d6", expected: false},
		{name: "not at start", message: "hey $calc 2+3", expected: false},
		{name: "plain chat", message: "hello", expected: false},
	}

	r := newRouter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, ok := r.Match(tt.message)
			assert.Equal(t, tt.expected, ok)
			assert.Equal(t, tt.expr, expr)
		})
	}
}

func TestHandle(t *testing.T) {
	r := newRouter(t)
	sink := &captureSink{}

	handled, err := r.Handle(context.Background(), "$calc 3d6+1", sink)
	assert.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, []string{"3d6 => 4+2+6 => 12\n3d6+1 => 13"}, sink.sent)
}

func TestHandle_MultilineMessage(t *testing.T) {
	r := newRouter(t)
	sink := &captureSink{}

	handled, err := r.Handle(context.Background(), "$calc 6/4\nthanks!\n", sink)
	assert.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, []string{"6/4 => 3/2"}, sink.sent)
}

func TestHandle_IgnoresOtherMessages(t *testing.T) {
	r := newRouter(t)
	sink := &captureSink{}

	handled, err := r.Handle(context.Background(), "good morning", sink)
	assert.NoError(t, err)
	assert.False(t, handled)
	assert.Equal(t, 0, len(sink.sent))
}

func TestHandle_Failures(t *testing.T) {
	r := newRouter(t)

	tests := []struct {
		message  string
		expected string
	}{
		{message: "$calc 2 + 3", expected: "`2 + 3` => could not be parsed"},
		{message: "$calc 5/0", expected: "`5/0` => parsed but could not be computed"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			sink := &captureSink{}
			handled, err := r.Handle(context.Background(), tt.message, sink)
			assert.NoError(t, err)
			assert.True(t, handled)
			assert.Equal(t, []string{tt.expected}, sink.sent)
		})
	}
}

func TestHandle_CustomPrefix(t *testing.T) {
	r := newRouter(t, WithPrefix("!math"))
	sink := &captureSink{}

	handled, err := r.Handle(context.Background(), "$calc 1+1", sink)
	assert.NoError(t, err)
	assert.False(t, handled)

	handled, err = r.Handle(context.Background(), "!math 1+1", sink)
	assert.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, []string{"1+1 => 2"}, sink.sent)
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(nil, WithPrefix(""))
	assert.IsError(t, err, ErrEmptyPrefix)

	_, err = New(nil, WithMaxExpressionLength(-1))
	assert.Error(t, err)
}

func TestHandle_RejectsLongExpressions(t *testing.T) {
	recorder := &memoryRecorder{}
	r := newRouter(t, WithMaxExpressionLength(8), WithRecorder(recorder))
	sink := &captureSink{}

	expr := strings.Repeat("1+", 5) + "1"
	handled, err := r.Handle(context.Background(), "$calc "+expr, sink)
	assert.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, []string{"`" + expr + "` => expression is too long"}, sink.sent)

	assert.Equal(t, 1, len(recorder.outcomes))
	assert.Equal(t, calc.StatusRejected, recorder.outcomes[0].Status)
	assert.IsError(t, recorder.outcomes[0].Err, ErrExpressionTooLong)
}

func TestHandle_RecordsOutcomes(t *testing.T) {
	recorder := &memoryRecorder{}
	r := newRouter(t, WithRecorder(recorder))

	_, err := r.Handle(context.Background(), "$calc 2d6", &captureSink{})
	assert.NoError(t, err)
	_, err = r.Handle(context.Background(), "$calc 2+", &captureSink{})
	assert.NoError(t, err)

	assert.Equal(t, 2, len(recorder.outcomes))
	assert.Equal(t, calc.StatusOK, recorder.outcomes[0].Status)
	assert.Equal(t, "6", recorder.outcomes[0].Value)
	assert.Equal(t, calc.StatusParseFailed, recorder.outcomes[1].Status)
}

func TestHandle_RecorderFailureDoesNotSuppressReply(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	recorder := &memoryRecorder{err: errors.New("disk full")}
	r := newRouter(t, WithRecorder(recorder), WithLogger(zap.New(core)))
	sink := &captureSink{}

	handled, err := r.Handle(context.Background(), "$calc 1+2", sink)
	assert.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, []string{"1+2 => 3"}, sink.sent)
	assert.Equal(t, 1, logs.FilterMessage("failed to record outcome").Len())
}

func TestHandle_SinkFailure(t *testing.T) {
	recorder := &memoryRecorder{}
	r := newRouter(t, WithRecorder(recorder))

	handled, err := r.Handle(context.Background(), "$calc 1+2", &captureSink{err: errors.New("closed")})
	assert.True(t, handled)
	assert.IsError(t, err, ErrSend)
	assert.Equal(t, 0, len(recorder.outcomes))
}

func TestSinkFunc(t *testing.T) {
	var got string
	sink := SinkFunc(func(_ context.Context, text string) error {
		got = text
		return nil
	})

	r := newRouter(t)
	_, err := r.Handle(context.Background(), "$calc 6/4", sink)
	assert.NoError(t, err)
	assert.Equal(t, "6/4 => 3/2", got)
}
