package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/ivorydice/dicecalc/calc"
	"github.com/ivorydice/dicecalc/router"
	"go.uber.org/zap"
)

// ListenCmd represents the listen command. Every input line is treated as a
// chat message; replies go to standard output.
type ListenCmd struct {
	Prefix string `help:"Command prefix (overrides router.prefix)"`
}

// recorderFunc adapts app.record to router.Recorder.
type recorderFunc func(ctx context.Context, outcome calc.Outcome)

func (f recorderFunc) Record(ctx context.Context, outcome calc.Outcome) error {
	f(ctx, outcome)
	return nil
}

// Run executes the listen command
func (cmd *ListenCmd) Run(ctx *Context) error {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := newApp(runCtx, ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	prefix := a.config.Router.Prefix
	if cmd.Prefix != "" {
		prefix = cmd.Prefix
	}

	r, err := router.New(a.handler,
		router.WithPrefix(prefix),
		router.WithMaxExpressionLength(a.config.Limits.MaxExpressionLength),
		router.WithRecorder(recorderFunc(a.record)),
		router.WithLogger(a.logger.Named("router")),
	)
	if err != nil {
		return err
	}

	sink := router.SinkFunc(func(_ context.Context, text string) error {
		_, err := fmt.Fprintln(ctx.Stdout, text)
		return err
	})

	if !ctx.Quiet && ctx.Verbose {
		ctx.status(color.FgCyan, "Listening for %q commands on standard input", prefix)
	}

	scanner := bufio.NewScanner(ctx.Stdin)
	handled := 0

	for scanner.Scan() {
		if runCtx.Err() != nil {
			break
		}

		ok, err := r.Handle(runCtx, scanner.Text(), sink)
		if err != nil {
			return err
		}

		if ok {
			handled++
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	a.logger.Debug("input closed", zap.Int("handled", handled))

	return nil
}
