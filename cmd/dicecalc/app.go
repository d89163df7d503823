package main

import (
	"context"
	"fmt"

	"github.com/ivorydice/dicecalc"
	"github.com/ivorydice/dicecalc/calc"
	"github.com/ivorydice/dicecalc/eval"
	"github.com/ivorydice/dicecalc/history"
	"github.com/ivorydice/dicecalc/output"
	"github.com/ivorydice/dicecalc/random"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app holds everything a command needs, built from the config file and
// command line overrides.
type app struct {
	config    *dicecalc.Config
	logger    *zap.Logger
	handler   *calc.Handler
	formatter *output.Formatter
	store     *history.Store
	seed      uint64
}

type appOptions struct {
	seed   uint64
	format string

	// skipHistory leaves the configured history store closed.
	skipHistory bool
}

func newLogger(config *dicecalc.Config, verbose, quiet bool) (*zap.Logger, error) {
	level := config.Log.ZapLevel()

	switch {
	case verbose:
		level = zapcore.DebugLevel
	case quiet:
		level = zapcore.ErrorLevel
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	return zc.Build()
}

func newApp(ctx context.Context, cmdCtx *Context, opts appOptions) (*app, error) {
	config, err := dicecalc.LoadConfig(cmdCtx.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := newLogger(config, cmdCtx.Verbose, cmdCtx.Quiet)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	format := config.Output.Format
	if opts.format != "" {
		format = opts.format
	}

	parsedFormat, err := output.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	seed := config.Seed
	if opts.seed != 0 {
		seed = opts.seed
	}

	if seed == 0 {
		seed, err = random.NewSeed()
		if err != nil {
			return nil, err
		}
	}

	evaluator := eval.New(random.New(seed), eval.WithMaxDice(config.Limits.MaxDice))

	a := &app{
		config:    config,
		logger:    logger,
		handler:   calc.New(evaluator, calc.WithLogger(logger.Named("calc"))),
		formatter: output.NewFormatter(parsedFormat, config.Output.ColorEnabled()),
		seed:      seed,
	}

	if config.History.Enabled && !opts.skipHistory {
		if err := a.openHistory(ctx, config.History.Driver, config.History.Connection); err != nil {
			a.Close()
			return nil, err
		}
	}

	logger.Debug("dicecalc ready",
		zap.String("config", cmdCtx.Config),
		zap.Uint64("seed", seed),
		zap.Int("max_dice", config.Limits.MaxDice),
		zap.Bool("history", a.store != nil))

	return a, nil
}

func (a *app) openHistory(ctx context.Context, driver, connection string) error {
	store, err := history.Open(ctx, driver, connection, history.WithLogger(a.logger.Named("history")))
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}

	a.store = store

	return nil
}

// record stores an outcome when history is enabled. Failures are logged
// and never reach the user.
func (a *app) record(ctx context.Context, outcome calc.Outcome) {
	if a.store == nil {
		return
	}

	if err := a.store.Record(ctx, outcome); err != nil {
		a.logger.Warn("failed to record outcome", zap.String("expression", outcome.Expression), zap.Error(err))
	}
}

func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("failed to close history", zap.Error(err))
		}
	}

	_ = a.logger.Sync()
}
