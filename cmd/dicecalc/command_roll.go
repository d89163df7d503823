package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
)

// RollCmd represents the roll command
type RollCmd struct {
	Expressions []string `arg:"" name:"expression" help:"Expressions to evaluate (use -- before expressions starting with '-')"`
	Seed        uint64   `help:"Seed for the dice roller (0 uses the config file or a random seed)"`
	Format      string   `help:"Output format: text, json, yaml or markdown" short:"f"`
}

// Run executes the roll command
func (cmd *RollCmd) Run(ctx *Context) error {
	runCtx := context.Background()

	a, err := newApp(runCtx, ctx, appOptions{seed: cmd.Seed, format: cmd.Format})
	if err != nil {
		return err
	}
	defer a.Close()

	if ctx.Verbose {
		ctx.status(color.FgCyan, "Seed: %d", a.seed)
	}

	failed := 0

	for _, expr := range cmd.Expressions {
		outcome := a.handler.Run(expr)
		if !outcome.OK() {
			failed++
		}

		if err := a.formatter.WriteOutcome(ctx.Stdout, outcome); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}

		a.record(runCtx, outcome)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d expressions", ErrCalculationFailed, failed, len(cmd.Expressions))
	}

	return nil
}
