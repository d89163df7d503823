package main

import (
	"context"
	"fmt"
)

// HistoryCmd represents the history command
type HistoryCmd struct {
	Limit      int    `help:"Maximum number of records to show" default:"20" short:"n"`
	Format     string `help:"Output format: text, json, yaml or markdown" short:"f"`
	Driver     string `help:"History database driver (overrides history.driver)"`
	Connection string `help:"History connection string (overrides history.connection)"`
}

// Run executes the history command
func (cmd *HistoryCmd) Run(ctx *Context) error {
	runCtx := context.Background()

	override := cmd.Driver != "" || cmd.Connection != ""

	a, err := newApp(runCtx, ctx, appOptions{format: cmd.Format, skipHistory: override})
	if err != nil {
		return err
	}
	defer a.Close()

	if override {
		driver := cmd.Driver
		if driver == "" {
			driver = a.config.History.Driver
		}

		connection := cmd.Connection
		if connection == "" {
			connection = a.config.History.Connection
		}

		if err := a.openHistory(runCtx, driver, connection); err != nil {
			return err
		}
	}

	if a.store == nil {
		return ErrHistoryDisabled
	}

	records, err := a.store.List(runCtx, cmd.Limit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	return a.formatter.WriteHistory(ctx.Stdout, records)
}
