package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/fatih/color"
	"github.com/ivorydice/dicecalc"
)

// InitCmd represents the init command
type InitCmd struct {
	Force bool `help:"Overwrite an existing config file"`
}

func (i *InitCmd) Run(ctx *Context) error {
	if ctx.Verbose {
		color.Blue("Writing sample configuration to %s", ctx.Config)
	}

	_, err := os.Stat(ctx.Config)
	if err == nil && !i.Force {
		return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, ctx.Config)
	}

	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	if err := os.WriteFile(ctx.Config, []byte(dicecalc.SampleConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if !ctx.Quiet {
		color.Green("Created %s", ctx.Config)
		fmt.Fprintln(ctx.Stdout, "\nNext steps:")
		fmt.Fprintln(ctx.Stdout, "1. Edit the file to enable history or change limits")
		fmt.Fprintln(ctx.Stdout, "2. Run 'dicecalc roll 3d6+2' to try it")
	}

	return nil
}
