package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/ivorydice/dicecalc"
)

// Version is overridden at build time with -ldflags "-X main.Version=...".
var Version = "v0.1.0"

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool
	Stdin   io.Reader
	Stdout  io.Writer
	// Stderr receives status lines so that Stdout stays machine readable.
	Stderr  io.Writer
}

func (c *Context) status(attr color.Attribute, format string, args ...any) {
	if c.Stderr == nil {
		return
	}

	color.New(attr).Fprintf(c.Stderr, format+"\n", args...)
}

type cli struct {
	Config  string     `help:"Configuration file path" default:"${config_file}"`
	Verbose bool       `help:"Enable verbose output" short:"v"`
	Quiet   bool       `help:"Suppress output" short:"q"`
	Roll    RollCmd    `cmd:"" help:"Evaluate dice expressions"`
	Listen  ListenCmd  `cmd:"" help:"Answer $calc commands read from standard input"`
	History HistoryCmd `cmd:"" help:"Show stored calculations"`
	Init    InitCmd    `cmd:"" help:"Write a sample configuration file"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// CLI represents the command-line interface
var CLI cli

func parserOptions() []kong.Option {
	return []kong.Option{
		kong.Name("dicecalc"),
		kong.Description("Dice expression calculator."),
		kong.UsageOnError(),
		kong.Vars{"config_file": dicecalc.DefaultConfigFile},
	}
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run(ctx *Context) error {
	_, err := fmt.Fprintf(ctx.Stdout, "dicecalc %s\n", Version)
	return err
}

func main() {
	ctx := kong.Parse(&CLI, parserOptions()...)

	appCtx := &Context{
		Config:  CLI.Config,
		Verbose: CLI.Verbose,
		Quiet:   CLI.Quiet,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
