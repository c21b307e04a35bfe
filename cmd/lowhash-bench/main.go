// Command lowhash-bench drives configurable workloads against lowhash
// tables and compares benchmark summaries.
package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"
)

// Global is passed to every command's Run method.
type Global struct {
	Logger *zap.Logger
	Out    io.Writer
}

// CLI is the root command.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging, including table resize events"`

	Run     RunCmd     `cmd:"" help:"Drive a workload against one or more tables"`
	Compare CompareCmd `cmd:"" help:"Compare two benchmark summaries"`
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("lowhash-bench"),
		kong.Description("Workload driver and benchmark comparison for lowhash tables."),
		kong.UsageOnError())

	logger, err := newLogger(cli.Verbose)
	ctx.FatalIfErrorf(err)
	defer func() { _ = logger.Sync() }()

	err = ctx.Run(&Global{Logger: logger, Out: os.Stdout})
	ctx.FatalIfErrorf(err)
}
