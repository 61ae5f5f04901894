// Package main is the entry point for the gohyperdown CLI.
package main

import (
	"errors"
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/yaklabco/gohyperdown/internal/cli"
	"github.com/yaklabco/gohyperdown/internal/logging"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := logging.Default()

	// Set only fails on an invalid GOMAXPROCS, in which case the runtime
	// default stands.
	_, _ = maxprocs.Set(maxprocs.Logger(logger.Debugf))

	rootCmd := cli.NewRootCommand(cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})

	err := rootCmd.Execute()
	// Per-file failures were already reported by the run itself.
	if err != nil && !errors.Is(err, cli.ErrRenderFailed) {
		logger.Error("command failed", logging.FieldError, err)
	}

	return cli.ExitCode(err)
}
