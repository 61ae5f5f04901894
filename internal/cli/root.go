// Package cli provides the Cobra command structure for gohyperdown.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gohyperdown/internal/configloader"
	"github.com/yaklabco/gohyperdown/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	debug      bool
	configPath string
	noConfig   bool
	color      string
}

// NewRootCommand creates the root gohyperdown command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	globals := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "gohyperdown",
		Short: "Convert HyperDown markup to HTML",
		Long: `gohyperdown converts HyperDown-flavoured Markdown into HTML.

It renders a single document to stdout, or whole directory trees to .html
files in parallel. Fenced code can be syntax highlighted, raw HTML can be
passed through, and every block can be annotated with its source lines.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if globals.debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&globals.debug, "debug", false, "enable debug logging")
	flags.StringVar(&globals.configPath, "config", "", "path to config file")
	flags.BoolVar(&globals.noConfig, "no-config", false,
		"ignore discovered config files and GOHYPERDOWN_* variables")
	flags.StringVar(&globals.color, "color", "auto", "colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	rootCmd.AddCommand(newRenderCommand(globals))
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newConfigCommand(globals))
	rootCmd.AddCommand(newCSSCommand(globals))
	rootCmd.AddCommand(newVersionCommand(info))

	NewHelpFormatter(globals.color, os.Stdout).ApplyToCommand(rootCmd)

	return rootCmd
}

// loadConfig resolves the layered configuration for the current directory.
func loadConfig(ctx context.Context, globals *globalFlags, overrides ...configloader.Override) (*configloader.LoadResult, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	result, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:          workDir,
		ExplicitPath:        globals.configPath,
		IgnoreSystemConfig:  globals.noConfig,
		IgnoreUserConfig:    globals.noConfig,
		IgnoreProjectConfig: globals.noConfig,
		IgnoreEnv:           globals.noConfig,
		Overrides:           overrides,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	logger := logging.FromContext(ctx)
	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	if len(result.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldPaths, result.LoadedFrom)
	}

	return result, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx
}
