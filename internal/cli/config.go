package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gohyperdown/internal/configloader"
	"github.com/yaklabco/gohyperdown/internal/logging"
	"github.com/yaklabco/gohyperdown/internal/ui/pretty"
	"github.com/yaklabco/gohyperdown/pkg/config"
)

type configFlags struct {
	validate bool
	env      bool
}

func newConfigCommand(globals *globalFlags) *cobra.Command {
	flags := &configFlags{}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the configuration that render would use, after merging the
system, user, project and --config files with GOHYPERDOWN_* variables.

Examples:
  gohyperdown config             Print the merged configuration as YAML
  gohyperdown config --validate  Check every discovered config file
  gohyperdown config --env       List the supported environment variables`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch {
			case flags.env:
				return printEnvVars(cmd.OutOrStdout())
			case flags.validate:
				return runConfigValidate(cmd, globals)
			default:
				return runConfigShow(cmd, globals)
			}
		},
	}

	cmd.Flags().BoolVar(&flags.validate, "validate", false, "validate each configuration file separately")
	cmd.Flags().BoolVar(&flags.env, "env", false, "list supported environment variables")

	return cmd
}

func runConfigShow(cmd *cobra.Command, globals *globalFlags) error {
	ctx := logging.WithLogger(commandContext(cmd), logging.Default())

	loaded, err := loadConfig(ctx, globals)
	if err != nil {
		return err
	}

	header := "# Effective gohyperdown configuration"
	if len(loaded.LoadedFrom) == 0 {
		header += "\n# No configuration files found; showing defaults."
	} else {
		header += "\n# Loaded from:"
		for _, path := range loaded.LoadedFrom {
			header += "\n#   " + path
		}
	}

	data, err := loaded.Config.ToYAMLWithHeader(header)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// runConfigValidate validates each discovered file on its own so every
// problem is attributed to the file that caused it.
func runConfigValidate(cmd *cobra.Command, globals *globalFlags) error {
	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(globals.color, out))

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	var files []string
	if !globals.noConfig {
		paths, err := configloader.DiscoverPaths(ctx, workDir)
		if err != nil {
			return fmt.Errorf("discover paths: %w", err)
		}
		files = append(files, paths.System, paths.User, paths.Project)
	}
	files = append(files, globals.configPath)

	checked, invalid := 0, 0
	for _, path := range files {
		if path == "" {
			continue
		}
		checked++

		result, err := validateFile(path)
		if err != nil {
			invalid++
			fmt.Fprint(out, styles.FormatError(path, err))
			continue
		}
		if !result.Valid() {
			invalid++
		}
		for _, e := range result.Errors {
			fmt.Fprint(out, styles.FormatError(path, &e))
		}
		for _, w := range result.Warnings {
			fmt.Fprint(out, styles.FormatWarning(w.Error()))
		}
		if result.Valid() && !result.HasWarnings() {
			fmt.Fprintf(out, "  %s  %s\n", styles.FilePath.Render(path), styles.Success.Render("ok"))
		}
	}

	if checked == 0 {
		fmt.Fprintln(out, styles.Dim.Render("No configuration files found"))
		return nil
	}
	if invalid > 0 {
		return fmt.Errorf("%w: %d of %d files invalid", ErrConfig, invalid, checked)
	}
	return nil
}

func validateFile(path string) (*configloader.ValidationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := config.FromYAML(data)
	if err != nil {
		return nil, err
	}
	return configloader.ValidateWithFile(cfg, path), nil
}

func printEnvVars(w io.Writer) error {
	vars := configloader.ListEnvVars()
	names := make([]string, 0, len(vars))
	width := 0
	for name := range vars {
		names = append(names, name)
		width = max(width, len(name))
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%-*s  %s\n", width, name, vars[name])
	}
	_, err := io.WriteString(w, b.String())
	return err
}
