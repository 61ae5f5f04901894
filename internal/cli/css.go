package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/gohyperdown/internal/configloader"
	"github.com/yaklabco/gohyperdown/internal/logging"
	"github.com/yaklabco/gohyperdown/pkg/config"
	"github.com/yaklabco/gohyperdown/pkg/highlight"
)

func newCSSCommand(globals *globalFlags) *cobra.Command {
	var style string

	cmd := &cobra.Command{
		Use:   "css",
		Short: "Print the stylesheet for class-based highlighting",
		Long: `Print the CSS that matches highlighted code when highlight.classes is
set. The style defaults to highlight.style from the configuration.

Examples:
  gohyperdown css > highlight.css
  gohyperdown css --style monokai`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logging.WithLogger(commandContext(cmd), logging.Default())

			var overrides []configloader.Override
			if cmd.Flags().Changed("style") {
				overrides = append(overrides, func(c *config.Config) { c.Highlight.Style = style })
			}

			loaded, err := loadConfig(ctx, globals, overrides...)
			if err != nil {
				return err
			}

			h := highlight.New(highlight.Options{Style: loaded.Config.Highlight.Style, Classes: true})
			return h.WriteCSS(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&style, "style", config.DefaultHighlightStyle, "chroma style name")

	return cmd
}
