package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/smartcarbon/internal/config"
	"github.com/rshade/smartcarbon/internal/model"
	"github.com/rshade/smartcarbon/internal/stage"
	"github.com/rshade/smartcarbon/internal/tui"
)

// newConfigShowCmd creates the config show command that prints the effective configuration.
func newConfigShowCmd(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Long: `Prints the configuration after the global file, the project overlay and
SMARTCARBON_* environment overrides have been applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := state.config().YAML()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

// newConfigValidateCmd creates the config validate command for validating configuration.
func newConfigValidateCmd(state *rootState) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the effective configuration for semantic correctness.

This includes:
- Output format and logging settings
- Classification thresholds (safe_max_tonnes < average_max_tonnes, both >= 0)
- Model files: every present <models.dir>/<A1..A5>.yaml must parse
- Session store settings and server port`,
		Example: `  # Validate current configuration
  smartcarbon config validate

  # Validate and show detailed information
  smartcarbon config validate --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, state.config(), verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, cfg *config.Config, verbose bool) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	registry, err := model.Load(cmd.Context(), cfg.Models.Dir, cfg.Models.Fallback)
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg, registry)
	}

	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config, registry *model.Registry) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Configuration details:")
	fmt.Fprintf(w, "  Config file: %s\n", cfg.ConfigPath())
	fmt.Fprintf(w, "  Output format: %s\n", cfg.Output.DefaultFormat)
	fmt.Fprintf(w, "  Logging level: %s\n", cfg.Logging.Level)
	fmt.Fprintf(w, "  Thresholds: %s\n", tui.RenderThresholds(cfg.Thresholds))
	if cfg.Store.Persist {
		fmt.Fprintf(w, "  Session file: %s\n", cfg.Store.File)
	} else {
		fmt.Fprintln(w, "  Session persistence disabled")
	}

	fmt.Fprintf(w, "  Models (%s):\n", cfg.Models.Dir)
	for _, s := range stage.All() {
		source := registry.Source(s)
		if source == "" {
			source = "not loaded"
		}
		fmt.Fprintf(w, "    - %s %s: %s\n", s.ModelID(), s.DisplayName(), source)
	}
}
