package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/smartcarbon/internal/config"
	"github.com/rshade/smartcarbon/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// rootState is shared between the root command and its subcommands.
type rootState struct {
	configPath string
	cfg        *config.Config
	logResult  *logging.LogPathResult
}

// config returns the loaded configuration, or the defaults when the root
// hook has not run (subcommands executed directly in tests).
func (r *rootState) config() *config.Config {
	if r.cfg == nil {
		return config.Default()
	}
	return r.cfg
}

// NewRootCmd creates the root Cobra command for the smartcarbon CLI.
// It wires up configuration, logging and tracing, then the stage, total,
// catalog, session, tui, serve, config and version subcommands.
func NewRootCmd(ver string) *cobra.Command {
	state := &rootState{}

	cmd := &cobra.Command{
		Use:     "smartcarbon",
		Short:   "Construction supply-chain carbon estimator",
		Long:    "SmartCarbon: estimate kgCO2e for the five stages of a construction supply chain",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			workDir, err := os.Getwd()
			if err != nil {
				workDir = ""
			}

			cfg, err := config.Load(cmd.Context(), state.configPath, workDir)
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			state.cfg = cfg

			result := setupLogging(cmd, cfg)
			state.logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, state.logResult)
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&state.configPath, "config", "",
		"config file (default ~/.smartcarbon/config.yaml, or $SMARTCARBON_CONFIG)")

	cmd.AddCommand(
		newPredictCmd(state),
		newTotalCmd(state),
		newCatalogCmd(),
		newResetCmd(state),
		newTUICmd(state),
		newServeCmd(state),
		newConfigCmd(state),
		newVersionCmd(ver),
	)

	return cmd
}

const rootCmdExample = `  # Predict the production stage for 1200 kg of steel
  smartcarbon predict production --option Steel --mass 1200

  # Predict transport to the factory
  smartcarbon predict transportation_to_factory --option Cement --mass 800 --distance 150

  # Show the classified total across all stages
  smartcarbon total

  # Fail a CI job when the total is in the Danger band
  smartcarbon total --exit-on-danger

  # List the dropdown options for manufacturing
  smartcarbon catalog manufacturing

  # Launch the interactive application
  smartcarbon tui

  # Serve the HTTP API
  smartcarbon serve

  # Initialize configuration
  smartcarbon config init`

// newConfigCmd creates the config command group.
func newConfigCmd(state *rootState) *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		newConfigInitCmd(),
		newConfigShowCmd(state),
		newConfigValidateCmd(state),
	)
	return cmd
}
