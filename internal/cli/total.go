package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/smartcarbon/internal/config"
	"github.com/rshade/smartcarbon/internal/engine"
	"github.com/rshade/smartcarbon/internal/tui"
)

// ExitCodeDanger is returned by `total --exit-on-danger` when the total
// emission is in the Danger band.
const ExitCodeDanger = 2

// ExitError carries a process exit code from a command to main.
type ExitError struct {
	ExitCode int
	Reason   string
}

func (e *ExitError) Error() string {
	return e.Reason
}

// newTotalCmd creates the total command that prints the classified summary.
func newTotalCmd(state *rootState) *cobra.Command {
	var (
		outputFormat string
		exitOnDanger bool
		noColor      bool
	)

	cmd := &cobra.Command{
		Use:   "total",
		Short: "Show the Total Carbon Emission across all stages",
		Long: `Reads every stage from the session, sums them and classifies each stage and
the total as Safe, Average or Danger. Stages that were never predicted count as 0.`,
		Example: `  # Classified table
  smartcarbon total

  # JSON summary
  smartcarbon total --output json

  # Exit with code 2 when the total is Danger
  smartcarbon total --exit-on-danger`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := resolveFormat(state.config(), outputFormat)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			sess, err := openSession(ctx, state.config())
			if err != nil {
				return err
			}

			summary := sess.Summary(ctx)
			if format == config.FormatJSON {
				if err = writeJSON(cmd.OutOrStdout(), summary); err != nil {
					return err
				}
			} else {
				styled := tui.DetectOutputMode(false, noColor, false) != tui.OutputModePlain
				fmt.Fprintln(cmd.OutOrStdout(), tui.RenderSummary(summary, styled))
			}

			return checkDangerExit(exitOnDanger, summary)
		},
	}

	cmd.Flags().StringVar(&outputFormat, "output", "", "output format: table or json (default from config)")
	cmd.Flags().BoolVar(&exitOnDanger, "exit-on-danger", false,
		fmt.Sprintf("exit with code %d when the total is Danger", ExitCodeDanger))
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")

	return cmd
}

// checkDangerExit returns an ExitError when enabled and the total is Danger.
func checkDangerExit(enabled bool, summary engine.Summary) error {
	if !enabled || summary.TotalLevel != engine.LevelDanger {
		return nil
	}
	return &ExitError{
		ExitCode: ExitCodeDanger,
		Reason:   fmt.Sprintf("total carbon emission %.2f kgCO2e is %s", summary.TotalKg, summary.TotalLevel),
	}
}
