package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/smartcarbon/internal/logging"
	"github.com/rshade/smartcarbon/internal/tui"
)

// newTUICmd creates the tui command that launches the interactive application.
func newTUICmd(state *rootState) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch the interactive application",
		Long: `Opens the menu of the five stage forms and the Total Carbon Emission view.

When stdout is not a terminal (or --plain is set) the current summary is
printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, err := openSession(ctx, state.config())
			if err != nil {
				return err
			}

			switch tui.DetectOutputMode(false, false, plain) {
			case tui.OutputModeInteractive:
				toFile := state.logResult != nil && state.logResult.UsingFile
				ctx = quietContext(ctx, toFile)
				p := tea.NewProgram(tui.NewAppModel(ctx, sess), tea.WithAltScreen())
				if _, err = p.Run(); err != nil {
					return fmt.Errorf("failed to run interactive TUI: %w", err)
				}
				return nil
			case tui.OutputModeStyled:
				fmt.Fprintln(cmd.OutOrStdout(), tui.RenderSummary(sess.Summary(ctx), true))
				return nil
			case tui.OutputModePlain:
				fmt.Fprintln(cmd.OutOrStdout(), tui.RenderSummary(sess.Summary(ctx), false))
				return nil
			default:
				fmt.Fprintln(cmd.OutOrStdout(), tui.RenderSummary(sess.Summary(ctx), false))
				return nil
			}
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the summary instead of starting the interactive application")
	return cmd
}

// quietContext raises the context logger, and the package logger, to warn
// while the alt screen is up. Lines written to stderr would otherwise land
// on top of the full-screen view. File logging is left alone.
func quietContext(ctx context.Context, toFile bool) context.Context {
	if toFile {
		return ctx
	}
	if logger.GetLevel() < zerolog.WarnLevel {
		logger = logger.Level(zerolog.WarnLevel)
	}
	l := logging.FromContext(ctx)
	if l.GetLevel() < zerolog.WarnLevel {
		l = l.Level(zerolog.WarnLevel)
	}
	return l.WithContext(ctx)
}
