package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newResetCmd creates the reset command that clears the session.
func newResetCmd(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear every stored stage prediction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, err := openSession(ctx, state.config())
			if err != nil {
				return err
			}
			if err = sess.Reset(); err != nil {
				return err
			}
			logger.Info().Ctx(ctx).Msg("session reset")
			fmt.Fprintln(cmd.OutOrStdout(), "Session cleared")
			return nil
		},
	}
}
