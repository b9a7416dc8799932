package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/smartcarbon/pkg/version"
)

// newVersionCmd creates the version command.
func newVersionCmd(ver string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "smartcarbon %s\n", ver)
			fmt.Fprintf(w, "  commit: %s\n", version.GetGitCommit())
			fmt.Fprintf(w, "  built:  %s\n", version.GetBuildDate())
		},
	}
}
