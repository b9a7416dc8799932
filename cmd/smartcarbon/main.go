// Command smartcarbon estimates the carbon emission of a construction
// supply chain, stage by stage.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/rshade/smartcarbon/internal/cli"
	"github.com/rshade/smartcarbon/pkg/version"
)

func run() error {
	root := cli.NewRootCmd(version.GetVersion())
	return root.ExecuteContext(context.Background())
}

// extractExitCode maps a command error to the process exit code.
func extractExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode
	}
	return 1
}

func main() {
	if err := run(); err != nil {
		os.Exit(extractExitCode(err))
	}
}
