// Package version exposes build metadata injected via -ldflags.
package version

import "fmt"

// Build-time variables, set with:
//
//	go build -ldflags "-X github.com/rshade/smartcarbon/pkg/version.version=v1.2.3"
//
//nolint:gochecknoglobals // Populated by the linker.
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// GetVersion returns the semantic version of the binary.
func GetVersion() string {
	return version
}

// GetGitCommit returns the commit the binary was built from.
func GetGitCommit() string {
	return gitCommit
}

// GetBuildDate returns the build timestamp.
func GetBuildDate() string {
	return buildDate
}

// String returns a one-line description suitable for `smartcarbon version`.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate)
}
