package tui

import (
	"os"

	"golang.org/x/term"
)

// OutputMode says how rich terminal output may be.
type OutputMode int

const (
	// OutputModePlain is uncolored text.
	OutputModePlain OutputMode = iota
	// OutputModeStyled is colored, non-interactive text.
	OutputModeStyled
	// OutputModeInteractive allows a full-screen Bubble Tea program.
	OutputModeInteractive
)

// String returns the mode name.
func (m OutputMode) String() string {
	switch m {
	case OutputModeInteractive:
		return "interactive"
	case OutputModeStyled:
		return "styled"
	default:
		return "plain"
	}
}

// DetectOutputMode picks a mode for stdout. plain and noColor force plain
// output; forceColor yields at least styled output. NO_COLOR and TERM=dumb
// are honored; CI disables interactivity.
func DetectOutputMode(forceColor, noColor, plain bool) OutputMode {
	return detectOutputMode(forceColor, noColor, plain, term.IsTerminal(int(os.Stdout.Fd())), os.Getenv)
}

func detectOutputMode(forceColor, noColor, plain, isTTY bool, getenv func(string) string) OutputMode {
	if plain || noColor || getenv("NO_COLOR") != "" {
		return OutputModePlain
	}
	if getenv("TERM") == "dumb" {
		if forceColor {
			return OutputModeStyled
		}
		return OutputModePlain
	}
	if !isTTY {
		if forceColor {
			return OutputModeStyled
		}
		return OutputModePlain
	}
	if getenv("CI") != "" {
		return OutputModeStyled
	}
	return OutputModeInteractive
}
