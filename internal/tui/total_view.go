package tui

import (
	"fmt"
	"strings"

	"github.com/rshade/smartcarbon/internal/engine"
)

const totalNameWidth = 28

// RenderSummary renders the per-stage rows, the total line and the
// equivalency text. With styled false the output has no ANSI codes.
func RenderSummary(s engine.Summary, styled bool) string {
	render := func(st func(...string) string, text string) string {
		if !styled {
			return text
		}
		return st(text)
	}

	var sb strings.Builder
	for _, row := range s.Stages {
		sb.WriteString(render(LabelStyle.Render, fmt.Sprintf("%-*s", totalNameWidth, row.Name+":")))
		sb.WriteString(render(LevelStyle(row.Level).Render, row.Display))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(render(LevelStyle(s.TotalLevel).Render, s.Display))

	if !s.Equivalency.IsEmpty && s.Equivalency.DisplayText != "" {
		sb.WriteString("\n")
		sb.WriteString(render(SubtleStyle.Render, s.Equivalency.DisplayText))
	}
	return sb.String()
}

// RenderThresholds describes the classification bands.
func RenderThresholds(t engine.Thresholds) string {
	return fmt.Sprintf("Safe <= %g t  |  Average <= %g t  |  Danger > %g t",
		t.SafeMaxTonnes, t.AverageMaxTonnes, t.AverageMaxTonnes)
}
