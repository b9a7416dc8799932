package tui

import (
	"embed"
	"strings"

	"github.com/rshade/smartcarbon/internal/stage"
)

//go:embed text/*.txt
var textFS embed.FS

// Text returns the named screen text, or "" when there is none.
func Text(name string) string {
	data, err := textFS.ReadFile("text/" + name + ".txt")
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(data), "\n")
}

// StageText returns the description shown above a stage form.
func StageText(s stage.Stage) string {
	return Text(s.String())
}
