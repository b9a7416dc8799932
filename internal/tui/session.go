package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/smartcarbon/internal/engine"
	"github.com/rshade/smartcarbon/internal/stage"
)

// Predictor runs and records one stage prediction.
type Predictor interface {
	Predict(ctx context.Context, s stage.Stage, in engine.Inputs) (*engine.Prediction, error)
}

// Summarizer produces the current classified summary.
type Summarizer interface {
	Summary(ctx context.Context) engine.Summary
}

// BackMsg returns from a stage form or the total view to the menu.
type BackMsg struct{}

func back() tea.Msg { return BackMsg{} }
