package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/smartcarbon/internal/engine"
)

type summaryMsg struct {
	summary engine.Summary
}

// TotalModel shows every stage classified, plus the total.
type TotalModel struct {
	ctx        context.Context
	summarizer Summarizer
	summary    *engine.Summary
}

// NewTotalModel builds the total view. The summary is computed by Init.
func NewTotalModel(ctx context.Context, summarizer Summarizer) *TotalModel {
	return &TotalModel{ctx: ctx, summarizer: summarizer}
}

// Init implements tea.Model.
func (m *TotalModel) Init() tea.Cmd {
	return m.refresh()
}

func (m *TotalModel) refresh() tea.Cmd {
	ctx, s := m.ctx, m.summarizer
	return func() tea.Msg {
		return summaryMsg{summary: s.Summary(ctx)}
	}
}

// Update implements tea.Model.
func (m *TotalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryMsg:
		m.summary = &msg.summary
	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyEsc:
			return m, back
		case msg.Type == tea.KeyRunes && string(msg.Runes) == "r":
			return m, m.refresh()
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *TotalModel) View() string {
	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("Total Carbon Emission"))
	sb.WriteString("\n\n")

	if m.summary == nil {
		sb.WriteString(SubtleStyle.Render("Calculating..."))
		return sb.String()
	}

	sb.WriteString(BoxStyle.Render(RenderSummary(*m.summary, true)))
	sb.WriteString("\n")
	sb.WriteString(SubtleStyle.Render(RenderThresholds(m.summary.Thresholds)))
	sb.WriteString("\n\n")
	sb.WriteString(SubtleStyle.Render("r: Refresh | Esc: Back"))
	return sb.String()
}

// Summary returns the last computed summary.
func (m *TotalModel) Summary() *engine.Summary {
	return m.summary
}
