package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/smartcarbon/internal/logging"
	"github.com/rshade/smartcarbon/internal/stage"
)

// Screen identifies the active view.
type Screen int

const (
	ScreenMenu Screen = iota
	ScreenForm
	ScreenTotal
)

// MenuTotal is the last menu entry.
const MenuTotal = "Total Carbon Emission"

// Session is what the application needs from the rest of the program.
type Session interface {
	Predictor
	Summarizer
}

// AppModel is the top-level program: a menu of the five stages and the
// total, each opening its own view.
type AppModel struct {
	ctx     context.Context
	session Session

	screen  Screen
	cursor  int
	entries []string
	child   tea.Model

	width    int
	height   int
	quitting bool
}

// NewAppModel builds the application on session.
func NewAppModel(ctx context.Context, session Session) *AppModel {
	entries := make([]string, 0, len(stage.All())+1)
	for _, s := range stage.All() {
		entries = append(entries, s.DisplayName())
	}
	entries = append(entries, MenuTotal)

	return &AppModel{ctx: ctx, session: session, entries: entries}
}

// Init implements tea.Model.
func (m *AppModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case BackMsg:
		m.screen = ScreenMenu
		m.child = nil
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if m.screen == ScreenMenu {
			return m.handleMenuKey(msg)
		}
	}

	if m.child != nil {
		var cmd tea.Cmd
		m.child, cmd = m.child.Update(msg)
		return m, cmd
	}
	return m, nil
}

//nolint:exhaustive // Only handling relevant key types for menu navigation.
func (m *AppModel) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyDown:
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case tea.KeyEnter:
		return m.open(m.cursor)
	case tea.KeyRunes:
		key := string(msg.Runes)
		if key == "q" {
			m.quitting = true
			return m, tea.Quit
		}
		if len(key) == 1 && key[0] >= '1' && int(key[0]-'1') < len(m.entries) {
			m.cursor = int(key[0] - '1')
			return m.open(m.cursor)
		}
	}
	return m, nil
}

func (m *AppModel) open(idx int) (tea.Model, tea.Cmd) {
	logger := logging.FromContext(m.ctx)

	if idx == len(m.entries)-1 {
		m.screen = ScreenTotal
		m.child = NewTotalModel(m.ctx, m.session)
		return m, m.child.Init()
	}

	s := stage.All()[idx]
	form, err := NewStageFormModel(m.ctx, s, m.session)
	if err != nil {
		logger.Error().Str("component", "tui").Err(err).Msg("cannot open stage form")
		return m, nil
	}
	logger.Debug().Str("component", "tui").Str("stage", s.String()).Msg("opening stage form")
	m.screen = ScreenForm
	m.child = form
	return m, form.Init()
}

// View implements tea.Model.
func (m *AppModel) View() string {
	if m.quitting {
		return ""
	}
	if m.child != nil {
		return m.child.View()
	}

	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("Smart Carbon Predictor"))
	sb.WriteString("\n\n")
	if txt := Text("welcome"); txt != "" {
		sb.WriteString(SubtleStyle.Render(txt))
		sb.WriteString("\n\n")
	}
	for i, e := range m.entries {
		line := fmt.Sprintf("%d. %s", i+1, e)
		if i == m.cursor {
			sb.WriteString(HighlightStyle.Render(IconCursor + " " + line))
		} else {
			sb.WriteString(LabelStyle.Render("  " + line))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(SubtleStyle.Render("↑/↓: Navigate | Enter: Open | 1-6: Jump | q: Quit"))
	return sb.String()
}

// Screen returns the active view.
func (m *AppModel) Screen() Screen {
	return m.screen
}
