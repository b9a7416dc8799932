package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/smartcarbon/internal/catalog"
	"github.com/rshade/smartcarbon/internal/engine"
	"github.com/rshade/smartcarbon/internal/logging"
	"github.com/rshade/smartcarbon/internal/stage"
)

// FormState is the stage form's state.
type FormState int

const (
	// FormStateEditing accepts navigation and edits.
	FormStateEditing FormState = iota
	// FormStatePredicting waits for the prediction to return.
	FormStatePredicting
)

// FieldRow is one numeric row of a stage form.
type FieldRow struct {
	Field catalog.Field
	Value string
}

// predictDoneMsg carries a finished prediction.
type predictDoneMsg struct {
	prediction *engine.Prediction
	err        error
}

// StageFormModel is the Bubble Tea model for one stage's inputs.
//
// Row 0 is the option selector; the remaining rows follow the catalog field
// order. Read-only rows show the constants implied by the selected option
// and cannot take focus.
type StageFormModel struct {
	ctx       context.Context
	stage     stage.Stage
	form      catalog.Form
	predictor Predictor

	optionIdx  int
	rows       []FieldRow
	focusedRow int
	editMode   bool
	editBuffer string

	state   FormState
	loading *LoadingState
	result  *engine.Prediction
	err     error
}

// NewStageFormModel builds the form for s with the first option selected.
func NewStageFormModel(ctx context.Context, s stage.Stage, predictor Predictor) (*StageFormModel, error) {
	form, err := catalog.ForStage(s)
	if err != nil {
		return nil, err
	}

	m := &StageFormModel{
		ctx:       ctx,
		stage:     s,
		form:      form,
		predictor: predictor,
		rows:      make([]FieldRow, len(form.Fields)),
		loading:   NewLoadingState("Predicting..."),
	}
	for i, f := range form.Fields {
		m.rows[i] = FieldRow{Field: f}
	}
	m.refreshDerived()
	return m, nil
}

// Init implements tea.Model.
func (m *StageFormModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *StageFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case predictDoneMsg:
		m.state = FormStateEditing
		m.result, m.err = msg.prediction, msg.err
		return m, nil
	case spinner.TickMsg:
		if m.state == FormStatePredicting {
			return m, m.loading.Update(msg)
		}
		return m, nil
	case tea.KeyMsg:
		if m.state == FormStatePredicting {
			return m, nil
		}
		if m.editMode {
			return m.handleEditModeKey(msg)
		}
		return m.handleKeyMsg(msg)
	}
	return m, nil
}

// focusable returns the row indexes (0 = option selector, i+1 = rows[i])
// that may take focus.
func (m *StageFormModel) focusable() []int {
	out := []int{0}
	for i, r := range m.rows {
		if !r.Field.ReadOnly() {
			out = append(out, i+1)
		}
	}
	return out
}

func (m *StageFormModel) moveFocus(delta int) {
	stops := m.focusable()
	pos := 0
	for i, s := range stops {
		if s == m.focusedRow {
			pos = i
		}
	}
	pos += delta
	if pos < 0 || pos >= len(stops) {
		return
	}
	m.focusedRow = stops[pos]
}

//nolint:exhaustive // Only handling relevant key types for form navigation.
func (m *StageFormModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, back
	case tea.KeyUp, tea.KeyShiftTab:
		m.moveFocus(-1)
	case tea.KeyDown, tea.KeyTab:
		m.moveFocus(1)
	case tea.KeyLeft:
		if m.focusedRow == 0 {
			m.selectOption(m.optionIdx - 1)
		}
	case tea.KeyRight:
		if m.focusedRow == 0 {
			m.selectOption(m.optionIdx + 1)
		}
	case tea.KeyEnter:
		if m.focusedRow > 0 {
			m.editMode = true
			m.editBuffer = m.rows[m.focusedRow-1].Value
		}
	case tea.KeyRunes:
		if string(msg.Runes) == "p" {
			return m, m.triggerPrediction()
		}
	}
	return m, nil
}

//nolint:exhaustive // Only handling relevant key types for text editing.
func (m *StageFormModel) handleEditModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.rows[m.focusedRow-1].Value = strings.TrimSpace(m.editBuffer)
		m.editMode = false
	case tea.KeyEsc:
		m.editMode = false
		m.editBuffer = ""
	case tea.KeyBackspace:
		runes := []rune(m.editBuffer)
		if len(runes) > 0 {
			m.editBuffer = string(runes[:len(runes)-1])
		}
	case tea.KeyRunes:
		m.editBuffer += string(msg.Runes)
	}
	return m, nil
}

func (m *StageFormModel) selectOption(idx int) {
	n := len(m.form.Options)
	m.optionIdx = (idx%n + n) % n
	m.refreshDerived()
}

func (m *StageFormModel) refreshDerived() {
	derived := m.form.Derived(m.form.Options[m.optionIdx])
	for i, r := range m.rows {
		if r.Field.ReadOnly() {
			m.rows[i].Value = strconv.FormatFloat(derived[r.Field.Key], 'g', -1, 64)
		}
	}
}

// Inputs converts the typed values. Empty rows stay unset so the engine
// reports them as missing.
func (m *StageFormModel) Inputs() (engine.Inputs, error) {
	in := engine.Inputs{Option: m.form.Options[m.optionIdx].Name}
	for _, r := range m.rows {
		if r.Field.ReadOnly() || r.Value == "" {
			continue
		}
		v, err := strconv.ParseFloat(r.Value, 64)
		if err != nil {
			return in, fmt.Errorf("%w: %s must be a number", engine.ErrInvalidInput, strings.ToLower(r.Field.Label))
		}
		if err = in.Set(r.Field.Key, v); err != nil {
			return in, err
		}
	}
	return in, nil
}

func (m *StageFormModel) triggerPrediction() tea.Cmd {
	in, err := m.Inputs()
	if err != nil {
		m.result, m.err = nil, err
		return nil
	}

	m.state = FormStatePredicting
	ctx, s, predictor := m.ctx, m.stage, m.predictor
	predict := func() tea.Msg {
		p, perr := predictor.Predict(ctx, s, in)
		if perr != nil {
			logger := logging.FromContext(ctx)
			logger.Debug().Str("component", "tui").Err(perr).Msg("prediction rejected")
		}
		return predictDoneMsg{prediction: p, err: perr}
	}
	return tea.Batch(m.loading.Init(), predict)
}

// View implements tea.Model.
func (m *StageFormModel) View() string {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render(fmt.Sprintf("%s Stage (%s)", m.stage.DisplayName(), m.stage.ModelID())))
	sb.WriteString("\n\n")
	if txt := StageText(m.stage); txt != "" {
		sb.WriteString(SubtleStyle.Render(txt))
		sb.WriteString("\n\n")
	}

	sb.WriteString(m.renderOptionRow())
	sb.WriteString("\n")
	for i, r := range m.rows {
		sb.WriteString(m.renderFieldRow(i+1, r))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	switch {
	case m.state == FormStatePredicting:
		sb.WriteString(m.loading.View())
	case m.err != nil:
		sb.WriteString(ErrorStyle.Render("Input Error: " + m.err.Error()))
	case m.result != nil:
		sb.WriteString(HighlightStyle.Render(m.result.Display))
	}
	sb.WriteString("\n\n")

	sb.WriteString(SubtleStyle.Render(strings.Join([]string{
		"↑/↓: Navigate", "←/→: Change option", "Enter: Edit", "p: Predict", "Esc: Back",
	}, " | ")))
	return sb.String()
}

const formLabelWidth = 26

func (m *StageFormModel) cursor(row int) string {
	if row != m.focusedRow {
		return "  "
	}
	if m.editMode {
		return IconEditing + " "
	}
	return IconCursor + " "
}

func (m *StageFormModel) renderOptionRow() string {
	label := LabelStyle.Render(fmt.Sprintf("%-*s", formLabelWidth, m.form.OptionLabel+":"))
	value := fmt.Sprintf("%s %s %s", IconLeft, m.form.Options[m.optionIdx].Name, IconRight)
	return m.cursor(0) + label + ValueStyle.Render(value)
}

func (m *StageFormModel) renderFieldRow(row int, r FieldRow) string {
	label := LabelStyle.Render(fmt.Sprintf("%-*s", formLabelWidth, r.Field.Label+":"))

	var value string
	switch {
	case m.editMode && row == m.focusedRow:
		value = HighlightStyle.Render(m.editBuffer + IconCaret)
	case r.Field.ReadOnly():
		value = SubtleStyle.Render(r.Value + " " + r.Field.Unit + " (auto)")
	case r.Value == "":
		value = SubtleStyle.Italic(true).Render(r.Field.Placeholder)
	default:
		value = ValueStyle.Render(strings.TrimSpace(r.Value + " " + r.Field.Unit))
	}
	return m.cursor(row) + label + value
}

// Result returns the last successful prediction, if any.
func (m *StageFormModel) Result() *engine.Prediction {
	return m.result
}

// Err returns the last error shown in the form.
func (m *StageFormModel) Err() error {
	return m.err
}
