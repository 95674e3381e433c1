package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/formpath/formpath/pkg/catalog"
	"github.com/formpath/formpath/pkg/errors"
	"github.com/formpath/formpath/pkg/schema"
	"github.com/formpath/formpath/pkg/wizard"
)

// Wizard styles.
var (
	wizHeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	wizSectionStyle  = lipgloss.NewStyle().Foreground(colorGray)
	wizLabelStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	wizHintStyle     = lipgloss.NewStyle().Foreground(colorDim).Italic(true)
	wizErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
	wizSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	wizOptionStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	wizBarFillStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	wizBarRestStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

const progressBarWidth = 30

// wizardModel drives one form's question flow in the terminal. It owns the
// input widgets and defers all flow decisions to the wizard controller.
type wizardModel struct {
	ctx  context.Context
	ctrl *wizard.Controller
	form *catalog.Form
	t    messages

	input  textinput.Model
	area   textarea.Model
	cursor int // choice cursor for select and yes/no questions
	errMsg string

	reviewCursor int

	// finished is set when the user confirms from review; aborted when they
	// back out of the flow entirely.
	finished bool
	aborted  bool
}

// reviewItem addresses one visible question for the review screen.
type reviewItem struct {
	section  int
	question int
	q        schema.Question
}

func newWizardModel(ctx context.Context, form *catalog.Form, ctrl *wizard.Controller, t messages) *wizardModel {
	m := &wizardModel{ctx: ctx, ctrl: ctrl, form: form, t: t}
	m.syncQuestion()
	return m
}

// syncQuestion prepares the input widget for the question under the cursor,
// seeding it with any existing answer.
func (m *wizardModel) syncQuestion() {
	m.errMsg = ""
	q, ok := m.ctrl.CurrentQuestion()
	if !ok {
		return
	}
	value := m.ctrl.Answers().Get(q.ID)

	switch q.Type {
	case schema.TypeTextarea:
		m.area = textarea.New()
		m.area.SetWidth(64)
		m.area.SetHeight(4)
		m.area.SetValue(value)
		m.area.Focus()
	case schema.TypeSelect, schema.TypeYesNo:
		m.cursor = 0
		for i, opt := range m.choiceValues(q) {
			if opt == value {
				m.cursor = i
			}
		}
	default:
		m.input = textinput.New()
		m.input.Width = 48
		if q.Type == schema.TypeDate {
			m.input.Placeholder = "MM/DD/YYYY"
		}
		m.input.SetValue(value)
		m.input.Focus()
	}
}

// choiceValues returns the stored values a choice question can take.
func (m *wizardModel) choiceValues(q schema.Question) []string {
	if q.Type == schema.TypeYesNo {
		return []string{"yes", "no"}
	}
	return q.Options
}

// choiceLabel translates a stored choice value for display.
func (m *wizardModel) choiceLabel(q schema.Question, value string) string {
	if q.Type == schema.TypeYesNo {
		if value == "yes" {
			return m.t.yes
		}
		return m.t.no
	}
	return value
}

func (m *wizardModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, isKey := msg.(tea.KeyMsg)
	if isKey && key.String() == "ctrl+c" {
		m.aborted = true
		return m, tea.Quit
	}

	switch m.ctrl.State() {
	case wizard.StateReview:
		if isKey {
			return m.updateReview(key)
		}
		return m, nil
	case wizard.StateExited:
		m.aborted = true
		return m, tea.Quit
	}

	q, ok := m.ctrl.CurrentQuestion()
	if !ok {
		// The cursor points past the visible list; let the controller
		// renormalize on the next transition.
		m.ctrl.Next(m.ctx)
		m.syncQuestion()
		return m, nil
	}

	if isKey {
		return m.updateQuestion(q, key)
	}

	// Pass non-key messages (blink ticks, etc.) to the focused widget.
	var cmd tea.Cmd
	switch q.Type {
	case schema.TypeTextarea:
		m.area, cmd = m.area.Update(msg)
	case schema.TypeSelect, schema.TypeYesNo:
	default:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m *wizardModel) updateQuestion(q schema.Question, key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.commitAnswer(q)
		m.ctrl.Prev(m.ctx)
		if m.ctrl.State() == wizard.StateExited {
			m.aborted = true
			return m, tea.Quit
		}
		m.syncQuestion()
		return m, nil

	case "ctrl+k":
		if !q.Required {
			m.commitAnswer(q)
			m.ctrl.Skip(m.ctx)
			m.syncQuestion()
		}
		return m, nil
	}

	switch q.Type {
	case schema.TypeSelect, schema.TypeYesNo:
		return m.updateChoice(q, key)
	case schema.TypeTextarea:
		// Textareas take enter as a newline; continue with ctrl+d.
		if key.String() == "ctrl+d" {
			return m.continueFrom(q)
		}
		var cmd tea.Cmd
		m.area, cmd = m.area.Update(key)
		return m, cmd
	default:
		if key.String() == "enter" {
			return m.continueFrom(q)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(key)
		return m, cmd
	}
}

func (m *wizardModel) updateChoice(q schema.Question, key tea.KeyMsg) (tea.Model, tea.Cmd) {
	values := m.choiceValues(q)
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(values)-1 {
			m.cursor++
		}
	case "enter":
		m.ctrl.SetAnswer(m.ctx, q.ID, values[m.cursor])
		return m.advance()
	}
	return m, nil
}

// commitAnswer stores the current widget value without navigating.
func (m *wizardModel) commitAnswer(q schema.Question) {
	switch q.Type {
	case schema.TypeTextarea:
		m.ctrl.SetAnswer(m.ctx, q.ID, m.area.Value())
	case schema.TypeSelect, schema.TypeYesNo:
		// Choices commit on selection, not on navigation.
	default:
		m.ctrl.SetAnswer(m.ctx, q.ID, m.input.Value())
	}
}

func (m *wizardModel) continueFrom(q schema.Question) (tea.Model, tea.Cmd) {
	m.commitAnswer(q)
	return m.advance()
}

func (m *wizardModel) advance() (tea.Model, tea.Cmd) {
	if err := m.ctrl.Continue(m.ctx); err != nil {
		if errors.Is(err, errors.ErrCodeRequiredField) {
			m.errMsg = m.t.emptyRequired
		} else {
			m.errMsg = errors.UserMessage(err)
		}
		return m, nil
	}
	m.syncQuestion()
	return m, nil
}

// reviewItems lists every currently-visible question with its position, for
// jump-to-edit. Recomputed on each call because visibility follows answers.
func (m *wizardModel) reviewItems() []reviewItem {
	var items []reviewItem
	doc := m.ctrl.Document()
	answers := m.ctrl.Answers()
	for si, sec := range doc.Sections {
		for qi, q := range schema.VisibleQuestions(sec, answers) {
			items = append(items, reviewItem{section: si, question: qi, q: q})
		}
	}
	return items
}

func (m *wizardModel) updateReview(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.reviewItems()
	switch key.String() {
	case "up", "k":
		if m.reviewCursor > 0 {
			m.reviewCursor--
		}
	case "down", "j":
		if m.reviewCursor < len(items)-1 {
			m.reviewCursor++
		}
	case "e":
		if len(items) > 0 {
			item := items[m.reviewCursor]
			m.ctrl.Jump(m.ctx, item.section, item.question)
			m.syncQuestion()
		}
	case "enter":
		m.finished = true
		return m, tea.Quit
	case "esc":
		m.aborted = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *wizardModel) View() string {
	switch m.ctrl.State() {
	case wizard.StateReview:
		return m.viewReview()
	case wizard.StateExited:
		return ""
	}
	return m.viewQuestion()
}

func (m *wizardModel) viewQuestion() string {
	q, ok := m.ctrl.CurrentQuestion()
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(wizHeaderStyle.Render(m.form.ID + " - " + m.form.Title))
	b.WriteString("\n")
	b.WriteString(wizSectionStyle.Render(m.ctrl.CurrentSection().Title))
	b.WriteString("\n")
	b.WriteString(m.progressLine())
	b.WriteString("\n\n")

	b.WriteString(wizLabelStyle.Render(q.Label))
	req := m.t.optional
	if q.Required {
		req = m.t.required
	}
	b.WriteString(" " + styleDim.Render("("+req+")"))
	b.WriteString("\n")
	if q.Hint != "" {
		b.WriteString(wizHintStyle.Render(m.t.hintPrefix + " " + q.Hint))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch q.Type {
	case schema.TypeSelect, schema.TypeYesNo:
		for i, value := range m.choiceValues(q) {
			label := m.choiceLabel(q, value)
			if i == m.cursor {
				b.WriteString(wizSelectedStyle.Render("▸ " + label))
			} else {
				b.WriteString(wizOptionStyle.Render("  " + label))
			}
			b.WriteString("\n")
		}
	case schema.TypeTextarea:
		b.WriteString(m.area.View())
		b.WriteString("\n")
	default:
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(wizErrorStyle.Render(iconError + " " + m.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styleDim.Render(m.keyHints(q)))
	b.WriteString("\n")
	return b.String()
}

func (m *wizardModel) progressLine() string {
	step := m.ctrl.StepNumber()
	total := m.ctrl.TotalSteps()
	readiness := m.ctrl.Readiness()

	filled := 0
	if total > 0 {
		filled = progressBarWidth * (step - 1) / total
	}
	bar := wizBarFillStyle.Render(strings.Repeat("█", filled)) +
		wizBarRestStyle.Render(strings.Repeat("░", progressBarWidth-filled))

	return fmt.Sprintf("%s %s %d %s %d · %d%% %s",
		bar, m.t.step, step, m.t.of, total, readiness, m.t.complete)
}

func (m *wizardModel) keyHints(q schema.Question) string {
	var hints []string
	switch q.Type {
	case schema.TypeSelect, schema.TypeYesNo:
		hints = append(hints, "↑/↓", "⏎ "+m.t.next)
	case schema.TypeTextarea:
		hints = append(hints, "ctrl+d "+m.t.next)
	default:
		hints = append(hints, "⏎ "+m.t.next)
	}
	if !q.Required {
		hints = append(hints, "ctrl+k "+m.t.skip)
	}
	hints = append(hints, m.t.exitHint)
	return strings.Join(hints, "  ·  ")
}

func (m *wizardModel) viewReview() string {
	var b strings.Builder
	b.WriteString(wizHeaderStyle.Render(m.t.reviewTitle))
	b.WriteString("\n")
	b.WriteString(styleDim.Render(m.t.reviewSub))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s: %d%%", m.t.readiness, m.ctrl.Readiness()))
	if m.ctrl.Readiness() < 100 {
		b.WriteString("  " + styleWarning.Render(m.t.emptyRequired))
	}
	b.WriteString("\n\n")

	answers := m.ctrl.Answers()
	lastSection := -1
	for i, item := range m.reviewItems() {
		if item.section != lastSection {
			lastSection = item.section
			b.WriteString(wizSectionStyle.Render(m.ctrl.Document().Sections[item.section].Title))
			b.WriteString("\n")
		}
		cursor := "  "
		if i == m.reviewCursor {
			cursor = wizSelectedStyle.Render("▸ ")
		}
		value := answers.Get(item.q.ID)
		if strings.TrimSpace(value) == "" {
			value = styleDim.Render("—")
		} else {
			value = m.choiceLabel(item.q, value)
		}
		b.WriteString(fmt.Sprintf("%s%s: %s\n", cursor, item.q.Label, value))
	}

	b.WriteString("\n")
	b.WriteString(styleDim.Render("↑/↓  ·  e " + m.t.edit + "  ·  ⏎ " + m.t.next + "  ·  " + m.t.exitHint))
	b.WriteString("\n")
	return b.String()
}
