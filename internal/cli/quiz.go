package cli

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/formpath/formpath/pkg/catalog"
)

func newQuizCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "quiz",
		Short: "Answer one question to find the right form",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, t, err := flags.config()
			if err != nil {
				return err
			}

			registry, err := catalog.Default()
			if err != nil {
				return err
			}

			quiz := catalog.FormQuiz()
			model := &quizModel{quiz: quiz, t: t}
			out, err := tea.NewProgram(model).Run()
			if err != nil {
				return err
			}
			picked := out.(*quizModel)
			if picked.aborted {
				return nil
			}

			form, err := registry.Get(quiz.Options[picked.cursor].FormID)
			if err != nil {
				return err
			}

			printNewline()
			printSuccess("%s - %s", form.ID, form.Title)
			printDetail("%s", form.Description)
			printKeyValue(t.category, form.Category)
			printKeyValue(t.estTime, form.EstimatedTime)
			printKeyValue(t.fee, form.FilingFee)
			printNewline()
			printInfo("run %s to get started", styleHighlight.Render("formpath fill "+form.ID))
			return nil
		},
	}
}

// quizModel is a minimal single-question picker.
type quizModel struct {
	quiz    catalog.Quiz
	t       messages
	cursor  int
	aborted bool
}

func (m *quizModel) Init() tea.Cmd { return nil }

func (m *quizModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.quiz.Options)-1 {
			m.cursor++
		}
	case "enter":
		return m, tea.Quit
	case "esc", "ctrl+c":
		m.aborted = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *quizModel) View() string {
	var b strings.Builder
	b.WriteString(wizLabelStyle.Render(m.quiz.Prompt))
	b.WriteString("\n\n")
	for i, opt := range m.quiz.Options {
		if i == m.cursor {
			b.WriteString(wizSelectedStyle.Render("▸ " + opt.Label))
		} else {
			b.WriteString(wizOptionStyle.Render("  " + opt.Label))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styleDim.Render("↑/↓  ·  ⏎ " + m.t.next + "  ·  " + m.t.exitHint))
	b.WriteString("\n")
	return b.String()
}
