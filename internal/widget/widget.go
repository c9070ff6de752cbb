// Package widget is the terminal rendition of the calculator widget: one
// input line, Enter to solve, and a scrollback of results.
package widget

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/njchilds90/calcwidget"
)

// maxEntries bounds the scrollback.
const maxEntries = 50

var (
	styleBase = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			Padding(0, 1)

	styleInput = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))

	styleHelp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	styleOK = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Padding(0, 1)

	styleErr = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Padding(0, 1)
)

// Entry is one solved request in the scrollback.
type Entry struct {
	Input  string
	Output string
	Failed bool
}

type Model struct {
	solver  *calcwidget.Solver
	input   textinput.Model
	entries []Entry
	recall  int // index into entries while browsing with up/down; len(entries) when idle
}

func New(solver *calcwidget.Solver) Model {
	ti := textinput.New()
	ti.Placeholder = "∫ x^2 dx  or  d/dx sin(x)"
	ti.Prompt = "› "
	ti.CharLimit = 256
	ti.Width = 48
	ti.Focus()
	return Model{solver: solver, input: ti}
}

// Entries returns the scrollback, oldest first.
func (m Model) Entries() []Entry { return m.entries }

// Value returns the current input line.
func (m Model) Value() string { return m.input.Value() }

// SetValue replaces the input line.
func (m *Model) SetValue(s string) { m.input.SetValue(s) }

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			m.submit()
			return m, nil
		case "up":
			if m.recall > 0 {
				m.recall--
				m.input.SetValue(m.entries[m.recall].Input)
				m.input.CursorEnd()
			}
			return m, nil
		case "down":
			if m.recall < len(m.entries)-1 {
				m.recall++
				m.input.SetValue(m.entries[m.recall].Input)
				m.input.CursorEnd()
			} else {
				m.recall = len(m.entries)
				m.input.SetValue("")
			}
			return m, nil
		case "ctrl+l":
			m.entries = nil
			m.recall = 0
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submit() {
	in := strings.TrimSpace(m.input.Value())
	if in == "" {
		return
	}
	res := m.solver.Evaluate(in)
	m.entries = append(m.entries, Entry{Input: in, Output: res.Display(), Failed: res.Err != nil})
	if len(m.entries) > maxEntries {
		m.entries = m.entries[len(m.entries)-maxEntries:]
	}
	m.recall = len(m.entries)
	m.input.SetValue("")
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("∫ calcwidget"))
	b.WriteString("\n\n")
	for _, e := range m.entries {
		b.WriteString(styleInput.Render(e.Input))
		b.WriteString("\n")
		if e.Failed {
			b.WriteString(styleErr.Render("✗ " + e.Output))
		} else {
			b.WriteString(styleOK.Render("= " + e.Output))
		}
		b.WriteString("\n")
	}
	if len(m.entries) > 0 {
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(styleHelp.Render("[Enter] Solve | [↑/↓] History | [Ctrl+L] Clear | [Esc] Quit"))
	return styleBase.Render(b.String())
}

// Run starts the interactive widget on the terminal.
func Run(solver *calcwidget.Solver, opts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(New(solver), opts...).Run()
	return err
}
