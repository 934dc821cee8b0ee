package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tormodhaugland/skeleton/internal/console"
)

type inputModel struct {
	prompt  console.Prompt
	input   textinput.Model
	value   string
	done    bool
	aborted bool
}

func newInputModel(pr console.Prompt) inputModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = pr.Default
	ti.CharLimit = 256
	ti.Width = 40
	ti.Focus()

	return inputModel{prompt: pr, input: ti}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			m.done = true
			return m, tea.Quit

		case "enter":
			m.value = strings.TrimSpace(m.input.Value())
			if m.value == "" {
				m.value = m.prompt.Default
			}
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.done {
		if m.aborted {
			return answered(m.prompt, "cancelled")
		}
		return answered(m.prompt, m.value)
	}
	return asking(m.prompt) + m.input.View()
}
