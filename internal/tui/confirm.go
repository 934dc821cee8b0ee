package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tormodhaugland/skeleton/internal/console"
)

type confirmModel struct {
	prompt   console.Prompt
	selected bool // true = Yes, false = No
	done     bool
	aborted  bool
}

func newConfirmModel(pr console.Prompt, def bool) confirmModel {
	return confirmModel{prompt: pr, selected: def}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			m.done = true
			return m, tea.Quit

		case "left", "right", "tab", "h", "l":
			m.selected = !m.selected
			return m, nil

		case "y", "Y":
			m.selected = true
			m.done = true
			return m, tea.Quit

		case "n", "N":
			m.selected = false
			m.done = true
			return m, tea.Quit

		case "enter":
			m.done = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		if m.aborted {
			return answered(m.prompt, "cancelled")
		}
		return answered(m.prompt, yesNo(m.selected))
	}

	yes, no := "Yes", "No"
	if m.selected {
		yes = selectedStyle.Render("[Yes]")
	} else {
		no = selectedStyle.Render("[No]")
	}
	return asking(m.prompt) + yes + " / " + no + "  " + hintStyle.Render("y/n • ←/→ • enter")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
