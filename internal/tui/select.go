package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tormodhaugland/skeleton/internal/console"
)

type choiceItem string

func (i choiceItem) FilterValue() string { return string(i) }

// choiceDelegate draws one choice per line with a cursor on the selection.
type choiceDelegate struct{}

func (choiceDelegate) Height() int                             { return 1 }
func (choiceDelegate) Spacing() int                            { return 0 }
func (choiceDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (choiceDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	choice, ok := item.(choiceItem)
	if !ok {
		return
	}
	if index == m.Index() {
		fmt.Fprint(w, selectedStyle.Render("❯ "+string(choice)))
		return
	}
	fmt.Fprint(w, "  "+string(choice))
}

type selectModel struct {
	prompt  console.Prompt
	list    list.Model
	choice  string
	done    bool
	aborted bool
}

func newSelectModel(pr console.Prompt) selectModel {
	items := make([]list.Item, len(pr.Choices))
	selected := 0
	for i, c := range pr.Choices {
		items[i] = choiceItem(c)
		if c == pr.Default {
			selected = i
		}
	}

	l := list.New(items, choiceDelegate{}, 40, len(items)+2)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.Select(selected)

	return selectModel{prompt: pr, list: l}
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			m.done = true
			return m, tea.Quit

		case "enter":
			if item, ok := m.list.SelectedItem().(choiceItem); ok {
				m.choice = string(item)
				m.done = true
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectModel) View() string {
	if m.done {
		if m.aborted {
			return answered(m.prompt, "cancelled")
		}
		return answered(m.prompt, m.choice)
	}
	return asking(m.prompt) + hintStyle.Render("↑/↓ • /: filter • enter") + "\n" + m.list.View()
}
