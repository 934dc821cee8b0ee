// Package tui implements the inline terminal prompts used between steps of
// a framed log.
package tui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tormodhaugland/skeleton/internal/console"
)

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = errors.New("prompt cancelled")

var (
	questionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	answerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
)

// Prompter runs one bubbletea program per question. Each program renders
// inline and leaves a single answered line behind.
type Prompter struct {
	In  io.Reader
	Out io.Writer
}

var _ console.Prompter = (*Prompter)(nil)

// NewPrompter returns a Prompter on the given streams. Nil streams fall back
// to the process terminal.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{In: in, Out: out}
}

// Input asks for a line of text. An empty answer yields the default.
func (p *Prompter) Input(ctx context.Context, pr console.Prompt) (string, error) {
	final, err := p.run(ctx, newInputModel(pr))
	if err != nil {
		return pr.Default, err
	}
	m := final.(inputModel)
	if m.aborted {
		return pr.Default, ErrAborted
	}
	return m.value, nil
}

// Confirm asks a yes/no question.
func (p *Prompter) Confirm(ctx context.Context, pr console.Prompt, def bool) (bool, error) {
	final, err := p.run(ctx, newConfirmModel(pr, def))
	if err != nil {
		return def, err
	}
	m := final.(confirmModel)
	if m.aborted {
		return def, ErrAborted
	}
	return m.selected, nil
}

// Select asks the user to pick one of pr.Choices.
func (p *Prompter) Select(ctx context.Context, pr console.Prompt) (string, error) {
	final, err := p.run(ctx, newSelectModel(pr))
	if err != nil {
		return pr.Default, err
	}
	m := final.(selectModel)
	if m.aborted {
		return pr.Default, ErrAborted
	}
	return m.choice, nil
}

func (p *Prompter) run(ctx context.Context, m tea.Model) (tea.Model, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if p.In != nil {
		opts = append(opts, tea.WithInput(p.In))
	}
	if p.Out != nil {
		opts = append(opts, tea.WithOutput(p.Out))
	}

	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return final, nil
}

// answered renders the line left behind once a prompt is done.
func answered(pr console.Prompt, answer string) string {
	return pr.Prefix + " " + questionStyle.Render("? "+pr.Message) + " " + answerStyle.Render(answer) + "\n"
}

func asking(pr console.Prompt) string {
	return pr.Prefix + " " + questionStyle.Render("? "+pr.Message) + " "
}
