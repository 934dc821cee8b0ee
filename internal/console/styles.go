package console

import "github.com/charmbracelet/lipgloss"

const (
	headerGlyph = "╭─"
	stepGlyph   = "│ "
	endGlyph    = "╰─"

	barFilled = "█"
	barEmpty  = "░"
)

type styles struct {
	prefix    lipgloss.Style
	muted     lipgloss.Style
	err       lipgloss.Style
	number    lipgloss.Style
	barFilled lipgloss.Style
	barEmpty  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		prefix:    r.NewStyle().Foreground(lipgloss.Color("241")),
		muted:     r.NewStyle().Foreground(lipgloss.Color("245")),
		err:       r.NewStyle().Foreground(lipgloss.Color("9")),
		number:    r.NewStyle().Foreground(lipgloss.Color("12")),
		barFilled: r.NewStyle().Foreground(lipgloss.Color("15")),
		barEmpty:  r.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

func (s styles) header() string { return s.prefix.Render(headerGlyph) }
func (s styles) step() string   { return s.prefix.Render(stepGlyph) }
func (s styles) end() string    { return s.prefix.Render(endGlyph) }
