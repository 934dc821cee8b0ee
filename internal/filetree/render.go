package filetree

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	connectorMid  = "├─ "
	connectorLast = "╰─ "
	continueBar   = "│  "
	continueBlank = "   "
)

type renderConfig struct {
	header   string
	renderer *lipgloss.Renderer
}

// RenderOption configures Render.
type RenderOption func(*renderConfig)

// WithHeader adds a first line above the diagram.
func WithHeader(header string) RenderOption {
	return func(c *renderConfig) { c.header = header }
}

// WithRenderer styles failed entries with r instead of the default renderer.
func WithRenderer(r *lipgloss.Renderer) RenderOption {
	return func(c *renderConfig) { c.renderer = r }
}

// Render draws the tree as an indented box-drawing diagram in input order.
// Entries whose bare name is in failed are highlighted.
func Render(t Tree, failed map[string]bool, opts ...RenderOption) string {
	cfg := renderConfig{renderer: lipgloss.DefaultRenderer()}
	for _, opt := range opts {
		opt(&cfg)
	}
	failedStyle := cfg.renderer.NewStyle().
		Background(lipgloss.Color("1")).
		Foreground(lipgloss.Color("15"))

	var lines []string
	if cfg.header != "" {
		lines = append(lines, cfg.header)
	}

	var walk func(nodes Tree, prefix string)
	walk = func(nodes Tree, prefix string) {
		for i, n := range nodes {
			last := i == len(nodes)-1
			connector := connectorMid
			if last {
				connector = connectorLast
			}

			name := n.Name
			if failed[n.Name] {
				name = failedStyle.Render(n.Name)
			}
			lines = append(lines, prefix+connector+name)

			if n.IsDir() {
				next := prefix + continueBar
				if last {
					next = prefix + continueBlank
				}
				walk(n.Children, next)
			}
		}
	}
	walk(t, "")

	return strings.Join(lines, "\n")
}
