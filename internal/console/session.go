// Package console renders framed step logs with in-place spinner and
// progress lines.
package console

import (
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/term"
	"github.com/muesli/termenv"
)

// DefaultColumns is used when the writer is not a terminal.
const DefaultColumns = 80

const clearLineSeq = "\r" + ansi.EraseEntireLine + "\r"

// Session owns one terminal writer. Every cursor-affecting write goes
// through its mutex so a ticking task and the step log never interleave.
type Session struct {
	mu       sync.Mutex
	out      io.Writer
	columns  func() int
	renderer *lipgloss.Renderer
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithColumns pins the terminal width.
func WithColumns(n int) SessionOption {
	return func(s *Session) {
		s.columns = func() int { return n }
	}
}

// WithColorProfile overrides the detected color profile.
func WithColorProfile(p termenv.Profile) SessionOption {
	return func(s *Session) {
		s.renderer.SetColorProfile(p)
	}
}

// NewSession binds a session to w. Width is read from w when it is a
// terminal.
func NewSession(w io.Writer, opts ...SessionOption) *Session {
	s := &Session{
		out:      w,
		renderer: lipgloss.NewRenderer(w),
	}
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		fd := f.Fd()
		s.columns = func() int {
			width, _, err := term.GetSize(fd)
			if err != nil {
				return 0
			}
			return width
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Columns returns the current terminal width, read again on every call.
func (s *Session) Columns() int {
	if s.columns != nil {
		if n := s.columns(); n > 0 {
			return n
		}
	}
	return DefaultColumns
}

// Renderer returns the lipgloss renderer bound to the session writer.
func (s *Session) Renderer() *lipgloss.Renderer {
	return s.renderer
}

// Print writes str as is.
func (s *Session) Print(str string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.write(str)
}

// Println writes str followed by a newline.
func (s *Session) Println(str string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.write(str + "\n")
}

// ClearLine erases the current line and returns the cursor to column 0.
func (s *Session) ClearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.write(clearLineSeq)
}

// Redraw replaces the current line with str, leaving the cursor at its end.
func (s *Session) Redraw(str string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.write(clearLineSeq + str)
}

// ResetPrefix rewrites the first cells of the previous line with prefix and
// puts the cursor back at the start of the current line.
func (s *Session) ResetPrefix(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.write(resetPrefixSeq(prefix))
}

func resetPrefixSeq(prefix string) string {
	return "\r" + ansi.CursorUp(1) + prefix + "\r" + ansi.CursorDown(1)
}

// locked runs fn while holding the session lock. fn must use write.
func (s *Session) locked(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

func (s *Session) write(str string) {
	_, _ = io.WriteString(s.out, str)
}
