package console

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/x/ansi"
)

// ErrNoPrompter is returned by the prompt methods of a Fall built without a
// Prompter.
var ErrNoPrompter = errors.New("no interactive prompter available")

// Prompt describes one question handed to a Prompter.
type Prompt struct {
	Prefix  string
	Message string
	Default string
	Choices []string
}

// Prompter asks the user a question on the terminal. Implementations leave
// exactly one answered line behind, starting with Prompt.Prefix.
type Prompter interface {
	Input(ctx context.Context, p Prompt) (string, error)
	Confirm(ctx context.Context, p Prompt, def bool) (bool, error)
	Select(ctx context.Context, p Prompt) (string, error)
}

// Fall is a framed step log:
//
//	╭─ start
//	│  step
//	╰─ end
type Fall struct {
	session   *Session
	prompter  Prompter
	scheduler Scheduler
	interval  time.Duration
	frames    []string
	styles    styles

	mu     sync.Mutex
	active *task
}

// FallOption configures a Fall.
type FallOption func(*Fall)

// WithPrompter sets the collaborator used by Input, Confirm and Select.
func WithPrompter(p Prompter) FallOption {
	return func(f *Fall) { f.prompter = p }
}

// WithScheduler replaces the ticker source used by loading tasks.
func WithScheduler(s Scheduler) FallOption {
	return func(f *Fall) { f.scheduler = s }
}

// WithSpinner sets the spinner frames and repaint interval.
func WithSpinner(s spinner.Spinner) FallOption {
	return func(f *Fall) {
		f.frames = s.Frames
		f.interval = s.FPS
	}
}

// NewFall returns a Fall writing to session.
func NewFall(session *Session, opts ...FallOption) *Fall {
	f := &Fall{
		session:   session,
		scheduler: TimeScheduler,
		frames:    spinner.Line.Frames,
		interval:  spinner.Line.FPS,
		styles:    newStyles(session.Renderer()),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FallSteps prints a complete block: the first line as header, the last as
// footer and everything between as steps.
func FallSteps(session *Session, lines ...string) {
	f := NewFall(session)
	for i, line := range lines {
		switch {
		case i == 0:
			f.Start(line)
		case i == len(lines)-1:
			f.End(line)
		default:
			f.Step(line)
		}
	}
}

// Session returns the underlying session.
func (f *Fall) Session() *Session {
	return f.session
}

// Start prints the header line.
func (f *Fall) Start(text string) {
	f.emit([]string{f.styles.header() + " " + text})
}

// Step prints text as one or more step lines.
func (f *Fall) Step(text string) {
	f.emit(f.stepLines(text, 0, 0))
}

// Stepf formats and prints a step.
func (f *Fall) Stepf(format string, args ...any) {
	f.Step(fmt.Sprintf(format, args...))
}

// StepIndent prints blank prefix lines followed by text indented by indent
// cells. Wrapped continuation lines keep the indent.
func (f *Fall) StepIndent(text string, blank, indent int) {
	f.emit(f.stepLines(text, blank, indent))
}

// Muted renders text in the secondary color.
func (f *Fall) Muted(text string) string {
	return f.styles.muted.Render(text)
}

// Highlight renders text in the accent color used for numbers and paths.
func (f *Fall) Highlight(text string) string {
	return f.styles.number.Render(text)
}

// Danger renders text in the error color.
func (f *Fall) Danger(text string) string {
	return f.styles.err.Render(text)
}

// Error prints every line of text in red.
func (f *Fall) Error(text string) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		lines = append(lines, f.stepLines(f.styles.err.Render(line), 0, 0)...)
	}
	f.emit(lines)
}

// End restores the previous line's prefix and prints the footer line.
func (f *Fall) End(text string) {
	f.ResetPrefix()
	f.emit([]string{f.styles.end() + " " + text})
}

// ResetPrefix rewrites the previous line's glyph as a step prefix. Used
// after a prompt has drawn its own prefix there.
func (f *Fall) ResetPrefix() {
	f.session.ResetPrefix(f.styles.step())
}

// Input asks for a line of text.
func (f *Fall) Input(ctx context.Context, message, def string) (string, error) {
	if f.prompter == nil {
		return def, ErrNoPrompter
	}
	defer f.suspend()()
	return f.prompter.Input(ctx, f.prompt(message, def, nil))
}

// Confirm asks a yes/no question.
func (f *Fall) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	if f.prompter == nil {
		return def, ErrNoPrompter
	}
	defer f.suspend()()
	return f.prompter.Confirm(ctx, f.prompt(message, "", nil), def)
}

// Select asks the user to pick one of choices.
func (f *Fall) Select(ctx context.Context, message string, choices []string, def string) (string, error) {
	if f.prompter == nil {
		return def, ErrNoPrompter
	}
	defer f.suspend()()
	return f.prompter.Select(ctx, f.prompt(message, def, choices))
}

func (f *Fall) prompt(message, def string, choices []string) Prompt {
	return Prompt{Prefix: f.styles.end(), Message: message, Default: def, Choices: choices}
}

// suspend pauses the active task's repaint and returns the function that
// restores the prefix and resumes it.
func (f *Fall) suspend() func() {
	t := f.current()
	if t != nil {
		t.suspend()
	}
	return func() {
		f.ResetPrefix()
		if t != nil {
			t.resume()
		}
	}
}

// NewLoading returns an idle spinner task bound to f.
func (f *Fall) NewLoading() *Loading {
	return newLoading(f)
}

// NewProgress returns an idle progress task bound to f.
func (f *Fall) NewProgress(max int) *Progress {
	p := newProgress(f)
	p.max = max
	return p
}

// WithLoading runs fn under a spinner. The spinner is ended on every exit
// path; a returned error is printed and passed through.
func (f *Fall) WithLoading(ctx context.Context, text string, fn func(context.Context, *Loading) error) error {
	l := f.NewLoading()
	l.Start(f.Muted(text))

	err := func() error {
		defer l.End("")
		return fn(ctx, l)
	}()
	if err != nil {
		f.Error(err.Error())
	}
	return err
}

// WithProgress runs fn under a progress bar of max units. The bar is ended
// on every exit path; a returned error is printed and passed through.
func (f *Fall) WithProgress(ctx context.Context, text string, max int, fn func(context.Context, *Progress) error) error {
	p := f.NewProgress(max)
	p.Start(f.Muted(text))

	err := func() error {
		defer p.End("")
		return fn(ctx, p)
	}()
	if err != nil {
		f.Error(err.Error())
	}
	return err
}

func (f *Fall) stepLines(text string, blank, indent int) []string {
	prefix := f.styles.step()
	lines := make([]string, 0, blank+1)
	for i := 0; i < blank; i++ {
		lines = append(lines, prefix)
	}

	limit := f.session.Columns() - ansi.StringWidth(stepGlyph) - 2 - indent
	pad := strings.Repeat(" ", indent)
	for _, raw := range strings.Split(text, "\n") {
		wrapped := raw
		if limit > 0 && ansi.StringWidth(raw) > limit {
			wrapped = ansi.Hardwrap(raw, limit, true)
		}
		for _, line := range strings.Split(wrapped, "\n") {
			lines = append(lines, prefix+" "+pad+line)
		}
	}
	return lines
}

// emit writes lines to the scrollback. A running task's line is cleared
// first and drawn again below the new output.
func (f *Fall) emit(lines []string) {
	t := f.current()
	f.session.locked(func() {
		var restore string
		if t != nil {
			restore = t.currentLine()
			if restore != "" {
				f.session.write(clearLineSeq)
			}
		}
		for _, line := range lines {
			f.session.write(line + "\n")
		}
		if restore != "" {
			f.session.write(t.currentLine())
		}
	})
}

func (f *Fall) current() *task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

func (f *Fall) setActive(t *task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = t
}

func (f *Fall) clearActive(t *task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active == t {
		f.active = nil
	}
}
