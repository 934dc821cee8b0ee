package console

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
)

// MaxBarWidth caps the progress bar regardless of terminal width.
const MaxBarWidth = 120

type taskState int

const (
	stateIdle taskState = iota
	stateRunning
	stateEnded
)

// task is the shared lifecycle of Loading and Progress: one ticker while
// running, released exactly once on end.
type task struct {
	fall   *Fall
	render func() string // called with mu held

	mu     sync.Mutex
	state  taskState
	text   string
	tick   int
	paused bool

	ticker  Ticker
	stop    chan struct{}
	done    chan struct{}
	endOnce sync.Once
}

func (t *task) start(text string) {
	t.mu.Lock()
	if t.state != stateIdle {
		t.mu.Unlock()
		return
	}
	t.state = stateRunning
	t.text = text
	t.tick = -1
	t.ticker = t.fall.scheduler(t.fall.interval)
	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	ticker, stop, done := t.ticker, t.stop, t.done
	t.mu.Unlock()

	t.fall.setActive(t)
	go t.loop(ticker, stop, done)
}

func (t *task) loop(ticker Ticker, stop, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			t.Tick()
		}
	}
}

// Tick advances the frame and repaints the line in place.
func (t *task) Tick() {
	t.fall.session.locked(func() {
		t.mu.Lock()
		if t.state != stateRunning {
			t.mu.Unlock()
			return
		}
		t.tick++
		if t.paused {
			t.mu.Unlock()
			return
		}
		line := t.render()
		t.mu.Unlock()
		t.fall.session.write(clearLineSeq + line)
	})
}

// SetText replaces the status text. It shows on the next tick.
func (t *task) SetText(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.text = text
}

// Text returns the current status text.
func (t *task) Text() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.text
}

// End stops the ticker and draws the final line. Calling End again, or
// before Start, does nothing.
func (t *task) End(text string) {
	t.endOnce.Do(func() {
		t.mu.Lock()
		prev := t.state
		t.state = stateEnded
		ticker, stop, done := t.ticker, t.stop, t.done
		t.mu.Unlock()

		if prev != stateRunning {
			return
		}
		close(stop)
		<-done
		ticker.Stop()
		t.fall.clearActive(t)

		if text == "" {
			t.fall.session.ClearLine()
			return
		}
		t.fall.session.Redraw(t.fall.styles.end() + " " + text + "\n")
	})
}

// currentLine returns the line to restore after scrollback output, or ""
// when nothing should be drawn. Caller holds the session lock.
func (t *task) currentLine() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != stateRunning || t.paused || t.tick < 0 {
		return ""
	}
	return t.render()
}

func (t *task) suspend() {
	t.fall.session.locked(func() {
		t.mu.Lock()
		t.paused = true
		t.mu.Unlock()
		t.fall.session.write(clearLineSeq)
	})
}

func (t *task) resume() {
	t.mu.Lock()
	t.paused = false
	t.mu.Unlock()
}

func (t *task) frame() string {
	frames := t.fall.frames
	if len(frames) == 0 || t.tick < 0 {
		return ""
	}
	return frames[t.tick%len(frames)]
}

// Loading is a spinner line with status text.
type Loading struct {
	task
}

func newLoading(f *Fall) *Loading {
	l := &Loading{}
	l.fall = f
	l.render = func() string {
		return f.styles.end() + " " + l.frame() + " " + l.text
	}
	return l
}

// Start begins the repaint ticker. It has no effect unless the task is idle.
func (l *Loading) Start(text string) {
	l.start(text)
}

// Progress is a spinner line with a proportional bar and a task counter.
type Progress struct {
	task
	max     int
	current int
}

func newProgress(f *Fall) *Progress {
	p := &Progress{}
	p.fall = f
	p.render = p.line
	return p
}

// Start begins the repaint ticker. It has no effect unless the task is idle.
func (p *Progress) Start(text string) {
	p.start(text)
}

// SetMax sets the total number of units.
func (p *Progress) SetMax(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.max = n
}

// SetCurrent sets the number of completed units.
func (p *Progress) SetCurrent(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = n
}

// Increment marks one more unit complete.
func (p *Progress) Increment() {
	p.Add(1)
}

// Add marks n more units complete.
func (p *Progress) Add(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current += n
}

// Current returns the number of completed units.
func (p *Progress) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Log writes msg to the scrollback above the bar.
func (p *Progress) Log(msg string) {
	p.fall.emit(p.fall.stepLines(msg, 0, 0))
}

// BarSegments returns the filled and empty cell counts of the bar given the
// width taken by the rest of the line. The total is recomputed from the
// terminal width on every call.
func (p *Progress) BarSegments(prefixWidth int) (filled, empty int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.barSegments(prefixWidth)
}

func (p *Progress) barSegments(prefixWidth int) (filled, empty int) {
	avail := p.fall.session.Columns() - prefixWidth
	if avail > MaxBarWidth {
		avail = MaxBarWidth
	}
	if avail < 0 {
		avail = 0
	}
	if p.max > 0 {
		filled = int(math.Floor(float64(p.current) / float64(p.max) * float64(avail)))
	}
	if filled < 0 {
		filled = 0
	}
	if filled > avail {
		filled = avail
	}
	return filled, avail - filled
}

func (p *Progress) line() string {
	s := p.fall.styles
	left := s.end() + " " + p.frame() + " │"
	counter := s.number.Render(fmt.Sprintf("%d/%d", p.current, p.max))
	right := "│ (" + counter + ") " + p.text

	filled, empty := p.barSegments(ansi.StringWidth(left) + ansi.StringWidth(right))
	bar := s.barFilled.Render(strings.Repeat(barFilled, filled)) +
		s.barEmpty.Render(strings.Repeat(barEmpty, empty))
	return left + bar + right
}
