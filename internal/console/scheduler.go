package console

import "time"

// Ticker delivers repaint ticks until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Scheduler creates the ticker that drives a task's repaints.
type Scheduler func(interval time.Duration) Ticker

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// TimeScheduler is the default Scheduler backed by time.Ticker.
func TimeScheduler(interval time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(interval)}
}
