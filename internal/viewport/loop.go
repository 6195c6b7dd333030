package viewport

import (
	"time"

	"github.com/charmbracelet/harmonica"
)

// Loop is the frame clock. Its channel is nil while stopped, so a select
// on C never fires for a loop that was not started or was cancelled.
type Loop struct {
	interval time.Duration
	ticker   *time.Ticker
}

// NewLoop creates a stopped loop ticking fps times per second.
func NewLoop(fps int) *Loop {
	return &Loop{interval: time.Duration(harmonica.FPS(max(fps, 1)) * float64(time.Second))}
}

// Interval returns the time between frames.
func (l *Loop) Interval() time.Duration { return l.interval }

// Start begins ticking. Starting a running loop does nothing.
func (l *Loop) Start() {
	if l.ticker == nil {
		l.ticker = time.NewTicker(l.interval)
	}
}

// Stop cancels the loop. It is safe to call more than once.
func (l *Loop) Stop() {
	if l == nil || l.ticker == nil {
		return
	}
	l.ticker.Stop()
	l.ticker = nil
}

// Running reports whether the loop has been started and not stopped.
func (l *Loop) Running() bool {
	return l != nil && l.ticker != nil
}

// C delivers frame ticks.
func (l *Loop) C() <-chan time.Time {
	if !l.Running() {
		return nil
	}
	return l.ticker.C
}
