package battle

import (
	"context"
	"time"
)

// Clock is the battle loop's single suspension point. Next blocks until the
// next tick and returns the time elapsed since the previous one.
type Clock interface {
	Next(ctx context.Context) (time.Duration, error)
}

// StepClock advances by a fixed step without sleeping. It suits tests and
// headless simulation.
type StepClock struct {
	Step time.Duration
}

// Next returns the fixed step unless ctx is done.
func (c StepClock) Next(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return c.Step, nil
}

// TickerClock ticks in real time. The first Next reports one interval, so
// time spent between construction and the first tick is not counted.
type TickerClock struct {
	ticker   *time.Ticker
	interval time.Duration
	last     time.Time
}

// NewTickerClock creates a clock ticking every interval.
func NewTickerClock(interval time.Duration) *TickerClock {
	return &TickerClock{
		ticker:   time.NewTicker(interval),
		interval: interval,
	}
}

// Next waits for the next tick or ctx cancellation.
func (c *TickerClock) Next(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-c.ticker.C:
		now := time.Now()
		dt := c.interval
		if !c.last.IsZero() {
			dt = now.Sub(c.last)
		}
		c.last = now
		return dt, nil
	}
}

// Stop releases the underlying ticker.
func (c *TickerClock) Stop() {
	c.ticker.Stop()
}
