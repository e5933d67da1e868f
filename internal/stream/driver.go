package stream

import (
	"context"
	"time"

	"agentui/internal/clock"
)

// Drive steps c from a single ticker until it is done or ctx ends. onFrame
// receives the visible segments after every step that changed something.
// The ticker is always stopped on return, so no tick outlives the call.
func Drive(ctx context.Context, clk clock.Clock, interval time.Duration, c *Controller, onFrame func([]View)) error {
	clk = clock.OrReal(clk)
	if interval <= 0 {
		interval = DefaultTypingSpeed
	}
	step := func(now time.Time) {
		if c.Step(now) && onFrame != nil {
			onFrame(c.Views())
		}
	}
	if c.Done() {
		return nil
	}
	step(clk.Now())
	if c.Done() {
		return nil
	}

	ticker := clk.NewTicker(interval)
	defer ticker.Stop()
	for !c.Done() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C():
			step(now)
		}
	}
	return nil
}
