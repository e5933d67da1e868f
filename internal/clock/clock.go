// Package clock abstracts time for the timer-driven parts of the renderer
// (typing ticks, tool settle delays, replay pacing) so they can run against
// a virtual clock in tests.
package clock

import (
	"context"
	"sync"
	"time"
)

// Clock is the single source of time and timers for a render session.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
	// Sleep blocks for d or until ctx is done.
	Sleep(ctx context.Context, d time.Duration) error
}

// Ticker delivers ticks until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Real returns the wall clock.
func Real() Clock { return realClock{} }

// OrReal returns c, or the wall clock when c is nil.
func OrReal(c Clock) Clock {
	if c == nil {
		return Real()
	}
	return c
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) NewTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// Fake is a virtual clock. Sleep returns immediately after advancing the
// clock; tickers advance the clock by their period before delivering each
// tick, and roll back an undelivered tick when stopped.
type Fake struct {
	mu    sync.Mutex
	now   time.Time
	slept []time.Duration
}

// NewFake returns a virtual clock starting at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the clock forward by d.
func (f *Fake) Advance(d time.Duration) time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
	return f.now
}

func (f *Fake) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	f.slept = append(f.slept, d)
	if d > 0 {
		f.now = f.now.Add(d)
	}
	f.mu.Unlock()
	return nil
}

// Slept returns every duration passed to Sleep, in call order.
func (f *Fake) Slept() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]time.Duration, len(f.slept))
	copy(out, f.slept)
	return out
}

func (f *Fake) NewTicker(d time.Duration) Ticker {
	if d <= 0 {
		d = time.Millisecond
	}
	t := &fakeTicker{c: make(chan time.Time), stop: make(chan struct{})}
	go func() {
		for {
			// 先推进时钟再投递，接收方读到 tick 后 Now() 已不早于它。
			f.mu.Lock()
			next := f.now.Add(d)
			f.now = next
			f.mu.Unlock()
			select {
			case t.c <- next:
			case <-t.stop:
				f.mu.Lock()
				if f.now.Equal(next) {
					f.now = next.Add(-d)
				}
				f.mu.Unlock()
				return
			}
		}
	}()
	return t
}

type fakeTicker struct {
	c    chan time.Time
	stop chan struct{}
	once sync.Once
}

func (t *fakeTicker) C() <-chan time.Time { return t.c }

func (t *fakeTicker) Stop() {
	t.once.Do(func() { close(t.stop) })
}
