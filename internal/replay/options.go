// Package replay re-drives the live render pipeline from a persisted
// session log.
package replay

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidSpeed is returned when Speed is not strictly positive.
var ErrInvalidSpeed = errors.New("replay: speed must be greater than 0")

// Options 控制回放节奏。
type Options struct {
	// Realtime reproduces the original gaps between entries, divided by Speed.
	Realtime bool
	Speed    float64
	// FilterStreamEvents drops stream_event entries before any delay accounting.
	FilterStreamEvents bool
	// FixedDelay is waited before every rendered entry when Realtime is off.
	FixedDelay time.Duration
	// SkipFirstDelay omits FixedDelay before the first entry.
	SkipFirstDelay bool
	// Follow keeps rendering entries appended after the initial replay.
	Follow bool
}

// DefaultOptions returns speed 1 with no delays.
func DefaultOptions() Options {
	return Options{Speed: 1}
}

// Validate checks option values.
func (o Options) Validate() error {
	if o.Speed <= 0 {
		return fmt.Errorf("%w (got %v)", ErrInvalidSpeed, o.Speed)
	}
	if o.FixedDelay < 0 {
		return fmt.Errorf("replay: fixed delay must not be negative (got %s)", o.FixedDelay)
	}
	return nil
}
