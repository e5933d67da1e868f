package replay

import (
	"time"

	"agentui/internal/message"
	"agentui/internal/sessionlog"
)

// Step is one message to render after waiting Delay.
type Step struct {
	// Line is the 0-based position of the entry among the entries read.
	Line    int
	Entry   sessionlog.Entry
	Message message.Message
	Delay   time.Duration
}

// Plan turns log entries into timed steps. Session markers are skipped, as
// are stream events when filtering and entries whose payload does not decode.
// Delays are only accounted between kept entries.
func Plan(entries []sessionlog.Entry, opts Options) []Step {
	if opts.Speed <= 0 {
		opts.Speed = 1
	}
	steps := make([]Step, 0, len(entries))
	var prev time.Time
	havePrev := false
	for i, e := range entries {
		if e.IsMarker() {
			continue
		}
		if opts.FilterStreamEvents && e.IsStreamEvent() {
			continue
		}
		msg, err := e.Decode()
		if err != nil {
			log.WithError(err).WithField("line", i).Warn("skipping undecodable log entry")
			continue
		}

		step := Step{Line: i, Entry: e, Message: msg}
		switch {
		case opts.Realtime:
			ts, err := e.Time()
			if err != nil {
				log.WithField("timestamp", e.Timestamp).Debug("unparseable timestamp, no delay")
				break
			}
			if havePrev {
				step.Delay = scale(ts.Sub(prev), opts.Speed)
			}
			prev, havePrev = ts, true
		case opts.FixedDelay > 0:
			if len(steps) > 0 || !opts.SkipFirstDelay {
				step.Delay = opts.FixedDelay
			}
		}
		steps = append(steps, step)
	}
	return steps
}

func scale(d time.Duration, speed float64) time.Duration {
	if d <= 0 {
		return 0
	}
	return time.Duration(float64(d) / speed)
}

// Total sums the delays of steps.
func Total(steps []Step) time.Duration {
	var sum time.Duration
	for _, s := range steps {
		sum += s.Delay
	}
	return sum
}
