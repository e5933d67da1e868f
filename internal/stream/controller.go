package stream

import (
	"time"
)

// Defaults for Options.
const (
	DefaultTypingSpeed = 20 * time.Millisecond
	DefaultToolSettle  = 100 * time.Millisecond
)

// Options 控制单条 assistant 消息的展示方式。
type Options struct {
	// Typing reveals text one rune per TypingSpeed.
	Typing       bool
	ShowThinking bool
	TypingSpeed  time.Duration
	// ToolSettle is how long a tool_use segment stays current before completing.
	ToolSettle time.Duration
	// Historical renders every segment final at construction.
	Historical bool
}

func (o Options) withDefaults() Options {
	if o.TypingSpeed <= 0 {
		o.TypingSpeed = DefaultTypingSpeed
	}
	if o.ToolSettle <= 0 {
		o.ToolSettle = DefaultToolSettle
	}
	return o
}

type mode int

const (
	modeSkip mode = iota
	modeInstant
	modeType
	modeSettle
)

// View is a visible segment as of the last Step.
type View struct {
	Index   int
	Segment Segment
	// Text is the revealed part; the whole text once Final.
	Text   string
	Final  bool
	Typing bool
}

// Controller tracks which segment is current and how much of it is shown.
// It is not safe for concurrent use.
type Controller struct {
	segments   []Segment
	opts       Options
	onComplete func()

	index      int
	started    bool
	startedAt  time.Time
	startedOn  int
	resumeAt   time.Time
	revealed   int
	runes      []rune
	steps      int
	increments int
	fired      bool
}

// New builds a controller positioned at the first segment. onComplete fires
// exactly once, when the last segment completes (immediately for historical
// or empty messages).
func New(segments []Segment, opts Options, onComplete func()) *Controller {
	c := &Controller{
		segments:   segments,
		opts:       opts.withDefaults(),
		onComplete: onComplete,
	}
	if c.opts.Historical {
		c.index = len(segments)
	}
	if c.index >= len(c.segments) {
		c.fire()
	}
	return c
}

// Total is the number of segments.
func (c *Controller) Total() int { return len(c.segments) }

// Completed is the number of finalized segments.
func (c *Controller) Completed() int { return c.index }

// Increments counts single-segment completions performed by Step.
func (c *Controller) Increments() int { return c.increments }

// Done reports the terminal state.
func (c *Controller) Done() bool { return c.index >= len(c.segments) }

// Step advances the machine to now and reports whether anything changed,
// including completions of hidden segments. Each call is one scheduling tick.
func (c *Controller) Step(now time.Time) bool {
	if c.Done() {
		return false
	}
	c.steps++
	changed := false
	for !c.Done() {
		if !c.started {
			c.begin(now)
			changed = true
		}
		progressed, doneAt, done := c.progress(now)
		changed = changed || progressed
		if !done {
			break
		}
		c.complete(doneAt)
		changed = true
	}
	return changed
}

func (c *Controller) begin(now time.Time) {
	c.started = true
	c.startedOn = c.steps
	c.startedAt = now
	if !c.resumeAt.IsZero() && !c.resumeAt.After(now) {
		c.startedAt = c.resumeAt
	}
	c.revealed = 0
	c.runes = nil
	if c.modeOf(c.segments[c.index]) == modeType {
		c.runes = []rune(c.segments[c.index].Text)
	}
}

func (c *Controller) progress(now time.Time) (changed bool, doneAt time.Time, done bool) {
	switch c.modeOf(c.segments[c.index]) {
	case modeSkip:
		// Hidden segments wait one tick so they never complete in the
		// same step that made them current.
		if c.steps > c.startedOn {
			return false, now, true
		}
		return false, time.Time{}, false
	case modeInstant:
		return false, c.startedAt, true
	case modeSettle:
		at := c.startedAt.Add(c.opts.ToolSettle)
		if now.Before(at) {
			return false, time.Time{}, false
		}
		return false, at, true
	default:
		n := len(c.runes)
		k := n
		if elapsed := now.Sub(c.startedAt); elapsed < time.Duration(n)*c.opts.TypingSpeed {
			k = int(elapsed / c.opts.TypingSpeed)
			if k < 0 {
				k = 0
			}
		}
		changed = k != c.revealed
		c.revealed = k
		if k < n {
			return changed, time.Time{}, false
		}
		return changed, c.startedAt.Add(time.Duration(n) * c.opts.TypingSpeed), true
	}
}

func (c *Controller) complete(at time.Time) {
	c.index++
	c.increments++
	c.started = false
	c.resumeAt = at
	if c.Done() {
		c.fire()
	}
}

func (c *Controller) fire() {
	if c.fired {
		return
	}
	c.fired = true
	if c.onComplete != nil {
		c.onComplete()
	}
}

func (c *Controller) modeOf(seg Segment) mode {
	switch seg.Kind {
	case KindThinking:
		if !c.opts.ShowThinking {
			return modeSkip
		}
		return modeInstant
	case KindToolUse:
		return modeSettle
	default:
		if seg.Blank() {
			return modeSkip
		}
		if c.opts.Typing {
			return modeType
		}
		return modeInstant
	}
}

// Views returns the visible segments: finalized ones plus the current one.
// Hidden thinking and blank text produce no view.
func (c *Controller) Views() []View {
	limit := c.index
	if c.started && c.index < len(c.segments) {
		limit++
	}
	views := make([]View, 0, limit)
	for i := 0; i < limit; i++ {
		seg := c.segments[i]
		if c.modeOf(seg) == modeSkip {
			continue
		}
		v := View{Index: i, Segment: seg, Text: seg.Text, Final: i < c.index}
		if !v.Final && c.modeOf(seg) == modeType {
			v.Text = string(c.runes[:c.revealed])
			v.Typing = true
		}
		views = append(views, v)
	}
	return views
}
