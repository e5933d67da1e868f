package stream

import (
	"context"
	"testing"
	"time"

	"agentui/internal/clock"
	"agentui/internal/message"
)

var t0 = time.Unix(1_700_000_000, 0)

func assistant(t *testing.T, content string) message.Message {
	t.Helper()
	m, err := message.Decode([]byte(`{"type":"assistant","message":{"content":` + content + `}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return m
}

func TestSegmentsSplitsThinkingTags(t *testing.T) {
	m := assistant(t, `[{"type":"text","text":"<thinking>why</thinking>Answer"},{"type":"thinking","thinking":"deep"},{"type":"tool_use","id":"t1","name":"Read","input":{}},{"type":"image"}]`)
	segs := Segments(m)
	want := []Kind{KindThinking, KindText, KindThinking, KindToolUse}
	if len(segs) != len(want) {
		t.Fatalf("Segments = %+v", segs)
	}
	for i, k := range want {
		if segs[i].Kind != k {
			t.Fatalf("segment %d kind = %v, want %v", i, segs[i].Kind, k)
		}
	}
	if segs[0].BlockIndex != 0 || segs[1].BlockIndex != 0 || segs[3].BlockIndex != 2 {
		t.Fatalf("block indexes = %+v", segs)
	}
}

func TestTypingRevealsOneRunePerTick(t *testing.T) {
	segs := []Segment{{Kind: KindText, Text: "héllo"}}
	fired := 0
	c := New(segs, Options{Typing: true, TypingSpeed: 10 * time.Millisecond}, func() { fired++ })

	c.Step(t0)
	if v := c.Views(); len(v) != 1 || v[0].Text != "" || !v[0].Typing {
		t.Fatalf("initial views = %+v", v)
	}
	c.Step(t0.Add(20 * time.Millisecond))
	if v := c.Views(); v[0].Text != "hé" {
		t.Fatalf("after 2 ticks = %q", v[0].Text)
	}
	if c.Done() || fired != 0 {
		t.Fatalf("completed too early")
	}
	c.Step(t0.Add(50 * time.Millisecond))
	if !c.Done() || fired != 1 {
		t.Fatalf("done=%v fired=%d", c.Done(), fired)
	}
	if v := c.Views(); len(v) != 1 || !v[0].Final || v[0].Text != "héllo" {
		t.Fatalf("final views = %+v", v)
	}
}

func TestCompletionFiresOnceAfterExactlyNIncrements(t *testing.T) {
	segs := []Segment{
		{Kind: KindThinking, Text: "hidden"},
		{Kind: KindText, Text: "ab"},
		{Kind: KindText, Text: "(no content)"},
		{Kind: KindToolUse, Tool: message.Block{ID: "t1", Name: "Bash"}},
		{Kind: KindText, Text: "cd"},
	}
	fired := 0
	var atFire int
	var c *Controller
	c = New(segs, Options{Typing: true}, func() {
		fired++
		atFire = c.Increments()
	})

	now := t0
	for i := 0; i < 1000 && !c.Done(); i++ {
		c.Step(now)
		now = now.Add(DefaultTypingSpeed)
	}
	for i := 0; i < 5; i++ {
		c.Step(now.Add(time.Duration(i) * time.Second))
	}
	if fired != 1 {
		t.Fatalf("onComplete fired %d times", fired)
	}
	if atFire != len(segs) || c.Increments() != len(segs) || c.Completed() != len(segs) {
		t.Fatalf("increments at fire=%d total=%d completed=%d, want %d", atFire, c.Increments(), c.Completed(), len(segs))
	}
}

func TestHiddenSegmentsCompleteOnNextTick(t *testing.T) {
	segs := []Segment{{Kind: KindThinking, Text: "x"}, {Kind: KindText, Text: "  "}}
	c := New(segs, Options{}, nil)

	c.Step(t0)
	if c.Completed() != 0 {
		t.Fatalf("hidden segment completed in the tick that made it current")
	}
	c.Step(t0)
	if c.Completed() != 1 {
		t.Fatalf("Completed = %d, want 1", c.Completed())
	}
	c.Step(t0)
	if !c.Done() {
		t.Fatalf("blank text should complete on the following tick")
	}
	if v := c.Views(); len(v) != 0 {
		t.Fatalf("hidden segments must not be visible: %+v", v)
	}
}

func TestShownThinkingIsInstant(t *testing.T) {
	c := New([]Segment{{Kind: KindThinking, Text: "plan"}}, Options{Typing: true, ShowThinking: true}, nil)
	c.Step(t0)
	if !c.Done() {
		t.Fatalf("shown thinking should complete immediately")
	}
	if v := c.Views(); len(v) != 1 || v[0].Text != "plan" {
		t.Fatalf("views = %+v", v)
	}
}

func TestToolUseSettles(t *testing.T) {
	c := New([]Segment{{Kind: KindToolUse, Tool: message.Block{ID: "t"}}}, Options{Typing: true}, nil)
	c.Step(t0)
	if v := c.Views(); len(v) != 1 || v[0].Final {
		t.Fatalf("tool use should be visible and current: %+v", v)
	}
	c.Step(t0.Add(DefaultToolSettle - time.Millisecond))
	if c.Done() {
		t.Fatalf("completed before settle delay")
	}
	c.Step(t0.Add(DefaultToolSettle))
	if !c.Done() {
		t.Fatalf("not completed after settle delay")
	}
}

func TestUntypedTextCompletesSynchronously(t *testing.T) {
	c := New([]Segment{{Kind: KindText, Text: "a"}, {Kind: KindText, Text: "b"}}, Options{}, nil)
	c.Step(t0)
	if !c.Done() {
		t.Fatalf("text without typing should complete in one step")
	}
}

func TestHistoricalIsFinalImmediately(t *testing.T) {
	fired := 0
	c := New([]Segment{{Kind: KindText, Text: "done"}, {Kind: KindToolUse}}, Options{Typing: true, Historical: true}, func() { fired++ })
	if !c.Done() || fired != 1 {
		t.Fatalf("historical: done=%v fired=%d", c.Done(), fired)
	}
	if c.Step(t0) {
		t.Fatalf("historical controller should not change on Step")
	}
	for _, v := range c.Views() {
		if !v.Final || v.Typing {
			t.Fatalf("historical view not final: %+v", v)
		}
	}
	if c.Increments() != 0 {
		t.Fatalf("historical render must not run the reveal, increments=%d", c.Increments())
	}
}

func TestEmptyMessageCompletesAtConstruction(t *testing.T) {
	fired := 0
	c := New(nil, Options{Typing: true}, func() { fired++ })
	if !c.Done() || fired != 1 {
		t.Fatalf("empty: done=%v fired=%d", c.Done(), fired)
	}
}

func TestDriveWithFakeClock(t *testing.T) {
	clk := clock.NewFake(t0)
	c := New([]Segment{{Kind: KindText, Text: "abc"}, {Kind: KindToolUse}}, Options{Typing: true}, nil)

	var frames [][]View
	err := Drive(context.Background(), clk, DefaultTypingSpeed, c, func(v []View) {
		frames = append(frames, v)
	})
	if err != nil {
		t.Fatalf("Drive: %v", err)
	}
	if !c.Done() {
		t.Fatalf("Drive returned before completion")
	}
	if len(frames) < 4 {
		t.Fatalf("expected a frame per revealed rune, got %d", len(frames))
	}
	last := frames[len(frames)-1]
	if len(last) != 2 || !last[0].Final || last[0].Text != "abc" {
		t.Fatalf("last frame = %+v", last)
	}
	if elapsed := clk.Now().Sub(t0); elapsed < 3*DefaultTypingSpeed+DefaultToolSettle {
		t.Fatalf("virtual elapsed %v shorter than typing plus settle", elapsed)
	}
}

func TestDriveCancelled(t *testing.T) {
	clk := clock.NewFake(t0)
	c := New([]Segment{{Kind: KindText, Text: "a long line that would take a while"}}, Options{Typing: true}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	frames := 0
	err := Drive(ctx, clk, DefaultTypingSpeed, c, func([]View) {
		frames++
		if frames == 3 {
			cancel()
		}
	})
	if err == nil {
		t.Fatalf("expected cancellation error")
	}
	if c.Done() {
		t.Fatalf("controller should not be complete after cancellation")
	}
}
