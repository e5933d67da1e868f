package tui

import (
	"fmt"
	"time"

	"agentui/internal/clock"
	agentrender "agentui/internal/render"
	"agentui/internal/theme"
	"agentui/internal/tui/render"
	"agentui/internal/view"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// StatusIndicatorState 枚举了状态指示器可显示的所有状态。
type StatusIndicatorState int

const (
	// StatusThinking 表示等待 assistant 的下一步（工具结果之后等），计时器持续累加。
	StatusThinking StatusIndicatorState = iota
	// StatusStreaming 表示正在接收 stream_event 增量，计时器持续累加。
	StatusStreaming
	// StatusIdle 表示空闲，不显示状态行，计时暂停。
	StatusIdle
)

func (s StatusIndicatorState) String() string {
	switch s {
	case StatusThinking:
		return "thinking"
	case StatusStreaming:
		return "streaming"
	case StatusIdle:
		return "idle"
	default:
		return "unknown"
	}
}

// StateFor maps a session indicator onto a widget state.
func StateFor(ind agentrender.Indicator) StatusIndicatorState {
	switch ind {
	case agentrender.IndicatorThinking:
		return StatusThinking
	case agentrender.IndicatorStreaming:
		return StatusStreaming
	default:
		return StatusIdle
	}
}

func (s StatusIndicatorState) header() string {
	switch s {
	case StatusThinking:
		return view.StatusText(agentrender.IndicatorThinking)
	case StatusStreaming:
		return view.StatusText(agentrender.IndicatorStreaming)
	default:
		return ""
	}
}

func (s StatusIndicatorState) tracksElapsed() bool {
	return s == StatusThinking || s == StatusStreaming
}

func (s StatusIndicatorState) visible() bool {
	return s != StatusIdle
}

func (s StatusIndicatorState) valid() bool {
	switch s {
	case StatusThinking, StatusStreaming, StatusIdle:
		return true
	default:
		return false
	}
}

// spinnerInterval 为 spinner 帧间隔。
const spinnerInterval = 120 * time.Millisecond

// StatusIndicatorOptions 控制指示器的初始化行为。
type StatusIndicatorOptions struct {
	State             StatusIndicatorState
	Theme             theme.Theme
	AnimationsEnabled bool
	ShowInterruptHint bool
	Clock             clock.Clock
}

// StatusIndicatorWidget 渲染与管理状态行（spinner + 标题 + 计时/中断提示）。
type StatusIndicatorWidget struct {
	state             StatusIndicatorState
	frames            []string
	styles            theme.Styles
	animationsEnabled bool
	showInterruptHint bool
	// frame 由外部 spinner 驱动时覆盖按时钟计算的帧。
	frame string

	elapsedRunning time.Duration
	lastResumeAt   time.Time
	paused         bool

	clock clock.Clock
}

// NewStatusIndicatorWidget 构造状态指示器，默认处于 Thinking。
func NewStatusIndicatorWidget(opts StatusIndicatorOptions) *StatusIndicatorWidget {
	clk := clock.OrReal(opts.Clock)
	state := opts.State
	if !state.valid() {
		state = StatusThinking
	}
	th := opts.Theme
	if th.Name == "" {
		th = theme.Resolve(theme.Default)
	}
	w := &StatusIndicatorWidget{
		state:             state,
		frames:            th.SpinnerFrames(),
		styles:            th.Styles(),
		animationsEnabled: opts.AnimationsEnabled,
		showInterruptHint: opts.ShowInterruptHint,
		clock:             clk,
		lastResumeAt:      clk.Now(),
	}
	if !state.tracksElapsed() {
		w.paused = true
	}
	return w
}

// State returns the current state.
func (w *StatusIndicatorWidget) State() StatusIndicatorState {
	if w == nil {
		return StatusIdle
	}
	return w.state
}

// SetState 更新状态并根据状态是否计时自动处理计时器。
func (w *StatusIndicatorWidget) SetState(state StatusIndicatorState) {
	if w == nil || !state.valid() {
		return
	}
	now := w.clock.Now()
	w.syncTimerForState(now, state)
	w.state = state
}

// SetFrame pins the spinner glyph, for callers that animate it themselves.
func (w *StatusIndicatorWidget) SetFrame(frame string) {
	if w == nil {
		return
	}
	w.frame = frame
}

// ElapsedSeconds 返回累计秒数。
func (w *StatusIndicatorWidget) ElapsedSeconds() uint64 {
	if w == nil {
		return 0
	}
	return w.elapsedSecondsAt(w.clock.Now())
}

// DesiredHeight 返回需要的行数。
func (w *StatusIndicatorWidget) DesiredHeight(_ int) int {
	if w == nil || !w.state.visible() {
		return 0
	}
	return 1
}

// Render 绘制状态行：spinner + 标题 + 计时/中断提示。
func (w *StatusIndicatorWidget) Render(width int) []render.Line {
	if w == nil || width <= 0 || !w.state.visible() {
		return nil
	}

	now := w.clock.Now()
	prettyElapsed := fmtElapsedCompact(uint64(w.elapsedDurationAt(now).Seconds()))

	spans := []render.Span{
		{Text: w.spinnerFrame(now), Style: w.styles.Primary},
		{Text: " "},
		{Text: w.state.header(), Style: w.styles.Text},
		{Text: " "},
		{Text: formatHint(prettyElapsed, w.showInterruptHint), Style: lipgloss.NewStyle().Faint(true)},
	}

	clamped := clampSpans(spans, width)
	if len(clamped) == 0 {
		return nil
	}
	return []render.Line{{Spans: clamped}}
}

func (w *StatusIndicatorWidget) syncTimerForState(now time.Time, next StatusIndicatorState) {
	if next.tracksElapsed() && w.paused {
		w.resumeTimerAt(now)
		return
	}
	if !next.tracksElapsed() && !w.paused {
		w.pauseTimerAt(now)
	}
}

func (w *StatusIndicatorWidget) pauseTimerAt(now time.Time) {
	if w.paused {
		return
	}
	w.elapsedRunning += now.Sub(w.lastResumeAt)
	w.paused = true
}

func (w *StatusIndicatorWidget) resumeTimerAt(now time.Time) {
	if !w.paused {
		return
	}
	w.lastResumeAt = now
	w.paused = false
}

func (w *StatusIndicatorWidget) elapsedDurationAt(now time.Time) time.Duration {
	if w.paused {
		return w.elapsedRunning
	}
	return w.elapsedRunning + now.Sub(w.lastResumeAt)
}

func (w *StatusIndicatorWidget) elapsedSecondsAt(now time.Time) uint64 {
	return uint64(w.elapsedDurationAt(now).Seconds())
}

func (w *StatusIndicatorWidget) spinnerFrame(now time.Time) string {
	if w.frame != "" {
		return w.frame
	}
	if len(w.frames) == 0 {
		return "•"
	}
	if !w.animationsEnabled {
		return w.frames[0]
	}
	idx := int(now.UnixMilli()/spinnerInterval.Milliseconds()) % len(w.frames)
	return w.frames[idx]
}

func formatHint(elapsed string, interruptible bool) string {
	if interruptible {
		return fmt.Sprintf("(%s • ctrl+c to stop)", elapsed)
	}
	return fmt.Sprintf("(%s)", elapsed)
}

// fmtElapsedCompact 将秒数格式化为友好字符串。
func fmtElapsedCompact(elapsedSecs uint64) string {
	switch {
	case elapsedSecs < 60:
		return fmt.Sprintf("%ds", elapsedSecs)
	case elapsedSecs < 3600:
		minutes := elapsedSecs / 60
		seconds := elapsedSecs % 60
		return fmt.Sprintf("%dm %02ds", minutes, seconds)
	default:
		hours := elapsedSecs / 3600
		minutes := (elapsedSecs % 3600) / 60
		seconds := elapsedSecs % 60
		return fmt.Sprintf("%dh %02dm %02ds", hours, minutes, seconds)
	}
}

func clampSpans(spans []render.Span, width int) []render.Span {
	if width <= 0 {
		return nil
	}
	remaining := width
	out := make([]render.Span, 0, len(spans))
	for _, sp := range spans {
		if remaining <= 0 {
			break
		}
		tw := runewidth.StringWidth(sp.Text)
		if tw <= remaining {
			out = append(out, sp)
			remaining -= tw
			continue
		}
		if text := runewidth.Truncate(sp.Text, remaining, ""); text != "" {
			sp.Text = text
			out = append(out, sp)
		}
		remaining = 0
	}
	return out
}
