package view

import (
	"agentui/internal/render"
	tuirender "agentui/internal/tui/render"
)

// BottomPane 是屏幕底部可重绘的状态行。
type BottomPane struct {
	ctx       *Context
	indicator render.Indicator
}

func (p *BottomPane) Set(ind render.Indicator) { p.indicator = ind }

func (p *BottomPane) Visible() bool { return p.indicator != render.IndicatorHidden }

// StatusText is the label for an indicator state.
func StatusText(ind render.Indicator) string {
	switch ind {
	case render.IndicatorThinking:
		return "Thinking…"
	case render.IndicatorStreaming:
		return "Streaming…"
	default:
		return ""
	}
}

func (p *BottomPane) RenderLines() []tuirender.Line {
	if !p.Visible() {
		return nil
	}
	sym := p.ctx.Theme.Symbols.Pending
	return []tuirender.Line{{Spans: []tuirender.Span{
		{Text: sym + " ", Style: p.ctx.Styles.Primary},
		{Text: StatusText(p.indicator), Style: p.ctx.Styles.Dim},
	}}}
}
