package view

import (
	"io"
	"strings"
	"sync"

	"agentui/internal/render"
	"agentui/internal/theme"
	tuirender "agentui/internal/tui/render"
)

const clearLine = "\r\x1b[2K"

// PresenterOptions configure a Presenter.
type PresenterOptions struct {
	Writer io.Writer
	Width  int
	Theme  theme.Name
	View   Options
	// StatusLine redraws a one-line thinking/streaming indicator in place.
	// Only enable it on terminals.
	StatusLine bool
}

// Presenter writes the transcript to a plain writer: completed cells are
// appended, the segment being typed is streamed append-only.
type Presenter struct {
	mu      sync.Mutex
	builder *Builder
	scroll  *Scrollback
	pane    *BottomPane
	status  bool

	statusShown bool
	streamKey   string
	streamed    int
	// pending 为等待工具结果而暂缓写出的 cell。
	pending []HistoryCell
}

// NewPresenter builds a writer presenter.
func NewPresenter(opts PresenterOptions) *Presenter {
	ctx := NewContext(opts.Theme, opts.View)
	return &Presenter{
		builder: NewBuilder(ctx),
		scroll:  NewScrollback(ScrollbackOptions{Writer: opts.Writer, Width: opts.Width}),
		pane:    &BottomPane{ctx: ctx},
		status:  opts.StatusLine,
	}
}

var _ render.Presenter = (*Presenter)(nil)

// Present implements render.Presenter.
func (p *Presenter) Present(ins render.Instruction) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	frame := p.builder.Apply(ins)
	if len(frame.Done) == 0 && frame.Active == nil && len(frame.Pending) == 0 && len(p.pending) == 0 {
		return nil
	}
	p.pending = frame.Pending
	p.clearStatus()
	p.appendCells(frame.Done)
	// 有暂缓的工具调用时，后面的文字也要排在它之后，不能先流式写出
	if frame.Active != nil && len(frame.Pending) == 0 {
		p.streamDelta(frame.Active)
	}
	p.drawStatus()
	return p.scroll.Err()
}

func (p *Presenter) appendCells(cells []HistoryCell) {
	for _, cell := range cells {
		if p.streamKey != "" && cell.ID() == p.streamKey {
			p.finishStream(cell)
			continue
		}
		p.endStream()
		_ = p.scroll.AppendCell(cell)
	}
}

// Status implements render.Presenter.
func (p *Presenter) Status(ind render.Indicator) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pane.Set(ind)
	if !p.status {
		return nil
	}
	p.clearStatus()
	p.drawStatus()
	return p.scroll.Err()
}

// Close writes cells still waiting on a tool result, terminates a pending
// stream line and clears the status line.
func (p *Presenter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearStatus()
	p.appendCells(p.builder.Flush().Done)
	p.pending = nil
	p.endStream()
	return p.scroll.Err()
}

type rawTexter interface {
	RawText() string
}

func (p *Presenter) streamPrefix() (string, string) {
	th := p.builder.ctx.Theme
	prefix := th.Symbols.AIPrefix + " "
	style := p.builder.ctx.Styles.Text
	if th.IsDroid() {
		style = p.builder.ctx.Styles.Secondary
	}
	return style.Render(prefix), strings.Repeat(" ", len([]rune(prefix)))
}

func (p *Presenter) streamDelta(cell HistoryCell) {
	rt, ok := cell.(rawTexter)
	if !ok {
		return
	}
	if cell.ID() != p.streamKey {
		p.endStream()
		prefix, _ := p.streamPrefix()
		_ = p.scroll.WriteRaw(prefix)
		p.streamKey = cell.ID()
		p.streamed = 0
	}
	runes := []rune(rt.RawText())
	if len(runes) <= p.streamed {
		return
	}
	_, pad := p.streamPrefix()
	delta := strings.ReplaceAll(string(runes[p.streamed:]), "\n", "\n"+pad)
	_ = p.scroll.WriteRaw(p.builder.ctx.Styles.Text.Render(delta))
	p.streamed = len(runes)
}

func (p *Presenter) finishStream(cell HistoryCell) {
	p.streamDelta(cell)
	_ = p.scroll.WriteRaw("\n")
	p.streamKey = ""
	p.streamed = 0
	if n := p.builder.ctx.Theme.Layout.LineSpacing; n > 0 {
		_ = p.scroll.WriteRaw(strings.Repeat("\n", n))
	}
}

// endStream closes an unfinished stream line.
func (p *Presenter) endStream() {
	if p.streamKey == "" {
		return
	}
	_ = p.scroll.WriteRaw("\n")
	p.streamKey = ""
	p.streamed = 0
}

func (p *Presenter) drawStatus() {
	if !p.status || p.streamKey != "" {
		return
	}
	var lines []string
	if len(p.pending) > 0 {
		// 正在执行的工具调用占用状态行，结果到达后再写入历史
		if head := p.pending[0].Render(p.scroll.width); len(head) > 0 {
			lines = tuirender.LinesToStrings(head[:1])
		}
	} else if p.pane.Visible() {
		lines = tuirender.LinesToStrings(p.pane.RenderLines())
	}
	if len(lines) == 0 {
		return
	}
	_ = p.scroll.WriteRaw(lines[0])
	p.statusShown = true
}

func (p *Presenter) clearStatus() {
	if !p.statusShown {
		return
	}
	_ = p.scroll.WriteRaw(clearLine)
	p.statusShown = false
}
