package view

import (
	"strings"

	tuirender "agentui/internal/tui/render"
)

// textCell is one assistant text segment. While typing it shows the raw
// revealed text; once final it is rendered as markdown.
type textCell struct {
	ctx   *Context
	id    string
	text  string
	final bool
}

func (c textCell) ID() string { return c.id }

// RawText is the unformatted text, used when streaming deltas.
func (c textCell) RawText() string { return c.text }

func (c textCell) Render(width int) []tuirender.Line {
	w := c.ctx.contentWidth(width)
	th := c.ctx.Theme
	prefixStyle := c.ctx.Styles.Text
	if th.IsDroid() {
		prefixStyle = c.ctx.Styles.Secondary
	}
	prefix := th.Symbols.AIPrefix + " "
	pad := strings.Repeat(" ", len([]rune(prefix)))
	bodyWidth := w - len([]rune(prefix))

	var body []tuirender.Line
	if c.final {
		rendered := c.ctx.Markdown.Render(c.text, bodyWidth)
		for _, row := range strings.Split(rendered, "\n") {
			body = append(body, tuirender.Plain(row))
		}
	} else {
		body = tuirender.WrapStyled(c.text, bodyWidth, c.ctx.Styles.Text)
	}
	body = tuirender.TrimTrailingBlank(body)
	if len(body) == 0 {
		body = []tuirender.Line{{}}
	}
	lines := tuirender.PrefixLines(body,
		tuirender.Span{Text: prefix, Style: prefixStyle},
		tuirender.Span{Text: pad},
	)
	return append(lines, spacer(th.Layout.LineSpacing)...)
}

// thinkingCell shows a reasoning segment.
type thinkingCell struct {
	ctx  *Context
	id   string
	text string
}

func (c thinkingCell) ID() string { return c.id }

func (c thinkingCell) Render(width int) []tuirender.Line {
	w := c.ctx.contentWidth(width)
	th := c.ctx.Theme
	st := c.ctx.Styles.Thinking
	lines := []tuirender.Line{tuirender.Styled(th.Symbols.Thinking+" Thinking…", st)}
	indent := th.Layout.Indent
	body := tuirender.WrapStyled(strings.TrimSpace(c.text), w-indent, st)
	lines = append(lines, tuirender.IndentLines(body, indent)...)
	return append(lines, spacer(th.Layout.LineSpacing)...)
}

// userTextCell echoes a user prompt.
type userTextCell struct {
	ctx  *Context
	text string
}

func (c userTextCell) ID() string { return "" }

func (c userTextCell) Render(width int) []tuirender.Line {
	w := c.ctx.contentWidth(width)
	prefix := c.ctx.Theme.Symbols.UserPrefix + " "
	body := tuirender.WrapStyled(c.text, w-len([]rune(prefix)), c.ctx.Styles.Dim)
	return tuirender.PrefixLines(body,
		tuirender.Span{Text: prefix, Style: c.ctx.Styles.Dim},
		tuirender.Span{Text: strings.Repeat(" ", len([]rune(prefix)))},
	)
}
