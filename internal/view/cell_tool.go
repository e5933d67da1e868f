package view

import (
	"encoding/json"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"agentui/internal/format"
	"agentui/internal/message"
	"agentui/internal/toolstate"
	tuirender "agentui/internal/tui/render"
)

// toolUseCell shows a tool call with its current status.
type toolUseCell struct {
	ctx    *Context
	id     string
	block  message.Block
	status toolstate.Status
}

func (c toolUseCell) ID() string { return c.id }

func (c toolUseCell) Render(width int) []tuirender.Line {
	w := c.ctx.contentWidth(width)
	input := format.SanitizeToolInput(c.block.Input, c.ctx.Opts.ShowToolContent)
	summary := format.SummarizeToolInput(c.block.Name, input)

	var lines []tuirender.Line
	if c.ctx.Theme.IsDroid() {
		lines = append(lines, c.droidHeader(summary))
	} else {
		lines = append(lines, c.claudeHeader(summary))
	}
	lines[0] = tuirender.ClampLine(lines[0], w)

	if c.ctx.Opts.ShowToolDetails {
		th := c.ctx.Theme
		prefix := tuirender.Span{Text: strings.Repeat(" ", th.Layout.Indent) + th.Symbols.ToolOutput + " ", Style: c.ctx.Styles.Dim}
		for _, d := range format.ToolDetailLines(input) {
			l := tuirender.Line{Spans: []tuirender.Span{prefix, {Text: d, Style: c.ctx.Styles.Dim}}}
			lines = append(lines, tuirender.ClampLine(l, w))
		}
	}
	return append(lines, spacer(c.ctx.Theme.Layout.LineSpacing)...)
}

// resolve picks up the tracked status. Calls without an id are never
// tracked, so they count as settled.
func (c toolUseCell) resolve(tools toolstate.States) (HistoryCell, bool) {
	if c.block.ID == "" {
		return c, true
	}
	c.status = tools.StatusOf(c.block.ID)
	return c, c.status != toolstate.Pending
}

func (c toolUseCell) statusStyle() lipgloss.Style {
	switch c.status {
	case toolstate.Success:
		return c.ctx.Styles.Success
	case toolstate.Error:
		return c.ctx.Styles.Error
	default:
		return c.ctx.Styles.Dim
	}
}

// claudeHeader: "⏺ Name(summary)".
func (c toolUseCell) claudeHeader(summary string) tuirender.Line {
	sym := c.ctx.Theme.Symbols
	icon := sym.AIPrefix
	if c.status == toolstate.Pending {
		icon = sym.Pending
	}
	spans := []tuirender.Span{
		{Text: icon + " ", Style: c.statusStyle()},
		{Text: c.block.Name, Style: c.ctx.Styles.Bold},
	}
	if summary != "" {
		spans = append(spans, tuirender.Span{Text: "(" + summary + ")", Style: c.ctx.Styles.Text})
	}
	return tuirender.Line{Spans: spans}
}

// droidHeader: "[EXECUTE] summary ..." with a status mark once settled.
func (c toolUseCell) droidHeader(summary string) tuirender.Line {
	sym := c.ctx.Theme.Symbols
	spans := []tuirender.Span{{Text: format.ToolLabel(c.block.Name), Style: c.ctx.Styles.Badge}}
	if summary != "" {
		spans = append(spans, tuirender.Span{Text: " " + summary, Style: c.ctx.Styles.Dim})
	}
	switch c.status {
	case toolstate.Pending:
		spans = append(spans, tuirender.Span{Text: " ...", Style: c.ctx.Styles.Dim})
	case toolstate.Success:
		spans = append(spans, tuirender.Span{Text: " " + sym.Success, Style: c.ctx.Styles.Success})
	case toolstate.Error:
		spans = append(spans, tuirender.Span{Text: " " + sym.Error, Style: c.ctx.Styles.Error})
	}
	return tuirender.Line{Spans: spans}
}

// toolResultCell shows the output of one tool_result block.
type toolResultCell struct {
	ctx     *Context
	id      string
	output  string
	isError bool
	// path is the file a Read call returned, used to pick a highlighter.
	path string
}

func (c toolResultCell) ID() string { return c.id }

func (c toolResultCell) Render(width int) []tuirender.Line {
	w := c.ctx.contentWidth(width)
	text := format.TruncateOutput(strings.TrimRight(c.output, "\n"), c.ctx.Opts.MaxOutputLines)

	arrowStyle := c.ctx.Styles.Info
	bodyStyle := c.ctx.Styles.Dim
	if c.isError {
		arrowStyle = c.ctx.Styles.Error
		bodyStyle = c.ctx.Styles.Error
	}

	var body []tuirender.Line
	switch {
	case strings.TrimSpace(text) == "":
		empty := "No output"
		if c.isError {
			empty = "No output (error)"
		}
		body = []tuirender.Line{tuirender.Styled(empty, bodyStyle)}
	case c.path != "" && !c.isError:
		for _, l := range format.Highlight(text, c.path) {
			body = append(body, tuirender.ClampLine(l, w-2))
		}
	default:
		for _, row := range strings.Split(text, "\n") {
			if row == "" {
				body = append(body, tuirender.Line{})
				continue
			}
			body = append(body, tuirender.WrapStyled(row, w-2, bodyStyle)...)
		}
	}
	lines := tuirender.PrefixLines(body,
		tuirender.Span{Text: "↳ ", Style: arrowStyle},
		tuirender.Span{Text: "  "},
	)
	return append(lines, spacer(1)...)
}

// readPath returns the file_path of a Read call, "" otherwise.
func readPath(b message.Block) string {
	if format.ToolLabel(b.Name) != "READ" {
		return ""
	}
	fields, ok := format.Fields(b.Input)
	if !ok {
		return ""
	}
	for _, f := range fields {
		if f.Key != "file_path" && f.Key != "path" {
			continue
		}
		var p string
		if err := json.Unmarshal(f.Value, &p); err == nil {
			return p
		}
	}
	return ""
}
