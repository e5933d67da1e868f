package view

import (
	"fmt"
	"strconv"
	"strings"

	"agentui/internal/format"
	"agentui/internal/message"
	tuirender "agentui/internal/tui/render"
)

// finalResultCell summarizes a result message.
type finalResultCell struct {
	ctx *Context
	msg message.Message
}

func (c finalResultCell) ID() string { return "" }

func (c finalResultCell) Render(width int) []tuirender.Line {
	s := c.ctx.Styles
	colors := c.ctx.Theme.Colors
	ok := c.msg.Succeeded()
	gap := spacer(c.ctx.Theme.Layout.ComponentSpacing)

	var lines []tuirender.Line
	if c.ctx.Opts.ShowFinalResult && ok && strings.TrimSpace(c.msg.Result) != "" {
		inner := c.ctx.contentWidth(width) - 4
		md := c.ctx.Markdown.Render(c.msg.Result, inner)
		lines = append(lines, c.ctx.boxLines(c.ctx.Theme.Symbols.Success+" Final Result", colors.Success, strings.Split(md, "\n"), width)...)
		lines = append(lines, gap...)
	}

	status := s.Success.Render(c.ctx.Theme.Symbols.Success + " Success")
	if !ok {
		status = s.Error.Render(c.ctx.Theme.Symbols.Error + " Failed")
	}
	stats := []string{
		s.Dim.Render("Status: ") + status,
		c.ctx.field("Duration", format.Duration(c.msg.DurationMS), s.Primary),
		c.ctx.field("Turns", strconv.Itoa(c.msg.NumTurns), s.Primary),
		c.ctx.field("Total Cost", format.Cost(c.msg.TotalCostUSD), s.Warning),
	}
	if !ok && c.msg.Result != "" {
		stats = append(stats, c.ctx.field("Error", c.msg.Result, s.Error))
	}
	lines = append(lines, c.ctx.boxLines("Execution Stats", colors.Info, stats, width)...)

	if c.ctx.Opts.ShowTokenUsage && c.msg.Usage != nil {
		u := c.msg.Usage
		usage := []string{
			c.ctx.field("Input Tokens", format.Tokens(u.InputTokens), s.Primary),
			c.ctx.field("Output Tokens", format.Tokens(u.OutputTokens), s.Primary),
		}
		if u.CacheReadInputTokens > 0 {
			usage = append(usage, c.ctx.field("Cache Read", format.Tokens(u.CacheReadInputTokens), s.Success))
		}
		lines = append(lines, gap...)
		lines = append(lines, c.ctx.boxLines("Token Usage", colors.Info, usage, width)...)
	}

	if n := len(c.msg.PermissionDenials); n > 0 {
		lines = append(lines, gap...)
		lines = append(lines, c.ctx.boxLines(c.ctx.Theme.Symbols.Warning+" Permission Denials", colors.Warning,
			[]string{s.Warning.Render(fmt.Sprintf("%d tool(s) were denied permission", n))}, width)...)
	}
	return lines
}
