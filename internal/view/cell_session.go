package view

import (
	"fmt"
	"strings"

	"agentui/internal/format"
	"agentui/internal/message"
	tuirender "agentui/internal/tui/render"
)

// sessionInfoCell is the box shown for system/init.
type sessionInfoCell struct {
	ctx *Context
	msg message.Message
}

func (c sessionInfoCell) ID() string { return "" }

func (c sessionInfoCell) Render(width int) []tuirender.Line {
	s := c.ctx.Styles
	body := []string{
		c.ctx.field("Session ID", format.ShortID(c.msg.SessionID), s.Info),
		c.ctx.field("Model", c.msg.Model, s.Primary),
		c.ctx.field("Working Dir", c.msg.Cwd, s.Dim),
		c.ctx.field("Permission", strings.ToUpper(c.msg.PermissionMode), s.Warning),
	}
	if n := len(c.msg.Tools); n > 0 {
		body = append(body,
			c.ctx.field("Tools", fmt.Sprintf("%d available", n), s.Success),
			s.Dim.Render(" "+c.ctx.Theme.Symbols.ToolOutput+" "+strings.Join(c.msg.Tools, "  •  ")),
		)
	}
	lines := c.ctx.boxLines("Session Info", c.ctx.Theme.Colors.Primary, body, width)
	return append(lines, spacer(c.ctx.Theme.Layout.ComponentSpacing)...)
}

// systemCell is a one-line notice for non-init system messages.
type systemCell struct {
	ctx *Context
	msg message.Message
}

func (c systemCell) ID() string { return "" }

func (c systemCell) Render(width int) []tuirender.Line {
	text := c.msg.Subtype
	if text == "" {
		text = "system"
	}
	if body := c.msg.Text(); body != "" {
		text += ": " + body
	}
	line := tuirender.Styled(c.ctx.Theme.Symbols.Info+" "+text, c.ctx.Styles.Dim)
	return []tuirender.Line{tuirender.ClampLine(line, c.ctx.contentWidth(width))}
}
