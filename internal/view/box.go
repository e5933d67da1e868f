package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	tuirender "agentui/internal/tui/render"
)

// boxLines draws body inside a rounded border tinted with color. The title,
// when set, is the first row in bold.
func (c *Context) boxLines(title, color string, body []string, width int) []tuirender.Line {
	style := c.Styles.Box.BorderForeground(lipgloss.Color(color))
	inner := c.contentWidth(width) - style.GetHorizontalFrameSize()
	if inner < 10 {
		inner = 10
	}
	rows := make([]string, 0, len(body)+1)
	if title != "" {
		rows = append(rows, lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color)).Render(title))
	}
	for _, b := range body {
		rows = append(rows, lipgloss.NewStyle().MaxWidth(inner).Render(b))
	}
	rendered := style.Render(strings.Join(rows, "\n"))
	out := make([]tuirender.Line, 0, strings.Count(rendered, "\n")+1)
	for _, row := range strings.Split(rendered, "\n") {
		out = append(out, tuirender.Plain(row))
	}
	return out
}

// field renders "label: value" with a dim label.
func (c *Context) field(label, value string, valueStyle lipgloss.Style) string {
	return c.Styles.Dim.Render(label+": ") + valueStyle.Render(value)
}
