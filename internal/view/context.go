package view

import (
	"agentui/internal/format"
	"agentui/internal/render"
	"agentui/internal/theme"
)

// Options select what cells show.
type Options struct {
	ShowThinking    bool
	ShowToolDetails bool
	ShowToolContent bool
	ShowTokenUsage  bool
	ShowSessionInfo bool
	ShowFinalResult bool
	MaxOutputLines  int
}

// OptionsFrom copies the display switches of render options.
func OptionsFrom(o render.Options) Options {
	return Options{
		ShowThinking:    o.ShowThinking,
		ShowToolDetails: o.ShowToolDetails,
		ShowToolContent: o.ShowToolContent,
		ShowTokenUsage:  o.ShowTokenUsage,
		ShowSessionInfo: o.ShowSessionInfo,
		ShowFinalResult: o.ShowFinalResult,
		MaxOutputLines:  o.MaxOutputLines,
	}
}

// Context is shared by every cell builder.
type Context struct {
	Theme    theme.Theme
	Styles   theme.Styles
	Markdown *format.Markdown
	Opts     Options
}

// NewContext resolves the theme once.
func NewContext(name theme.Name, opts Options) *Context {
	th := theme.Resolve(name)
	return &Context{
		Theme:    th,
		Styles:   th.Styles(),
		Markdown: format.NewMarkdown(),
		Opts:     opts,
	}
}

// contentWidth caps width at the theme's max width.
func (c *Context) contentWidth(width int) int {
	if width <= 0 {
		width = 80
	}
	if max := c.Theme.Layout.MaxWidth; max > 0 && width > max {
		width = max
	}
	return width
}
