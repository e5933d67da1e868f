package main

import (
	"context"

	"agentui/internal/render"
	"agentui/internal/tui"
	"agentui/internal/view"
)

// presentMode selects the presenter.
type presentMode struct {
	tui        bool
	fullscreen bool
	// readsStdin means stdin carries messages, not keystrokes.
	readsStdin bool
}

// presentSession runs fn against the presenter that fits env: the
// interactive program when asked for on a terminal, the plain writer otherwise.
func presentSession(ctx context.Context, env cliEnv, opts render.Options, mode presentMode, fn tui.RenderFunc) error {
	viewOpts := view.OptionsFrom(opts)
	if mode.tui {
		if isTerminal(env.stdout) {
			return tui.Run(ctx, tui.Options{
				Theme:        opts.Theme,
				View:         viewOpts,
				Clock:        opts.Clock,
				AltScreen:    mode.fullscreen,
				DisableInput: mode.readsStdin,
			}, fn)
		}
		log.Warn("--tui needs a terminal, using plain output")
	}
	width := terminalWidth(env.stdout)
	if opts.MaxWidth > 0 && width > opts.MaxWidth {
		width = opts.MaxWidth
	}
	p := view.NewPresenter(view.PresenterOptions{
		Writer:     env.stdout,
		Width:      width,
		Theme:      opts.Theme,
		View:       viewOpts,
		StatusLine: isTerminal(env.stdout),
	})
	return fn(ctx, p)
}
