package replay

import (
	"context"
	"errors"
	"fmt"

	"agentui/internal/clock"
	"agentui/internal/message"
	"agentui/internal/render"
	"agentui/internal/sessionlog"
)

// Summary reports what a replay did.
type Summary struct {
	Entries  int
	Skipped  int
	Rendered int
}

// Replayer feeds a session log through a render session built with the same
// options a live session would use. Replayed messages are not logged again.
type Replayer struct {
	Presenter render.Presenter
	Render    render.Options
	Options   Options
	// Clock paces delays; nil means the wall clock.
	Clock clock.Clock
}

// ReplayFile replays path. A missing or unreadable file is an error; bad
// lines are skipped. The render session is always cleaned up.
func (r Replayer) ReplayFile(ctx context.Context, path string) (sum Summary, err error) {
	if err := r.Options.Validate(); err != nil {
		return Summary{}, err
	}
	read := sessionlog.ReadFile
	if r.Options.Follow {
		read = sessionlog.ReadFileLive
	}
	entries, stats, err := read(path)
	if err != nil {
		return Summary{}, err
	}
	sum.Entries = stats.Entries
	sum.Skipped = stats.Skipped

	opts := r.Render
	opts.Log.Enabled = false
	if opts.Clock == nil {
		opts.Clock = r.Clock
	}
	session := render.NewSession(r.Presenter, opts)
	defer func() {
		if cerr := session.Cleanup(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	steps := Plan(entries, r.Options)
	log.WithField("path", path).WithField("steps", len(steps)).Info("replay started")
	sink := func(ctx context.Context, msg message.Message) error {
		return session.Render(ctx, msg)
	}
	n, err := Run(ctx, steps, r.Clock, sink)
	sum.Rendered = n
	if err != nil {
		return sum, err
	}

	if r.Options.Follow {
		followOpts := r.Options
		followOpts.Realtime = false
		followOpts.FixedDelay = 0
		err = sessionlog.Follow(ctx, path, stats.Offset, func(e sessionlog.Entry) error {
			sum.Entries++
			for _, st := range Plan([]sessionlog.Entry{e}, followOpts) {
				if err := session.Render(ctx, st.Message); err != nil {
					return err
				}
				sum.Rendered++
			}
			return nil
		})
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		if err != nil {
			return sum, fmt.Errorf("follow %s: %w", path, err)
		}
	}
	return sum, nil
}
