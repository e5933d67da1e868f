package render

import (
	"time"

	"agentui/internal/clock"
	"agentui/internal/sessionlog"
	"agentui/internal/stream"
	"agentui/internal/theme"
)

// Options are the live-render options shared by live sessions and replay.
type Options struct {
	Theme           theme.Name
	ShowTokenUsage  bool
	MaxOutputLines  int
	Streaming       bool
	TypingEffect    bool
	TypingSpeed     time.Duration
	ShowThinking    bool
	ShowToolDetails bool
	ShowToolContent bool
	MaxWidth        int
	ShowSessionInfo bool
	ShowFinalResult bool

	// Log configures the session log. Replay disables it.
	Log sessionlog.Options
	// Clock drives typing; nil means the wall clock.
	Clock clock.Clock
	// OnError receives presenter and log failures. Rendering continues.
	OnError func(error)
}

// DefaultOptions 返回默认渲染选项。
func DefaultOptions() Options {
	return Options{
		Theme:           theme.Default,
		MaxOutputLines:  100,
		TypingSpeed:     stream.DefaultTypingSpeed,
		ShowToolDetails: true,
		MaxWidth:        120,
		ShowSessionInfo: true,
		ShowFinalResult: true,
		Log:             sessionlog.DefaultOptions(),
	}
}

// Typing reports whether assistant text is revealed progressively.
func (o Options) Typing() bool {
	return o.Streaming || o.TypingEffect
}

func (o Options) withDefaults() Options {
	if o.Theme == "" {
		o.Theme = theme.Default
	}
	if o.TypingSpeed <= 0 {
		o.TypingSpeed = stream.DefaultTypingSpeed
	}
	if o.MaxWidth <= 0 {
		o.MaxWidth = 120
	}
	return o
}
