package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"agentui/internal/config"
	"agentui/internal/render"
	"agentui/internal/replay"
	"agentui/internal/sessionlog"
	"agentui/internal/theme"
)

type replayArgs struct {
	file               string
	theme              string
	speed              float64
	realtime           bool
	streaming          bool
	showThinking       bool
	showToolDetails    bool
	filterStreamEvents bool
	fixedDelayMS       int
	follow             bool
	latest             bool
	tui                bool
	fullscreen         bool
	help               bool
}

// parseReplayArgs 手动解析：未知参数只产生警告，值错误才返回 error。
func parseReplayArgs(args []string) (replayArgs, []string, error) {
	ra := replayArgs{speed: 1}
	var warnings []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			if ra.file == "" {
				ra.file = arg
			} else {
				warnings = append(warnings, fmt.Sprintf("ignoring extra argument %q", arg))
			}
			continue
		}
		name, value, inline := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		next := func() (string, error) {
			if inline {
				return value, nil
			}
			if i+1 >= len(args) {
				return "", fmt.Errorf("flag --%s needs a value", name)
			}
			i++
			return args[i], nil
		}
		switch name {
		case "theme":
			v, err := next()
			if err != nil {
				return ra, warnings, err
			}
			ra.theme = v
		case "speed":
			v, err := next()
			if err != nil {
				return ra, warnings, err
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f <= 0 {
				return ra, warnings, fmt.Errorf("invalid --speed %q: must be a number greater than 0", v)
			}
			ra.speed = f
		case "fixed-delay":
			v, err := next()
			if err != nil {
				return ra, warnings, err
			}
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return ra, warnings, fmt.Errorf("invalid --fixed-delay %q: must be milliseconds >= 0", v)
			}
			ra.fixedDelayMS = n
		case "realtime":
			ra.realtime = true
		case "streaming":
			ra.streaming = true
		case "show-thinking":
			ra.showThinking = true
		case "show-tool-details":
			ra.showToolDetails = true
		case "filter-stream-events":
			ra.filterStreamEvents = true
		case "follow":
			ra.follow = true
		case "latest":
			ra.latest = true
		case "tui":
			ra.tui = true
		case "fullscreen":
			ra.tui = true
			ra.fullscreen = true
		case "help", "h":
			ra.help = true
		default:
			warnings = append(warnings, fmt.Sprintf("unknown flag %s", arg))
		}
	}
	return ra, warnings, nil
}

func replayMain(ctx context.Context, env cliEnv, cfg config.Config, args []string) int {
	ra, warnings, err := parseReplayArgs(args)
	for _, w := range warnings {
		printWarning(env.stderr, "%s", w)
	}
	if err != nil {
		printError(env.stderr, "%v", err)
		return 1
	}
	if ra.help {
		printReplayUsage(env.stdout)
		return 0
	}

	opts, err := replayRenderOptions(cfg, ra)
	if err != nil {
		printError(env.stderr, "%v", err)
		fmt.Fprintf(env.stderr, "available themes: %s\n", themeList())
		return 1
	}

	path, err := resolveLogPath(ra, opts.Log.Dir)
	if err != nil {
		printError(env.stderr, "%v", err)
		if ra.file == "" && !ra.latest {
			printReplayUsage(env.stderr)
		}
		return 1
	}

	rOpts := replay.DefaultOptions()
	rOpts.Realtime = ra.realtime
	rOpts.Speed = ra.speed
	rOpts.FilterStreamEvents = ra.filterStreamEvents
	rOpts.FixedDelay = time.Duration(ra.fixedDelayMS) * time.Millisecond
	rOpts.Follow = ra.follow
	if err := rOpts.Validate(); err != nil {
		printError(env.stderr, "%v", err)
		return 1
	}

	var sum replay.Summary
	err = presentSession(ctx, env, opts, presentMode{tui: ra.tui, fullscreen: ra.fullscreen}, func(ctx context.Context, p render.Presenter) error {
		var err error
		sum, err = replay.Replayer{Presenter: p, Render: opts, Options: rOpts, Clock: opts.Clock}.ReplayFile(ctx, path)
		return err
	})
	log.WithField("path", path).
		WithField("entries", sum.Entries).
		WithField("skipped", sum.Skipped).
		WithField("rendered", sum.Rendered).
		Info("replay finished")
	if errors.Is(err, context.Canceled) {
		return 130
	}
	if err != nil {
		printError(env.stderr, "replay %s: %v", path, err)
		return 1
	}
	if sum.Skipped > 0 {
		printWarning(env.stderr, "skipped %d malformed line(s)", sum.Skipped)
	}
	return 0
}

func replayRenderOptions(cfg config.Config, ra replayArgs) (render.Options, error) {
	opts := cfg.RenderOptions()
	if ra.theme != "" {
		name, err := theme.Parse(ra.theme)
		if err != nil {
			return opts, err
		}
		opts.Theme = name
	}
	if ra.streaming {
		opts.Streaming = true
	}
	if ra.showThinking {
		opts.ShowThinking = true
	}
	if ra.showToolDetails {
		opts.ShowToolDetails = true
	}
	return opts, nil
}

func resolveLogPath(ra replayArgs, logDir string) (string, error) {
	if ra.latest {
		lf, err := sessionlog.Latest(logDir)
		if err != nil {
			return "", err
		}
		return lf.Path, nil
	}
	if ra.file == "" {
		return "", errors.New("missing session log file")
	}
	info, err := os.Stat(ra.file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("log file not found: %s", ra.file)
		}
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", ra.file)
	}
	return ra.file, nil
}

func themeList() string {
	names := theme.Names()
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return strings.Join(out, ", ")
}

func printReplayUsage(w io.Writer) {
	fmt.Fprintf(w, `Usage: agentui replay <log.jsonl> [flags]

Flags:
  --theme <name>           Theme (%s)
  --speed <x>              Playback speed multiplier for --realtime (default 1)
  --realtime               Reproduce the original timing between messages
  --streaming              Type assistant text progressively
  --show-thinking          Show thinking blocks
  --show-tool-details      Show tool input details
  --filter-stream-events   Drop stream_event entries
  --fixed-delay <ms>       Wait before every message when not realtime
  --follow                 Keep rendering entries appended to the log
  --latest                 Replay the newest log in the log directory
  --tui                    Use the interactive terminal UI
  --fullscreen             Interactive UI on the alternate screen with a scrollable transcript
  -h, --help               Show this help
`, themeList())
}
