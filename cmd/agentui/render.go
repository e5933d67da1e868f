package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/atotto/clipboard"

	"agentui/internal/config"
	"agentui/internal/message"
	"agentui/internal/render"
	"agentui/internal/theme"
)

// maxLineBytes caps a single stream-json line.
const maxLineBytes = 16 << 20

type renderArgs struct {
	theme           string
	streaming       bool
	typing          bool
	showThinking    bool
	showToolDetails bool
	showToolContent bool
	showTokenUsage  bool
	noLog           bool
	logDir          string
	tui             bool
	copyLogPath     bool
}

func parseRenderArgs(args []string) (renderArgs, error) {
	var ra renderArgs
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&ra.theme, "theme", "", "Theme name")
	fs.BoolVar(&ra.streaming, "streaming", false, "Type assistant text progressively")
	fs.BoolVar(&ra.typing, "typing", false, "Alias of --streaming")
	fs.BoolVar(&ra.showThinking, "show-thinking", false, "Show thinking blocks")
	fs.BoolVar(&ra.showToolDetails, "show-tool-details", false, "Show tool input details")
	fs.BoolVar(&ra.showToolContent, "show-tool-content", false, "Show file content in tool input")
	fs.BoolVar(&ra.showTokenUsage, "show-token-usage", false, "Show token usage in the final result")
	fs.BoolVar(&ra.noLog, "no-log", false, "Do not write a session log")
	fs.StringVar(&ra.logDir, "log-dir", "", "Session log directory")
	fs.BoolVar(&ra.tui, "tui", false, "Use the interactive terminal UI")
	fs.BoolVar(&ra.copyLogPath, "copy-log-path", false, "Copy the session log path to the clipboard when done")
	if err := fs.Parse(args); err != nil {
		return ra, err
	}
	if fs.NArg() > 0 {
		return ra, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return ra, nil
}

func renderMain(ctx context.Context, env cliEnv, cfg config.Config, args []string) int {
	ra, err := parseRenderArgs(args)
	if err != nil {
		printError(env.stderr, "%v", err)
		return 1
	}
	opts := cfg.RenderOptions()
	if ra.theme != "" {
		name, err := theme.Parse(ra.theme)
		if err != nil {
			printError(env.stderr, "%v", err)
			fmt.Fprintf(env.stderr, "available themes: %s\n", themeList())
			return 1
		}
		opts.Theme = name
	}
	opts.Streaming = opts.Streaming || ra.streaming
	opts.TypingEffect = opts.TypingEffect || ra.typing
	opts.ShowThinking = opts.ShowThinking || ra.showThinking
	opts.ShowToolDetails = opts.ShowToolDetails || ra.showToolDetails
	opts.ShowToolContent = opts.ShowToolContent || ra.showToolContent
	opts.ShowTokenUsage = opts.ShowTokenUsage || ra.showTokenUsage
	if ra.noLog {
		opts.Log.Enabled = false
	}
	if ra.logDir != "" {
		opts.Log.Dir = ra.logDir
	}
	opts.OnError = func(err error) {
		log.WithError(err).Warn("render error")
	}

	var logPath string
	err = presentSession(ctx, env, opts, presentMode{tui: ra.tui, readsStdin: true}, func(ctx context.Context, p render.Presenter) error {
		session := render.NewSession(p, opts)
		err := session.RenderSession(ctx, readMessages(env.stdin))
		logPath = session.LogPath()
		return err
	})
	if errors.Is(err, context.Canceled) {
		return 130
	}
	if err != nil {
		printError(env.stderr, "render: %v", err)
		return 1
	}
	if logPath != "" {
		fmt.Fprintf(env.stderr, "session log: %s\n", logPath)
		if ra.copyLogPath {
			if err := clipboard.WriteAll(logPath); err != nil {
				printWarning(env.stderr, "copy log path: %v", err)
			}
		}
	}
	return 0
}

// readMessages yields one message per stream-json line of r. Blank lines are
// ignored and malformed lines are skipped with a warning.
func readMessages(r io.Reader) iter.Seq2[message.Message, error] {
	return func(yield func(message.Message, error) bool) {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		lineNo := 0
		for sc.Scan() {
			lineNo++
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			msg, err := message.Decode([]byte(line))
			if err != nil {
				log.WithError(err).WithField("line", lineNo).Warn("skipping malformed stream-json line")
				continue
			}
			if !yield(msg, nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield(message.Message{}, fmt.Errorf("read stdin: %w", err))
		}
	}
}
