package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"agentui/internal/config"
	"agentui/internal/logger"
)

// cliEnv 抽象进程 IO，便于测试。
type cliEnv struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], cliEnv{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr})
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, env cliEnv) int {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warnf("failed to load .env: %v", err)
	}
	logger.Configure()
	if logFile, _, err := logger.SetupFile(logger.DefaultLogPath); err != nil {
		log.Warnf("failed to initialize log file: %v", err)
	} else {
		defer logFile.Close()
	}

	root, rest, err := parseRootArgs(args)
	if err != nil {
		printError(env.stderr, "parse args: %v", err)
		return 1
	}
	cfg, err := loadConfig(root)
	if err != nil {
		printError(env.stderr, "failed to load config: %v", err)
		return 1
	}
	logger.SetVerbose(cfg.Verbose)

	if len(rest) == 0 {
		printUsage(env.stderr)
		return 1
	}
	switch rest[0] {
	case "replay":
		return replayMain(ctx, env, cfg, rest[1:])
	case "render":
		return renderMain(ctx, env, cfg, rest[1:])
	case "themes":
		return themesMain(env, cfg)
	case "config":
		return configMain(env, root, rest[1:])
	case "help", "-h", "--help":
		printUsage(env.stdout)
		return 0
	}
	// agentui <log.jsonl> [flags] 等价于 replay
	return replayMain(ctx, env, cfg, rest)
}

func loadConfig(root rootArgs) (config.Config, error) {
	cfg, err := config.Load(root.cfgPath)
	if err != nil {
		return cfg, err
	}
	cfg = config.ApplyKVOverrides(cfg, root.overrides)
	if root.verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: agentui [-c key=value]... [--config path] [--verbose] <command>

Commands:
  replay <log.jsonl> [flags]   Replay a recorded session log
  render [flags]               Render stream-json messages read from stdin
  themes                       List available themes
  config init|path             Write or locate the config file

Running "agentui <log.jsonl>" is the same as "agentui replay <log.jsonl>".
Run "agentui replay --help" for replay flags.
`)
}
