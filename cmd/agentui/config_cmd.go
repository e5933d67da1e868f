package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"agentui/internal/config"
)

// configMain handles `agentui config init|path`.
func configMain(env cliEnv, root rootArgs, args []string) int {
	if len(args) == 0 {
		printConfigUsage(env.stderr)
		return 1
	}
	path := root.cfgPath
	if path == "" {
		path = config.DefaultPath()
	}
	switch args[0] {
	case "path":
		fmt.Fprintln(env.stdout, path)
		return 0
	case "init":
		fs := flag.NewFlagSet("config init", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		force := fs.Bool("force", false, "Overwrite an existing config file")
		if err := fs.Parse(args[1:]); err != nil {
			printError(env.stderr, "config init: %v", err)
			return 1
		}
		if _, err := os.Stat(path); err == nil && !*force {
			printError(env.stderr, "%s already exists (use --force to overwrite)", path)
			return 1
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			printError(env.stderr, "config init: %v", err)
			return 1
		}
		// 只写默认值和 -c 覆盖，不落盘环境变量
		cfg := config.ApplyKVOverrides(config.Default(), root.overrides)
		if err := config.Save(path, cfg); err != nil {
			printError(env.stderr, "config init: %v", err)
			return 1
		}
		log.WithField("path", path).Info("config written")
		fmt.Fprintf(env.stdout, "wrote %s\n", path)
		return 0
	case "help", "-h", "--help":
		printConfigUsage(env.stdout)
		return 0
	}
	printError(env.stderr, "unknown config command %q", args[0])
	printConfigUsage(env.stderr)
	return 1
}

func printConfigUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: agentui [-c key=value]... [--config path] config <command>

Commands:
  init [--force]   Write a config file with default values (plus -c overrides)
  path             Print the config file location
`)
}
