package main

import (
	"flag"
	"io"
	"strings"
)

type rootArgs struct {
	overrides []string
	cfgPath   string
	verbose   bool
}

// parseRootArgs 只解析子命令之前的全局参数，其余原样交给子命令。
func parseRootArgs(args []string) (rootArgs, []string, error) {
	var root rootArgs
	fs := flag.NewFlagSet("agentui", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Var((*stringSlice)(&root.overrides), "c", "Override config value key=value (repeatable)")
	fs.StringVar(&root.cfgPath, "config", "", "Path to config file (default ~/.agentui/config.toml)")
	fs.BoolVar(&root.verbose, "verbose", false, "Enable debug logging")

	n := leadingRootArgs(args)
	if err := fs.Parse(args[:n]); err != nil {
		return rootArgs{}, nil, err
	}
	rest := append([]string{}, fs.Args()...)
	return root, append(rest, args[n:]...), nil
}

// leadingRootArgs counts the leading arguments that belong to root flags.
func leadingRootArgs(args []string) int {
	i := 0
	for i < len(args) {
		name, hasValue := rootFlagName(args[i])
		switch name {
		case "c", "config":
			if hasValue {
				i++
			} else {
				i += 2
			}
		case "verbose":
			i++
		default:
			return i
		}
	}
	if i > len(args) {
		return len(args)
	}
	return i
}

func rootFlagName(arg string) (string, bool) {
	if !strings.HasPrefix(arg, "-") || arg == "-" || arg == "--" {
		return "", false
	}
	name := strings.TrimLeft(arg, "-")
	if k, _, ok := strings.Cut(name, "="); ok {
		return k, true
	}
	return name, false
}
