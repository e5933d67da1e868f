package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"agentui/internal/config"
	"agentui/internal/theme"
)

func themesMain(env cliEnv, cfg config.Config) int {
	current, err := theme.Parse(cfg.Theme)
	if err != nil {
		current = theme.Default
	}
	for _, name := range theme.Names() {
		th := theme.Resolve(name)
		title := string(name)
		if name == current {
			title += " (current)"
		}
		fmt.Fprintln(env.stdout, lipgloss.NewStyle().Bold(true).Render(title))
		c := th.Colors
		for _, sw := range []struct{ label, hex string }{
			{"primary", c.Primary},
			{"secondary", c.Secondary},
			{"success", c.Success},
			{"error", c.Error},
			{"warning", c.Warning},
			{"info", c.Info},
		} {
			swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(sw.hex)).Render("██")
			fmt.Fprintf(env.stdout, "  %s %-10s %s\n", swatch, sw.label, sw.hex)
		}
		fmt.Fprintf(env.stdout, "  symbols: %s %s %s %s\n", th.Symbols.AIPrefix, th.Symbols.Success, th.Symbols.Error, th.Symbols.ToolOutput)
	}
	return 0
}
