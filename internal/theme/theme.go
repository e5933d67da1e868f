// Package theme resolves the closed set of transcript themes into colors,
// symbols, layout and lipgloss styles.
package theme

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Name 是主题标识，闭合枚举。
type Name string

const (
	ClaudeCode Name = "claude-code"
	Droid      Name = "droid"
)

// Default is used when no theme is configured.
const Default = ClaudeCode

// ErrUnknown is returned by Parse for names outside the enum.
var ErrUnknown = errors.New("unknown theme")

var all = []Name{ClaudeCode, Droid}

// Names lists every theme in display order.
func Names() []Name {
	out := make([]Name, len(all))
	copy(out, all)
	return out
}

// Parse validates a theme name. Matching is case-insensitive and ignores
// surrounding space; empty selects Default.
func Parse(s string) (Name, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Default, nil
	}
	for _, n := range all {
		if string(n) == s {
			return n, nil
		}
	}
	if hint := Suggest(s); hint != "" {
		return "", fmt.Errorf("%w %q (did you mean %q?)", ErrUnknown, s, hint)
	}
	return "", fmt.Errorf("%w %q", ErrUnknown, s)
}

// Suggest returns the closest theme name to s, or "" when nothing matches.
func Suggest(s string) Name {
	names := make([]string, len(all))
	for i, n := range all {
		names[i] = string(n)
	}
	matches := fuzzy.Find(strings.ToLower(s), names)
	if len(matches) == 0 {
		return ""
	}
	return Name(matches[0].Str)
}

// Colors holds hex colors.
type Colors struct {
	Primary    string
	Secondary  string
	Success    string
	Error      string
	Warning    string
	Info       string
	Text       string
	Dim        string
	Background string
	Highlight  string
}

// Symbols holds the glyphs used in the transcript.
type Symbols struct {
	Success    string
	Error      string
	Warning    string
	Info       string
	Pending    string
	Spinner    []string
	Bullet     string
	Arrow      string
	Thinking   string
	Tool       string
	AIPrefix   string
	UserPrefix string
	ToolOutput string
	Expandable string
}

// Border describes boxed sections.
type Border struct {
	Rounded bool
	Color   string
}

// Layout 控制缩进与间距。
type Layout struct {
	Indent           int
	LineSpacing      int
	ComponentSpacing int
	MaxWidth         int
}

// Theme is a resolved theme.
type Theme struct {
	Name    Name
	Colors  Colors
	Symbols Symbols
	Border  Border
	Layout  Layout
}

// Resolve returns the theme for n, falling back to Default for unknown names.
func Resolve(n Name) Theme {
	switch n {
	case Droid:
		return droid()
	case ClaudeCode:
		return claudeCode()
	default:
		log.WithField("theme", string(n)).Warn("unknown theme, using default")
		return claudeCode()
	}
}

// IsDroid reports whether the droid layout variant applies.
func (t Theme) IsDroid() bool { return t.Name == Droid }

// SpinnerFrames returns the spinner frames, never empty.
func (t Theme) SpinnerFrames() []string {
	if len(t.Symbols.Spinner) == 0 {
		return []string{"-", "\\", "|", "/"}
	}
	return t.Symbols.Spinner
}

func claudeCode() Theme {
	return Theme{
		Name: ClaudeCode,
		Colors: Colors{
			Primary:    "#4A9EFF",
			Secondary:  "#9B87F5",
			Success:    "#52C77A",
			Error:      "#FF6B6B",
			Warning:    "#FFB84D",
			Info:       "#4ECDC4",
			Text:       "#E8E8E8",
			Dim:        "#7A7A7A",
			Background: "#1E1E1E",
			Highlight:  "#FF9F5A",
		},
		Symbols: Symbols{
			Success:    "✅",
			Error:      "❌",
			Warning:    "⚠",
			Info:       "ℹ",
			Pending:    "⏺",
			Spinner:    []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
			Bullet:     "●",
			Arrow:      "→",
			Thinking:   "∴",
			Tool:       "⚙",
			AIPrefix:   "⏺",
			UserPrefix: ">",
			ToolOutput: "⎿",
			Expandable: "…",
		},
		Border: Border{Rounded: true, Color: "#4A9EFF"},
		Layout: Layout{Indent: 2, LineSpacing: 0, ComponentSpacing: 1, MaxWidth: 120},
	}
}

func droid() Theme {
	return Theme{
		Name: Droid,
		Colors: Colors{
			Primary:    "#FEB17F",
			Secondary:  "#DA793C",
			Success:    "#A5E075",
			Error:      "#FF616E",
			Warning:    "#FFD740",
			Info:       "#DA793C",
			Text:       "#ABB2BF",
			Dim:        "#A49C97",
			Background: "#282C34",
			Highlight:  "#DA793C",
		},
		Symbols: Symbols{
			Success:    "✓",
			Error:      "✗",
			Warning:    "⚠",
			Info:       "ℹ",
			Pending:    "○",
			Spinner:    []string{"◐", "◓", "◑", "◒"},
			Bullet:     "●",
			Arrow:      "↳",
			Thinking:   "…",
			Tool:       "⚙",
			AIPrefix:   "⛬",
			UserPrefix: ">",
			ToolOutput: "↳",
			Expandable: "▼",
		},
		Border: Border{Rounded: true, Color: "#00D9FF"},
		Layout: Layout{Indent: 3, LineSpacing: 1, ComponentSpacing: 2, MaxWidth: 100},
	}
}
