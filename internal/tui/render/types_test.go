package render

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestLinesToPlainStrings(t *testing.T) {
	lines := []Line{
		{
			Spans: []Span{
				{Text: "• ", Style: lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))},
				{Text: "hello", Style: lipgloss.NewStyle().Bold(true)},
			},
		},
		{Spans: []Span{}},
	}

	got := LinesToPlainStrings(lines)
	want := []string{"• hello", ""}
	if len(got) != len(want) {
		t.Fatalf("unexpected length: got %d want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d mismatch: got %q want %q", i, got[i], want[i])
		}
		if strings.Contains(got[i], "\x1b") {
			t.Errorf("line %d contains ANSI sequences: %q", i, got[i])
		}
	}
}

func TestPrefixAndIndent(t *testing.T) {
	lines := []Line{Plain("one"), Plain("two")}
	got := LinesToPlainStrings(PrefixLines(lines, Span{Text: "⏺ "}, Span{Text: "  "}))
	if got[0] != "⏺ one" || got[1] != "  two" {
		t.Fatalf("PrefixLines = %q", got)
	}
	got = LinesToPlainStrings(IndentLines(lines, 3))
	if got[0] != "   one" || got[1] != "   two" {
		t.Fatalf("IndentLines = %q", got)
	}
}

func TestClampLine(t *testing.T) {
	line := Line{Spans: []Span{{Text: "hello "}, {Text: "world"}}}
	if got := ClampLine(line, 8).Text(); got != "hello w…" {
		t.Fatalf("ClampLine = %q", got)
	}
	if got := ClampLine(line, 40).Text(); got != "hello world" {
		t.Fatalf("ClampLine wide = %q", got)
	}
}

func TestTrimTrailingBlank(t *testing.T) {
	lines := []Line{Plain("a"), {}, Plain("  ")}
	if got := TrimTrailingBlank(lines); len(got) != 1 {
		t.Fatalf("TrimTrailingBlank kept %d lines", len(got))
	}
}
