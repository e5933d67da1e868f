package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// IsBlankLineSpacesOnly 判断行是否为空或仅包含空格。
func IsBlankLineSpacesOnly(line Line) bool {
	for _, sp := range line.Spans {
		if strings.Trim(sp.Text, " ") != "" {
			return false
		}
	}
	return true
}

// PrefixLines 为首行/续行添加前缀。
func PrefixLines(lines []Line, initial Span, subsequent Span) []Line {
	out := make([]Line, 0, len(lines))
	for i, l := range lines {
		spans := make([]Span, 0, len(l.Spans)+1)
		if i == 0 {
			spans = append(spans, initial)
		} else {
			spans = append(spans, subsequent)
		}
		spans = append(spans, l.Spans...)
		out = append(out, Line{Spans: spans, Style: l.Style})
	}
	return out
}

// IndentLines prefixes every line with n spaces.
func IndentLines(lines []Line, n int) []Line {
	if n <= 0 {
		return lines
	}
	pad := Span{Text: strings.Repeat(" ", n)}
	return PrefixLines(lines, pad, pad)
}

// TrimTrailingBlank drops blank lines at the end.
func TrimTrailingBlank(lines []Line) []Line {
	end := len(lines)
	for end > 0 && IsBlankLineSpacesOnly(lines[end-1]) {
		end--
	}
	return lines[:end]
}

// ClampLine truncates a line to width display columns, ending with "…" when
// anything was cut.
func ClampLine(line Line, width int) Line {
	if width <= 0 || line.Width() <= width {
		return line
	}
	out := Line{Style: line.Style}
	remaining := width - 1
	for _, sp := range line.Spans {
		if remaining <= 0 {
			break
		}
		w := runewidth.StringWidth(sp.Text)
		if w <= remaining {
			out.Spans = append(out.Spans, sp)
			remaining -= w
			continue
		}
		out.Spans = append(out.Spans, Span{Text: runewidth.Truncate(sp.Text, remaining, ""), Style: sp.Style})
		remaining = 0
	}
	out.Spans = append(out.Spans, Span{Text: "…"})
	return out
}
