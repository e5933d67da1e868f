// Package format turns message content into display text: markdown, code
// highlighting, tool summaries, truncation and numbers.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

// TruncatedMarker separates the head and tail of truncated output.
const TruncatedMarker = "... (truncated) ..."

// TruncateOutput keeps the first and last (maxLines-1)/2 lines of text when
// it has more than maxLines lines. maxLines <= 0 disables truncation.
func TruncateOutput(text string, maxLines int) string {
	if maxLines <= 0 {
		return text
	}
	lines := splitLines(text)
	if len(lines) <= maxLines {
		return text
	}
	half := (maxLines - 1) / 2
	if half < 1 {
		half = 1
	}
	out := make([]string, 0, half*2+1)
	out = append(out, lines[:half]...)
	out = append(out, TruncatedMarker)
	out = append(out, lines[len(lines)-half:]...)
	return strings.Join(out, "\n")
}

// TruncateLines is TruncateOutput on a slice.
func TruncateLines(lines []string, maxLines int) []string {
	if maxLines <= 0 || len(lines) <= maxLines {
		return lines
	}
	return splitLines(TruncateOutput(strings.Join(lines, "\n"), maxLines))
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// Wrap word-wraps text to width columns, hard-breaking words longer than
// the width.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return wrap.String(wordwrap.String(text, width), width)
}

// Indent prefixes every line of text with n spaces.
func Indent(text string, n int) string {
	if n <= 0 {
		return text
	}
	return indent.String(text, uint(n))
}

// Truncate shortens s to width display columns with a trailing ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// Duration formats milliseconds: 850ms, 1.50s, 2m 5s, 1h 3m.
func Duration(ms int64) string {
	switch {
	case ms < 1000:
		return fmt.Sprintf("%dms", ms)
	case ms < 60_000:
		return fmt.Sprintf("%.2fs", float64(ms)/1000)
	case ms < 3_600_000:
		return fmt.Sprintf("%dm %ds", ms/60_000, (ms%60_000)/1000)
	default:
		return fmt.Sprintf("%dh %dm", ms/3_600_000, (ms%3_600_000)/60_000)
	}
}

// Elapsed formats a time.Duration with Duration.
func Elapsed(d time.Duration) string {
	return Duration(d.Milliseconds())
}

// Cost formats a USD amount with four decimals.
func Cost(usd float64) string {
	return fmt.Sprintf("$%.4f", usd)
}

// Tokens formats a count with thousands separators.
func Tokens(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ShortID returns the first 8 characters of id.
func ShortID(id string) string {
	runes := []rune(id)
	if len(runes) <= 8 {
		return id
	}
	return string(runes[:8])
}
