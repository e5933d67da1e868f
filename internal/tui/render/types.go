// Package render holds the styled line primitives shared by the presenters.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Span 表示一段文本及其样式。
type Span struct {
	Text  string
	Style lipgloss.Style
}

// Line 由多个 Span 组成，可选整体样式。
type Line struct {
	Spans []Span
	Style lipgloss.Style
}

// Plain returns a single unstyled span line.
func Plain(text string) Line {
	return Line{Spans: []Span{{Text: text}}}
}

// Styled returns a single span line rendered with style.
func Styled(text string, style lipgloss.Style) Line {
	return Line{Spans: []Span{{Text: text, Style: style}}}
}

// Text 返回去样式后的文本。
func (l Line) Text() string {
	var b strings.Builder
	for _, sp := range l.Spans {
		b.WriteString(sp.Text)
	}
	return b.String()
}

// Width is the display width of the unstyled text.
func (l Line) Width() int {
	return runewidth.StringWidth(l.Text())
}

// Append returns l with extra spans added.
func (l Line) Append(spans ...Span) Line {
	out := make([]Span, 0, len(l.Spans)+len(spans))
	out = append(out, l.Spans...)
	out = append(out, spans...)
	return Line{Spans: out, Style: l.Style}
}

// Buffer 收集渲染结果，按行存储。
type Buffer struct {
	Lines []Line
}

// WriteLine 追加单行。
func (b *Buffer) WriteLine(line Line) {
	if b == nil {
		return
	}
	b.Lines = append(b.Lines, line)
}

// WriteLines 追加多行。
func (b *Buffer) WriteLines(lines ...Line) {
	if b == nil {
		return
	}
	b.Lines = append(b.Lines, lines...)
}

// Blank 追加 n 个空行。
func (b *Buffer) Blank(n int) {
	for i := 0; i < n; i++ {
		b.WriteLine(Line{})
	}
}

// LinesToStrings 将样式化的行转换为字符串列表。
func LinesToStrings(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		segments := make([]string, 0, len(line.Spans))
		for _, sp := range line.Spans {
			segments = append(segments, sp.Style.Render(sp.Text))
		}
		out = append(out, line.Style.Render(strings.Join(segments, "")))
	}
	return out
}

// LinesToPlainStrings drops styling.
func LinesToPlainStrings(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, line.Text())
	}
	return out
}
