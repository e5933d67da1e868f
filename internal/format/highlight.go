package format

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	tuirender "agentui/internal/tui/render"
)

const chromaStyleName = "monokai"

// Highlight tokenizes code with the lexer matching path and returns styled
// lines. Unknown languages use the fallback lexer.
func Highlight(code, path string) []tuirender.Line {
	lexer := lexers.Match(path)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return highlightWith(lexer, code)
}

// HighlightCommand highlights a shell command line.
func HighlightCommand(cmd string) []tuirender.Line {
	lexer := lexers.Get("bash")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return highlightWith(lexer, cmd)
}

func highlightWith(lexer chroma.Lexer, code string) []tuirender.Line {
	lexer = chroma.Coalesce(lexer)
	style := chromastyles.Get(chromaStyleName)
	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		log.WithError(err).Debug("tokenise failed, plain text")
		return plainLines(code)
	}

	lines := []tuirender.Line{{}}
	for _, tok := range it.Tokens() {
		if tok.Value == "" {
			continue
		}
		st := chromaToLipgloss(tok.Type, style)
		parts := strings.Split(tok.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, tuirender.Line{})
			}
			if part == "" {
				continue
			}
			cur := &lines[len(lines)-1]
			cur.Spans = append(cur.Spans, tuirender.Span{Text: part, Style: st})
		}
	}
	// lexer 可能补一个结尾换行，按原文行数截断
	if want := strings.Count(strings.TrimSuffix(code, "\n"), "\n") + 1; len(lines) > want {
		lines = lines[:want]
	}
	return lines
}

func chromaToLipgloss(tokenType chroma.TokenType, style *chroma.Style) lipgloss.Style {
	entry := style.Get(tokenType)
	st := lipgloss.NewStyle()
	if entry.Colour.IsSet() {
		st = st.Foreground(lipgloss.Color(entry.Colour.String()))
	}
	if entry.Bold == chroma.Yes {
		st = st.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		st = st.Italic(true)
	}
	if entry.Underline == chroma.Yes {
		st = st.Underline(true)
	}
	return st
}

func plainLines(code string) []tuirender.Line {
	raw := strings.Split(strings.TrimSuffix(code, "\n"), "\n")
	out := make([]tuirender.Line, 0, len(raw))
	for _, l := range raw {
		out = append(out, tuirender.Line{Spans: []tuirender.Span{{Text: l}}})
	}
	return out
}
