package message

import "strings"

// SegmentKind 区分思考片段与正文片段。
type SegmentKind int

const (
	SegmentText SegmentKind = iota
	SegmentThinking
)

// Segment is a slice of a text block after thinking markers are split out.
type Segment struct {
	Kind SegmentKind
	Text string
}

var thinkingTags = []struct{ open, close string }{
	{"<thinking>", "</thinking>"},
	{"<think>", "</think>"},
}

// SplitThinking splits embedded <thinking>…</thinking> (or <think>…</think>)
// sections out of text. Text without markers comes back as a single text
// segment, unmodified. An unterminated marker makes the rest of the text
// thinking. Blank segments are dropped.
func SplitThinking(text string) []Segment {
	if !hasThinkingTag(text) {
		return []Segment{{Kind: SegmentText, Text: text}}
	}
	var out []Segment
	add := func(kind SegmentKind, s string) {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, Segment{Kind: kind, Text: s})
		}
	}
	rest := text
	for rest != "" {
		idx, open, closeTag := nextThinkingTag(rest)
		if idx < 0 {
			add(SegmentText, rest)
			break
		}
		add(SegmentText, rest[:idx])
		rest = rest[idx+len(open):]
		end := strings.Index(rest, closeTag)
		if end < 0 {
			add(SegmentThinking, rest)
			break
		}
		add(SegmentThinking, rest[:end])
		rest = rest[end+len(closeTag):]
	}
	return out
}

func hasThinkingTag(text string) bool {
	idx, _, _ := nextThinkingTag(text)
	return idx >= 0
}

func nextThinkingTag(text string) (int, string, string) {
	best := -1
	var open, closeTag string
	for _, tag := range thinkingTags {
		if i := strings.Index(text, tag.open); i >= 0 && (best < 0 || i < best) {
			best, open, closeTag = i, tag.open, tag.close
		}
	}
	return best, open, closeTag
}
