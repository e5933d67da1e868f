// Package stream reveals the blocks of an assistant message one at a time.
//
// A Controller is a plain state machine: Step(now) is its only transition and
// it never touches a timer itself. Drive feeds it from a single ticker.
package stream

import (
	"strings"

	"agentui/internal/message"
)

// Kind 为进度单元类型。
type Kind int

const (
	KindText Kind = iota
	KindThinking
	KindToolUse
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindThinking:
		return "thinking"
	case KindToolUse:
		return "tool_use"
	default:
		return "unknown"
	}
}

// Segment is one progress unit. Text blocks with embedded thinking markers
// contribute one segment per piece.
type Segment struct {
	Kind       Kind
	Text       string
	Tool       message.Block
	BlockIndex int
}

// Blank reports a text segment with nothing to show.
func (s Segment) Blank() bool {
	if s.Kind != KindText {
		return false
	}
	trimmed := strings.TrimSpace(s.Text)
	return trimmed == "" || trimmed == message.NoContent
}

// Segments flattens the content of an assistant message into progress units.
// Unknown block kinds are not counted.
func Segments(m message.Message) []Segment {
	var out []Segment
	for i, b := range m.Blocks() {
		switch b.Kind() {
		case message.KindText:
			parts := message.SplitThinking(b.Text)
			if len(parts) == 0 {
				out = append(out, Segment{Kind: KindText, BlockIndex: i})
				continue
			}
			for _, p := range parts {
				kind := KindText
				if p.Kind == message.SegmentThinking {
					kind = KindThinking
				}
				out = append(out, Segment{Kind: kind, Text: p.Text, BlockIndex: i})
			}
		case message.KindThinking:
			out = append(out, Segment{Kind: KindThinking, Text: b.Thinking, BlockIndex: i})
		case message.KindToolUse:
			out = append(out, Segment{Kind: KindToolUse, Tool: b, BlockIndex: i})
		}
	}
	return out
}
