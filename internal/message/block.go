package message

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Block type tags.
const (
	BlockText       = "text"
	BlockThinking   = "thinking"
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
)

// NoContent is the placeholder text the SDK emits for empty turns.
const NoContent = "(no content)"

// BlockKind 为内容块种类。
type BlockKind int

const (
	KindUnknown BlockKind = iota
	KindText
	KindThinking
	KindToolUse
	KindToolResult
)

func (k BlockKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindThinking:
		return "thinking"
	case KindToolUse:
		return "tool_use"
	case KindToolResult:
		return "tool_result"
	default:
		return "unknown"
	}
}

// Block is one content block. Tool inputs and tool result content are kept
// raw: inputs preserve key order for display and results may be either a
// string or a list of parts.
type Block struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	Thinking  string          `json:"thinking,omitempty"`
	Signature string          `json:"signature,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
	IsError   bool            `json:"is_error,omitempty"`
}

// Kind classifies the block.
func (b Block) Kind() BlockKind {
	switch b.Type {
	case BlockText:
		return KindText
	case BlockThinking:
		return KindThinking
	case BlockToolUse:
		return KindToolUse
	case BlockToolResult:
		return KindToolResult
	default:
		return KindUnknown
	}
}

// IsBlankText reports text blocks with nothing to show.
func (b Block) IsBlankText() bool {
	if b.Kind() != KindText {
		return false
	}
	trimmed := strings.TrimSpace(b.Text)
	return trimmed == "" || trimmed == NoContent
}

// ToolResultText flattens tool_result content into display text.
func (b Block) ToolResultText() string {
	raw := bytes.TrimSpace(b.Content)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	case '[':
		var parts []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}
		if err := json.Unmarshal(raw, &parts); err == nil {
			texts := make([]string, 0, len(parts))
			for _, p := range parts {
				if p.Type == BlockText || p.Text != "" {
					texts = append(texts, p.Text)
				}
			}
			return strings.Join(texts, "\n")
		}
	}
	return string(raw)
}

// Content is a list of blocks. A bare JSON string decodes as a single text
// block; entries that fail to decode are dropped.
type Content []Block

// UnmarshalJSON 兼容字符串与数组两种形态，单个坏块不影响其余内容。
func (c *Content) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*c = nil
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*c = Content{{Type: BlockText, Text: s}}
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return err
	}
	out := make(Content, 0, len(items))
	for _, item := range items {
		var b Block
		if err := json.Unmarshal(item, &b); err != nil {
			log.WithError(err).Debug("dropping malformed content block")
			continue
		}
		out = append(out, b)
	}
	*c = out
	return nil
}
