// Package message models the agent stream-json messages the renderer consumes
// and classifies them into render-relevant categories.
package message

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Message type tags.
const (
	TypeSystem      = "system"
	TypeAssistant   = "assistant"
	TypeUser        = "user"
	TypeResult      = "result"
	TypeStreamEvent = "stream_event"
)

// SubtypeInit marks the session initialization system message.
const SubtypeInit = "init"

// Result subtypes.
const (
	SubtypeSuccess = "success"
	SubtypeError   = "error"
)

// Message is one decoded line of the agent stream. It keeps the bytes it was
// decoded from so that re-encoding is byte-identical.
type Message struct {
	Type            string `json:"type"`
	Subtype         string `json:"subtype,omitempty"`
	SessionID       string `json:"session_id,omitempty"`
	UUID            string `json:"uuid,omitempty"`
	ParentToolUseID string `json:"parent_tool_use_id,omitempty"`
	IsReplay        bool   `json:"isReplay,omitempty"`

	// system/init
	Model          string   `json:"model,omitempty"`
	Cwd            string   `json:"cwd,omitempty"`
	PermissionMode string   `json:"permissionMode,omitempty"`
	Tools          []string `json:"tools,omitempty"`

	// assistant / user
	Body *Body `json:"message,omitempty"`

	// stream_event
	Event *StreamEvent `json:"event,omitempty"`

	// result
	IsError           bool              `json:"is_error,omitempty"`
	DurationMS        int64             `json:"duration_ms,omitempty"`
	DurationAPIMS     int64             `json:"duration_api_ms,omitempty"`
	NumTurns          int               `json:"num_turns,omitempty"`
	TotalCostUSD      float64           `json:"total_cost_usd,omitempty"`
	Usage             *Usage            `json:"usage,omitempty"`
	PermissionDenials []json.RawMessage `json:"permission_denials,omitempty"`
	Result            string            `json:"result,omitempty"`

	raw json.RawMessage
}

// Body is the nested API message of assistant and user messages.
type Body struct {
	ID         string  `json:"id,omitempty"`
	Model      string  `json:"model,omitempty"`
	Role       string  `json:"role,omitempty"`
	Content    Content `json:"content"`
	StopReason string  `json:"stop_reason,omitempty"`
	Usage      *Usage  `json:"usage,omitempty"`
}

// Usage 为 token 统计。
type Usage struct {
	InputTokens              int64 `json:"input_tokens"`
	OutputTokens             int64 `json:"output_tokens"`
	CacheCreationInputTokens int64 `json:"cache_creation_input_tokens,omitempty"`
	CacheReadInputTokens     int64 `json:"cache_read_input_tokens,omitempty"`
}

// StreamEvent is the partial-turn signal carried by stream_event messages.
type StreamEvent struct {
	Type  string          `json:"type"`
	Index int             `json:"index,omitempty"`
	Delta json.RawMessage `json:"delta,omitempty"`
}

// Stream event types.
const (
	EventMessageStart      = "message_start"
	EventMessageDelta      = "message_delta"
	EventMessageStop       = "message_stop"
	EventContentBlockStart = "content_block_start"
	EventContentBlockDelta = "content_block_delta"
	EventContentBlockStop  = "content_block_stop"
)

// Decode parses one message. The input bytes are retained verbatim.
func Decode(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, err
	}
	return m, nil
}

// UnmarshalJSON 解码并保留原始字节。
func (m *Message) UnmarshalJSON(data []byte) error {
	type plain Message
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*m = Message(p)
	m.raw = append(json.RawMessage(nil), bytes.TrimSpace(data)...)
	return nil
}

// MarshalJSON returns the retained bytes when the message was decoded, and a
// fresh encoding otherwise.
func (m Message) MarshalJSON() ([]byte, error) {
	if len(m.raw) > 0 {
		return m.raw, nil
	}
	type plain Message
	return json.Marshal(plain(m))
}

// Raw returns the bytes the message was decoded from, if any.
func (m Message) Raw() json.RawMessage {
	return m.raw
}

// Blocks returns the content blocks of an assistant or user message.
func (m Message) Blocks() []Block {
	if m.Body == nil {
		return nil
	}
	return m.Body.Content
}

// ToolUses returns the tool_use blocks in order.
func (m Message) ToolUses() []Block {
	return m.blocksOfKind(KindToolUse)
}

// ToolResults returns the tool_result blocks in order.
func (m Message) ToolResults() []Block {
	return m.blocksOfKind(KindToolResult)
}

func (m Message) blocksOfKind(kind BlockKind) []Block {
	var out []Block
	for _, b := range m.Blocks() {
		if b.Kind() == kind {
			out = append(out, b)
		}
	}
	return out
}

// Succeeded reports whether a result message is a success.
func (m Message) Succeeded() bool {
	return m.Subtype == SubtypeSuccess && !m.IsError
}

// StreamEventType returns the inner event type of a stream_event message.
func (m Message) StreamEventType() string {
	if m.Event == nil {
		return ""
	}
	return m.Event.Type
}

// Text concatenates the visible text blocks of a message.
func (m Message) Text() string {
	var parts []string
	for _, b := range m.Blocks() {
		if b.Kind() == KindText && !b.IsBlankText() {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}
