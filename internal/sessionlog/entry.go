// Package sessionlog persists rendered messages as newline-delimited JSON and
// reads them back for replay.
package sessionlog

import (
	"bytes"
	"encoding/json"
	"time"

	"agentui/internal/message"
)

// Marker message types bracketing a session in the log.
const (
	TypeSessionStart = "session_start"
	TypeSessionEnd   = "session_end"
)

// timestampLayout matches ISO-8601 with millisecond precision in UTC.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Entry is one log line.
type Entry struct {
	Timestamp   string          `json:"timestamp"`
	SessionID   string          `json:"sessionId"`
	MessageType string          `json:"messageType"`
	Message     json.RawMessage `json:"message"`
	Metadata    map[string]any  `json:"metadata,omitempty"`
}

// IsMarker reports session_start / session_end entries.
func (e Entry) IsMarker() bool {
	return e.MessageType == TypeSessionStart || e.MessageType == TypeSessionEnd
}

// IsStreamEvent reports entries holding partial stream events.
func (e Entry) IsStreamEvent() bool {
	return e.MessageType == message.TypeStreamEvent
}

// Decode parses the entry payload.
func (e Entry) Decode() (message.Message, error) {
	return message.Decode(e.Message)
}

// Time parses the entry timestamp.
func (e Entry) Time() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, e.Timestamp)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// encodeLine marshals v as one line without HTML escaping so payloads are
// written exactly as received.
func encodeLine(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// placeholder is the stand-in payload of marker entries.
type placeholder struct {
	Type    string `json:"type"`
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

func placeholderMessage(text string) (json.RawMessage, error) {
	p := placeholder{Type: message.TypeSystem}
	p.Message.Content = text
	line, err := encodeLine(p)
	if err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(line, []byte("\n")), nil
}
