package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// HiddenPlaceholder replaces hidden tool input values.
const HiddenPlaceholder = "[hidden]"

// maxValueRunes caps values shown in summaries and detail lines.
const maxValueRunes = 120

var toolLabels = map[string]string{
	"Bash":    "EXECUTE",
	"Execute": "EXECUTE",
	"Shell":   "EXECUTE",
	"Read":    "READ",
	"Write":   "WRITE",
	"Edit":    "EDIT",
	"Glob":    "GLOB",
	"Grep":    "SEARCH",
	"Search":  "SEARCH",
	"Plan":    "PLAN",
}

// summaryFields 已在摘要中展示或属于内部字段，不再出现在详情行。
var summaryFields = map[string]bool{
	"command":     true,
	"cmd":         true,
	"file_path":   true,
	"path":        true,
	"query":       true,
	"pattern":     true,
	"term":        true,
	"prompt":      true,
	"text":        true,
	"content":     true,
	"url":         true,
	"description": true,
}

var hiddenKeys = map[string]bool{"content": true}

// Field is one key of a tool input object, in document order.
type Field struct {
	Key   string
	Value json.RawMessage
}

// Fields parses a JSON object keeping key order. It reports false when raw is
// not an object.
func Fields(raw json.RawMessage) ([]Field, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, false
	}
	var out []Field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, ok := tok.(string)
		if !ok {
			return nil, false
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil, false
		}
		out = append(out, Field{Key: key, Value: val})
	}
	return out, true
}

// ToolLabel maps a tool name to its display label.
func ToolLabel(name string) string {
	if label, ok := toolLabels[name]; ok {
		return label
	}
	return strings.ToUpper(name)
}

// SanitizeToolInput replaces every "content" key (any depth, case-insensitive)
// with HiddenPlaceholder unless showContent is set. Key order is kept.
func SanitizeToolInput(raw json.RawMessage, showContent bool) json.RawMessage {
	if showContent || len(bytes.TrimSpace(raw)) == 0 {
		return raw
	}
	return sanitizeValue(raw)
}

func sanitizeValue(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return raw
	}
	switch trimmed[0] {
	case '{':
		fields, ok := Fields(trimmed)
		if !ok {
			return raw
		}
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, f := range fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, _ := marshalNoEscape(f.Key)
			buf.Write(key)
			buf.WriteByte(':')
			if hiddenKeys[strings.ToLower(f.Key)] {
				v, _ := marshalNoEscape(HiddenPlaceholder)
				buf.Write(v)
				continue
			}
			buf.Write(sanitizeValue(f.Value))
		}
		buf.WriteByte('}')
		return buf.Bytes()
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return raw
		}
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, it := range items {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.Write(sanitizeValue(it))
		}
		buf.WriteByte(']')
		return buf.Bytes()
	}
	return raw
}

// SummarizeToolInput returns the one-line summary shown next to a tool name.
func SummarizeToolInput(name string, raw json.RawMessage) string {
	_ = name
	fields, ok := Fields(raw)
	if !ok {
		return ""
	}
	if cmd := stringField(fields, "command", "cmd"); cmd != "" {
		return cmd
	}
	if path := stringField(fields, "file_path", "path"); path != "" {
		op := stringField(fields, "operation", "mode", "write_mode")
		if op == "" {
			op = rawStringField(fields, "impact")
		}
		if op != "" {
			return path + " (" + op + ")"
		}
		return path
	}
	if url := stringField(fields, "url"); url != "" {
		return url
	}
	if q := stringField(fields, "query", "pattern", "term", "text", "prompt"); q != "" {
		return q
	}
	for _, f := range fields {
		if summaryFields[strings.ToLower(f.Key)] {
			continue
		}
		return f.Key + ": " + ValueToDisplay(f.Value)
	}
	if len(fields) == 0 {
		return ""
	}
	return fields[0].Key + ": " + ValueToDisplay(fields[0].Value)
}

// ToolDetailLines returns "key: value" lines for inputs not covered by the
// summary.
func ToolDetailLines(raw json.RawMessage) []string {
	fields, ok := Fields(raw)
	if !ok {
		return nil
	}
	var out []string
	for _, f := range fields {
		if summaryFields[strings.ToLower(f.Key)] {
			continue
		}
		out = append(out, f.Key+": "+ValueToDisplay(f.Value))
	}
	return out
}

// ValueToDisplay renders one JSON value for a detail line: strings trimmed,
// scalars verbatim, everything else compact JSON, capped at 120 runes.
func ValueToDisplay(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "undefined"
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return truncateRunes(strings.TrimSpace(s), maxValueRunes)
		}
	}
	switch trimmed[0] {
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return "[unsupported]"
		}
		return truncateRunes(buf.String(), maxValueRunes)
	}
	return string(trimmed)
}

func stringField(fields []Field, keys ...string) string {
	for _, k := range keys {
		for _, f := range fields {
			if f.Key != k {
				continue
			}
			var s string
			if err := json.Unmarshal(f.Value, &s); err != nil {
				continue
			}
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// rawStringField returns the untrimmed string value of key, "" when absent or
// not a string.
func rawStringField(fields []Field, key string) string {
	for _, f := range fields {
		if f.Key != key {
			continue
		}
		var s string
		if err := json.Unmarshal(f.Value, &s); err == nil {
			return s
		}
	}
	return ""
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
