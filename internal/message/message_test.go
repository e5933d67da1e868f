package message

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

const (
	initLine      = `{"type":"system","subtype":"init","session_id":"sess-1","model":"claude-sonnet","cwd":"/work","permissionMode":"default","tools":["Bash","Read"]}`
	assistantLine = `{"type":"assistant","session_id":"sess-1","message":{"role":"assistant","content":[{"type":"thinking","thinking":"plan"},{"type":"text","text":"Listing <files> & dirs"},{"type":"tool_use","id":"tu-1","name":"Bash","input":{"command":"ls","description":"list"}}],"usage":{"input_tokens":10,"output_tokens":5}}}`
	userLine      = `{"type":"user","session_id":"sess-1","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"tu-1","content":"a\nb","is_error":false}]}}`
	resultLine    = `{"type":"result","subtype":"success","session_id":"sess-1","duration_ms":1234,"num_turns":2,"total_cost_usd":0.0123,"usage":{"input_tokens":100,"output_tokens":50,"cache_read_input_tokens":7},"permission_denials":[],"result":"done"}`
	streamLine    = `{"type":"stream_event","session_id":"sess-1","event":{"type":"message_start"}}`
)

func mustDecode(t *testing.T, line string) Message {
	t.Helper()
	m, err := Decode([]byte(line))
	if err != nil {
		t.Fatalf("Decode(%s): %v", line, err)
	}
	return m
}

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		line string
		want Category
	}{
		{"init", initLine, CategorySystemInit},
		{"system without tools", `{"type":"system","subtype":"init"}`, CategorySystem},
		{"system other", `{"type":"system","subtype":"compact_boundary"}`, CategorySystem},
		{"assistant", assistantLine, CategoryAssistant},
		{"user", userLine, CategoryUser},
		{"user replay marker", `{"type":"user","isReplay":true,"message":{"content":"hi"}}`, CategoryUnknown},
		{"result", resultLine, CategoryResult},
		{"stream event", streamLine, CategoryStreamEvent},
		{"future type", `{"type":"telemetry"}`, CategoryUnknown},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(mustDecode(t, tc.line)); got != tc.want {
				t.Fatalf("Classify = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMarshalReturnsOriginalBytes(t *testing.T) {
	m := mustDecode(t, assistantLine)
	if string(m.Raw()) != assistantLine {
		t.Fatalf("Raw() = %s", m.Raw())
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got := strings.TrimSuffix(buf.String(), "\n"); got != assistantLine {
		t.Fatalf("re-encoded message differs:\nwant %s\ngot  %s", assistantLine, got)
	}

	fresh := Message{Type: TypeResult, Subtype: SubtypeSuccess, Result: "ok"}
	out, err := json.Marshal(fresh)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != `{"type":"result","subtype":"success","result":"ok"}` {
		t.Fatalf("fresh marshal = %s", out)
	}
}

func TestAssistantAccessors(t *testing.T) {
	m := mustDecode(t, assistantLine)
	blocks := m.Blocks()
	if len(blocks) != 3 {
		t.Fatalf("len(Blocks) = %d, want 3", len(blocks))
	}
	wantKinds := []BlockKind{KindThinking, KindText, KindToolUse}
	for i, want := range wantKinds {
		if blocks[i].Kind() != want {
			t.Fatalf("block %d kind = %v, want %v", i, blocks[i].Kind(), want)
		}
	}
	uses := m.ToolUses()
	if len(uses) != 1 || uses[0].ID != "tu-1" || uses[0].Name != "Bash" {
		t.Fatalf("ToolUses = %+v", uses)
	}
	if m.Body.Usage == nil || m.Body.Usage.OutputTokens != 5 {
		t.Fatalf("usage not decoded: %+v", m.Body.Usage)
	}
}

func TestContentStringAndMalformedBlocks(t *testing.T) {
	m := mustDecode(t, `{"type":"user","message":{"role":"user","content":"plain prompt"}}`)
	if got := m.Blocks(); len(got) != 1 || got[0].Kind() != KindText || got[0].Text != "plain prompt" {
		t.Fatalf("string content = %+v", got)
	}

	m = mustDecode(t, `{"type":"user","message":{"content":[{"type":"tool_result","tool_use_id":7},{"type":"tool_result","tool_use_id":"ok"}]}}`)
	results := m.ToolResults()
	if len(results) != 1 || results[0].ToolUseID != "ok" {
		t.Fatalf("malformed block should be dropped, got %+v", results)
	}
}

func TestToolResultText(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{`"a\nb"`, "a\nb"},
		{`[{"type":"text","text":"one"},{"type":"text","text":"two"}]`, "one\ntwo"},
		{`null`, ""},
		{``, ""},
		{`{"x":1}`, `{"x":1}`},
	}
	for _, tc := range cases {
		b := Block{Type: BlockToolResult, Content: json.RawMessage(tc.raw)}
		if got := b.ToolResultText(); got != tc.want {
			t.Fatalf("ToolResultText(%s) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestIsBlankText(t *testing.T) {
	for _, text := range []string{"", "  \n", "(no content)", " (no content) "} {
		if !(Block{Type: BlockText, Text: text}).IsBlankText() {
			t.Fatalf("%q should be blank", text)
		}
	}
	if (Block{Type: BlockText, Text: "hi"}).IsBlankText() {
		t.Fatalf("hi should not be blank")
	}
	if (Block{Type: BlockThinking}).IsBlankText() {
		t.Fatalf("non-text blocks are never blank text")
	}
}

func TestResultFields(t *testing.T) {
	m := mustDecode(t, resultLine)
	if !m.Succeeded() || m.DurationMS != 1234 || m.NumTurns != 2 || m.Result != "done" {
		t.Fatalf("result fields = %+v", m)
	}
	if m.Usage == nil || m.Usage.CacheReadInputTokens != 7 {
		t.Fatalf("usage = %+v", m.Usage)
	}
	if m.PermissionDenials == nil || len(m.PermissionDenials) != 0 {
		t.Fatalf("permission denials = %v", m.PermissionDenials)
	}
}

func TestSplitThinking(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want []Segment
	}{
		{"no tags", "hello\n", []Segment{{SegmentText, "hello\n"}}},
		{"leading thinking", "<thinking>plan</thinking>\nAnswer", []Segment{{SegmentThinking, "plan"}, {SegmentText, "Answer"}}},
		{"alternating", "a<think>b</think>c<thinking>d</thinking>", []Segment{{SegmentText, "a"}, {SegmentThinking, "b"}, {SegmentText, "c"}, {SegmentThinking, "d"}}},
		{"unterminated", "x <thinking>still going", []Segment{{SegmentText, "x"}, {SegmentThinking, "still going"}}},
		{"blank thinking", "<thinking> </thinking>ok", []Segment{{SegmentText, "ok"}}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := SplitThinking(tc.in)
			if len(got) != len(tc.want) {
				t.Fatalf("SplitThinking(%q) = %+v, want %+v", tc.in, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("segment %d = %+v, want %+v", i, got[i], tc.want[i])
				}
			}
		})
	}
}
