package sessionlog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"agentui/internal/clock"
	"agentui/internal/logger"
	"agentui/internal/message"
)

func mustDecode(t *testing.T, line string) message.Message {
	t.Helper()
	m, err := message.Decode([]byte(line))
	if err != nil {
		t.Fatalf("decode %s: %v", line, err)
	}
	return m
}

func newTestWriter(t *testing.T) (*Writer, string, *clock.Fake) {
	t.Helper()
	dir := t.TempDir()
	clk := clock.NewFake(time.Date(2025, 3, 1, 12, 30, 45, 123000000, time.UTC))
	w := NewWriter(Options{Enabled: true, Dir: dir, Clock: clk})
	return w, dir, clk
}

func TestWriterRoundTripIsBitExact(t *testing.T) {
	w, _, clk := newTestWriter(t)
	lines := []string{
		`{"type":"system","subtype":"init","session_id":"abc","model":"m","tools":["Bash"],"extra":{"x":[1,2]}}`,
		`{"type":"assistant","message":{"content":[{"type":"text","text":"a <b> & c"}]},"session_id":"abc"}`,
		`{"type":"assistant","message":{"content":[{"type":"tool_use","id":"t1","name":"Bash","input":{"command":"ls","z":1,"a":2}}]}}`,
		`{"type":"result","subtype":"success","duration_ms":1500,"total_cost_usd":0.0123}`,
	}
	for _, l := range lines {
		if err := w.Log(mustDecode(t, l), "abc", nil); err != nil {
			t.Fatalf("log: %v", err)
		}
		clk.Advance(time.Second)
	}
	path := w.Path()
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	entries, stats, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if stats.Skipped != 0 {
		t.Fatalf("unexpected skipped lines: %+v", stats)
	}
	if len(entries) != len(lines)+2 {
		t.Fatalf("expected %d entries, got %d", len(lines)+2, len(entries))
	}
	if entries[0].MessageType != TypeSessionStart || entries[len(entries)-1].MessageType != TypeSessionEnd {
		t.Fatalf("markers missing: first=%s last=%s", entries[0].MessageType, entries[len(entries)-1].MessageType)
	}
	for i, l := range lines {
		got := entries[i+1]
		if string(got.Message) != l {
			t.Fatalf("entry %d payload mismatch:\n got %s\nwant %s", i, got.Message, l)
		}
		if idx, ok := got.Metadata["messageIndex"].(float64); !ok || int(idx) != i {
			t.Fatalf("entry %d messageIndex = %v", i, got.Metadata["messageIndex"])
		}
		if got.SessionID != "abc" {
			t.Fatalf("entry %d session id = %q", i, got.SessionID)
		}
	}
	if entries[1].Timestamp != "2025-03-01T12:30:45.123Z" {
		t.Fatalf("timestamp layout: %s", entries[1].Timestamp)
	}
	end := entries[len(entries)-1]
	if total, _ := end.Metadata["totalMessages"].(float64); int(total) != len(lines) {
		t.Fatalf("totalMessages = %v", end.Metadata["totalMessages"])
	}
}

func TestWriterFileName(t *testing.T) {
	w, dir, _ := newTestWriter(t)
	if err := w.Log(mustDecode(t, `{"type":"user"}`), "s1", nil); err != nil {
		t.Fatalf("log: %v", err)
	}
	want := filepath.Join(dir, "session-s1-2025-03-01T12-30-45-123Z.jsonl")
	if w.Path() != want {
		t.Fatalf("path = %s, want %s", w.Path(), want)
	}
}

func TestWriterSwitchesSessions(t *testing.T) {
	w, dir, clk := newTestWriter(t)
	if err := w.Log(mustDecode(t, `{"type":"user"}`), "one", nil); err != nil {
		t.Fatalf("log: %v", err)
	}
	first := w.Path()
	clk.Advance(time.Second)
	if err := w.Log(mustDecode(t, `{"type":"user"}`), "two", nil); err != nil {
		t.Fatalf("log: %v", err)
	}
	if w.Path() == first {
		t.Fatalf("expected a new file for new session")
	}
	if w.SessionID() != "two" || w.MessageCount() != 1 {
		t.Fatalf("state after switch: id=%s count=%d", w.SessionID(), w.MessageCount())
	}
	entries, _, err := ReadFile(first)
	if err != nil {
		t.Fatalf("read first: %v", err)
	}
	if last := entries[len(entries)-1]; last.MessageType != TypeSessionEnd {
		t.Fatalf("first session not closed, last type %s", last.MessageType)
	}
	logs, err := ListLogs(dir)
	if err != nil || len(logs) != 2 {
		t.Fatalf("ListLogs = %v, %v", logs, err)
	}
}

func TestWriterCloseIsIdempotent(t *testing.T) {
	w, _, _ := newTestWriter(t)
	if err := w.Close(); err != nil {
		t.Fatalf("close without session: %v", err)
	}
	if err := w.Log(mustDecode(t, `{"type":"user"}`), "s", nil); err != nil {
		t.Fatalf("log: %v", err)
	}
	path := w.Path()
	for i := 0; i < 3; i++ {
		if err := w.Close(); err != nil {
			t.Fatalf("close #%d: %v", i, err)
		}
	}
	if w.LastPath() != path {
		t.Fatalf("LastPath = %s, want %s", w.LastPath(), path)
	}
	entries, _, _ := ReadFile(path)
	ends := 0
	for _, e := range entries {
		if e.MessageType == TypeSessionEnd {
			ends++
		}
	}
	if ends != 1 {
		t.Fatalf("expected exactly one session_end, got %d", ends)
	}
}

func TestWriterDisabledAndEmptySession(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(Options{Dir: dir})
	if err := w.Log(mustDecode(t, `{"type":"user"}`), "s", nil); err != nil {
		t.Fatalf("disabled log: %v", err)
	}
	if items, _ := os.ReadDir(dir); len(items) != 0 {
		t.Fatalf("disabled writer created files")
	}

	w = NewWriter(Options{Enabled: true, Dir: dir})
	if err := w.Log(mustDecode(t, `{"type":"user"}`), "", nil); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestReadSkipsMalformedLines(t *testing.T) {
	hook := test.NewLocal(logger.Root())
	defer hook.Reset()

	var buf bytes.Buffer
	for i := 0; i < 11; i++ {
		if i == 4 {
			buf.WriteString("{not json\n")
			continue
		}
		fmt.Fprintf(&buf, `{"timestamp":"2025-01-01T00:00:0%d.000Z","sessionId":"s","messageType":"user","message":{"type":"user"}}`+"\n", i%10)
	}
	buf.WriteString("\n")

	var got []Entry
	stats, err := Read(&buf, func(e Entry) error {
		got = append(got, e)
		return nil
	})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 10 || stats.Entries != 10 || stats.Skipped != 1 || stats.Lines != 11 {
		t.Fatalf("unexpected result: %d entries, stats %+v", len(got), stats)
	}

	warned := false
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && strings.Contains(e.Message, "malformed") {
			warned = true
		}
	}
	if !warned {
		t.Fatalf("expected a warning for the malformed line")
	}
}

func TestReadLeavesPartialTrailingLine(t *testing.T) {
	full := `{"timestamp":"t","sessionId":"s","messageType":"user","message":{}}` + "\n"
	data := full + `{"timestamp":"t","sessionId"`
	stats, err := Read(strings.NewReader(data), func(Entry) error { return nil })
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if stats.Entries != 1 || stats.Offset != int64(len(full)) {
		t.Fatalf("stats = %+v, want offset %d", stats, len(full))
	}
}

func TestReadFileCountsTruncatedLastLine(t *testing.T) {
	hook := test.NewLocal(logger.Root())
	defer hook.Reset()

	var buf bytes.Buffer
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&buf, `{"timestamp":"2025-01-01T00:00:0%d.000Z","sessionId":"s","messageType":"user","message":{"type":"user"}}`+"\n", i)
	}
	complete := buf.Len()
	buf.WriteString(`{"timestamp":"2025-01-01T00:00:10.000Z","sessionId":"s","mess`)
	path := filepath.Join(t.TempDir(), "crashed.jsonl")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, stats, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(entries) != 10 || stats.Skipped != 1 || stats.Lines != 11 {
		t.Fatalf("unexpected result: %d entries, stats %+v", len(entries), stats)
	}
	if stats.Offset != int64(complete) {
		t.Fatalf("offset = %d, want %d", stats.Offset, complete)
	}
	var warned *logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && strings.Contains(e.Message, "malformed") {
			warned = e
		}
	}
	if warned == nil {
		t.Fatalf("expected a warning for the truncated line")
	}
	if warned.Data["line"] != 11 || warned.Data["truncated"] != true {
		t.Fatalf("warning fields = %v", warned.Data)
	}

	hook.Reset()
	entries, stats, err = ReadFileLive(path)
	if err != nil {
		t.Fatalf("read live: %v", err)
	}
	if len(entries) != 10 || stats.Skipped != 0 || len(hook.AllEntries()) != 0 {
		t.Fatalf("live read should leave the partial line: stats %+v, %d log entries", stats, len(hook.AllEntries()))
	}
}

func TestMalformedLineReportsFileLine(t *testing.T) {
	hook := test.NewLocal(logger.Root())
	defer hook.Reset()

	data := "\n\n" + `{"timestamp":"t","sessionId":"s","messageType":"user","message":{}}` + "\n\n{broken\n"
	stats, err := Read(strings.NewReader(data), func(Entry) error { return nil })
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if stats.Skipped != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	last := hook.LastEntry()
	if last == nil || last.Data["line"] != 5 {
		t.Fatalf("expected warning for line 5, got %+v", last)
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, _, err := ReadFile(filepath.Join(t.TempDir(), "nope.jsonl")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestListLogsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	base := time.Now()
	for i, name := range []string{"a.jsonl", "b.jsonl", "c.txt", "d.jsonl"} {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte("{}\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		mt := base.Add(time.Duration(i) * time.Minute)
		if err := os.Chtimes(p, mt, mt); err != nil {
			t.Fatal(err)
		}
	}
	logs, err := ListLogs(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var names []string
	for _, l := range logs {
		names = append(names, filepath.Base(l.Path))
	}
	if strings.Join(names, ",") != "d.jsonl,b.jsonl,a.jsonl" {
		t.Fatalf("order = %v", names)
	}
	latest, err := Latest(dir)
	if err != nil || filepath.Base(latest.Path) != "d.jsonl" {
		t.Fatalf("Latest = %v, %v", latest, err)
	}
	if logs, err := ListLogs(filepath.Join(dir, "missing")); err != nil || len(logs) != 0 {
		t.Fatalf("missing dir: %v, %v", logs, err)
	}
}

func TestFollowPicksUpAppends(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "live.jsonl")
	line := func(i int) string {
		b, _ := json.Marshal(Entry{Timestamp: "t", SessionID: "s", MessageType: "user", Message: json.RawMessage(fmt.Sprintf(`{"n":%d}`, i))})
		return string(b) + "\n"
	}
	if err := os.WriteFile(path, []byte(line(0)), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	got := make(chan Entry, 4)
	done := make(chan error, 1)
	go func() {
		done <- Follow(ctx, path, 0, func(e Entry) error {
			got <- e
			return nil
		})
	}()

	if e := <-got; string(e.Message) != `{"n":0}` {
		t.Fatalf("first entry = %s", e.Message)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString(line(1)); err != nil {
		t.Fatal(err)
	}
	f.Close()

	select {
	case e := <-got:
		if string(e.Message) != `{"n":1}` {
			t.Fatalf("appended entry = %s", e.Message)
		}
	case <-ctx.Done():
		t.Fatalf("timed out waiting for appended entry")
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Follow returned %v", err)
	}
}
