package toolstate

import (
	"fmt"
	"testing"

	"agentui/internal/message"
)

func decode(t *testing.T, line string) message.Message {
	t.Helper()
	m, err := message.Decode([]byte(line))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return m
}

func toolUse(t *testing.T, ids ...string) message.Message {
	t.Helper()
	blocks := ""
	for i, id := range ids {
		if i > 0 {
			blocks += ","
		}
		blocks += fmt.Sprintf(`{"type":"tool_use","id":%q,"name":"Bash","input":{"command":"ls"}}`, id)
	}
	return decode(t, `{"type":"assistant","message":{"content":[`+blocks+`]}}`)
}

func toolResult(t *testing.T, id string, isError bool) message.Message {
	t.Helper()
	return decode(t, fmt.Sprintf(`{"type":"user","message":{"content":[{"type":"tool_result","tool_use_id":%q,"content":"out","is_error":%t}]}}`, id, isError))
}

func TestComputeSuccessAndPending(t *testing.T) {
	history := []message.Message{
		toolUse(t, "a", "b"),
		toolResult(t, "a", false),
	}
	states := Compute(history)
	if got := states.StatusOf("a"); got != Success {
		t.Fatalf("a = %v, want success", got)
	}
	if got := states.StatusOf("b"); got != Pending {
		t.Fatalf("b = %v, want pending", got)
	}
	if st, ok := states.Get("a"); !ok || st.Name != "Bash" {
		t.Fatalf("a state = %+v ok=%v", st, ok)
	}
	if p := states.Pending(); len(p) != 1 || p[0] != "b" {
		t.Fatalf("Pending() = %v", p)
	}
}

func TestComputeErrorIsSticky(t *testing.T) {
	history := []message.Message{
		toolUse(t, "x"),
		toolResult(t, "x", true),
		toolResult(t, "x", false),
	}
	if got := Compute(history).StatusOf("x"); got != Error {
		t.Fatalf("sticky policy: x = %v, want error", got)
	}
	if got := ComputeWithPolicy(history, LastResultWins).StatusOf("x"); got != Success {
		t.Fatalf("last-result policy: x = %v, want success", got)
	}
}

func TestComputeToolUseNeverRegresses(t *testing.T) {
	// A repeated tool_use with the same id after its result must not reset it.
	history := []message.Message{
		toolUse(t, "x"),
		toolResult(t, "x", false),
		toolUse(t, "x"),
	}
	if got := Compute(history).StatusOf("x"); got != Success {
		t.Fatalf("x = %v, want success", got)
	}
}

func TestComputeSkipsReplayAndMissingIDs(t *testing.T) {
	history := []message.Message{
		toolUse(t, "x", ""),
		decode(t, `{"type":"user","isReplay":true,"message":{"content":[{"type":"tool_result","tool_use_id":"x","is_error":true}]}}`),
		decode(t, `{"type":"user","message":{"content":[{"type":"tool_result","content":"orphan"}]}}`),
	}
	states := Compute(history)
	if len(states) != 1 {
		t.Fatalf("states = %+v, want only x", states)
	}
	if got := states.StatusOf("x"); got != Pending {
		t.Fatalf("x = %v, want pending", got)
	}
}

func TestComputeCompleteness(t *testing.T) {
	var history []message.Message
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("t%d", i)
		history = append(history, toolUse(t, id))
		switch i % 3 {
		case 1:
			history = append(history, toolResult(t, id, false))
		case 2:
			history = append(history, toolResult(t, id, true))
		}
	}
	states := Compute(history)
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("t%d", i)
		st, ok := states.Get(id)
		if !ok {
			t.Fatalf("%s missing from states", id)
		}
		want := []Status{Pending, Success, Error}[i%3]
		if st.Status != want {
			t.Fatalf("%s = %v, want %v", id, st.Status, want)
		}
	}
	c := states.Counts()
	if c.Pending+c.Success+c.Error != 20 {
		t.Fatalf("Counts = %+v", c)
	}
}

func TestComputeNoLookahead(t *testing.T) {
	history := []message.Message{toolUse(t, "x"), toolResult(t, "x", true)}
	if got := Compute(history[:1]).StatusOf("x"); got != Pending {
		t.Fatalf("prefix: x = %v, want pending", got)
	}
}
