// Package toolstate derives per-tool execution status from a message history.
package toolstate

import (
	"sort"

	"agentui/internal/message"
)

// Status 为工具调用的执行状态。
type Status int

const (
	Pending Status = iota
	Success
	Error
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Policy decides how a new result combines with an existing status.
type Policy int

const (
	// StickyError keeps Error once any result for the id failed.
	StickyError Policy = iota
	// LastResultWins lets the latest result overwrite the status.
	LastResultWins
)

// State is the tracked status of one tool invocation.
type State struct {
	Status Status
	Name   string
}

// States maps tool_use ids to their state.
type States map[string]State

// Counts summarizes a States map.
type Counts struct {
	Pending int
	Success int
	Error   int
}

// Compute derives tool states from the full history with the sticky-error policy.
func Compute(history []message.Message) States {
	return ComputeWithPolicy(history, StickyError)
}

// ComputeWithPolicy walks history in order: tool_use blocks register Pending
// the first time their id is seen; tool_result blocks from non-replay user
// messages resolve the id. Blocks without an id are skipped.
func ComputeWithPolicy(history []message.Message, policy Policy) States {
	states := States{}
	for _, m := range history {
		switch {
		case m.IsAssistant():
			for _, b := range m.ToolUses() {
				if b.ID == "" {
					continue
				}
				if _, ok := states[b.ID]; !ok {
					states[b.ID] = State{Status: Pending, Name: b.Name}
				}
			}
		case m.IsUser():
			for _, b := range m.ToolResults() {
				if b.ToolUseID == "" {
					continue
				}
				prev, seen := states[b.ToolUseID]
				states[b.ToolUseID] = State{
					Status: combine(prev.Status, seen, b.IsError, policy),
					Name:   prev.Name,
				}
			}
		}
	}
	return states
}

func combine(prev Status, seen bool, isError bool, policy Policy) Status {
	next := Success
	if isError {
		next = Error
	}
	if policy == StickyError && seen && prev == Error {
		return Error
	}
	return next
}

// Get returns the state for id.
func (s States) Get(id string) (State, bool) {
	st, ok := s[id]
	return st, ok
}

// StatusOf returns the status for id, Pending when unknown.
func (s States) StatusOf(id string) Status {
	if st, ok := s[id]; ok {
		return st.Status
	}
	return Pending
}

// Pending returns the ids still awaiting a result, sorted.
func (s States) Pending() []string {
	var ids []string
	for id, st := range s {
		if st.Status == Pending {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Counts tallies states by status.
func (s States) Counts() Counts {
	var c Counts
	for _, st := range s {
		switch st.Status {
		case Pending:
			c.Pending++
		case Success:
			c.Success++
		case Error:
			c.Error++
		}
	}
	return c
}
