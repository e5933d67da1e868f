package render

import (
	"agentui/internal/message"
	"agentui/internal/stream"
	"agentui/internal/toolstate"
)

// Indicator is the ephemeral status line state.
type Indicator int

const (
	IndicatorHidden Indicator = iota
	IndicatorThinking
	IndicatorStreaming
)

func (i Indicator) String() string {
	switch i {
	case IndicatorThinking:
		return "thinking"
	case IndicatorStreaming:
		return "streaming"
	default:
		return "hidden"
	}
}

// Instruction tells a presenter what to draw for one history entry.
type Instruction struct {
	// Seq is the entry's position in history.
	Seq      int
	Category message.Category
	Message  message.Message
	// Views are the visible assistant segments; nil for other categories.
	Views []stream.View
	// Tools is the tracker state as of this entry.
	Tools toolstate.States
	// Historical marks re-renders and non-typing renders.
	Historical bool
	// Final is set on the last instruction for an entry.
	Final bool
}

// Presenter draws instructions. Present may be called several times for the
// same Seq while an assistant message is being typed; the last call has
// Final set.
type Presenter interface {
	Present(Instruction) error
	Status(Indicator) error
	Close() error
}

// Discard is a presenter that draws nothing.
type Discard struct{}

func (Discard) Present(Instruction) error { return nil }
func (Discard) Status(Indicator) error    { return nil }
func (Discard) Close() error              { return nil }
