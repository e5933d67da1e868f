package message

// Category is the render-relevant class of a message.
type Category int

const (
	CategoryUnknown Category = iota
	CategorySystemInit
	CategorySystem
	CategoryAssistant
	CategoryUser
	CategoryResult
	CategoryStreamEvent
)

func (c Category) String() string {
	switch c {
	case CategorySystemInit:
		return "system_init"
	case CategorySystem:
		return "system"
	case CategoryAssistant:
		return "assistant"
	case CategoryUser:
		return "user"
	case CategoryResult:
		return "result"
	case CategoryStreamEvent:
		return "stream_event"
	default:
		return "unknown"
	}
}

// Classify maps a message to its category. Replay-marked user messages are
// internal echoes and classify as unknown.
func Classify(m Message) Category {
	switch {
	case m.IsSystemInit():
		return CategorySystemInit
	case m.Type == TypeSystem:
		return CategorySystem
	case m.IsAssistant():
		return CategoryAssistant
	case m.IsUser():
		return CategoryUser
	case m.IsResult():
		return CategoryResult
	case m.IsStreamEvent():
		return CategoryStreamEvent
	default:
		return CategoryUnknown
	}
}

// IsSystemInit reports the session init message: subtype init with a tools list.
func (m Message) IsSystemInit() bool {
	return m.Type == TypeSystem && m.Subtype == SubtypeInit && m.Tools != nil
}

func (m Message) IsAssistant() bool {
	return m.Type == TypeAssistant && m.Body != nil
}

// IsUser reports a genuine user message; replay markers are excluded so tool
// results are not counted twice.
func (m Message) IsUser() bool {
	return m.Type == TypeUser && m.Body != nil && !m.IsReplay
}

func (m Message) IsResult() bool {
	return m.Type == TypeResult
}

func (m Message) IsStreamEvent() bool {
	return m.Type == TypeStreamEvent
}
