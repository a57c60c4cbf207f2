package chat

type EventKind int

const (
	EventJoined EventKind = iota
	EventLeft
	EventSaid
)

// Event is one room occurrence fanned out to every session. User is the
// originating member; Text is set only for EventSaid. Events are immutable
// once published.
type Event struct {
	Kind EventKind
	User string
	Text string
}

func (k EventKind) String() string {
	switch k {
	case EventJoined:
		return "joined"
	case EventLeft:
		return "left"
	case EventSaid:
		return "said"
	default:
		return "unknown"
	}
}
