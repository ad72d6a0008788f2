package potion

// EventSink receives entity events from a scene. Set one with
// Scene.SetEventSink to forward events to an outside system such as an ECS.
type EventSink interface {
	Emit(event Event)
}

// EventType identifies a kind of entity event.
type EventType uint8

const (
	EventEntityAdded     EventType = iota // entity promoted to the live list
	EventEntityRemoved                    // entity left the live list
	EventCollisionBegin                   // first frame two entities touch
	EventCollisionEnd                     // first frame two entities stop touching
)

func (t EventType) String() string {
	switch t {
	case EventEntityAdded:
		return "entity_added"
	case EventEntityRemoved:
		return "entity_removed"
	case EventCollisionBegin:
		return "collision_begin"
	case EventCollisionEnd:
		return "collision_end"
	default:
		return "unknown"
	}
}

// Event carries one entity event. Other is empty for add/remove events.
type Event struct {
	Type   EventType
	Frame  int
	Entity string
	Handle Handle
	Other  string
}
