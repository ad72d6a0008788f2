package ecs

import (
	"github.com/phanxgames/potion"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// EntityEventType is the Donburi event type for potion entity events.
var EntityEventType = events.NewEventType[potion.Event]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// queued on EntityEventType and delivered by ProcessEvents.
func NewDonburiSink(world donburi.World) potion.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) Emit(event potion.Event) {
	EntityEventType.Publish(s.world, event)
}
