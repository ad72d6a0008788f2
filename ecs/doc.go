// Package ecs forwards potion entity events into an ECS world.
//
// [NewDonburiSink] publishes collision and add/remove events to a [Donburi]
// world as typed events. Subscribe to [EntityEventType] in your systems to
// receive them:
//
//	sink := ecs.NewDonburiSink(world)
//	scene.SetEventSink(sink)
//
//	ecs.EntityEventType.Subscribe(world, func(w donburi.World, e potion.Event) {
//		...
//	})
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
