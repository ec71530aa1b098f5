// Package ecs provides ECS adapters for island's interaction events.
//
// [NewDonburiStore] bridges applied interactions (pick up, drop, douse,
// ignite, fire cannon) into a [Donburi] world as typed events, and
// [MirrorObjects] gives every top-level scene object an entity whose
// [Object] component [TrackInteractions] keeps current.
//
// Usage:
//
//	world := donburi.NewWorld()
//	s, _ := island.NewSession(cfg, island.WithEntityStore(ecs.NewDonburiStore(world)))
//	ents := ecs.MirrorObjects(world, s.Root())
//	ecs.TrackInteractions(world, ents)
//	// each frame:
//	ecs.InteractionEventType.ProcessEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
