package ecs

import (
	"github.com/phanxgames/island"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for island interactions.
// Subscribe to this in your ECS systems to receive them.
var InteractionEventType = events.NewEventType[island.InteractionEvent]()

// Object mirrors one top-level scene object.
type Object struct {
	ID   island.ObjectID
	Name string
	// Held is true while the object is in the player's hand.
	Held bool
	// Hits counts the interactions that targeted the object.
	Hits int
}

// ObjectComponent holds the Object of a mirrored entity.
var ObjectComponent = donburi.NewComponentType[Object]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Interactions are published to InteractionEventType and can be consumed
// with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) island.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event island.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

// MirrorObjects creates one entity per child of root, keyed by ObjectID.
func MirrorObjects(world donburi.World, root *island.Node) map[island.ObjectID]donburi.Entity {
	ents := make(map[island.ObjectID]donburi.Entity, root.NumChildren())
	for i, n := range root.Children() {
		id := island.ObjectID(i + 1)
		e := world.Create(ObjectComponent)
		ObjectComponent.SetValue(world.Entry(e), Object{ID: id, Name: n.Name})
		ents[id] = e
	}
	return ents
}

// TrackInteractions subscribes a handler that keeps the Object components
// of ents in step with processed interaction events.
func TrackInteractions(world donburi.World, ents map[island.ObjectID]donburi.Entity) {
	InteractionEventType.Subscribe(world, func(w donburi.World, ev island.InteractionEvent) {
		if e, ok := ents[ev.Target]; ok && w.Valid(e) {
			ObjectComponent.Get(w.Entry(e)).Hits++
		}
		switch ev.Action {
		case "pick up":
			setHeld(w, ents, ev.Target, true)
		case "drop":
			setHeld(w, ents, ev.Held, false)
		}
	})
}

func setHeld(w donburi.World, ents map[island.ObjectID]donburi.Entity, id island.ObjectID, held bool) {
	if e, ok := ents[id]; ok && w.Valid(e) {
		ObjectComponent.Get(w.Entry(e)).Held = held
	}
}
