package ecs

import (
	"testing"

	"github.com/phanxgames/island"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiStore(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)
	if store == nil {
		t.Fatal("NewDonburiStore returned nil")
	}
}

func TestDonburiStore_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var received []island.InteractionEvent
	InteractionEventType.Subscribe(world, func(w donburi.World, e island.InteractionEvent) {
		received = append(received, e)
	})

	store.EmitEvent(island.InteractionEvent{Action: "pick up", Target: island.ObjectBucket})
	store.EmitEvent(island.InteractionEvent{Action: "douse", Held: island.ObjectBucket, Target: island.ObjectFire})

	// Events are queued until processed.
	InteractionEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	if received[0].Action != "pick up" || received[0].Target != island.ObjectBucket {
		t.Errorf("event 0: %+v", received[0])
	}
	if received[1].Held != island.ObjectBucket || received[1].Target != island.ObjectFire {
		t.Errorf("event 1: %+v", received[1])
	}
}

func TestDonburiStore_ImplementsEntityStore(t *testing.T) {
	world := donburi.NewWorld()
	var store island.EntityStore = NewDonburiStore(world)
	_ = store // compile-time interface check
}

func TestSessionInteractionsReachWorld(t *testing.T) {
	world := donburi.NewWorld()
	s, err := island.NewSession(nil, island.WithEntityStore(NewDonburiStore(world)))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	ents := MirrorObjects(world, s.Root())
	if len(ents) != s.Root().NumChildren() {
		t.Fatalf("entities = %d, want %d", len(ents), s.Root().NumChildren())
	}
	TrackInteractions(world, ents)

	s.Interact(island.ObjectBucket)
	events.ProcessAllEvents(world)

	bucket := ObjectComponent.Get(world.Entry(ents[island.ObjectBucket]))
	if !bucket.Held || bucket.Hits != 1 {
		t.Errorf("bucket after pick up = %+v, want held with 1 hit", *bucket)
	}
	if bucket.Name != "bucket" {
		t.Errorf("Name = %q, want bucket", bucket.Name)
	}

	s.Interact(island.ObjectIsland)
	events.ProcessAllEvents(world)
	if bucket := ObjectComponent.Get(world.Entry(ents[island.ObjectBucket])); bucket.Held {
		t.Error("bucket still held after drop")
	}
}

func TestDonburiStore_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var count1, count2 int
	InteractionEventType.Subscribe(world, func(w donburi.World, e island.InteractionEvent) {
		count1++
	})
	InteractionEventType.Subscribe(world, func(w donburi.World, e island.InteractionEvent) {
		count2++
	})

	store.EmitEvent(island.InteractionEvent{Action: "ignite"})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}
