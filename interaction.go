package island

import (
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// InteractionEvent describes one applied row of the click table.
type InteractionEvent struct {
	// Action names the row: "pick up", "drop", "douse", "ignite" or
	// "fire cannon".
	Action string
	// Held is the item in hand when the click happened; Target is the
	// clicked object.
	Held   ObjectID
	Target ObjectID
	// Time is the session's elapsed time.
	Time float64
}

// interaction is one row of the click table: while held is in hand, clicking
// any of targets runs apply.
type interaction struct {
	name    string
	held    ObjectID
	targets []ObjectID
	apply   func(s *Session, target ObjectID)
}

// interactions is the complete click table. Combinations not listed do
// nothing.
var interactions = []interaction{
	{"pick up", ObjectNone, []ObjectID{ObjectBucket, ObjectTorch}, (*Session).pickUp},
	{"drop", ObjectBucket, []ObjectID{ObjectIsland}, (*Session).drop},
	{"douse", ObjectBucket, []ObjectID{ObjectFire, ObjectCampfire}, (*Session).douse},
	{"drop", ObjectTorch, []ObjectID{ObjectIsland}, (*Session).drop},
	{"ignite", ObjectTorch, []ObjectID{ObjectFire, ObjectCampfire}, (*Session).ignite},
	{"fire cannon", ObjectTorch, []ObjectID{ObjectCannon}, (*Session).fireCannon},
}

// Interact applies the click table to a click on target. Reports whether the
// click did anything.
func (s *Session) Interact(target ObjectID) bool {
	for i := range interactions {
		in := &interactions[i]
		if in.held != s.held || !containsObject(in.targets, target) {
			continue
		}
		s.log.Info("interaction",
			zap.String("action", in.name),
			zap.Stringer("held", s.held),
			zap.Stringer("target", target))
		held := s.held
		in.apply(s, target)
		if s.store != nil {
			s.store.EmitEvent(InteractionEvent{Action: in.name, Held: held, Target: target, Time: s.elapsed})
		}
		return true
	}
	return false
}

func containsObject(ids []ObjectID, id ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// pickUp attaches target to the camera.
func (s *Session) pickUp(target ObjectID) {
	n := s.Object(target)
	if n == nil || !n.SwitchPicked() {
		return
	}
	s.held = target
}

// drop returns the held item to where the scene placed it.
func (s *Session) drop(ObjectID) {
	id := s.held
	s.held = ObjectNone
	n := s.Object(id)
	if n == nil {
		return
	}
	n.SwitchPicked()
	n.SetPose(s.homePose(id))
}

// douse puts the fire out.
func (s *Session) douse(ObjectID) {
	if fire := s.Object(ObjectFire); fire != nil {
		fire.Visible = false
	}
	s.light = s.cfg.Lighting.Presets.NoCampfire
}

// ignite lights the fire.
func (s *Session) ignite(ObjectID) {
	if fire := s.Object(ObjectFire); fire != nil {
		fire.Visible = true
	}
	s.light = s.cfg.Lighting.Presets.Campfire
}

// fireCannon shows the explosion for its configured duration.
func (s *Session) fireCannon(ObjectID) {
	if ex := s.Object(ObjectExplosion); ex != nil {
		ex.SetTimeToLive(s.cfg.Scene.Explosion.Duration)
	}
}

// homePose is where a carried item goes back to when dropped: its configured
// position facing the default direction.
func (s *Session) homePose(id ObjectID) Pose {
	var pos mgl64.Vec3
	switch id {
	case ObjectBucket:
		pos = s.cfg.Scene.Bucket.Position
	case ObjectTorch:
		pos = s.cfg.Scene.Torch.Position
	}
	return Pose{Position: pos, Direction: mgl64.Vec3{0, 0, -1}, Up: WorldUp}
}
