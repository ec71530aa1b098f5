package island

// inputKind identifies a synthetic input event.
type inputKind uint8

const (
	inputKeyDown inputKind = iota
	inputKeyUp
	inputAction
	inputClick
	inputMove
	inputIdle // occupies one frame
)

// syntheticEvent is a single injected event. Window coordinates are used,
// the same ones a screenshot shows.
type syntheticEvent struct {
	kind   inputKind
	key    Key
	action Action
	x, y   int
}

// InjectKeyDown queues a held key press. The event is consumed on the next
// Update.
func (g *Game) InjectKeyDown(k Key) {
	g.injectQueue = append(g.injectQueue, syntheticEvent{kind: inputKeyDown, key: k})
}

// InjectKeyUp queues a held key release.
func (g *Game) InjectKeyUp(k Key) {
	g.injectQueue = append(g.injectQueue, syntheticEvent{kind: inputKeyUp, key: k})
}

// InjectAction queues a one-shot action.
func (g *Game) InjectAction(a Action) {
	g.injectQueue = append(g.injectQueue, syntheticEvent{kind: inputAction, action: a})
}

// InjectClick queues a left click at the given window pixel.
func (g *Game) InjectClick(x, y int) {
	g.injectQueue = append(g.injectQueue, syntheticEvent{kind: inputClick, x: x, y: y})
}

// InjectMove queues a pointer motion to the given window pixel. It only has
// an effect while free-look is on.
func (g *Game) InjectMove(x, y int) {
	g.injectQueue = append(g.injectQueue, syntheticEvent{kind: inputMove, x: x, y: y})
}

// InjectHold queues a key press, frames-2 idle frames and a release. The
// sequence consumes frames frames and the key moves the camera on all but
// the last. Minimum frames is 2.
func (g *Game) InjectHold(k Key, frames int) {
	if frames < 2 {
		frames = 2
	}
	g.InjectKeyDown(k)
	for i := 0; i < frames-2; i++ {
		g.injectQueue = append(g.injectQueue, syntheticEvent{kind: inputIdle})
	}
	g.InjectKeyUp(k)
}

// processInjectedInput pops one event from the inject queue and applies it.
// Returns true if an event was consumed (real input should be skipped).
func (g *Game) processInjectedInput() bool {
	if len(g.injectQueue) == 0 {
		return false
	}
	evt := g.injectQueue[0]
	copy(g.injectQueue, g.injectQueue[1:])
	g.injectQueue = g.injectQueue[:len(g.injectQueue)-1]

	s := g.session
	switch evt.kind {
	case inputKeyDown:
		s.KeyDown(evt.key)
	case inputKeyUp:
		s.KeyUp(evt.key)
	case inputAction:
		s.Action(evt.action)
	case inputClick:
		s.Click(MouseButtonLeft, true, evt.x, evt.y)
	case inputMove:
		s.MouseMove(evt.x, evt.y)
	}
	return true
}
