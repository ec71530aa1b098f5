package island

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// --- Names ---

// keyNames maps held keys to the names used by scripts and logs. The names
// match the [keys] table of the configuration.
var keyNames = [KeyCount]string{
	KeyForward:     "forward",
	KeyBackward:    "backward",
	KeyStrafeLeft:  "strafe_left",
	KeyStrafeRight: "strafe_right",
	KeyPanLeft:     "pan_left",
	KeyPanRight:    "pan_right",
	KeyTiltUp:      "tilt_up",
	KeyTiltDown:    "tilt_down",
}

var actionNames = [ActionCount]string{
	ActionFreeLook:  "free_look",
	ActionCycleView: "cycle_view",
	ActionToggleDay: "toggle_day",
	ActionQuit:      "quit",
}

func (k Key) String() string {
	if k < KeyCount {
		return keyNames[k]
	}
	return "unknown"
}

func (a Action) String() string {
	if a < ActionCount {
		return actionNames[a]
	}
	return "unknown"
}

// ParseKey resolves a held key name such as "forward" or "tilt_up".
func ParseKey(name string) (Key, bool) {
	for i, n := range keyNames {
		if n == name {
			return Key(i), true
		}
	}
	return KeyCount, false
}

// ParseAction resolves an action name such as "cycle_view".
func ParseAction(name string) (Action, bool) {
	for i, n := range actionNames {
		if n == name {
			return Action(i), true
		}
	}
	return ActionCount, false
}

// --- Polling ---

// Input polls ebiten's keyboard and mouse once per tick and forwards the
// changes to a session. It also acts as the session's Cursor: ebiten cannot
// warp the system pointer, so free-look captures the cursor and Input keeps
// a virtual origin that Center moves.
type Input struct {
	held    [KeyCount][]ebiten.Key
	actions [ActionCount][]ebiten.Key

	rawX, rawY       int
	originX, originY int
	captured         bool
}

// NewInput creates a poller for the given bindings.
func NewInput(b *KeyBindings) *Input {
	return &Input{held: b.held(), actions: b.actions()}
}

// Center makes the current pointer position read as (x, y).
func (in *Input) Center(x, y int) {
	in.originX, in.originY = in.rawX-x, in.rawY-y
}

// Poll reads this tick's input and applies it to s.
func (in *Input) Poll(s *Session) {
	for k, keys := range in.held {
		if anyKey(keys, inpututil.IsKeyJustPressed) {
			s.KeyDown(Key(k))
		}
		if anyKey(keys, inpututil.IsKeyJustReleased) && !anyKey(keys, ebiten.IsKeyPressed) {
			s.KeyUp(Key(k))
		}
	}
	for a, keys := range in.actions {
		if anyKey(keys, inpututil.IsKeyJustPressed) {
			s.Action(Action(a))
		}
	}

	in.rawX, in.rawY = ebiten.CursorPosition()
	w, h := s.Size()
	in.syncCapture(s.FreeLook(), w, h)

	if in.captured {
		x, y := in.rawX-in.originX, in.rawY-in.originY
		if x != w/2 || y != h/2 {
			s.MouseMove(x, y)
		}
	}

	for _, b := range [...]struct {
		eb ebiten.MouseButton
		mb MouseButton
	}{
		{ebiten.MouseButtonLeft, MouseButtonLeft},
		{ebiten.MouseButtonRight, MouseButtonRight},
		{ebiten.MouseButtonMiddle, MouseButtonMiddle},
	} {
		x, y := in.rawX, in.rawY
		if in.captured {
			// A captured pointer sits in the window center.
			x, y = w/2, h/2
		}
		if inpututil.IsMouseButtonJustPressed(b.eb) {
			s.Click(b.mb, true, x, y)
		}
		if inpututil.IsMouseButtonJustReleased(b.eb) {
			s.Click(b.mb, false, x, y)
		}
	}
}

// syncCapture captures the cursor while free-look is on and releases it
// afterwards.
func (in *Input) syncCapture(freeLook bool, w, h int) {
	switch {
	case freeLook && !in.captured:
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
		in.captured = true
		in.Center(w/2, h/2)
	case !freeLook && in.captured:
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
		in.captured = false
	}
}

func anyKey(keys []ebiten.Key, fn func(ebiten.Key) bool) bool {
	for _, k := range keys {
		if fn(k) {
			return true
		}
	}
	return false
}
