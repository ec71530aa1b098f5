package island

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakePicker struct {
	id   ObjectID
	x, y int
}

func (p *fakePicker) PickObject(x, y int) ObjectID {
	p.x, p.y = x, y
	return p.id
}

type fakeCursor struct {
	x, y  int
	calls int
}

func (c *fakeCursor) Center(x, y int) {
	c.x, c.y = x, y
	c.calls++
}

func newTestSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	s, err := NewSession(nil, opts...)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestNewSessionDefaults(t *testing.T) {
	s := newTestSession(t)
	cfg := s.Config()

	if s.View() != ViewSpawn {
		t.Errorf("View = %v, want spawn", s.View())
	}
	if !s.Day() || s.Held() != ObjectNone || !s.CameraControl() || s.FreeLook() {
		t.Errorf("initial state: %s", s)
	}
	if s.Camera.Pose() != cfg.Camera.Spawn {
		t.Errorf("camera = %+v, want spawn %+v", s.Camera.Pose(), cfg.Camera.Spawn)
	}
	if s.PointLight() != cfg.Lighting.Presets.Campfire {
		t.Error("point light should start as the campfire preset")
	}
	if s.DirectionalLight() != cfg.Lighting.Presets.Day || s.RenderedDirectionalLight() != cfg.Lighting.Presets.Day {
		t.Error("directional light should start as the day preset")
	}
	if w, h := s.Size(); w != cfg.Window.Width || h != cfg.Window.Height {
		t.Errorf("Size = %dx%d", w, h)
	}
	if s.Camera.Collider == nil {
		t.Error("camera should collide with the scene")
	}
}

func TestNewSessionRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Camera.FlightPath = cfg.Camera.FlightPath[:2]
	if _, err := NewSession(cfg); err == nil {
		t.Fatal("expected error for a short flight path")
	}
}

func TestNewSessionLogsReady(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	newTestSession(t, WithLogger(zap.New(core)))
	entries := logs.FilterMessage("session ready").All()
	if len(entries) != 1 {
		t.Fatalf("ready entries = %d, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["objects"]; got != int64(objectCount-1) {
		t.Errorf("objects = %v, want %d", got, objectCount-1)
	}
}

func TestSessionObject(t *testing.T) {
	s := newTestSession(t)
	for id := ObjectSkybox; id < objectCount; id++ {
		n := s.Object(id)
		if n == nil {
			t.Fatalf("Object(%v) = nil", id)
		}
		if n.Name != id.String() {
			t.Errorf("Object(%d).Name = %q, want %q", id, n.Name, id.String())
		}
	}
	if s.Object(ObjectNone) != nil || s.Object(objectCount) != nil {
		t.Error("out-of-range ids should return nil")
	}
}

// --- Views ---

func TestCycleViewSequence(t *testing.T) {
	s := newTestSession(t)
	want := []View{ViewStaticOne, ViewStaticTwo, ViewStaticThree, ViewFlight, ViewBoat, ViewStaticOne}
	for i, v := range want {
		if got := s.CycleView(); got != v {
			t.Fatalf("cycle %d = %v, want %v", i, got, v)
		}
	}
}

func TestCycleViewStaticPoses(t *testing.T) {
	s := newTestSession(t)
	views := s.Config().Camera.StaticViews
	for i := 0; i < 3; i++ {
		s.CycleView()
		if s.Camera.Pose() != views[i] {
			t.Errorf("view %d pose = %+v, want %+v", i, s.Camera.Pose(), views[i])
		}
	}
}

func TestCycleViewCameraControl(t *testing.T) {
	s := newTestSession(t)
	s.ToggleFreeLook()
	for i := 0; i < 4; i++ {
		s.CycleView()
	}
	if s.View() != ViewFlight {
		t.Fatalf("View = %v, want flight", s.View())
	}
	if s.CameraControl() || s.FreeLook() {
		t.Error("flight should take camera control and free-look away")
	}
	if s.ToggleFreeLook() {
		t.Error("free-look toggled on during flight")
	}

	s.CycleView()
	if !s.CameraControl() {
		t.Error("boat view should hand camera control back")
	}
	s.CycleView()
	if s.View() != ViewStaticOne || !s.CameraControl() {
		t.Errorf("back at %v with control %v", s.View(), s.CameraControl())
	}
}

// --- Lighting ---

func TestToggleDayFades(t *testing.T) {
	s := newTestSession(t)
	p := s.Config().Lighting.Presets

	if s.ToggleDay() {
		t.Fatal("first toggle should switch to night")
	}
	if s.DirectionalLight() != p.Night {
		t.Error("DirectionalLight should switch at once")
	}
	s.Tick(0.1)
	rd := s.RenderedDirectionalLight()
	if rd == p.Night || rd == p.Day {
		t.Errorf("rendered light should be mid-fade, got %+v", rd)
	}
	for i := 0; i < 20; i++ {
		s.Tick(0.1)
	}
	if s.RenderedDirectionalLight() != p.Night {
		t.Errorf("rendered light = %+v after fade, want night", s.RenderedDirectionalLight())
	}

	if !s.ToggleDay() || s.DirectionalLight() != p.Day {
		t.Error("second toggle should switch back to day")
	}
}

func TestToggleDayInstantWithoutFade(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lighting.FadeSeconds = 0
	s, err := NewSession(cfg)
	if err != nil {
		t.Fatal(err)
	}
	s.ToggleDay()
	if s.RenderedDirectionalLight() != cfg.Lighting.Presets.Night {
		t.Error("zero fade should apply the night preset immediately")
	}
}

// --- Input ---

func TestActionQuit(t *testing.T) {
	s := newTestSession(t)
	s.Action(ActionQuit)
	if !s.Quit() {
		t.Error("Quit should be set")
	}
}

func TestActionsDispatch(t *testing.T) {
	s := newTestSession(t)
	s.Action(ActionFreeLook)
	s.Action(ActionCycleView)
	s.Action(ActionToggleDay)
	if !s.FreeLook() || s.View() != ViewStaticOne || s.Day() {
		t.Errorf("after actions: %s", s)
	}
}

func TestKeyState(t *testing.T) {
	s := newTestSession(t)
	s.KeyDown(KeyForward)
	if !s.KeyHeld(KeyForward) {
		t.Error("forward should be held")
	}
	s.KeyUp(KeyForward)
	if s.KeyHeld(KeyForward) {
		t.Error("forward should be released")
	}
	s.KeyDown(KeyCount) // ignored
	if s.KeyHeld(KeyCount) {
		t.Error("out-of-range key reported held")
	}
}

func TestMouseMovePansAndTilts(t *testing.T) {
	cur := &fakeCursor{}
	s := newTestSession(t, WithCursor(cur))
	s.Resize(200, 100)

	start := *s.Camera
	s.MouseMove(110, 50)
	if s.Camera.Direction != start.Direction || cur.calls != 0 {
		t.Fatal("motion without free-look should do nothing")
	}

	s.ToggleFreeLook()
	s.MouseMove(110, 60)
	want := start
	want.Pan(-2)
	want.Tilt(-2)
	if !vecApprox(s.Camera.Direction, want.Direction, 1e-9) || !vecApprox(s.Camera.Up, want.Up, 1e-9) {
		t.Errorf("camera = %v / %v, want %v / %v", s.Camera.Direction, s.Camera.Up, want.Direction, want.Up)
	}
	if cur.calls != 1 || cur.x != 100 || cur.y != 50 {
		t.Errorf("cursor centered %d times at (%d,%d)", cur.calls, cur.x, cur.y)
	}
}

func TestMouseMoveIgnoresJumps(t *testing.T) {
	cur := &fakeCursor{}
	s := newTestSession(t, WithCursor(cur))
	s.Resize(800, 600)
	s.ToggleFreeLook()

	before := s.Camera.Pose()
	s.MouseMove(400+300, 300) // 0.2 * 300 = 60 degrees, past the threshold
	if s.Camera.Pose() != before {
		t.Error("jump should be ignored")
	}
	if cur.calls != 1 {
		t.Error("pointer should still be recentered")
	}
}

func TestClickPicks(t *testing.T) {
	pick := &fakePicker{id: ObjectBucket}
	s := newTestSession(t, WithPicker(pick))

	s.Click(MouseButtonRight, true, 10, 10)
	s.Click(MouseButtonLeft, false, 10, 10)
	if s.Held() != ObjectNone {
		t.Fatal("only left presses should interact")
	}
	s.Click(MouseButtonLeft, true, 12, 34)
	if pick.x != 12 || pick.y != 34 {
		t.Errorf("picked at (%d,%d), want (12,34)", pick.x, pick.y)
	}
	if s.Held() != ObjectBucket {
		t.Errorf("Held = %v, want bucket", s.Held())
	}
}

func TestClickWithoutPicker(t *testing.T) {
	s := newTestSession(t)
	s.Click(MouseButtonLeft, true, 0, 0)
	if s.Held() != ObjectNone {
		t.Error("click without a picker should do nothing")
	}
}

// --- Tick ---

func TestTickHeldKeysMoveCamera(t *testing.T) {
	s := newTestSession(t)
	start := s.Camera.Eye
	dir := s.Camera.Direction.Normalize()

	s.KeyDown(KeyForward)
	s.Tick(1.0 / 30)
	s.Tick(1.0 / 30)
	want := start.Add(dir.Mul(2 * s.Config().Camera.MoveCoef))
	if !vecApprox(s.Camera.Eye, want, 1e-9) {
		t.Errorf("Eye = %v, want %v", s.Camera.Eye, want)
	}

	s.KeyUp(KeyForward)
	s.KeyDown(KeyPanLeft)
	expect := *s.Camera
	expect.Pan(s.Config().Camera.PanAngle)
	s.Tick(1.0 / 30)
	if !vecApprox(s.Camera.Direction, expect.Direction, 1e-9) {
		t.Errorf("Direction = %v, want %v", s.Camera.Direction, expect.Direction)
	}
	if s.Camera.Eye != want {
		t.Errorf("panning moved the eye to %v", s.Camera.Eye)
	}
}

func TestTickElapsed(t *testing.T) {
	s := newTestSession(t)
	s.Tick(0.25)
	s.Tick(0.5)
	if s.Elapsed() != 0.75 || s.Delta() != 0.5 {
		t.Errorf("Elapsed = %v, Delta = %v", s.Elapsed(), s.Delta())
	}
	if s.Root().Time() != 0.75 {
		t.Errorf("root time = %v, want 0.75", s.Root().Time())
	}
}

func TestTickFlight(t *testing.T) {
	s := newTestSession(t)
	for i := 0; i < 4; i++ {
		s.CycleView()
	}
	s.KeyDown(KeyForward)
	s.Tick(0.5)

	// flight_slow is 5
	if !approxEqual(s.FlightTime(), 0.1, 1e-12) {
		t.Fatalf("FlightTime = %v, want 0.1", s.FlightTime())
	}
	path := NewSpline(s.Config().Camera.FlightPath)
	if !vecApprox(s.Camera.Eye, path.Point(0.1), 1e-9) {
		t.Errorf("Eye = %v, want %v", s.Camera.Eye, path.Point(0.1))
	}
	if !vecApprox(s.Camera.Direction, path.Gradient(0.1).Normalize(), 1e-9) {
		t.Errorf("Direction = %v, want the curve tangent", s.Camera.Direction)
	}
	if d := s.Camera.Direction.Dot(s.Camera.Up); !approxEqual(d, 0, 1e-9) {
		t.Errorf("up not square to direction: dot = %v", d)
	}
}

func TestTickBoat(t *testing.T) {
	s := newTestSession(t)
	for i := 0; i < 5; i++ {
		s.CycleView()
	}
	ship := s.Object(ObjectShip)
	want := ship.Position().Add(ship.Direction().Normalize().Mul(0.75)).Add(WorldUp)
	s.Tick(0)
	if !vecApprox(s.Camera.Eye, want, 1e-9) {
		t.Errorf("Eye = %v, want %v", s.Camera.Eye, want)
	}
	if s.Camera.Up != WorldUp {
		t.Errorf("Up = %v, want world up", s.Camera.Up)
	}
}

func TestTickHeldItemFollowsCamera(t *testing.T) {
	s := newTestSession(t)
	s.Interact(ObjectBucket)
	s.Tick(1.0 / 30)

	c := s.Camera
	right := c.Direction.Cross(c.Up).Normalize()
	want := c.Eye.Add(c.Direction.Mul(2.5)).Add(right).Sub(c.Up.Mul(0.5))
	if got := s.Object(ObjectBucket).Position(); !vecApprox(got, want, 1e-9) {
		t.Errorf("bucket = %v, want %v", got, want)
	}
}

// --- Render state ---

func TestRenderState(t *testing.T) {
	s := newTestSession(t)
	rs := s.RenderState()
	if rs.Eye != s.Camera.Eye || rs.CameraDirection != s.Camera.Direction {
		t.Error("render state camera mismatch")
	}
	if rs.View != s.Camera.ViewMatrix() || rs.Projection != s.ProjectionMatrix() {
		t.Error("render state matrices mismatch")
	}
	inner, outer := s.Config().Lighting.Spot.Cosines()
	if rs.CutOff != inner || rs.OuterCutOff != outer {
		t.Errorf("cutoffs = %v / %v", rs.CutOff, rs.OuterCutOff)
	}
	if rs.CutOff <= rs.OuterCutOff {
		t.Error("inner cone cosine should exceed the outer one")
	}
	if !rs.Day || rs.PointLight != s.PointLight() {
		t.Error("render state lights mismatch")
	}
}

func TestProjectionTracksResize(t *testing.T) {
	s := newTestSession(t)
	s.Resize(100, 100)
	square := s.ProjectionMatrix()
	s.Resize(200, 100)
	wide := s.ProjectionMatrix()
	if !approxEqual(square.At(0, 0), 2*wide.At(0, 0), 1e-12) {
		t.Errorf("x scale %v vs %v", square.At(0, 0), wide.At(0, 0))
	}
}

func TestSessionString(t *testing.T) {
	s := newTestSession(t)
	s.Interact(ObjectTorch)
	got := s.String()
	for _, want := range []string{"view: spawn", "held: torch", "day: true", "free look: false"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
}

func TestSetDebugMode(t *testing.T) {
	s := newTestSession(t)
	s.SetDebugMode(true)
	t.Cleanup(func() { s.SetDebugMode(false) })
	if !globalDebug {
		t.Error("debug mode should be on")
	}
}
