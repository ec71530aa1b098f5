package island

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
)

// Picker returns the top-level object drawn at a window pixel, or ObjectNone.
type Picker interface {
	PickObject(x, y int) ObjectID
}

// Cursor moves the system pointer. Free-look recenters it after every motion.
type Cursor interface {
	Center(x, y int)
}

// EntityStore receives every applied interaction, for example to forward it
// into an ECS world.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithPicker sets the collaborator that resolves clicks to objects.
func WithPicker(p Picker) Option {
	return func(s *Session) { s.picker = p }
}

// WithCursor sets the collaborator that recenters the pointer.
func WithCursor(c Cursor) Option {
	return func(s *Session) { s.cursor = c }
}

// WithAssets sets where models and textures are loaded from. Without it the
// scene uses procedural meshes only and model-backed objects draw nothing.
func WithAssets(a AssetLoader) Option {
	return func(s *Session) { s.assets = a }
}

// WithEntityStore forwards applied interactions to store.
func WithEntityStore(store EntityStore) Option {
	return func(s *Session) { s.store = store }
}

// Session is the whole interactive state of one run: the scene graph, the
// camera, lights, the active view and the held item. All methods must be
// called from the goroutine that drives the frame loop.
type Session struct {
	cfg    *Config
	log    *zap.Logger
	picker Picker
	cursor Cursor
	assets AssetLoader
	store  EntityStore

	Camera *Camera
	root   *Node

	view View
	day  bool

	// light is the campfire point light. dirLight is the current sun or
	// moon preset; renderDir trails it while a fade runs.
	light     Light
	dirLight  Light
	renderDir Light
	fade      *TweenGroup

	keys [KeyCount]bool
	held ObjectID

	width, height int

	flightSpline *Spline
	flightTime   float64
	ship         ObjectID

	cameraControl bool
	freeLook      bool
	quit          bool

	elapsed float64
	delta   float64
}

// NewSession builds the scene described by cfg and places the camera at the
// spawn pose. A nil cfg uses DefaultConfig. Asset failures are logged and
// leave the affected object with nothing to draw.
func NewSession(cfg *Config, opts ...Option) (*Session, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		cfg:           cfg,
		log:           zap.NewNop(),
		view:          ViewSpawn,
		day:           true,
		light:         cfg.Lighting.Presets.Campfire,
		dirLight:      cfg.Lighting.Presets.Day,
		renderDir:     cfg.Lighting.Presets.Day,
		width:         cfg.Window.Width,
		height:        cfg.Window.Height,
		flightSpline:  NewSpline(cfg.Camera.FlightPath),
		ship:          ObjectShip,
		cameraControl: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	setDebug(cfg.Debug, s.log)

	spawn := cfg.Camera.Spawn
	s.Camera = NewCamera(spawn.Position, spawn.Direction, spawn.Up, cfg.Camera.Limits)

	s.root = buildScene(&cfg.Scene, s.assets, s.log)
	s.Camera.Collider = s.root

	s.log.Info("session ready",
		zap.Int("objects", s.root.NumChildren()),
		zap.Int("width", s.width), zap.Int("height", s.height))
	return s, nil
}

// --- Accessors ---

// Config returns the configuration the session was built from.
func (s *Session) Config() *Config { return s.cfg }

// Logger returns the session logger.
func (s *Session) Logger() *zap.Logger { return s.log }

// Root returns the scene root. Its children are the top-level objects.
func (s *Session) Root() *Node { return s.root }

// Object returns the top-level node with the given id, or nil.
func (s *Session) Object(id ObjectID) *Node {
	i := int(id) - 1
	if i < 0 || i >= s.root.NumChildren() {
		return nil
	}
	return s.root.ChildAt(i)
}

// View returns the active view.
func (s *Session) View() View { return s.view }

// Day reports whether the day lighting is active.
func (s *Session) Day() bool { return s.day }

// Held returns the item attached to the camera, or ObjectNone.
func (s *Session) Held() ObjectID { return s.held }

// PointLight returns the campfire light.
func (s *Session) PointLight() Light { return s.light }

// DirectionalLight returns the current sun or moon preset.
func (s *Session) DirectionalLight() Light { return s.dirLight }

// RenderedDirectionalLight returns the directional light as drawn, which
// trails DirectionalLight during a fade.
func (s *Session) RenderedDirectionalLight() Light { return s.renderDir }

// CameraControl reports whether keys and free-look may move the camera.
func (s *Session) CameraControl() bool { return s.cameraControl }

// FreeLook reports whether mouse motion pans and tilts the camera.
func (s *Session) FreeLook() bool { return s.freeLook }

// KeyHeld reports whether k is currently down.
func (s *Session) KeyHeld(k Key) bool {
	return k < KeyCount && s.keys[k]
}

// Quit reports whether a quit action was received.
func (s *Session) Quit() bool { return s.quit }

// Elapsed returns the total simulated time in seconds.
func (s *Session) Elapsed() float64 { return s.elapsed }

// Delta returns the duration of the last tick.
func (s *Session) Delta() float64 { return s.delta }

// Size returns the window size last passed to Resize.
func (s *Session) Size() (width, height int) { return s.width, s.height }

// SetDebugMode enables or disables debug mode. When enabled, tree depth and
// child count warnings, degenerate camera orientations and per-frame render
// stats are logged.
func (s *Session) SetDebugMode(enabled bool) {
	setDebug(enabled, s.log)
}

// --- Input ---

// KeyDown marks a held key as pressed.
func (s *Session) KeyDown(k Key) {
	if k < KeyCount {
		s.keys[k] = true
	}
}

// KeyUp marks a held key as released.
func (s *Session) KeyUp(k Key) {
	if k < KeyCount {
		s.keys[k] = false
	}
}

// Action runs a one-shot action.
func (s *Session) Action(a Action) {
	switch a {
	case ActionFreeLook:
		s.ToggleFreeLook()
	case ActionCycleView:
		s.CycleView()
	case ActionToggleDay:
		s.ToggleDay()
	case ActionQuit:
		s.quit = true
		s.log.Info("quit requested")
	}
}

// ToggleFreeLook switches mouse-driven pan and tilt on or off and returns the
// new state. Nothing changes while camera control is disabled.
func (s *Session) ToggleFreeLook() bool {
	if !s.cameraControl {
		return s.freeLook
	}
	s.freeLook = !s.freeLook
	s.log.Debug("free look", zap.Bool("enabled", s.freeLook))
	return s.freeLook
}

// CycleView advances to the next view. Static views snap the camera to their
// preset; the flight view takes the camera away from the player until the
// first static view comes round again.
func (s *Session) CycleView() View {
	s.view = View((int(s.view) + 1) % viewCycle)
	switch s.view {
	case ViewStaticOne, ViewStaticTwo, ViewStaticThree:
		p := s.cfg.Camera.StaticViews[s.view]
		s.Camera.SetCamera(p.Position, p.Direction, p.Up)
		if s.view == ViewStaticOne {
			s.cameraControl = true
		}
	case ViewFlight:
		s.cameraControl = false
		s.freeLook = false
	case ViewBoat:
		s.cameraControl = true
	}
	s.log.Info("view changed", zap.Stringer("view", s.view), zap.Bool("camera_control", s.cameraControl))
	return s.view
}

// ToggleDay swaps the directional light between the day and night presets.
// The state flips at once; the rendered light fades over
// Lighting.FadeSeconds.
func (s *Session) ToggleDay() bool {
	p := &s.cfg.Lighting.Presets
	if s.day {
		s.dirLight = p.Night
	} else {
		s.dirLight = p.Day
	}
	s.day = !s.day
	s.fade = TweenLight(&s.renderDir, s.dirLight, float32(s.cfg.Lighting.FadeSeconds), ease.InOutQuad)
	if s.fade.Done {
		s.fade = nil
	}
	s.log.Info("lighting toggled", zap.Bool("day", s.day))
	return s.day
}

// MouseMove handles pointer motion while free-look is on. Offsets from the
// window center turn into pan and tilt; offsets large enough to look like a
// jump are ignored. The pointer is recentered afterwards.
func (s *Session) MouseMove(x, y int) {
	if !s.freeLook || s.view == ViewFlight {
		return
	}
	cx, cy := s.width/2, s.height/2
	sens := s.cfg.Camera.MouseSensitivity
	limit := s.cfg.Camera.MouseThreshold
	if x != cx {
		dx := sens * float64(x-cx)
		if math.Abs(dx) < limit {
			s.Camera.Pan(-dx)
		}
	}
	if y != cy {
		dy := sens * float64(y-cy)
		if math.Abs(dy) < limit {
			s.Camera.Tilt(-dy)
		}
	}
	if s.cursor != nil {
		s.cursor.Center(cx, cy)
	}
}

// Click handles a mouse button event at a window pixel. Only left-button
// presses reach the interaction table.
func (s *Session) Click(button MouseButton, pressed bool, x, y int) {
	if button != MouseButtonLeft || !pressed || s.picker == nil {
		return
	}
	id := s.picker.PickObject(x, y)
	s.log.Debug("click", zap.Int("x", x), zap.Int("y", y), zap.Stringer("object", id))
	s.Interact(id)
}

// Resize records the new window size.
func (s *Session) Resize(width, height int) {
	if width == s.width && height == s.height {
		return
	}
	s.width, s.height = width, height
	s.log.Debug("resized", zap.Int("width", width), zap.Int("height", height))
}

// ProjectionMatrix returns the perspective projection for the window size.
func (s *Session) ProjectionMatrix() mgl64.Mat4 {
	p := s.cfg.Projection
	aspect := 1.0
	if s.height > 0 {
		aspect = float64(s.width) / float64(s.height)
	}
	return projectionMatrix(p.ViewAngle, aspect, p.Near, p.Far)
}

// --- Tick ---

// Tick advances the session by dt seconds: held keys move the camera, the
// flight and boat views drive it, the scene updates, held items follow the
// camera and any light fade advances.
func (s *Session) Tick(dt float64) {
	s.delta = dt
	s.elapsed += dt

	if s.cameraControl {
		s.applyKeys()
	}
	switch s.view {
	case ViewFlight:
		s.fly(dt)
	case ViewBoat:
		s.ride()
	}

	s.root.Update(dt)

	if n := s.Object(s.held); n != nil {
		n.FollowCamera(s.Camera)
	}

	if s.fade != nil {
		s.fade.Update(float32(dt))
		if s.fade.Done {
			s.renderDir = s.dirLight
			s.fade = nil
		}
	}
}

// applyKeys turns held key flags into camera motion.
func (s *Session) applyKeys() {
	c := &s.cfg.Camera
	if s.keys[KeyPanRight] {
		s.Camera.Pan(-c.PanAngle)
	}
	if s.keys[KeyPanLeft] {
		s.Camera.Pan(c.PanAngle)
	}
	if s.keys[KeyTiltUp] {
		s.Camera.Tilt(c.TiltAngle)
	}
	if s.keys[KeyTiltDown] {
		s.Camera.Tilt(-c.TiltAngle)
	}
	if s.keys[KeyForward] {
		s.Camera.MoveForwardBackward(c.MoveCoef)
	}
	if s.keys[KeyBackward] {
		s.Camera.MoveForwardBackward(-c.MoveCoef)
	}
	if s.keys[KeyStrafeLeft] {
		s.Camera.MoveRightLeft(c.StrafeCoef)
	}
	if s.keys[KeyStrafeRight] {
		s.Camera.MoveRightLeft(-c.StrafeCoef)
	}
}

// fly moves the camera along the flight spline, looking along the curve with
// an up vector kept square to it.
func (s *Session) fly(dt float64) {
	s.flightTime = s.flightSpline.Wrap(s.flightTime + dt/positiveOr(s.cfg.Camera.FlightSlow, 1))
	dir := s.flightSpline.Gradient(s.flightTime).Normalize()
	right := dir.Cross(WorldUp).Normalize()
	up := right.Cross(dir).Normalize()
	s.Camera.SetCamera(s.flightSpline.Point(s.flightTime), dir, up)
}

// ride puts the eye on the ship's deck. The look direction is left to the
// player.
func (s *Session) ride() {
	ship := s.Object(s.ship)
	if ship == nil {
		return
	}
	dir := ship.Direction().Normalize()
	s.Camera.Eye = ship.Position().Add(dir.Mul(0.75)).Add(WorldUp)
	s.Camera.Up = WorldUp
}

// FlightTime returns the flight clock in spline parameter units.
func (s *Session) FlightTime() float64 { return s.flightTime }

// --- Render state ---

// RenderState is everything the draw pass needs besides the scene itself.
type RenderState struct {
	View       mgl64.Mat4
	Projection mgl64.Mat4

	Eye             mgl64.Vec3
	CameraDirection mgl64.Vec3

	PointLight       Light
	DirectionalLight Light

	// CutOff and OuterCutOff are the cosines of the camera flashlight cone.
	CutOff      float64
	OuterCutOff float64

	Day     bool
	Elapsed float64
}

// RenderState snapshots the matrices and lights for the current frame.
func (s *Session) RenderState() RenderState {
	inner, outer := s.cfg.Lighting.Spot.Cosines()
	return RenderState{
		View:             s.Camera.ViewMatrix(),
		Projection:       s.ProjectionMatrix(),
		Eye:              s.Camera.Eye,
		CameraDirection:  s.Camera.Direction,
		PointLight:       s.light,
		DirectionalLight: s.renderDir,
		CutOff:           inner,
		OuterCutOff:      outer,
		Day:              s.day,
		Elapsed:          s.elapsed,
	}
}

// String summarizes the session for the debug overlay.
func (s *Session) String() string {
	return fmt.Sprintf("view: %s\nheld: %s\nday: %t\nfree look: %t", s.view, s.held, s.day, s.freeLook)
}
