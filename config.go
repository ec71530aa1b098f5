package island

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pelletier/go-toml/v2"
)

//go:embed default.toml
var defaultConfigTOML []byte

// Config is the complete description of a session: window, camera, lights,
// scene objects, key bindings and logging. DefaultConfig returns the island
// scene; LoadConfig overlays a user file on top of it.
type Config struct {
	Window     WindowConfig     `toml:"window"`
	Camera     CameraConfig     `toml:"camera"`
	Projection ProjectionConfig `toml:"projection"`
	Lighting   LightingConfig   `toml:"lighting"`
	Scene      SceneConfig      `toml:"scene"`
	Keys       KeyBindings      `toml:"keys"`
	Log        LogConfig        `toml:"log"`
	Debug      bool             `toml:"debug"`
}

// WindowConfig sets the initial window.
type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	// TPS is the fixed update rate; each tick advances the session by 1/TPS.
	TPS int `toml:"tps"`
	// ScreenshotDir receives screenshots queued by scripts.
	ScreenshotDir string `toml:"screenshot_dir"`
	// Overlay shows the debug HUD.
	Overlay bool `toml:"overlay"`
}

// CameraConfig holds the camera presets and movement tuning.
type CameraConfig struct {
	Spawn       Pose   `toml:"spawn"`
	StaticViews []Pose `toml:"static_views"`
	Limits      Limits `toml:"limits"`

	PanAngle   float64 `toml:"pan_angle"`
	TiltAngle  float64 `toml:"tilt_angle"`
	MoveCoef   float64 `toml:"move_coef"`
	StrafeCoef float64 `toml:"strafe_coef"`

	// FlightPath is the closed spline flown in the flight view; FlightSlow
	// divides frame time before it advances the flight clock.
	FlightPath []mgl64.Vec3 `toml:"flight_path"`
	FlightSlow float64      `toml:"flight_slow"`

	// MouseSensitivity scales pixel offsets into degrees; offsets whose
	// scaled magnitude reaches MouseThreshold are ignored.
	MouseSensitivity float64 `toml:"mouse_sensitivity"`
	MouseThreshold   float64 `toml:"mouse_threshold"`
}

// ProjectionConfig sets the perspective projection.
type ProjectionConfig struct {
	ViewAngle float64 `toml:"view_angle"`
	Near      float64 `toml:"near"`
	Far       float64 `toml:"far"`
}

// LightingConfig holds the light presets, the camera flashlight cone and how
// long day/night switches take to fade.
type LightingConfig struct {
	Presets     LightPresets `toml:"presets"`
	Spot        SpotCutoff   `toml:"spot"`
	FadeSeconds float64      `toml:"fade_seconds"`
}

// ObjectConfig places one scene object. Zero Size means (1,1,1) and zero
// Direction means the default facing (0,0,-1).
type ObjectConfig struct {
	Model     string       `toml:"model"`
	Texture   string       `toml:"texture"`
	Position  mgl64.Vec3   `toml:"position"`
	Size      mgl64.Vec3   `toml:"size"`
	Direction mgl64.Vec3   `toml:"direction"`
	Path      []mgl64.Vec3 `toml:"path"`
	Slow      float64      `toml:"slow"`
}

// SkyboxConfig describes the sky cube and its two sets of six faces, in the
// order right, left, up, down, back, front.
type SkyboxConfig struct {
	Position mgl64.Vec3 `toml:"position"`
	Size     mgl64.Vec3 `toml:"size"`
	Slow     float64    `toml:"slow"`
	Day      []string   `toml:"day"`
	Night    []string   `toml:"night"`
}

// WaterConfig describes the generated water grid.
type WaterConfig struct {
	Position mgl64.Vec3 `toml:"position"`
	Size     mgl64.Vec3 `toml:"size"`
	Side     int        `toml:"side"`
	Gap      float64    `toml:"gap"`
}

// ExplosionConfig describes the timed explosion billboard.
type ExplosionConfig struct {
	Texture  string     `toml:"texture"`
	Position mgl64.Vec3 `toml:"position"`
	Size     mgl64.Vec3 `toml:"size"`
	Duration float64    `toml:"duration"`
}

// SceneConfig lists every top-level object in creation order.
type SceneConfig struct {
	// AssetDir is prepended to relative model and texture paths.
	AssetDir   string          `toml:"asset_dir"`
	Skybox     SkyboxConfig    `toml:"skybox"`
	Island     ObjectConfig    `toml:"island"`
	FishBanner ObjectConfig    `toml:"fish_banner"`
	Fish       []ObjectConfig  `toml:"fish"`
	Ship       ObjectConfig    `toml:"ship"`
	Water      WaterConfig     `toml:"water"`
	Campfire   ObjectConfig    `toml:"campfire"`
	Sun        ObjectConfig    `toml:"sun"`
	Bucket     ObjectConfig    `toml:"bucket"`
	Cannon     ObjectConfig    `toml:"cannon"`
	Torch      ObjectConfig    `toml:"torch"`
	Fire       ObjectConfig    `toml:"fire"`
	Explosion  ExplosionConfig `toml:"explosion"`
}

// KeyBindings maps session inputs to ebiten key names such as "W",
// "ArrowLeft" or "Escape". Each input may have several keys.
type KeyBindings struct {
	Forward     []ebiten.Key `toml:"forward"`
	Backward    []ebiten.Key `toml:"backward"`
	StrafeLeft  []ebiten.Key `toml:"strafe_left"`
	StrafeRight []ebiten.Key `toml:"strafe_right"`
	PanLeft     []ebiten.Key `toml:"pan_left"`
	PanRight    []ebiten.Key `toml:"pan_right"`
	TiltUp      []ebiten.Key `toml:"tilt_up"`
	TiltDown    []ebiten.Key `toml:"tilt_down"`

	FreeLook  []ebiten.Key `toml:"free_look"`
	CycleView []ebiten.Key `toml:"cycle_view"`
	ToggleDay []ebiten.Key `toml:"toggle_day"`
	Quit      []ebiten.Key `toml:"quit"`
}

// held returns the bindings of every held key, indexed by Key.
func (b *KeyBindings) held() [KeyCount][]ebiten.Key {
	return [KeyCount][]ebiten.Key{
		KeyForward:     b.Forward,
		KeyBackward:    b.Backward,
		KeyStrafeLeft:  b.StrafeLeft,
		KeyStrafeRight: b.StrafeRight,
		KeyPanLeft:     b.PanLeft,
		KeyPanRight:    b.PanRight,
		KeyTiltUp:      b.TiltUp,
		KeyTiltDown:    b.TiltDown,
	}
}

// actions returns the bindings of every one-shot action, indexed by Action.
func (b *KeyBindings) actions() [ActionCount][]ebiten.Key {
	return [ActionCount][]ebiten.Key{
		ActionFreeLook:  b.FreeLook,
		ActionCycleView: b.CycleView,
		ActionToggleDay: b.ToggleDay,
		ActionQuit:      b.Quit,
	}
}

// DefaultConfig returns the built-in island scene.
func DefaultConfig() *Config {
	cfg := &Config{}
	if err := cfg.Overlay(defaultConfigTOML); err != nil {
		panic(fmt.Sprintf("island: embedded default config: %v", err))
	}
	return cfg
}

// Overlay decodes TOML data onto c and validates the result. Keys missing
// from data keep their current value; arrays present in data replace the
// existing ones.
func (c *Config) Overlay(data []byte) error {
	if err := toml.Unmarshal(data, c); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return fmt.Errorf("parse config at %d:%d: %w", row, col, err)
		}
		return fmt.Errorf("parse config: %w", err)
	}
	return c.Validate()
}

// ParseConfig decodes TOML data on top of DefaultConfig.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.Overlay(data); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads the TOML file at path and overlays it on DefaultConfig.
// An empty path returns the default configuration.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values a session cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if len(c.Camera.StaticViews) != int(ViewFlight) {
		errs = append(errs, fmt.Errorf("camera.static_views has %d entries, want %d", len(c.Camera.StaticViews), int(ViewFlight)))
	}
	if len(c.Camera.FlightPath) < minControlPoints {
		errs = append(errs, fmt.Errorf("camera.flight_path has %d points, want at least %d", len(c.Camera.FlightPath), minControlPoints))
	}
	if c.Projection.Near <= 0 || c.Projection.Far <= c.Projection.Near {
		errs = append(errs, fmt.Errorf("projection near %v / far %v out of order", c.Projection.Near, c.Projection.Far))
	}
	if len(c.Scene.Fish) != 3 {
		errs = append(errs, fmt.Errorf("scene.fish has %d entries, want 3", len(c.Scene.Fish)))
	}
	for i, f := range c.Scene.Fish {
		if len(f.Path) < minControlPoints {
			errs = append(errs, fmt.Errorf("scene.fish[%d].path has %d points, want at least %d", i, len(f.Path), minControlPoints))
		}
	}
	if len(c.Scene.Ship.Path) < minControlPoints {
		errs = append(errs, fmt.Errorf("scene.ship.path has %d points, want at least %d", len(c.Scene.Ship.Path), minControlPoints))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// sizeOr returns s, or (1,1,1) when s is zero.
func sizeOr(s mgl64.Vec3) mgl64.Vec3 {
	if s == (mgl64.Vec3{}) {
		return mgl64.Vec3{1, 1, 1}
	}
	return s
}

// directionOr returns d, or the default facing when d is zero.
func directionOr(d mgl64.Vec3) mgl64.Vec3 {
	if d == (mgl64.Vec3{}) {
		return mgl64.Vec3{0, 0, -1}
	}
	return d
}
