package island

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// WorldUp is the world-space up axis used by the flight and boat views.
var WorldUp = mgl64.Vec3{0, 1, 0}

// Pose is a position plus an orientation given as facing direction and up
// vector. Cameras and nodes use the same representation.
type Pose struct {
	Position  mgl64.Vec3 `toml:"position"`
	Direction mgl64.Vec3 `toml:"direction"`
	Up        mgl64.Vec3 `toml:"up"`
}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default material color.
var ColorWhite = Color{1, 1, 1, 1}

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// NodeKind selects update and draw behavior for a Node. A single flat struct is
// used for all kinds; kind-specific state lives in optional fields.
type NodeKind uint8

const (
	NodeKindMesh      NodeKind = iota // plain mesh, drawn with its model matrix
	NodeKindBillboard                 // always faces the camera
	NodeKindSkybox                    // follows the camera, blends day/night faces
	NodeKindSpline                    // pose driven by a closed spline each frame
	NodeKindWater                     // generated grid animated by its own clock
)

func (k NodeKind) String() string {
	switch k {
	case NodeKindMesh:
		return "mesh"
	case NodeKindBillboard:
		return "billboard"
	case NodeKindSkybox:
		return "skybox"
	case NodeKindSpline:
		return "spline"
	case NodeKindWater:
		return "water"
	default:
		return "unknown"
	}
}

// ObjectID identifies a top-level scene object: the Nth child of the root in
// creation order has ObjectID N. Zero means nothing.
type ObjectID int

// Object identifiers of the default scene, in creation order.
const (
	ObjectNone        ObjectID = iota
	ObjectSkybox               // 1
	ObjectIsland               // 2, the ground
	ObjectFishBanner           // 3
	ObjectFishOne              // 4
	ObjectFishTwo              // 5
	ObjectFishThree            // 6
	ObjectShip                 // 7
	ObjectWater                // 8
	ObjectCampfire             // 9
	ObjectSun                  // 10
	ObjectBucket               // 11
	ObjectCannon               // 12
	ObjectTorch                // 13
	ObjectFire                 // 14
	ObjectExplosion            // 15
	objectCount
)

var objectNames = [...]string{
	"none", "skybox", "island", "fish_banner", "fish_one", "fish_two",
	"fish_three", "ship", "water", "campfire", "sun", "bucket", "cannon",
	"torch", "fire", "explosion",
}

func (id ObjectID) String() string {
	if id >= 0 && int(id) < len(objectNames) {
		return objectNames[id]
	}
	return "object"
}

// View is the active camera behavior.
type View int

const (
	ViewSpawn       View = iota - 1 // initial free camera
	ViewStaticOne                   // preset pose, re-enables camera control
	ViewStaticTwo                   // preset pose
	ViewStaticThree                 // preset pose
	ViewFlight                      // camera flies along the flight spline
	ViewBoat                        // camera rides the ship
	viewCycle       = int(ViewBoat) + 1
)

func (v View) String() string {
	switch v {
	case ViewSpawn:
		return "spawn"
	case ViewStaticOne:
		return "static-1"
	case ViewStaticTwo:
		return "static-2"
	case ViewStaticThree:
		return "static-3"
	case ViewFlight:
		return "flight"
	case ViewBoat:
		return "boat"
	default:
		return "unknown"
	}
}

// Key is a held input recognized by the session. Held keys are sampled every
// tick.
type Key uint8

const (
	KeyForward    Key = iota // move along the view direction
	KeyBackward              // move against the view direction
	KeyStrafeLeft            // strafe left
	KeyStrafeRight           // strafe right
	KeyPanLeft               // rotate left about the up vector
	KeyPanRight              // rotate right about the up vector
	KeyTiltUp                // rotate up about the right vector
	KeyTiltDown              // rotate down about the right vector
	KeyCount
)

// Action is a one-shot input triggered on key press.
type Action uint8

const (
	ActionFreeLook  Action = iota // toggle mouse-driven pan/tilt
	ActionCycleView               // advance to the next view
	ActionToggleDay               // swap day and night lighting
	ActionQuit                    // leave the main loop
	ActionCount
)

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)
