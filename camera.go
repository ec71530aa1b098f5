package island

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Collider answers whether a sphere at position, with the x component of size
// as its radius, hits anything solid. The scene root implements it.
type Collider interface {
	Collides(position, size mgl64.Vec3) bool
}

// Limits bounds where the camera eye may go. Moves that would leave the box
// are rejected, not clamped.
type Limits struct {
	// XZ is the half-width of the allowed square on the x and z axes.
	XZ float64 `toml:"xz"`
	// YBottom and YCeil bound the eye height.
	YBottom float64 `toml:"y_bottom"`
	YCeil   float64 `toml:"y_ceil"`
	// Size is the camera's own collision size; only x is used as a radius.
	Size mgl64.Vec3 `toml:"size"`
}

// DefaultLimits returns the limits of the default island scene.
func DefaultLimits() Limits {
	return Limits{XZ: 250, YBottom: 4, YCeil: 100, Size: mgl64.Vec3{1, 1, 1}}
}

// contains reports whether p lies inside the allowed box.
func (l Limits) contains(p mgl64.Vec3) bool {
	return p.X() >= -l.XZ && p.X() <= l.XZ &&
		p.Z() >= -l.XZ && p.Z() <= l.XZ &&
		p.Y() >= l.YBottom && p.Y() <= l.YCeil
}

// Camera is a free first-person camera: an eye, a facing direction and an up
// vector. Direction and up must never be parallel.
type Camera struct {
	Eye       mgl64.Vec3
	Direction mgl64.Vec3
	Up        mgl64.Vec3

	// Limits gate MoveForwardBackward and MoveRightLeft.
	Limits Limits
	// Collider, when set, rejects moves into solid objects.
	Collider Collider
}

// NewCamera creates a Camera at eye looking along direction.
func NewCamera(eye, direction, up mgl64.Vec3, limits Limits) *Camera {
	return &Camera{Eye: eye, Direction: direction, Up: up, Limits: limits}
}

// SetCamera overwrites the whole pose without any checks.
func (c *Camera) SetCamera(eye, direction, up mgl64.Vec3) {
	c.Eye = eye
	c.Direction = direction
	c.Up = up
	if globalDebug {
		debugCheckOrientation("camera", direction, up)
	}
}

// Pose returns the camera's eye, direction and up as a Pose.
func (c *Camera) Pose() Pose {
	return Pose{Position: c.Eye, Direction: c.Direction, Up: c.Up}
}

// MoveForwardBackward moves the eye coef units along the view direction.
// Negative coef moves backward. Reports whether the move was accepted.
func (c *Camera) MoveForwardBackward(coef float64) bool {
	return c.tryMove(c.Eye.Add(c.Direction.Normalize().Mul(coef)))
}

// MoveRightLeft strafes the eye coef units along up × direction, which points
// to the camera's left. Reports whether the move was accepted.
func (c *Camera) MoveRightLeft(coef float64) bool {
	return c.tryMove(c.Eye.Add(c.Up.Cross(c.Direction).Normalize().Mul(coef)))
}

// tryMove commits candidate when it is inside the limits and hits nothing.
// Only the end position is tested.
func (c *Camera) tryMove(candidate mgl64.Vec3) bool {
	if !c.Limits.contains(candidate) {
		return false
	}
	if c.Collider != nil && c.Collider.Collides(candidate, c.Limits.Size) {
		return false
	}
	c.Eye = candidate
	return true
}

// Pan rotates the direction about the up vector by angle degrees.
func (c *Camera) Pan(angle float64) {
	c.Direction = rotate(c.Direction, c.Up.Normalize(), angle)
}

// Tilt rotates both direction and up about the camera's right axis by angle
// degrees. The axis is taken once, before either vector changes.
func (c *Camera) Tilt(angle float64) {
	axis := c.Direction.Cross(c.Up).Normalize()
	c.Direction = rotate(c.Direction, axis, angle)
	c.Up = rotate(c.Up, axis, angle)
}

// ViewMatrix returns lookAt(eye, eye+direction, up).
func (c *Camera) ViewMatrix() mgl64.Mat4 {
	return mgl64.LookAtV(c.Eye, c.Eye.Add(c.Direction), c.Up)
}

// Right returns the normalized right vector, direction × up.
func (c *Camera) Right() mgl64.Vec3 {
	return c.Direction.Cross(c.Up).Normalize()
}
