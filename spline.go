package island

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// minControlPoints is the smallest loop a Catmull-Rom segment can be built on.
const minControlPoints = 4

// Spline is a closed Catmull-Rom curve through a fixed set of control points.
// The curve passes through every control point and wraps from the last point
// back to the first. A Spline is immutable after construction.
type Spline struct {
	points []mgl64.Vec3
}

// NewSpline creates a closed spline through points. The slice is copied.
// Panics if fewer than four control points are given.
func NewSpline(points []mgl64.Vec3) *Spline {
	if len(points) < minControlPoints {
		panic("island: spline needs at least 4 control points")
	}
	p := make([]mgl64.Vec3, len(points))
	copy(p, points)
	return &Spline{points: p}
}

// ControlPointCount returns the number of control points, which is also the
// period of the curve parameter.
func (s *Spline) ControlPointCount() int {
	return len(s.points)
}

// Wrap reduces t into [0, ControlPointCount()). Clocks that advance along the
// spline call this after every step.
func (s *Spline) Wrap(t float64) float64 {
	n := float64(len(s.points))
	for t >= n {
		t -= n
	}
	for t < 0 {
		t += n
	}
	return t
}

// segment returns the four control point indices around t and the local
// parameter u in [0, 1).
func (s *Spline) segment(t float64) (i0, i1, i2, i3 int, u float64) {
	n := len(s.points)
	fl := math.Floor(t)
	i1 = int(fl) % n
	if i1 < 0 {
		i1 += n
	}
	i2 = (i1 + 1) % n
	i3 = (i2 + 1) % n
	i0 = i1 - 1
	if i1 == 0 {
		i0 = n - 1
	}
	return i0, i1, i2, i3, t - fl
}

// blend returns (p0*q1 + p1*q2 + p2*q3 + p3*q4) / 2.
func (s *Spline) blend(i0, i1, i2, i3 int, q1, q2, q3, q4 float64) mgl64.Vec3 {
	p := s.points
	return p[i0].Mul(q1).
		Add(p[i1].Mul(q2)).
		Add(p[i2].Mul(q3)).
		Add(p[i3].Mul(q4)).
		Mul(0.5)
}

// Point evaluates the curve at t. Callers keep t in [0, ControlPointCount()).
func (s *Spline) Point(t float64) mgl64.Vec3 {
	i0, i1, i2, i3, u := s.segment(t)
	uu := u * u
	uuu := uu * u

	q1 := -uuu + 2*uu - u
	q2 := 3*uuu - 5*uu + 2
	q3 := -3*uuu + 4*uu + u
	q4 := uuu - uu
	return s.blend(i0, i1, i2, i3, q1, q2, q3, q4)
}

// Gradient evaluates the derivative of the curve with respect to its local
// parameter at t. The result is not normalized.
func (s *Spline) Gradient(t float64) mgl64.Vec3 {
	i0, i1, i2, i3, u := s.segment(t)
	uu := u * u

	q1 := -3*uu + 4*u - 1
	q2 := 9*uu - 10*u
	q3 := -9*uu + 8*u + 1
	q4 := 3*uu - 2*u
	return s.blend(i0, i1, i2, i3, q1, q2, q3, q4)
}

// SplineMotion is the per-node state of a spline-driven node: the curve, its
// own clock and the divisor applied to frame time before advancing the clock.
type SplineMotion struct {
	Spline *Spline
	Time   float64
	Slow   float64
}

// advance moves the clock forward by dt/Slow and wraps it into the loop.
func (m *SplineMotion) advance(dt float64) float64 {
	step := dt / m.Slow
	m.Time = m.Spline.Wrap(m.Time + step)
	return step
}
