package island

import (
	"fmt"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func squareLoop() []mgl64.Vec3 {
	return []mgl64.Vec3{{0, 0, 0}, {10, 0, 0}, {10, 0, 10}, {0, 0, 10}}
}

func TestSplinePassesThroughControlPoints(t *testing.T) {
	pts := squareLoop()
	s := NewSpline(pts)
	for i, p := range pts {
		got := s.Point(float64(i))
		if !vecApprox(got, p, 1e-9) {
			t.Errorf("Point(%d) = %v, want %v", i, got, p)
		}
	}
}

func TestSplineGradientAtControlPoint(t *testing.T) {
	pts := squareLoop()
	s := NewSpline(pts)
	// Catmull-Rom tangent at p_i is (p_{i+1} - p_{i-1}) / 2.
	want := pts[1].Sub(pts[3]).Mul(0.5)
	if got := s.Gradient(0); !vecApprox(got, want, 1e-9) {
		t.Errorf("Gradient(0) = %v, want %v", got, want)
	}
}

func TestSplineIsClosed(t *testing.T) {
	s := NewSpline(squareLoop())
	n := float64(s.ControlPointCount())
	for _, tt := range []float64{0, 0.25, 1.5, 3.9} {
		a, b := s.Point(tt), s.Point(tt+n)
		if !vecApprox(a, b, 1e-9) {
			t.Errorf("Point(%v) = %v, Point(%v) = %v, want equal", tt, a, tt+n, b)
		}
	}
	// Continuous across the wrap from the last segment to the first.
	end, start := s.Point(n-1e-9), s.Point(0)
	if !vecApprox(end, start, 1e-6) {
		t.Errorf("Point(n-) = %v, Point(0) = %v, want continuous", end, start)
	}
}

func TestSplineGradientContinuousAtKnots(t *testing.T) {
	s := NewSpline(squareLoop())
	for i := 1; i < s.ControlPointCount(); i++ {
		before := s.Gradient(float64(i) - 1e-9)
		after := s.Gradient(float64(i))
		if !vecApprox(before, after, 1e-6) {
			t.Errorf("gradient jumps at %d: %v vs %v", i, before, after)
		}
	}
}

func TestSplineGradientMatchesFiniteDifference(t *testing.T) {
	s := NewSpline([]mgl64.Vec3{{0, 0, 0}, {5, 2, 1}, {9, -1, 4}, {3, 3, 8}, {-2, 0, 5}})
	const h = 1e-6
	for _, tt := range []float64{0.3, 1.7, 2.5, 4.2} {
		fd := s.Point(tt + h).Sub(s.Point(tt - h)).Mul(1 / (2 * h))
		if got := s.Gradient(tt); !vecApprox(got, fd, 1e-4) {
			t.Errorf("Gradient(%v) = %v, finite difference %v", tt, got, fd)
		}
	}
}

func TestSplineCopiesControlPoints(t *testing.T) {
	pts := squareLoop()
	s := NewSpline(pts)
	pts[0] = mgl64.Vec3{100, 100, 100}
	if got := s.Point(0); !vecApprox(got, mgl64.Vec3{}, 1e-9) {
		t.Errorf("Point(0) = %v after caller mutation, want origin", got)
	}
}

func TestSplineWrap(t *testing.T) {
	s := NewSpline(squareLoop())
	tests := []struct{ in, want float64 }{
		{0, 0},
		{3.5, 3.5},
		{4, 0},
		{9.25, 1.25},
		{-0.5, 3.5},
	}
	for _, tt := range tests {
		if got := s.Wrap(tt.in); !approxEqual(got, tt.want, 1e-12) {
			t.Errorf("Wrap(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewSplinePanicsOnShortInput(t *testing.T) {
	for n := 0; n < minControlPoints; n++ {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			defer func() {
				r := recover()
				if r == nil {
					t.Fatal("expected panic")
				}
				if !strings.Contains(fmt.Sprint(r), "4 control points") {
					t.Errorf("panic = %v", r)
				}
			}()
			NewSpline(make([]mgl64.Vec3, n))
		})
	}
}

func TestSplineMotionAdvance(t *testing.T) {
	m := &SplineMotion{Spline: NewSpline(squareLoop()), Slow: 10}
	step := m.advance(5)
	if !approxEqual(step, 0.5, 1e-12) {
		t.Errorf("step = %v, want 0.5", step)
	}
	for i := 0; i < 8; i++ {
		m.advance(5)
	}
	if !approxEqual(m.Time, 0.5, 1e-9) {
		t.Errorf("Time = %v, want 0.5 after wrapping", m.Time)
	}
}
