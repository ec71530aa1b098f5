package island

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestLightIsPoint(t *testing.T) {
	dir := Light{Vector: mgl64.Vec4{0, -1, 0, 0}}
	point := Light{Vector: mgl64.Vec4{1, 2, 3, 1}}
	if dir.IsPoint() {
		t.Error("w = 0 should be directional")
	}
	if !point.IsPoint() || point.Position() != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("point light = %v", point.Position())
	}
}

func TestLightAttenuation(t *testing.T) {
	l := Light{Vector: mgl64.Vec4{0, 0, 0, 1}, Dim: mgl64.Vec3{1, 0.5, 0.25}}
	// 1 / (1 + 0.5*2 + 0.25*4)
	if got := l.Attenuation(2); !approxEqual(got, 1.0/3, 1e-12) {
		t.Errorf("Attenuation(2) = %v, want 1/3", got)
	}
	dir := Light{Dim: mgl64.Vec3{1, 1, 1}}
	if got := dir.Attenuation(100); got != 1 {
		t.Errorf("directional Attenuation = %v, want 1", got)
	}
	zero := Light{Vector: mgl64.Vec4{0, 0, 0, 1}}
	if got := zero.Attenuation(5); got != 1 {
		t.Errorf("zero terms Attenuation = %v, want 1", got)
	}
}

func TestLightShadeDirectional(t *testing.T) {
	l := Light{
		Vector:  mgl64.Vec4{0, -1, 0, 0},
		Ambient: mgl64.Vec3{0.1, 0.1, 0.1},
		Diffuse: mgl64.Vec3{0.8, 0.8, 0.8},
	}
	lit := l.Shade(mgl64.Vec3{}, WorldUp)
	if !vecApprox(lit, mgl64.Vec3{0.9, 0.9, 0.9}, 1e-12) {
		t.Errorf("facing light = %v, want 0.9", lit)
	}
	back := l.Shade(mgl64.Vec3{}, mgl64.Vec3{0, -1, 0})
	if !vecApprox(back, l.Ambient, 1e-12) {
		t.Errorf("facing away = %v, want ambient only", back)
	}
}

func TestLightShadePointAttenuates(t *testing.T) {
	l := Light{
		Vector:  mgl64.Vec4{0, 10, 0, 1},
		Diffuse: mgl64.Vec3{1, 1, 1},
		Dim:     mgl64.Vec3{1, 0, 0.01},
	}
	near := l.Shade(mgl64.Vec3{0, 9, 0}, WorldUp)
	far := l.Shade(mgl64.Vec3{0, 0, 0}, WorldUp)
	if far.X() >= near.X() {
		t.Errorf("far %v should be darker than near %v", far, near)
	}
}

func TestSpotCutoffCosines(t *testing.T) {
	inner, outer := SpotCutoff{Inner: 0, Outer: 60}.Cosines()
	if !approxEqual(inner, 1, 1e-12) || !approxEqual(outer, 0.5, 1e-12) {
		t.Errorf("Cosines = %v, %v", inner, outer)
	}
}
