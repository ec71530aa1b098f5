package island

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Light describes a Phong light source. Vector holds a position when its w
// component is 1 and a direction when w is 0.
type Light struct {
	Vector   mgl64.Vec4 `toml:"vector"`
	Ambient  mgl64.Vec3 `toml:"ambient"`
	Diffuse  mgl64.Vec3 `toml:"diffuse"`
	Specular mgl64.Vec3 `toml:"specular"`
	// Dim holds the constant, linear and quadratic attenuation terms of a
	// point light. Unused for directional lights.
	Dim mgl64.Vec3 `toml:"dim"`
}

// IsPoint reports whether the light has a position.
func (l Light) IsPoint() bool {
	return l.Vector.W() != 0
}

// Position returns the light position (w dropped).
func (l Light) Position() mgl64.Vec3 {
	return l.Vector.Vec3()
}

// Attenuation returns the point light falloff at distance d:
// 1 / (c + l*d + q*d*d). Directional lights do not fall off.
func (l Light) Attenuation(d float64) float64 {
	if !l.IsPoint() {
		return 1
	}
	den := l.Dim.X() + l.Dim.Y()*d + l.Dim.Z()*d*d
	if den <= 0 {
		return 1
	}
	return 1 / den
}

// Shade returns the Lambert-weighted color contributed by l to a surface at
// p with unit normal n. Specular is left to the renderer.
func (l Light) Shade(p, n mgl64.Vec3) mgl64.Vec3 {
	var toLight mgl64.Vec3
	att := 1.0
	if l.IsPoint() {
		d := l.Position().Sub(p)
		dist := d.Len()
		if dist == 0 {
			return l.Ambient
		}
		toLight = d.Mul(1 / dist)
		att = l.Attenuation(dist)
	} else {
		toLight = l.Vector.Vec3().Mul(-1).Normalize()
	}
	lambert := math.Max(n.Dot(toLight), 0)
	return l.Ambient.Add(l.Diffuse.Mul(lambert)).Mul(att)
}

// LightPresets holds the four lights the session switches between.
type LightPresets struct {
	Campfire   Light `toml:"campfire"`
	NoCampfire Light `toml:"no_campfire"`
	Day        Light `toml:"day"`
	Night      Light `toml:"night"`
}

// SpotCutoff holds the inner and outer cone angles, in degrees, of the
// flashlight that follows the camera.
type SpotCutoff struct {
	Inner float64 `toml:"inner"`
	Outer float64 `toml:"outer"`
}

// Cosines returns the cosine of both cutoff angles, as the lighting pass
// compares them against dot products.
func (c SpotCutoff) Cosines() (inner, outer float64) {
	return math.Cos(mgl64.DegToRad(c.Inner)), math.Cos(mgl64.DegToRad(c.Outer))
}
