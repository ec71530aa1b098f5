package island

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates any number of float64 fields simultaneously.
// Create one via the convenience constructors (TweenVec3, TweenLight) and
// call Update(dt) each frame. The group writes values straight into the
// target fields.
//
// There is no global animation manager. The session updates its own groups.
type TweenGroup struct {
	tweens []*gween.Tween
	fields []*float64
	Done   bool
}

// add registers one field to animate from its current value to to.
func (g *TweenGroup) add(field *float64, to float64, duration float32, fn ease.TweenFunc) {
	g.tweens = append(g.tweens, gween.New(float32(*field), float32(to), duration, fn))
	g.fields = append(g.fields, field)
}

// Update advances all tweens by dt seconds and writes values to the target
// fields. Done is set once every tween has finished.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	allDone := true
	for i, tw := range g.tweens {
		val, finished := tw.Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// TweenVec3 creates a TweenGroup that animates all three components of v to
// the target over the specified duration using the easing function.
func TweenVec3(v *mgl64.Vec3, to mgl64.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	for i := range v {
		g.add(&v[i], to[i], duration, fn)
	}
	return g
}

// TweenLight creates a TweenGroup that fades every term of l toward to. The
// light's vector is moved as well, so a fade between presets that share a
// direction leaves it untouched. A non-positive duration applies to at once
// and returns a finished group.
func TweenLight(l *Light, to Light, duration float32, fn ease.TweenFunc) *TweenGroup {
	if duration <= 0 {
		*l = to
		return &TweenGroup{Done: true}
	}
	g := &TweenGroup{}
	for i := range l.Vector {
		g.add(&l.Vector[i], to.Vector[i], duration, fn)
	}
	for _, pair := range [...]struct{ from, to *mgl64.Vec3 }{
		{&l.Ambient, &to.Ambient},
		{&l.Diffuse, &to.Diffuse},
		{&l.Specular, &to.Specular},
		{&l.Dim, &to.Dim},
	} {
		for i := range pair.from {
			g.add(&pair.from[i], pair.to[i], duration, fn)
		}
	}
	return g
}
