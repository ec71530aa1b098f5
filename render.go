package island

import (
	"image/color"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// drawLayer orders triangles before depth sorting. The sky always goes first.
type drawLayer uint8

const (
	layerSky drawLayer = iota
	layerWorld
)

// maxBatchVertices caps one DrawTriangles32 call.
const maxBatchVertices = 3 * 21845

// screenVertex is a vertex after projection: window pixel coordinates,
// normalized texture coordinates and a straight-alpha color.
type screenVertex struct {
	x, y       float32
	u, v       float32
	r, g, b, a float32
}

// triangle is one clipped, projected triangle ready for submission.
type triangle struct {
	v       [3]screenVertex
	texture *ebiten.Image // nil draws with the white pixel
	layer   drawLayer
	depth   float64
	order   int
	object  ObjectID
	// pick is false for overlay passes that must not shadow the id buffer.
	pick bool
}

// clipVertex is a vertex in clip space with its attributes, used while
// clipping against the near plane.
type clipVertex struct {
	pos   mgl64.Vec4
	uv    mgl64.Vec2
	color mgl64.Vec3
}

// frameState is the per-frame input shared by every node.
type frameState struct {
	RenderState
	width, height float64
	flashlight    Light
}

// Renderer draws a session's scene through ebiten's triangle API. Vertices
// are transformed and lit on the CPU, triangles are sorted back to front and
// consecutive triangles sharing a texture go out in one draw call. Every
// frame also fills an id buffer that maps pixels to top-level objects.
type Renderer struct {
	log *zap.Logger

	// Flashlight is the cone light that follows the camera. Its position
	// and direction are replaced every frame; Diffuse and Dim apply.
	Flashlight Light

	// SkyDay and SkyNight color the skybox when it has no textures.
	SkyDay   mgl64.Vec3
	SkyNight mgl64.Vec3

	tris    []triangle
	sortBuf []triangle
	scratch []clipVertex
	poly    [2][]clipVertex
	order   int

	verts []ebiten.Vertex
	inds  []uint32

	idImage *ebiten.Image
	idVerts []ebiten.Vertex
	idInds  []uint32

	stats debugStats
}

// NewRenderer creates a renderer. A nil log discards output.
func NewRenderer(log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{
		log: log.Named("render"),
		Flashlight: Light{
			Vector:  mgl64.Vec4{0, 0, 0, 1},
			Diffuse: mgl64.Vec3{0.6, 0.6, 0.5},
			Dim:     mgl64.Vec3{1, 0.045, 0.0075},
		},
		SkyDay:   mgl64.Vec3{0.53, 0.81, 0.92},
		SkyNight: mgl64.Vec3{0.02, 0.02, 0.08},
	}
}

// Draw renders s onto screen and refreshes the id buffer used by
// PickObject.
func (r *Renderer) Draw(screen *ebiten.Image, s *Session) {
	b := screen.Bounds()
	var t0 time.Time
	if globalDebug {
		r.stats = debugStats{}
		t0 = time.Now()
	}

	r.collect(s, b.Dx(), b.Dy())

	if globalDebug {
		r.stats.traverseTime = time.Since(t0)
		t0 = time.Now()
	}

	r.mergeSort()

	if globalDebug {
		r.stats.sortTime = time.Since(t0)
		r.stats.triangleCount = len(r.tris)
		t0 = time.Now()
	}

	r.submit(screen)
	r.drawIDs(b.Dx(), b.Dy())

	if globalDebug {
		r.stats.submitTime = time.Since(t0)
		r.debugLog(r.stats)
	}
}

// --- Collection ---

// collect projects every visible mesh of the scene into r.tris.
func (r *Renderer) collect(s *Session, width, height int) {
	r.tris = r.tris[:0]
	r.order = 0

	f := &frameState{
		RenderState: s.RenderState(),
		width:       float64(width),
		height:      float64(height),
		flashlight:  r.Flashlight,
	}
	f.flashlight.Vector = f.Eye.Vec4(1)

	for i, obj := range s.Root().Children() {
		id := ObjectID(i + 1)
		obj.Walk(func(n *Node) bool {
			if !n.Visible {
				return false
			}
			if n.Mesh != nil && len(n.Mesh.Indices) >= 3 {
				r.emitNode(f, n, id)
			}
			return true
		})
	}
}

// emitNode lights and projects one node's mesh.
func (r *Renderer) emitNode(f *frameState, n *Node, id ObjectID) {
	m := n.Mesh
	view := f.View
	var model mgl64.Mat4
	layer := layerWorld
	switch n.Kind {
	case NodeKindBillboard:
		model = n.BillboardMatrix(view)
	case NodeKindSkybox:
		s := n.Size()
		model = mgl64.Scale3D(s.X(), s.Y(), s.Z())
		view = SkyboxView(view)
		layer = layerSky
	default:
		model = n.ModelMatrix()
	}
	mvp := f.Projection.Mul4(view).Mul4(model)
	nm := normalMatrix(model)

	r.scratch = r.scratch[:0]
	for _, v := range m.Vertices {
		p, nrm := v.Position, v.Normal
		if n.Kind == NodeKindWater {
			t := n.Time()
			p[1] += waveHeight(p.X(), p.Z(), t)
			nrm = waveNormal(p.X(), p.Z(), t)
		}
		cv := clipVertex{pos: transformPoint(mvp, p), uv: v.UV}
		if n.Kind == NodeKindSkybox {
			cv.color = mgl64.Vec3{1, 1, 1}
		} else {
			world := transformPoint(model, p).Vec3()
			cv.color = r.shade(f, m, world, worldNormal(nm, nrm))
		}
		r.scratch = append(r.scratch, cv)
	}

	tex := m.Material.Texture
	for t := 0; t+2 < len(m.Indices); t += 3 {
		a, b, c := r.scratch[m.Indices[t]], r.scratch[m.Indices[t+1]], r.scratch[m.Indices[t+2]]
		if n.Kind != NodeKindSkybox {
			r.emitTriangle(f, a, b, c, tex, 1, layer, id, true)
			continue
		}
		r.emitSkyTriangle(f, n, t/6, a, b, c, id)
	}
}

// emitSkyTriangle draws a skybox triangle of the given face with the day
// texture and overlays the night texture weighted by the blend factor.
func (r *Renderer) emitSkyTriangle(f *frameState, n *Node, face int, a, b, c clipVertex, id ObjectID) {
	blend := n.SkyBlend()
	var day, night *ebiten.Image
	if n.Sky != nil && face < len(n.Sky.Day) {
		day, night = n.Sky.Day[face], n.Sky.Night[face]
	}
	if day == nil {
		col := r.SkyDay.Mul(1 - blend).Add(r.SkyNight.Mul(blend))
		a.color, b.color, c.color = col, col, col
		r.emitTriangle(f, a, b, c, nil, 1, layerSky, id, true)
		return
	}
	r.emitTriangle(f, a, b, c, day, 1, layerSky, id, true)
	if night != nil && blend > 0 {
		r.emitTriangle(f, a, b, c, night, float32(blend), layerSky, id, false)
	}
}

// emitTriangle clips a triangle against the near plane, rejects it when it
// lies wholly outside the view volume and appends the projected result.
func (r *Renderer) emitTriangle(f *frameState, a, b, c clipVertex, tex *ebiten.Image, alpha float32, layer drawLayer, id ObjectID, pick bool) {
	if outsideFrustum(a.pos, b.pos, c.pos) {
		r.stats.culledCount++
		return
	}
	r.poly[0] = append(r.poly[0][:0], a, b, c)
	r.poly[1] = clipNear(r.poly[0], r.poly[1])
	poly := r.poly[1]
	if len(poly) < 3 {
		r.stats.culledCount++
		return
	}

	depth := 0.0
	for _, v := range poly {
		depth += v.pos.W()
	}
	depth /= float64(len(poly))

	r.order++
	p0 := f.project(poly[0], alpha)
	for i := 2; i < len(poly); i++ {
		r.tris = append(r.tris, triangle{
			v:       [3]screenVertex{p0, f.project(poly[i-1], alpha), f.project(poly[i], alpha)},
			texture: tex,
			layer:   layer,
			depth:   depth,
			order:   r.order,
			object:  id,
			pick:    pick,
		})
	}
}

// project maps a clip-space vertex to window pixels.
func (f *frameState) project(v clipVertex, alpha float32) screenVertex {
	w := v.pos.W()
	return screenVertex{
		x: float32((v.pos.X()/w + 1) * 0.5 * f.width),
		y: float32((1 - v.pos.Y()/w) * 0.5 * f.height),
		u: float32(v.uv.X()),
		v: float32(v.uv.Y()),
		r: float32(clamp01(v.color.X())),
		g: float32(clamp01(v.color.Y())),
		b: float32(clamp01(v.color.Z())),
		a: alpha,
	}
}

// outsideFrustum reports whether all three points lie beyond the same side
// of the view volume (excluding the near plane, which is clipped).
func outsideFrustum(a, b, c mgl64.Vec4) bool {
	for axis := 0; axis < 3; axis++ {
		if a[axis] > a.W() && b[axis] > b.W() && c[axis] > c.W() {
			return true
		}
		if axis < 2 && a[axis] < -a.W() && b[axis] < -b.W() && c[axis] < -c.W() {
			return true
		}
	}
	return false
}

// clipNear clips a convex polygon against the near plane (z >= -w) and
// writes the result into out.
func clipNear(in, out []clipVertex) []clipVertex {
	out = out[:0]
	for i := range in {
		a, b := in[i], in[(i+1)%len(in)]
		da := a.pos.Z() + a.pos.W()
		db := b.pos.Z() + b.pos.W()
		if da >= 0 {
			out = append(out, a)
		}
		if (da >= 0) != (db >= 0) {
			out = append(out, lerpClip(a, b, da/(da-db)))
		}
	}
	return out
}

func lerpClip(a, b clipVertex, t float64) clipVertex {
	return clipVertex{
		pos:   a.pos.Add(b.pos.Sub(a.pos).Mul(t)),
		uv:    a.uv.Add(b.uv.Sub(a.uv).Mul(t)),
		color: a.color.Add(b.color.Sub(a.color).Mul(t)),
	}
}

// --- Lighting ---

// normalMatrix returns the inverse transpose of the model's upper 3x3, or
// the plain 3x3 when it is singular.
func normalMatrix(model mgl64.Mat4) mgl64.Mat3 {
	m := model.Mat3()
	if m.Det() == 0 {
		return m
	}
	return m.Inv().Transpose()
}

func worldNormal(nm mgl64.Mat3, n mgl64.Vec3) mgl64.Vec3 {
	w := nm.Mul3x1(n)
	if l := w.Len(); l > 0 {
		return w.Mul(1 / l)
	}
	return w
}

// shade computes the vertex color of a lit surface: directional and point
// lights, the camera flashlight and directional specular.
func (r *Renderer) shade(f *frameState, m *Mesh, world, normal mgl64.Vec3) mgl64.Vec3 {
	mat := &m.Material
	if m.Emissive {
		return mat.Diffuse
	}
	c := f.DirectionalLight.Shade(world, normal).Add(f.PointLight.Shade(world, normal))
	c = mulVec3(c, mat.Diffuse)

	toFrag := world.Sub(f.Eye)
	if dist := toFrag.Len(); dist > 0 {
		toFrag = toFrag.Mul(1 / dist)
		if k := spotFactor(toFrag.Dot(f.CameraDirection), f.CutOff, f.OuterCutOff); k > 0 {
			lambert := math.Max(-normal.Dot(toFrag), 0)
			fl := f.flashlight.Diffuse.Mul(k * lambert * f.flashlight.Attenuation(dist))
			c = c.Add(mulVec3(fl, mat.Diffuse))
		}
		if mat.Shininess > 0 && mat.Specular != (mgl64.Vec3{}) && !f.DirectionalLight.IsPoint() {
			toLight := f.DirectionalLight.Vector.Vec3().Mul(-1).Normalize()
			half := toLight.Sub(toFrag).Normalize()
			s := math.Pow(math.Max(normal.Dot(half), 0), mat.Shininess)
			c = c.Add(mulVec3(f.DirectionalLight.Specular, mat.Specular).Mul(s))
		}
	}
	return c
}

// spotFactor returns the smooth cone falloff for cosine theta between the
// inner and outer cutoff cosines.
func spotFactor(theta, inner, outer float64) float64 {
	if inner <= outer {
		if theta >= inner {
			return 1
		}
		return 0
	}
	return clamp01((theta - outer) / (inner - outer))
}

func mulVec3(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// --- Merge sort ---

// triangleLessOrEqual orders sky before world, then far before near. Using
// <= on order keeps the sort stable.
func triangleLessOrEqual(a, b *triangle) bool {
	if a.layer != b.layer {
		return a.layer < b.layer
	}
	if a.depth != b.depth {
		return a.depth > b.depth
	}
	return a.order <= b.order
}

// mergeSort sorts r.tris in place using r.sortBuf as scratch space.
// Bottom-up merge sort: zero allocations after the sort buffer reaches its
// high-water mark.
func (r *Renderer) mergeSort() {
	n := len(r.tris)
	if n <= 1 {
		return
	}
	if cap(r.sortBuf) < n {
		r.sortBuf = make([]triangle, n)
	}
	r.sortBuf = r.sortBuf[:n]

	a, b := r.tris, r.sortBuf
	swapped := false
	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			mid := min(i+width, n)
			hi := min(i+2*width, n)
			mergeRun(a, b, i, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}
	if swapped {
		copy(r.tris, r.sortBuf)
	}
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []triangle, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if triangleLessOrEqual(&src[i], &src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	k += copy(dst[k:], src[i:mid])
	copy(dst[k:], src[j:hi])
}

// --- Submission ---

// submit draws the sorted triangles, coalescing runs that share a texture.
func (r *Renderer) submit(target *ebiten.Image) {
	r.verts, r.inds = r.verts[:0], r.inds[:0]
	var current *ebiten.Image
	started := false
	for i := range r.tris {
		t := &r.tris[i]
		if !started || t.texture != current || len(r.verts)+3 > maxBatchVertices {
			r.flush(target, current)
			current, started = t.texture, true
		}
		img := t.texture
		if img == nil {
			img = ensureWhitePixel()
		}
		w, h := img.Bounds().Dx(), img.Bounds().Dy()
		base := uint32(len(r.verts))
		for _, v := range t.v {
			sx, sy := v.u*float32(w), v.v*float32(h)
			if t.texture == nil {
				sx, sy = 0.5, 0.5
			}
			r.verts = append(r.verts, ebiten.Vertex{
				DstX: v.x, DstY: v.y,
				SrcX: sx, SrcY: sy,
				ColorR: v.r, ColorG: v.g, ColorB: v.b, ColorA: v.a,
			})
		}
		r.inds = append(r.inds, base, base+1, base+2)
	}
	r.flush(target, current)
}

// flush submits the accumulated batch drawn from tex.
func (r *Renderer) flush(target, tex *ebiten.Image) {
	if len(r.verts) == 0 {
		return
	}
	src := tex
	var op ebiten.DrawTrianglesOptions
	if src == nil {
		src = ensureWhitePixel()
	} else {
		op.Filter = ebiten.FilterLinear
		op.Address = ebiten.AddressRepeat
	}
	target.DrawTriangles32(r.verts, r.inds, src, &op)
	r.stats.drawCallCount++
	r.verts, r.inds = r.verts[:0], r.inds[:0]
}

// --- Picking ---

// drawIDs paints every pickable triangle into the id buffer with the red
// channel holding its object id.
func (r *Renderer) drawIDs(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if r.idImage == nil || r.idImage.Bounds().Dx() != width || r.idImage.Bounds().Dy() != height {
		if r.idImage != nil {
			r.idImage.Deallocate()
		}
		r.idImage = ebiten.NewImage(width, height)
	}
	r.idImage.Clear()

	r.idVerts, r.idInds = r.idVerts[:0], r.idInds[:0]
	for i := range r.tris {
		t := &r.tris[i]
		if !t.pick {
			continue
		}
		if len(r.idVerts)+3 > maxBatchVertices {
			r.flushIDs()
		}
		red := float32(t.object) / 255
		base := uint32(len(r.idVerts))
		for _, v := range t.v {
			r.idVerts = append(r.idVerts, ebiten.Vertex{
				DstX: v.x, DstY: v.y, SrcX: 0.5, SrcY: 0.5,
				ColorR: red, ColorA: 1,
			})
		}
		r.idInds = append(r.idInds, base, base+1, base+2)
	}
	r.flushIDs()
}

func (r *Renderer) flushIDs() {
	if len(r.idVerts) == 0 {
		return
	}
	r.idImage.DrawTriangles32(r.idVerts, r.idInds, ensureWhitePixel(), &ebiten.DrawTrianglesOptions{})
	r.idVerts, r.idInds = r.idVerts[:0], r.idInds[:0]
}

// PickObject returns the top-level object drawn at window pixel (x, y) in
// the last frame, or ObjectNone.
func (r *Renderer) PickObject(x, y int) ObjectID {
	if r.idImage == nil {
		return ObjectNone
	}
	b := r.idImage.Bounds()
	if x < b.Min.X || y < b.Min.Y || x >= b.Max.X || y >= b.Max.Y {
		return ObjectNone
	}
	c := color.RGBAModel.Convert(r.idImage.At(x, y)).(color.RGBA)
	if c.A == 0 {
		return ObjectNone
	}
	return ObjectID(c.R)
}
