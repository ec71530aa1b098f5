package island

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

// Vertex is one mesh vertex in object space. UV is normalized: (0,0) is the
// texture's top-left corner and values outside [0,1] repeat.
type Vertex struct {
	Position mgl64.Vec3
	Normal   mgl64.Vec3
	UV       mgl64.Vec2
}

// Material holds Phong surface terms and an optional diffuse texture.
type Material struct {
	Name      string
	Ambient   mgl64.Vec3
	Diffuse   mgl64.Vec3
	Specular  mgl64.Vec3
	Shininess float64

	// TexturePath is the diffuse map as named by the model; Texture is the
	// loaded image, nil when absent or when loading failed.
	TexturePath string
	Texture     *ebiten.Image
}

// DefaultMaterial is a plain white surface.
func DefaultMaterial() Material {
	return Material{
		Ambient:   mgl64.Vec3{1, 1, 1},
		Diffuse:   mgl64.Vec3{1, 1, 1},
		Specular:  mgl64.Vec3{0, 0, 0},
		Shininess: 1,
	}
}

// Mesh is an indexed triangle list with one material.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	Material Material
	// Emissive meshes ignore lighting and draw at full material color.
	Emissive bool
}

// NewMesh creates a mesh with the default material. Indices must come in
// groups of three.
func NewMesh(name string, verts []Vertex, inds []uint32) *Mesh {
	return &Mesh{Name: name, Vertices: verts, Indices: inds, Material: DefaultMaterial()}
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Bounds returns the object-space bounding box of the mesh.
func (m *Mesh) Bounds() (lo, hi mgl64.Vec3) {
	if len(m.Vertices) == 0 {
		return
	}
	lo = m.Vertices[0].Position
	hi = lo
	for _, v := range m.Vertices[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = math.Min(lo[i], v.Position[i])
			hi[i] = math.Max(hi[i], v.Position[i])
		}
	}
	return lo, hi
}

// SkyFaces holds the two sets of six skybox faces in cube face order: right,
// left, up, down, back, front.
type SkyFaces struct {
	Day   [6]*ebiten.Image
	Night [6]*ebiten.Image
}

// --- Procedural meshes ---

// NewPlaneMesh returns a 2x2 quad in the xy plane facing +z. Used for fire
// and explosion sprites.
func NewPlaneMesh(name string) *Mesh {
	n := mgl64.Vec3{0, 0, 1}
	verts := []Vertex{
		{Position: mgl64.Vec3{-1, -1, 0}, Normal: n, UV: mgl64.Vec2{1, 1}},
		{Position: mgl64.Vec3{1, -1, 0}, Normal: n, UV: mgl64.Vec2{0, 1}},
		{Position: mgl64.Vec3{1, 1, 0}, Normal: n, UV: mgl64.Vec2{0, 0}},
		{Position: mgl64.Vec3{-1, 1, 0}, Normal: n, UV: mgl64.Vec2{1, 0}},
	}
	return NewMesh(name, verts, []uint32{0, 1, 2, 0, 2, 3})
}

// NewSidePlaneMesh returns a 2x2 quad in the yz plane, so it lies along the
// facing direction of its node. repeat tiles the texture along the quad.
// Used for fish and the fish banner.
func NewSidePlaneMesh(name string, repeat float64) *Mesh {
	if repeat <= 0 {
		repeat = 1
	}
	n := mgl64.Vec3{0, 0, 1}
	verts := []Vertex{
		{Position: mgl64.Vec3{0, -1, -1}, Normal: n, UV: mgl64.Vec2{repeat, 1}},
		{Position: mgl64.Vec3{0, 1, -1}, Normal: n, UV: mgl64.Vec2{repeat, 0}},
		{Position: mgl64.Vec3{0, 1, 1}, Normal: n, UV: mgl64.Vec2{0, 0}},
		{Position: mgl64.Vec3{0, -1, 1}, Normal: n, UV: mgl64.Vec2{0, 1}},
	}
	return NewMesh(name, verts, []uint32{0, 1, 2, 0, 2, 3})
}

// cubeFaces lists each face of the unit cube as its normal and the two axes
// spanning it, in skybox face order.
var cubeFaces = [6]struct{ normal, u, v mgl64.Vec3 }{
	{mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, -1}, mgl64.Vec3{0, -1, 0}},  // right
	{mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, -1, 0}},  // left
	{mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, 1}},    // up
	{mgl64.Vec3{0, -1, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, -1}},  // down
	{mgl64.Vec3{0, 0, 1}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, -1, 0}},   // back
	{mgl64.Vec3{0, 0, -1}, mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{0, -1, 0}}, // front
}

// NewCubeMesh returns a cube spanning [-1,1] on every axis. Face k owns
// triangles 2k and 2k+1, in skybox face order.
func NewCubeMesh(name string) *Mesh {
	verts := make([]Vertex, 0, 24)
	inds := make([]uint32, 0, 36)
	for _, f := range cubeFaces {
		base := uint32(len(verts))
		center := f.normal
		for _, c := range [4][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			p := center.Add(f.u.Mul(c[0])).Add(f.v.Mul(c[1]))
			verts = append(verts, Vertex{
				Position: p,
				Normal:   f.normal,
				UV:       mgl64.Vec2{(c[0] + 1) / 2, (c[1] + 1) / 2},
			})
		}
		inds = append(inds, base, base+1, base+2, base, base+2, base+3)
	}
	return NewMesh(name, verts, inds)
}

// NewSphereMesh returns a UV sphere of radius 1 with the given number of
// latitude stacks and longitude slices.
func NewSphereMesh(name string, stacks, slices int) *Mesh {
	stacks = max(stacks, 2)
	slices = max(slices, 3)
	verts := make([]Vertex, 0, (stacks+1)*(slices+1))
	for i := 0; i <= stacks; i++ {
		phi := math.Pi * float64(i) / float64(stacks)
		sp, cp := math.Sincos(phi)
		for j := 0; j <= slices; j++ {
			theta := 2 * math.Pi * float64(j) / float64(slices)
			st, ct := math.Sincos(theta)
			p := mgl64.Vec3{sp * ct, cp, sp * st}
			verts = append(verts, Vertex{
				Position: p,
				Normal:   p,
				UV:       mgl64.Vec2{float64(j) / float64(slices), float64(i) / float64(stacks)},
			})
		}
	}
	inds := make([]uint32, 0, stacks*slices*6)
	row := uint32(slices + 1)
	for i := 0; i < stacks; i++ {
		for j := 0; j < slices; j++ {
			a := uint32(i)*row + uint32(j)
			b := a + row
			inds = append(inds, a, b, a+1, a+1, b, b+1)
		}
	}
	return NewMesh(name, verts, inds)
}

// NewGridMesh returns a flat side x side vertex grid on the xz plane with gap
// units between neighbours, starting at the origin.
func NewGridMesh(name string, side int, gap float64) *Mesh {
	side = max(side, 2)
	verts := make([]Vertex, 0, side*side)
	for i := 0; i < side; i++ {
		for j := 0; j < side; j++ {
			verts = append(verts, Vertex{
				Position: mgl64.Vec3{float64(j) * gap, 0, float64(i) * gap},
				Normal:   WorldUp,
				UV:       mgl64.Vec2{float64(j), float64(i)},
			})
		}
	}
	inds := make([]uint32, 0, (side-1)*(side-1)*6)
	for i := 0; i < side-1; i++ {
		for j := 0; j < side-1; j++ {
			tl := uint32(i*side + j)
			tr := tl + 1
			bl := uint32((i+1)*side + j)
			br := bl + 1
			inds = append(inds, tl, bl, tr, tr, bl, br)
		}
	}
	m := NewMesh(name, verts, inds)
	m.Material.Ambient = mgl64.Vec3{0.1, 0.3, 0.5}
	m.Material.Diffuse = mgl64.Vec3{0.1, 0.4, 0.7}
	m.Material.Specular = mgl64.Vec3{1, 1, 1}
	m.Material.Shininess = 32
	return m
}

// waveHeight is the water surface offset at grid point (x, z) and time t.
func waveHeight(x, z, t float64) float64 {
	return 0.15*math.Sin(0.35*x+t) + 0.1*math.Cos(0.25*z+0.8*t)
}

// waveNormal is the unit surface normal of waveHeight at (x, z, t).
func waveNormal(x, z, t float64) mgl64.Vec3 {
	dx := 0.15 * 0.35 * math.Cos(0.35*x+t)
	dz := -0.1 * 0.25 * math.Sin(0.25*z+0.8*t)
	return mgl64.Vec3{-dx, 1, -dz}.Normalize()
}

// --- White pixel singleton (no sync.Once; island is single-threaded) ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image.
// Used by untextured meshes and the id pass.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}
