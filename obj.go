package island

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// objIndex is one corner of an OBJ face: position, texture and normal
// indices, zero-based, -1 when absent.
type objIndex struct {
	v, vt, vn int
}

// objGroup collects the triangles drawn with one material.
type objGroup struct {
	material string
	verts    []Vertex
	inds     []uint32
	lookup   map[objIndex]uint32
}

// objParser accumulates the state of a Wavefront OBJ stream.
type objParser struct {
	positions []mgl64.Vec3
	uvs       []mgl64.Vec2
	normals   []mgl64.Vec3

	mtllibs []string
	groups  []*objGroup
	current *objGroup
	line    int
}

// OBJModel is a parsed OBJ file: one mesh per material section plus the
// material libraries it references.
type OBJModel struct {
	Meshes       []*Mesh
	MaterialLibs []string
}

// ParseOBJ reads a Wavefront OBJ stream. Faces with more than three corners
// are fan-triangulated. Missing normals are replaced by the face normal and
// texture v is flipped so (0,0) is the image's top-left corner. Meshes are
// named after their material and carry the default material until
// ApplyMaterials runs.
func ParseOBJ(r io.Reader) (*OBJModel, error) {
	p := &objParser{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		p.line++
		row := strings.TrimSpace(sc.Text())
		if row == "" || strings.HasPrefix(row, "#") {
			continue
		}
		if err := p.parseRow(strings.Fields(row)); err != nil {
			return nil, fmt.Errorf("obj line %d: %w", p.line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	m := &OBJModel{MaterialLibs: p.mtllibs}
	for _, g := range p.groups {
		if len(g.inds) == 0 {
			continue
		}
		mesh := NewMesh(g.material, g.verts, g.inds)
		mesh.Material.Name = g.material
		m.Meshes = append(m.Meshes, mesh)
	}
	return m, nil
}

func (p *objParser) parseRow(f []string) error {
	switch f[0] {
	case "v":
		v, err := parseFloats(f[1:], 3)
		if err != nil {
			return err
		}
		p.positions = append(p.positions, mgl64.Vec3{v[0], v[1], v[2]})
	case "vt":
		v, err := parseFloats(f[1:], 2)
		if err != nil {
			return err
		}
		p.uvs = append(p.uvs, mgl64.Vec2{v[0], 1 - v[1]})
	case "vn":
		v, err := parseFloats(f[1:], 3)
		if err != nil {
			return err
		}
		p.normals = append(p.normals, mgl64.Vec3{v[0], v[1], v[2]}.Normalize())
	case "f":
		return p.parseFace(f[1:])
	case "usemtl":
		name := ""
		if len(f) > 1 {
			name = f[1]
		}
		p.use(name)
	case "mtllib":
		p.mtllibs = append(p.mtllibs, f[1:]...)
	}
	return nil
}

// use switches the current group to the named material, reusing an earlier
// group with the same material.
func (p *objParser) use(material string) {
	for _, g := range p.groups {
		if g.material == material {
			p.current = g
			return
		}
	}
	g := &objGroup{material: material, lookup: make(map[objIndex]uint32)}
	p.groups = append(p.groups, g)
	p.current = g
}

func (p *objParser) parseFace(corners []string) error {
	if len(corners) < 3 {
		return fmt.Errorf("face has %d corners", len(corners))
	}
	if p.current == nil {
		p.use("")
	}
	idx := make([]objIndex, len(corners))
	for i, c := range corners {
		oi, err := p.parseCorner(c)
		if err != nil {
			return err
		}
		idx[i] = oi
	}
	for i := 2; i < len(idx); i++ {
		p.addTriangle(idx[0], idx[i-1], idx[i])
	}
	return nil
}

// parseCorner resolves "v", "v/vt", "v//vn" or "v/vt/vn". Negative indices
// count back from the latest element.
func (p *objParser) parseCorner(c string) (objIndex, error) {
	parts := strings.Split(c, "/")
	oi := objIndex{-1, -1, -1}
	counts := [3]int{len(p.positions), len(p.uvs), len(p.normals)}
	out := [3]*int{&oi.v, &oi.vt, &oi.vn}
	for i := 0; i < len(parts) && i < 3; i++ {
		if parts[i] == "" {
			continue
		}
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return oi, fmt.Errorf("corner %q: %w", c, err)
		}
		if n < 0 {
			n += counts[i]
		} else {
			n--
		}
		if n < 0 || n >= counts[i] {
			return oi, fmt.Errorf("corner %q: index out of range", c)
		}
		*out[i] = n
	}
	if oi.v < 0 {
		return oi, fmt.Errorf("corner %q: missing position", c)
	}
	return oi, nil
}

func (p *objParser) addTriangle(a, b, c objIndex) {
	g := p.current
	var faceNormal mgl64.Vec3
	if a.vn < 0 || b.vn < 0 || c.vn < 0 {
		pa, pb, pc := p.positions[a.v], p.positions[b.v], p.positions[c.v]
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		if l := n.Len(); l > 0 {
			faceNormal = n.Mul(1 / l)
		}
	}
	for _, oi := range [3]objIndex{a, b, c} {
		if oi.vn >= 0 {
			if i, ok := g.lookup[oi]; ok {
				g.inds = append(g.inds, i)
				continue
			}
		}
		v := Vertex{Position: p.positions[oi.v], Normal: faceNormal}
		if oi.vt >= 0 {
			v.UV = p.uvs[oi.vt]
		}
		if oi.vn >= 0 {
			v.Normal = p.normals[oi.vn]
		}
		i := uint32(len(g.verts))
		g.verts = append(g.verts, v)
		g.inds = append(g.inds, i)
		if oi.vn >= 0 {
			g.lookup[oi] = i
		}
	}
}

// ParseMTL reads a Wavefront material library. Ka, Kd, Ks, Ns and map_Kd
// are understood; other statements are ignored.
func ParseMTL(r io.Reader) (map[string]Material, error) {
	mats := make(map[string]Material)
	var cur *Material
	var name string
	flush := func() {
		if cur != nil {
			mats[name] = *cur
		}
	}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		row := strings.TrimSpace(sc.Text())
		if row == "" || strings.HasPrefix(row, "#") {
			continue
		}
		f := strings.Fields(row)
		if f[0] == "newmtl" {
			flush()
			name = strings.Join(f[1:], " ")
			m := DefaultMaterial()
			m.Name = name
			cur = &m
			continue
		}
		if cur == nil {
			continue
		}
		var err error
		switch f[0] {
		case "Ka":
			cur.Ambient, err = parseVec3(f[1:])
		case "Kd":
			cur.Diffuse, err = parseVec3(f[1:])
		case "Ks":
			cur.Specular, err = parseVec3(f[1:])
		case "Ns":
			var v []float64
			v, err = parseFloats(f[1:], 1)
			if err == nil {
				cur.Shininess = v[0]
			}
		case "map_Kd":
			// Options such as -s come first; the file name is last.
			if len(f) > 1 {
				cur.TexturePath = f[len(f)-1]
			}
		}
		if err != nil {
			return nil, fmt.Errorf("mtl line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read mtl: %w", err)
	}
	flush()
	return mats, nil
}

// ApplyMaterials replaces each mesh's material with the library entry of the
// same name. Meshes without a match keep theirs.
func (m *OBJModel) ApplyMaterials(lib map[string]Material) {
	for _, mesh := range m.Meshes {
		if mat, ok := lib[mesh.Material.Name]; ok {
			mesh.Material = mat
		}
	}
}

func parseFloats(f []string, n int) ([]float64, error) {
	if len(f) < n {
		return nil, fmt.Errorf("want %d numbers, got %d", n, len(f))
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(f[i], 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parseVec3(f []string) (mgl64.Vec3, error) {
	v, err := parseFloats(f, 3)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return mgl64.Vec3{v[0], v[1], v[2]}, nil
}
