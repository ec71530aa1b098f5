package island

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// --- ID counter ---

// nodeIDCounter is a plain counter (no atomic; island is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// --- Node ---

// Node is the fundamental scene graph element. A node exclusively owns its
// children. Position, size, direction and up are shared by a whole subtree:
// setting one on a node applies the same value to every descendant, so a
// subtree moves as one rigid group.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Kind NodeKind

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform
	position  mgl64.Vec3
	size      mgl64.Vec3
	direction mgl64.Vec3
	up        mgl64.Vec3

	// Visibility & interaction
	Visible   bool
	Pickable  bool
	picked    bool
	Collision bool

	// Lifecycle
	time        float64
	ttlArmed    bool
	ttlDeadline float64

	// Geometry; nil means the node has nothing to draw.
	Mesh *Mesh

	// Spline fields (NodeKindSpline)
	Motion *SplineMotion

	// Skybox fields (NodeKindSkybox)
	BlendSlow float64
	Sky       *SkyFaces

	// Metadata
	UserData any
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.size = mgl64.Vec3{1, 1, 1}
	n.direction = mgl64.Vec3{0, 0, -1}
	n.up = mgl64.Vec3{0, 1, 0}
	n.Visible = true
}

// NewNode creates a plain mesh node. mesh may be nil for group nodes.
func NewNode(name string, mesh *Mesh) *Node {
	n := &Node{Name: name, Kind: NodeKindMesh, Mesh: mesh}
	nodeDefaults(n)
	return n
}

// NewBillboard creates a node that is drawn facing the camera.
func NewBillboard(name string, mesh *Mesh) *Node {
	n := NewNode(name, mesh)
	n.Kind = NodeKindBillboard
	return n
}

// NewSkybox creates a skybox node. slow stretches the day/night blend cycle.
func NewSkybox(name string, mesh *Mesh, slow float64) *Node {
	n := NewNode(name, mesh)
	n.Kind = NodeKindSkybox
	n.BlendSlow = positiveOr(slow, 1)
	return n
}

// NewWater creates a water node over a generated grid mesh.
func NewWater(name string, mesh *Mesh) *Node {
	n := NewNode(name, mesh)
	n.Kind = NodeKindWater
	return n
}

// NewSplineNode creates a node whose pose follows spline. slow divides frame
// time before it advances the spline clock. The node starts at the curve's
// first point facing along its gradient.
func NewSplineNode(name string, mesh *Mesh, spline *Spline, slow float64) *Node {
	n := NewNode(name, mesh)
	n.Kind = NodeKindSpline
	n.Motion = &SplineMotion{Spline: spline, Slow: positiveOr(slow, 1)}
	n.SetPosition(spline.Point(0))
	n.SetDirection(spline.Gradient(0).Normalize())
	return n
}

func positiveOr(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}

// --- Tree manipulation ---

// AddChild appends child to this node's children and takes ownership of it.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("island: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("island: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("island: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// Walk calls fn for n and every descendant, depth-first, parents before
// children. Returning false from fn skips that node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.children {
		child.Walk(fn)
	}
}

// applySubtree calls fn on n and every descendant. All rigid-group setters go
// through here.
func (n *Node) applySubtree(fn func(*Node)) {
	fn(n)
	for _, child := range n.children {
		child.applySubtree(fn)
	}
}

// --- Transform ---

// SetPosition moves the node and its whole subtree to p.
func (n *Node) SetPosition(p mgl64.Vec3) {
	n.applySubtree(func(m *Node) { m.position = p })
}

// SetSize scales the node and its whole subtree to s.
func (n *Node) SetSize(s mgl64.Vec3) {
	n.applySubtree(func(m *Node) { m.size = s })
}

// SetDirection points the node and its whole subtree along d.
func (n *Node) SetDirection(d mgl64.Vec3) {
	n.applySubtree(func(m *Node) { m.direction = d })
}

// SetUpVector sets the up vector of the node and its whole subtree.
func (n *Node) SetUpVector(u mgl64.Vec3) {
	n.applySubtree(func(m *Node) { m.up = u })
}

// SetPose applies position, direction and up in one walk.
func (n *Node) SetPose(p Pose) {
	n.applySubtree(func(m *Node) {
		m.position = p.Position
		m.direction = p.Direction
		m.up = p.Up
	})
}

// Position returns the node's world position.
func (n *Node) Position() mgl64.Vec3 { return n.position }

// Size returns the node's per-axis scale.
func (n *Node) Size() mgl64.Vec3 { return n.size }

// Direction returns the node's facing direction.
func (n *Node) Direction() mgl64.Vec3 { return n.direction }

// UpVector returns the node's up vector.
func (n *Node) UpVector() mgl64.Vec3 { return n.up }

// Pose returns the node's position and orientation.
func (n *Node) Pose() Pose {
	return Pose{Position: n.position, Direction: n.direction, Up: n.up}
}

// ModelMatrix returns inverse(lookAt(p, p+d, up)) * scale(size). It never
// modifies the node.
func (n *Node) ModelMatrix() mgl64.Mat4 {
	return modelMatrix(n.position, n.direction, n.up, n.size)
}

// FollowCamera places a held node in front of the camera, slightly right and
// below the eye, oriented like the camera. Only picked, visible nodes move.
// Reports whether the node was moved.
func (n *Node) FollowCamera(cam *Camera) bool {
	if !n.picked || !n.Visible {
		return false
	}
	dir, up := cam.Direction, cam.Up
	right := dir.Cross(up).Normalize()
	offset := dir.Mul(2.5).Add(right).Sub(up.Mul(0.5))
	n.SetPose(Pose{Position: cam.Eye.Add(offset), Direction: dir, Up: up})
	return true
}

// --- State ---

// Picked reports whether the node is currently held.
func (n *Node) Picked() bool { return n.picked }

// SwitchPicked toggles the picked flag of a pickable node and returns the new
// value. Non-pickable nodes are left alone and report false.
func (n *Node) SwitchPicked() bool {
	if !n.Pickable {
		return false
	}
	n.picked = !n.picked
	return n.picked
}

// SwitchOn toggles visibility and returns the new value.
func (n *Node) SwitchOn() bool {
	n.Visible = !n.Visible
	return n.Visible
}

// Time returns the node's elapsed local time in seconds.
func (n *Node) Time() float64 { return n.time }

// SetTimeToLive shows the node and hides it again once its local time passes
// now + d. The deadline fires once.
func (n *Node) SetTimeToLive(d float64) {
	n.Visible = true
	n.ttlArmed = true
	n.ttlDeadline = n.time + d
}

// TimeToLive reports whether a deadline is armed and when it expires.
func (n *Node) TimeToLive() (deadline float64, armed bool) {
	return n.ttlDeadline, n.ttlArmed
}

// CheckCollision reports whether a sphere at position collides with this node.
// The x component of each size acts as the radius of both spheres. Hidden
// nodes and nodes without collision never collide.
func (n *Node) CheckCollision(position, size mgl64.Vec3) bool {
	if !n.Collision || !n.Visible {
		return false
	}
	return position.Sub(n.position).Len() < n.size.X()+size.X()
}

// Collides reports whether any collision-enabled child of n contains the
// sphere. Only direct children are tested; their subtrees share their pose.
func (n *Node) Collides(position, size mgl64.Vec3) bool {
	for _, child := range n.children {
		if child.CheckCollision(position, size) {
			return true
		}
	}
	return false
}

// --- Update ---

// Update advances the node's clock by dt and expires its time-to-live, then
// updates every child. Spline nodes advance by dt/Slow and then move along
// their curve.
func (n *Node) Update(dt float64) {
	n.expire()
	switch n.Kind {
	case NodeKindSpline:
		n.updateSpline(dt)
	default:
		n.time += dt
		n.updateChildren(dt)
	}
}

// expire hides the node once its armed deadline has passed and disarms it.
func (n *Node) expire() {
	if n.ttlArmed && n.time > n.ttlDeadline {
		n.ttlArmed = false
		n.ttlDeadline = 0
		n.Visible = false
	}
}

func (n *Node) updateChildren(dt float64) {
	for _, child := range n.children {
		child.Update(dt)
	}
}

// updateSpline moves the node along its spline. Motion is flattened to the
// horizontal plane: the facing direction ignores the curve's vertical slope.
func (n *Node) updateSpline(dt float64) {
	m := n.Motion
	n.time += m.advance(dt)
	n.updateChildren(dt)

	g := m.Spline.Gradient(m.Time)
	n.SetPosition(m.Spline.Point(m.Time))
	n.SetDirection(mgl64.Vec3{g.X(), 0, g.Z()}.Normalize())
}

// SkyBlend returns the day/night texture blend factor of a skybox in [0, 1].
func (n *Node) SkyBlend() float64 {
	return 0.5*math.Sin(n.time/positiveOr(n.BlendSlow, 1)) + 0.5
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}
