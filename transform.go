package island

import "github.com/go-gl/mathgl/mgl64"

// rotate turns v about a unit axis by angle degrees (right-handed).
func rotate(v, axis mgl64.Vec3, angle float64) mgl64.Vec3 {
	m := mgl64.HomogRotate3D(mgl64.DegToRad(angle), axis)
	return m.Mul4x1(v.Vec4(0)).Vec3()
}

// modelMatrix builds the world matrix of an object placed at p, facing d with
// the given up vector and per-axis scale:
//
//	inverse(lookAt(p, p+d, up)) * scale(s)
func modelMatrix(p, d, up, s mgl64.Vec3) mgl64.Mat4 {
	orient := mgl64.LookAtV(p, p.Add(d), up).Inv()
	return orient.Mul4(mgl64.Scale3D(s.X(), s.Y(), s.Z()))
}

// rotationOnly strips the translation from a view matrix, leaving its upper
// 3x3 rotation.
func rotationOnly(view mgl64.Mat4) mgl64.Mat4 {
	return view.Mat3().Mat4()
}

// BillboardMatrix returns the node's model matrix with the view rotation
// cancelled, so the mesh always faces the camera.
func (n *Node) BillboardMatrix(view mgl64.Mat4) mgl64.Mat4 {
	return n.ModelMatrix().Mul4(rotationOnly(view).Inv())
}

// SkyboxView returns the view matrix used for skybox drawing: the camera
// rotation without its translation, so the box never gets closer.
func SkyboxView(view mgl64.Mat4) mgl64.Mat4 {
	return rotationOnly(view)
}

// projectionMatrix returns a perspective projection with a vertical field of
// view given in degrees.
func projectionMatrix(fovDeg, aspect, near, far float64) mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(fovDeg), aspect, near, far)
}

// transformPoint applies m to the point p (w = 1) and returns the clip-space
// result.
func transformPoint(m mgl64.Mat4, p mgl64.Vec3) mgl64.Vec4 {
	return m.Mul4x1(p.Vec4(1))
}

// transformDir applies m to the direction d (w = 0).
func transformDir(m mgl64.Mat4, d mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(d.Vec4(0)).Vec3()
}
