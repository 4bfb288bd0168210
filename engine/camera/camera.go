package camera

import (
	"math"

	"github.com/orrery-engine/orrery/common"
)

// camera is the implementation of the Camera interface.
type camera struct {
	position [3]float32

	// Orthonormal camera basis in world space. look points into the scene,
	// right and up complete the frame.
	right [3]float32
	up    [3]float32
	look  [3]float32

	fovY   float32
	aspect float32
	nearZ  float32
	farZ   float32

	view [16]float32
	proj [16]float32

	viewDirty bool
}

// Camera computes the view and projection matrices feeding the common uniform
// category. It is a free-look camera: Walk and Strafe move along the current
// basis, Pitch and RotateY re-orient it. The camera is part of the scene layer
// and is read once per tick when the common record is rebuilt.
type Camera interface {
	// Position returns the camera position in world space.
	//
	// Returns:
	//   - [3]float32: the world-space position
	Position() [3]float32

	// SetPosition places the camera at the given world-space point.
	//
	// Parameters:
	//   - x, y, z: the new position
	SetPosition(x, y, z float32)

	// SetLens configures the perspective projection.
	//
	// Parameters:
	//   - fovY: vertical field of view in radians
	//   - aspect: viewport aspect ratio (width/height)
	//   - near: near plane distance (> 0)
	//   - far: far plane distance (> near)
	SetLens(fovY, aspect, near, far float32)

	// SetAspect updates only the aspect ratio, keeping the rest of the lens.
	// Called on window resize.
	//
	// Parameters:
	//   - aspect: the new viewport aspect ratio
	SetAspect(aspect float32)

	// Walk moves the camera along its look direction.
	//
	// Parameters:
	//   - d: signed distance (negative walks backwards)
	Walk(d float32)

	// Strafe moves the camera along its right direction.
	//
	// Parameters:
	//   - d: signed distance (negative strafes left)
	Strafe(d float32)

	// Pitch tilts the camera around its right axis.
	//
	// Parameters:
	//   - angle: rotation in radians (positive looks down)
	Pitch(angle float32)

	// RotateY turns the camera around the world Y axis.
	//
	// Parameters:
	//   - angle: rotation in radians
	RotateY(angle float32)

	// UpdateViewMatrix re-orthonormalizes the basis and rebuilds the view
	// matrix if any movement occurred since the last call.
	UpdateViewMatrix()

	// View returns the current view matrix (column-major). Call
	// UpdateViewMatrix first if the camera moved this tick.
	//
	// Returns:
	//   - [16]float32: the view matrix
	View() [16]float32

	// Proj returns the current projection matrix (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	Proj() [16]float32

	// NearZ returns the near plane distance.
	//
	// Returns:
	//   - float32: the near plane distance
	NearZ() float32

	// FarZ returns the far plane distance.
	//
	// Returns:
	//   - float32: the far plane distance
	FarZ() float32
}

// Compile-time check that camera implements Camera.
var _ Camera = &camera{}

// NewCamera creates a new Camera with the provided options. The default camera
// sits at the origin looking down -Z with a 45 degree vertical field of view.
//
// Parameters:
//   - options: a variadic list of options to configure the camera
//
// Returns:
//   - Camera: the newly created camera with matrices already built
func NewCamera(options ...CameraOption) Camera {
	c := &camera{
		right:     [3]float32{1, 0, 0},
		up:        [3]float32{0, 1, 0},
		look:      [3]float32{0, 0, -1},
		fovY:      float32(math.Pi) / 4,
		aspect:    16.0 / 9.0,
		nearZ:     1.0,
		farZ:      1000.0,
		viewDirty: true,
	}
	for _, opt := range options {
		opt(c)
	}
	common.Perspective(c.proj[:], c.fovY, c.aspect, c.nearZ, c.farZ)
	c.UpdateViewMatrix()
	return c
}

func (c *camera) Position() [3]float32 {
	return c.position
}

func (c *camera) SetPosition(x, y, z float32) {
	c.position = [3]float32{x, y, z}
	c.viewDirty = true
}

func (c *camera) SetLens(fovY, aspect, near, far float32) {
	c.fovY, c.aspect, c.nearZ, c.farZ = fovY, aspect, near, far
	common.Perspective(c.proj[:], fovY, aspect, near, far)
}

func (c *camera) SetAspect(aspect float32) {
	c.SetLens(c.fovY, aspect, c.nearZ, c.farZ)
}

func (c *camera) Walk(d float32) {
	for i := range 3 {
		c.position[i] += c.look[i] * d
	}
	c.viewDirty = true
}

func (c *camera) Strafe(d float32) {
	for i := range 3 {
		c.position[i] += c.right[i] * d
	}
	c.viewDirty = true
}

func (c *camera) Pitch(angle float32) {
	c.up = rotateAxis(c.up, c.right, angle)
	c.look = rotateAxis(c.look, c.right, angle)
	c.viewDirty = true
}

func (c *camera) RotateY(angle float32) {
	axis := [3]float32{0, 1, 0}
	c.right = rotateAxis(c.right, axis, angle)
	c.up = rotateAxis(c.up, axis, angle)
	c.look = rotateAxis(c.look, axis, angle)
	c.viewDirty = true
}

func (c *camera) UpdateViewMatrix() {
	if !c.viewDirty {
		return
	}

	// Re-orthonormalize: repeated incremental rotations accumulate drift.
	c.look = normalize(c.look)
	c.up = normalize(cross(c.right, c.look))
	c.right = cross(c.look, c.up)

	target := [3]float32{
		c.position[0] + c.look[0],
		c.position[1] + c.look[1],
		c.position[2] + c.look[2],
	}
	common.LookAt(c.view[:],
		c.position[0], c.position[1], c.position[2],
		target[0], target[1], target[2],
		c.up[0], c.up[1], c.up[2])
	c.viewDirty = false
}

func (c *camera) View() [16]float32 {
	return c.view
}

func (c *camera) Proj() [16]float32 {
	return c.proj
}

func (c *camera) NearZ() float32 {
	return c.nearZ
}

func (c *camera) FarZ() float32 {
	return c.farZ
}

// rotateAxis rotates v around the (normalized) axis by angle radians using the
// Rodrigues rotation formula.
func rotateAxis(v, axis [3]float32, angle float32) [3]float32 {
	cosA := float32(math.Cos(float64(angle)))
	sinA := float32(math.Sin(float64(angle)))
	k := normalize(axis)
	kCrossV := cross(k, v)
	kDotV := k[0]*v[0] + k[1]*v[1] + k[2]*v[2]

	var out [3]float32
	for i := range 3 {
		out[i] = v[i]*cosA + kCrossV[i]*sinA + k[i]*kDotV*(1-cosA)
	}
	return out
}

func cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func normalize(v [3]float32) [3]float32 {
	l := float32(math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])))
	if l == 0 {
		return v
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}
