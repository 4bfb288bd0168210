package camera

// CameraOption is a functional option used to configure a Camera during construction.
type CameraOption func(*camera)

// WithPosition sets the camera's initial world-space position.
//
// Parameters:
//   - x, y, z: the starting position
//
// Returns:
//   - CameraOption: a function that sets the initial position
func WithPosition(x, y, z float32) CameraOption {
	return func(c *camera) {
		c.position = [3]float32{x, y, z}
	}
}

// WithLens sets the camera's initial perspective projection.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near plane distance (> 0)
//   - far: far plane distance (> near)
//
// Returns:
//   - CameraOption: a function that sets the initial lens
func WithLens(fovY, aspect, near, far float32) CameraOption {
	return func(c *camera) {
		c.fovY, c.aspect, c.nearZ, c.farZ = fovY, aspect, near, far
	}
}
