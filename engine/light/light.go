package light

// DefaultAmbient is the ambient term applied when a scene does not set one.
var DefaultAmbient = [4]float32{0.25, 0.25, 0.35, 1.0}

// DefaultDirectionalRig returns the standard three-point directional rig: a
// key light, a fill light, and a back light, all aimed at the scene origin.
//
// Returns:
//   - []GPULight: three directional lights, strongest first
func DefaultDirectionalRig() []GPULight {
	return []GPULight{
		{Direction: [3]float32{0.57735, -0.57735, 0.57735}, Strength: [3]float32{0.8, 0.8, 0.8}},
		{Direction: [3]float32{-0.57735, -0.57735, 0.57735}, Strength: [3]float32{0.4, 0.4, 0.4}},
		{Direction: [3]float32{0.0, -0.707, -0.707}, Strength: [3]float32{0.2, 0.2, 0.2}},
	}
}
