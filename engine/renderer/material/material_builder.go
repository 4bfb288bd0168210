package material

// DefaultPropagationWindow matches the default frame pool depth. Scenes using
// a different pool depth must configure materials with WithPropagationWindow
// to keep the two in agreement.
const DefaultPropagationWindow = 3

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithDiffuseAlbedo is an option builder that sets the diffuse RGBA color of the material.
//
// Parameters:
//   - color: the diffuse albedo as RGBA float32 values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the diffuse albedo option to a material
func WithDiffuseAlbedo(color [4]float32) MaterialBuilderOption {
	return func(m *material) {
		m.diffuseAlbedo = color
	}
}

// WithFresnelR0 is an option builder that sets the Fresnel reflectance at normal incidence.
//
// Parameters:
//   - r0: the RGB reflectance values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the Fresnel option to a material
func WithFresnelR0(r0 [3]float32) MaterialBuilderOption {
	return func(m *material) {
		m.fresnelR0 = r0
	}
}

// WithRoughness is an option builder that sets the roughness factor of the material.
//
// Parameters:
//   - roughness: the roughness factor (0.0 = smooth, 1.0 = rough)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the roughness option to a material
func WithRoughness(roughness float32) MaterialBuilderOption {
	return func(m *material) {
		m.roughness = roughness
	}
}

// WithTransform is an option builder that sets the material's UV transform matrix.
//
// Parameters:
//   - transform: the transform as a column-major 4x4 matrix
//
// Returns:
//   - MaterialBuilderOption: a function that applies the transform option to a material
func WithTransform(transform [16]float32) MaterialBuilderOption {
	return func(m *material) {
		m.transform = transform
	}
}

// WithDiffuseMapIndex is an option builder that sets the diffuse texture array index.
//
// Parameters:
//   - index: the index of the diffuse texture in the bound texture array
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture index option to a material
func WithDiffuseMapIndex(index uint32) MaterialBuilderOption {
	return func(m *material) {
		m.diffuseMapIndex = index
	}
}

// WithPropagationWindow is an option builder that sets the number of frames a
// change keeps being rewritten for. Must equal the frame pool depth of the
// scheduler this material is rendered with.
//
// Parameters:
//   - frames: the propagation window in frames (> 0)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the propagation window option to a material
func WithPropagationWindow(frames int) MaterialBuilderOption {
	if frames <= 0 {
		panic("material: propagation window must be positive")
	}
	return func(m *material) {
		m.propagationWindow = frames
	}
}
