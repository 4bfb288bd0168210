package material

// material is the implementation of the Material interface.
type material struct {
	name            string
	diffuseAlbedo   [4]float32
	fresnelR0       [3]float32
	roughness       float32
	transform       [16]float32
	diffuseMapIndex uint32

	uniformSlot int

	propagationWindow    int
	framesRemainingDirty int
}

// Material defines the interface for a render material, encapsulating surface
// properties, the slot it occupies in the per-frame material uniform region,
// and the dirty countdown that drives propagation across the frame pool.
//
// Any setter resets the countdown to the full propagation window, so the new
// value reaches every in-flight copy of the material record. The update pass
// calls ConsumeDirty once per frame to decide whether this material's slot
// needs rewriting in the current frame's region.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// DiffuseAlbedo retrieves the diffuse RGBA color of the material.
	//
	// Returns:
	//   - [4]float32: the diffuse albedo as RGBA values
	DiffuseAlbedo() [4]float32

	// FresnelR0 retrieves the Fresnel reflectance at normal incidence.
	//
	// Returns:
	//   - [3]float32: the RGB reflectance values
	FresnelR0() [3]float32

	// Roughness retrieves the roughness factor of the material.
	// A value of 0.0 represents a perfectly smooth surface, 1.0 represents a fully rough surface.
	//
	// Returns:
	//   - float32: the roughness factor
	Roughness() float32

	// Transform retrieves the material's UV transform matrix.
	//
	// Returns:
	//   - [16]float32: the transform as a column-major 4x4 matrix
	Transform() [16]float32

	// DiffuseMapIndex retrieves the index of the diffuse texture in the bound texture array.
	//
	// Returns:
	//   - uint32: the texture array index
	DiffuseMapIndex() uint32

	// UniformSlot retrieves the slot this material occupies in each frame's
	// material uniform region. Assigned by the scene at registration.
	//
	// Returns:
	//   - int: the material's region slot
	UniformSlot() int

	// SetDiffuseAlbedo sets the diffuse RGBA color and marks the material dirty.
	//
	// Parameters:
	//   - color: the diffuse albedo as RGBA values
	SetDiffuseAlbedo(color [4]float32)

	// SetFresnelR0 sets the Fresnel reflectance and marks the material dirty.
	//
	// Parameters:
	//   - r0: the RGB reflectance at normal incidence
	SetFresnelR0(r0 [3]float32)

	// SetRoughness sets the roughness factor and marks the material dirty.
	//
	// Parameters:
	//   - roughness: the roughness factor (0.0 = smooth, 1.0 = rough)
	SetRoughness(roughness float32)

	// SetTransform sets the UV transform matrix and marks the material dirty.
	//
	// Parameters:
	//   - transform: the transform as a column-major 4x4 matrix
	SetTransform(transform [16]float32)

	// SetDiffuseMapIndex sets the diffuse texture array index and marks the material dirty.
	//
	// Parameters:
	//   - index: the texture array index
	SetDiffuseMapIndex(index uint32)

	// SetUniformSlot assigns the material's slot in the material uniform region.
	// Called by the scene when the material is registered.
	//
	// Parameters:
	//   - slot: the region slot to assign
	SetUniformSlot(slot int)

	// PropagationWindow retrieves the number of consecutive frames a change is
	// rewritten for. This must match the frame pool depth so every in-flight
	// copy of the record converges.
	//
	// Returns:
	//   - int: the propagation window in frames
	PropagationWindow() int

	// FramesRemainingDirty retrieves the current dirty countdown.
	//
	// Returns:
	//   - int: the number of frames this material still needs rewriting for
	FramesRemainingDirty() int

	// MarkDirty resets the dirty countdown to the full propagation window.
	MarkDirty()

	// ConsumeDirty reports whether this material's slot needs rewriting in the
	// current frame's region, decrementing the countdown when it does. Called
	// exactly once per material per frame by the update pass.
	//
	// Returns:
	//   - bool: true if the caller must rewrite the material's slot this frame
	ConsumeDirty() bool
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
// The material starts fully dirty so its first record reaches every frame slot.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		diffuseAlbedo:     [4]float32{1, 1, 1, 1},
		fresnelR0:         [3]float32{0.01, 0.01, 0.01},
		roughness:         0.25,
		transform:         identity4(),
		propagationWindow: DefaultPropagationWindow,
	}
	for _, opt := range options {
		opt(m)
	}
	m.framesRemainingDirty = m.propagationWindow
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) DiffuseAlbedo() [4]float32 {
	return m.diffuseAlbedo
}

func (m *material) FresnelR0() [3]float32 {
	return m.fresnelR0
}

func (m *material) Roughness() float32 {
	return m.roughness
}

func (m *material) Transform() [16]float32 {
	return m.transform
}

func (m *material) DiffuseMapIndex() uint32 {
	return m.diffuseMapIndex
}

func (m *material) UniformSlot() int {
	return m.uniformSlot
}

func (m *material) SetDiffuseAlbedo(color [4]float32) {
	m.diffuseAlbedo = color
	m.MarkDirty()
}

func (m *material) SetFresnelR0(r0 [3]float32) {
	m.fresnelR0 = r0
	m.MarkDirty()
}

func (m *material) SetRoughness(roughness float32) {
	m.roughness = roughness
	m.MarkDirty()
}

func (m *material) SetTransform(transform [16]float32) {
	m.transform = transform
	m.MarkDirty()
}

func (m *material) SetDiffuseMapIndex(index uint32) {
	m.diffuseMapIndex = index
	m.MarkDirty()
}

func (m *material) SetUniformSlot(slot int) {
	m.uniformSlot = slot
}

func (m *material) PropagationWindow() int {
	return m.propagationWindow
}

func (m *material) FramesRemainingDirty() int {
	return m.framesRemainingDirty
}

func (m *material) MarkDirty() {
	m.framesRemainingDirty = m.propagationWindow
}

func (m *material) ConsumeDirty() bool {
	if m.framesRemainingDirty <= 0 {
		return false
	}
	m.framesRemainingDirty--
	return true
}

func identity4() [16]float32 {
	return [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}
