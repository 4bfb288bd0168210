package render_item

import (
	"github.com/orrery-engine/orrery/engine/renderer/material"
)

// DrawRange identifies the contiguous slice of a shared index buffer that a
// render item draws.
type DrawRange struct {
	IndexCount         uint32
	StartIndexLocation uint32
	BaseVertexLocation int32
}

// AnimatorFunc mutates a render item once per tick. The scene invokes it for
// every item that has one before the update passes run, so any transform it
// writes is picked up in the same frame.
type AnimatorFunc func(totalTime, deltaTime float32, item RenderItem)

// renderItem is the implementation of the RenderItem interface.
type renderItem struct {
	id   uint64
	name string

	transform    [16]float32
	texTransform [16]float32
	mat          material.Material
	drawRange    DrawRange
	animator     AnimatorFunc

	uniformSlot int
	static      bool

	propagationWindow    int
	framesRemainingDirty int
}

// RenderItem defines the interface for a drawable scene entity: its world
// transform, the material it draws with, the index-buffer range it covers,
// and the slot it occupies in the per-frame object uniform region.
//
// Items are static by default. A static item's record is rewritten only while
// its dirty countdown is positive; mutating the transform or toggling the
// static flag resets the countdown to the full propagation window so the
// change reaches every in-flight frame copy. Dynamic items skip the countdown
// and are rewritten every frame.
type RenderItem interface {
	// ID returns the item's unique identifier. Assigned by the scene at
	// registration.
	//
	// Returns:
	//   - uint64: the item ID
	ID() uint64

	// Name returns the item's human-readable label.
	//
	// Returns:
	//   - string: the item name
	Name() string

	// Transform returns the item's world transform.
	//
	// Returns:
	//   - [16]float32: the world matrix (column-major)
	Transform() [16]float32

	// TexTransform returns the item's texture coordinate transform.
	//
	// Returns:
	//   - [16]float32: the texture transform matrix (column-major)
	TexTransform() [16]float32

	// Material returns the material this item draws with.
	//
	// Returns:
	//   - material.Material: the item's material, or nil
	Material() material.Material

	// DrawRange returns the index-buffer range this item draws.
	//
	// Returns:
	//   - DrawRange: the draw range
	DrawRange() DrawRange

	// Animator returns the per-tick animator function, or nil if the item is
	// not animated.
	//
	// Returns:
	//   - AnimatorFunc: the animator function or nil
	Animator() AnimatorFunc

	// UniformSlot returns the slot this item occupies in each frame's object
	// uniform region. Assigned by the scene at registration.
	//
	// Returns:
	//   - int: the item's region slot
	UniformSlot() int

	// Static reports whether the item uses the dirty countdown. Dynamic items
	// (static == false) are rewritten every frame regardless of the countdown.
	//
	// Returns:
	//   - bool: true if the item is static
	Static() bool

	// SetID sets the item's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// SetTransform replaces the world transform and marks the item dirty.
	//
	// Parameters:
	//   - transform: the new world matrix (column-major)
	SetTransform(transform [16]float32)

	// SetTexTransform replaces the texture transform and marks the item dirty.
	//
	// Parameters:
	//   - transform: the new texture transform matrix (column-major)
	SetTexTransform(transform [16]float32)

	// SetMaterial replaces the item's material and marks the item dirty, since
	// the object record embeds the material's region slot.
	//
	// Parameters:
	//   - mat: the material to draw with
	SetMaterial(mat material.Material)

	// SetAnimator installs or removes the per-tick animator function.
	//
	// Parameters:
	//   - fn: the animator to invoke each tick, or nil to remove
	SetAnimator(fn AnimatorFunc)

	// SetUniformSlot assigns the item's slot in the object uniform region.
	// Called by the scene when the item is registered.
	//
	// Parameters:
	//   - slot: the region slot to assign
	SetUniformSlot(slot int)

	// SetStatic toggles the static flag. Any toggle marks the item dirty so
	// the transition is propagated to every frame copy.
	//
	// Parameters:
	//   - static: true to enable the dirty countdown, false to rewrite every frame
	SetStatic(static bool)

	// PropagationWindow returns the number of consecutive frames a change is
	// rewritten for. This must match the frame pool depth so every in-flight
	// copy of the record converges.
	//
	// Returns:
	//   - int: the propagation window in frames
	PropagationWindow() int

	// FramesRemainingDirty returns the current dirty countdown.
	//
	// Returns:
	//   - int: the number of frames this item still needs rewriting for
	FramesRemainingDirty() int

	// MarkDirty resets the dirty countdown to the full propagation window.
	MarkDirty()

	// ConsumeDirty reports whether this item's slot needs rewriting in the
	// current frame's region. Dynamic items always report true; static items
	// report true while the countdown is positive and decrement it. Called
	// exactly once per item per frame by the update pass.
	//
	// Returns:
	//   - bool: true if the caller must rewrite the item's slot this frame
	ConsumeDirty() bool
}

var _ RenderItem = &renderItem{}

// NewRenderItem creates a new RenderItem configured with the given options.
// The item starts fully dirty so its first record reaches every frame slot.
//
// Parameters:
//   - options: functional options to configure the item
//
// Returns:
//   - RenderItem: the newly created item
func NewRenderItem(options ...RenderItemBuilderOption) RenderItem {
	item := &renderItem{
		transform:         identity4(),
		texTransform:      identity4(),
		static:            true,
		propagationWindow: DefaultPropagationWindow,
	}
	for _, option := range options {
		option(item)
	}
	item.framesRemainingDirty = item.propagationWindow
	return item
}

func (r *renderItem) ID() uint64 {
	return r.id
}

func (r *renderItem) Name() string {
	return r.name
}

func (r *renderItem) Transform() [16]float32 {
	return r.transform
}

func (r *renderItem) TexTransform() [16]float32 {
	return r.texTransform
}

func (r *renderItem) Material() material.Material {
	return r.mat
}

func (r *renderItem) DrawRange() DrawRange {
	return r.drawRange
}

func (r *renderItem) Animator() AnimatorFunc {
	return r.animator
}

func (r *renderItem) UniformSlot() int {
	return r.uniformSlot
}

func (r *renderItem) Static() bool {
	return r.static
}

func (r *renderItem) SetID(id uint64) {
	r.id = id
}

func (r *renderItem) SetTransform(transform [16]float32) {
	r.transform = transform
	r.MarkDirty()
}

func (r *renderItem) SetTexTransform(transform [16]float32) {
	r.texTransform = transform
	r.MarkDirty()
}

func (r *renderItem) SetMaterial(mat material.Material) {
	r.mat = mat
	r.MarkDirty()
}

func (r *renderItem) SetAnimator(fn AnimatorFunc) {
	r.animator = fn
}

func (r *renderItem) SetUniformSlot(slot int) {
	r.uniformSlot = slot
}

func (r *renderItem) SetStatic(static bool) {
	if r.static == static {
		return
	}
	r.static = static
	r.MarkDirty()
}

func (r *renderItem) PropagationWindow() int {
	return r.propagationWindow
}

func (r *renderItem) FramesRemainingDirty() int {
	return r.framesRemainingDirty
}

func (r *renderItem) MarkDirty() {
	r.framesRemainingDirty = r.propagationWindow
}

func (r *renderItem) ConsumeDirty() bool {
	if !r.static {
		return true
	}
	if r.framesRemainingDirty <= 0 {
		return false
	}
	r.framesRemainingDirty--
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
