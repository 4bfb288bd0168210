package frame_slot

import (
	"fmt"

	"github.com/orrery-engine/orrery/engine/camera"
	"github.com/orrery-engine/orrery/engine/render_item"
	"github.com/orrery-engine/orrery/engine/renderer/material"
	"github.com/orrery-engine/orrery/engine/renderer/uniform_region"
)

// RecordingContext is the backend-owned command recording state bound to one
// frame slot. Reset recycles it for a fresh frame; it must only be called
// after the slot's completion ticket has been reached on the timeline.
type RecordingContext interface {
	// Reset recycles the context's command memory for re-recording.
	//
	// Returns:
	//   - error: nil on success, or the backend's reset failure
	Reset() error

	// Release frees the backend resources held by the context.
	Release()
}

// frameSlot is the implementation of the FrameSlot interface.
type frameSlot struct {
	index int
	label string

	ctx RecordingContext

	commonRegion   uniform_region.UniformRegion[*camera.GPUCommonUniform]
	objectRegion   uniform_region.UniformRegion[*render_item.GPUObjectUniform]
	materialRegion uniform_region.UniformRegion[*material.GPUMaterialParams]

	// completionTicket is the timeline ticket stamped at the slot's last
	// submission. Zero means the slot has never been submitted and may be
	// reused without waiting.
	completionTicket uint64
}

// FrameSlot bundles everything one in-flight frame owns: a recording context
// and a private copy of each per-frame uniform region (common, object,
// material). Slots are rotated round-robin by the frame scheduler; a slot is
// only handed back to the CPU after the timeline confirms the GPU finished
// reading its previous contents.
type FrameSlot interface {
	// Index returns the slot's position in the frame pool.
	//
	// Returns:
	//   - int: the pool index, in [0, pool depth)
	Index() int

	// Label returns the slot's debug label.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// Context returns the recording context bound to this slot, or nil if the
	// scheduler was built without a submission backend.
	//
	// Returns:
	//   - RecordingContext: the slot's recording context
	Context() RecordingContext

	// CommonRegion returns the slot's copy of the common uniform region
	// (capacity 1).
	//
	// Returns:
	//   - uniform_region.UniformRegion[*camera.GPUCommonUniform]: the common region
	CommonRegion() uniform_region.UniformRegion[*camera.GPUCommonUniform]

	// ObjectRegion returns the slot's copy of the object uniform region, one
	// slot per registered render item.
	//
	// Returns:
	//   - uniform_region.UniformRegion[*render_item.GPUObjectUniform]: the object region
	ObjectRegion() uniform_region.UniformRegion[*render_item.GPUObjectUniform]

	// MaterialRegion returns the slot's copy of the material uniform region,
	// one slot per registered material.
	//
	// Returns:
	//   - uniform_region.UniformRegion[*material.GPUMaterialParams]: the material region
	MaterialRegion() uniform_region.UniformRegion[*material.GPUMaterialParams]

	// Regions returns the untyped view of all three regions, in upload order
	// (common, object, material). Used by submission backends to allocate and
	// flush GPU backings without knowing the record types.
	//
	// Returns:
	//   - []uniform_region.Region: the slot's regions
	Regions() []uniform_region.Region

	// CompletionTicket returns the timeline ticket stamped at the slot's last
	// submission, or 0 if the slot has never been submitted.
	//
	// Returns:
	//   - uint64: the completion ticket
	CompletionTicket() uint64

	// SetCompletionTicket stamps the slot with the ticket of the submission
	// that last consumed it. Called by the scheduler at EndFrame.
	//
	// Parameters:
	//   - ticket: the freshly reserved timeline ticket
	SetCompletionTicket(ticket uint64)

	// Release frees the slot's recording context. The CPU-side regions are
	// garbage collected normally.
	Release()
}

var _ FrameSlot = &frameSlot{}

// NewFrameSlot creates the slot at the given pool index with freshly zeroed
// uniform regions sized by the provided options.
//
// Parameters:
//   - index: the slot's position in the frame pool
//   - options: a variadic list of options to configure the slot
//
// Returns:
//   - FrameSlot: the new slot with completion ticket 0
func NewFrameSlot(index int, options ...FrameSlotBuilderOption) FrameSlot {
	cfg := slotConfig{
		objectCapacity:   DefaultObjectCapacity,
		materialCapacity: DefaultMaterialCapacity,
	}
	for _, opt := range options {
		opt(&cfg)
	}

	label := fmt.Sprintf("frame%d", index)
	return &frameSlot{
		index: index,
		label: label,
		ctx:   cfg.ctx,
		commonRegion: uniform_region.NewUniformRegion(
			label+"/common", 1, &camera.GPUCommonUniform{},
			uniform_region.WithAlignment(uniform_region.ConstantBufferAlignment)),
		objectRegion: uniform_region.NewUniformRegion(
			label+"/object", cfg.objectCapacity, &render_item.GPUObjectUniform{},
			uniform_region.WithAlignment(uniform_region.ConstantBufferAlignment)),
		// Material records are read as a structured buffer, so they stay packed.
		materialRegion: uniform_region.NewUniformRegion(
			label+"/material", cfg.materialCapacity, &material.GPUMaterialParams{}),
	}
}

func (f *frameSlot) Index() int {
	return f.index
}

func (f *frameSlot) Label() string {
	return f.label
}

func (f *frameSlot) Context() RecordingContext {
	return f.ctx
}

func (f *frameSlot) CommonRegion() uniform_region.UniformRegion[*camera.GPUCommonUniform] {
	return f.commonRegion
}

func (f *frameSlot) ObjectRegion() uniform_region.UniformRegion[*render_item.GPUObjectUniform] {
	return f.objectRegion
}

func (f *frameSlot) MaterialRegion() uniform_region.UniformRegion[*material.GPUMaterialParams] {
	return f.materialRegion
}

func (f *frameSlot) Regions() []uniform_region.Region {
	return []uniform_region.Region{f.commonRegion, f.objectRegion, f.materialRegion}
}

func (f *frameSlot) CompletionTicket() uint64 {
	return f.completionTicket
}

func (f *frameSlot) SetCompletionTicket(ticket uint64) {
	f.completionTicket = ticket
}

func (f *frameSlot) Release() {
	if f.ctx != nil {
		f.ctx.Release()
		f.ctx = nil
	}
}
