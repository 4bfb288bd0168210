package renderer

import (
	"github.com/orrery-engine/orrery/engine/render_item"
	"github.com/orrery-engine/orrery/engine/renderer/frame_slot"
	"github.com/orrery-engine/orrery/engine/renderer/material"
)

// runUpdatePasses writes this frame's records into the slot's regions. Object
// and material passes honor the dirty countdowns; the common pass rewrites
// unconditionally.
func (s *frameScheduler) runUpdatePasses(slot frame_slot.FrameSlot) {
	s.updateObjectRegion(slot)
	s.updateMaterialRegion(slot)
	s.updateCommonRegion(slot)
}

// updateObjectRegion rewrites the object record of every item due this frame.
// Dynamic items are always due; static items only while their countdown is
// positive. ConsumeDirty decrements, so after pool-depth consecutive frames a
// static change has reached every slot and the item goes quiet.
func (s *frameScheduler) updateObjectRegion(slot frame_slot.FrameSlot) {
	region := slot.ObjectRegion()
	for _, item := range s.view.RenderItems() {
		if !item.ConsumeDirty() {
			continue
		}
		region.Write(item.UniformSlot(), render_item.GPURecord(item))
	}
}

// updateMaterialRegion rewrites the material record of every material whose
// countdown is positive.
func (s *frameScheduler) updateMaterialRegion(slot frame_slot.FrameSlot) {
	region := slot.MaterialRegion()
	for _, mat := range s.view.Materials() {
		if !mat.ConsumeDirty() {
			continue
		}
		region.Write(mat.UniformSlot(), material.GPURecord(mat))
	}
}

// updateCommonRegion rewrites the single common record from the view's camera,
// clock, and light state.
func (s *frameScheduler) updateCommonRegion(slot frame_slot.FrameSlot) {
	slot.CommonRegion().Write(0, s.view.CommonUniform())
}
