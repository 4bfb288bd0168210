package renderer

import (
	"github.com/orrery-engine/orrery/engine/camera"
	"github.com/orrery-engine/orrery/engine/render_item"
	"github.com/orrery-engine/orrery/engine/renderer/material"
)

// SceneView is the read side of the scene the update passes consume. The
// scene layer implements it; the scheduler never mutates scene state beyond
// consuming dirty countdowns.
type SceneView interface {
	// RenderItems returns all registered render items in registration order.
	//
	// Returns:
	//   - []render_item.RenderItem: the registered items
	RenderItems() []render_item.RenderItem

	// Materials returns all registered materials in registration order.
	//
	// Returns:
	//   - []material.Material: the registered materials
	Materials() []material.Material

	// CommonUniform builds the per-frame common record: camera matrices,
	// viewport metrics, timing, and the light rig.
	//
	// Returns:
	//   - *camera.GPUCommonUniform: the record for this frame
	CommonUniform() *camera.GPUCommonUniform

	// MarkDirty resets the dirty countdown of the item or material registered
	// under id.
	//
	// Parameters:
	//   - id: the scene registry ID
	//
	// Returns:
	//   - bool: true if the ID was found and marked
	MarkDirty(id uint64) bool
}
