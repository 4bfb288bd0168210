package render_item

import (
	"github.com/orrery-engine/orrery/engine/renderer/material"
)

// DefaultPropagationWindow matches the default frame pool depth. Scenes using
// a different pool depth must configure items with WithPropagationWindow to
// keep the two in agreement.
const DefaultPropagationWindow = 3

// RenderItemBuilderOption is a function that configures a render item during construction.
type RenderItemBuilderOption func(*renderItem)

// WithName is an option builder that sets the item's human-readable label.
//
// Parameters:
//   - name: the label for the item
//
// Returns:
//   - RenderItemBuilderOption: a function that applies the name option to an item
func WithName(name string) RenderItemBuilderOption {
	return func(r *renderItem) {
		r.name = name
	}
}

// WithTransform is an option builder that sets the item's initial world transform.
//
// Parameters:
//   - transform: the world matrix (column-major)
//
// Returns:
//   - RenderItemBuilderOption: a function that applies the transform option to an item
func WithTransform(transform [16]float32) RenderItemBuilderOption {
	return func(r *renderItem) {
		r.transform = transform
	}
}

// WithTexTransform is an option builder that sets the item's texture coordinate transform.
//
// Parameters:
//   - transform: the texture transform matrix (column-major)
//
// Returns:
//   - RenderItemBuilderOption: a function that applies the texture transform option to an item
func WithTexTransform(transform [16]float32) RenderItemBuilderOption {
	return func(r *renderItem) {
		r.texTransform = transform
	}
}

// WithMaterial is an option builder that sets the material the item draws with.
//
// Parameters:
//   - mat: the material to associate
//
// Returns:
//   - RenderItemBuilderOption: a function that applies the material option to an item
func WithMaterial(mat material.Material) RenderItemBuilderOption {
	return func(r *renderItem) {
		r.mat = mat
	}
}

// WithDrawRange is an option builder that sets the index-buffer range the item draws.
//
// Parameters:
//   - indexCount: number of indices to draw
//   - startIndex: first index within the shared index buffer
//   - baseVertex: value added to each index before vertex lookup
//
// Returns:
//   - RenderItemBuilderOption: a function that applies the draw range option to an item
func WithDrawRange(indexCount, startIndex uint32, baseVertex int32) RenderItemBuilderOption {
	return func(r *renderItem) {
		r.drawRange = DrawRange{
			IndexCount:         indexCount,
			StartIndexLocation: startIndex,
			BaseVertexLocation: baseVertex,
		}
	}
}

// WithStatic is an option builder that sets the item's static flag. Static
// items use the dirty countdown; dynamic items are rewritten every frame.
//
// Parameters:
//   - static: true for a static item (the default), false for a dynamic one
//
// Returns:
//   - RenderItemBuilderOption: a function that applies the static option to an item
func WithStatic(static bool) RenderItemBuilderOption {
	return func(r *renderItem) {
		r.static = static
	}
}

// WithAnimator is an option builder that installs a per-tick animator function.
//
// Parameters:
//   - fn: the animator to invoke each tick
//
// Returns:
//   - RenderItemBuilderOption: a function that applies the animator option to an item
func WithAnimator(fn AnimatorFunc) RenderItemBuilderOption {
	return func(r *renderItem) {
		r.animator = fn
	}
}

// WithPropagationWindow is an option builder that sets the number of frames a
// change keeps being rewritten for. Must equal the frame pool depth of the
// scheduler this item is rendered with.
//
// Parameters:
//   - frames: the propagation window in frames (> 0)
//
// Returns:
//   - RenderItemBuilderOption: a function that applies the propagation window option to an item
func WithPropagationWindow(frames int) RenderItemBuilderOption {
	if frames <= 0 {
		panic("render_item: propagation window must be positive")
	}
	return func(r *renderItem) {
		r.propagationWindow = frames
	}
}
