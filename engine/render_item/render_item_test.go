package render_item

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orrery-engine/orrery/engine/renderer/material"
)

func TestStaticCountdownDrainsOverWindow(t *testing.T) {
	item := NewRenderItem(WithPropagationWindow(2))

	// Fresh items start fully dirty: exactly window writes, then quiet.
	assert.True(t, item.ConsumeDirty())
	assert.True(t, item.ConsumeDirty())
	assert.False(t, item.ConsumeDirty())
	assert.False(t, item.ConsumeDirty())
	assert.Equal(t, 0, item.FramesRemainingDirty())
}

func TestTransformChangeResetsCountdown(t *testing.T) {
	item := NewRenderItem(WithPropagationWindow(3))
	for range 3 {
		item.ConsumeDirty()
	}
	assert.False(t, item.ConsumeDirty())

	var world [16]float32
	world[0], world[5], world[10], world[15] = 1, 1, 1, 1
	item.SetTransform(world)

	assert.Equal(t, 3, item.FramesRemainingDirty())
}

func TestChangeMidCountdownRestartsFullWindow(t *testing.T) {
	item := NewRenderItem(WithPropagationWindow(3))
	item.ConsumeDirty()
	assert.Equal(t, 2, item.FramesRemainingDirty())

	// A second change before the countdown drains restarts it, never stacks.
	item.SetTexTransform([16]float32{1})
	assert.Equal(t, 3, item.FramesRemainingDirty())
}

func TestDynamicItemSkipsCountdown(t *testing.T) {
	item := NewRenderItem(WithStatic(false), WithPropagationWindow(3))

	for range 10 {
		assert.True(t, item.ConsumeDirty())
	}
	// The countdown is never consumed on the dynamic path.
	assert.Equal(t, 3, item.FramesRemainingDirty())
}

func TestStaticToggleRedirties(t *testing.T) {
	item := NewRenderItem(WithPropagationWindow(2))
	for range 2 {
		item.ConsumeDirty()
	}
	assert.Equal(t, 0, item.FramesRemainingDirty())

	item.SetStatic(false)
	assert.Equal(t, 2, item.FramesRemainingDirty())

	item.SetStatic(true)
	assert.Equal(t, 2, item.FramesRemainingDirty())

	// Setting the flag to its current value is a no-op.
	item.ConsumeDirty()
	item.SetStatic(true)
	assert.Equal(t, 1, item.FramesRemainingDirty())
}

func TestGPURecordEmbedsMaterialSlot(t *testing.T) {
	mat := material.NewMaterial(material.WithName("rock"))
	mat.SetUniformSlot(5)

	item := NewRenderItem(WithMaterial(mat))
	rec := GPURecord(item)

	assert.Equal(t, uint32(5), rec.MaterialIndex)
	assert.Equal(t, item.Transform(), rec.World)
	assert.Equal(t, 144, rec.Size())
}

func TestGPURecordWithoutMaterial(t *testing.T) {
	item := NewRenderItem()
	rec := GPURecord(item)
	assert.Equal(t, uint32(0), rec.MaterialIndex)
}

func TestInvalidPropagationWindowPanics(t *testing.T) {
	assert.Panics(t, func() {
		WithPropagationWindow(0)
	})
}
