package material

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMaterialStartsFullyDirty(t *testing.T) {
	m := NewMaterial(WithPropagationWindow(3))
	assert.Equal(t, 3, m.FramesRemainingDirty())
}

func TestConsumeDirtyDecrementsToZero(t *testing.T) {
	m := NewMaterial(WithPropagationWindow(2))

	assert.True(t, m.ConsumeDirty())
	assert.True(t, m.ConsumeDirty())
	assert.False(t, m.ConsumeDirty())
}

func TestSettersResetCountdown(t *testing.T) {
	m := NewMaterial(WithPropagationWindow(3))
	for range 3 {
		m.ConsumeDirty()
	}
	assert.False(t, m.ConsumeDirty())

	m.SetRoughness(0.5)
	assert.Equal(t, 3, m.FramesRemainingDirty())

	for range 3 {
		m.ConsumeDirty()
	}
	m.SetDiffuseAlbedo([4]float32{1, 0, 0, 1})
	assert.Equal(t, 3, m.FramesRemainingDirty())
}

func TestUniformSlotAssignmentDoesNotDirty(t *testing.T) {
	m := NewMaterial(WithPropagationWindow(2))
	for range 2 {
		m.ConsumeDirty()
	}

	m.SetUniformSlot(4)
	assert.Equal(t, 0, m.FramesRemainingDirty())
	assert.Equal(t, 4, m.UniformSlot())
}

func TestGPURecordSnapshotsSurfaceProperties(t *testing.T) {
	m := NewMaterial(
		WithName("brass"),
		WithDiffuseAlbedo([4]float32{0.8, 0.6, 0.2, 1}),
		WithFresnelR0([3]float32{0.9, 0.8, 0.4}),
		WithRoughness(0.15),
		WithDiffuseMapIndex(3),
	)

	rec := GPURecord(m)
	assert.Equal(t, [4]float32{0.8, 0.6, 0.2, 1}, rec.DiffuseAlbedo)
	assert.Equal(t, [3]float32{0.9, 0.8, 0.4}, rec.FresnelR0)
	assert.InDelta(t, 0.15, rec.Roughness, 1e-6)
	assert.Equal(t, uint32(3), rec.DiffuseMapIndex)
	assert.Equal(t, 112, rec.Size())
	assert.Len(t, rec.Marshal(), 112)
}
