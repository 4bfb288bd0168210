package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orrery-engine/orrery/engine/camera"
	"github.com/orrery-engine/orrery/engine/light"
	"github.com/orrery-engine/orrery/engine/render_item"
	"github.com/orrery-engine/orrery/engine/renderer/material"
)

func newTestScene(t *testing.T) Scene {
	t.Helper()
	return NewScene("test", camera.NewCamera(), WithTickWorkers(2))
}

func TestRegistrationAssignsIDsAndSlots(t *testing.T) {
	sc := newTestScene(t)

	a := render_item.NewRenderItem(render_item.WithName("a"))
	b := render_item.NewRenderItem(render_item.WithName("b"))
	m := material.NewMaterial(material.WithName("m"))

	idA := sc.AddRenderItem(a)
	idM := sc.AddMaterial(m)
	idB := sc.AddRenderItem(b)

	// IDs are scene-unique across items and materials, starting at 1.
	assert.Equal(t, uint64(1), idA)
	assert.Equal(t, uint64(2), idM)
	assert.Equal(t, uint64(3), idB)

	// Slots are per-region positions in registration order.
	assert.Equal(t, 0, a.UniformSlot())
	assert.Equal(t, 1, b.UniformSlot())
	assert.Equal(t, 0, m.UniformSlot())

	assert.Same(t, a, sc.RenderItem(idA))
	assert.Same(t, b, sc.RenderItem(idB))
	assert.Same(t, m, sc.Material(idM))
	assert.Nil(t, sc.RenderItem(idM))
	assert.Nil(t, sc.Material(99))
}

func TestMarkDirtyFindsItemsAndMaterials(t *testing.T) {
	sc := newTestScene(t)

	item := render_item.NewRenderItem()
	mat := material.NewMaterial()
	itemID := sc.AddRenderItem(item)
	matID := sc.AddMaterial(mat)

	for range 3 {
		item.ConsumeDirty()
		mat.ConsumeDirty()
	}
	require.Equal(t, 0, item.FramesRemainingDirty())
	require.Equal(t, 0, mat.FramesRemainingDirty())

	assert.True(t, sc.MarkDirty(itemID))
	assert.True(t, sc.MarkDirty(matID))
	assert.False(t, sc.MarkDirty(1234))

	assert.Equal(t, 3, item.FramesRemainingDirty())
	assert.Equal(t, 3, mat.FramesRemainingDirty())
}

func TestTickAdvancesClockAndRunsAnimators(t *testing.T) {
	sc := newTestScene(t)

	var got [16]float32
	item := render_item.NewRenderItem(
		render_item.WithStatic(false),
		render_item.WithAnimator(func(totalTime, deltaTime float32, it render_item.RenderItem) {
			var world [16]float32
			world[0], world[5], world[10], world[15] = 1, 1, 1, 1
			world[12] = totalTime
			it.SetTransform(world)
			got = world
		}),
	)
	sc.AddRenderItem(item)

	sc.Tick(0.5)
	assert.InDelta(t, 0.5, sc.TotalTime(), 1e-6)
	assert.InDelta(t, 0.5, sc.DeltaTime(), 1e-6)
	assert.Equal(t, got, item.Transform())
	assert.InDelta(t, 0.5, item.Transform()[12], 1e-6)

	sc.Tick(0.25)
	assert.InDelta(t, 0.75, sc.TotalTime(), 1e-6)
	assert.InDelta(t, 0.75, item.Transform()[12], 1e-6)
}

func TestTickFansOutAllAnimators(t *testing.T) {
	sc := newTestScene(t)

	const n = 16
	items := make([]render_item.RenderItem, n)
	for i := range items {
		idx := float32(i)
		items[i] = render_item.NewRenderItem(
			render_item.WithStatic(false),
			render_item.WithAnimator(func(totalTime, deltaTime float32, it render_item.RenderItem) {
				var world [16]float32
				world[0], world[5], world[10], world[15] = 1, 1, 1, 1
				world[12] = idx
				it.SetTransform(world)
			}),
		)
		sc.AddRenderItem(items[i])
	}

	sc.Tick(1.0 / 60.0)

	for i, item := range items {
		assert.InDelta(t, float32(i), item.Transform()[12], 1e-6, "item %d", i)
	}
}

func TestCommonUniformCarriesSceneState(t *testing.T) {
	cam := camera.NewCamera(camera.WithPosition(1, 2, 3))
	sc := NewScene("test", cam,
		WithAmbient([4]float32{0.1, 0.2, 0.3, 1}),
		WithRenderTargetSize(800, 600),
		WithTickWorkers(1),
	)

	sc.Tick(0.1)
	rec := sc.CommonUniform()

	assert.Equal(t, [3]float32{1, 2, 3}, rec.CameraPosition)
	assert.Equal(t, [4]float32{0.1, 0.2, 0.3, 1}, rec.AmbientLight)
	assert.Equal(t, [2]float32{800, 600}, rec.RenderTargetSize)
	assert.InDelta(t, 1.0/800.0, rec.InvRenderTargetSize[0], 1e-9)
	assert.InDelta(t, 1.0/600.0, rec.InvRenderTargetSize[1], 1e-9)
	assert.InDelta(t, 0.1, rec.TotalTime, 1e-6)
	assert.InDelta(t, 0.1, rec.DeltaTime, 1e-6)
	assert.Equal(t, cam.View(), rec.View)
	assert.Equal(t, cam.Proj(), rec.Proj)

	// Default rig: three directional lights.
	assert.Equal(t, uint32(3), rec.LightCount)
	assert.Equal(t, light.DefaultDirectionalRig()[0], rec.Lights[0])
	assert.Equal(t, light.GPULight{}, rec.Lights[3])
}

func TestCommonUniformClampsLightsToMax(t *testing.T) {
	lights := make([]light.GPULight, light.MaxLights+4)
	for i := range lights {
		lights[i].Strength = [3]float32{float32(i), 0, 0}
	}
	sc := NewScene("test", camera.NewCamera(), WithLights(lights...), WithTickWorkers(1))

	rec := sc.CommonUniform()
	assert.Equal(t, uint32(light.MaxLights), rec.LightCount)
	assert.Equal(t, float32(light.MaxLights-1), rec.Lights[light.MaxLights-1].Strength[0])
}

func TestSetRenderTargetSizeUpdatesAspect(t *testing.T) {
	cam := camera.NewCamera()
	sc := NewScene("test", cam, WithTickWorkers(1))

	before := cam.Proj()
	sc.SetRenderTargetSize(1000, 500)
	after := cam.Proj()

	// proj[0] = f/aspect changes with the aspect ratio.
	assert.NotEqual(t, before[0], after[0])
	assert.Equal(t, [2]float32{1000, 500}, sc.CommonUniform().RenderTargetSize)
}
