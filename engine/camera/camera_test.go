package camera

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultCameraLooksDownNegativeZ(t *testing.T) {
	cam := NewCamera()

	assert.Equal(t, [3]float32{0, 0, 0}, cam.Position())

	// With the camera at the origin looking down -Z, the view matrix is the
	// identity.
	view := cam.View()
	for i, want := range [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1} {
		assert.InDelta(t, want, view[i], 1e-5, "view[%d]", i)
	}
}

func TestWalkMovesAlongLook(t *testing.T) {
	cam := NewCamera()
	cam.Walk(5)
	cam.UpdateViewMatrix()

	pos := cam.Position()
	assert.InDelta(t, 0, pos[0], 1e-6)
	assert.InDelta(t, 0, pos[1], 1e-6)
	assert.InDelta(t, -5, pos[2], 1e-6)
}

func TestStrafeMovesAlongRight(t *testing.T) {
	cam := NewCamera()
	cam.Strafe(3)
	cam.UpdateViewMatrix()

	pos := cam.Position()
	assert.InDelta(t, 3, pos[0], 1e-6)
	assert.InDelta(t, 0, pos[2], 1e-6)
}

func TestRotateYTurnsLookDirection(t *testing.T) {
	cam := NewCamera()
	cam.RotateY(float32(math.Pi) / 2)
	cam.UpdateViewMatrix()

	// After a quarter turn the camera walks along -X instead of -Z.
	cam.Walk(1)
	pos := cam.Position()
	assert.InDelta(t, -1, pos[0], 1e-5)
	assert.InDelta(t, 0, pos[2], 1e-5)
}

func TestSetLensRebuildsProjection(t *testing.T) {
	cam := NewCamera()
	before := cam.Proj()

	cam.SetLens(float32(math.Pi)/3, 2.0, 0.5, 500)
	after := cam.Proj()

	assert.NotEqual(t, before, after)
	assert.InDelta(t, 0.5, cam.NearZ(), 1e-6)
	assert.InDelta(t, 500, cam.FarZ(), 1e-6)
}

func TestGPUCommonUniformLayout(t *testing.T) {
	rec := &GPUCommonUniform{}
	assert.Equal(t, 1232, rec.Size())
	assert.Len(t, rec.Marshal(), 1232)
}
