package camera

import (
	"unsafe"

	"github.com/orrery-engine/orrery/common"
	"github.com/orrery-engine/orrery/engine/light"
)

// GPUCommonUniform is the GPU-aligned record for the per-frame common uniform
// category: camera matrices, viewport metrics, timing, and the light rig. It
// is rebuilt and rewritten unconditionally every tick; the common category
// has no dirty-skip optimization because it is cheap and always changing.
// Size: 1232 bytes (std430 aligned).
type GPUCommonUniform struct {
	View        [16]float32 // offset   0: world -> view (mat4x4<f32>)
	InvView     [16]float32 // offset  64: view -> world
	Proj        [16]float32 // offset 128: view -> clip
	InvProj     [16]float32 // offset 192: clip -> view
	ViewProj    [16]float32 // offset 256: world -> clip
	InvViewProj [16]float32 // offset 320: clip -> world

	CameraPosition [3]float32 // offset 384: world-space camera position
	_pad0          float32    // offset 396

	RenderTargetSize    [2]float32 // offset 400: render target extent in pixels
	InvRenderTargetSize [2]float32 // offset 408: reciprocal extent

	NearZ     float32 // offset 416
	FarZ      float32 // offset 420
	TotalTime float32 // offset 424: seconds since the scene clock started
	DeltaTime float32 // offset 428: seconds since the previous tick

	AmbientLight [4]float32 // offset 432: ambient RGBA term

	LightCount uint32    // offset 448: number of populated Lights entries
	_pad1      [3]uint32 // offset 452

	Lights [light.MaxLights]light.GPULight // offset 464: fixed-size light array
}

// Size returns the size of the GPUCommonUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (1232)
func (g *GPUCommonUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCommonUniform struct into a byte buffer suitable
// for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCommonUniform) Marshal() []byte {
	buf := make([]byte, g.Size())

	common.PutMat4(buf, 0, g.View)
	common.PutMat4(buf, 64, g.InvView)
	common.PutMat4(buf, 128, g.Proj)
	common.PutMat4(buf, 192, g.InvProj)
	common.PutMat4(buf, 256, g.ViewProj)
	common.PutMat4(buf, 320, g.InvViewProj)

	common.PutFloats(buf, 384, g.CameraPosition[0], g.CameraPosition[1], g.CameraPosition[2], 0)
	common.PutFloats(buf, 400, g.RenderTargetSize[0], g.RenderTargetSize[1])
	common.PutFloats(buf, 408, g.InvRenderTargetSize[0], g.InvRenderTargetSize[1])
	common.PutFloats(buf, 416, g.NearZ, g.FarZ, g.TotalTime, g.DeltaTime)
	common.PutFloats(buf, 432, g.AmbientLight[0], g.AmbientLight[1], g.AmbientLight[2], g.AmbientLight[3])
	common.PutUint32(buf, 448, g.LightCount)

	for i := range g.Lights {
		g.Lights[i].MarshalInto(buf, 464+i*48)
	}
	return buf
}
