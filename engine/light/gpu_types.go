// package light defines the GPU light record embedded in the common uniform
// category and the default light rig used when a scene configures none.
package light

import (
	"unsafe"

	"github.com/orrery-engine/orrery/common"
)

// MaxLights is the fixed size of the light array in the common uniform record.
// Shaders index the array with a light count passed alongside; unused entries
// stay zeroed.
const MaxLights = 16

// GPULight is the GPU-aligned representation of one light source. The same
// 48-byte record serves directional, point, and spot lights; shaders pick the
// fields relevant to the light's kind.
type GPULight struct {
	Strength     [3]float32 // offset  0: light color/intensity (vec3<f32>)
	FalloffStart float32    // offset 12: point/spot only, distance where falloff begins
	Direction    [3]float32 // offset 16: directional/spot only, normalized direction
	FalloffEnd   float32    // offset 28: point/spot only, distance where intensity reaches zero
	Position     [3]float32 // offset 32: point/spot only, world-space position
	SpotPower    float32    // offset 44: spot only, angular attenuation exponent
}

// Size returns the size of the GPULight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (48)
func (g *GPULight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload
func (g *GPULight) Marshal() []byte {
	buf := make([]byte, g.Size())
	g.MarshalInto(buf, 0)
	return buf
}

// MarshalInto serializes the light into buf at the given byte offset. Used by
// the common uniform record to pack the light array without per-light
// allocations.
//
// Parameters:
//   - buf: destination buffer (must have at least off+48 bytes)
//   - off: byte offset to write at
func (g *GPULight) MarshalInto(buf []byte, off int) {
	common.PutFloats(buf, off, g.Strength[0], g.Strength[1], g.Strength[2], g.FalloffStart)
	common.PutFloats(buf, off+16, g.Direction[0], g.Direction[1], g.Direction[2], g.FalloffEnd)
	common.PutFloats(buf, off+32, g.Position[0], g.Position[1], g.Position[2], g.SpotPower)
}
