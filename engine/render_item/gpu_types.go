package render_item

import (
	"unsafe"

	"github.com/orrery-engine/orrery/common"
)

// GPUObjectUniform is the GPU-aligned record written into the object uniform
// region, one slot per registered render item. Size: 144 bytes.
type GPUObjectUniform struct {
	World         [16]float32 // offset   0: world matrix (mat4x4<f32>)
	TexTransform  [16]float32 // offset  64: texture coordinate transform
	MaterialIndex uint32      // offset 128: slot of the item's material in the material region
	_pad          [3]uint32   // offset 132
}

// Size returns the size of the GPUObjectUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (144)
func (g *GPUObjectUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUObjectUniform struct into a byte buffer suitable
// for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUObjectUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	common.PutMat4(buf, 0, g.World)
	common.PutMat4(buf, 64, g.TexTransform)
	common.PutUint32(buf, 128, g.MaterialIndex)
	return buf
}

// GPURecord builds the GPU record for a render item from its current
// transform and material binding.
//
// Parameters:
//   - r: the render item to snapshot
//
// Returns:
//   - *GPUObjectUniform: the record ready for a region write
func GPURecord(r RenderItem) *GPUObjectUniform {
	rec := &GPUObjectUniform{
		World:        r.Transform(),
		TexTransform: r.TexTransform(),
	}
	if mat := r.Material(); mat != nil {
		rec.MaterialIndex = uint32(mat.UniformSlot())
	}
	return rec
}
