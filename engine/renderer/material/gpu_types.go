package material

import (
	"unsafe"

	"github.com/orrery-engine/orrery/common"
)

// GPUMaterialParams is the GPU-aligned record written into the material
// uniform region, one slot per registered material. Size: 112 bytes.
type GPUMaterialParams struct {
	DiffuseAlbedo   [4]float32  // offset  0: diffuse RGBA (vec4<f32>)
	FresnelR0       [3]float32  // offset 16: reflectance at normal incidence
	Roughness       float32     // offset 28
	MatTransform    [16]float32 // offset 32: UV transform (mat4x4<f32>)
	DiffuseMapIndex uint32      // offset 96: texture array index
	_pad            [3]uint32   // offset 100
}

// Size returns the size of the GPUMaterialParams struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (112)
func (g *GPUMaterialParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterialParams struct into a byte buffer suitable
// for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUMaterialParams) Marshal() []byte {
	buf := make([]byte, g.Size())
	common.PutFloats(buf, 0, g.DiffuseAlbedo[0], g.DiffuseAlbedo[1], g.DiffuseAlbedo[2], g.DiffuseAlbedo[3])
	common.PutFloats(buf, 16, g.FresnelR0[0], g.FresnelR0[1], g.FresnelR0[2], g.Roughness)
	common.PutMat4(buf, 32, g.MatTransform)
	common.PutUint32(buf, 96, g.DiffuseMapIndex)
	return buf
}

// GPURecord builds the GPU record for a material from its current surface
// properties.
//
// Parameters:
//   - m: the material to snapshot
//
// Returns:
//   - *GPUMaterialParams: the record ready for a region write
func GPURecord(m Material) *GPUMaterialParams {
	return &GPUMaterialParams{
		DiffuseAlbedo:   m.DiffuseAlbedo(),
		FresnelR0:       m.FresnelR0(),
		Roughness:       m.Roughness(),
		MatTransform:    m.Transform(),
		DiffuseMapIndex: m.DiffuseMapIndex(),
	}
}
