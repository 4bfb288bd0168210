package common

import (
	"encoding/binary"
	"math"
)

// PutFloat32 writes a single float32 into buf at the given byte offset in
// little-endian IEEE 754 format, as expected by GPU uniform memory.
//
// Parameters:
//   - buf: destination buffer (must have at least off+4 bytes)
//   - off: byte offset to write at
//   - v: the value to write
func PutFloat32(buf []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
}

// PutUint32 writes a single uint32 into buf at the given byte offset in
// little-endian format.
//
// Parameters:
//   - buf: destination buffer (must have at least off+4 bytes)
//   - off: byte offset to write at
//   - v: the value to write
func PutUint32(buf []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(buf[off:], v)
}

// PutFloats writes a sequence of float32 values into buf starting at the given
// byte offset. Used for vec2/vec3/vec4 and mat4 fields of GPU record types.
//
// Parameters:
//   - buf: destination buffer (must have at least off+4*len(vs) bytes)
//   - off: byte offset of the first value
//   - vs: the values to write, tightly packed
func PutFloats(buf []byte, off int, vs ...float32) {
	for i, v := range vs {
		binary.LittleEndian.PutUint32(buf[off+i*4:], math.Float32bits(v))
	}
}

// PutMat4 writes a column-major 4x4 matrix into buf starting at the given byte
// offset (64 bytes).
//
// Parameters:
//   - buf: destination buffer (must have at least off+64 bytes)
//   - off: byte offset of the first element
//   - m: the matrix to write
func PutMat4(buf []byte, off int, m [16]float32) {
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[off+i*4:], math.Float32bits(m[i]))
	}
}

// AlignUp rounds n up to the next multiple of align. align must be a power of
// two. Used to pad uniform record strides to the GPU's buffer offset alignment.
//
// Parameters:
//   - n: the value to round up
//   - align: the alignment, a power of two
//
// Returns:
//   - int: the smallest multiple of align that is >= n
func AlignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}
