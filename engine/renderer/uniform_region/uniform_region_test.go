package uniform_region

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRecord is a minimal Record for exercising region layout.
type testRecord struct {
	a, b uint32
	// payload lets tests fake a record that marshals larger than Size reports.
	payload []byte
}

func (r *testRecord) Size() int {
	return 8
}

func (r *testRecord) Marshal() []byte {
	if r.payload != nil {
		return r.payload
	}
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf[0:], r.a)
	binary.LittleEndian.PutUint32(buf[4:], r.b)
	return buf
}

func TestStrideIsPaddedToAlignment(t *testing.T) {
	r := NewUniformRegion("test", 4, &testRecord{}, WithAlignment(256))

	assert.Equal(t, 256, r.Stride())
	assert.Equal(t, 4, r.Capacity())
	assert.Len(t, r.Bytes(), 4*256)
	assert.Equal(t, uint64(512), r.Offset(2))
}

func TestStrideIsPackedWithoutAlignment(t *testing.T) {
	r := NewUniformRegion("test", 3, &testRecord{})

	assert.Equal(t, 8, r.Stride())
	assert.Len(t, r.Bytes(), 24)
	assert.Equal(t, uint64(8), r.Offset(1))
}

func TestWriteLandsAtSlotOffset(t *testing.T) {
	r := NewUniformRegion("test", 3, &testRecord{})

	r.Write(1, &testRecord{a: 7, b: 9})

	data := r.Bytes()
	assert.Equal(t, uint32(7), binary.LittleEndian.Uint32(data[8:]))
	assert.Equal(t, uint32(9), binary.LittleEndian.Uint32(data[12:]))
	// Neighboring slots stay zeroed.
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(data[0:]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(data[16:]))
}

func TestWriteOverwritesUnconditionally(t *testing.T) {
	r := NewUniformRegion("test", 1, &testRecord{})

	r.Write(0, &testRecord{a: 1, b: 2})
	r.Write(0, &testRecord{a: 3, b: 4})

	data := r.Bytes()
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(data[0:]))
	assert.Equal(t, uint32(4), binary.LittleEndian.Uint32(data[4:]))
}

func TestWriteOutOfRangePanics(t *testing.T) {
	r := NewUniformRegion("test", 2, &testRecord{})

	assert.Panics(t, func() { r.Write(-1, &testRecord{}) })
	assert.Panics(t, func() { r.Write(2, &testRecord{}) })
}

func TestWriteOversizedRecordPanics(t *testing.T) {
	r := NewUniformRegion("test", 1, &testRecord{})

	assert.Panics(t, func() {
		r.Write(0, &testRecord{payload: make([]byte, 9)})
	})
}

func TestZeroCapacityPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewUniformRegion("test", 0, &testRecord{})
	})
}

func TestInvalidAlignmentPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewUniformRegion("test", 1, &testRecord{}, WithAlignment(3))
	})
}

func TestGPUBaseAddressRoundTrip(t *testing.T) {
	r := NewUniformRegion("test", 1, &testRecord{})

	require.Equal(t, uint64(0), r.GPUBaseAddress())
	r.SetGPUBaseAddress(0xDEAD0000)
	assert.Equal(t, uint64(0xDEAD0000), r.GPUBaseAddress())
}
