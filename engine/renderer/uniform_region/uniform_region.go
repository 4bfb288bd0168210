package uniform_region

import (
	"fmt"

	"github.com/orrery-engine/orrery/common"
)

// Record is the contract satisfied by GPU record types stored in a region.
// Size reports the record's GPU byte size; Marshal serializes the record into
// the layout the shaders read (little-endian, std430-style alignment).
type Record interface {
	Size() int
	Marshal() []byte
}

// uniformRegion is the implementation of the UniformRegion interface.
type uniformRegion[T Record] struct {
	// label is a debug label, also used by submission backends to key the
	// region's GPU buffer.
	label string

	capacity int
	stride   int
	data     []byte

	// gpuBaseAddress is a backend-defined handle for where this region lives
	// on the GPU (a virtual address on APIs that expose one, zero otherwise).
	// Stamped by the submission backend when it allocates the GPU backing.
	gpuBaseAddress uint64
}

// Region is the untyped view of a uniform region, used by frame slots and
// submission backends that move region bytes to the GPU without caring about
// the record type.
type Region interface {
	// Label returns the debug label for this region.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// Capacity returns the fixed number of record slots in this region.
	//
	// Returns:
	//   - int: the capacity set at construction
	Capacity() int

	// Stride returns the padded byte distance between consecutive records.
	//
	// Returns:
	//   - int: the record stride in bytes
	Stride() int

	// Bytes returns the CPU staging copy of the region's memory. The slice is
	// the region's backing store; submission backends upload it directly.
	// Callers must not retain it across a Write.
	//
	// Returns:
	//   - []byte: the staged region contents, capacity*stride bytes
	Bytes() []byte

	// Offset returns the byte offset of the record at index, suitable for use
	// as a dynamic buffer offset or address displacement.
	//
	// Parameters:
	//   - index: the record slot
	//
	// Returns:
	//   - uint64: index * stride
	Offset(index int) uint64

	// GPUBaseAddress returns the backend-defined GPU handle for this region,
	// or 0 if no backing has been allocated.
	//
	// Returns:
	//   - uint64: the backend-defined base address
	GPUBaseAddress() uint64

	// SetGPUBaseAddress stores the backend-defined GPU handle for this region.
	// Called by the submission backend when it allocates the GPU backing.
	//
	// Parameters:
	//   - addr: the backend-defined base address
	SetGPUBaseAddress(addr uint64)
}

// UniformRegion is a fixed-capacity, CPU-writable array of uniformly-sized GPU
// records, addressable by integer slot. It is write-only from the CPU side;
// the GPU consumer reads it independently once the surrounding command batch
// is submitted. The region performs no internal synchronization; the frame
// scheduler's wait-before-reuse protocol guarantees no write overlaps a read.
type UniformRegion[T Record] interface {
	Region

	// Write overwrites the record at index unconditionally. Panics if index is
	// outside [0, capacity) or if the marshaled record exceeds the stride;
	// both are programmer errors.
	//
	// Parameters:
	//   - index: the record slot to overwrite
	//   - record: the record to serialize into the slot
	Write(index int, record T)
}

// Compile-time check that uniformRegion implements UniformRegion.
var _ UniformRegion[Record] = &uniformRegion[Record]{}

// NewUniformRegion creates a region of capacity records laid out with the
// prototype's size, padded per the configured alignment. The prototype is only
// consulted for its Size; its contents are ignored.
//
// Parameters:
//   - label: debug label for the region
//   - capacity: fixed number of record slots (must be > 0)
//   - prototype: a record value used to derive the stride
//   - options: a variadic list of options to configure the region
//
// Returns:
//   - UniformRegion[T]: the new region with zeroed contents
func NewUniformRegion[T Record](label string, capacity int, prototype T, options ...UniformRegionOption) UniformRegion[T] {
	if capacity <= 0 {
		panic(fmt.Sprintf("uniform_region: %s: capacity must be positive, got %d", label, capacity))
	}

	cfg := regionConfig{alignment: 1}
	for _, opt := range options {
		opt(&cfg)
	}

	stride := prototype.Size()
	if cfg.alignment > 1 {
		stride = common.AlignUp(stride, cfg.alignment)
	}

	return &uniformRegion[T]{
		label:    label,
		capacity: capacity,
		stride:   stride,
		data:     make([]byte, capacity*stride),
	}
}

func (r *uniformRegion[T]) Label() string {
	return r.label
}

func (r *uniformRegion[T]) Capacity() int {
	return r.capacity
}

func (r *uniformRegion[T]) Stride() int {
	return r.stride
}

func (r *uniformRegion[T]) Bytes() []byte {
	return r.data
}

func (r *uniformRegion[T]) Offset(index int) uint64 {
	return uint64(index) * uint64(r.stride)
}

func (r *uniformRegion[T]) GPUBaseAddress() uint64 {
	return r.gpuBaseAddress
}

func (r *uniformRegion[T]) SetGPUBaseAddress(addr uint64) {
	r.gpuBaseAddress = addr
}

func (r *uniformRegion[T]) Write(index int, record T) {
	if index < 0 || index >= r.capacity {
		panic(fmt.Sprintf("uniform_region: %s: index %d out of range (capacity %d)", r.label, index, r.capacity))
	}
	b := record.Marshal()
	if len(b) > r.stride {
		panic(fmt.Sprintf("uniform_region: %s: record of %d bytes exceeds stride %d", r.label, len(b), r.stride))
	}
	copy(r.data[index*r.stride:], b)
}
