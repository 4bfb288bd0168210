package uniform_region

import "fmt"

// ConstantBufferAlignment is the record stride alignment required when a
// region is bound as a constant/uniform buffer with per-record dynamic
// offsets. 256 bytes is the minimum guaranteed by D3D12, Vulkan, and WebGPU.
const ConstantBufferAlignment = 256

// regionConfig collects construction options before the region is built.
type regionConfig struct {
	alignment int
}

// UniformRegionOption is a functional option used to configure a UniformRegion during construction.
type UniformRegionOption func(*regionConfig)

// WithAlignment pads the record stride up to a multiple of align. Use
// ConstantBufferAlignment for regions addressed with per-record dynamic
// offsets; leave unset for tightly packed structured buffers. align must be a
// power of two.
//
// Parameters:
//   - align: the stride alignment in bytes, a power of two
//
// Returns:
//   - UniformRegionOption: a function that sets the stride alignment
func WithAlignment(align int) UniformRegionOption {
	return func(cfg *regionConfig) {
		if align <= 0 || align&(align-1) != 0 {
			panic(fmt.Sprintf("uniform_region: alignment must be a positive power of two, got %d", align))
		}
		cfg.alignment = align
	}
}
