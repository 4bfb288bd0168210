package frame_slot

// Default region capacities, generous enough for the bundled examples. Scenes
// with more items or materials size the regions explicitly.
const (
	DefaultObjectCapacity   = 256
	DefaultMaterialCapacity = 64
)

// slotConfig collects construction-time settings for a frame slot.
type slotConfig struct {
	objectCapacity   int
	materialCapacity int
	ctx              RecordingContext
}

// FrameSlotBuilderOption is a function that configures a frame slot during construction.
type FrameSlotBuilderOption func(*slotConfig)

// WithObjectCapacity is an option builder that sets the number of record slots
// in the slot's object uniform region.
//
// Parameters:
//   - capacity: the number of render items the region can hold (> 0)
//
// Returns:
//   - FrameSlotBuilderOption: a function that applies the object capacity option to a slot
func WithObjectCapacity(capacity int) FrameSlotBuilderOption {
	return func(cfg *slotConfig) {
		cfg.objectCapacity = capacity
	}
}

// WithMaterialCapacity is an option builder that sets the number of record
// slots in the slot's material uniform region.
//
// Parameters:
//   - capacity: the number of materials the region can hold (> 0)
//
// Returns:
//   - FrameSlotBuilderOption: a function that applies the material capacity option to a slot
func WithMaterialCapacity(capacity int) FrameSlotBuilderOption {
	return func(cfg *slotConfig) {
		cfg.materialCapacity = capacity
	}
}

// WithRecordingContext is an option builder that binds a backend recording
// context to the slot.
//
// Parameters:
//   - ctx: the backend's recording context for this slot
//
// Returns:
//   - FrameSlotBuilderOption: a function that applies the recording context option to a slot
func WithRecordingContext(ctx RecordingContext) FrameSlotBuilderOption {
	return func(cfg *slotConfig) {
		cfg.ctx = ctx
	}
}
