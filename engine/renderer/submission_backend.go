package renderer

import (
	"github.com/orrery-engine/orrery/engine/renderer/frame_slot"
	"github.com/orrery-engine/orrery/engine/renderer/timeline"
)

// SubmissionBackend abstracts the GPU API the scheduler submits frames
// through. The backend owns the GPU backing of every region, flushes the
// CPU staging copies at submit time, and advances the scheduler's timeline
// when the GPU reports the batch complete.
type SubmissionBackend interface {
	// BindTimeline hands the backend the timeline to signal on completion.
	// Called once by the scheduler during pool construction, before any
	// NewRecordingContext or InitRegions call.
	//
	// Parameters:
	//   - tl: the scheduler's timeline
	BindTimeline(tl timeline.Timeline)

	// NewRecordingContext creates the recording context for the slot at the
	// given pool index.
	//
	// Parameters:
	//   - slotIndex: the slot's position in the frame pool
	//
	// Returns:
	//   - frame_slot.RecordingContext: the backend's recording context
	NewRecordingContext(slotIndex int) frame_slot.RecordingContext

	// InitRegions allocates GPU backings for the slot's regions and stamps
	// each region's GPU base address. Called once per slot at pool build.
	//
	// Parameters:
	//   - slot: the freshly created slot
	InitRegions(slot frame_slot.FrameSlot)

	// Submit flushes the slot's region bytes to their GPU backings, submits
	// the slot's recorded commands, and arranges for the timeline to be
	// signaled with ticket once the GPU finishes the batch.
	//
	// Parameters:
	//   - slot: the frame being submitted
	//   - ticket: the timeline ticket stamped on the slot
	//
	// Returns:
	//   - error: nil on success, or the API's submission failure
	Submit(slot frame_slot.FrameSlot, ticket uint64) error

	// Release frees all GPU resources the backend allocated.
	Release()
}
