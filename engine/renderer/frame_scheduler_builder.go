package renderer

import (
	"time"

	"github.com/orrery-engine/orrery/engine/renderer/timeline"
)

// DefaultPoolDepth is the number of frame slots a scheduler creates when none
// is configured. Three slots keep the CPU at most two frames ahead of the GPU.
const DefaultPoolDepth = 3

// schedulerConfig collects construction-time settings for a frame scheduler.
type schedulerConfig struct {
	poolDepth         int
	objectCapacity    int
	materialCapacity  int
	tl                timeline.Timeline
	backend           SubmissionBackend
	deviceLossTimeout time.Duration
	waitObserver      func(time.Duration)
}

// FrameSchedulerBuilderOption is a function that configures a frame scheduler during construction.
type FrameSchedulerBuilderOption func(*schedulerConfig)

// WithPoolDepth is an option builder that sets the number of frame slots in
// the pool. Every registered item and material must carry a propagation
// window equal to this value.
//
// Parameters:
//   - depth: the number of slots (> 0)
//
// Returns:
//   - FrameSchedulerBuilderOption: a function that applies the pool depth option to a scheduler
func WithPoolDepth(depth int) FrameSchedulerBuilderOption {
	return func(cfg *schedulerConfig) {
		cfg.poolDepth = depth
	}
}

// WithObjectCapacity is an option builder that sets the object region capacity
// of every slot in the pool.
//
// Parameters:
//   - capacity: the number of render items each slot's object region can hold
//
// Returns:
//   - FrameSchedulerBuilderOption: a function that applies the object capacity option to a scheduler
func WithObjectCapacity(capacity int) FrameSchedulerBuilderOption {
	return func(cfg *schedulerConfig) {
		cfg.objectCapacity = capacity
	}
}

// WithMaterialCapacity is an option builder that sets the material region
// capacity of every slot in the pool.
//
// Parameters:
//   - capacity: the number of materials each slot's material region can hold
//
// Returns:
//   - FrameSchedulerBuilderOption: a function that applies the material capacity option to a scheduler
func WithMaterialCapacity(capacity int) FrameSchedulerBuilderOption {
	return func(cfg *schedulerConfig) {
		cfg.materialCapacity = capacity
	}
}

// WithTimeline is an option builder that supplies an externally created
// timeline instead of letting the scheduler construct its own. Used by tests
// that drive completion manually.
//
// Parameters:
//   - tl: the timeline to pace the pool with
//
// Returns:
//   - FrameSchedulerBuilderOption: a function that applies the timeline option to a scheduler
func WithTimeline(tl timeline.Timeline) FrameSchedulerBuilderOption {
	return func(cfg *schedulerConfig) {
		cfg.tl = tl
	}
}

// WithSubmissionBackend is an option builder that binds the scheduler to a
// submission backend. Without one the scheduler still paces and updates
// regions, but nothing advances the timeline automatically.
//
// Parameters:
//   - backend: the submission backend to submit frames through
//
// Returns:
//   - FrameSchedulerBuilderOption: a function that applies the backend option to a scheduler
func WithSubmissionBackend(backend SubmissionBackend) FrameSchedulerBuilderOption {
	return func(cfg *schedulerConfig) {
		cfg.backend = backend
	}
}

// WithDeviceLossTimeout is an option builder that bounds each wait-before-reuse
// block. Ignored when WithTimeline supplies the timeline.
//
// Parameters:
//   - d: the maximum time BeginFrame may block before reporting device loss
//
// Returns:
//   - FrameSchedulerBuilderOption: a function that applies the timeout option to a scheduler
func WithDeviceLossTimeout(d time.Duration) FrameSchedulerBuilderOption {
	return func(cfg *schedulerConfig) {
		cfg.deviceLossTimeout = d
	}
}

// WithWaitObserver is an option builder that installs a callback receiving the
// time each BeginFrame spent blocked on the timeline. The engine wires this to
// the profiler's blocked-wait counter.
//
// Parameters:
//   - fn: the callback invoked after each blocking wait
//
// Returns:
//   - FrameSchedulerBuilderOption: a function that applies the wait observer option to a scheduler
func WithWaitObserver(fn func(time.Duration)) FrameSchedulerBuilderOption {
	return func(cfg *schedulerConfig) {
		cfg.waitObserver = fn
	}
}
