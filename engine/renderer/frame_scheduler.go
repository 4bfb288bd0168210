package renderer

import (
	"fmt"
	"time"

	"github.com/orrery-engine/orrery/engine/renderer/frame_slot"
	"github.com/orrery-engine/orrery/engine/renderer/timeline"
)

// frameScheduler is the implementation of the FrameScheduler interface.
type frameScheduler struct {
	slots   []frame_slot.FrameSlot
	current int

	tl      timeline.Timeline
	backend SubmissionBackend
	view    SceneView

	// waitObserver, when set, receives the time BeginFrame spent blocked on
	// the timeline. Wired to the profiler by the engine.
	waitObserver func(time.Duration)

	// inFrame guards against overlapping BeginFrame/EndFrame pairs.
	inFrame bool
	active  frame_slot.FrameSlot
}

// FrameScheduler owns the rotating pool of frame slots and the timeline that
// paces the CPU against the GPU. Each frame the CPU calls BeginFrame, which
// rotates to the next slot, blocks until the GPU has finished reading that
// slot's previous contents, and runs the dirty-propagation update passes that
// rewrite changed records into the slot's regions. EndFrame stamps the slot
// with a fresh timeline ticket and hands the frame to the submission backend.
//
// The scheduler is single-producer: BeginFrame and EndFrame must be called
// from one goroutine, strictly alternating. Violations are programmer errors
// and panic.
type FrameScheduler interface {
	// PoolDepth returns the number of frame slots in the pool. This is also
	// the propagation window every registered item and material must carry.
	//
	// Returns:
	//   - int: the pool depth
	PoolDepth() int

	// Timeline returns the completion timeline pacing the pool.
	//
	// Returns:
	//   - timeline.Timeline: the scheduler's timeline
	Timeline() timeline.Timeline

	// BeginFrame rotates to the next frame slot, blocks until the slot's last
	// submission has completed, then runs the update passes that write dirty
	// records into the slot's regions. Panics if called while a frame is
	// already open.
	//
	// Returns:
	//   - frame_slot.FrameSlot: the slot for this frame, ready for recording
	//   - error: nil on success, or a device-loss error from the wait
	BeginFrame() (frame_slot.FrameSlot, error)

	// EndFrame reserves a fresh timeline ticket, stamps it on the slot, and
	// submits the slot's regions and recorded commands through the backend.
	// Panics if no frame is open or slot is not the slot BeginFrame returned.
	//
	// Parameters:
	//   - slot: the slot returned by the matching BeginFrame
	//
	// Returns:
	//   - error: nil on success, or the backend's submission failure
	EndFrame(slot frame_slot.FrameSlot) error

	// MarkDirty resets the dirty countdown of the item or material with the
	// given registry ID, forcing its record to propagate through every slot.
	//
	// Parameters:
	//   - id: the scene registry ID of the item or material
	//
	// Returns:
	//   - bool: true if the ID was found and marked
	MarkDirty(id uint64) bool

	// Release frees the pool's recording contexts and the backend's GPU
	// resources. The scheduler must not be used afterwards.
	Release()
}

var _ FrameScheduler = &frameScheduler{}

// NewFrameScheduler creates a scheduler over a fresh pool of frame slots.
// Every render item and material currently registered in the view must carry
// a propagation window equal to the pool depth; a mismatch means changes would
// either stop propagating before reaching every slot or be rewritten after
// all slots already converged, so it panics.
//
// Parameters:
//   - view: the scene state the update passes read
//   - options: a variadic list of options to configure the scheduler
//
// Returns:
//   - FrameScheduler: the new scheduler with all slots unsubmitted
func NewFrameScheduler(view SceneView, options ...FrameSchedulerBuilderOption) FrameScheduler {
	if view == nil {
		panic("renderer: frame scheduler requires a scene view")
	}

	cfg := schedulerConfig{
		poolDepth:        DefaultPoolDepth,
		objectCapacity:   frame_slot.DefaultObjectCapacity,
		materialCapacity: frame_slot.DefaultMaterialCapacity,
	}
	for _, opt := range options {
		opt(&cfg)
	}
	if cfg.poolDepth <= 0 {
		panic(fmt.Sprintf("renderer: pool depth must be positive, got %d", cfg.poolDepth))
	}
	validatePropagationWindows(view, cfg.poolDepth)

	tl := cfg.tl
	if tl == nil {
		var tlOpts []timeline.TimelineOption
		if cfg.deviceLossTimeout > 0 {
			tlOpts = append(tlOpts, timeline.WithDeviceLossTimeout(cfg.deviceLossTimeout))
		}
		tl = timeline.NewTimeline(tlOpts...)
	}
	if cfg.backend != nil {
		cfg.backend.BindTimeline(tl)
	}

	slots := make([]frame_slot.FrameSlot, cfg.poolDepth)
	for i := range slots {
		slotOpts := []frame_slot.FrameSlotBuilderOption{
			frame_slot.WithObjectCapacity(cfg.objectCapacity),
			frame_slot.WithMaterialCapacity(cfg.materialCapacity),
		}
		if cfg.backend != nil {
			slotOpts = append(slotOpts, frame_slot.WithRecordingContext(cfg.backend.NewRecordingContext(i)))
		}
		slots[i] = frame_slot.NewFrameSlot(i, slotOpts...)
		if cfg.backend != nil {
			cfg.backend.InitRegions(slots[i])
		}
	}

	return &frameScheduler{
		slots:        slots,
		current:      0, // BeginFrame rotates first, so the first frame lands on slot 1
		tl:           tl,
		backend:      cfg.backend,
		view:         view,
		waitObserver: cfg.waitObserver,
	}
}

// validatePropagationWindows checks every registered item and material against
// the pool depth.
func validatePropagationWindows(view SceneView, poolDepth int) {
	for _, item := range view.RenderItems() {
		if w := item.PropagationWindow(); w != poolDepth {
			panic(fmt.Sprintf("renderer: render item %q propagation window %d does not match pool depth %d",
				item.Name(), w, poolDepth))
		}
	}
	for _, mat := range view.Materials() {
		if w := mat.PropagationWindow(); w != poolDepth {
			panic(fmt.Sprintf("renderer: material %q propagation window %d does not match pool depth %d",
				mat.Name(), w, poolDepth))
		}
	}
}

func (s *frameScheduler) PoolDepth() int {
	return len(s.slots)
}

func (s *frameScheduler) Timeline() timeline.Timeline {
	return s.tl
}

func (s *frameScheduler) BeginFrame() (frame_slot.FrameSlot, error) {
	if s.inFrame {
		panic("renderer: BeginFrame called while a frame is already open")
	}

	s.current = (s.current + 1) % len(s.slots)
	slot := s.slots[s.current]

	// Wait-before-reuse: the GPU may still be reading this slot's regions from
	// its previous submission. A ticket of 0 means never submitted.
	if ticket := slot.CompletionTicket(); ticket > 0 && !s.tl.Reached(ticket) {
		start := time.Now()
		if err := s.tl.WaitFor(ticket); err != nil {
			return nil, fmt.Errorf("begin frame %s: %w", slot.Label(), err)
		}
		if s.waitObserver != nil {
			s.waitObserver(time.Since(start))
		}
	}

	if ctx := slot.Context(); ctx != nil {
		if err := ctx.Reset(); err != nil {
			return nil, fmt.Errorf("begin frame %s: reset recording context: %w", slot.Label(), err)
		}
	}

	s.runUpdatePasses(slot)

	s.inFrame = true
	s.active = slot
	return slot, nil
}

func (s *frameScheduler) EndFrame(slot frame_slot.FrameSlot) error {
	if !s.inFrame {
		panic("renderer: EndFrame called with no open frame")
	}
	if slot != s.active {
		panic(fmt.Sprintf("renderer: EndFrame called with %s, expected %s", slot.Label(), s.active.Label()))
	}
	s.inFrame = false
	s.active = nil

	ticket := s.tl.NextTicket()
	slot.SetCompletionTicket(ticket)

	if s.backend != nil {
		if err := s.backend.Submit(slot, ticket); err != nil {
			err = fmt.Errorf("end frame %s: %w", slot.Label(), err)
			s.tl.Fail(err)
			return err
		}
	}
	return nil
}

func (s *frameScheduler) MarkDirty(id uint64) bool {
	return s.view.MarkDirty(id)
}

func (s *frameScheduler) Release() {
	for _, slot := range s.slots {
		slot.Release()
	}
	if s.backend != nil {
		s.backend.Release()
	}
}
