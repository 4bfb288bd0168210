package renderer

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orrery-engine/orrery/engine/camera"
	"github.com/orrery-engine/orrery/engine/render_item"
	"github.com/orrery-engine/orrery/engine/renderer/frame_slot"
	"github.com/orrery-engine/orrery/engine/renderer/material"
	"github.com/orrery-engine/orrery/engine/renderer/timeline"
)

// fakeView is a minimal SceneView for scheduler tests.
type fakeView struct {
	items []render_item.RenderItem
	mats  []material.Material
}

func (v *fakeView) RenderItems() []render_item.RenderItem { return v.items }
func (v *fakeView) Materials() []material.Material        { return v.mats }
func (v *fakeView) CommonUniform() *camera.GPUCommonUniform {
	return &camera.GPUCommonUniform{}
}
func (v *fakeView) MarkDirty(id uint64) bool {
	for _, item := range v.items {
		if item.ID() == id {
			item.MarkDirty()
			return true
		}
	}
	return false
}

// fakeBackend records submissions and optionally signals the timeline as if
// the GPU completed instantly.
type fakeBackend struct {
	tl         timeline.Timeline
	submitted  []uint64
	autoSignal bool
	submitErr  error
	released   bool
}

func (b *fakeBackend) BindTimeline(tl timeline.Timeline) { b.tl = tl }
func (b *fakeBackend) NewRecordingContext(slotIndex int) frame_slot.RecordingContext {
	return nil
}
func (b *fakeBackend) InitRegions(slot frame_slot.FrameSlot) {}
func (b *fakeBackend) Submit(slot frame_slot.FrameSlot, ticket uint64) error {
	if b.submitErr != nil {
		return b.submitErr
	}
	b.submitted = append(b.submitted, ticket)
	if b.autoSignal {
		b.tl.Signal(ticket)
	}
	return nil
}
func (b *fakeBackend) Release() { b.released = true }

func newStaticItem(name string, window int) render_item.RenderItem {
	return render_item.NewRenderItem(
		render_item.WithName(name),
		render_item.WithPropagationWindow(window),
	)
}

func TestBeginFrameRotatesRoundRobin(t *testing.T) {
	backend := &fakeBackend{autoSignal: true}
	s := NewFrameScheduler(&fakeView{},
		WithPoolDepth(3),
		WithSubmissionBackend(backend),
	)

	var indexes []int
	for range 7 {
		slot, err := s.BeginFrame()
		require.NoError(t, err)
		indexes = append(indexes, slot.Index())
		require.NoError(t, s.EndFrame(slot))
	}

	// The pool starts at index 0 and advances before use, so the first frame
	// lands on slot 1.
	assert.Equal(t, []int{1, 2, 0, 1, 2, 0, 1}, indexes)
}

func TestEndFrameStampsFreshTickets(t *testing.T) {
	backend := &fakeBackend{autoSignal: true}
	s := NewFrameScheduler(&fakeView{},
		WithPoolDepth(2),
		WithSubmissionBackend(backend),
	)

	for i := 1; i <= 4; i++ {
		slot, err := s.BeginFrame()
		require.NoError(t, err)
		require.NoError(t, s.EndFrame(slot))
		assert.Equal(t, uint64(i), slot.CompletionTicket())
	}
	assert.Equal(t, []uint64{1, 2, 3, 4}, backend.submitted)
}

func TestBeginFrameWaitsForSlotReuse(t *testing.T) {
	tl := timeline.NewTimeline()
	s := NewFrameScheduler(&fakeView{},
		WithPoolDepth(2),
		WithTimeline(tl),
	)

	// Fill both slots without completing anything.
	for range 2 {
		slot, err := s.BeginFrame()
		require.NoError(t, err)
		require.NoError(t, s.EndFrame(slot))
	}

	// The third frame reuses slot 1, whose ticket (1) is still outstanding.
	acquired := make(chan frame_slot.FrameSlot, 1)
	go func() {
		slot, err := s.BeginFrame()
		require.NoError(t, err)
		acquired <- slot
	}()

	select {
	case <-acquired:
		t.Fatal("BeginFrame returned before the slot's ticket completed")
	case <-time.After(20 * time.Millisecond):
	}

	tl.Signal(1)
	select {
	case slot := <-acquired:
		assert.Equal(t, 1, slot.Index())
	case <-time.After(time.Second):
		t.Fatal("BeginFrame did not return after the ticket was signaled")
	}
}

func TestBeginFrameSkipsWaitForUnsubmittedSlots(t *testing.T) {
	s := NewFrameScheduler(&fakeView{}, WithPoolDepth(3))

	// No slot has ever been submitted: all three frames acquire instantly
	// even though nothing signals the timeline.
	done := make(chan struct{})
	go func() {
		for range 3 {
			slot, err := s.BeginFrame()
			require.NoError(t, err)
			require.NoError(t, s.EndFrame(slot))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("first pool rotation blocked on an unsubmitted slot")
	}
}

func TestBeginFrameReentrancyPanics(t *testing.T) {
	s := NewFrameScheduler(&fakeView{}, WithPoolDepth(2))

	_, err := s.BeginFrame()
	require.NoError(t, err)

	assert.Panics(t, func() {
		_, _ = s.BeginFrame()
	})
}

func TestEndFrameWithoutBeginPanics(t *testing.T) {
	s := NewFrameScheduler(&fakeView{}, WithPoolDepth(2))

	assert.Panics(t, func() {
		_ = s.EndFrame(frame_slot.NewFrameSlot(0))
	})
}

func TestEndFrameWithWrongSlotPanics(t *testing.T) {
	s := NewFrameScheduler(&fakeView{}, WithPoolDepth(2))

	_, err := s.BeginFrame()
	require.NoError(t, err)

	assert.Panics(t, func() {
		_ = s.EndFrame(frame_slot.NewFrameSlot(7))
	})
}

func TestDeviceLossTimeoutSurfacesFromBeginFrame(t *testing.T) {
	s := NewFrameScheduler(&fakeView{},
		WithPoolDepth(1),
		WithDeviceLossTimeout(20*time.Millisecond),
	)

	slot, err := s.BeginFrame()
	require.NoError(t, err)
	require.NoError(t, s.EndFrame(slot))

	// The only slot's ticket never completes.
	_, err = s.BeginFrame()
	require.Error(t, err)
	assert.ErrorIs(t, err, timeline.ErrDeviceLost)
}

func TestSubmitFailureFailsTimeline(t *testing.T) {
	backend := &fakeBackend{submitErr: errors.New("queue rejected")}
	s := NewFrameScheduler(&fakeView{},
		WithPoolDepth(2),
		WithSubmissionBackend(backend),
	)

	slot, err := s.BeginFrame()
	require.NoError(t, err)
	err = s.EndFrame(slot)
	require.Error(t, err)

	// The timeline is failed, so any subsequent wait reports device loss.
	assert.ErrorIs(t, s.Timeline().WaitFor(1), timeline.ErrDeviceLost)
}

func TestPropagationWindowMismatchPanics(t *testing.T) {
	view := &fakeView{items: []render_item.RenderItem{newStaticItem("box", 2)}}

	assert.Panics(t, func() {
		NewFrameScheduler(view, WithPoolDepth(3))
	})
}

func TestMaterialPropagationWindowMismatchPanics(t *testing.T) {
	view := &fakeView{mats: []material.Material{material.NewMaterial(
		material.WithName("stone"),
		material.WithPropagationWindow(4),
	)}}

	assert.Panics(t, func() {
		NewFrameScheduler(view, WithPoolDepth(3))
	})
}

func TestStaticChangeReachesEverySlotExactlyOnce(t *testing.T) {
	item := newStaticItem("plane", 2)
	item.SetUniformSlot(0)
	view := &fakeView{items: []render_item.RenderItem{item}}

	backend := &fakeBackend{autoSignal: true}
	s := NewFrameScheduler(view,
		WithPoolDepth(2),
		WithObjectCapacity(1),
		WithSubmissionBackend(backend),
	)

	var slots []frame_slot.FrameSlot
	for range 2 {
		slot, err := s.BeginFrame()
		require.NoError(t, err)
		slots = append(slots, slot)
		require.NoError(t, s.EndFrame(slot))
	}

	// The initial countdown drains over the first two frames, landing the
	// record in both slots.
	assert.Equal(t, 0, item.FramesRemainingDirty())
	assert.Equal(t, slots[0].ObjectRegion().Bytes(), slots[1].ObjectRegion().Bytes())

	// With the countdown drained, later frames must not rewrite the slot.
	var moved [16]float32
	moved[0], moved[5], moved[10], moved[15] = 1, 1, 1, 1
	moved[12] = 42 // translate X
	item.SetTransform(moved)
	assert.Equal(t, 2, item.FramesRemainingDirty())

	before0 := bytes.Clone(slots[0].ObjectRegion().Bytes())
	for range 2 {
		slot, err := s.BeginFrame()
		require.NoError(t, err)
		require.NoError(t, s.EndFrame(slot))
	}

	assert.NotEqual(t, before0, slots[0].ObjectRegion().Bytes())
	assert.Equal(t, slots[0].ObjectRegion().Bytes(), slots[1].ObjectRegion().Bytes())
	assert.Equal(t, 0, item.FramesRemainingDirty())
}

func TestCleanStaticItemCausesNoRegionWrites(t *testing.T) {
	item := newStaticItem("pedestal", 2)
	item.SetUniformSlot(0)
	view := &fakeView{items: []render_item.RenderItem{item}}

	backend := &fakeBackend{autoSignal: true}
	s := NewFrameScheduler(view,
		WithPoolDepth(2),
		WithObjectCapacity(1),
		WithSubmissionBackend(backend),
	)

	var slots []frame_slot.FrameSlot
	for range 2 {
		slot, err := s.BeginFrame()
		require.NoError(t, err)
		slots = append(slots, slot)
		require.NoError(t, s.EndFrame(slot))
	}
	require.Equal(t, 0, item.FramesRemainingDirty())

	// Scribble a marker byte into each object region. A redundant write would
	// restore the record over it; a clean static item must leave it alone.
	for _, slot := range slots {
		slot.ObjectRegion().Bytes()[0] ^= 0xFF
	}

	for range 2 {
		slot, err := s.BeginFrame()
		require.NoError(t, err)
		require.NoError(t, s.EndFrame(slot))
	}

	for _, slot := range slots {
		assert.Equal(t, byte(0xFF), slot.ObjectRegion().Bytes()[0],
			"%s object region was rewritten for a clean static item", slot.Label())
	}
}

func TestDynamicItemRewrittenEveryFrame(t *testing.T) {
	item := render_item.NewRenderItem(
		render_item.WithName("orbiter"),
		render_item.WithStatic(false),
		render_item.WithPropagationWindow(2),
	)
	item.SetUniformSlot(0)
	view := &fakeView{items: []render_item.RenderItem{item}}

	backend := &fakeBackend{autoSignal: true}
	s := NewFrameScheduler(view,
		WithPoolDepth(2),
		WithObjectCapacity(1),
		WithSubmissionBackend(backend),
	)

	for i := range 4 {
		var world [16]float32
		world[0], world[5], world[10], world[15] = 1, 1, 1, 1
		world[12] = float32(i)
		item.SetTransform(world)

		slot, err := s.BeginFrame()
		require.NoError(t, err)

		// The slot's region always carries this frame's transform.
		rec := render_item.GPURecord(item)
		assert.Equal(t, rec.Marshal(), slot.ObjectRegion().Bytes()[:rec.Size()], "frame %d", i)

		require.NoError(t, s.EndFrame(slot))
	}
}

func TestMarkDirtyDelegatesToView(t *testing.T) {
	item := newStaticItem("plane", 3)
	item.SetID(11)
	view := &fakeView{items: []render_item.RenderItem{item}}
	s := NewFrameScheduler(view, WithPoolDepth(3))

	assert.True(t, s.MarkDirty(11))
	assert.False(t, s.MarkDirty(99))
	assert.Equal(t, 3, item.FramesRemainingDirty())
}

func TestCommonRegionRewrittenEveryFrame(t *testing.T) {
	view := &fakeView{}
	backend := &fakeBackend{autoSignal: true}
	s := NewFrameScheduler(view,
		WithPoolDepth(2),
		WithSubmissionBackend(backend),
	)

	slot, err := s.BeginFrame()
	require.NoError(t, err)
	assert.Equal(t, 1, slot.CommonRegion().Capacity())
	rec := &camera.GPUCommonUniform{}
	assert.GreaterOrEqual(t, slot.CommonRegion().Stride(), rec.Size())
	require.NoError(t, s.EndFrame(slot))
}

func TestReleaseReleasesBackend(t *testing.T) {
	backend := &fakeBackend{autoSignal: true}
	s := NewFrameScheduler(&fakeView{},
		WithPoolDepth(2),
		WithSubmissionBackend(backend),
	)

	s.Release()
	assert.True(t, backend.released)
}

func TestWaitObserverSeesBlockedTime(t *testing.T) {
	tl := timeline.NewTimeline()
	var observed []time.Duration
	s := NewFrameScheduler(&fakeView{},
		WithPoolDepth(1),
		WithTimeline(tl),
		WithWaitObserver(func(d time.Duration) { observed = append(observed, d) }),
	)

	slot, err := s.BeginFrame()
	require.NoError(t, err)
	require.NoError(t, s.EndFrame(slot))

	go func() {
		time.Sleep(15 * time.Millisecond)
		tl.Signal(1)
	}()

	_, err = s.BeginFrame()
	require.NoError(t, err)
	require.Len(t, observed, 1)
	assert.Greater(t, observed[0], time.Duration(0),
		fmt.Sprintf("observed wait %v should be positive", observed[0]))
}
