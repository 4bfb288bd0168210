package renderer

import (
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/orrery-engine/orrery/engine/renderer/frame_slot"
	"github.com/orrery-engine/orrery/engine/renderer/timeline"
)

// CommandRecorder is the wgpu backend's recording context. Callers that need
// to record passes assert the slot's context to this interface and encode
// against the exposed encoder between BeginFrame and EndFrame.
type CommandRecorder interface {
	frame_slot.RecordingContext

	// Encoder returns the command encoder for the current frame. Valid only
	// between Reset (called by BeginFrame) and the scheduler's EndFrame.
	//
	// Returns:
	//   - *wgpu.CommandEncoder: the frame's encoder
	Encoder() *wgpu.CommandEncoder
}

// wgpuRecordingContext is the implementation of the CommandRecorder interface.
type wgpuRecordingContext struct {
	device  *wgpu.Device
	encoder *wgpu.CommandEncoder
}

var _ CommandRecorder = &wgpuRecordingContext{}

func (c *wgpuRecordingContext) Reset() error {
	if c.encoder != nil {
		c.encoder.Release()
		c.encoder = nil
	}
	encoder, err := c.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	c.encoder = encoder
	return nil
}

func (c *wgpuRecordingContext) Encoder() *wgpu.CommandEncoder {
	return c.encoder
}

func (c *wgpuRecordingContext) Release() {
	if c.encoder != nil {
		c.encoder.Release()
		c.encoder = nil
	}
}

// wgpuSubmissionBackend is the implementation of the SubmissionBackend
// interface for WebGPU. It owns one GPU buffer per region, keyed by the
// region's label, and advances the timeline from the queue's work-done
// callback.
type wgpuSubmissionBackend struct {
	mu sync.Mutex

	device *wgpu.Device
	queue  *wgpu.Queue
	tl     timeline.Timeline

	buffers map[string]*wgpu.Buffer
}

var _ SubmissionBackend = &wgpuSubmissionBackend{}

// NewWGPUSubmissionBackend creates a submission backend over an initialized
// WebGPU device and its queue.
//
// Parameters:
//   - device: the WebGPU device
//   - queue: the device's command queue
//
// Returns:
//   - SubmissionBackend: the new backend with no buffers allocated yet
func NewWGPUSubmissionBackend(device *wgpu.Device, queue *wgpu.Queue) SubmissionBackend {
	return &wgpuSubmissionBackend{
		device:  device,
		queue:   queue,
		buffers: make(map[string]*wgpu.Buffer),
	}
}

func (b *wgpuSubmissionBackend) BindTimeline(tl timeline.Timeline) {
	b.tl = tl
}

func (b *wgpuSubmissionBackend) NewRecordingContext(slotIndex int) frame_slot.RecordingContext {
	_ = slotIndex
	return &wgpuRecordingContext{device: b.device}
}

func (b *wgpuSubmissionBackend) InitRegions(slot frame_slot.FrameSlot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, region := range slot.Regions() {
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label:            region.Label(),
			Size:             uint64(len(region.Bytes())),
			Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
			MappedAtCreation: false,
		})
		if err != nil {
			panic(fmt.Sprintf("renderer: create buffer for region %s: %v", region.Label(), err))
		}
		b.buffers[region.Label()] = buf
		// WebGPU has no buffer virtual addresses; regions keep a zero base and
		// are bound by buffer handle instead.
	}
}

func (b *wgpuSubmissionBackend) Submit(slot frame_slot.FrameSlot, ticket uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, region := range slot.Regions() {
		buf, ok := b.buffers[region.Label()]
		if !ok {
			return fmt.Errorf("no GPU buffer for region %s", region.Label())
		}
		b.queue.WriteBuffer(buf, 0, region.Bytes())
	}

	ctx, ok := slot.Context().(*wgpuRecordingContext)
	if !ok || ctx.encoder == nil {
		return fmt.Errorf("slot %s has no wgpu recording context", slot.Label())
	}

	commandBuffer, err := ctx.encoder.Finish(nil)
	if err != nil {
		ctx.encoder.Release()
		ctx.encoder = nil
		return fmt.Errorf("finish command encoder: %w", err)
	}

	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	ctx.encoder.Release()
	ctx.encoder = nil

	tl := b.tl
	b.queue.OnSubmittedWorkDone(func(status wgpu.QueueWorkDoneStatus) {
		if status != wgpu.QueueWorkDoneStatusSuccess {
			tl.Fail(fmt.Errorf("queue work done status %v", status))
			return
		}
		tl.Signal(ticket)
	})
	return nil
}

func (b *wgpuSubmissionBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for label, buf := range b.buffers {
		buf.Release()
		delete(b.buffers, label)
	}
}
