package engine

import (
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/orrery-engine/orrery/engine/profiler"
	"github.com/orrery-engine/orrery/engine/renderer"
	"github.com/orrery-engine/orrery/engine/renderer/frame_slot"
	"github.com/orrery-engine/orrery/engine/renderer/timeline"
	"github.com/orrery-engine/orrery/engine/scene"
	"github.com/orrery-engine/orrery/engine/window"
)

// engine implements the Engine interface.
// Coordinates tick, render, and window threads.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window window.Window

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate  time.Duration
	recordCallback  func(slot frame_slot.FrameSlot, deltaTime float32)
	presentCallback func()

	scn       scene.Scene
	scheduler renderer.FrameScheduler

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point. It owns the frame goroutine, which advances
// the scene clock and animators at the tick rate and drives the frame
// scheduler's BeginFrame/EndFrame cycle in between, plus window message
// pumping. Ticking and rendering share one goroutine so animator writes never
// overlap the update passes reading the same items.
type Engine interface {
	// Window returns the underlying window, or nil for headless runs.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Scene returns the engine's scene.
	//
	// Returns:
	//   - scene.Scene: the scene, or nil if not set
	Scene() scene.Scene

	// Scheduler returns the frame scheduler driving the render loop.
	//
	// Returns:
	//   - renderer.FrameScheduler: the scheduler, or nil if not set
	Scheduler() renderer.FrameScheduler

	// Profiler returns the engine's profiler, for wiring the scheduler's wait
	// observer.
	//
	// Returns:
	//   - *profiler.Profiler: the profiler instance
	Profiler() *profiler.Profiler

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	// The scene tick runs at this rate for game logic and animator updates.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetRecordCallback registers the function called each render frame with
	// the frame slot BeginFrame returned. Use it to record the frame's draw
	// commands against the slot's recording context.
	//
	// Parameters:
	//   - callback: function called between BeginFrame and EndFrame
	SetRecordCallback(callback func(slot frame_slot.FrameSlot, deltaTime float32))

	// SetPresentCallback registers the function called after each successful
	// EndFrame. Use it to present the surface once the frame's commands are
	// submitted.
	//
	// Parameters:
	//   - callback: function called after submission
	SetPresentCallback(callback func())

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the main engine loop (blocks until window closes or the
	// engine quits).
	Run()

	// Quit signals all engine goroutines to stop and shuts down the engine.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (scene, scheduler, window, tick rate)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel:  make(chan time.Duration, 1),
		quitChannel:      make(chan struct{}),
		wg:               sync.WaitGroup{},
		profiler:         profiler.NewProfiler(),
		profilingEnabled: false,
		engineTickRate:   time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil && e.scn != nil {
		e.window.SetResizeCallback(func(width, height int) {
			e.scn.SetRenderTargetSize(float32(width), float32(height))
		})
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Scene() scene.Scene {
	return e.scn
}

func (e *engine) Scheduler() renderer.FrameScheduler {
	return e.scheduler
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

func (e *engine) Run() {
	e.handle()
	if e.window != nil {
		e.window.ProcessMessages()
		e.signalQuit()
		e.wg.Wait()
		return
	}
	// Headless: block until something calls Quit.
	e.wg.Wait()
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running.Store(false)
		close(e.quitChannel)
	})
}

// handle launches the frame and quit goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.running.Store(true)
	e.wg.Add(2)
	go e.handleFrames()
	go e.handleQuit()
}

// handleFrames runs the scene tick and the render loop on a single goroutine.
// Animators mutate render items and the update passes read them, so both
// phases run here sequentially: when a tick is due the scene advances first,
// then the next frame slot is acquired (blocking until the GPU is done with
// it), handed to the record callback, and submitted. The scene ticks at the
// configured rate; rendering runs uncapped (or frame-limited) in between.
// Recovers from panics to avoid crashing the process and signals quit on
// recovery or device loss.
func (e *engine) handleFrames() {
	defer e.wg.Done()
	// Recover from panics inside the frame goroutine to avoid crashing the whole process.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("frame goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	now := time.Now()
	lastTick := now
	nextTick := now.Add(e.engineTickRate)
	lastRender := now

	for {
		select {
		case <-e.quitChannel:
			return
		case newRate := <-e.tickRateChannel:
			e.engineTickRate = newRate
			nextTick = lastTick.Add(newRate)
		default:
			now := time.Now()
			if e.scn != nil && !now.Before(nextTick) {
				tickDt := float32(now.Sub(lastTick).Seconds())
				lastTick = now
				nextTick = now.Add(e.engineTickRate)
				e.scn.Tick(tickDt)
			}

			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			if e.scheduler != nil {
				slot, err := e.scheduler.BeginFrame()
				if err != nil {
					if errors.Is(err, timeline.ErrDeviceLost) {
						log.Printf("device lost, stopping render loop: %v", err)
						e.signalQuit()
						return
					}
					log.Printf("begin frame failed: %v", err)
					continue
				}

				if e.recordCallback != nil {
					e.recordCallback(slot, dt)
				}

				if err := e.scheduler.EndFrame(slot); err != nil {
					log.Printf("end frame failed: %v", err)
					e.signalQuit()
					return
				}

				if e.presentCallback != nil {
					e.presentCallback()
				}
			} else if e.scn != nil {
				// Nothing to render: sleep until the next scene tick is due.
				time.Sleep(time.Until(nextTick))
			}

			if e.profilingEnabled && e.profiler != nil {
				e.profiler.Tick()
			}

			// Frame rate limiting
			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Second / time.Duration(fps)

	if e.running.Load() {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
	}
}

// SetRecordCallback registers the function called each render frame.
func (e *engine) SetRecordCallback(callback func(slot frame_slot.FrameSlot, deltaTime float32)) {
	e.recordCallback = callback
}

// SetPresentCallback registers the function called after each successful EndFrame.
func (e *engine) SetPresentCallback(callback func()) {
	e.presentCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Second / time.Duration(fps)
}
