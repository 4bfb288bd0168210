package scene

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/orrery-engine/orrery/common"
	"github.com/orrery-engine/orrery/engine/camera"
	"github.com/orrery-engine/orrery/engine/light"
	"github.com/orrery-engine/orrery/engine/render_item"
	"github.com/orrery-engine/orrery/engine/renderer"
	"github.com/orrery-engine/orrery/engine/renderer/material"
)

// dirtyMarker is the common surface of render items and materials the
// registry needs for MarkDirty lookups.
type dirtyMarker interface {
	MarkDirty()
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu sync.RWMutex

	name string
	cam  camera.Camera

	lights  []light.GPULight
	ambient [4]float32

	items     []render_item.RenderItem
	materials []material.Material

	// registry maps scene-assigned IDs to anything that can be re-dirtied,
	// covering both items and materials.
	registry map[uint64]dirtyMarker
	nextID   uint64

	renderTargetSize [2]float32

	totalTime float32
	deltaTime float32

	// tickPool manages a bounded set of reusable goroutines for the parallel
	// animator phase of Tick.
	tickPool    worker.DynamicWorkerPool
	tickWorkers int
}

// Scene is the registry of render items and materials plus the per-frame
// inputs (camera, lights, clock) the update passes read. It implements
// renderer.SceneView, so a scene is handed directly to NewFrameScheduler.
//
// Registration assigns each item and material a scene-unique ID (for MarkDirty
// lookups) and a uniform slot (its position in the per-frame regions). IDs
// start at 1; 0 is never assigned. Thread-safe for concurrent access, with one
// caveat: Tick runs animators in parallel, and each animator must only touch
// its own item.
type Scene interface {
	renderer.SceneView

	// Name returns the scene's identifier.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// SetName sets the scene's identifier.
	//
	// Parameters:
	//   - name: the new scene name
	SetName(name string)

	// Camera returns the scene's camera.
	//
	// Returns:
	//   - camera.Camera: the scene camera
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Lights returns the scene's light rig.
	//
	// Returns:
	//   - []light.GPULight: the current lights
	Lights() []light.GPULight

	// SetLights replaces the scene's light rig. At most light.MaxLights
	// entries are carried into the common record.
	//
	// Parameters:
	//   - lights: the new lights
	SetLights(lights []light.GPULight)

	// Ambient returns the scene's ambient light term.
	//
	// Returns:
	//   - [4]float32: the ambient RGBA term
	Ambient() [4]float32

	// SetAmbient sets the scene's ambient light term.
	//
	// Parameters:
	//   - ambient: the ambient RGBA term
	SetAmbient(ambient [4]float32)

	// AddRenderItem registers an item, assigning its ID and its slot in the
	// object uniform region.
	//
	// Parameters:
	//   - item: the item to register
	//
	// Returns:
	//   - uint64: the scene-assigned ID
	AddRenderItem(item render_item.RenderItem) uint64

	// AddMaterial registers a material, assigning its ID and its slot in the
	// material uniform region.
	//
	// Parameters:
	//   - mat: the material to register
	//
	// Returns:
	//   - uint64: the scene-assigned ID
	AddMaterial(mat material.Material) uint64

	// RenderItem looks up a registered item by ID.
	//
	// Parameters:
	//   - id: the scene-assigned ID
	//
	// Returns:
	//   - render_item.RenderItem: the item, or nil if not found
	RenderItem(id uint64) render_item.RenderItem

	// Material looks up a registered material by ID.
	//
	// Parameters:
	//   - id: the scene-assigned ID
	//
	// Returns:
	//   - material.Material: the material, or nil if not found
	Material(id uint64) material.Material

	// SetRenderTargetSize records the render target extent and updates the
	// camera's aspect ratio. Called on window resize.
	//
	// Parameters:
	//   - width, height: the render target extent in pixels
	SetRenderTargetSize(width, height float32)

	// TotalTime returns the seconds accumulated by Tick since the scene was
	// created.
	//
	// Returns:
	//   - float32: the scene clock
	TotalTime() float32

	// DeltaTime returns the duration of the most recent Tick.
	//
	// Returns:
	//   - float32: the last tick's delta in seconds
	DeltaTime() float32

	// Tick advances the scene clock, fans the registered animators out across
	// the worker pool, and rebuilds the camera's view matrix. Called once per
	// frame before BeginFrame so animator writes land in the same frame.
	//
	// Parameters:
	//   - deltaTime: seconds since the previous tick
	Tick(deltaTime float32)
}

var _ Scene = &scene{}
var _ renderer.SceneView = &scene{}

// NewScene creates a new Scene with the given camera and options. The default
// scene carries the standard three-light directional rig and ambient term.
//
// Parameters:
//   - name: the scene's identifier
//   - cam: the scene camera
//   - options: a variadic list of options to configure the scene
//
// Returns:
//   - Scene: the new, empty scene
func NewScene(name string, cam camera.Camera, options ...SceneBuilderOption) Scene {
	s := &scene{
		name:        name,
		cam:         cam,
		lights:      light.DefaultDirectionalRig(),
		ambient:     light.DefaultAmbient,
		registry:    make(map[uint64]dirtyMarker),
		tickWorkers: defaultTickWorkers(),
	}
	for _, opt := range options {
		opt(s)
	}
	s.tickPool = worker.NewDynamicWorkerPool(s.tickWorkers, 256, 1*time.Second)
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Lights() []light.GPULight {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lights
}

func (s *scene) SetLights(lights []light.GPULight) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lights = lights
}

func (s *scene) Ambient() [4]float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ambient
}

func (s *scene) SetAmbient(ambient [4]float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ambient = ambient
}

func (s *scene) AddRenderItem(item render_item.RenderItem) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	item.SetID(s.nextID)
	item.SetUniformSlot(len(s.items))
	s.items = append(s.items, item)
	s.registry[s.nextID] = item
	return s.nextID
}

func (s *scene) AddMaterial(mat material.Material) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	mat.SetUniformSlot(len(s.materials))
	s.materials = append(s.materials, mat)
	s.registry[s.nextID] = mat
	return s.nextID
}

func (s *scene) RenderItem(id uint64) render_item.RenderItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if item, ok := s.registry[id].(render_item.RenderItem); ok {
		return item
	}
	return nil
}

func (s *scene) Material(id uint64) material.Material {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if mat, ok := s.registry[id].(material.Material); ok {
		return mat
	}
	return nil
}

func (s *scene) RenderItems() []render_item.RenderItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items
}

func (s *scene) Materials() []material.Material {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.materials
}

func (s *scene) MarkDirty(id uint64) bool {
	s.mu.RLock()
	entry, ok := s.registry[id]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	entry.MarkDirty()
	return true
}

func (s *scene) SetRenderTargetSize(width, height float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderTargetSize = [2]float32{width, height}
	if height > 0 {
		s.cam.SetAspect(width / height)
	}
}

func (s *scene) TotalTime() float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalTime
}

func (s *scene) DeltaTime() float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deltaTime
}

func (s *scene) Tick(deltaTime float32) {
	s.mu.Lock()
	s.deltaTime = deltaTime
	s.totalTime += deltaTime
	total := s.totalTime
	items := s.items
	cam := s.cam
	s.mu.Unlock()

	// Fan animators out across the tick pool. Workers are reused across frames
	// (no goroutine spawn overhead). A WaitGroup provides per-frame barrier
	// sync since pool.Wait() blocks until workers idle-exit, which is
	// unsuitable for frame-rate workloads. Each animator owns its item, so no
	// locking is needed inside the tasks.
	var wg sync.WaitGroup
	taskID := 0
	for _, item := range items {
		fn := item.Animator()
		if fn == nil {
			continue
		}
		wg.Add(1)
		it := item // capture for closure
		id := taskID
		taskID++
		s.tickPool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				fn(total, deltaTime, it)
				return nil, nil
			},
		})
	}
	wg.Wait()

	cam.UpdateViewMatrix()
}

// CommonUniform builds the per-frame common record from the camera, clock,
// and light state. Matrix inverses are computed here so the record write in
// the update pass is a flat copy.
func (s *scene) CommonUniform() *camera.GPUCommonUniform {
	s.mu.RLock()
	cam := s.cam
	lights := s.lights
	ambient := s.ambient
	size := s.renderTargetSize
	total := s.totalTime
	delta := s.deltaTime
	s.mu.RUnlock()

	view := cam.View()
	proj := cam.Proj()

	rec := &camera.GPUCommonUniform{
		View:           view,
		Proj:           proj,
		CameraPosition: cam.Position(),
		NearZ:          cam.NearZ(),
		FarZ:           cam.FarZ(),
		TotalTime:      total,
		DeltaTime:      delta,
		AmbientLight:   ambient,
	}

	common.Mul4(rec.ViewProj[:], proj[:], view[:])
	common.Invert4(rec.InvView[:], view[:])
	common.Invert4(rec.InvProj[:], proj[:])
	common.Invert4(rec.InvViewProj[:], rec.ViewProj[:])

	rec.RenderTargetSize = size
	if size[0] > 0 && size[1] > 0 {
		rec.InvRenderTargetSize = [2]float32{1 / size[0], 1 / size[1]}
	}

	n := min(len(lights), light.MaxLights)
	copy(rec.Lights[:], lights[:n])
	rec.LightCount = uint32(n)

	return rec
}
