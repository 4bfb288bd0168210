package scene

import (
	"runtime"

	"github.com/orrery-engine/orrery/engine/light"
)

// defaultTickWorkers leaves one CPU for the frame goroutine.
func defaultTickWorkers() int {
	return max(runtime.NumCPU()-1, 1)
}

// SceneBuilderOption is a function that configures a scene instance during construction.
type SceneBuilderOption func(*scene)

// WithLights is an option builder that sets the scene's light rig, replacing
// the default three-light directional rig.
//
// Parameters:
//   - lights: the lights to carry into the common record
//
// Returns:
//   - SceneBuilderOption: a function that applies the lights option to a scene
func WithLights(lights ...light.GPULight) SceneBuilderOption {
	return func(s *scene) {
		s.lights = lights
	}
}

// WithAmbient is an option builder that sets the scene's ambient light term.
//
// Parameters:
//   - ambient: the ambient RGBA term
//
// Returns:
//   - SceneBuilderOption: a function that applies the ambient option to a scene
func WithAmbient(ambient [4]float32) SceneBuilderOption {
	return func(s *scene) {
		s.ambient = ambient
	}
}

// WithTickWorkers is an option builder that sets how many pooled goroutines
// Tick fans animators out across.
//
// Parameters:
//   - n: the worker count (values < 1 are clamped to 1)
//
// Returns:
//   - SceneBuilderOption: a function that applies the worker count option to a scene
func WithTickWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		s.tickWorkers = max(n, 1)
	}
}

// WithRenderTargetSize is an option builder that sets the initial render
// target extent.
//
// Parameters:
//   - width, height: the render target extent in pixels
//
// Returns:
//   - SceneBuilderOption: a function that applies the render target size option to a scene
func WithRenderTargetSize(width, height float32) SceneBuilderOption {
	return func(s *scene) {
		s.renderTargetSize = [2]float32{width, height}
	}
}
