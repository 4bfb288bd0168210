package timeline

import "time"

// TimelineOption is a functional option used to configure a Timeline during construction.
type TimelineOption func(*timeline)

// WithDeviceLossTimeout bounds each WaitFor call. If the consumer has not
// reached the awaited ticket within d, WaitFor reports device loss instead of
// blocking forever. A zero or negative d keeps the default indefinite wait.
//
// Parameters:
//   - d: the maximum duration a single WaitFor may block
//
// Returns:
//   - TimelineOption: a function that sets the device-loss timeout
func WithDeviceLossTimeout(d time.Duration) TimelineOption {
	return func(t *timeline) {
		if d > 0 {
			t.deviceLossTimeout = d
		}
	}
}
