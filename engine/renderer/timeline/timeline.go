package timeline

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrDeviceLost is returned by WaitFor when the consumer never reports
// completion of the awaited ticket (device removed or hung), or after Fail has
// been called. Recovery requires recreating GPU-side resources and is the
// caller's responsibility; the timeline itself never retries.
var ErrDeviceLost = errors.New("timeline: device lost")

// timeline is the implementation of the Timeline interface.
type timeline struct {
	mu   sync.Mutex
	cond *sync.Cond

	submitted uint64
	completed uint64
	failed    error

	// deviceLossTimeout bounds a single WaitFor call. Zero means wait
	// indefinitely (the platform's completion signaling is trusted).
	deviceLossTimeout time.Duration
}

// Timeline is a monotonically increasing completion counter shared between the
// CPU producer and the asynchronous GPU consumer. The producer obtains tickets
// with NextTicket when it submits work; the consumer (a completion callback,
// driver signal, or test harness) advances the completed value with Signal.
//
// Invariant: Completed() <= Submitted() at all times.
type Timeline interface {
	// Submitted returns the highest ticket handed out so far.
	//
	// Returns:
	//   - uint64: the last value returned by NextTicket, 0 if none
	Submitted() uint64

	// Completed returns the highest ticket the consumer has reported complete.
	//
	// Returns:
	//   - uint64: the current completion value
	Completed() uint64

	// NextTicket reserves and returns the next ticket value. Called by the
	// producer once per submitted batch; the returned value is the ticket the
	// batch's resources wait on before reuse.
	//
	// Returns:
	//   - uint64: the freshly reserved ticket (strictly increasing, starts at 1)
	NextTicket() uint64

	// Signal reports that all work up to and including value has completed.
	// Called by the consumer side. Values at or below the current completion
	// value are ignored. Signaling a value above Submitted is a programmer
	// error and panics.
	//
	// Parameters:
	//   - value: the ticket now known to be complete
	Signal(value uint64)

	// Reached reports whether Completed() >= value without blocking.
	//
	// Parameters:
	//   - value: the ticket to check
	//
	// Returns:
	//   - bool: true if the ticket has been reached
	Reached(value uint64) bool

	// WaitFor blocks the calling goroutine until Completed() >= value. This is
	// the only blocking operation in the frame pipeline. If a device-loss
	// timeout was configured and expires first, or Fail has been called,
	// WaitFor returns an error wrapping ErrDeviceLost.
	//
	// Parameters:
	//   - value: the ticket to wait for
	//
	// Returns:
	//   - error: nil once the ticket is reached, otherwise the device-loss error
	WaitFor(value uint64) error

	// Fail marks the timeline as failed and wakes all waiters. Subsequent
	// WaitFor calls return the failure immediately. A nil err records
	// ErrDeviceLost.
	//
	// Parameters:
	//   - err: the underlying device failure, or nil for a bare device loss
	Fail(err error)
}

// Compile-time check that timeline implements Timeline.
var _ Timeline = &timeline{}

// NewTimeline creates a new Timeline with the provided options.
//
// Parameters:
//   - options: a variadic list of options to configure the timeline
//
// Returns:
//   - Timeline: a new Timeline starting at submitted = completed = 0
func NewTimeline(options ...TimelineOption) Timeline {
	t := &timeline{}
	t.cond = sync.NewCond(&t.mu)
	for _, opt := range options {
		opt(t)
	}
	return t
}

func (t *timeline) Submitted() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.submitted
}

func (t *timeline) Completed() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completed
}

func (t *timeline) NextTicket() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.submitted++
	return t.submitted
}

func (t *timeline) Signal(value uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if value > t.submitted {
		panic(fmt.Sprintf("timeline: signaled ticket %d beyond submitted %d", value, t.submitted))
	}
	if value <= t.completed {
		return
	}
	t.completed = value
	t.cond.Broadcast()
}

func (t *timeline) Reached(value uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completed >= value
}

func (t *timeline) WaitFor(value uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var timedOut bool
	if t.deviceLossTimeout > 0 && t.completed < value && t.failed == nil {
		timer := time.AfterFunc(t.deviceLossTimeout, func() {
			t.mu.Lock()
			timedOut = true
			t.mu.Unlock()
			t.cond.Broadcast()
		})
		defer timer.Stop()
	}

	for t.completed < value && t.failed == nil && !timedOut {
		t.cond.Wait()
	}

	if t.completed >= value {
		return nil
	}
	if t.failed != nil {
		return t.failed
	}
	return fmt.Errorf("ticket %d not reached within %v: %w", value, t.deviceLossTimeout, ErrDeviceLost)
}

func (t *timeline) Fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failed != nil {
		return
	}
	if err == nil {
		err = ErrDeviceLost
	} else if !errors.Is(err, ErrDeviceLost) {
		err = fmt.Errorf("%v: %w", err, ErrDeviceLost)
	}
	t.failed = err
	t.cond.Broadcast()
}
