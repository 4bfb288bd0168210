package timeline

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextTicketIsStrictlyIncreasing(t *testing.T) {
	tl := NewTimeline()

	assert.Equal(t, uint64(0), tl.Submitted())
	assert.Equal(t, uint64(1), tl.NextTicket())
	assert.Equal(t, uint64(2), tl.NextTicket())
	assert.Equal(t, uint64(3), tl.NextTicket())
	assert.Equal(t, uint64(3), tl.Submitted())
	assert.Equal(t, uint64(0), tl.Completed())
}

func TestSignalAdvancesCompleted(t *testing.T) {
	tl := NewTimeline()
	tl.NextTicket()
	tl.NextTicket()

	tl.Signal(2)
	assert.Equal(t, uint64(2), tl.Completed())
	assert.True(t, tl.Reached(1))
	assert.True(t, tl.Reached(2))
	assert.False(t, tl.Reached(3))
}

func TestStaleSignalIsIgnored(t *testing.T) {
	tl := NewTimeline()
	tl.NextTicket()
	tl.NextTicket()

	tl.Signal(2)
	tl.Signal(1)
	assert.Equal(t, uint64(2), tl.Completed())
}

func TestSignalBeyondSubmittedPanics(t *testing.T) {
	tl := NewTimeline()
	tl.NextTicket()

	assert.Panics(t, func() {
		tl.Signal(2)
	})
}

func TestWaitForReturnsImmediatelyWhenReached(t *testing.T) {
	tl := NewTimeline()
	ticket := tl.NextTicket()
	tl.Signal(ticket)

	require.NoError(t, tl.WaitFor(ticket))
}

func TestWaitForBlocksUntilSignaled(t *testing.T) {
	tl := NewTimeline()
	ticket := tl.NextTicket()

	done := make(chan error, 1)
	go func() {
		done <- tl.WaitFor(ticket)
	}()

	select {
	case <-done:
		t.Fatal("WaitFor returned before the ticket was signaled")
	case <-time.After(20 * time.Millisecond):
	}

	tl.Signal(ticket)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("WaitFor did not return after the ticket was signaled")
	}
}

func TestWaitForTimesOutAsDeviceLoss(t *testing.T) {
	tl := NewTimeline(WithDeviceLossTimeout(20 * time.Millisecond))
	ticket := tl.NextTicket()

	err := tl.WaitFor(ticket)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDeviceLost))
}

func TestFailWakesWaiters(t *testing.T) {
	tl := NewTimeline()
	ticket := tl.NextTicket()

	done := make(chan error, 1)
	go func() {
		done <- tl.WaitFor(ticket)
	}()

	time.Sleep(10 * time.Millisecond)
	tl.Fail(errors.New("gpu fault"))

	select {
	case err := <-done:
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDeviceLost))
		assert.Contains(t, err.Error(), "gpu fault")
	case <-time.After(time.Second):
		t.Fatal("WaitFor did not return after Fail")
	}
}

func TestFailWithNilRecordsDeviceLost(t *testing.T) {
	tl := NewTimeline()
	tl.NextTicket()
	tl.Fail(nil)

	err := tl.WaitFor(1)
	assert.ErrorIs(t, err, ErrDeviceLost)
}

func TestWaitForAfterFailReturnsImmediately(t *testing.T) {
	tl := NewTimeline()
	tl.NextTicket()
	tl.Fail(errors.New("removed"))

	err := tl.WaitFor(1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeviceLost)
}
