package sched

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// startLoop runs a loop on a fake clock and returns a stop func that waits
// for Run to return.
func startLoop(t *testing.T) (*Loop, *clockwork.FakeClock, func() error) {
	t.Helper()

	clock := clockwork.NewFakeClock()
	loop := NewLoop(clock)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run(ctx) }()

	return loop, clock, func() error {
		cancel()
		return <-errCh
	}
}

func waitFired(t *testing.T, fired <-chan int) int {
	t.Helper()
	select {
	case n := <-fired:
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("task did not fire")
		return 0
	}
}

func TestLoopEveryFiresOnEachInterval(t *testing.T) {
	defer goleak.VerifyNone(t)

	loop, clock, stop := startLoop(t)
	defer stop()

	fired := make(chan int, 4)
	count := 0
	require.True(t, loop.Call(func() {
		loop.Every(time.Second, func() {
			count++
			fired <- count
		})
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	clock.Advance(time.Second)
	assert.Equal(t, 1, waitFired(t, fired))

	clock.Advance(time.Second)
	assert.Equal(t, 2, waitFired(t, fired))
}

func TestLoopCancelStopsCallbacks(t *testing.T) {
	defer goleak.VerifyNone(t)

	loop, clock, stop := startLoop(t)
	defer stop()

	fired := make(chan int, 8)
	var task Task
	require.True(t, loop.Call(func() {
		task = loop.Every(500*time.Millisecond, func() { fired <- 1 })
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	clock.Advance(500 * time.Millisecond)
	waitFired(t, fired)

	require.True(t, loop.Call(task.Cancel))
	require.True(t, loop.Call(task.Cancel), "second cancel must be a no-op")

	clock.Advance(5 * time.Second)
	select {
	case <-fired:
		t.Fatal("callback fired after cancel")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLoopRunStopsTickerGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t)

	loop, _, stop := startLoop(t)

	require.True(t, loop.Call(func() {
		loop.Every(time.Second, func() {})
		loop.Every(700*time.Millisecond, func() {})
	}))

	err := stop()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoopPostAfterStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	loop, _, stop := startLoop(t)
	require.ErrorIs(t, stop(), context.Canceled)

	assert.False(t, loop.Post(func() {}))
	assert.False(t, loop.Call(func() {}))

	task := loop.Every(time.Second, func() {})
	task.Cancel()
}
