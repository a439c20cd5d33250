package sched

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

// Loop is a single-threaded event loop driven by a clockwork clock.
// Ticker goroutines only deliver events; every callback executes on the
// goroutine that called Run.
type Loop struct {
	clock  clockwork.Clock
	events chan func()
	done   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

// NewLoop creates an event loop. Pass clockwork.NewRealClock() in production
// and a fake clock in tests.
func NewLoop(clock clockwork.Clock) *Loop {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Loop{
		clock:  clock,
		events: make(chan func(), 16),
		done:   make(chan struct{}),
	}
}

// Clock returns the clock driving this loop.
func (l *Loop) Clock() clockwork.Clock {
	return l.clock
}

// Run processes events until ctx is cancelled, then stops every ticker
// goroutine before returning ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	defer l.shutdown()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.events:
			fn()
		}
	}
}

// Post queues fn to run on the loop. It returns false if the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.events <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Call runs fn on the loop and waits for it to finish. It must not be called
// from a loop callback.
// It returns false if the loop stopped before fn ran.
func (l *Loop) Call(fn func()) bool {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return false
	}
	select {
	case <-finished:
		return true
	case <-l.done:
		return false
	}
}

// Every implements Scheduler. It may be called from any goroutine, but the
// no-fire-after-cancel guarantee only holds when Cancel is called on the loop.
func (l *Loop) Every(interval time.Duration, fn func()) Task {
	t := &loopTask{stop: make(chan struct{})}
	t.fire = func() {
		if !t.cancelled.Load() {
			fn()
		}
	}

	select {
	case <-l.done:
		t.Cancel()
		return t
	default:
	}

	ticker := l.clock.NewTicker(interval)
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-l.done:
				return
			case <-ticker.Chan():
				select {
				case l.events <- t.fire:
				case <-t.stop:
					return
				case <-l.done:
					return
				}
			}
		}
	}()
	return t
}

func (l *Loop) shutdown() {
	l.once.Do(func() { close(l.done) })
	l.wg.Wait()
}

type loopTask struct {
	cancelled atomic.Bool
	stop      chan struct{}
	fire      func()
}

func (t *loopTask) Cancel() {
	if t.cancelled.CompareAndSwap(false, true) {
		close(t.stop)
	}
}
