package whack

import (
	"time"

	"github.com/vovakirdan/tui-whack/internal/sched"
)

// Clock counts a session down one second per tick.
type Clock struct {
	sched    sched.Scheduler
	interval time.Duration
	onTick   func(remaining int)
	onEnd    func()

	remaining int
	task      sched.Task
}

// NewClock creates a disarmed clock. onTick receives the remaining time after
// every tick, including the terminal one; onEnd follows the terminal tick.
func NewClock(s sched.Scheduler, interval time.Duration, onTick func(remaining int), onEnd func()) *Clock {
	return &Clock{
		sched:    s,
		interval: interval,
		onTick:   onTick,
		onEnd:    onEnd,
	}
}

// Arm starts counting down from seconds. An armed clock is disarmed first so
// there is never more than one tick stream.
func (c *Clock) Arm(seconds int) {
	c.Disarm()
	c.remaining = seconds
	c.task = c.sched.Every(c.interval, c.tick)
}

// Disarm stops the clock. It is a no-op when the clock is not armed.
func (c *Clock) Disarm() {
	if c.task == nil {
		return
	}
	c.task.Cancel()
	c.task = nil
}

// Armed reports whether the clock is ticking.
func (c *Clock) Armed() bool {
	return c.task != nil
}

// Remaining returns the seconds left.
func (c *Clock) Remaining() int {
	return c.remaining
}

func (c *Clock) tick() {
	if c.task == nil {
		return
	}

	c.remaining--
	if c.remaining > 0 {
		c.onTick(c.remaining)
		return
	}

	// Terminal tick: clamp, stop, then report the end.
	c.remaining = 0
	c.Disarm()
	c.onTick(0)
	if c.onEnd != nil {
		c.onEnd()
	}
}
