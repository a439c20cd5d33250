package whack

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-whack/internal/sched"
)

// NoCell marks the absence of an active cell.
const NoCell = -1

// Relocator moves the active cell on a fixed cadence.
type Relocator struct {
	sched       sched.Scheduler
	interval    time.Duration
	size        int
	avoidRepeat bool
	rng         *rand.Rand
	onMove      func(cell int)

	last int // Last emitted cell since arming, or NoCell
	task sched.Task
}

// NewRelocator creates a disarmed relocator over size cells.
// onMove receives every new cell, and NoCell when the relocator is disarmed.
func NewRelocator(s sched.Scheduler, interval time.Duration, size int, avoidRepeat bool, rng *rand.Rand, onMove func(cell int)) *Relocator {
	return &Relocator{
		sched:       s,
		interval:    interval,
		size:        size,
		avoidRepeat: avoidRepeat,
		rng:         rng,
		onMove:      onMove,
		last:        NoCell,
	}
}

// Arm starts relocating. Re-arming disarms first, so the first tick after
// every Arm has no predecessor.
func (r *Relocator) Arm() {
	r.Disarm()
	r.task = r.sched.Every(r.interval, r.tick)
}

// Disarm stops relocating and clears the active cell.
func (r *Relocator) Disarm() {
	if r.task == nil {
		return
	}
	r.task.Cancel()
	r.task = nil
	r.last = NoCell
	r.onMove(NoCell)
}

// Armed reports whether the relocator is ticking.
func (r *Relocator) Armed() bool {
	return r.task != nil
}

func (r *Relocator) tick() {
	if r.task == nil {
		return
	}
	r.last = NextCell(r.rng.Intn(r.size), r.last, r.size, r.avoidRepeat)
	r.onMove(r.last)
}

// NextCell resolves a uniform draw into the next active cell. With
// avoidRepeat, a draw equal to prev moves to the adjacent cell (wrapping), so
// the target always moves when it has a previous position.
func NextCell(draw, prev, size int, avoidRepeat bool) int {
	if avoidRepeat && prev != NoCell && draw == prev {
		return (draw + 1) % size
	}
	return draw
}
