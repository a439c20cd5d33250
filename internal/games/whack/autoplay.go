package whack

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-whack/internal/sched"
)

// Bot is a simulated player. Once per reaction interval it taps: the active
// cell with probability accuracy, any other cell otherwise. It waits while no
// target is showing.
type Bot struct {
	game     *Controller
	sched    sched.Scheduler
	reaction time.Duration
	accuracy float64
	rng      *rand.Rand
	task     sched.Task
	onTap    func(cell int, outcome TapOutcome)

	hits, misses int
}

// NewBot creates a bot for game. Accuracy is clamped to [0, 1].
func NewBot(game *Controller, s sched.Scheduler, reaction time.Duration, accuracy float64, rng *rand.Rand) *Bot {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	accuracy = min(max(accuracy, 0), 1)
	return &Bot{game: game, sched: s, reaction: reaction, accuracy: accuracy, rng: rng}
}

// OnTap registers a hook called after every tap the bot makes.
func (b *Bot) OnTap(fn func(cell int, outcome TapOutcome)) {
	b.onTap = fn
}

// Start begins tapping. Calling Start again restarts the cadence.
func (b *Bot) Start() {
	b.Stop()
	b.task = b.sched.Every(b.reaction, b.act)
}

// Stop stops tapping.
func (b *Bot) Stop() {
	if b.task != nil {
		b.task.Cancel()
		b.task = nil
	}
}

// Taps returns how many of the bot's taps hit and missed.
func (b *Bot) Taps() (hits, misses int) {
	return b.hits, b.misses
}

func (b *Bot) act() {
	snap := b.game.Snapshot()
	if snap.Phase != PhaseRunning {
		b.Stop()
		return
	}
	if snap.Active == NoCell {
		return
	}

	cell := snap.Active
	if b.rng.Float64() >= b.accuracy {
		// Any cell but the target
		cell = (snap.Active + 1 + b.rng.Intn(snap.Cells-1)) % snap.Cells
	}

	outcome := b.game.Tap(cell)
	switch outcome {
	case TapHit:
		b.hits++
	case TapMiss:
		b.misses++
	}
	if b.onTap != nil {
		b.onTap(cell, outcome)
	}
}
