// Package whack implements the timed grid game: a countdown clock and a
// target relocator run side by side while the player taps the active cell.
// The controller owns all session state; timers reach it only through
// callbacks on the scheduler's control thread.
package whack

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-whack/internal/config"
	"github.com/vovakirdan/tui-whack/internal/sched"
)

// Deps are the collaborators a Controller runs on.
type Deps struct {
	Scheduler sched.Scheduler // Required
	Best      *BestScore      // nil keeps an in-memory best score
	Rand      *rand.Rand      // nil seeds from the current time
	Logger    *log.Logger     // nil discards
}

// Controller is the session state machine.
type Controller struct {
	cfg       config.WhackConfig
	ledger    Ledger
	best      *BestScore
	clock     *Clock
	relocator *Relocator
	logger    *log.Logger
	onEnd     func(Result)

	phase         Phase
	timeRemaining int
	score         int
	active        int
	bestAtStart   int
}

// NewController creates an idle controller.
func NewController(cfg config.WhackConfig, deps Deps) *Controller {
	if deps.Best == nil {
		deps.Best = LoadBestScore(nil, cfg.Storage.BestScoreKey, deps.Logger)
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard)
	}

	c := &Controller{
		cfg:           cfg,
		ledger:        NewLedger(cfg.Scoring),
		best:          deps.Best,
		logger:        deps.Logger,
		phase:         PhaseIdle,
		timeRemaining: cfg.Session.LengthSeconds,
		active:        NoCell,
	}
	c.clock = NewClock(deps.Scheduler, cfg.ClockInterval(), c.onClockTick, c.onClockEnd)
	c.relocator = NewRelocator(deps.Scheduler, cfg.RelocateInterval(), cfg.Grid.Size,
		cfg.Target.AvoidRepeat, deps.Rand, c.onRelocate)
	return c
}

// OnEnd registers a hook called once each time a running session stops.
func (c *Controller) OnEnd(fn func(Result)) {
	c.onEnd = fn
}

// Start begins a fresh session from any phase.
func (c *Controller) Start() {
	c.disarm()

	c.phase = PhaseRunning
	c.score = 0
	c.timeRemaining = c.cfg.Session.LengthSeconds
	c.active = NoCell
	c.bestAtStart = c.best.Value()

	c.clock.Arm(c.timeRemaining)
	c.relocator.Arm()
	c.logger.Debug("session started", "seconds", c.timeRemaining, "best", c.bestAtStart)
}

// Stop ends a running session early. It is a no-op in any other phase.
func (c *Controller) Stop() {
	if c.phase != PhaseRunning {
		return
	}
	c.end(EndStopped)
}

// Reset returns to idle, ending a running session first.
func (c *Controller) Reset() {
	if c.phase == PhaseRunning {
		c.end(EndReset)
	}
	c.phase = PhaseIdle
	c.score = 0
	c.timeRemaining = c.cfg.Session.LengthSeconds
	c.active = NoCell
}

// Tap selects a cell. Only a running session reacts.
func (c *Controller) Tap(cell int) TapOutcome {
	if c.phase != PhaseRunning {
		return TapIgnored
	}
	if cell < 0 || cell >= c.cfg.Grid.Size {
		return TapInvalid
	}

	if c.active != NoCell && cell == c.active {
		c.score = c.ledger.OnHit(c.score)
		// The hit cell stays dead until the next relocation.
		c.active = NoCell
		c.best.Reconcile(c.score)
		return TapHit
	}

	c.score = c.ledger.OnMiss(c.score)
	return TapMiss
}

// ClearBestScore resets the best score in any phase.
func (c *Controller) ClearBestScore() {
	c.best.Clear()
	c.bestAtStart = 0
	c.logger.Info("best score cleared", "key", c.best.Key())
}

// Close tears the controller down. Both timers are always disarmed.
func (c *Controller) Close() {
	if c.phase == PhaseRunning {
		c.end(EndClosed)
		return
	}
	c.disarm()
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Phase:         c.phase,
		TimeRemaining: c.timeRemaining,
		Score:         c.score,
		Active:        c.active,
		Best:          c.best.Value(),
		NewBest:       c.phase != PhaseIdle && c.score > c.bestAtStart,
		Cells:         c.cfg.Grid.Size,
	}
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// TimersArmed reports whether the clock and relocator are armed.
func (c *Controller) TimersArmed() (clock, relocator bool) {
	return c.clock.Armed(), c.relocator.Armed()
}

// Config returns the configuration the controller was built with.
func (c *Controller) Config() config.WhackConfig {
	return c.cfg
}

// end is the shared stop path: disarm both timers, reconcile, report.
func (c *Controller) end(reason EndReason) {
	c.disarm()
	c.phase = PhaseEnded
	c.active = NoCell
	c.best.Reconcile(c.score)

	res := Result{
		Score:   c.score,
		Best:    c.best.Value(),
		NewBest: c.score > c.bestAtStart,
		Reason:  reason,
		Played:  time.Duration(c.cfg.Session.LengthSeconds-c.timeRemaining) * c.cfg.ClockInterval(),
	}
	c.logger.Info("session ended", "reason", reason, "score", res.Score, "best", res.Best, "new_best", res.NewBest)
	if c.onEnd != nil {
		c.onEnd(res)
	}
}

func (c *Controller) disarm() {
	c.clock.Disarm()
	c.relocator.Disarm()
}

func (c *Controller) onClockTick(remaining int) {
	c.timeRemaining = remaining
}

func (c *Controller) onClockEnd() {
	if c.phase == PhaseRunning {
		c.end(EndTimeout)
	}
}

func (c *Controller) onRelocate(cell int) {
	if c.phase != PhaseRunning {
		c.active = NoCell
		return
	}
	c.active = cell
}
