package whack

import "time"

// Phase is the session state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseEnded
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// TapOutcome describes what a tap did.
type TapOutcome int

const (
	TapIgnored TapOutcome = iota // Not running
	TapHit
	TapMiss
	TapInvalid // Cell outside the grid
)

// String returns a human-readable name for the outcome.
func (o TapOutcome) String() string {
	switch o {
	case TapIgnored:
		return "ignored"
	case TapHit:
		return "hit"
	case TapMiss:
		return "miss"
	case TapInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// EndReason says why a running session ended.
type EndReason string

const (
	EndTimeout EndReason = "timeout" // Clock ran out
	EndStopped EndReason = "stopped" // Player stopped early
	EndReset   EndReason = "reset"   // Player reset while running
	EndClosed  EndReason = "closed"  // Controller torn down while running
)

// Result summarizes a session when it stops running.
type Result struct {
	Score   int
	Best    int
	NewBest bool
	Reason  EndReason
	Played  time.Duration
}

// Snapshot is a read-only copy of session state, used for rendering and tests.
type Snapshot struct {
	Phase         Phase
	TimeRemaining int
	Score         int
	Active        int
	Best          int
	NewBest       bool // Score beat the best score held when the session started
	Cells         int
}
