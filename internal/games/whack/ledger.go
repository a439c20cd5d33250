package whack

import "github.com/vovakirdan/tui-whack/internal/config"

// Ledger is the score arithmetic. It holds only policy, never game state.
type Ledger struct {
	HitPoints   int
	MissPenalty int
}

// NewLedger creates a ledger from the scoring config.
func NewLedger(cfg config.ScoringConfig) Ledger {
	return Ledger{
		HitPoints:   cfg.HitPoints,
		MissPenalty: cfg.MissPenalty,
	}
}

// OnHit returns the score after a tap on the active cell.
func (l Ledger) OnHit(score int) int {
	return score + l.HitPoints
}

// OnMiss returns the score after a tap anywhere else, floored at zero.
func (l Ledger) OnMiss(score int) int {
	return max(score-l.MissPenalty, 0)
}

// ReconcileBest returns the larger of score and best. When the result differs
// from best the caller must persist it.
func ReconcileBest(score, best int) int {
	return max(score, best)
}

// ClearBest returns the cleared best score. The caller must also remove the
// persisted entry.
func ClearBest() int {
	return 0
}
