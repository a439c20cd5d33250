package config

import (
	_ "embed"
)

//go:embed defaults/whack.yaml
var defaultWhackYAML []byte

// DefaultWhackConfig returns the reference configuration: a 3x3 grid,
// 30 second sessions, a 1s clock and a 700ms relocation cadence.
func DefaultWhackConfig() WhackConfig {
	return WhackConfig{
		Grid: GridConfig{
			Size:    9,
			Columns: 3,
		},
		Session: SessionConfig{
			LengthSeconds: 30,
			ClockMS:       1000,
		},
		Target: TargetConfig{
			RelocateMS:  700,
			AvoidRepeat: true,
		},
		Scoring: ScoringConfig{
			HitPoints:   1,
			MissPenalty: 1,
		},
		Storage: StorageConfig{
			BestScoreKey: "wam_high_score_v1",
		},
	}
}
