// Package config provides YAML-based game configuration loading for whack.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid value")

// WhackConfig contains all configuration for the game.
// Values are read once at startup and stay fixed for the process lifetime.
type WhackConfig struct {
	Grid    GridConfig    `yaml:"grid"`
	Session SessionConfig `yaml:"session"`
	Target  TargetConfig  `yaml:"target"`
	Scoring ScoringConfig `yaml:"scoring"`
	Storage StorageConfig `yaml:"storage"`
}

// GridConfig defines the playfield.
type GridConfig struct {
	Size    int `yaml:"size"`    // Number of cells
	Columns int `yaml:"columns"` // Cells per rendered row
}

// SessionConfig defines the countdown.
type SessionConfig struct {
	LengthSeconds int `yaml:"length_seconds"`
	ClockMS       int `yaml:"clock_ms"`
}

// TargetConfig defines how the active cell moves.
type TargetConfig struct {
	RelocateMS  int  `yaml:"relocate_ms"`
	AvoidRepeat bool `yaml:"avoid_repeat"` // Never land on the previous cell twice in a row
}

// ScoringConfig defines points awarded and taken per tap.
type ScoringConfig struct {
	HitPoints   int `yaml:"hit_points"`
	MissPenalty int `yaml:"miss_penalty"` // 0 disables the wrong-tap penalty
}

// StorageConfig defines how the best score is keyed in the KV store.
type StorageConfig struct {
	BestScoreKey string `yaml:"best_score_key"`
}

// ClockInterval returns the countdown tick cadence.
func (c WhackConfig) ClockInterval() time.Duration {
	return time.Duration(c.Session.ClockMS) * time.Millisecond
}

// RelocateInterval returns the target relocation cadence.
func (c WhackConfig) RelocateInterval() time.Duration {
	return time.Duration(c.Target.RelocateMS) * time.Millisecond
}

// Rows returns the number of rendered grid rows.
func (c WhackConfig) Rows() int {
	if c.Grid.Columns <= 0 {
		return 0
	}
	return (c.Grid.Size + c.Grid.Columns - 1) / c.Grid.Columns
}

// Validate checks that every value is usable.
func (c WhackConfig) Validate() error {
	switch {
	case c.Grid.Size < 2:
		// The avoid-repeat rule needs somewhere else to go.
		return fmt.Errorf("%w: grid.size must be at least 2, got %d", ErrInvalid, c.Grid.Size)
	case c.Grid.Columns <= 0:
		return fmt.Errorf("%w: grid.columns must be positive, got %d", ErrInvalid, c.Grid.Columns)
	case c.Session.LengthSeconds <= 0:
		return fmt.Errorf("%w: session.length_seconds must be positive, got %d", ErrInvalid, c.Session.LengthSeconds)
	case c.Session.ClockMS <= 0:
		return fmt.Errorf("%w: session.clock_ms must be positive, got %d", ErrInvalid, c.Session.ClockMS)
	case c.Target.RelocateMS <= 0:
		return fmt.Errorf("%w: target.relocate_ms must be positive, got %d", ErrInvalid, c.Target.RelocateMS)
	case c.Scoring.HitPoints <= 0:
		return fmt.Errorf("%w: scoring.hit_points must be positive, got %d", ErrInvalid, c.Scoring.HitPoints)
	case c.Scoring.MissPenalty < 0:
		return fmt.Errorf("%w: scoring.miss_penalty must not be negative, got %d", ErrInvalid, c.Scoring.MissPenalty)
	case c.Storage.BestScoreKey == "":
		return fmt.Errorf("%w: storage.best_score_key is empty", ErrInvalid)
	}
	return nil
}
