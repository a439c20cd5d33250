package core

// RuntimeConfig contains per-process settings passed to the game platform.
type RuntimeConfig struct {
	ScreenW int    // Screen width in characters
	ScreenH int    // Screen height in characters
	Seed    int64  // RNG seed for reproducible target placement
	Owner   string // Who the best score and history belong to
}

// LocalOwner is the owner used for games played on this machine.
const LocalOwner = "local"

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
		Seed:    0, // 0 means use current time in platform layer
		Owner:   LocalOwner,
	}
}
