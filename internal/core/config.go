package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState is the run state visible outside the core.
// Returned by Game.State() and mirrored into the state sink.
type GameState struct {
	Score    int    // Current score, never negative
	Level    int    // Current level, starts at 1
	Health   int    // Current health in [0, 100]
	GameOver bool   // Whether the run has ended
	Paused   bool   // Whether the run is paused
	Phase    string // Run phase name (playing, paused, level_complete, game_over)
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
}

// StatePatch is a partial state update. Nil fields are left untouched by the
// receiving sink (merge-update, last write wins per field).
type StatePatch struct {
	Score    *int
	Level    *int
	Health   *int
	GameOver *bool
}

// Empty reports whether the patch carries no fields.
func (p StatePatch) Empty() bool {
	return p.Score == nil && p.Level == nil && p.Health == nil && p.GameOver == nil
}

// Apply merges the patch into s and returns the result.
func (p StatePatch) Apply(s GameState) GameState {
	if p.Score != nil {
		s.Score = *p.Score
	}
	if p.Level != nil {
		s.Level = *p.Level
	}
	if p.Health != nil {
		s.Health = *p.Health
	}
	if p.GameOver != nil {
		s.GameOver = *p.GameOver
	}
	return s
}

// StateSink receives one-way state pushes from the core. The core reads the
// sink only once, at run start, through Snapshot.
type StateSink interface {
	PushState(p StatePatch)
	Snapshot() GameState
}

// IntPtr returns a pointer to v, for building patches.
func IntPtr(v int) *int {
	return &v
}

// BoolPtr returns a pointer to v, for building patches.
func BoolPtr(v bool) *bool {
	return &v
}
