package core

// RuntimeConfig is passed to games on Reset.
type RuntimeConfig struct {
	ScreenW  int
	ScreenH  int
	TickRate int   // simulation ticks per second
	Seed     int64 // 0 lets the platform pick a time-based seed
}

// DefaultConfig returns an 80x24 screen at 30 ticks per second.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
	}
}

// GameState is what the platform needs to know about a running game.
type GameState struct {
	Score    int
	GameOver bool
	Paused   bool
}

// StepResult is returned by Game.Step after each tick.
type StepResult struct {
	State GameState
}
