package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/match3.yaml
var defaultMatch3YAML []byte

// DefaultMatch3Config returns the built-in settings. It matches
// defaults/match3.yaml and is the base every loaded file is merged onto.
func DefaultMatch3Config() Match3Config {
	return Match3Config{
		Board: BoardConfig{
			Rows:        8,
			Columns:     8,
			TotalColors: 5,
		},
		Layout: LayoutConfig{
			TileWidth:  3,
			TileHeight: 1,
			Gap:        1,
		},
		Engine: EngineConfig{
			SettleTimeout: 2 * time.Second,
		},
		Animation: AnimationConfig{
			SwapTicks: 6,
			PopTicks:  6,
			FallTicks: 8,
		},
		Gameplay: GameplayConfig{
			Moves:          30,
			PointsPerToken: 10,
			BonusMoveEvery: 500,
		},
		Simulation: SimulationConfig{
			Swaps:    200,
			Interval: 250 * time.Millisecond,
		},
	}
}

// DefaultYAML returns the embedded default file.
func DefaultYAML() []byte {
	return defaultMatch3YAML
}
