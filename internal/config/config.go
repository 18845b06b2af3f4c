// Package config loads match-3 settings from YAML, the embedded default and
// the environment, and applies difficulty presets.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-match3/internal/core"
)

// Match3Config holds every tunable of the game and the simulator.
type Match3Config struct {
	Seed       int64            `yaml:"seed" env:"SEED"`
	Board      BoardConfig      `yaml:"board"`
	Layout     LayoutConfig     `yaml:"layout"`
	Engine     EngineConfig     `yaml:"engine"`
	Animation  AnimationConfig  `yaml:"animation"`
	Gameplay   GameplayConfig   `yaml:"gameplay"`
	Simulation SimulationConfig `yaml:"simulation"`
}

// BoardConfig is the grid size and palette.
type BoardConfig struct {
	Rows        int `yaml:"rows" env:"ROWS"`
	Columns     int `yaml:"columns" env:"COLUMNS"`
	TotalColors int `yaml:"total_colors" env:"COLORS"`
}

// LayoutConfig controls presentation spacing. A non-empty File loads a
// fixed board instead of a random one.
type LayoutConfig struct {
	TileWidth  int    `yaml:"tile_width" env:"TILE_WIDTH"`
	TileHeight int    `yaml:"tile_height" env:"TILE_HEIGHT"`
	Gap        int    `yaml:"gap" env:"TILE_GAP"`
	File       string `yaml:"file" env:"LAYOUT"`
}

// EngineConfig tunes the swap controller.
type EngineConfig struct {
	SettleTimeout time.Duration `yaml:"settle_timeout" env:"SETTLE_TIMEOUT"`
}

// AnimationConfig sets phase lengths in ticks.
type AnimationConfig struct {
	SwapTicks int `yaml:"swap_ticks" env:"SWAP_TICKS"`
	PopTicks  int `yaml:"pop_ticks" env:"POP_TICKS"`
	FallTicks int `yaml:"fall_ticks" env:"FALL_TICKS"`
}

// GameplayConfig sets scoring and the move budget.
type GameplayConfig struct {
	Moves          int `yaml:"moves" env:"MOVES"` // 0 = unlimited
	PointsPerToken int `yaml:"points_per_token" env:"POINTS_PER_TOKEN"`
	BonusMoveEvery int `yaml:"bonus_move_every" env:"BONUS_MOVE_EVERY"` // points per extra move, 0 = off
}

// SimulationConfig drives the autoplay and soak runs.
type SimulationConfig struct {
	Swaps    int           `yaml:"swaps" env:"SIM_SWAPS"`
	Interval time.Duration `yaml:"interval" env:"SIM_INTERVAL"`
}

// Limits enforced by Validate.
const (
	MaxRows    = 20
	MaxColumns = 20
	MinColors  = 2
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Validate checks ranges. The board may not use more colors than the
// terminal palette can show.
func (c Match3Config) Validate() error {
	switch {
	case c.Board.Rows < 1 || c.Board.Rows > MaxRows:
		return fmt.Errorf("%w: board.rows %d (want 1..%d)", ErrInvalid, c.Board.Rows, MaxRows)
	case c.Board.Columns < 1 || c.Board.Columns > MaxColumns:
		return fmt.Errorf("%w: board.columns %d (want 1..%d)", ErrInvalid, c.Board.Columns, MaxColumns)
	case c.Board.TotalColors < MinColors || c.Board.TotalColors > len(core.TokenPalette):
		return fmt.Errorf("%w: board.total_colors %d (want %d..%d)", ErrInvalid, c.Board.TotalColors, MinColors, len(core.TokenPalette))
	case c.Layout.TileWidth < 1 || c.Layout.TileHeight < 1 || c.Layout.Gap < 0:
		return fmt.Errorf("%w: layout tile %dx%d gap %d", ErrInvalid, c.Layout.TileWidth, c.Layout.TileHeight, c.Layout.Gap)
	case c.Engine.SettleTimeout < 0:
		return fmt.Errorf("%w: engine.settle_timeout %s", ErrInvalid, c.Engine.SettleTimeout)
	case c.Animation.SwapTicks < 0 || c.Animation.PopTicks < 0 || c.Animation.FallTicks < 0:
		return fmt.Errorf("%w: negative animation length", ErrInvalid)
	case c.Gameplay.Moves < 0 || c.Gameplay.PointsPerToken < 0 || c.Gameplay.BonusMoveEvery < 0:
		return fmt.Errorf("%w: negative gameplay value", ErrInvalid)
	case c.Simulation.Swaps < 0:
		return fmt.Errorf("%w: simulation.swaps %d", ErrInvalid, c.Simulation.Swaps)
	case c.Simulation.Interval <= 0:
		return fmt.Errorf("%w: simulation.interval %s", ErrInvalid, c.Simulation.Interval)
	}
	return nil
}
