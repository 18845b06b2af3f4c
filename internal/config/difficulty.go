package config

import "fmt"

// DifficultyPreset is a named bundle of palette size and move budget.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed" // keep the loaded values
)

// Presets lists the accepted names in menu order.
var Presets = []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}

// ParsePreset validates a preset name. An empty name means fixed.
func ParsePreset(name string) (DifficultyPreset, error) {
	if name == "" {
		return DifficultyFixed, nil
	}
	for _, p := range Presets {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", name)
}

// ApplyMatch3Preset adjusts cfg in place. Fewer colors make matches and
// cascades more frequent; more moves give the player more room.
func ApplyMatch3Preset(cfg *Match3Config, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Board.TotalColors = 4
		cfg.Gameplay.Moves = 40
	case DifficultyNormal:
		cfg.Board.TotalColors = 5
		cfg.Gameplay.Moves = 30
	case DifficultyHard:
		cfg.Board.TotalColors = 6
		cfg.Gameplay.Moves = 20
		cfg.Gameplay.BonusMoveEvery = 0
	}
}
