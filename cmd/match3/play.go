package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/games/match3"
	"github.com/vovakirdan/tui-match3/internal/platform/tui"
	"github.com/vovakirdan/tui-match3/internal/registry"
	"github.com/vovakirdan/tui-match3/internal/storage"
)

var flagLayout string

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Play a game",
	Long: `Start playing the specified game (default: match3).

Unless --difficulty or --layout is given, a setup screen lets you pick the
difficulty and board layout first.

Controls:
  Arrows/WASD  - Move cursor (or swap the selected token)
  Space/Enter  - Select, or swap with the selected neighbour
  Esc/X        - Cancel selection
  H            - Show a hint
  P            - Pause
  R            - Restart (after game over)
  B            - Back
  Q/Ctrl+C     - Quit
  Ctrl+S       - Save a screenshot to ~/.match3/screenshots

Difficulty options:
  easy   - 4 colors, 40 moves
  normal - 5 colors, 30 moves
  hard   - 6 colors, 20 moves, no bonus moves
  fixed  - keep the values from the config file

Examples:
  match3 play
  match3 play --difficulty easy
  match3 play --layout opening
  match3 play match3_auto --seed 7
  match3 play --config ./my-match3.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagLayout, "layout", "", "Builtin layout ID or path to a layout YAML")
}

func runPlay(cmd *cobra.Command, args []string) error {
	gameID := match3.GameID
	if len(args) > 0 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown game %q (run 'match3 list' to see available games)", gameID)
	}

	cfg := runtimeConfig()
	gc := gameCfg
	if flagLayout != "" {
		gc.Layout.File = flagLayout
	}

	// Show the setup screen only when nothing was chosen on the command line
	if flagDifficulty == "" && flagLayout == "" {
		selection, err := tui.RunSetup(gameTitle(gameID), cfg)
		if err != nil {
			return err
		}
		if selection == nil {
			return nil
		}
		gc = selection.Apply(gc)
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}
	return playGame(gameID, gc, store, cfg)
}

// playGame creates the game with its own config and runs it to completion.
func playGame(gameID string, gc config.Match3Config, store *storage.Store, cfg core.RuntimeConfig) error {
	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}
	if cu, ok := game.(tui.ConfigUser); ok {
		cu.UseConfig(gc)
	}

	logger.Info("game started", "game", gameID, "colors", gc.Board.TotalColors, "layout", gc.Layout.File)
	if err := tui.Run(game, store, cfg); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}

func gameTitle(gameID string) string {
	for _, g := range registry.List() {
		if g.ID == gameID {
			return g.Title
		}
	}
	return gameID
}
