package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-match3/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a game picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a game, then pick the
difficulty and layout. After a game ends, you return to the menu to play
again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select game
  Tab          - Scoreboard
  Q            - Quit

Examples:
  match3 menu
  match3 menu --fps 60
  match3 menu --db ./scores.db --theme neon`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	store := openStore()
	if store != nil {
		defer store.Close()
	}

	cfg := runtimeConfig()

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			return err
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			return nil
		}

		if menuResult.WantsScoreboard {
			goBack, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if goBack {
				continue // Back to menu
			}
			return nil // User quit from scoreboard
		}

		selection, err := tui.RunSetup(gameTitle(menuResult.GameID), cfg)
		if err != nil {
			return err
		}
		if selection == nil {
			continue
		}

		if err := playGame(menuResult.GameID, selection.Apply(gameCfg), store, cfg); err != nil {
			logger.Error("game failed", "game", menuResult.GameID, "error", err)
		}

		// Loop back to menu
	}
}
