package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-match3/internal/games/match3/layouts"
	"github.com/vovakirdan/tui-match3/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available games and builtin layouts",
	Long:  `Shows the registered games and the builtin board layouts.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No games available.")
		return
	}

	fmt.Println("Available games:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, g := range games {
		if len(g.ID) > maxIDLen {
			maxIDLen = len(g.ID)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, g := range games {
		fmt.Printf("  %-*s  %s\n", maxIDLen, g.ID, g.Title)
	}

	if builtin, err := layouts.Builtin(); err == nil && len(builtin) > 0 {
		fmt.Println()
		fmt.Println("Builtin layouts:")
		fmt.Println()
		for _, l := range builtin {
			fmt.Printf("  %-10s  %dx%d, %d colors  %s\n", l.ID, l.Rows(), l.Columns(), l.TotalColors, l.Name)
		}
	}

	fmt.Println()
	fmt.Println("Run 'match3 play <id>' to play a game, 'match3 play --layout <layout>' for a fixed board.")
}
