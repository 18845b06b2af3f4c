package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-match3/internal/games/match3"
	"github.com/vovakirdan/tui-match3/internal/registry"
	"github.com/vovakirdan/tui-match3/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresRuns  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores or simulation runs",
	Long: `Display the top high scores for a game (default: match3), or the
most recent simulation runs with --runs.

Examples:
  match3 scores
  match3 scores match3_auto --limit 20
  match3 scores --runs`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of entries to show")
	scoresCmd.Flags().BoolVar(&flagScoresRuns, "runs", false, "Show recent simulation runs instead of scores")
}

func runScores(cmd *cobra.Command, args []string) error {
	gameID := match3.GameID
	if len(args) > 0 {
		gameID = args[0]
	}
	if !flagScoresRuns && !registry.Exists(gameID) {
		return fmt.Errorf("unknown game %q (run 'match3 list' to see available games)", gameID)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if flagScoresRuns {
		return printRuns(store)
	}

	scores, err := store.TopScores(gameID, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", gameTitle(gameID))
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'match3 play %s' to set the first high score!\n", gameID)
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.GetGameStats(gameID)
	if err == nil {
		fmt.Println()
		fmt.Printf("Best: %d  Games: %d  Average: %.0f\n", stats.HighScore, stats.GamesCount, stats.AvgScore)
	}
	return nil
}

func printRuns(store *storage.Store) error {
	runs, err := store.RecentRuns(flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving simulation runs: %w", err)
	}

	fmt.Println("Simulation Runs")
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No simulation runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'match3 simulate' to record one.")
		return nil
	}

	fmt.Printf("  %-16s  %-8s  %-20s  %-9s  %-8s  %-5s  %s\n",
		"Date", "Board", "Seed", "Accepted", "Cascades", "Depth", "Removed")
	for _, r := range runs {
		stopped := ""
		if r.Stopped {
			stopped = " (stopped)"
		}
		fmt.Printf("  %-16s  %-8s  %-20d  %-9s  %-8d  %-5d  %d%s\n",
			r.CreatedAt.Format("2006-01-02 15:04"),
			fmt.Sprintf("%dx%d/%d", r.Rows, r.Columns, r.Colors),
			r.Seed,
			fmt.Sprintf("%d/%d", r.Accepted, r.Ticks),
			r.Cascades, r.MaxDepth, r.Removed, stopped)
	}
	return nil
}
