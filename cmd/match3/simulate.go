package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/games/match3"
	"github.com/vovakirdan/tui-match3/internal/games/match3/board"
	"github.com/vovakirdan/tui-match3/internal/games/match3/engine"
)

var (
	flagSimSwaps    int
	flagSimInterval time.Duration
	flagSimRows     int
	flagSimColumns  int
	flagSimColors   int
	flagSimLayout   string
	flagSimNoSave   bool
	flagSimBoard    bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a headless random-swap simulation",
	Long: `Run the engine's simulation mode without a terminal UI.

Every interval of simulated time one random token is swapped with a random
neighbour. Accepted swaps resolve immediately. After every resolution the
board is checked for leftover matches and holes; any violation makes the
command fail. The run summary is stored in the scores database unless
--no-save is given.

Ctrl+C stops the run early; the swap in flight still resolves.

Examples:
  match3 simulate
  match3 simulate --swaps 5000 --seed 42
  match3 simulate --rows 12 --columns 12 --colors 3
  match3 simulate --layout cascade --print-board`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimSwaps, "swaps", 0, "Number of swap attempts (0 = config value)")
	simulateCmd.Flags().DurationVar(&flagSimInterval, "interval", 0, "Simulated time between swaps (0 = config value)")
	simulateCmd.Flags().IntVar(&flagSimRows, "rows", 0, "Board rows (0 = config value)")
	simulateCmd.Flags().IntVar(&flagSimColumns, "columns", 0, "Board columns (0 = config value)")
	simulateCmd.Flags().IntVar(&flagSimColors, "colors", 0, "Number of colors (0 = config value)")
	simulateCmd.Flags().StringVar(&flagSimLayout, "layout", "", "Builtin layout ID or path to a layout YAML")
	simulateCmd.Flags().BoolVar(&flagSimNoSave, "no-save", false, "Do not store the run in the database")
	simulateCmd.Flags().BoolVar(&flagSimBoard, "print-board", false, "Print the final board")
}

// soakOptions configures a headless simulation.
type soakOptions struct {
	Config config.Match3Config
	Seed   int64
	Logger *log.Logger
}

// soakReport is the outcome of a headless simulation.
type soakReport struct {
	Board      board.Config
	Seed       int64
	Stats      engine.SimulationStats
	Elapsed    time.Duration // simulated time
	Wall       time.Duration
	Violations []string
	Final      string
}

var errSoakStalled = errors.New("simulation did not finish")

// runSoak drives an auto-settling engine with a synthetic clock until its
// simulation finishes. Cancelling ctx stops the simulation early.
func runSoak(ctx context.Context, opts soakOptions) (soakReport, error) {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr)
		logger.SetLevel(log.ErrorLevel)
	}

	b, _, err := match3.NewBoard(cfg, rand.New(rand.NewSource(opts.Seed)))
	if err != nil {
		return soakReport{}, err
	}
	eng, err := engine.New(b, engine.Options{
		SimRand:    rand.New(rand.NewSource(opts.Seed + 1)),
		Logger:     logger,
		AutoSettle: true,
	})
	if err != nil {
		return soakReport{}, err
	}

	report := soakReport{Board: b.Config(), Seed: opts.Seed}
	finished := false
	eng.Subscribe(func(evt engine.Event) {
		switch e := evt.(type) {
		case engine.Stabilized:
			report.Violations = append(report.Violations, checkBoard(eng.Board(), e)...)
		case engine.SimulationFinished:
			report.Stats = e.Stats
			finished = true
		}
	})

	if err := eng.RunSimulation(cfg.Simulation.Swaps, cfg.Simulation.Interval); err != nil {
		return report, err
	}

	start := time.Now()
	epoch := time.Unix(0, 0)
	now := epoch
	// One Advance arms the clock, then each one fires a tick
	for limit := cfg.Simulation.Swaps + 2; !finished && limit > 0; limit-- {
		select {
		case <-ctx.Done():
			eng.StopSimulation()
		default:
		}
		if finished {
			break
		}
		eng.Advance(now)
		now = now.Add(cfg.Simulation.Interval)
	}

	report.Elapsed = now.Sub(epoch)
	report.Wall = time.Since(start)
	report.Final = eng.Board().String()
	if !finished {
		return report, errSoakStalled
	}
	return report, nil
}

// checkBoard verifies the board after a resolution: full and free of
// matches.
func checkBoard(b *board.Board, e engine.Stabilized) []string {
	var out []string
	if m := b.FindMatches(); m.Len() > 0 {
		out = append(out, fmt.Sprintf("board unstable after %d steps: %d matched cells", e.Steps, m.Len()))
	}
	if !b.Full() {
		out = append(out, fmt.Sprintf("board has %d empty cells after %d steps",
			b.Rows()*b.Columns()-b.TokenCount(), e.Steps))
	}
	return out
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	cfg := gameCfg
	if flagSimSwaps > 0 {
		cfg.Simulation.Swaps = flagSimSwaps
	}
	if flagSimInterval > 0 {
		cfg.Simulation.Interval = flagSimInterval
	}
	if flagSimRows > 0 {
		cfg.Board.Rows = flagSimRows
	}
	if flagSimColumns > 0 {
		cfg.Board.Columns = flagSimColumns
	}
	if flagSimColors > 0 {
		cfg.Board.TotalColors = flagSimColors
	}
	if flagSimLayout != "" {
		cfg.Layout.File = flagSimLayout
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	seed := flagSeed
	if seed == 0 {
		seed = cfg.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("simulation starting", "seed", seed, "swaps", cfg.Simulation.Swaps, "interval", cfg.Simulation.Interval)
	report, err := runSoak(ctx, soakOptions{Config: cfg, Seed: seed, Logger: logger})
	if err != nil {
		return err
	}

	printReport(report)

	if !flagSimNoSave {
		if store := openStore(); store != nil {
			if err := store.RecordSimulation(report.Board, report.Seed, report.Stats, report.Elapsed); err != nil {
				logger.Warn("could not save simulation run", "error", err)
			}
			store.Close()
		}
	}

	if len(report.Violations) > 0 {
		return fmt.Errorf("simulation found %d board violations", len(report.Violations))
	}
	return nil
}

func printReport(r soakReport) {
	s := r.Stats
	fmt.Printf("Simulation - %dx%d board, %d colors, seed %d\n", r.Board.Rows, r.Board.Columns, r.Board.Colors, r.Seed)
	if s.Stopped {
		fmt.Println("Stopped early.")
	}
	fmt.Println()
	fmt.Printf("  Ticks:     %d of %d (%d skipped)\n", s.Ticks, s.Requested, s.Skipped)
	fmt.Printf("  Accepted:  %d\n", s.Accepted)
	fmt.Printf("  Rejected:  %d\n", s.RejectedTotal())

	reasons := make([]string, 0, len(s.Rejected))
	for reason := range s.Rejected {
		reasons = append(reasons, string(reason))
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		fmt.Printf("    %-14s %d\n", reason, s.Rejected[board.Rejection(reason)])
	}

	fmt.Printf("  Resolves:  %d\n", s.Resolves)
	fmt.Printf("  Cascades:  %d (deepest %d)\n", s.Cascades, s.MaxDepth)
	fmt.Printf("  Removed:   %d tokens\n", s.Removed)
	if s.TimedOut > 0 || s.Unstable > 0 {
		fmt.Printf("  Timeouts:  %d  Unstable: %d\n", s.TimedOut, s.Unstable)
	}
	fmt.Printf("  Time:      %s simulated, %s wall\n", r.Elapsed, r.Wall.Round(time.Millisecond))

	for _, v := range r.Violations {
		fmt.Printf("  VIOLATION: %s\n", v)
	}

	if flagSimBoard {
		fmt.Println()
		fmt.Println(r.Final)
	}
}
