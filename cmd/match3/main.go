// match3 is a terminal match-3 puzzle with an autoplay soak mode.
//
// Usage:
//
//	match3 list              - List available games
//	match3 play [game]       - Play a game (default: match3)
//	match3 menu              - Start menu to pick games interactively
//	match3 simulate          - Run a headless random-swap simulation
//	match3 serve             - Start SSH server for remote play
//	match3 scores [game]     - Show high scores or simulation runs
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 30)
//	--seed <value>        - Set RNG seed for reproducible boards
//	--db <path>           - Set database path (default: ~/.match3/scores.db)
//	--config <path>       - Custom match-3 config YAML
//	--difficulty <name>   - Difficulty preset: easy, normal, hard, fixed
//	--log-level <level>   - debug, info, warn, error
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/games/match3"
	"github.com/vovakirdan/tui-match3/internal/platform/tui"
	"github.com/vovakirdan/tui-match3/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
	flagLogFile    string
	flagTheme      string
)

// Set up by the root command before any subcommand runs.
var (
	logger  *log.Logger
	gameCfg config.Match3Config
	logSink io.Closer
)

func main() {
	err := rootCmd.Execute()
	if logSink != nil {
		logSink.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "match3",
	Short: "Match-3 - Swap tokens, make lines, watch them cascade",
	Long: `Match-3 is a terminal tile puzzle. Swap two neighbouring tokens to line
up three or more of the same color; matched tokens vanish, the column above
falls down and new tokens drop in from the top, sometimes setting off
cascades.

Available commands:
  list      - Show all available games
  play      - Play a game directly
  menu      - Interactive game picker menu
  simulate  - Headless random-swap soak test
  serve     - Start SSH server for remote play
  scores    - View high scores and simulation runs

Examples:
  match3 play
  match3 play --difficulty hard
  match3 play match3_auto --seed 42
  match3 simulate --swaps 1000 --rows 9 --columns 9
  match3 serve --ssh :2222`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = config seed, or random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.match3/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom match-3 config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&flagTheme, "theme", "default", "Menu theme: default, neon, mono")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// setup builds the logger, loads the game config and applies the theme.
func setup(cmd *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}

	var out io.Writer = os.Stderr
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("cannot open log file: %w", err)
		}
		out, logSink = f, f
	}
	logger = log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "match3",
		Level:           level,
	})

	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return err
	}
	cfg, source, err := config.LoadMatch3Source(flagConfig)
	if err != nil {
		return err
	}
	config.ApplyMatch3Preset(&cfg, preset)
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger.Debug("config loaded", "source", source, "difficulty", preset, "command", cmd.Name())

	gameCfg = cfg
	match3.Configure(cfg)
	match3.SetLogger(logger)

	theme, err := tui.ThemeByName(flagTheme)
	if err != nil {
		return err
	}
	tui.SetTheme(theme)
	return nil
}

// runtimeConfig sizes the game to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the scores database. Games still work without one.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}
