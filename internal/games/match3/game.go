// Package match3 adapts the match-3 engine to the platform's Game
// interface: cursor input, animation phases, scoring and rendering.
package match3

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/games/match3/board"
	"github.com/vovakirdan/tui-match3/internal/games/match3/engine"
	"github.com/vovakirdan/tui-match3/internal/games/match3/layouts"
	"github.com/vovakirdan/tui-match3/internal/registry"
)

// Mode selects manual play or autoplay.
type Mode string

const (
	ModeManual Mode = "manual"
	ModeAuto   Mode = "auto"
)

// Registry IDs.
const (
	GameID     = "match3"
	AutoGameID = "match3_auto"
)

const hintSeconds = 2

var (
	settingsMu sync.RWMutex
	configured *config.Match3Config
	logger     = log.New(io.Discard)
)

// Configure sets the config used by every subsequent Reset. Without it the
// game loads config.LoadMatch3("").
func Configure(cfg config.Match3Config) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	configured = &cfg
}

// SetLogger sets the logger handed to new engines.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	settingsMu.Lock()
	defer settingsMu.Unlock()
	logger = l
}

func currentSettings() (config.Match3Config, *log.Logger) {
	settingsMu.RLock()
	cfg, l := configured, logger
	settingsMu.RUnlock()

	if cfg != nil {
		return *cfg, l
	}
	loaded, err := config.LoadMatch3("")
	if err != nil {
		l.Warn("config load failed, using defaults", "err", err)
		return config.DefaultMatch3Config(), l
	}
	return loaded, l
}

// Game is the playable match-3 board.
type Game struct {
	mode     Mode
	cfg      config.Match3Config
	override *config.Match3Config
	logger   *log.Logger
	seed     int64

	engine *engine.Engine
	sink   *engine.ChannelSink
	view   *view

	// dropped is the sink drop count the view was last resynced at.
	dropped int64

	tick     uint64
	tickRate int
	now      time.Time

	cursor    board.Pos
	selected  bool
	selection board.Pos
	hint      *board.Move
	hintTicks int
	message   string

	score     int
	movesLeft int // -1 = unlimited
	nextBonus int
	combo     int
	bestCombo int

	simStats    engine.SimulationStats
	simFinished bool

	screenW  int
	screenH  int
	gameOver bool
	overWhy  string
	paused   bool
	tooSmall bool
	err      error
}

// New creates a manual game.
func New() *Game {
	return &Game{mode: ModeManual}
}

// NewAuto creates an autoplay game driven by the engine's simulation.
func NewAuto() *Game {
	return &Game{mode: ModeAuto}
}

func init() {
	registry.Register(GameID, func() registry.Game {
		return New()
	})
	registry.Register(AutoGameID, func() registry.Game {
		return NewAuto()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeAuto {
		return AutoGameID
	}
	return GameID
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeAuto {
		return "Match-3 (Autoplay)"
	}
	return "Match-3"
}

// Description returns a one-line summary for menus.
func (g *Game) Description() string {
	if g.mode == ModeAuto {
		return "Watch random swaps cascade across the board"
	}
	return "Swap adjacent tokens to line up three or more"
}

// UseConfig pins the config of this instance, overriding Configure. SSH
// sessions use it so each player keeps their own difficulty.
func (g *Game) UseConfig(cfg config.Match3Config) {
	g.override = &cfg
}

func (g *Game) settings() (config.Match3Config, *log.Logger) {
	if g.override == nil {
		return currentSettings()
	}
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return *g.override, logger
}

// Reset starts a new round.
func (g *Game) Reset(rc core.RuntimeConfig) {
	cfg, l := g.settings()

	g.cfg = cfg
	g.logger = l
	g.tick = 0
	g.tickRate = rc.TickRate
	if g.tickRate <= 0 {
		g.tickRate = core.DefaultConfig().TickRate
	}
	g.now = time.Unix(0, 0)
	g.screenW = rc.ScreenW
	g.screenH = rc.ScreenH

	g.selected = false
	g.hint = nil
	g.hintTicks = 0
	g.message = ""
	g.score = 0
	g.combo = 0
	g.bestCombo = 0
	g.simStats = engine.SimulationStats{}
	g.simFinished = false
	g.gameOver = false
	g.overWhy = ""
	g.paused = false
	g.err = nil

	if g.sink != nil {
		g.sink.Close()
	}

	seed := rc.Seed
	if seed == 0 {
		seed = cfg.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.seed = seed

	b, moves, err := g.buildBoard(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		g.err = err
		g.engine = nil
		g.view = nil
		return
	}
	g.movesLeft = moves
	if g.mode == ModeAuto || moves <= 0 {
		g.movesLeft = -1
	}
	g.nextBonus = cfg.Gameplay.BonusMoveEvery

	g.engine, err = engine.New(b, engine.Options{
		SimRand:       rand.New(rand.NewSource(seed + 1)),
		Logger:        l,
		SettleTimeout: cfg.Engine.SettleTimeout,
	})
	if err != nil {
		g.err = err
		g.view = nil
		return
	}
	g.sink = engine.NewChannelSink(4*b.Rows()*b.Columns() + 16)
	g.dropped = 0
	g.engine.Subscribe(g.sink.Handle)
	g.view = newView(b, cfg.Animation)
	g.cursor = board.P(b.Rows()-1, 0)

	if g.mode == ModeAuto {
		if err := g.engine.RunSimulation(cfg.Simulation.Swaps, cfg.Simulation.Interval); err != nil {
			g.err = err
			return
		}
		g.processEvents()
	}

	g.checkScreenSize()
}

// buildBoard returns a layout board when one is configured, otherwise a
// random one. A broken layout falls back to a random board.
func (g *Game) buildBoard(cfg config.Match3Config, rng *rand.Rand) (*board.Board, int, error) {
	b, moves, err := NewBoard(cfg, rng)
	if err == nil || cfg.Layout.File == "" {
		return b, moves, err
	}
	g.logger.Warn("layout unusable, using random board", "layout", cfg.Layout.File, "err", err)
	cfg.Layout.File = ""
	return NewBoard(cfg, rng)
}

// NewBoard builds the starting board for cfg: the configured layout when
// one is set, otherwise a random match-free board. It also returns the move
// budget, which a layout may override.
func NewBoard(cfg config.Match3Config, rng board.Intner) (*board.Board, int, error) {
	if cfg.Layout.File != "" {
		l, err := layouts.Resolve(cfg.Layout.File)
		if err != nil {
			return nil, 0, err
		}
		b, err := l.Board(rng)
		if err != nil {
			return nil, 0, fmt.Errorf("layout %s: %w", l.ID, err)
		}
		moves := cfg.Gameplay.Moves
		if l.Moves > 0 {
			moves = l.Moves
		}
		return b, moves, nil
	}

	b, err := board.New(board.Config{
		Rows:    cfg.Board.Rows,
		Columns: cfg.Board.Columns,
		Colors:  cfg.Board.TotalColors,
	}, rng)
	return b, cfg.Gameplay.Moves, err
}

// Resize adapts to a new terminal size without restarting the round.
func (g *Game) Resize(w, h int) {
	g.screenW, g.screenH = w, h
	g.checkScreenSize()
}

func (g *Game) checkScreenSize() {
	if g.view == nil {
		g.tooSmall = false
		return
	}
	w, h := g.boardSize()
	g.tooSmall = g.screenW < w+2 || g.screenH < h+hudHeight+footerHeight
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.err != nil || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused || g.gameOver {
		return core.StepResult{State: g.State()}
	}

	if g.mode == ModeManual {
		g.handleInput(in)
	}

	g.now = g.now.Add(time.Second / time.Duration(g.tickRate))
	g.engine.Advance(g.now)
	g.processEvents()

	if g.view.update() {
		g.onSwapShown()
	}
	g.resync()

	if g.hintTicks > 0 {
		g.hintTicks--
		if g.hintTicks == 0 {
			g.hint = nil
		}
	}

	g.checkGameOver()
	return core.StepResult{State: g.State()}
}

func (g *Game) handleInput(in core.InputFrame) {
	b := g.engine.Board()

	if in.Has(core.ActionCancel) {
		g.selected = false
	}
	if in.Has(core.ActionHint) && !g.busy() {
		if moves := b.PossibleMoves(); len(moves) > 0 {
			g.hint = &moves[0]
			g.hintTicks = hintSeconds * g.tickRate
		}
	}

	var dir board.Pos
	switch {
	case in.Has(core.ActionUp):
		dir = board.P(1, 0)
	case in.Has(core.ActionDown):
		dir = board.P(-1, 0)
	case in.Has(core.ActionLeft):
		dir = board.P(0, -1)
	case in.Has(core.ActionRight):
		dir = board.P(0, 1)
	}

	if dir != (board.Pos{}) {
		from := g.cursor
		if g.selected {
			from = g.selection
		}
		target := board.P(from.Row+dir.Row, from.Col+dir.Col)
		if g.selected {
			g.trySwap(g.selection, target)
		} else if b.InBounds(target) {
			g.cursor = target
		}
	}

	if in.Has(core.ActionSelect) {
		switch {
		case !g.selected:
			g.selected = true
			g.selection = g.cursor
		case g.selection == g.cursor:
			g.selected = false
		case g.selection.Manhattan(g.cursor) == 1:
			g.trySwap(g.selection, g.cursor)
		default:
			g.selection = g.cursor
		}
	}
}

// trySwap asks the engine to swap a and b. Accepted swaps cost a move and
// move the cursor onto b.
func (g *Game) trySwap(a, b board.Pos) {
	if g.busy() {
		g.message = rejectionText(board.Busy)
		return
	}
	res := g.engine.RequestSwap(a, b)
	if !res.Accepted {
		g.message = rejectionText(res.Reason)
		if res.Reason == board.OutOfBounds {
			g.selected = false
		}
		return
	}
	g.message = ""
	g.selected = false
	g.hint = nil
	g.hintTicks = 0
	g.cursor = b
	if g.movesLeft > 0 {
		g.movesLeft--
	}
}

func rejectionText(r board.Rejection) string {
	return "swap refused: " + strings.ReplaceAll(string(r), "_", " ")
}

// busy reports whether the engine or the view still has work in flight.
func (g *Game) busy() bool {
	return g.engine.State() != engine.Idle || g.view.animating()
}

// processEvents drains engine events into animation jobs and scoring.
func (g *Game) processEvents() {
	for _, evt := range g.sink.Drain() {
		switch e := evt.(type) {
		case engine.SwapAccepted:
			g.view.push(job{kind: jobSwap, a: e.A, b: e.B})
		case engine.StepResolved:
			g.view.push(job{kind: jobStep, step: e.Result})
			g.addScore(e.Result.Count(board.Removed), e.Step)
		case engine.Stabilized:
			g.combo = e.Steps
			if e.Steps > g.bestCombo {
				g.bestCombo = e.Steps
			}
		case engine.SettleTimedOut:
			g.logger.Debug("settle timed out", "a", e.A, "b", e.B, "waited", e.Waited)
		case engine.SimulationFinished:
			g.simStats = e.Stats
			g.simFinished = true
		}
	}
	if g.mode == ModeAuto {
		if stats, ok := g.engine.SimulationStats(); ok {
			g.simStats = stats
		}
	}
}

// resync repairs the view after the sink dropped events. Once nothing is
// left to replay, a swap the view never saw is settled and an idle engine's
// board is copied into the view.
func (g *Game) resync() {
	if g.sink.Dropped() == g.dropped || g.view.animating() || g.sink.Pending() > 0 {
		return
	}
	if g.engine.State() == engine.Swapping {
		g.logger.Warn("swap event lost, settling", "dropped", g.sink.Dropped())
		g.onSwapShown()
	}
	if g.engine.State() != engine.Idle || g.view.animating() {
		return
	}
	g.dropped = g.sink.Dropped()
	g.logger.Warn("engine events lost, resyncing view", "dropped", g.dropped)
	g.view.sync(g.engine.Board())
}

// onSwapShown runs when a swap animation ends. The engine may already have
// resolved the swap on its own after a settle timeout.
func (g *Game) onSwapShown() {
	if g.engine.State() != engine.Swapping {
		return
	}
	if _, err := g.engine.OnSwapSettled(); err != nil {
		g.logger.Error("settle failed", "err", err)
		return
	}
	g.processEvents()
}

// addScore awards removed tokens weighted by cascade depth and grants bonus
// moves every BonusMoveEvery points.
func (g *Game) addScore(removed, step int) {
	g.score += removed * g.cfg.Gameplay.PointsPerToken * step

	every := g.cfg.Gameplay.BonusMoveEvery
	if every <= 0 || g.movesLeft < 0 {
		return
	}
	for g.score >= g.nextBonus {
		g.movesLeft++
		g.nextBonus += every
	}
}

func (g *Game) checkGameOver() {
	if g.busy() {
		return
	}
	switch {
	case g.mode == ModeAuto:
		if g.simFinished {
			g.gameOver = true
			g.overWhy = "Simulation finished"
		}
	case g.movesLeft == 0:
		g.gameOver = true
		g.overWhy = "Out of moves"
	case !g.engine.Board().HasPossibleMove():
		g.gameOver = true
		g.overWhy = "No moves possible"
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.gameOver || g.err != nil,
		Paused:   g.paused || g.tooSmall,
	}
}

// Engine exposes the underlying engine, nil after a failed Reset.
func (g *Game) Engine() *engine.Engine {
	return g.engine
}

// Err returns the error that prevented the last Reset from building a board.
func (g *Game) Err() error {
	return g.err
}

// RecordSimulation hands a finished autoplay run to r. It does nothing for
// manual games or while the run is still going.
func (g *Game) RecordSimulation(r engine.StatsRecorder) error {
	if g.mode != ModeAuto || !g.simFinished || g.engine == nil {
		return nil
	}
	return r.RecordSimulation(g.engine.Board().Config(), g.seed, g.simStats, g.now.Sub(time.Unix(0, 0)))
}
