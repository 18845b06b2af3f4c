package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/games/match3/engine"
	"github.com/vovakirdan/tui-match3/internal/registry"
	"github.com/vovakirdan/tui-match3/internal/storage"
)

// Resizer is implemented by games that can follow a terminal resize
// without restarting the round.
type Resizer interface {
	Resize(w, h int)
}

// SimulationReporter is implemented by games that run engine simulations.
// RecordSimulation is a no-op until the run has finished.
type SimulationReporter interface {
	RecordSimulation(r engine.StatsRecorder) error
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	keys       *KeyMapper
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	quitting   bool
	back       bool // Left with Back rather than Quit
	nested     bool // Runs inside another model, which handles exits
	recorded   bool // Whether results have been saved for current game over
}

// NewModel creates a new Bubble Tea model for the given game.
// A zero seed lets the game pick one per round; a fixed seed replays the
// same board on every restart.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		keys:       NewKeyMapper(),
		config:     cfg,
		inputFrame: core.NewInputFrame(),
	}
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	// Note: gameState will be set on first tick (value receiver limitation)

	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keys.MapKey(msg)
	switch {
	case isQuit:
		m.quitting = true
		return m, m.exit()
	case action == core.ActionBack:
		m.back = true
		return m, m.exit()
	case action == core.ActionRestart && !m.gameState.GameOver:
		return m, nil
	case action != core.ActionNone:
		m.inputFrame.Set(action)
	}

	return m, nil
}

func (m Model) exit() tea.Cmd {
	if m.nested {
		return nil
	}
	return tea.Quit
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.back
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(Resizer); ok {
		r.Resize(msg.Width, msg.Height)
		return m, nil
	}

	// Games without resize support start over at the new size
	if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.recorded = false
		m.inputFrame = core.NewInputFrame()
		return m, tickCmd(m.config.TickRate)
	}

	// Games may keep the frame, so they get their own copy.
	result := m.game.Step(m.inputFrame.Clone())
	m.gameState = result.State

	if m.gameState.GameOver && !m.recorded {
		m.recordResults()
		m.recorded = true
	}

	m.inputFrame = core.NewInputFrame()

	return m, tickCmd(m.config.TickRate)
}

// recordResults stores the score and, for autoplay, the simulation run.
func (m *Model) recordResults() {
	if m.store == nil {
		return
	}
	if m.gameState.Score > 0 {
		//nolint:errcheck // Best-effort save, game continues regardless
		m.store.SaveScore(m.game.ID(), m.gameState.Score)
	}
	if r, ok := m.game.(SimulationReporter); ok {
		//nolint:errcheck // Best-effort save, game continues regardless
		r.RecordSimulation(m.store)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".match3", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.back {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// Run starts the Bubble Tea program with the given model.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) error {
	model := NewModel(game, store, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
