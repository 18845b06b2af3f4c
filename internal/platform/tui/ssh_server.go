// Package tui provides terminal UI components including SSH server support via Wish.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/registry"
	"github.com/vovakirdan/tui-match3/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.match3/host_key.
	HostKeyPath string

	// DBPath is the path to the scores database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate is the game tick rate for every session.
	TickRate int

	// Game is the base match-3 config. Each session applies its own
	// difficulty and layout choice on top of it.
	Game config.Match3Config

	// Logger receives server and session logs. Nil creates a stderr logger.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.match3/scores.db",
		IdleTimeout: 30 * time.Minute,
		TickRate:    30,
		Game:        config.DefaultMatch3Config(),
	}
}

// SSHServer wraps a Wish SSH server for match-3.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "match3-ssh",
		})
	}

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		// Continue without storage
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".match3", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Create Wish server options
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	// Create the server
	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	// Create runtime config from PTY size
	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 30
	}

	// Create session model that handles menu + setup + game flow
	model := NewSessionModel(s.store, cfg, s.config.Game, s.logger.With("user", sshSession.User()))

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	if s.store != nil {
		s.store.Close()
	}
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// ConfigUser is implemented by games that accept a per-instance config.
type ConfigUser interface {
	UseConfig(cfg config.Match3Config)
}

type sessionStage int

const (
	stageMenu sessionStage = iota
	stageSetup
	stageGame
	stageScores
)

// SessionModel manages the full session flow: menu -> setup -> game -> menu,
// with the scoreboard reachable from the menu.
// This is the top-level model used for SSH sessions.
type SessionModel struct {
	store    *storage.Store
	config   core.RuntimeConfig
	base     config.Match3Config
	logger   *log.Logger
	stage    sessionStage
	menu     MenuModel
	setup    SetupModel
	scores   ScoreboardModel
	gameID   string
	game     *Model
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(store *storage.Store, cfg core.RuntimeConfig, base config.Match3Config, logger *log.Logger) SessionModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return SessionModel{
		store:  store,
		config: cfg,
		base:   base,
		logger: logger,
		menu:   NewMenuModel(store, cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.stage {
	case stageSetup:
		return m.updateSetup(msg)
	case stageGame:
		return m.updateGame(msg)
	case stageScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The menu only ever returns tea.Quit, which would end the SSH session
	newMenu, _ := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.WantsScoreboard() {
		m.scores = NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.stage = stageScores
		return m, m.scores.Init()
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if selected := m.menu.Selected(); selected != nil {
		m.gameID = selected.GameID
		m.setup = NewSetupModel(selected.Title, m.config.ScreenW, m.config.ScreenH)
		m.stage = stageSetup
		return m, m.setup.Init()
	}

	return m, nil
}

// updateScores handles the scoreboard.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newScores, cmd := m.scores.Update(msg)
	if scoresModel, ok := newScores.(ScoreboardModel); ok {
		m.scores = scoresModel
	}

	switch {
	case m.scores.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.scores.IsGoingBack():
		return m.backToMenu()
	}
	return m, cmd
}

// updateSetup handles the difficulty and layout picker.
func (m SessionModel) updateSetup(msg tea.Msg) (tea.Model, tea.Cmd) {
	newSetup, _ := m.setup.Update(msg)
	if setupModel, ok := newSetup.(SetupModel); ok {
		m.setup = setupModel
	}

	switch {
	case m.setup.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.setup.WantsBack():
		return m.backToMenu()
	}

	selection := m.setup.Selected()
	if selection == nil {
		return m, nil
	}

	game, err := registry.Create(m.gameID)
	if err != nil {
		// Shouldn't happen since menu only shows registered games
		m.logger.Error("cannot create game", "game", m.gameID, "error", err)
		return m.backToMenu()
	}
	if cu, ok := game.(ConfigUser); ok {
		cu.UseConfig(selection.Apply(m.base))
	}
	m.logger.Info("game started", "game", m.gameID, "difficulty", selection.Preset, "layout", selection.LayoutID)

	gm := NewModel(game, m.store, m.config)
	gm.nested = true
	m.game = &gm
	m.stage = stageGame
	return m, m.game.Init()
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.game = &gameModel
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.game.BackToMenu() {
		m.logger.Info("game ended", "game", m.gameID, "score", m.game.gameState.Score)
		return m.backToMenu()
	}

	return m, cmd
}

func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.stage = stageMenu
	m.game = nil
	m.menu = NewMenuModel(m.store, m.config)
	return m, m.menu.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.stage {
	case stageSetup:
		return m.setup.View()
	case stageGame:
		return m.game.View()
	case stageScores:
		return m.scores.View()
	default:
		return m.menu.View()
	}
}
