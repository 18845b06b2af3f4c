package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/games/match3/layouts"
)

// LayoutOption is one entry of the layout picker. An empty ID means a
// random board.
type LayoutOption struct {
	ID   string
	Name string
}

// SetupSelection holds the user's choices from the setup screen.
type SetupSelection struct {
	Preset   config.DifficultyPreset
	LayoutID string
}

// Apply returns cfg adjusted for the selection.
func (s SetupSelection) Apply(cfg config.Match3Config) config.Match3Config {
	config.ApplyMatch3Preset(&cfg, s.Preset)
	cfg.Layout.File = s.LayoutID
	return cfg
}

const (
	setupRowDifficulty = iota
	setupRowLayout
	setupRowStart
	setupRowCount
)

// SetupModel lets users pick a difficulty preset and a board layout
// before a match-3 round.
type SetupModel struct {
	title        string
	row          int
	presetIndex  int
	layoutIndex  int
	layoutChoice []LayoutOption
	width        int
	height       int
	keyMapper    *KeyMapper
	choosing     bool
	quitting     bool
	back         bool
}

// NewSetupModel creates a setup model. The preset cursor starts on
// "normal" and the layout cursor on a random board.
func NewSetupModel(title string, width, height int) SetupModel {
	choices := []LayoutOption{{Name: "Random board"}}
	if builtin, err := layouts.Builtin(); err == nil {
		for _, l := range builtin {
			choices = append(choices, LayoutOption{ID: l.ID, Name: l.Name})
		}
	}

	presetIndex := 0
	for i, p := range config.Presets {
		if p == config.DifficultyNormal {
			presetIndex = i
		}
	}

	return SetupModel{
		title:        title,
		presetIndex:  presetIndex,
		layoutChoice: choices,
		width:        width,
		height:       height,
		keyMapper:    NewKeyMapper(),
		choosing:     true,
	}
}

// Init initializes the model.
func (m SetupModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m SetupModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	case MenuActionUp:
		if m.row > 0 {
			m.row--
		}
	case MenuActionDown:
		if m.row < setupRowCount-1 {
			m.row++
		}
	case MenuActionLeft:
		m.cycle(-1)
	case MenuActionRight:
		m.cycle(1)
	case MenuActionSelect:
		if m.row != setupRowStart {
			m.row++
			return m, nil
		}
		m.choosing = false
		return m, tea.Quit
	}
	return m, nil
}

func (m *SetupModel) cycle(delta int) {
	switch m.row {
	case setupRowDifficulty:
		m.presetIndex = wrap(m.presetIndex+delta, len(config.Presets))
	case setupRowLayout:
		m.layoutIndex = wrap(m.layoutIndex+delta, len(m.layoutChoice))
	}
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

// View renders the setup screen.
func (m SetupModel) View() string {
	if m.quitting {
		return ""
	}

	th := CurrentTheme()
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(th.Title.Render(m.title), m.width))
	b.WriteString("\n\n")

	rows := []string{
		fmt.Sprintf("Difficulty: < %s >", th.Value.Render(string(config.Presets[m.presetIndex]))),
		fmt.Sprintf("Layout:     < %s >", th.Value.Render(m.layoutChoice[m.layoutIndex].Name)),
		"Start",
	}
	for i, row := range rows {
		line := "  " + row
		style := th.ItemNormal
		if i == m.row {
			line = "> " + row
			style = th.ItemActive
		}
		b.WriteString(centerText(style.Render(line), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(th.Description.Render(m.describe()), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(th.Controls.Render("Left/Right: Change  |  Enter: Next  |  Esc: Back  |  Q: Quit"), m.width))

	return b.String()
}

func (m SetupModel) describe() string {
	if m.layoutIndex > 0 {
		return "Fixed layouts set their own palette and move budget"
	}
	switch config.Presets[m.presetIndex] {
	case config.DifficultyEasy:
		return "4 colors, 40 moves"
	case config.DifficultyNormal:
		return "5 colors, 30 moves"
	case config.DifficultyHard:
		return "6 colors, 20 moves, no bonus moves"
	default:
		return "Use the values from the config file"
	}
}

// Selected returns the selection, or nil if still choosing.
func (m SetupModel) Selected() *SetupSelection {
	if m.choosing {
		return nil
	}
	return &SetupSelection{
		Preset:   config.Presets[m.presetIndex],
		LayoutID: m.layoutChoice[m.layoutIndex].ID,
	}
}

// IsQuitting returns true if user wants to quit.
func (m SetupModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m SetupModel) WantsBack() bool {
	return m.back
}

// RunSetup runs the setup screen. It returns nil when the user backs out
// or quits.
func RunSetup(title string, cfg core.RuntimeConfig) (*SetupSelection, error) {
	model := NewSetupModel(title, cfg.ScreenW, cfg.ScreenH)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := finalModel.(SetupModel)
	if !ok || m.IsQuitting() || m.WantsBack() {
		return nil, nil
	}
	return m.Selected(), nil
}
