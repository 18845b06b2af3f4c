package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/games/match3"
)

func pressSession(t *testing.T, m SessionModel, msgs ...tea.Msg) (SessionModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		var ok bool
		m, ok = next.(SessionModel)
		require.True(t, ok)
	}
	return m, cmd
}

func TestSessionFlow(t *testing.T) {
	base := config.DefaultMatch3Config()
	base.Seed = 5
	enter := tea.KeyMsg{Type: tea.KeyEnter}

	m := NewSessionModel(nil, menuRuntime(), base, nil)
	assert.Equal(t, stageMenu, m.stage)

	m, _ = pressSession(t, m, enter)
	require.Equal(t, stageSetup, m.stage)
	assert.Equal(t, match3.GameID, m.gameID)

	m, cmd := pressSession(t, m, enter, enter, enter)
	require.Equal(t, stageGame, m.stage)
	require.NotNil(t, m.game)
	assert.NotNil(t, cmd, "game start schedules the first tick")

	g, ok := m.game.game.(*match3.Game)
	require.True(t, ok)
	assert.Equal(t, 30, g.Snapshot().MovesLeft, "normal preset applied")
	assert.Contains(t, m.View(), "Moves: 30")

	m, _ = pressSession(t, m, runeKey('b'))
	assert.Equal(t, stageMenu, m.stage)
	assert.Nil(t, m.game)
	assert.False(t, m.quitting)
}

func TestSessionScoreboardAndQuit(t *testing.T) {
	m := NewSessionModel(nil, menuRuntime(), config.DefaultMatch3Config(), nil)

	m, _ = pressSession(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, stageScores, m.stage)
	assert.Contains(t, m.View(), "HIGH SCORES")

	m, _ = pressSession(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, stageMenu, m.stage)
	assert.False(t, m.quitting)

	m, cmd := pressSession(t, m, runeKey('q'))
	assert.True(t, m.quitting)
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())
}
