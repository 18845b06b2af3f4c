package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-match3/internal/core"
)

type stubGame struct{ id string }

func (g stubGame) ID() string { return g.id }
func (g stubGame) Title() string { return "Stub " + g.id }
func (g stubGame) Description() string { return "for tests" }
func (g stubGame) Reset(core.RuntimeConfig) {}
func (g stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g stubGame) Render(*core.Screen) {}
func (g stubGame) State() core.GameState { return core.GameState{} }

func TestRegisterAndCreate(t *testing.T) {
	Register("zz_stub", func() Game { return stubGame{id: "zz_stub"} })

	require.True(t, Exists("zz_stub"))
	g, err := Create("zz_stub")
	require.NoError(t, err)
	assert.Equal(t, "zz_stub", g.ID())

	var found *GameInfo
	for _, info := range List() {
		if info.ID == "zz_stub" {
			found = &info
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "Stub zz_stub", found.Title)
	assert.Equal(t, "for tests", found.Description)

	assert.Panics(t, func() {
		Register("zz_stub", func() Game { return stubGame{id: "zz_stub"} })
	})
}

func TestCreateUnknown(t *testing.T) {
	_, err := Create("no_such_game")
	assert.Error(t, err)
	assert.False(t, Exists("no_such_game"))
}
