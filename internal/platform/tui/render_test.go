package tui

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/tui-match3/internal/core"
)

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawText(0, 0, "ab")
	s.SetColored(2, 0, '●', core.ColorRed)
	s.SetCell(3, 0, core.Cell{Rune: '◆', Color: core.ColorBlue, Bold: true})
	s.DrawTextColored(0, 1, "xyz", core.ColorGray)

	out := ansi.Strip(RenderScreen(s))
	assert.Equal(t, "ab●◆  \nxyz   ", out)
}

func TestRenderScreenUnknownColor(t *testing.T) {
	s := core.NewScreen(2, 1)
	s.SetColored(0, 0, 'x', core.Color(250))

	assert.Equal(t, "x ", ansi.Strip(RenderScreen(s)))
}
