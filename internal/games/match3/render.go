package match3

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/games/match3/board"
)

const (
	hudHeight    = 3
	footerHeight = 1
	popGlyph     = '✦'
)

// boardSize returns the framed board size in screen cells.
func (g *Game) boardSize() (w, h int) {
	l := g.cfg.Layout
	w = g.view.cols*(l.TileWidth+l.Gap) + l.Gap + 2
	h = g.view.rows*l.TileHeight + 2
	return w, h
}

// boardRect returns the framed board rectangle, centered horizontally.
func (g *Game) boardRect() core.Rect {
	w, h := g.boardSize()
	return core.NewRect((g.screenW-w)/2, hudHeight, w, h)
}

// cellOrigin returns the top-left screen cell of the tile at fractional
// board coordinates (row, col).
func (g *Game) cellOrigin(inner core.Rect, row, col float64) (x, y int) {
	l := g.cfg.Layout
	x = inner.X + l.Gap + int(math.Round(col*float64(l.TileWidth+l.Gap)))
	y = inner.Y + int(math.Round((float64(g.view.rows-1)-row)*float64(l.TileHeight)))
	return x, y
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.err != nil {
		g.drawOverlay(dst, g.screenW/2, g.screenH/2, "Cannot start match-3", g.err.Error())
		return
	}
	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	box := g.boardRect()
	g.renderHUD(dst, box)
	dst.DrawBox(box, core.BoxRound, core.ColorGray)
	inner := box.Inset(1)
	g.renderTiles(dst, inner)
	if g.mode == ModeManual {
		g.renderMarkers(dst, inner)
	}
	dst.DrawTextCentered(g.screenH-1, g.Controls(), core.ColorGray)
	g.renderOverlays(dst, box)
}

func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small", core.ColorDefault)
	w, h := g.boardSize()
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", w+2, h+hudHeight+footerHeight), core.ColorGray)
}

func (g *Game) renderHUD(dst *core.Screen, box core.Rect) {
	dst.DrawTextCentered(0, g.Title(), core.ColorBrightWhite)

	if g.mode == ModeAuto {
		s := g.simStats
		dst.DrawTextCentered(1, fmt.Sprintf("Score: %d  Swaps: %d/%d  Accepted: %d  Rejected: %d",
			g.score, s.Ticks, s.Requested, s.Accepted, s.RejectedTotal()), core.ColorDefault)
		dst.DrawTextCentered(2, fmt.Sprintf("Cascades: %d  Max depth: %d  Timeouts: %d",
			s.Cascades, s.MaxDepth, s.TimedOut), core.ColorGray)
		return
	}

	moves := "∞"
	if g.movesLeft >= 0 {
		moves = fmt.Sprint(g.movesLeft)
	}
	status := fmt.Sprintf("Score: %d  Moves: %s  Combo: x%d  Best: x%d", g.score, moves, g.combo, g.bestCombo)
	dst.DrawText(box.X, 1, status)

	switch {
	case g.message != "":
		dst.DrawTextColored(box.X, 2, g.message, core.ColorYellow)
	case g.selected:
		dst.DrawTextColored(box.X, 2, "pick a neighbour", core.ColorGray)
	}
}

func (g *Game) renderTiles(dst *core.Screen, inner core.Rect) {
	l := g.cfg.Layout
	v := g.view
	blink := v.phase == PhasePop && (v.ticks/2)%2 == 0

	for row := range v.rows {
		for col := range v.cols {
			t := v.tiles[row][col]
			if !t.ok {
				continue
			}
			r, c := v.position(row, col)
			x, y := g.cellOrigin(inner, r, c)
			gy := y + l.TileHeight/2
			if gy < inner.Y || gy >= inner.Bottom() {
				continue
			}

			cell := core.Cell{
				Rune:  core.TokenGlyph(int(t.color)),
				Color: core.TokenColor(int(t.color)),
			}
			if t.popping && v.phase == PhasePop {
				cell.Bold = true
				if blink {
					cell.Rune = popGlyph
					cell.Color = core.ColorBrightWhite
				}
			}
			dst.SetCell(x+l.TileWidth/2, gy, cell)
		}
	}
}

// renderMarkers draws bracket pairs around the hint, the selection and the
// cursor, in increasing priority.
func (g *Game) renderMarkers(dst *core.Screen, inner core.Rect) {
	if g.hint != nil {
		g.drawMarker(dst, inner, g.hint.A, '(', ')', core.ColorCyan)
		g.drawMarker(dst, inner, g.hint.B, '(', ')', core.ColorCyan)
	}
	if g.selected {
		g.drawMarker(dst, inner, g.selection, '<', '>', core.ColorBrightYellow)
	}
	if !g.selected || g.cursor != g.selection {
		g.drawMarker(dst, inner, g.cursor, '[', ']', core.ColorBrightWhite)
	}
}

func (g *Game) drawMarker(dst *core.Screen, inner core.Rect, p board.Pos, left, right rune, c core.Color) {
	l := g.cfg.Layout
	x, y := g.cellOrigin(inner, float64(p.Row), float64(p.Col))
	cx := x + l.TileWidth/2
	y += l.TileHeight / 2
	dst.SetColored(cx-1, y, left, c)
	dst.SetColored(cx+1, y, right, c)
}

func (g *Game) renderOverlays(dst *core.Screen, box core.Rect) {
	cx := box.X + box.W/2
	cy := box.Y + box.H/2

	switch {
	case g.paused:
		g.drawOverlay(dst, cx, cy, "PAUSED", "Press P to resume")
	case g.gameOver && g.mode == ModeAuto:
		s := g.simStats
		g.drawOverlay(dst, cx, cy,
			g.overWhy,
			fmt.Sprintf("%d swaps, %d resolves", s.Accepted, s.Resolves),
			fmt.Sprintf("%d removed, deepest cascade %d", s.Removed, s.MaxDepth),
			"Press R to restart")
	case g.gameOver:
		g.drawOverlay(dst, cx, cy,
			"GAME OVER",
			g.overWhy,
			fmt.Sprintf("Score: %d", g.score),
			"Press R to restart")
	}
}

// drawOverlay draws a framed, centered block of text.
func (g *Game) drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = core.Max(maxLen, utf8.RuneCountInString(line))
	}

	r := core.NewRect(0, 0, maxLen+4, len(lines)+2)
	r.X = centerX - r.W/2
	r.Y = centerY - r.H/2

	dst.FillRect(r, ' ', core.ColorDefault)
	dst.DrawBox(r, core.BoxDouble, core.ColorBrightWhite)
	for i, line := range lines {
		x := centerX - utf8.RuneCountInString(line)/2
		dst.DrawText(x, r.Y+1+i, line)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	if g.mode == ModeAuto {
		return "P: Pause | R: Restart | Q: Quit"
	}
	return "Arrows/WASD Move | Space Select | Esc Cancel | H Hint | P Pause | Q Quit"
}
