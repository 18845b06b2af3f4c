package core

import (
	"strings"
	"unicode/utf8"
)

// Cell is one character position on the screen.
type Cell struct {
	Rune  rune
	Color Color
	Bold  bool
}

var blankCell = Cell{Rune: ' ', Color: ColorDefault}

// Screen is a 2D buffer of colored cells. Games draw into it and the
// platform layer turns it into terminal output.
type Screen struct {
	width  int
	height int
	cells  [][]Cell
}

// NewScreen creates a blank screen of the given size.
func NewScreen(width, height int) *Screen {
	s := &Screen{width: width, height: height}
	s.cells = makeCells(width, height)
	return s
}

func makeCells(width, height int) [][]Cell {
	cells := make([][]Cell, height)
	for y := range cells {
		cells[y] = make([]Cell, width)
		for x := range cells[y] {
			cells[y][x] = blankCell
		}
	}
	return cells
}

// Width returns the screen width in characters.
func (s *Screen) Width() int { return s.width }

// Height returns the screen height in characters.
func (s *Screen) Height() int { return s.height }

// Resize changes the screen dimensions. The overlapping top-left region is
// kept.
func (s *Screen) Resize(width, height int) {
	if width == s.width && height == s.height {
		return
	}
	cells := makeCells(width, height)
	for y := 0; y < Min(height, s.height); y++ {
		copy(cells[y], s.cells[y][:Min(width, s.width)])
	}
	s.cells = cells
	s.width, s.height = width, height
}

// Clear resets every cell to a blank space.
func (s *Screen) Clear() {
	for y := range s.cells {
		for x := range s.cells[y] {
			s.cells[y][x] = blankCell
		}
	}
}

func (s *Screen) inBounds(x, y int) bool {
	return x >= 0 && x < s.width && y >= 0 && y < s.height
}

// Set places a rune in the default color. Out-of-bounds writes are ignored.
func (s *Screen) Set(x, y int, r rune) {
	s.SetCell(x, y, Cell{Rune: r})
}

// SetColored places a rune with a foreground color.
func (s *Screen) SetColored(x, y int, r rune, c Color) {
	s.SetCell(x, y, Cell{Rune: r, Color: c})
}

// SetCell writes a full cell. Out-of-bounds writes are ignored.
func (s *Screen) SetCell(x, y int, c Cell) {
	if !s.inBounds(x, y) {
		return
	}
	s.cells[y][x] = c
}

// Get returns the rune at (x, y), or a space when out of bounds.
func (s *Screen) Get(x, y int) rune {
	return s.GetCell(x, y).Rune
}

// GetCell returns the cell at (x, y), or a blank cell when out of bounds.
func (s *Screen) GetCell(x, y int) Cell {
	if !s.inBounds(x, y) {
		return blankCell
	}
	return s.cells[y][x]
}

// DrawText writes text starting at (x, y), clipped at the screen edge.
func (s *Screen) DrawText(x, y int, text string) {
	s.DrawTextColored(x, y, text, ColorDefault)
}

// DrawTextColored writes text in the given color.
func (s *Screen) DrawTextColored(x, y int, text string, c Color) {
	i := 0
	for _, r := range text {
		s.SetColored(x+i, y, r, c)
		i++
	}
}

// DrawTextCentered writes text centered horizontally on row y.
func (s *Screen) DrawTextCentered(y int, text string, c Color) {
	x := (s.width - utf8.RuneCountInString(text)) / 2
	s.DrawTextColored(x, y, text, c)
}

// FillRect fills r with a rune in the given color.
func (s *Screen) FillRect(r Rect, fill rune, c Color) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			s.SetColored(x, y, fill, c)
		}
	}
}

// BoxStyle selects the runes used by DrawBox.
type BoxStyle struct {
	TopLeft, TopRight, BottomLeft, BottomRight rune
	Horizontal, Vertical                       rune
}

// Box styles.
var (
	BoxSingle = BoxStyle{'┌', '┐', '└', '┘', '─', '│'}
	BoxDouble = BoxStyle{'╔', '╗', '╚', '╝', '═', '║'}
	BoxRound  = BoxStyle{'╭', '╮', '╰', '╯', '─', '│'}
)

// DrawBox outlines r using the given style and color.
func (s *Screen) DrawBox(r Rect, style BoxStyle, c Color) {
	if r.W < 2 || r.H < 2 {
		return
	}
	right, bottom := r.Right()-1, r.Bottom()-1

	s.SetColored(r.X, r.Y, style.TopLeft, c)
	s.SetColored(right, r.Y, style.TopRight, c)
	s.SetColored(r.X, bottom, style.BottomLeft, c)
	s.SetColored(right, bottom, style.BottomRight, c)
	for x := r.X + 1; x < right; x++ {
		s.SetColored(x, r.Y, style.Horizontal, c)
		s.SetColored(x, bottom, style.Horizontal, c)
	}
	for y := r.Y + 1; y < bottom; y++ {
		s.SetColored(r.X, y, style.Vertical, c)
		s.SetColored(right, y, style.Vertical, c)
	}
}

// String returns the plain text of the screen, rows joined by newlines.
// Colors are dropped; used for screenshots and golden tests.
func (s *Screen) String() string {
	var sb strings.Builder
	sb.Grow((s.width + 1) * s.height)
	for y := 0; y < s.height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < s.width; x++ {
			sb.WriteRune(s.cells[y][x].Rune)
		}
	}
	return sb.String()
}

// Row returns the plain text of row y.
func (s *Screen) Row(y int) string {
	if y < 0 || y >= s.height {
		return strings.Repeat(" ", s.width)
	}
	var sb strings.Builder
	for _, c := range s.cells[y] {
		sb.WriteRune(c.Rune)
	}
	return sb.String()
}
