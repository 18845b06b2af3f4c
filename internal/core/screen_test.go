package core

import (
	"strings"
	"testing"
)

func TestNewScreenIsBlank(t *testing.T) {
	s := NewScreen(12, 4)
	if s.Width() != 12 || s.Height() != 4 {
		t.Fatalf("size = %dx%d, expected 12x4", s.Width(), s.Height())
	}
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if c := s.GetCell(x, y); c != blankCell {
				t.Errorf("cell (%d, %d) = %+v, expected blank", x, y, c)
			}
		}
	}
}

func TestScreenSetColored(t *testing.T) {
	s := NewScreen(5, 5)
	s.SetColored(2, 3, '●', ColorRed)

	c := s.GetCell(2, 3)
	if c.Rune != '●' || c.Color != ColorRed {
		t.Errorf("GetCell(2, 3) = %+v, expected red dot", c)
	}
	if s.Get(2, 3) != '●' {
		t.Errorf("Get(2, 3) = %q", s.Get(2, 3))
	}

	s.Set(2, 3, 'x')
	if c := s.GetCell(2, 3); c.Color != ColorDefault {
		t.Errorf("Set should reset color, got %v", c.Color)
	}

	// Out of bounds writes are dropped and reads are blank.
	s.SetColored(-1, 0, 'A', ColorBlue)
	s.SetColored(0, 5, 'A', ColorBlue)
	if s.GetCell(-1, 0) != blankCell || s.GetCell(9, 9) != blankCell {
		t.Error("out of bounds GetCell should return blank")
	}
}

func TestScreenDrawTextClips(t *testing.T) {
	s := NewScreen(8, 2)
	s.DrawTextColored(5, 1, "Score", ColorYellow)

	if got := s.Row(1); got != "     Sco" {
		t.Errorf("Row(1) = %q", got)
	}
	if s.GetCell(6, 1).Color != ColorYellow {
		t.Error("text color not applied")
	}
}

func TestScreenDrawTextCenteredCountsRunes(t *testing.T) {
	s := NewScreen(10, 1)
	s.DrawTextCentered(0, "★★", ColorDefault)
	if s.Get(4, 0) != '★' || s.Get(5, 0) != '★' {
		t.Errorf("centered text misplaced: %q", s.Row(0))
	}
}

func TestScreenFillRect(t *testing.T) {
	s := NewScreen(6, 6)
	s.FillRect(NewRect(1, 1, 2, 3), '#', ColorGray)

	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			inside := x >= 1 && x < 3 && y >= 1 && y < 4
			if got := s.Get(x, y) == '#'; got != inside {
				t.Errorf("(%d, %d) filled=%v, expected %v", x, y, got, inside)
			}
		}
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(6, 4)
	s.DrawBox(NewRect(0, 0, 6, 4), BoxRound, ColorCyan)

	expected := "╭────╮\n│    │\n│    │\n╰────╯"
	if got := s.String(); got != expected {
		t.Errorf("String() =\n%s\nexpected\n%s", got, expected)
	}
	if s.GetCell(0, 0).Color != ColorCyan {
		t.Error("box color not applied")
	}

	// Degenerate boxes draw nothing.
	s.Clear()
	s.DrawBox(NewRect(0, 0, 1, 4), BoxSingle, ColorDefault)
	if strings.TrimSpace(s.String()) != "" {
		t.Error("1-wide box should not draw")
	}
}

func TestScreenResizeKeepsContent(t *testing.T) {
	s := NewScreen(10, 4)
	s.DrawTextColored(0, 0, "Match", ColorGreen)

	s.Resize(3, 2)
	if got := s.Row(0); got != "Mat" {
		t.Errorf("after shrink Row(0) = %q", got)
	}

	s.Resize(8, 5)
	if got := s.Row(0); got != "Mat     " {
		t.Errorf("after grow Row(0) = %q", got)
	}
	if s.GetCell(0, 0).Color != ColorGreen {
		t.Error("color lost on resize")
	}
	if s.Row(-1) != "        " {
		t.Error("out of range Row should be blank")
	}
}
