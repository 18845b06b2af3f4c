// Package board implements the match-3 grid: token placement, swap
// validation, match scanning, gravity collapse and refill.
//
// The package is UI-agnostic and deterministic for a given random source.
// Row 0 is the bottom row; gravity pulls tokens toward row 0 and fresh tokens
// enter from the top.
package board

import (
	"errors"
	"fmt"
)

// Color is an opaque token color in the range [0, Colors).
// Colors carry no meaning beyond equality.
type Color uint8

// Pos addresses a cell on the board.
type Pos struct {
	Row int
	Col int
}

// P is a convenience constructor for Pos.
func P(row, col int) Pos {
	return Pos{Row: row, Col: col}
}

// String returns a string representation of the position.
func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Manhattan returns the Manhattan distance to another position.
func (p Pos) Manhattan(other Pos) int {
	dr := p.Row - other.Row
	dc := p.Col - other.Col
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}

// Neighbors returns the four orthogonal neighbours (above, below, left,
// right). Callers filter them with Board.InBounds.
func (p Pos) Neighbors() [4]Pos {
	return [4]Pos{
		{Row: p.Row + 1, Col: p.Col},
		{Row: p.Row - 1, Col: p.Col},
		{Row: p.Row, Col: p.Col - 1},
		{Row: p.Row, Col: p.Col + 1},
	}
}

// TokenID identifies a token for as long as it stays on the board.
type TokenID uint64

// NoToken marks an empty cell.
const NoToken TokenID = 0

// Token is a single colored piece. Its ID survives swaps and falls and is
// retired when the token is matched.
type Token struct {
	ID    TokenID
	Color Color
	Pos   Pos
}

// Intner is the random source used to draw colors.
// *math/rand.Rand satisfies it; tests inject scripted sources.
type Intner interface {
	Intn(n int) int
}

// Limits for board construction.
const (
	MinColors = 2
	MaxColors = 256
)

// Config holds the immutable dimensions of a board.
type Config struct {
	Rows    int
	Columns int
	Colors  int
}

// Validate reports whether the configuration can produce a board.
func (c Config) Validate() error {
	if c.Rows < 1 || c.Columns < 1 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, c.Rows, c.Columns)
	}
	if c.Colors < MinColors || c.Colors > MaxColors {
		return fmt.Errorf("%w: %d (want %d..%d)", ErrInvalidColors, c.Colors, MinColors, MaxColors)
	}
	return nil
}

// Construction errors.
var (
	ErrInvalidSize   = errors.New("board: invalid size")
	ErrInvalidColors = errors.New("board: invalid color count")
	ErrNilRand       = errors.New("board: nil random source")
	ErrLayoutShape   = errors.New("board: layout is not rectangular")
	ErrLayoutColor   = errors.New("board: layout color out of range")
	ErrLayoutMatch   = errors.New("board: layout already contains a match")
	ErrNoFill        = errors.New("board: no match-free fill exists")
)

// Rejection is the reason a swap was refused. It implements error so Swap
// can return it directly.
type Rejection string

// Swap rejection reasons.
const (
	OutOfBounds Rejection = "out_of_bounds"
	NotAdjacent Rejection = "not_adjacent"
	EmptyCell   Rejection = "empty_cell"
	Busy        Rejection = "busy"
)

// Error implements the error interface.
func (r Rejection) Error() string {
	return "board: swap rejected: " + string(r)
}

// AsRejection extracts the rejection reason from err, if any.
func AsRejection(err error) (Rejection, bool) {
	var r Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return "", false
}
