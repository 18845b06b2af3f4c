package board

import (
	"fmt"
	"strings"
)

// Board is a rows x columns grid of tokens.
// Cells are stored in row-major order: index = row*cols + col.
type Board struct {
	rows   int
	cols   int
	colors int

	cells  []TokenID
	tokens map[TokenID]*Token
	nextID TokenID

	rng    Intner
	locked bool
	// depth counts the matched resolve steps since the last stable scan.
	depth int
}

// New creates a fully populated board with no initial matches.
//
// Cells are filled row by row. Each cell draws a color from rng and is
// redrawn while it would complete a run of three with the two cells to its
// left or the two cells below it. With two colors a cell can run out of
// candidates; the fill then backtracks to the previous cell.
func New(cfg Config, rng Intner) (*Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, ErrNilRand
	}

	grid := make([]Color, cfg.Rows*cfg.Columns)
	if !fillMatchFree(grid, cfg, rng, 0) {
		return nil, ErrNoFill
	}

	b := newEmpty(cfg, rng)
	for i, c := range grid {
		b.spawn(Pos{Row: i / cfg.Columns, Col: i % cfg.Columns}, c)
	}
	return b, nil
}

// FromColors builds a board from an explicit layout.
// layout[row][col] uses the board's orientation: layout[0] is the bottom row.
// The layout must be rectangular, use colors below the given count and
// contain no match.
func FromColors(layout [][]Color, colors int, rng Intner) (*Board, error) {
	if len(layout) == 0 {
		return nil, fmt.Errorf("%w: 0 rows", ErrInvalidSize)
	}
	cfg := Config{Rows: len(layout), Columns: len(layout[0]), Colors: colors}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, ErrNilRand
	}

	b := newEmpty(cfg, rng)
	for row, line := range layout {
		if len(line) != cfg.Columns {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrLayoutShape, row, len(line), cfg.Columns)
		}
		for col, c := range line {
			if int(c) >= colors {
				return nil, fmt.Errorf("%w: %d at %v", ErrLayoutColor, c, P(row, col))
			}
			b.spawn(P(row, col), c)
		}
	}

	if m := b.FindMatches(); m.Len() > 0 {
		return nil, fmt.Errorf("%w: %v", ErrLayoutMatch, m.Positions())
	}
	return b, nil
}

func newEmpty(cfg Config, rng Intner) *Board {
	return &Board{
		rows:   cfg.Rows,
		cols:   cfg.Columns,
		colors: cfg.Colors,
		cells:  make([]TokenID, cfg.Rows*cfg.Columns),
		tokens: make(map[TokenID]*Token, cfg.Rows*cfg.Columns),
		rng:    rng,
	}
}

// fillMatchFree assigns colors to grid[i:] so that no cell completes a
// horizontal run with its two left neighbours or a vertical run with the two
// cells below it.
func fillMatchFree(grid []Color, cfg Config, rng Intner, i int) bool {
	if i == len(grid) {
		return true
	}
	row, col := i/cfg.Columns, i%cfg.Columns

	start := rng.Intn(cfg.Colors)
	for k := 0; k < cfg.Colors; k++ {
		c := Color((start + k) % cfg.Colors)
		if col >= 2 && grid[i-1] == c && grid[i-2] == c {
			continue
		}
		if row >= 2 && grid[i-cfg.Columns] == c && grid[i-2*cfg.Columns] == c {
			continue
		}
		grid[i] = c
		if fillMatchFree(grid, cfg, rng, i+1) {
			return true
		}
	}
	return false
}

// spawn creates a new token at p. The cell must be empty.
func (b *Board) spawn(p Pos, c Color) *Token {
	b.nextID++
	t := &Token{ID: b.nextID, Color: c, Pos: p}
	b.tokens[t.ID] = t
	b.cells[b.index(p)] = t.ID
	return t
}

// retire removes the token at p from the grid and the arena.
func (b *Board) retire(p Pos) *Token {
	idx := b.index(p)
	id := b.cells[idx]
	t := b.tokens[id]
	delete(b.tokens, id)
	b.cells[idx] = NoToken
	return t
}

// move relocates the token at from to the empty cell to.
func (b *Board) move(from, to Pos) *Token {
	id := b.cells[b.index(from)]
	b.cells[b.index(from)] = NoToken
	b.cells[b.index(to)] = id
	t := b.tokens[id]
	t.Pos = to
	return t
}

func (b *Board) index(p Pos) int {
	return p.Row*b.cols + p.Col
}

// Rows returns the number of rows.
func (b *Board) Rows() int { return b.rows }

// Columns returns the number of columns.
func (b *Board) Columns() int { return b.cols }

// Colors returns the size of the color palette.
func (b *Board) Colors() int { return b.colors }

// Config returns the board dimensions.
func (b *Board) Config() Config {
	return Config{Rows: b.rows, Columns: b.cols, Colors: b.colors}
}

// InBounds returns true if p lies on the board.
func (b *Board) InBounds(p Pos) bool {
	return p.Row >= 0 && p.Row < b.rows && p.Col >= 0 && p.Col < b.cols
}

// At returns the token at p. The second result is false for empty or
// out-of-bounds cells.
func (b *Board) At(p Pos) (Token, bool) {
	if !b.InBounds(p) {
		return Token{}, false
	}
	id := b.cells[b.index(p)]
	if id == NoToken {
		return Token{}, false
	}
	return *b.tokens[id], true
}

// ColorAt returns the color at p, or false for empty or out-of-bounds cells.
func (b *Board) ColorAt(p Pos) (Color, bool) {
	t, ok := b.At(p)
	return t.Color, ok
}

// TokenCount returns the number of live tokens.
func (b *Board) TokenCount() int {
	return len(b.tokens)
}

// Full returns true if every cell holds a token.
func (b *Board) Full() bool {
	return len(b.tokens) == len(b.cells)
}

// Lock marks a swap as in flight. While locked, Swap returns Busy.
func (b *Board) Lock() { b.locked = true }

// Unlock releases the in-flight swap guard.
func (b *Board) Unlock() { b.locked = false }

// Locked reports whether a swap is in flight.
func (b *Board) Locked() bool { return b.locked }

// Swap exchanges the tokens at a and c.
//
// The positions must be in bounds, orthogonally adjacent and occupied. On
// failure the board is unchanged and the returned error is a Rejection.
func (b *Board) Swap(a, c Pos) error {
	if b.locked {
		return Busy
	}
	if !b.InBounds(a) || !b.InBounds(c) {
		return OutOfBounds
	}
	if a.Manhattan(c) != 1 {
		return NotAdjacent
	}

	ia, ic := b.index(a), b.index(c)
	ida, idc := b.cells[ia], b.cells[ic]
	if ida == NoToken || idc == NoToken {
		return EmptyCell
	}

	b.cells[ia], b.cells[ic] = idc, ida
	b.tokens[ida].Pos = c
	b.tokens[idc].Pos = a
	return nil
}

// Grid returns a copy of the board colors, grid[row][col].
// Empty cells are reported with ok=false in the parallel occupancy grid.
func (b *Board) Grid() (colors [][]Color, occupied [][]bool) {
	colors = make([][]Color, b.rows)
	occupied = make([][]bool, b.rows)
	for row := range b.rows {
		colors[row] = make([]Color, b.cols)
		occupied[row] = make([]bool, b.cols)
		for col := range b.cols {
			colors[row][col], occupied[row][col] = b.ColorAt(P(row, col))
		}
	}
	return colors, occupied
}

// Clone returns a deep copy of the board sharing the random source.
func (b *Board) Clone() *Board {
	c := &Board{
		rows:   b.rows,
		cols:   b.cols,
		colors: b.colors,
		cells:  make([]TokenID, len(b.cells)),
		tokens: make(map[TokenID]*Token, len(b.tokens)),
		nextID: b.nextID,
		rng:    b.rng,
		locked: b.locked,
		depth:  b.depth,
	}
	copy(c.cells, b.cells)
	for id, t := range b.tokens {
		tc := *t
		c.tokens[id] = &tc
	}
	return c
}

// Equal returns true if both boards hold the same colors in the same cells.
// Token identities are not compared.
func (b *Board) Equal(other *Board) bool {
	if b.rows != other.rows || b.cols != other.cols || b.colors != other.colors {
		return false
	}
	for row := range b.rows {
		for col := range b.cols {
			c1, ok1 := b.ColorAt(P(row, col))
			c2, ok2 := other.ColorAt(P(row, col))
			if ok1 != ok2 || c1 != c2 {
				return false
			}
		}
	}
	return true
}

// String renders the board top row first, one letter per color and '.' for
// empty cells. Used for debugging and golden tests.
func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow((b.cols + 1) * b.rows)
	for row := b.rows - 1; row >= 0; row-- {
		for col := range b.cols {
			c, ok := b.ColorAt(P(row, col))
			sb.WriteRune(ColorChar(c, ok))
		}
		if row > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// ColorChar returns the ASCII letter for a color: 'A' for 0, 'B' for 1 and
// so on, '.' when the cell is empty.
func ColorChar(c Color, ok bool) rune {
	if !ok {
		return '.'
	}
	if c < 26 {
		return rune('A' + c)
	}
	return '#'
}
