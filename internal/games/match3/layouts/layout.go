// Package layouts loads fixed match-3 boards from YAML files.
//
// A layout lists rows top first, one letter per cell: 'A' is color 0,
// 'B' color 1 and so on.
//
//	id: corner
//	name: Corner start
//	total_colors: 4
//	moves: 10
//	rows:
//	  - CDCD
//	  - DCDA
package layouts

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-match3/internal/games/match3/board"
)

var (
	// ErrEmptyLayout is returned for a layout without rows.
	ErrEmptyLayout = errors.New("layouts: no rows")
	// ErrUnencodable is returned by MarshalYAML for a board holding an
	// empty cell or a color past 'Z'.
	ErrUnencodable = errors.New("layouts: board cannot be written as a layout")
)

// maxCellColors is the number of colors a cell letter can name.
const maxCellColors = 'Z' - 'A' + 1

// YAMLLayout is the on-disk form.
type YAMLLayout struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	TotalColors int               `yaml:"total_colors"`
	Moves       int               `yaml:"moves,omitempty"`
	Rows        []string          `yaml:"rows"`
	Metadata    map[string]string `yaml:"metadata,omitempty"`
}

// Layout is a parsed board layout.
type Layout struct {
	ID          string
	Name        string
	TotalColors int
	Moves       int
	Metadata    map[string]string
	FilePath    string

	// cells[row][col] with row 0 at the bottom.
	cells [][]board.Color
}

// Rows returns the board height.
func (l Layout) Rows() int { return len(l.cells) }

// Columns returns the board width.
func (l Layout) Columns() int {
	if len(l.cells) == 0 {
		return 0
	}
	return len(l.cells[0])
}

// Colors returns a copy of the cell colors, row 0 first.
func (l Layout) Colors() [][]board.Color {
	out := make([][]board.Color, len(l.cells))
	for i, row := range l.cells {
		out[i] = append([]board.Color(nil), row...)
	}
	return out
}

// Board builds a board from the layout. rng supplies refill colors.
func (l Layout) Board(rng board.Intner) (*board.Board, error) {
	b, err := board.FromColors(l.cells, l.TotalColors, rng)
	if err != nil {
		return nil, fmt.Errorf("layouts: %s: %w", l.ID, err)
	}
	return b, nil
}

// ParseYAML parses a layout document.
func ParseYAML(data []byte) (Layout, error) {
	var yl YAMLLayout
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Layout{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return fromYAML(yl)
}

func fromYAML(yl YAMLLayout) (Layout, error) {
	if len(yl.Rows) == 0 {
		return Layout{}, ErrEmptyLayout
	}

	cells := make([][]board.Color, len(yl.Rows))
	maxColor := 0
	for i, line := range yl.Rows {
		line = strings.TrimSpace(line)
		row := make([]board.Color, 0, len(line))
		for _, ch := range line {
			if ch < 'A' || ch > 'Z' {
				return Layout{}, fmt.Errorf("layouts: row %d: invalid cell %q", i, ch)
			}
			c := int(ch - 'A')
			maxColor = max(maxColor, c)
			row = append(row, board.Color(c))
		}
		// File rows are top first; the board counts from the bottom.
		cells[len(yl.Rows)-1-i] = row
	}

	total := yl.TotalColors
	if total == 0 {
		total = maxColor + 1
	}

	return Layout{
		ID:          yl.ID,
		Name:        yl.Name,
		TotalColors: total,
		Moves:       yl.Moves,
		Metadata:    yl.Metadata,
		cells:       cells,
	}, nil
}

// MarshalYAML encodes a board snapshot as a layout document. Only boards
// ParseYAML can read back are accepted.
func MarshalYAML(id, name string, b *board.Board) ([]byte, error) {
	yl := YAMLLayout{ID: id, Name: name, TotalColors: b.Colors()}
	for row := b.Rows() - 1; row >= 0; row-- {
		var sb strings.Builder
		for col := range b.Columns() {
			p := board.P(row, col)
			c, ok := b.ColorAt(p)
			if !ok || int(c) >= maxCellColors {
				return nil, fmt.Errorf("%w: cell %v", ErrUnencodable, p)
			}
			sb.WriteRune(board.ColorChar(c, ok))
		}
		yl.Rows = append(yl.Rows, sb.String())
	}
	return yaml.Marshal(yl)
}
