package layouts_test

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-match3/internal/games/match3/board"
	"github.com/vovakirdan/tui-match3/internal/games/match3/layouts"
)

func TestParseYAML(t *testing.T) {
	l, err := layouts.ParseYAML([]byte(`
id: tiny
name: Tiny
rows:
  - ABC
  - CAB
`))
	require.NoError(t, err)

	assert.Equal(t, "tiny", l.ID)
	assert.Equal(t, 3, l.TotalColors, "total colors inferred from the highest letter")
	assert.Equal(t, 2, l.Rows())
	assert.Equal(t, 3, l.Columns())

	want := [][]board.Color{{2, 0, 1}, {0, 1, 2}}
	if diff := cmp.Diff(want, l.Colors()); diff != "" {
		t.Errorf("Colors() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseYAMLErrors(t *testing.T) {
	_, err := layouts.ParseYAML([]byte("id: x\nrows: []\n"))
	assert.ErrorIs(t, err, layouts.ErrEmptyLayout)

	_, err = layouts.ParseYAML([]byte("rows:\n  - AB1\n"))
	assert.Error(t, err)

	_, err = layouts.ParseYAML([]byte("rows: [unterminated"))
	assert.Error(t, err)
}

func TestLayoutBoardRejectsMatch(t *testing.T) {
	l, err := layouts.ParseYAML([]byte("id: bad\ntotal_colors: 3\nrows:\n  - AAAB\n"))
	require.NoError(t, err)

	_, err = l.Board(rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, board.ErrLayoutMatch)
}

func TestBuiltin(t *testing.T) {
	all, err := layouts.Builtin()
	require.NoError(t, err)

	ids := make([]string, 0, len(all))
	for _, l := range all {
		ids = append(ids, l.ID)
		b, err := l.Board(rand.New(rand.NewSource(1)))
		require.NoError(t, err, "builtin %s", l.ID)
		assert.Zero(t, b.FindMatches().Len())
	}
	assert.Equal(t, []string{"cascade", "opening", "stalemate"}, ids)

	stalemate, err := layouts.BuiltinByID("stalemate")
	require.NoError(t, err)
	b, err := stalemate.Board(rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.False(t, b.HasPossibleMove())

	_, err = layouts.BuiltinByID("nope")
	assert.Error(t, err)
}

func TestMarshalRoundTripThroughFile(t *testing.T) {
	src, err := board.New(board.Config{Rows: 4, Columns: 6, Colors: 5}, rand.New(rand.NewSource(8)))
	require.NoError(t, err)

	data, err := layouts.MarshalYAML("", "saved", src)
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "saved.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yml"), []byte("rows: ["), 0o600))

	l, err := layouts.Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, "saved", l.ID, "ID falls back to the file name")
	assert.Equal(t, path, l.FilePath)

	b, err := l.Board(rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.True(t, src.Equal(b))

	all, err := layouts.LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "saved", all[0].ID)
}

func TestMarshalRejectsUnreadableBoards(t *testing.T) {
	cells := [][]board.Color{
		{0, 1, 2},
		{1, 27, 0},
		{2, 0, 1},
	}
	b, err := board.FromColors(cells, 30, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	_, err = layouts.MarshalYAML("wide", "wide", b)
	assert.ErrorIs(t, err, layouts.ErrUnencodable)

	// 30 colors are fine as long as every cell has a letter.
	cells[1][1] = 25
	b, err = board.FromColors(cells, 30, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	data, err := layouts.MarshalYAML("wide", "wide", b)
	require.NoError(t, err)
	l, err := layouts.ParseYAML(data)
	require.NoError(t, err)
	assert.Equal(t, 30, l.TotalColors)
	assert.Equal(t, cells, l.Colors())
}
