package board_test

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-match3/internal/games/match3/board"
)

// scenarioLayout is a 5x5, 4-color board with no match where swapping (2,2)
// and (2,3) completes row 2 columns 0..2.
var scenarioLayout = []string{
	"CDCDC",
	"DCDCB",
	"AABAD",
	"CDCDB",
	"DCDCA",
}

func TestResolveScenarios(t *testing.T) {
	tests := []struct {
		name    string
		layout  []string
		a, b    board.Pos
		removed []board.Pos
		spawns  []int
		want    string
	}{
		{
			name:    "horizontal swap completes left run",
			layout:  scenarioLayout,
			a:       board.P(2, 2),
			b:       board.P(2, 3),
			removed: []board.Pos{board.P(2, 0), board.P(2, 1), board.P(2, 2)},
			spawns:  []int{0, 1, 0},
			want: "ABADC\n" +
				"CDCCB\n" +
				"DCDBD\n" +
				"CDCDB\n" +
				"DCDCA",
		},
		{
			name: "vertical swap completes row 2 columns 1 to 3",
			layout: []string{
				"CDCDC",
				"DCDCD",
				"BACAB",
				"CDADC",
				"DCDCD",
			},
			a:       board.P(1, 2),
			b:       board.P(2, 2),
			removed: []board.Pos{board.P(2, 1), board.P(2, 2), board.P(2, 3)},
			spawns:  []int{1, 0, 1},
			want: "CBABC\n" +
				"DDCDD\n" +
				"BCDCB\n" +
				"CDCDC\n" +
				"DCDCD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := &scriptedRand{vals: tt.spawns}
			b := mustLayout(t, 4, rng, tt.layout...)
			require.Zero(t, b.FindMatches().Len())

			require.NoError(t, b.Swap(tt.a, tt.b))

			step := b.ResolveStep()
			require.True(t, step.Matched)
			if diff := cmp.Diff(tt.removed, step.Matches.Positions()); diff != "" {
				t.Fatalf("matched positions mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, 3, step.Count(board.Removed))
			assert.Equal(t, 3, step.Count(board.Spawned))
			assert.Equal(t, 6, step.Count(board.Shifted))
			assert.Equal(t, tt.want, b.String())
			assert.True(t, b.Full())

			next := b.ResolveStep()
			assert.False(t, next.Matched)
			assert.Empty(t, next.Changes)
		})
	}
}

func TestResolveStepNoMatchIsNoop(t *testing.T) {
	b, err := board.New(board.Config{Rows: 6, Columns: 6, Colors: 5}, rand.New(rand.NewSource(11)))
	require.NoError(t, err)
	before := b.Clone()

	step := b.ResolveStep()
	assert.False(t, step.Matched)
	assert.True(t, b.Equal(before))

	stable := b.ResolveUntilStable()
	assert.Zero(t, stable.Cascades())
	assert.Zero(t, stable.Touched.Len())
	assert.True(t, b.Equal(before))
}

func TestResolveCascade(t *testing.T) {
	// The swap completes row 0 columns 0..2. Once they fall, the B,B pair
	// from row 1 lands next to the B at (0,3) and matches again.
	rng := &scriptedRand{vals: []int{2, 0, 1, 1, 0, 1}}
	b := mustLayout(t, 4, rng,
		"BDCA",
		"DCDC",
		"ABBD",
		"CAAB",
	)
	require.NoError(t, b.Swap(board.P(0, 0), board.P(1, 0)))

	res := b.ResolveUntilStable()
	require.Equal(t, 2, res.Cascades())
	assert.Equal(t, 6, res.Removed())

	second := []board.Pos{board.P(0, 1), board.P(0, 2), board.P(0, 3)}
	if diff := cmp.Diff(second, res.Steps[1].Matches.Positions()); diff != "" {
		t.Errorf("cascade matches mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "CBAB\nBABA\nDDCC\nCCDD", b.String())
	assert.Zero(t, b.FindMatches().Len())
}

// columnIDs returns token IDs of a column from the bottom up.
func columnIDs(b *board.Board, col int) []board.TokenID {
	out := make([]board.TokenID, b.Rows())
	for row := range b.Rows() {
		tok, _ := b.At(board.P(row, col))
		out[row] = tok.ID
	}
	return out
}

func TestResolveInvariants(t *testing.T) {
	configs := []board.Config{
		{Rows: 5, Columns: 5, Colors: 4},
		{Rows: 8, Columns: 8, Colors: 6},
		{Rows: 6, Columns: 4, Colors: 3},
		{Rows: 7, Columns: 7, Colors: 2},
	}

	for _, cfg := range configs {
		for seed := int64(1); seed <= 10; seed++ {
			rng := rand.New(rand.NewSource(seed))
			b, err := board.New(cfg, rng)
			require.NoError(t, err)

			for move := 0; move < 30; move++ {
				moves := b.PossibleMoves()
				if len(moves) == 0 {
					break
				}
				m := moves[rng.Intn(len(moves))]
				require.NoError(t, b.Swap(m.A, m.B))

				depth := 0
				for {
					before := make([][]board.TokenID, cfg.Columns)
					for col := range cfg.Columns {
						before[col] = columnIDs(b, col)
					}

					step := b.ResolveStep()
					if !step.Matched {
						break
					}
					depth++
					checkStep(t, b, step, before)
				}

				assert.GreaterOrEqual(t, depth, 1, "a possible move must match")
				assert.LessOrEqual(t, depth, b.CascadeLimit()+1, "cascade too deep")
				assert.Zero(t, b.FindMatches().Len(), "board not stable after resolve")
				assert.True(t, b.Full())
			}
		}
	}
}

// checkStep verifies per-column mass conservation and stable gravity order.
func checkStep(t *testing.T, b *board.Board, step board.StepResult, before [][]board.TokenID) {
	t.Helper()
	rows := b.Rows()

	removed := make([]int, b.Columns())
	spawned := make([]int, b.Columns())
	gone := make(map[board.TokenID]bool)
	for p := range step.Matches {
		assert.Contains(t, step.Touched(), p, "matched cell %v kept", p)
	}
	for _, c := range step.Changes {
		switch c.Kind {
		case board.Removed:
			removed[c.Pos.Col]++
			gone[c.Token] = true
		case board.Spawned:
			spawned[c.Pos.Col]++
		case board.Shifted:
			assert.Less(t, c.Pos.Row, c.FromRow, "tokens only fall")
		}
	}

	for col := range b.Columns() {
		assert.Equal(t, rows, rows-removed[col]+spawned[col], "mass conservation in column %d", col)

		survivors := []board.TokenID{}
		for _, id := range before[col] {
			if !gone[id] {
				survivors = append(survivors, id)
			}
		}
		after := columnIDs(b, col)
		if diff := cmp.Diff(survivors, after[:len(survivors)]); diff != "" {
			t.Errorf("gravity order broken in column %d (-want +got):\n%s", col, diff)
		}
	}
}

func TestTouchedIncludesFallOrigins(t *testing.T) {
	rng := &scriptedRand{vals: []int{0, 1, 0}}
	b := mustLayout(t, 4, rng, scenarioLayout...)
	require.NoError(t, b.Swap(board.P(2, 2), board.P(2, 3)))

	res := b.ResolveUntilStable()
	require.Equal(t, 1, res.Cascades())

	// Columns 0..2 changed from row 2 to the top; columns 3 and 4 did not.
	for col := range 5 {
		for row := range 5 {
			want := col <= 2 && row >= 2
			assert.Equal(t, want, res.Touched.Has(board.P(row, col)), "touched %v", board.P(row, col))
		}
	}
}

func TestResolveTwoColorsTerminates(t *testing.T) {
	cfg := board.Config{Rows: 12, Columns: 12, Colors: 2}
	settled := 0
	for seed := int64(1); seed <= 5; seed++ {
		rng := rand.New(rand.NewSource(seed))
		b, err := board.New(cfg, rng)
		require.NoError(t, err)

		for move := 0; move < 20; move++ {
			moves := b.PossibleMoves()
			if len(moves) == 0 {
				break
			}
			m := moves[rng.Intn(len(moves))]
			require.NoError(t, b.Swap(m.A, m.B))

			res := b.ResolveUntilStable()
			require.LessOrEqual(t, res.Cascades(), b.CascadeLimit()+1, "seed %d move %d", seed, move)
			if res.Cascades() > b.CascadeLimit() {
				settled++
			}
			require.Zero(t, b.FindMatches().Len(), "board not stable")
			require.True(t, b.Full())
		}
	}
	assert.Positive(t, settled, "no cascade reached the limit")
}
