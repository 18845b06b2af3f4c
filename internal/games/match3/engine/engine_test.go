package engine_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-match3/internal/games/match3/board"
	"github.com/vovakirdan/tui-match3/internal/games/match3/engine"
)

type scriptedRand struct {
	vals []int
	i    int
}

func (s *scriptedRand) Intn(n int) int {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v % n
}

type recorder struct {
	events []engine.Event
}

func (r *recorder) handle(evt engine.Event) {
	r.events = append(r.events, evt)
}

// newScenarioBoard returns a 5x5, 4-color board where swapping (2,2) and
// (2,3) completes row 2 columns 0..2. Refills draw A, B, A.
func newScenarioBoard(t *testing.T) *board.Board {
	t.Helper()
	rows := []string{
		"CDCDC",
		"DCDCB",
		"AABAD",
		"CDCDB",
		"DCDCA",
	}
	layout := make([][]board.Color, len(rows))
	for i, line := range rows {
		row := make([]board.Color, len(line))
		for j, ch := range line {
			row[j] = board.Color(ch - 'A')
		}
		layout[len(rows)-1-i] = row
	}
	b, err := board.FromColors(layout, 4, &scriptedRand{vals: []int{0, 1, 0}})
	require.NoError(t, err)
	return b
}

func newEngine(t *testing.T, b *board.Board, opts engine.Options) (*engine.Engine, *recorder) {
	t.Helper()
	e, err := engine.New(b, opts)
	require.NoError(t, err)
	rec := &recorder{}
	e.Subscribe(rec.handle)
	return e, rec
}

func TestNewRequiresBoard(t *testing.T) {
	_, err := engine.New(nil, engine.Options{})
	assert.ErrorIs(t, err, engine.ErrNilBoard)
}

func TestSwapSettleResolve(t *testing.T) {
	b := newScenarioBoard(t)
	e, rec := newEngine(t, b, engine.Options{})

	res := e.RequestSwap(board.P(2, 2), board.P(2, 3))
	require.True(t, res.Accepted)
	assert.Equal(t, engine.Swapping, e.State())
	assert.True(t, b.Locked())

	pa, pb, ok := e.Pending()
	require.True(t, ok)
	assert.Equal(t, board.P(2, 2), pa)
	assert.Equal(t, board.P(2, 3), pb)

	require.Len(t, rec.events, 1)
	assert.Equal(t, engine.SwapAccepted{
		A: board.P(2, 2), B: board.P(2, 3),
		ColorA: 0, ColorB: 1,
	}, rec.events[0])

	stable, err := e.OnSwapSettled()
	require.NoError(t, err)
	assert.Equal(t, 1, stable.Cascades())
	assert.Equal(t, engine.Idle, e.State())
	assert.False(t, b.Locked())
	assert.Zero(t, b.FindMatches().Len())

	require.Len(t, rec.events, 3)
	step, ok := rec.events[1].(engine.StepResolved)
	require.True(t, ok)
	assert.Equal(t, 1, step.Step)
	assert.Equal(t, 3, step.Result.Count(board.Removed))
	assert.Len(t, step.Changes(), 12)

	assert.Equal(t, engine.Stabilized{Steps: 1, Removed: 3, Touched: 9}, rec.events[2])
}

func TestRejectedSwapLeavesBoard(t *testing.T) {
	b := newScenarioBoard(t)
	before := b.String()
	e, rec := newEngine(t, b, engine.Options{})

	res := e.RequestSwap(board.P(0, 0), board.P(2, 2))
	assert.False(t, res.Accepted)
	assert.Equal(t, board.NotAdjacent, res.Reason)
	assert.Equal(t, engine.Idle, e.State())
	assert.Equal(t, before, b.String())

	require.Len(t, rec.events, 1)
	assert.Equal(t, engine.SwapRejected{A: board.P(0, 0), B: board.P(2, 2), Reason: board.NotAdjacent}, rec.events[0])

	res = e.RequestSwap(board.P(4, 4), board.P(5, 4))
	assert.Equal(t, board.OutOfBounds, res.Reason)
}

func TestBusyWhileSwapping(t *testing.T) {
	b := newScenarioBoard(t)
	e, _ := newEngine(t, b, engine.Options{})

	require.True(t, e.RequestSwap(board.P(2, 2), board.P(2, 3)).Accepted)
	afterSwap := b.String()

	res := e.RequestSwap(board.P(0, 0), board.P(0, 1))
	assert.False(t, res.Accepted)
	assert.Equal(t, board.Busy, res.Reason)
	assert.Equal(t, afterSwap, b.String(), "busy request must not touch the board")
	assert.Equal(t, engine.Swapping, e.State())
}

func TestBusyWhileResolving(t *testing.T) {
	b := newScenarioBoard(t)
	e, err := engine.New(b, engine.Options{})
	require.NoError(t, err)

	var (
		seen    []engine.State
		reasons []board.Rejection
	)
	e.Subscribe(func(evt engine.Event) {
		if _, ok := evt.(engine.StepResolved); ok {
			seen = append(seen, e.State())
			reasons = append(reasons, e.RequestSwap(board.P(0, 0), board.P(0, 1)).Reason)
		}
	})

	require.True(t, e.RequestSwap(board.P(2, 2), board.P(2, 3)).Accepted)
	_, err = e.OnSwapSettled()
	require.NoError(t, err)

	assert.Equal(t, []engine.State{engine.Resolving}, seen)
	assert.Equal(t, []board.Rejection{board.Busy}, reasons)
	assert.Equal(t, engine.Idle, e.State())
}

func TestOnSwapSettledWithoutPending(t *testing.T) {
	e, rec := newEngine(t, newScenarioBoard(t), engine.Options{})
	_, err := e.OnSwapSettled()
	assert.ErrorIs(t, err, engine.ErrNoPendingSwap)
	assert.Empty(t, rec.events)
}

func TestAcceptedSwapWithoutMatch(t *testing.T) {
	b := newScenarioBoard(t)
	e, rec := newEngine(t, b, engine.Options{})

	require.True(t, e.RequestSwap(board.P(0, 0), board.P(0, 1)).Accepted)
	stable, err := e.OnSwapSettled()
	require.NoError(t, err)

	assert.Zero(t, stable.Cascades())
	assert.Equal(t, engine.Stabilized{}, rec.events[len(rec.events)-1])

	c, _ := b.ColorAt(board.P(0, 0))
	assert.Equal(t, board.Color(2), c, "tokens stay swapped")
}

func TestAutoSettle(t *testing.T) {
	b := newScenarioBoard(t)
	e, rec := newEngine(t, b, engine.Options{AutoSettle: true})

	require.True(t, e.RequestSwap(board.P(2, 2), board.P(2, 3)).Accepted)
	assert.Equal(t, engine.Idle, e.State())
	assert.False(t, b.Locked())
	require.Len(t, rec.events, 3)
	assert.IsType(t, engine.Stabilized{}, rec.events[2])
}

func TestSettleTimeout(t *testing.T) {
	b := newScenarioBoard(t)
	e, rec := newEngine(t, b, engine.Options{SettleTimeout: 100 * time.Millisecond})
	t0 := time.Unix(1000, 0)

	require.True(t, e.RequestSwap(board.P(2, 2), board.P(2, 3)).Accepted)

	e.Advance(t0)
	e.Advance(t0.Add(50 * time.Millisecond))
	assert.Equal(t, engine.Swapping, e.State())

	e.Advance(t0.Add(100 * time.Millisecond))
	assert.Equal(t, engine.Idle, e.State())

	require.Len(t, rec.events, 4)
	assert.Equal(t, engine.SettleTimedOut{
		A: board.P(2, 2), B: board.P(2, 3), Waited: 100 * time.Millisecond,
	}, rec.events[1])
	assert.IsType(t, engine.StepResolved{}, rec.events[2])
	assert.IsType(t, engine.Stabilized{}, rec.events[3])

	_, err := e.OnSwapSettled()
	assert.ErrorIs(t, err, engine.ErrNoPendingSwap, "late settle signal is ignored")
}

func TestSettleTimeoutCountsFromAcceptance(t *testing.T) {
	b := newScenarioBoard(t)
	e, rec := newEngine(t, b, engine.Options{SettleTimeout: 100 * time.Millisecond})
	t0 := time.Unix(1000, 0)

	e.Advance(t0)
	require.True(t, e.RequestSwap(board.P(2, 2), board.P(2, 3)).Accepted)

	e.Advance(t0.Add(99 * time.Millisecond))
	assert.Equal(t, engine.Swapping, e.State())

	e.Advance(t0.Add(100 * time.Millisecond))
	assert.Equal(t, engine.Idle, e.State(), "timeout must not wait for an extra Advance")
	require.Len(t, rec.events, 4)
	assert.Equal(t, engine.SettleTimedOut{
		A: board.P(2, 2), B: board.P(2, 3), Waited: 100 * time.Millisecond,
	}, rec.events[1])
}

func TestNoSettleTimeoutWaitsForever(t *testing.T) {
	e, _ := newEngine(t, newScenarioBoard(t), engine.Options{})
	t0 := time.Unix(1000, 0)

	require.True(t, e.RequestSwap(board.P(2, 2), board.P(2, 3)).Accepted)
	e.Advance(t0)
	e.Advance(t0.Add(time.Hour))
	assert.Equal(t, engine.Swapping, e.State())
}

func TestUnsubscribe(t *testing.T) {
	e, err := engine.New(newScenarioBoard(t), engine.Options{})
	require.NoError(t, err)

	first, second := &recorder{}, &recorder{}
	stop := e.Subscribe(first.handle)
	e.Subscribe(second.handle)

	e.RequestSwap(board.P(0, 0), board.P(2, 2))
	stop()
	e.RequestSwap(board.P(0, 0), board.P(2, 2))

	assert.Len(t, first.events, 1)
	assert.Len(t, second.events, 2)
}

func TestResolveDepthBounded(t *testing.T) {
	for _, cfg := range []board.Config{
		{Rows: 6, Columns: 6, Colors: 3},
		{Rows: 9, Columns: 9, Colors: 2},
	} {
		checkResolveDepth(t, cfg)
	}
}

func checkResolveDepth(t *testing.T, cfg board.Config) {
	t.Helper()
	for seed := int64(1); seed <= 20; seed++ {
		b, err := board.New(cfg, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		e, err := engine.New(b, engine.Options{AutoSettle: true})
		require.NoError(t, err)

		var maxSteps int
		e.Subscribe(func(evt engine.Event) {
			if s, ok := evt.(engine.Stabilized); ok && s.Steps > maxSteps {
				maxSteps = s.Steps
			}
		})
		for _, m := range b.PossibleMoves() {
			e.RequestSwap(m.A, m.B)
		}
		assert.LessOrEqual(t, maxSteps, b.CascadeLimit()+1, "%+v seed %d", cfg, seed)
		assert.Zero(t, b.FindMatches().Len())
	}
}
