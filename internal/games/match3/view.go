package match3

import (
	"strings"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/games/match3/board"
)

type jobKind uint8

const (
	jobSwap jobKind = iota
	jobStep
)

// job is one engine event waiting to be animated.
type job struct {
	kind jobKind
	a, b board.Pos
	step board.StepResult
}

// AnimationPhase is what the view is currently showing.
type AnimationPhase uint8

const (
	PhaseNone AnimationPhase = iota
	PhaseSwap
	PhasePop
	PhaseFall
)

func (p AnimationPhase) String() string {
	switch p {
	case PhaseSwap:
		return "swap"
	case PhasePop:
		return "pop"
	case PhaseFall:
		return "fall"
	default:
		return "none"
	}
}

// tile is the displayed occupant of a cell. fromRow/fromCol is where it is
// moving from during the current phase; at rest they equal its own cell.
type tile struct {
	color   board.Color
	ok      bool
	fromRow int
	fromCol int
	popping bool
}

// view mirrors the board one animation phase behind the engine. Engine
// events are queued as jobs and replayed in order, so the engine may run
// ahead while the player watches swaps, pops and falls.
type view struct {
	rows, cols int
	tiles      [][]tile // [row][col]
	timing     config.AnimationConfig

	queue    []job
	current  job
	phase    AnimationPhase
	ticks    int
	duration int
}

func newView(b *board.Board, timing config.AnimationConfig) *view {
	v := &view{rows: b.Rows(), cols: b.Columns(), timing: timing}
	v.sync(b)
	return v
}

// sync copies the board into the view and drops any pending animation.
func (v *view) sync(b *board.Board) {
	colors, occupied := b.Grid()
	v.tiles = make([][]tile, v.rows)
	for row := range v.rows {
		v.tiles[row] = make([]tile, v.cols)
		for col := range v.cols {
			v.tiles[row][col] = tile{
				color:   colors[row][col],
				ok:      occupied[row][col],
				fromRow: row,
				fromCol: col,
			}
		}
	}
	v.queue = nil
	v.phase = PhaseNone
}

func (v *view) animating() bool {
	return v.phase != PhaseNone || len(v.queue) > 0
}

func (v *view) push(j job) {
	v.queue = append(v.queue, j)
	if v.phase == PhaseNone {
		v.startNext()
	}
}

func (v *view) startNext() {
	v.phase = PhaseNone
	if len(v.queue) == 0 {
		return
	}
	j := v.queue[0]
	v.queue = v.queue[1:]
	v.current = j
	v.ticks = 0

	switch j.kind {
	case jobSwap:
		ta, tb := v.tiles[j.a.Row][j.a.Col], v.tiles[j.b.Row][j.b.Col]
		ta.fromRow, ta.fromCol = j.a.Row, j.a.Col
		tb.fromRow, tb.fromCol = j.b.Row, j.b.Col
		v.tiles[j.a.Row][j.a.Col] = tb
		v.tiles[j.b.Row][j.b.Col] = ta
		v.phase = PhaseSwap
		v.duration = v.timing.SwapTicks
	case jobStep:
		for _, c := range j.step.Changes {
			if c.Kind == board.Removed {
				v.tiles[c.Pos.Row][c.Pos.Col].popping = true
			}
		}
		v.phase = PhasePop
		v.duration = v.timing.PopTicks
	}
}

// update advances one tick. It returns true when a swap animation has just
// finished, which is the moment the engine should be told the swap settled.
func (v *view) update() bool {
	if v.phase == PhaseNone {
		return false
	}
	v.ticks++
	if v.ticks < v.duration {
		return false
	}

	switch v.phase {
	case PhaseSwap:
		v.settle()
		v.startNext()
		return true
	case PhasePop:
		v.applyStep(v.current.step)
		v.phase = PhaseFall
		v.ticks = 0
		v.duration = v.timing.FallTicks
	case PhaseFall:
		v.settle()
		v.startNext()
	}
	return false
}

func (v *view) settle() {
	for row := range v.rows {
		for col := range v.cols {
			t := &v.tiles[row][col]
			t.fromRow, t.fromCol = row, col
			t.popping = false
		}
	}
}

// applyStep removes matched tiles, drops survivors and brings spawned tiles
// in from above the top edge.
func (v *view) applyStep(step board.StepResult) {
	v.settle()

	removed := make([]int, v.cols)
	for _, c := range step.Changes {
		switch c.Kind {
		case board.Removed:
			v.tiles[c.Pos.Row][c.Pos.Col] = tile{}
			removed[c.Pos.Col]++
		case board.Shifted:
			v.tiles[c.FromRow][c.Pos.Col] = tile{}
		}
	}
	for _, c := range step.Changes {
		switch c.Kind {
		case board.Shifted:
			v.tiles[c.Pos.Row][c.Pos.Col] = tile{color: c.Color, ok: true, fromRow: c.FromRow, fromCol: c.Pos.Col}
		case board.Spawned:
			v.tiles[c.Pos.Row][c.Pos.Col] = tile{color: c.Color, ok: true, fromRow: c.Pos.Row + removed[c.Pos.Col], fromCol: c.Pos.Col}
		}
	}
}

// progress returns the eased completion of the current phase.
func (v *view) progress() float64 {
	if v.duration <= 0 {
		return 1
	}
	t := float64(v.ticks) / float64(v.duration)
	if t > 1 {
		t = 1
	}
	return easeOutQuad(t)
}

// position returns the fractional board coordinates of the tile shown at
// (row, col).
func (v *view) position(row, col int) (float64, float64) {
	t := v.tiles[row][col]
	if v.phase != PhaseSwap && v.phase != PhaseFall {
		return float64(row), float64(col)
	}
	p := v.progress()
	r := float64(t.fromRow) + float64(row-t.fromRow)*p
	c := float64(t.fromCol) + float64(col-t.fromCol)*p
	return r, c
}

// String renders the displayed colors top row first, like board.String.
func (v *view) String() string {
	var sb strings.Builder
	for row := v.rows - 1; row >= 0; row-- {
		for col := range v.cols {
			t := v.tiles[row][col]
			sb.WriteRune(board.ColorChar(t.color, t.ok))
		}
		if row > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// easeOutQuad provides smooth deceleration for animation.
func easeOutQuad(t float64) float64 {
	return t * (2 - t)
}
