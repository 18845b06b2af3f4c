package board

import "sort"

// settleBudget caps refill backtracking at this many visits per emptied cell.
const settleBudget = 16

// noColor marks an empty cell in a color grid.
const noColor = -1

// runWindows lists, for a cell, the pairs of (row, col) offsets that form a
// run of three with it.
var runWindows = [6][2][2]int{
	{{0, -2}, {0, -1}},
	{{0, -1}, {0, 1}},
	{{0, 1}, {0, 2}},
	{{-2, 0}, {-1, 0}},
	{{-1, 0}, {1, 0}},
	{{1, 0}, {2, 0}},
}

// CascadeLimit is the number of cascade steps a resolve runs with plain
// random refills. The step after it settles the board.
func (b *Board) CascadeLimit() int {
	return max(b.rows, b.cols)
}

// settleStep ends a cascade that reached CascadeLimit. Matched tokens and
// every token above them leave the board, so nothing falls and the tokens
// left behind hold no match. The emptied cells are then refilled with a
// match-free choice of colors. When no such refill is found within budget,
// every row from the lowest match up is cleared instead; rows stacked on a
// match-free floor always have a match-free refill.
func (b *Board) settleStep(matches MatchSet) StepResult {
	low := make([]int, b.cols)
	for col := range low {
		low[col] = b.rows
	}
	floor := b.rows
	for p := range matches {
		low[p.Col] = min(low[p.Col], p.Row)
		floor = min(floor, p.Row)
	}

	grid := b.colorGrid()
	var slots []int
	for col, from := range low {
		for row := from; row < b.rows; row++ {
			i := b.index(P(row, col))
			grid[i] = noColor
			slots = append(slots, i)
		}
	}
	sort.Ints(slots)

	budget := settleBudget * len(slots)
	if !b.fillSlots(grid, slots, 0, &budget) {
		grid, slots = b.refillRows(floor)
	}
	return b.replace(matches, grid, slots)
}

// refillRows empties every row from row from upward and refills them
// without matches.
func (b *Board) refillRows(from int) (grid, slots []int) {
	grid = b.colorGrid()
	for i := from * b.cols; i < len(grid); i++ {
		grid[i] = noColor
		slots = append(slots, i)
	}
	budget := settleBudget * len(slots)
	if !b.fillSlots(grid, slots, 0, &budget) {
		b.stackRows(grid, from)
	}
	return grid, slots
}

// stackRows fills rows from..rows-1, each row being the row below shifted
// by one color. The shift keeps every column free of vertical runs and maps
// a row without runs onto another row without runs.
func (b *Board) stackRows(grid []int, from int) {
	shift := b.rng.Intn(b.colors)
	for row := from; row < b.rows; row++ {
		for col := range b.cols {
			i := b.index(P(row, col))
			if row == 0 {
				grid[i] = (col/2 + shift) % b.colors
				continue
			}
			grid[i] = (grid[i-b.cols] + 1 + b.colors) % b.colors
		}
	}
}

// fillSlots assigns colors to grid[slots[i:]] so that none of them
// completes a run, backtracking while budget lasts. On failure every slot is
// left empty.
func (b *Board) fillSlots(grid, slots []int, i int, budget *int) bool {
	if i == len(slots) {
		return true
	}
	if *budget <= 0 {
		return false
	}
	*budget--

	idx := slots[i]
	start := b.rng.Intn(b.colors)
	for k := range b.colors {
		c := (start + k) % b.colors
		if b.completesRun(grid, idx, c) {
			continue
		}
		grid[idx] = c
		if b.fillSlots(grid, slots, i+1, budget) {
			return true
		}
	}
	grid[idx] = noColor
	return false
}

// completesRun reports whether color c at grid[idx] would line up three.
func (b *Board) completesRun(grid []int, idx, c int) bool {
	row, col := idx/b.cols, idx%b.cols
	at := func(dr, dc int) int {
		p := P(row+dr, col+dc)
		if !b.InBounds(p) {
			return noColor
		}
		return grid[b.index(p)]
	}
	for _, w := range runWindows {
		if at(w[0][0], w[0][1]) == c && at(w[1][0], w[1][1]) == c {
			return true
		}
	}
	return false
}

func (b *Board) colorGrid() []int {
	grid := make([]int, len(b.cells))
	for i, id := range b.cells {
		if id == NoToken {
			grid[i] = noColor
			continue
		}
		grid[i] = int(b.tokens[id].Color)
	}
	return grid
}

// replace swaps the tokens in slots for fresh ones colored from grid.
func (b *Board) replace(matches MatchSet, grid, slots []int) StepResult {
	cleared := make([]bool, len(grid))
	for _, i := range slots {
		cleared[i] = true
	}

	res := StepResult{Matched: true, Matches: matches}
	for col := range b.cols {
		for row := range b.rows {
			p := P(row, col)
			if !cleared[b.index(p)] || b.cells[b.index(p)] == NoToken {
				continue
			}
			t := b.retire(p)
			res.Changes = append(res.Changes, Change{Kind: Removed, Token: t.ID, Color: t.Color, Pos: p})
		}
		for row := range b.rows {
			p := P(row, col)
			if !cleared[b.index(p)] {
				continue
			}
			t := b.spawn(p, Color(grid[b.index(p)]))
			res.Changes = append(res.Changes, Change{Kind: Spawned, Token: t.ID, Color: t.Color, Pos: t.Pos})
		}
	}
	return res
}
