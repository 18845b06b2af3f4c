package board

import "sort"

// MatchSet is a set of board positions.
type MatchSet map[Pos]struct{}

// Add inserts p into the set.
func (m MatchSet) Add(p Pos) { m[p] = struct{}{} }

// Has reports whether p is in the set.
func (m MatchSet) Has(p Pos) bool {
	_, ok := m[p]
	return ok
}

// Len returns the number of positions in the set.
func (m MatchSet) Len() int { return len(m) }

// Union adds every position of other to m.
func (m MatchSet) Union(other MatchSet) {
	for p := range other {
		m[p] = struct{}{}
	}
}

// Positions returns the positions sorted bottom row first, then by column.
func (m MatchSet) Positions() []Pos {
	out := make([]Pos, 0, len(m))
	for p := range m {
		out = append(out, p)
	}
	sortPositions(out)
	return out
}

func sortPositions(ps []Pos) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Row != ps[j].Row {
			return ps[i].Row < ps[j].Row
		}
		return ps[i].Col < ps[j].Col
	})
}

// FindMatches scans every row and then every column with a window of three
// cells. Whenever the three cells are occupied and share a color all three
// positions are added. Runs longer than three are covered by overlapping
// windows.
func (b *Board) FindMatches() MatchSet {
	m := make(MatchSet)

	for row := range b.rows {
		for col := 0; col+2 < b.cols; col++ {
			b.scanWindow(m, P(row, col), P(row, col+1), P(row, col+2))
		}
	}
	for col := range b.cols {
		for row := 0; row+2 < b.rows; row++ {
			b.scanWindow(m, P(row, col), P(row+1, col), P(row+2, col))
		}
	}
	return m
}

func (b *Board) scanWindow(m MatchSet, p0, p1, p2 Pos) {
	c0, ok0 := b.ColorAt(p0)
	c1, ok1 := b.ColorAt(p1)
	c2, ok2 := b.ColorAt(p2)
	if ok0 && ok1 && ok2 && c0 == c1 && c1 == c2 {
		m.Add(p0)
		m.Add(p1)
		m.Add(p2)
	}
}

// matchesThrough reports whether the cell at p is part of a horizontal or
// vertical run of at least three.
func (b *Board) matchesThrough(p Pos) bool {
	c, ok := b.ColorAt(p)
	if !ok {
		return false
	}
	return b.runLength(p, c, 0, 1)+b.runLength(p, c, 0, -1) >= 2 ||
		b.runLength(p, c, 1, 0)+b.runLength(p, c, -1, 0) >= 2
}

// runLength counts same-colored cells from p (exclusive) along (dr, dc).
func (b *Board) runLength(p Pos, c Color, dr, dc int) int {
	n := 0
	for q := P(p.Row+dr, p.Col+dc); ; q = P(q.Row+dr, q.Col+dc) {
		qc, ok := b.ColorAt(q)
		if !ok || qc != c {
			return n
		}
		n++
	}
}
