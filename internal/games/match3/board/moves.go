package board

// Move is a candidate swap between two adjacent cells.
type Move struct {
	A Pos
	B Pos
}

// PossibleMoves lists every adjacent swap that would create at least one
// match. Each pair appears once, with B above or to the right of A.
func (b *Board) PossibleMoves() []Move {
	var out []Move
	for row := range b.rows {
		for col := range b.cols {
			a := P(row, col)
			for _, c := range [2]Pos{P(row, col+1), P(row+1, col)} {
				if b.wouldMatch(a, c) {
					out = append(out, Move{A: a, B: c})
				}
			}
		}
	}
	return out
}

// HasPossibleMove reports whether any adjacent swap would create a match.
func (b *Board) HasPossibleMove() bool {
	for row := range b.rows {
		for col := range b.cols {
			a := P(row, col)
			if b.wouldMatch(a, P(row, col+1)) || b.wouldMatch(a, P(row+1, col)) {
				return true
			}
		}
	}
	return false
}

// wouldMatch swaps a and c in place, checks both cells and swaps back.
func (b *Board) wouldMatch(a, c Pos) bool {
	if !b.InBounds(a) || !b.InBounds(c) {
		return false
	}
	ia, ic := b.index(a), b.index(c)
	if b.cells[ia] == NoToken || b.cells[ic] == NoToken {
		return false
	}
	ca, _ := b.ColorAt(a)
	cc, _ := b.ColorAt(c)
	if ca == cc {
		return false
	}

	b.cells[ia], b.cells[ic] = b.cells[ic], b.cells[ia]
	found := b.matchesThrough(a) || b.matchesThrough(c)
	b.cells[ia], b.cells[ic] = b.cells[ic], b.cells[ia]
	return found
}
