package board

// ChangeKind describes what happened to a cell during a resolve step.
type ChangeKind uint8

const (
	// Removed tokens were part of a match and left the board.
	Removed ChangeKind = iota
	// Shifted tokens fell down their column.
	Shifted
	// Spawned tokens entered from the top to refill the column.
	Spawned
)

// String returns the kind name.
func (k ChangeKind) String() string {
	switch k {
	case Removed:
		return "removed"
	case Shifted:
		return "shifted"
	case Spawned:
		return "spawned"
	default:
		return "unknown"
	}
}

// Change is a single cell transition produced by ResolveStep.
type Change struct {
	Kind  ChangeKind
	Token TokenID
	Color Color
	// Pos is where the token was removed, where it landed or where it appeared.
	Pos Pos
	// FromRow is the row a shifted token fell from.
	FromRow int
}

// StepResult is the outcome of one scan-remove-collapse-refill pass.
type StepResult struct {
	Matched bool
	Matches MatchSet
	Changes []Change
}

// Count returns the number of changes of the given kind.
func (r StepResult) Count(kind ChangeKind) int {
	n := 0
	for _, c := range r.Changes {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// Touched returns every position whose occupant changed during the step:
// removal sites, fall origins and destinations, and spawn sites.
func (r StepResult) Touched() MatchSet {
	t := make(MatchSet, len(r.Changes))
	for _, c := range r.Changes {
		t.Add(c.Pos)
		if c.Kind == Shifted {
			t.Add(P(c.FromRow, c.Pos.Col))
		}
	}
	return t
}

// StableResult is the outcome of ResolveUntilStable.
type StableResult struct {
	Steps   []StepResult
	Touched MatchSet
}

// Cascades returns the number of steps that found a match.
func (r StableResult) Cascades() int { return len(r.Steps) }

// Removed returns the total number of tokens removed over all steps.
func (r StableResult) Removed() int {
	n := 0
	for _, s := range r.Steps {
		n += s.Count(Removed)
	}
	return n
}

// ResolveStep runs one full scan. If no match exists the board is untouched
// and Matched is false. Otherwise, column by column, matched tokens are
// removed, survivors fall toward row 0 keeping their relative order and the
// vacated top cells receive fresh tokens drawn uniformly from the palette.
//
// Fresh tokens may form new matches; those are left for the next step.
// Once a cascade has run CascadeLimit steps, the next step settles the
// board instead: matched tokens and those above them are replaced in place
// by a match-free refill, so the cascade ends there.
func (b *Board) ResolveStep() StepResult {
	matches := b.FindMatches()
	if matches.Len() == 0 {
		b.depth = 0
		return StepResult{}
	}
	b.depth++
	if b.depth > b.CascadeLimit() {
		return b.settleStep(matches)
	}

	res := StepResult{Matched: true, Matches: matches}
	for col := range b.cols {
		write := 0
		for row := range b.rows {
			p := P(row, col)
			if b.cells[b.index(p)] == NoToken {
				continue
			}
			if matches.Has(p) {
				t := b.retire(p)
				res.Changes = append(res.Changes, Change{Kind: Removed, Token: t.ID, Color: t.Color, Pos: p})
				continue
			}
			if write != row {
				t := b.move(p, P(write, col))
				res.Changes = append(res.Changes, Change{Kind: Shifted, Token: t.ID, Color: t.Color, Pos: t.Pos, FromRow: row})
			}
			write++
		}
		for row := write; row < b.rows; row++ {
			t := b.spawn(P(row, col), Color(b.rng.Intn(b.colors)))
			res.Changes = append(res.Changes, Change{Kind: Spawned, Token: t.ID, Color: t.Color, Pos: t.Pos})
		}
	}
	return res
}

// ResolveUntilStable repeats ResolveStep until a scan finds nothing.
// On an already stable board it returns zero steps and changes nothing.
// It never runs more than CascadeLimit()+1 steps.
func (b *Board) ResolveUntilStable() StableResult {
	out := StableResult{Touched: make(MatchSet)}
	for {
		step := b.ResolveStep()
		if !step.Matched {
			return out
		}
		out.Steps = append(out.Steps, step)
		out.Touched.Union(step.Touched())
	}
}
