package match3

import (
	"github.com/vovakirdan/tui-match3/internal/games/match3/board"
)

// StateType names the overall game state.
type StateType string

const (
	StatePlaying     StateType = "playing"
	StateAnimating   StateType = "animating"
	StatePaused      StateType = "paused"
	StateGameOver    StateType = "game_over"
	StatePausedSmall StateType = "paused_small_window"
	StateError       StateType = "error"
)

// Snapshot captures the game for determinism tests and debugging.
type Snapshot struct {
	Tick        uint64
	Mode        string
	Score       int
	MovesLeft   int
	BestCombo   int
	Cursor      board.Pos
	Selected    bool
	Selection   board.Pos
	Board       string
	View        string
	EngineState string
	Phase       string
	State       StateType
	Reason      string
	SimTicks    int
	SimAccepted int
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Tick:        g.tick,
		Mode:        string(g.mode),
		Score:       g.score,
		MovesLeft:   g.movesLeft,
		BestCombo:   g.bestCombo,
		Cursor:      g.cursor,
		Selected:    g.selected,
		Selection:   g.selection,
		Reason:      g.overWhy,
		SimTicks:    g.simStats.Ticks,
		SimAccepted: g.simStats.Accepted,
	}
	if g.err != nil {
		s.State = StateError
		s.Reason = g.err.Error()
		return s
	}

	s.Board = g.engine.Board().String()
	s.View = g.view.String()
	s.EngineState = g.engine.State().String()
	s.Phase = g.view.phase.String()

	switch {
	case g.tooSmall:
		s.State = StatePausedSmall
	case g.gameOver:
		s.State = StateGameOver
	case g.paused:
		s.State = StatePaused
	case g.busy():
		s.State = StateAnimating
	default:
		s.State = StatePlaying
	}
	return s
}
