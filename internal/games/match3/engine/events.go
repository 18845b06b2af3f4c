package engine

import (
	"time"

	"github.com/vovakirdan/tui-match3/internal/games/match3/board"
)

// Event is emitted by the engine to its subscribers.
type Event interface {
	engineEvent()
}

// Handler receives engine events. Handlers run synchronously on the
// goroutine that drives the engine.
type Handler func(Event)

// SwapAccepted is emitted when a swap passes validation.
// ColorA is the color now at A, ColorB the color now at B.
type SwapAccepted struct {
	A      board.Pos
	B      board.Pos
	ColorA board.Color
	ColorB board.Color
}

func (SwapAccepted) engineEvent() {}

// SwapRejected is emitted when a swap request is refused.
type SwapRejected struct {
	A      board.Pos
	B      board.Pos
	Reason board.Rejection
}

func (SwapRejected) engineEvent() {}

// StepResolved is emitted once per cascade step, in order.
// Step counts from 1.
type StepResolved struct {
	Step   int
	Result board.StepResult
}

func (StepResolved) engineEvent() {}

// Changes returns the cell transitions of the step.
func (e StepResolved) Changes() []board.Change {
	return e.Result.Changes
}

// Stabilized is emitted when resolution finishes and the engine is idle again.
type Stabilized struct {
	Steps   int
	Removed int
	Touched int
}

func (Stabilized) engineEvent() {}

// SettleTimedOut is emitted when a pending swap was settled by the engine
// because no settle signal arrived within the configured timeout.
type SettleTimedOut struct {
	A      board.Pos
	B      board.Pos
	Waited time.Duration
}

func (SettleTimedOut) engineEvent() {}

// SimulationStarted is emitted by RunSimulation.
type SimulationStarted struct {
	Swaps    int
	Interval time.Duration
}

func (SimulationStarted) engineEvent() {}

// SimulationFinished is emitted once a simulation has attempted all its
// ticks, or was stopped, and its last swap has resolved.
type SimulationFinished struct {
	Stats SimulationStats
}

func (SimulationFinished) engineEvent() {}
