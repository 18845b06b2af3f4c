package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-match3/internal/games/match3/board"
)

// Simulation errors.
var (
	ErrSimulationRunning = errors.New("engine: simulation already running")
	ErrInvalidSimulation = errors.New("engine: invalid simulation parameters")
)

// SimulationStats summarizes a simulation run.
type SimulationStats struct {
	Requested int
	Ticks     int
	Skipped   int
	Accepted  int
	Rejected  map[board.Rejection]int
	Stopped   bool

	Resolves int
	Cascades int
	MaxDepth int
	Removed  int
	Unstable int
	TimedOut int
}

// RejectedTotal returns the number of rejected swap requests.
func (s SimulationStats) RejectedTotal() int {
	n := 0
	for _, v := range s.Rejected {
		n += v
	}
	return n
}

// StatsRecorder persists finished simulation runs.
type StatsRecorder interface {
	RecordSimulation(cfg board.Config, seed int64, stats SimulationStats, elapsed time.Duration) error
}

func (s SimulationStats) clone() SimulationStats {
	out := s
	out.Rejected = make(map[board.Rejection]int, len(s.Rejected))
	for k, v := range s.Rejected {
		out.Rejected[k] = v
	}
	return out
}

type simulation struct {
	interval time.Duration
	next     time.Time
	active   bool
	stats    SimulationStats
}

func (s *simulation) record(res board.StableResult, stable bool) {
	s.stats.Resolves++
	if !stable {
		s.stats.Unstable++
	}
	s.stats.Cascades += res.Cascades()
	s.stats.Removed += res.Removed()
	if res.Cascades() > s.stats.MaxDepth {
		s.stats.MaxDepth = res.Cascades()
	}
}

// RunSimulation starts issuing one random neighbour swap every interval,
// swapCount times. Ticks are driven by Advance.
func (e *Engine) RunSimulation(swapCount int, interval time.Duration) error {
	if e.sim != nil {
		return ErrSimulationRunning
	}
	if swapCount < 0 || interval <= 0 {
		return fmt.Errorf("%w: swaps=%d interval=%s", ErrInvalidSimulation, swapCount, interval)
	}

	e.sim = &simulation{
		interval: interval,
		active:   true,
		stats: SimulationStats{
			Requested: swapCount,
			Rejected:  make(map[board.Rejection]int),
		},
	}
	e.logger.Info("simulation started", "swaps", swapCount, "interval", interval)
	e.emit(SimulationStarted{Swaps: swapCount, Interval: interval})

	if swapCount == 0 {
		e.sim.active = false
		e.finishSimulationIfDrained()
	}
	return nil
}

// StopSimulation prevents further ticks. A swap already in flight still
// settles and resolves; SimulationFinished follows once it has.
func (e *Engine) StopSimulation() {
	if e.sim == nil || !e.sim.active {
		return
	}
	e.sim.active = false
	e.sim.stats.Stopped = true
	e.logger.Info("simulation stopped", "ticks", e.sim.stats.Ticks)
	e.finishSimulationIfDrained()
}

// Simulating reports whether a simulation is running or draining.
func (e *Engine) Simulating() bool {
	return e.sim != nil
}

// SimulationStats returns a snapshot of the running simulation's counters.
func (e *Engine) SimulationStats() (SimulationStats, bool) {
	if e.sim == nil {
		return SimulationStats{}, false
	}
	return e.sim.stats.clone(), true
}

func (e *Engine) advanceSimulation(now time.Time) {
	s := e.sim
	if s == nil || !s.active {
		return
	}
	if s.next.IsZero() {
		s.next = now.Add(s.interval)
		return
	}
	for s.active && !now.Before(s.next) {
		e.tick()
		s.next = s.next.Add(s.interval)
	}
}

// tick issues one random swap through RequestSwap.
func (e *Engine) tick() {
	s := e.sim
	s.stats.Ticks++

	if a, b, ok := e.randomNeighbourPair(); !ok {
		s.stats.Skipped++
	} else {
		res := e.RequestSwap(a, b)
		// A handler may have stopped the simulation during the request.
		if e.sim != s {
			return
		}
		if res.Accepted {
			s.stats.Accepted++
		} else {
			s.stats.Rejected[res.Reason]++
		}
	}

	if s.stats.Ticks >= s.stats.Requested {
		s.active = false
		e.finishSimulationIfDrained()
	}
}

func (e *Engine) randomNeighbourPair() (board.Pos, board.Pos, bool) {
	b := e.board
	occupied := make([]board.Pos, 0, b.Rows()*b.Columns())
	for row := range b.Rows() {
		for col := range b.Columns() {
			if _, ok := b.At(board.P(row, col)); ok {
				occupied = append(occupied, board.P(row, col))
			}
		}
	}
	if len(occupied) == 0 {
		return board.Pos{}, board.Pos{}, false
	}

	a := occupied[e.simRand.Intn(len(occupied))]
	var neighbours []board.Pos
	for _, n := range a.Neighbors() {
		if b.InBounds(n) {
			neighbours = append(neighbours, n)
		}
	}
	if len(neighbours) == 0 {
		return board.Pos{}, board.Pos{}, false
	}
	return a, neighbours[e.simRand.Intn(len(neighbours))], true
}

// finishSimulationIfDrained emits SimulationFinished once no more ticks are
// due and no swap is in flight.
func (e *Engine) finishSimulationIfDrained() {
	s := e.sim
	if s == nil || s.active || e.state != Idle {
		return
	}
	e.sim = nil
	stats := s.stats.clone()
	e.logger.Info("simulation finished",
		"ticks", stats.Ticks,
		"accepted", stats.Accepted,
		"rejected", stats.RejectedTotal(),
		"skipped", stats.Skipped,
		"cascades", stats.Cascades,
		"max_depth", stats.MaxDepth,
	)
	e.emit(SimulationFinished{Stats: stats})
}
