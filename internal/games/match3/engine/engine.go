// Package engine drives a match-3 board through discrete swap, settle and
// resolve steps.
//
// The engine is single-threaded: every method must be called from the
// goroutine that owns it. Time only advances through Advance, which makes
// simulation runs and settle timeouts reproducible.
package engine

import (
	"errors"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-match3/internal/games/match3/board"
)

// State is the controller state.
type State uint8

const (
	// Idle accepts swap requests.
	Idle State = iota
	// Swapping waits for the presentation layer to settle an accepted swap.
	Swapping
	// Resolving runs cascades. It is never observable from outside except
	// by event handlers.
	Resolving
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Swapping:
		return "swapping"
	case Resolving:
		return "resolving"
	default:
		return "unknown"
	}
}

// ErrNoPendingSwap is returned by OnSwapSettled when no swap is in flight.
var ErrNoPendingSwap = errors.New("engine: no pending swap")

// ErrNilBoard is returned by New when no board is supplied.
var ErrNilBoard = errors.New("engine: nil board")

// Options configures an Engine.
type Options struct {
	// SimRand drives simulation ticks. Kept separate from the board's color
	// source so a simulation does not perturb refills.
	SimRand board.Intner

	// Logger receives structured engine logs. Nil discards.
	Logger *log.Logger

	// AutoSettle resolves accepted swaps immediately, for headless runs.
	AutoSettle bool

	// SettleTimeout forces a pending swap to resolve once it has waited
	// this long. The wait is measured on the Advance clock from the last
	// Advance before the swap was accepted; a swap accepted before the first
	// Advance starts waiting at that Advance. Zero waits forever.
	SettleTimeout time.Duration
}

// SwapResult is returned by RequestSwap.
type SwapResult struct {
	Accepted bool
	Reason   board.Rejection
}

// Engine is the swap/resolve controller.
type Engine struct {
	board *board.Board
	state State

	pendingA  board.Pos
	pendingB  board.Pos
	swapSince time.Time
	clock     time.Time // last Advance

	handlers  map[int]Handler
	handlerID int
	order     []int

	logger        *log.Logger
	simRand       board.Intner
	autoSettle    bool
	settleTimeout time.Duration

	sim *simulation
}

// New creates an engine that owns b.
func New(b *board.Board, opts Options) (*Engine, error) {
	if b == nil {
		return nil, ErrNilBoard
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	simRand := opts.SimRand
	if simRand == nil {
		simRand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Engine{
		board:         b,
		state:         Idle,
		handlers:      make(map[int]Handler),
		logger:        logger,
		simRand:       simRand,
		autoSettle:    opts.AutoSettle,
		settleTimeout: opts.SettleTimeout,
	}, nil
}

// Board returns the board. Callers must not mutate it directly.
func (e *Engine) Board() *board.Board {
	return e.board
}

// State returns the current controller state.
func (e *Engine) State() State {
	return e.state
}

// Pending returns the swap waiting for settle, if any.
func (e *Engine) Pending() (a, b board.Pos, ok bool) {
	if e.state != Swapping {
		return board.Pos{}, board.Pos{}, false
	}
	return e.pendingA, e.pendingB, true
}

// Subscribe registers h for all future events and returns a function that
// removes it.
func (e *Engine) Subscribe(h Handler) (unsubscribe func()) {
	e.handlerID++
	id := e.handlerID
	e.handlers[id] = h
	e.order = append(e.order, id)
	return func() {
		delete(e.handlers, id)
		for i, v := range e.order {
			if v == id {
				e.order = append(e.order[:i], e.order[i+1:]...)
				break
			}
		}
	}
}

func (e *Engine) emit(evt Event) {
	for _, id := range e.order {
		if h, ok := e.handlers[id]; ok {
			h(evt)
		}
	}
}

// RequestSwap asks the board to exchange the tokens at a and b.
//
// Requests are only honored while Idle; anything else is rejected as busy
// and dropped. A valid swap moves the engine to Swapping until
// OnSwapSettled is called (or immediately resolves with AutoSettle).
func (e *Engine) RequestSwap(a, b board.Pos) SwapResult {
	if e.state != Idle {
		return e.reject(a, b, board.Busy)
	}

	if err := e.board.Swap(a, b); err != nil {
		reason, ok := board.AsRejection(err)
		if !ok {
			reason = board.EmptyCell
		}
		return e.reject(a, b, reason)
	}

	e.board.Lock()
	e.state = Swapping
	e.pendingA, e.pendingB = a, b
	e.swapSince = e.clock

	ca, _ := e.board.ColorAt(a)
	cb, _ := e.board.ColorAt(b)
	e.logger.Debug("swap accepted", "a", a, "b", b)
	e.emit(SwapAccepted{A: a, B: b, ColorA: ca, ColorB: cb})

	if e.autoSettle {
		e.settle()
	}
	return SwapResult{Accepted: true}
}

func (e *Engine) reject(a, b board.Pos, reason board.Rejection) SwapResult {
	e.logger.Debug("swap rejected", "a", a, "b", b, "reason", reason)
	e.emit(SwapRejected{A: a, B: b, Reason: reason})
	return SwapResult{Reason: reason}
}

// OnSwapSettled signals that the presentation finished animating the
// accepted swap. The engine resolves every cascade, emits one StepResolved
// per step and a final Stabilized, and returns to Idle.
func (e *Engine) OnSwapSettled() (board.StableResult, error) {
	if e.state != Swapping {
		return board.StableResult{}, ErrNoPendingSwap
	}
	return e.settle(), nil
}

func (e *Engine) settle() board.StableResult {
	e.state = Resolving

	res := e.board.ResolveUntilStable()
	for i, step := range res.Steps {
		e.emit(StepResolved{Step: i + 1, Result: step})
	}

	if limit := e.board.CascadeLimit(); res.Cascades() > limit {
		e.logger.Info("cascade settled at limit", "steps", res.Cascades(), "limit", limit)
	}

	e.board.Unlock()
	e.state = Idle
	e.logger.Debug("board stable", "steps", res.Cascades(), "removed", res.Removed(), "touched", res.Touched.Len())

	if e.sim != nil {
		e.sim.record(res, e.board.FindMatches().Len() == 0)
	}
	e.emit(Stabilized{Steps: res.Cascades(), Removed: res.Removed(), Touched: res.Touched.Len()})

	e.finishSimulationIfDrained()
	return res
}

// Advance moves the engine clock to now. It fires due simulation ticks and
// enforces the settle timeout. now must not go backwards.
func (e *Engine) Advance(now time.Time) {
	e.clock = now
	if e.state == Swapping && e.settleTimeout > 0 {
		if e.swapSince.IsZero() {
			e.swapSince = now
		} else if waited := now.Sub(e.swapSince); waited >= e.settleTimeout {
			e.logger.Warn("settle timed out", "a", e.pendingA, "b", e.pendingB, "waited", waited)
			if e.sim != nil {
				e.sim.stats.TimedOut++
			}
			e.emit(SettleTimedOut{A: e.pendingA, B: e.pendingB, Waited: waited})
			e.settle()
		}
	}

	e.advanceSimulation(now)
}
