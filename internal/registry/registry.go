// Package registry holds the game factories. Games register in init() so
// the platform can list and create them by ID.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-match3/internal/core"
)

// Game is implemented by every playable mode. Implementations hold pure
// logic; the platform maps keys to actions, drives ticks and displays the
// screen.
type Game interface {
	// ID is the stable identifier used by the CLI and the score table.
	ID() string

	// Title is the display name.
	Title() string

	// Reset starts a new round. Called before the first Step and on restart.
	Reset(cfg core.RuntimeConfig)

	// Step advances one fixed tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws into a cleared screen.
	Render(dst *core.Screen)

	// State reports score and game-over status.
	State() core.GameState
}

// Describer is implemented by games that provide a one-line description
// for menus and the list command.
type Describer interface {
	Description() string
}

// GameInfo is the metadata of a registered game.
type GameInfo struct {
	ID          string
	Title       string
	Description string
}

// Factory creates a fresh game instance.
type Factory func() Game

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
	infos     = make(map[string]GameInfo)
)

// Register adds a factory. It panics on a duplicate ID.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	g := f()
	info := GameInfo{ID: id, Title: g.Title()}
	if d, ok := g.(Describer); ok {
		info.Description = d.Description()
	}
	factories[id] = f
	infos[id] = info
}

// List returns every registered game sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]GameInfo, 0, len(infos))
	for _, info := range infos {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Create instantiates the game registered under id.
func Create(id string) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return f(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := factories[id]
	return ok
}
