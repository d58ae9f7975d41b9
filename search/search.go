// Package search implements the move planners. Each strategy explores
// the game's placement graph from a starting position and returns a
// plan of moves, or nil when no goal is reachable. Strategies are not
// safe for concurrent Search calls, but Stop may be called from another
// goroutine to abandon a search in progress.
package search

import (
	"sync/atomic"

	"github.com/jpcoutinho/woodpath/game"
)

// Strategy is a move planner. Search blocks until a plan is found, the
// graph is exhausted, or Stop is called; a stopped search returns nil.
// Reset clears the stop flag and counters before a fresh search.
type Strategy interface {
	Search(root game.State) Plan
	Stop()
	Reset()
	StatesGenerated() uint64
	ID() ID
}

// engine carries the bookkeeping every strategy shares: the stop flag
// and the generated-state counter. Strategies expand states through
// children so the counter stays accurate.
type engine struct {
	id       ID
	stop     atomic.Bool
	expanded atomic.Uint64
}

func (e *engine) children(s game.State) []game.State {
	succ := s.Successors()
	e.expanded.Add(uint64(len(succ)))
	return succ
}

func (e *engine) stopped() bool { return e.stop.Load() }

func (e *engine) Stop() { e.stop.Store(true) }

func (e *engine) Reset() {
	e.stop.Store(false)
	e.expanded.Store(0)
}

func (e *engine) StatesGenerated() uint64 { return e.expanded.Load() }

func (e *engine) ID() ID { return e.id }
