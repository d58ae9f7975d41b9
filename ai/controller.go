// Package ai drives the planners on behalf of a game surface. A
// Controller owns one strategy, hands its searches to the shared
// background worker, and reports each request's outcome through
// callbacks so the surface never blocks on a search.
package ai

import (
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jpcoutinho/woodpath/game"
	"github.com/jpcoutinho/woodpath/search"
	"github.com/jpcoutinho/woodpath/stats"
)

// Status reports how a move request ended.
type Status int

const (
	StatusStoppedEarly Status = -2
	StatusNotFound     Status = -1
	StatusRunning      Status = 0
	StatusFound        Status = 1
)

func (s Status) String() string {
	switch s {
	case StatusStoppedEarly:
		return "STOPPED_EARLY"
	case StatusNotFound:
		return "NOT_FOUND"
	case StatusRunning:
		return "RUNNING"
	case StatusFound:
		return "FOUND"
	}
	return "UNKNOWN"
}

// ResultFunc receives the outcome of a move request. move is non-nil
// only for StatusFound.
type ResultFunc func(status Status, move *game.Move)

// TimingFunc brackets a background search: it is called with nil when
// the search is submitted and with the performance record when it
// finishes, always after the ResultFunc for the same request. It is
// the surface's only "is a search running" signal; moves served from a
// cached plan never touch it.
type TimingFunc func(r *stats.Record)

// outcome is the single completion message a search run produces. The
// status is settled at delivery time, under the controller lock, so a
// cancellation that raced the search's completion still wins.
type outcome struct {
	plan   search.Plan
	record stats.Record
}

// Controller coordinates one strategy for one game. Its methods are
// safe to call from any goroutine; completion callbacks fire on the
// worker goroutine.
type Controller struct {
	mu          sync.Mutex
	level       game.Level
	strategy    search.Strategy
	sink        stats.Sink
	plan        []game.Move
	inFlight    *job
	stopPending bool
}

// NewController builds a controller around the named algorithm. The
// registry decides whether the algorithm can serve the level. sink may
// be nil.
func NewController(id search.ID, level game.Level, sink stats.Sink) (*Controller, error) {
	strat, err := search.New(id, level)
	if err != nil {
		return nil, err
	}
	return &Controller{level: level, strategy: strat, sink: sink}, nil
}

// Algorithm returns the controller's strategy ID.
func (c *Controller) Algorithm() search.ID { return c.strategy.ID() }

// Busy reports whether a search is computing or queued.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight != nil
}

// translate rebinds a planned move to the caller's current hand. The
// caller may have shuffled or spent slots since the plan was computed,
// so the slot index is re-derived from the piece shape; a move whose
// piece is gone or no longer fits does not translate.
func translate(s game.State, mv game.Move) (*game.Move, bool) {
	if mv.Piece == nil {
		return nil, false
	}
	if mv.Slot >= 0 && mv.Slot < len(s.Hand) && s.Hand[mv.Slot] != nil &&
		s.Hand[mv.Slot].Equal(mv.Piece) && s.Grid.Fits(s.Hand[mv.Slot], mv.At) {
		out := mv
		return &out, true
	}
	for slot, p := range s.Hand {
		if p == nil || !p.Equal(mv.Piece) {
			continue
		}
		if s.Grid.Fits(p, mv.At) {
			out := game.Move{Slot: slot, Piece: p, At: mv.At}
			return &out, true
		}
	}
	return nil, false
}

// RequestMove asks for the next move from the given position. With
// reset set, any cached plan and in-flight search are discarded first.
// A move left over from a previous plan is translated against s and
// returned synchronously through onResult, with no search and no
// timing callbacks. Otherwise a search is submitted to the worker:
// onTiming marks the start, and on completion onResult then onTiming
// fire, in that order. The request is dropped while a search is
// already in flight, and while a cancellation has not yet been
// delivered.
func (c *Controller) RequestMove(s game.State, onResult ResultFunc, onTiming TimingFunc, reset bool) {
	c.mu.Lock()
	if c.stopPending {
		c.mu.Unlock()
		log.Debug().Msg("move request dropped; cancellation pending")
		return
	}
	if reset {
		c.resetLocked()
	}
	if len(c.plan) > 0 {
		first := c.plan[0]
		c.plan = c.plan[1:]
		mv, ok := translate(s, first)
		if !ok {
			// The rest of the plan is just as stale.
			c.plan = nil
		}
		c.mu.Unlock()
		if onResult == nil {
			return
		}
		if ok {
			onResult(StatusFound, mv)
		} else {
			onResult(StatusNotFound, nil)
		}
		return
	}
	if c.inFlight != nil {
		c.mu.Unlock()
		log.Debug().Msg("move request dropped; search in flight")
		return
	}
	j := &job{}
	j.run = func() outcome { return c.runSearch(s) }
	j.deliver = func(out outcome) { c.deliver(j, s, out, onResult, onTiming) }
	c.inFlight = j
	c.mu.Unlock()
	if onTiming != nil {
		onTiming(nil)
	}
	submit(j)
}

// Cancel asks the in-flight search to stop and drops the cached plan.
// The cancelled request's callbacks still fire, reporting
// StatusStoppedEarly; until they do, new move requests are dropped.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.plan = nil
	if c.inFlight == nil {
		return
	}
	c.stopPending = true
	c.strategy.Stop()
}

// Reset abandons everything: the cached plan, any pending cancellation,
// and the in-flight search, whose callbacks will never fire. The
// controller is immediately ready for new requests.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *Controller) resetLocked() {
	if c.inFlight != nil {
		c.inFlight.detached.Store(true)
		c.strategy.Stop()
		c.inFlight = nil
	}
	c.plan = nil
	c.stopPending = false
}

// runSearch executes on the worker goroutine. The strategy is reset
// here rather than at submit time: the worker is the only goroutine
// that runs searches, so resetting the stop flag cannot race a search
// still winding down.
func (c *Controller) runSearch(s game.State) outcome {
	c.strategy.Reset()
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	start := time.Now()
	plan := c.strategy.Search(s)
	elapsed := time.Since(start)
	runtime.ReadMemStats(&after)

	rec := stats.Record{
		When:            start,
		Level:           c.level.String(),
		Algorithm:       c.strategy.ID().String(),
		Elapsed:         elapsed,
		MemoryBytes:     after.TotalAlloc - before.TotalAlloc,
		StatesGenerated: c.strategy.StatesGenerated(),
		PlanMoves:       len(plan),
		Completed:       plan != nil,
	}
	for _, mv := range plan.Moves() {
		rec.Moves = append(rec.Moves, mv.String())
	}
	return outcome{plan: plan, record: rec}
}

// deliver settles the outcome's status under the lock and fires the
// callbacks, result first. A cancellation that arrived while the
// search was finishing takes precedence over whatever it found.
func (c *Controller) deliver(j *job, s game.State, out outcome, onResult ResultFunc, onTiming TimingFunc) {
	c.mu.Lock()
	if c.inFlight != j {
		// Reset raced the delivery.
		c.mu.Unlock()
		return
	}
	c.inFlight = nil

	status := StatusNotFound
	var mv *game.Move
	switch {
	case c.stopPending:
		c.stopPending = false
		status = StatusStoppedEarly
	default:
		moves := out.plan.Moves()
		if len(moves) > 0 {
			if first, ok := translate(s, moves[0]); ok {
				status = StatusFound
				mv = first
				c.plan = moves[1:]
			}
		}
	}
	sink := c.sink
	c.mu.Unlock()

	if status != StatusStoppedEarly && sink != nil {
		if err := sink.Record(out.record); err != nil {
			log.Err(err).Msg("recording search stats")
		}
	}
	if onResult != nil {
		onResult(status, mv)
	}
	if onTiming != nil {
		onTiming(&out.record)
	}
}
