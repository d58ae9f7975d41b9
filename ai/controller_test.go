package ai

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/jpcoutinho/woodpath/board"
	"github.com/jpcoutinho/woodpath/game"
	"github.com/jpcoutinho/woodpath/piece"
	"github.com/jpcoutinho/woodpath/search"
	"github.com/jpcoutinho/woodpath/stats"
)

var mono = piece.Catalog[0]

type fakeStrategy struct {
	plan    search.Plan
	block   chan struct{}
	started chan struct{}
	stops   atomic.Int32
	resets  atomic.Int32
}

func (f *fakeStrategy) Search(game.State) search.Plan {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	return f.plan
}

func (f *fakeStrategy) Stop()                   { f.stops.Add(1) }
func (f *fakeStrategy) Reset()                  { f.resets.Add(1) }
func (f *fakeStrategy) StatesGenerated() uint64 { return 42 }
func (f *fakeStrategy) ID() search.ID           { return search.BreadthFirst }

// handState is a position the fake plans below are playable from: an
// empty board and a full hand of single-block pieces.
func handState() game.State {
	return game.State{
		Grid:        board.Empty(),
		Hand:        piece.NewHand(mono, mono, mono),
		TargetsLeft: 1,
	}
}

func fakePlan(n int) search.Plan {
	plan := make(search.Plan, n)
	for i := range plan {
		mv := &game.Move{Slot: i % piece.HandSize, Piece: mono, At: piece.Point{X: i, Y: 0}}
		plan[i] = search.Step{State: game.State{LastMove: mv}, Depth: i + 1}
	}
	return plan
}

// catcher records callback invocations and their order.
type catcher struct {
	mu     sync.Mutex
	order  []string
	status Status
	move   *game.Move
	record stats.Record
	done   chan struct{}
}

func newCatcher() *catcher {
	return &catcher{done: make(chan struct{})}
}

func (r *catcher) onResult(status Status, move *game.Move) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, "result")
	r.status = status
	r.move = move
}

func (r *catcher) onTiming(rec *stats.Record) {
	r.mu.Lock()
	if rec == nil {
		r.order = append(r.order, "timing-start")
		r.mu.Unlock()
		return
	}
	r.order = append(r.order, "timing-end")
	r.record = *rec
	r.mu.Unlock()
	close(r.done)
}

func (r *catcher) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(5 * time.Second):
		t.Fatal("callbacks never fired")
	}
}

func (r *catcher) calls(which string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, o := range r.order {
		if o == which {
			n++
		}
	}
	return n
}

type captureSink struct {
	mu      sync.Mutex
	records []stats.Record
}

func (s *captureSink) Record(r stats.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	return nil
}

func (s *captureSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func TestFoundResultBeforeTiming(t *testing.T) {
	is := is.New(t)
	sink := &captureSink{}
	c := &Controller{level: game.Level1, strategy: &fakeStrategy{plan: fakePlan(2)}, sink: sink}

	cb := newCatcher()
	c.RequestMove(handState(), cb.onResult, cb.onTiming, false)
	cb.wait(t)

	is.Equal(cb.order, []string{"timing-start", "result", "timing-end"})
	is.Equal(cb.status, StatusFound)
	is.True(cb.move != nil)
	is.Equal(cb.move.At, piece.Point{X: 0, Y: 0})
	is.Equal(cb.record.StatesGenerated, uint64(42))
	is.Equal(cb.record.Algorithm, "BFS")
	is.Equal(cb.record.PlanMoves, 2)
	is.True(cb.record.Completed)
	is.Equal(sink.count(), 1)
}

func TestCachedPlanServedSynchronously(t *testing.T) {
	is := is.New(t)
	c := &Controller{level: game.Level1, strategy: &fakeStrategy{plan: fakePlan(2)}}

	cb := newCatcher()
	c.RequestMove(handState(), cb.onResult, cb.onTiming, false)
	cb.wait(t)

	// The second move comes off the cached plan before RequestMove
	// returns, with no timing callbacks since nothing was searched.
	var status Status
	var move *game.Move
	timings := 0
	c.RequestMove(handState(),
		func(s Status, m *game.Move) { status, move = s, m },
		func(*stats.Record) { timings++ },
		false)
	is.Equal(status, StatusFound)
	is.True(move != nil)
	is.Equal(move.At, piece.Point{X: 1, Y: 0})
	is.Equal(timings, 0)

	// Plan exhausted: the next request searches again.
	cb2 := newCatcher()
	c.RequestMove(handState(), cb2.onResult, cb2.onTiming, false)
	cb2.wait(t)
	is.Equal(cb2.status, StatusFound)
	is.Equal(cb2.move.At, piece.Point{X: 0, Y: 0})
}

func TestCachedMoveRetranslatedAgainstCallerHand(t *testing.T) {
	is := is.New(t)
	c := &Controller{level: game.Level1, strategy: &fakeStrategy{plan: fakePlan(2)}}

	cb := newCatcher()
	c.RequestMove(handState(), cb.onResult, cb.onTiming, false)
	cb.wait(t)

	// The caller's hand no longer has the piece in the planned slot;
	// the move rebinds to the slot that still holds it.
	shuffled := handState()
	shuffled.Hand = piece.NewHand(nil, nil, mono)
	var move *game.Move
	c.RequestMove(shuffled,
		func(_ Status, m *game.Move) { move = m }, nil, false)
	is.True(move != nil)
	is.Equal(move.Slot, 2)
	is.Equal(move.At, piece.Point{X: 1, Y: 0})
}

func TestStaleCachedMoveReportsNotFound(t *testing.T) {
	is := is.New(t)
	c := &Controller{level: game.Level1, strategy: &fakeStrategy{plan: fakePlan(3)}}

	cb := newCatcher()
	c.RequestMove(handState(), cb.onResult, cb.onTiming, false)
	cb.wait(t)

	// The planned piece is gone from the caller's hand entirely: the
	// cached plan is stale and is dropped wholesale.
	spent := handState()
	spent.Hand = piece.NewHand(piece.Catalog[1])
	var status Status
	c.RequestMove(spent,
		func(s Status, m *game.Move) { status = s }, nil, false)
	is.Equal(status, StatusNotFound)

	// Nothing left to serve synchronously; the next request searches.
	cb2 := newCatcher()
	c.RequestMove(handState(), cb2.onResult, cb2.onTiming, false)
	cb2.wait(t)
	is.Equal(cb2.move.At, piece.Point{X: 0, Y: 0})
}

func TestNotFound(t *testing.T) {
	is := is.New(t)
	sink := &captureSink{}
	c := &Controller{level: game.Level1, strategy: &fakeStrategy{}, sink: sink}

	cb := newCatcher()
	c.RequestMove(handState(), cb.onResult, cb.onTiming, false)
	cb.wait(t)

	is.Equal(cb.order, []string{"timing-start", "result", "timing-end"})
	is.Equal(cb.status, StatusNotFound)
	is.True(cb.move == nil)
	is.True(!cb.record.Completed)
	is.Equal(sink.count(), 1)
}

func TestEmptyPlanReportsNotFound(t *testing.T) {
	is := is.New(t)
	c := &Controller{level: game.Level1, strategy: &fakeStrategy{plan: search.Plan{}}}

	cb := newCatcher()
	c.RequestMove(handState(), cb.onResult, cb.onTiming, false)
	cb.wait(t)
	is.Equal(cb.status, StatusNotFound)
	is.True(cb.move == nil)
	is.True(cb.record.Completed) // the search did finish; it had nothing to do
}

func TestCancelOverridesCompletedSearch(t *testing.T) {
	is := is.New(t)
	sink := &captureSink{}
	fake := &fakeStrategy{
		plan:    fakePlan(1),
		block:   make(chan struct{}),
		started: make(chan struct{}, 8),
	}
	c := &Controller{level: game.Level1, strategy: fake, sink: sink}

	cb := newCatcher()
	c.RequestMove(handState(), cb.onResult, cb.onTiming, false)
	<-fake.started
	c.Cancel()
	is.Equal(fake.stops.Load(), int32(1))

	// Requests while the cancellation is pending are dropped.
	dropped := newCatcher()
	c.RequestMove(handState(), dropped.onResult, dropped.onTiming, false)

	// Let the search finish with a plan in hand; the cancellation
	// still wins.
	close(fake.block)
	cb.wait(t)
	is.Equal(cb.order, []string{"timing-start", "result", "timing-end"})
	is.Equal(cb.status, StatusStoppedEarly)
	is.True(cb.move == nil)
	is.Equal(dropped.calls("result"), 0)
	// Stopped searches are not recorded.
	is.Equal(sink.count(), 0)

	// The controller is usable again once the stop was delivered;
	// receives on the closed block channel no longer block.
	cb2 := newCatcher()
	c.RequestMove(handState(), cb2.onResult, cb2.onTiming, false)
	cb2.wait(t)
	is.Equal(cb2.status, StatusFound)
}

func TestCancelDropsCachedPlan(t *testing.T) {
	is := is.New(t)
	c := &Controller{level: game.Level1, strategy: &fakeStrategy{plan: fakePlan(3)}}

	cb := newCatcher()
	c.RequestMove(handState(), cb.onResult, cb.onTiming, false)
	cb.wait(t)

	// No search in flight: Cancel only clears the plan, so the next
	// request goes back to the strategy.
	c.Cancel()
	cb2 := newCatcher()
	c.RequestMove(handState(), cb2.onResult, cb2.onTiming, false)
	cb2.wait(t)
	is.Equal(cb2.move.At, piece.Point{X: 0, Y: 0})
}

func TestRequestWhileBusyDropped(t *testing.T) {
	is := is.New(t)
	fake := &fakeStrategy{
		plan:    fakePlan(1),
		block:   make(chan struct{}),
		started: make(chan struct{}, 8),
	}
	c := &Controller{level: game.Level1, strategy: fake}

	cb := newCatcher()
	c.RequestMove(handState(), cb.onResult, cb.onTiming, false)
	<-fake.started
	is.True(c.Busy())

	dropped := newCatcher()
	c.RequestMove(handState(), dropped.onResult, dropped.onTiming, false)

	close(fake.block)
	cb.wait(t)
	is.Equal(cb.status, StatusFound)
	is.Equal(dropped.calls("result"), 0)
	is.True(!c.Busy())
}

func TestResetDetachesInFlightSearch(t *testing.T) {
	is := is.New(t)
	fake := &fakeStrategy{
		plan:    fakePlan(2),
		block:   make(chan struct{}),
		started: make(chan struct{}, 8),
	}
	c := &Controller{level: game.Level1, strategy: fake}

	abandoned := newCatcher()
	c.RequestMove(handState(), abandoned.onResult, abandoned.onTiming, false)
	<-fake.started
	c.Reset()
	is.True(!c.Busy())
	close(fake.block)

	// A fresh request runs behind the abandoned one on the worker, so
	// its completion proves the old job was discarded, not delivered.
	cb := newCatcher()
	c.RequestMove(handState(), cb.onResult, cb.onTiming, false)
	cb.wait(t)
	is.Equal(cb.status, StatusFound)
	is.Equal(abandoned.calls("result"), 0)
	is.Equal(abandoned.calls("timing-end"), 0)
}

func TestRequestMoveResetFlag(t *testing.T) {
	is := is.New(t)
	c := &Controller{level: game.Level1, strategy: &fakeStrategy{plan: fakePlan(3)}}

	cb := newCatcher()
	c.RequestMove(handState(), cb.onResult, cb.onTiming, false)
	cb.wait(t)

	// reset discards the cached plan before serving, so this request
	// searches instead of popping the plan's second move.
	cb2 := newCatcher()
	c.RequestMove(handState(), cb2.onResult, cb2.onTiming, true)
	cb2.wait(t)
	is.Equal(cb2.move.At, piece.Point{X: 0, Y: 0})
}

func TestNewControllerUsesRegistry(t *testing.T) {
	is := is.New(t)
	_, err := NewController(search.BreadthFirst, game.LevelEndless, nil)
	is.True(errors.Is(err, search.ErrNotImplemented))

	_, err = NewController(search.ID(999), game.Level1, nil)
	is.True(errors.Is(err, search.ErrUnknownAlgorithm))

	c, err := NewController(search.AStar, game.Level1, nil)
	is.NoErr(err)
	is.Equal(c.Algorithm(), search.AStar)
}

func TestCancelWithoutSearchOnlyClearsPlan(t *testing.T) {
	is := is.New(t)
	fake := &fakeStrategy{plan: fakePlan(1)}
	c := &Controller{level: game.Level1, strategy: fake}
	c.Cancel()
	is.Equal(fake.stops.Load(), int32(0))

	// And requests still go through.
	cb := newCatcher()
	c.RequestMove(handState(), cb.onResult, cb.onTiming, false)
	cb.wait(t)
	is.Equal(cb.status, StatusFound)
}

func TestStatusString(t *testing.T) {
	is := is.New(t)
	is.Equal(StatusFound.String(), "FOUND")
	is.Equal(StatusNotFound.String(), "NOT_FOUND")
	is.Equal(StatusStoppedEarly.String(), "STOPPED_EARLY")
	is.Equal(StatusRunning.String(), "RUNNING")
	is.Equal(Status(7).String(), "UNKNOWN")
}
