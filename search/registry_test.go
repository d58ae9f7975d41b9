package search

import (
	"errors"
	"sort"
	"testing"

	"github.com/matryer/is"

	"github.com/jpcoutinho/woodpath/game"
)

func TestNewUnknownAlgorithm(t *testing.T) {
	is := is.New(t)
	_, err := New(ID(999), game.Level1)
	is.True(errors.Is(err, ErrUnknownAlgorithm))
}

func TestGoalStrategiesRejectEndless(t *testing.T) {
	is := is.New(t)
	for _, id := range []ID{BreadthFirst, DepthFirst, IterativeDeepening, Greedy, AStar, WeightedAStar} {
		_, err := New(id, game.LevelEndless)
		is.True(errors.Is(err, ErrNotImplemented))
	}
}

func TestSingleDepthGreedyRejectsBoundedLevels(t *testing.T) {
	is := is.New(t)
	_, err := New(SingleDepthGreedy, game.Level1)
	is.True(errors.Is(err, ErrNotImplemented))

	strat, err := New(SingleDepthGreedy, game.LevelEndless)
	is.NoErr(err)
	is.Equal(strat.ID(), SingleDepthGreedy)
}

func TestLookupRoundTrip(t *testing.T) {
	is := is.New(t)
	for _, id := range []ID{BreadthFirst, DepthFirst, IterativeDeepening, Greedy, SingleDepthGreedy, AStar, WeightedAStar} {
		got, err := Lookup(id.String())
		is.NoErr(err)
		is.Equal(got, id)
	}
	_, err := Lookup("Minimax")
	is.True(errors.Is(err, ErrUnknownAlgorithm))
}

func TestNames(t *testing.T) {
	is := is.New(t)
	names := Names()
	is.True(len(names) >= 7)
	is.True(sort.StringsAreSorted(names))
}

func TestIdentify(t *testing.T) {
	is := is.New(t)
	strat, err := New(Greedy, game.Level1)
	is.NoErr(err)
	id, err := Identify(strat)
	is.NoErr(err)
	is.Equal(id, Greedy)

	_, err = Identify(nil)
	is.True(errors.Is(err, ErrUnknownAlgorithm))
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	is := is.New(t)
	is.True(Register(BreadthFirst, "SomethingElse", newBreadthFirst) != nil)
	is.True(Register(ID(998), "BFS", newBreadthFirst) != nil)
}
