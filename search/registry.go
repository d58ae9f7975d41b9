package search

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/jpcoutinho/woodpath/game"
)

// ID names a registered strategy.
type ID int

const (
	BreadthFirst ID = iota
	DepthFirst
	IterativeDeepening
	Greedy
	SingleDepthGreedy
	AStar
	WeightedAStar
)

var (
	// ErrUnknownAlgorithm is returned for an ID or name the registry
	// has never seen.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
	// ErrNotImplemented is returned when a known strategy cannot plan
	// for the requested game mode.
	ErrNotImplemented = errors.New("not implemented for this game mode")
)

func endlessErr(id ID) error {
	return fmt.Errorf("%s needs a target budget to search toward: %w", id, ErrNotImplemented)
}

func boundedErr(id ID) error {
	return fmt.Errorf("%s only plans one move ahead; use a goal-directed strategy: %w", id, ErrNotImplemented)
}

// Constructor builds a strategy configured for the given level.
type Constructor func(level game.Level) (Strategy, error)

type entry struct {
	name string
	make Constructor
}

// The registry is a plain table keyed by ID. Every built-in strategy is
// listed here; nothing is discovered at runtime.
var (
	regMu    sync.RWMutex
	registry = map[ID]entry{
		BreadthFirst:       {"BFS", newBreadthFirst},
		DepthFirst:         {"DFS", newDepthFirst},
		IterativeDeepening: {"IterativeDeepening", newIterDeep},
		Greedy:             {"Greedy", newGreedy},
		SingleDepthGreedy:  {"SingleDepthGreedy", newSingleDepthGreedy},
		AStar:              {"AStar", newAStar},
		WeightedAStar:      {"WeightedAStar", newWeightedAStar},
	}
)

func (id ID) String() string {
	regMu.RLock()
	defer regMu.RUnlock()
	if e, ok := registry[id]; ok {
		return e.name
	}
	return fmt.Sprintf("Algorithm(%d)", int(id))
}

// Register adds a strategy under a new ID, for callers shipping their
// own planners. Registering over an existing ID or name is an error.
func Register(id ID, name string, make Constructor) error {
	regMu.Lock()
	defer regMu.Unlock()
	if _, ok := registry[id]; ok {
		return fmt.Errorf("algorithm %d already registered", int(id))
	}
	for _, e := range registry {
		if e.name == name {
			return fmt.Errorf("algorithm name %q already registered", name)
		}
	}
	registry[id] = entry{name, make}
	return nil
}

// New builds the strategy registered under id, configured for level.
func New(id ID, level game.Level) (Strategy, error) {
	regMu.RLock()
	e, ok := registry[id]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("id %d: %w", int(id), ErrUnknownAlgorithm)
	}
	return e.make(level)
}

// Identify maps a strategy instance back to its registered ID.
func Identify(s Strategy) (ID, error) {
	if s == nil {
		return 0, fmt.Errorf("nil strategy: %w", ErrUnknownAlgorithm)
	}
	id := s.ID()
	regMu.RLock()
	_, ok := registry[id]
	regMu.RUnlock()
	if !ok {
		return 0, fmt.Errorf("id %d: %w", int(id), ErrUnknownAlgorithm)
	}
	return id, nil
}

// Lookup resolves a strategy name, as printed by ID.String, back to its
// ID.
func Lookup(name string) (ID, error) {
	regMu.RLock()
	defer regMu.RUnlock()
	for id, e := range registry {
		if e.name == name {
			return id, nil
		}
	}
	return 0, fmt.Errorf("name %q: %w", name, ErrUnknownAlgorithm)
}

// Names lists every registered strategy name, sorted.
func Names() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(registry))
	for _, e := range registry {
		out = append(out, e.name)
	}
	sort.Strings(out)
	return out
}
