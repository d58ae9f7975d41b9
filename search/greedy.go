package search

import "github.com/jpcoutinho/woodpath/game"

// greedy is best-first on the target-clearing score alone. It commits
// hard to promising lines of play, so it tends to find a plan quickly
// and makes no promise about the plan's length.
type greedy struct {
	engine
}

func newGreedy(level game.Level) (Strategy, error) {
	if !level.Bounded() {
		return nil, endlessErr(Greedy)
	}
	return &greedy{engine{id: Greedy}}, nil
}

func (g *greedy) Search(root game.State) Plan {
	var ar arena
	rootRef := ar.add(root, noNode, 0)
	if root.Solved() {
		return ar.plan(rootRef)
	}
	total := root.TargetsLeft
	visited := map[uint64]nodeRef{root.Key(): rootRef}
	pq := newByScore(&ar)
	pq.push(rootRef)
	for pq.Len() > 0 {
		if g.stopped() {
			return nil
		}
		ref := pq.pop()
		n := ar.at(ref)
		if n.state.Solved() {
			return ar.plan(ref)
		}
		parent := &n.state
		for _, s := range g.children(n.state) {
			k := s.Key()
			if _, seen := visited[k]; seen {
				continue
			}
			child := ar.add(s, ref, greedyScore(total, parent, &s))
			visited[k] = child
			pq.push(child)
		}
	}
	return nil
}
