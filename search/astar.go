package search

import "github.com/jpcoutinho/woodpath/game"

// weightedAStarWeight inflates the heuristic term of weighted A*. The
// search trades plan length for speed in proportion to it.
const weightedAStarWeight = 4

// astar orders the frontier by moves played plus the estimated moves
// remaining. With weight 1 and the estimate never overshooting, the
// first goal popped ends a shortest plan; larger weights chase the
// estimate harder and give that guarantee up.
type astar struct {
	engine
	weight float64
}

func newAStar(level game.Level) (Strategy, error) {
	if !level.Bounded() {
		return nil, endlessErr(AStar)
	}
	return &astar{engine: engine{id: AStar}, weight: 1}, nil
}

func newWeightedAStar(level game.Level) (Strategy, error) {
	if !level.Bounded() {
		return nil, endlessErr(WeightedAStar)
	}
	return &astar{engine: engine{id: WeightedAStar}, weight: weightedAStarWeight}, nil
}

func (a *astar) Search(root game.State) Plan {
	var ar arena
	rootRef := ar.add(root, noNode, a.weight*targetLinesLeft(&root))
	if root.Solved() {
		return ar.plan(rootRef)
	}
	visited := map[uint64]nodeRef{root.Key(): rootRef}
	pq := newByScore(&ar)
	pq.push(rootRef)
	for pq.Len() > 0 {
		if a.stopped() {
			return nil
		}
		ref := pq.pop()
		n := ar.at(ref)
		if n.state.Solved() {
			return ar.plan(ref)
		}
		depth := n.depth
		for _, s := range a.children(n.state) {
			k := s.Key()
			if _, seen := visited[k]; seen {
				continue
			}
			cost := float64(depth + 1)
			child := ar.add(s, ref, cost+a.weight*targetLinesLeft(&s))
			visited[k] = child
			pq.push(child)
		}
	}
	return nil
}
