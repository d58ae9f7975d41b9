package search

import "github.com/jpcoutinho/woodpath/game"

// iterDeep runs depth-limited depth-first passes with a growing limit.
// Like breadth-first it finds a shortest plan, but each pass only keeps
// one line of play in memory. States near the root are re-expanded on
// every pass; the counter reflects that.
type iterDeep struct {
	engine
}

func newIterDeep(level game.Level) (Strategy, error) {
	if !level.Bounded() {
		return nil, endlessErr(IterativeDeepening)
	}
	return &iterDeep{engine{id: IterativeDeepening}}, nil
}

func (it *iterDeep) Search(root game.State) Plan {
	for limit := int32(1); ; limit++ {
		if it.stopped() {
			return nil
		}
		plan, cutoff := it.depthLimited(root, limit)
		if plan != nil {
			return plan
		}
		if !cutoff {
			// Nothing beyond the limit: the graph is exhausted.
			return nil
		}
	}
}

// depthLimited is one bounded pass. cutoff reports whether some node at
// the limit still had successors, i.e. whether a deeper pass could see
// more. Revisits are allowed when a state reappears at a shallower
// depth; a deeper first visit must not mask the shorter line.
func (it *iterDeep) depthLimited(root game.State, limit int32) (Plan, bool) {
	var ar arena
	st := stack{ar.add(root, noNode, 0)}
	best := make(map[uint64]int32)
	cutoff := false
	for len(st) > 0 {
		if it.stopped() {
			return nil, false
		}
		ref := st.pop()
		n := ar.at(ref)
		k := n.state.Key()
		if d, seen := best[k]; seen && d <= n.depth {
			continue
		}
		best[k] = n.depth
		if n.state.Solved() {
			return ar.plan(ref), false
		}
		succ := it.children(n.state)
		if n.depth == limit {
			if len(succ) > 0 {
				cutoff = true
			}
			continue
		}
		for i := len(succ) - 1; i >= 0; i-- {
			st.push(ar.add(succ[i], ref, 0))
		}
	}
	return nil, cutoff
}
