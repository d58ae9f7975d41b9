package search

import "github.com/jpcoutinho/woodpath/game"

// depthFirst chases a single line of play to the bottom before backing
// up. Plans it finds are rarely short, but it reaches a goal on far
// less memory than breadth-first.
type depthFirst struct {
	engine
}

func newDepthFirst(level game.Level) (Strategy, error) {
	if !level.Bounded() {
		return nil, endlessErr(DepthFirst)
	}
	return &depthFirst{engine{id: DepthFirst}}, nil
}

func (d *depthFirst) Search(root game.State) Plan {
	var ar arena
	st := stack{ar.add(root, noNode, 0)}
	visited := make(map[uint64]struct{})
	for len(st) > 0 {
		if d.stopped() {
			return nil
		}
		ref := st.pop()
		n := ar.at(ref)
		k := n.state.Key()
		if _, seen := visited[k]; seen {
			continue
		}
		visited[k] = struct{}{}
		if n.state.Solved() {
			return ar.plan(ref)
		}
		succ := d.children(n.state)
		// Push in reverse so the first-generated successor pops first.
		for i := len(succ) - 1; i >= 0; i-- {
			if _, seen := visited[succ[i].Key()]; seen {
				continue
			}
			st.push(ar.add(succ[i], ref, 0))
		}
	}
	return nil
}
