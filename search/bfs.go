package search

import "github.com/jpcoutinho/woodpath/game"

// breadthFirst explores the placement graph level by level. With every
// move costing one, the first goal reached is a shortest plan.
type breadthFirst struct {
	engine
}

func newBreadthFirst(level game.Level) (Strategy, error) {
	if !level.Bounded() {
		return nil, endlessErr(BreadthFirst)
	}
	return &breadthFirst{engine{id: BreadthFirst}}, nil
}

func (b *breadthFirst) Search(root game.State) Plan {
	var ar arena
	rootRef := ar.add(root, noNode, 0)
	if root.Solved() {
		return ar.plan(rootRef)
	}
	visited := map[uint64]nodeRef{root.Key(): rootRef}
	var q fifo
	q.push(rootRef)
	for q.len() > 0 {
		if b.stopped() {
			return nil
		}
		ref := q.pop()
		for _, s := range b.children(ar.at(ref).state) {
			k := s.Key()
			if _, seen := visited[k]; seen {
				continue
			}
			child := ar.add(s, ref, 0)
			visited[k] = child
			if s.Solved() {
				return ar.plan(child)
			}
			q.push(child)
		}
	}
	return nil
}
