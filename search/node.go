package search

import (
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/jpcoutinho/woodpath/game"
)

// nodeRef indexes into an arena. Nodes never move once added, so a ref
// stays valid for the lifetime of the search.
type nodeRef = int32

const noNode nodeRef = -1

type node struct {
	state  game.State
	parent nodeRef
	depth  int32
	// score orders the node in a best-first frontier; unused by the
	// uninformed strategies.
	score float64
}

// arena owns every node a single search allocates. Keeping nodes in one
// slice and linking them by index keeps the frontier and visited set
// small: both hold 4-byte refs instead of pointers into scattered
// allocations.
type arena struct {
	nodes []node
}

// nodeFootprint is a rough per-node heap cost: the node struct plus the
// copied board rows and hand slice its state typically owns.
const nodeFootprint = 512

// nodeBudget is how many nodes fit in a quarter of system memory,
// sized the same way the transposition-table fraction would be. An
// arena crossing it logs a warning once; the search keeps going and it
// is the caller's call whether to cancel.
var nodeBudget = func() int {
	n := int(memory.TotalMemory() / 4 / nodeFootprint)
	if n < 1<<20 {
		n = 1 << 20
	}
	return n
}()

func (a *arena) add(s game.State, parent nodeRef, score float64) nodeRef {
	depth := int32(0)
	if parent != noNode {
		depth = a.nodes[parent].depth + 1
	}
	if len(a.nodes) == nodeBudget {
		log.Warn().Int("nodes", len(a.nodes)).Msg("search tree approaching memory limits")
	}
	a.nodes = append(a.nodes, node{state: s, parent: parent, depth: depth, score: score})
	return nodeRef(len(a.nodes) - 1)
}

func (a *arena) at(ref nodeRef) *node {
	return &a.nodes[ref]
}

// less orders refs by score, then by path cost, then by insertion
// order. The last leg makes the order strict even between two dead-end
// or two winning nodes whose scores and depths coincide.
func (a *arena) less(i, j nodeRef) bool {
	ni, nj := &a.nodes[i], &a.nodes[j]
	if ni.score != nj.score {
		return ni.score < nj.score
	}
	if ni.depth != nj.depth {
		return ni.depth < nj.depth
	}
	return i < j
}

// plan walks parent links from the given node back to the root and
// returns the steps in playing order. The root itself carries no move
// and is excluded; a goal node that is the root yields an empty,
// non-nil plan.
func (a *arena) plan(ref nodeRef) Plan {
	n := a.at(ref)
	steps := make(Plan, n.depth)
	for i := int(n.depth) - 1; i >= 0; i-- {
		steps[i] = Step{State: a.nodes[ref].state, Depth: int(a.nodes[ref].depth)}
		ref = a.nodes[ref].parent
	}
	return steps
}

// Step is one move of a plan: the state reached by playing it. The
// state's LastMove holds the placement itself.
type Step struct {
	State game.State
	Depth int
}

// Plan is an ordered sequence of moves from the searched position to a
// goal. A nil plan means no goal was found; an empty but non-nil plan
// means the searched position was already a goal.
type Plan []Step

// Moves extracts the placements of the plan in playing order.
func (p Plan) Moves() []game.Move {
	out := make([]game.Move, 0, len(p))
	for _, st := range p {
		if st.State.LastMove != nil {
			out = append(out, *st.State.LastMove)
		}
	}
	return out
}
