package search

import "container/heap"

// fifo is a queue of node refs with an advancing head, compacted once
// the dead prefix dominates the backing slice.
type fifo struct {
	refs []nodeRef
	head int
}

func (q *fifo) len() int { return len(q.refs) - q.head }

func (q *fifo) push(ref nodeRef) { q.refs = append(q.refs, ref) }

func (q *fifo) pop() nodeRef {
	ref := q.refs[q.head]
	q.head++
	if q.head > 1024 && q.head*2 >= len(q.refs) {
		q.refs = append(q.refs[:0], q.refs[q.head:]...)
		q.head = 0
	}
	return ref
}

type stack []nodeRef

func (s *stack) push(ref nodeRef) { *s = append(*s, ref) }

func (s *stack) pop() nodeRef {
	old := *s
	ref := old[len(old)-1]
	*s = old[:len(old)-1]
	return ref
}

// byScore is a min-heap of node refs ordered by the arena's node
// scores, with insertion order breaking ties.
type byScore struct {
	ar   *arena
	refs []nodeRef
}

func (h *byScore) Len() int           { return len(h.refs) }
func (h *byScore) Less(i, j int) bool { return h.ar.less(h.refs[i], h.refs[j]) }
func (h *byScore) Swap(i, j int)      { h.refs[i], h.refs[j] = h.refs[j], h.refs[i] }
func (h *byScore) Push(x interface{}) { h.refs = append(h.refs, x.(nodeRef)) }
func (h *byScore) Pop() interface{} {
	old := h.refs
	ref := old[len(old)-1]
	h.refs = old[:len(old)-1]
	return ref
}

func newByScore(ar *arena) *byScore { return &byScore{ar: ar} }

func (h *byScore) push(ref nodeRef) { heap.Push(h, ref) }

func (h *byScore) pop() nodeRef { return heap.Pop(h).(nodeRef) }
