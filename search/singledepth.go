package search

import "github.com/jpcoutinho/woodpath/game"

// singleDepthGreedy plans exactly one move ahead: it scores every legal
// placement by how tidily it packs the board and plays the best one.
// It is the planner for play without targets, where there is no goal to
// search toward and the only job is to survive the next hand.
type singleDepthGreedy struct {
	engine
}

func newSingleDepthGreedy(level game.Level) (Strategy, error) {
	if level.Bounded() {
		return nil, boundedErr(SingleDepthGreedy)
	}
	return &singleDepthGreedy{engine{id: SingleDepthGreedy}}, nil
}

func (g *singleDepthGreedy) Search(root game.State) Plan {
	var ar arena
	rootRef := ar.add(root, noNode, 0)
	best := noNode
	for _, s := range g.children(root) {
		if g.stopped() {
			return nil
		}
		ref := ar.add(s, rootRef, packingScore(&root, *s.LastMove))
		if best == noNode || ar.less(ref, best) {
			best = ref
		}
	}
	if best == noNode {
		return nil
	}
	return ar.plan(best)
}
