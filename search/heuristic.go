package search

import (
	"math"

	"github.com/jpcoutinho/woodpath/board"
	"github.com/jpcoutinho/woodpath/game"
)

// Heuristic values are frontier priorities: lower pops first. Scores
// are accumulated as higher-is-better and folded through scoreToPriority
// at the end, so a well-scored candidate sorts ahead of a poor one.
const scoreCeiling = 10000

func scoreToPriority(score float64) float64 {
	return (scoreCeiling - score) / 10
}

// greedyScore rewards progress toward clearing targets. total is the
// target budget at the searched position; the gap between it and the
// candidate's remaining budget rewards every hit on the line of play,
// not just the last move's. Rows and columns touched by the placed
// piece are scored against the parent's board, before the placement
// itself filled them.
func greedyScore(total int, parent, cand *game.State) float64 {
	if cand.TargetsLeft <= 0 {
		return math.Inf(-1)
	}
	hand := cand.Hand
	if hand.AllEmpty() {
		if len(cand.Pending) == 0 {
			return math.Inf(1)
		}
		hand = cand.Pending[0]
	}
	if game.Deadlocked(cand.Grid, hand) {
		return math.Inf(1)
	}

	score := float64(20 * (total - cand.TargetsLeft))
	mv := cand.LastMove
	if mv != nil {
		var rows, cols [board.Size]bool
		for _, pt := range mv.Piece {
			rows[mv.At.Y+pt.Y] = true
			cols[mv.At.X+pt.X] = true
		}
		for i := 0; i < board.Size; i++ {
			if rows[i] {
				score += float64(3*parent.Grid.TargetsInRow(i) + parent.Grid.PlayersInRow(i))
			}
			if cols[i] {
				score += float64(3*parent.Grid.TargetsInCol(i) + parent.Grid.PlayersInCol(i))
			}
		}
	}
	return scoreToPriority(score)
}

// targetLinesLeft is the admissible estimate used by A*: every move
// clears at most one full line of targets per axis, so the smaller
// count of target-bearing rows or columns never overestimates the
// moves still needed.
func targetLinesLeft(s *game.State) float64 {
	rows, cols := s.Grid.TargetLines()
	if cols < rows {
		return float64(cols)
	}
	return float64(rows)
}

// packingScore judges how tidily a placement sits, for play without
// targets. It scores the board as placed, before any lines clear, so a
// placement that fills a line is judged by the crowding it resolves
// rather than the empty board it leaves.
func packingScore(parent *game.State, mv game.Move) float64 {
	g := parent.Grid.Place(mv.Piece, mv.At)
	score := float64(-10*g.Occupied() -
		5*g.Perimeter() -
		8*g.Jaggedness() -
		15*g.IsolatedGaps())
	return scoreToPriority(score)
}
