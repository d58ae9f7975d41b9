// Package piece defines the polyomino pieces that can be placed on the
// board, and the player's hand of up-to-three playable pieces.
package piece

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"lukechampine.com/frand"
)

// HandSize is the number of concurrently playable piece slots.
const HandSize = 3

// A Point is a board coordinate or a block offset within a piece.
type Point struct {
	X int
	Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// A Piece is a fixed list of block offsets relative to its top-left origin.
// A nil Piece denotes an empty hand slot.
type Piece []Point

// Catalog is the full set of placeable pieces: monominoes through
// tetrominoes, matching the shapes the game deals from.
var Catalog = []Piece{
	{{0, 0}},
	{{0, 0}, {1, 0}},
	{{0, 0}, {0, 1}},
	{{0, 0}, {1, 0}, {0, 1}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 0}, {0, 1}, {0, 2}},
	{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	{{0, 0}, {1, 0}, {2, 0}, {3, 0}},
	{{0, 0}, {0, 1}, {0, 2}, {0, 3}},
	{{0, 0}, {1, 0}, {2, 0}, {0, 1}},
	{{0, 0}, {1, 0}, {2, 0}, {2, 1}},
	{{0, 0}, {1, 0}, {2, 0}, {1, 1}},
	{{0, 0}, {1, 0}, {0, 1}, {0, 2}},
	{{0, 0}, {1, 0}, {1, 1}, {1, 2}},
	{{0, 0}, {0, 1}, {1, 1}, {1, 2}},
	{{0, 0}, {1, 0}, {1, 1}, {2, 1}},
	{{0, 0}, {1, 0}, {1, 1}, {2, 0}},
}

// Equal reports whether two pieces cover the same block offsets,
// regardless of the order the offsets are listed in.
func (p Piece) Equal(o Piece) bool {
	if len(p) != len(o) {
		return false
	}
	return p.key() == o.key()
}

// key returns a canonical string form of the piece, with blocks sorted,
// so that equal shapes compare and hash identically.
func (p Piece) key() string {
	if p == nil {
		return ""
	}
	blocks := make([]Point, len(p))
	copy(blocks, p)
	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].Y != blocks[j].Y {
			return blocks[i].Y < blocks[j].Y
		}
		return blocks[i].X < blocks[j].X
	})
	var sb strings.Builder
	for _, b := range blocks {
		fmt.Fprintf(&sb, "%d,%d;", b.X, b.Y)
	}
	return sb.String()
}

func (p Piece) String() string {
	if p == nil {
		return "<empty>"
	}
	parts := lo.Map(p, func(pt Point, _ int) string { return pt.String() })
	return "[" + strings.Join(parts, " ") + "]"
}

// A Hand holds up to HandSize playable pieces; empty slots are nil.
type Hand []Piece

// NewHand builds a hand from the given pieces, padded with empty slots
// up to HandSize.
func NewHand(pieces ...Piece) Hand {
	h := make(Hand, HandSize)
	copy(h, pieces)
	return h
}

// AllEmpty reports whether every slot in the hand is empty.
func (h Hand) AllEmpty() bool {
	return lo.EveryBy(h, func(p Piece) bool { return p == nil })
}

// Clone returns a copy of the hand. The pieces themselves are shared;
// they are never mutated.
func (h Hand) Clone() Hand {
	c := make(Hand, len(h))
	copy(c, h)
	return c
}

// Key returns a canonical form of the hand as a multiset: slot order is
// irrelevant, empty slots are counted.
func (h Hand) Key() string {
	keys := make([]string, len(h))
	for i, p := range h {
		keys[i] = p.key()
	}
	sort.Strings(keys)
	return strings.Join(keys, "|")
}

// RandomHands deals n hands of HandSize pieces drawn uniformly from the
// catalog.
func RandomHands(n int) []Hand {
	hands := make([]Hand, n)
	for i := range hands {
		h := make(Hand, HandSize)
		for j := range h {
			h[j] = Catalog[frand.Intn(len(Catalog))]
		}
		hands[i] = h
	}
	return hands
}
