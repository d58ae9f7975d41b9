package game

import (
	"fmt"
	"io"
	"strconv"

	"github.com/cespare/xxhash"
	"gopkg.in/yaml.v3"

	"github.com/jpcoutinho/woodpath/board"
	"github.com/jpcoutinho/woodpath/piece"
)

// Move is one placement: the hand slot the piece came from, the piece
// itself, and the board position of its anchor cell.
type Move struct {
	Slot  int
	Piece piece.Piece
	At    piece.Point
}

func (m Move) String() string {
	return fmt.Sprintf("slot %d at (%d,%d)", m.Slot, m.At.X, m.At.Y)
}

// State is a full game position: the board, the current hand, the queue
// of hands still to be dealt, and the number of target hits remaining.
// LastMove records the placement that produced this state; it is nil
// for a freshly dealt game.
type State struct {
	Grid        board.Grid
	Hand        piece.Hand
	Pending     []piece.Hand
	TargetsLeft int
	LastMove    *Move
}

// Solved reports whether the target budget has been exhausted.
func (s State) Solved() bool {
	return s.TargetsLeft <= 0
}

// Key hashes the position for duplicate detection. Two states collide
// when their boards match and their hands hold the same multiset of
// pieces at the same point in the deal.
func (s State) Key() uint64 {
	b := s.Grid.AppendKey(nil)
	b = append(b, s.Hand.Key()...)
	b = strconv.AppendInt(b, int64(len(s.Pending)), 10)
	return xxhash.Sum64(b)
}

// Equal reports positional equality, under the same terms as Key.
func (s State) Equal(o State) bool {
	return len(s.Pending) == len(o.Pending) &&
		s.Hand.Key() == o.Hand.Key() &&
		s.Grid.Equal(o.Grid)
}

// Apply places the piece in the given hand slot at the given position,
// clears any completed lines, and returns the resulting state. The
// caller must have checked that the placement fits.
func Apply(s State, slot int, at piece.Point) State {
	p := s.Hand[slot]
	grid := s.Grid.Place(p, at)
	grid, _, targets := grid.ClearFull()
	hand := s.Hand.Clone()
	hand[slot] = nil
	mv := &Move{Slot: slot, Piece: p, At: at}
	return State{
		Grid:        grid,
		Hand:        hand,
		Pending:     s.Pending,
		TargetsLeft: s.TargetsLeft - targets,
		LastMove:    mv,
	}
}

// Refill replaces an exhausted hand with the next pending one. It
// reports false when the hand still holds pieces or the deal has run
// out.
func (s State) Refill() (State, bool) {
	if !s.Hand.AllEmpty() || len(s.Pending) == 0 {
		return s, false
	}
	s.Hand = s.Pending[0]
	s.Pending = s.Pending[1:]
	return s, true
}

// Successors enumerates every legal placement from s, in slot order and
// then board scan order. An exhausted hand is refilled from the pending
// queue first; an empty queue yields no successors.
func (s State) Successors() []State {
	if s.Hand.AllEmpty() {
		next, ok := s.Refill()
		if !ok {
			return nil
		}
		return next.Successors()
	}
	var out []State
	for slot, p := range s.Hand {
		if p == nil {
			continue
		}
		for y := 0; y < board.Size; y++ {
			for x := 0; x < board.Size; x++ {
				at := piece.Point{X: x, Y: y}
				if !s.Grid.Fits(p, at) {
					continue
				}
				out = append(out, Apply(s, slot, at))
			}
		}
	}
	return out
}

// Deadlocked reports whether none of the hand's pieces fits anywhere on
// the grid. An all-empty hand is not a deadlock; the next hand decides.
func Deadlocked(g board.Grid, hand piece.Hand) bool {
	for _, p := range hand {
		if p == nil {
			continue
		}
		for y := 0; y < board.Size; y++ {
			for x := 0; x < board.Size; x++ {
				if g.Fits(p, piece.Point{X: x, Y: y}) {
					return false
				}
			}
		}
	}
	return true
}

// LoadCustom reads a custom level definition, in the same YAML shape as
// the built-in levels, and deals a game on it. A definition may fix its
// own deal with a hands list of catalog piece indices; otherwise the
// deal is random.
func LoadCustom(r io.Reader) (State, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return State{}, err
	}
	var def levelDef
	if err := yaml.Unmarshal(raw, &def); err != nil {
		return State{}, fmt.Errorf("parsing custom level: %w", err)
	}
	grid, err := parseBoard(def.Board)
	if err != nil {
		return State{}, err
	}
	avail := 0
	for y := 0; y < board.Size; y++ {
		for x := 0; x < board.Size; x++ {
			if c := grid.At(x, y); c.IsTarget() {
				avail += int(c.Hits)
			}
		}
	}
	if def.Targets <= 0 {
		return State{}, fmt.Errorf("custom level: targets must be positive, got %d", def.Targets)
	}
	if def.Targets > avail {
		return State{}, fmt.Errorf("custom level: %d targets requested but only %d on the board", def.Targets, avail)
	}
	hands := piece.RandomHands(handsPerGame)
	if len(def.Hands) > 0 {
		hands, err = dealFromCatalog(def.Hands)
		if err != nil {
			return State{}, err
		}
	}
	return State{
		Grid:        grid,
		Hand:        hands[0],
		Pending:     hands[1:],
		TargetsLeft: def.Targets,
	}, nil
}

func dealFromCatalog(deal [][]int) ([]piece.Hand, error) {
	hands := make([]piece.Hand, len(deal))
	for i, idxs := range deal {
		if len(idxs) == 0 || len(idxs) > piece.HandSize {
			return nil, fmt.Errorf("custom level: hand %d has %d pieces, want 1 to %d", i, len(idxs), piece.HandSize)
		}
		pieces := make([]piece.Piece, len(idxs))
		for j, idx := range idxs {
			if idx < 0 || idx >= len(piece.Catalog) {
				return nil, fmt.Errorf("custom level: hand %d piece index %d out of range", i, idx)
			}
			pieces[j] = piece.Catalog[idx]
		}
		hands[i] = piece.NewHand(pieces...)
	}
	return hands, nil
}
