// Package board implements the 8x8 puzzle grid: cell kinds, placement
// legality, and full row/column clearing. Grids are immutable values;
// mutating operations return a new grid that shares unmodified rows with
// its parent, so that successor generation does not deep-copy the whole
// board on every move.
package board

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/jpcoutinho/woodpath/piece"
)

// Size is the board edge length. Boards are always Size x Size.
const Size = 8

// Kind tags a cell. Target cells start at KindTarget; a tougher target
// would use a higher kind value and takes kind-1 hits to destroy.
type Kind int8

const (
	KindHint   Kind = -1
	KindEmpty  Kind = 0
	KindPlayer Kind = 1
	KindTarget Kind = 2
)

// A Cell is one square of the grid. Hits is the remaining resistance:
// 1 for player blocks, kind-1 for targets, 0 for empty and hint cells.
type Cell struct {
	Kind Kind
	Hits int8
}

// NewCell builds a cell of the given kind with its full resistance.
func NewCell(k Kind) Cell {
	switch {
	case k == KindHint || k == KindEmpty:
		return Cell{Kind: k}
	case k == KindPlayer:
		return Cell{Kind: k, Hits: 1}
	default:
		return Cell{Kind: k, Hits: int8(k) - 1}
	}
}

// Solid reports whether the cell participates in line clears. Hint cells
// are previews only and do not block placement.
func (c Cell) Solid() bool {
	return c.Kind != KindHint && c.Kind != KindEmpty
}

// IsTarget reports whether the cell is a breakable target.
func (c Cell) IsTarget() bool {
	return c.Kind >= KindTarget
}

// Hit applies one hit to a solid cell and returns the resulting cell,
// plus whether this hit destroyed a target. A target counts as cleared
// exactly once, on the hit that takes its last resistance level.
func (c Cell) Hit() (Cell, bool) {
	if !c.Solid() {
		return c, false
	}
	if c.Hits > 1 {
		return NewCell(c.Kind - 1), false
	}
	return Cell{}, c.IsTarget()
}

func (c Cell) rune() rune {
	switch {
	case c.Kind == KindEmpty:
		return '.'
	case c.Kind == KindHint:
		return '?'
	case c.Kind == KindPlayer:
		return '#'
	default:
		return rune('0' + c.Hits)
	}
}

// Grid is the board. The zero Grid is not usable; construct with Empty
// or FromKinds.
type Grid struct {
	rows [][]Cell
}

// Empty returns an all-empty grid.
func Empty() Grid {
	return FromKinds(nil)
}

// FromKinds builds a grid from a Size x Size matrix of cell kinds.
// Missing rows or cells are empty.
func FromKinds(kinds [][]Kind) Grid {
	rows := make([][]Cell, Size)
	for y := range rows {
		rows[y] = make([]Cell, Size)
		if y >= len(kinds) {
			continue
		}
		for x := range rows[y] {
			if x < len(kinds[y]) {
				rows[y][x] = NewCell(kinds[y][x])
			}
		}
	}
	return Grid{rows: rows}
}

// Kinds returns the grid as a matrix of cell kinds.
func (g Grid) Kinds() [][]Kind {
	kinds := make([][]Kind, Size)
	for y, row := range g.rows {
		kinds[y] = make([]Kind, Size)
		for x, c := range row {
			kinds[y][x] = c.Kind
		}
	}
	return kinds
}

// At returns the cell at (x, y).
func (g Grid) At(x, y int) Cell {
	return g.rows[y][x]
}

func inBounds(x, y int) bool {
	return x >= 0 && x < Size && y >= 0 && y < Size
}

// editor accumulates writes to a grid clone, copying each row at most
// once. Untouched rows stay shared with the source grid.
type editor struct {
	rows   [][]Cell
	copied [Size]bool
}

func (g Grid) edit() *editor {
	e := &editor{}
	e.rows = make([][]Cell, Size)
	copy(e.rows, g.rows)
	return e
}

func (e *editor) set(x, y int, c Cell) {
	if !e.copied[y] {
		row := make([]Cell, Size)
		copy(row, e.rows[y])
		e.rows[y] = row
		e.copied[y] = true
	}
	e.rows[y][x] = c
}

func (e *editor) grid() Grid {
	return Grid{rows: e.rows}
}

// place writes the piece's blocks with the given cell kind. The blocks
// are offsets; at is the piece origin.
func (g Grid) place(p piece.Piece, at piece.Point, k Kind) Grid {
	e := g.edit()
	for _, b := range p {
		e.set(at.X+b.X, at.Y+b.Y, NewCell(k))
	}
	return e.grid()
}

// Place returns a grid with the piece's blocks marked as player cells.
// The placement must already be legal per Fits.
func (g Grid) Place(p piece.Piece, at piece.Point) Grid {
	return g.place(p, at, KindPlayer)
}

// PlaceHint returns a grid with the piece previewed as hint cells.
// Hint cells are not solid and are overwritten by real placements.
func (g Grid) PlaceHint(p piece.Piece, at piece.Point) Grid {
	return g.place(p, at, KindHint)
}

// Fits reports whether every block of the piece lands on the board on a
// non-solid cell.
func (g Grid) Fits(p piece.Piece, at piece.Point) bool {
	for _, b := range p {
		x, y := at.X+b.X, at.Y+b.Y
		if !inBounds(x, y) {
			return false
		}
		if g.rows[y][x].Solid() {
			return false
		}
	}
	return true
}

// ClearFull clears every row and column whose cells are all solid. Each
// participating cell takes one hit: player blocks vanish, targets lose
// one resistance level. Returns the cleared grid, the number of lines
// (rows plus columns) cleared, and the number of targets destroyed.
// A cell at a row/column intersection is hit only once.
func (g Grid) ClearFull() (Grid, int, int) {
	var fullRows, fullCols []int
	for y := 0; y < Size; y++ {
		if lo.EveryBy(g.rows[y], Cell.Solid) {
			fullRows = append(fullRows, y)
		}
	}
	for x := 0; x < Size; x++ {
		full := true
		for y := 0; y < Size; y++ {
			if !g.rows[y][x].Solid() {
				full = false
				break
			}
		}
		if full {
			fullCols = append(fullCols, x)
		}
	}
	if len(fullRows) == 0 && len(fullCols) == 0 {
		return g, 0, 0
	}

	e := g.edit()
	hit := map[piece.Point]bool{}
	targets := 0
	hitCell := func(x, y int) {
		at := piece.Point{X: x, Y: y}
		if hit[at] {
			return
		}
		hit[at] = true
		c, cleared := g.rows[y][x].Hit()
		e.set(x, y, c)
		if cleared {
			targets++
		}
	}
	for _, y := range fullRows {
		for x := 0; x < Size; x++ {
			hitCell(x, y)
		}
	}
	for _, x := range fullCols {
		for y := 0; y < Size; y++ {
			hitCell(x, y)
		}
	}
	return e.grid(), len(fullRows) + len(fullCols), targets
}

// TargetsInRow counts target cells in row y.
func (g Grid) TargetsInRow(y int) int {
	return lo.CountBy(g.rows[y], Cell.IsTarget)
}

// TargetsInCol counts target cells in column x.
func (g Grid) TargetsInCol(x int) int {
	n := 0
	for y := 0; y < Size; y++ {
		if g.rows[y][x].IsTarget() {
			n++
		}
	}
	return n
}

// PlayersInRow counts ordinary player cells in row y.
func (g Grid) PlayersInRow(y int) int {
	return lo.CountBy(g.rows[y], func(c Cell) bool { return c.Kind == KindPlayer })
}

// PlayersInCol counts ordinary player cells in column x.
func (g Grid) PlayersInCol(x int) int {
	n := 0
	for y := 0; y < Size; y++ {
		if g.rows[y][x].Kind == KindPlayer {
			n++
		}
	}
	return n
}

// TargetLines returns the number of distinct rows and of distinct
// columns that contain at least one target cell.
func (g Grid) TargetLines() (int, int) {
	rows, cols := 0, 0
	var colHas [Size]bool
	for y := 0; y < Size; y++ {
		rowHas := false
		for x := 0; x < Size; x++ {
			if g.rows[y][x].IsTarget() {
				rowHas = true
				colHas[x] = true
			}
		}
		if rowHas {
			rows++
		}
	}
	for x := 0; x < Size; x++ {
		if colHas[x] {
			cols++
		}
	}
	return rows, cols
}

// Occupied counts cells that are not empty.
func (g Grid) Occupied() int {
	n := 0
	for _, row := range g.rows {
		n += lo.CountBy(row, func(c Cell) bool { return c.Kind != KindEmpty })
	}
	return n
}

// Perimeter counts solid-cell faces that border an empty cell or the
// board edge.
func (g Grid) Perimeter() int {
	perim := 0
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if !g.rows[y][x].Solid() {
				continue
			}
			if y == 0 || g.rows[y-1][x].Kind == KindEmpty {
				perim++
			}
			if y == Size-1 || g.rows[y+1][x].Kind == KindEmpty {
				perim++
			}
			if x == 0 || g.rows[y][x-1].Kind == KindEmpty {
				perim++
			}
			if x == Size-1 || g.rows[y][x+1].Kind == KindEmpty {
				perim++
			}
		}
	}
	return perim
}

// Jaggedness counts occupied cells sitting directly above an empty cell.
func (g Grid) Jaggedness() int {
	jagged := 0
	for y := 0; y < Size-1; y++ {
		for x := 0; x < Size; x++ {
			if g.rows[y][x].Kind != KindEmpty && g.rows[y+1][x].Kind == KindEmpty {
				jagged++
			}
		}
	}
	return jagged
}

// IsolatedGaps counts single empty cells flanked by occupied cells on
// both horizontal or both vertical sides. A cell pinched both ways
// counts twice.
func (g Grid) IsolatedGaps() int {
	count := 0
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if g.rows[y][x].Kind != KindEmpty {
				continue
			}
			if x > 0 && x < Size-1 &&
				g.rows[y][x-1].Kind != KindEmpty && g.rows[y][x+1].Kind != KindEmpty {
				count++
			}
			if y > 0 && y < Size-1 &&
				g.rows[y-1][x].Kind != KindEmpty && g.rows[y+1][x].Kind != KindEmpty {
				count++
			}
		}
	}
	return count
}

// Equal reports structural equality of two grids.
func (g Grid) Equal(o Grid) bool {
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if g.rows[y][x] != o.rows[y][x] {
				return false
			}
		}
	}
	return true
}

// AppendKey appends a canonical byte encoding of the grid to dst, for
// hashing board state.
func (g Grid) AppendKey(dst []byte) []byte {
	for _, row := range g.rows {
		for _, c := range row {
			dst = append(dst, byte(c.Kind), byte(c.Hits))
		}
	}
	return dst
}

func (g Grid) String() string {
	var sb strings.Builder
	for y, row := range g.rows {
		for _, c := range row {
			sb.WriteRune(c.rune())
		}
		if y < Size-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Render returns the grid with a coordinate header, for the CLI.
func (g Grid) Render() string {
	var sb strings.Builder
	sb.WriteString("  ")
	for x := 0; x < Size; x++ {
		fmt.Fprintf(&sb, "%d", x)
	}
	sb.WriteByte('\n')
	for y, row := range g.rows {
		fmt.Fprintf(&sb, "%d ", y)
		for _, c := range row {
			sb.WriteRune(c.rune())
		}
		if y < Size-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
