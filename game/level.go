package game

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jpcoutinho/woodpath/board"
	"github.com/jpcoutinho/woodpath/cache"
	"github.com/jpcoutinho/woodpath/piece"
)

// Level selects a starting board and target budget. The endless level
// has no targets and no terminal condition.
type Level int

const (
	LevelCustom  Level = -1
	LevelEndless Level = 0
	Level1       Level = 1
	Level2       Level = 2
	Level3       Level = 3
)

// handsPerGame is how many 3-piece hands are dealt up front for a
// bounded level; the endless level gets ten times as many.
const (
	handsPerGame        = 33
	handsPerEndlessGame = 333
)

func (l Level) String() string {
	switch l {
	case LevelCustom:
		return "Custom"
	case LevelEndless:
		return "Endless"
	default:
		return fmt.Sprintf("Level %d", int(l))
	}
}

// Bounded reports whether the level has a target budget and therefore a
// goal test. The endless level has neither.
func (l Level) Bounded() bool {
	return l != LevelEndless
}

//go:embed levels.yaml
var levelsYAML []byte

type levelDef struct {
	ID      int     `yaml:"id"`
	Name    string  `yaml:"name"`
	Targets int     `yaml:"targets"`
	Board   [][]int `yaml:"board"`
	// Hands fixes the deal for custom levels: each entry is one hand of
	// catalog piece indices. Built-in levels leave it empty and deal
	// randomly.
	Hands [][]int `yaml:"hands"`
}

type levelFile struct {
	Levels []levelDef `yaml:"levels"`
}

func parseBoard(rows [][]int) (board.Grid, error) {
	if len(rows) != board.Size {
		return board.Grid{}, fmt.Errorf("board has %d rows, want %d", len(rows), board.Size)
	}
	kinds := make([][]board.Kind, board.Size)
	for y, row := range rows {
		if len(row) != board.Size {
			return board.Grid{}, fmt.Errorf("board row %d has %d cells, want %d", y, len(row), board.Size)
		}
		kinds[y] = make([]board.Kind, board.Size)
		for x, v := range row {
			kinds[y][x] = board.Kind(v)
		}
	}
	return board.FromKinds(kinds), nil
}

func levelDefs() (map[Level]levelDef, error) {
	obj, err := cache.Load("levels", func(string) (interface{}, error) {
		var lf levelFile
		if err := yaml.Unmarshal(levelsYAML, &lf); err != nil {
			return nil, fmt.Errorf("parsing embedded levels: %w", err)
		}
		defs := make(map[Level]levelDef, len(lf.Levels))
		for _, def := range lf.Levels {
			if _, err := parseBoard(def.Board); err != nil {
				return nil, fmt.Errorf("level %d: %w", def.ID, err)
			}
			defs[Level(def.ID)] = def
		}
		return defs, nil
	})
	if err != nil {
		return nil, err
	}
	return obj.(map[Level]levelDef), nil
}

// NewState deals a fresh game at the given level: the level's starting
// board, a first hand drawn from the dealt pending queue, and the
// level's target budget.
func NewState(l Level) (State, error) {
	if l == LevelCustom {
		return State{}, fmt.Errorf("custom games are loaded from a file; use LoadCustom")
	}
	if l == LevelEndless {
		hands := piece.RandomHands(handsPerEndlessGame)
		return State{
			Grid:    board.Empty(),
			Hand:    hands[0],
			Pending: hands[1:],
		}, nil
	}
	defs, err := levelDefs()
	if err != nil {
		return State{}, err
	}
	def, ok := defs[l]
	if !ok {
		return State{}, fmt.Errorf("no such level: %d", int(l))
	}
	grid, err := parseBoard(def.Board)
	if err != nil {
		return State{}, err
	}
	hands := piece.RandomHands(handsPerGame)
	return State{
		Grid:        grid,
		Hand:        hands[0],
		Pending:     hands[1:],
		TargetsLeft: def.Targets,
	}, nil
}
