package config

import "github.com/namsral/flag"

type Config struct {
	Algorithm  string
	Level      int
	CustomFile string
	StatsPath  string
	Runs       int
	MaxMoves   int
	Debug      bool
}

func (c *Config) Load(args []string) error {
	fs := flag.NewFlagSet("woodpath", flag.ContinueOnError)
	fs.StringVar(&c.Algorithm, "algorithm", "AStar", "the search algorithm to plan moves with")
	fs.IntVar(&c.Level, "level", 1, "the level to play: 1-3, 0 for endless, -1 for a custom file")
	fs.StringVar(&c.CustomFile, "custom-file", "", "path to a custom level definition (YAML)")
	fs.StringVar(&c.StatsPath, "stats-path", "./data/stats", "directory to write per-algorithm stats CSVs into")
	fs.IntVar(&c.Runs, "runs", 1, "how many games to play")
	fs.IntVar(&c.MaxMoves, "max-moves", 200, "move cap per game, for play without targets")
	fs.BoolVar(&c.Debug, "debug", false, "debug logging")
	err := fs.Parse(args)
	return err
}
