package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jpcoutinho/woodpath/ai"
	"github.com/jpcoutinho/woodpath/config"
	"github.com/jpcoutinho/woodpath/game"
	"github.com/jpcoutinho/woodpath/search"
	"github.com/jpcoutinho/woodpath/stats"
)

var (
	GitVersion string
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	var logger zerolog.Logger
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger

	log.Info().Str("version", GitVersion).
		Uint64("total-memory", memory.TotalMemory()).
		Msg("woodpath starting")

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("exiting")
	}
}

func run(cfg *config.Config) error {
	id, err := search.Lookup(cfg.Algorithm)
	if err != nil {
		return fmt.Errorf("%w; choose one of %s", err, strings.Join(search.Names(), ", "))
	}
	level := game.Level(cfg.Level)

	sink, err := stats.NewCSVSink(cfg.StatsPath)
	if err != nil {
		return err
	}
	ctl, err := ai.NewController(id, level, stats.MultiSink{sink, stats.LogSink{Logger: log.Logger}})
	if err != nil {
		return err
	}

	var elapsedMs stats.Statistic
	for run := 0; run < cfg.Runs; run++ {
		ctl.Reset()
		solved, moves, err := playGame(cfg, level, ctl, &elapsedMs)
		if err != nil {
			return err
		}
		log.Info().Int("run", run+1).Bool("solved", solved).Int("moves", moves).Msg("game over")
	}
	if elapsedMs.Iterations() > 1 {
		log.Info().
			Float64("mean-ms", elapsedMs.Mean()).
			Float64("stdev-ms", elapsedMs.Stdev()).
			Int("searches", elapsedMs.Iterations()).
			Msg("search timing over all runs")
	}
	return nil
}

func newGame(cfg *config.Config, level game.Level) (game.State, error) {
	if level != game.LevelCustom {
		return game.NewState(level)
	}
	f, err := os.Open(cfg.CustomFile)
	if err != nil {
		return game.State{}, err
	}
	defer f.Close()
	return game.LoadCustom(f)
}

type moveResult struct {
	status ai.Status
	move   *game.Move
}

func playGame(cfg *config.Config, level game.Level, ctl *ai.Controller, elapsedMs *stats.Statistic) (bool, int, error) {
	state, err := newGame(cfg, level)
	if err != nil {
		return false, 0, err
	}
	moves := 0
	for {
		if level.Bounded() && state.Solved() {
			return true, moves, nil
		}
		if !level.Bounded() && moves >= cfg.MaxMoves {
			return true, moves, nil
		}
		if state.Hand.AllEmpty() {
			next, ok := state.Refill()
			if !ok {
				log.Info().Msg("deal exhausted")
				return false, moves, nil
			}
			state = next
		}

		results := make(chan moveResult, 1)
		ctl.RequestMove(state,
			func(status ai.Status, move *game.Move) {
				results <- moveResult{status, move}
			},
			func(r *stats.Record) {
				if r != nil {
					elapsedMs.Push(float64(r.Elapsed) / float64(time.Millisecond))
				}
			},
			false)
		res := <-results
		if res.status != ai.StatusFound {
			log.Info().Stringer("status", res.status).Msg("no move")
			return false, moves, nil
		}
		state = game.Apply(state, res.move.Slot, res.move.At)
		moves++
		log.Debug().Int("move", moves).Stringer("played", res.move).Msg("applied move")
		if cfg.Debug {
			fmt.Println(state.Grid.Render())
		}
	}
}
