package stats

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Record captures one finished search: what ran, what it cost, and
// whether it produced a plan.
type Record struct {
	When            time.Time
	Level           string
	Algorithm       string
	Elapsed         time.Duration
	MemoryBytes     uint64
	StatesGenerated uint64
	PlanMoves       int
	Completed       bool
	Moves           []string
}

// Sink receives a record for each finished search.
type Sink interface {
	Record(r Record) error
}

// CSVSink appends records to per-algorithm CSV files under a directory:
// <Algorithm>_stats.csv for the run metrics and <Algorithm>_moves.csv
// for the plan itself.
type CSVSink struct {
	mu  sync.Mutex
	dir string
}

func NewCSVSink(dir string) (*CSVSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &CSVSink{dir: dir}, nil
}

var statsHeader = []string{
	"timestamp", "level", "elapsed_ms", "memory_bytes",
	"states_generated", "plan_moves", "completed",
}

func (s *CSVSink) Record(r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := []string{
		r.When.Format(time.RFC3339),
		r.Level,
		strconv.FormatFloat(float64(r.Elapsed)/float64(time.Millisecond), 'f', 3, 64),
		strconv.FormatUint(r.MemoryBytes, 10),
		strconv.FormatUint(r.StatesGenerated, 10),
		strconv.Itoa(r.PlanMoves),
		strconv.FormatBool(r.Completed),
	}
	if err := s.appendRow(r.Algorithm+"_stats.csv", statsHeader, row); err != nil {
		return err
	}
	if len(r.Moves) == 0 {
		return nil
	}
	moves := append([]string{r.When.Format(time.RFC3339)}, r.Moves...)
	return s.appendRow(r.Algorithm+"_moves.csv", nil, moves)
}

func (s *CSVSink) appendRow(name string, header, row []string) error {
	path := filepath.Join(s.dir, name)
	_, statErr := os.Stat(path)
	fresh := os.IsNotExist(statErr)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if fresh && header != nil {
		if err := w.Write(header); err != nil {
			return err
		}
	}
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// LogSink emits each record as a structured log line.
type LogSink struct {
	Logger zerolog.Logger
}

func (s LogSink) Record(r Record) error {
	s.Logger.Info().
		Str("level", r.Level).
		Str("algorithm", r.Algorithm).
		Dur("elapsed", r.Elapsed).
		Uint64("memory-bytes", r.MemoryBytes).
		Uint64("states-generated", r.StatesGenerated).
		Int("plan-moves", r.PlanMoves).
		Bool("completed", r.Completed).
		Msg("search finished")
	return nil
}

// MultiSink fans a record out to several sinks, returning the first
// error once every sink has seen the record.
type MultiSink []Sink

func (m MultiSink) Record(r Record) error {
	var firstErr error
	for _, s := range m {
		if err := s.Record(r); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
