package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/solarsim/internal/cosmos"
	"github.com/san-kum/solarsim/internal/sim"
	"github.com/san-kum/solarsim/internal/spacefile"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
	finalFile    = "final.txt"
)

// ErrNoFinal is returned when a run stopped before a final state was saved.
var ErrNoFinal = errors.New("storage: run has no final state")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Scenario   string             `json:"scenario"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Ticks      int                `json:"ticks"`
	TicksTaken int                `json:"ticks_taken"`
	Bodies     []string           `json:"bodies"`
	Metrics    map[string]float64 `json:"metrics"`
	Errors     []string           `json:"errors,omitempty"`
}

// Duration is the simulated time span actually covered.
func (m *RunMetadata) Duration() float64 {
	return m.Dt * float64(m.TicksTaken)
}

// Save writes metadata.json, the sampled frames as states.csv and, when
// final is non-nil, the final bodies as final.txt in the record format.
func (s *Store) Save(scenario string, cfg sim.Config, result *sim.Result, final *cosmos.Registry) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", slug(scenario), now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Scenario:   scenario,
		Timestamp:  now,
		Dt:         cfg.Dt,
		Ticks:      cfg.Ticks,
		TicksTaken: result.TicksTaken,
		Metrics:    finiteMetrics(result.Metrics),
	}
	if len(result.Frames) > 0 {
		for _, b := range result.Frames[0].Bodies {
			meta.Bodies = append(meta.Bodies, b.Kind.String())
		}
	}
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}

	if err := writeRun(runDir, meta, result.Frames, final); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return runID, nil
}

// writeRun fills a fresh run directory. A failed run leaves no directory
// behind for List to find.
func writeRun(runDir string, meta RunMetadata, frames []sim.Frame, final *cosmos.Registry) error {
	if final != nil {
		if err := spacefile.Save(filepath.Join(runDir, finalFile), final.Bodies()); err != nil {
			return err
		}
	}
	if err := writeStates(filepath.Join(runDir, statesFile), frames); err != nil {
		return err
	}
	return writeJSON(filepath.Join(runDir, metadataFile), meta)
}

// finiteMetrics drops NaN and Inf values, which JSON cannot carry.
func finiteMetrics(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
}

func writeJSON(path string, v any) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fh.Close()

	enc := json.NewEncoder(fh)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeStates(path string, frames []sim.Frame) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fh.Close()

	w := csv.NewWriter(fh)

	if len(frames) == 0 {
		w.Flush()
		return w.Error()
	}

	header := []string{"tick", "time"}
	for i := range frames[0].Bodies {
		header = append(header,
			fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i),
			fmt.Sprintf("vx%d", i), fmt.Sprintf("vy%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, f := range frames {
		row := []string{strconv.Itoa(f.Tick), formatFloat(f.Time)}
		for _, b := range f.Bodies {
			row = append(row,
				formatFloat(b.Pos.X), formatFloat(b.Pos.Y),
				formatFloat(b.Vel.X), formatFloat(b.Vel.Y))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// Trajectory is the sampled state table of a run. States[k] holds
// x, y, vx, vy for every body in registry order.
type Trajectory struct {
	Ticks  []int
	Times  []float64
	States [][]float64
}

func (tr *Trajectory) NumBodies() int {
	if len(tr.States) == 0 {
		return 0
	}
	return len(tr.States[0]) / 4
}

// Body returns the sampled position series of body i.
func (tr *Trajectory) Body(i int) (xs, ys []float64) {
	xs = make([]float64, 0, len(tr.States))
	ys = make([]float64, 0, len(tr.States))
	for _, row := range tr.States {
		if 4*i+1 >= len(row) {
			continue
		}
		xs = append(xs, row[4*i])
		ys = append(ys, row[4*i+1])
	}
	return xs, ys
}

func (s *Store) LoadStates(runID string) (*Trajectory, error) {
	fh, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	r := csv.NewReader(fh)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	tr := &Trajectory{}
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 2 {
			continue
		}

		tick, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		t, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}

		state := make([]float64, 0, len(record)-2)
		for _, field := range record[2:] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				val = 0
			}
			state = append(state, val)
		}

		tr.Ticks = append(tr.Ticks, tick)
		tr.Times = append(tr.Times, t)
		tr.States = append(tr.States, state)
	}

	return tr, nil
}

func (s *Store) LoadFinal(runID string) (*cosmos.Registry, error) {
	path := filepath.Join(s.baseDir, runID, finalFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNoFinal, runID)
	}
	loaded, err := spacefile.Load(path, spacefile.Options{Quiet: true})
	if err != nil {
		return nil, err
	}
	return loaded.Registry, nil
}

// StatesPath is the CSV file backing LoadStates.
func (s *Store) StatesPath(runID string) string {
	return filepath.Join(s.baseDir, runID, statesFile)
}

func slug(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, base)
	if base == "" || base == "." || base == "_" {
		return "run"
	}
	return base
}
