package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	RunMetadata
	Ticks  []int       `json:"sample_ticks"`
	Times  []float64   `json:"times"`
	States [][]float64 `json:"states"`
}

// ExportJSON writes the metadata and sampled states of a run as one JSON
// document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	tr, err := s.LoadStates(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		RunMetadata: *meta,
		Ticks:       tr.Ticks,
		Times:       tr.Times,
		States:      tr.States,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportCSV copies the states table of a run to w.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	fh, err := os.Open(s.StatesPath(runID))
	if err != nil {
		return err
	}
	defer fh.Close()

	_, err = io.Copy(w, fh)
	return err
}
