// Package store persists simulation runs to disk so they can be
// listed, plotted, and exported later. Each run gets its own
// directory holding a metadata.json and a states.csv.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/san-kum/mbdsim/internal/sim"
)

// Channel labels one coordinate of the state vector.
type Channel struct {
	Label string `json:"label"`
	Index int    `json:"index"`
}

// RunMetadata describes a saved run.
type RunMetadata struct {
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Scheme    string             `json:"scheme"`
	Terrain   string             `json:"terrain,omitempty"`
	Channels  []Channel          `json:"channels,omitempty"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Store writes runs under a base directory.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Save writes one run and returns its ID.
func (s *Store) Save(scenario string, dt, duration float64, scheme, terrain string, channels []Channel, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", errors.Wrap(err, "create run directory")
	}

	meta := RunMetadata{
		ID:        runID,
		Scenario:  scenario,
		Timestamp: time.Now(),
		Dt:        dt,
		Duration:  duration,
		Scheme:    scheme,
		Terrain:   terrain,
		Channels:  channels,
		Metrics:   result.Metrics,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", errors.Wrap(err, "create metadata file")
	}
	defer metaFile.Close()

	encoder := json.NewEncoder(metaFile)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(meta); err != nil {
		return "", errors.Wrap(err, "encode metadata")
	}

	csvPath := filepath.Join(runDir, "states.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", errors.Wrap(err, "create states file")
	}
	defer csvFile.Close()

	writer := csv.NewWriter(csvFile)
	defer writer.Flush()

	header := []string{"time"}
	if len(result.States) > 0 {
		for i := range result.States[0] {
			header = append(header, fmt.Sprintf("x%d", i))
		}
	}
	if err := writer.Write(header); err != nil {
		return "", errors.Wrap(err, "write csv header")
	}

	for i, state := range result.States {
		row := []string{strconv.FormatFloat(result.Times[i], 'g', -1, 64)}
		for _, v := range state {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := writer.Write(row); err != nil {
			return "", errors.Wrap(err, "write csv row")
		}
	}

	return runID, nil
}

// List returns metadata for all saved runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read store directory")
	}

	var runs []RunMetadata
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
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, errors.Wrapf(err, "read metadata for %s", runID)
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, "parse metadata for %s", runID)
	}
	return &meta, nil
}

// LoadStates reads back the trajectory of a saved run.
func (s *Store) LoadStates(runID string) ([][]float64, []float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "states.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open states for %s", runID)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, errors.Wrapf(err, "read states for %s", runID)
	}
	if len(records) < 2 {
		return nil, nil, nil
	}

	var states [][]float64
	var times []float64
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		state := make([]float64, 0, len(record)-1)
		for _, field := range record[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				break
			}
			state = append(state, v)
		}
		if len(state) != len(record)-1 {
			continue
		}
		times = append(times, t)
		states = append(states, state)
	}
	return states, times, nil
}
