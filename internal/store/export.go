package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/mbdsim/internal/sim"
)

// ExportData is the JSON shape written by the export commands.
type ExportData struct {
	Scenario string             `json:"scenario"`
	Scheme   string             `json:"scheme"`
	Terrain  string             `json:"terrain,omitempty"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Steps    int                `json:"steps"`
	Channels []Channel          `json:"channels,omitempty"`
	Times    []float64          `json:"times"`
	States   [][]float64        `json:"states"`
	Metrics  map[string]float64 `json:"metrics"`
}

// ExportJSON writes a run as indented JSON to path.
func ExportJSON(path, scenario, scheme, terrain string, dt, duration float64, channels []Channel, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return exportJSON(file, scenario, scheme, terrain, dt, duration, channels, result)
}

// ExportJSONStdout writes a run as indented JSON to standard output.
func ExportJSONStdout(scenario, scheme, terrain string, dt, duration float64, channels []Channel, result *sim.Result) error {
	return exportJSON(os.Stdout, scenario, scheme, terrain, dt, duration, channels, result)
}

func exportJSON(w io.Writer, scenario, scheme, terrain string, dt, duration float64, channels []Channel, result *sim.Result) error {
	data := ExportData{
		Scenario: scenario,
		Scheme:   scheme,
		Terrain:  terrain,
		Dt:       dt,
		Duration: duration,
		Steps:    len(result.Times),
		Channels: channels,
		Times:    result.Times,
		States:   result.States,
		Metrics:  result.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
