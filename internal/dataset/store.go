// Package dataset persists simulation runs as a foundation dataset tree:
//
//	foundation/
//	  full_system/<run-id>/metadata.json
//	  full_system/<run-id>/states.csv
//	  full_system/derivatives/<run-id>.csv
//	  reduced_system/...
//
// and converts stored trajectories to tensors for the learning stage.
package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/tinytorch/internal/dynamo"
)

const derivativesDir = "derivatives"

// VariantDir maps a variant name to its directory in the tree.
func VariantDir(variant string) string {
	return variant + "_system"
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	for _, v := range []string{"full", "reduced"} {
		if err := os.MkdirAll(filepath.Join(s.baseDir, VariantDir(v), derivativesDir), 0755); err != nil {
			return err
		}
	}
	return nil
}

// BaseDir returns the root of the foundation tree.
func (s *Store) BaseDir() string { return s.baseDir }

type RunMetadata struct {
	ID         string             `json:"id"`
	Family     string             `json:"family"`
	Variant    string             `json:"variant"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes a run under the variant's subtree and returns its ID.
func (s *Store) Save(family, variant string, dt, duration float64, seed int64, integrator string, result *dynamo.Result) (string, error) {
	runID := fmt.Sprintf("%s_%s_%s", family, variant, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, VariantDir(variant), runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Family:     family,
		Variant:    variant,
		Timestamp:  time.Now(),
		Seed:       seed,
		Dt:         dt,
		Duration:   duration,
		Integrator: integrator,
		Metrics:    result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := writeStatesCSV(filepath.Join(runDir, "states.csv"), result.States, result.Times); err != nil {
		return "", err
	}

	return runID, nil
}

func writeStatesCSV(path string, states []dynamo.State, times []float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if len(states) == 0 {
		return nil
	}

	header := []string{"time"}
	for i := range states[0] {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range states {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, val := range states[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// List returns the metadata of every stored run across both variants.
func (s *Store) List() ([]RunMetadata, error) {
	runs := make([]RunMetadata, 0)
	for _, v := range []string{"full", "reduced"} {
		entries, err := os.ReadDir(filepath.Join(s.baseDir, VariantDir(v)))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		for _, entry := range entries {
			if !entry.IsDir() || entry.Name() == derivativesDir {
				continue
			}
			meta, err := s.Load(entry.Name())
			if err != nil {
				continue
			}
			runs = append(runs, *meta)
		}
	}
	return runs, nil
}

func (s *Store) runDir(runID string) (string, error) {
	for _, v := range []string{"full", "reduced"} {
		dir := filepath.Join(s.baseDir, VariantDir(v), runID)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, nil
		}
	}
	return "", fmt.Errorf("dataset: run not found: %s", runID)
}

// Load reads a run's metadata by ID, searching both variant subtrees.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadStates reads a run's trajectory.
func (s *Store) LoadStates(runID string) ([]dynamo.State, []float64, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, nil, err
	}
	return readStatesCSV(filepath.Join(dir, "states.csv"))
}

func readStatesCSV(path string) ([]dynamo.State, []float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []dynamo.State{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	states := make([]dynamo.State, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) == 0 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		state := make(dynamo.State, 0, len(record)-1)
		for j := 1; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			state = append(state, val)
		}
		times = append(times, t)
		states = append(states, state)
	}

	return states, times, nil
}

// SaveDerivatives writes a derivative dataset next to its run, under
// the variant's derivatives subtree.
func (s *Store) SaveDerivatives(runID string, derivs []dynamo.State, times []float64) (string, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.baseDir, VariantDir(meta.Variant), derivativesDir, runID+".csv")
	if err := writeStatesCSV(path, derivs, times); err != nil {
		return "", err
	}
	return path, nil
}

// LoadDerivatives reads a previously computed derivative dataset.
func (s *Store) LoadDerivatives(runID string) ([]dynamo.State, []float64, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	path := filepath.Join(s.baseDir, VariantDir(meta.Variant), derivativesDir, runID+".csv")
	return readStatesCSV(path)
}
