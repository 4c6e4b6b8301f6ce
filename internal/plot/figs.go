package plot

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/san-kum/tinytorch/internal/dataset"
	"github.com/san-kum/tinytorch/internal/dynamo"
)

const (
	figWidth  = 800
	figHeight = 500
)

// FigWriter renders figure files into a tree mirroring the dataset
// layout:
//
//	figs/
//	  full_system/<run-id>/x0_vs_time.svg ...
//	  reduced_system/<run-id>/...
type FigWriter struct {
	baseDir string
}

func NewFigWriter(baseDir string) *FigWriter {
	return &FigWriter{baseDir: baseDir}
}

func (f *FigWriter) BaseDir() string { return f.baseDir }

// WriteRun renders time-series SVGs for each state component and a
// phase portrait of the first two, under the run's variant subtree.
// Returns the paths written.
func (f *FigWriter) WriteRun(meta *dataset.RunMetadata, states []dynamo.State, times []float64, labels []string) ([]string, error) {
	if len(states) == 0 {
		return nil, fmt.Errorf("plot: no data for run %s", meta.ID)
	}

	runDir := filepath.Join(f.baseDir, dataset.VariantDir(meta.Variant), meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, err
	}

	numVars := len(states[0])
	if numVars > maxSeries {
		numVars = maxSeries
	}

	var written []string
	for idx := 0; idx < numVars; idx++ {
		svg, err := TimeSeriesSVG(states, times, idx, figWidth, figHeight, "")
		if err != nil {
			return written, err
		}
		name := fmt.Sprintf("x%d_vs_time.svg", idx)
		if idx < len(labels) && labels[idx] != "" {
			name = sanitize(labels[idx]) + "_vs_time.svg"
		}
		path := filepath.Join(runDir, name)
		if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if len(states[0]) >= 2 {
		svg, err := TrajectorySVG(states, 0, 1, figWidth, figHeight, "#00ccff")
		if err != nil {
			return written, err
		}
		path := filepath.Join(runDir, "phase_x0_x1.svg")
		if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	return written, nil
}

func sanitize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
