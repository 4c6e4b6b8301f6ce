// Package plot renders stored trajectories as terminal graphs, phase
// portraits, and SVG figures, and writes figure trees mirroring the
// dataset layout.
package plot

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/tinytorch/internal/dynamo"
)

const (
	graphHeight = 10
	graphWidth  = 80
	maxSeries   = 6
)

// Series renders one asciigraph per state component, up to maxSeries.
// labels name the components; missing labels fall back to x0, x1, ...
func Series(states []dynamo.State, labels []string) string {
	if len(states) == 0 {
		return ""
	}

	numVars := len(states[0])
	if numVars > maxSeries {
		numVars = maxSeries
	}

	var sb strings.Builder
	for varIdx := 0; varIdx < numVars; varIdx++ {
		data := make([]float64, len(states))
		for i := range states {
			if varIdx < len(states[i]) {
				data[i] = states[i][varIdx]
			}
		}

		caption := fmt.Sprintf("x%d vs time", varIdx)
		if varIdx < len(labels) && labels[varIdx] != "" {
			caption = labels[varIdx]
		}

		sb.WriteString(asciigraph.Plot(data,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption(caption),
		))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// Component extracts one state component as a flat series.
func Component(states []dynamo.State, idx int) []float64 {
	data := make([]float64, len(states))
	for i := range states {
		if idx < len(states[i]) {
			data[i] = states[i][idx]
		}
	}
	return data
}

// Spectrum renders a power spectrum with the low-frequency quarter
// kept, which is where the interesting peaks of slow dynamics live.
func Spectrum(power []float64, caption string) string {
	if len(power) == 0 {
		return ""
	}
	plotData := power
	if len(power) >= 4 {
		plotData = power[:len(power)/4]
	}
	return asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(graphWidth),
		asciigraph.Caption(caption),
	)
}
