package plot

import (
	"fmt"
	"strings"

	"github.com/san-kum/tinytorch/internal/dynamo"
)

// TrajectorySVG renders two state components against each other as an
// SVG polyline on a dark background.
func TrajectorySVG(states []dynamo.State, xAxis, yAxis, width, height int, strokeColor string) (string, error) {
	if len(states) < 2 {
		return "", fmt.Errorf("plot: need at least 2 samples for SVG export")
	}
	if len(states[0]) <= xAxis || len(states[0]) <= yAxis {
		return "", fmt.Errorf("plot: state dimension %d too small for axes (%d, %d)", len(states[0]), xAxis, yAxis)
	}
	if strokeColor == "" {
		strokeColor = "#00ff00"
	}

	xData := Component(states, xAxis)
	yData := Component(states, yAxis)

	minX, maxX := bounds(xData)
	minY, maxY := bounds(yData)

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i := range xData {
		x := (xData[i] - minX) / rangeX * float64(width)
		y := float64(height) - (yData[i]-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String(), nil
}

// TimeSeriesSVG renders one state component against time.
func TimeSeriesSVG(states []dynamo.State, times []float64, idx, width, height int, strokeColor string) (string, error) {
	if len(states) != len(times) {
		return "", fmt.Errorf("plot: %d states but %d times", len(states), len(times))
	}
	// Fold time into a synthetic first axis so the polyline renderer
	// can treat it like a phase plot.
	pts := make([]dynamo.State, len(states))
	for i := range states {
		if idx >= len(states[i]) {
			return "", fmt.Errorf("plot: component %d out of range", idx)
		}
		pts[i] = dynamo.State{times[i], states[i][idx]}
	}
	return TrajectorySVG(pts, 0, 1, width, height, strokeColor)
}
