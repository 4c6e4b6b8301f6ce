package plot

import (
	"fmt"
	"strings"

	"github.com/san-kum/tinytorch/internal/dynamo"
)

const (
	phaseWidth  = 70
	phaseHeight = 20
)

// Phase renders a phase-space scatter of two state components. Glyphs
// encode time ordering: '.' early, 'o' middle, '●' late, so orbits and
// spirals read off the terminal directly.
func Phase(states []dynamo.State, xAxis, yAxis int) (string, error) {
	if len(states) == 0 {
		return "", fmt.Errorf("plot: no data")
	}
	if len(states[0]) <= xAxis || len(states[0]) <= yAxis {
		return "", fmt.Errorf("plot: state dimension %d too small for axes (%d, %d)", len(states[0]), xAxis, yAxis)
	}

	xData := Component(states, xAxis)
	yData := Component(states, yAxis)

	xMin, xMax := bounds(xData)
	yMin, yMax := bounds(yData)

	xRange := xMax - xMin
	yRange := yMax - yMin
	if xRange == 0 {
		xRange = 1
	}
	if yRange == 0 {
		yRange = 1
	}

	canvas := make([][]rune, phaseHeight)
	for i := range canvas {
		canvas[i] = make([]rune, phaseWidth)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for i := range xData {
		px := int(float64(phaseWidth-1) * (xData[i] - xMin) / xRange)
		py := int(float64(phaseHeight-1) * (yData[i] - yMin) / yRange)
		py = phaseHeight - 1 - py
		if px < 0 || px >= phaseWidth || py < 0 || py >= phaseHeight {
			continue
		}
		switch {
		case i < len(xData)/3:
			canvas[py][px] = '.'
		case i < 2*len(xData)/3:
			canvas[py][px] = 'o'
		default:
			canvas[py][px] = '●'
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "  %.2f ┌%s┐\n", yMax, strings.Repeat("─", phaseWidth))
	for i := range canvas {
		if i == phaseHeight/2 {
			fmt.Fprintf(&sb, "  %.2f │", (yMax+yMin)/2)
		} else {
			sb.WriteString("       │")
		}
		sb.WriteString(string(canvas[i]))
		sb.WriteString("│\n")
	}
	fmt.Fprintf(&sb, "  %.2f └%s┘\n", yMin, strings.Repeat("─", phaseWidth))
	fmt.Fprintf(&sb, "       %.2f%s%.2f\n", xMin, strings.Repeat(" ", phaseWidth-20), xMax)
	sb.WriteString("\nlegend: . = early, o = middle, ● = late\n")
	return sb.String(), nil
}

func bounds(data []float64) (min, max float64) {
	min, max = data[0], data[0]
	for _, v := range data {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
